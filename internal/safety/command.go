package safety

import (
	"regexp"
	"strings"
)

// dangerousPatterns matches known-destructive shell idioms. Checked in
// order; the first match blocks the command. This is a blocklist, not a
// sandbox.
var dangerousPatterns = []*regexp.Regexp{
	// Recursive deletion of root, home or variable expansions of them
	regexp.MustCompile(`rm\s+(-[a-zA-Z]*[rR][a-zA-Z]*\s+)+(/|\*|~|\$HOME|\$\{HOME\})`),
	// Disk formatting and overwriting block devices
	regexp.MustCompile(`\bmkfs(\.\w+)?\b`),
	regexp.MustCompile(`\bdd\s+.*of=/dev/`),
	regexp.MustCompile(`>\s*/dev/(sd|nvme|hd|vd)`),
	// Fork bombs
	regexp.MustCompile(`:\s*\(\s*\)\s*\{.*\|.*&.*\}\s*;?\s*:`),
	regexp.MustCompile(`:\s*\(\s*\)\s*\{`),
	// Mass permission changes at the root
	regexp.MustCompile(`ch(mod|own)\s+(-[a-zA-Z]*R[a-zA-Z]*\s+)?.*\s+/\s*$`),
	regexp.MustCompile(`chmod\s+(-R\s+)?777\s+/`),
	// System shutdown
	regexp.MustCompile(`\b(shutdown|reboot|halt|poweroff)\b`),
	// Mass process termination
	regexp.MustCompile(`\bkill(all)?\s+-9\s+(-1|1)\b`),
	regexp.MustCompile(`\bpkill\s+-9\s+\.`),
	// Piping a network download straight into a shell interpreter
	regexp.MustCompile(`(?i)(curl|wget)\s+[^|;]*\|\s*(ba|z|da)?sh`),
}

// IsCommandSafe tests a shell command against the blocklist. The reason is
// deliberately generic so blocked output does not teach workarounds.
func (g *Gate) IsCommandSafe(command string) (bool, string) {
	trimmed := strings.TrimSpace(command)
	if trimmed == "" {
		return false, "empty command"
	}

	for _, pattern := range dangerousPatterns {
		if pattern.MatchString(trimmed) {
			return false, "blocked dangerous pattern"
		}
	}
	return true, ""
}
