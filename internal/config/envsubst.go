package config

import (
	"os"
	"regexp"
	"strings"
)

var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// substituteEnvVars expands ${VAR}, ${VAR:-default} and ${VAR:?message}.
// An empty value counts as unset for the :- and :? forms. References that
// cannot be resolved stay in the content and are reported in missing.
// Comment lines are left alone.
func substituteEnvVars(content string) (string, []string) {
	var missing []string
	lines := strings.SplitAfter(content, "\n")
	for i, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), "#") {
			continue
		}
		lines[i] = expandLine(line, &missing)
	}
	return strings.Join(lines, ""), missing
}

func expandLine(line string, missing *[]string) string {
	return envVarPattern.ReplaceAllStringFunc(line, func(match string) string {
		expr := match[2 : len(match)-1]
		if name, def, ok := strings.Cut(expr, ":-"); ok {
			if v := os.Getenv(name); v != "" {
				return v
			}
			return def
		}
		if name, msg, ok := strings.Cut(expr, ":?"); ok {
			if v := os.Getenv(name); v != "" {
				return v
			}
			*missing = append(*missing, name+": "+msg)
			return match
		}
		if v, ok := os.LookupEnv(expr); ok {
			return v
		}
		*missing = append(*missing, expr)
		return match
	})
}
