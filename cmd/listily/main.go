package main

import (
	"os"
	"strings"

	"listily/internal/cli"
)

func isTaskID(s string) bool {
	s = strings.TrimSpace(s)
	// Permissive on purpose; ids are generated but users paste variants.
	return strings.HasPrefix(s, "task-") && len(s) > len("task-")
}

// rewriteDirectTaskToggleArgs makes `listily <task-id>` behave like
// `listily task done <task-id>`, the most common one-liner. Cobra treats the
// first non-flag token as a subcommand, so argv is rewritten before parsing.
func rewriteDirectTaskToggleArgs(argv []string) []string {
	if len(argv) < 2 {
		return argv
	}

	valueFlags := map[string]bool{
		"--dir":    true,
		"--format": true,
	}

	for i := 1; i < len(argv); i++ {
		a := strings.TrimSpace(argv[i])
		if a == "" {
			continue
		}
		if strings.HasPrefix(a, "-") {
			if strings.Contains(a, "=") {
				continue
			}
			if valueFlags[a] {
				i++
			}
			continue
		}
		if isTaskID(a) {
			out := make([]string, 0, len(argv)+2)
			out = append(out, argv[:i]...)
			out = append(out, "task", "done")
			out = append(out, argv[i:]...)
			return out
		}
		return argv
	}
	return argv
}

func main() {
	os.Args = rewriteDirectTaskToggleArgs(os.Args)

	cmd := cli.NewRootCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
