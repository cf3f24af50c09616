package main

import (
	"os"
	"strings"

	"blocktree/internal/cli"
)

const blockIDPrefix = "blk-"

func isBlockID(s string) bool {
	s = strings.TrimSpace(s)
	return strings.HasPrefix(s, blockIDPrefix) && len(s) > len(blockIDPrefix)
}

// rewriteDirectShowArgs turns `blocktree [flags] <block-id>` into
// `blocktree [flags] show <block-id>`. Cobra would otherwise read the id as a
// subcommand name.
func rewriteDirectShowArgs(argv []string) []string {
	if len(argv) < 2 {
		return argv
	}

	valueFlags := map[string]bool{
		"--db":        true,
		"--owner":     true,
		"--format":    true,
		"--config":    true,
		"--log-level": true,
	}

	insert := func(i int) []string {
		out := make([]string, 0, len(argv)+1)
		out = append(out, argv[:i]...)
		out = append(out, "show")
		return append(out, argv[i:]...)
	}

	for i := 1; i < len(argv); i++ {
		a := strings.TrimSpace(argv[i])
		switch {
		case a == "":
			continue
		case a == "--":
			if i+1 < len(argv) && isBlockID(argv[i+1]) {
				return insert(i + 1)
			}
			return argv
		case strings.HasPrefix(a, "-"):
			// Unknown flags are assumed to be boolean so the id is never consumed.
			if !strings.Contains(a, "=") && valueFlags[a] {
				i++
			}
			continue
		case isBlockID(a):
			return insert(i)
		default:
			return argv
		}
	}
	return argv
}

func main() {
	os.Args = rewriteDirectShowArgs(os.Args)

	cmd := cli.NewRootCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
