package main

import (
	"errors"
	"fmt"
	"os"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

// run executes the CLI and maps the outcome to a process exit code:
// 0 success or passing gate, 1 tool error, 2 failing verdict, 3 warning
// verdict when warnings are fatal.
func run(args []string) int {
	cmd := newRootCmd()
	cmd.SetArgs(args)
	if err := cmd.Execute(); err != nil {
		var verdict *verdictError
		if errors.As(err, &verdict) {
			fmt.Fprintf(os.Stderr, "perfgate: %v\n", verdict)
			return verdict.code
		}
		fmt.Fprintf(os.Stderr, "perfgate: %v\n", err)
		return 1
	}
	return 0
}
