// Command uno is the cobra CLI wrapper of SPEC_FULL.md section A.4: a root command that
// sets up slog logging (--log-level, --log-format) and a version subcommand. It does not
// load Options, build a model or run the solver.
package main

import (
	"log"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("uno: %v", err)
	}
}
