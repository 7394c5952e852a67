// Command specedit runs and exercises the speculative-edit inference
// core as a standalone process, mirroring the teacher's cmd/echo.go
// cobra-based entry point.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	root := newRootCmd()
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "specedit",
		Short: "Speculative-edit inference core control CLI",
		Long: "specedit drives the speculative-edit draft-alignment engine: serve its " +
			"control plane, simulate a request against a draft, or benchmark the aligner.",
	}

	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newSimulateCmd())
	cmd.AddCommand(newBenchCmd())
	return cmd
}
