package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rpalvm/rpal/internal/disasm"
	"github.com/rpalvm/rpal/internal/pipeline"
	"github.com/rpalvm/rpal/internal/rpalerr"
)

var disasmCmd = &cobra.Command{
	Use:   "disasm <file>",
	Short: "Compile a file and print its control structures without running it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		content, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("rpal: cannot read %s: %w", args[0], err)
		}

		result, err := pipeline.Run(string(content), pipeline.Options{Evaluate: false})
		if err != nil {
			if rerr, ok := err.(*rpalerr.Error); ok {
				fmt.Fprintln(os.Stderr, rerr.Format(true))
			} else {
				fmt.Fprintln(os.Stderr, err)
			}
			os.Exit(1)
		}

		disasm.Write(os.Stdout, result.Family)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(disasmCmd)
}
