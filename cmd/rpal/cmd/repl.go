package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/rpalvm/rpal/internal/replshell"
)

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Start an interactive RPAL session",
	Long: `Start a read-eval-print loop. Enter any RPAL expression to evaluate
it immediately, or "name := expr" to give it a name that stays visible to
later lines via ordinary RPAL lexical scoping.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return replshell.Run(os.Stdout)
	},
}

func init() {
	rootCmd.AddCommand(replCmd)
}
