package cmd

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/rpalvm/rpal/internal/disasm"
	"github.com/rpalvm/rpal/internal/dotviz"
	"github.com/rpalvm/rpal/internal/pipeline"
	"github.com/rpalvm/rpal/internal/rpalerr"
	"github.com/rpalvm/rpal/internal/trace"
	"github.com/rpalvm/rpal/internal/watch"
)

var (
	traceFlag     bool
	traceDump     string
	dumpCS        bool
	dumpAST       bool
	dumpST        bool
	visualizeFlag string
	watchFlag     bool
)

var runCmd = &cobra.Command{
	Use:   "run <file>",
	Short: "Run an RPAL source file",
	Long: `Execute an RPAL program: lex, parse, standardize, compile into
control structures, and evaluate on the CSE machine.

Examples:
  rpal run program.rpal
  rpal run --dump-cs program.rpal
  rpal run --visualize=st program.rpal
  rpal run --watch program.rpal`,
	Args: cobra.ExactArgs(1),
	RunE: runFile,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().BoolVar(&traceFlag, "trace", false, "trace every CSE machine step to stderr")
	runCmd.Flags().StringVar(&traceDump, "trace-dump", "", "additionally write an lz4-compressed trace to this file")
	runCmd.Flags().BoolVar(&dumpCS, "dump-cs", false, "print the compiled control-structure family before evaluating")
	runCmd.Flags().BoolVar(&dumpAST, "dump-ast", false, "print the parsed AST before standardizing")
	runCmd.Flags().BoolVar(&dumpST, "dump-st", false, "print the standardized tree before compiling")
	runCmd.Flags().StringVar(&visualizeFlag, "visualize", "", "write Graphviz DOT for the tree to stdout; ast or st (default ast)")
	runCmd.Flags().Lookup("visualize").NoOptDefVal = "ast"
	runCmd.Flags().BoolVar(&watchFlag, "watch", false, "rerun whenever the source file changes")
}

func runFile(_ *cobra.Command, args []string) error {
	filename := args[0]

	execute := func() bool {
		content, err := os.ReadFile(filename)
		if err != nil {
			fmt.Fprintf(os.Stderr, "rpal: cannot read %s: %v\n", filename, err)
			return false
		}
		return runOnce(string(content), filename)
	}

	if watchFlag {
		return watch.Run(os.Stderr, filename, func() { execute() })
	}

	if !execute() {
		os.Exit(1)
	}
	return nil
}

func runOnce(source, filename string) bool {
	sessionID := uuid.NewString()[:8]

	var tracer *trace.Tracer
	if traceFlag || traceDump != "" {
		tracer = trace.New(os.Stderr, sessionID)
		if traceDump != "" {
			if err := tracer.WithCompressedDump(traceDump); err != nil {
				fmt.Fprintln(os.Stderr, err)
				return false
			}
			defer tracer.Close()
		}
	}

	opts := pipeline.Options{Evaluate: true, Out: os.Stdout}
	if tracer != nil {
		opts.Tracer = tracer
	}

	result, err := pipeline.Run(source, opts)

	if result != nil {
		if dumpAST && result.AST != nil {
			fmt.Fprintln(os.Stderr, "AST:")
			fmt.Fprintln(os.Stderr, result.AST.String())
		}
		if dumpST && result.ST != nil {
			fmt.Fprintln(os.Stderr, "ST:")
			fmt.Fprintln(os.Stderr, result.ST.String())
		}
		if dumpCS && result.Family != nil {
			disasm.Write(os.Stderr, result.Family)
		}
		if visualizeFlag != "" {
			switch visualizeFlag {
			case "st":
				if result.ST != nil {
					dotviz.WriteST(os.Stdout, result.ST)
				}
			default:
				if result.AST != nil {
					dotviz.WriteAST(os.Stdout, result.AST)
				}
			}
		}
	}

	if err != nil {
		if rerr, ok := err.(*rpalerr.Error); ok {
			fmt.Fprintln(os.Stderr, rerr.Format(true))
		} else {
			fmt.Fprintln(os.Stderr, err)
		}
		return false
	}
	return true
}
