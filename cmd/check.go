package cmd

import (
	"fmt"
	"os"

	"github.com/expr-lang/expr"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/melih-ucgun/hostcap/internal/report"
)

var checkWhen string

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Evaluate a capability expression against the target host",
	Long: `Evaluates an expression over the probe results and exits 0 when it
holds, 1 when it does not. Available variables: booted (bool), version
(int, 0 when unknown), has_scope (bool).

  hostcap check --when 'booted && version >= 240'
  hostcap check --when 'has_scope' && systemd-run --scope ./job`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if checkWhen == "" {
			return fmt.Errorf("--when expression is required")
		}

		sc, err := newSystemContext()
		if err != nil {
			return err
		}
		defer sc.Transport.Close()

		rep, err := report.Collect(sc)
		if err != nil {
			return err
		}

		ok, err := evalWhen(checkWhen, rep)
		if err != nil {
			return err
		}
		if !ok {
			pterm.Error.Printfln("condition not met: %s", checkWhen)
			sc.Transport.Close()
			os.Exit(1)
		}
		pterm.Success.Printfln("condition met: %s", checkWhen)
		return nil
	},
}

// evalWhen compiles and runs a gate expression against a report.
func evalWhen(condition string, rep *report.Report) (bool, error) {
	env := map[string]any{
		"booted":    rep.Booted,
		"version":   0,
		"has_scope": rep.HasScope,
	}
	if rep.Version != nil {
		env["version"] = *rep.Version
	}

	program, err := expr.Compile(condition, expr.Env(env), expr.AsBool())
	if err != nil {
		return false, fmt.Errorf("invalid --when expression: %w", err)
	}
	out, err := expr.Run(program, env)
	if err != nil {
		return false, fmt.Errorf("could not evaluate --when expression: %w", err)
	}

	result, ok := out.(bool)
	return ok && result, nil
}

func init() {
	checkCmd.Flags().StringVar(&checkWhen, "when", "", "boolean expression over booted, version and has_scope")
	rootCmd.AddCommand(checkCmd)
}
