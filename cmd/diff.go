package cmd

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/pterm/pterm"
	"github.com/sergi/go-diff/diffmatchpatch"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/melih-ucgun/hostcap/internal/report"
)

var diffCmd = &cobra.Command{
	Use:   "diff [file]",
	Short: "Compare the live capability report against a baseline",
	Long: `Re-probes the target host and diffs the result against a baseline
written by 'hostcap snapshot'. Exits 1 when the capabilities drifted.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := defaultBaselinePath
		if len(args) == 1 {
			path = args[0]
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("could not read baseline %s: %w", path, err)
		}
		var baseline report.Report
		if err := yaml.Unmarshal(data, &baseline); err != nil {
			return fmt.Errorf("could not parse baseline %s: %w", path, err)
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

		base, err := baseline.FactsYAML()
		if err != nil {
			return err
		}
		live, err := rep.FactsYAML()
		if err != nil {
			return err
		}

		if base == live {
			pterm.Success.Printfln("no capability drift against %s", path)
			return nil
		}

		fmt.Fprint(os.Stdout, renderDiff(base, live))
		pterm.Error.Printfln("capabilities drifted from %s", path)
		sc.Transport.Close()
		os.Exit(1)
		return nil
	},
}

// renderDiff produces a minimal +/- line view of two yaml documents.
func renderDiff(current, desired string) string {
	dmp := diffmatchpatch.New()
	a, b, lines := dmp.DiffLinesToChars(current, desired)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)

	var buf bytes.Buffer
	for _, d := range diffs {
		prefix := "  "
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			prefix = "+ "
		case diffmatchpatch.DiffDelete:
			prefix = "- "
		}
		for _, line := range strings.Split(d.Text, "\n") {
			if line == "" {
				continue
			}
			buf.WriteString(prefix + line + "\n")
		}
	}
	return buf.String()
}

func init() {
	rootCmd.AddCommand(diffCmd)
}
