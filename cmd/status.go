package cmd

import (
	"fmt"
	"os"
	"strconv"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/melih-ucgun/hostcap/internal/report"
)

var (
	statusOutput   string
	statusTemplate string
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show init-system capability facts for the target host",
	Long: `Runs the boot, version and scope probes once and prints the result.
The default table goes to stderr; use -o yaml or --template for
machine-readable output on stdout.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		sc, err := newSystemContext()
		if err != nil {
			return err
		}
		defer sc.Transport.Close()

		rep, err := report.Collect(sc)
		if err != nil {
			return err
		}
		sc.Logger.Debug("collected capability report", "id", rep.ID, "host", rep.Host)

		switch {
		case statusTemplate != "":
			out, err := rep.Render(statusTemplate)
			if err != nil {
				return fmt.Errorf("template rendering failed: %w", err)
			}
			fmt.Fprintln(os.Stdout, out)
		case statusOutput == "yaml":
			out, err := rep.YAML()
			if err != nil {
				return err
			}
			fmt.Fprint(os.Stdout, out)
		default:
			renderStatusTable(rep)
		}
		return nil
	},
}

func renderStatusTable(rep *report.Report) {
	version := "unknown"
	if rep.Version != nil {
		version = strconv.Itoa(*rep.Version)
	}

	data := pterm.TableData{
		{"FACT", "VALUE"},
		{"host", rep.Host},
		{"distro", rep.Distro},
		{"init", rep.Init},
		{"systemd booted", strconv.FormatBool(rep.Booted)},
		{"systemd version", version},
		{"scope support", strconv.FormatBool(rep.HasScope)},
	}
	pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}

func init() {
	statusCmd.Flags().StringVarP(&statusOutput, "output", "o", "table", "output format (table|yaml)")
	statusCmd.Flags().StringVar(&statusTemplate, "template", "", "render output with a Go template (sprig functions available)")
	rootCmd.AddCommand(statusCmd)
}
