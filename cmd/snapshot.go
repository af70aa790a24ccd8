package cmd

import (
	"os"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/melih-ucgun/hostcap/internal/report"
)

const defaultBaselinePath = "hostcap.yaml"

var snapshotCmd = &cobra.Command{
	Use:   "snapshot [file]",
	Short: "Save the current capability report as a baseline",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := defaultBaselinePath
		if len(args) == 1 {
			path = args[0]
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
		out, err := rep.YAML()
		if err != nil {
			return err
		}
		if err := os.WriteFile(path, []byte(out), 0o644); err != nil {
			return err
		}

		pterm.Success.Printfln("baseline written to %s", path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(snapshotCmd)
}
