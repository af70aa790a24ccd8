package cmd

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/melih-ucgun/hostcap/internal/core"
	"github.com/melih-ucgun/hostcap/internal/system"
	"github.com/melih-ucgun/hostcap/internal/transport"
)

var rootCmd = &cobra.Command{
	Use:   "hostcap",
	Short: "Probe host init-system capabilities.",
	Long: `Hostcap reports whether a host was booted with systemd, which systemd
version it carries and whether transient scopes are available, either for
the local machine or for a remote host over SSH.`,
	SilenceUsage: true,
}

var (
	hostFlag     string
	verboseCount int
)

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	slog.SetDefault(slog.New(handler))

	// PTerm output to Stderr (to keep Stdout clean for piping)
	pterm.SetDefaultOutput(os.Stderr)
	pterm.Success.Writer = os.Stderr
	pterm.Info.Writer = os.Stderr
	pterm.Error.Writer = os.Stderr
	pterm.Warning.Writer = os.Stderr

	// .env may carry HOSTCAP_SSH_KEY / HOSTCAP_SSH_PASSWORD for --host.
	_ = godotenv.Load()

	rootCmd.PersistentFlags().StringVarP(&hostFlag, "host", "H", "", "probe a remote host over SSH (user@addr[:port])")
	rootCmd.PersistentFlags().CountVarP(&verboseCount, "verbose", "v", "Increase verbosity level (-v, -vv)")
}

// newSystemContext builds the probe context for the selected target.
// The caller owns the transport and must Close it.
func newSystemContext() (*core.SystemContext, error) {
	tr, err := newTransport()
	if err != nil {
		return nil, err
	}

	sc := system.Detect(tr)
	sc.Logger = core.NewDefaultLogger(os.Stderr, logLevel())
	return sc, nil
}

func newTransport() (core.Transport, error) {
	if hostFlag == "" {
		return core.NewLocalTransport(), nil
	}

	opts, err := transport.ParseHost(hostFlag)
	if err != nil {
		return nil, err
	}
	opts.Password = os.Getenv("HOSTCAP_SSH_PASSWORD")
	opts.KeyPath = os.Getenv("HOSTCAP_SSH_KEY")
	return transport.NewSSHTransport(opts)
}

func logLevel() slog.Level {
	switch {
	case verboseCount >= 2:
		return slog.LevelDebug
	case verboseCount == 1:
		return slog.LevelInfo
	default:
		return slog.LevelWarn
	}
}
