package cli

import (
	"log/slog"
	"os"

	"github.com/me/credsched/internal/logging"
	"github.com/spf13/cobra"
)

var (
	flagServer    string
	flagDebug     bool
	flagLogLevel  string
	flagLogFormat string

	logger *slog.Logger
	client *Client
)

// defaultServer returns the default server URL, checking CREDSCHED_SERVER env var first.
func defaultServer() string {
	if s := os.Getenv("CREDSCHED_SERVER"); s != "" {
		return s
	}
	return "http://localhost:8080"
}

// NewRootCmd creates the root cobra command for the credsched CLI.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "credsched",
		Short: "credsched: credit-based CPU scheduler simulator",
		Long: `credsched simulates a single CPU shared by a fixed set of processes.
Each process spends one credit per unit of CPU; when no READY process has
credits left, every process is recharged with credits = credits/2 + priority.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if flagDebug {
				flagLogLevel = "debug"
			}
			logger = logging.NewLoggerWithWriter(logging.ParseLevel(flagLogLevel), flagLogFormat, cmd.ErrOrStderr())
			client = NewClient(flagServer, logger)
		},
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&flagServer, "server", defaultServer(), "credsched server URL (or CREDSCHED_SERVER env)")
	root.PersistentFlags().BoolVar(&flagDebug, "debug", false, "Enable debug logging (includes every scheduling event)")
	root.PersistentFlags().StringVar(&flagLogLevel, "log-level", "warn", "Log level (debug, info, warn, error)")
	root.PersistentFlags().StringVar(&flagLogFormat, "log-format", "text", "Log format (text, json)")

	root.AddCommand(
		newRunCmd(),
		newDemoCmd(),
		newValidateCmd(),
		newSubmitCmd(),
		newListCmd(),
		newStatusCmd(),
	)

	return root
}
