package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ktran04/getgtclass/lib/serviceutil"
	"github.com/ktran04/getgtclass/lib/telemetry"
)

var verbose *bool
var configPath *string

var tel *telemetry.Telemetry

var rootCmd = &cobra.Command{
	Use:   "getgtclass",
	Short: "getgtclass drives a manually logged-in browser through Banner class registration.",
	Long: `getgtclass enters CRNs into Georgia Tech's Banner registration page and
submits them, reporting per-CRN results. Log in through GT SSO/Duo in the
browser yourself first, this tool never touches authentication.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		telemetry.InitSlog(*verbose)

		t, err := telemetry.SetupFromEnv(cmd.Context(), "getgtclass")
		if os.IsNotExist(err) {
			// running without a telemetry.json5 is the common case
			return
		}
		if err != nil {
			serviceutil.Fatal("setup telemetry", err)
		}
		tel = &t
		telemetry.InstrumentPerfStats(cmd.Context())
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if tel != nil {
			tel.Shutdown(context.Background())
		}
	},
}

func init() {
	verbose = rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging and HTTP message dumps.")
	configPath = rootCmd.PersistentFlags().String("config", "getgtclass.json5", "Path to the configuration file.")
}

func ExecuteContext(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
