package commands

import (
	"context"
	"errors"
	"time"

	"github.com/spf13/cobra"

	"github.com/ktran04/getgtclass/lib/banner"
	"github.com/ktran04/getgtclass/lib/register"
)

func init() {
	rootCmd.AddCommand(campCmd)
}

var campCmd = &cobra.Command{
	Use:   "camp [crn...]",
	Short: "Keep retrying the submit flow until a seat opens up.",
	Long: `Keep re-submitting the CRNs with a randomized pause between attempts,
refreshing the page in between, until Banner reports a registration.
Press Ctrl+C to stop camping.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()

		crns := crnsFromArgsOrPrompt(args)
		session := openSession(cmd.Context(), cfg)
		defer session.Close()

		notifier := newNotifier(cfg)

		results, err := register.Camp(cmd.Context(), session, crns, register.CampOptions{
			MinDelay: time.Duration(cfg.Camp.MinDelaySeconds) * time.Second,
			MaxDelay: time.Duration(cfg.Camp.MaxDelaySeconds) * time.Second,
			OnAttempt: func(ctx context.Context, attempt int, results []banner.Result) {
				recordResults(ctx, cfg, results)
			},
		})
		printResults(results)

		if err != nil && !errors.Is(err, context.Canceled) {
			reportRunError(err)
		}
		notifyOnSuccess(cmd.Context(), notifier, results, err)
	},
}
