package register

import (
	"context"
	"log/slog"
	"time"

	"github.com/mazen160/go-random"

	"github.com/ktran04/getgtclass/lib/banner"
)

type CampOptions struct {
	// bounds for the randomized pause between attempts,
	// defaults to 45s..90s
	MinDelay time.Duration
	MaxDelay time.Duration
	// called after every completed attempt, optional
	OnAttempt func(ctx context.Context, attempt int, results []banner.Result)
}

// Camp re-runs the submit flow until one of the crns is accepted, pausing a
// randomized interval and refreshing the page between attempts to keep
// Banner's form state sane. It returns the results of the final attempt.
// Cancel the context to stop camping.
func Camp(ctx context.Context, session Session, crns []string, opts CampOptions) ([]banner.Result, error) {
	if opts.MinDelay <= 0 {
		opts.MinDelay = time.Second * 45
	}
	if opts.MaxDelay < opts.MinDelay {
		opts.MaxDelay = time.Second * 90
	}

	for attempt := 1; ; attempt++ {
		results, err := Run(ctx, session, crns)
		if err != nil {
			// validation problems and page-state breakage do not fix
			// themselves by retrying
			return results, err
		}

		if opts.OnAttempt != nil {
			opts.OnAttempt(ctx, attempt, results)
		}

		if accepted(results) {
			slog.InfoContext(ctx, "registration detected", "attempt", attempt)
			return results, nil
		}

		delay := campDelay(opts)
		slog.InfoContext(
			ctx, "no seat yet",
			"attempt", attempt,
			"retry_in", delay,
		)
		select {
		case <-ctx.Done():
			return results, ctx.Err()
		case <-time.After(delay):
		}

		if err := session.Refresh(ctx); err != nil {
			return results, err
		}
	}
}

func accepted(results []banner.Result) bool {
	for _, r := range results {
		if r.Outcome == banner.OutcomeAccepted {
			return true
		}
	}
	return false
}

func campDelay(opts CampOptions) time.Duration {
	seconds, err := random.IntRange(
		int(opts.MinDelay/time.Second),
		int(opts.MaxDelay/time.Second)+1,
	)
	if err != nil {
		return opts.MinDelay
	}
	return time.Duration(seconds) * time.Second
}
