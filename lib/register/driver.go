package register

import (
	"context"
	"errors"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"

	"github.com/ktran04/getgtclass/lib/banner"
	"github.com/ktran04/getgtclass/lib/telemetry"
)

var tracer = telemetry.Tracer("getgtclass.lib.register")

// Session is the slice of browser behavior the driver needs. The real
// implementation lives in lib/browser, tests substitute fakes.
type Session interface {
	EnsureRegistrationPage(ctx context.Context) error
	EnterCRN(ctx context.Context, crn string) error
	Submit(ctx context.Context) error
	PageHTML(ctx context.Context) (string, error)
	Refresh(ctx context.Context) error
}

var ErrNoCRNs = errors.New("no crns given")

// Run submits each crn once, in input order, one at a time. The returned
// list always has exactly one entry per input crn: classified outcomes for
// everything that was submitted, not-attempted placeholders for everything
// a fatal page-state failure cut off.
//
// A malformed crn fails the whole run before the browser is touched, the
// result list is then empty.
func Run(ctx context.Context, session Session, crns []string) ([]banner.Result, error) {
	ctx, span := tracer.Start(ctx, "Run")
	span.SetAttributes(attribute.Int("crn_count", len(crns)))
	defer span.End()

	if len(crns) == 0 {
		return nil, ErrNoCRNs
	}
	if err := banner.ValidateCRNs(crns); err != nil {
		return nil, err
	}

	if err := session.EnsureRegistrationPage(ctx); err != nil {
		return banner.NotAttempted(crns), err
	}

	results := make([]banner.Result, 0, len(crns))
	for i, crn := range crns {
		result, err := submitOne(ctx, session, crn)
		if err != nil {
			// the page broke mid-run, the rest never gets attempted
			results = append(results, banner.NotAttempted(crns[i:])...)
			return results, err
		}

		slog.InfoContext(
			ctx, "crn submitted",
			"crn", crn,
			"outcome", result.Outcome,
			"reason", result.Reason,
		)
		results = append(results, result)
	}
	return results, nil
}

func submitOne(ctx context.Context, session Session, crn string) (banner.Result, error) {
	ctx, span := tracer.Start(ctx, "submitOne")
	span.SetAttributes(attribute.String("crn", crn))
	defer span.End()

	if err := session.EnterCRN(ctx, crn); err != nil {
		return banner.Result{}, err
	}
	if err := session.Submit(ctx); err != nil {
		return banner.Result{}, err
	}
	pageHtml, err := session.PageHTML(ctx)
	if err != nil {
		return banner.Result{}, err
	}
	status, err := banner.ReadStatus(pageHtml)
	if err != nil {
		return banner.Result{}, err
	}
	return banner.Classify(crn, status), nil
}
