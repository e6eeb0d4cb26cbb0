package register

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ktran04/getgtclass/lib/banner"
	"github.com/ktran04/getgtclass/lib/browser"
	"github.com/ktran04/getgtclass/lib/telemetry"
)

// fakeSession plays back canned page snapshots, one per submit, and records
// every call so tests can assert the browser was (or was not) touched.
type fakeSession struct {
	pages       []string
	ensureErr   error
	enterErrs   map[string]error
	calls       []string
	submitCount int
	refreshed   int
}

func (f *fakeSession) EnsureRegistrationPage(ctx context.Context) error {
	f.calls = append(f.calls, "ensure")
	return f.ensureErr
}

func (f *fakeSession) EnterCRN(ctx context.Context, crn string) error {
	f.calls = append(f.calls, "enter:"+crn)
	if err := f.enterErrs[crn]; err != nil {
		return err
	}
	return nil
}

func (f *fakeSession) Submit(ctx context.Context) error {
	f.calls = append(f.calls, "submit")
	f.submitCount++
	return nil
}

func (f *fakeSession) PageHTML(ctx context.Context) (string, error) {
	if f.submitCount > len(f.pages) {
		return "", fmt.Errorf("no page snapshot for submit %d", f.submitCount)
	}
	return f.pages[f.submitCount-1], nil
}

func (f *fakeSession) Refresh(ctx context.Context) error {
	f.calls = append(f.calls, "refresh")
	f.refreshed++
	return nil
}

const pageRegistered = `<html><body>
	<div class="summary"><span>Registered</span></div>
</body></html>`

const pageClosed = `<html><body>
	<div role="alert">CRN 67890: Closed Section</div>
</body></html>`

const pageDuplicate = `<html><body>
	<div class="alert">Duplicate CRN: already registered</div>
</body></html>`

func TestRunOpenAndClosedSeat(t *testing.T) {
	cleanup := telemetry.SetupForTesting(t, "test:register")
	defer cleanup()

	session := &fakeSession{pages: []string{pageRegistered, pageClosed}}

	results, err := Run(context.Background(), session, []string{"12345", "67890"})
	require.NoError(t, err)
	require.Len(t, results, 2)

	require.Equal(t, "12345", results[0].CRN)
	require.Equal(t, banner.OutcomeAccepted, results[0].Outcome)

	require.Equal(t, "67890", results[1].CRN)
	require.Equal(t, banner.OutcomeRejected, results[1].Outcome)
	require.Equal(t, "closed section", results[1].Reason)
}

func TestRunMalformedCRNNeverTouchesBrowser(t *testing.T) {
	session := &fakeSession{}

	results, err := Run(context.Background(), session, []string{"abc"})
	require.Empty(t, results)

	var vErr *banner.ValidationError
	require.True(t, errors.As(err, &vErr))
	require.Empty(t, session.calls)
}

func TestRunMixedListFailsValidationUpFront(t *testing.T) {
	session := &fakeSession{}

	results, err := Run(context.Background(), session, []string{"12345", "1234"})
	require.Empty(t, results)

	var vErr *banner.ValidationError
	require.True(t, errors.As(err, &vErr))
	require.Equal(t, "1234", vErr.CRN)
	require.Empty(t, session.calls)
}

func TestRunEmptyList(t *testing.T) {
	session := &fakeSession{}

	_, err := Run(context.Background(), session, nil)
	require.ErrorIs(t, err, ErrNoCRNs)
	require.Empty(t, session.calls)
}

func TestRunPageNotReady(t *testing.T) {
	pageErr := &browser.PageStateError{Step: "enter crns tab", Err: errors.New("timeout")}
	session := &fakeSession{ensureErr: pageErr}

	results, err := Run(context.Background(), session, []string{"12345", "67890"})

	var psErr *browser.PageStateError
	require.True(t, errors.As(err, &psErr))

	// zero submissions, every crn reported not-attempted
	require.Zero(t, session.submitCount)
	require.Len(t, results, 2)
	for _, r := range results {
		require.Equal(t, banner.OutcomeNotAttempted, r.Outcome)
	}
}

func TestRunMidRunPageFailure(t *testing.T) {
	pageErr := &browser.PageStateError{Step: "crn input", Err: errors.New("timeout")}
	session := &fakeSession{
		pages:     []string{pageRegistered},
		enterErrs: map[string]error{"67890": pageErr},
	}

	results, err := Run(context.Background(), session, []string{"12345", "67890", "11111"})
	require.Error(t, err)
	require.Len(t, results, 3)

	require.Equal(t, banner.OutcomeAccepted, results[0].Outcome)
	require.Equal(t, banner.OutcomeNotAttempted, results[1].Outcome)
	require.Equal(t, banner.OutcomeNotAttempted, results[2].Outcome)
}

func TestRunDuplicateCRNsAreIndependentAttempts(t *testing.T) {
	session := &fakeSession{pages: []string{pageRegistered, pageDuplicate}}

	results, err := Run(context.Background(), session, []string{"12345", "12345"})
	require.NoError(t, err)
	require.Len(t, results, 2)
	require.Equal(t, 2, session.submitCount)

	require.Equal(t, banner.OutcomeAccepted, results[0].Outcome)
	require.Equal(t, banner.OutcomeRejected, results[1].Outcome)
	require.Equal(t, "duplicate", results[1].Reason)
}

func TestRunPreservesInputOrder(t *testing.T) {
	crns := []string{"11111", "22222", "33333", "44444"}
	session := &fakeSession{
		pages: []string{pageClosed, pageClosed, pageRegistered, pageClosed},
	}

	results, err := Run(context.Background(), session, crns)
	require.NoError(t, err)
	require.Len(t, results, len(crns))
	for i, crn := range crns {
		require.Equal(t, crn, results[i].CRN)
	}
}
