package banner

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

const closedSectionPage = `
<html><body>
<div id="registration">
	<div role="alert">Closed Section</div>
	<div class="notification">CRN   67890:
		Closed Section</div>
</div>
</body></html>`

const registeredPage = `
<html><body>
<div class="summary">
	<span class="status">Registered</span>
</div>
</body></html>`

const duplicatePage = `
<html><body>
<div class="alert">Duplicate CRN 12345: you are already registered for this section</div>
</body></html>`

func TestReadStatusClosedSection(t *testing.T) {
	st, err := ReadStatus(closedSectionPage)
	require.NoError(t, err)

	require.True(t, st.Closed)
	require.False(t, st.Registered)

	expected := []string{"Closed Section", "CRN 67890: Closed Section"}
	if diff := cmp.Diff(expected, st.Messages); diff != "" {
		t.Fatalf("messages mismatch (-want +got):\n%s", diff)
	}
}

func TestReadStatusRegistered(t *testing.T) {
	st, err := ReadStatus(registeredPage)
	require.NoError(t, err)

	require.True(t, st.Registered)
	require.False(t, st.Closed)
	require.Empty(t, st.Messages)
}

func TestReadStatusVariantClassNames(t *testing.T) {
	st, err := ReadStatus(`
<html><body>
<div class="alert-danger">CRN 67890: Closed Section</div>
<div class="notification-center"><span>Time conflict with CRN 11111</span></div>
</body></html>`)
	require.NoError(t, err)

	require.True(t, st.Closed)
	expected := []string{"CRN 67890: Closed Section", "Time conflict with CRN 11111"}
	if diff := cmp.Diff(expected, st.Messages); diff != "" {
		t.Fatalf("messages mismatch (-want +got):\n%s", diff)
	}
}

func TestReadStatusBareClosedDoesNotMatch(t *testing.T) {
	st, err := ReadStatus(`<div class="alert">The bookstore is closed today</div>`)
	require.NoError(t, err)
	require.False(t, st.Closed)
}

func TestClassify(t *testing.T) {
	testCases := []struct {
		name    string
		crn     string
		status  Status
		outcome Outcome
		reason  string
	}{
		{
			name:    "open seat",
			crn:     "12345",
			status:  Status{Registered: true},
			outcome: OutcomeAccepted,
		},
		{
			name: "closed section",
			crn:  "67890",
			status: Status{
				Closed:   true,
				Messages: []string{"CRN 67890: Closed Section"},
			},
			outcome: OutcomeRejected,
			reason:  "closed section",
		},
		{
			name: "duplicate wins over registered probe",
			crn:  "12345",
			status: Status{
				Registered: true,
				Messages:   []string{"Duplicate CRN: already registered for this section"},
			},
			outcome: OutcomeRejected,
			reason:  "duplicate",
		},
		{
			name: "unknown error falls back to first message",
			crn:  "55555",
			status: Status{
				Messages: []string{"Level Restriction", "See your advisor"},
			},
			outcome: OutcomeRejected,
			reason:  "Level Restriction",
		},
		{
			name:    "nothing on page",
			crn:     "55555",
			status:  Status{},
			outcome: OutcomeRejected,
			reason:  "no registration confirmation on page",
		},
	}

	for _, test := range testCases {
		t.Run(test.name, func(t *testing.T) {
			result := Classify(test.crn, test.status)
			require.Equal(t, test.crn, result.CRN)
			require.Equal(t, test.outcome, result.Outcome)
			require.Equal(t, test.reason, result.Reason)
		})
	}
}

func TestClassifyDuplicateStatusPage(t *testing.T) {
	st, err := ReadStatus(duplicatePage)
	require.NoError(t, err)

	result := Classify("12345", st)
	require.Equal(t, OutcomeRejected, result.Outcome)
	require.Equal(t, "duplicate", result.Reason)
}

func TestNotAttempted(t *testing.T) {
	results := NotAttempted([]string{"12345", "67890"})
	require.Len(t, results, 2)
	require.Equal(t, "12345", results[0].CRN)
	require.Equal(t, OutcomeNotAttempted, results[0].Outcome)
	require.Equal(t, OutcomeNotAttempted, results[1].Outcome)
}
