package banner

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/ktran04/getgtclass/lib/htmlutil"
)

type Outcome string

const (
	OutcomeAccepted     Outcome = "accepted"
	OutcomeRejected     Outcome = "rejected"
	OutcomeNotAttempted Outcome = "not-attempted"
)

// Status is what the registration page says right after a submit.
type Status struct {
	Registered bool
	Closed     bool
	Messages   []string
}

// Result is the recorded fate of a single crn submission.
type Result struct {
	CRN      string
	Outcome  Outcome
	Reason   string
	Messages []string
}

// Banner surfaces errors in an alert region or notification panel. The
// class names drift between deployments (alert, alert-danger,
// notification-center, ...) so the class attribute is substring-matched.
var messageSelectors = []string{
	`[role=alert]`,
	`[class*=alert]`,
	`[class*=notification]`,
	`[class*=messages]`,
}

// ReadStatus parses a full-page HTML snapshot taken after a submit and
// collects the inline messages plus the two signals the driver cares about.
func ReadStatus(pageHtml string) (Status, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(pageHtml))
	if err != nil {
		return Status{}, err
	}

	var messages []string
	seen := map[string]bool{}
	for _, sel := range messageSelectors {
		doc.Find(sel).Each(func(_ int, s *goquery.Selection) {
			text := htmlutil.NormalizeSpace(s.Text())
			if text == "" || seen[text] {
				return
			}
			seen[text] = true
			messages = append(messages, text)
		})
	}

	joined := strings.ToLower(strings.Join(messages, "\n"))

	// a bare "closed" is deliberately not matched, it false-positives on
	// unrelated page text
	closed := strings.Contains(joined, "closed section") ||
		strings.Contains(joined, "section is closed")

	// broad probe: any "registered" text anywhere on the page
	registered := strings.Contains(strings.ToLower(doc.Text()), "registered")

	return Status{
		Registered: registered,
		Closed:     closed,
		Messages:   messages,
	}, nil
}

// rejection phrases Banner is known to emit, checked in order against the
// inline messages
var rejectionReasons = []string{
	"closed section",
	"section is closed",
	"time conflict",
	"duplicate",
	"crn does not exist",
	"invalid crn",
	"prerequisite",
	"corequisite",
	"maximum hours exceeded",
	"waitlist",
}

// Classify turns a post-submit Status into the recorded result for the crn
// that was just submitted. Inline errors win over the page-wide registered
// probe, otherwise an already-registered summary row would mask a failed
// add.
func Classify(crn string, st Status) Result {
	result := Result{CRN: crn, Messages: st.Messages}

	joined := strings.ToLower(strings.Join(st.Messages, "\n"))
	for _, phrase := range rejectionReasons {
		if strings.Contains(joined, phrase) {
			result.Outcome = OutcomeRejected
			result.Reason = phrase
			return result
		}
	}

	if st.Registered {
		result.Outcome = OutcomeAccepted
		return result
	}

	result.Outcome = OutcomeRejected
	result.Reason = "no registration confirmation on page"
	if len(st.Messages) > 0 {
		result.Reason = st.Messages[0]
	}
	return result
}

// NotAttempted builds the placeholder results for crns a run never got to.
func NotAttempted(crns []string) []Result {
	results := make([]Result, len(crns))
	for i, crn := range crns {
		results[i] = Result{CRN: crn, Outcome: OutcomeNotAttempted}
	}
	return results
}
