package browser

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/chromedp/cdproto/target"
	"github.com/chromedp/chromedp"
	"go.opentelemetry.io/otel/attribute"

	"github.com/ktran04/getgtclass/lib/banner"
	"github.com/ktran04/getgtclass/lib/telemetry"
)

var tracer = telemetry.Tracer("getgtclass.lib.browser")

// PageStateError means the registration page was not in the expected state:
// an element never showed up within the bounded wait, usually because the
// manual login/navigation was not completed or the markup changed.
type PageStateError struct {
	Step string
	Err  error
}

func (e *PageStateError) Error() string {
	return fmt.Sprintf("registration page not in expected state at %q: %s", e.Step, e.Err)
}

func (e *PageStateError) Unwrap() error { return e.Err }

type Options struct {
	// devtools websocket of an already-running chrome
	// (e.g. ws://127.0.0.1:9222), takes precedence over ProfileDir
	RemoteURL string `json:"remote_url"`
	// chrome profile folder used when launching our own chrome, session
	// cookies persist there so the manual SSO login survives restarts
	ProfileDir string `json:"profile_dir"`
	// defaults to banner.RegisterURL
	RegisterURL string `json:"register_url"`
	// bounded wait for any single page interaction, defaults to 20s
	WaitTimeoutSeconds int `json:"wait_timeout_seconds"`
}

// Session owns one live Chrome tab for the duration of a run.
type Session struct {
	ctx         context.Context
	cancels     []context.CancelFunc
	loc         Locators
	registerURL string
	timeout     time.Duration
}

// NewSession attaches to the chrome described by opts and parks a tab on
// the registration page. The human does SSO/Duo in that same window, this
// code never touches credentials.
func NewSession(ctx context.Context, opts Options) (*Session, error) {
	if opts.RegisterURL == "" {
		opts.RegisterURL = banner.RegisterURL
	}
	if opts.WaitTimeoutSeconds <= 0 {
		opts.WaitTimeoutSeconds = 20
	}

	var allocCtx context.Context
	var cancels []context.CancelFunc

	if opts.RemoteURL != "" {
		slog.Info("attaching to running chrome", "url", opts.RemoteURL)
		remoteCtx, cancel := chromedp.NewRemoteAllocator(ctx, opts.RemoteURL)
		allocCtx = remoteCtx
		cancels = append(cancels, cancel)
	} else {
		slog.Info("launching chrome", "profile", opts.ProfileDir)
		execOpts := append(
			chromedp.DefaultExecAllocatorOptions[:],
			chromedp.Flag("headless", false),
			chromedp.Flag("start-maximized", true),
		)
		if opts.ProfileDir != "" {
			execOpts = append(execOpts, chromedp.UserDataDir(opts.ProfileDir))
		}
		execCtx, cancel := chromedp.NewExecAllocator(ctx, execOpts...)
		allocCtx = execCtx
		cancels = append(cancels, cancel)
	}

	tabCtx, cancel := chromedp.NewContext(allocCtx)
	cancels = append(cancels, cancel)

	s := &Session{
		ctx:         tabCtx,
		cancels:     cancels,
		loc:         DefaultLocators(),
		registerURL: opts.RegisterURL,
		timeout:     time.Duration(opts.WaitTimeoutSeconds) * time.Second,
	}

	// connect eagerly so a dead devtools endpoint fails here, not on the
	// first submission
	if err := s.attachTab(ctx); err != nil {
		s.Close()
		return nil, err
	}
	return s, nil
}

// attachTab prefers an existing tab that is already parked on the
// registration page over a fresh one, so a manually prepared session is
// picked up as-is.
func (s *Session) attachTab(ctx context.Context) error {
	runCtx, cancel := context.WithTimeout(s.ctx, s.timeout)
	defer cancel()

	targets, err := chromedp.Targets(runCtx)
	if err != nil {
		return &PageStateError{Step: "attach", Err: err}
	}
	var regTab *target.Info
	for _, info := range targets {
		if info.Type == "page" && strings.Contains(info.URL, "classRegistration") {
			regTab = info
			break
		}
	}
	if regTab != nil {
		slog.Info("found registration tab", "url", regTab.URL)
		tabCtx, cancel := chromedp.NewContext(s.ctx, chromedp.WithTargetID(regTab.TargetID))
		s.ctx = tabCtx
		s.cancels = append(s.cancels, cancel)
		return nil
	}

	// no registration tab open yet, bring one up
	if err := s.run(ctx, chromedp.Navigate(s.registerURL)); err != nil {
		return &PageStateError{Step: "open registration page", Err: err}
	}
	return nil
}

// run executes chromedp actions against the session tab under the bounded
// wait, honoring cancellation of the caller's context.
func (s *Session) run(ctx context.Context, actions ...chromedp.Action) error {
	runCtx, cancel := context.WithTimeout(s.ctx, s.timeout)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	return chromedp.Run(runCtx, actions...)
}

// EnsureRegistrationPage best-effort detects that the prepared session is
// actually sitting on the Enter CRNs screen, navigating there if the tab
// wandered off.
func (s *Session) EnsureRegistrationPage(ctx context.Context) error {
	ctx, span := tracer.Start(ctx, "EnsureRegistrationPage")
	defer span.End()

	var current string
	if err := s.run(ctx, chromedp.Location(&current)); err != nil {
		return &PageStateError{Step: "read location", Err: err}
	}
	if !strings.Contains(current, "classRegistration") {
		slog.Info("tab is not on the registration page, navigating", "current", current)
		if err := s.run(ctx, chromedp.Navigate(s.registerURL)); err != nil {
			return &PageStateError{Step: "navigate", Err: err}
		}
	}

	if err := s.run(ctx, chromedp.WaitVisible(s.loc.EnterCRNsTab, chromedp.BySearch)); err != nil {
		return &PageStateError{Step: "enter crns tab", Err: err}
	}
	// already on it or not clickable due to layout state, either is fine
	if err := s.click(ctx, s.loc.EnterCRNsTab); err != nil {
		slog.Debug("enter crns tab not clickable, assuming it is active", "err", err)
	}
	return nil
}

// EnterCRN types the crn into the next input row and adds it to the
// registration summary.
func (s *Session) EnterCRN(ctx context.Context, crn string) error {
	ctx, span := tracer.Start(ctx, "EnterCRN")
	span.SetAttributes(attribute.String("crn", crn))
	defer span.End()

	err := s.run(ctx,
		chromedp.WaitVisible(s.loc.CRNInput, chromedp.BySearch),
		chromedp.Clear(s.loc.CRNInput, chromedp.BySearch),
		chromedp.SendKeys(s.loc.CRNInput, crn, chromedp.BySearch),
	)
	if err != nil {
		return &PageStateError{Step: "crn input", Err: err}
	}

	if err := s.click(ctx, s.loc.AddToSummary); err != nil {
		return &PageStateError{Step: "add to summary", Err: err}
	}
	// give the summary panel a moment to pick up the row
	return s.settle(ctx, time.Millisecond*600)
}

// Submit triggers Banner's submit action for everything sitting in the
// summary panel.
func (s *Session) Submit(ctx context.Context) error {
	ctx, span := tracer.Start(ctx, "Submit")
	defer span.End()

	if err := s.click(ctx, s.loc.Submit); err != nil {
		return &PageStateError{Step: "submit", Err: err}
	}
	// alerts and status badges render shortly after the roundtrip
	return s.settle(ctx, time.Millisecond*1200)
}

// PageHTML snapshots the full page for outcome classification.
func (s *Session) PageHTML(ctx context.Context) (string, error) {
	ctx, span := tracer.Start(ctx, "PageHTML")
	defer span.End()

	var out string
	if err := s.run(ctx, chromedp.OuterHTML("html", &out, chromedp.ByQuery)); err != nil {
		return "", &PageStateError{Step: "page snapshot", Err: err}
	}
	return out, nil
}

// Refresh reloads the tab, camping refreshes between attempts to keep
// Banner's form state sane.
func (s *Session) Refresh(ctx context.Context) error {
	ctx, span := tracer.Start(ctx, "Refresh")
	defer span.End()

	if err := s.run(ctx, chromedp.Reload()); err != nil {
		return &PageStateError{Step: "refresh", Err: err}
	}
	return s.settle(ctx, time.Second*2)
}

func (s *Session) click(ctx context.Context, xpath string) error {
	return s.run(ctx,
		chromedp.WaitVisible(xpath, chromedp.BySearch),
		chromedp.ScrollIntoView(xpath, chromedp.BySearch),
		chromedp.Click(xpath, chromedp.BySearch),
	)
}

func (s *Session) settle(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}

func (s *Session) Close() {
	for i := len(s.cancels) - 1; i >= 0; i-- {
		s.cancels[i]()
	}
}
