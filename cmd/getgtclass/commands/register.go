package commands

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/ktran04/getgtclass/lib/banner"
	"github.com/ktran04/getgtclass/lib/browser"
	"github.com/ktran04/getgtclass/lib/journal"
	"github.com/ktran04/getgtclass/lib/notify"
	"github.com/ktran04/getgtclass/lib/register"
	"github.com/ktran04/getgtclass/lib/restyutil"
	"github.com/ktran04/getgtclass/lib/serviceutil"
)

func init() {
	rootCmd.AddCommand(registerCmd)
}

var registerCmd = &cobra.Command{
	Use:   "register [crn...]",
	Short: "Submit CRNs once on the already-open registration page.",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()

		crns := crnsFromArgsOrPrompt(args)
		session := openSession(cmd.Context(), cfg)
		defer session.Close()

		results, err := register.Run(cmd.Context(), session, crns)
		printResults(results)
		recordResults(cmd.Context(), cfg, results)

		if err != nil {
			reportRunError(err)
		}
		notifyOnSuccess(cmd.Context(), newNotifier(cfg), results, err)
	},
}

func crnsFromArgsOrPrompt(args []string) []string {
	if len(args) > 0 {
		crns, err := banner.ParseCRNs(strings.Join(args, " "))
		if err != nil {
			serviceutil.Fatal("invalid crn list", err)
		}
		return crns
	}

	var input string
	form := huh.NewForm(huh.NewGroup(
		huh.NewInput().
			Title("CRNs").
			Description("One or more course reference numbers, separated by spaces or commas.").
			Value(&input).
			Validate(func(s string) error {
				_, err := banner.ParseCRNs(s)
				return err
			}),
	))
	if err := form.Run(); err != nil {
		serviceutil.Fatal("failed to read crns", err)
	}

	crns, err := banner.ParseCRNs(input)
	if err != nil {
		serviceutil.Fatal("invalid crn list", err)
	}
	return crns
}

// openSession attaches to the user's browser. When we launched Chrome
// ourselves the user still has to do SSO/Duo by hand, so block on a
// confirmation before touching the page.
func openSession(ctx context.Context, cfg Config) *browser.Session {
	session, err := browser.NewSession(ctx, cfg.Browser)
	if err != nil {
		serviceutil.Fatal("failed to open browser session", err)
	}

	if cfg.Browser.RemoteURL == "" {
		ready := true
		form := huh.NewForm(huh.NewGroup(
			huh.NewConfirm().
				Title("Log in through GT SSO/Duo and open Register for Classes → Enter CRNs.").
				Affirmative("I'm on the Enter CRNs screen").
				Negative("Abort").
				Value(&ready),
		))
		if err := form.Run(); err != nil || !ready {
			session.Close()
			slog.Info("aborted before touching the registration page")
			os.Exit(1)
		}
	}
	return session
}

func printResults(results []banner.Result) {
	if len(results) == 0 {
		return
	}

	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"CRN", "Outcome", "Reason", "Messages"})
	for _, r := range results {
		message := ""
		if len(r.Messages) > 0 {
			message = r.Messages[0]
		}
		t.AppendRow(table.Row{r.CRN, r.Outcome, r.Reason, message})
	}
	t.Render()
}

func recordResults(ctx context.Context, cfg Config, results []banner.Result) {
	if cfg.Journal.Database == "" || len(results) == 0 {
		return
	}
	database, err := journal.Open(cfg.Journal.Database)
	if err != nil {
		slog.ErrorContext(ctx, "failed to open journal", "err", err)
		return
	}
	defer database.Close()

	if err := journal.New(database).Record(ctx, time.Now(), results); err != nil {
		slog.ErrorContext(ctx, "failed to record attempts", "err", err)
	}
}

func newNotifier(cfg Config) *notify.Notifier {
	n := notify.New(cfg.Notify)
	if *verbose {
		restyutil.InstrumentClient(
			n.Client(),
			nil,
			restyutil.NewFilesystemOutput(".dev/resty/notify"),
		)
	}
	return n
}

// notifyOnSuccess announces results only for a run that finished cleanly.
// The send is detached from the run context so the Ctrl+C that ended a camp
// does not also kill the delivery.
func notifyOnSuccess(ctx context.Context, n *notify.Notifier, results []banner.Result, err error) {
	if err != nil {
		return
	}
	n.RegistrationSuccess(context.WithoutCancel(ctx), results)
}

func reportRunError(err error) {
	var vErr *banner.ValidationError
	if errors.As(err, &vErr) {
		serviceutil.Fatal("crn validation failed", err)
	}
	var psErr *browser.PageStateError
	if errors.As(err, &psErr) {
		serviceutil.Fatal("run aborted", err)
	}
	serviceutil.Fatal("run failed", err)
}
