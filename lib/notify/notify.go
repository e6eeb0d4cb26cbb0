package notify

import (
	"context"
	"fmt"
	"log/slog"
	"net/smtp"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/jordan-wright/email"

	"github.com/ktran04/getgtclass/lib/banner"
)

type SmtpConfig struct {
	Server       string   `json:"server"`
	Port         int      `json:"port"`
	EmailAddress string   `json:"email_address"`
	Password     string   `json:"password"`
	To           []string `json:"to"`
}

type Config struct {
	SlackWebhooks []string   `json:"slack_webhooks"`
	Smtp          SmtpConfig `json:"smtp"`
}

// Notifier announces registration results over whatever channels are
// configured. Delivery failures are logged, they never fail the run that
// got someone their class.
type Notifier struct {
	config Config
	client *resty.Client
}

func New(config Config) *Notifier {
	return &Notifier{
		config: config,
		client: resty.New(),
	}
}

// Client exposes the underlying resty client for instrumentation.
func (n *Notifier) Client() *resty.Client {
	return n.client
}

// RegistrationSuccess fans the accepted crns out to every configured
// channel.
func (n *Notifier) RegistrationSuccess(ctx context.Context, results []banner.Result) {
	var accepted []string
	for _, r := range results {
		if r.Outcome == banner.OutcomeAccepted {
			accepted = append(accepted, r.CRN)
		}
	}
	if len(accepted) == 0 {
		return
	}

	for _, webhook := range n.config.SlackWebhooks {
		if err := n.sendSlack(ctx, webhook, accepted); err != nil {
			slog.ErrorContext(ctx, "failed to send slack notification", "err", err)
		}
	}
	if n.config.Smtp.Server != "" {
		if err := n.sendEmail(accepted); err != nil {
			slog.ErrorContext(ctx, "failed to send email notification", "err", err)
		}
	}
}

type slackText struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type slackBlock struct {
	Type string     `json:"type"`
	Text *slackText `json:"text,omitempty"`
}

type slackWebhookPayload struct {
	Text   string       `json:"text"`
	Blocks []slackBlock `json:"blocks,omitempty"`
}

func (n *Notifier) sendSlack(ctx context.Context, webhook string, accepted []string) error {
	headline := fmt.Sprintf("Registered for CRN %s", strings.Join(accepted, ", "))
	payload := slackWebhookPayload{
		Text: headline,
		Blocks: []slackBlock{
			{
				Type: "header",
				Text: &slackText{Type: "plain_text", Text: "Seat secured"},
			},
			{
				Type: "section",
				Text: &slackText{Type: "mrkdwn", Text: headline},
			},
		},
	}

	res, err := n.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(payload).
		Post(webhook)
	if err != nil {
		return err
	}
	if res.IsError() {
		return fmt.Errorf("slack webhook returned status %d", res.StatusCode())
	}
	return nil
}

func (n *Notifier) sendEmail(accepted []string) error {
	cfg := n.config.Smtp

	mail := email.NewEmail()
	mail.From = fmt.Sprintf("getgtclass <%s>", cfg.EmailAddress)
	mail.To = cfg.To
	mail.Subject = "Registration succeeded"
	mail.Text = []byte(fmt.Sprintf(
		"You are now registered for CRN %s.\n\nCheck Banner to confirm your schedule.",
		strings.Join(accepted, ", "),
	))

	addr := fmt.Sprintf("%s:%d", cfg.Server, cfg.Port)
	err := mail.Send(addr, smtp.PlainAuth("", cfg.EmailAddress, cfg.Password, cfg.Server))
	if err != nil && strings.Contains(err.Error(), "server doesn't support AUTH") {
		return mail.Send(addr, nil)
	}
	return err
}
