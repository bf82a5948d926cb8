package email

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"log/slog"
	"time"

	"github.com/resend/resend-go/v2"
)

// Message is one outgoing email. Category ends up as a Resend tag so
// deliveries can be filtered per kind in the dashboard.
type Message struct {
	To             string
	Subject        string
	HTML           string
	Text           string
	Category       string
	IdempotencyKey string
}

type Sender interface {
	Send(ctx context.Context, msg Message) error
}

const CategoryPasswordReset = "password_reset"

var resetHTML = template.Must(template.New("reset").Parse(
	`<p>We received a request to reset the password for your Order Tracker account.</p>` +
		`<p><a href="{{.Link}}">Choose a new password</a></p>` +
		`<p>The link expires in {{.Minutes}} minutes and works once. ` +
		`If you did not ask for this, you can ignore this email.</p>`))

// PasswordReset builds the reset mail for link. key should be stable per
// token so a retried send is not delivered twice.
func PasswordReset(to, link string, ttl time.Duration, key string) (Message, error) {
	minutes := int(ttl.Minutes())

	var buf bytes.Buffer
	if err := resetHTML.Execute(&buf, struct {
		Link    string
		Minutes int
	}{link, minutes}); err != nil {
		return Message{}, fmt.Errorf("render reset email: %w", err)
	}

	return Message{
		To:      to,
		Subject: "Password Reset Request",
		HTML:    buf.String(),
		Text: fmt.Sprintf("Reset your Order Tracker password: %s\n\nThe link expires in %d minutes and works once.\n",
			link, minutes),
		Category:       CategoryPasswordReset,
		IdempotencyKey: key,
	}, nil
}

// LogSender writes outgoing mail to the log. Used in ENV=local so reset
// links can be copied from the console.
type LogSender struct {
	logger *slog.Logger
}

func (s *LogSender) Send(ctx context.Context, msg Message) error {
	s.logger.InfoContext(ctx, "outgoing email (local dev)",
		"to", msg.To, "subject", msg.Subject, "category", msg.Category, "text", msg.Text)
	return nil
}

// ResendSender delivers mail through the Resend API.
type ResendSender struct {
	client *resend.Client
	from   string
}

func (s *ResendSender) request(msg Message) *resend.SendEmailRequest {
	req := &resend.SendEmailRequest{
		From:    s.from,
		To:      []string{msg.To},
		Subject: msg.Subject,
		Html:    msg.HTML,
		Text:    msg.Text,
	}
	if msg.Category != "" {
		req.Tags = []resend.Tag{{Name: "category", Value: msg.Category}}
	}
	return req
}

func (s *ResendSender) Send(ctx context.Context, msg Message) error {
	// An empty key is not sent, so the options value can always be passed.
	opts := &resend.SendEmailOptions{IdempotencyKey: msg.IdempotencyKey}
	if _, err := s.client.Emails.SendWithOptions(ctx, s.request(msg), opts); err != nil {
		return fmt.Errorf("send %s email to resend: %w", msg.Category, err)
	}
	return nil
}

// NewSender returns a LogSender for ENV=local, ResendSender otherwise.
func NewSender(env, apiKey, from string, logger *slog.Logger) Sender {
	if env == "local" {
		return &LogSender{logger: logger.With("component", "email")}
	}
	return &ResendSender{
		client: resend.NewClient(apiKey),
		from:   from,
	}
}
