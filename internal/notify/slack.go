package notify

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"todoSummary/internal/config"
	"todoSummary/internal/logger"

	"github.com/slack-go/slack"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
)

var ErrNotConfigured = errors.New("slack webhook URL not configured")

const (
	fallbackText = "📋 Todo Summary"
	headerText   = "📋 Todo Summary Assistant"
	footerLayout = "Jan 2, 2006 at 3:04 PM MST"

	// Slack rejects section text longer than this.
	maxSectionText = 3000
)

// Slack posts summaries to an incoming webhook as a Block Kit message.
type Slack struct {
	webhookURL string
	client     *http.Client
	now        func() time.Time
}

func NewSlack(cfg config.SlackConfig) *Slack {
	return &Slack{
		webhookURL: strings.TrimSpace(cfg.WebhookURL),
		client: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		now: time.Now,
	}
}

func (s *Slack) Configured() bool {
	return s.webhookURL != ""
}

// BuildMessage puts the summary in mrkdwn sections as is, so Slack renders its formatting.
// Long summaries continue in consecutive sections.
func BuildMessage(summary string, pendingCount int, generatedAt time.Time) *slack.WebhookMessage {
	blocks := []slack.Block{
		slack.NewHeaderBlock(slack.NewTextBlockObject(slack.PlainTextType, headerText, true, false)),
	}
	for _, chunk := range splitSection(summary, maxSectionText) {
		blocks = append(blocks, slack.NewSectionBlock(
			slack.NewTextBlockObject(slack.MarkdownType, chunk, false, false), nil, nil))
	}
	footer := fmt.Sprintf("Generated on %s • %d pending %s",
		generatedAt.Format(footerLayout), pendingCount, pluralTodos(pendingCount))
	blocks = append(blocks, slack.NewContextBlock("",
		slack.NewTextBlockObject(slack.MarkdownType, footer, false, false)))

	return &slack.WebhookMessage{
		Text:   fallbackText,
		Blocks: &slack.Blocks{BlockSet: blocks},
	}
}

// Notify makes exactly one POST; any non-2xx answer is a failure.
func (s *Slack) Notify(ctx context.Context, summary string, pendingCount int) error {
	if !s.Configured() {
		return ErrNotConfigured
	}

	start := time.Now()
	msg := BuildMessage(summary, pendingCount, s.now())
	if err := slack.PostWebhookCustomHTTPContext(ctx, s.webhookURL, s.client, msg); err != nil && !accepted(err) {
		var statusErr slack.StatusCodeError
		if errors.As(err, &statusErr) {
			logger.Warn("Notify: webhook rejected message",
				zap.Int("status", statusErr.Code),
				zap.Duration("ms", time.Since(start)))
		} else {
			logger.Error("Notify: webhook request failed", err, zap.Duration("ms", time.Since(start)))
		}
		return fmt.Errorf("slack webhook: %w", err)
	}

	logger.Info("Notify: summary delivered to Slack",
		zap.Int("pending", pendingCount),
		zap.Int("sections", len(msg.Blocks.BlockSet)-2),
		zap.Duration("ms", time.Since(start)))
	return nil
}

// accepted reports a 2xx other than 200, which the slack client flags as an error.
func accepted(err error) bool {
	var statusErr slack.StatusCodeError
	return errors.As(err, &statusErr) && statusErr.Code >= 200 && statusErr.Code <= 299
}

// splitSection cuts text into pieces of at most limit bytes, preferring line
// breaks and never splitting a rune. The pieces concatenate back to text.
func splitSection(text string, limit int) []string {
	if len(text) <= limit {
		return []string{text}
	}

	var chunks []string
	for len(text) > limit {
		cut := strings.LastIndex(text[:limit], "\n") + 1
		if cut == 0 {
			cut = limit
			for cut > 0 && !utf8.RuneStart(text[cut]) {
				cut--
			}
		}
		chunks = append(chunks, text[:cut])
		text = text[cut:]
	}
	if text != "" {
		chunks = append(chunks, text)
	}
	return chunks
}

func pluralTodos(n int) string {
	if n == 1 {
		return "todo"
	}
	return "todos"
}
