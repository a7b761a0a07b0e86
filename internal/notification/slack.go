package notification

import (
	"context"
	"fmt"
	"sort"

	"github.com/slack-go/slack"

	"godsendjoseph.dev/edu-connect/internal/toast"
)

// SlackNotifier renders toasts into a Slack channel through an incoming
// webhook. A disabled notifier accepts and discards everything.
type SlackNotifier struct {
	webhookURL string
	channel    string
	username   string
	iconEmoji  string
	enabled    bool
}

func NewSlackNotifier(webhookURL, channel, username, iconEmoji string, enabled bool) *SlackNotifier {
	return &SlackNotifier{
		webhookURL: webhookURL,
		channel:    channel,
		username:   username,
		iconEmoji:  iconEmoji,
		enabled:    enabled && webhookURL != "",
	}
}

func (s *SlackNotifier) Enabled() bool {
	return s.enabled
}

// SendNotification sends a plain text message.
func (s *SlackNotifier) SendNotification(ctx context.Context, message string) error {
	if !s.enabled {
		return nil
	}

	msg := &slack.WebhookMessage{
		Text:      message,
		Channel:   s.channel,
		Username:  s.username,
		IconEmoji: s.iconEmoji,
	}

	return slack.PostWebhookContext(ctx, s.webhookURL, msg)
}

// SendRichNotification sends a single attachment message. color is one of
// Slack's "good", "warning", "danger" or a hex code.
func (s *SlackNotifier) SendRichNotification(ctx context.Context, title, message, color string, fields map[string]string) error {
	if !s.enabled {
		return nil
	}

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	attachmentFields := make([]slack.AttachmentField, 0, len(keys))
	for _, k := range keys {
		v := fields[k]
		attachmentFields = append(attachmentFields, slack.AttachmentField{
			Title: k,
			Value: v,
			Short: len(v) < 20,
		})
	}

	attachment := slack.Attachment{
		Title:      title,
		Text:       message,
		Color:      color,
		Fields:     attachmentFields,
		MarkdownIn: []string{"text", "fields"},
	}

	msg := &slack.WebhookMessage{
		Attachments: []slack.Attachment{attachment},
		Channel:     s.channel,
		Username:    s.username,
		IconEmoji:   s.iconEmoji,
	}

	return slack.PostWebhookContext(ctx, s.webhookURL, msg)
}

// Render implements toast.Surface.
func (s *SlackNotifier) Render(ctx context.Context, t toast.Toast) error {
	color, emoji := slackStyle(t.Variant)

	return s.SendRichNotification(ctx,
		fmt.Sprintf("%s %s", emoji, t.Title),
		t.Description,
		color,
		map[string]string{
			"Variant": string(t.Variant),
			"ID":      t.ID,
		},
	)
}

func slackStyle(v toast.Variant) (color, emoji string) {
	switch v {
	case toast.Success:
		return "good", ":white_check_mark:"
	case toast.Warning:
		return "warning", ":warning:"
	case toast.Destructive:
		return "danger", ":rotating_light:"
	default:
		return "#3AA3E3", ":information_source:"
	}
}
