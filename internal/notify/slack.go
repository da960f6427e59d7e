package notify

import (
	"context"
	"fmt"

	slacklib "github.com/slack-go/slack"

	"github.com/rentora/rentora/internal/domain"
)

// SlackAPI abstracts the subset of the Slack client used by the forwarder.
// This allows testing without real HTTP calls.
type SlackAPI interface {
	PostMessage(channelID string, options ...slacklib.MsgOption) (string, string, error)
}

// SlackForwarder mirrors support-chat traffic into an ops channel so the
// support team sees new messages without watching the dashboard. Forwarding
// is best-effort: a Slack outage never blocks message delivery.
type SlackForwarder struct {
	api     SlackAPI
	channel string
}

func NewSlackForwarder(api SlackAPI, channel string) *SlackForwarder {
	return &SlackForwarder{api: api, channel: channel}
}

// ForwardSupportMessage posts a support message summary to the ops channel.
func (f *SlackForwarder) ForwardSupportMessage(_ context.Context, sender *domain.User, m *domain.ChatMessage) error {
	text := fmt.Sprintf("Support message from %s (%s)\nThread %s\n> %s",
		sender.Name, sender.Email, m.ThreadID, m.Text)

	_, _, err := f.api.PostMessage(f.channel, slacklib.MsgOptionText(text, false))
	if err != nil {
		return fmt.Errorf("notify.SlackForwarder.ForwardSupportMessage: %w", err)
	}

	return nil
}
