package notify_test

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	slacklib "github.com/slack-go/slack"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rentora/rentora/internal/domain"
	"github.com/rentora/rentora/internal/notify"
)

type mockSlackAPI struct {
	postMsgChannel string
	postMsgOpts    []slacklib.MsgOption
	postMsgErr     error
}

func (m *mockSlackAPI) PostMessage(channelID string, options ...slacklib.MsgOption) (string, string, error) {
	m.postMsgChannel = channelID
	m.postMsgOpts = options
	if m.postMsgErr != nil {
		return "", "", m.postMsgErr
	}
	return channelID, "1234567890.123456", nil
}

func TestSlackForwarder_ForwardSupportMessage(t *testing.T) {
	t.Parallel()

	sender := &domain.User{
		ID:    uuid.New(),
		Name:  "Dana Tenant",
		Email: "dana@example.com",
		Role:  "tenant",
	}
	msg := &domain.ChatMessage{
		ID:       uuid.New(),
		ThreadID: uuid.New(),
		SenderID: sender.ID,
		Text:     "my heating is broken",
	}

	t.Run("posts to the configured channel", func(t *testing.T) {
		t.Parallel()
		ctx := t.Context()

		api := &mockSlackAPI{}
		f := notify.NewSlackForwarder(api, "C_SUPPORT")

		require.NoError(t, f.ForwardSupportMessage(ctx, sender, msg))
		assert.Equal(t, "C_SUPPORT", api.postMsgChannel)
		assert.NotEmpty(t, api.postMsgOpts)
	})

	t.Run("surfaces API failures", func(t *testing.T) {
		t.Parallel()
		ctx := t.Context()

		api := &mockSlackAPI{postMsgErr: errors.New("slack down")}
		f := notify.NewSlackForwarder(api, "C_SUPPORT")

		err := f.ForwardSupportMessage(ctx, sender, msg)
		assert.Error(t, err)
	})
}
