package freeze

import (
	"context"
	"fmt"

	"github.com/slack-go/slack"

	"github.com/releasekit/changefile/logger"
)

type Notifier interface {
	Notify(ctx context.Context, text string) error
}

// SlackNotifier announces freeze days to a Slack channel.
type SlackNotifier struct {
	client  *slack.Client
	channel string
	logger  logger.Logger
}

func NewSlackNotifier(token string, channel string, logger logger.Logger) (*SlackNotifier, error) {
	client := slack.New(token)
	at, err := client.AuthTest()
	if err != nil {
		return nil, fmt.Errorf("failed to auth test: %w", err)
	}
	logger.Debugf("slack auth test: %+v", at)
	return &SlackNotifier{
		client:  client,
		channel: channel,
		logger:  logger,
	}, nil
}

var _ Notifier = (*SlackNotifier)(nil)

func (s *SlackNotifier) Notify(ctx context.Context, text string) error {
	s.logger.Infof("notifying %s", s.channel)
	_, _, err := s.client.PostMessageContext(ctx, s.channel, slack.MsgOptionText(text, false))
	if err != nil {
		return fmt.Errorf("failed to post message to channel %s: %w", s.channel, err)
	}
	return nil
}
