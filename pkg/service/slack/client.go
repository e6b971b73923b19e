package slack

import (
	"context"
	"fmt"

	"github.com/m-mizutani/goerr/v2"
	"github.com/opsdesk/demandflow/pkg/domain/interfaces"
	"github.com/opsdesk/demandflow/pkg/domain/types"
	"github.com/opsdesk/demandflow/pkg/utils/logging"
	"github.com/slack-go/slack"
	"golang.org/x/sync/errgroup"
)

// maxConcurrentDMs limits parallel Slack API calls during fan-out
const maxConcurrentDMs = 4

// slackAPI is the subset of the Slack client the notifier needs. Tests
// substitute a recording fake.
type slackAPI interface {
	OpenConversationContext(ctx context.Context, params *slack.OpenConversationParameters) (*slack.Channel, bool, bool, error)
	PostMessageContext(ctx context.Context, channelID string, options ...slack.MsgOption) (string, string, error)
}

// client delivers notifications as Slack direct messages
type client struct {
	api slackAPI
}

// Option is a functional option for client configuration
type Option func(*client)

// New creates a new Slack notifier with the provided bot token
func New(token string, opts ...Option) (interfaces.Notifier, error) {
	if token == "" {
		return nil, goerr.New("Slack bot token is required")
	}

	c := &client{
		api: slack.New(token),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// Notify opens a DM with each recipient and posts the message. Recipients
// are handled concurrently and delivery is per-user best effort: a failure
// for one recipient does not stop the rest, and only one error is returned.
func (c *client) Notify(ctx context.Context, userIDs []types.UserID, title, message string, demandID int64) error {
	logger := logging.From(ctx)

	blocks := buildNotificationBlocks(title, message, demandID)

	var g errgroup.Group
	g.SetLimit(maxConcurrentDMs)

	for _, userID := range userIDs {
		g.Go(func() error {
			channel, _, _, err := c.api.OpenConversationContext(ctx, &slack.OpenConversationParameters{
				Users: []string{string(userID)},
			})
			if err != nil {
				logger.Warn("failed to open Slack DM", "userID", userID, "error", err)
				return goerr.Wrap(err, "failed to open Slack DM", goerr.V("userID", userID))
			}

			if _, _, err := c.api.PostMessageContext(ctx, channel.ID, slack.MsgOptionBlocks(blocks...)); err != nil {
				logger.Warn("failed to post Slack message", "userID", userID, "error", err)
				return goerr.Wrap(err, "failed to post Slack message",
					goerr.V("userID", userID),
					goerr.V("demandID", demandID))
			}
			return nil
		})
	}

	return g.Wait()
}

func buildNotificationBlocks(title, message string, demandID int64) []slack.Block {
	return []slack.Block{
		slack.NewHeaderBlock(slack.NewTextBlockObject(slack.PlainTextType, title, false, false)),
		slack.NewSectionBlock(slack.NewTextBlockObject(slack.MarkdownType, message, false, false), nil, nil),
		slack.NewContextBlock("",
			slack.NewTextBlockObject(slack.MarkdownType, fmt.Sprintf("Demand #%d", demandID), false, false)),
	}
}
