package config

import (
	"github.com/m-mizutani/goerr/v2"
	"github.com/opsdesk/demandflow/pkg/domain/interfaces"
	"github.com/opsdesk/demandflow/pkg/service/slack"
	"github.com/opsdesk/demandflow/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

// Slack holds CLI flags for Slack notification configuration
type Slack struct {
	botToken string
}

// Flags returns CLI flags for Slack configuration
func (s *Slack) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "slack-bot-token",
			Usage:       "Slack Bot User OAuth Token for DM notifications",
			Sources:     cli.EnvVars("DEMANDFLOW_SLACK_BOT_TOKEN"),
			Destination: &s.botToken,
		},
	}
}

// IsConfigured reports whether a bot token was provided
func (s *Slack) IsConfigured() bool {
	return s.botToken != ""
}

// Configure returns the Slack notifier when a bot token is provided, or the
// log-only notifier otherwise.
func (s *Slack) Configure() (interfaces.Notifier, error) {
	if s.botToken == "" {
		logging.Default().Info("Slack Bot Token not configured, notifications will be logged only")
		return slack.NewNoop(), nil
	}

	notifier, err := slack.New(s.botToken)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to initialize slack notifier")
	}
	logging.Default().Info("Slack notifications enabled")
	return notifier, nil
}
