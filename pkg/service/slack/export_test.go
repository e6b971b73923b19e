package slack

import "github.com/opsdesk/demandflow/pkg/domain/interfaces"

// NewWithAPI builds a notifier around a fake API for testing
func NewWithAPI(api slackAPI) interfaces.Notifier {
	return &client{api: api}
}
