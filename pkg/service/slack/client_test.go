package slack_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/m-mizutani/gt"
	svc "github.com/opsdesk/demandflow/pkg/service/slack"
	slackapi "github.com/slack-go/slack"

	"github.com/opsdesk/demandflow/pkg/domain/types"
)

type fakeAPI struct {
	mu        sync.Mutex
	failUsers map[string]bool
	opened    []string
	posted    []string
}

func (f *fakeAPI) OpenConversationContext(ctx context.Context, params *slackapi.OpenConversationParameters) (*slackapi.Channel, bool, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	user := params.Users[0]
	if f.failUsers[user] {
		return nil, false, false, errors.New("user not found")
	}
	f.opened = append(f.opened, user)
	ch := &slackapi.Channel{}
	ch.ID = "D_" + user
	return ch, false, false, nil
}

func (f *fakeAPI) PostMessageContext(ctx context.Context, channelID string, options ...slackapi.MsgOption) (string, string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.posted = append(f.posted, channelID)
	return channelID, "", nil
}

func TestNotify_DMPerRecipient(t *testing.T) {
	api := &fakeAPI{}
	notifier := svc.NewWithAPI(api)

	err := notifier.Notify(context.Background(), []types.UserID{"U001", "U002"}, "Approval needed", "Demand awaits committee review", 42)
	gt.NoError(t, err)

	gt.A(t, api.opened).Length(2).Has("U001").Has("U002")
	gt.A(t, api.posted).Length(2)
}

func TestNotify_ContinuesPastFailure(t *testing.T) {
	api := &fakeAPI{failUsers: map[string]bool{"U001": true}}
	notifier := svc.NewWithAPI(api)

	err := notifier.Notify(context.Background(), []types.UserID{"U001", "U002"}, "Approval needed", "body", 42)
	gt.Error(t, err)

	// the failing recipient does not block the rest
	gt.A(t, api.posted).Length(1).Has("D_U002")
}

func TestNew_RequiresToken(t *testing.T) {
	_, err := svc.New("")
	gt.Error(t, err)
}
