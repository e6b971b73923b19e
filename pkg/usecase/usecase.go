package usecase

import (
	"github.com/opsdesk/demandflow/pkg/domain/interfaces"
	"github.com/opsdesk/demandflow/pkg/domain/model"
	"github.com/opsdesk/demandflow/pkg/service/quorum"
	"github.com/opsdesk/demandflow/pkg/service/roster"
	"github.com/opsdesk/demandflow/pkg/service/slack"
)

type UseCases struct {
	repo               interfaces.Repository
	notifier           interfaces.Notifier
	roster             interfaces.MembershipRoster
	committeeThreshold int

	Demand   *DemandUseCase
	Approval *ApprovalUseCase
	Risk     *RiskUseCase
}

type Option func(*UseCases)

// WithNotifier sets the notifier used for all fan-out. Defaults to the
// log-only notifier.
func WithNotifier(n interfaces.Notifier) Option {
	return func(uc *UseCases) {
		uc.notifier = n
	}
}

// WithRoster overrides the membership roster, which otherwise reads from
// the repository's member store.
func WithRoster(r interfaces.MembershipRoster) Option {
	return func(uc *UseCases) {
		uc.roster = r
	}
}

// WithCommitteeThreshold overrides the committee approval percentage
// required for the move into director review.
func WithCommitteeThreshold(percent int) Option {
	return func(uc *UseCases) {
		uc.committeeThreshold = percent
	}
}

func New(repo interfaces.Repository, opts ...Option) *UseCases {
	uc := &UseCases{
		repo:               repo,
		committeeThreshold: model.DefaultCommitteeThreshold,
	}

	for _, opt := range opts {
		opt(uc)
	}

	if uc.notifier == nil {
		uc.notifier = slack.NewNoop()
	}
	if uc.roster == nil {
		uc.roster = roster.New(repo.Member())
	}

	validator := model.NewTransitionValidator(model.WithCommitteeThreshold(uc.committeeThreshold))
	tracker := quorum.New(repo.Approval(), uc.roster)

	uc.Demand = &DemandUseCase{
		repo:      repo,
		validator: validator,
		notifier:  uc.notifier,
	}
	uc.Approval = &ApprovalUseCase{
		repo:      repo,
		validator: validator,
		tracker:   tracker,
		notifier:  uc.notifier,
	}
	uc.Risk = &RiskUseCase{
		repo:     repo,
		notifier: uc.notifier,
	}

	return uc
}
