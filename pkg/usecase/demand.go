package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/opsdesk/demandflow/pkg/domain/interfaces"
	"github.com/opsdesk/demandflow/pkg/domain/model"
	"github.com/opsdesk/demandflow/pkg/domain/types"
	"github.com/opsdesk/demandflow/pkg/utils/async"
	"github.com/opsdesk/demandflow/pkg/utils/logging"
)

// DemandUseCase handles demand CRUD and status changes
type DemandUseCase struct {
	repo      interfaces.Repository
	validator *model.TransitionValidator
	notifier  interfaces.Notifier
}

// CreateDemandInput carries the fields for a new demand. Title is the only
// required field; priority and classification fall back to MEDIUM and
// IMPROVEMENT when omitted.
type CreateDemandInput struct {
	Title          string
	Description    string
	Priority       types.Priority
	Classification types.Classification
	CompanyID      types.CompanyID
	SquadID        types.SquadID
	RequesterID    types.UserID
	IsRegulatory   bool
}

func (uc *DemandUseCase) Create(ctx context.Context, input CreateDemandInput) (*model.Demand, error) {
	if input.Title == "" {
		return nil, goerr.Wrap(ErrInvalidInput, "demand title is required")
	}
	if err := input.CompanyID.Validate(); err != nil {
		return nil, goerr.Wrap(err, "invalid company ID")
	}

	priority := input.Priority
	if priority == "" {
		priority = types.PriorityMedium
	}
	if !priority.IsValid() {
		return nil, goerr.Wrap(ErrInvalidInput, "invalid priority", goerr.V("priority", input.Priority))
	}

	classification := input.Classification
	if classification == "" {
		classification = types.ClassificationImprovement
	}
	if !classification.IsValid() {
		return nil, goerr.Wrap(ErrInvalidInput, "invalid classification", goerr.V("classification", input.Classification))
	}

	demand := &model.Demand{
		Title:          input.Title,
		Description:    input.Description,
		Status:         types.DemandStatusBacklog,
		Priority:       priority,
		Classification: classification,
		CompanyID:      input.CompanyID,
		SquadID:        input.SquadID,
		RequesterID:    input.RequesterID,
		IsRegulatory:   input.IsRegulatory,
	}

	created, err := uc.repo.Demand().Create(ctx, demand)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create demand")
	}

	uc.appendHistory(ctx, &model.HistoryEntry{
		DemandID:    created.ID,
		ActorID:     input.RequesterID,
		Kind:        types.HistoryKindStatusChange,
		After:       created.Status.String(),
		Description: "demand created",
	})

	uc.notifyManagers(ctx, created, "New demand",
		fmt.Sprintf("%s filed a new demand: %s", input.RequesterID, created.Title))

	return created, nil
}

func (uc *DemandUseCase) Get(ctx context.Context, id int64) (*model.Demand, error) {
	demand, err := uc.repo.Demand().Get(ctx, id)
	if err != nil {
		return nil, goerr.Wrap(ErrDemandNotFound, "demand not found", goerr.V(DemandIDKey, id))
	}
	return demand, nil
}

func (uc *DemandUseCase) List(ctx context.Context, opts interfaces.ListDemandsOptions) ([]*model.Demand, error) {
	demands, err := uc.repo.Demand().List(ctx, opts)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list demands")
	}
	return demands, nil
}

// ChangeStatus moves the demand to the target status. Transitions that
// require confirmation are refused until the caller repeats the request
// with confirmed set.
func (uc *DemandUseCase) ChangeStatus(ctx context.Context, id int64, target types.DemandStatus, actorID types.UserID, confirmed bool) (*model.Demand, error) {
	demand, err := uc.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	updated, err := transitionDemand(ctx, uc.repo, uc.validator, demand, target, actorID, confirmed, "")
	if err != nil {
		return nil, err
	}

	uc.notifyRequester(ctx, updated, "Demand status changed",
		fmt.Sprintf("%s moved the demand to %s", actorID, target))

	return updated, nil
}

// Submit moves a demand from the backlog into manager approval. Demands
// parked in stand-by pass through the backlog on the way.
func (uc *DemandUseCase) Submit(ctx context.Context, id int64, actorID types.UserID) (*model.Demand, error) {
	demand, err := uc.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if demand.Status.Normalize() == types.DemandStatusStandBy {
		demand, err = transitionDemand(ctx, uc.repo, uc.validator, demand, types.DemandStatusBacklog, actorID, true, "reactivated for submission")
		if err != nil {
			return nil, err
		}
	}

	updated, err := transitionDemand(ctx, uc.repo, uc.validator, demand, types.DemandStatusAwaitingManager, actorID, false, "submitted for approval")
	if err != nil {
		return nil, err
	}

	uc.notifyManagers(ctx, updated, "Approval requested",
		fmt.Sprintf("%s submitted demand %q for manager approval", actorID, updated.Title))

	return updated, nil
}

// Actions returns the actions currently offered for the demand
func (uc *DemandUseCase) Actions(ctx context.Context, id int64) ([]model.Action, error) {
	demand, err := uc.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return uc.validator.AvailableActions(demand), nil
}

func (uc *DemandUseCase) History(ctx context.Context, id int64) ([]*model.HistoryEntry, error) {
	if _, err := uc.Get(ctx, id); err != nil {
		return nil, err
	}

	entries, err := uc.repo.History().ListByDemand(ctx, id)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list history", goerr.V(DemandIDKey, id))
	}
	return entries, nil
}

func (uc *DemandUseCase) appendHistory(ctx context.Context, entry *model.HistoryEntry) {
	appendHistory(ctx, uc.repo, entry)
}

func (uc *DemandUseCase) notifyManagers(ctx context.Context, demand *model.Demand, title, message string) {
	notifyRole(ctx, uc.repo, uc.notifier, demand, types.MemberRoleManager, title, message)
}

func (uc *DemandUseCase) notifyRequester(ctx context.Context, demand *model.Demand, title, message string) {
	notifyUsers(ctx, uc.notifier, []types.UserID{demand.RequesterID}, title, message, demand.ID)
}

// transitionDemand validates and applies a status change, persists it, and
// appends the audit entry. Returning to the backlog starts a new approval
// cycle, so the committee tally is reset.
func transitionDemand(ctx context.Context, repo interfaces.Repository, validator *model.TransitionValidator, demand *model.Demand, target types.DemandStatus, actorID types.UserID, confirmed bool, description string) (*model.Demand, error) {
	decision := validator.Validate(demand, target)
	if !decision.Allowed {
		return nil, goerr.Wrap(ErrTransitionDenied, decision.Message,
			goerr.V(DemandIDKey, demand.ID),
			goerr.V(StatusKey, demand.Status),
			goerr.V(TargetKey, target))
	}
	if decision.RequiresConfirmation && !confirmed {
		return nil, goerr.Wrap(ErrConfirmationRequired, decision.Message,
			goerr.V(DemandIDKey, demand.ID),
			goerr.V(TargetKey, target))
	}

	before := demand.Status
	demand.Status = target
	if target == types.DemandStatusBacklog {
		demand.CommitteeApprovalPercent = 0
	}

	updated, err := repo.Demand().Update(ctx, demand)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to update demand status",
			goerr.V(DemandIDKey, demand.ID), goerr.V(TargetKey, target))
	}

	appendHistory(ctx, repo, &model.HistoryEntry{
		DemandID:    updated.ID,
		ActorID:     actorID,
		Kind:        types.HistoryKindStatusChange,
		Before:      before.String(),
		After:       target.String(),
		Description: description,
	})

	return updated, nil
}

// appendHistory writes the audit entry. The status change has already been
// persisted at this point, so an audit write failure is logged rather than
// propagated.
func appendHistory(ctx context.Context, repo interfaces.Repository, entry *model.HistoryEntry) {
	if entry.ID == "" {
		entry.ID = model.NewHistoryEntryID()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	if err := repo.History().Append(ctx, entry); err != nil {
		logging.From(ctx).Error("failed to append history entry",
			"demand_id", entry.DemandID,
			"kind", entry.Kind.String(),
			"error", err,
		)
	}
}

// notifyRole fans a message out to a roster role, fire-and-forget
func notifyRole(ctx context.Context, repo interfaces.Repository, notifier interfaces.Notifier, demand *model.Demand, role types.MemberRole, title, message string) {
	demandID := demand.ID
	companyID := demand.CompanyID
	if !role.IsCompanyScoped() {
		companyID = ""
	}

	async.Dispatch(ctx, func(ctx context.Context) error {
		members, err := repo.Member().ListActive(ctx, role, companyID)
		if err != nil {
			return goerr.Wrap(err, "failed to resolve notification recipients",
				goerr.V("role", role), goerr.V(DemandIDKey, demandID))
		}
		if len(members) == 0 {
			return nil
		}

		userIDs := make([]types.UserID, 0, len(members))
		for _, m := range members {
			userIDs = append(userIDs, m.UserID)
		}
		return notifier.Notify(ctx, userIDs, title, message, demandID)
	})
}

func notifyUsers(ctx context.Context, notifier interfaces.Notifier, userIDs []types.UserID, title, message string, demandID int64) {
	if len(userIDs) == 0 {
		return
	}
	async.Dispatch(ctx, func(ctx context.Context) error {
		return notifier.Notify(ctx, userIDs, title, message, demandID)
	})
}
