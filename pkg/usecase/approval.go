package usecase

import (
	"context"
	"fmt"

	"github.com/m-mizutani/goerr/v2"
	"github.com/opsdesk/demandflow/pkg/domain/interfaces"
	"github.com/opsdesk/demandflow/pkg/domain/model"
	"github.com/opsdesk/demandflow/pkg/domain/types"
	"github.com/opsdesk/demandflow/pkg/service/quorum"
)

// ApprovalUseCase records approver decisions and routes demands through
// the manager, committee and IT levels.
type ApprovalUseCase struct {
	repo      interfaces.Repository
	validator *model.TransitionValidator
	tracker   *quorum.Tracker
	notifier  interfaces.Notifier
}

// ApprovalResult reports what one recorded decision changed
type ApprovalResult struct {
	Demand *model.Demand

	// Duplicate reports that the approver had already voted at this level.
	// Nothing changed; the caller may surface it as informational.
	Duplicate bool

	// Advanced reports that the level reached quorum with this vote
	Advanced bool

	// ApprovedPercent is the share of the roster that has approved at the
	// level after this vote. Always 100 for a manager approval.
	ApprovedPercent int
}

// levelOpen reports whether the demand currently accepts decisions at the
// level. IT opinions may also be recorded out-of-band while the demand sits
// in the backlog or in manager-approved planning.
func levelOpen(status types.DemandStatus, level types.ApprovalLevel) bool {
	switch level {
	case types.ApprovalLevelManager:
		return status == types.DemandStatusAwaitingManager
	case types.ApprovalLevelCommittee:
		return status == types.DemandStatusAwaitingCommittee
	case types.ApprovalLevelIT:
		switch status {
		case types.DemandStatusAwaitingITAssessment,
			types.DemandStatusManagerApprovedGP,
			types.DemandStatusBacklog:
			return true
		}
	}
	return false
}

func (uc *ApprovalUseCase) Record(ctx context.Context, demandID int64, approverID types.UserID, level types.ApprovalLevel, outcome types.ApprovalOutcome, reason string) (*ApprovalResult, error) {
	if !level.IsValid() {
		return nil, goerr.Wrap(ErrInvalidInput, "invalid approval level", goerr.V(LevelKey, level))
	}
	if !outcome.IsFinal() {
		return nil, goerr.Wrap(ErrInvalidInput, "approval outcome must be APPROVED or REJECTED", goerr.V("outcome", outcome))
	}

	demand, err := uc.repo.Demand().Get(ctx, demandID)
	if err != nil {
		return nil, goerr.Wrap(ErrDemandNotFound, "demand not found", goerr.V(DemandIDKey, demandID))
	}

	status := demand.Status.Normalize()
	if !levelOpen(status, level) {
		return nil, goerr.Wrap(ErrApprovalNotOpen, "demand does not accept decisions at this level",
			goerr.V(DemandIDKey, demandID),
			goerr.V(StatusKey, status),
			goerr.V(LevelKey, level))
	}

	res, err := uc.tracker.Record(ctx, demand, approverID, level, outcome, reason)
	if err != nil {
		return nil, err
	}
	if res.Duplicate {
		return &ApprovalResult{Demand: demand, Duplicate: true, ApprovedPercent: demand.CommitteeApprovalPercent}, nil
	}

	appendHistory(ctx, uc.repo, &model.HistoryEntry{
		DemandID:    demand.ID,
		ActorID:     approverID,
		Kind:        types.HistoryKindApproval,
		Before:      level.String(),
		After:       outcome.String(),
		Description: reason,
	})

	if outcome == types.ApprovalOutcomeRejected {
		return uc.routeRejection(ctx, demand, approverID, level, reason)
	}

	switch level {
	case types.ApprovalLevelManager:
		return uc.routeManagerApproval(ctx, demand, approverID)
	case types.ApprovalLevelCommittee:
		return uc.routeCommitteeApproval(ctx, demand, approverID, res)
	default:
		return uc.routeITApproval(ctx, demand, approverID, res)
	}
}

// routeRejection sends the demand back to the backlog where the transition
// table permits it. A negative out-of-band IT opinion on a backlog demand
// leaves the status alone.
func (uc *ApprovalUseCase) routeRejection(ctx context.Context, demand *model.Demand, approverID types.UserID, level types.ApprovalLevel, reason string) (*ApprovalResult, error) {
	updated := demand
	if demand.Status.Normalize() != types.DemandStatusBacklog {
		var err error
		updated, err = transitionDemand(ctx, uc.repo, uc.validator, demand, types.DemandStatusBacklog, approverID, true,
			fmt.Sprintf("rejected at %s level", level))
		if err != nil {
			return nil, err
		}
	}

	message := fmt.Sprintf("Demand %q was rejected at the %s level", updated.Title, level)
	if reason != "" {
		message += ": " + reason
	}
	notifyUsers(ctx, uc.notifier, []types.UserID{updated.RequesterID}, "Demand rejected", message, updated.ID)

	return &ApprovalResult{Demand: updated}, nil
}

// routeManagerApproval applies the manager decision: low and medium
// priority demands are approved outright, high and critical ones go to the
// committee.
func (uc *ApprovalUseCase) routeManagerApproval(ctx context.Context, demand *model.Demand, approverID types.UserID) (*ApprovalResult, error) {
	if demand.Priority.RequiresCommittee() {
		updated, err := transitionDemand(ctx, uc.repo, uc.validator, demand, types.DemandStatusAwaitingCommittee, approverID, true, "manager approved; escalated to committee")
		if err != nil {
			return nil, err
		}

		notifyRole(ctx, uc.repo, uc.notifier, updated, types.MemberRoleCommittee,
			"Committee approval requested",
			fmt.Sprintf("Demand %q (%s priority) needs your vote", updated.Title, updated.Priority))

		return &ApprovalResult{Demand: updated, Advanced: true, ApprovedPercent: 100}, nil
	}

	updated, err := transitionDemand(ctx, uc.repo, uc.validator, demand, types.DemandStatusApproved, approverID, true, "approved by manager")
	if err != nil {
		return nil, err
	}

	notifyUsers(ctx, uc.notifier, []types.UserID{updated.RequesterID}, "Demand approved",
		fmt.Sprintf("Demand %q was approved", updated.Title), updated.ID)

	return &ApprovalResult{Demand: updated, Advanced: true, ApprovedPercent: 100}, nil
}

// routeCommitteeApproval updates the committee tally on every vote and
// moves the demand to IT assessment once the roster is unanimous.
func (uc *ApprovalUseCase) routeCommitteeApproval(ctx context.Context, demand *model.Demand, approverID types.UserID, res *quorum.Result) (*ApprovalResult, error) {
	percent := 0
	if res.RosterSize > 0 {
		percent = res.Approved * 100 / res.RosterSize
	}
	demand.CommitteeApprovalPercent = percent

	if !res.Advanced {
		updated, err := uc.repo.Demand().Update(ctx, demand)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to update committee tally", goerr.V(DemandIDKey, demand.ID))
		}
		return &ApprovalResult{Demand: updated, ApprovedPercent: percent}, nil
	}

	updated, err := transitionDemand(ctx, uc.repo, uc.validator, demand, types.DemandStatusAwaitingITAssessment, approverID, true, "committee approval unanimous")
	if err != nil {
		return nil, err
	}

	notifyRole(ctx, uc.repo, uc.notifier, updated, types.MemberRoleScrumMaster,
		"IT assessment requested",
		fmt.Sprintf("Demand %q passed the committee and needs an IT assessment", updated.Title))

	return &ApprovalResult{Demand: updated, Advanced: true, ApprovedPercent: percent}, nil
}

// routeITApproval marks the technical approval once the scrum master
// roster is unanimous. From IT assessment the demand proceeds to director
// review; an out-of-band opinion leaves the status unchanged.
func (uc *ApprovalUseCase) routeITApproval(ctx context.Context, demand *model.Demand, approverID types.UserID, res *quorum.Result) (*ApprovalResult, error) {
	percent := 0
	if res.RosterSize > 0 {
		percent = res.Approved * 100 / res.RosterSize
	}

	if !res.Advanced {
		return &ApprovalResult{Demand: demand, ApprovedPercent: percent}, nil
	}

	demand.TechnicalApprovalPresent = true

	if demand.Status.Normalize() == types.DemandStatusAwaitingITAssessment {
		updated, err := transitionDemand(ctx, uc.repo, uc.validator, demand, types.DemandStatusDirectorReview, approverID, true, "IT assessment complete")
		if err != nil {
			return nil, err
		}

		notifyUsers(ctx, uc.notifier, []types.UserID{updated.RequesterID}, "IT assessment complete",
			fmt.Sprintf("Demand %q moved to director review", updated.Title), updated.ID)

		return &ApprovalResult{Demand: updated, Advanced: true, ApprovedPercent: percent}, nil
	}

	updated, err := uc.repo.Demand().Update(ctx, demand)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to record technical approval", goerr.V(DemandIDKey, demand.ID))
	}

	notifyUsers(ctx, uc.notifier, []types.UserID{updated.RequesterID}, "IT opinion recorded",
		fmt.Sprintf("Demand %q received a positive IT opinion", updated.Title), updated.ID)

	return &ApprovalResult{Demand: updated, Advanced: true, ApprovedPercent: percent}, nil
}

// RequestInput records a pending input request from an approver and
// notifies the target user. Pending records never count toward quorum and
// never block the approver's later vote.
func (uc *ApprovalUseCase) RequestInput(ctx context.Context, demandID int64, approverID, targetUserID types.UserID, message string) error {
	demand, err := uc.repo.Demand().Get(ctx, demandID)
	if err != nil {
		return goerr.Wrap(ErrDemandNotFound, "demand not found", goerr.V(DemandIDKey, demandID))
	}

	level := inputRequestLevel(demand.Status.Normalize())

	if _, err := uc.tracker.Record(ctx, demand, approverID, level, types.ApprovalOutcomePending, message); err != nil {
		return err
	}

	appendHistory(ctx, uc.repo, &model.HistoryEntry{
		DemandID:    demand.ID,
		ActorID:     approverID,
		Kind:        types.HistoryKindInputRequest,
		Description: message,
	})

	notifyUsers(ctx, uc.notifier, []types.UserID{targetUserID}, "Input requested",
		fmt.Sprintf("%s asked for input on demand %q: %s", approverID, demand.Title, message), demand.ID)

	return nil
}

// inputRequestLevel tags a pending record with the level whose review is
// currently open. Requests raised outside a review step default to the
// manager level.
func inputRequestLevel(status types.DemandStatus) types.ApprovalLevel {
	switch status {
	case types.DemandStatusAwaitingCommittee:
		return types.ApprovalLevelCommittee
	case types.DemandStatusAwaitingITAssessment:
		return types.ApprovalLevelIT
	default:
		return types.ApprovalLevelManager
	}
}
