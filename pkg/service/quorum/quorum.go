package quorum

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/opsdesk/demandflow/pkg/domain/interfaces"
	"github.com/opsdesk/demandflow/pkg/domain/model"
	"github.com/opsdesk/demandflow/pkg/domain/types"
	"github.com/opsdesk/demandflow/pkg/utils/logging"
)

// Result is the outcome of recording one approver's decision.
type Result struct {
	// Advanced reports that the level is now fully satisfied. For the
	// Manager level a single approval satisfies it; Committee and IT
	// require the full active roster.
	Advanced bool

	// NextLevel is the following level in the chain when Advanced is true.
	// Empty for the final (IT) level. Routing to a status is the caller's
	// policy, not the tracker's.
	NextLevel types.ApprovalLevel

	// Duplicate reports that the approver had already voted at this level;
	// the call was a no-op and no counts changed.
	Duplicate bool

	// Approved and RosterSize expose the quorum counters after the write,
	// so callers can derive the committee approval percentage.
	Approved   int
	RosterSize int
}

// Tracker records approvals and decides whether a level is satisfied.
// Unanimity is measured against the live roster at the time of the vote:
// the count is re-read after a successful insert so the completing decision
// is made by exactly one writer.
type Tracker struct {
	approvals interfaces.ApprovalRepository
	roster    interfaces.MembershipRoster
}

func New(approvals interfaces.ApprovalRepository, roster interfaces.MembershipRoster) *Tracker {
	return &Tracker{approvals: approvals, roster: roster}
}

// Record writes the approver's decision for the demand at the given level
// and evaluates the quorum. A repeated vote by the same approver at the
// same level is a benign duplicate. A Pending outcome (input request) is
// stored but never participates in quorum.
func (t *Tracker) Record(ctx context.Context, demand *model.Demand, approverID types.UserID, level types.ApprovalLevel, outcome types.ApprovalOutcome, reason string) (*Result, error) {
	rec := &model.ApprovalRecord{
		ID:         model.NewApprovalRecordID(),
		DemandID:   demand.ID,
		ApproverID: approverID,
		Level:      level,
		Outcome:    outcome,
		Reason:     reason,
	}

	inserted, err := t.approvals.InsertIfAbsent(ctx, rec)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to record approval",
			goerr.V("demandID", demand.ID),
			goerr.V("approverID", approverID),
			goerr.V("level", level))
	}
	if !inserted {
		return &Result{Duplicate: true}, nil
	}

	if outcome != types.ApprovalOutcomeApproved {
		// Rejections end the cycle at the caller; pending records are
		// input requests. Neither advances a level.
		return &Result{}, nil
	}

	if level == types.ApprovalLevelManager {
		next, _ := level.Next()
		return &Result{Advanced: true, NextLevel: next, Approved: 1, RosterSize: 1}, nil
	}

	return t.evaluate(ctx, demand, level)
}

// evaluate re-reads the approval count and compares it with the live
// active-roster size.
func (t *Tracker) evaluate(ctx context.Context, demand *model.Demand, level types.ApprovalLevel) (*Result, error) {
	rosterSize, err := t.roster.ActiveCount(ctx, level, demand.CompanyID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to resolve roster size",
			goerr.V("demandID", demand.ID), goerr.V("level", level))
	}

	records, err := t.approvals.ListByDemandLevel(ctx, demand.ID, level)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list approvals",
			goerr.V("demandID", demand.ID), goerr.V("level", level))
	}

	approvers := make(map[types.UserID]struct{})
	for _, rec := range records {
		if rec.Outcome == types.ApprovalOutcomeApproved {
			approvers[rec.ApproverID] = struct{}{}
		}
	}
	approved := len(approvers)

	result := &Result{Approved: approved, RosterSize: rosterSize}

	if rosterSize == 0 {
		// A roster without active members can never reach quorum. This is
		// an operator configuration problem, not a user-facing failure.
		logging.From(ctx).Warn("approval roster has no active members; quorum cannot be satisfied",
			"demand_id", demand.ID,
			"level", level.String(),
			"company_id", demand.CompanyID.String(),
		)
		return result, nil
	}

	if approved == rosterSize {
		result.Advanced = true
		if next, ok := level.Next(); ok {
			result.NextLevel = next
		}
	}

	return result, nil
}

// ApprovedPercent returns the share of the active roster that has approved
// the demand at the level, in whole percent. A zero-member roster yields 0.
func (t *Tracker) ApprovedPercent(ctx context.Context, demand *model.Demand, level types.ApprovalLevel) (int, error) {
	result, err := t.evaluate(ctx, demand, level)
	if err != nil {
		return 0, err
	}
	if result.RosterSize == 0 {
		return 0, nil
	}
	return result.Approved * 100 / result.RosterSize, nil
}
