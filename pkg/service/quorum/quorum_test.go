package quorum_test

import (
	"context"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/opsdesk/demandflow/pkg/domain/model"
	"github.com/opsdesk/demandflow/pkg/domain/types"
	"github.com/opsdesk/demandflow/pkg/repository/memory"
	"github.com/opsdesk/demandflow/pkg/service/quorum"
	"github.com/opsdesk/demandflow/pkg/service/roster"
)

func setup(t *testing.T) (*memory.Memory, *quorum.Tracker) {
	t.Helper()
	repo := memory.New()
	return repo, quorum.New(repo.Approval(), roster.New(repo.Member()))
}

func addMembers(t *testing.T, repo *memory.Memory, role types.MemberRole, companyID types.CompanyID, userIDs ...types.UserID) {
	t.Helper()
	ctx := context.Background()
	for _, uid := range userIDs {
		gt.NoError(t, repo.Member().Put(ctx, &model.Member{
			UserID:    uid,
			Role:      role,
			CompanyID: companyID,
			Active:    true,
		}))
	}
}

func TestTracker_ManagerLevel(t *testing.T) {
	_, tracker := setup(t)
	ctx := context.Background()
	d := &model.Demand{ID: 1, CompanyID: "acme"}

	result, err := tracker.Record(ctx, d, "MGR1", types.ApprovalLevelManager, types.ApprovalOutcomeApproved, "")
	gt.NoError(t, err).Required()
	gt.B(t, result.Advanced).True()
	gt.B(t, result.Duplicate).False()
	gt.Value(t, result.NextLevel).Equal(types.ApprovalLevelCommittee)
}

func TestTracker_DuplicateIsNoOp(t *testing.T) {
	repo, tracker := setup(t)
	ctx := context.Background()
	addMembers(t, repo, types.MemberRoleCommittee, "", "A", "B", "C")
	d := &model.Demand{ID: 1, CompanyID: "acme"}

	first, err := tracker.Record(ctx, d, "A", types.ApprovalLevelCommittee, types.ApprovalOutcomeApproved, "")
	gt.NoError(t, err).Required()
	gt.B(t, first.Duplicate).False()
	gt.Number(t, first.Approved).Equal(1)

	second, err := tracker.Record(ctx, d, "A", types.ApprovalLevelCommittee, types.ApprovalOutcomeApproved, "")
	gt.NoError(t, err).Required()
	gt.B(t, second.Duplicate).True()
	gt.B(t, second.Advanced).False()

	// the repeat vote did not change the quorum count
	percent, err := tracker.ApprovedPercent(ctx, d, types.ApprovalLevelCommittee)
	gt.NoError(t, err).Required()
	gt.Number(t, percent).Equal(33)
}

func TestTracker_CommitteeUnanimity(t *testing.T) {
	repo, tracker := setup(t)
	ctx := context.Background()
	addMembers(t, repo, types.MemberRoleCommittee, "", "A", "B", "C")
	d := &model.Demand{ID: 1, CompanyID: "acme"}

	// A and B alone never satisfy a roster of three
	for _, uid := range []types.UserID{"A", "B"} {
		result, err := tracker.Record(ctx, d, uid, types.ApprovalLevelCommittee, types.ApprovalOutcomeApproved, "")
		gt.NoError(t, err).Required()
		gt.B(t, result.Advanced).False()
	}

	result, err := tracker.Record(ctx, d, "C", types.ApprovalLevelCommittee, types.ApprovalOutcomeApproved, "")
	gt.NoError(t, err).Required()
	gt.B(t, result.Advanced).True()
	gt.Value(t, result.NextLevel).Equal(types.ApprovalLevelIT)
	gt.Number(t, result.Approved).Equal(3)
	gt.Number(t, result.RosterSize).Equal(3)
}

func TestTracker_ITCompanyScope(t *testing.T) {
	repo, tracker := setup(t)
	ctx := context.Background()
	addMembers(t, repo, types.MemberRoleScrumMaster, "acme", "SM1", "SM2")
	addMembers(t, repo, types.MemberRoleScrumMaster, "globex", "SM9")
	d := &model.Demand{ID: 1, CompanyID: "acme"}

	result, err := tracker.Record(ctx, d, "SM1", types.ApprovalLevelIT, types.ApprovalOutcomeApproved, "")
	gt.NoError(t, err).Required()
	gt.B(t, result.Advanced).False()

	// globex's scrum master is not part of acme's roster
	result, err = tracker.Record(ctx, d, "SM2", types.ApprovalLevelIT, types.ApprovalOutcomeApproved, "")
	gt.NoError(t, err).Required()
	gt.B(t, result.Advanced).True()
	gt.Value(t, result.NextLevel).Equal(types.ApprovalLevel(""))
}

func TestTracker_RejectionNeverAdvances(t *testing.T) {
	repo, tracker := setup(t)
	ctx := context.Background()
	addMembers(t, repo, types.MemberRoleCommittee, "", "A")
	d := &model.Demand{ID: 1, CompanyID: "acme"}

	result, err := tracker.Record(ctx, d, "A", types.ApprovalLevelCommittee, types.ApprovalOutcomeRejected, "insufficient budget")
	gt.NoError(t, err).Required()
	gt.B(t, result.Advanced).False()
	gt.B(t, result.Duplicate).False()
}

func TestTracker_EmptyRosterBlocks(t *testing.T) {
	_, tracker := setup(t)
	ctx := context.Background()
	d := &model.Demand{ID: 1, CompanyID: "acme"}

	result, err := tracker.Record(ctx, d, "A", types.ApprovalLevelCommittee, types.ApprovalOutcomeApproved, "")
	gt.NoError(t, err).Required()
	gt.B(t, result.Advanced).False()
	gt.Number(t, result.RosterSize).Equal(0)
}

func TestTracker_PendingDoesNotCount(t *testing.T) {
	repo, tracker := setup(t)
	ctx := context.Background()
	addMembers(t, repo, types.MemberRoleCommittee, "", "A", "B")
	d := &model.Demand{ID: 1, CompanyID: "acme"}

	_, err := tracker.Record(ctx, d, "A", types.ApprovalLevelCommittee, types.ApprovalOutcomePending, "please attach the cost estimate")
	gt.NoError(t, err).Required()

	result, err := tracker.Record(ctx, d, "B", types.ApprovalLevelCommittee, types.ApprovalOutcomeApproved, "")
	gt.NoError(t, err).Required()
	gt.B(t, result.Advanced).False()
	gt.Number(t, result.Approved).Equal(1)
}
