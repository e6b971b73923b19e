package memory

import (
	"github.com/opsdesk/demandflow/pkg/domain/interfaces"
)

// Repository is an alias for Memory to match the pattern
type Repository = Memory

type Memory struct {
	demand         *demandRepository
	approval       *approvalRepository
	riskAssessment *riskAssessmentRepository
	member         *memberRepository
	history        *historyRepository
}

var _ interfaces.Repository = &Memory{}

func New() *Memory {
	return &Memory{
		demand:         newDemandRepository(),
		approval:       newApprovalRepository(),
		riskAssessment: newRiskAssessmentRepository(),
		member:         newMemberRepository(),
		history:        newHistoryRepository(),
	}
}

func (m *Memory) Demand() interfaces.DemandRepository {
	return m.demand
}

func (m *Memory) Approval() interfaces.ApprovalRepository {
	return m.approval
}

func (m *Memory) RiskAssessment() interfaces.RiskAssessmentRepository {
	return m.riskAssessment
}

func (m *Memory) Member() interfaces.MemberRepository {
	return m.member
}

func (m *Memory) History() interfaces.HistoryRepository {
	return m.history
}

// Close is a no-op for the in-memory backend
func (m *Memory) Close() error {
	return nil
}
