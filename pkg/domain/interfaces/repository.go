package interfaces

// Repository defines the interface for data persistence
type Repository interface {
	Demand() DemandRepository
	Approval() ApprovalRepository
	RiskAssessment() RiskAssessmentRepository
	Member() MemberRepository
	History() HistoryRepository

	Close() error
}
