package model

import "github.com/opsdesk/demandflow/pkg/domain/types"

// Risk band thresholds on the computed index
const (
	riskIndexHighAbove = 90.0
	riskIndexLowBelow  = 30.0
)

// RiskScore is the computed result of scoring a demand's risk inputs
type RiskScore struct {
	Index float64
	Band  types.RiskBand
}

// ScoreRisk computes the risk index from the probability band, impact level
// and classification:
//
//	index = probabilityWeight * impactWeight * classificationMultiplier
//
// where Project demands carry a 1.2 multiplier and Improvements 1.0. The
// qualitative band follows the index: above 90 is high, below 30 is low,
// everything between is moderate.
func ScoreRisk(probability types.ProbabilityBand, impact types.ImpactLevel, classification types.Classification) RiskScore {
	multiplier := 1.0
	if classification == types.ClassificationProject {
		multiplier = 1.2
	}

	index := probability.Weight() * impact.Weight() * multiplier

	band := types.RiskBandModerate
	switch {
	case index > riskIndexHighAbove:
		band = types.RiskBandHigh
	case index < riskIndexLowBelow:
		band = types.RiskBandLow
	}

	return RiskScore{Index: index, Band: band}
}

// AcceptsResponsePlan reports whether a response plan is meaningful for the
// score. High-band risks are escalated instead of treated, so a plan is
// only attached when the index stays at or below the high threshold.
func (s RiskScore) AcceptsResponsePlan() bool {
	return s.Index <= riskIndexHighAbove
}

// ShouldNotifyCommittee is the escalation policy applied after scoring: the
// committee roster is alerted when the band is high or the demand priority
// already mandates the committee path. Notification never changes the
// demand status by itself.
func ShouldNotifyCommittee(score RiskScore, priority types.Priority) bool {
	return score.Band == types.RiskBandHigh || priority.RequiresCommittee()
}
