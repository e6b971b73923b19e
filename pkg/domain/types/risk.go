package types

import "fmt"

// ProbabilityBand represents the qualitative likelihood of a risk occurring
type ProbabilityBand string

const (
	ProbabilityBelow30 ProbabilityBand = "BELOW_30"
	Probability30To90  ProbabilityBand = "BETWEEN_30_90"
	ProbabilityAbove90 ProbabilityBand = "ABOVE_90"
)

// AllProbabilityBands returns all valid probability bands in ascending order
func AllProbabilityBands() []ProbabilityBand {
	return []ProbabilityBand{
		ProbabilityBelow30,
		Probability30To90,
		ProbabilityAbove90,
	}
}

// IsValid checks if the probability band is valid
func (b ProbabilityBand) IsValid() bool {
	switch b {
	case ProbabilityBelow30, Probability30To90, ProbabilityAbove90:
		return true
	default:
		return false
	}
}

// Weight returns the numeric weight used by the risk index formula
func (b ProbabilityBand) Weight() float64 {
	switch b {
	case ProbabilityBelow30:
		return 0.15
	case Probability30To90:
		return 0.60
	case ProbabilityAbove90:
		return 0.95
	default:
		return 0
	}
}

// String returns the string representation of the probability band
func (b ProbabilityBand) String() string {
	return string(b)
}

// ParseProbabilityBand parses a string into a ProbabilityBand
func ParseProbabilityBand(s string) (ProbabilityBand, error) {
	b := ProbabilityBand(s)
	if !b.IsValid() {
		return "", fmt.Errorf("invalid probability band: %s", s)
	}
	return b, nil
}

// ImpactLevel represents the qualitative impact of a risk materializing
type ImpactLevel string

const (
	ImpactLow    ImpactLevel = "LOW"
	ImpactMedium ImpactLevel = "MEDIUM"
	ImpactHigh   ImpactLevel = "HIGH"
)

// AllImpactLevels returns all valid impact levels in ascending order
func AllImpactLevels() []ImpactLevel {
	return []ImpactLevel{
		ImpactLow,
		ImpactMedium,
		ImpactHigh,
	}
}

// IsValid checks if the impact level is valid
func (i ImpactLevel) IsValid() bool {
	switch i {
	case ImpactLow, ImpactMedium, ImpactHigh:
		return true
	default:
		return false
	}
}

// Weight returns the numeric weight used by the risk index formula
func (i ImpactLevel) Weight() float64 {
	switch i {
	case ImpactLow:
		return 20
	case ImpactMedium:
		return 50
	case ImpactHigh:
		return 100
	default:
		return 0
	}
}

// String returns the string representation of the impact level
func (i ImpactLevel) String() string {
	return string(i)
}

// ParseImpactLevel parses a string into an ImpactLevel
func ParseImpactLevel(s string) (ImpactLevel, error) {
	i := ImpactLevel(s)
	if !i.IsValid() {
		return "", fmt.Errorf("invalid impact level: %s", s)
	}
	return i, nil
}

// RiskBand is the qualitative band derived from the computed risk index
type RiskBand string

const (
	RiskBandLow      RiskBand = "low"
	RiskBandModerate RiskBand = "moderate"
	RiskBandHigh     RiskBand = "high"
)

// IsValid checks if the risk band is valid
func (b RiskBand) IsValid() bool {
	switch b {
	case RiskBandLow, RiskBandModerate, RiskBandHigh:
		return true
	default:
		return false
	}
}

// String returns the string representation of the risk band
func (b RiskBand) String() string {
	return string(b)
}

// ResponsePlan represents the chosen treatment for an assessed risk
type ResponsePlan string

const (
	ResponsePlanAccept    ResponsePlan = "ACCEPT"
	ResponsePlanMitigate  ResponsePlan = "MITIGATE"
	ResponsePlanAvoid     ResponsePlan = "AVOID"
	ResponsePlanOutsource ResponsePlan = "OUTSOURCE"
)

// AllResponsePlans returns all valid response plans
func AllResponsePlans() []ResponsePlan {
	return []ResponsePlan{
		ResponsePlanAccept,
		ResponsePlanMitigate,
		ResponsePlanAvoid,
		ResponsePlanOutsource,
	}
}

// IsValid checks if the response plan is valid
func (p ResponsePlan) IsValid() bool {
	switch p {
	case ResponsePlanAccept, ResponsePlanMitigate, ResponsePlanAvoid, ResponsePlanOutsource:
		return true
	default:
		return false
	}
}

// String returns the string representation of the response plan
func (p ResponsePlan) String() string {
	return string(p)
}

// ParseResponsePlan parses a string into a ResponsePlan
func ParseResponsePlan(s string) (ResponsePlan, error) {
	p := ResponsePlan(s)
	if !p.IsValid() {
		return "", fmt.Errorf("invalid response plan: %s", s)
	}
	return p, nil
}
