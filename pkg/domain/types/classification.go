package types

import "fmt"

// Classification distinguishes small improvements from full projects
type Classification string

const (
	ClassificationImprovement Classification = "IMPROVEMENT"
	ClassificationProject     Classification = "PROJECT"
)

// AllClassifications returns all valid classifications
func AllClassifications() []Classification {
	return []Classification{
		ClassificationImprovement,
		ClassificationProject,
	}
}

// IsValid checks if the classification is valid
func (c Classification) IsValid() bool {
	switch c {
	case ClassificationImprovement, ClassificationProject:
		return true
	default:
		return false
	}
}

// String returns the string representation of the classification
func (c Classification) String() string {
	return string(c)
}

// ParseClassification parses a string into a Classification
func ParseClassification(s string) (Classification, error) {
	c := Classification(s)
	if !c.IsValid() {
		return "", fmt.Errorf("invalid classification: %s", s)
	}
	return c, nil
}
