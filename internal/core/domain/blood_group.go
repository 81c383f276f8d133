package domain

import "fmt"

type BloodGroup string

const (
	APositive  BloodGroup = "A+"
	ANegative  BloodGroup = "A-"
	BPositive  BloodGroup = "B+"
	BNegative  BloodGroup = "B-"
	ABPositive BloodGroup = "AB+"
	ABNegative BloodGroup = "AB-"
	OPositive  BloodGroup = "O+"
	ONegative  BloodGroup = "O-"
)

// BloodGroups is the closed set of groups, in display order. Every entity,
// validator rule and stock initializer reads from this slice.
var BloodGroups = []BloodGroup{
	APositive, ANegative,
	BPositive, BNegative,
	ABPositive, ABNegative,
	OPositive, ONegative,
}

func (g BloodGroup) Valid() bool {
	for _, known := range BloodGroups {
		if g == known {
			return true
		}
	}
	return false
}

func (g BloodGroup) String() string {
	return string(g)
}

// ParseBloodGroup accepts the canonical spelling only ("AB+", not "ab+").
func ParseBloodGroup(s string) (BloodGroup, error) {
	g := BloodGroup(s)
	if !g.Valid() {
		return "", fmt.Errorf("unknown blood group %q", s)
	}
	return g, nil
}
