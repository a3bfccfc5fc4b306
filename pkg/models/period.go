package models

import "fmt"

// Period is a quarter (1-4) or an overtime segment (5-7)
type Period int

const (
	Q1 Period = iota + 1
	Q2
	Q3
	Q4
	OT1
	OT2
	OT3
)

// MaxPeriod is the last period a game can reach
const MaxPeriod = OT3

// Valid reports whether p is a known period
func (p Period) Valid() bool {
	return p >= Q1 && p <= MaxPeriod
}

// IsOvertime reports whether p is an overtime segment
func (p Period) IsOvertime() bool {
	return p > Q4
}

// Label returns the display label: "Q1".."Q4", "OT1".."OT3"
func (p Period) Label() string {
	if p > Q4 {
		return fmt.Sprintf("OT%d", int(p-Q4))
	}
	return fmt.Sprintf("Q%d", int(p))
}

// FoulPeriod is the period team fouls are counted against.
// Overtime fouls accumulate on the fourth quarter.
func (p Period) FoulPeriod() Period {
	if p > Q4 {
		return Q4
	}
	return p
}
