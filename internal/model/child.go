package model

import "time"

// DateLayout is the ISO calendar date format used for birthdates and
// custom schedule dates.
const DateLayout = "2006-01-02"

type Child struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Birthdate string `json:"birthdate,omitempty"`
}

// AgeOn returns the child's age in whole years on asOf. ok is false when the
// child has no (parseable) birthdate.
func (c Child) AgeOn(asOf time.Time) (age int, ok bool) {
	if c.Birthdate == "" {
		return 0, false
	}
	b, err := time.Parse(DateLayout, c.Birthdate)
	if err != nil {
		return 0, false
	}
	return Age(b, asOf), true
}

// Age computes completed years between birthdate and asOf.
func Age(birthdate, asOf time.Time) int {
	age := asOf.Year() - birthdate.Year()
	if asOf.Month() < birthdate.Month() ||
		(asOf.Month() == birthdate.Month() && asOf.Day() < birthdate.Day()) {
		age--
	}
	return age
}
