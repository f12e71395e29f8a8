package model

import (
	"testing"
	"time"
)

func TestAgeBirthdayBoundary(t *testing.T) {
	birth := time.Date(2015, 6, 15, 0, 0, 0, 0, time.UTC)

	if got := Age(birth, time.Date(2024, 6, 14, 0, 0, 0, 0, time.UTC)); got != 8 {
		t.Errorf("age day before birthday = %d, want 8", got)
	}
	if got := Age(birth, time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)); got != 9 {
		t.Errorf("age on birthday = %d, want 9", got)
	}
	if got := Age(birth, time.Date(2024, 5, 30, 0, 0, 0, 0, time.UTC)); got != 8 {
		t.Errorf("age earlier month = %d, want 8", got)
	}
}

func TestChildAgeOn(t *testing.T) {
	asOf := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)

	c := Child{ID: "1", Name: "Ava", Birthdate: "2015-06-15"}
	age, ok := c.AgeOn(asOf)
	if !ok || age != 9 {
		t.Errorf("AgeOn = %d, %v; want 9, true", age, ok)
	}

	if _, ok := (Child{Name: "NoBirthday"}).AgeOn(asOf); ok {
		t.Error("expected ok=false for missing birthdate")
	}
	if _, ok := (Child{Name: "Bad", Birthdate: "June 2015"}).AgeOn(asOf); ok {
		t.Error("expected ok=false for malformed birthdate")
	}
}
