package suggest

import (
	"testing"

	"github.com/dukerupert/chorechart/internal/model"
)

func TestBandSizes(t *testing.T) {
	tests := []struct {
		age  int
		want int
	}{
		{-4, 3},
		{0, 3},
		{2, 3},
		{3, 3},
		{4, 6},
		{5, 6},
		{6, 10},
		{8, 10},
		{9, 14},
		{12, 14},
		{13, 19},
		{17, 19},
		{40, 19},
	}
	for _, tt := range tests {
		if got := len(For(tt.age)); got != tt.want {
			t.Errorf("len(For(%d)) = %d, want %d", tt.age, got, tt.want)
		}
	}
}

func TestBandsAreCumulative(t *testing.T) {
	prev := For(2)
	for _, age := range []int{5, 8, 12, 13} {
		cur := For(age)
		for i, s := range prev {
			if cur[i].Name != s.Name {
				t.Fatalf("For(%d)[%d] = %q, want %q carried from younger band", age, i, cur[i].Name, s.Name)
			}
		}
		prev = cur
	}
}

func TestTeenAndAdultEqual(t *testing.T) {
	teen := For(13)
	adult := For(40)
	set := make(map[string]bool)
	for _, s := range teen {
		set[s.Name] = true
	}
	if len(adult) != len(teen) {
		t.Fatalf("len mismatch: %d vs %d", len(adult), len(teen))
	}
	for _, s := range adult {
		if !set[s.Name] {
			t.Errorf("unexpected adult suggestion %q", s.Name)
		}
	}
}

func TestSuggestionsComplete(t *testing.T) {
	names := make(map[string]bool)
	for _, s := range For(99) {
		if s.Name == "" || s.Description == "" || s.Icon == "" || s.Category == "" {
			t.Errorf("incomplete suggestion: %+v", s)
		}
		if names[s.Name] {
			t.Errorf("duplicate suggestion %q", s.Name)
		}
		names[s.Name] = true
		if s.Schedule.Frequency == model.FrequencyWeekly && len(s.Schedule.DaysOfWeek) == 0 {
			t.Errorf("weekly suggestion %q has no days", s.Name)
		}
	}
}

func TestResultsDoNotShareTable(t *testing.T) {
	first := For(8)
	for i := range first {
		for j := range first[i].Schedule.DaysOfWeek {
			first[i].Schedule.DaysOfWeek[j] = model.Monday
		}
	}

	for _, s := range For(8) {
		if s.Name == "Water plants" {
			if len(s.Schedule.DaysOfWeek) != 1 || s.Schedule.DaysOfWeek[0] != model.Wednesday {
				t.Errorf("water plants days = %v, want [wednesday]", s.Schedule.DaysOfWeek)
			}
			return
		}
	}
	t.Fatal("water plants missing from age 8 suggestions")
}
