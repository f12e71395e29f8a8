package schedule

import (
	"testing"
	"time"

	"github.com/dukerupert/chorechart/internal/model"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 12, 0, 0, 0, time.UTC)
}

func TestWeeklyDue(t *testing.T) {
	s := model.ChoreSchedule{Frequency: model.FrequencyWeekly, DaysOfWeek: []model.Weekday{model.Saturday}}

	if !IsDueOn(s, date(2024, 1, 6)) {
		t.Error("expected weekly saturday chore to be due on Saturday 2024-01-06")
	}
	if IsDueOn(s, date(2024, 1, 7)) {
		t.Error("expected weekly saturday chore not to be due on Sunday 2024-01-07")
	}
}

func TestWeeklyMatchesWeekdaySet(t *testing.T) {
	sets := [][]model.Weekday{
		{},
		{model.Monday},
		{model.Monday, model.Wednesday, model.Friday},
		{model.Saturday, model.Sunday},
		Week,
	}
	start := date(2024, 1, 1) // Monday
	for _, days := range sets {
		s := model.ChoreSchedule{Frequency: model.FrequencyWeekly, DaysOfWeek: days}
		for i := 0; i < 14; i++ {
			d := start.AddDate(0, 0, i)
			want := false
			for _, wd := range days {
				if wd == WeekdayOf(d) {
					want = true
				}
			}
			if got := IsDueOn(s, d); got != want {
				t.Errorf("days=%v date=%s: got %v, want %v", days, d.Format(model.DateLayout), got, want)
			}
		}
	}
}

func TestWeeklyCaseInsensitive(t *testing.T) {
	s := model.ChoreSchedule{Frequency: model.FrequencyWeekly, DaysOfWeek: []model.Weekday{"Saturday"}}
	if !IsDueOn(s, date(2024, 1, 6)) {
		t.Error("expected capitalized weekday to match")
	}
}

func TestWeeklyNoDaysNeverDue(t *testing.T) {
	s := model.ChoreSchedule{Frequency: model.FrequencyWeekly}
	for i := 0; i < 7; i++ {
		if IsDueOn(s, date(2024, 1, 1).AddDate(0, 0, i)) {
			t.Fatal("weekly chore without days should never be due")
		}
	}
}

func TestDailyAlwaysDue(t *testing.T) {
	s := model.ChoreSchedule{Frequency: model.FrequencyDaily}
	dates := []time.Time{
		date(2024, 1, 1), date(2024, 2, 29), date(2023, 7, 4), date(1999, 12, 31), date(2030, 10, 13),
	}
	for _, d := range dates {
		if !IsDueOn(s, d) {
			t.Errorf("daily chore not due on %s", d.Format(model.DateLayout))
		}
	}
}

func TestCustomDates(t *testing.T) {
	s := model.ChoreSchedule{Frequency: model.FrequencyCustom, SpecificDates: []string{"2024-03-10", "2024-03-17"}}
	if !IsDueOn(s, date(2024, 3, 10)) {
		t.Error("expected due on listed date")
	}
	if IsDueOn(s, date(2024, 3, 11)) {
		t.Error("expected not due on unlisted date")
	}
}

func TestMonthly(t *testing.T) {
	s := model.ChoreSchedule{Frequency: model.FrequencyMonthly, DayOfMonth: 15}
	if !IsDueOn(s, date(2024, 5, 15)) {
		t.Error("expected due on the 15th")
	}
	if IsDueOn(s, date(2024, 5, 16)) {
		t.Error("expected not due on the 16th")
	}

	end := model.ChoreSchedule{Frequency: model.FrequencyMonthly, DayOfMonth: 31}
	if !IsDueOn(end, date(2024, 2, 29)) {
		t.Error("expected day 31 to clamp to Feb 29 in a leap year")
	}
	if IsDueOn(end, date(2024, 2, 28)) {
		t.Error("expected not due on Feb 28 in a leap year")
	}
	if !IsDueOn(end, date(2024, 4, 30)) {
		t.Error("expected day 31 to clamp to Apr 30")
	}

	unset := model.ChoreSchedule{Frequency: model.FrequencyMonthly}
	if IsDueOn(unset, date(2024, 5, 1)) {
		t.Error("monthly chore without day of month should never be due")
	}
}

func TestUnknownFrequencyNeverDue(t *testing.T) {
	if IsDueOn(model.ChoreSchedule{Frequency: "fortnightly"}, date(2024, 1, 1)) {
		t.Error("unknown frequency should never be due")
	}
}

func TestDescribeFrequency(t *testing.T) {
	tests := []struct {
		s    model.ChoreSchedule
		want string
	}{
		{model.ChoreSchedule{Frequency: model.FrequencyDaily}, "Every day"},
		{model.ChoreSchedule{Frequency: model.FrequencyWeekly, DaysOfWeek: []model.Weekday{model.Monday, model.Thursday}}, "Monday, Thursday"},
		{model.ChoreSchedule{Frequency: model.FrequencyWeekly, DaysOfWeek: []model.Weekday{model.Saturday}}, "Saturday"},
		{model.ChoreSchedule{Frequency: model.FrequencyMonthly, DayOfMonth: 1}, "monthly"},
		{model.ChoreSchedule{Frequency: model.FrequencyCustom}, "custom"},
	}
	for _, tt := range tests {
		if got := DescribeFrequency(tt.s); got != tt.want {
			t.Errorf("DescribeFrequency(%+v) = %q, want %q", tt.s, got, tt.want)
		}
	}
}

func TestNormalize(t *testing.T) {
	got := Normalize(model.ChoreSchedule{
		Frequency:     "Weekly",
		DaysOfWeek:    []model.Weekday{"Monday", "monday", "funday", "FRIDAY"},
		SpecificDates: []string{"2024-01-01"},
		DayOfMonth:    3,
	})
	if got.Frequency != model.FrequencyWeekly {
		t.Errorf("frequency = %q, want weekly", got.Frequency)
	}
	if len(got.DaysOfWeek) != 2 || got.DaysOfWeek[0] != model.Monday || got.DaysOfWeek[1] != model.Friday {
		t.Errorf("days = %v, want [monday friday]", got.DaysOfWeek)
	}
	if got.SpecificDates != nil || got.DayOfMonth != 0 {
		t.Errorf("expected non-weekly fields dropped, got %+v", got)
	}
}
