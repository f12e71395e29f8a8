package schedule

import (
	"strings"
	"time"

	"github.com/dukerupert/chorechart/internal/model"
)

// Week lists weekdays in display order, Monday first.
var Week = []model.Weekday{
	model.Monday, model.Tuesday, model.Wednesday, model.Thursday,
	model.Friday, model.Saturday, model.Sunday,
}

var weekdayNames = map[time.Weekday]model.Weekday{
	time.Sunday:    model.Sunday,
	time.Monday:    model.Monday,
	time.Tuesday:   model.Tuesday,
	time.Wednesday: model.Wednesday,
	time.Thursday:  model.Thursday,
	time.Friday:    model.Friday,
	time.Saturday:  model.Saturday,
}

// WeekdayOf returns the lower-case weekday of t.
func WeekdayOf(t time.Time) model.Weekday {
	return weekdayNames[t.Weekday()]
}

// ParseWeekday normalizes a weekday name. It reports false for anything that
// is not one of the seven English weekday names.
func ParseWeekday(s string) (model.Weekday, bool) {
	wd := model.Weekday(strings.ToLower(strings.TrimSpace(s)))
	for _, d := range Week {
		if d == wd {
			return wd, true
		}
	}
	return "", false
}

// IsDueOn reports whether a chore with the given schedule is due on date.
// Malformed schedules are never due.
func IsDueOn(s model.ChoreSchedule, date time.Time) bool {
	switch s.Frequency {
	case model.FrequencyDaily:
		return true
	case model.FrequencyWeekly:
		today := WeekdayOf(date)
		for _, d := range s.DaysOfWeek {
			if model.Weekday(strings.ToLower(string(d))) == today {
				return true
			}
		}
		return false
	case model.FrequencyMonthly:
		return s.DayOfMonth > 0 && date.Day() == monthlyDueDay(s.DayOfMonth, date)
	case model.FrequencyCustom:
		iso := date.Format(model.DateLayout)
		for _, d := range s.SpecificDates {
			if d == iso {
				return true
			}
		}
		return false
	}
	return false
}

// monthlyDueDay clamps dayOfMonth to the length of date's month, so a chore
// on the 31st falls on the 30th (or 28th/29th) in shorter months.
func monthlyDueDay(dayOfMonth int, date time.Time) int {
	last := time.Date(date.Year(), date.Month()+1, 0, 0, 0, 0, 0, time.UTC).Day()
	if dayOfMonth > last {
		return last
	}
	return dayOfMonth
}

// DescribeFrequency returns the label shown next to a chore.
func DescribeFrequency(s model.ChoreSchedule) string {
	switch s.Frequency {
	case model.FrequencyDaily:
		return "Every day"
	case model.FrequencyWeekly:
		names := make([]string, 0, len(s.DaysOfWeek))
		for _, d := range s.DaysOfWeek {
			names = append(names, capitalize(string(d)))
		}
		return strings.Join(names, ", ")
	}
	return string(s.Frequency)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	s = strings.ToLower(s)
	return strings.ToUpper(s[:1]) + s[1:]
}

// Normalize lower-cases weekdays and drops the fields that do not apply to
// the schedule's frequency.
func Normalize(s model.ChoreSchedule) model.ChoreSchedule {
	s.Frequency = model.Frequency(strings.ToLower(strings.TrimSpace(string(s.Frequency))))
	out := model.ChoreSchedule{Frequency: s.Frequency}
	switch s.Frequency {
	case model.FrequencyWeekly:
		seen := make(map[model.Weekday]bool)
		for _, d := range s.DaysOfWeek {
			wd, ok := ParseWeekday(string(d))
			if !ok || seen[wd] {
				continue
			}
			seen[wd] = true
			out.DaysOfWeek = append(out.DaysOfWeek, wd)
		}
	case model.FrequencyCustom:
		out.SpecificDates = append(out.SpecificDates, s.SpecificDates...)
	case model.FrequencyMonthly:
		out.DayOfMonth = s.DayOfMonth
	}
	return out
}
