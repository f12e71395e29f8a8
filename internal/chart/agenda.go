package chart

import (
	"time"

	"github.com/dukerupert/chorechart/internal/model"
	"github.com/dukerupert/chorechart/internal/schedule"
)

type AgendaItem struct {
	Chore          model.Chore            `json:"chore"`
	FrequencyLabel string                 `json:"frequencyLabel"`
	Completion     *model.ChoreCompletion `json:"completion,omitempty"`
}

type ChildDay struct {
	Child  model.Child  `json:"child"`
	Chores []AgendaItem `json:"chores"`
}

// DayAgenda is what each child has to do on one date.
type DayAgenda struct {
	Date     string     `json:"date"`
	Weekday  string     `json:"weekday"`
	Children []ChildDay `json:"children"`
}

type WeekDay struct {
	Date    string       `json:"date"`
	Weekday string       `json:"weekday"`
	Chores  []AgendaItem `json:"chores"`
}

type ChildWeek struct {
	Child model.Child `json:"child"`
	Days  []WeekDay   `json:"days"`
}

type WeekAgenda struct {
	Start    string      `json:"start"`
	Children []ChildWeek `json:"children"`
}

// BuildDayAgenda lists, per child, the assigned chores due on date. A chore
// carries the child's completion for that calendar date, if any; when there
// are several the earliest wins.
func BuildDayAgenda(c *model.ChoreChart, pool []model.Chore, date time.Time, completions []model.ChoreCompletion) DayAgenda {
	day := date.Format(model.DateLayout)
	done := make(map[model.ChoreAssignment]*model.ChoreCompletion)
	for i := range completions {
		cc := &completions[i]
		if cc.CompletedAt.In(date.Location()).Format(model.DateLayout) != day {
			continue
		}
		key := model.ChoreAssignment{ChoreID: cc.ChoreID, ChildID: cc.ChildID}
		if prev, ok := done[key]; !ok || cc.CompletedAt.Before(prev.CompletedAt) {
			done[key] = cc
		}
	}

	agenda := DayAgenda{
		Date:     day,
		Weekday:  string(schedule.WeekdayOf(date)),
		Children: make([]ChildDay, 0, len(c.Children)),
	}
	for _, child := range c.Children {
		cd := ChildDay{Child: child, Chores: []AgendaItem{}}
		for _, ch := range ChoresFor(c, pool, child.ID) {
			if !schedule.IsDueOn(ch.Schedule, date) {
				continue
			}
			item := AgendaItem{Chore: ch, FrequencyLabel: schedule.DescribeFrequency(ch.Schedule)}
			if cc, ok := done[model.ChoreAssignment{ChoreID: ch.ID, ChildID: child.ID}]; ok {
				item.Completion = cc
			}
			cd.Chores = append(cd.Chores, item)
		}
		agenda.Children = append(agenda.Children, cd)
	}
	return agenda
}

// BuildWeekAgenda lists seven consecutive days from weekStart for every child.
func BuildWeekAgenda(c *model.ChoreChart, pool []model.Chore, weekStart time.Time) WeekAgenda {
	agenda := WeekAgenda{
		Start:    weekStart.Format(model.DateLayout),
		Children: make([]ChildWeek, 0, len(c.Children)),
	}
	for _, child := range c.Children {
		assigned := ChoresFor(c, pool, child.ID)
		cw := ChildWeek{Child: child, Days: make([]WeekDay, 0, 7)}
		for i := 0; i < 7; i++ {
			date := weekStart.AddDate(0, 0, i)
			wd := WeekDay{
				Date:    date.Format(model.DateLayout),
				Weekday: string(schedule.WeekdayOf(date)),
				Chores:  []AgendaItem{},
			}
			for _, ch := range assigned {
				if schedule.IsDueOn(ch.Schedule, date) {
					wd.Chores = append(wd.Chores, AgendaItem{Chore: ch, FrequencyLabel: schedule.DescribeFrequency(ch.Schedule)})
				}
			}
			cw.Days = append(cw.Days, wd)
		}
		agenda.Children = append(agenda.Children, cw)
	}
	return agenda
}

// StartOfWeek returns the Monday on or before t, at midnight.
func StartOfWeek(t time.Time) time.Time {
	offset := (int(t.Weekday()) + 6) % 7
	y, m, d := t.AddDate(0, 0, -offset).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
