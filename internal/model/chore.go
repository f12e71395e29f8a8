package model

// Frequency is how often a chore recurs.
type Frequency string

const (
	FrequencyDaily   Frequency = "daily"
	FrequencyWeekly  Frequency = "weekly"
	FrequencyMonthly Frequency = "monthly"
	FrequencyCustom  Frequency = "custom"
)

// Weekday is a lower-case English weekday name ("monday" ... "sunday").
type Weekday string

const (
	Monday    Weekday = "monday"
	Tuesday   Weekday = "tuesday"
	Wednesday Weekday = "wednesday"
	Thursday  Weekday = "thursday"
	Friday    Weekday = "friday"
	Saturday  Weekday = "saturday"
	Sunday    Weekday = "sunday"
)

// ChoreSchedule is the recurrence rule attached to a chore.
// DaysOfWeek applies to weekly chores, SpecificDates (YYYY-MM-DD) to custom
// chores and DayOfMonth (1-31) to monthly chores.
type ChoreSchedule struct {
	Frequency     Frequency `json:"frequency"`
	DaysOfWeek    []Weekday `json:"daysOfWeek,omitempty"`
	SpecificDates []string  `json:"specificDates,omitempty"`
	DayOfMonth    int       `json:"dayOfMonth,omitempty"`
}

type Chore struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description,omitempty"`
	Schedule    ChoreSchedule `json:"schedule"`
	Category    string        `json:"category,omitempty"`
	Icon        string        `json:"icon,omitempty"`
}

// ChoreSuggestion is an age-appropriate chore idea. It has no id until it is
// added to a chart as a custom chore.
type ChoreSuggestion struct {
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Icon        string        `json:"icon"`
	Category    string        `json:"category"`
	Schedule    ChoreSchedule `json:"schedule"`
}
