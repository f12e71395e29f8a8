package catalog

import "github.com/dukerupert/chorechart/internal/model"

// Catalog is the read-only set of chore chart templates.
type Catalog struct {
	templates []model.ChoreTemplate
}

func New(templates []model.ChoreTemplate) *Catalog {
	return &Catalog{templates: templates}
}

// Default returns the built-in templates.
func Default() *Catalog {
	return New(builtin)
}

// List returns every template in catalog order. Callers get copies.
func (c *Catalog) List() []model.ChoreTemplate {
	out := make([]model.ChoreTemplate, len(c.templates))
	for i, t := range c.templates {
		out[i] = clone(t)
	}
	return out
}

// Get returns the template with the given id.
func (c *Catalog) Get(id string) (model.ChoreTemplate, bool) {
	for _, t := range c.templates {
		if t.ID == id {
			return clone(t), true
		}
	}
	return model.ChoreTemplate{}, false
}

func clone(t model.ChoreTemplate) model.ChoreTemplate {
	t.Chores = append([]model.Chore(nil), t.Chores...)
	return t
}

func weekly(days ...model.Weekday) model.ChoreSchedule {
	return model.ChoreSchedule{Frequency: model.FrequencyWeekly, DaysOfWeek: days}
}

var everyDay = model.ChoreSchedule{Frequency: model.FrequencyDaily}

var builtin = []model.ChoreTemplate{
	{
		ID:          "daily-routine",
		Name:        "Daily Routine",
		Description: "Everyday habits for younger kids",
		Type:        model.TemplateDaily,
		Chores: []model.Chore{
			{ID: "daily-make-bed", Name: "Make bed", Schedule: everyDay, Category: "Bedroom", Icon: "🛏️"},
			{ID: "daily-brush-teeth", Name: "Brush teeth", Schedule: everyDay, Category: "Hygiene", Icon: "🪥"},
			{ID: "daily-toys", Name: "Put toys away", Schedule: everyDay, Category: "Tidying", Icon: "🧸"},
			{ID: "daily-homework", Name: "Homework", Description: "Finish homework before screen time", Schedule: weekly(model.Monday, model.Tuesday, model.Wednesday, model.Thursday, model.Friday), Category: "School", Icon: "📚"},
			{ID: "daily-set-table", Name: "Set the table", Schedule: everyDay, Category: "Kitchen", Icon: "🍽️"},
		},
		AllowCustomChores: true,
	},
	{
		ID:          "weekly-cleaning",
		Name:        "Weekly Cleaning",
		Description: "Household jobs spread across the week",
		Type:        model.TemplateWeekly,
		Chores: []model.Chore{
			{ID: "weekly-vacuum", Name: "Vacuum living room", Schedule: weekly(model.Saturday), Category: "Cleaning", Icon: "🧹"},
			{ID: "weekly-trash", Name: "Take out trash", Schedule: weekly(model.Tuesday, model.Friday), Category: "Cleaning", Icon: "🗑️"},
			{ID: "weekly-laundry", Name: "Fold laundry", Schedule: weekly(model.Sunday), Category: "Laundry", Icon: "🧺"},
			{ID: "weekly-bathroom", Name: "Clean bathroom sink", Schedule: weekly(model.Saturday), Category: "Cleaning", Icon: "🚿"},
			{ID: "weekly-plants", Name: "Water plants", Schedule: weekly(model.Wednesday), Category: "Garden", Icon: "🪴"},
			{ID: "weekly-fridge", Name: "Clean out fridge", Schedule: model.ChoreSchedule{Frequency: model.FrequencyMonthly, DayOfMonth: 1}, Category: "Kitchen", Icon: "🧊"},
		},
		AllowCustomChores: true,
	},
	{
		ID:                "custom",
		Name:              "Build Your Own",
		Description:       "Start empty and add your own chores",
		Type:              model.TemplateCustom,
		AllowCustomChores: true,
	},
}
