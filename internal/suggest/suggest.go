package suggest

import (
	"slices"

	"github.com/dukerupert/chorechart/internal/model"
)

// band is a set of chores introduced at a given maximum age. Bands are
// cumulative: a child gets every band whose maxAge is below their age plus
// the first band that contains it.
type band struct {
	maxAge int
	chores []model.ChoreSuggestion
}

var (
	daily   = model.ChoreSchedule{Frequency: model.FrequencyDaily}
	weekend = model.ChoreSchedule{Frequency: model.FrequencyWeekly, DaysOfWeek: []model.Weekday{model.Saturday}}
	midweek = model.ChoreSchedule{Frequency: model.FrequencyWeekly, DaysOfWeek: []model.Weekday{model.Wednesday}}
)

// teenBand has no upper bound.
const teenBand = int(^uint(0) >> 1)

var bands = []band{
	{maxAge: 3, chores: []model.ChoreSuggestion{
		{Name: "Put toys away", Description: "Return toys to their bin before bed", Icon: "🧸", Category: "Tidying", Schedule: daily},
		{Name: "Put clothes in hamper", Description: "Dirty clothes go in the hamper", Icon: "🧺", Category: "Laundry", Schedule: daily},
		{Name: "Wipe up spills", Description: "Use a cloth to clean small spills", Icon: "🧽", Category: "Cleaning", Schedule: daily},
	}},
	{maxAge: 5, chores: []model.ChoreSuggestion{
		{Name: "Make bed", Description: "Pull up the covers and arrange pillows", Icon: "🛏️", Category: "Bedroom", Schedule: daily},
		{Name: "Feed pets", Description: "Fill food and water bowls with help", Icon: "🐾", Category: "Pets", Schedule: daily},
		{Name: "Set the table", Description: "Put out napkins and silverware", Icon: "🍽️", Category: "Kitchen", Schedule: daily},
	}},
	{maxAge: 8, chores: []model.ChoreSuggestion{
		{Name: "Water plants", Description: "Water indoor plants", Icon: "🪴", Category: "Garden", Schedule: midweek},
		{Name: "Sort laundry", Description: "Separate lights and darks", Icon: "👕", Category: "Laundry", Schedule: weekend},
		{Name: "Clear the table", Description: "Bring dishes to the sink after meals", Icon: "🥣", Category: "Kitchen", Schedule: daily},
		{Name: "Dust furniture", Description: "Dust shelves and tables", Icon: "🪶", Category: "Cleaning", Schedule: weekend},
	}},
	{maxAge: 12, chores: []model.ChoreSuggestion{
		{Name: "Load dishwasher", Description: "Rinse and load dishes", Icon: "🍴", Category: "Kitchen", Schedule: daily},
		{Name: "Take out trash", Description: "Empty bins and take bags outside", Icon: "🗑️", Category: "Cleaning", Schedule: midweek},
		{Name: "Vacuum rooms", Description: "Vacuum bedrooms and living room", Icon: "🧹", Category: "Cleaning", Schedule: weekend},
		{Name: "Fold laundry", Description: "Fold and put away clean clothes", Icon: "🧦", Category: "Laundry", Schedule: weekend},
	}},
	{maxAge: teenBand, chores: []model.ChoreSuggestion{
		{Name: "Cook a simple meal", Description: "Prepare a meal for the family", Icon: "🍳", Category: "Kitchen", Schedule: midweek},
		{Name: "Clean bathroom", Description: "Scrub sink, toilet and tub", Icon: "🚿", Category: "Cleaning", Schedule: weekend},
		{Name: "Mow the lawn", Description: "Mow and edge the yard", Icon: "🌱", Category: "Garden", Schedule: weekend},
		{Name: "Do own laundry", Description: "Wash, dry and fold own clothes", Icon: "🫧", Category: "Laundry", Schedule: weekend},
		{Name: "Grocery shopping", Description: "Help plan and buy groceries", Icon: "🛒", Category: "Errands", Schedule: weekend},
	}},
}

// For returns the chores suggested for a child of the given age, youngest
// band first. Negative ages fall into the youngest band. The result is the
// caller's to modify.
func For(age int) []model.ChoreSuggestion {
	var out []model.ChoreSuggestion
	for _, b := range bands {
		for _, s := range b.chores {
			s.Schedule.DaysOfWeek = slices.Clone(s.Schedule.DaysOfWeek)
			s.Schedule.SpecificDates = slices.Clone(s.Schedule.SpecificDates)
			out = append(out, s)
		}
		if age <= b.maxAge {
			break
		}
	}
	return out
}
