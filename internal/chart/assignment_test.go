package chart

import (
	"reflect"
	"testing"

	"github.com/dukerupert/chorechart/internal/model"
)

func testChart() *model.ChoreChart {
	return &model.ChoreChart{
		ID:   "chart-1",
		Name: "Family",
		Children: []model.Child{
			{ID: "ava", Name: "Ava"},
			{ID: "ben", Name: "Ben"},
			{ID: "cal", Name: "Cal"},
		},
		Assignments: []model.ChoreAssignment{
			{ChoreID: "dishes", ChildID: "ava"},
			{ChoreID: "trash", ChildID: "ava"},
			{ChoreID: "beds", ChildID: "ben"},
			{ChoreID: "dishes", ChildID: "cal"},
		},
	}
}

func testPool() []model.Chore {
	daily := model.ChoreSchedule{Frequency: model.FrequencyDaily}
	return []model.Chore{
		{ID: "beds", Name: "Make beds", Schedule: daily},
		{ID: "dishes", Name: "Dishes", Schedule: daily},
		{ID: "trash", Name: "Trash", Schedule: model.ChoreSchedule{Frequency: model.FrequencyWeekly, DaysOfWeek: []model.Weekday{model.Tuesday}}},
		{ID: "plants", Name: "Plants", Schedule: daily},
	}
}

func TestToggleIsInvolutive(t *testing.T) {
	pairs := []model.ChoreAssignment{
		{ChoreID: "dishes", ChildID: "ava"}, // assigned
		{ChoreID: "plants", ChildID: "ben"}, // not assigned
	}
	for _, p := range pairs {
		c := testChart()
		before := IsAssigned(c, p.ChoreID, p.ChildID)
		orig := append([]model.ChoreAssignment(nil), c.Assignments...)

		if got := Toggle(c, p.ChoreID, p.ChildID); got == before {
			t.Errorf("first toggle of %v returned %v, want %v", p, got, !before)
		}
		Toggle(c, p.ChoreID, p.ChildID)

		if IsAssigned(c, p.ChoreID, p.ChildID) != before {
			t.Errorf("double toggle of %v changed membership", p)
		}
		if len(c.Assignments) != len(orig) {
			t.Errorf("double toggle of %v: %d assignments, want %d", p, len(c.Assignments), len(orig))
		}
	}
}

func TestToggleDoesNotAliasRemovedSlice(t *testing.T) {
	c := testChart()
	orig := c.Assignments
	Toggle(c, "dishes", "ava")
	if orig[0] != (model.ChoreAssignment{ChoreID: "dishes", ChildID: "ava"}) {
		t.Errorf("original backing array mutated: %v", orig)
	}
}

func TestChoresForPoolOrder(t *testing.T) {
	c := testChart()
	c.Assignments = append(c.Assignments, model.ChoreAssignment{ChoreID: "gone", ChildID: "ava"})

	got := ChoresFor(c, testPool(), "ava")
	var ids []string
	for _, ch := range got {
		ids = append(ids, ch.ID)
	}
	want := []string{"dishes", "trash"}
	if !reflect.DeepEqual(ids, want) {
		t.Errorf("ChoresFor(ava) = %v, want %v", ids, want)
	}

	if got := ChoresFor(c, testPool(), "nobody"); len(got) != 0 {
		t.Errorf("ChoresFor(nobody) = %v, want empty", got)
	}
}

func TestUnassignedChores(t *testing.T) {
	got := UnassignedChores(testChart(), testPool())
	if len(got) != 1 || got[0].ID != "plants" {
		t.Errorf("UnassignedChores = %v, want [plants]", got)
	}
}

func TestRotateShiftsToNextChild(t *testing.T) {
	c := testChart()
	if err := Rotate(c); err != nil {
		t.Fatalf("Rotate: %v", err)
	}
	want := []model.ChoreAssignment{
		{ChoreID: "dishes", ChildID: "ben"},
		{ChoreID: "trash", ChildID: "ben"},
		{ChoreID: "beds", ChildID: "cal"},
		{ChoreID: "dishes", ChildID: "ava"},
	}
	if !reflect.DeepEqual(c.Assignments, want) {
		t.Errorf("after rotate = %v, want %v", c.Assignments, want)
	}
}

func TestRotateRoundTrip(t *testing.T) {
	for n := 2; n <= 5; n++ {
		c := &model.ChoreChart{}
		for i := 0; i < n; i++ {
			id := string(rune('a' + i))
			c.Children = append(c.Children, model.Child{ID: id, Name: id})
			c.Assignments = append(c.Assignments, model.ChoreAssignment{ChoreID: "chore-" + id, ChildID: id})
		}
		c.Assignments = append(c.Assignments, model.ChoreAssignment{ChoreID: "shared", ChildID: "a"})
		orig := append([]model.ChoreAssignment(nil), c.Assignments...)

		for i := 0; i < n; i++ {
			if err := Rotate(c); err != nil {
				t.Fatalf("n=%d rotate %d: %v", n, i, err)
			}
			if i < n-1 && reflect.DeepEqual(c.Assignments, orig) {
				t.Errorf("n=%d: assignments back to original after only %d rotations", n, i+1)
			}
		}
		if !reflect.DeepEqual(c.Assignments, orig) {
			t.Errorf("n=%d: after %d rotations = %v, want %v", n, n, c.Assignments, orig)
		}
	}
}

func TestRotateNeedsTwoChildren(t *testing.T) {
	c := &model.ChoreChart{
		Children:    []model.Child{{ID: "solo", Name: "Solo"}},
		Assignments: []model.ChoreAssignment{{ChoreID: "dishes", ChildID: "solo"}},
	}
	err := Rotate(c)
	if !IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if err.Error() != "need at least two children to rotate" {
		t.Errorf("error = %q", err.Error())
	}
	if c.Assignments[0].ChildID != "solo" {
		t.Error("assignments changed on failed rotate")
	}
}
