package store

import (
	"testing"
	"time"

	"github.com/dukerupert/chorechart/internal/database"
	"github.com/dukerupert/chorechart/internal/model"
)

func setupTestDB(t *testing.T) (*ChartStore, *CompletionStore) {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewChartStore(db), NewCompletionStore(db)
}

func draftChart() *model.ChoreChart {
	now := time.Date(2024, 1, 6, 9, 0, 0, 0, time.UTC)
	return &model.ChoreChart{
		Name:       "Weekend",
		TemplateID: "weekly-cleaning",
		UserID:     "user-1",
		Children: []model.Child{
			{ID: "tmp-ava", Name: "Ava", Birthdate: "2016-03-02"},
			{ID: "tmp-ben", Name: "Ben"},
		},
		CustomChores: []model.Chore{{
			ID:       "tmp-cat",
			Name:     "Feed cat",
			Category: "Pets",
			Schedule: model.ChoreSchedule{Frequency: model.FrequencyWeekly, DaysOfWeek: []model.Weekday{model.Monday, model.Thursday}},
		}},
		Assignments: []model.ChoreAssignment{
			{ChoreID: "weekly-vacuum", ChildID: "tmp-ava"},
			{ChoreID: "tmp-cat", ChildID: "tmp-ben"},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestChartCreateReplacesTemporaryIDs(t *testing.T) {
	cs, _ := setupTestDB(t)

	c, err := cs.Create(draftChart())
	if err != nil {
		t.Fatalf("create chart: %v", err)
	}
	if c.ID == "" {
		t.Fatal("expected chart id")
	}
	if len(c.Children) != 2 || c.Children[0].Name != "Ava" || c.Children[1].Name != "Ben" {
		t.Fatalf("children = %+v", c.Children)
	}
	for _, child := range c.Children {
		if child.ID == "tmp-ava" || child.ID == "tmp-ben" {
			t.Errorf("temporary child id %q kept", child.ID)
		}
	}
	if c.Children[0].Birthdate != "2016-03-02" {
		t.Errorf("birthdate = %q", c.Children[0].Birthdate)
	}

	if len(c.CustomChores) != 1 {
		t.Fatalf("custom chores = %+v", c.CustomChores)
	}
	cat := c.CustomChores[0]
	if cat.ID == "tmp-cat" {
		t.Error("temporary chore id kept")
	}
	if len(cat.Schedule.DaysOfWeek) != 2 || cat.Schedule.DaysOfWeek[1] != model.Thursday {
		t.Errorf("schedule = %+v", cat.Schedule)
	}

	want := []model.ChoreAssignment{
		{ChoreID: "weekly-vacuum", ChildID: c.Children[0].ID},
		{ChoreID: cat.ID, ChildID: c.Children[1].ID},
	}
	if len(c.Assignments) != 2 || c.Assignments[0] != want[0] || c.Assignments[1] != want[1] {
		t.Errorf("assignments = %v, want %v", c.Assignments, want)
	}
	if !c.CreatedAt.Equal(c.UpdatedAt) {
		t.Errorf("created_at %v != updated_at %v", c.CreatedAt, c.UpdatedAt)
	}
}

func TestChartGetMissing(t *testing.T) {
	cs, _ := setupTestDB(t)

	c, err := cs.GetByID("nope")
	if err != nil {
		t.Fatalf("get chart: %v", err)
	}
	if c != nil {
		t.Errorf("expected nil, got %+v", c)
	}
}

func TestChartListByUser(t *testing.T) {
	cs, _ := setupTestDB(t)

	if _, err := cs.Create(draftChart()); err != nil {
		t.Fatalf("create: %v", err)
	}
	other := draftChart()
	other.UserID = ""
	if _, err := cs.Create(other); err != nil {
		t.Fatalf("create anonymous: %v", err)
	}

	mine, err := cs.ListByUser("user-1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(mine) != 1 || len(mine[0].Children) != 2 {
		t.Errorf("user charts = %+v", mine)
	}
	none, err := cs.ListByUser("user-2")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(none) != 0 {
		t.Errorf("expected no charts for user-2, got %d", len(none))
	}
}

func TestChartSaveDiffsChildrenAndChores(t *testing.T) {
	cs, comps := setupTestDB(t)

	c, err := cs.Create(draftChart())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	ava, ben, cat := c.Children[0], c.Children[1], c.CustomChores[0]

	if _, err := comps.Create(c.ID, cat.ID, ben.ID, time.Now(), ""); err != nil {
		t.Fatalf("create completion: %v", err)
	}
	avaDone, err := comps.Create(c.ID, "weekly-vacuum", ava.ID, time.Now(), "")
	if err != nil {
		t.Fatalf("create completion: %v", err)
	}

	// Drop Ben and the cat chore, add Cal and rename.
	c.Name = "Renamed"
	c.Children = []model.Child{ava, {ID: "new-cal", Name: "Cal"}}
	c.CustomChores = nil
	c.Assignments = []model.ChoreAssignment{
		{ChoreID: "weekly-trash", ChildID: "new-cal"},
		{ChoreID: "weekly-vacuum", ChildID: ava.ID},
	}
	c.UpdatedAt = c.UpdatedAt.Add(time.Hour)
	if err := cs.Save(c); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := cs.GetByID(c.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Name != "Renamed" {
		t.Errorf("name = %q", got.Name)
	}
	if len(got.Children) != 2 || got.Children[1].Name != "Cal" {
		t.Errorf("children = %+v", got.Children)
	}
	if len(got.CustomChores) != 0 {
		t.Errorf("custom chores = %+v", got.CustomChores)
	}
	if len(got.Assignments) != 2 || got.Assignments[0].ChildID != "new-cal" {
		t.Errorf("assignments = %+v", got.Assignments)
	}
	if !got.UpdatedAt.After(got.CreatedAt) {
		t.Error("updated_at not advanced")
	}

	left, err := comps.ListRange(c.ID, time.Time{}, time.Now().Add(time.Hour))
	if err != nil {
		t.Fatalf("list completions: %v", err)
	}
	if len(left) != 1 || left[0].ID != avaDone.ID {
		t.Errorf("completions after save = %+v, want only %d", left, avaDone.ID)
	}
}

func TestChartSaveMissing(t *testing.T) {
	cs, _ := setupTestDB(t)
	c := draftChart()
	c.ID = "ghost"
	if err := cs.Save(c); err == nil {
		t.Error("expected error saving unknown chart")
	}
}

func TestChartDeleteCascades(t *testing.T) {
	cs, comps := setupTestDB(t)

	c, err := cs.Create(draftChart())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	done, err := comps.Create(c.ID, "weekly-vacuum", c.Children[0].ID, time.Now(), "")
	if err != nil {
		t.Fatalf("create completion: %v", err)
	}

	if err := cs.Delete(c.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	got, err := cs.GetByID(c.ID)
	if err != nil || got != nil {
		t.Errorf("after delete: %+v, %v", got, err)
	}
	gone, err := comps.GetByID(done.ID)
	if err != nil || gone != nil {
		t.Errorf("completion survived chart delete: %+v, %v", gone, err)
	}
}

func TestChartPINHash(t *testing.T) {
	cs, _ := setupTestDB(t)

	c, err := cs.Create(draftChart())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	hash, err := cs.PINHash(c.ID)
	if err != nil || hash != "" {
		t.Fatalf("initial hash = %q, %v", hash, err)
	}
	if err := cs.SetPINHash(c.ID, "$2a$10$abc"); err != nil {
		t.Fatalf("set pin: %v", err)
	}
	hash, err = cs.PINHash(c.ID)
	if err != nil || hash != "$2a$10$abc" {
		t.Errorf("hash = %q, %v", hash, err)
	}
}
