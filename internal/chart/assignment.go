package chart

import "github.com/dukerupert/chorechart/internal/model"

// Pool returns the chores visible to a chart: the template's chores followed
// by the chart's custom chores.
func Pool(tpl model.ChoreTemplate, c *model.ChoreChart) []model.Chore {
	pool := make([]model.Chore, 0, len(tpl.Chores)+len(c.CustomChores))
	pool = append(pool, tpl.Chores...)
	return append(pool, c.CustomChores...)
}

// IsAssigned reports whether the (chore, child) pair is in the chart's
// assignment set.
func IsAssigned(c *model.ChoreChart, choreID, childID string) bool {
	return indexOf(c.Assignments, choreID, childID) >= 0
}

// Toggle removes the pair if present and adds it otherwise. It returns the
// new membership state.
func Toggle(c *model.ChoreChart, choreID, childID string) bool {
	if i := indexOf(c.Assignments, choreID, childID); i >= 0 {
		c.Assignments = append(c.Assignments[:i:i], c.Assignments[i+1:]...)
		return false
	}
	c.Assignments = append(c.Assignments, model.ChoreAssignment{ChoreID: choreID, ChildID: childID})
	return true
}

// ChoresFor returns the chores assigned to childID in pool order. Assignments
// whose chore is not in the pool are skipped.
func ChoresFor(c *model.ChoreChart, pool []model.Chore, childID string) []model.Chore {
	assigned := make(map[string]bool)
	for _, a := range c.Assignments {
		if a.ChildID == childID {
			assigned[a.ChoreID] = true
		}
	}
	var out []model.Chore
	for _, ch := range pool {
		if assigned[ch.ID] {
			out = append(out, ch)
		}
	}
	return out
}

// UnassignedChores returns the pool chores that nobody is assigned to.
func UnassignedChores(c *model.ChoreChart, pool []model.Chore) []model.Chore {
	assigned := make(map[string]bool)
	for _, a := range c.Assignments {
		assigned[a.ChoreID] = true
	}
	var out []model.Chore
	for _, ch := range pool {
		if !assigned[ch.ID] {
			out = append(out, ch)
		}
	}
	return out
}

// Rotate moves every assignment to the next child in chart order, wrapping
// from the last child to the first. Applying it len(children) times restores
// the original assignments.
func Rotate(c *model.ChoreChart) error {
	n := len(c.Children)
	if n < 2 {
		return ErrRotateNeedsTwo
	}
	next := make(map[string]string, n)
	for i, child := range c.Children {
		next[child.ID] = c.Children[(i+1)%n].ID
	}
	rotated := make([]model.ChoreAssignment, len(c.Assignments))
	for i, a := range c.Assignments {
		if to, ok := next[a.ChildID]; ok {
			a.ChildID = to
		}
		rotated[i] = a
	}
	c.Assignments = rotated
	return nil
}

func indexOf(as []model.ChoreAssignment, choreID, childID string) int {
	for i, a := range as {
		if a.ChoreID == choreID && a.ChildID == childID {
			return i
		}
	}
	return -1
}

func containsChore(pool []model.Chore, id string) bool {
	for _, ch := range pool {
		if ch.ID == id {
			return true
		}
	}
	return false
}
