package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/dukerupert/chorechart/internal/chart"
	"github.com/dukerupert/chorechart/internal/model"
	"github.com/dukerupert/chorechart/internal/schedule"
)

var header = []string{"Child", "Chore", "Category", "Frequency", "Completed At", "Verified"}

// WriteCSV writes one row per assignment, in child then pool order, followed
// by one row per completion. Assignment rows leave the completion columns
// blank.
func WriteCSV(w io.Writer, c *model.ChoreChart, pool []model.Chore, completions []model.ChoreCompletion) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	chores := make(map[string]model.Chore, len(pool))
	for _, ch := range pool {
		chores[ch.ID] = ch
	}

	for _, child := range c.Children {
		for _, ch := range chart.ChoresFor(c, pool, child.ID) {
			row := []string{child.Name, ch.Name, ch.Category, schedule.DescribeFrequency(ch.Schedule), "", ""}
			if err := cw.Write(row); err != nil {
				return fmt.Errorf("write assignment row: %w", err)
			}
		}
	}

	for _, cc := range completions {
		child := c.ChildByID(cc.ChildID)
		ch, ok := chores[cc.ChoreID]
		if child == nil || !ok {
			continue
		}
		verified := "no"
		if cc.VerifiedByParent {
			verified = "yes"
		}
		row := []string{
			child.Name, ch.Name, ch.Category, schedule.DescribeFrequency(ch.Schedule),
			cc.CompletedAt.UTC().Format(time.RFC3339), verified,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write completion row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}
