package store

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/dukerupert/chorechart/internal/model"
	"github.com/google/uuid"
)

type ChartStore struct {
	db *sql.DB
}

func NewChartStore(db *sql.DB) *ChartStore {
	return &ChartStore{db: db}
}

const chartCols = `id, name, template_id, user_id, created_at, updated_at`

func scanChart(scanner interface{ Scan(...any) error }) (*model.ChoreChart, error) {
	var c model.ChoreChart
	err := scanner.Scan(&c.ID, &c.Name, &c.TemplateID, &c.UserID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

const childCols = `id, name, birthdate`

func scanChild(scanner interface{ Scan(...any) error }) (*model.Child, error) {
	var c model.Child
	if err := scanner.Scan(&c.ID, &c.Name, &c.Birthdate); err != nil {
		return nil, err
	}
	return &c, nil
}

const chartChoreCols = `id, name, description, category, icon, frequency, days_of_week, specific_dates, day_of_month`

func scanChartChore(scanner interface{ Scan(...any) error }) (*model.Chore, error) {
	var c model.Chore
	var days, dates string
	err := scanner.Scan(
		&c.ID, &c.Name, &c.Description, &c.Category, &c.Icon,
		&c.Schedule.Frequency, &days, &dates, &c.Schedule.DayOfMonth,
	)
	if err != nil {
		return nil, err
	}
	for _, d := range splitList(days) {
		c.Schedule.DaysOfWeek = append(c.Schedule.DaysOfWeek, model.Weekday(d))
	}
	c.Schedule.SpecificDates = splitList(dates)
	return &c, nil
}

// Create persists a new chart. The chart, its children and its custom chores
// get fresh ids; assignments are rewritten to match.
func (s *ChartStore) Create(c *model.ChoreChart) (*model.ChoreChart, error) {
	out := *c
	out.ID = uuid.NewString()

	childIDs := make(map[string]string, len(c.Children))
	out.Children = make([]model.Child, len(c.Children))
	for i, child := range c.Children {
		childIDs[child.ID] = uuid.NewString()
		child.ID = childIDs[child.ID]
		out.Children[i] = child
	}

	choreIDs := make(map[string]string, len(c.CustomChores))
	out.CustomChores = make([]model.Chore, len(c.CustomChores))
	for i, chore := range c.CustomChores {
		choreIDs[chore.ID] = uuid.NewString()
		chore.ID = choreIDs[chore.ID]
		out.CustomChores[i] = chore
	}

	out.Assignments = make([]model.ChoreAssignment, 0, len(c.Assignments))
	for _, a := range c.Assignments {
		if id, ok := childIDs[a.ChildID]; ok {
			a.ChildID = id
		}
		if id, ok := choreIDs[a.ChoreID]; ok {
			a.ChoreID = id
		}
		out.Assignments = append(out.Assignments, a)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		`INSERT INTO charts (id, name, template_id, user_id, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)`,
		out.ID, out.Name, out.TemplateID, out.UserID, dbTime(out.CreatedAt), dbTime(out.UpdatedAt),
	)
	if err != nil {
		return nil, fmt.Errorf("insert chart: %w", err)
	}
	if err := writeChildren(tx, out.ID, out.Children); err != nil {
		return nil, err
	}
	if err := writeChores(tx, out.ID, out.CustomChores); err != nil {
		return nil, err
	}
	if err := writeAssignments(tx, out.ID, out.Assignments); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit chart: %w", err)
	}
	return s.GetByID(out.ID)
}

// GetByID loads a chart with its children, custom chores and assignments.
// It returns nil, nil when the chart does not exist.
func (s *ChartStore) GetByID(id string) (*model.ChoreChart, error) {
	row := s.db.QueryRow(`SELECT `+chartCols+` FROM charts WHERE id = ?`, id)
	c, err := scanChart(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get chart: %w", err)
	}
	if err := s.loadParts(c); err != nil {
		return nil, err
	}
	return c, nil
}

// ListByUser returns the user's charts, most recently updated first. An empty
// userID lists charts created anonymously.
func (s *ChartStore) ListByUser(userID string) ([]model.ChoreChart, error) {
	rows, err := s.db.Query(
		`SELECT `+chartCols+` FROM charts WHERE user_id = ? ORDER BY updated_at DESC, name ASC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list charts: %w", err)
	}

	var charts []model.ChoreChart
	for rows.Next() {
		c, err := scanChart(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan chart: %w", err)
		}
		charts = append(charts, *c)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("list charts: %w", err)
	}
	rows.Close()

	for i := range charts {
		if err := s.loadParts(&charts[i]); err != nil {
			return nil, err
		}
	}
	return charts, nil
}

// Save writes an edited chart back. Children and custom chores missing from c
// are deleted along with their completions; the assignment set is replaced.
func (s *ChartStore) Save(c *model.ChoreChart) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.Exec(
		`UPDATE charts SET name = ?, updated_at = ? WHERE id = ?`,
		c.Name, dbTime(c.UpdatedAt), c.ID,
	)
	if err != nil {
		return fmt.Errorf("update chart: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("update chart %s: %w", c.ID, sql.ErrNoRows)
	}

	if _, err := tx.Exec(`DELETE FROM assignments WHERE chart_id = ?`, c.ID); err != nil {
		return fmt.Errorf("clear assignments: %w", err)
	}

	keepChildren := make([]string, len(c.Children))
	for i, child := range c.Children {
		keepChildren[i] = child.ID
	}
	if err := deleteMissing(tx, "children", c.ID, keepChildren); err != nil {
		return err
	}

	keepChores := make([]string, len(c.CustomChores))
	for i, chore := range c.CustomChores {
		keepChores[i] = chore.ID
	}
	if err := deleteCompletionsForMissingChores(tx, c.ID, keepChores); err != nil {
		return err
	}
	if err := deleteMissing(tx, "chart_chores", c.ID, keepChores); err != nil {
		return err
	}

	if err := writeChildren(tx, c.ID, c.Children); err != nil {
		return err
	}
	if err := writeChores(tx, c.ID, c.CustomChores); err != nil {
		return err
	}
	if err := writeAssignments(tx, c.ID, c.Assignments); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *ChartStore) Delete(id string) error {
	_, err := s.db.Exec(`DELETE FROM charts WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete chart: %w", err)
	}
	return nil
}

// SetPINHash stores the bcrypt hash of the chart's parent PIN. An empty hash
// clears it.
func (s *ChartStore) SetPINHash(id, hash string) error {
	_, err := s.db.Exec(`UPDATE charts SET pin_hash = ? WHERE id = ?`, hash, id)
	if err != nil {
		return fmt.Errorf("set pin hash: %w", err)
	}
	return nil
}

func (s *ChartStore) PINHash(id string) (string, error) {
	var hash string
	err := s.db.QueryRow(`SELECT pin_hash FROM charts WHERE id = ?`, id).Scan(&hash)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("get pin hash: %w", err)
	}
	return hash, nil
}

func (s *ChartStore) loadParts(c *model.ChoreChart) error {
	rows, err := s.db.Query(`SELECT `+childCols+` FROM children WHERE chart_id = ? ORDER BY sort_order ASC`, c.ID)
	if err != nil {
		return fmt.Errorf("list children: %w", err)
	}
	c.Children = []model.Child{}
	for rows.Next() {
		child, err := scanChild(rows)
		if err != nil {
			rows.Close()
			return fmt.Errorf("scan child: %w", err)
		}
		c.Children = append(c.Children, *child)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("list children: %w", err)
	}

	rows, err = s.db.Query(`SELECT `+chartChoreCols+` FROM chart_chores WHERE chart_id = ? ORDER BY sort_order ASC`, c.ID)
	if err != nil {
		return fmt.Errorf("list chart chores: %w", err)
	}
	c.CustomChores = nil
	for rows.Next() {
		chore, err := scanChartChore(rows)
		if err != nil {
			rows.Close()
			return fmt.Errorf("scan chart chore: %w", err)
		}
		c.CustomChores = append(c.CustomChores, *chore)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("list chart chores: %w", err)
	}

	rows, err = s.db.Query(`SELECT chore_id, child_id FROM assignments WHERE chart_id = ? ORDER BY position ASC`, c.ID)
	if err != nil {
		return fmt.Errorf("list assignments: %w", err)
	}
	defer rows.Close()
	c.Assignments = []model.ChoreAssignment{}
	for rows.Next() {
		var a model.ChoreAssignment
		if err := rows.Scan(&a.ChoreID, &a.ChildID); err != nil {
			return fmt.Errorf("scan assignment: %w", err)
		}
		c.Assignments = append(c.Assignments, a)
	}
	return rows.Err()
}

func writeChildren(tx *sql.Tx, chartID string, children []model.Child) error {
	for i, child := range children {
		_, err := tx.Exec(
			`INSERT INTO children (id, chart_id, name, birthdate, sort_order) VALUES (?, ?, ?, ?, ?)
			 ON CONFLICT(id) DO UPDATE SET name = excluded.name, birthdate = excluded.birthdate, sort_order = excluded.sort_order`,
			child.ID, chartID, child.Name, child.Birthdate, i,
		)
		if err != nil {
			return fmt.Errorf("upsert child: %w", err)
		}
	}
	return nil
}

func writeChores(tx *sql.Tx, chartID string, chores []model.Chore) error {
	for i, c := range chores {
		days := make([]string, len(c.Schedule.DaysOfWeek))
		for j, d := range c.Schedule.DaysOfWeek {
			days[j] = string(d)
		}
		_, err := tx.Exec(
			`INSERT INTO chart_chores (id, chart_id, name, description, category, icon, frequency, days_of_week, specific_dates, day_of_month, sort_order)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			 ON CONFLICT(id) DO UPDATE SET name = excluded.name, description = excluded.description,
			   category = excluded.category, icon = excluded.icon, frequency = excluded.frequency,
			   days_of_week = excluded.days_of_week, specific_dates = excluded.specific_dates,
			   day_of_month = excluded.day_of_month, sort_order = excluded.sort_order`,
			c.ID, chartID, c.Name, c.Description, c.Category, c.Icon, string(c.Schedule.Frequency),
			strings.Join(days, ","), strings.Join(c.Schedule.SpecificDates, ","), c.Schedule.DayOfMonth, i,
		)
		if err != nil {
			return fmt.Errorf("upsert chart chore: %w", err)
		}
	}
	return nil
}

func writeAssignments(tx *sql.Tx, chartID string, assignments []model.ChoreAssignment) error {
	for i, a := range assignments {
		_, err := tx.Exec(
			`INSERT OR IGNORE INTO assignments (chart_id, chore_id, child_id, position) VALUES (?, ?, ?, ?)`,
			chartID, a.ChoreID, a.ChildID, i,
		)
		if err != nil {
			return fmt.Errorf("insert assignment: %w", err)
		}
	}
	return nil
}

// deleteMissing removes rows of table belonging to chartID whose id is not in
// keep. table is always a constant from this file.
func deleteMissing(tx *sql.Tx, table, chartID string, keep []string) error {
	query := `DELETE FROM ` + table + ` WHERE chart_id = ?`
	args := []any{chartID}
	if len(keep) > 0 {
		query += ` AND id NOT IN (` + placeholders(len(keep)) + `)`
		for _, id := range keep {
			args = append(args, id)
		}
	}
	if _, err := tx.Exec(query, args...); err != nil {
		return fmt.Errorf("delete from %s: %w", table, err)
	}
	return nil
}

// deleteCompletionsForMissingChores drops completions of custom chores that
// are about to be removed. Template chores are never in chart_chores, so
// their completions are untouched.
func deleteCompletionsForMissingChores(tx *sql.Tx, chartID string, keep []string) error {
	query := `DELETE FROM chore_completions WHERE chart_id = ? AND chore_id IN (
		SELECT id FROM chart_chores WHERE chart_id = ?`
	args := []any{chartID, chartID}
	if len(keep) > 0 {
		query += ` AND id NOT IN (` + placeholders(len(keep)) + `)`
		for _, id := range keep {
			args = append(args, id)
		}
	}
	query += `)`
	if _, err := tx.Exec(query, args...); err != nil {
		return fmt.Errorf("delete chore completions: %w", err)
	}
	return nil
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ",")
}

// dbTime normalizes timestamps so stored values compare correctly as text.
func dbTime(t time.Time) time.Time {
	return t.UTC().Truncate(time.Second)
}
