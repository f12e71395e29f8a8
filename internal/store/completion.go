package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/dukerupert/chorechart/internal/model"
)

type CompletionStore struct {
	db *sql.DB
}

func NewCompletionStore(db *sql.DB) *CompletionStore {
	return &CompletionStore{db: db}
}

const completionCols = `id, chart_id, chore_id, child_id, completed_at, verified_by_parent, notes`

func scanCompletion(scanner interface{ Scan(...any) error }) (*model.ChoreCompletion, error) {
	var c model.ChoreCompletion
	err := scanner.Scan(&c.ID, &c.ChartID, &c.ChoreID, &c.ChildID, &c.CompletedAt, &c.VerifiedByParent, &c.Notes)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *CompletionStore) Create(chartID, choreID, childID string, completedAt time.Time, notes string) (*model.ChoreCompletion, error) {
	result, err := s.db.Exec(
		`INSERT INTO chore_completions (chart_id, chore_id, child_id, completed_at, notes) VALUES (?, ?, ?, ?, ?)`,
		chartID, choreID, childID, dbTime(completedAt), notes,
	)
	if err != nil {
		return nil, fmt.Errorf("insert completion: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(id)
}

func (s *CompletionStore) GetByID(id int64) (*model.ChoreCompletion, error) {
	row := s.db.QueryRow(`SELECT `+completionCols+` FROM chore_completions WHERE id = ?`, id)
	c, err := scanCompletion(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get completion: %w", err)
	}
	return c, nil
}

// ListRange returns a chart's completions with from <= completed_at < to,
// oldest first.
func (s *CompletionStore) ListRange(chartID string, from, to time.Time) ([]model.ChoreCompletion, error) {
	rows, err := s.db.Query(
		`SELECT `+completionCols+` FROM chore_completions
		 WHERE chart_id = ? AND completed_at >= ? AND completed_at < ?
		 ORDER BY completed_at ASC, id ASC`,
		chartID, dbTime(from), dbTime(to),
	)
	if err != nil {
		return nil, fmt.Errorf("list completions: %w", err)
	}
	defer rows.Close()

	completions := []model.ChoreCompletion{}
	for rows.Next() {
		c, err := scanCompletion(rows)
		if err != nil {
			return nil, fmt.Errorf("scan completion: %w", err)
		}
		completions = append(completions, *c)
	}
	return completions, rows.Err()
}

// MarkVerified flags a completion as checked by a parent.
func (s *CompletionStore) MarkVerified(id int64) (*model.ChoreCompletion, error) {
	_, err := s.db.Exec(`UPDATE chore_completions SET verified_by_parent = 1 WHERE id = ?`, id)
	if err != nil {
		return nil, fmt.Errorf("verify completion: %w", err)
	}
	return s.GetByID(id)
}

func (s *CompletionStore) Delete(id int64) error {
	_, err := s.db.Exec(`DELETE FROM chore_completions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete completion: %w", err)
	}
	return nil
}

// Leaderboard counts completions per child of the chart since the given time
// (all time when since is zero). Children without completions are included.
func (s *CompletionStore) Leaderboard(chartID string, since time.Time) ([]model.LeaderboardEntry, error) {
	rows, err := s.db.Query(
		`SELECT ch.id, ch.name,
		        COUNT(cc.id),
		        COALESCE(SUM(cc.verified_by_parent), 0)
		 FROM children ch
		 LEFT JOIN chore_completions cc ON cc.child_id = ch.id AND cc.completed_at >= ?
		 WHERE ch.chart_id = ?
		 GROUP BY ch.id, ch.name
		 ORDER BY COUNT(cc.id) DESC, ch.name ASC`,
		dbTime(since), chartID,
	)
	if err != nil {
		return nil, fmt.Errorf("leaderboard: %w", err)
	}
	defer rows.Close()

	entries := []model.LeaderboardEntry{}
	for rows.Next() {
		var e model.LeaderboardEntry
		if err := rows.Scan(&e.ChildID, &e.ChildName, &e.Completions, &e.Verified); err != nil {
			return nil, fmt.Errorf("scan leaderboard entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
