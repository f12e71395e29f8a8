package handler

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/dukerupert/chorechart/internal/auth"
	"github.com/dukerupert/chorechart/internal/chart"
	"github.com/dukerupert/chorechart/internal/model"
	"github.com/dukerupert/chorechart/internal/store"
	"github.com/dukerupert/chorechart/internal/websocket"
)

const maxBodyBytes = 1 << 20

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// decodeJSON reads a JSON body into v. An empty body leaves v untouched.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(v)
	if err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return false
	}
	return true
}

func parseIDParam(r *http.Request, name string) (int64, error) {
	return strconv.ParseInt(r.PathValue(name), 10, 64)
}

// parseDate reads a YYYY-MM-DD query parameter. ok is false when it is
// present but malformed; a missing parameter yields fallback.
func parseDate(r *http.Request, name string, fallback time.Time) (time.Time, bool) {
	s := r.URL.Query().Get(name)
	if s == "" {
		return fallback, true
	}
	d, err := time.Parse(model.DateLayout, s)
	if err != nil {
		return time.Time{}, false
	}
	return d, true
}

func today(now time.Time) time.Time {
	y, m, d := now.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// chartAccess loads charts for a request and enforces ownership. Charts with
// an owner are hidden from everyone else; anonymous charts are reachable by
// id.
type chartAccess struct {
	charts *store.ChartStore
	editor *chart.Editor
	hub    *websocket.Hub
	logger *slog.Logger
}

func (a *chartAccess) load(w http.ResponseWriter, r *http.Request) (*model.ChoreChart, bool) {
	c, err := a.charts.GetByID(r.PathValue("id"))
	if err != nil {
		a.logger.Error("failed to get chart", "chart_id", r.PathValue("id"), "error", err)
		writeError(w, http.StatusInternalServerError, "failed to get chart")
		return nil, false
	}
	if c == nil || (c.UserID != "" && c.UserID != auth.UserID(r.Context())) {
		writeError(w, http.StatusNotFound, "chart not found")
		return nil, false
	}
	return c, true
}

func (a *chartAccess) pool(w http.ResponseWriter, c *model.ChoreChart) ([]model.Chore, bool) {
	pool, err := a.editor.Pool(c)
	if err != nil {
		a.logger.Error("chart template missing", "chart_id", c.ID, "template_id", c.TemplateID)
		writeError(w, http.StatusInternalServerError, "chart template not found")
		return nil, false
	}
	return pool, true
}

// mutate applies fn to the chart and persists the result. Validation errors
// become 400 and nothing is saved.
func (a *chartAccess) mutate(w http.ResponseWriter, c *model.ChoreChart, fn func(c *model.ChoreChart) error) bool {
	if err := fn(c); err != nil {
		if chart.IsValidation(err) {
			writeError(w, http.StatusBadRequest, err.Error())
			return false
		}
		a.logger.Error("chart mutation failed", "chart_id", c.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to update chart")
		return false
	}
	if err := a.charts.Save(c); err != nil {
		a.logger.Error("failed to save chart", "chart_id", c.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to save chart")
		return false
	}
	a.broadcast(c, "chart", "updated", c.ID)
	return true
}

// broadcast announces a change inside c. Only clients allowed to see c
// receive it.
func (a *chartAccess) broadcast(c *model.ChoreChart, entity, action, id string) {
	if a.hub == nil {
		return
	}
	msg := websocket.NewMessage(entity, action, c.ID, id)
	msg.Owner = c.UserID
	a.hub.Broadcast(msg)
}
