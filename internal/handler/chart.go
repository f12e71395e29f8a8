package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/dukerupert/chorechart/internal/auth"
	"github.com/dukerupert/chorechart/internal/chart"
	"github.com/dukerupert/chorechart/internal/model"
	"github.com/dukerupert/chorechart/internal/store"
	"github.com/dukerupert/chorechart/internal/websocket"
	"github.com/google/uuid"
)

type ChartHandler struct {
	chartAccess
	completions *store.CompletionStore
	now         func() time.Time
}

func NewChartHandler(cs *store.ChartStore, comps *store.CompletionStore, editor *chart.Editor, hub *websocket.Hub, logger *slog.Logger) *ChartHandler {
	return &ChartHandler{
		chartAccess: chartAccess{charts: cs, editor: editor, hub: hub, logger: logger},
		completions: comps,
		now:         time.Now,
	}
}

type createChartResponse struct {
	Chart     *model.ChoreChart `json:"chart"`
	Persisted bool              `json:"persisted"`
	Warning   string            `json:"warning,omitempty"`
}

// Create validates a draft and stores it. If storage fails the validated
// chart is still returned, under a local id, so the caller keeps their work.
func (h *ChartHandler) Create(w http.ResponseWriter, r *http.Request) {
	var draft chart.Draft
	if !decodeJSON(w, r, &draft) {
		return
	}

	c, err := h.editor.Create(draft)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	c.UserID = auth.UserID(r.Context())

	saved, err := h.charts.Create(c)
	if err != nil {
		h.logger.Error("failed to persist chart", "error", err)
		c.ID = "local-" + uuid.NewString()
		writeJSON(w, http.StatusAccepted, createChartResponse{
			Chart:   c,
			Warning: "chart could not be saved; it exists only on this device until you retry",
		})
		return
	}

	h.logger.Info("chart created", "chart_id", saved.ID, "children", len(saved.Children))
	h.broadcast(saved, "chart", "created", saved.ID)
	writeJSON(w, http.StatusCreated, createChartResponse{Chart: saved, Persisted: true})
}

func (h *ChartHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())
	if userID == "" {
		// Anonymous charts are only reachable by id.
		writeJSON(w, http.StatusOK, []model.ChoreChart{})
		return
	}
	charts, err := h.charts.ListByUser(userID)
	if err != nil {
		h.logger.Error("failed to list charts", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list charts")
		return
	}
	if charts == nil {
		charts = []model.ChoreChart{}
	}
	writeJSON(w, http.StatusOK, charts)
}

func (h *ChartHandler) Get(w http.ResponseWriter, r *http.Request) {
	c, ok := h.load(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (h *ChartHandler) Rename(w http.ResponseWriter, r *http.Request) {
	c, ok := h.load(w, r)
	if !ok {
		return
	}
	var req struct {
		Name string `json:"name"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if !h.mutate(w, c, func(c *model.ChoreChart) error { return h.editor.Rename(c, req.Name) }) {
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (h *ChartHandler) Delete(w http.ResponseWriter, r *http.Request) {
	c, ok := h.load(w, r)
	if !ok {
		return
	}
	if err := h.charts.Delete(c.ID); err != nil {
		h.logger.Error("failed to delete chart", "chart_id", c.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to delete chart")
		return
	}
	h.broadcast(c, "chart", "deleted", c.ID)
	w.WriteHeader(http.StatusNoContent)
}

func (h *ChartHandler) AddChild(w http.ResponseWriter, r *http.Request) {
	c, ok := h.load(w, r)
	if !ok {
		return
	}
	var req struct {
		Name      string `json:"name"`
		Birthdate string `json:"birthdate"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	var child model.Child
	if !h.mutate(w, c, func(c *model.ChoreChart) (err error) {
		child, err = h.editor.AddChild(c, req.Name, req.Birthdate)
		return err
	}) {
		return
	}
	writeJSON(w, http.StatusCreated, child)
}

func (h *ChartHandler) RemoveChild(w http.ResponseWriter, r *http.Request) {
	c, ok := h.load(w, r)
	if !ok {
		return
	}
	childID := r.PathValue("childID")
	if c.ChildByID(childID) == nil {
		writeError(w, http.StatusNotFound, "child not found")
		return
	}
	if !h.mutate(w, c, func(c *model.ChoreChart) error { return h.editor.RemoveChild(c, childID) }) {
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// ChildChores lists the chores assigned to one child, in pool order.
func (h *ChartHandler) ChildChores(w http.ResponseWriter, r *http.Request) {
	c, ok := h.load(w, r)
	if !ok {
		return
	}
	childID := r.PathValue("childID")
	if c.ChildByID(childID) == nil {
		writeError(w, http.StatusNotFound, "child not found")
		return
	}
	pool, ok := h.pool(w, c)
	if !ok {
		return
	}
	chores := chart.ChoresFor(c, pool, childID)
	if chores == nil {
		chores = []model.Chore{}
	}
	writeJSON(w, http.StatusOK, chores)
}

func (h *ChartHandler) AddChore(w http.ResponseWriter, r *http.Request) {
	c, ok := h.load(w, r)
	if !ok {
		return
	}
	var req model.Chore
	if !decodeJSON(w, r, &req) {
		return
	}
	var chore model.Chore
	if !h.mutate(w, c, func(c *model.ChoreChart) (err error) {
		chore, err = h.editor.AddCustomChore(c, req)
		return err
	}) {
		return
	}
	writeJSON(w, http.StatusCreated, chore)
}

func (h *ChartHandler) RemoveChore(w http.ResponseWriter, r *http.Request) {
	c, ok := h.load(w, r)
	if !ok {
		return
	}
	choreID := r.PathValue("choreID")
	if !h.mutate(w, c, func(c *model.ChoreChart) error { return h.editor.RemoveCustomChore(c, choreID) }) {
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (h *ChartHandler) ToggleAssignment(w http.ResponseWriter, r *http.Request) {
	c, ok := h.load(w, r)
	if !ok {
		return
	}
	var req model.ChoreAssignment
	if !decodeJSON(w, r, &req) {
		return
	}
	var assigned bool
	if !h.mutate(w, c, func(c *model.ChoreChart) (err error) {
		assigned, err = h.editor.Toggle(c, req.ChoreID, req.ChildID)
		return err
	}) {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"assigned": assigned, "chart": c})
}

func (h *ChartHandler) Rotate(w http.ResponseWriter, r *http.Request) {
	c, ok := h.load(w, r)
	if !ok {
		return
	}
	if !h.mutate(w, c, h.editor.Rotate) {
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (h *ChartHandler) Unassigned(w http.ResponseWriter, r *http.Request) {
	c, ok := h.load(w, r)
	if !ok {
		return
	}
	pool, ok := h.pool(w, c)
	if !ok {
		return
	}
	chores := chart.UnassignedChores(c, pool)
	if chores == nil {
		chores = []model.Chore{}
	}
	writeJSON(w, http.StatusOK, chores)
}

// Agenda shows what is due on ?date= (default today) with that day's
// completions.
func (h *ChartHandler) Agenda(w http.ResponseWriter, r *http.Request) {
	c, ok := h.load(w, r)
	if !ok {
		return
	}
	date, ok := parseDate(r, "date", today(h.now()))
	if !ok {
		writeError(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
		return
	}
	pool, ok := h.pool(w, c)
	if !ok {
		return
	}
	completions, err := h.completions.ListRange(c.ID, date, date.AddDate(0, 0, 1))
	if err != nil {
		h.logger.Error("failed to list completions", "chart_id", c.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list completions")
		return
	}
	writeJSON(w, http.StatusOK, chart.BuildDayAgenda(c, pool, date, completions))
}

// Week shows the Monday-to-Sunday week containing ?start= (default today).
func (h *ChartHandler) Week(w http.ResponseWriter, r *http.Request) {
	c, ok := h.load(w, r)
	if !ok {
		return
	}
	start, ok := parseDate(r, "start", today(h.now()))
	if !ok {
		writeError(w, http.StatusBadRequest, "start must be YYYY-MM-DD")
		return
	}
	start = chart.StartOfWeek(start)
	pool, ok := h.pool(w, c)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, chart.BuildWeekAgenda(c, pool, start))
}
