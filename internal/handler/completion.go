package handler

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/dukerupert/chorechart/internal/chart"
	"github.com/dukerupert/chorechart/internal/model"
	"github.com/dukerupert/chorechart/internal/store"
	"github.com/dukerupert/chorechart/internal/websocket"
	"golang.org/x/crypto/bcrypt"
)

type CompletionHandler struct {
	chartAccess
	completions *store.CompletionStore
	now         func() time.Time
}

func NewCompletionHandler(cs *store.ChartStore, comps *store.CompletionStore, editor *chart.Editor, hub *websocket.Hub, logger *slog.Logger) *CompletionHandler {
	return &CompletionHandler{
		chartAccess: chartAccess{charts: cs, editor: editor, hub: hub, logger: logger},
		completions: comps,
		now:         time.Now,
	}
}

type completionRequest struct {
	ChoreID     string     `json:"choreId"`
	ChildID     string     `json:"childId"`
	Notes       string     `json:"notes"`
	CompletedAt *time.Time `json:"completedAt"`
}

func (h *CompletionHandler) Create(w http.ResponseWriter, r *http.Request) {
	c, ok := h.load(w, r)
	if !ok {
		return
	}
	var req completionRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if c.ChildByID(req.ChildID) == nil {
		writeError(w, http.StatusBadRequest, "unknown child")
		return
	}
	pool, ok := h.pool(w, c)
	if !ok {
		return
	}
	found := false
	for _, ch := range pool {
		if ch.ID == req.ChoreID {
			found = true
			break
		}
	}
	if !found {
		writeError(w, http.StatusBadRequest, "unknown chore")
		return
	}

	at := h.now()
	if req.CompletedAt != nil {
		at = *req.CompletedAt
	}
	done, err := h.completions.Create(c.ID, req.ChoreID, req.ChildID, at, strings.TrimSpace(req.Notes))
	if err != nil {
		h.logger.Error("failed to create completion", "chart_id", c.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to record completion")
		return
	}

	h.broadcast(c, "completion", "created", strconv.FormatInt(done.ID, 10))
	writeJSON(w, http.StatusCreated, done)
}

func (h *CompletionHandler) loadCompletion(w http.ResponseWriter, r *http.Request, c *model.ChoreChart) (*model.ChoreCompletion, bool) {
	id, err := parseIDParam(r, "completionID")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid completion id")
		return nil, false
	}
	done, err := h.completions.GetByID(id)
	if err != nil {
		h.logger.Error("failed to get completion", "completion_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to get completion")
		return nil, false
	}
	if done == nil || done.ChartID != c.ID {
		writeError(w, http.StatusNotFound, "completion not found")
		return nil, false
	}
	return done, true
}

// Delete undoes a completion.
func (h *CompletionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	c, ok := h.load(w, r)
	if !ok {
		return
	}
	done, ok := h.loadCompletion(w, r, c)
	if !ok {
		return
	}
	if err := h.completions.Delete(done.ID); err != nil {
		h.logger.Error("failed to delete completion", "completion_id", done.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to delete completion")
		return
	}
	h.broadcast(c, "completion", "deleted", strconv.FormatInt(done.ID, 10))
	w.WriteHeader(http.StatusNoContent)
}

// Verify marks a completion as checked by a parent. The chart's PIN is
// required.
func (h *CompletionHandler) Verify(w http.ResponseWriter, r *http.Request) {
	c, ok := h.load(w, r)
	if !ok {
		return
	}
	done, ok := h.loadCompletion(w, r, c)
	if !ok {
		return
	}
	var req struct {
		PIN string `json:"pin"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if !h.checkPIN(w, c.ID, req.PIN) {
		return
	}

	verified, err := h.completions.MarkVerified(done.ID)
	if err != nil {
		h.logger.Error("failed to verify completion", "completion_id", done.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to verify completion")
		return
	}
	h.broadcast(c, "completion", "verified", strconv.FormatInt(done.ID, 10))
	writeJSON(w, http.StatusOK, verified)
}

func (h *CompletionHandler) checkPIN(w http.ResponseWriter, chartID, pin string) bool {
	hash, err := h.charts.PINHash(chartID)
	if err != nil {
		h.logger.Error("failed to get PIN", "chart_id", chartID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to get PIN")
		return false
	}
	if hash == "" {
		writeError(w, http.StatusBadRequest, "no PIN set for this chart")
		return false
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(pin)); err != nil {
		writeError(w, http.StatusUnauthorized, "incorrect PIN")
		return false
	}
	return true
}

// SetPIN sets, changes or (with an empty pin) clears the parent PIN. Changing
// an existing PIN requires the current one.
func (h *CompletionHandler) SetPIN(w http.ResponseWriter, r *http.Request) {
	c, ok := h.load(w, r)
	if !ok {
		return
	}
	var req struct {
		PIN        string `json:"pin"`
		CurrentPIN string `json:"currentPin"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	existing, err := h.charts.PINHash(c.ID)
	if err != nil {
		h.logger.Error("failed to get PIN", "chart_id", c.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to get PIN")
		return
	}
	if existing != "" && !h.checkPIN(w, c.ID, req.CurrentPIN) {
		return
	}

	if req.PIN == "" {
		if err := h.charts.SetPINHash(c.ID, ""); err != nil {
			writeError(w, http.StatusInternalServerError, "failed to clear PIN")
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "pin cleared"})
		return
	}

	if len(req.PIN) != 4 || !isDigits(req.PIN) {
		writeError(w, http.StatusBadRequest, "PIN must be exactly 4 digits")
		return
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.PIN), bcrypt.DefaultCost)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to hash PIN")
		return
	}
	if err := h.charts.SetPINHash(c.ID, string(hash)); err != nil {
		h.logger.Error("failed to set PIN", "chart_id", c.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to set PIN")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "pin set"})
}

// Leaderboard ranks the chart's children by completions since ?since=.
func (h *CompletionHandler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	c, ok := h.load(w, r)
	if !ok {
		return
	}
	since, ok := parseDate(r, "since", time.Time{})
	if !ok {
		writeError(w, http.StatusBadRequest, "since must be YYYY-MM-DD")
		return
	}
	entries, err := h.completions.Leaderboard(c.ID, since)
	if err != nil {
		h.logger.Error("failed to build leaderboard", "chart_id", c.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to build leaderboard")
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

func isDigits(s string) bool {
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
