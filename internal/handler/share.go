package handler

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/mail"
	"strings"
	"time"

	"github.com/dukerupert/chorechart/internal/archive"
	"github.com/dukerupert/chorechart/internal/chart"
	"github.com/dukerupert/chorechart/internal/email"
	"github.com/dukerupert/chorechart/internal/export"
	"github.com/dukerupert/chorechart/internal/model"
	"github.com/dukerupert/chorechart/internal/store"
	"github.com/dukerupert/chorechart/internal/websocket"
)

const defaultExportDays = 30

// ShareHandler sends charts out of the app: email, CSV download and bucket
// archive.
type ShareHandler struct {
	chartAccess
	completions *store.CompletionStore
	mailer      *email.Client
	archiver    *archive.Archiver
	now         func() time.Time
}

func NewShareHandler(cs *store.ChartStore, comps *store.CompletionStore, editor *chart.Editor, hub *websocket.Hub, mailer *email.Client, archiver *archive.Archiver, logger *slog.Logger) *ShareHandler {
	return &ShareHandler{
		chartAccess: chartAccess{charts: cs, editor: editor, hub: hub, logger: logger},
		completions: comps,
		mailer:      mailer,
		archiver:    archiver,
		now:         time.Now,
	}
}

func (h *ShareHandler) Email(w http.ResponseWriter, r *http.Request) {
	c, ok := h.load(w, r)
	if !ok {
		return
	}
	var req struct {
		To      string `json:"to"`
		Subject string `json:"subject"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	addr, err := mail.ParseAddress(strings.TrimSpace(req.To))
	if err != nil {
		writeError(w, http.StatusBadRequest, "a valid recipient address is required")
		return
	}
	pool, ok := h.pool(w, c)
	if !ok {
		return
	}

	err = h.mailer.SendChart(r.Context(), addr.Address, strings.TrimSpace(req.Subject), email.Snapshot(c, pool))
	if errors.Is(err, email.ErrNotConfigured) {
		writeError(w, http.StatusServiceUnavailable, "email is not configured")
		return
	}
	if err != nil {
		h.logger.Error("failed to send chart email", "chart_id", c.ID, "error", err)
		writeError(w, http.StatusBadGateway, "failed to send email")
		return
	}
	h.logger.Info("chart emailed", "chart_id", c.ID)
	writeJSON(w, http.StatusOK, map[string]string{"status": "sent"})
}

// renderCSV builds the export for ?from= / ?to= (inclusive dates). The
// default range is the last 30 days.
func (h *ShareHandler) renderCSV(w http.ResponseWriter, r *http.Request, c *model.ChoreChart) ([]byte, bool) {
	end := today(h.now())
	to, ok := parseDate(r, "to", end)
	if !ok {
		writeError(w, http.StatusBadRequest, "to must be YYYY-MM-DD")
		return nil, false
	}
	from, ok := parseDate(r, "from", to.AddDate(0, 0, -defaultExportDays))
	if !ok {
		writeError(w, http.StatusBadRequest, "from must be YYYY-MM-DD")
		return nil, false
	}
	if from.After(to) {
		writeError(w, http.StatusBadRequest, "from must not be after to")
		return nil, false
	}
	pool, ok := h.pool(w, c)
	if !ok {
		return nil, false
	}
	completions, err := h.completions.ListRange(c.ID, from, to.AddDate(0, 0, 1))
	if err != nil {
		h.logger.Error("failed to list completions", "chart_id", c.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list completions")
		return nil, false
	}

	var buf bytes.Buffer
	if err := export.WriteCSV(&buf, c, pool, completions); err != nil {
		h.logger.Error("failed to render csv", "chart_id", c.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to render export")
		return nil, false
	}
	return buf.Bytes(), true
}

func (h *ShareHandler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	c, ok := h.load(w, r)
	if !ok {
		return
	}
	data, ok := h.renderCSV(w, r, c)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="chart-%s.csv"`, c.ID))
	w.Write(data)
}

func (h *ShareHandler) Archive(w http.ResponseWriter, r *http.Request) {
	c, ok := h.load(w, r)
	if !ok {
		return
	}
	if !h.archiver.Configured() {
		writeError(w, http.StatusServiceUnavailable, "archive storage is not configured")
		return
	}
	data, ok := h.renderCSV(w, r, c)
	if !ok {
		return
	}
	obj, err := h.archiver.Upload(r.Context(), c.ID, data)
	if err != nil {
		h.logger.Error("failed to archive chart", "chart_id", c.ID, "error", err)
		writeError(w, http.StatusBadGateway, "failed to archive chart")
		return
	}
	h.broadcast(c, "archive", "created", obj.Key)
	writeJSON(w, http.StatusCreated, obj)
}

func (h *ShareHandler) ListArchives(w http.ResponseWriter, r *http.Request) {
	c, ok := h.load(w, r)
	if !ok {
		return
	}
	objects, err := h.archiver.List(r.Context(), c.ID)
	if errors.Is(err, archive.ErrNotConfigured) {
		writeError(w, http.StatusServiceUnavailable, "archive storage is not configured")
		return
	}
	if err != nil {
		h.logger.Error("failed to list archives", "chart_id", c.ID, "error", err)
		writeError(w, http.StatusBadGateway, "failed to list archives")
		return
	}
	if objects == nil {
		objects = []archive.Object{}
	}
	writeJSON(w, http.StatusOK, objects)
}

// ArchiveStatus reports the archiver's last outcome.
func (h *ShareHandler) ArchiveStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.archiver.Status())
}
