package handler

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/dukerupert/chorechart/internal/catalog"
	"github.com/dukerupert/chorechart/internal/chart"
	"github.com/dukerupert/chorechart/internal/store"
	"github.com/dukerupert/chorechart/internal/suggest"
)

// CatalogHandler serves the read-only template catalog and age-based chore
// suggestions.
type CatalogHandler struct {
	catalog *catalog.Catalog
	access  chartAccess
	now     func() time.Time
}

func NewCatalogHandler(cat *catalog.Catalog, cs *store.ChartStore, editor *chart.Editor, logger *slog.Logger) *CatalogHandler {
	return &CatalogHandler{
		catalog: cat,
		access:  chartAccess{charts: cs, editor: editor, logger: logger},
		now:     time.Now,
	}
}

func (h *CatalogHandler) ListTemplates(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.catalog.List())
}

func (h *CatalogHandler) GetTemplate(w http.ResponseWriter, r *http.Request) {
	tpl, ok := h.catalog.Get(r.PathValue("id"))
	if !ok {
		writeError(w, http.StatusNotFound, "template not found")
		return
	}
	writeJSON(w, http.StatusOK, tpl)
}

// Suggestions answers GET /api/suggestions?age=N.
func (h *CatalogHandler) Suggestions(w http.ResponseWriter, r *http.Request) {
	age, err := strconv.Atoi(r.URL.Query().Get("age"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "age must be an integer")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"chores": suggest.For(age)})
}

// ChildSuggestions derives the age from a child's birthdate.
func (h *CatalogHandler) ChildSuggestions(w http.ResponseWriter, r *http.Request) {
	c, ok := h.access.load(w, r)
	if !ok {
		return
	}
	child := c.ChildByID(r.PathValue("childID"))
	if child == nil {
		writeError(w, http.StatusNotFound, "child not found")
		return
	}
	age, ok := child.AgeOn(h.now())
	if !ok {
		writeError(w, http.StatusBadRequest, "child has no birthdate")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"age": age, "chores": suggest.For(age)})
}
