package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	fallback := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	r := httptest.NewRequest("GET", "/x", nil)
	if got, ok := parseDate(r, "date", fallback); !ok || !got.Equal(fallback) {
		t.Errorf("missing param = %v, %v", got, ok)
	}

	r = httptest.NewRequest("GET", "/x?date=2026-10-19", nil)
	got, ok := parseDate(r, "date", fallback)
	if !ok || got.Format("2006-01-02") != "2026-10-19" {
		t.Errorf("valid param = %v, %v", got, ok)
	}

	r = httptest.NewRequest("GET", "/x?date=10/19/2026", nil)
	if _, ok := parseDate(r, "date", fallback); ok {
		t.Error("expected malformed date to fail")
	}
}

func TestToday(t *testing.T) {
	loc := time.FixedZone("UTC-5", -5*3600)
	got := today(time.Date(2026, 10, 18, 22, 30, 0, 0, loc))
	want := time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("today = %v, want %v", got, want)
	}
}

func TestDecodeJSON(t *testing.T) {
	var v struct {
		Name string `json:"name"`
	}

	r := httptest.NewRequest("POST", "/x", strings.NewReader(`{"name":"Ava"}`))
	if !decodeJSON(httptest.NewRecorder(), r, &v) || v.Name != "Ava" {
		t.Errorf("decoded = %+v", v)
	}

	r = httptest.NewRequest("POST", "/x", http.NoBody)
	if !decodeJSON(httptest.NewRecorder(), r, &v) {
		t.Error("empty body should be accepted")
	}

	rec := httptest.NewRecorder()
	r = httptest.NewRequest("POST", "/x", strings.NewReader(`{"name":`))
	if decodeJSON(rec, r, &v) {
		t.Error("expected truncated body to fail")
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d", rec.Code)
	}
}

func TestIsDigits(t *testing.T) {
	for s, want := range map[string]bool{"1234": true, "12a4": false, "": true, "٣٤": false} {
		if got := isDigits(s); got != want {
			t.Errorf("isDigits(%q) = %v", s, got)
		}
	}
}
