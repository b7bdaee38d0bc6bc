package web

// handlers_api.go serves the JSON API. It exposes the same operations as
// the HTML page for scripts and tests.

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/JonMunkholm/recipegrid/internal/core"
	"github.com/go-chi/chi/v5"
)

// RowResponse is one rendered row: its position in the working set plus
// the record fields.
type RowResponse struct {
	Position int `json:"position"`
	core.Record
}

// RecordsResponse is the body of GET /api/records.
type RecordsResponse struct {
	Revision string        `json:"revision"`
	Sort     *SortResponse `json:"sort,omitempty"`
	Shadowed bool          `json:"shadowed"`
	Rows     []RowResponse `json:"rows"`
}

// SortResponse echoes the applied sort.
type SortResponse struct {
	Column core.Field   `json:"column"`
	Dir    core.SortDir `json:"dir"`
}

// StatusResponse is the body of GET /api/status.
type StatusResponse struct {
	State    core.State `json:"state"`
	Revision string     `json:"revision,omitempty"`
}

// UpdateRequest is the body of PATCH /api/records/{position}. Value may be
// a JSON string or a JSON number.
type UpdateRequest struct {
	Field core.Field      `json:"field"`
	Value json.RawMessage `json:"value"`
}

// UpdateResponse reports whether a record was changed. Updated is false
// when the position is past the last row.
type UpdateResponse struct {
	Updated  bool   `json:"updated"`
	Revision string `json:"revision"`
}

// etag identifies one rendering of the records: the data revision plus the
// ordering applied to it.
func etag(revision string, spec core.SortSpec) string {
	if !spec.Active() {
		return `"` + revision + `"`
	}
	return fmt.Sprintf(`"%s-%s-%s"`, revision, spec.Column, spec.Dir)
}

// etagMatches reports whether an If-None-Match header names tag.
func etagMatches(header, tag string) bool {
	for _, candidate := range strings.Split(header, ",") {
		candidate = strings.TrimPrefix(strings.TrimSpace(candidate), "W/")
		if candidate == tag || candidate == "*" {
			return true
		}
	}
	return false
}

// handleListRecords returns the effective rows in the requested order.
func (s *Server) handleListRecords(w http.ResponseWriter, r *http.Request) {
	view := s.service.View(parseSort(r))
	if view.State != core.StateReady {
		s.respondError(w, r, core.ErrNotReady)
		return
	}

	tag := etag(view.Revision, view.Sort)
	w.Header().Set("ETag", tag)
	w.Header().Set("Cache-Control", "no-cache")
	if match := r.Header.Get("If-None-Match"); match != "" && etagMatches(match, tag) {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	resp := RecordsResponse{
		Revision: view.Revision,
		Shadowed: view.Shadowed,
		Rows:     make([]RowResponse, len(view.Rows)),
	}
	if view.Sort.Active() {
		resp.Sort = &SortResponse{Column: view.Sort.Column, Dir: view.Sort.Dir}
	}
	for i, row := range view.Rows {
		resp.Rows[i] = RowResponse{Position: row.Position, Record: row.Record}
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleStatus reports whether the records have been loaded.
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, StatusResponse{
		State:    s.service.State(),
		Revision: s.service.Revision(),
	})
}

// handleUpdateRecord edits one field of the record at {position}.
func (s *Server) handleUpdateRecord(w http.ResponseWriter, r *http.Request) {
	position, err := parsePosition(chi.URLParam(r, "position"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	var req UpdateRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, MaxFormSize))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		s.respondErrorStatus(w, r, fmt.Errorf("decode request: %w", err), http.StatusBadRequest)
		return
	}

	value, err := rawValue(req.Value)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	updated, err := s.service.UpdateField(r.Context(), position, req.Field, value)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, UpdateResponse{Updated: updated, Revision: s.service.Revision()})
}

// rawValue turns a JSON string or number into the text an input would
// have posted.
func rawValue(raw json.RawMessage) (string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return "", nil
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", fmt.Errorf("%w: %s", core.ErrInvalidNumber, raw)
		}
		return s, nil
	}

	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return "", fmt.Errorf("%w: %s", core.ErrInvalidNumber, raw)
	}
	return n.String(), nil
}

// handleReset discards all edits.
func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	ack, err := s.service.Reset(WithRequestMetadata(r.Context(), r))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ack)
}

// handleSubmit persists the working set.
func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	ack, err := s.service.Submit(WithRequestMetadata(r.Context(), r))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ack)
}

// handleHealth reports liveness. It answers 200 while loading too.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok\n"))
}
