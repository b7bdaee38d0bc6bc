package web

// handlers.go serves the HTML page and its form actions. Every form post
// answers with a redirect back to the table so the browser always shows
// a freshly rendered view.

import (
	"net/http"

	"github.com/JonMunkholm/recipegrid/internal/core"
	"github.com/JonMunkholm/recipegrid/internal/logging"
	"github.com/JonMunkholm/recipegrid/internal/web/templates"
	"github.com/a-h/templ"
)

// handleTablePage renders the loading page or the table. An "ack" query
// parameter naming a finished action opens its acknowledgment modal.
func (s *Server) handleTablePage(w http.ResponseWriter, r *http.Request) {
	view := s.service.View(parseSort(r))

	var page templ.Component
	if view.State != core.StateReady {
		page = templates.Loading()
	} else {
		data := templates.TablePageData{View: view}
		if ack, ok := core.AckFor(r.URL.Query().Get("ack")); ok {
			data.Ack = &ack
		}
		page = templates.TablePage(data)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	if err := page.Render(r.Context(), w); err != nil {
		logging.FromContext(r.Context()).Error("render table page", "error", err)
	}
}

// handleEditCell applies one cell edit posted by a price input.
func (s *Server) handleEditCell(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxFormSize)
	if err := r.ParseForm(); err != nil {
		s.respondErrorStatus(w, r, err, http.StatusBadRequest)
		return
	}

	position, err := parsePosition(r.PostForm.Get("position"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	field := core.Field(r.PostForm.Get("field"))
	if _, err := s.service.UpdateField(r.Context(), position, field, r.PostForm.Get("value")); err != nil {
		s.respondError(w, r, err)
		return
	}

	redirectToTable(w, r, parseSort(r), "")
}

// handleResetForm discards all edits and shows the reset acknowledgment.
func (s *Server) handleResetForm(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxFormSize)
	spec := parseSort(r)

	ack, err := s.service.Reset(WithRequestMetadata(r.Context(), r))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	redirectToTable(w, r, spec, ack.Action)
}

// handleSubmitForm persists the working set and shows the submit
// acknowledgment.
func (s *Server) handleSubmitForm(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxFormSize)
	spec := parseSort(r)

	ack, err := s.service.Submit(WithRequestMetadata(r.Context(), r))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	redirectToTable(w, r, spec, ack.Action)
}
