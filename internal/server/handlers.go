package server

import (
	"bytes"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/julienschmidt/httprouter"

	"github.com/jpalmerr/peercheck/internal/peers"
	"github.com/jpalmerr/peercheck/internal/results"
)

// maxFormSize caps the size of a submitted form body.
const maxFormSize = 1 << 20 // 1MB

// formField is the textarea holding newline-separated peer identifiers.
const formField = "peer_ids"

// Row is one line of the results table.
type Row struct {
	ID     string
	Result results.PeerResult
}

// Page is the data rendered by the page template.
type Page struct {
	Title  string
	Input  string
	Rows   []Row
	Totals results.Totals
}

// BuildPage lays out a result set for rendering.
//
// Rows follow the first submission of each identifier; a duplicated
// identifier appears once, showing the result that was retained.
func BuildPage(title, input string, ids []string, set *results.ResultSet) Page {
	page := Page{Title: title, Input: input}
	if set == nil {
		return page
	}

	for _, id := range peers.Unique(ids) {
		if r, ok := set.Get(id); ok {
			page.Rows = append(page.Rows, Row{ID: id, Result: r})
		}
	}
	page.Totals = set.Totals()
	return page
}

// handleForm renders the empty form.
func (s *Server) handleForm(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	s.render(w, BuildPage(s.title, "", nil, nil))
}

// handleSubmit looks up every submitted identifier and renders the results.
func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormSize)
	if err := r.ParseForm(); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			http.Error(w, "Form too large", http.StatusRequestEntityTooLarge)
			return
		}
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	input := r.PostForm.Get(formField)
	ids := peers.Parse(input)

	requestID := uuid.NewString()
	w.Header().Set("X-Request-Id", requestID)

	start := time.Now()
	set := s.fetcher.FetchAll(r.Context(), ids)

	totals := set.Totals()
	s.logger.Info("peer lookup completed",
		"request_id", requestID,
		"peer_count", len(ids),
		"result_count", set.Len(),
		"total_reward", totals.Reward,
		"total_score", totals.Score,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	s.render(w, BuildPage(s.title, input, ids, set))
}

// render executes the page template into a buffer first so a template error
// can still produce a clean 500.
func (s *Server) render(w http.ResponseWriter, page Page) {
	var buf bytes.Buffer
	if err := s.page.Execute(&buf, page); err != nil {
		s.logger.Error("failed to render page", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	if _, err := buf.WriteTo(w); err != nil {
		s.logger.Error("failed to write page", "error", err)
	}
}
