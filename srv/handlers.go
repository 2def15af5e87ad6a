package srv

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/opd-ai/bookforge/export"
	"github.com/opd-ai/bookforge/paginate"
	"github.com/opd-ai/bookforge/srv/generator"
	bookforge "github.com/opd-ai/bookforge/src"
)

func (ui *BookUI) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleGenerate starts an asynchronous generation session and returns its
// ID. Progress is consumed over the session websocket.
func (ui *BookUI) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var spec bookforge.BookSpec
	if err := json.NewDecoder(r.Body).Decode(&spec); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if spec.Prompt == "" {
		writeError(w, http.StatusBadRequest, "prompt is required")
		return
	}
	if spec.Title == "" {
		writeError(w, http.StatusBadRequest, "title is required")
		return
	}

	sessionID := uuid.New().String()
	w.Header().Set("X-Session-Id", sessionID)

	progress := &generator.GenerationProgress{
		SessionID: sessionID,
		Done:      make(chan bool),
		StartTime: time.Now(),
		State:     generator.StateInitialized,
		IsActive:  true,
	}

	ui.sessionsM.Lock()
	ui.sessions[sessionID] = progress
	if _, exists := ui.msgHistory[sessionID]; !exists {
		ui.msgHistory[sessionID] = &MessageHistory{}
	}
	ui.sessionsM.Unlock()

	go func() {
		defer progress.SetActive(false)
		defer close(progress.Done)

		progress.UpdateState(generator.StateGenerating)
		if err := generator.GenerateBook(progress, ui.config, spec, ui.store); err != nil {
			log.Error().Str("session", sessionID).Err(err).Msg("generation failed")
			progress.UpdateState(generator.StateError)
			return
		}
		progress.UpdateState(generator.StateCompleted)
	}()

	writeJSON(w, http.StatusAccepted, map[string]string{"sessionId": sessionID})
}

// handlePages returns the paginated view of a session's book.
func (ui *BookUI) handlePages(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	progress, ok := ui.session(sessionID)
	if !ok {
		writeError(w, http.StatusNotFound, "unknown session")
		return
	}
	book := progress.GetBook()
	if book == nil {
		writeError(w, http.StatusConflict, "book not generated yet")
		return
	}

	opts := paginate.Options{
		FrontCover: book.FrontCover,
		BackCover:  book.BackCover,
	}
	if v := r.URL.Query().Get("pageSize"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			opts.PageSize = n
		}
	}

	pages := paginate.Paginate(bookforge.AssembleDocument(book), opts)
	writeJSON(w, http.StatusOK, map[string]any{
		"sessionId": sessionID,
		"total":     len(pages),
		"pages":     pages,
	})
}

// handleExport streams one export download. Only one export runs per
// session at a time; concurrent attempts get 409.
func (ui *BookUI) handleExport(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	format := export.Format(chi.URLParam(r, "format"))

	progress, ok := ui.session(sessionID)
	if !ok {
		writeError(w, http.StatusNotFound, "unknown session")
		return
	}
	book := progress.GetBook()
	if book == nil {
		writeError(w, http.StatusConflict, "book not generated yet")
		return
	}

	ui.sessionsM.Lock()
	if ui.exporting[sessionID] {
		ui.sessionsM.Unlock()
		writeError(w, http.StatusConflict, "an export is already in progress")
		return
	}
	ui.exporting[sessionID] = true
	ui.sessionsM.Unlock()
	defer func() {
		ui.sessionsM.Lock()
		delete(ui.exporting, sessionID)
		ui.sessionsM.Unlock()
	}()

	doc := bookforge.AssembleDocument(book)
	meta := export.Metadata{Title: book.Title, Subtitle: book.Subtitle, Author: book.Author}

	var pages []paginate.Page
	if format == export.FormatPDF {
		pages = paginate.Paginate(doc, paginate.Options{
			FrontCover: book.FrontCover,
			BackCover:  book.BackCover,
		})
	}

	file, err := export.Export(format, doc, meta, pages)
	if errors.Is(err, export.ErrUnknownFormat) {
		writeError(w, http.StatusBadRequest, "unknown export format")
		return
	}
	if err != nil {
		log.Error().Str("session", sessionID).Str("format", string(format)).Err(err).Msg("export failed")
		writeError(w, http.StatusInternalServerError, "export failed")
		return
	}

	w.Header().Set("Content-Type", file.ContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+file.Name+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(file.Data)))
	w.WriteHeader(http.StatusOK)
	w.Write(file.Data)
}

func (ui *BookUI) handleHistory(w http.ResponseWriter, r *http.Request) {
	if ui.store == nil {
		writeJSON(w, http.StatusOK, []bookforge.Book{})
		return
	}
	writeJSON(w, http.StatusOK, ui.store.History())
}

func (ui *BookUI) handleClearHistory(w http.ResponseWriter, r *http.Request) {
	if ui.store != nil {
		if err := ui.store.ClearHistory(); err != nil {
			writeError(w, http.StatusInternalServerError, "could not clear history")
			return
		}
	}
	w.WriteHeader(http.StatusNoContent)
}
