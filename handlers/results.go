// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"mime"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/danielhkuo/livepoll/archive"
	"github.com/danielhkuo/livepoll/middleware"
	"github.com/danielhkuo/livepoll/models"
	"github.com/danielhkuo/livepoll/polls"
)

type ResultsHandler struct {
	manager  *polls.Manager
	archiver *archive.Archiver
}

func NewResultsHandler(manager *polls.Manager, archiver *archive.Archiver) *ResultsHandler {
	return &ResultsHandler{manager: manager, archiver: archiver}
}

// ListResults handles GET /admin/results
func (h *ResultsHandler) ListResults(w http.ResponseWriter, r *http.Request) {
	files, err := h.archiver.List(r.Context(), middleware.Username(r))
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, models.ResultListResponse{Results: files})
}

// ArchiveActive handles POST /admin/results
// Stores a snapshot of the active poll without closing it.
func (h *ResultsHandler) ArchiveActive(w http.ResponseWriter, r *http.Request) {
	name, err := h.manager.Snapshot(r.Context(), middleware.Username(r))
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}
	middleware.JSONResponse(w, http.StatusCreated, models.ArchiveResponse{Filename: name})
}

// DownloadCurrent handles GET /admin/results/current
// Renders the active poll's tallies as an attachment; nothing is stored.
func (h *ResultsHandler) DownloadCurrent(w http.ResponseWriter, r *http.Request) {
	poll, err := h.manager.Active(r.Context(), middleware.Username(r))
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}
	setAttachment(w, archive.LiveDownloadName(h.archiver.Now()))
	middleware.JSONResponse(w, http.StatusOK, h.archiver.Live(poll))
}

// DownloadResult handles GET /admin/results/{filename}
func (h *ResultsHandler) DownloadResult(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("filename")
	body, err := h.archiver.Get(r.Context(), middleware.Username(r), name)
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}
	download, err := archive.DownloadName(name)
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	setAttachment(w, download)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Warn().Err(err).Str("file", name).Msg("Failed to write result download")
	}
}

// DeleteResult handles DELETE /admin/results/{filename}
func (h *ResultsHandler) DeleteResult(w http.ResponseWriter, r *http.Request) {
	if err := h.archiver.Delete(r.Context(), middleware.Username(r), r.PathValue("filename")); err != nil {
		middleware.WriteError(w, r, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, models.MessageResponse{Message: "result deleted"})
}

func setAttachment(w http.ResponseWriter, filename string) {
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": filename}))
}
