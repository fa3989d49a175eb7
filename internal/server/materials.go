package server

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"neetgenie/internal/materialmeta"
	"neetgenie/internal/state"
	"neetgenie/internal/storage"
	"neetgenie/pkg/domain"
)

func (s *Server) handleMaterials(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.handleListMaterials(w, r)
	case http.MethodPost:
		s.handleUploadMaterial(w, r)
	default:
		methodNotAllowed(w)
	}
}

// handleListMaterials refreshes the catalog from the store, merges any
// query-string filter updates, and returns the filtered view.
func (s *Server) handleListMaterials(w http.ResponseWriter, r *http.Request) {
	s.catalog.SetLoading(true)
	defer s.catalog.SetLoading(false)

	patch, err := filterPatchFromQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.catalog.MergeFilter(patch)

	materials, err := s.store.ListMaterials()
	if err != nil {
		text := s.notifier.Error(err, "Failed to load study materials")
		s.catalog.SetError(text)
		writeError(w, http.StatusInternalServerError, text)
		return
	}
	s.catalog.SetError("")
	s.catalog.ReplaceAll(materials)

	items := s.catalog.Filtered()
	writeJSON(w, http.StatusOK, map[string]any{
		"items":  items,
		"count":  len(items),
		"filter": s.catalog.Filter(),
	})
}

func filterPatchFromQuery(r *http.Request) (state.FilterPatch, error) {
	patch := state.FilterPatch{}
	query := r.URL.Query()
	if query.Has("subject") {
		patch.SubjectSet = true
		if subject := strings.TrimSpace(query.Get("subject")); subject != "" {
			patch.Subject = &subject
		}
	}
	if query.Has("type") {
		switch filter := domain.TypeFilter(strings.ToLower(strings.TrimSpace(query.Get("type")))); filter {
		case domain.FilterAll, domain.FilterNotes, domain.FilterVideo:
			patch.Type = &filter
		default:
			return patch, errors.New("type must be one of all, notes, video")
		}
	}
	if query.Has("search") {
		search := query.Get("search")
		patch.Search = &search
	}
	return patch, nil
}

func (s *Server) handleUploadMaterial(w http.ResponseWriter, r *http.Request) {
	if s.maxUploadBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadBytes)
	}
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		writeError(w, http.StatusBadRequest, "invalid form data")
		return
	}

	title := strings.TrimSpace(r.FormValue("title"))
	subject := strings.TrimSpace(r.FormValue("subject"))
	if title == "" || subject == "" {
		writeError(w, http.StatusBadRequest, "title and subject are required")
		return
	}
	materialType := domain.MaterialType(strings.ToLower(strings.TrimSpace(r.FormValue("type"))))
	if materialType != domain.MaterialNotes && materialType != domain.MaterialVideo {
		writeError(w, http.StatusBadRequest, "type must be notes or video")
		return
	}

	now := time.Now().UTC()
	material := domain.StudyMaterial{
		Title:       title,
		Subject:     subject,
		Type:        materialType,
		Description: strings.TrimSpace(r.FormValue("description")),
		Duration:    strings.TrimSpace(r.FormValue("duration")),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if raw := strings.TrimSpace(r.FormValue("rating")); raw != "" {
		rating, err := strconv.ParseFloat(raw, 64)
		if err != nil || rating < 0 || rating > 5 {
			writeError(w, http.StatusBadRequest, "rating must be a number between 0 and 5")
			return
		}
		material.Rating = rating
	}

	file, header, err := r.FormFile("file")
	if err == nil {
		defer file.Close()
		data, readErr := io.ReadAll(file)
		if readErr != nil {
			writeError(w, http.StatusBadRequest, "could not read uploaded file")
			return
		}
		contentType := header.Header.Get("Content-Type")
		if materialType == domain.MaterialNotes && materialmeta.IsPDF(header.Filename, contentType) {
			pages, pageErr := materialmeta.PDFPageCount(data)
			if pageErr != nil {
				writeError(w, http.StatusBadRequest, "uploaded PDF could not be parsed")
				return
			}
			material.Pages = &pages
		}
		if s.objects == nil {
			writeError(w, http.StatusServiceUnavailable, "file storage unavailable")
			return
		}
		key := storage.MaterialKey(subject, header.Filename)
		if err := s.objects.Put(r.Context(), key, bytes.NewReader(data), int64(len(data)), contentType); err != nil {
			text := s.notifier.Error(err, "Failed to store material file")
			writeError(w, http.StatusBadGateway, text)
			return
		}
		material.StorageKey = key
	}

	saved, err := s.store.SaveMaterial(material)
	if err != nil {
		// The record is the source of truth; an uploaded file without one
		// is unreachable, so remove it again.
		if material.StorageKey != "" && s.objects != nil {
			if delErr := s.objects.Delete(r.Context(), material.StorageKey); delErr != nil {
				slog.Warn("orphaned material file left in object storage",
					"key", material.StorageKey, "err", delErr)
			}
		}
		text := s.notifier.Error(err, "Failed to save study material")
		writeError(w, http.StatusInternalServerError, text)
		return
	}
	if materials, err := s.store.ListMaterials(); err == nil {
		s.catalog.ReplaceAll(materials)
	}
	s.notifier.Success("Study material added")
	writeJSON(w, http.StatusCreated, saved)
}

// handleMaterialByID serves /api/materials/{id}/download with a short-lived
// pre-signed link to the stored file.
func (s *Server) handleMaterialByID(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	rest := strings.TrimPrefix(r.URL.Path, "/api/materials/")
	idPart, ok := strings.CutSuffix(rest, "/download")
	if !ok {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	id, err := strconv.Atoi(idPart)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "invalid material id")
		return
	}
	material, found, err := s.store.GetMaterial(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load material")
		return
	}
	if !found {
		writeError(w, http.StatusNotFound, "material not found")
		return
	}
	if material.StorageKey == "" {
		writeError(w, http.StatusNotFound, "material has no stored file")
		return
	}
	if s.objects == nil {
		writeError(w, http.StatusServiceUnavailable, "file storage unavailable")
		return
	}
	link, err := s.objects.PresignGet(r.Context(), material.StorageKey, storage.DownloadLinkTTL)
	if err != nil {
		text := s.notifier.Error(err, "Failed to create download link")
		writeError(w, http.StatusBadGateway, text)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"url":       link,
		"expiresIn": int(storage.DownloadLinkTTL.Seconds()),
	})
}
