package kernel

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/smartcrm/kernel/internal/core/domain"
)

// CRM record routes. Every collection is scoped to a user via the userId
// query parameter; a single-tenant deployment just omits it.

const defaultUserID = "default"

func (s *Server) mountCRMRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /v1/deals", s.handleListDeals)
	mux.HandleFunc("POST /v1/deals", s.handleCreateDeal)
	mux.HandleFunc("GET /v1/deals/{id}", s.handleGetDeal)
	mux.HandleFunc("PUT /v1/deals/{id}", s.handleUpdateDeal)
	mux.HandleFunc("DELETE /v1/deals/{id}", s.handleDeleteDeal)

	mux.HandleFunc("GET /v1/analyses", s.handleListAnalyses)
	mux.HandleFunc("POST /v1/analyses", s.handleCreateAnalysis)
	mux.HandleFunc("GET /v1/analyses/{id}", s.handleGetAnalysis)
	mux.HandleFunc("PUT /v1/analyses/{id}", s.handleUpdateAnalysis)
	mux.HandleFunc("DELETE /v1/analyses/{id}", s.handleDeleteAnalysis)

	mux.HandleFunc("GET /v1/content", s.handleListContent)
	mux.HandleFunc("POST /v1/content", s.handleCreateContent)
	mux.HandleFunc("GET /v1/content/{id}", s.handleGetContent)
	mux.HandleFunc("PUT /v1/content/{id}", s.handleUpdateContent)
	mux.HandleFunc("DELETE /v1/content/{id}", s.handleDeleteContent)

	mux.HandleFunc("GET /v1/voice-profiles", s.handleListVoiceProfiles)
	mux.HandleFunc("POST /v1/voice-profiles", s.handleCreateVoiceProfile)
	mux.HandleFunc("DELETE /v1/voice-profiles/{id}", s.handleDeleteVoiceProfile)

	mux.HandleFunc("GET /v1/images", s.handleListImages)
	mux.HandleFunc("POST /v1/images", s.handleCreateImage)
	mux.HandleFunc("DELETE /v1/images/{id}", s.handleDeleteImage)
}

func userIDFrom(r *http.Request) string {
	if id := r.URL.Query().Get("userId"); id != "" {
		return id
	}
	return defaultUserID
}

func notFoundStatus(err error) int {
	if strings.Contains(err.Error(), "not found") {
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

// --- Deals ---

func (s *Server) handleListDeals(w http.ResponseWriter, r *http.Request) {
	userID := userIDFrom(r)

	var deals []domain.Deal
	var err error
	if stage := r.URL.Query().Get("stage"); stage != "" {
		deals, err = s.repo.ListDealsByStage(r.Context(), userID, stage)
	} else {
		deals, err = s.repo.ListDeals(r.Context(), userID)
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"deals": deals})
}

func (s *Server) handleCreateDeal(w http.ResponseWriter, r *http.Request) {
	var deal domain.Deal
	if err := json.NewDecoder(r.Body).Decode(&deal); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("decode request: %w", err))
		return
	}
	if deal.Title == "" {
		writeError(w, http.StatusBadRequest, fmt.Errorf("title is required"))
		return
	}

	if deal.ID == "" {
		deal.ID = domain.NewRecordID()
	}
	if deal.UserID == "" {
		deal.UserID = userIDFrom(r)
	}
	if deal.Stage == "" {
		deal.Stage = domain.StageLead
	}
	now := time.Now().UTC()
	deal.CreatedAt = now
	deal.UpdatedAt = now

	if err := s.repo.CreateDeal(r.Context(), deal); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusCreated, deal)
}

func (s *Server) handleGetDeal(w http.ResponseWriter, r *http.Request) {
	deal, err := s.repo.GetDeal(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, notFoundStatus(err), err)
		return
	}
	writeJSON(w, http.StatusOK, deal)
}

func (s *Server) handleUpdateDeal(w http.ResponseWriter, r *http.Request) {
	var deal domain.Deal
	if err := json.NewDecoder(r.Body).Decode(&deal); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("decode request: %w", err))
		return
	}
	deal.ID = r.PathValue("id")
	deal.UpdatedAt = time.Now().UTC()

	if err := s.repo.UpdateDeal(r.Context(), deal); err != nil {
		writeError(w, notFoundStatus(err), err)
		return
	}
	writeJSON(w, http.StatusOK, deal)
}

func (s *Server) handleDeleteDeal(w http.ResponseWriter, r *http.Request) {
	if err := s.repo.DeleteDeal(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, notFoundStatus(err), err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- Business analyses ---

func (s *Server) handleListAnalyses(w http.ResponseWriter, r *http.Request) {
	analyses, err := s.repo.ListBusinessAnalyses(r.Context(), userIDFrom(r))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"analyses": analyses})
}

func (s *Server) handleCreateAnalysis(w http.ResponseWriter, r *http.Request) {
	var analysis domain.BusinessAnalysis
	if err := json.NewDecoder(r.Body).Decode(&analysis); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("decode request: %w", err))
		return
	}

	if analysis.ID == "" {
		analysis.ID = domain.NewRecordID()
	}
	if analysis.UserID == "" {
		analysis.UserID = userIDFrom(r)
	}
	if analysis.Status == "" {
		analysis.Status = "pending"
	}
	analysis.CreatedAt = time.Now().UTC()

	if err := s.repo.CreateBusinessAnalysis(r.Context(), analysis); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusCreated, analysis)
}

func (s *Server) handleGetAnalysis(w http.ResponseWriter, r *http.Request) {
	analysis, err := s.repo.GetBusinessAnalysis(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, notFoundStatus(err), err)
		return
	}
	writeJSON(w, http.StatusOK, analysis)
}

func (s *Server) handleUpdateAnalysis(w http.ResponseWriter, r *http.Request) {
	var analysis domain.BusinessAnalysis
	if err := json.NewDecoder(r.Body).Decode(&analysis); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("decode request: %w", err))
		return
	}
	analysis.ID = r.PathValue("id")

	if err := s.repo.UpdateBusinessAnalysis(r.Context(), analysis); err != nil {
		writeError(w, notFoundStatus(err), err)
		return
	}
	writeJSON(w, http.StatusOK, analysis)
}

func (s *Server) handleDeleteAnalysis(w http.ResponseWriter, r *http.Request) {
	if err := s.repo.DeleteBusinessAnalysis(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, notFoundStatus(err), err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- Content items ---

func (s *Server) handleListContent(w http.ResponseWriter, r *http.Request) {
	items, err := s.repo.ListContentItems(r.Context(), userIDFrom(r))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

func (s *Server) handleCreateContent(w http.ResponseWriter, r *http.Request) {
	var item domain.ContentItem
	if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("decode request: %w", err))
		return
	}

	if item.ID == "" {
		item.ID = domain.NewRecordID()
	}
	if item.UserID == "" {
		item.UserID = userIDFrom(r)
	}
	if item.Status == "" {
		item.Status = "draft"
	}
	item.CreatedAt = time.Now().UTC()

	if err := s.repo.CreateContentItem(r.Context(), item); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusCreated, item)
}

func (s *Server) handleGetContent(w http.ResponseWriter, r *http.Request) {
	item, err := s.repo.GetContentItem(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, notFoundStatus(err), err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (s *Server) handleUpdateContent(w http.ResponseWriter, r *http.Request) {
	var item domain.ContentItem
	if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("decode request: %w", err))
		return
	}
	item.ID = r.PathValue("id")

	if err := s.repo.UpdateContentItem(r.Context(), item); err != nil {
		writeError(w, notFoundStatus(err), err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (s *Server) handleDeleteContent(w http.ResponseWriter, r *http.Request) {
	if err := s.repo.DeleteContentItem(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, notFoundStatus(err), err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- Voice profiles ---

func (s *Server) handleListVoiceProfiles(w http.ResponseWriter, r *http.Request) {
	profiles, err := s.repo.ListVoiceProfiles(r.Context(), userIDFrom(r))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"profiles": profiles})
}

func (s *Server) handleCreateVoiceProfile(w http.ResponseWriter, r *http.Request) {
	var profile domain.VoiceProfile
	if err := json.NewDecoder(r.Body).Decode(&profile); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("decode request: %w", err))
		return
	}

	if profile.ID == "" {
		profile.ID = domain.NewRecordID()
	}
	if profile.UserID == "" {
		profile.UserID = userIDFrom(r)
	}
	profile.CreatedAt = time.Now().UTC()

	if err := s.repo.CreateVoiceProfile(r.Context(), profile); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusCreated, profile)
}

func (s *Server) handleDeleteVoiceProfile(w http.ResponseWriter, r *http.Request) {
	if err := s.repo.DeleteVoiceProfile(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, notFoundStatus(err), err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- Image assets ---

func (s *Server) handleListImages(w http.ResponseWriter, r *http.Request) {
	images, err := s.repo.ListImageAssets(r.Context(), userIDFrom(r))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"images": images})
}

func (s *Server) handleCreateImage(w http.ResponseWriter, r *http.Request) {
	var img domain.ImageAsset
	if err := json.NewDecoder(r.Body).Decode(&img); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("decode request: %w", err))
		return
	}

	if img.ID == "" {
		img.ID = domain.NewRecordID()
	}
	if img.UserID == "" {
		img.UserID = userIDFrom(r)
	}
	img.CreatedAt = time.Now().UTC()

	if err := s.repo.CreateImageAsset(r.Context(), img); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusCreated, img)
}

func (s *Server) handleDeleteImage(w http.ResponseWriter, r *http.Request) {
	if err := s.repo.DeleteImageAsset(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, notFoundStatus(err), err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
