package kernel

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/smartcrm/kernel/internal/core/domain"
)

// handleGetSettings returns the current configuration with every API key
// masked. Plaintext keys never leave the process.
func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.settings.GetMaskedConfig())
}

// handleUpdateSettings persists a configuration update. Empty or masked key
// fields keep the stored key, so a client can round-trip the masked config
// unchanged without wiping credentials.
func (s *Server) handleUpdateSettings(w http.ResponseWriter, r *http.Request) {
	var update domain.AppConfig
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("decode request: %w", err))
		return
	}

	if err := s.settings.UpdateConfig(r.Context(), &update); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, s.settings.GetMaskedConfig())
}
