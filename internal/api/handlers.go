package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"astrogen/internal/logging"
	"astrogen/internal/sector"
	"astrogen/internal/services"
)

const (
	msgMissingQuery = "Missing query parameters"
	msgMissingBody  = "Missing sector or format"
	maxRequestBody  = 64 << 10
)

type generateRequest struct {
	Sector string `json:"sector"`
	Format string `json:"format"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleGenerateStream(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	req := sector.Request{
		Sector: strings.TrimSpace(query.Get("sector")),
		Format: strings.TrimSpace(query.Get("format")),
	}
	if req.Sector == "" || req.Format == "" {
		http.Error(w, msgMissingQuery, services.HTTPStatus(services.ErrValidation))
		return
	}
	s.stream(w, r, req)
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var body generateRequest
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBody))
	if err := decoder.Decode(&body); err != nil {
		s.writeError(w, services.ErrValidation, msgMissingBody)
		return
	}
	req := sector.Request{
		Sector: strings.TrimSpace(body.Sector),
		Format: strings.TrimSpace(body.Format),
	}
	if req.Sector == "" || req.Format == "" {
		s.writeError(w, services.ErrValidation, msgMissingBody)
		return
	}
	s.stream(w, r, req)
}

func (s *Server) handleSectorList(w http.ResponseWriter, r *http.Request) {
	if s.lister == nil {
		s.writeError(w, services.ErrUpstream, "sector list unavailable")
		return
	}
	names, err := s.lister.SectorNames(r.Context())
	if err != nil {
		err = fmt.Errorf("%w: sector list: %w", services.ErrUpstream, err)
		logging.WarnWithContext(logging.WithContext(r.Context(), s.logger), "sector list fetch failed", "sector_list_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check network access to TravellerMap"),
			logging.String(logging.FieldImpact, "clients cannot offer sector names"),
		)
		s.writeError(w, err, "Failed to fetch sector list")
		return
	}
	sorted := append([]string(nil), names...)
	sort.Strings(sorted)
	s.writeJSON(w, http.StatusOK, sorted)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Debug("write json response failed", logging.Error(err))
	}
}

// writeError answers a request that failed before any stream started; the
// status comes from the error's class.
func (s *Server) writeError(w http.ResponseWriter, err error, message string) {
	s.writeJSON(w, services.HTTPStatus(err), errorResponse{Error: message})
}
