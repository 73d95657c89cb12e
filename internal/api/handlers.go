package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/baedea/brainfin/internal/models"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data: map[string]interface{}{
			"status":  "ok",
			"service": s.cfg.App.Name,
		},
	})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.db == nil {
		writeError(w, http.StatusServiceUnavailable, "database not configured")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := s.db.Ping(ctx); err != nil {
		writeError(w, http.StatusServiceUnavailable, "database unreachable")
		return
	}

	writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data:    map[string]string{"status": "ready"},
	})
}

func (s *Server) handleCalculate(w http.ResponseWriter, r *http.Request) {
	var req models.SimulationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.InvestmentType == "" {
		writeValidationError(w, []FieldError{{Field: "investment_type", Message: "investment_type is required"}})
		return
	}

	record, err := s.svc.Calculate(r.Context(), &req)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data:    record,
	})
}

// handleTyped builds a handler for one typed convenience endpoint. The body
// is the parameter object itself; persistence and session attribution come
// from the persist and user_session query parameters.
func (s *Server) handleTyped(t models.InvestmentType) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		if err != nil || len(body) == 0 {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		req := &models.SimulationRequest{
			InvestmentType: t,
			Parameters:     body,
			UserSession:    r.URL.Query().Get("user_session"),
		}
		if raw := r.URL.Query().Get("persist"); raw != "" {
			persist, err := strconv.ParseBool(raw)
			if err != nil {
				writeValidationError(w, []FieldError{{Field: "persist", Message: "persist must be a boolean"}})
				return
			}
			req.Persist = &persist
		}

		record, err := s.svc.Calculate(r.Context(), req)
		if err != nil {
			s.writeServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, APIResponse{
			Success: true,
			Data:    record,
		})
	}
}

func (s *Server) handleGetSimulation(w http.ResponseWriter, r *http.Request) {
	id, ok := s.parseRecordID(w, r)
	if !ok {
		return
	}

	record, err := s.svc.Get(r.Context(), id)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data:    record,
	})
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	filter := models.RecordFilter{}

	if raw := r.URL.Query().Get("investment_type"); raw != "" {
		t := models.InvestmentType(raw)
		filter.InvestmentType = &t
	}
	if raw := r.URL.Query().Get("user_session"); raw != "" {
		session := raw
		filter.UserSession = &session
	}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit <= 0 {
			writeValidationError(w, []FieldError{{Field: "limit", Message: "limit must be a positive integer"}})
			return
		}
		filter.Limit = limit
	}

	records, err := s.svc.List(r.Context(), filter)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}

	if records == nil {
		records = []*models.SimulationRecord{}
	}
	writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data:    records,
	})
}

func (s *Server) handleUpdateSimulation(w http.ResponseWriter, r *http.Request) {
	id, ok := s.parseRecordID(w, r)
	if !ok {
		return
	}

	var req models.UpdateSimulationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(req.Parameters) == 0 {
		writeValidationError(w, []FieldError{{Field: "parameters", Message: "parameters are required"}})
		return
	}

	record, err := s.svc.Update(r.Context(), id, &req)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data:    record,
	})
}

func (s *Server) handleDeleteSimulation(w http.ResponseWriter, r *http.Request) {
	id, ok := s.parseRecordID(w, r)
	if !ok {
		return
	}

	if err := s.svc.Delete(r.Context(), id); err != nil {
		s.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data:    map[string]string{"deleted": id.String()},
	})
}

// parseRecordID extracts and validates the record id path parameter.
func (s *Server) parseRecordID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	raw := chi.URLParam(r, "id")
	id, err := uuid.Parse(raw)
	if err != nil {
		writeValidationError(w, []FieldError{{Field: "id", Message: models.ErrInvalidID.Error()}})
		return uuid.Nil, false
	}
	return id, true
}
