package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/elementsoftruth/trivia/internal/game"
)

const (
	defaultCategory   = "General Knowledge"
	defaultDifficulty = "Medium"
	defaultCount      = 10
	maxCount          = 20
)

// generateRequest is the inbound body of POST /api/generate_question.
type generateRequest struct {
	Category   string   `json:"category"`
	Difficulty string   `json:"difficulty"`
	Count      int      `json:"count"`
	ExcludeIDs []string `json:"exclude_ids"`
}

func (r *generateRequest) applyDefaults() {
	if r.Category == "" {
		r.Category = defaultCategory
	}
	if r.Difficulty == "" {
		r.Difficulty = defaultDifficulty
	}
	if r.Count <= 0 {
		r.Count = defaultCount
	}
	if r.Count > maxCount {
		r.Count = maxCount
	}
}

func (s *Server) handleGenerateQuestion(w http.ResponseWriter, r *http.Request) {
	// Decode and default the parameters before anything fallible so the
	// error path never references an undefined request.
	var body generateRequest
	if r.Body != nil {
		// A missing or malformed body falls back to the defaults rather
		// than rejecting the request; the game client always sends one.
		_ = json.NewDecoder(r.Body).Decode(&body)
	}
	body.applyDefaults()

	req := game.Request{
		Category:   body.Category,
		Difficulty: body.Difficulty,
		Count:      body.Count,
		ExcludeIDs: body.ExcludeIDs,
	}

	batch, err := s.service.Questions(r.Context(), req)
	if err != nil {
		status := http.StatusInternalServerError
		var unavailable *game.UnavailableError
		if errors.As(err, &unavailable) && unavailable.RateLimited {
			status = http.StatusTooManyRequests
		}
		s.logger.Error("question request failed",
			zap.String("category", req.Category),
			zap.String("difficulty", req.Difficulty),
			zap.Int("count", req.Count),
			zap.Int("status", status),
			zap.Error(err))
		writeError(w, status, err)
		return
	}

	writeJSON(w, http.StatusOK, batch)
}

func (s *Server) handleStatus(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.service.Status())
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
