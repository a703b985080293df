package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/tbraddock/flashdeck-api/internal/api/shared"
	"github.com/tbraddock/flashdeck-api/internal/platform/logger"
	"github.com/tbraddock/flashdeck-api/internal/service"
)

// StudyHandler handles study session API requests. Sessions are in-memory
// and keyed by session ID; a session is only visible to the user who
// started it.
type StudyHandler struct {
	studyService service.StudyService
	logger       *slog.Logger
}

// NewStudyHandler creates a new StudyHandler with the given dependencies.
func NewStudyHandler(studyService service.StudyService, logger *slog.Logger) *StudyHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &StudyHandler{
		studyService: studyService,
		logger:       logger.With(slog.String("component", "study_handler")),
	}
}

// StartSession handles POST /decks/{id}/study.
func (h *StudyHandler) StartSession(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, deckID, ok := handleUserIDAndPathID(w, r, "id", log)
	if !ok {
		return
	}

	state, err := h.studyService.StartSession(r.Context(), userID, deckID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to start study session")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, toStudyStateResponse(state))
}

// GetSession handles GET /study/{id}.
func (h *StudyHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, "retrieve", h.studyService.GetSession)
}

// Flip handles POST /study/{id}/flip.
func (h *StudyHandler) Flip(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, "flip", h.studyService.Flip)
}

// Next handles POST /study/{id}/next.
func (h *StudyHandler) Next(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, "advance", h.studyService.Next)
}

// Previous handles POST /study/{id}/previous.
func (h *StudyHandler) Previous(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, "step back", h.studyService.Previous)
}

// Shuffle handles POST /study/{id}/shuffle.
func (h *StudyHandler) Shuffle(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, "shuffle", h.studyService.Shuffle)
}

// Restart handles POST /study/{id}/restart.
func (h *StudyHandler) Restart(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, "restart", h.studyService.Restart)
}

// MarkCorrect handles POST /study/{id}/correct.
func (h *StudyHandler) MarkCorrect(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, "mark", h.studyService.MarkCorrect)
}

// MarkIncorrect handles POST /study/{id}/incorrect.
func (h *StudyHandler) MarkIncorrect(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, "mark", h.studyService.MarkIncorrect)
}

// EndSession handles DELETE /study/{id}.
func (h *StudyHandler) EndSession(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, sessionID, ok := handleUserIDAndPathUUID(w, r, "id", log)
	if !ok {
		return
	}

	if err := h.studyService.EndSession(r.Context(), userID, sessionID); err != nil {
		HandleAPIError(w, r, err, "Failed to end study session")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// transition runs one session operation and writes the resulting state.
// All transitions share the same request shape: a session UUID in the path,
// no body.
func (h *StudyHandler) transition(
	w http.ResponseWriter,
	r *http.Request,
	action string,
	op func(ctx context.Context, userID, sessionID uuid.UUID) (*service.StudyState, error),
) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, sessionID, ok := handleUserIDAndPathUUID(w, r, "id", log)
	if !ok {
		return
	}

	state, err := op(r.Context(), userID, sessionID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to "+action+" study session")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, toStudyStateResponse(state))
}
