package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/tbraddock/flashdeck-api/internal/domain"
	"github.com/tbraddock/flashdeck-api/internal/domain/study"
	"github.com/tbraddock/flashdeck-api/internal/platform/logger"
	"github.com/tbraddock/flashdeck-api/internal/store"
)

// StudyServiceError is a custom error type for study service errors.
type StudyServiceError struct {
	Operation string
	Message   string
	Err       error
}

// Error implements the error interface for StudyServiceError.
func (e *StudyServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("study service %s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("study service %s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *StudyServiceError) Unwrap() error {
	return e.Err
}

// NewStudyServiceError creates a new StudyServiceError.
func NewStudyServiceError(operation, message string, err error) *StudyServiceError {
	return &StudyServiceError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}

// StudyState is a read-only snapshot of a session, taken under the registry
// lock. The back of the current card is included only while it is revealed.
type StudyState struct {
	SessionID uuid.UUID
	DeckID    int64
	CardID    int64
	Front     string
	Back      string
	Position  int
	Size      int
	Revealed  bool
	Shuffled  bool
	Complete  bool
	Score     study.Score
}

// StudyService manages in-memory study sessions. A session is created from a
// one-time snapshot of a deck's cards (the snapshot never refreshes
// mid-session, even if the deck changes underneath) and lives until ended or
// until the process exits. Sessions are private: a session started by one
// user is invisible to every other user, and "absent" and "not yours" are
// the same ErrSessionNotFound.
type StudyService interface {
	// StartSession loads the cards of a deck owned by the user and begins a
	// session over that snapshot. Returns store.ErrDeckNotFound if the deck
	// does not exist or is not owned by the user, and study.ErrNoCards for
	// an empty deck.
	StartSession(ctx context.Context, userID uuid.UUID, deckID int64) (*StudyState, error)

	// GetSession returns the current state of the user's session.
	GetSession(ctx context.Context, userID, sessionID uuid.UUID) (*StudyState, error)

	// Flip toggles whether the current card's back is shown.
	Flip(ctx context.Context, userID, sessionID uuid.UUID) (*StudyState, error)

	// Next advances to the following card; at the last card it is a no-op.
	Next(ctx context.Context, userID, sessionID uuid.UUID) (*StudyState, error)

	// Previous steps back to the preceding card; at the first card it is a no-op.
	Previous(ctx context.Context, userID, sessionID uuid.UUID) (*StudyState, error)

	// Shuffle randomizes the presentation order and restarts progress.
	Shuffle(ctx context.Context, userID, sessionID uuid.UUID) (*StudyState, error)

	// Restart resets the session to snapshot order with zeroed counters.
	Restart(ctx context.Context, userID, sessionID uuid.UUID) (*StudyState, error)

	// MarkCorrect records a correct answer and advances.
	MarkCorrect(ctx context.Context, userID, sessionID uuid.UUID) (*StudyState, error)

	// MarkIncorrect records an incorrect answer and advances.
	MarkIncorrect(ctx context.Context, userID, sessionID uuid.UUID) (*StudyState, error)

	// EndSession discards the user's session.
	EndSession(ctx context.Context, userID, sessionID uuid.UUID) error
}

// studySession pairs a session with its owner for the registry.
type studySession struct {
	ownerID uuid.UUID
	deckID  int64
	session *study.Session
}

// studyServiceImpl implements the StudyService interface with an in-process
// session registry guarded by a mutex.
type studyServiceImpl struct {
	cardStore store.CardStore
	logger    *slog.Logger

	mu       sync.Mutex
	sessions map[uuid.UUID]*studySession
}

// NewStudyService creates a new StudyService.
func NewStudyService(cardStore store.CardStore, logger *slog.Logger) (StudyService, error) {
	if cardStore == nil {
		return nil, domain.NewValidationError("cardStore", "cannot be nil", domain.ErrValidation)
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &studyServiceImpl{
		cardStore: cardStore,
		logger:    logger.With(slog.String("component", "study_service")),
		sessions:  make(map[uuid.UUID]*studySession),
	}, nil
}

// StartSession implements StudyService.StartSession
func (s *studyServiceImpl) StartSession(
	ctx context.Context,
	userID uuid.UUID,
	deckID int64,
) (*StudyState, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	// ListByDeck proves deck ownership before returning any cards, so an
	// unowned deck can never become a session.
	cards, err := s.cardStore.ListByDeck(ctx, deckID, userID)
	if err != nil {
		if store.IsNotFoundError(err) {
			return nil, err
		}
		log.Error("failed to load deck snapshot",
			slog.String("error", err.Error()),
			slog.Int64("deck_id", deckID))
		return nil, NewStudyServiceError("start_session", "failed to load cards", err)
	}

	snapshot := make([]domain.Card, 0, len(cards))
	for _, c := range cards {
		snapshot = append(snapshot, *c)
	}

	session, err := study.NewSession(snapshot)
	if err != nil {
		return nil, err
	}

	sessionID := uuid.New()

	s.mu.Lock()
	s.sessions[sessionID] = &studySession{
		ownerID: userID,
		deckID:  deckID,
		session: session,
	}
	state := snapshotState(sessionID, deckID, session)
	s.mu.Unlock()

	log.Info("study session started",
		slog.String("session_id", sessionID.String()),
		slog.Int64("deck_id", deckID),
		slog.Int("card_count", len(snapshot)))
	return state, nil
}

// GetSession implements StudyService.GetSession
func (s *studyServiceImpl) GetSession(
	ctx context.Context,
	userID, sessionID uuid.UUID,
) (*StudyState, error) {
	return s.apply(ctx, userID, sessionID, func(sess *study.Session) {})
}

// Flip implements StudyService.Flip
func (s *studyServiceImpl) Flip(
	ctx context.Context,
	userID, sessionID uuid.UUID,
) (*StudyState, error) {
	return s.apply(ctx, userID, sessionID, (*study.Session).Flip)
}

// Next implements StudyService.Next
func (s *studyServiceImpl) Next(
	ctx context.Context,
	userID, sessionID uuid.UUID,
) (*StudyState, error) {
	return s.apply(ctx, userID, sessionID, (*study.Session).Next)
}

// Previous implements StudyService.Previous
func (s *studyServiceImpl) Previous(
	ctx context.Context,
	userID, sessionID uuid.UUID,
) (*StudyState, error) {
	return s.apply(ctx, userID, sessionID, (*study.Session).Previous)
}

// Shuffle implements StudyService.Shuffle
func (s *studyServiceImpl) Shuffle(
	ctx context.Context,
	userID, sessionID uuid.UUID,
) (*StudyState, error) {
	return s.apply(ctx, userID, sessionID, (*study.Session).Shuffle)
}

// Restart implements StudyService.Restart
func (s *studyServiceImpl) Restart(
	ctx context.Context,
	userID, sessionID uuid.UUID,
) (*StudyState, error) {
	return s.apply(ctx, userID, sessionID, (*study.Session).Restart)
}

// MarkCorrect implements StudyService.MarkCorrect
func (s *studyServiceImpl) MarkCorrect(
	ctx context.Context,
	userID, sessionID uuid.UUID,
) (*StudyState, error) {
	return s.apply(ctx, userID, sessionID, (*study.Session).MarkCorrect)
}

// MarkIncorrect implements StudyService.MarkIncorrect
func (s *studyServiceImpl) MarkIncorrect(
	ctx context.Context,
	userID, sessionID uuid.UUID,
) (*StudyState, error) {
	return s.apply(ctx, userID, sessionID, (*study.Session).MarkIncorrect)
}

// EndSession implements StudyService.EndSession
func (s *studyServiceImpl) EndSession(ctx context.Context, userID, sessionID uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.sessions[sessionID]
	if !ok || entry.ownerID != userID {
		return ErrSessionNotFound
	}

	delete(s.sessions, sessionID)
	log.Info("study session ended", slog.String("session_id", sessionID.String()))
	return nil
}

// apply runs one transition on the user's session under the registry lock
// and returns the resulting state. Missing and unowned sessions are
// indistinguishable to the caller.
func (s *studyServiceImpl) apply(
	ctx context.Context,
	userID, sessionID uuid.UUID,
	transition func(*study.Session),
) (*StudyState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.sessions[sessionID]
	if !ok || entry.ownerID != userID {
		return nil, ErrSessionNotFound
	}

	transition(entry.session)
	return snapshotState(sessionID, entry.deckID, entry.session), nil
}

// snapshotState builds the external view of a session. Must be called with
// the registry lock held.
func snapshotState(sessionID uuid.UUID, deckID int64, sess *study.Session) *StudyState {
	current := sess.Current()

	state := &StudyState{
		SessionID: sessionID,
		DeckID:    deckID,
		CardID:    current.ID,
		Front:     current.Front,
		Position:  sess.Position(),
		Size:      sess.Size(),
		Revealed:  sess.Revealed(),
		Shuffled:  sess.Shuffled(),
		Complete:  sess.Complete(),
		Score:     sess.Score(),
	}
	if state.Revealed {
		state.Back = current.Back
	}
	return state
}
