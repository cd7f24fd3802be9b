package services

import (
	"context"
	"time"

	"github.com/vytor/phrasecards/internal/flashcard"
	"github.com/vytor/phrasecards/internal/logger"
	"github.com/vytor/phrasecards/internal/models"
	"github.com/vytor/phrasecards/internal/repository"
)

// ReviewService owns the review state of every graded card. It is not safe
// for concurrent use; StudyService serializes access.
type ReviewService interface {
	Load(ctx context.Context) error
	// Grade replaces the card's state and persists the whole map before
	// returning. A failed write is logged and the in-memory state kept.
	Grade(ctx context.Context, no int, grade flashcard.Grade) models.ReviewState
	State(no int) (models.ReviewState, bool)
	IsDue(no int, at time.Time) bool
	IsLearned(no int) bool
}

type reviewService struct {
	repo   repository.StateRepository
	now    func() time.Time
	states map[int]models.ReviewState
}

// NewReviewService creates a ReviewService. A nil clock means time.Now.
func NewReviewService(repo repository.StateRepository, now func() time.Time) ReviewService {
	if now == nil {
		now = time.Now
	}
	return &reviewService{
		repo:   repo,
		now:    now,
		states: make(map[int]models.ReviewState),
	}
}

func (s *reviewService) Load(ctx context.Context) error {
	log := logger.FromContext(ctx).WithPrefix("review")

	states, err := s.repo.LoadReviewStates(ctx)
	if err != nil {
		return err
	}
	if states == nil {
		states = make(map[int]models.ReviewState)
	}
	s.states = states
	log.Info("loaded review state for %d cards", len(states))
	return nil
}

func (s *reviewService) Grade(ctx context.Context, no int, grade flashcard.Grade) models.ReviewState {
	log := logger.FromContext(ctx).WithPrefix("review").WithFields(map[string]any{
		"card":  no,
		"grade": grade,
	})

	state := flashcard.ApplyGrade(grade, s.now())
	s.states[no] = state
	log.Debug("graded, interval=%v, due=%s", state.Interval(), state.DueTime().Format(time.RFC3339))

	if err := s.repo.SaveReviewStates(ctx, s.states); err != nil {
		log.Error("failed to persist review state, keeping it in memory: %v", err)
	}
	return state
}

func (s *reviewService) State(no int) (models.ReviewState, bool) {
	state, ok := s.states[no]
	return state, ok
}

func (s *reviewService) IsDue(no int, at time.Time) bool {
	state, ok := s.states[no]
	if !ok {
		return false
	}
	return flashcard.IsDue(&state, at)
}

func (s *reviewService) IsLearned(no int) bool {
	state, ok := s.states[no]
	if !ok {
		return false
	}
	return flashcard.IsLearned(&state)
}
