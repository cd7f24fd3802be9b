package services

import (
	"context"
	"math/rand"
	"strconv"
	"sync"
	"time"

	"github.com/vytor/phrasecards/internal/catalog"
	"github.com/vytor/phrasecards/internal/deck"
	"github.com/vytor/phrasecards/internal/errors"
	"github.com/vytor/phrasecards/internal/flashcard"
	"github.com/vytor/phrasecards/internal/logger"
	"github.com/vytor/phrasecards/internal/models"
)

// CatalogLoader fetches and parses the card catalog.
type CatalogLoader interface {
	Load(ctx context.Context) (catalog.Result, error)
	String() string
}

// StudyService is the application context: it owns the catalog, the review
// store, the daily quota and the active session, and serializes all access
// to them.
type StudyService interface {
	LoadCatalog(ctx context.Context) error
	Loaded() bool
	Catalog() models.CatalogInfo

	BuildSession(ctx context.Context, mode Mode, param string) error
	CurrentCard() (models.Card, bool)
	CurrentView() (models.CardView, bool)
	Advance(ctx context.Context) (models.CardView, error)
	Reveal(ctx context.Context) (models.CardView, error)
	Grade(ctx context.Context, grade flashcard.Grade) (models.ReviewState, error)

	BlockProgressAll() []models.BlockProgress
	CurrentBlockProgress() models.BlockProgress
	DailyProgress(ctx context.Context) models.DailyProgress
	SetDailyGoal(ctx context.Context, goal int) (models.DailyProgress, error)
	Scenes() []string
}

type StudyOption func(*studyService)

// WithClock overrides time.Now for due selection.
func WithClock(now func() time.Time) StudyOption {
	return func(s *studyService) { s.now = now }
}

// WithRandom overrides the slot picker. pick(n) must return a value in [0, n).
func WithRandom(pick func(n int) int) StudyOption {
	return func(s *studyService) { s.pick = pick }
}

type studyService struct {
	loader  CatalogLoader
	reviews ReviewService
	quota   QuotaService
	now     func() time.Time
	pick    func(n int) int

	mu      sync.Mutex
	deck    *deck.Deck
	info    models.CatalogInfo
	session session
}

func NewStudyService(loader CatalogLoader, reviews ReviewService, quota QuotaService, opts ...StudyOption) StudyService {
	s := &studyService{
		loader:  loader,
		reviews: reviews,
		quota:   quota,
		now:     time.Now,
		pick:    rand.Intn,
		deck:    deck.New(nil),
		info:    models.CatalogInfo{Skipped: []models.RowError{}},
		session: session{slot: -1},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// LoadCatalog replaces the catalog and restarts the session on block 1.
// On failure the previous catalog, if any, stays in place.
func (s *studyService) LoadCatalog(ctx context.Context) error {
	log := logger.FromContext(ctx).WithPrefix("study")

	res, err := s.loader.Load(ctx)
	if err != nil {
		return errors.NewCatalogUnavailableError(err)
	}

	skipped := res.Skipped
	if skipped == nil {
		skipped = []models.RowError{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.deck = deck.New(res.Cards)
	s.info = models.CatalogInfo{
		Loaded:   true,
		Source:   s.loader.String(),
		Size:     s.deck.Len(),
		Skipped:  skipped,
		LoadedAt: s.now(),
	}
	s.session.start(s.deck.CardsInBlock(1), s.pick)
	log.Info("catalog ready with %d cards, %d scenes, session on block 1 (%d cards)", s.deck.Len(), len(s.deck.Scenes()), len(s.session.queue))
	return nil
}

func (s *studyService) Loaded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.info.Loaded
}

func (s *studyService) Catalog() models.CatalogInfo {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.info
}

func (s *studyService) BuildSession(ctx context.Context, mode Mode, param string) error {
	log := logger.FromContext(ctx).WithPrefix("study").WithFields(map[string]any{
		"mode":  mode,
		"param": param,
	})

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.info.Loaded {
		return errors.NewCatalogUnavailableError(nil)
	}

	var queue []models.Card
	switch mode {
	case ModeSequential:
		queue = s.deck.Sequential()
	case ModeDue:
		now := s.now()
		queue = s.deck.Select(func(c models.Card) bool {
			return s.reviews.IsDue(c.No, now)
		})
		if len(queue) == 0 {
			log.Info("no cards due, keeping current session")
			return errors.NewNoDueCardsError()
		}
	case ModeScene:
		// An empty scene is the "all scenes" choice.
		if param == "" {
			queue = s.deck.Sequential()
		} else {
			queue = s.deck.CardsInScene(param)
		}
	case ModeBlock:
		b, err := strconv.Atoi(param)
		if err != nil || b < 1 {
			return errors.NewValidationError("param", "block must be a positive integer")
		}
		queue = s.deck.CardsInBlock(b)
	default:
		return errors.NewValidationError("mode", "unknown mode "+strconv.Quote(string(mode)))
	}

	s.session.start(queue, s.pick)
	log.Debug("session rebuilt with %d cards", len(queue))
	return nil
}

func (s *studyService) CurrentCard() (models.Card, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session.current()
}

func (s *studyService) CurrentView() (models.CardView, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session.view()
}

func (s *studyService) Advance(ctx context.Context) (models.CardView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.session.advance(s.pick) {
		return models.CardView{}, errors.NewEmptyQueueError("advance")
	}
	v, _ := s.session.view()
	return v, nil
}

func (s *studyService) Reveal(ctx context.Context) (models.CardView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.session.toggleReveal() {
		return models.CardView{}, errors.NewEmptyQueueError("reveal")
	}
	v, _ := s.session.view()
	return v, nil
}

// Grade schedules the current card, counts a successful review toward the
// daily quota and moves to the next card.
func (s *studyService) Grade(ctx context.Context, grade flashcard.Grade) (models.ReviewState, error) {
	if !grade.IsValid() {
		return models.ReviewState{}, errors.NewValidationError("grade", "must be between 1 and 5")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	card, ok := s.session.current()
	if !ok {
		return models.ReviewState{}, errors.NewEmptyQueueError("grade")
	}

	state := s.reviews.Grade(ctx, card.No, grade)
	s.quota.RecordOutcome(ctx, grade)
	s.session.advance(s.pick)
	return state, nil
}

func (s *studyService) BlockProgressAll() []models.BlockProgress {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.deck.BlockProgressAll(s.reviews.IsLearned)
}

// CurrentBlockProgress reports on the block of the session's first card,
// block 1 when the session is empty.
func (s *studyService) CurrentBlockProgress() models.BlockProgress {
	s.mu.Lock()
	defer s.mu.Unlock()

	b := 1
	if len(s.session.queue) > 0 {
		b = deck.BlockOf(s.session.queue[0].No)
	}
	return s.deck.BlockProgress(b, s.reviews.IsLearned)
}

func (s *studyService) DailyProgress(ctx context.Context) models.DailyProgress {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.quota.Progress(ctx)
}

func (s *studyService) SetDailyGoal(ctx context.Context, goal int) (models.DailyProgress, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.quota.SetGoal(ctx, goal)
}

func (s *studyService) Scenes() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.deck.Scenes()
}
