package services

import (
	"context"
	"time"

	"github.com/vytor/phrasecards/internal/deck"
	"github.com/vytor/phrasecards/internal/errors"
	"github.com/vytor/phrasecards/internal/flashcard"
	"github.com/vytor/phrasecards/internal/logger"
	"github.com/vytor/phrasecards/internal/models"
	"github.com/vytor/phrasecards/internal/repository"
)

// DefaultDailyGoal applies when neither the stored record nor the
// configuration provide a goal.
const DefaultDailyGoal = 10

// dayLayout matches JavaScript's Date.toDateString, e.g. "Thu Oct 15 2026".
const dayLayout = "Mon Jan 02 2006"

// DayKey identifies the calendar day of t in loc.
func DayKey(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(dayLayout)
}

// QuotaService tracks successful reviews for the current local day. Every
// method rolls the record over first when the stored day is stale.
type QuotaService interface {
	Load(ctx context.Context) error
	EnsureFreshDay(ctx context.Context) models.DailyQuota
	RecordOutcome(ctx context.Context, grade flashcard.Grade) models.DailyQuota
	Progress(ctx context.Context) models.DailyProgress
	SetGoal(ctx context.Context, goal int) (models.DailyProgress, error)
}

type quotaService struct {
	repo        repository.StateRepository
	now         func() time.Time
	loc         *time.Location
	defaultGoal int
	quota       models.DailyQuota
}

func NewQuotaService(repo repository.StateRepository, now func() time.Time, loc *time.Location, defaultGoal int) QuotaService {
	if now == nil {
		now = time.Now
	}
	if loc == nil {
		loc = time.Local
	}
	if defaultGoal < 1 {
		defaultGoal = DefaultDailyGoal
	}
	return &quotaService{
		repo:        repo,
		now:         now,
		loc:         loc,
		defaultGoal: defaultGoal,
		quota:       models.DailyQuota{Day: DayKey(now(), loc), Goal: defaultGoal},
	}
}

func (s *quotaService) Load(ctx context.Context) error {
	log := logger.FromContext(ctx).WithPrefix("quota")

	q, err := s.repo.LoadDailyQuota(ctx)
	if err != nil {
		return err
	}
	if q == nil {
		log.Debug("no daily quota saved yet, starting fresh")
		s.quota = models.DailyQuota{Day: s.today(), Goal: s.defaultGoal}
		return nil
	}
	s.quota = *q
	log.Info("loaded daily quota: day=%s, good=%d, goal=%d", q.Day, q.GoodCount, q.Goal)
	return nil
}

func (s *quotaService) today() string {
	return DayKey(s.now(), s.loc)
}

func (s *quotaService) goal() int {
	if s.quota.Goal > 0 {
		return s.quota.Goal
	}
	return s.defaultGoal
}

func (s *quotaService) save(ctx context.Context) {
	if err := s.repo.SaveDailyQuota(ctx, s.quota); err != nil {
		logger.FromContext(ctx).WithPrefix("quota").Error("failed to persist daily quota, keeping it in memory: %v", err)
	}
}

func (s *quotaService) EnsureFreshDay(ctx context.Context) models.DailyQuota {
	today := s.today()
	if s.quota.Day != today {
		logger.FromContext(ctx).WithPrefix("quota").Info("new day %s (was %q), resetting count %d", today, s.quota.Day, s.quota.GoodCount)
		s.quota = models.DailyQuota{Day: today, GoodCount: 0, Goal: s.goal()}
		s.save(ctx)
	}
	return s.quota
}

func (s *quotaService) RecordOutcome(ctx context.Context, grade flashcard.Grade) models.DailyQuota {
	s.EnsureFreshDay(ctx)
	if grade.Successful() {
		s.quota.GoodCount++
		s.save(ctx)
	}
	return s.quota
}

// Progress clamps done to the goal for display; the stored count is not clamped.
func (s *quotaService) Progress(ctx context.Context) models.DailyProgress {
	q := s.EnsureFreshDay(ctx)
	goal := s.goal()
	done := min(q.GoodCount, goal)
	return models.DailyProgress{
		Done:    done,
		Goal:    goal,
		Percent: min(100, deck.Percent(q.GoodCount, goal)),
	}
}

func (s *quotaService) SetGoal(ctx context.Context, goal int) (models.DailyProgress, error) {
	if goal < 1 {
		return models.DailyProgress{}, errors.NewValidationError("goal", "must be at least 1")
	}
	s.EnsureFreshDay(ctx)
	s.quota.Goal = goal
	s.save(ctx)
	return s.Progress(ctx), nil
}
