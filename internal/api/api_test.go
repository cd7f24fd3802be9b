package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/vytor/phrasecards/internal/catalog"
	"github.com/vytor/phrasecards/internal/logger"
	"github.com/vytor/phrasecards/internal/models"
	"github.com/vytor/phrasecards/internal/repository/sqlite"
	"github.com/vytor/phrasecards/internal/services"
	"github.com/vytor/phrasecards/internal/testutil"
	"github.com/vytor/phrasecards/internal/testutil/mocks"
	"github.com/vytor/phrasecards/internal/worker"
)

var apiCatalog = testutil.CatalogCSV(
	`1,私は{x}です,I am {x},学生=a student,,1,be動詞,intro`,
	`2,こんにちは,Hello,,,1,,greeting`,
	`3,ありがとう,Thank you,,,1,,greeting`,
)

type APITestSuite struct {
	suite.Suite
	ctx     context.Context
	study   services.StudyService
	jobs    *mocks.MockJobQueue
	handler http.Handler
}

func (s *APITestSuite) SetupTest() {
	s.ctx = context.Background()
	database := testutil.NewTestDB(s.T())
	repo := sqlite.NewStateRepository(database)

	now := time.Date(2026, 10, 15, 9, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }
	reviews := services.NewReviewService(repo, clock)
	s.Require().NoError(reviews.Load(s.ctx))
	quota := services.NewQuotaService(repo, clock, time.UTC, 2)
	s.Require().NoError(quota.Load(s.ctx))

	loader := catalog.NewLoader(catalog.StaticSource(apiCatalog))
	s.study = services.NewStudyService(loader, reviews, quota,
		services.WithClock(clock),
		services.WithRandom(func(int) int { return 0 }),
	)
	s.jobs = new(mocks.MockJobQueue)

	srv := &Server{Study: s.study, Jobs: s.jobs, DB: database}
	s.handler = srv.Routes()
}

func (s *APITestSuite) do(method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func (s *APITestSuite) decode(rec *httptest.ResponseRecorder, dst any) {
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), dst), rec.Body.String())
}

func (s *APITestSuite) errorCode(rec *httptest.ResponseRecorder) string {
	var body errorBody
	s.decode(rec, &body)
	return body.Error.Code
}

func (s *APITestSuite) load() {
	s.Require().NoError(s.study.LoadCatalog(s.ctx))
}

func (s *APITestSuite) TestHealth() {
	rec := s.do(http.MethodGet, "/health", "")
	s.Equal(http.StatusOK, rec.Code)
	s.NotEmpty(rec.Header().Get("X-Request-ID"))
}

func (s *APITestSuite) TestReady() {
	s.Equal(http.StatusServiceUnavailable, s.do(http.MethodGet, "/ready", "").Code)
	s.load()
	s.Equal(http.StatusOK, s.do(http.MethodGet, "/ready", "").Code)
}

func (s *APITestSuite) TestCurrentBeforeLoad() {
	rec := s.do(http.MethodGet, "/session/current", "")
	s.Equal(http.StatusServiceUnavailable, rec.Code)
	s.Equal("CATALOG_UNAVAILABLE", s.errorCode(rec))
}

func (s *APITestSuite) TestStudyFlow() {
	s.load()

	rec := s.do(http.MethodGet, "/session/current", "")
	s.Require().Equal(http.StatusOK, rec.Code)
	var v models.CardView
	s.decode(rec, &v)
	s.Equal(1, v.No)
	s.Equal("私は学生です", v.Prompt)
	s.Equal("I am ___", v.Answer)

	rec = s.do(http.MethodPost, "/session/reveal", "")
	s.Require().Equal(http.StatusOK, rec.Code)
	s.decode(rec, &v)
	s.True(v.Revealed)
	s.Equal("I am a student", v.Answer)
	s.Equal("💡 be動詞", v.Note)

	rec = s.do(http.MethodPost, "/session/grade", `{"grade":4}`)
	s.Require().Equal(http.StatusOK, rec.Code)
	var graded struct {
		Review  models.ReviewState   `json:"review"`
		Daily   models.DailyProgress `json:"daily"`
		Current models.CardView      `json:"current"`
	}
	s.decode(rec, &graded)
	s.Equal((72 * time.Hour).Milliseconds(), graded.Review.IntervalMs)
	s.Equal(models.DailyProgress{Done: 1, Goal: 2, Percent: 50}, graded.Daily)
	s.Equal(2, graded.Current.No)
	s.False(graded.Current.Revealed)

	rec = s.do(http.MethodGet, "/progress/current-block", "")
	var bp models.BlockProgress
	s.decode(rec, &bp)
	s.Equal(models.BlockProgress{Block: 1, Label: "1-30", Learned: 1, Total: 3, Percent: 33}, bp)
}

func (s *APITestSuite) TestBuildSession() {
	s.load()

	rec := s.do(http.MethodPost, "/session", `{"mode":"scene","param":"greeting"}`)
	s.Require().Equal(http.StatusOK, rec.Code)
	var built struct {
		QueueLength int             `json:"queue_length"`
		Empty       bool            `json:"empty"`
		Current     models.CardView `json:"current"`
	}
	s.decode(rec, &built)
	s.Equal(2, built.QueueLength)
	s.Equal(2, built.Current.No)

	rec = s.do(http.MethodPost, "/session", `{"mode":"due"}`)
	s.Equal(http.StatusConflict, rec.Code)
	s.Equal("NO_DUE_CARDS", s.errorCode(rec))

	rec = s.do(http.MethodPost, "/session", `{"mode":"block","param":"abc"}`)
	s.Equal(http.StatusBadRequest, rec.Code)
	s.Equal("VALIDATION_ERROR", s.errorCode(rec))

	rec = s.do(http.MethodPost, "/session", `{"mode":"shuffle"}`)
	s.Equal(http.StatusBadRequest, rec.Code)

	rec = s.do(http.MethodPost, "/session", `{"mode":`)
	s.Equal(http.StatusBadRequest, rec.Code)
	s.Equal("BAD_REQUEST", s.errorCode(rec))
}

func (s *APITestSuite) TestEmptySession() {
	s.load()

	var out bytes.Buffer
	prev := logger.Default()
	logger.SetDefault(logger.New(logger.WithOutput(&out), logger.WithColors(false)))
	defer logger.SetDefault(prev)

	rec := s.do(http.MethodPost, "/session", `{"mode":"scene","param":"nowhere"}`)
	s.Require().Equal(http.StatusOK, rec.Code)
	s.Contains(rec.Body.String(), `"current":null`)
	s.Contains(out.String(), "session built with an empty queue")
	s.Contains(out.String(), "nowhere")

	rec = s.do(http.MethodPost, "/session/advance", "")
	s.Equal(http.StatusConflict, rec.Code)
	s.Equal("EMPTY_QUEUE", s.errorCode(rec))

	rec = s.do(http.MethodGet, "/session/current", "")
	s.Equal(http.StatusConflict, rec.Code)
}

func (s *APITestSuite) TestGradeValidation() {
	s.load()
	rec := s.do(http.MethodPost, "/session/grade", `{"grade":9}`)
	s.Equal(http.StatusBadRequest, rec.Code)
	s.Equal("VALIDATION_ERROR", s.errorCode(rec))

	rec = s.do(http.MethodPost, "/session/grade", "")
	s.Equal(http.StatusBadRequest, rec.Code)
}

func (s *APITestSuite) TestDailyGoal() {
	s.load()
	rec := s.do(http.MethodPut, "/progress/daily/goal", `{"goal":5}`)
	s.Require().Equal(http.StatusOK, rec.Code)
	var p models.DailyProgress
	s.decode(rec, &p)
	s.Equal(5, p.Goal)

	rec = s.do(http.MethodPut, "/progress/daily/goal", `{"goal":0}`)
	s.Equal(http.StatusBadRequest, rec.Code)

	rec = s.do(http.MethodGet, "/progress/daily", "")
	s.decode(rec, &p)
	s.Equal(5, p.Goal)
}

func (s *APITestSuite) TestScenesAndBlocks() {
	s.load()

	var scenes struct {
		Scenes []string `json:"scenes"`
	}
	s.decode(s.do(http.MethodGet, "/scenes", ""), &scenes)
	s.Equal([]string{"intro", "greeting"}, scenes.Scenes)

	var blocks struct {
		Blocks []models.BlockProgress `json:"blocks"`
	}
	s.decode(s.do(http.MethodGet, "/progress/blocks", ""), &blocks)
	s.Require().Len(blocks.Blocks, 1)
	s.Equal(3, blocks.Blocks[0].Total)

	var info models.CatalogInfo
	s.decode(s.do(http.MethodGet, "/catalog", ""), &info)
	s.True(info.Loaded)
	s.Equal(3, info.Size)
	s.Equal("static", info.Source)
}

func (s *APITestSuite) TestReloadCatalog() {
	s.jobs.On("EnqueueCatalogLoad").Return(nil).Once()
	rec := s.do(http.MethodPost, "/catalog/reload", "")
	s.Equal(http.StatusAccepted, rec.Code)

	s.jobs.On("EnqueueCatalogLoad").Return(worker.ErrQueueFull).Once()
	rec = s.do(http.MethodPost, "/catalog/reload", "")
	s.Equal(http.StatusServiceUnavailable, rec.Code)
	s.Equal("UNAVAILABLE", s.errorCode(rec))
	s.jobs.AssertExpectations(s.T())
}

func (s *APITestSuite) TestUnknownRoute() {
	rec := s.do(http.MethodGet, "/nope", "")
	s.Equal(http.StatusNotFound, rec.Code)
	s.Equal("NOT_FOUND", s.errorCode(rec))
}

func TestAPITestSuite(t *testing.T) {
	suite.Run(t, new(APITestSuite))
}

func TestRateLimiter(t *testing.T) {
	limiter := NewRateLimiter(1, 1)
	h := limiter.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodPost, "/session/advance", nil)
	req.RemoteAddr = "10.0.0.1:5000"

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Contains(t, rec.Body.String(), "RATE_LIMITED")

	other := httptest.NewRequest(http.MethodPost, "/session/advance", nil)
	other.RemoteAddr = "10.0.0.2:5000"
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, other)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestRecoveryMiddleware(t *testing.T) {
	h := recoveryMiddleware(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "INTERNAL_ERROR")
}
