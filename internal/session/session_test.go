package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/voiceprep/interview-service/internal/models"
)

// MockScorer is a mock implementation of Scorer
type MockScorer struct {
	mock.Mock
}

func (m *MockScorer) Score(ctx context.Context, question, canonicalAnswer, userAnswer string) (models.Evaluation, error) {
	args := m.Called(ctx, question, canonicalAnswer, userAnswer)
	return args.Get(0).(models.Evaluation), args.Error(1)
}

// MockGateway is a mock implementation of Gateway
type MockGateway struct {
	mock.Mock
}

func (m *MockGateway) Exists(ctx context.Context, userID, questionText string) (bool, error) {
	args := m.Called(ctx, userID, questionText)
	return args.Bool(0), args.Error(1)
}

func (m *MockGateway) Save(ctx context.Context, record *models.AnswerRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

// blockingScorer lets a test hold a scoring call in flight.
type blockingScorer struct {
	started chan struct{}
	release chan struct{}
	result  models.Evaluation
}

func (b *blockingScorer) Score(ctx context.Context, question, canonicalAnswer, userAnswer string) (models.Evaluation, error) {
	close(b.started)
	<-b.release
	return b.result, nil
}

var testQuestion = models.QuestionAnswerPair{
	Question: "What is a cache?",
	Answer:   "A fast store that keeps recently used data close to the consumer.",
}

func newTestSession(scorer Scorer, gateway Gateway) *Session {
	return New(Config{
		ID:       "test-session",
		UserID:   "user-1",
		Question: testQuestion,
		Scorer:   scorer,
		Gateway:  gateway,
	})
}

func recordAnswer(t *testing.T, s *Session, parts ...string) {
	t.Helper()
	require.NoError(t, s.StartRecording(context.Background()))
	for _, part := range parts {
		s.PushFragment(models.Fragment{Text: part, IsFinal: true})
	}
}

func TestSession_AnswerTooShortReturnsToIdle(t *testing.T) {
	scorer := new(MockScorer)
	s := newTestSession(scorer, new(MockGateway))

	recordAnswer(t, s, "too short") // 9 runes, below the 15-rune minimum
	require.NoError(t, s.StopRecording(context.Background()))

	assert.Equal(t, StateIdle, s.State())
	notices := s.DrainNotices()
	require.Len(t, notices, 1)
	assert.Equal(t, NoticeAnswerTooShort, notices[0].Code)
	scorer.AssertNotCalled(t, "Score", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestSession_FourteenRuneAnswerIsRejected(t *testing.T) {
	scorer := new(MockScorer)
	s := newTestSession(scorer, new(MockGateway))

	recordAnswer(t, s, "exactly 14 len") // 14 runes
	require.NoError(t, s.StopRecording(context.Background()))

	assert.Equal(t, StateIdle, s.State())
	scorer.AssertNotCalled(t, "Score", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestSession_StopRecordingScoresTranscript(t *testing.T) {
	scorer := new(MockScorer)
	scorer.On("Score", mock.Anything, testQuestion.Question, testQuestion.Answer, "I think it is a cache").
		Return(models.Evaluation{Rating: 7, Feedback: "Good job"}, nil)
	s := newTestSession(scorer, new(MockGateway))

	recordAnswer(t, s, "I think", "it is", "a cache")
	require.NoError(t, s.StopRecording(context.Background()))

	assert.Equal(t, StateEvaluated, s.State())
	eval, ok := s.Evaluation()
	require.True(t, ok)
	assert.Equal(t, models.Evaluation{Rating: 7, Feedback: "Good job"}, eval)
	assert.Empty(t, s.DrainNotices())
	scorer.AssertExpectations(t)
}

func TestSession_ScorerFailureDegradesToSentinel(t *testing.T) {
	scorer := new(MockScorer)
	scorer.On("Score", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(models.Evaluation{}, errors.New("model unavailable"))
	s := newTestSession(scorer, new(MockGateway))

	recordAnswer(t, s, "a sufficiently long spoken answer")
	require.NoError(t, s.StopRecording(context.Background()))

	assert.Equal(t, StateEvaluated, s.State())
	eval, ok := s.Evaluation()
	require.True(t, ok)
	assert.True(t, eval.IsSentinel())

	notices := s.DrainNotices()
	require.Len(t, notices, 1)
	assert.Equal(t, NoticeScoreDegraded, notices[0].Code)
}

func TestSession_SaveWritesOnce(t *testing.T) {
	scorer := new(MockScorer)
	scorer.On("Score", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(models.Evaluation{Rating: 8, Feedback: "Well structured."}, nil)
	gateway := new(MockGateway)
	gateway.On("Exists", mock.Anything, "user-1", testQuestion.Question).Return(false, nil)
	gateway.On("Save", mock.Anything, mock.MatchedBy(func(r *models.AnswerRecord) bool {
		return r.UserID == "user-1" &&
			r.QuestionText == testQuestion.Question &&
			r.UserAnswerText == "I think it is a cache" &&
			r.Rating == 8
	})).Return(nil)
	s := newTestSession(scorer, gateway)

	recordAnswer(t, s, "I think", "it is", "a cache")
	require.NoError(t, s.StopRecording(context.Background()))
	require.NoError(t, s.Save(context.Background()))

	assert.Equal(t, StateSaved, s.State())
	gateway.AssertExpectations(t)
}

func TestSession_ExistingRecordSkipsWrite(t *testing.T) {
	scorer := new(MockScorer)
	scorer.On("Score", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(models.Evaluation{Rating: 5, Feedback: "ok"}, nil)
	gateway := new(MockGateway)
	gateway.On("Exists", mock.Anything, "user-1", testQuestion.Question).Return(true, nil)
	s := newTestSession(scorer, gateway)

	recordAnswer(t, s, "I think", "it is", "a cache")
	require.NoError(t, s.StopRecording(context.Background()))
	require.NoError(t, s.Save(context.Background()))

	assert.Equal(t, StateSaved, s.State())
	notices := s.DrainNotices()
	require.Len(t, notices, 1)
	assert.Equal(t, NoticeAlreadyAnswered, notices[0].Code)
	gateway.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestSession_SaveFailureReturnsToEvaluated(t *testing.T) {
	scorer := new(MockScorer)
	scorer.On("Score", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(models.Evaluation{Rating: 6, Feedback: "fine"}, nil)
	gateway := new(MockGateway)
	gateway.On("Exists", mock.Anything, mock.Anything, mock.Anything).Return(false, nil)
	gateway.On("Save", mock.Anything, mock.Anything).Return(errors.New("write error")).Once()
	gateway.On("Save", mock.Anything, mock.Anything).Return(nil).Once()
	s := newTestSession(scorer, gateway)

	recordAnswer(t, s, "I think", "it is", "a cache")
	require.NoError(t, s.StopRecording(context.Background()))

	require.NoError(t, s.Save(context.Background()))
	assert.Equal(t, StateEvaluated, s.State())
	notices := s.DrainNotices()
	require.Len(t, notices, 1)
	assert.Equal(t, NoticeSaveFailed, notices[0].Code)

	// The session stays recoverable: a retry succeeds.
	require.NoError(t, s.Save(context.Background()))
	assert.Equal(t, StateSaved, s.State())
}

func TestSession_RecordAgainDiscardsEvaluation(t *testing.T) {
	scorer := new(MockScorer)
	scorer.On("Score", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(models.Evaluation{Rating: 4, Feedback: "meh"}, nil)
	s := newTestSession(scorer, new(MockGateway))

	recordAnswer(t, s, "I think", "it is", "a cache")
	require.NoError(t, s.StopRecording(context.Background()))
	gen := s.Generation()

	require.NoError(t, s.RecordAgain(context.Background()))

	assert.Equal(t, StateRecording, s.State())
	assert.Greater(t, s.Generation(), gen)
	_, ok := s.Evaluation()
	assert.False(t, ok)
	assert.Equal(t, "", s.Answer())
}

func TestSession_StaleEvaluationDiscardedAfterRecordAgain(t *testing.T) {
	scorer := &blockingScorer{
		started: make(chan struct{}),
		release: make(chan struct{}),
		result:  models.Evaluation{Rating: 9, Feedback: "stale result"},
	}
	s := newTestSession(scorer, new(MockGateway))

	recordAnswer(t, s, "first try at a long answer")

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_ = s.StopRecording(context.Background())
	}()

	<-scorer.started
	assert.Equal(t, StateEvaluating, s.State())

	// Record again while scoring is still in flight.
	require.NoError(t, s.RecordAgain(context.Background()))
	close(scorer.release)
	wg.Wait()

	// The stale result must never be applied to the new recording.
	assert.Equal(t, StateRecording, s.State())
	_, ok := s.Evaluation()
	assert.False(t, ok)
}

func TestSession_ChangeQuestionResetsEverything(t *testing.T) {
	scorer := new(MockScorer)
	s := newTestSession(scorer, new(MockGateway))

	recordAnswer(t, s, "some in-progress answer")
	next := models.QuestionAnswerPair{Question: "What is a queue?", Answer: "FIFO."}
	s.ChangeQuestion(context.Background(), next)

	assert.Equal(t, StateIdle, s.State())
	assert.Equal(t, next, s.Question())
	assert.Equal(t, "", s.Answer())
	_, ok := s.Evaluation()
	assert.False(t, ok)
}

func TestSession_InvalidTriggersRejected(t *testing.T) {
	s := newTestSession(new(MockScorer), new(MockGateway))

	assert.ErrorIs(t, s.StopRecording(context.Background()), ErrInvalidState)
	assert.ErrorIs(t, s.RecordAgain(context.Background()), ErrInvalidState)
	assert.ErrorIs(t, s.Save(context.Background()), ErrInvalidState)

	require.NoError(t, s.StartRecording(context.Background()))
	assert.ErrorIs(t, s.StartRecording(context.Background()), ErrInvalidState)
}

func TestSession_FragmentsIgnoredWhenNotRecording(t *testing.T) {
	s := newTestSession(new(MockScorer), new(MockGateway))

	s.PushFragment(models.Fragment{Text: "dropped", IsFinal: true})

	assert.Equal(t, "", s.Answer())
}

func TestSession_ScoreTimeoutDefaultApplied(t *testing.T) {
	s := New(Config{ID: "s", UserID: "u", Question: testQuestion})

	assert.Equal(t, 30*time.Second, s.scoreTimeout)
}

func TestManager_PutGetRemove(t *testing.T) {
	m := NewManager()
	s := newTestSession(new(MockScorer), new(MockGateway))
	m.Put(s)

	got, err := m.Get("test-session")
	require.NoError(t, err)
	assert.Same(t, s, got)

	m.Remove("test-session")
	_, err = m.Get("test-session")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}
