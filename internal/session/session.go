// Package session owns the lifecycle of one in-progress question/answer
// interaction: capture start/stop, transcript accumulation, AI scoring and
// idempotent persistence.
package session

import (
	"context"
	"errors"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/voiceprep/interview-service/internal/models"
	"github.com/voiceprep/interview-service/internal/transcript"
)

// State enumerates the answer session lifecycle. There is no error state:
// every transition that can fail degrades to a prior state with a
// user-visible notice.
type State string

const (
	StateIdle       State = "idle"
	StateRecording  State = "recording"
	StateEvaluating State = "evaluating"
	StateEvaluated  State = "evaluated"
	StateSaving     State = "saving"
	StateSaved      State = "saved"
)

// MinAnswerLength is the minimum accumulated answer length (in runes)
// accepted for scoring. Shorter answers are discarded with a notice.
const MinAnswerLength = 15

// ErrInvalidState is returned when a trigger is not valid for the current
// state. Callers are expected to disable triggers while Evaluating/Saving;
// this error covers the gap when they do not.
var ErrInvalidState = errors.New("operation not valid in current session state")

// CaptureSource controls the external speech-capture stream. Fragment
// delivery itself is push-driven through Session.PushFragment.
type CaptureSource interface {
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
}

// Scorer grades a transcript against the canonical answer. Implementations
// are expected to be total: model or transport failures map to the sentinel
// evaluation rather than an error, though a returned error is still handled
// here as a second line of defense.
type Scorer interface {
	Score(ctx context.Context, question, canonicalAnswer, userAnswer string) (models.Evaluation, error)
}

// Gateway is the idempotency-checked write path for graded answers. Exists
// and Save are not atomic; two near-simultaneous sessions for the same
// (user, question) can both pass the check and both write. That narrow race
// is an accepted limitation of the check-then-act design.
type Gateway interface {
	Exists(ctx context.Context, userID, questionText string) (bool, error)
	Save(ctx context.Context, record *models.AnswerRecord) error
}

// Session is the state machine for one question. All methods are safe for
// concurrent use; only one logical operation is expected at a time.
type Session struct {
	mu sync.Mutex

	id       string
	userID   string
	question models.QuestionAnswerPair

	state      State
	generation uint64
	acc        *transcript.Accumulator
	evaluation *models.Evaluation
	notices    []Notice

	capture      CaptureSource
	scorer       Scorer
	gateway      Gateway
	scoreTimeout time.Duration
}

type Config struct {
	ID           string
	UserID       string
	Question     models.QuestionAnswerPair
	Capture      CaptureSource
	Scorer       Scorer
	Gateway      Gateway
	ScoreTimeout time.Duration
}

func New(cfg Config) *Session {
	if cfg.ScoreTimeout <= 0 {
		cfg.ScoreTimeout = 30 * time.Second
	}
	if cfg.Capture == nil {
		cfg.Capture = NopCapture{}
	}
	return &Session{
		id:           cfg.ID,
		userID:       cfg.UserID,
		question:     cfg.Question,
		state:        StateIdle,
		acc:          transcript.NewAccumulator(),
		capture:      cfg.Capture,
		scorer:       cfg.Scorer,
		gateway:      cfg.Gateway,
		scoreTimeout: cfg.ScoreTimeout,
	}
}

// NopCapture is the capture source for clients that run speech recognition
// themselves and only push fragments; start/stop are boundary markers.
type NopCapture struct{}

func (NopCapture) Start(context.Context) error { return nil }
func (NopCapture) Stop(context.Context) error  { return nil }

// StartRecording resets the transcript and begins accumulating fragments.
func (s *Session) StartRecording(ctx context.Context) error {
	s.mu.Lock()
	if s.state != StateIdle {
		s.mu.Unlock()
		return ErrInvalidState
	}
	s.resetLocked()
	s.state = StateRecording
	s.mu.Unlock()

	if err := s.capture.Start(ctx); err != nil {
		s.mu.Lock()
		s.state = StateIdle
		s.mu.Unlock()
		return err
	}
	return nil
}

// PushFragment delivers one speech-recognition result. Fragments are only
// applied while recording; anything arriving after the stop boundary is
// dropped, which keeps the accumulated answer deterministic.
func (s *Session) PushFragment(f models.Fragment) {
	s.mu.Lock()
	acc := s.acc
	recording := s.state == StateRecording
	s.mu.Unlock()

	if recording {
		acc.Push(f)
	}
}

// StopRecording ends capture and, when the accumulated answer is long
// enough, scores it. Answers shorter than MinAnswerLength are discarded and
// the session returns to Idle with a notice.
//
// Scoring runs outside the session lock. If the session is reset while the
// call is in flight (record again, question change), the stale result is
// detected by a generation mismatch and discarded rather than applied.
func (s *Session) StopRecording(ctx context.Context) error {
	s.mu.Lock()
	if s.state != StateRecording {
		s.mu.Unlock()
		return ErrInvalidState
	}
	s.acc.Stop()
	answer := s.acc.Answer()

	if utf8.RuneCountInString(answer) < MinAnswerLength {
		s.pushNoticeLocked(NoticeAnswerTooShort, "Your answer was too short to score. Please record again.")
		s.resetLocked()
		s.state = StateIdle
		s.mu.Unlock()
		return s.capture.Stop(ctx)
	}

	s.state = StateEvaluating
	gen := s.generation
	question := s.question
	s.mu.Unlock()

	// Capture teardown failure does not block scoring; the transcript is
	// already sealed at the stop boundary.
	_ = s.capture.Stop(ctx)

	scoreCtx, cancel := context.WithTimeout(ctx, s.scoreTimeout)
	defer cancel()

	eval, err := s.scorer.Score(scoreCtx, question.Question, question.Answer, answer)
	if err != nil {
		eval = models.SentinelEvaluation()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.generation != gen || s.state != StateEvaluating {
		// The session was reset while scoring was in flight; the result
		// belongs to a discarded recording.
		return nil
	}

	s.evaluation = &eval
	s.state = StateEvaluated
	if eval.IsSentinel() {
		s.pushNoticeLocked(NoticeScoreDegraded, "Automated scoring was unavailable for this answer.")
	}
	return nil
}

// RecordAgain discards the transcript and evaluation and immediately
// restarts capture. It is also valid mid-evaluation: the in-flight scoring
// result is discarded on arrival via the generation counter.
func (s *Session) RecordAgain(ctx context.Context) error {
	s.mu.Lock()
	if s.state != StateEvaluated && s.state != StateEvaluating {
		s.mu.Unlock()
		return ErrInvalidState
	}
	s.resetLocked()
	s.state = StateRecording
	s.mu.Unlock()

	if err := s.capture.Start(ctx); err != nil {
		s.mu.Lock()
		s.state = StateIdle
		s.mu.Unlock()
		return err
	}
	return nil
}

// Save persists the graded answer exactly once per (user, question). When a
// record already exists the write is skipped and the session still reaches
// Saved; gateway failures return the session to Evaluated so the user can
// retry.
func (s *Session) Save(ctx context.Context) error {
	s.mu.Lock()
	if s.state != StateEvaluated || s.evaluation == nil {
		s.mu.Unlock()
		return ErrInvalidState
	}
	s.state = StateSaving
	record := &models.AnswerRecord{
		UserID:            s.userID,
		QuestionText:      s.question.Question,
		CorrectAnswerText: s.question.Answer,
		UserAnswerText:    s.acc.Answer(),
		Feedback:          s.evaluation.Feedback,
		Rating:            s.evaluation.Rating,
	}
	s.mu.Unlock()

	exists, err := s.gateway.Exists(ctx, record.UserID, record.QuestionText)
	if err != nil {
		s.mu.Lock()
		s.pushNoticeLocked(NoticeSaveFailed, "Could not save your answer. Please try again.")
		s.state = StateEvaluated
		s.mu.Unlock()
		return nil
	}

	if exists {
		s.mu.Lock()
		s.pushNoticeLocked(NoticeAlreadyAnswered, "You already answered this question.")
		s.finishSaveLocked()
		s.mu.Unlock()
		return nil
	}

	if err := s.gateway.Save(ctx, record); err != nil {
		s.mu.Lock()
		s.pushNoticeLocked(NoticeSaveFailed, "Could not save your answer. Please try again.")
		s.state = StateEvaluated
		s.mu.Unlock()
		return nil
	}

	s.mu.Lock()
	s.finishSaveLocked()
	s.mu.Unlock()
	return nil
}

// ChangeQuestion discards all in-progress state and rebinds the session to a
// new question, returning it to Idle.
func (s *Session) ChangeQuestion(ctx context.Context, q models.QuestionAnswerPair) {
	s.mu.Lock()
	wasRecording := s.state == StateRecording
	s.question = q
	s.resetLocked()
	s.state = StateIdle
	s.mu.Unlock()

	if wasRecording {
		_ = s.capture.Stop(ctx)
	}
}

// ===== ACCESSORS =====

func (s *Session) ID() string     { return s.id }
func (s *Session) UserID() string { return s.userID }

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Session) Question() models.QuestionAnswerPair {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.question
}

// Evaluation returns a copy of the last evaluation, or false when none is
// held.
func (s *Session) Evaluation() (models.Evaluation, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.evaluation == nil {
		return models.Evaluation{}, false
	}
	return *s.evaluation, true
}

// Answer returns the accumulated answer text (final fragments only).
func (s *Session) Answer() string {
	s.mu.Lock()
	acc := s.acc
	s.mu.Unlock()
	return acc.Answer()
}

// Display returns the live transcript text including the trailing interim
// fragment, for continuous display while recording.
func (s *Session) Display() string {
	s.mu.Lock()
	acc := s.acc
	s.mu.Unlock()
	return acc.Display()
}

// Generation returns the current reset counter.
func (s *Session) Generation() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generation
}

// ===== INTERNAL =====

// resetLocked discards the transcript and evaluation and bumps the
// generation counter so in-flight async results become stale.
func (s *Session) resetLocked() {
	s.generation++
	s.acc = transcript.NewAccumulator()
	s.evaluation = nil
}

func (s *Session) finishSaveLocked() {
	s.state = StateSaved
	s.generation++
	s.acc = transcript.NewAccumulator()
}
