package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/voiceprep/interview-service/internal/models"
	"github.com/voiceprep/interview-service/internal/services"
	"github.com/voiceprep/interview-service/internal/session"
	"github.com/voiceprep/interview-service/internal/utils"
)

// SessionHandler exposes the answer session state machine over HTTP. Clients
// run speech recognition locally and push transcript fragments; the handler
// maps triggers onto session methods and returns a state snapshot after
// each one.
type SessionHandler struct {
	BaseHandler
	sessions         *session.Manager
	interviewService services.InterviewService
	scorer           services.ScoringService
	gateway          services.AnswerService
	scoreTimeout     time.Duration
}

type CreateSessionRequest struct {
	InterviewID   uint `json:"interview_id" binding:"required"`
	QuestionIndex int  `json:"question_index"`
}

type PushFragmentsRequest struct {
	Fragments []FragmentPayload `json:"fragments" binding:"required"`
}

type FragmentPayload struct {
	Text    string `json:"text"`
	IsFinal bool   `json:"is_final"`
}

type ChangeQuestionRequest struct {
	InterviewID   uint `json:"interview_id" binding:"required"`
	QuestionIndex int  `json:"question_index"`
}

// SessionSnapshot is the state view returned after every trigger.
type SessionSnapshot struct {
	SessionID  string             `json:"session_id"`
	State      session.State      `json:"state"`
	Question   string             `json:"question"`
	Transcript string             `json:"transcript"`
	Evaluation *models.Evaluation `json:"evaluation,omitempty"`
	Notices    []session.Notice   `json:"notices,omitempty"`
}

func NewSessionHandler(
	sessions *session.Manager,
	interviewService services.InterviewService,
	scorer services.ScoringService,
	gateway services.AnswerService,
	scoreTimeout time.Duration,
	logger utils.Logger,
) *SessionHandler {
	return &SessionHandler{
		BaseHandler:      NewBaseHandler(logger),
		sessions:         sessions,
		interviewService: interviewService,
		scorer:           scorer,
		gateway:          gateway,
		scoreTimeout:     scoreTimeout,
	}
}

// CreateSession binds a new answer session to one interview question
// @Summary Create answer session
// @Tags sessions
// @Accept json
// @Produce json
// @Param session body CreateSessionRequest true "Interview question binding"
// @Success 201 {object} SessionSnapshot
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /sessions [post]
func (h *SessionHandler) CreateSession(c *gin.Context) {
	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	var req CreateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	pair, ok := h.resolveQuestion(c, userID, req.InterviewID, req.QuestionIndex)
	if !ok {
		return
	}

	sess := session.New(session.Config{
		ID:           uuid.NewString(),
		UserID:       userID,
		Question:     pair,
		Scorer:       h.scorer,
		Gateway:      h.gateway,
		ScoreTimeout: h.scoreTimeout,
	})
	h.sessions.Put(sess)

	h.LogRequest(c, "Answer session created",
		"session_id", sess.ID(),
		"interview_id", req.InterviewID,
		"question_index", req.QuestionIndex)

	c.JSON(http.StatusCreated, h.snapshot(sess))
}

// GetSession returns the current session state
// @Summary Get session state
// @Tags sessions
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} SessionSnapshot
// @Failure 404 {object} ErrorResponse
// @Router /sessions/{id} [get]
func (h *SessionHandler) GetSession(c *gin.Context) {
	sess, ok := h.lookupSession(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, h.snapshot(sess))
}

// StartRecording begins transcript accumulation
// @Summary Start recording
// @Tags sessions
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} SessionSnapshot
// @Failure 409 {object} ErrorResponse
// @Router /sessions/{id}/start [post]
func (h *SessionHandler) StartRecording(c *gin.Context) {
	sess, ok := h.lookupSession(c)
	if !ok {
		return
	}
	if err := sess.StartRecording(c.Request.Context()); err != nil {
		h.handleSessionError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.snapshot(sess))
}

// PushFragments delivers speech-recognition results to the session
// @Summary Push transcript fragments
// @Tags sessions
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param fragments body PushFragmentsRequest true "Recognition results"
// @Success 200 {object} SessionSnapshot
// @Failure 400 {object} ErrorResponse
// @Router /sessions/{id}/fragments [post]
func (h *SessionHandler) PushFragments(c *gin.Context) {
	sess, ok := h.lookupSession(c)
	if !ok {
		return
	}

	var req PushFragmentsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	for _, f := range req.Fragments {
		sess.PushFragment(models.Fragment{Text: f.Text, IsFinal: f.IsFinal})
	}
	c.JSON(http.StatusOK, h.snapshot(sess))
}

// StopRecording seals the transcript and scores the answer
// @Summary Stop recording and score
// @Tags sessions
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} SessionSnapshot
// @Failure 409 {object} ErrorResponse
// @Router /sessions/{id}/stop [post]
func (h *SessionHandler) StopRecording(c *gin.Context) {
	sess, ok := h.lookupSession(c)
	if !ok {
		return
	}
	if err := sess.StopRecording(c.Request.Context()); err != nil {
		h.handleSessionError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.snapshot(sess))
}

// RecordAgain discards the current answer and restarts recording
// @Summary Record again
// @Tags sessions
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} SessionSnapshot
// @Failure 409 {object} ErrorResponse
// @Router /sessions/{id}/record-again [post]
func (h *SessionHandler) RecordAgain(c *gin.Context) {
	sess, ok := h.lookupSession(c)
	if !ok {
		return
	}
	if err := sess.RecordAgain(c.Request.Context()); err != nil {
		h.handleSessionError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.snapshot(sess))
}

// SaveAnswer persists the graded answer
// @Summary Save graded answer
// @Tags sessions
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} SessionSnapshot
// @Failure 409 {object} ErrorResponse
// @Router /sessions/{id}/save [post]
func (h *SessionHandler) SaveAnswer(c *gin.Context) {
	sess, ok := h.lookupSession(c)
	if !ok {
		return
	}
	if err := sess.Save(c.Request.Context()); err != nil {
		h.handleSessionError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.snapshot(sess))
}

// ChangeQuestion rebinds the session to another interview question
// @Summary Change question
// @Tags sessions
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param question body ChangeQuestionRequest true "New question binding"
// @Success 200 {object} SessionSnapshot
// @Failure 400 {object} ErrorResponse
// @Router /sessions/{id}/question [put]
func (h *SessionHandler) ChangeQuestion(c *gin.Context) {
	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}
	sess, ok := h.lookupSession(c)
	if !ok {
		return
	}

	var req ChangeQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	pair, ok := h.resolveQuestion(c, userID, req.InterviewID, req.QuestionIndex)
	if !ok {
		return
	}

	sess.ChangeQuestion(c.Request.Context(), pair)
	c.JSON(http.StatusOK, h.snapshot(sess))
}

// DeleteSession removes the session from the registry
// @Summary Delete session
// @Tags sessions
// @Param id path string true "Session ID"
// @Success 204
// @Failure 404 {object} ErrorResponse
// @Router /sessions/{id} [delete]
func (h *SessionHandler) DeleteSession(c *gin.Context) {
	sess, ok := h.lookupSession(c)
	if !ok {
		return
	}
	h.sessions.Remove(sess.ID())
	c.Status(http.StatusNoContent)
}

// ===== INTERNAL =====

func (h *SessionHandler) resolveQuestion(c *gin.Context, userID string, interviewID uint, index int) (models.QuestionAnswerPair, bool) {
	interview, err := h.interviewService.GetByID(c.Request.Context(), interviewID, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return models.QuestionAnswerPair{}, false
	}
	pair, err := h.interviewService.QuestionAt(interview, index)
	if err != nil {
		h.handleServiceError(c, err)
		return models.QuestionAnswerPair{}, false
	}
	return pair, true
}

// lookupSession resolves the path ID and enforces session ownership.
func (h *SessionHandler) lookupSession(c *gin.Context) (*session.Session, bool) {
	userID, ok := h.requireUserID(c)
	if !ok {
		return nil, false
	}
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return nil, false
	}

	sess, err := h.sessions.Get(id)
	if err != nil {
		c.JSON(http.StatusNotFound, ErrorResponse{
			Message: "Session not found",
		})
		return nil, false
	}
	if sess.UserID() != userID {
		c.JSON(http.StatusForbidden, ErrorResponse{
			Message: "Access denied",
		})
		return nil, false
	}
	return sess, true
}

func (h *SessionHandler) snapshot(sess *session.Session) SessionSnapshot {
	snap := SessionSnapshot{
		SessionID:  sess.ID(),
		State:      sess.State(),
		Question:   sess.Question().Question,
		Transcript: sess.Display(),
		Notices:    sess.DrainNotices(),
	}
	if eval, ok := sess.Evaluation(); ok {
		snap.Evaluation = &eval
	}
	return snap
}

func (h *SessionHandler) handleSessionError(c *gin.Context, err error) {
	if errors.Is(err, session.ErrInvalidState) {
		c.JSON(http.StatusConflict, ErrorResponse{
			Message: "Operation not valid in current session state",
		})
		return
	}
	h.LogError(c, err, "Session operation failed")
	c.JSON(http.StatusInternalServerError, ErrorResponse{
		Message: "Internal server error",
	})
}
