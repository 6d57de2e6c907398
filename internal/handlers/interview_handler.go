package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/voiceprep/interview-service/internal/models"
	"github.com/voiceprep/interview-service/internal/services"
	"github.com/voiceprep/interview-service/internal/utils"
)

type InterviewHandler struct {
	BaseHandler
	interviewService services.InterviewService
}

type GenerateInterviewRequest struct {
	Role            string `json:"role" validate:"required,min=2,max=100"`
	TechStack       string `json:"tech_stack" validate:"required,min=2,max=200"`
	ExperienceYears int    `json:"experience_years" validate:"min=0,max=50"`
}

func NewInterviewHandler(interviewService services.InterviewService, logger utils.Logger) *InterviewHandler {
	return &InterviewHandler{
		BaseHandler:      NewBaseHandler(logger),
		interviewService: interviewService,
	}
}

// GenerateInterview creates a new interview with a generated question batch
// @Summary Generate interview
// @Description Generates a batch of interview questions for a job context
// @Tags interviews
// @Accept json
// @Produce json
// @Param job body GenerateInterviewRequest true "Job context"
// @Success 201 {object} models.Interview
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /interviews [post]
func (h *InterviewHandler) GenerateInterview(c *gin.Context) {
	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	var req GenerateInterviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	h.LogRequest(c, "Generating interview", "role", req.Role)

	job := models.JobContext{
		Role:            req.Role,
		TechStack:       req.TechStack,
		ExperienceYears: req.ExperienceYears,
	}
	interview, err := h.interviewService.Generate(c.Request.Context(), userID, job)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, interview)
}

// GetInterview returns one interview owned by the caller
// @Summary Get interview
// @Tags interviews
// @Produce json
// @Param id path uint true "Interview ID"
// @Success 200 {object} models.Interview
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /interviews/{id} [get]
func (h *InterviewHandler) GetInterview(c *gin.Context) {
	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}
	id := ParseUintIDParam(c, "id")
	if id == 0 {
		return
	}

	interview, err := h.interviewService.GetByID(c.Request.Context(), id, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, interview)
}

// ListInterviews returns all interviews owned by the caller
// @Summary List interviews
// @Tags interviews
// @Produce json
// @Success 200 {object} SuccessResponse{data=[]models.Interview}
// @Router /interviews [get]
func (h *InterviewHandler) ListInterviews(c *gin.Context) {
	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	interviews, err := h.interviewService.GetByUser(c.Request.Context(), userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Message: "Interviews retrieved",
		Data:    interviews,
	})
}

// GetQuestion returns one question/answer pair from an interview
// @Summary Get interview question
// @Tags interviews
// @Produce json
// @Param id path uint true "Interview ID"
// @Param index path int true "Question index"
// @Success 200 {object} models.QuestionAnswerPair
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /interviews/{id}/questions/{index} [get]
func (h *InterviewHandler) GetQuestion(c *gin.Context) {
	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}
	id := ParseUintIDParam(c, "id")
	if id == 0 {
		return
	}
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid index",
			Details: err.Error(),
		})
		return
	}

	interview, err := h.interviewService.GetByID(c.Request.Context(), id, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	pair, err := h.interviewService.QuestionAt(interview, index)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, pair)
}
