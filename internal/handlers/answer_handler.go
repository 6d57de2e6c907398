package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/voiceprep/interview-service/internal/repositories"
	"github.com/voiceprep/interview-service/internal/services"
	"github.com/voiceprep/interview-service/internal/utils"
)

type AnswerHandler struct {
	BaseHandler
	answerService services.AnswerService
	exportService services.ExportService
}

func NewAnswerHandler(answerService services.AnswerService, exportService services.ExportService, logger utils.Logger) *AnswerHandler {
	return &AnswerHandler{
		BaseHandler:   NewBaseHandler(logger),
		answerService: answerService,
		exportService: exportService,
	}
}

// ListAnswers returns the caller's saved graded answers
// @Summary List graded answers
// @Tags answers
// @Produce json
// @Param min_rating query int false "Minimum rating"
// @Param limit query int false "Page size"
// @Param offset query int false "Page offset"
// @Param sort_by query string false "created_at or rating"
// @Param sort_order query string false "asc or desc"
// @Success 200 {object} SuccessResponse{data=[]models.AnswerRecord}
// @Router /answers [get]
func (h *AnswerHandler) ListAnswers(c *gin.Context) {
	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	filters := parseAnswerFilters(c)
	records, total, err := h.answerService.GetByUser(c.Request.Context(), userID, filters)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Answers retrieved",
		"data":    records,
		"total":   total,
	})
}

// ExportAnswers downloads the caller's graded answers as a spreadsheet
// @Summary Export graded answers
// @Tags answers
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success 200 {file} binary
// @Router /answers/export [get]
func (h *AnswerHandler) ExportAnswers(c *gin.Context) {
	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	h.LogRequest(c, "Exporting answers")

	data, err := h.exportService.ExportAnswersToExcel(c.Request.Context(), userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	filename := fmt.Sprintf("answers_%s.xlsx", time.Now().Format("20060102_150405"))
	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		data)
}

func parseAnswerFilters(c *gin.Context) repositories.AnswerFilters {
	filters := repositories.AnswerFilters{
		SortBy:    c.DefaultQuery("sort_by", "created_at"),
		SortOrder: c.DefaultQuery("sort_order", "desc"),
	}

	if v, err := strconv.Atoi(c.Query("min_rating")); err == nil {
		filters.MinRating = &v
	}
	if v, err := strconv.Atoi(c.Query("limit")); err == nil && v > 0 {
		filters.Limit = v
	}
	if v, err := strconv.Atoi(c.Query("offset")); err == nil && v >= 0 {
		filters.Offset = v
	}
	if v, err := time.Parse(time.RFC3339, c.Query("date_from")); err == nil {
		filters.DateFrom = &v
	}
	if v, err := time.Parse(time.RFC3339, c.Query("date_to")); err == nil {
		filters.DateTo = &v
	}

	return filters
}
