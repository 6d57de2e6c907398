package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/voiceprep/interview-service/internal/config"
	"github.com/voiceprep/interview-service/internal/services"
	"github.com/voiceprep/interview-service/internal/session"
	"github.com/voiceprep/interview-service/internal/utils"
)

type HandlerManager struct {
	interviewHandler *InterviewHandler
	sessionHandler   *SessionHandler
	answerHandler    *AnswerHandler
	authMiddleware   gin.HandlerFunc
}

func NewHandlerManager(
	cfg *config.Config,
	interviewService services.InterviewService,
	scoringService services.ScoringService,
	answerService services.AnswerService,
	exportService services.ExportService,
	sessions *session.Manager,
	logger utils.Logger,
) *HandlerManager {
	scoreTimeout := cfg.AI.ScoreTimeout
	if scoreTimeout <= 0 {
		scoreTimeout = 30 * time.Second
	}

	return &HandlerManager{
		interviewHandler: NewInterviewHandler(interviewService, logger),
		sessionHandler: NewSessionHandler(
			sessions,
			interviewService,
			scoringService,
			answerService,
			scoreTimeout,
			logger,
		),
		answerHandler:  NewAnswerHandler(answerService, exportService, logger),
		authMiddleware: AuthMiddleware(cfg.Casdoor, logger),
	}
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"service": "interview-service",
		})
	})

	v1 := router.Group("/api/v1")
	v1.Use(hm.authMiddleware)
	{
		interviews := v1.Group("/interviews")
		{
			interviews.POST("", hm.interviewHandler.GenerateInterview)
			interviews.GET("", hm.interviewHandler.ListInterviews)
			interviews.GET("/:id", hm.interviewHandler.GetInterview)
			interviews.GET("/:id/questions/:index", hm.interviewHandler.GetQuestion)
		}

		sessions := v1.Group("/sessions")
		{
			sessions.POST("", hm.sessionHandler.CreateSession)
			sessions.GET("/:id", hm.sessionHandler.GetSession)
			sessions.DELETE("/:id", hm.sessionHandler.DeleteSession)

			sessions.POST("/:id/start", hm.sessionHandler.StartRecording)
			sessions.POST("/:id/fragments", hm.sessionHandler.PushFragments)
			sessions.POST("/:id/stop", hm.sessionHandler.StopRecording)
			sessions.POST("/:id/record-again", hm.sessionHandler.RecordAgain)
			sessions.POST("/:id/save", hm.sessionHandler.SaveAnswer)
			sessions.PUT("/:id/question", hm.sessionHandler.ChangeQuestion)
		}

		answers := v1.Group("/answers")
		{
			answers.GET("", hm.answerHandler.ListAnswers)
			answers.GET("/export", hm.answerHandler.ExportAnswers)
		}
	}
}
