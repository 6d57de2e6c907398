package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/voiceprep/interview-service/internal/events"
	"github.com/voiceprep/interview-service/internal/models"
)

func TestScoringService_Score(t *testing.T) {
	ctx := context.Background()

	t.Run("parses rating and feedback from reply", func(t *testing.T) {
		client := new(MockPromptSender)
		publisher := events.NewMockEventPublisher(testLogger())
		svc := NewScoringService(client, publisher, testLogger())

		client.On("SendPrompt", mock.Anything, mock.Anything).
			Return("Rating: 7\nFeedback: Good coverage of the basics, expand on trade-offs.", nil).Once()

		eval, err := svc.Score(ctx, "What is a goroutine?", "A lightweight thread.", "It is like a thread but cheaper.")
		require.NoError(t, err)
		assert.Equal(t, 7, eval.Rating)
		assert.Equal(t, "Good coverage of the basics, expand on trade-offs.", eval.Feedback)
		assert.Empty(t, publisher.GetPublishedEvents())
	})

	t.Run("degrades to sentinel on model failure", func(t *testing.T) {
		client := new(MockPromptSender)
		publisher := events.NewMockEventPublisher(testLogger())
		svc := NewScoringService(client, publisher, testLogger())

		client.On("SendPrompt", mock.Anything, mock.Anything).
			Return("", errors.New("connection refused")).Once()

		eval, err := svc.Score(ctx, "What is a goroutine?", "A lightweight thread.", "some answer")
		require.NoError(t, err)
		assert.True(t, eval.IsSentinel())
		assert.Equal(t, models.SentinelEvaluation(), eval)

		published := publisher.GetPublishedEvents()
		require.Len(t, published, 1)
		assert.Equal(t, events.EventEvaluationDegraded, published[0].Type)
	})

	t.Run("degrades to sentinel on unparseable reply", func(t *testing.T) {
		client := new(MockPromptSender)
		publisher := events.NewMockEventPublisher(testLogger())
		svc := NewScoringService(client, publisher, testLogger())

		client.On("SendPrompt", mock.Anything, mock.Anything).
			Return("The candidate did quite well overall.", nil).Once()

		eval, err := svc.Score(ctx, "What is a goroutine?", "A lightweight thread.", "some answer")
		require.NoError(t, err)
		assert.True(t, eval.IsSentinel())

		published := publisher.GetPublishedEvents()
		require.Len(t, published, 1)
		assert.Equal(t, events.EventEvaluationDegraded, published[0].Type)
	})
}
