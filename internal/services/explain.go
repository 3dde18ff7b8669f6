package services

import (
	"context"
	"fmt"

	"github.com/yungbote/studyai-backend/internal/logger"
)

const explainPromptTemplate = `You are an expert educational assistant. Your task is to explain a given topic in a simple, clear, and engaging manner suitable for a student.

1. Provide a comprehensive explanation of the topic: '%s'.
2. Use simple language and analogies where helpful.
3. At the end, include a distinct section titled "Focus Points for Mastery" where you list 3 to 5 crucial concepts within that topic that the student must master for success in a quiz or test.

The explanation should be formatted using Markdown for readability (headings, lists, bold text).`

const explainUnavailableFallback = "The AI explainer is unavailable right now. In the meantime, try reviewing your uploaded notes on this topic, or take one of the practice quizzes."

// ExplainService produces a markdown explanation of a topic. The
// markdown is returned raw; rendering belongs to the client.
type ExplainService interface {
	ExplainTopic(ctx context.Context, topic string) (string, error)
}

type explainService struct {
	log      *logger.Logger
	aiClient AIClient
}

func NewExplainService(log *logger.Logger, aiClient AIClient) ExplainService {
	return &explainService{log: log.With("service", "ExplainService"), aiClient: aiClient}
}

func (es *explainService) ExplainTopic(ctx context.Context, topic string) (string, error) {
	if topic == "" {
		return "", fmt.Errorf("topic is required")
	}
	explanation, err := es.aiClient.GenerateText(ctx, fmt.Sprintf(explainPromptTemplate, topic))
	if err != nil {
		// Collaborator failure degrades to guidance, never a hard error.
		es.log.Warn("Topic explanation degraded to fallback", "topic", topic, "error", err)
		return explainUnavailableFallback, nil
	}
	return explanation, nil
}
