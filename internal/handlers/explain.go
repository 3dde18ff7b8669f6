package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/studyai-backend/internal/logger"
	"github.com/yungbote/studyai-backend/internal/services"
)

type ExplainHandler struct {
	log        *logger.Logger
	explainSvc services.ExplainService
}

func NewExplainHandler(log *logger.Logger, explainSvc services.ExplainService) *ExplainHandler {
	return &ExplainHandler{
		log:        log.With("handler", "ExplainHandler"),
		explainSvc: explainSvc,
	}
}

// POST /api/explain
func (eh *ExplainHandler) ExplainTopic(c *gin.Context) {
	var req struct {
		Topic string `json:"topic"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	topic := strings.TrimSpace(req.Topic)
	if topic == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "topic is required"})
		return
	}
	explanation, err := eh.explainSvc.ExplainTopic(c.Request.Context(), topic)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate explanation"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"topic": topic, "explanation": explanation})
}
