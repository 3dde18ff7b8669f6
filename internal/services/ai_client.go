package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/yungbote/studyai-backend/internal/logger"
	"github.com/yungbote/studyai-backend/internal/utils"
)

// ErrAIUnavailable is returned when the client was constructed without
// credentials. Callers are expected to degrade to a fallback string,
// never to surface this to the user as a hard failure.
var ErrAIUnavailable = errors.New("generative AI client is not configured")

// AIClient is the generative-text collaborator (Gemini over REST).
// Constructed once at startup; Available reports whether credentials
// were present so consumers can skip the network round trip entirely.
type AIClient interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
	Available() bool
}

type aiClient struct {
	httpClient *http.Client
	log        *logger.Logger
	apiKey     string
	baseURL    string
	model      string
}

func NewAIClient(log *logger.Logger) AIClient {
	serviceLog := log.With("service", "AIClient")
	apiKey := utils.GetEnv("GEMINI_API_KEY", "", log)
	baseURL := utils.GetEnv("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com/v1beta", log)
	model := utils.GetEnv("GEMINI_MODEL", "gemini-2.5-flash", log)
	if apiKey == "" {
		serviceLog.Warn("GEMINI_API_KEY is not set, AI features will serve fallback responses")
	}
	return &aiClient{
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
		log:     serviceLog,
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		model:   model,
	}
}

func (c *aiClient) Available() bool {
	return c.apiKey != ""
}

type generateContentRequest struct {
	Contents []aiContent `json:"contents"`
}

type aiContent struct {
	Parts []aiPart `json:"parts"`
}

type aiPart struct {
	Text string `json:"text"`
}

type generateContentResponse struct {
	Candidates []struct {
		Content struct {
			Parts []aiPart `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

func (c *aiClient) GenerateText(ctx context.Context, prompt string) (string, error) {
	if !c.Available() {
		return "", ErrAIUnavailable
	}

	reqBody := generateContentRequest{
		Contents: []aiContent{{Parts: []aiPart{{Text: prompt}}}},
	}
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal generateContent request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", c.baseURL, c.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("build generateContent request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("generateContent call failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return "", fmt.Errorf("read generateContent response: %w", err)
	}

	var parsed generateContentResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("decode generateContent response (status %d): %w", resp.StatusCode, err)
	}
	if resp.StatusCode != http.StatusOK {
		if parsed.Error != nil {
			return "", fmt.Errorf("generateContent returned %d: %s", resp.StatusCode, parsed.Error.Message)
		}
		return "", fmt.Errorf("generateContent returned status %d", resp.StatusCode)
	}

	var sb strings.Builder
	for _, cand := range parsed.Candidates {
		for _, part := range cand.Content.Parts {
			sb.WriteString(part.Text)
		}
		break
	}
	text := strings.TrimSpace(sb.String())
	if text == "" {
		return "", fmt.Errorf("generateContent returned no text candidates")
	}
	return text, nil
}
