package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/cybermumuca/mumuca-diet/internal/nutrition"
	"github.com/gin-gonic/gin"
)

/* ─── Request / Response types ───────────────────────────────────────── */

// suggestRequest is the request body for POST /v1/foods/suggest.
type suggestRequest struct {
	Description string `json:"description"`
}

// foodSuggestion is a food draft estimated by the model. It has the same
// shape as a foodRequest so the web app can prefill the create form with it.
// Confidence is 1-5 indicating how accurate the estimate is.
type foodSuggestion struct {
	Title                  string                       `json:"title"`
	Portion                Portion                      `json:"portion"`
	NutritionalInformation nutrition.NutritionalProfile `json:"nutritionalInformation"`
	Confidence             int                          `json:"confidence"`
}

/* ─── OpenAI prompt ──────────────────────────────────────────────────── */

var foodSystemPrompt = `You are a nutrition assistant for a Brazilian diet tracker. Parse the food description and return a JSON object with:
- "title" (string, cleaned up, in the language of the description)
- "portion": {"amount" (number > 0), "unit" (one of: ` + unitList() + `), "description" (string or null, e.g. "1 unidade média")}
- "nutritionalInformation": {` + nutrientList() + `} with numbers for the whole portion; "calories" is an integer in kcal, macros in grams, minerals in mg, vitamins in mcg
- "confidence" (integer 1-5: 5=exact known nutritional data, 4=very close estimate, 3=reasonable estimate, 2=rough guess, 1=very uncertain)

Always provide your best estimate, even for unfamiliar or vague items. Use 0 for nutrients you cannot estimate. Only return {"error": "unrecognized"} if the input is not food at all (e.g. random characters, non-food objects).
Return only valid JSON, no explanation.`

func unitList() string {
	units := make([]string, len(nutrition.AllUnits))
	for i, u := range nutrition.AllUnits {
		units[i] = string(u)
	}
	return strings.Join(units, ", ")
}

func nutrientList() string {
	return `"calories", "carbohydrates", "protein", "fat", "monounsaturatedFat", "saturatedFat", ` +
		`"polyunsaturatedFat", "transFat", "cholesterol", "sodium", "potassium", "fiber", "sugar", ` +
		`"calcium", "iron", "vitaminA", "vitaminC"`
}

/* ─── OpenAI HTTP client ─────────────────────────────────────────────── */

// openAIMessage is a single message in the OpenAI chat completions request.
type openAIMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// openAIRequest is the request body for the OpenAI chat completions API.
type openAIRequest struct {
	Model          string            `json:"model"`
	Messages       []openAIMessage   `json:"messages"`
	Temperature    float64           `json:"temperature"`
	ResponseFormat map[string]string `json:"response_format"`
}

// callOpenAI sends a chat completions request and returns the raw content string
// from the first choice. Uses raw net/http to avoid pulling in the OpenAI SDK.
func callOpenAI(ctx context.Context, messages []openAIMessage, baseURL, apiKey string) (string, error) {
	if apiKey == "" {
		return "", errors.New("OPENAI_API_KEY not set")
	}

	bodyBytes, err := json.Marshal(openAIRequest{
		Model:          "gpt-4o-mini",
		Messages:       messages,
		Temperature:    0,
		ResponseFormat: map[string]string{"type": "json_object"},
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, baseURL+"/v1/chat/completions", bytes.NewReader(bodyBytes))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+apiKey)

	client := &http.Client{Timeout: 15 * time.Second}
	resp, err := client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("openai returned status %d: %s", resp.StatusCode, string(respBytes))
	}

	var result struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(respBytes, &result); err != nil {
		return "", fmt.Errorf("unmarshal response: %w", err)
	}
	if len(result.Choices) == 0 {
		return "", errors.New("no choices in response")
	}

	return result.Choices[0].Message.Content, nil
}

/* ─── Handler ────────────────────────────────────────────────────────── */

// suggestFood turns a free-text description into a food draft. The draft is
// not stored; the client reviews it and posts it to /v1/foods.
// POST /v1/foods/suggest. Body: { "description": "1 banana prata" }.
// Responds {"error": "unrecognized"} with 200 when the text is not a food.
func (h *Handler) suggestFood(c *gin.Context) {
	var req suggestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Description) == "" {
		apiError(c, http.StatusBadRequest, "description is required")
		return
	}

	content, err := callOpenAI(c.Request.Context(), []openAIMessage{
		{Role: "system", Content: foodSystemPrompt},
		{Role: "user", Content: req.Description},
	}, h.openAIBaseURL, h.openAIKey)
	if err != nil {
		log.Printf("[suggestFood] OpenAI error: %v", err)
		apiError(c, http.StatusInternalServerError, "openai request failed")
		return
	}

	var errorResp struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal([]byte(content), &errorResp); err != nil {
		log.Printf("[suggestFood] Failed to parse OpenAI response: %v", err)
		apiError(c, http.StatusInternalServerError, "openai request failed")
		return
	}
	if errorResp.Error == "unrecognized" {
		c.JSON(http.StatusOK, gin.H{"error": "unrecognized"})
		return
	}

	var suggestion foodSuggestion
	if err := json.Unmarshal([]byte(content), &suggestion); err != nil {
		log.Printf("[suggestFood] Failed to parse suggestion JSON: %v", err)
		apiError(c, http.StatusInternalServerError, "openai request failed")
		return
	}

	// A draft the create endpoint would reject is no use to the client.
	draft := foodRequest{
		Title:                  suggestion.Title,
		Portion:                suggestion.Portion,
		NutritionalInformation: suggestion.NutritionalInformation,
	}
	if err := draft.validate(); err != nil || draft.NutritionalInformation.Calories == 0 {
		log.Printf("[suggestFood] Discarding unusable suggestion %+v: %v", suggestion, err)
		c.JSON(http.StatusOK, gin.H{"error": "unrecognized"})
		return
	}
	suggestion.Title = draft.Title

	c.JSON(http.StatusOK, suggestion)
}
