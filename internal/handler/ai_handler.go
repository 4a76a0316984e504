package handler

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"inkwell/internal/ai"
	"inkwell/internal/errors"
)

// AIHandler proxies to the text-generation and image-generation upstreams.
type AIHandler struct {
	client *ai.Client
}

// NewAIHandler creates a new AI proxy handler.
func NewAIHandler(client *ai.Client) *AIHandler {
	return &AIHandler{client: client}
}

// GenerateImageRequest represents an image synthesis request.
type GenerateImageRequest struct {
	Prompt string `json:"prompt" validate:"required"`
}

// StreamBlog godoc
// @Summary Stream a generated blog article as server-sent events
// @Tags ai
// @Produce text/event-stream
// @Param title query string true "Article title"
// @Param category query string false "Category"
// @Param tone query string false "Tone"
// @Param wordCount query string false "Target length"
// @Success 200 {string} string "SSE stream"
// @Failure 400 {object} errors.ErrorResponse
// @Failure 503 {object} errors.ErrorResponse
// @Router /ai/stream-blog [get]
func (h *AIHandler) StreamBlog(c echo.Context) error {
	title := c.QueryParam("title")
	if title == "" {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Message: "Title is required",
			Code:    "VALIDATION_ERROR",
		})
	}

	prompt := ai.ArticlePrompt{
		Title:     title,
		Category:  c.QueryParam("category"),
		Tone:      c.QueryParam("tone"),
		WordCount: c.QueryParam("wordCount"),
	}

	res := c.Response()
	res.Header().Set(echo.HeaderContentType, "text/event-stream")
	res.Header().Set("Cache-Control", "no-cache")
	res.Header().Set("Connection", "keep-alive")

	err := h.client.StreamArticle(c.Request().Context(), prompt, func(token string) error {
		payload, err := json.Marshal(token)
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintf(res, "data: %s\n\n", payload); err != nil {
			return err
		}
		res.Flush()
		return nil
	})
	if err != nil {
		if err == ai.ErrNotConfigured && !res.Committed {
			return echo.NewHTTPError(http.StatusServiceUnavailable, errors.ErrorResponse{
				Message: err.Error(),
				Code:    "AI_UNAVAILABLE",
			})
		}
		// Headers are out; report the failure inside the stream.
		payload, _ := json.Marshal(map[string]string{"error": err.Error()})
		fmt.Fprintf(res, "data: %s\n\n", payload)
		res.Flush()
		return nil
	}

	fmt.Fprint(res, "data: [DONE]\n\n")
	res.Flush()
	return nil
}

// GenerateImage godoc
// @Summary Generate a cover image from a prompt
// @Tags ai
// @Accept json
// @Produce png
// @Param request body GenerateImageRequest true "Prompt"
// @Success 200 {string} binary "PNG image"
// @Failure 400 {object} errors.ErrorResponse
// @Failure 502 {object} errors.ErrorResponse
// @Failure 503 {object} errors.ErrorResponse
// @Router /ai/generate-image [post]
func (h *AIHandler) GenerateImage(c echo.Context) error {
	var req GenerateImageRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Message: "invalid request body",
			Code:    "VALIDATION_ERROR",
		})
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Message: "Prompt is required",
			Code:    "VALIDATION_ERROR",
		})
	}

	image, err := h.client.GenerateImage(c.Request().Context(), req.Prompt)
	if err != nil {
		if err == ai.ErrNotConfigured {
			return echo.NewHTTPError(http.StatusServiceUnavailable, errors.ErrorResponse{
				Message: err.Error(),
				Code:    "AI_UNAVAILABLE",
			})
		}
		return echo.NewHTTPError(http.StatusBadGateway, errors.ErrorResponse{
			Message: err.Error(),
			Code:    "IMAGE_GENERATION_FAILED",
		})
	}

	return c.Blob(http.StatusOK, "image/png", image)
}
