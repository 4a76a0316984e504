package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"inkwell/internal/config"
	"inkwell/internal/errors"
	"inkwell/internal/service"
)

// NewsletterHandler handles newsletter endpoints.
type NewsletterHandler struct {
	newsletterService service.NewsletterService
	cfg               *config.Config
}

// NewNewsletterHandler creates a new newsletter handler.
func NewNewsletterHandler(newsletterService service.NewsletterService, cfg *config.Config) *NewsletterHandler {
	return &NewsletterHandler{newsletterService: newsletterService, cfg: cfg}
}

// SubscribeRequest represents a newsletter subscription request.
type SubscribeRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// HealthResponse reports mail transport reachability.
type HealthResponse struct {
	Status    string `json:"status"`
	SMTPReady bool   `json:"smtpReady"`
	Host      string `json:"host"`
	Port      int    `json:"port"`
	Secure    bool   `json:"secure"`
}

// Subscribe godoc
// @Summary Subscribe to the newsletter
// @Tags newsletter
// @Accept json
// @Produce json
// @Param request body SubscribeRequest true "Subscriber email"
// @Success 200 {object} map[string]string
// @Success 201 {object} map[string]string
// @Failure 400 {object} errors.ErrorResponse
// @Router /newsletter [post]
func (h *NewsletterHandler) Subscribe(c echo.Context) error {
	var req SubscribeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Message: "Valid email is required",
			Code:    "VALIDATION_ERROR",
		})
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Message: "Valid email is required",
			Code:    "VALIDATION_ERROR",
		})
	}

	created, mailSent, err := h.newsletterService.Subscribe(c.Request().Context(), req.Email)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	status := http.StatusOK
	message := "Already subscribed"
	if created {
		status = http.StatusCreated
		message = "Subscribed successfully! Check your inbox."
	}
	if !mailSent {
		if created {
			message = "Subscribed successfully (welcome email couldn't be sent right now, but you're on the list)"
		} else {
			message = "Already subscribed (welcome email skipped)"
		}
	}

	return c.JSON(status, map[string]string{"message": message})
}

// Health godoc
// @Summary Report mail transport reachability
// @Tags newsletter
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /newsletter/health [get]
func (h *NewsletterHandler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthResponse{
		Status:    "ok",
		SMTPReady: h.newsletterService.SMTPReady(c.Request().Context()),
		Host:      h.cfg.SMTPHost,
		Port:      h.cfg.SMTPPort,
		Secure:    h.cfg.SMTPSecure,
	})
}
