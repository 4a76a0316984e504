package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"inkwell/internal/auth"
	"inkwell/internal/errors"
	"inkwell/internal/service"
)

// CommentHandler handles comment endpoints.
type CommentHandler struct {
	commentService service.CommentService
}

// NewCommentHandler creates a new comment handler.
func NewCommentHandler(commentService service.CommentService) *CommentHandler {
	return &CommentHandler{commentService: commentService}
}

// AddCommentRequest represents a new comment, optionally a reply.
type AddCommentRequest struct {
	Content  string `json:"content" validate:"required"`
	ParentID string `json:"parent_id" validate:"omitempty,uuid"`
}

// Add godoc
// @Summary Add a comment to a blog post
// @Tags comments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param blogId path string true "Blog ID"
// @Param request body AddCommentRequest true "Comment data"
// @Success 201 {object} model.Comment
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /comments/{blogId} [post]
func (h *CommentHandler) Add(c echo.Context) error {
	blogID, err := parseID(c, "blogId")
	if err != nil {
		return err
	}

	var req AddCommentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Message: "invalid request body",
			Code:    "VALIDATION_ERROR",
		})
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Message: err.Error(),
			Code:    "VALIDATION_ERROR",
		})
	}

	var parentID *uuid.UUID
	if req.ParentID != "" {
		parsed, err := uuid.Parse(req.ParentID)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
				Message: "invalid parent id",
				Code:    "INVALID_UUID",
			})
		}
		parentID = &parsed
	}

	comment, err := h.commentService.Add(c.Request().Context(), auth.CurrentUser(c), blogID, req.Content, parentID)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusCreated, comment)
}

// List godoc
// @Summary List comments for a blog post, newest first
// @Tags comments
// @Produce json
// @Param blogId path string true "Blog ID"
// @Success 200 {array} model.Comment
// @Router /comments/{blogId} [get]
func (h *CommentHandler) List(c echo.Context) error {
	blogID, err := parseID(c, "blogId")
	if err != nil {
		return err
	}

	comments, err := h.commentService.ListByBlog(c.Request().Context(), blogID)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, comments)
}

// Delete godoc
// @Summary Delete a comment (author only)
// @Tags comments
// @Produce json
// @Security BearerAuth
// @Param commentId path string true "Comment ID"
// @Success 200 {object} map[string]string
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /comments/{commentId} [delete]
func (h *CommentHandler) Delete(c echo.Context) error {
	commentID, err := parseID(c, "commentId")
	if err != nil {
		return err
	}

	if err := h.commentService.Delete(c.Request().Context(), auth.CurrentUser(c), commentID); err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, map[string]string{
		"message": "Comment deleted successfully",
	})
}
