package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/nkuzn/shoply-backend/internal/app/service"
	apperrors "github.com/nkuzn/shoply-backend/internal/errors"
	"github.com/nkuzn/shoply-backend/internal/middleware"
)

type CommentController struct {
	commentService service.CommentService
}

func NewCommentController(commentService service.CommentService) *CommentController {
	return &CommentController{commentService: commentService}
}

// CreateCommentRequest ignores any client-supplied user field; the owner is
// always the authenticated requester.
type CreateCommentRequest struct {
	ProductID uint   `json:"product" binding:"required"`
	Text      string `json:"text" binding:"required"`
	Rating    int    `json:"rating" binding:"required,min=1,max=5"`
}

type UpdateCommentRequest struct {
	Text   string `json:"text" binding:"required"`
	Rating int    `json:"rating" binding:"required,min=1,max=5"`
}

type PatchCommentRequest struct {
	Text   *string `json:"text"`
	Rating *int    `json:"rating" binding:"omitempty,min=1,max=5"`
}

// ListComments returns comments. With ?product_id= the listing covers every
// author for that product; without it, only the caller's own comments.
// GET /api/v1/comments
func (ctrl *CommentController) ListComments(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	var productID *uint
	if raw := c.Query("product_id"); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			log.Warn("Invalid product_id query parameter", map[string]interface{}{
				"product_id": raw,
			})
			apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid product_id")
			return
		}
		id := uint(parsed)
		productID = &id
	}

	comments, err := ctrl.commentService.ListComments(userID, productID)
	if err != nil {
		log.Error("Failed to list comments", err, map[string]interface{}{
			"user_id": userID,
		})
		apperrors.InternalError(c, "Failed to fetch comments")
		return
	}

	log.Info("Comments listed successfully", map[string]interface{}{
		"user_id": userID,
		"count":   len(comments),
	})

	c.JSON(http.StatusOK, gin.H{
		"comments": comments,
		"count":    len(comments),
	})
}

// GetComment returns a single comment
// GET /api/v1/comments/:id
func (ctrl *CommentController) GetComment(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	comment, err := ctrl.commentService.GetComment(id)
	if err != nil {
		if errors.Is(err, service.ErrCommentNotFound) {
			log.Warn("Comment not found", map[string]interface{}{
				"comment_id": id,
			})
			apperrors.NotFound(c, apperrors.CommentNotFound, "Comment not found")
			return
		}
		log.Error("Failed to fetch comment", err, map[string]interface{}{
			"comment_id": id,
		})
		apperrors.InternalError(c, "Failed to fetch comment")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"comment": comment,
	})
}

// CreateComment creates a comment owned by the caller
// POST /api/v1/comments
func (ctrl *CommentController) CreateComment(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	var req CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid comment creation request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid comment data")
		return
	}

	comment, err := ctrl.commentService.CreateComment(userID, req.ProductID, req.Text, req.Rating)
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			log.Warn("Product not found for comment", map[string]interface{}{
				"product_id": req.ProductID,
			})
			apperrors.NotFound(c, apperrors.ProductNotFound, "Product not found")
			return
		}
		log.Error("Failed to create comment", err, map[string]interface{}{
			"user_id":    userID,
			"product_id": req.ProductID,
		})
		apperrors.InternalError(c, "Failed to create comment")
		return
	}

	log.Info("Comment created successfully", map[string]interface{}{
		"comment_id": comment.ID,
		"user_id":    userID,
	})

	c.JSON(http.StatusCreated, gin.H{
		"comment": comment,
	})
}

func (ctrl *CommentController) respondCommentWriteError(c *gin.Context, id uint, err error) {
	log := middleware.GetLoggerFromContext(c)

	switch {
	case errors.Is(err, service.ErrCommentNotFound):
		log.Warn("Comment not found", map[string]interface{}{
			"comment_id": id,
		})
		apperrors.NotFound(c, apperrors.CommentNotFound, "Comment not found")
	case errors.Is(err, service.ErrNotCommentOwner):
		log.Warn("Comment write denied: not the owner", map[string]interface{}{
			"comment_id": id,
		})
		apperrors.RespondWithError(c, http.StatusForbidden, apperrors.AuthzOwnerOnly,
			"Only the comment owner may modify it")
	default:
		log.Error("Comment write failed", err, map[string]interface{}{
			"comment_id": id,
		})
		apperrors.InternalError(c, "Failed to update comment")
	}
}

// UpdateComment replaces the caller's comment (owner only)
// PUT /api/v1/comments/:id
func (ctrl *CommentController) UpdateComment(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	var req UpdateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid comment update request", map[string]interface{}{
			"comment_id": id,
			"error":      err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid comment data")
		return
	}

	comment, err := ctrl.commentService.UpdateComment(id, userID, service.CommentUpdate{
		Text:   &req.Text,
		Rating: &req.Rating,
	})
	if err != nil {
		ctrl.respondCommentWriteError(c, id, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"comment": comment,
	})
}

// PatchComment partially updates the caller's comment (owner only)
// PATCH /api/v1/comments/:id
func (ctrl *CommentController) PatchComment(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	var req PatchCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid comment patch request", map[string]interface{}{
			"comment_id": id,
			"error":      err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid comment data")
		return
	}

	comment, err := ctrl.commentService.UpdateComment(id, userID, service.CommentUpdate{
		Text:   req.Text,
		Rating: req.Rating,
	})
	if err != nil {
		ctrl.respondCommentWriteError(c, id, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"comment": comment,
	})
}

// DeleteComment deletes the caller's comment (owner only)
// DELETE /api/v1/comments/:id
func (ctrl *CommentController) DeleteComment(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	if err := ctrl.commentService.DeleteComment(id, userID); err != nil {
		ctrl.respondCommentWriteError(c, id, err)
		return
	}

	c.Status(http.StatusNoContent)
}
