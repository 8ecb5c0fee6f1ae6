package service

import (
	"errors"

	"github.com/nkuzn/shoply-backend/internal/app/model"
	"github.com/nkuzn/shoply-backend/internal/app/repository"
	"github.com/nkuzn/shoply-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrCommentNotFound = errors.New("comment not found")
	ErrNotCommentOwner = errors.New("only the comment owner may modify it")
)

// CommentUpdate holds the optional fields of a comment update; nil means
// "leave unchanged". PUT handlers fill both, PATCH handlers only what the
// client sent.
type CommentUpdate struct {
	Text   *string
	Rating *int
}

type CommentService interface {
	ListComments(userID uint, productID *uint) ([]model.Comment, error)
	GetComment(id uint) (*model.Comment, error)
	CreateComment(userID, productID uint, text string, rating int) (*model.Comment, error)
	UpdateComment(commentID, userID uint, update CommentUpdate) (*model.Comment, error)
	DeleteComment(commentID, userID uint) error
}

type commentService struct {
	commentRepo repository.CommentRepository
	productRepo repository.ProductRepository
}

func NewCommentService(
	commentRepo repository.CommentRepository,
	productRepo repository.ProductRepository,
) CommentService {
	return &commentService{
		commentRepo: commentRepo,
		productRepo: productRepo,
	}
}

// ListComments returns every comment on a product when productID is supplied,
// regardless of author; without it, only the requesting user's own comments.
func (s *commentService) ListComments(userID uint, productID *uint) ([]model.Comment, error) {
	if productID != nil {
		logger.Debug("Listing comments by product", map[string]interface{}{
			"product_id": *productID,
		})
		return s.commentRepo.FindByProductID(*productID)
	}

	logger.Debug("Listing own comments", map[string]interface{}{
		"user_id": userID,
	})
	return s.commentRepo.FindByUserID(userID)
}

func (s *commentService) GetComment(id uint) (*model.Comment, error) {
	comment, err := s.commentRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCommentNotFound
		}
		return nil, err
	}
	return comment, nil
}

// CreateComment attaches a new comment to a product. The owning user is
// always the authenticated requester; any client-supplied user field has
// been discarded before this point.
func (s *commentService) CreateComment(userID, productID uint, text string, rating int) (*model.Comment, error) {
	logger.Info("Creating comment", map[string]interface{}{
		"user_id":    userID,
		"product_id": productID,
		"rating":     rating,
	})

	if _, err := s.productRepo.FindByID(productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Cannot create comment: product not found", map[string]interface{}{
				"product_id": productID,
			})
			return nil, ErrProductNotFound
		}
		return nil, err
	}

	comment := &model.Comment{
		UserID:    userID,
		ProductID: productID,
		Text:      text,
		Rating:    rating,
	}

	if err := s.commentRepo.Create(comment); err != nil {
		logger.Error("Failed to create comment", err, map[string]interface{}{
			"user_id":    userID,
			"product_id": productID,
		})
		return nil, err
	}

	// Reload so the response carries the author association
	return s.commentRepo.FindByID(comment.ID)
}

func (s *commentService) UpdateComment(commentID, userID uint, update CommentUpdate) (*model.Comment, error) {
	logger.Info("Updating comment", map[string]interface{}{
		"comment_id": commentID,
		"user_id":    userID,
	})

	comment, err := s.commentRepo.FindByID(commentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCommentNotFound
		}
		return nil, err
	}

	if comment.UserID != userID {
		logger.Warn("Comment update denied: not the owner", map[string]interface{}{
			"comment_id": commentID,
			"owner_id":   comment.UserID,
			"user_id":    userID,
		})
		return nil, ErrNotCommentOwner
	}

	if update.Text != nil {
		comment.Text = *update.Text
	}
	if update.Rating != nil {
		comment.Rating = *update.Rating
	}

	if err := s.commentRepo.Update(comment); err != nil {
		logger.Error("Failed to update comment", err, map[string]interface{}{
			"comment_id": commentID,
		})
		return nil, err
	}

	logger.Info("Comment updated successfully", map[string]interface{}{
		"comment_id": commentID,
	})
	return comment, nil
}

func (s *commentService) DeleteComment(commentID, userID uint) error {
	logger.Info("Deleting comment", map[string]interface{}{
		"comment_id": commentID,
		"user_id":    userID,
	})

	comment, err := s.commentRepo.FindByID(commentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCommentNotFound
		}
		return err
	}

	if comment.UserID != userID {
		logger.Warn("Comment delete denied: not the owner", map[string]interface{}{
			"comment_id": commentID,
			"owner_id":   comment.UserID,
			"user_id":    userID,
		})
		return ErrNotCommentOwner
	}

	if err := s.commentRepo.Delete(commentID); err != nil {
		logger.Error("Failed to delete comment", err, map[string]interface{}{
			"comment_id": commentID,
		})
		return err
	}

	logger.Info("Comment deleted successfully", map[string]interface{}{
		"comment_id": commentID,
	})
	return nil
}
