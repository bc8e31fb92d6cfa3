package services

import (
	"context"
	"errors"
	"time"

	apperrors "github.com/GuruprasadLokhande/Vastrashahi-Project/common/errors"
	"github.com/GuruprasadLokhande/Vastrashahi-Project/models"
	"github.com/GuruprasadLokhande/Vastrashahi-Project/repository"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type ReviewInput struct {
	ProductID string `json:"productId" validate:"required"`
	Rating    int    `json:"rating" validate:"required,min=1,max=5"`
	Comment   string `json:"comment"`
}

type ReviewService struct {
	reviews  repository.ReviewRepo
	products repository.ProductRepo
	users    repository.UserRepo
	orders   repository.OrderRepo
	logger   *zap.Logger
}

func NewReviewService(reviews repository.ReviewRepo, products repository.ProductRepo, users repository.UserRepo, orders repository.OrderRepo, logger *zap.Logger) *ReviewService {
	return &ReviewService{reviews: reviews, products: products, users: users, orders: orders, logger: logger}
}

// AddReview stores a review from a customer who has ordered the product, once per product.
func (s *ReviewService) AddReview(ctx context.Context, userID primitive.ObjectID, in ReviewInput) (*models.Review, error) {
	productID, err := ParseID(in.ProductID)
	if err != nil {
		return nil, err
	}

	exists, err := s.reviews.Exists(ctx, userID, productID)
	if err != nil {
		return nil, apperrors.Internal("Failed to add review", err)
	}
	if exists {
		return nil, apperrors.Forbidden("You have already left a review for this product.")
	}

	purchased, err := s.orders.HasPurchased(ctx, userID, productID)
	if err != nil {
		return nil, apperrors.Internal("Failed to add review", err)
	}
	if !purchased {
		return nil, apperrors.BadRequest("Without purchase you can not give here review!")
	}

	now := time.Now().UTC()
	review := models.Review{
		UserID:    userID,
		ProductID: productID,
		Rating:    in.Rating,
		Comment:   in.Comment,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.reviews.Create(ctx, &review); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperrors.Forbidden("You have already left a review for this product.")
		}
		return nil, apperrors.Internal("Failed to add review", err)
	}

	if err := s.products.AddReview(ctx, productID, review.ID); err != nil {
		s.logger.Error("Failed to link review to product", zap.String("review_id", review.ID.Hex()), zap.Error(err))
	}
	if err := s.users.AddReview(ctx, userID, review.ID); err != nil {
		s.logger.Error("Failed to link review to user", zap.String("review_id", review.ID.Hex()), zap.Error(err))
	}
	return &review, nil
}

func (s *ReviewService) DeleteReview(ctx context.Context, id primitive.ObjectID) (*models.Review, error) {
	review, err := s.reviews.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "Review not found")
	}
	if err := s.reviews.Delete(ctx, id); err != nil {
		return nil, notFoundOr(err, "Review not found")
	}
	if err := s.products.RemoveReview(ctx, review.ProductID, review.ID); err != nil && !errors.Is(err, repository.ErrNotFound) {
		s.logger.Error("Failed to unlink review from product", zap.String("review_id", id.Hex()), zap.Error(err))
	}
	s.logger.Info("Review deleted", zap.String("review_id", id.Hex()))
	return review, nil
}
