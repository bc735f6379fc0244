package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"

	"github.com/google/uuid"

	"github.com/Thanapat2004/FoodOrder/internal/domain"
	"github.com/Thanapat2004/FoodOrder/internal/repository"
	"github.com/Thanapat2004/FoodOrder/internal/storage"
)

const (
	maxCommentLength = 1000
	maxReviewImages  = 5
)

// ImageUpload is one file attached to a review request.
type ImageUpload struct {
	Filename string
	Data     io.Reader
}

type ReviewInput struct {
	Rating  int
	Comment string
	Images  []ImageUpload
}

// FoodReviews is the review listing of one food together with its aggregates.
type FoodReviews struct {
	Reviews []*domain.Review
	Summary *domain.ReviewSummary
}

// ReviewService guards review creation behind purchase and delivery, and
// enforces one review per order line and owner-only mutation.
type ReviewService struct {
	repo   repository.ReviewRepository
	images storage.ImageStore
}

func NewReviewService(repo repository.ReviewRepository, images storage.ImageStore) *ReviewService {
	return &ReviewService{repo: repo, images: images}
}

// ListReviewable returns the purchaser's delivered, not-yet-reviewed line
// items, newest first.
func (s *ReviewService) ListReviewable(ctx context.Context, userID int64, limit, offset int) ([]*domain.ReviewableItem, error) {
	return s.repo.ListReviewableItems(ctx, userID, limit, offset)
}

// Create stores a first-time review for a delivered order line. A second
// attempt for the same line is rejected, never upgraded to an update.
func (s *ReviewService) Create(ctx context.Context, userID int64, lineID uuid.UUID, in ReviewInput) (*domain.Review, error) {
	if err := validateReviewInput(in); err != nil {
		return nil, err
	}

	detail, err := s.repo.GetOrderLineDetail(ctx, lineID)
	if err != nil {
		return nil, err
	}
	if detail.OrderUserID != userID {
		return nil, domain.ErrPermissionDenied
	}
	if detail.OrderStatus != domain.OrderStatusDelivered {
		return nil, domain.ErrPermissionDenied
	}

	if _, err := s.repo.GetReviewByOrderLine(ctx, lineID); err == nil {
		return nil, domain.ErrAlreadyReviewed
	} else if !errors.Is(err, repository.ErrReviewNotFound) {
		return nil, err
	}

	paths, err := s.saveImages(ctx, in.Images)
	if err != nil {
		return nil, err
	}

	review := &domain.Review{
		ID:          uuid.New(),
		UserID:      userID,
		FoodID:      detail.Line.FoodID,
		OrderLineID: lineID,
		Rating:      in.Rating,
		Comment:     in.Comment,
		Images:      paths,
	}

	if err := s.repo.CreateReview(ctx, review); err != nil {
		s.deleteImages(ctx, paths)
		if errors.Is(err, repository.ErrDuplicateReview) {
			// Lost the race on the unique constraint.
			return nil, domain.ErrAlreadyReviewed
		}
		return nil, fmt.Errorf("persist review: %w", err)
	}

	return review, nil
}

// Update mutates an owned review. When new images are supplied the old set
// is deleted from storage and fully replaced, not merged.
func (s *ReviewService) Update(ctx context.Context, userID int64, reviewID uuid.UUID, in ReviewInput) (*domain.Review, error) {
	if err := validateReviewInput(in); err != nil {
		return nil, err
	}

	review, err := s.repo.GetReviewByID(ctx, reviewID)
	if err != nil {
		return nil, err
	}
	if review.UserID != userID {
		return nil, domain.ErrPermissionDenied
	}

	oldImages := review.Images
	replaced := len(in.Images) > 0
	if replaced {
		paths, err := s.saveImages(ctx, in.Images)
		if err != nil {
			return nil, err
		}
		review.Images = paths
	}

	review.Rating = in.Rating
	review.Comment = in.Comment

	if err := s.repo.UpdateReview(ctx, review); err != nil {
		if replaced {
			s.deleteImages(ctx, review.Images)
		}
		return nil, fmt.Errorf("persist review update: %w", err)
	}

	if replaced {
		s.deleteImages(ctx, oldImages)
	}
	return review, nil
}

// Delete removes an owned review and every image stored for it.
func (s *ReviewService) Delete(ctx context.Context, userID int64, reviewID uuid.UUID) error {
	review, err := s.repo.GetReviewByID(ctx, reviewID)
	if err != nil {
		return err
	}
	if review.UserID != userID {
		return domain.ErrPermissionDenied
	}

	if err := s.repo.DeleteReview(ctx, reviewID); err != nil {
		return fmt.Errorf("delete review: %w", err)
	}

	s.deleteImages(ctx, review.Images)
	return nil
}

// ListForFood returns a food's reviews plus average rating and per-star
// counts.
func (s *ReviewService) ListForFood(ctx context.Context, foodID int64, limit, offset int) (*FoodReviews, error) {
	reviews, err := s.repo.ListReviewsByFood(ctx, foodID, limit, offset)
	if err != nil {
		return nil, err
	}
	summary, err := s.repo.GetReviewSummary(ctx, foodID)
	if err != nil {
		return nil, err
	}
	return &FoodReviews{Reviews: reviews, Summary: summary}, nil
}

func (s *ReviewService) ListMine(ctx context.Context, userID int64, limit, offset int) ([]*domain.Review, error) {
	return s.repo.ListReviewsByUser(ctx, userID, limit, offset)
}

func (s *ReviewService) saveImages(ctx context.Context, uploads []ImageUpload) ([]string, error) {
	paths := make([]string, 0, len(uploads))
	for _, upload := range uploads {
		path, err := s.images.Save(ctx, upload.Filename, upload.Data)
		if err != nil {
			s.deleteImages(ctx, paths)
			return nil, fmt.Errorf("store review image: %w", err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func (s *ReviewService) deleteImages(ctx context.Context, paths []string) {
	for _, path := range paths {
		if err := s.images.Delete(ctx, path); err != nil {
			log.Printf("failed to delete review image %s: %v", path, err)
		}
	}
}

func validateReviewInput(in ReviewInput) error {
	if in.Rating < 1 || in.Rating > 5 {
		return domain.ValidationError{Field: "rating", Message: "rating must be between 1 and 5"}
	}
	if len(in.Comment) > maxCommentLength {
		return domain.ValidationError{Field: "comment", Message: "comment must be at most 1000 characters"}
	}
	if len(in.Images) > maxReviewImages {
		return domain.ValidationError{Field: "images", Message: "at most 5 images are allowed"}
	}
	return nil
}
