package services

import (
	"context"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/junaidrashid-git/storefront-api/events"
	"github.com/junaidrashid-git/storefront-api/models"
	"github.com/junaidrashid-git/storefront-api/repository"
)

// Actor is the caller of a review operation.
type Actor struct {
	UserID  string
	IsAdmin bool
}

type ReviewInput struct {
	Rating  int
	Title   string
	Comment string
}

// ReviewPatch carries the fields of an edit; nil fields are left alone.
type ReviewPatch struct {
	Rating  *int
	Title   *string
	Comment *string
}

// ReviewService keeps each product's rating aggregate in step with its active reviews.
// Every change that can move the aggregate recomputes it inside the same transaction.
type ReviewService struct {
	db        *gorm.DB
	publisher events.Publisher
}

func NewReviewService(db *gorm.DB, publisher events.Publisher) *ReviewService {
	if publisher == nil {
		publisher = events.Nop{}
	}
	return &ReviewService{db: db, publisher: publisher}
}

func (s *ReviewService) ListForProduct(ctx context.Context, productID uint) ([]models.Review, error) {
	return repository.NewReviewRepository(s.db).ListActive(ctx, productID)
}

func (s *ReviewService) ListAll(ctx context.Context, productID uint) ([]models.Review, error) {
	return repository.NewReviewRepository(s.db).List(ctx, productID)
}

// Create stores an active, unverified review. A user may review a product once.
func (s *ReviewService) Create(ctx context.Context, user *models.User, productID uint, in ReviewInput) (*models.Review, repository.RatingSummary, error) {
	if !models.ValidRating(in.Rating) {
		return nil, repository.RatingSummary{}, models.ErrInvalidRating
	}

	review := &models.Review{
		ProductID:  productID,
		UserID:     user.ID,
		AuthorName: authorName(user),
		Rating:     in.Rating,
		Title:      strings.TrimSpace(in.Title),
		Comment:    strings.TrimSpace(in.Comment),
		IsActive:   true,
		IsVerified: false,
	}

	var summary repository.RatingSummary
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		reviews := repository.NewReviewRepository(tx)
		if _, err := repository.NewCatalogRepository(tx).FindActiveProduct(ctx, productID); err != nil {
			return err
		}
		exists, err := reviews.ExistsForUser(ctx, user.ID, productID)
		if err != nil {
			return err
		}
		if exists {
			return models.ErrDuplicateReview
		}
		if err := reviews.Create(ctx, review); err != nil {
			return err
		}
		summary, err = reviews.RecomputeProductRating(ctx, productID)
		return err
	})
	if err != nil {
		return nil, repository.RatingSummary{}, err
	}

	s.publish(ctx, events.New(events.ReviewCreated, review))
	s.publish(ctx, events.New(events.ProductRatingUpdated, summary))
	return review, summary, nil
}

// Update edits a review. Only its author or an admin may edit it.
func (s *ReviewService) Update(ctx context.Context, actor Actor, reviewID uint, patch ReviewPatch) (*models.Review, error) {
	if patch.Rating != nil && !models.ValidRating(*patch.Rating) {
		return nil, models.ErrInvalidRating
	}

	fields := map[string]interface{}{}
	if patch.Rating != nil {
		fields["rating"] = *patch.Rating
	}
	if patch.Title != nil {
		fields["title"] = strings.TrimSpace(*patch.Title)
	}
	if patch.Comment != nil {
		fields["comment"] = strings.TrimSpace(*patch.Comment)
	}

	return s.mutate(ctx, reviewID, func(reviews *repository.ReviewRepository, review *models.Review) error {
		if !actor.IsAdmin && review.UserID != actor.UserID {
			return models.ErrForbidden
		}
		if len(fields) == 0 {
			return nil
		}
		return reviews.Update(ctx, review.ID, fields)
	})
}

// Delete removes a review. Only its author or an admin may delete it.
func (s *ReviewService) Delete(ctx context.Context, actor Actor, reviewID uint) error {
	_, err := s.mutate(ctx, reviewID, func(reviews *repository.ReviewRepository, review *models.Review) error {
		if !actor.IsAdmin && review.UserID != actor.UserID {
			return models.ErrForbidden
		}
		return reviews.Delete(ctx, review.ID)
	})
	return err
}

// SetVerified marks a review verified or not. Verifying recomputes the product's rating;
// unverifying leaves it alone.
func (s *ReviewService) SetVerified(ctx context.Context, reviewID uint, verified bool) (*models.Review, error) {
	if !verified {
		reviews := repository.NewReviewRepository(s.db)
		review, err := reviews.FindByID(ctx, reviewID)
		if err != nil {
			return nil, err
		}
		if err := reviews.Update(ctx, reviewID, map[string]interface{}{"is_verified": false}); err != nil {
			return nil, err
		}
		review.IsVerified = false
		return review, nil
	}
	return s.mutate(ctx, reviewID, func(reviews *repository.ReviewRepository, review *models.Review) error {
		return reviews.Update(ctx, review.ID, map[string]interface{}{"is_verified": true})
	})
}

// SetActive shows or hides a review. Hidden reviews drop out of the rating aggregate.
func (s *ReviewService) SetActive(ctx context.Context, reviewID uint, active bool) (*models.Review, error) {
	return s.mutate(ctx, reviewID, func(reviews *repository.ReviewRepository, review *models.Review) error {
		return reviews.Update(ctx, review.ID, map[string]interface{}{"is_active": active})
	})
}

// mutate loads the review, applies change and recomputes the product's rating in one
// transaction. It returns the review as stored afterwards, or the pre-change copy if it was
// deleted.
func (s *ReviewService) mutate(ctx context.Context, reviewID uint, change func(*repository.ReviewRepository, *models.Review) error) (*models.Review, error) {
	var (
		result  *models.Review
		summary repository.RatingSummary
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		reviews := repository.NewReviewRepository(tx)
		review, err := reviews.FindByID(ctx, reviewID)
		if err != nil {
			return err
		}
		if err := change(reviews, review); err != nil {
			return err
		}

		result = review
		if fresh, err := reviews.FindByID(ctx, reviewID); err == nil {
			result = fresh
		}

		summary, err = reviews.RecomputeProductRating(ctx, review.ProductID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events.New(events.ProductRatingUpdated, summary))
	return result, nil
}

func (s *ReviewService) publish(ctx context.Context, evt events.Event) {
	if err := s.publisher.Publish(ctx, evt); err != nil {
		zap.L().Warn("publish event failed", zap.String("type", evt.Type), zap.Error(err))
	}
}

func authorName(user *models.User) string {
	if name := strings.TrimSpace(user.Name); name != "" {
		return name
	}
	if user.Email != "" {
		return strings.SplitN(user.Email, "@", 2)[0]
	}
	return "Anonymous"
}
