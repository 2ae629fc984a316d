package service

import (
	"strings"

	"animal-market/internal/apperr"
	"animal-market/internal/domain"
)

type RatingService struct {
	ratings domain.RatingRepository
	users   domain.UserRepository
}

func NewRatingService(ratings domain.RatingRepository, users domain.UserRepository) *RatingService {
	return &RatingService{ratings: ratings, users: users}
}

// Rate upsert 语义：重复评分覆盖旧值；禁止自评
func (s *RatingService) Rate(raterID, ratedID uint, value int, review string) (*domain.Rating, error) {
	if raterID == ratedID {
		return nil, apperr.BadRequest("you cannot rate yourself")
	}
	if value < 1 || value > 5 {
		return nil, apperr.BadRequest("rating value must be between 1 and 5")
	}
	rated, err := s.users.FindByID(ratedID)
	if err != nil {
		return nil, apperr.Internal("lookup user failed", err)
	}
	if rated == nil {
		return nil, apperr.NotFound("user not found")
	}
	r := &domain.Rating{
		RaterID: raterID,
		RatedID: ratedID,
		Value:   value,
		Review:  strings.TrimSpace(review),
	}
	if err := s.ratings.Upsert(r); err != nil {
		return nil, apperr.Internal("save rating failed", err)
	}
	// upsert 可能没回填 id，读一次保证返回最终行
	saved, err := s.ratings.Find(raterID, ratedID)
	if err != nil || saved == nil {
		return r, nil
	}
	return saved, nil
}

func (s *RatingService) ListFor(ratedID uint) ([]domain.Rating, error) {
	rs, err := s.ratings.ListByRated(ratedID)
	if err != nil {
		return nil, apperr.Internal("list ratings failed", err)
	}
	if rs == nil {
		rs = []domain.Rating{}
	}
	return rs, nil
}

func (s *RatingService) AggregateFor(ratedID uint) (domain.RatingAggregate, error) {
	agg, err := s.ratings.Aggregate(ratedID)
	if err != nil {
		return domain.RatingAggregate{}, apperr.Internal("rating aggregate failed", err)
	}
	return agg, nil
}

// Remove 撤回自己打过的分
func (s *RatingService) Remove(raterID, ratedID uint) error {
	r, err := s.ratings.Find(raterID, ratedID)
	if err != nil {
		return apperr.Internal("lookup rating failed", err)
	}
	if r == nil {
		return apperr.NotFound("rating not found")
	}
	return s.ratings.Delete(raterID, ratedID)
}
