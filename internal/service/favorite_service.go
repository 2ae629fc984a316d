package service

import (
	"animal-market/internal/apperr"
	"animal-market/internal/domain"
)

type FavoriteService struct {
	favorites domain.FavoriteRepository
	listings  domain.ListingRepository
}

func NewFavoriteService(favorites domain.FavoriteRepository, listings domain.ListingRepository) *FavoriteService {
	return &FavoriteService{favorites: favorites, listings: listings}
}

type FavoriteResult struct {
	Favorited        bool `json:"favorited"`
	AlreadyFavorited bool `json:"alreadyFavorited,omitempty"`
}

// Add 已存在时返回 alreadyFavorited=true，不产生重复行
func (s *FavoriteService) Add(userID, listingID uint) (*FavoriteResult, error) {
	l, err := s.listings.FindByID(listingID)
	if err != nil {
		return nil, apperr.Internal("load listing failed", err)
	}
	if l == nil {
		return nil, apperr.NotFound("listing not found")
	}
	exists, err := s.favorites.Exists(userID, listingID)
	if err != nil {
		return nil, apperr.Internal("favorite lookup failed", err)
	}
	if exists {
		return &FavoriteResult{Favorited: true, AlreadyFavorited: true}, nil
	}
	if err := s.favorites.Create(&domain.Favorite{UserID: userID, ListingID: listingID}); err != nil {
		if isDupKey(err) {
			// 并发重复点击，按已收藏处理
			return &FavoriteResult{Favorited: true, AlreadyFavorited: true}, nil
		}
		return nil, apperr.Internal("create favorite failed", err)
	}
	return &FavoriteResult{Favorited: true}, nil
}

// Remove 幂等：不存在也算成功
func (s *FavoriteService) Remove(userID, listingID uint) error {
	if err := s.favorites.Delete(userID, listingID); err != nil {
		return apperr.Internal("delete favorite failed", err)
	}
	return nil
}

func (s *FavoriteService) IsFavorited(userID, listingID uint) (bool, error) {
	ok, err := s.favorites.Exists(userID, listingID)
	if err != nil {
		return false, apperr.Internal("favorite lookup failed", err)
	}
	return ok, nil
}

func (s *FavoriteService) List(userID uint) ([]domain.Favorite, error) {
	fs, err := s.favorites.ListByUser(userID)
	if err != nil {
		return nil, apperr.Internal("list favorites failed", err)
	}
	if fs == nil {
		fs = []domain.Favorite{}
	}
	return fs, nil
}
