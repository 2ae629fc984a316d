package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"animal-market/internal/apperr"
	"animal-market/internal/core/cache"
	"animal-market/internal/domain"
	"animal-market/pkg/utils"
)

const (
	DefaultPageSize = 12
	MaxPageSize     = 50

	defaultRejectionReason = "Listing does not meet the marketplace guidelines"

	latestCacheTTL = 30 * time.Second
	latestDefaultN = 8
)

type ListingService struct {
	listings  domain.ListingRepository
	favorites domain.FavoriteRepository
	notify    *NotificationService
	cache     *cache.Cache // 可为 nil（测试/降级）
	log       *zap.Logger
	maxImages int
}

func NewListingService(
	listings domain.ListingRepository,
	favorites domain.FavoriteRepository,
	notify *NotificationService,
	c *cache.Cache,
	log *zap.Logger,
	maxImages int,
) *ListingService {
	if maxImages <= 0 {
		maxImages = 6
	}
	return &ListingService{
		listings: listings, favorites: favorites,
		notify: notify, cache: c, log: log, maxImages: maxImages,
	}
}

// Discover 检索管道：filter → sort → paginate，一个入口，便捷接口都在其上封装。
// adminMode=false 时强制只看已审核通过的。
func (s *ListingService) Discover(f domain.ListingFilter, sort string, page, pageSize int, adminMode bool) ([]domain.Listing, int64, error) {
	if !adminMode {
		f.Status = domain.StatusApproved
	}
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}
	items, total, err := s.listings.Search(f, sort, (page-1)*pageSize, pageSize)
	if err != nil {
		return nil, 0, apperr.Internal("search listings failed", err)
	}
	if items == nil {
		items = []domain.Listing{}
	}
	return items, total, nil
}

// Latest 最近 N 条，走短 TTL 缓存
func (s *ListingService) Latest(ctx context.Context, n int) ([]domain.Listing, error) {
	if n <= 0 || n > MaxPageSize {
		n = latestDefaultN
	}
	load := func(context.Context) (*[]domain.Listing, error) {
		items, _, err := s.Discover(domain.ListingFilter{}, domain.SortNewest, 1, n, false)
		if err != nil {
			return nil, err
		}
		return &items, nil
	}
	if s.cache == nil {
		out, err := load(ctx)
		if err != nil {
			return nil, err
		}
		return *out, nil
	}
	key := fmt.Sprintf("listings:latest:%d", n)
	out, err := cache.GetOrLoadJSON(s.cache, ctx, key, latestCacheTTL, load)
	if err != nil {
		return nil, err
	}
	if out == nil {
		return []domain.Listing{}, nil
	}
	return *out, nil
}

// PublicBySlug 公开详情：未过审一律按不存在处理
func (s *ListingService) PublicBySlug(slug string) (*domain.Listing, error) {
	l, err := s.listings.FindBySlug(slug)
	if err != nil {
		return nil, apperr.Internal("load listing failed", err)
	}
	if l == nil || l.Status != domain.StatusApproved {
		return nil, apperr.NotFound("listing not found")
	}
	return l, nil
}

// Get 本人 / 管理端可以看任意状态
func (s *ListingService) Get(id, callerID uint, callerRole string) (*domain.Listing, error) {
	l, err := s.listings.FindByID(id)
	if err != nil {
		return nil, apperr.Internal("load listing failed", err)
	}
	if l == nil {
		return nil, apperr.NotFound("listing not found")
	}
	if l.Status != domain.StatusApproved {
		if err := AssertOwnerOrRole(l.SellerID, callerID, callerRole, domain.RoleAdmin, domain.RoleModerator); err != nil {
			return nil, apperr.NotFound("listing not found")
		}
	}
	return l, nil
}

type ListingInput struct {
	Title       string  `json:"title" binding:"required,max=128"`
	Description string  `json:"description"`
	Species     string  `json:"species" binding:"required,max=32"`
	Breed       string  `json:"breed" binding:"max=64"`
	Gender      string  `json:"gender" binding:"max=16"`
	AgeMonths   int     `json:"ageMonths" binding:"gte=0"`
	Price       float64 `json:"price" binding:"gte=0"`
	Currency    string  `json:"currency" binding:"max=8"`
	Country     string  `json:"country" binding:"max=64"`
	City        string  `json:"city" binding:"max=64"`
}

// Create 新建强制 pending，slug 冲突自动加后缀
func (s *ListingService) Create(sellerID uint, in ListingInput) (*domain.Listing, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, apperr.BadRequest("title is required")
	}
	slug, err := s.uniqueSlug(utils.Slugify(title))
	if err != nil {
		return nil, err
	}
	l := &domain.Listing{
		SellerID:     sellerID,
		Title:        title,
		Slug:         slug,
		Description:  in.Description,
		Species:      strings.ToLower(strings.TrimSpace(in.Species)),
		Breed:        strings.TrimSpace(in.Breed),
		Gender:       strings.ToLower(strings.TrimSpace(in.Gender)),
		AgeMonths:    in.AgeMonths,
		Price:        in.Price,
		Currency:     strings.ToUpper(strings.TrimSpace(in.Currency)),
		Country:      strings.TrimSpace(in.Country),
		City:         strings.TrimSpace(in.City),
		Status:       domain.StatusPending,
		Availability: domain.AvailabilityAvailable,
	}
	if l.Currency == "" {
		l.Currency = "EUR"
	}
	if err := s.listings.Create(l); err != nil {
		return nil, apperr.Internal("create listing failed", err)
	}
	return l, nil
}

func (s *ListingService) uniqueSlug(base string) (string, error) {
	if base == "" {
		base = "listing"
	}
	slug := base
	for i := 1; ; i++ {
		exists, err := s.listings.SlugExists(slug)
		if err != nil {
			return "", apperr.Internal("slug check failed", err)
		}
		if !exists {
			return slug, nil
		}
		slug = fmt.Sprintf("%s-%d", base, i)
	}
}

// Update 内容字段仅限卖家本人
func (s *ListingService) Update(id, callerID uint, callerRole string, in ListingInput) (*domain.Listing, error) {
	l, err := s.mustLoad(id)
	if err != nil {
		return nil, err
	}
	if err := AssertOwnerOrRole(l.SellerID, callerID, callerRole); err != nil {
		return nil, err
	}
	if t := strings.TrimSpace(in.Title); t != "" {
		l.Title = t
	}
	l.Description = in.Description
	if sp := strings.TrimSpace(in.Species); sp != "" {
		l.Species = strings.ToLower(sp)
	}
	l.Breed = strings.TrimSpace(in.Breed)
	l.Gender = strings.ToLower(strings.TrimSpace(in.Gender))
	l.AgeMonths = in.AgeMonths
	l.Price = in.Price
	if c := strings.ToUpper(strings.TrimSpace(in.Currency)); c != "" {
		l.Currency = c
	}
	l.Country = strings.TrimSpace(in.Country)
	l.City = strings.TrimSpace(in.City)
	if err := s.listings.Update(l); err != nil {
		return nil, apperr.Internal("update listing failed", err)
	}
	return l, nil
}

func (s *ListingService) SetAvailability(id, callerID uint, callerRole, availability string) error {
	switch availability {
	case domain.AvailabilityAvailable, domain.AvailabilityReserved,
		domain.AvailabilitySold, domain.AvailabilityAdopted:
	default:
		return apperr.BadRequest("invalid availability")
	}
	l, err := s.mustLoad(id)
	if err != nil {
		return err
	}
	if err := AssertOwnerOrRole(l.SellerID, callerID, callerRole); err != nil {
		return err
	}
	return s.listings.UpdateAvailability(id, availability)
}

// Delete 本人或 admin；连带图片行与收藏，文件 URL 返回给调用方清理
func (s *ListingService) Delete(id, callerID uint, callerRole string) ([]string, error) {
	l, err := s.mustLoad(id)
	if err != nil {
		return nil, err
	}
	if err := AssertOwnerOrRole(l.SellerID, callerID, callerRole, domain.RoleAdmin); err != nil {
		return nil, err
	}
	urls := make([]string, 0, len(l.Images))
	for _, img := range l.Images {
		urls = append(urls, img.URL)
	}
	if err := s.listings.Delete(id); err != nil {
		return nil, apperr.Internal("delete listing failed", err)
	}
	if err := s.favorites.DeleteByListing(id); err != nil {
		s.log.Warn("favorite cleanup failed", zap.Uint("listing_id", id), zap.Error(err))
	}
	s.invalidateLatest()
	return urls, nil
}

// View 浏览计数：本人浏览不计；失败只记日志
func (s *ListingService) View(id, viewerID uint) {
	l, err := s.listings.FindByID(id)
	if err != nil || l == nil {
		return
	}
	if viewerID != 0 && viewerID == l.SellerID {
		return
	}
	if err := s.listings.IncrementViews(id); err != nil {
		s.log.Warn("view increment failed", zap.Uint("listing_id", id), zap.Error(err))
	}
}

// ---- 审核状态机：pending→approved/rejected，approved↔rejected 均可复审 ----

func (s *ListingService) Approve(id uint) (*domain.Listing, error) {
	l, err := s.mustLoad(id)
	if err != nil {
		return nil, err
	}
	// 通过时清掉历史驳回原因
	if err := s.listings.UpdateStatus(id, domain.StatusApproved, ""); err != nil {
		return nil, apperr.Internal("approve failed", err)
	}
	l.Status = domain.StatusApproved
	l.RejectionReason = ""
	s.invalidateLatest()
	s.notify.Dispatch(l.SellerID, domain.NotifyListingApproved,
		"Listing approved", fmt.Sprintf("Your listing %q is now live.", l.Title),
		"/animals/"+l.Slug)
	return l, nil
}

func (s *ListingService) Reject(id uint, reason string) (*domain.Listing, error) {
	l, err := s.mustLoad(id)
	if err != nil {
		return nil, err
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		reason = defaultRejectionReason
	}
	if err := s.listings.UpdateStatus(id, domain.StatusRejected, reason); err != nil {
		return nil, apperr.Internal("reject failed", err)
	}
	l.Status = domain.StatusRejected
	l.RejectionReason = reason
	s.invalidateLatest()
	s.notify.Dispatch(l.SellerID, domain.NotifyListingRejected,
		"Listing rejected", fmt.Sprintf("Your listing %q was rejected: %s", l.Title, reason),
		"/my-listings")
	return l, nil
}

// ---- 图片 ----

func (s *ListingService) AddImage(listingID, callerID uint, callerRole, url string, position int) (*domain.ListingImage, error) {
	l, err := s.mustLoad(listingID)
	if err != nil {
		return nil, err
	}
	if err := AssertOwnerOrRole(l.SellerID, callerID, callerRole); err != nil {
		return nil, err
	}
	n, err := s.listings.ImageCount(listingID)
	if err != nil {
		return nil, apperr.Internal("count images failed", err)
	}
	if int(n) >= s.maxImages {
		return nil, apperr.BadRequest(fmt.Sprintf("at most %d images per listing", s.maxImages))
	}
	img := &domain.ListingImage{ListingID: listingID, URL: url, Position: position}
	if err := s.listings.AddImage(img); err != nil {
		return nil, apperr.Internal("save image failed", err)
	}
	return img, nil
}

func (s *ListingService) DeleteImage(listingID, imageID, callerID uint, callerRole string) (string, error) {
	l, err := s.mustLoad(listingID)
	if err != nil {
		return "", err
	}
	if err := AssertOwnerOrRole(l.SellerID, callerID, callerRole, domain.RoleAdmin); err != nil {
		return "", err
	}
	img, err := s.listings.FindImage(imageID)
	if err != nil {
		return "", apperr.Internal("load image failed", err)
	}
	if img == nil || img.ListingID != listingID {
		return "", apperr.NotFound("image not found")
	}
	if err := s.listings.DeleteImage(imageID); err != nil {
		return "", apperr.Internal("delete image failed", err)
	}
	return img.URL, nil
}

func (s *ListingService) MaxImages() int { return s.maxImages }

// invalidateLatest 上架面貌变化时主动失效首页缓存，等 TTL 也行，这样更快
func (s *ListingService) invalidateLatest() {
	if s.cache == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := s.cache.Del(ctx, fmt.Sprintf("listings:latest:%d", latestDefaultN)); err != nil {
		s.log.Warn("latest cache invalidate failed", zap.Error(err))
	}
}

func (s *ListingService) mustLoad(id uint) (*domain.Listing, error) {
	l, err := s.listings.FindByID(id)
	if err != nil {
		return nil, apperr.Internal("load listing failed", err)
	}
	if l == nil {
		return nil, apperr.NotFound("listing not found")
	}
	return l, nil
}
