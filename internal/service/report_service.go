package service

import (
	"strings"

	"animal-market/internal/apperr"
	"animal-market/internal/domain"
)

type ReportService struct {
	reports  domain.ReportRepository
	listings domain.ListingRepository
}

func NewReportService(reports domain.ReportRepository, listings domain.ListingRepository) *ReportService {
	return &ReportService{reports: reports, listings: listings}
}

// Create reporterID 为 nil 表示游客举报
func (s *ReportService) Create(listingID uint, reporterID *uint, reason string) (*domain.Report, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, apperr.BadRequest("reason is required")
	}
	l, err := s.listings.FindByID(listingID)
	if err != nil {
		return nil, apperr.Internal("load listing failed", err)
	}
	if l == nil {
		return nil, apperr.NotFound("listing not found")
	}
	r := &domain.Report{
		ListingID:  listingID,
		ReporterID: reporterID,
		Reason:     reason,
		Status:     domain.ReportOpen,
	}
	if err := s.reports.Create(r); err != nil {
		return nil, apperr.Internal("create report failed", err)
	}
	return r, nil
}

func (s *ReportService) List(status string, page, pageSize int) ([]domain.Report, int64, error) {
	switch status {
	case "", domain.ReportOpen, domain.ReportReviewing, domain.ReportClosed:
	default:
		return nil, 0, apperr.BadRequest("invalid status")
	}
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}
	rs, total, err := s.reports.List(status, (page-1)*pageSize, pageSize)
	if err != nil {
		return nil, 0, apperr.Internal("list reports failed", err)
	}
	return rs, total, nil
}

func (s *ReportService) StartReview(id uint) error {
	return s.transition(id, domain.ReportReviewing, "")
}

func (s *ReportService) Close(id uint, resolution string) error {
	return s.transition(id, domain.ReportClosed, strings.TrimSpace(resolution))
}

// Reject / Dismiss 行为上都关单；dismiss 额外盖 resolution 标记，
// 两个入口保留，等产品定夺是否需要独立的 dismissed 状态。
func (s *ReportService) Reject(id uint) error {
	return s.transition(id, domain.ReportClosed, "rejected")
}

func (s *ReportService) Dismiss(id uint) error {
	return s.transition(id, domain.ReportClosed, "dismissed")
}

func (s *ReportService) transition(id uint, status, resolution string) error {
	r, err := s.reports.FindByID(id)
	if err != nil {
		return apperr.Internal("load report failed", err)
	}
	if r == nil {
		return apperr.NotFound("report not found")
	}
	if err := s.reports.UpdateStatus(id, status, resolution); err != nil {
		return apperr.Internal("update report failed", err)
	}
	return nil
}
