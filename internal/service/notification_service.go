package service

import (
	"go.uber.org/zap"

	"animal-market/internal/apperr"
	"animal-market/internal/domain"
)

type NotificationService struct {
	repo  domain.NotificationRepository
	users domain.UserRepository
	log   *zap.Logger
}

func NewNotificationService(repo domain.NotificationRepository, users domain.UserRepository, log *zap.Logger) *NotificationService {
	return &NotificationService{repo: repo, users: users, log: log}
}

// Dispatch 尽力而为：投递失败只记日志，绝不影响触发它的主流程
func (s *NotificationService) Dispatch(userID uint, typ, title, body, link string) {
	n := &domain.Notification{UserID: userID, Type: typ, Title: title, Body: body, Link: link}
	if err := s.repo.Create(n); err != nil {
		s.log.Warn("notification dispatch failed",
			zap.Uint("user_id", userID),
			zap.String("type", typ),
			zap.Error(err),
		)
	}
}

// Broadcast 公告发布后对全部未封禁用户扇出，同样尽力而为
func (s *NotificationService) Broadcast(title, body, link string) {
	ids, err := s.users.ListActiveIDs()
	if err != nil {
		s.log.Warn("broadcast skipped, list users failed", zap.Error(err))
		return
	}
	batch := make([]domain.Notification, 0, len(ids))
	for _, id := range ids {
		batch = append(batch, domain.Notification{
			UserID: id, Type: domain.NotifyAnnouncement, Title: title, Body: body, Link: link,
		})
	}
	if err := s.repo.CreateBatch(batch); err != nil {
		s.log.Warn("broadcast insert failed", zap.Int("count", len(batch)), zap.Error(err))
	}
}

func (s *NotificationService) Inbox(userID uint, unreadOnly bool, page, pageSize int) ([]domain.Notification, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}
	ns, total, err := s.repo.ListByUser(userID, unreadOnly, (page-1)*pageSize, pageSize)
	if err != nil {
		return nil, 0, apperr.Internal("list notifications failed", err)
	}
	return ns, total, nil
}

func (s *NotificationService) UnreadCount(userID uint) (int64, error) {
	n, err := s.repo.UnreadCount(userID)
	if err != nil {
		return 0, apperr.Internal("count notifications failed", err)
	}
	return n, nil
}

func (s *NotificationService) MarkRead(id, callerID uint) error {
	n, err := s.repo.FindByID(id)
	if err != nil {
		return apperr.Internal("load notification failed", err)
	}
	if n == nil {
		return apperr.NotFound("notification not found")
	}
	if n.UserID != callerID {
		return apperr.Forbidden("not allowed")
	}
	return s.repo.MarkRead(id)
}

func (s *NotificationService) MarkAllRead(userID uint) error {
	return s.repo.MarkAllRead(userID)
}

func (s *NotificationService) Delete(id, callerID uint) error {
	n, err := s.repo.FindByID(id)
	if err != nil {
		return apperr.Internal("load notification failed", err)
	}
	if n == nil {
		return apperr.NotFound("notification not found")
	}
	if n.UserID != callerID {
		return apperr.Forbidden("not allowed")
	}
	return s.repo.Delete(id)
}
