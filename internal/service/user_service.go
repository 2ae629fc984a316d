package service

import (
	"strings"

	"animal-market/internal/apperr"
	"animal-market/internal/core/auth"
	"animal-market/internal/domain"
	"animal-market/pkg/utils"
)

type UserService struct {
	users   domain.UserRepository
	ratings domain.RatingRepository
	jwter   *auth.JWTer
}

func NewUserService(users domain.UserRepository, ratings domain.RatingRepository, jwter *auth.JWTer) *UserService {
	return &UserService{users: users, ratings: ratings, jwter: jwter}
}

type AuthResult struct {
	Token string      `json:"token"`
	User  domain.User `json:"user"`
}

func (s *UserService) Register(email, password, displayName, country, city string) (*AuthResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	displayName = strings.TrimSpace(displayName)
	if email == "" || password == "" || displayName == "" {
		return nil, apperr.BadRequest("email, password and displayName are required")
	}
	if existing, err := s.users.FindByEmail(email); err != nil {
		return nil, apperr.Internal("lookup user failed", err)
	} else if existing != nil {
		return nil, apperr.BadRequest("email already registered")
	}
	u := &domain.User{
		Email:        email,
		PasswordHash: utils.HashPassword(password),
		DisplayName:  displayName,
		Country:      strings.TrimSpace(country),
		City:         strings.TrimSpace(city),
		Role:         domain.RoleUser,
	}
	if err := s.users.Create(u); err != nil {
		// 预查和写入之间另一个请求先注册了同邮箱
		if isDupKey(err) {
			return nil, apperr.BadRequest("email already registered")
		}
		return nil, apperr.Internal("create user failed", err)
	}
	return s.issue(u)
}

func (s *UserService) Login(email, password string) (*AuthResult, error) {
	u, err := s.users.FindByEmail(strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return nil, apperr.Internal("lookup user failed", err)
	}
	if u == nil || !utils.CheckPassword(password, u.PasswordHash) {
		return nil, apperr.Unauthorized("invalid credentials")
	}
	if u.Banned {
		return nil, apperr.Forbidden("account banned")
	}
	return s.issue(u)
}

func (s *UserService) issue(u *domain.User) (*AuthResult, error) {
	tok, err := s.jwter.Issue(u.ID, u.Role, u.Banned)
	if err != nil || tok == "" {
		return nil, apperr.Internal("issue token failed", err)
	}
	return &AuthResult{Token: tok, User: *u}, nil
}

func (s *UserService) Me(id uint) (*domain.User, error) {
	u, err := s.users.FindByID(id)
	if err != nil {
		return nil, apperr.Internal("load user failed", err)
	}
	if u == nil {
		return nil, apperr.NotFound("user not found")
	}
	return u, nil
}

func (s *UserService) ChangePassword(id uint, current, next string) error {
	if strings.TrimSpace(next) == "" {
		return apperr.BadRequest("new password is required")
	}
	u, err := s.Me(id)
	if err != nil {
		return err
	}
	if !utils.CheckPassword(current, u.PasswordHash) {
		return apperr.BadRequest("current password is wrong")
	}
	u.PasswordHash = utils.HashPassword(next)
	if err := s.users.Update(u); err != nil {
		return apperr.Internal("update password failed", err)
	}
	return nil
}

type ProfileUpdate struct {
	DisplayName *string `json:"displayName"`
	Country     *string `json:"country"`
	City        *string `json:"city"`
	Avatar      *string `json:"avatar"`
}

func (s *UserService) UpdateProfile(id uint, in ProfileUpdate) (*domain.User, error) {
	u, err := s.Me(id)
	if err != nil {
		return nil, err
	}
	if in.DisplayName != nil {
		if strings.TrimSpace(*in.DisplayName) == "" {
			return nil, apperr.BadRequest("displayName cannot be empty")
		}
		u.DisplayName = strings.TrimSpace(*in.DisplayName)
	}
	if in.Country != nil {
		u.Country = strings.TrimSpace(*in.Country)
	}
	if in.City != nil {
		u.City = strings.TrimSpace(*in.City)
	}
	if in.Avatar != nil {
		u.Avatar = *in.Avatar
	}
	if err := s.users.Update(u); err != nil {
		return nil, apperr.Internal("update profile failed", err)
	}
	return u, nil
}

type PublicProfile struct {
	domain.PublicUser
	Rating domain.RatingAggregate `json:"rating"`
}

func (s *UserService) PublicProfile(id uint) (*PublicProfile, error) {
	u, err := s.Me(id)
	if err != nil {
		return nil, err
	}
	agg, err := s.ratings.Aggregate(id)
	if err != nil {
		return nil, apperr.Internal("rating aggregate failed", err)
	}
	return &PublicProfile{PublicUser: u.Public(), Rating: agg}, nil
}

// ---- 管理端 ----

func (s *UserService) AdminList(q string, page, pageSize int) ([]domain.User, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}
	us, total, err := s.users.List(q, (page-1)*pageSize, pageSize)
	if err != nil {
		return nil, 0, apperr.Internal("list users failed", err)
	}
	return us, total, nil
}

func (s *UserService) SetRole(id uint, role string) error {
	switch role {
	case domain.RoleUser, domain.RoleModerator, domain.RoleAdmin:
	default:
		return apperr.BadRequest("invalid role")
	}
	u, err := s.Me(id)
	if err != nil {
		return err
	}
	return s.users.UpdateRole(u.ID, role)
}

func (s *UserService) SetBanned(id uint, banned bool) error {
	u, err := s.Me(id)
	if err != nil {
		return err
	}
	return s.users.SetBanned(u.ID, banned)
}
