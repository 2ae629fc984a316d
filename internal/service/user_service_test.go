package service

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"animal-market/internal/core/auth"
	"animal-market/internal/domain"
	"animal-market/internal/repo"
)

func TestRegisterAndLogin(t *testing.T) {
	db := newTestDB(t)
	svc := newUserSvc(db)

	res, err := svc.Register("Alice@X.IO", "s3cret", "Alice", "NL", "Utrecht")
	require.NoError(t, err)
	require.NotEmpty(t, res.Token)
	require.Equal(t, "alice@x.io", res.User.Email) // 邮箱统一小写
	require.Equal(t, domain.RoleUser, res.User.Role)

	_, err = svc.Register("alice@x.io", "other", "Alice2", "", "")
	require.Equal(t, http.StatusBadRequest, errCode(t, err))

	logged, err := svc.Login("ALICE@x.io", "s3cret")
	require.NoError(t, err)
	require.Equal(t, res.User.ID, logged.User.ID)

	_, err = svc.Login("alice@x.io", "wrong")
	require.Equal(t, http.StatusUnauthorized, errCode(t, err))
	_, err = svc.Login("nobody@x.io", "s3cret")
	require.Equal(t, http.StatusUnauthorized, errCode(t, err))
}

// blindEmailRepo 前 misses 次 FindByEmail 查不到，模拟两次并发注册
// 都通过了预查、由唯一索引兜底的场景
type blindEmailRepo struct {
	domain.UserRepository
	misses int
}

func (r *blindEmailRepo) FindByEmail(email string) (*domain.User, error) {
	if r.misses > 0 {
		r.misses--
		return nil, nil
	}
	return r.UserRepository.FindByEmail(email)
}

func TestRegister_ConcurrentDuplicateEmail(t *testing.T) {
	db := newTestDB(t)

	_, err := newUserSvc(db).Register("dup@x.io", "pw", "First", "", "")
	require.NoError(t, err)

	jwter := &auth.JWTer{Secret: []byte("test-secret"), Issuer: "test", TTL: time.Hour}
	raced := NewUserService(
		&blindEmailRepo{UserRepository: repo.NewUserRepo(db), misses: 1},
		repo.NewRatingRepo(db), jwter)
	_, err = raced.Register("dup@x.io", "pw2", "Second", "", "")
	require.Equal(t, http.StatusBadRequest, errCode(t, err))
	require.Contains(t, err.Error(), "already registered")
}

func TestLogin_BannedAccount(t *testing.T) {
	db := newTestDB(t)
	svc := newUserSvc(db)

	res, err := svc.Register("bad@x.io", "pw", "Bad", "", "")
	require.NoError(t, err)
	require.NoError(t, svc.SetBanned(res.User.ID, true))

	_, err = svc.Login("bad@x.io", "pw")
	require.Equal(t, http.StatusForbidden, errCode(t, err))
}

func TestChangePassword(t *testing.T) {
	db := newTestDB(t)
	svc := newUserSvc(db)

	res, err := svc.Register("u@x.io", "old-pw", "U", "", "")
	require.NoError(t, err)

	err = svc.ChangePassword(res.User.ID, "wrong", "new-pw")
	require.Equal(t, http.StatusBadRequest, errCode(t, err))

	require.NoError(t, svc.ChangePassword(res.User.ID, "old-pw", "new-pw"))
	_, err = svc.Login("u@x.io", "old-pw")
	require.Equal(t, http.StatusUnauthorized, errCode(t, err))
	_, err = svc.Login("u@x.io", "new-pw")
	require.NoError(t, err)
}

func TestUpdateProfile_PartialFields(t *testing.T) {
	db := newTestDB(t)
	svc := newUserSvc(db)

	res, err := svc.Register("u@x.io", "pw", "Before", "NL", "Utrecht")
	require.NoError(t, err)

	name := "After"
	u, err := svc.UpdateProfile(res.User.ID, ProfileUpdate{DisplayName: &name})
	require.NoError(t, err)
	require.Equal(t, "After", u.DisplayName)
	require.Equal(t, "Utrecht", u.City) // 未提交的字段不动

	empty := "  "
	_, err = svc.UpdateProfile(res.User.ID, ProfileUpdate{DisplayName: &empty})
	require.Equal(t, http.StatusBadRequest, errCode(t, err))
}

func TestPublicProfile_IncludesRating(t *testing.T) {
	db := newTestDB(t)
	svc := newUserSvc(db)
	ratings := newRatingSvc(db)

	seller, err := svc.Register("seller@x.io", "pw", "Seller", "", "")
	require.NoError(t, err)
	buyer, err := svc.Register("buyer@x.io", "pw", "Buyer", "", "")
	require.NoError(t, err)

	_, err = ratings.Rate(buyer.User.ID, seller.User.ID, 4, "smooth deal")
	require.NoError(t, err)

	p, err := svc.PublicProfile(seller.User.ID)
	require.NoError(t, err)
	require.Equal(t, "Seller", p.DisplayName)
	require.EqualValues(t, 1, p.Rating.Count)
	require.InDelta(t, 4.0, p.Rating.Average, 0.001)

	_, err = svc.PublicProfile(424242)
	require.Equal(t, http.StatusNotFound, errCode(t, err))
}

func TestSetRole_Validates(t *testing.T) {
	db := newTestDB(t)
	svc := newUserSvc(db)

	res, err := svc.Register("u@x.io", "pw", "U", "", "")
	require.NoError(t, err)

	require.Equal(t, http.StatusBadRequest, errCode(t, svc.SetRole(res.User.ID, "superuser")))
	require.NoError(t, svc.SetRole(res.User.ID, domain.RoleModerator))

	u, err := svc.Me(res.User.ID)
	require.NoError(t, err)
	require.Equal(t, domain.RoleModerator, u.Role)
}
