package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestIssueAndParse(t *testing.T) {
	j := &JWTer{Secret: []byte("test-secret"), Issuer: "animal-market", TTL: time.Hour}

	tok, err := j.Issue(42, "moderator", false)
	require.NoError(t, err)
	require.NotEmpty(t, tok)

	c, err := j.Parse(tok)
	require.NoError(t, err)
	require.EqualValues(t, 42, c.UID)
	require.Equal(t, "moderator", c.Role)
	require.False(t, c.Banned)
}

func TestParse_WrongSecret(t *testing.T) {
	j := &JWTer{Secret: []byte("right"), Issuer: "animal-market", TTL: time.Hour}
	tok, err := j.Issue(1, "user", false)
	require.NoError(t, err)

	forged := &JWTer{Secret: []byte("wrong"), Issuer: "animal-market", TTL: time.Hour}
	_, err = forged.Parse(tok)
	require.Error(t, err)
}

func TestParse_WrongIssuer(t *testing.T) {
	other := &JWTer{Secret: []byte("s"), Issuer: "someone-else", TTL: time.Hour}
	tok, err := other.Issue(1, "user", false)
	require.NoError(t, err)

	j := &JWTer{Secret: []byte("s"), Issuer: "animal-market", TTL: time.Hour}
	_, err = j.Parse(tok)
	require.Error(t, err)
}

func TestParse_Expired(t *testing.T) {
	j := &JWTer{Secret: []byte("s"), Issuer: "animal-market", TTL: -2 * time.Minute}
	tok, err := j.Issue(1, "user", false)
	require.NoError(t, err)

	// 过期在 60s 宽限之外
	_, err = j.Parse(tok)
	require.Error(t, err)
}

func TestBannedFlagRoundTrips(t *testing.T) {
	j := &JWTer{Secret: []byte("s"), Issuer: "animal-market", TTL: time.Hour}
	tok, err := j.Issue(7, "user", true)
	require.NoError(t, err)

	c, err := j.Parse(tok)
	require.NoError(t, err)
	require.True(t, c.Banned)
}
