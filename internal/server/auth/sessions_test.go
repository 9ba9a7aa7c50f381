package auth

import (
	"testing"
	"time"

	"github.com/dmitrijs2005/severity/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessions_IssueVerifyRevoke(t *testing.T) {
	s := NewSessions([]byte("k"), time.Hour)
	assert.Equal(t, time.Hour, s.Validity())

	tok, issued, err := s.Issue(7, "sari")
	require.NoError(t, err)

	claims, err := s.Verify(tok)
	require.NoError(t, err)
	assert.Equal(t, int64(7), claims.UserID)

	other, _, err := s.Issue(7, "sari")
	require.NoError(t, err)

	s.Revoke(issued)

	_, err = s.Verify(tok)
	assert.ErrorIs(t, err, common.ErrTokenRevoked)

	// other sessions of the same user stay valid
	_, err = s.Verify(other)
	assert.NoError(t, err)
}

func TestSessions_RevokeNil(t *testing.T) {
	s := NewSessions([]byte("k"), time.Hour)
	assert.NotPanics(t, func() {
		s.Revoke(nil)
		s.Revoke(&Claims{})
	})
}

func TestSessions_Expired(t *testing.T) {
	s := NewSessions([]byte("k"), -time.Second)
	tok, _, err := s.Issue(1, "x")
	require.NoError(t, err)

	_, err = s.Verify(tok)
	assert.ErrorIs(t, err, common.ErrTokenExpired)
}
