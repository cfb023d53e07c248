package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	_, err := New("")
	require.Error(t, err)

	j, err := New("test-secret")
	require.NoError(t, err)
	require.NotNil(t, j)
}

func TestSignAndParse(t *testing.T) {
	j, err := New("test-secret")
	require.NoError(t, err)

	expires := time.Now().Add(time.Hour).Unix()
	token, err := j.SignToken(&User{ID: 42, IsAdmin: true, Expires: expires})
	require.NoError(t, err)
	require.NotEmpty(t, token)

	user, err := j.ParseUser(token)
	require.NoError(t, err)
	require.Equal(t, uint(42), user.ID)
	require.True(t, user.IsAdmin)
	require.Equal(t, expires, user.Expires)
}

func TestParseExpired(t *testing.T) {
	j, err := New("test-secret")
	require.NoError(t, err)

	token, err := j.SignToken(&User{ID: 1, Expires: time.Now().Add(-time.Hour).Unix()})
	require.NoError(t, err)

	_, err = j.ParseUser(token)
	require.Error(t, err)
}

func TestParseWrongKey(t *testing.T) {
	j1, err := New("secret-one")
	require.NoError(t, err)
	j2, err := New("secret-two")
	require.NoError(t, err)

	token, err := j1.SignToken(&User{ID: 1, Expires: time.Now().Add(time.Hour).Unix()})
	require.NoError(t, err)

	_, err = j2.ParseUser(token)
	require.Error(t, err)
}

func TestParseEmpty(t *testing.T) {
	j, err := New("test-secret")
	require.NoError(t, err)

	_, err = j.ParseUser("")
	require.Error(t, err)

	_, err = j.ParseUser("not-a-token")
	require.Error(t, err)
}
