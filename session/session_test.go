package session

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "session.yaml")
	s := NewFileStore(path)

	token, err := s.Token()
	require.NoError(t, err)
	assert.Empty(t, token, "missing file means no token")

	require.NoError(t, s.SetToken("abc.def"))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	token, err = NewFileStore(path).Token()
	require.NoError(t, err)
	assert.Equal(t, "abc.def", token)

	require.NoError(t, s.ClearToken())
	token, err = s.Token()
	require.NoError(t, err)
	assert.Empty(t, token)

	require.NoError(t, s.ClearToken(), "clearing twice is fine")
}

func TestFileStoreInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.yaml")
	require.NoError(t, os.WriteFile(path, []byte("token: [unclosed"), 0o600))

	_, err := NewFileStore(path).Token()
	assert.ErrorContains(t, err, "invalid session file")
}

func TestMemoryStore(t *testing.T) {
	m := NewMemoryStore("t1")
	token, _ := m.Token()
	assert.Equal(t, "t1", token)

	require.NoError(t, m.ClearToken())
	token, _ = m.Token()
	assert.Empty(t, token)
}

func TestRouter(t *testing.T) {
	r := NewRouter()
	assert.Equal(t, RouteDashboard, r.Current())

	r.Navigate(RouteDrivers)
	r.Navigate(RouteDrivers)
	r.Navigate(RouteLogin)
	assert.Equal(t, RouteLogin, r.Current())

	require.True(t, r.Back())
	assert.Equal(t, RouteDrivers, r.Current())
	require.True(t, r.Back())
	assert.Equal(t, RouteDashboard, r.Current())
	assert.False(t, r.Back())
}
