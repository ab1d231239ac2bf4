package update

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RanjanLabs/RanjanLabs/internal/fetch"
)

func releaseServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestCheckNewerRelease(t *testing.T) {
	srv := releaseServer(t, http.StatusOK, `{"tag_name": "v1.4.0"}`)
	c := NewChecker(fetch.New(srv.Client(), time.Second), srv.URL)

	res := c.Check(context.Background(), "v1.3.2")
	require.NotNil(t, res)
	assert.Equal(t, "1.4.0", res.LatestVersion)
}

func TestCheckNoUpdate(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		current string
	}{
		{"same version", http.StatusOK, `{"tag_name": "v1.4.0"}`, "1.4.0"},
		{"dev build", http.StatusOK, `{"tag_name": "v1.4.0"}`, "dev"},
		{"server error", http.StatusInternalServerError, ``, "1.0.0"},
		{"bad json", http.StatusOK, `not json`, "1.0.0"},
		{"empty tag", http.StatusOK, `{}`, "1.0.0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := releaseServer(t, tt.status, tt.body)
			c := NewChecker(fetch.New(srv.Client(), time.Second), srv.URL)
			assert.Nil(t, c.Check(context.Background(), tt.current))
		})
	}
}

func TestDue(t *testing.T) {
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	assert.True(t, Due(time.Time{}, now))
	assert.True(t, Due(now.Add(-25*time.Hour), now))
	assert.False(t, Due(now.Add(-time.Hour), now))
}
