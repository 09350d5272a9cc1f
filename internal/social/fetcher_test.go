package social_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/sixdegrees/internal/social"
)

func TestHTTPFetcher_Fetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/feed":
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(feedJSON()))
		case "/big":
			_, _ = w.Write([]byte(strings.Repeat("x", 256)))
		default:
			http.Error(w, "nope", http.StatusNotFound)
		}
	}))
	t.Cleanup(srv.Close)

	f := social.NewHTTPFetcher(srv.Client(), 128, nil)

	body, err := f.Fetch(context.Background(), srv.URL+"/feed")
	require.NoError(t, err)
	assert.Equal(t, feedJSON(), string(body))

	_, err = f.Fetch(context.Background(), srv.URL+"/missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")

	_, err = f.Fetch(context.Background(), srv.URL+"/big")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exceeds")
}

func TestHTTPFetcher_ContextCanceled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	t.Cleanup(srv.Close)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := social.NewHTTPFetcher(nil, 0, nil).Fetch(ctx, srv.URL)
	assert.ErrorIs(t, err, context.Canceled)
}
