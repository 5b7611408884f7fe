package wishlist

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jabirmahmud0/techhive-client/pkg/apiclient"
	"github.com/jabirmahmud0/techhive-client/pkg/config"
	"github.com/jabirmahmud0/techhive-client/pkg/logger"
	"github.com/jabirmahmud0/techhive-client/pkg/types"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticToken string

func (t staticToken) Token() string { return string(t) }

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Level: zerolog.Disabled, Output: io.Discard})
}

func newFixture(t *testing.T, handler http.Handler, token string) *Service {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	logg := testLogger()
	client, err := apiclient.NewClient(config.APIConfig{BaseURL: server.URL}, logg)
	require.NoError(t, err)
	client.SetTokenProvider(staticToken(token))

	svc, err := NewService(ServiceParams{Client: client, Logger: logg})
	require.NoError(t, err)
	return svc
}

func TestMutationsRequireSession(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request should be sent without a session")
	})
	svc := newFixture(t, handler, "")

	result := svc.Add(context.Background(), types.Product{ID: "A"})
	assert.False(t, result.Success)
	assert.Equal(t, "Please log in first", result.Message)

	result = svc.Remove(context.Background(), "A")
	assert.False(t, result.Success)
}

func TestAddAdoptsServerList(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/users/wishlist", r.URL.Path)
		require.Equal(t, "Bearer tok", r.Header.Get("Authorization"))

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "A", body["productId"])

		_ = json.NewEncoder(w).Encode(map[string]any{
			"wishlist": []types.Product{{ID: "A", Name: "Alpha"}, {ID: "B", Name: "Beta"}},
		})
	})
	svc := newFixture(t, handler, "tok")

	result := svc.Add(context.Background(), types.Product{ID: "A"})
	require.True(t, result.Success, result.Message)

	// the server list wins wholesale, even entries the client never added
	assert.Equal(t, 2, svc.Len())
	assert.True(t, svc.Contains("A"))
	assert.True(t, svc.Contains("B"))
}

func TestFailedMutationLeavesListUnchanged(t *testing.T) {
	var fail bool
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if fail {
			w.WriteHeader(http.StatusInternalServerError)
			_ = json.NewEncoder(w).Encode(map[string]string{"message": "wishlist unavailable"})
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"wishlist": []types.Product{{ID: "A"}}})
	})
	svc := newFixture(t, handler, "tok")

	require.True(t, svc.Add(context.Background(), types.Product{ID: "A"}).Success)

	fail = true
	result := svc.Remove(context.Background(), "A")
	assert.False(t, result.Success)
	assert.Equal(t, "wishlist unavailable", result.Message)
	assert.True(t, svc.Contains("A"), "failed mutation must not touch local state")
}

func TestHydrateFetchesFullList(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		_ = json.NewEncoder(w).Encode([]types.Product{{ID: "A"}, {ID: "B"}, {ID: "C"}})
	})
	svc := newFixture(t, handler, "tok")

	require.NoError(t, svc.Hydrate(context.Background()))
	assert.Equal(t, 3, svc.Len())
}

func TestSessionEndClearsImmediately(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode([]types.Product{{ID: "A"}})
	})
	svc := newFixture(t, handler, "tok")
	require.NoError(t, svc.Hydrate(context.Background()))
	require.Equal(t, 1, svc.Len())

	svc.OnSessionChange(nil)
	assert.Zero(t, svc.Len(), "logout clears the list in the same update cycle")
}

func TestSessionStartHydrates(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode([]types.Product{{ID: "A"}})
	})
	svc := newFixture(t, handler, "tok")

	svc.OnSessionChange(&types.User{ID: "u-1", Token: "tok"})
	assert.Eventually(t, func() bool { return svc.Contains("A") }, time.Second, 5*time.Millisecond)
}

func TestStaleHydrationIsDiscarded(t *testing.T) {
	release := make(chan struct{})
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
		_ = json.NewEncoder(w).Encode([]types.Product{{ID: "A"}})
	})
	svc := newFixture(t, handler, "tok")

	done := make(chan error, 1)
	go func() { done <- svc.Hydrate(context.Background()) }()

	// session ends while the fetch is still in flight
	time.Sleep(20 * time.Millisecond)
	svc.OnSessionChange(nil)
	close(release)

	require.NoError(t, <-done)
	assert.Zero(t, svc.Len(), "response from the previous identity must be dropped")
}

func TestClear(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/users/wishlist/clear" {
			require.Equal(t, http.MethodDelete, r.Method)
			w.WriteHeader(http.StatusOK)
			return
		}
		_ = json.NewEncoder(w).Encode([]types.Product{{ID: "A"}})
	})
	svc := newFixture(t, handler, "tok")
	require.NoError(t, svc.Hydrate(context.Background()))

	result := svc.Clear(context.Background())
	require.True(t, result.Success)
	assert.Zero(t, svc.Len())
}
