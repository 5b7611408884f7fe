package session

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jabirmahmud0/techhive-client/internal/notify"
	"github.com/jabirmahmud0/techhive-client/pkg/apiclient"
	"github.com/jabirmahmud0/techhive-client/pkg/config"
	"github.com/jabirmahmud0/techhive-client/pkg/logger"
	"github.com/jabirmahmud0/techhive-client/pkg/types"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Level: zerolog.Disabled, Output: io.Discard})
}

func newFixture(t *testing.T, handler http.Handler) (*Service, *CredStore) {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	logg := testLogger()
	client, err := apiclient.NewClient(config.APIConfig{BaseURL: server.URL}, logg)
	require.NoError(t, err)

	store := tempStore(t)
	svc, err := NewService(ServiceParams{Client: client, Store: store, Logger: logg})
	require.NoError(t, err)
	return svc, store
}

type stubFederated struct {
	identity   types.FederatedIdentity
	signInErr  error
	signOutErr error
	signedOut  bool
}

func (f *stubFederated) SignIn(context.Context) (types.FederatedIdentity, error) {
	return f.identity, f.signInErr
}

func (f *stubFederated) SignOut(context.Context) error {
	f.signedOut = true
	return f.signOutErr
}

func TestLoginEstablishesSession(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/auth/login", r.URL.Path)

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "ada@example.com", body["email"])

		_ = json.NewEncoder(w).Encode(types.User{ID: "u-1", Name: "Ada", Email: "ada@example.com", Token: "tok-1"})
	})
	svc, store := newFixture(t, handler)

	var observed *types.User
	svc.OnChange(func(u *types.User) { observed = u })

	result := svc.Login(context.Background(), "ada@example.com", "hunter22")
	require.True(t, result.Success, result.Message)

	current := svc.Current()
	require.NotNil(t, current)
	assert.Equal(t, "u-1", current.ID)
	assert.Equal(t, "tok-1", svc.Token())

	require.NotNil(t, observed)
	assert.Equal(t, "u-1", observed.ID)

	persisted, err := store.Load()
	require.NoError(t, err)
	require.NotNil(t, persisted)
	assert.Equal(t, "tok-1", persisted.Token)
}

func TestLoginSurfacesServerMessage(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]string{"message": "Invalid email or password"})
	})
	svc, _ := newFixture(t, handler)

	result := svc.Login(context.Background(), "ada@example.com", "wrong")
	assert.False(t, result.Success)
	assert.Equal(t, "Invalid email or password", result.Message)
	assert.Nil(t, svc.Current())
}

func TestLoginNetworkFailure(t *testing.T) {
	logg := testLogger()
	client, err := apiclient.NewClient(config.APIConfig{BaseURL: "http://127.0.0.1:1"}, logg)
	require.NoError(t, err)
	svc, err := NewService(ServiceParams{Client: client, Store: tempStore(t), Logger: logg})
	require.NoError(t, err)

	result := svc.Login(context.Background(), "ada@example.com", "hunter22")
	assert.False(t, result.Success)
	assert.Equal(t, "Network error", result.Message)
}

func TestLoginValidatesLocally(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request should reach the backend")
	})
	svc, _ := newFixture(t, handler)

	result := svc.Login(context.Background(), "", "")
	assert.False(t, result.Success)
	assert.NotEmpty(t, result.Message)
}

func TestRegisterEstablishesSession(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/auth/register", r.URL.Path)
		_ = json.NewEncoder(w).Encode(types.User{ID: "u-2", Name: "Grace", Email: "grace@example.com", Token: "tok-2"})
	})
	svc, _ := newFixture(t, handler)

	result := svc.Register(context.Background(), "Grace", "grace@example.com", "hunter22")
	require.True(t, result.Success, result.Message)
	assert.Equal(t, "tok-2", svc.Token())
}

func TestRegisterRejectsShortPassword(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request should reach the backend")
	})
	svc, _ := newFixture(t, handler)

	result := svc.Register(context.Background(), "Grace", "grace@example.com", "abc")
	assert.False(t, result.Success)
}

func TestLoginWithGoogle(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/auth/google-login", r.URL.Path)

		var identity types.FederatedIdentity
		require.NoError(t, json.NewDecoder(r.Body).Decode(&identity))
		assert.Equal(t, "uid-9", identity.UID)

		_ = json.NewEncoder(w).Encode(types.User{ID: "u-9", Name: identity.Name, Email: identity.Email, Token: "tok-9"})
	})

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	logg := testLogger()
	client, err := apiclient.NewClient(config.APIConfig{BaseURL: server.URL}, logg)
	require.NoError(t, err)

	federated := &stubFederated{identity: types.FederatedIdentity{UID: "uid-9", Name: "Lin", Email: "lin@example.com"}}
	svc, err := NewService(ServiceParams{Client: client, Store: tempStore(t), Logger: logg, Federated: federated})
	require.NoError(t, err)

	result := svc.LoginWithGoogle(context.Background())
	require.True(t, result.Success, result.Message)
	assert.Equal(t, "tok-9", svc.Token())
}

func TestLoginWithGoogleHandshakeFailure(t *testing.T) {
	logg := testLogger()
	client, err := apiclient.NewClient(config.APIConfig{BaseURL: "http://127.0.0.1:1"}, logg)
	require.NoError(t, err)

	federated := &stubFederated{signInErr: errors.New("popup closed")}
	svc, err := NewService(ServiceParams{Client: client, Store: tempStore(t), Logger: logg, Federated: federated})
	require.NoError(t, err)

	result := svc.LoginWithGoogle(context.Background())
	assert.False(t, result.Success)
	assert.Equal(t, "Google login failed", result.Message)
}

func TestLogoutClearsStateEvenWhenRevocationFails(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/auth/logout" {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_ = json.NewEncoder(w).Encode(types.User{ID: "u-1", Token: "tok-1"})
	})

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	logg := testLogger()
	client, err := apiclient.NewClient(config.APIConfig{BaseURL: server.URL}, logg)
	require.NoError(t, err)

	store := tempStore(t)
	hub := notify.NewHub(8)
	federated := &stubFederated{signOutErr: errors.New("revoke failed")}
	svc, err := NewService(ServiceParams{Client: client, Store: store, Logger: logg, Federated: federated, Notifier: hub})
	require.NoError(t, err)

	require.True(t, svc.Login(context.Background(), "a@b.c", "hunter22").Success)

	var last *types.User = svc.Current()
	svc.OnChange(func(u *types.User) { last = u })

	result := svc.Logout(context.Background())
	assert.True(t, result.Success, "logout must succeed locally despite remote failures")
	assert.Nil(t, svc.Current())
	assert.Empty(t, svc.Token())
	assert.Nil(t, last, "listeners observe the cleared identity")
	assert.True(t, federated.signedOut)

	persisted, err := store.Load()
	require.NoError(t, err)
	assert.Nil(t, persisted)

	notices := hub.Drain()
	require.NotEmpty(t, notices)
	assert.Equal(t, notify.LevelWarn, notices[0].Level)
}

func TestHydrationRestoresStoredSession(t *testing.T) {
	store := tempStore(t)
	require.NoError(t, store.Save(&types.User{ID: "u-1", Name: "Ada", Token: "tok-1"}))

	logg := testLogger()
	client, err := apiclient.NewClient(config.APIConfig{BaseURL: "http://127.0.0.1:1"}, logg)
	require.NoError(t, err)

	svc, err := NewService(ServiceParams{Client: client, Store: store, Logger: logg})
	require.NoError(t, err)

	current := svc.Current()
	require.NotNil(t, current)
	assert.Equal(t, "Ada", current.Name)
	assert.Equal(t, "tok-1", svc.Token())
}
