package session

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/jabirmahmud0/techhive-client/internal/notify"
	"github.com/jabirmahmud0/techhive-client/pkg/apiclient"
	"github.com/jabirmahmud0/techhive-client/pkg/auth"
	pkgerrors "github.com/jabirmahmud0/techhive-client/pkg/errors"
	"github.com/jabirmahmud0/techhive-client/pkg/logger"
	"github.com/jabirmahmud0/techhive-client/pkg/types"
	"github.com/jabirmahmud0/techhive-client/pkg/validate"
	"go.uber.org/multierr"
)

// FederatedAuthenticator performs the third-party identity handshake.
// The exchange with the storefront backend happens here; the handshake
// itself is opaque.
type FederatedAuthenticator interface {
	SignIn(ctx context.Context) (types.FederatedIdentity, error)
	SignOut(ctx context.Context) error
}

// ServiceParams groups dependencies for the session service.
type ServiceParams struct {
	Client    *apiclient.Client
	Store     *CredStore
	Logger    *logger.Logger
	Federated FederatedAuthenticator
	Notifier  notify.Notifier
}

// Service owns the authenticated identity. Expected auth failures come
// back as results, never as errors; only the caller decides presentation.
type Service struct {
	client    *apiclient.Client
	store     *CredStore
	logger    *logger.Logger
	federated FederatedAuthenticator
	notifier  notify.Notifier

	mu        sync.Mutex
	user      *types.User
	listeners []func(*types.User)
}

// NewService builds the session service and hydrates the identity from
// durable storage before returning, so the first read never flashes a
// logged-out state.
func NewService(params ServiceParams) (*Service, error) {
	if params.Client == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "api client is required")
	}
	if params.Store == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "credential store is required")
	}
	if params.Logger == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "logger is required")
	}

	s := &Service{
		client:    params.Client,
		store:     params.Store,
		logger:    params.Logger,
		federated: params.Federated,
		notifier:  params.Notifier,
	}
	s.hydrate()
	return s, nil
}

func (s *Service) hydrate() {
	ctx := context.Background()
	user, err := s.store.Load()
	if err != nil {
		s.logger.Warn(ctx, "stored session unreadable, starting logged out")
		return
	}
	if user == nil {
		return
	}
	if exp, ok := auth.TokenExpiry(user.Token); ok && exp.Before(time.Now()) {
		s.logger.Warn(s.logger.WithUserID(ctx, user.ID), "stored session token is expired")
	}
	s.user = user
}

// Current returns a copy of the authenticated identity, or nil.
func (s *Service) Current() *types.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return nil
	}
	copied := *s.user
	return &copied
}

// Token implements apiclient.TokenProvider.
func (s *Service) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return ""
	}
	return s.user.Token
}

// OnChange registers a listener invoked after every identity change.
// Dependent state (the wishlist) hooks in here instead of reaching into
// an ambient scope.
func (s *Service) OnChange(fn func(*types.User)) {
	if fn == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

type loginInput struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Login exchanges local credentials for a backend session.
func (s *Service) Login(ctx context.Context, email, password string) types.Result {
	input := loginInput{Email: email, Password: password}
	if err := validate.Struct(input); err != nil {
		return types.ResultFromError(err)
	}

	var user types.User
	err := s.client.Do(ctx, apiclient.Call{
		Operation: "login",
		Method:    http.MethodPost,
		Path:      "/api/auth/login",
		Body:      input,
		Out:       &user,
	})
	if err != nil {
		return types.ResultFromError(err)
	}

	s.establish(ctx, &user)
	return types.OK()
}

type registerInput struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// Register creates an account and starts a session in one exchange.
func (s *Service) Register(ctx context.Context, name, email, password string) types.Result {
	input := registerInput{Name: name, Email: email, Password: password}
	if err := validate.Struct(input); err != nil {
		return types.ResultFromError(err)
	}

	var user types.User
	err := s.client.Do(ctx, apiclient.Call{
		Operation: "register",
		Method:    http.MethodPost,
		Path:      "/api/auth/register",
		Body:      input,
		Out:       &user,
	})
	if err != nil {
		return types.ResultFromError(err)
	}

	s.establish(ctx, &user)
	return types.OK()
}

// LoginWithGoogle runs the federated handshake, then exchanges the
// resulting identity for a backend session like a local login.
func (s *Service) LoginWithGoogle(ctx context.Context) types.Result {
	if s.federated == nil {
		return types.Fail("Google login is not configured")
	}

	identity, err := s.federated.SignIn(ctx)
	if err != nil {
		s.logger.Warn(ctx, "federated sign-in did not complete")
		return types.Fail("Google login failed")
	}

	var user types.User
	err = s.client.Do(ctx, apiclient.Call{
		Operation: "google_login",
		Method:    http.MethodPost,
		Path:      "/api/auth/google-login",
		Body:      identity,
		Out:       &user,
	})
	if err != nil {
		return types.ResultFromError(err)
	}

	s.establish(ctx, &user)
	return types.OK()
}

// Logout ends the session. Remote revocation is best effort: the local
// identity and durable storage are cleared unconditionally so a transient
// network failure can never pin the user to a session.
func (s *Service) Logout(ctx context.Context) types.Result {
	var revokeErr error
	if s.federated != nil {
		revokeErr = multierr.Append(revokeErr, s.federated.SignOut(ctx))
	}
	revokeErr = multierr.Append(revokeErr, s.client.Do(ctx, apiclient.Call{
		Operation: "logout",
		Method:    http.MethodPost,
		Path:      "/api/auth/logout",
	}))
	if revokeErr != nil {
		s.logger.Warn(ctx, "session revocation incomplete, clearing local state anyway")
		if s.notifier != nil {
			s.notifier.Notify(notify.Notice{Level: notify.LevelWarn, Message: "Signed out locally; remote sign-out did not complete"})
		}
	}

	if err := s.store.Clear(); err != nil {
		s.logger.Error(ctx, "failed to clear stored credentials", err)
	}

	s.mu.Lock()
	s.user = nil
	listeners := append([]func(*types.User){}, s.listeners...)
	s.mu.Unlock()
	for _, fn := range listeners {
		fn(nil)
	}

	return types.OK()
}

func (s *Service) establish(ctx context.Context, user *types.User) {
	if err := s.store.Save(user); err != nil {
		// the session still works for this run; it just won't survive a restart
		s.logger.Error(s.logger.WithUserID(ctx, user.ID), "failed to persist session", err)
	}

	s.mu.Lock()
	copied := *user
	s.user = &copied
	listeners := append([]func(*types.User){}, s.listeners...)
	s.mu.Unlock()

	notified := *user
	for _, fn := range listeners {
		fn(&notified)
	}
}
