package stubserver

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jabirmahmud0/techhive-client/pkg/auth"
	"github.com/jabirmahmud0/techhive-client/pkg/config"
	pkgerrors "github.com/jabirmahmud0/techhive-client/pkg/errors"
	"github.com/jabirmahmud0/techhive-client/pkg/logger"
	"github.com/jabirmahmud0/techhive-client/pkg/security"
	"github.com/jabirmahmud0/techhive-client/pkg/types"
	"github.com/jabirmahmud0/techhive-client/pkg/validate"
)

// Server is the in-memory storefront backend used by development and
// tests. It speaks the same wire contract the production backend does:
// JSON bodies, bearer tokens, `{"message": ...}` error payloads.
type Server struct {
	store    *Store
	logger   *logger.Logger
	jwt      config.JWTConfig
	password config.PasswordConfig
	router   chi.Router
}

// ServerParams groups dependencies for the stub server.
type ServerParams struct {
	Store    *Store
	Logger   *logger.Logger
	JWT      config.JWTConfig
	Password config.PasswordConfig
}

// NewServer builds the stub backend and its routes.
func NewServer(params ServerParams) (*Server, error) {
	if params.Store == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "store is required")
	}
	if params.Logger == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "logger is required")
	}
	if params.JWT.Secret == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "jwt secret is required")
	}

	s := &Server{
		store:    params.Store,
		logger:   params.Logger,
		jwt:      params.JWT,
		password: params.Password,
	}
	s.router = s.routes()
	return s, nil
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api/auth", func(r chi.Router) {
		r.Post("/login", s.handleLogin)
		r.Post("/register", s.handleRegister)
		r.Post("/google-login", s.handleGoogleLogin)
		r.Post("/logout", s.handleLogout)
	})

	r.Route("/api/products", func(r chi.Router) {
		r.Get("/", s.handleListProducts)
		r.Get("/{productId}", s.handleGetProduct)
		r.With(s.requireAuth).Post("/{productId}/reviews", s.handleAddReview)
	})

	r.With(s.requireAuth).Get("/api/users/orders", s.handleMyOrders)

	r.Route("/api/users/wishlist", func(r chi.Router) {
		r.Use(s.requireAuth)
		r.Get("/", s.handleGetWishlist)
		r.Post("/", s.handleAddToWishlist)
		r.Delete("/", s.handleRemoveFromWishlist)
		r.Delete("/clear", s.handleClearWishlist)
	})

	r.Route("/api/orders", func(r chi.Router) {
		r.Use(s.requireAuth)
		r.Post("/", s.handlePlaceOrder)
		r.Get("/{orderId}", s.handleGetOrder)
	})

	r.Route("/api/admin", func(r chi.Router) {
		r.Use(s.requireAuth, s.requireAdmin)
		r.Get("/stats", s.handleStats)
		r.Get("/orders", s.handleAdminOrders)
		r.Put("/orders/{orderId}/deliver", s.handleMarkDelivered)
		r.Get("/products/{productId}", s.handleGetProduct)
		r.Post("/products", s.handleCreateProduct)
		r.Put("/products/{productId}", s.handleUpdateProduct)
		r.Delete("/products/{productId}", s.handleDeleteProduct)
	})

	r.Route("/api/ai", func(r chi.Router) {
		r.Post("/chat", s.handleChat)
		r.Post("/visual-search", s.handleVisualSearch)
		r.Post("/sentiment", s.handleSentiment)
		r.Post("/recommend", s.handleRecommend)
		r.Post("/generate", s.handleGenerate)
	})

	return r
}

type ctxClaimsKey struct{}

func claimsFrom(ctx context.Context) *auth.AccessTokenClaims {
	claims, _ := ctx.Value(ctxClaimsKey{}).(*auth.AccessTokenClaims)
	return claims
}

func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := strings.TrimSpace(r.Header.Get("Authorization"))
		if raw == "" {
			s.writeMessage(w, http.StatusUnauthorized, "Not authorized, no token")
			return
		}
		token := raw
		if strings.HasPrefix(strings.ToLower(token), "bearer ") {
			token = strings.TrimSpace(token[7:])
		}

		claims, err := auth.ParseAccessToken(s.jwt, token)
		if err != nil {
			s.writeMessage(w, http.StatusUnauthorized, "Not authorized, token failed")
			return
		}
		if _, ok := s.store.userByID(claims.UserID); !ok {
			s.writeMessage(w, http.StatusUnauthorized, "Not authorized, token failed")
			return
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxClaimsKey{}, claims)))
	})
}

func (s *Server) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims := claimsFrom(r.Context())
		if claims == nil || !claims.IsAdmin {
			s.writeMessage(w, http.StatusForbidden, "Not authorized as admin")
			return
		}
		next.ServeHTTP(w, r)
	})
}

type loginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := validate.DecodeJSONBody(r, &req); err != nil {
		s.writeError(w, err)
		return
	}

	record, ok := s.store.userByEmail(req.Email)
	if !ok {
		s.writeMessage(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}
	match, err := security.VerifyPassword(req.Password, record.PasswordHash)
	if err != nil || !match {
		s.writeMessage(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	s.writeSession(w, http.StatusOK, record)
}

type registerRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := validate.DecodeJSONBody(r, &req); err != nil {
		s.writeError(w, err)
		return
	}

	hash, err := security.HashPassword(req.Password, s.password)
	if err != nil {
		s.writeMessage(w, http.StatusInternalServerError, "Could not create account")
		return
	}

	record, err := s.store.createUser(userRecord{Name: req.Name, Email: req.Email, PasswordHash: hash})
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.writeSession(w, http.StatusCreated, record)
}

func (s *Server) handleGoogleLogin(w http.ResponseWriter, r *http.Request) {
	var identity types.FederatedIdentity
	if err := validate.DecodeJSONBody(r, &identity); err != nil {
		s.writeError(w, err)
		return
	}
	if identity.UID == "" || identity.Email == "" {
		s.writeMessage(w, http.StatusBadRequest, "Invalid federated identity")
		return
	}

	record, ok := s.store.userByEmail(identity.Email)
	if !ok {
		created, err := s.store.createUser(userRecord{
			Name:      identity.Name,
			Email:     identity.Email,
			GoogleUID: identity.UID,
		})
		if err != nil {
			s.writeError(w, err)
			return
		}
		record = created
	}

	s.writeSession(w, http.StatusOK, record)
}

func (s *Server) handleLogout(w http.ResponseWriter, _ *http.Request) {
	// tokens are stateless here; logout exists so clients have a
	// revocation call to make
	s.writeJSON(w, http.StatusOK, map[string]string{"message": "Logged out"})
}

func (s *Server) writeSession(w http.ResponseWriter, status int, record *userRecord) {
	token, err := auth.MintAccessToken(s.jwt, time.Now(), auth.AccessTokenPayload{
		UserID:  record.ID,
		Name:    record.Name,
		Email:   record.Email,
		IsAdmin: record.IsAdmin,
	})
	if err != nil {
		s.writeMessage(w, http.StatusInternalServerError, "Could not create session")
		return
	}

	s.writeJSON(w, status, types.User{
		ID:      record.ID,
		Name:    record.Name,
		Email:   record.Email,
		IsAdmin: record.IsAdmin,
		Token:   token,
	})
}

func (s *Server) handleListProducts(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	products := s.store.listProducts(query.Get("keyword"), query.Get("category"))
	s.writeJSON(w, http.StatusOK, products)
}

func (s *Server) handleGetProduct(w http.ResponseWriter, r *http.Request) {
	product, ok := s.store.getProduct(chi.URLParam(r, "productId"))
	if !ok {
		s.writeMessage(w, http.StatusNotFound, "Product not found")
		return
	}
	s.writeJSON(w, http.StatusOK, product)
}

func (s *Server) handleAddReview(w http.ResponseWriter, r *http.Request) {
	var input types.ReviewInput
	if err := validate.DecodeJSONBody(r, &input); err != nil {
		s.writeError(w, err)
		return
	}

	claims := claimsFrom(r.Context())
	product, err := s.store.addReview(chi.URLParam(r, "productId"), types.Review{
		Name:    claims.Name,
		Rating:  input.Rating,
		Comment: input.Comment,
		Image:   input.Image,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, product)
}

func (s *Server) handleGetWishlist(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r.Context())
	s.writeJSON(w, http.StatusOK, s.store.wishlist(claims.UserID))
}

type wishlistMutation struct {
	ProductID string `json:"productId" validate:"required"`
}

func (s *Server) handleAddToWishlist(w http.ResponseWriter, r *http.Request) {
	var req wishlistMutation
	if err := validate.DecodeJSONBody(r, &req); err != nil {
		s.writeError(w, err)
		return
	}

	claims := claimsFrom(r.Context())
	wishlist, err := s.store.addToWishlist(claims.UserID, req.ProductID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"wishlist": wishlist})
}

func (s *Server) handleRemoveFromWishlist(w http.ResponseWriter, r *http.Request) {
	var req wishlistMutation
	if err := validate.DecodeJSONBody(r, &req); err != nil {
		s.writeError(w, err)
		return
	}

	claims := claimsFrom(r.Context())
	wishlist := s.store.removeFromWishlist(claims.UserID, req.ProductID)
	s.writeJSON(w, http.StatusOK, map[string]any{"wishlist": wishlist})
}

func (s *Server) handleClearWishlist(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r.Context())
	s.store.clearWishlist(claims.UserID)
	s.writeJSON(w, http.StatusOK, map[string]any{"wishlist": []types.Product{}})
}

func (s *Server) handlePlaceOrder(w http.ResponseWriter, r *http.Request) {
	var payload types.OrderPayload
	if err := validate.DecodeJSONBody(r, &payload); err != nil {
		s.writeError(w, err)
		return
	}
	if len(payload.OrderItems) == 0 {
		s.writeMessage(w, http.StatusBadRequest, "No order items")
		return
	}
	if err := validate.Struct(payload.ShippingAddress); err != nil {
		s.writeError(w, err)
		return
	}

	claims := claimsFrom(r.Context())
	order := s.store.createOrder(types.Order{
		User:            claims.UserID,
		OrderItems:      payload.OrderItems,
		ShippingAddress: payload.ShippingAddress,
		PaymentMethod:   payload.PaymentMethod,
		TaxPrice:        payload.TaxPrice,
		ShippingPrice:   payload.ShippingPrice,
		TotalPrice:      payload.TotalPrice,
	})
	s.writeJSON(w, http.StatusCreated, order)
}

func (s *Server) handleMyOrders(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r.Context())
	s.writeJSON(w, http.StatusOK, s.store.ordersForUser(claims.UserID))
}

func (s *Server) handleGetOrder(w http.ResponseWriter, r *http.Request) {
	order, ok := s.store.getOrder(chi.URLParam(r, "orderId"))
	if !ok {
		s.writeMessage(w, http.StatusNotFound, "Order not found")
		return
	}

	claims := claimsFrom(r.Context())
	if order.User != claims.UserID && !claims.IsAdmin {
		s.writeMessage(w, http.StatusForbidden, "Not authorized to view this order")
		return
	}
	s.writeJSON(w, http.StatusOK, order)
}

func (s *Server) handleStats(w http.ResponseWriter, _ *http.Request) {
	revenue, recentRevenue, orderCount := s.store.stats()
	s.writeJSON(w, http.StatusOK, map[string]any{
		"revenue":       revenue,
		"recentRevenue": recentRevenue,
		"orders":        orderCount,
		"users":         s.store.userCount(),
		"products":      s.store.productCount(),
	})
}

func (s *Server) handleAdminOrders(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, s.store.listOrders())
}

func (s *Server) handleMarkDelivered(w http.ResponseWriter, r *http.Request) {
	order, ok := s.store.markDelivered(chi.URLParam(r, "orderId"))
	if !ok {
		s.writeMessage(w, http.StatusNotFound, "Order not found")
		return
	}
	s.writeJSON(w, http.StatusOK, order)
}

func (s *Server) handleCreateProduct(w http.ResponseWriter, r *http.Request) {
	var input types.ProductInput
	if err := validate.DecodeJSONBody(r, &input); err != nil {
		s.writeError(w, err)
		return
	}
	created := s.store.addProduct(types.Product{
		Name:         input.Name,
		Price:        input.Price,
		Description:  input.Description,
		Image:        input.Image,
		Brand:        input.Brand,
		Category:     input.Category,
		CountInStock: input.CountInStock,
	})
	s.writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleUpdateProduct(w http.ResponseWriter, r *http.Request) {
	var input types.ProductInput
	if err := validate.DecodeJSONBody(r, &input); err != nil {
		s.writeError(w, err)
		return
	}
	updated, ok := s.store.updateProduct(chi.URLParam(r, "productId"), input)
	if !ok {
		s.writeMessage(w, http.StatusNotFound, "Product not found")
		return
	}
	s.writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteProduct(w http.ResponseWriter, r *http.Request) {
	if !s.store.deleteProduct(chi.URLParam(r, "productId")) {
		s.writeMessage(w, http.StatusNotFound, "Product not found")
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"message": "Product removed"})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error(context.Background(), "failed to encode response", err)
	}
}

func (s *Server) writeMessage(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{"message": message})
}

// writeError maps a typed error onto the `{message}` wire shape.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	typed := pkgerrors.As(err)
	if typed == nil {
		s.writeMessage(w, http.StatusInternalServerError, "Server error")
		return
	}

	status := http.StatusInternalServerError
	switch typed.Code() {
	case pkgerrors.CodeValidation:
		status = http.StatusBadRequest
	case pkgerrors.CodeUnauthorized:
		status = http.StatusUnauthorized
	case pkgerrors.CodeForbidden:
		status = http.StatusForbidden
	case pkgerrors.CodeNotFound:
		status = http.StatusNotFound
	case pkgerrors.CodeConflict:
		status = http.StatusConflict
	case pkgerrors.CodeRateLimit:
		status = http.StatusTooManyRequests
	}

	message := typed.Message()
	if message == "" {
		message = pkgerrors.MetadataFor(typed.Code()).PublicMessage
	}
	s.writeMessage(w, status, message)
}
