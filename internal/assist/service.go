package assist

import (
	"context"
	"net/http"
	"strings"

	"github.com/jabirmahmud0/techhive-client/internal/cart"
	"github.com/jabirmahmud0/techhive-client/pkg/apiclient"
	pkgerrors "github.com/jabirmahmud0/techhive-client/pkg/errors"
	"github.com/jabirmahmud0/techhive-client/pkg/logger"
	"github.com/jabirmahmud0/techhive-client/pkg/types"
)

// ServiceParams groups dependencies for the assist service.
type ServiceParams struct {
	Client *apiclient.Client
	Cart   *cart.Cart
	Logger *logger.Logger
}

// Service wraps the backend's AI endpoints. Each call is a thin typed
// exchange; the model runs server-side.
type Service struct {
	client *apiclient.Client
	cart   *cart.Cart
	logger *logger.Logger
}

// NewService builds the assist service.
func NewService(params ServiceParams) (*Service, error) {
	if params.Client == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "api client is required")
	}
	if params.Cart == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is required")
	}
	if params.Logger == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "logger is required")
	}
	return &Service{client: params.Client, cart: params.Cart, logger: params.Logger}, nil
}

// ChatTurn is one prior exchange in the conversation, in the wire shape
// the backend's model expects.
type ChatTurn struct {
	Role  string     `json:"role"`
	Parts []ChatPart `json:"parts"`
}

// ChatPart is one text fragment of a turn.
type ChatPart struct {
	Text string `json:"text"`
}

type chatCartItem struct {
	Name     string  `json:"name"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
}

type chatRequest struct {
	Message string   `json:"message"`
	History []ChatTurn `json:"history"`
	Context struct {
		CartItems []chatCartItem `json:"cartItems"`
	} `json:"context"`
}

type chatResponse struct {
	Reply string `json:"reply"`
}

// Chat sends one user message plus conversation history. The current
// cart rides along as context so the assistant can answer about it.
func (s *Service) Chat(ctx context.Context, message string, history []ChatTurn) (string, error) {
	if strings.TrimSpace(message) == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "message is required")
	}

	req := chatRequest{Message: message, History: history}
	for _, line := range s.cart.Items() {
		req.Context.CartItems = append(req.Context.CartItems, chatCartItem{
			Name:     line.Product.Name,
			Quantity: line.Qty,
			Price:    line.Product.Price,
		})
	}

	var resp chatResponse
	err := s.client.Do(ctx, apiclient.Call{
		Operation: "ai_chat",
		Method:    http.MethodPost,
		Path:      "/api/ai/chat",
		Body:      req,
		Out:       &resp,
	})
	if err != nil {
		return "", err
	}
	return resp.Reply, nil
}

// VisualSearchResult is the model's read of an uploaded image.
type VisualSearchResult struct {
	Category    string   `json:"category"`
	Description string   `json:"description"`
	Features    []string `json:"features"`
	Keywords    []string `json:"keywords"`
}

// VisualSearch identifies a product from a base64-encoded image.
func (s *Service) VisualSearch(ctx context.Context, imageBase64 string) (*VisualSearchResult, error) {
	if strings.TrimSpace(imageBase64) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "image is required")
	}

	var result VisualSearchResult
	err := s.client.Do(ctx, apiclient.Call{
		Operation: "ai_visual_search",
		Method:    http.MethodPost,
		Path:      "/api/ai/visual-search",
		Body:      map[string]string{"imageBase64": imageBase64},
		Out:       &result,
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// Sentiment is the model's read of one review text.
type Sentiment struct {
	OverallSentiment string  `json:"overallSentiment"`
	Confidence       float64 `json:"confidence"`
	Summary          string  `json:"summary"`
}

// AnalyzeSentiment classifies one review.
func (s *Service) AnalyzeSentiment(ctx context.Context, reviewText string) (*Sentiment, error) {
	if strings.TrimSpace(reviewText) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "review text is required")
	}

	var sentiment Sentiment
	err := s.client.Do(ctx, apiclient.Call{
		Operation: "ai_sentiment",
		Method:    http.MethodPost,
		Path:      "/api/ai/sentiment",
		Body:      map[string]string{"reviewText": reviewText},
		Out:       &sentiment,
	})
	if err != nil {
		return nil, err
	}
	return &sentiment, nil
}

// Preferences steers recommendations.
type Preferences struct {
	Categories []string   `json:"categories"`
	Brands     []string   `json:"brands"`
	PriceRange PriceRange `json:"priceRange"`
}

// PriceRange bounds recommended unit prices.
type PriceRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

type recommendRequest struct {
	UserPreferences Preferences `json:"userPreferences"`
	ViewedProducts  []string    `json:"viewedProducts"`
}

// Recommend asks for personalized picks. Any failure falls back to the
// first few products of the supplied catalog slice, so the caller always
// gets something to show.
func (s *Service) Recommend(ctx context.Context, prefs Preferences, viewed []string, catalog []types.Product) []types.Product {
	var picks []types.Product
	err := s.client.Do(ctx, apiclient.Call{
		Operation: "ai_recommend",
		Method:    http.MethodPost,
		Path:      "/api/ai/recommend",
		Body:      recommendRequest{UserPreferences: prefs, ViewedProducts: viewed},
		Out:       &picks,
	})
	if err != nil || len(picks) == 0 {
		if err != nil {
			s.logger.Warn(ctx, "recommendations unavailable, falling back to catalog slice")
		}
		if len(catalog) > 3 {
			catalog = catalog[:3]
		}
		return catalog
	}
	return picks
}

type generateRequest struct {
	Name  string `json:"name"`
	Specs string `json:"specs"`
	Tone  string `json:"tone"`
}

type generateResponse struct {
	Description string `json:"description"`
}

// GenerateDescription drafts product copy from a name, free-form specs,
// and a tone.
func (s *Service) GenerateDescription(ctx context.Context, name, specs, tone string) (string, error) {
	if strings.TrimSpace(name) == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "product name is required")
	}
	if tone == "" {
		tone = "Professional"
	}

	var resp generateResponse
	err := s.client.Do(ctx, apiclient.Call{
		Operation: "ai_generate",
		Method:    http.MethodPost,
		Path:      "/api/ai/generate",
		Body:      generateRequest{Name: name, Specs: specs, Tone: tone},
		Out:       &resp,
	})
	if err != nil {
		return "", err
	}
	return resp.Description, nil
}
