package stubserver

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/jabirmahmud0/techhive-client/pkg/types"
	"github.com/jabirmahmud0/techhive-client/pkg/validate"
)

// The AI handlers are deterministic stand-ins for the model-backed
// endpoints: same request and response shapes, canned reasoning. Tests
// and local development get stable outputs without an upstream model.

type chatStubRequest struct {
	Message string `json:"message" validate:"required"`
	Context struct {
		CartItems []struct {
			Name     string  `json:"name"`
			Quantity int     `json:"quantity"`
			Price    float64 `json:"price"`
		} `json:"cartItems"`
	} `json:"context"`
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatStubRequest
	if err := validate.DecodeJSONBody(r, &req); err != nil {
		s.writeError(w, err)
		return
	}

	reply := fmt.Sprintf("You asked: %q.", req.Message)
	if n := len(req.Context.CartItems); n > 0 {
		var total float64
		for _, item := range req.Context.CartItems {
			total += float64(item.Quantity) * item.Price
		}
		reply += fmt.Sprintf(" Your cart has %d item(s) totaling $%.2f.", n, total)
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"reply": reply})
}

type visualSearchStubRequest struct {
	ImageBase64 string `json:"imageBase64" validate:"required"`
}

func (s *Server) handleVisualSearch(w http.ResponseWriter, r *http.Request) {
	var req visualSearchStubRequest
	if err := validate.DecodeJSONBody(r, &req); err != nil {
		s.writeError(w, err)
		return
	}

	category := "Electronics"
	if categories := s.store.categories(); len(categories) > 0 {
		category = categories[0]
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"category":    category,
		"description": "A consumer electronics product.",
		"features":    []string{"compact", "modern"},
		"keywords":    []string{strings.ToLower(category)},
	})
}

type sentimentStubRequest struct {
	ReviewText string `json:"reviewText" validate:"required"`
}

func (s *Server) handleSentiment(w http.ResponseWriter, r *http.Request) {
	var req sentimentStubRequest
	if err := validate.DecodeJSONBody(r, &req); err != nil {
		s.writeError(w, err)
		return
	}

	text := strings.ToLower(req.ReviewText)
	sentiment, confidence := "neutral", 0.5
	switch {
	case containsAny(text, "great", "excellent", "love", "amazing", "good"):
		sentiment, confidence = "positive", 0.9
	case containsAny(text, "bad", "terrible", "broken", "awful", "poor"):
		sentiment, confidence = "negative", 0.9
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"overallSentiment": sentiment,
		"confidence":       confidence,
		"summary":          fmt.Sprintf("The review reads as %s.", sentiment),
	})
}

func containsAny(text string, words ...string) bool {
	for _, word := range words {
		if strings.Contains(text, word) {
			return true
		}
	}
	return false
}

type recommendStubRequest struct {
	UserPreferences struct {
		Categories []string `json:"categories"`
	} `json:"userPreferences"`
	ViewedProducts []string `json:"viewedProducts"`
}

func (s *Server) handleRecommend(w http.ResponseWriter, r *http.Request) {
	var req recommendStubRequest
	if err := validate.DecodeJSONBody(r, &req); err != nil {
		s.writeError(w, err)
		return
	}

	viewed := map[string]struct{}{}
	for _, id := range req.ViewedProducts {
		viewed[id] = struct{}{}
	}

	preferred := map[string]struct{}{}
	for _, category := range req.UserPreferences.Categories {
		preferred[strings.ToLower(category)] = struct{}{}
	}

	picks := make([]types.Product, 0, 3)
	for _, product := range s.store.listProducts("", "") {
		if len(picks) == 3 {
			break
		}
		if _, seen := viewed[product.ID]; seen {
			continue
		}
		if len(preferred) > 0 {
			if _, ok := preferred[strings.ToLower(product.Category)]; !ok {
				continue
			}
		}
		picks = append(picks, product)
	}
	s.writeJSON(w, http.StatusOK, picks)
}

type generateStubRequest struct {
	Name  string `json:"name" validate:"required"`
	Specs string `json:"specs"`
	Tone  string `json:"tone"`
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req generateStubRequest
	if err := validate.DecodeJSONBody(r, &req); err != nil {
		s.writeError(w, err)
		return
	}

	tone := req.Tone
	if tone == "" {
		tone = "Professional"
	}
	description := fmt.Sprintf("Introducing the %s. Crafted with a %s touch.", req.Name, strings.ToLower(tone))
	if specs := strings.TrimSpace(req.Specs); specs != "" {
		description += " Highlights: " + specs
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"description": description})
}
