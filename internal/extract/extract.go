// File path: internal/extract/extract.go
package extract

import (
	"context"
	"fmt"
	"time"

	"github.com/bhanuchaddha/online-menu-card/internal/common"
	"github.com/bhanuchaddha/online-menu-card/internal/llm"
	"github.com/bhanuchaddha/online-menu-card/internal/menu"
)

const extractionSystemPrompt = `You are an expert at reading restaurant menus from images. Extract all menu items with their details in a structured JSON format.

Rules:
1. Extract restaurant name if visible
2. Organize items by categories (Appetizers, Main Courses, Desserts, Beverages, etc.)
3. For each item extract: name, description (if available), price
4. Identify dietary information (vegetarian, vegan, gluten-free, spicy, etc.)
5. Clean up text and fix any OCR errors
6. Return only valid JSON, no markdown or extra text

Response format:
{
  "restaurant_name": "Restaurant Name",
  "categories": [
    {
      "name": "Category Name",
      "items": [
        {
          "name": "Item Name",
          "description": "Item description",
          "price": "10.99",
          "dietary_info": ["vegetarian", "spicy"]
        }
      ]
    }
  ]
}`

// ImageHost stores an uploaded menu photo and returns a URL the vision model
// can fetch. The passthrough host serves deployments where images arrive as
// data URLs the model accepts directly.
type ImageHost interface {
	Upload(ctx context.Context, imageData string) (string, error)
}

type passthroughHost struct{}

func (passthroughHost) Upload(_ context.Context, imageData string) (string, error) {
	if imageData == "" {
		return "", fmt.Errorf("image data required")
	}
	return imageData, nil
}

// PassthroughHost returns an ImageHost that hands the image payload to the
// model unchanged.
func PassthroughHost() ImageHost { return passthroughHost{} }

// Service turns a menu photo into a validated extraction via the provider
// chain.
type Service struct {
	provider llm.Provider
	host     ImageHost
	timeout  time.Duration
}

func NewService(provider llm.Provider, host ImageHost) *Service {
	if host == nil {
		host = PassthroughHost()
	}
	return &Service{provider: provider, host: host, timeout: 90 * time.Second}
}

// ExtractFromImage uploads the image, asks the vision model for structured
// menu data and parses the reply. Failures from the provider chain surface
// unchanged; unparseable replies fail with ErrMalformedExtraction after the
// recovery scan.
func (s *Service) ExtractFromImage(ctx context.Context, imageData string) (menu.Extraction, string, error) {
	if s == nil || s.provider == nil {
		return menu.Extraction{}, "", fmt.Errorf("extraction provider not configured")
	}
	logger := common.Logger()
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	imageURL, err := s.host.Upload(ctx, imageData)
	if err != nil {
		return menu.Extraction{}, "", fmt.Errorf("host menu image: %w", err)
	}
	messages := []llm.Message{
		{Role: "system", Content: extractionSystemPrompt},
		{
			Role:      "user",
			Content:   "Please extract all menu items from this image and format them as JSON.",
			ImageURLs: []string{imageURL},
		},
	}
	reply, err := s.provider.Chat(ctx, messages, llm.ChatOptions{MaxTokens: 2000, Temperature: 0.1})
	if err != nil {
		return menu.Extraction{}, "", fmt.Errorf("extract menu: %w", err)
	}
	ext, err := ParseExtraction(reply)
	if err != nil {
		logger.Warn("extract: unparseable model reply", "reply_length", len(reply))
		return menu.Extraction{}, "", err
	}
	logger.Info("extract: menu extracted", "categories", len(ext.Categories), "items", ext.ItemCount())
	return ext, imageURL, nil
}
