package enrichment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/ksnll/mithrilforge/internal/models"
)

// Extraction defaults.
const (
	DefaultModel     = "claude-sonnet-4-5"
	DefaultMaxTokens = 1024

	saveContactsTool = "save_site_contacts"

	contactPrompt = "Extract the owner's contact details from the following website content. " +
		"If you find a personal name use it, otherwise use the company name. " +
		"Return the data only via the function."
)

// ErrNoToolCall means the model answered without calling save_site_contacts.
var ErrNoToolCall = errors.New("model did not call " + saveContactsTool)

// ExtractorConfig configures a ContactExtractor.
type ExtractorConfig struct {
	APIKey    string
	Model     string
	MaxTokens int
	// BaseURL overrides the API endpoint. Empty uses the default.
	BaseURL    string
	HTTPClient *http.Client
}

// ContactExtractor asks Claude for the site owner's contact through a forced
// tool call.
type ContactExtractor struct {
	client    anthropic.Client
	model     string
	maxTokens int64
}

// NewContactExtractor creates an extractor. Retries are disabled.
func NewContactExtractor(cfg ExtractorConfig) *ContactExtractor {
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = DefaultMaxTokens
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	if cfg.HTTPClient != nil {
		opts = append(opts, option.WithHTTPClient(cfg.HTTPClient))
	}

	return &ContactExtractor{
		client:    anthropic.NewClient(opts...),
		model:     cfg.Model,
		maxTokens: int64(cfg.MaxTokens),
	}
}

// Extract sends content to the model and decodes the tool input.
func (e *ContactExtractor) Extract(ctx context.Context, content string) (models.Contact, error) {
	msg, err := e.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(e.model),
		MaxTokens: e.maxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(contactPrompt + "\n\n" + content)),
		},
		Tools:      []anthropic.ToolUnionParam{{OfTool: contactTool()}},
		ToolChoice: anthropic.ToolChoiceUnionParam{OfTool: &anthropic.ToolChoiceToolParam{Name: saveContactsTool}},
	})
	if err != nil {
		return models.Contact{}, &models.ExtractionError{Err: fmt.Errorf("messages api: %w", err)}
	}

	for _, block := range msg.Content {
		if block.Type != "tool_use" || block.Name != saveContactsTool {
			continue
		}
		var contact models.Contact
		if err = json.Unmarshal(block.Input, &contact); err != nil {
			return models.Contact{}, &models.ExtractionError{Err: fmt.Errorf("decode tool input: %w", err)}
		}
		return contact.Normalize(), nil
	}
	return models.Contact{}, &models.ExtractionError{Err: ErrNoToolCall}
}

func contactTool() *anthropic.ToolParam {
	str := func(desc string) map[string]any {
		if desc == "" {
			return map[string]any{"type": "string"}
		}
		return map[string]any{"type": "string", "description": desc}
	}

	return &anthropic.ToolParam{
		Name:        saveContactsTool,
		Description: anthropic.String("Stores contact information found on a website"),
		InputSchema: anthropic.ToolInputSchemaParam{
			Properties: map[string]any{
				"contact_name": str("First name of the website owner, if absent, your best guess on " +
					"who the company owner might be, if absent the company name"),
				"contact_email": str("Email address of the owner or main contact"),
				"social_links": map[string]any{
					"type":        "object",
					"description": "Social and review links on the site, only if present in the sent content",
					"properties": map[string]any{
						"instagram":     str(""),
						"facebook":      str(""),
						"google_review": str(""),
						"google_maps":   str(""),
					},
				},
			},
		},
	}
}
