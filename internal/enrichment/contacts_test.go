package enrichment_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ksnll/mithrilforge/internal/enrichment"
	"github.com/ksnll/mithrilforge/internal/models"
)

type capturedRequest struct {
	Model      string `json:"model"`
	MaxTokens  int    `json:"max_tokens"`
	ToolChoice struct {
		Type string `json:"type"`
		Name string `json:"name"`
	} `json:"tool_choice"`
	Tools []struct {
		Name string `json:"name"`
	} `json:"tools"`
	Messages []struct {
		Role    string `json:"role"`
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
	} `json:"messages"`
}

func fakeMessagesAPI(t *testing.T, status int, content string) (*httptest.Server, *capturedRequest) {
	t.Helper()
	captured := &capturedRequest{}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/messages", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("X-Api-Key"))

		body, err := io.ReadAll(r.Body)
		assert.NoError(t, err)
		assert.NoError(t, json.Unmarshal(body, captured))

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if status != http.StatusOK {
			_, _ = io.WriteString(w, `{"type":"error","error":{"type":"api_error","message":"overloaded"}}`)
			return
		}
		_, _ = io.WriteString(w, `{
			"id": "msg_01",
			"type": "message",
			"role": "assistant",
			"model": "claude-sonnet-4-5",
			"content": `+content+`,
			"stop_reason": "tool_use",
			"stop_sequence": null,
			"usage": {"input_tokens": 120, "output_tokens": 40}
		}`)
	}))
	t.Cleanup(srv.Close)
	return srv, captured
}

func newExtractor(srv *httptest.Server) *enrichment.ContactExtractor {
	return enrichment.NewContactExtractor(enrichment.ExtractorConfig{
		APIKey:  "test-key",
		Model:   "claude-sonnet-4-5",
		BaseURL: srv.URL + "/",
	})
}

func TestContactExtractor_ForcedToolCall(t *testing.T) {
	srv, captured := fakeMessagesAPI(t, http.StatusOK, `[
		{"type": "text", "text": "Saving."},
		{"type": "tool_use", "id": "toolu_01", "name": "save_site_contacts", "input": {
			"contact_name": "Ada",
			"contact_email": "ada@bakery.example",
			"social_links": {"instagram": "https://instagram.com/adabakery", "facebook": ""}
		}}
	]`)

	contact, err := newExtractor(srv).Extract(context.Background(), "==== https://a.example ====\nAda's Bakery")
	require.NoError(t, err)

	require.NotNil(t, contact.Name)
	assert.Equal(t, "Ada", *contact.Name)
	require.NotNil(t, contact.Email)
	assert.Equal(t, "ada@bakery.example", *contact.Email)
	require.NotNil(t, contact.Social.Instagram)
	assert.Nil(t, contact.Social.Facebook, "empty strings become nil")

	assert.Equal(t, "claude-sonnet-4-5", captured.Model)
	assert.Equal(t, enrichment.DefaultMaxTokens, captured.MaxTokens)
	assert.Equal(t, "tool", captured.ToolChoice.Type)
	assert.Equal(t, "save_site_contacts", captured.ToolChoice.Name)
	require.Len(t, captured.Tools, 1)
	assert.Equal(t, "save_site_contacts", captured.Tools[0].Name)
	require.Len(t, captured.Messages, 1)
	require.Len(t, captured.Messages[0].Content, 1)
	assert.Contains(t, captured.Messages[0].Content[0].Text, "Extract the owner's contact details")
	assert.Contains(t, captured.Messages[0].Content[0].Text, "Ada's Bakery")
}

func TestContactExtractor_Failures(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		content string
		wantErr error
	}{
		{
			name:    "no tool call",
			status:  http.StatusOK,
			content: `[{"type": "text", "text": "I could not find anything."}]`,
			wantErr: enrichment.ErrNoToolCall,
		},
		{
			name:    "api error",
			status:  http.StatusInternalServerError,
			content: `[]`,
		},
		{
			name:    "bad tool input",
			status:  http.StatusOK,
			content: `[{"type": "tool_use", "id": "toolu_01", "name": "save_site_contacts", "input": {"contact_name": 42}}]`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, _ := fakeMessagesAPI(t, tt.status, tt.content)

			_, err := newExtractor(srv).Extract(context.Background(), "content")
			require.ErrorIs(t, err, models.ErrExtraction)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}
