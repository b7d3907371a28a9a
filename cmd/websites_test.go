package cmd

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ksnll/mithrilforge/internal/models"
)

type stubLister struct {
	websites []models.Website
	err      error
}

func (s stubLister) List(context.Context) ([]models.Website, error) {
	return s.websites, s.err
}

func TestListWebsites(t *testing.T) {
	var out bytes.Buffer
	err := listWebsites(context.Background(), stubLister{websites: []models.Website{
		{
			ID:                   1,
			SourceAddress:        "https://a.example",
			ContactName:          models.StringPtr("Ada"),
			ContactEmail:         models.StringPtr("ada@a.example"),
			GeneratedWebsiteLink: models.StringPtr("https://ada.lovable.app"),
		},
		{ID: 2, SourceAddress: "https://b.example"},
	}}, &out)
	require.NoError(t, err)

	got := out.String()
	assert.Contains(t, got, "https://a.example")
	assert.Contains(t, got, "ada@a.example")
	assert.Contains(t, got, "https://ada.lovable.app")
	assert.Contains(t, got, "https://b.example")
}

func TestListWebsites_Empty(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, listWebsites(context.Background(), stubLister{}, &out))
	assert.Equal(t, "No websites tracked\n", out.String())
}

func TestListWebsites_Error(t *testing.T) {
	var out bytes.Buffer
	err := listWebsites(context.Background(), stubLister{err: errors.New("down")}, &out)
	require.Error(t, err)
	assert.Empty(t, out.String())
}
