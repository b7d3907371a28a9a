// Package models holds the website record, contact data and the error kinds
// shared across mithrilforge.
package models

import (
	"net/url"
	"strings"
	"time"
)

// Website is a tracked site and whatever enrichment has been stored for it.
type Website struct {
	ID                   int64     `db:"website_id"             json:"id"`
	SourceAddress        string    `db:"source_address"         json:"source_address"`
	ContactEmail         *string   `db:"contact_email"          json:"contact_email"`
	ContactName          *string   `db:"contact_name"           json:"contact_name"`
	GeneratedWebsiteLink *string   `db:"generated_website_link" json:"generated_website_link"`
	GeneratedWebsiteName *string   `db:"generated_website_name" json:"generated_website_name"`
	CreatedAt            time.Time `db:"created_at"             json:"-"`
}

// CreateWebsiteRequest is a validated source address. Build it with
// NewCreateWebsiteRequest.
type CreateWebsiteRequest struct {
	sourceAddress string
}

// NewCreateWebsiteRequest accepts absolute http(s) URLs with a host. The
// stored address is canonical: lowercase scheme and host, no default port and
// no trailing slash, so spellings of one site compare equal.
func NewCreateWebsiteRequest(raw string) (CreateWebsiteRequest, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return CreateWebsiteRequest{}, &ValidationError{Field: "source_address", Message: "is required"}
	}

	u, err := url.Parse(raw)
	if err != nil {
		return CreateWebsiteRequest{}, &ValidationError{Field: "source_address", Message: "is not a valid URL", Err: err}
	}
	u.Scheme = strings.ToLower(u.Scheme)
	if u.Scheme != "http" && u.Scheme != "https" {
		return CreateWebsiteRequest{}, &ValidationError{Field: "source_address", Message: "must use http or https"}
	}
	if u.Host == "" {
		return CreateWebsiteRequest{}, &ValidationError{Field: "source_address", Message: "must include a host"}
	}

	return CreateWebsiteRequest{sourceAddress: canonicalAddress(u)}, nil
}

var defaultPorts = map[string]string{"http": "80", "https": "443"}

func canonicalAddress(u *url.URL) string {
	host := strings.ToLower(u.Host)
	if port := u.Port(); port != "" && port == defaultPorts[u.Scheme] {
		host = strings.TrimSuffix(host, ":"+port)
	}
	u.Host = host
	u.Path = strings.TrimRight(u.Path, "/")
	u.RawPath = strings.TrimRight(u.RawPath, "/")
	return u.String()
}

// SourceAddress returns the normalized address.
func (r CreateWebsiteRequest) SourceAddress() string {
	return r.sourceAddress
}

// SocialLinks are the optional social and review profiles of a site.
type SocialLinks struct {
	Instagram    *string `json:"instagram,omitempty"`
	Facebook     *string `json:"facebook,omitempty"`
	GoogleReview *string `json:"google_review,omitempty"`
	GoogleMaps   *string `json:"google_maps,omitempty"`
}

// Contact is what extraction found. Every field may be absent.
type Contact struct {
	Email  *string     `json:"contact_email"`
	Name   *string     `json:"contact_name"`
	Social SocialLinks `json:"social_links"`
}

// ContactEvent ties a contact to the website it was extracted from.
type ContactEvent struct {
	WebsiteID int64   `json:"website_id"`
	Contact   Contact `json:"contact"`
}

// GeneratedWebsite is the page produced by the generation tool.
type GeneratedWebsite struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// StringPtr returns nil for empty or blank strings.
func StringPtr(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

// Normalize maps empty strings to nil in every field.
func (c Contact) Normalize() Contact {
	norm := func(p *string) *string {
		if p == nil {
			return nil
		}
		return StringPtr(*p)
	}
	return Contact{
		Email: norm(c.Email),
		Name:  norm(c.Name),
		Social: SocialLinks{
			Instagram:    norm(c.Social.Instagram),
			Facebook:     norm(c.Social.Facebook),
			GoogleReview: norm(c.Social.GoogleReview),
			GoogleMaps:   norm(c.Social.GoogleMaps),
		},
	}
}
