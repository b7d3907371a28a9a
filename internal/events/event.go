// Package events broadcasts website lifecycle events to live observers and
// mirrors them to a redis stream.
package events

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ksnll/mithrilforge/internal/models"
)

// Wire discriminators.
const (
	TypeFetchingContact  = "FetchingContact"
	TypeWebsiteAdded     = "WebsiteAdded"
	TypeContactFetched   = "FetchedContact"
	TypeWebsiteGenerated = "GeneratedWebsite"
)

// ErrUnknownEventType is returned by Unmarshal for an unrecognized "type".
var ErrUnknownEventType = errors.New("unknown event type")

// LifecycleEvent is one of FetchingContact, WebsiteAdded, ContactFetched or
// WebsiteGenerated. Events are immutable snapshots.
type LifecycleEvent interface {
	EventType() string
	isLifecycleEvent()
}

// FetchingContact announces that contact enrichment started.
type FetchingContact struct{}

// WebsiteAdded carries the newly persisted website.
type WebsiteAdded struct {
	Website models.Website
}

// ContactFetched carries a successfully extracted and stored contact.
type ContactFetched struct {
	models.ContactEvent
}

// WebsiteGenerated carries the redesigned page for a website.
type WebsiteGenerated struct {
	WebsiteID int64
	Page      models.GeneratedWebsite
}

func (FetchingContact) EventType() string  { return TypeFetchingContact }
func (WebsiteAdded) EventType() string     { return TypeWebsiteAdded }
func (ContactFetched) EventType() string   { return TypeContactFetched }
func (WebsiteGenerated) EventType() string { return TypeWebsiteGenerated }

func (FetchingContact) isLifecycleEvent()  {}
func (WebsiteAdded) isLifecycleEvent()     {}
func (ContactFetched) isLifecycleEvent()   {}
func (WebsiteGenerated) isLifecycleEvent() {}

type websiteAddedWire struct {
	Type string `json:"type"`
	models.Website
}

type contactFetchedWire struct {
	Type string `json:"type"`
	models.ContactEvent
}

type websiteGeneratedWire struct {
	Type      string `json:"type"`
	WebsiteID int64  `json:"website_id"`
	models.GeneratedWebsite
}

// Marshal encodes ev as JSON tagged with a "type" key.
func Marshal(ev LifecycleEvent) ([]byte, error) {
	var wire any
	switch e := ev.(type) {
	case FetchingContact:
		wire = struct {
			Type string `json:"type"`
		}{TypeFetchingContact}
	case WebsiteAdded:
		wire = websiteAddedWire{Type: TypeWebsiteAdded, Website: e.Website}
	case ContactFetched:
		wire = contactFetchedWire{Type: TypeContactFetched, ContactEvent: e.ContactEvent}
	case WebsiteGenerated:
		wire = websiteGeneratedWire{Type: TypeWebsiteGenerated, WebsiteID: e.WebsiteID, GeneratedWebsite: e.Page}
	default:
		return nil, fmt.Errorf("marshal %T: %w", ev, ErrUnknownEventType)
	}

	data, err := json.Marshal(wire)
	if err != nil {
		return nil, fmt.Errorf("marshal %s: %w", ev.EventType(), err)
	}
	return data, nil
}

// Unmarshal decodes JSON produced by Marshal.
func Unmarshal(data []byte) (LifecycleEvent, error) {
	var head struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, fmt.Errorf("decode event type: %w", err)
	}

	switch head.Type {
	case TypeFetchingContact:
		return FetchingContact{}, nil
	case TypeWebsiteAdded:
		var w websiteAddedWire
		if err := json.Unmarshal(data, &w); err != nil {
			return nil, fmt.Errorf("decode %s: %w", head.Type, err)
		}
		return WebsiteAdded{Website: w.Website}, nil
	case TypeContactFetched:
		var w contactFetchedWire
		if err := json.Unmarshal(data, &w); err != nil {
			return nil, fmt.Errorf("decode %s: %w", head.Type, err)
		}
		return ContactFetched{ContactEvent: w.ContactEvent}, nil
	case TypeWebsiteGenerated:
		var w websiteGeneratedWire
		if err := json.Unmarshal(data, &w); err != nil {
			return nil, fmt.Errorf("decode %s: %w", head.Type, err)
		}
		return WebsiteGenerated{WebsiteID: w.WebsiteID, Page: w.GeneratedWebsite}, nil
	default:
		return nil, fmt.Errorf("%q: %w", head.Type, ErrUnknownEventType)
	}
}
