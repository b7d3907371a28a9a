package models

import (
	"errors"
	"fmt"
)

// Sentinels matched with errors.Is against the typed errors below.
var (
	ErrValidation   = errors.New("validation failed")
	ErrDuplicate    = errors.New("website already exists")
	ErrStorage      = errors.New("storage failure")
	ErrNotification = errors.New("notification failed")
	ErrFetch        = errors.New("fetch site content failed")
	ErrExtraction   = errors.New("contact extraction failed")
	ErrGeneration   = errors.New("page generation failed")

	ErrWebsiteNotFound    = errors.New("website not found")
	ErrGenerationDisabled = errors.New("page generation is disabled")
)

// ValidationError rejects malformed input before it reaches the service.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Message)
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }
func (e *ValidationError) Unwrap() error        { return e.Err }

// DuplicateError means the source address is already tracked.
type DuplicateError struct {
	SourceAddress string
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("website %q already exists", e.SourceAddress)
}

func (e *DuplicateError) Is(target error) bool { return target == ErrDuplicate }

// StorageError wraps a persistence failure.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s: %v", e.Op, e.Err)
}

func (e *StorageError) Is(target error) bool { return target == ErrStorage }
func (e *StorageError) Unwrap() error        { return e.Err }

// NotificationError means an event reached no observer.
type NotificationError struct {
	Event string
	Err   error
}

func (e *NotificationError) Error() string {
	return fmt.Sprintf("notify %s: %v", e.Event, e.Err)
}

func (e *NotificationError) Is(target error) bool { return target == ErrNotification }
func (e *NotificationError) Unwrap() error        { return e.Err }

// FetchError wraps a site crawl failure.
type FetchError struct {
	Address string
	Err     error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s: %v", e.Address, e.Err)
}

func (e *FetchError) Is(target error) bool { return target == ErrFetch }
func (e *FetchError) Unwrap() error        { return e.Err }

// ExtractionError wraps a language model failure.
type ExtractionError struct {
	Err error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extract contact: %v", e.Err)
}

func (e *ExtractionError) Is(target error) bool { return target == ErrExtraction }
func (e *ExtractionError) Unwrap() error        { return e.Err }

// GenerationError wraps a page generation failure.
type GenerationError struct {
	Address string
	Err     error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("generate page for %s: %v", e.Address, e.Err)
}

func (e *GenerationError) Is(target error) bool { return target == ErrGeneration }
func (e *GenerationError) Unwrap() error        { return e.Err }
