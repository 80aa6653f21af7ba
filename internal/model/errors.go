package model

import (
	"errors"
	"fmt"
	"strings"
)

// ImportError reports that a single record of a batch could not be imported.
// Import errors are always collected and returned next to the successful
// records; they never abort the batch.
type ImportError struct {
	SourceUID string `json:"source_uid"`
	SiteUID   string `json:"site_uid,omitempty"`
	Message   string `json:"message"`
}

func (e ImportError) Error() string {
	if e.SiteUID == "" {
		return fmt.Sprintf("%s: %s", e.SourceUID, e.Message)
	}
	return fmt.Sprintf("%s [%s]: %s", e.SourceUID, e.SiteUID, e.Message)
}

// NewImportError builds an ImportError for one record of a source batch.
func NewImportError(sourceUID, siteUID, message string) ImportError {
	return ImportError{SourceUID: sourceUID, SiteUID: siteUID, Message: message}
}

// FetchError means the source was unreachable, timed out, or returned an
// unparseable payload. It is fatal for the source's current run: no records
// exist yet, so there is nothing to partially report.
type FetchError struct {
	SourceUID string
	URL       string
	Status    int
	Err       error
}

func (e *FetchError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "fetch failed for source %s", e.SourceUID)
	if e.URL != "" {
		fmt.Fprintf(&b, " (%s)", e.URL)
	}
	if e.Status != 0 {
		fmt.Fprintf(&b, ": HTTP %d", e.Status)
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

func (e *FetchError) Unwrap() error { return e.Err }

// IsFetchError reports whether err carries a FetchError anywhere in its chain.
func IsFetchError(err error) bool {
	var fe *FetchError
	return errors.As(err, &fe)
}

// ConfigError means a converter is missing required configuration. It is
// raised at run start, before any network activity.
type ConfigError struct {
	SourceUID   string
	MissingKeys []string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("source %s: missing required config keys: %s",
		e.SourceUID, strings.Join(e.MissingKeys, ", "))
}

// IsConfigError reports whether err carries a ConfigError anywhere in its chain.
func IsConfigError(err error) bool {
	var ce *ConfigError
	return errors.As(err, &ce)
}
