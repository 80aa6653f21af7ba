// Package converter defines the contract every source-specific converter
// satisfies and the orchestrator that drives a conversion run. A converter is
// configuration plus pure mapping code; the fetch/validate/map/merge loop is
// shared.
package converter

import (
	"context"

	"github.com/JGaukrogers/parkapi-sources-v3/internal/model"
)

// SourceInfo describes one external data source.
type SourceInfo struct {
	UID       string `json:"uid"`
	Name      string `json:"name"`
	PublicURL string `json:"public_url,omitempty"`
	SourceURL string `json:"source_url,omitempty"`

	AttributionContributor string `json:"attribution_contributor,omitempty"`
	AttributionLicense     string `json:"attribution_license,omitempty"`
	AttributionURL         string `json:"attribution_url,omitempty"`

	HasRealtimeData bool `json:"has_realtime_data"`

	// UsesOverlay declares that static records of this source are merged
	// against the geodata overlay collection of the same UID.
	UsesOverlay bool `json:"uses_overlay,omitempty"`

	// RequiredConfigKeys must all be set before a run starts.
	RequiredConfigKeys []string `json:"-"`
}

// PullConverter actively fetches static data from its source.
type PullConverter interface {
	Info() SourceInfo

	// StaticSites fetches and normalizes the source's static batch. The
	// error return is fatal for the batch (fetch-level fault); per-record
	// problems are reported in the import error list instead.
	StaticSites(ctx context.Context) ([]model.StaticSite, []model.ImportError, error)
}

// RealtimePullConverter additionally fetches realtime occupancy data.
type RealtimePullConverter interface {
	PullConverter

	RealtimeSites(ctx context.Context) ([]model.RealtimeSite, []model.ImportError, error)
}

// PushConverter normalizes payloads the provider delivers to us (spreadsheet
// reports, CSV exports) instead of fetching.
type PushConverter interface {
	Info() SourceInfo

	StaticSitesFromPayload(payload []byte) ([]model.StaticSite, []model.ImportError, error)
}
