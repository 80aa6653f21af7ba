package converter

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/JGaukrogers/parkapi-sources-v3/internal/config"
	"github.com/JGaukrogers/parkapi-sources-v3/internal/fetcher"
	"github.com/JGaukrogers/parkapi-sources-v3/internal/model"
	"github.com/JGaukrogers/parkapi-sources-v3/internal/overlay"
)

// StaticResult is the outcome of one static conversion run. Both slices are
// always non-nil so callers can report partial success.
type StaticResult struct {
	Sites  []model.StaticSite  `json:"sites"`
	Errors []model.ImportError `json:"errors"`
}

// RealtimeResult is the outcome of one realtime conversion run.
type RealtimeResult struct {
	Sites  []model.RealtimeSite `json:"sites"`
	Errors []model.ImportError  `json:"errors"`
}

// Runner orchestrates conversion runs: config check, fetch, validate, map,
// overlay merge, and final canonical validation. One Runner may be shared;
// each run builds its own state.
type Runner struct {
	cfg    *config.Config
	client fetcher.Client
}

// NewRunner creates a Runner using the given fetch collaborator.
func NewRunner(cfg *config.Config, client fetcher.Client) *Runner {
	return &Runner{cfg: cfg, client: client}
}

// RunStatic executes a static conversion for one converter. Configuration
// and fetch-level faults are returned as the error; everything record-level
// lands in the result's error list.
func (r *Runner) RunStatic(ctx context.Context, conv PullConverter) (*StaticResult, error) {
	info := conv.Info()
	if err := r.cfg.Require(info.UID, info.RequiredConfigKeys...); err != nil {
		return nil, err
	}

	sites, errs, err := conv.StaticSites(ctx)
	if err != nil {
		return nil, tagSource(info.UID, err)
	}
	if errs == nil {
		errs = []model.ImportError{}
	}

	if info.UsesOverlay {
		sites, errs = r.applyOverlay(ctx, info.UID, sites, errs)
	}

	sites, errs = finalizeStatic(info.UID, sites, errs)
	zap.L().Info("converter: static run finished",
		zap.String("source", info.UID),
		zap.Int("sites", len(sites)),
		zap.Int("errors", len(errs)),
	)
	return &StaticResult{Sites: sites, Errors: errs}, nil
}

// RunRealtime executes a realtime conversion for one converter.
func (r *Runner) RunRealtime(ctx context.Context, conv RealtimePullConverter) (*RealtimeResult, error) {
	info := conv.Info()
	if err := r.cfg.Require(info.UID, info.RequiredConfigKeys...); err != nil {
		return nil, err
	}

	sites, errs, err := conv.RealtimeSites(ctx)
	if err != nil {
		return nil, tagSource(info.UID, err)
	}
	if errs == nil {
		errs = []model.ImportError{}
	}

	sites, errs = finalizeRealtime(info.UID, sites, errs)
	zap.L().Info("converter: realtime run finished",
		zap.String("source", info.UID),
		zap.Int("sites", len(sites)),
		zap.Int("errors", len(errs)),
	)
	return &RealtimeResult{Sites: sites, Errors: errs}, nil
}

// RunPush normalizes a pushed payload for one push converter.
func (r *Runner) RunPush(conv PushConverter, payload []byte) (*StaticResult, error) {
	info := conv.Info()
	if err := r.cfg.Require(info.UID, info.RequiredConfigKeys...); err != nil {
		return nil, err
	}

	sites, errs, err := conv.StaticSitesFromPayload(payload)
	if err != nil {
		return nil, tagSource(info.UID, err)
	}
	if errs == nil {
		errs = []model.ImportError{}
	}

	sites, errs = finalizeStatic(info.UID, sites, errs)
	return &StaticResult{Sites: sites, Errors: errs}, nil
}

// applyOverlay merges the source's overlay collection into the batch. A
// missing or unreachable overlay degrades to "no merge applied": the miss is
// recorded as an import error, never as a batch failure.
func (r *Runner) applyOverlay(ctx context.Context, sourceUID string, sites []model.StaticSite, errs []model.ImportError) ([]model.StaticSite, []model.ImportError) {
	store, overlayErrs, err := overlay.Load(ctx, r.client, r.cfg.Overlay, sourceUID)
	if err != nil {
		zap.L().Warn("converter: overlay unavailable, skipping merge",
			zap.String("source", sourceUID),
			zap.Error(err),
		)
		return sites, append(errs, model.NewImportError(sourceUID, "",
			fmt.Sprintf("overlay unavailable, no merge applied: %v", err)))
	}

	errs = append(errs, overlayErrs...)
	for i := range sites {
		sites[i] = store.Apply(sites[i])
	}
	return sites, errs
}

// finalizeStatic enforces batch identifier uniqueness and validates every
// canonical record. Offenders are moved to the error list.
func finalizeStatic(sourceUID string, sites []model.StaticSite, errs []model.ImportError) ([]model.StaticSite, []model.ImportError) {
	seen := make(map[string]struct{}, len(sites))
	out := make([]model.StaticSite, 0, len(sites))

	for _, site := range sites {
		if _, dup := seen[site.UID]; dup {
			errs = append(errs, model.NewImportError(sourceUID, site.UID, "duplicate uid in batch"))
			continue
		}
		if err := model.ValidateStatic(site); err != nil {
			errs = append(errs, model.NewImportError(sourceUID, site.UID, err.Error()))
			continue
		}
		seen[site.UID] = struct{}{}
		out = append(out, site)
	}
	return out, errs
}

func finalizeRealtime(sourceUID string, sites []model.RealtimeSite, errs []model.ImportError) ([]model.RealtimeSite, []model.ImportError) {
	seen := make(map[string]struct{}, len(sites))
	out := make([]model.RealtimeSite, 0, len(sites))

	for _, site := range sites {
		if _, dup := seen[site.UID]; dup {
			errs = append(errs, model.NewImportError(sourceUID, site.UID, "duplicate uid in batch"))
			continue
		}
		if err := model.ValidateRealtime(site); err != nil {
			errs = append(errs, model.NewImportError(sourceUID, site.UID, err.Error()))
			continue
		}
		seen[site.UID] = struct{}{}
		out = append(out, site)
	}
	return out, errs
}

// tagSource stamps the source UID onto fetch faults raised below the
// converter, where the source is not known yet.
func tagSource(sourceUID string, err error) error {
	var fe *model.FetchError
	if errors.As(err, &fe) && fe.SourceUID == "" {
		fe.SourceUID = sourceUID
	}
	return err
}
