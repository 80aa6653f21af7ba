package converter

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JGaukrogers/parkapi-sources-v3/internal/config"
	"github.com/JGaukrogers/parkapi-sources-v3/internal/model"
)

// stubConverter scripts one conversion outcome.
type stubConverter struct {
	info     SourceInfo
	sites    []model.StaticSite
	realtime []model.RealtimeSite
	errs     []model.ImportError
	err      error
	calls    int
}

func (s *stubConverter) Info() SourceInfo { return s.info }

func (s *stubConverter) StaticSites(context.Context) ([]model.StaticSite, []model.ImportError, error) {
	s.calls++
	return s.sites, s.errs, s.err
}

func (s *stubConverter) RealtimeSites(context.Context) ([]model.RealtimeSite, []model.ImportError, error) {
	s.calls++
	return s.realtime, s.errs, s.err
}

func (s *stubConverter) StaticSitesFromPayload([]byte) ([]model.StaticSite, []model.ImportError, error) {
	s.calls++
	return s.sites, s.errs, s.err
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.Load()
	require.NoError(t, err)
	return cfg
}

func testSite(uid string) model.StaticSite {
	return model.StaticSite{
		UID:                 uid,
		Name:                "Parkhaus " + uid,
		Purpose:             model.PurposeCar,
		Type:                model.SiteTypeCarPark,
		Lat:                 decimal.RequireFromString("48.7840000"),
		Lon:                 decimal.RequireFromString("9.1829000"),
		StaticDataUpdatedAt: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestRunStatic_HappyPath(t *testing.T) {
	conv := &stubConverter{
		info:  SourceInfo{UID: "src"},
		sites: []model.StaticSite{testSite("a"), testSite("b")},
	}
	runner := NewRunner(testConfig(t), nil)

	result, err := runner.RunStatic(context.Background(), conv)
	require.NoError(t, err)
	assert.Len(t, result.Sites, 2)
	assert.Empty(t, result.Errors)
	assert.NotNil(t, result.Errors)
}

func TestRunStatic_PartialSuccess(t *testing.T) {
	conv := &stubConverter{
		info:  SourceInfo{UID: "src"},
		sites: []model.StaticSite{testSite("a")},
		errs:  []model.ImportError{model.NewImportError("src", "bad", "unparseable")},
	}
	runner := NewRunner(testConfig(t), nil)

	result, err := runner.RunStatic(context.Background(), conv)
	require.NoError(t, err)
	assert.Len(t, result.Sites, 1)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "bad", result.Errors[0].SiteUID)
}

func TestRunStatic_FetchErrorIsFatalAndTagged(t *testing.T) {
	conv := &stubConverter{
		info: SourceInfo{UID: "src"},
		err:  &model.FetchError{URL: "https://example.com", Status: 500},
	}
	runner := NewRunner(testConfig(t), nil)

	_, err := runner.RunStatic(context.Background(), conv)
	require.Error(t, err)
	require.True(t, model.IsFetchError(err))
	assert.Contains(t, err.Error(), "src")
}

func TestRunStatic_MissingConfigFailsBeforeFetch(t *testing.T) {
	conv := &stubConverter{
		info: SourceInfo{UID: "src", RequiredConfigKeys: []string{"src.token"}},
	}
	runner := NewRunner(testConfig(t), nil)

	_, err := runner.RunStatic(context.Background(), conv)
	require.Error(t, err)
	assert.True(t, model.IsConfigError(err))
	assert.Equal(t, 0, conv.calls)
}

func TestRunStatic_ConfigPresent(t *testing.T) {
	conv := &stubConverter{
		info:  SourceInfo{UID: "src", RequiredConfigKeys: []string{"src.token"}},
		sites: []model.StaticSite{testSite("a")},
	}
	cfg := testConfig(t)
	cfg.Set("src.token", "secret")
	runner := NewRunner(cfg, nil)

	result, err := runner.RunStatic(context.Background(), conv)
	require.NoError(t, err)
	assert.Len(t, result.Sites, 1)
}

func TestRunStatic_DuplicateUID(t *testing.T) {
	conv := &stubConverter{
		info:  SourceInfo{UID: "src"},
		sites: []model.StaticSite{testSite("a"), testSite("a")},
	}
	runner := NewRunner(testConfig(t), nil)

	result, err := runner.RunStatic(context.Background(), conv)
	require.NoError(t, err)
	assert.Len(t, result.Sites, 1)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0].Message, "duplicate uid")
}

func TestRunStatic_InvalidRecordMovedToErrors(t *testing.T) {
	bad := testSite("bad")
	bad.Purpose = "TRUCK"
	conv := &stubConverter{
		info:  SourceInfo{UID: "src"},
		sites: []model.StaticSite{testSite("a"), bad},
	}
	runner := NewRunner(testConfig(t), nil)

	result, err := runner.RunStatic(context.Background(), conv)
	require.NoError(t, err)
	assert.Len(t, result.Sites, 1)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "bad", result.Errors[0].SiteUID)
}

func TestRunStatic_OverlayUnavailableDegrades(t *testing.T) {
	conv := &stubConverter{
		info:  SourceInfo{UID: "src", UsesOverlay: true},
		sites: []model.StaticSite{testSite("a")},
	}
	cfg := testConfig(t)
	cfg.Overlay.BasePath = t.TempDir() // no src.geojson inside
	runner := NewRunner(cfg, nil)

	result, err := runner.RunStatic(context.Background(), conv)
	require.NoError(t, err)
	assert.Len(t, result.Sites, 1)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0].Message, "no merge applied")
}

func TestRunStatic_OverlayMerged(t *testing.T) {
	collection := `{
		"type": "FeatureCollection",
		"features": [{
			"type": "Feature",
			"geometry": {"type": "Point", "coordinates": [9.1829, 48.784]},
			"properties": {"uid": "a", "operator_name": "Stadtwerke"}
		}]
	}`
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "src.geojson"), []byte(collection), 0o644))

	conv := &stubConverter{
		info:  SourceInfo{UID: "src", UsesOverlay: true},
		sites: []model.StaticSite{testSite("a"), testSite("b")},
	}
	cfg := testConfig(t)
	cfg.Overlay.BasePath = dir
	runner := NewRunner(cfg, nil)

	result, err := runner.RunStatic(context.Background(), conv)
	require.NoError(t, err)
	require.Len(t, result.Sites, 2)
	require.NotNil(t, result.Sites[0].OperatorName)
	assert.Equal(t, "Stadtwerke", *result.Sites[0].OperatorName)
	assert.Nil(t, result.Sites[1].OperatorName)
}

func TestRunRealtime_HappyPath(t *testing.T) {
	conv := &stubConverter{
		info: SourceInfo{UID: "src", HasRealtimeData: true},
		realtime: []model.RealtimeSite{{
			UID:                   "a",
			OpeningStatus:         model.OpeningStatusOpen,
			Capacity:              model.Ptr(10),
			FreeCapacity:          model.Ptr(3),
			RealtimeDataUpdatedAt: time.Now().UTC(),
		}},
	}
	runner := NewRunner(testConfig(t), nil)

	result, err := runner.RunRealtime(context.Background(), conv)
	require.NoError(t, err)
	assert.Len(t, result.Sites, 1)
	assert.Empty(t, result.Errors)
}

func TestRunRealtime_InvalidStatus(t *testing.T) {
	conv := &stubConverter{
		info: SourceInfo{UID: "src", HasRealtimeData: true},
		realtime: []model.RealtimeSite{{
			UID:                   "a",
			OpeningStatus:         "HALF_OPEN",
			RealtimeDataUpdatedAt: time.Now().UTC(),
		}},
	}
	runner := NewRunner(testConfig(t), nil)

	result, err := runner.RunRealtime(context.Background(), conv)
	require.NoError(t, err)
	assert.Empty(t, result.Sites)
	assert.Len(t, result.Errors, 1)
}

func TestRunPush_HappyPath(t *testing.T) {
	conv := &stubConverter{
		info:  SourceInfo{UID: "src"},
		sites: []model.StaticSite{testSite("a")},
	}
	runner := NewRunner(testConfig(t), nil)

	result, err := runner.RunPush(conv, []byte("payload"))
	require.NoError(t, err)
	assert.Len(t, result.Sites, 1)
	assert.Equal(t, 1, conv.calls)
}
