package registry

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JGaukrogers/parkapi-sources-v3/internal/config"
)

func testRegistry(t *testing.T) *Registry {
	t.Helper()
	cfg, err := config.Load()
	require.NoError(t, err)
	return New(cfg, nil)
}

func TestNew_AllSourcesRegistered(t *testing.T) {
	reg := testRegistry(t)

	// 8 box platform deployments plus radvis, herrenberg, and the motorway
	// truck parking API.
	assert.Len(t, reg.PullUIDs(), 11)

	infos := reg.Infos()
	seen := map[string]bool{}
	for _, info := range infos {
		assert.False(t, seen[info.UID], info.UID)
		seen[info.UID] = true
	}
	// Push sources: two survey variants plus the Ellwangen spreadsheet.
	assert.Len(t, infos, 14)
}

func TestPull_Known(t *testing.T) {
	reg := testRegistry(t)
	conv, err := reg.Pull("radvis_bw")
	require.NoError(t, err)
	assert.Equal(t, "radvis_bw", conv.Info().UID)
}

func TestPull_Unknown(t *testing.T) {
	reg := testRegistry(t)
	_, err := reg.Pull("nonexistent")
	assert.Error(t, err)

	// Push sources are not reachable through Pull.
	_, err = reg.Pull("ellwangen")
	assert.Error(t, err)
}

func TestPush_Known(t *testing.T) {
	reg := testRegistry(t)
	conv, err := reg.Push("bfrk_bw_bike")
	require.NoError(t, err)
	assert.Equal(t, "bfrk_bw_bike", conv.Info().UID)

	_, err = reg.Push("radvis_bw")
	assert.Error(t, err)
}

func TestInfos_Sorted(t *testing.T) {
	infos := testRegistry(t).Infos()
	uids := make([]string, len(infos))
	for i, info := range infos {
		uids[i] = info.UID
	}
	assert.True(t, sort.StringsAreSorted(uids))
}
