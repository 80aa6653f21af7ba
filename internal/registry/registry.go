// Package registry wires every data source converter into a single lookup
// keyed by source uid.
package registry

import (
	"sort"

	"github.com/rotisserie/eris"

	"github.com/JGaukrogers/parkapi-sources-v3/internal/config"
	"github.com/JGaukrogers/parkapi-sources-v3/internal/converter"
	"github.com/JGaukrogers/parkapi-sources-v3/internal/converter/a81pm"
	"github.com/JGaukrogers/parkapi-sources-v3/internal/converter/bfrk"
	"github.com/JGaukrogers/parkapi-sources-v3/internal/converter/ellwangen"
	"github.com/JGaukrogers/parkapi-sources-v3/internal/converter/herrenberg"
	"github.com/JGaukrogers/parkapi-sources-v3/internal/converter/kienzler"
	"github.com/JGaukrogers/parkapi-sources-v3/internal/converter/radvis"
	"github.com/JGaukrogers/parkapi-sources-v3/internal/fetcher"
)

// Registry holds all known converters.
type Registry struct {
	pull map[string]converter.PullConverter
	push map[string]converter.PushConverter
}

// New builds the registry with every available converter.
func New(cfg *config.Config, client fetcher.Client) *Registry {
	r := &Registry{
		pull: map[string]converter.PullConverter{},
		push: map[string]converter.PushConverter{},
	}

	for _, profile := range kienzler.Profiles() {
		r.addPull(kienzler.New(profile, cfg, client))
	}
	r.addPull(radvis.New(cfg, client))
	r.addPull(herrenberg.New(cfg, client))
	r.addPull(a81pm.New(cfg, client))

	for _, variant := range bfrk.Variants() {
		r.addPush(bfrk.New(variant, cfg, client))
	}
	r.addPush(ellwangen.New(cfg, client))

	return r
}

func (r *Registry) addPull(c converter.PullConverter) {
	r.pull[c.Info().UID] = c
}

func (r *Registry) addPush(c converter.PushConverter) {
	r.push[c.Info().UID] = c
}

// Pull returns the pull converter for uid.
func (r *Registry) Pull(uid string) (converter.PullConverter, error) {
	c, ok := r.pull[uid]
	if !ok {
		return nil, eris.Errorf("registry: unknown pull source %q", uid)
	}
	return c, nil
}

// Push returns the push converter for uid.
func (r *Registry) Push(uid string) (converter.PushConverter, error) {
	c, ok := r.push[uid]
	if !ok {
		return nil, eris.Errorf("registry: unknown push source %q", uid)
	}
	return c, nil
}

// Infos returns the metadata of every converter, sorted by uid.
func (r *Registry) Infos() []converter.SourceInfo {
	infos := make([]converter.SourceInfo, 0, len(r.pull)+len(r.push))
	for _, c := range r.pull {
		infos = append(infos, c.Info())
	}
	for _, c := range r.push {
		infos = append(infos, c.Info())
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].UID < infos[j].UID })
	return infos
}

// PullUIDs returns the uids of all pull converters, sorted.
func (r *Registry) PullUIDs() []string {
	uids := make([]string, 0, len(r.pull))
	for uid := range r.pull {
		uids = append(uids, uid)
	}
	sort.Strings(uids)
	return uids
}
