package overlay

import (
	"github.com/JGaukrogers/parkapi-sources-v3/internal/model"
)

// merge fills the gaps of a canonical record from its overlay counterpart.
// Merging is one-directional and idempotent: a field that is already set on
// the canonical record is never touched, so applying the same overlay twice
// yields the same result as applying it once.
func merge(site, o model.StaticSite) model.StaticSite {
	if site.Name == "" {
		site.Name = o.Name
	}
	if site.Type == "" {
		site.Type = o.Type
	}
	if site.Lat.IsZero() && site.Lon.IsZero() {
		site.Lat = o.Lat
		site.Lon = o.Lon
	}

	site.OperatorName = fill(site.OperatorName, o.OperatorName)
	site.Address = fill(site.Address, o.Address)
	site.Description = fill(site.Description, o.Description)
	site.PublicURL = fill(site.PublicURL, o.PublicURL)
	site.PhotoURL = fill(site.PhotoURL, o.PhotoURL)
	site.RelatedLocation = fill(site.RelatedLocation, o.RelatedLocation)

	site.Capacity = fill(site.Capacity, o.Capacity)
	site.CapacityCharging = fill(site.CapacityCharging, o.CapacityCharging)
	site.CapacityDisabled = fill(site.CapacityDisabled, o.CapacityDisabled)
	site.CapacityWoman = fill(site.CapacityWoman, o.CapacityWoman)
	site.CapacityCarsharing = fill(site.CapacityCarsharing, o.CapacityCarsharing)

	site.Supervision = fill(site.Supervision, o.Supervision)
	site.IsCovered = fill(site.IsCovered, o.IsCovered)
	site.HasLighting = fill(site.HasLighting, o.HasLighting)
	site.HasFee = fill(site.HasFee, o.HasFee)
	site.FeeDescription = fill(site.FeeDescription, o.FeeDescription)
	site.OpeningHours = fill(site.OpeningHours, o.OpeningHours)
	site.MaxStay = fill(site.MaxStay, o.MaxStay)

	if len(site.Tags) == 0 && len(o.Tags) > 0 {
		site.Tags = append([]string(nil), o.Tags...)
	}
	if site.StaticDataUpdatedAt.IsZero() {
		site.StaticDataUpdatedAt = o.StaticDataUpdatedAt
	}

	return site
}

// fill returns the canonical value when set, otherwise the overlay value.
func fill[T any](canonical, overlay *T) *T {
	if canonical != nil {
		return canonical
	}
	return overlay
}
