// Package model defines the canonical parking-site records every source
// converter normalizes into, plus the error taxonomy of the import pipeline.
package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// RawRecord is an untyped provider payload record. It only exists between
// fetch and validation and is never persisted.
type RawRecord map[string]any

// Get returns the raw value for key, or nil if absent.
func (r RawRecord) Get(key string) any {
	if r == nil {
		return nil
	}
	return r[key]
}

// StringOr returns the raw value for key as a string, or fallback when the
// key is absent or not a string. Used for error diagnostics only.
func (r RawRecord) StringOr(key, fallback string) string {
	if s, ok := r.Get(key).(string); ok && s != "" {
		return s
	}
	return fallback
}

// StaticSite is the canonical static representation of one physical parking
// site. Optional scalars are pointers; nil means the source did not provide
// the field, which is what the overlay merge keys off.
type StaticSite struct {
	UID      string  `json:"uid" validate:"required,max=256"`
	GroupUID string  `json:"group_uid,omitempty" validate:"omitempty,max=256"`
	Name     string  `json:"name" validate:"required,max=256"`
	Purpose  Purpose `json:"purpose" validate:"oneof=CAR BIKE ITEM"`

	Type SiteType `json:"type,omitempty" validate:"omitempty,oneof=ON_STREET OFF_STREET_PARKING_GROUND UNDERGROUND CAR_PARK GENERIC_BIKE WALL_LOOPS SAFE_WALL_LOOPS STANDS LOCKERS SHED TWO_TIER BUILDING FLOOR LOCKBOX OTHER"`

	Lat decimal.Decimal `json:"lat" validate:"latitude"`
	Lon decimal.Decimal `json:"lon" validate:"longitude"`

	OperatorName    *string `json:"operator_name,omitempty" validate:"omitempty,max=256"`
	Address         *string `json:"address,omitempty" validate:"omitempty,max=512"`
	Description     *string `json:"description,omitempty" validate:"omitempty,max=4096"`
	PublicURL       *string `json:"public_url,omitempty" validate:"omitempty,url"`
	PhotoURL        *string `json:"photo_url,omitempty" validate:"omitempty,url"`
	RelatedLocation *string `json:"related_location,omitempty" validate:"omitempty,max=256"`

	Capacity           *int `json:"capacity,omitempty" validate:"omitempty,min=0"`
	CapacityCharging   *int `json:"capacity_charging,omitempty" validate:"omitempty,min=0"`
	CapacityDisabled   *int `json:"capacity_disabled,omitempty" validate:"omitempty,min=0"`
	CapacityWoman      *int `json:"capacity_woman,omitempty" validate:"omitempty,min=0"`
	CapacityCarsharing *int `json:"capacity_carsharing,omitempty" validate:"omitempty,min=0"`

	Supervision    *Supervision `json:"supervision,omitempty" validate:"omitempty,oneof=YES NO VIDEO ATTENDED"`
	IsCovered      *bool        `json:"is_covered,omitempty"`
	HasLighting    *bool        `json:"has_lighting,omitempty"`
	HasFee         *bool        `json:"has_fee,omitempty"`
	FeeDescription *string      `json:"fee_description,omitempty" validate:"omitempty,max=4096"`
	OpeningHours   *string      `json:"opening_hours,omitempty" validate:"omitempty,max=512"`
	MaxStay        *int         `json:"max_stay,omitempty" validate:"omitempty,min=0"`

	HasRealtimeData bool     `json:"has_realtime_data"`
	Tags            []string `json:"tags,omitempty"`

	StaticDataUpdatedAt time.Time `json:"static_data_updated_at" validate:"required"`
}

// RealtimeSite is the canonical realtime snapshot for a site. UID must match
// the UID of a StaticSite emitted by the same source.
type RealtimeSite struct {
	UID string `json:"uid" validate:"required,max=256"`

	OpeningStatus OpeningStatus `json:"realtime_opening_status" validate:"oneof=OPEN CLOSED UNKNOWN"`

	Capacity     *int `json:"realtime_capacity,omitempty" validate:"omitempty,min=0"`
	FreeCapacity *int `json:"realtime_free_capacity,omitempty" validate:"omitempty,min=0"`

	RealtimeDataUpdatedAt time.Time `json:"realtime_data_updated_at" validate:"required"`
}

// Ptr returns a pointer to v. Shorthand for building optional record fields.
func Ptr[T any](v T) *T { return &v }
