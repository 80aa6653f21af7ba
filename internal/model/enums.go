package model

// Purpose categorizes what a parking site is for.
type Purpose string

const (
	PurposeCar  Purpose = "CAR"
	PurposeBike Purpose = "BIKE"
	PurposeItem Purpose = "ITEM"
)

// SiteType classifies the physical form of a parking site.
type SiteType string

const (
	// Car site types.
	SiteTypeOnStreet               SiteType = "ON_STREET"
	SiteTypeOffStreetParkingGround SiteType = "OFF_STREET_PARKING_GROUND"
	SiteTypeUnderground            SiteType = "UNDERGROUND"
	SiteTypeCarPark                SiteType = "CAR_PARK"

	// Bike site types, following the OSM bicycle_parking taxonomy.
	SiteTypeGenericBike   SiteType = "GENERIC_BIKE"
	SiteTypeWallLoops     SiteType = "WALL_LOOPS"
	SiteTypeSafeWallLoops SiteType = "SAFE_WALL_LOOPS"
	SiteTypeStands        SiteType = "STANDS"
	SiteTypeLockers       SiteType = "LOCKERS"
	SiteTypeShed          SiteType = "SHED"
	SiteTypeTwoTier       SiteType = "TWO_TIER"
	SiteTypeBuilding      SiteType = "BUILDING"
	SiteTypeFloor         SiteType = "FLOOR"

	// Standalone lockers for items.
	SiteTypeLockbox SiteType = "LOCKBOX"

	SiteTypeOther SiteType = "OTHER"
)

// Supervision describes how a site is guarded.
type Supervision string

const (
	SupervisionYes      Supervision = "YES"
	SupervisionNo       Supervision = "NO"
	SupervisionVideo    Supervision = "VIDEO"
	SupervisionAttended Supervision = "ATTENDED"
)

// OpeningStatus is the realtime open/closed state of a site.
type OpeningStatus string

const (
	OpeningStatusOpen    OpeningStatus = "OPEN"
	OpeningStatusClosed  OpeningStatus = "CLOSED"
	OpeningStatusUnknown OpeningStatus = "UNKNOWN"
)
