package models

import "time"

// BuildingType is the canonical building classification of a rental listing.
type BuildingType string

const (
	BuildingApartment   BuildingType = "apartment"
	BuildingCondominium BuildingType = "condominium"
	BuildingDetached    BuildingType = "detached"
)

// buildingTypeCodes are the integer codes used by relational storage.
var buildingTypeCodes = map[BuildingType]int{
	BuildingApartment:   1,
	BuildingDetached:    2,
	BuildingCondominium: 3,
}

// Valid reports whether b is one of the three known building types.
func (b BuildingType) Valid() bool {
	_, ok := buildingTypeCodes[b]
	return ok
}

// Code returns the storage code for b, or 0 when b is not valid.
func (b BuildingType) Code() int {
	return buildingTypeCodes[b]
}

// BuildingTypeFromCode is the inverse of Code. Unknown codes yield "".
func BuildingTypeFromCode(code int) BuildingType {
	for b, c := range buildingTypeCodes {
		if c == code {
			return b
		}
	}
	return ""
}

// ListingRecord is a validated rental listing keyed by ID.
type ListingRecord struct {
	ID              int64        `json:"id" bson:"_id"`
	Name            string       `json:"name" bson:"name"`
	Address         string       `json:"address,omitempty" bson:"address,omitempty"`
	ApartmentNumber string       `json:"apartment_number,omitempty" bson:"apartment_number,omitempty"`
	Rent            int64        `json:"rent" bson:"rent"`
	FloorArea       float64      `json:"floor_area" bson:"floor_area"`
	BuildingType    BuildingType `json:"building_type" bson:"building_type"`
	CreatedAt       time.Time    `json:"created_at" bson:"created_at"`
	UpdatedAt       time.Time    `json:"updated_at" bson:"updated_at"`
}

// InsightReport holds the computed analytics over the stored listings.
type InsightReport struct {
	TotalListings      int
	AverageRent        float64
	MinRent            int64
	MaxRent            int64
	AverageRentPerSqm  float64
	MostExpensive      *ListingRecord
	Largest            []*ListingRecord
	ListingsByBuilding map[BuildingType]int
}
