package ingest

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"rental-listings-importer/models"
)

func validCandidate() Candidate {
	return Candidate{
		Record: models.ListingRecord{
			ID:              1,
			Name:            "Seaside Apt",
			Address:         "1 Bay St",
			ApartmentNumber: "101",
			Rent:            150000,
			FloorArea:       45.5,
			BuildingType:    models.BuildingApartment,
		},
		Blank:   map[Field]bool{},
		Coerced: map[Field]bool{},
	}
}

func columns(vs []Violation) []Field {
	out := make([]Field, 0, len(vs))
	for _, v := range vs {
		out = append(out, v.Column)
	}
	return out
}

func TestValidatorAcceptsValidRow(t *testing.T) {
	assert.Empty(t, NewValidator().Validate(validCandidate(), 2))
}

func TestValidatorAddressIsOptional(t *testing.T) {
	c := validCandidate()
	c.Record.Address = ""
	c.Blank[FieldAddress] = true
	assert.Empty(t, NewValidator().Validate(c, 2))
}

func TestValidatorReportsEveryRule(t *testing.T) {
	c := Candidate{
		Blank: map[Field]bool{
			FieldID: true, FieldName: true, FieldRent: true,
			FieldFloorArea: true, FieldBuildingType: true,
		},
	}

	vs := NewValidator().Validate(c, 7)
	assert.Equal(t, []Violation{
		{Row: 7, Column: FieldID, Rule: RuleRequired},
		{Row: 7, Column: FieldID, Rule: RuleGreaterThanZero},
		{Row: 7, Column: FieldName, Rule: RuleRequired},
		{Row: 7, Column: FieldRent, Rule: RuleRequired},
		{Row: 7, Column: FieldRent, Rule: RuleGreaterThanZero},
		{Row: 7, Column: FieldFloorArea, Rule: RuleRequired},
		{Row: 7, Column: FieldFloorArea, Rule: RuleGreaterThanZero},
		{Row: 7, Column: FieldBuildingType, Rule: RuleRequired},
		{Row: 7, Column: FieldBuildingType, Rule: RuleInclusion},
	}, vs)
}

func TestValidatorNonPositiveNumbers(t *testing.T) {
	c := validCandidate()
	c.Record.ID = -4
	c.Record.Rent = 0
	c.Record.FloorArea = -1

	assert.Equal(t, []Field{FieldID, FieldRent, FieldFloorArea}, columns(NewValidator().Validate(c, 3)))
}

func TestValidatorUnknownBuildingType(t *testing.T) {
	c := validCandidate()
	c.Record.BuildingType = ""

	vs := NewValidator().Validate(c, 4)
	assert.Equal(t, []Violation{{Row: 4, Column: FieldBuildingType, Rule: RuleInclusion}}, vs)
}

func TestValidatorApartmentNeedsUnit(t *testing.T) {
	c := validCandidate()
	c.Record.ApartmentNumber = ""
	c.Blank[FieldApartmentNumber] = true

	assert.Equal(t, []Field{FieldApartmentNumber}, columns(NewValidator().Validate(c, 5)))

	c.Record.BuildingType = models.BuildingCondominium
	assert.Empty(t, NewValidator().Validate(c, 5))

	c.Record.BuildingType = models.BuildingDetached
	assert.Empty(t, NewValidator().Validate(c, 5))
}
