package ingest

import "rental-listings-importer/models"

// Rule names the check that produced a Violation.
type Rule string

const (
	RuleRequired             Rule = "required"
	RuleGreaterThanZero      Rule = "greater_than_zero"
	RuleInclusion            Rule = "inclusion"
	RuleRequiredForApartment Rule = "required_for_apartment"
)

// Violation is a single rule failure for one field on one row.
type Violation struct {
	Row    int
	Column Field
	Rule   Rule
}

// Validator applies the listing schema to candidates. Every rule is checked,
// so one row can yield several violations, including more than one for the
// same field. Uniqueness of id is left to the store.
type Validator struct{}

func NewValidator() *Validator {
	return &Validator{}
}

// Validate returns the violations of c, in rule order. An empty result means
// the row is valid.
func (v *Validator) Validate(c Candidate, row int) []Violation {
	var out []Violation
	add := func(f Field, r Rule) {
		out = append(out, Violation{Row: row, Column: f, Rule: r})
	}
	rec := c.Record

	if c.Blank[FieldID] {
		add(FieldID, RuleRequired)
	}
	if rec.ID <= 0 {
		add(FieldID, RuleGreaterThanZero)
	}

	if c.Blank[FieldName] || rec.Name == "" {
		add(FieldName, RuleRequired)
	}

	if c.Blank[FieldRent] {
		add(FieldRent, RuleRequired)
	}
	if rec.Rent <= 0 {
		add(FieldRent, RuleGreaterThanZero)
	}

	if c.Blank[FieldFloorArea] {
		add(FieldFloorArea, RuleRequired)
	}
	if !(rec.FloorArea > 0) {
		add(FieldFloorArea, RuleGreaterThanZero)
	}

	if c.Blank[FieldBuildingType] {
		add(FieldBuildingType, RuleRequired)
	}
	if !rec.BuildingType.Valid() {
		add(FieldBuildingType, RuleInclusion)
	}

	if rec.BuildingType == models.BuildingApartment && rec.ApartmentNumber == "" {
		add(FieldApartmentNumber, RuleRequiredForApartment)
	}

	return out
}
