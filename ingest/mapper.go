package ingest

import (
	"regexp"
	"strconv"
	"strings"

	"rental-listings-importer/models"
)

// Field names a canonical listing attribute. The same names are reported as
// the column of a RowError.
type Field string

const (
	FieldID              Field = "id"
	FieldName            Field = "name"
	FieldAddress         Field = "address"
	FieldApartmentNumber Field = "apartment_number"
	FieldRent            Field = "rent"
	FieldFloorArea       Field = "floor_area"
	FieldBuildingType    Field = "building_type"
)

// DefaultColumnAliases lists, per field, the source header names that feed it.
// The first alias present in the header wins.
var DefaultColumnAliases = map[Field][]string{
	FieldID:              {"ユニークID", "id"},
	FieldName:            {"物件名", "name"},
	FieldAddress:         {"住所", "address"},
	FieldApartmentNumber: {"部屋番号", "unit", "apartment_number"},
	FieldRent:            {"賃料", "rent"},
	FieldFloorArea:       {"広さ", "area", "floor_area"},
	FieldBuildingType:    {"建物の種類", "type", "building_type"},
}

// BuildingTypeLabels maps source building-type labels to canonical values.
var BuildingTypeLabels = map[string]models.BuildingType{
	"アパート":  models.BuildingApartment,
	"マンション": models.BuildingCondominium,
	"一戸建て":  models.BuildingDetached,
}

var (
	// intPrefixRegexp captures the leading integer of a value, "_" allowed between digits
	intPrefixRegexp = regexp.MustCompile(`^[+-]?\d+(?:_\d+)*`)
	// floatPrefixRegexp captures the leading decimal, with optional exponent
	floatPrefixRegexp = regexp.MustCompile(`^[+-]?(?:\d+(?:_\d+)*(?:\.\d+(?:_\d+)*)?|\.\d+(?:_\d+)*)(?:[eE][+-]?\d+)?`)
)

// Candidate is a mapped but not yet validated listing.
type Candidate struct {
	Record models.ListingRecord

	// Blank marks fields whose source value was missing or empty after trimming.
	Blank map[Field]bool
	// Coerced marks non-blank numeric fields whose text was not a clean number
	// and was reduced to its leading numeric prefix (or zero).
	Coerced map[Field]bool
}

// Mapper turns raw rows into candidates. It never rejects a row.
type Mapper struct {
	aliases map[Field][]string
	labels  map[string]models.BuildingType
}

// NewMapper creates a Mapper using DefaultColumnAliases and BuildingTypeLabels.
func NewMapper() *Mapper {
	return &Mapper{aliases: DefaultColumnAliases, labels: BuildingTypeLabels}
}

// MissingColumns returns the fields for which none of the aliases appear in t.
func (m *Mapper) MissingColumns(t *Table) []Field {
	var missing []Field
	for _, f := range []Field{FieldID, FieldName, FieldAddress, FieldApartmentNumber, FieldRent, FieldFloorArea, FieldBuildingType} {
		found := false
		for _, alias := range m.aliases[f] {
			if t.HasColumn(alias) {
				found = true
				break
			}
		}
		if !found {
			missing = append(missing, f)
		}
	}
	return missing
}

// Map builds a Candidate from row.
func (m *Mapper) Map(row Row) Candidate {
	c := Candidate{Blank: map[Field]bool{}, Coerced: map[Field]bool{}}

	text := func(f Field) string {
		v := strings.TrimSpace(m.lookup(row, f))
		if v == "" {
			c.Blank[f] = true
		}
		return v
	}

	id := text(FieldID)
	c.Record.ID = ParseIntLenient(id)
	if id != "" && strconv.FormatInt(c.Record.ID, 10) != id {
		c.Coerced[FieldID] = true
	}

	c.Record.Name = text(FieldName)
	c.Record.Address = text(FieldAddress)
	c.Record.ApartmentNumber = text(FieldApartmentNumber)

	rent := text(FieldRent)
	c.Record.Rent = ParseIntLenient(rent)
	if rent != "" && strconv.FormatInt(c.Record.Rent, 10) != rent {
		c.Coerced[FieldRent] = true
	}

	area := text(FieldFloorArea)
	c.Record.FloorArea = ParseFloatLenient(area)
	if _, err := strconv.ParseFloat(area, 64); area != "" && err != nil {
		c.Coerced[FieldFloorArea] = true
	}

	label := text(FieldBuildingType)
	if bt, ok := m.labels[label]; ok {
		c.Record.BuildingType = bt
	}

	return c
}

func (m *Mapper) lookup(row Row, f Field) string {
	for _, alias := range m.aliases[f] {
		if v, ok := row.Get(alias); ok {
			return v
		}
	}
	return ""
}

// ParseIntLenient returns the integer at the start of s, ignoring leading
// whitespace and anything after the digits. Text without a leading integer,
// or one that overflows int64, yields 0.
func ParseIntLenient(s string) int64 {
	match := intPrefixRegexp.FindString(strings.TrimSpace(s))
	if match == "" {
		return 0
	}
	n, err := strconv.ParseInt(strings.ReplaceAll(match, "_", ""), 10, 64)
	if err != nil {
		return 0
	}
	return n
}

// ParseFloatLenient is the decimal counterpart of ParseIntLenient.
func ParseFloatLenient(s string) float64 {
	match := floatPrefixRegexp.FindString(strings.TrimSpace(s))
	if match == "" {
		return 0
	}
	f, err := strconv.ParseFloat(strings.ReplaceAll(match, "_", ""), 64)
	if err != nil {
		return 0
	}
	return f
}
