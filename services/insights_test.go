package services

import (
	"bytes"
	"strings"
	"testing"

	"rental-listings-importer/models"
	"rental-listings-importer/utils"
)

func sampleListings() []*models.ListingRecord {
	return []*models.ListingRecord{
		{ID: 1, Name: "Seaside Apt", Address: "1 Bay St", ApartmentNumber: "101", Rent: 150000, FloorArea: 50, BuildingType: models.BuildingApartment},
		{ID: 2, Name: "Hill Condo", Address: "2 Hill Rd", Rent: 90000, FloorArea: 30, BuildingType: models.BuildingCondominium},
		{ID: 3, Name: "Garden House", Address: "3 Park Ln", Rent: 240000, FloorArea: 120, BuildingType: models.BuildingDetached},
		{ID: 4, Name: "River Condo", Address: "4 River Rd", Rent: 60000, FloorArea: 20, BuildingType: models.BuildingCondominium},
	}
}

func TestInsightCounts(t *testing.T) {
	svc := NewInsightService(utils.NewNopLogger())
	r := svc.Generate(sampleListings())
	if r.TotalListings != 4 {
		t.Errorf("TotalListings: got %d, want 4", r.TotalListings)
	}
	if r.ListingsByBuilding[models.BuildingCondominium] != 2 {
		t.Errorf("condominium count: got %d, want 2", r.ListingsByBuilding[models.BuildingCondominium])
	}
	if r.ListingsByBuilding[models.BuildingDetached] != 1 {
		t.Errorf("detached count: got %d, want 1", r.ListingsByBuilding[models.BuildingDetached])
	}
}

func TestInsightRents(t *testing.T) {
	svc := NewInsightService(utils.NewNopLogger())
	r := svc.Generate(sampleListings())
	if r.AverageRent != 135000 {
		t.Errorf("AverageRent: got %.2f, want 135000", r.AverageRent)
	}
	if r.MinRent != 60000 {
		t.Errorf("MinRent: got %d, want 60000", r.MinRent)
	}
	if r.MaxRent != 240000 {
		t.Errorf("MaxRent: got %d, want 240000", r.MaxRent)
	}
	// (3000 + 3000 + 2000 + 3000) / 4
	if r.AverageRentPerSqm != 2750 {
		t.Errorf("AverageRentPerSqm: got %.2f, want 2750", r.AverageRentPerSqm)
	}
}

func TestInsightMostExpensive(t *testing.T) {
	svc := NewInsightService(utils.NewNopLogger())
	r := svc.Generate(sampleListings())
	if r.MostExpensive == nil {
		t.Fatal("MostExpensive should not be nil")
	}
	if r.MostExpensive.ID != 3 {
		t.Errorf("MostExpensive: got #%d, want #3", r.MostExpensive.ID)
	}
}

func TestInsightLargest(t *testing.T) {
	svc := NewInsightService(utils.NewNopLogger())
	r := svc.Generate(sampleListings())
	if len(r.Largest) != 3 {
		t.Fatalf("Largest len: got %d, want 3", len(r.Largest))
	}
	want := []int64{3, 1, 2}
	for i, id := range want {
		if r.Largest[i].ID != id {
			t.Errorf("Largest[%d]: got #%d, want #%d", i, r.Largest[i].ID, id)
		}
	}
}

func TestInsightEmptyInput(t *testing.T) {
	svc := NewInsightService(utils.NewNopLogger())
	r := svc.Generate(nil)
	if r.TotalListings != 0 {
		t.Errorf("expected 0 total listings for empty input")
	}
	if r.MostExpensive != nil {
		t.Errorf("expected no most expensive listing for empty input")
	}
}

func TestInsightPrint(t *testing.T) {
	svc := NewInsightService(utils.NewNopLogger())
	var buf bytes.Buffer
	svc.Print(&buf, svc.Generate(sampleListings()))

	out := buf.String()
	for _, want := range []string{"Total listings stored : 4", "Garden House", "condominium"} {
		if !strings.Contains(out, want) {
			t.Errorf("Print output missing %q", want)
		}
	}
}
