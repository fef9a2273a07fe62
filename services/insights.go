package services

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strings"

	"rental-listings-importer/models"
	"rental-listings-importer/utils"
)

type InsightService struct {
	logger *utils.Logger
}

func NewInsightService(logger *utils.Logger) *InsightService {
	if logger == nil {
		logger = utils.NewNopLogger()
	}
	return &InsightService{logger: logger}
}

func (s *InsightService) Generate(listings []*models.ListingRecord) *models.InsightReport {
	report := &models.InsightReport{
		ListingsByBuilding: make(map[models.BuildingType]int),
	}

	if len(listings) == 0 {
		return report
	}

	report.TotalListings = len(listings)
	report.MinRent = listings[0].Rent
	report.MaxRent = listings[0].Rent
	report.MostExpensive = listings[0]

	var totalRent float64
	var totalPerSqm float64
	var withArea int

	for _, l := range listings {
		totalRent += float64(l.Rent)
		if l.Rent < report.MinRent {
			report.MinRent = l.Rent
		}
		if l.Rent > report.MaxRent {
			report.MaxRent = l.Rent
			report.MostExpensive = l
		}
		if l.FloorArea > 0 {
			totalPerSqm += float64(l.Rent) / l.FloorArea
			withArea++
		}
		report.ListingsByBuilding[l.BuildingType]++
	}

	report.AverageRent = round2(totalRent / float64(len(listings)))
	if withArea > 0 {
		report.AverageRentPerSqm = round2(totalPerSqm / float64(withArea))
	}

	// Top 3 by floor area, ties broken by id
	largest := make([]*models.ListingRecord, len(listings))
	copy(largest, listings)
	sort.SliceStable(largest, func(i, j int) bool {
		if largest[i].FloorArea != largest[j].FloorArea {
			return largest[i].FloorArea > largest[j].FloorArea
		}
		return largest[i].ID < largest[j].ID
	})
	if len(largest) > 3 {
		largest = largest[:3]
	}
	report.Largest = largest

	s.logger.Debug("[insights] Summarised %d listings", report.TotalListings)
	return report
}

func (s *InsightService) Print(w io.Writer, r *models.InsightReport) {
	sep := strings.Repeat("═", 54)
	thin := strings.Repeat("─", 54)

	fmt.Fprintf(w, "\n%s\n", sep)
	fmt.Fprintf(w, "  RENTAL LISTING INSIGHTS\n")
	fmt.Fprintf(w, "%s\n\n", sep)

	fmt.Fprintf(w, "  Overview\n")
	fmt.Fprintf(w, "  %s\n", thin)
	fmt.Fprintf(w, "  Total listings stored : %d\n", r.TotalListings)
	fmt.Fprintln(w)

	fmt.Fprintf(w, "  Rent Statistics (per month)\n")
	fmt.Fprintf(w, "  %s\n", thin)
	if r.TotalListings > 0 {
		fmt.Fprintf(w, "  Average rent     : ¥%.2f\n", r.AverageRent)
		fmt.Fprintf(w, "  Minimum rent     : ¥%d\n", r.MinRent)
		fmt.Fprintf(w, "  Maximum rent     : ¥%d\n", r.MaxRent)
		fmt.Fprintf(w, "  Average rent/m²  : ¥%.2f\n", r.AverageRentPerSqm)
	} else {
		fmt.Fprintf(w, "  No rent data available\n")
	}
	fmt.Fprintln(w)

	if r.MostExpensive != nil {
		fmt.Fprintf(w, "  Most Expensive Listing\n")
		fmt.Fprintf(w, "  %s\n", thin)
		fmt.Fprintf(w, "  #%d %s\n", r.MostExpensive.ID, truncate(r.MostExpensive.Name, 44))
		fmt.Fprintf(w, "  Address : %s\n", r.MostExpensive.Address)
		fmt.Fprintf(w, "  Rent    : ¥%d\n", r.MostExpensive.Rent)
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "  Top 3 Largest Properties\n")
	fmt.Fprintf(w, "  %s\n", thin)
	if len(r.Largest) == 0 {
		fmt.Fprintf(w, "  No listings found\n")
	} else {
		for i, l := range r.Largest {
			fmt.Fprintf(w, "  %d. %-40s %.1f m²\n", i+1, truncate(l.Name, 38), l.FloorArea)
		}
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "  Listings by Building Type\n")
	fmt.Fprintf(w, "  %s\n", thin)
	if len(r.ListingsByBuilding) == 0 {
		fmt.Fprintf(w, "  No building data\n")
	} else {
		type typeCount struct {
			bt    models.BuildingType
			count int
		}
		var counts []typeCount
		for bt, cnt := range r.ListingsByBuilding {
			counts = append(counts, typeCount{bt, cnt})
		}
		sort.Slice(counts, func(i, j int) bool {
			if counts[i].count != counts[j].count {
				return counts[i].count > counts[j].count
			}
			return counts[i].bt < counts[j].bt
		})
		for _, tc := range counts {
			bar := strings.Repeat("█", min(tc.count, 40))
			fmt.Fprintf(w, "  %-14s %s (%d)\n", tc.bt, bar, tc.count)
		}
	}

	fmt.Fprintf(w, "\n%s\n\n", sep)
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}
