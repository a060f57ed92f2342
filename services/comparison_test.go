package services

import (
	"testing"

	"github.com/hirushasanjula/carmarket-sub000/models"
)

func intPtr(v int) *int { return &v }

func TestCompareListingEmptyMatchSet(t *testing.T) {
	subject := &models.Listing{VehicleType: "car", Condition: "used", Year: 2020, Price: 20000}
	if got := CompareListing(subject, nil); got != nil {
		t.Fatalf("expected nil comparison for empty match set, got %+v", got)
	}
	if got := CompareListing(subject, []models.Listing{}); got != nil {
		t.Fatalf("expected nil comparison for empty match set, got %+v", got)
	}
}

func TestCompareListingSingleMatchPinsPercentile(t *testing.T) {
	subject := &models.Listing{Year: 2020, Price: 20000}
	matches := []models.Listing{{Year: 2018, Price: 10000}}

	got := CompareListing(subject, matches)
	if got == nil {
		t.Fatal("expected a comparison")
	}
	if got.Price.Percentile != 50 {
		t.Errorf("price percentile = %d, want 50 with fewer than 2 matches", got.Price.Percentile)
	}
	if got.Year.Percentile != 50 {
		t.Errorf("year percentile = %d, want 50 with fewer than 2 matches", got.Year.Percentile)
	}
	if got.SimilarCount != 1 {
		t.Errorf("similarCount = %d, want 1", got.SimilarCount)
	}
}

// The scenario from the product sheet: a 2020/20000 car against Active
// 2019/18000 and 2021/24000 cars.
func TestCompareListingTwoMatches(t *testing.T) {
	subject := &models.Listing{Year: 2020, Price: 20000}
	matches := []models.Listing{
		{Year: 2019, Price: 18000},
		{Year: 2021, Price: 24000},
	}

	got := CompareListing(subject, matches)
	if got == nil {
		t.Fatal("expected a comparison")
	}
	if got.Price.Average != 21000 {
		t.Errorf("price average = %v, want 21000", got.Price.Average)
	}
	if got.Price.Percentile != 50 {
		t.Errorf("price percentile = %d, want 50", got.Price.Percentile)
	}
	if got.Year.Average != 2020 {
		t.Errorf("year average = %v, want 2020", got.Year.Average)
	}
	if got.Year.Percentile != 50 {
		t.Errorf("year percentile = %d, want 50", got.Year.Percentile)
	}
	if got.SimilarCount != 2 {
		t.Errorf("similarCount = %d, want 2", got.SimilarCount)
	}
}

func TestCompareListingYearAverageRounding(t *testing.T) {
	subject := &models.Listing{Year: 2020, Price: 1}
	matches := []models.Listing{
		{Year: 2019, Price: 1},
		{Year: 2020, Price: 1},
		{Year: 2020, Price: 1},
	}

	got := CompareListing(subject, matches)
	if got.Year.Average != 2019.7 {
		t.Errorf("year average = %v, want 2019.7", got.Year.Average)
	}
}

func TestCompareListingMileageOmitted(t *testing.T) {
	subject := &models.Listing{Year: 2020, Price: 20000, Mileage: intPtr(50000)}
	matches := []models.Listing{
		{Year: 2019, Price: 18000},
		{Year: 2021, Price: 24000},
	}

	got := CompareListing(subject, matches)
	if got.Mileage != nil {
		t.Fatalf("expected no mileage block when no match has mileage, got %+v", got.Mileage)
	}

	// Subject without mileage cannot be ranked either
	subject2 := &models.Listing{Year: 2020, Price: 20000}
	matches2 := []models.Listing{{Year: 2019, Price: 18000, Mileage: intPtr(80000)}}
	if got2 := CompareListing(subject2, matches2); got2.Mileage != nil {
		t.Fatalf("expected no mileage block for subject without mileage, got %+v", got2.Mileage)
	}
}

func TestCompareListingMileageOverMileageBearingMatches(t *testing.T) {
	subject := &models.Listing{Year: 2020, Price: 20000, Mileage: intPtr(60000)}
	matches := []models.Listing{
		{Year: 2019, Price: 18000, Mileage: intPtr(40000)},
		{Year: 2020, Price: 19000, Mileage: intPtr(80000)},
		{Year: 2021, Price: 24000}, // no mileage, excluded from the block
	}

	got := CompareListing(subject, matches)
	if got.Mileage == nil {
		t.Fatal("expected a mileage block")
	}
	if got.Mileage.Average != 60000 {
		t.Errorf("mileage average = %v, want 60000", got.Mileage.Average)
	}
	if got.Mileage.Percentile != 50 {
		t.Errorf("mileage percentile = %d, want 50 (1 of 2 below)", got.Mileage.Percentile)
	}
	if got.SimilarCount != 3 {
		t.Errorf("similarCount = %d, want 3", got.SimilarCount)
	}
}

func TestPercentileRounding(t *testing.T) {
	if got := percentile(1, 3); got != 33 {
		t.Errorf("percentile(1,3) = %d, want 33", got)
	}
	if got := percentile(2, 3); got != 67 {
		t.Errorf("percentile(2,3) = %d, want 67", got)
	}
	if got := percentile(3, 3); got != 100 {
		t.Errorf("percentile(3,3) = %d, want 100", got)
	}
	if got := percentile(0, 1); got != 50 {
		t.Errorf("percentile(0,1) = %d, want 50", got)
	}
}
