package services

import (
	"math"

	"github.com/hirushasanjula/carmarket-sub000/models"
)

type MetricComparison struct {
	Average    float64 `json:"average"`
	Percentile int     `json:"percentile"`
}

type MarketComparison struct {
	Price        MetricComparison  `json:"price"`
	Year         MetricComparison  `json:"year"`
	Mileage      *MetricComparison `json:"mileage,omitempty"`
	SimilarCount int               `json:"similarCount"`
}

// CompareListing derives the subject's market standing against the match set.
// Pure and deterministic: safe to run on every detail read. Returns nil when
// there is nothing to compare against.
func CompareListing(subject *models.Listing, matches []models.Listing) *MarketComparison {
	if len(matches) == 0 {
		return nil
	}

	var priceSum, yearSum float64
	var priceBelow, yearBelow int
	for _, m := range matches {
		priceSum += m.Price
		yearSum += float64(m.Year)
		if m.Price < subject.Price {
			priceBelow++
		}
		if m.Year < subject.Year {
			yearBelow++
		}
	}

	n := len(matches)
	comparison := &MarketComparison{
		Price: MetricComparison{
			Average:    priceSum / float64(n),
			Percentile: percentile(priceBelow, n),
		},
		Year: MetricComparison{
			Average:    round1(yearSum / float64(n)),
			Percentile: percentile(yearBelow, n),
		},
		SimilarCount: n,
	}

	// The mileage block exists only when both sides can be ranked: the
	// subject carries a mileage and at least one match does too.
	if subject.Mileage != nil {
		var mileageSum float64
		var mileageBelow, mileageCount int
		for _, m := range matches {
			if m.Mileage == nil {
				continue
			}
			mileageCount++
			mileageSum += float64(*m.Mileage)
			if *m.Mileage < *subject.Mileage {
				mileageBelow++
			}
		}
		if mileageCount > 0 {
			comparison.Mileage = &MetricComparison{
				Average:    mileageSum / float64(mileageCount),
				Percentile: percentile(mileageBelow, mileageCount),
			}
		}
	}

	return comparison
}

// percentile is the share of matches strictly below the subject, rounded to
// the nearest integer. With fewer than 2 matches there is not enough data to
// rank, so it pins to 50.
func percentile(below, total int) int {
	if total < 2 {
		return 50
	}
	return int(math.Round(float64(below) / float64(total) * 100))
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
