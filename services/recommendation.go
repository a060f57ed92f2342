package services

import (
	"github.com/hirushasanjula/carmarket-sub000/models"

	"golang.org/x/exp/slices"
)

// Recommendation limits.
const (
	RecentInteractionLimit = 10
	PreferenceLimit        = 5
	RecommendationLimit    = 5
)

// CandidateFilter is the flattened rule set derived from a user's preference
// listings. Candidates match on ANY of the three clauses.
type CandidateFilter struct {
	VehicleTypes []string
	Models       []string
	MinPrice     float64
	MaxPrice     float64
	ExcludeIDs   []uint
}

// PreferenceListingIDs partitions recent interactions into liked and viewed
// listings and concatenates liked first, so likes win by list order, not by
// score. Duplicates collapse to their first (most recent) occurrence.
func PreferenceListingIDs(interactions []models.Interaction) []uint {
	var liked, viewed []uint
	for _, it := range interactions {
		switch it.Action {
		case "like":
			if !slices.Contains(liked, it.ListingID) {
				liked = append(liked, it.ListingID)
			}
		case "view":
			if !slices.Contains(viewed, it.ListingID) {
				viewed = append(viewed, it.ListingID)
			}
		}
	}

	ids := liked
	for _, id := range viewed {
		if !slices.Contains(ids, id) {
			ids = append(ids, id)
		}
	}
	if len(ids) > PreferenceLimit {
		ids = ids[:PreferenceLimit]
	}
	return ids
}

// BuildCandidateFilter collects the distinct vehicle types and models of the
// preference listings and one global price band: each listing contributes
// [0.8p, 1.2p], flattened to a single min/max.
func BuildCandidateFilter(preferences []models.Listing) CandidateFilter {
	filter := CandidateFilter{}
	for _, l := range preferences {
		if !slices.Contains(filter.VehicleTypes, l.VehicleType) {
			filter.VehicleTypes = append(filter.VehicleTypes, l.VehicleType)
		}
		if l.Model != "" && !slices.Contains(filter.Models, l.Model) {
			filter.Models = append(filter.Models, l.Model)
		}
		lo := l.Price * 0.8
		hi := l.Price * 1.2
		if filter.MaxPrice == 0 && filter.MinPrice == 0 {
			filter.MinPrice = lo
			filter.MaxPrice = hi
		} else {
			if lo < filter.MinPrice {
				filter.MinPrice = lo
			}
			if hi > filter.MaxPrice {
				filter.MaxPrice = hi
			}
		}
		filter.ExcludeIDs = append(filter.ExcludeIDs, l.ID)
	}
	return filter
}
