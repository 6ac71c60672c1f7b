package services

import (
	"sort"

	"itinerary-planner-service/internal/config"
	"itinerary-planner-service/internal/domain"
)

// OptimizeOptions carry the caller's personalization inputs.
type OptimizeOptions struct {
	// PreferredTypes are feature tags the caller cares about; experiences
	// carrying one get the preference bonus.
	PreferredTypes []string

	// Weights override the configured optimizer weights when non-nil.
	Weights *config.OptimizerWeights
}

// Optimize rewrites each day's schedule to reduce travel distance.
//
// Per day with more than one entry it scores every experience, starts the
// tour at the highest-scored one, greedily appends the geographically
// nearest remaining entry (original order breaks ties), and re-times the
// new order back-to-back from the day start with the inter-visit buffer.
// The result is overlap-free by construction.
//
// The input itinerary is never mutated; a full copy is returned so callers
// can preview before committing. Every scheduled experience must have
// coordinates or the optimizer fails rather than scoring it as zero-distance.
func Optimize(it *domain.Itinerary, opts OptimizeOptions, cfg config.Planning) (*domain.Itinerary, error) {
	weights := cfg.Weights
	if opts.Weights != nil {
		weights = *opts.Weights
	}

	out := it.Clone()

	for dayIndex, day := range out.Days {
		if len(day.Experiences) < 2 {
			continue
		}

		for _, entry := range day.Experiences {
			if entry.Experience.Location == nil {
				return nil, domain.NewValidationError(domain.CodeIncompleteExperienceData,
					"day %d: experience %q has no coordinates", dayIndex, entry.Experience.ID)
			}
		}

		ordered := nearestNeighborOrder(day.Experiences, opts.PreferredTypes, weights)
		reschedule(day, ordered, cfg)
	}

	return out, nil
}

// ScoreExperience computes the greedy priority score used to pick the
// tour's origin: rating and preference terms are weight-scaled, the
// featured/verified bonuses are flat.
func ScoreExperience(exp *domain.Experience, preferred []string, weights config.OptimizerWeights) float64 {
	score := exp.Rating * weights.PrioritizeRating * 20
	if len(preferred) > 0 && exp.HasAnyTag(preferred) {
		score += weights.PrioritizePreferences * 100
	}
	if exp.Featured {
		score += 10
	}
	if exp.Verified {
		score += 5
	}
	return score
}

// nearestNeighborOrder reorders entries for routing: the highest-scored
// entry opens the tour, then each step picks the nearest remaining entry by
// great-circle distance. Ties fall back to the entries' original position.
func nearestNeighborOrder(entries []*domain.ItineraryExperience, preferred []string, weights config.OptimizerWeights) []*domain.ItineraryExperience {
	type candidate struct {
		entry *domain.ItineraryExperience
		pos   int
	}

	remaining := make([]candidate, 0, len(entries))
	for i, entry := range entries {
		remaining = append(remaining, candidate{entry: entry, pos: i})
	}

	// Stable sort by score keeps original order among equals, so the origin
	// pick is deterministic.
	sort.SliceStable(remaining, func(i, j int) bool {
		si := ScoreExperience(remaining[i].entry.Experience, preferred, weights)
		sj := ScoreExperience(remaining[j].entry.Experience, preferred, weights)
		return si > sj
	})

	ordered := make([]*domain.ItineraryExperience, 0, len(entries))
	current := remaining[0]
	ordered = append(ordered, current.entry)
	remaining = remaining[1:]

	for len(remaining) > 0 {
		best := 0
		bestDist := Distance(*current.entry.Experience.Location, *remaining[0].entry.Experience.Location)
		for i := 1; i < len(remaining); i++ {
			d := Distance(*current.entry.Experience.Location, *remaining[i].entry.Experience.Location)
			if d < bestDist || (d == bestDist && remaining[i].pos < remaining[best].pos) {
				best = i
				bestDist = d
			}
		}

		current = remaining[best]
		ordered = append(ordered, current.entry)
		remaining = append(remaining[:best], remaining[best+1:]...)
	}

	return ordered
}

// reschedule assigns back-to-back slots in the given order, starting at the
// day start and advancing by each entry's duration plus the buffer.
func reschedule(day *domain.ItineraryDay, ordered []*domain.ItineraryExperience, cfg config.Planning) {
	clock := domain.DateOnly(day.Date).Add(cfg.DayStart)
	for _, entry := range ordered {
		entry.TimeSlot = clock
		clock = clock.Add(entry.Duration + cfg.MinTimeBetweenExperiences)
	}
	day.Experiences = ordered
	day.SortBySlot()
}

// TotalTravelMiles sums the leg distances of a day's slot-ordered entries.
// Exposed for reporting; entries without coordinates contribute nothing.
func TotalTravelMiles(day *domain.ItineraryDay) float64 {
	entries := sortedEntries(day)
	total := 0.0
	for i := 0; i+1 < len(entries); i++ {
		a, b := entries[i].Experience.Location, entries[i+1].Experience.Location
		if a == nil || b == nil {
			continue
		}
		total += Distance(*a, *b)
	}
	return total
}
