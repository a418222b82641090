// Package filter turns a track search request into a storage-neutral
// predicate tree.
//
// The tree can be evaluated in memory with Match, or walked by a storage
// layer and translated into its own query language (see repo.trackWhere).
// Building a predicate never fails: a malformed or partial field simply
// contributes no clause.
package filter

import (
	"math"
	"slices"
	"strings"

	"github.com/pkordes/trackday/internal/domain"
)

// TrackFilter is the search criteria for listing tracks.
// Every field is optional; the zero value selects every track.
type TrackFilter struct {
	// Search is matched case-insensitively as a substring of name or location.
	Search string
	// Tags must all be present on a track.
	Tags []string
	// MinLength and MaxLength bound the track distance in km. Setting either
	// one also excludes tracks whose distance is zero (unknown).
	MinLength *float64
	MaxLength *float64
	// Availability is SingleDay, DayRange, or nil.
	Availability Availability
}

// Availability is the weekday part of a track search. It is one of
// SingleDay or DayRange.
type Availability interface {
	availability()
}

// SingleDay selects tracks open on at least one of Days.
type SingleDay struct {
	Days []domain.Weekday
}

// DayRange selects tracks with a slot overlapping [From, To].
// Both ends are required; a DayRange with either end nil is ignored.
type DayRange struct {
	From *domain.Weekday
	To   *domain.Weekday
}

func (SingleDay) availability() {}
func (DayRange) availability()  {}

// BuildTrackPredicate converts f into a conjunction of clauses, one per
// usable field. The result for an empty filter is All{}, which matches every
// track.
func BuildTrackPredicate(f TrackFilter) All {
	p := All{}

	if s := strings.TrimSpace(f.Search); s != "" {
		p = append(p, Any{
			ContainsFold{Field: FieldName, Value: s},
			ContainsFold{Field: FieldLocation, Value: s},
		})
	}

	if tags := uniqueNonEmpty(f.Tags); len(tags) > 0 {
		p = append(p, HasAllTags{Tags: tags})
	}

	minLen, hasMin := finite(f.MinLength)
	maxLen, hasMax := finite(f.MaxLength)
	if hasMin || hasMax {
		p = append(p, Compare{Field: FieldDistance, Op: OpGt, Value: 0})
		if hasMin {
			p = append(p, Compare{Field: FieldDistance, Op: OpGte, Value: minLen})
		}
		if hasMax {
			p = append(p, Compare{Field: FieldDistance, Op: OpLte, Value: maxLen})
		}
	}

	if clause, ok := availabilityClause(f.Availability); ok {
		p = append(p, clause)
	}

	return p
}

// availabilityClause returns the slot condition for a, or false when a is
// nil or lacks the fields its mode needs. The caller drops the clause in
// that case rather than rejecting the filter.
func availabilityClause(a Availability) (Predicate, bool) {
	switch v := a.(type) {
	case SingleDay:
		return singleDayClause(v)
	case *SingleDay:
		if v != nil {
			return singleDayClause(*v)
		}
	case DayRange:
		return dayRangeClause(v)
	case *DayRange:
		if v != nil {
			return dayRangeClause(*v)
		}
	}
	return nil, false
}

func singleDayClause(v SingleDay) (Predicate, bool) {
	var days SlotAny
	seen := make(map[domain.Weekday]bool, len(v.Days))
	for _, d := range v.Days {
		if !d.Valid() || seen[d] {
			continue
		}
		seen[d] = true
		days = append(days, DayContains{Day: d})
	}
	if len(days) == 0 {
		return nil, false
	}
	return AnySlot{Cond: days}, true
}

func dayRangeClause(v DayRange) (Predicate, bool) {
	if v.From == nil || v.To == nil || !v.From.Valid() || !v.To.Valid() {
		return nil, false
	}
	return AnySlot{Cond: DayOverlap{From: *v.From, To: *v.To}}, true
}

// finite dereferences p, treating nil, NaN and infinities as absent.
func finite(p *float64) (float64, bool) {
	if p == nil || math.IsNaN(*p) || math.IsInf(*p, 0) {
		return 0, false
	}
	return *p, true
}

func uniqueNonEmpty(in []string) []string {
	var out []string
	for _, s := range in {
		s = strings.TrimSpace(s)
		if s != "" && !slices.Contains(out, s) {
			out = append(out, s)
		}
	}
	return out
}
