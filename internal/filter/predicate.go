package filter

import (
	"slices"
	"strings"

	"github.com/pkordes/trackday/internal/domain"
)

// Predicate is a node in a track selection tree.
type Predicate interface {
	// Match evaluates the node against a single track in memory.
	Match(t domain.Track) bool
}

// SlotPredicate is a condition on one availability slot.
type SlotPredicate interface {
	MatchSlot(s domain.AvailabilitySlot) bool
}

// Field names a scalar track attribute a predicate can reference.
type Field string

const (
	FieldName     Field = "name"
	FieldLocation Field = "location"
	FieldDistance Field = "distance"
)

// Op is a numeric comparison operator.
type Op string

const (
	OpGt  Op = ">"
	OpGte Op = ">="
	OpLte Op = "<="
)

// All is a conjunction. An empty All matches everything.
type All []Predicate

// Any is a disjunction. An empty Any matches nothing.
type Any []Predicate

// ContainsFold is a case-insensitive substring test on a text field.
type ContainsFold struct {
	Field Field
	Value string
}

// HasAllTags requires every one of Tags on the track.
type HasAllTags struct {
	Tags []string
}

// Compare tests a numeric field against a constant.
type Compare struct {
	Field Field
	Op    Op
	Value float64
}

// AnySlot holds when at least one availability slot satisfies Cond.
type AnySlot struct {
	Cond SlotPredicate
}

// SlotAny is a disjunction of slot conditions.
type SlotAny []SlotPredicate

// DayContains holds when the slot's day range includes Day.
type DayContains struct {
	Day domain.Weekday
}

// DayOverlap holds when the slot's day range intersects [From, To].
type DayOverlap struct {
	From domain.Weekday
	To   domain.Weekday
}

func (p All) Match(t domain.Track) bool {
	for _, c := range p {
		if !c.Match(t) {
			return false
		}
	}
	return true
}

func (p Any) Match(t domain.Track) bool {
	for _, c := range p {
		if c.Match(t) {
			return true
		}
	}
	return false
}

func (p ContainsFold) Match(t domain.Track) bool {
	return strings.Contains(strings.ToLower(textField(t, p.Field)), strings.ToLower(p.Value))
}

func (p HasAllTags) Match(t domain.Track) bool {
	for _, tag := range p.Tags {
		if !slices.Contains(t.Tags, tag) {
			return false
		}
	}
	return true
}

func (p Compare) Match(t domain.Track) bool {
	v := numericField(t, p.Field)
	switch p.Op {
	case OpGt:
		return v > p.Value
	case OpGte:
		return v >= p.Value
	case OpLte:
		return v <= p.Value
	}
	return false
}

func (p AnySlot) Match(t domain.Track) bool {
	return slices.ContainsFunc(t.Availability, p.Cond.MatchSlot)
}

func (p SlotAny) MatchSlot(s domain.AvailabilitySlot) bool {
	for _, c := range p {
		if c.MatchSlot(s) {
			return true
		}
	}
	return false
}

func (p DayContains) MatchSlot(s domain.AvailabilitySlot) bool {
	return s.Covers(p.Day)
}

func (p DayOverlap) MatchSlot(s domain.AvailabilitySlot) bool {
	return s.Overlaps(p.From, p.To)
}

func textField(t domain.Track, f Field) string {
	switch f {
	case FieldName:
		return t.Name
	case FieldLocation:
		return t.Location
	}
	return ""
}

func numericField(t domain.Track, f Field) float64 {
	if f == FieldDistance {
		return t.Distance
	}
	return 0
}
