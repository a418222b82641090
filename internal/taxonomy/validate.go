package taxonomy

import (
	"fmt"
	"strings"

	"github.com/pkordes/trackday/internal/domain"
)

// Rule identifies which tag-list rule a validation failure violated.
type Rule string

const (
	InvalidInput          Rule = "InvalidInput"
	TooManyTags           Rule = "TooManyTags"
	TooManyTrackTypeTags  Rule = "TooManyTrackTypeTags"
	MissingEventType      Rule = "MissingEventType"
	MissingCarRequirement Rule = "MissingCarRequirement"
	UnknownTags           Rule = "UnknownTags"
)

// TagError is the failure returned by the tag validators. Tags is set only
// for UnknownTags and lists exactly the unrecognised values, in input order.
//
// TagError wraps domain.ErrValidation.
type TagError struct {
	Rule Rule
	Tags []string
}

func (e *TagError) Error() string {
	switch e.Rule {
	case InvalidInput:
		return "tags must be a list of strings"
	case TooManyTags:
		return fmt.Sprintf("a track can have at most %d tags", MaxTrackTags)
	case TooManyTrackTypeTags:
		return fmt.Sprintf("a track can have at most %d %s tags", MaxTrackTypeTags, TrackType)
	case MissingEventType:
		return fmt.Sprintf("an event needs at least one %s tag", EventType)
	case MissingCarRequirement:
		return fmt.Sprintf("an event needs at least one %s tag", CarRequirements)
	case UnknownTags:
		return "unknown tags: " + strings.Join(e.Tags, ", ")
	}
	return string(e.Rule)
}

func (e *TagError) Unwrap() error { return domain.ErrValidation }

// AsTagList checks that v is list-shaped and every element is a string.
// It accepts []string and []any (what encoding/json produces for an array).
// Untyped nil is rejected; a nil []string is an empty list.
func AsTagList(v any) ([]string, error) {
	switch list := v.(type) {
	case []string:
		return list, nil
	case []any:
		out := make([]string, 0, len(list))
		for _, item := range list {
			s, ok := item.(string)
			if !ok {
				return nil, &TagError{Rule: InvalidInput}
			}
			out = append(out, s)
		}
		return out, nil
	}
	return nil, &TagError{Rule: InvalidInput}
}

// ValidateTrackTags checks a track tag list. Rules are checked in order and
// the first violation is returned: list shape, total count, trackType count,
// unknown tags.
func (t *Taxonomy) ValidateTrackTags(v any) error {
	tags, err := AsTagList(v)
	if err != nil {
		return err
	}
	if len(tags) > MaxTrackTags {
		return &TagError{Rule: TooManyTags}
	}
	if t.countIn(domain.TagKindTrack, tags, TrackType) > MaxTrackTypeTags {
		return &TagError{Rule: TooManyTrackTypeTags}
	}
	if unknown := t.unknown(domain.TagKindTrack, tags); len(unknown) > 0 {
		return &TagError{Rule: UnknownTags, Tags: unknown}
	}
	return nil
}

// ValidateEventTags checks an event tag list: list shape, at least one
// eventType tag, at least one carRequirements tag, unknown tags.
func (t *Taxonomy) ValidateEventTags(v any) error {
	tags, err := AsTagList(v)
	if err != nil {
		return err
	}
	if t.countIn(domain.TagKindEvent, tags, EventType) == 0 {
		return &TagError{Rule: MissingEventType}
	}
	if t.countIn(domain.TagKindEvent, tags, CarRequirements) == 0 {
		return &TagError{Rule: MissingCarRequirement}
	}
	if unknown := t.unknown(domain.TagKindEvent, tags); len(unknown) > 0 {
		return &TagError{Rule: UnknownTags, Tags: unknown}
	}
	return nil
}
