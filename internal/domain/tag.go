package domain

// TagKind selects which taxonomy a tag list is checked against.
// Tracks and events have disjoint category sets.
type TagKind string

const (
	TagKindTrack TagKind = "track"
	TagKindEvent TagKind = "event"
)

// ParseTagKind maps "track" or "event" to a TagKind.
func ParseTagKind(s string) (TagKind, bool) {
	switch TagKind(s) {
	case TagKindTrack, TagKindEvent:
		return TagKind(s), true
	}
	return "", false
}
