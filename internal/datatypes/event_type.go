// Package datatypes defines shared types for in-process person events.
package datatypes

// EventType identifies a person event on the in-process bus.
type EventType uint16

// Person events. The wire/log form of each is in eventTypeNames.
const (
	// PersonUpserted: created or updated by the application webhook.
	PersonUpserted EventType = iota
	// PersonProfileUpdated: enrichment rewrote profile fields.
	PersonProfileUpdated
	// PersonDeleted: soft-deleted through the API.
	PersonDeleted
)

var eventTypeNames = [...]string{
	PersonUpserted:       "person.upserted",
	PersonProfileUpdated: "person.profile_updated",
	PersonDeleted:        "person.deleted",
}

// String returns the dotted name, or "" for values outside the enum.
func (et EventType) String() string {
	if int(et) >= len(eventTypeNames) {
		return ""
	}

	return eventTypeNames[et]
}

// TriggersEmbedding reports whether the event changes the text a person's embedding is built from.
func (et EventType) TriggersEmbedding() bool {
	return et == PersonUpserted || et == PersonProfileUpdated
}

// ParseEventType maps a dotted name back to its EventType.
func ParseEventType(s string) (EventType, bool) {
	for i, name := range eventTypeNames {
		if name == s {
			return EventType(i), true
		}
	}

	return 0, false
}

// IsValidEventType reports whether s names a person event.
func IsValidEventType(s string) bool {
	_, ok := ParseEventType(s)

	return ok
}
