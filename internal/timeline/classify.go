package timeline

import (
	"strings"

	"workplate/internal/models"
)

// Classify labels an event from its attendee count and title. Anything
// with attendees is a meeting; otherwise titles mentioning "focus" or
// "deep work" are focus time.
func Classify(title string, attendeeCount int) models.EventKind {
	if attendeeCount > 0 {
		return models.EventKindMeeting
	}
	lower := strings.ToLower(title)
	if strings.Contains(lower, "focus") || strings.Contains(lower, "deep work") {
		return models.EventKindFocus
	}
	return models.EventKindOther
}
