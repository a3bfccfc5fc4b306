package chrono

import (
	"sort"

	"github.com/XavierBriggs/fortuna/services/game-ledger-service/pkg/models"
)

// Before reports whether a happened before b on the game clock.
// Ties on period and clock fall back to creation order so the result is total.
func Before(a, b models.PlayEvent) bool {
	if a.Period != b.Period {
		return a.Period < b.Period
	}
	ca, cb := ClockSeconds(a.GameTime), ClockSeconds(b.GameTime)
	if ca != cb {
		return ca > cb
	}
	return CreatedBefore(a, b)
}

// CreatedBefore reports whether a was recorded before b
func CreatedBefore(a, b models.PlayEvent) bool {
	if !a.WallClock.Equal(b.WallClock) {
		return a.WallClock.Before(b.WallClock)
	}
	if a.Sequence != b.Sequence {
		return a.Sequence < b.Sequence
	}
	return a.ID < b.ID
}

// Chronological returns a copy of events in game order:
// period ascending, clock descending within a period.
func Chronological(events []models.PlayEvent) []models.PlayEvent {
	out := make([]models.PlayEvent, len(events))
	copy(out, events)
	sort.SliceStable(out, func(i, j int) bool {
		return Before(out[i], out[j])
	})
	return out
}

// Display returns a copy of events in feed order, latest game moment first
func Display(events []models.PlayEvent) []models.PlayEvent {
	out := Chronological(events)
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// ByCreation returns a copy of events in the order they were recorded
func ByCreation(events []models.PlayEvent) []models.PlayEvent {
	out := make([]models.PlayEvent, len(events))
	copy(out, events)
	sort.SliceStable(out, func(i, j int) bool {
		return CreatedBefore(out[i], out[j])
	})
	return out
}

// LastCreated returns the most recently recorded event
func LastCreated(events []models.PlayEvent) (models.PlayEvent, bool) {
	if len(events) == 0 {
		return models.PlayEvent{}, false
	}
	last := events[0]
	for _, e := range events[1:] {
		if CreatedBefore(last, e) {
			last = e
		}
	}
	return last, true
}
