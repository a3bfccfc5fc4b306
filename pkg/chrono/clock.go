// Package chrono holds the game clock and the two event orderings the
// ledger works with: game-clock order for display and analysis, and
// creation order for undo.
package chrono

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/XavierBriggs/fortuna/services/game-ledger-service/pkg/models"
)

// FIBA period lengths
const (
	QuarterSeconds  = 10 * 60
	OvertimeSeconds = 5 * 60
)

// PeriodSeconds returns the length of a period in seconds
func PeriodSeconds(p models.Period) int {
	if p.IsOvertime() {
		return OvertimeSeconds
	}
	return QuarterSeconds
}

// ParseClock converts a "mm:ss" game clock to seconds remaining
func ParseClock(s string) (int, error) {
	s = strings.TrimSpace(s)
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return 0, fmt.Errorf("game time %q: want mm:ss", s)
	}

	mins, err := strconv.Atoi(parts[0])
	if err != nil || mins < 0 {
		return 0, fmt.Errorf("game time %q: bad minutes", s)
	}
	if len(parts[1]) != 2 {
		return 0, fmt.Errorf("game time %q: bad seconds", s)
	}
	secs, err := strconv.Atoi(parts[1])
	if err != nil || secs < 0 || secs > 59 {
		return 0, fmt.Errorf("game time %q: bad seconds", s)
	}

	return mins*60 + secs, nil
}

// ValidateClock checks that s is a clock reading inside period p
func ValidateClock(p models.Period, s string) error {
	secs, err := ParseClock(s)
	if err != nil {
		return err
	}
	if secs > PeriodSeconds(p) {
		return fmt.Errorf("game time %s exceeds %s length", s, p.Label())
	}
	return nil
}

// ClockSeconds parses a clock leniently. Unreadable clocks count as 00:00.
func ClockSeconds(s string) int {
	secs, err := ParseClock(s)
	if err != nil {
		return 0
	}
	return secs
}

// FormatClock renders seconds as "mm:ss"
func FormatClock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}
