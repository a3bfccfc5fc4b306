package boxscore

import (
	"github.com/XavierBriggs/fortuna/services/game-ledger-service/internal/lineup"
	"github.com/XavierBriggs/fortuna/services/game-ledger-service/pkg/chrono"
	"github.com/XavierBriggs/fortuna/services/game-ledger-service/pkg/models"
)

// minutes measures on-court time from substitution clocks. Each stint is
// clipped to the boundaries of the period it falls in.
type minutes struct {
	court   *lineup.Lineup
	teams   []string
	seconds map[string]int
	entered map[string]int // player id -> clock when the current stint began
	period  models.Period  // zero until the first event
}

func newMinutes(court *lineup.Lineup, roster models.Roster) *minutes {
	return &minutes{
		court:   court,
		teams:   []string{roster.HomeTeam.ID, roster.AwayTeam.ID},
		seconds: make(map[string]int),
		entered: make(map[string]int),
	}
}

// advance must run before the lineup applies e
func (m *minutes) advance(e models.PlayEvent) {
	if !e.Period.Valid() {
		return
	}

	if m.period == 0 {
		m.period = models.Q1
		m.startPeriod()
	}
	for m.period < e.Period {
		m.closePeriod(0)
		m.period++
		m.startPeriod()
	}

	if e.EventType != models.EventSubstitution || e.Period != m.period {
		return
	}

	clock := chrono.ClockSeconds(e.GameTime)
	out, in := e.EventData.PlayerOut, e.EventData.PlayerIn
	if began, ok := m.entered[out]; ok {
		m.seconds[out] += stint(began, clock)
		delete(m.entered, out)
	}
	if in != "" {
		m.entered[in] = clock
	}
}

// finish closes the last period at 00:00 when it has ended, otherwise at
// the latest clock reading recorded in it
func (m *minutes) finish(ordered []models.PlayEvent) {
	if m.period == 0 {
		return
	}

	end := chrono.PeriodSeconds(m.period)
	ended := false
	for _, e := range ordered {
		if e.Period != m.period {
			continue
		}
		if e.EventType == models.EventPeriodEnd {
			ended = true
		}
		if c := chrono.ClockSeconds(e.GameTime); c < end {
			end = c
		}
	}
	if ended {
		end = 0
	}
	m.closePeriod(end)
}

func (m *minutes) startPeriod() {
	start := chrono.PeriodSeconds(m.period)
	for _, team := range m.teams {
		for _, id := range m.court.Players(team) {
			m.entered[id] = start
		}
	}
}

func (m *minutes) closePeriod(end int) {
	for id, began := range m.entered {
		m.seconds[id] += stint(began, end)
	}
	m.entered = make(map[string]int)
}

func stint(began, ended int) int {
	if began <= ended {
		return 0
	}
	return began - ended
}
