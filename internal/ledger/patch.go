package ledger

import (
	"bytes"
	"encoding/json"
	"sort"

	"github.com/XavierBriggs/fortuna/services/game-ledger-service/pkg/models"
)

// DataPatch is a partial event_data object. A null value clears the field.
type DataPatch map[string]json.RawMessage

// identityFields can never change after an event is created
var identityFields = map[string]bool{
	"id":         true,
	"game_id":    true,
	"event_type": true,
	"team_id":    true,
	"player_id":  true,
	"period":     true,
	"game_time":  true,
}

// patchableFields are the event_data keys a patch may touch
var patchableFields = map[string]bool{
	"points":           true,
	"shot_type":        true,
	"shot_zone":        true,
	"shot_x":           true,
	"shot_y":           true,
	"is_fast_break":    true,
	"is_second_chance": true,
	"assisted_by":      true,
	"shot_event_id":    true,
	"turnover_type":    true,
	"foul_type":        true,
	"drawn_by":         true,
	"player_in":        true,
	"player_out":       true,
	"timeout_type":     true,
}

// apply returns a copy of event with the patch merged into its data
func (p DataPatch) apply(event models.PlayEvent) (models.PlayEvent, error) {
	t := event.EventType
	if len(p) == 0 {
		return models.PlayEvent{}, invalid(t, "empty patch")
	}

	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		if identityFields[k] {
			return models.PlayEvent{}, invalid(t, "%s cannot be changed after creation", k)
		}
		if !patchableFields[k] {
			return models.PlayEvent{}, invalid(t, "unknown field %s", k)
		}
		// the roster change of a substitution is keyed on these ids
		if t == models.EventSubstitution && (k == "player_in" || k == "player_out") {
			return models.PlayEvent{}, invalid(t, "%s cannot be changed after creation", k)
		}
	}

	current, err := json.Marshal(event.EventData)
	if err != nil {
		return models.PlayEvent{}, err
	}
	fields := map[string]json.RawMessage{}
	if err := json.Unmarshal(current, &fields); err != nil {
		return models.PlayEvent{}, err
	}
	for _, k := range keys {
		fields[k] = p[k]
	}

	merged, err := json.Marshal(fields)
	if err != nil {
		return models.PlayEvent{}, invalid(t, "patch is not valid JSON")
	}

	var data models.EventData
	dec := json.NewDecoder(bytes.NewReader(merged))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&data); err != nil {
		return models.PlayEvent{}, invalid(t, "bad patch value: %v", err)
	}

	event.EventData = data
	return event, nil
}
