package domain

import (
	"encoding/json"
	"fmt"
)

// MetaKey est l'entrée réservée du fichier d'état pour les métadonnées.
const MetaKey = "_meta"

type WatcherState struct {
	LastMaxDate string `json:"lastMaxDate"`
}

type Meta struct {
	LastHeartbeatDate    string `json:"lastHeartbeatDate,omitempty"`
	AllExpiredNotifiedAt string `json:"allExpiredNotifiedAt,omitempty"`
}

func (m Meta) IsZero() bool {
	return m.LastHeartbeatDate == "" && m.AllExpiredNotifiedAt == ""
}

// State associe un id de watcher à la dernière date max observée.
// Sérialisé à plat: {"<id>": {"lastMaxDate": "..."}, "_meta": {...}}.
type State struct {
	Watchers map[string]WatcherState
	Meta     Meta
}

func NewState() State {
	return State{Watchers: map[string]WatcherState{}}
}

// LastMax renvoie la date stockée pour id. ok=false si absente ou illisible.
func (s State) LastMax(id string) (ShowDate, bool) {
	ws, found := s.Watchers[id]
	if !found || ws.LastMaxDate == "" {
		return ShowDate{}, false
	}
	d, err := ParseShowDate(ws.LastMaxDate)
	if err != nil {
		return ShowDate{}, false
	}
	return d, true
}

func (s *State) SetLastMax(id string, d ShowDate) {
	if s.Watchers == nil {
		s.Watchers = map[string]WatcherState{}
	}
	s.Watchers[id] = WatcherState{LastMaxDate: d.String()}
}

// Clone copie l'état (les runs travaillent sur une copie).
func (s State) Clone() State {
	out := State{Watchers: make(map[string]WatcherState, len(s.Watchers)), Meta: s.Meta}
	for k, v := range s.Watchers {
		out.Watchers[k] = v
	}
	return out
}

func (s State) MarshalJSON() ([]byte, error) {
	flat := make(map[string]any, len(s.Watchers)+1)
	for id, ws := range s.Watchers {
		flat[id] = ws
	}
	if !s.Meta.IsZero() {
		flat[MetaKey] = s.Meta
	}
	return json.Marshal(flat)
}

func (s *State) UnmarshalJSON(b []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	out := NewState()
	for key, v := range raw {
		if key == MetaKey {
			if err := json.Unmarshal(v, &out.Meta); err != nil {
				return fmt.Errorf("state %s: %w", MetaKey, err)
			}
			continue
		}
		var ws WatcherState
		if err := json.Unmarshal(v, &ws); err != nil {
			return fmt.Errorf("state entry %q: %w", key, err)
		}
		out.Watchers[key] = ws
	}
	*s = out
	return nil
}
