// Package session implements the namespaced session objects the token
// engine persists: account sessions (which carry the terminal list),
// token sessions, anonymous sessions, and caller-defined custom sessions.
package session

import "time"

// Session type tags, persisted inside the session payload.
const (
	TypeAccount = "Account-Session"
	TypeToken   = "Token-Session"
	TypeAnon    = "Anon-Session"
	TypeCustom  = "Custom-Session"
)

// Terminal describes one concurrent login (device) of an identity. Index is
// unique among the live terminals of one identity and ordinals start at 1.
type Terminal struct {
	Index      int            `json:"index"`
	TokenValue string         `json:"tokenValue"`
	DeviceType string         `json:"deviceType"`
	DeviceID   string         `json:"deviceId,omitempty"`
	CreateTime int64          `json:"createTime"`
	Extra      map[string]any `json:"extra,omitempty"`
}

// Session is a named bag of values bound to one storage key. Account
// sessions additionally own the identity's terminal list. Sessions are
// plain data; persistence goes through [Store].
type Session struct {
	ID         string         `json:"id"`
	Type       string         `json:"type"`
	CreateTime int64          `json:"createTime"`
	Data       map[string]any `json:"data,omitempty"`
	Terminals  []Terminal     `json:"terminals,omitempty"`
}

func newSession(id, typ string) *Session {
	return &Session{
		ID:         id,
		Type:       typ,
		CreateTime: time.Now().UnixMilli(),
		Data:       make(map[string]any),
	}
}

// Get returns the value stored under name, or nil.
func (s *Session) Get(name string) any {
	if s.Data == nil {
		return nil
	}
	return s.Data[name]
}

// GetString returns the value stored under name when it is a string.
func (s *Session) GetString(name string) string {
	v, _ := s.Get(name).(string)
	return v
}

// Set stores value under name in memory. Call [Store.Update] to persist.
func (s *Session) Set(name string, value any) {
	if s.Data == nil {
		s.Data = make(map[string]any)
	}
	s.Data[name] = value
}

// Remove deletes the value stored under name.
func (s *Session) Remove(name string) {
	delete(s.Data, name)
}

// Terminal returns the terminal owning token, or nil.
func (s *Session) Terminal(token string) *Terminal {
	for i := range s.Terminals {
		if s.Terminals[i].TokenValue == token {
			return &s.Terminals[i]
		}
	}
	return nil
}

// TerminalsByDevice returns the terminals matching deviceType; an empty
// deviceType matches all.
func (s *Session) TerminalsByDevice(deviceType string) []Terminal {
	if deviceType == "" {
		out := make([]Terminal, len(s.Terminals))
		copy(out, s.Terminals)
		return out
	}
	var out []Terminal
	for _, t := range s.Terminals {
		if t.DeviceType == deviceType {
			out = append(out, t)
		}
	}
	return out
}

// AddTerminal appends t to the terminal list.
func (s *Session) AddTerminal(t Terminal) {
	s.Terminals = append(s.Terminals, t)
}

// RemoveTerminal removes the terminal owning token and reports whether one
// was present.
func (s *Session) RemoveTerminal(token string) bool {
	for i := range s.Terminals {
		if s.Terminals[i].TokenValue == token {
			s.Terminals = append(s.Terminals[:i], s.Terminals[i+1:]...)
			return true
		}
	}
	return false
}

// NextIndex returns 1 plus the highest live terminal index, or 1 when the
// list is empty.
func (s *Session) NextIndex() int {
	max := 0
	for _, t := range s.Terminals {
		if t.Index > max {
			max = t.Index
		}
	}
	return max + 1
}

// OldestTerminal returns the terminal with the lowest index, or nil.
func (s *Session) OldestTerminal() *Terminal {
	var oldest *Terminal
	for i := range s.Terminals {
		if oldest == nil || s.Terminals[i].Index < oldest.Index {
			oldest = &s.Terminals[i]
		}
	}
	return oldest
}
