package chat

import "time"

// Session captures one live relay connection. The ID is generated at
// registration time; ClientID is the caller-supplied identifier from the
// connection path and carries no uniqueness guarantee of its own.
type Session struct {
	ID        string    `json:"id"`
	ClientID  string    `json:"clientId"`
	CreatedAt time.Time `json:"createdAt"`
}
