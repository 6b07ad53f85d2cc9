package domain

import "time"

// AuthEventType names an auditable authentication action.
type AuthEventType string

const (
	EventRegister    AuthEventType = "register"
	EventLogin       AuthEventType = "login"
	EventLoginFailed AuthEventType = "login_failed"
	EventRefresh     AuthEventType = "refresh"
	EventLogout      AuthEventType = "logout"
)

// AuthEvent is an audit record of an authentication action.
type AuthEvent struct {
	Type      AuthEventType
	UserID    string
	Email     string
	IP        string
	UserAgent string
	Timestamp time.Time
}

// ShardKey returns the key used to keep one user's events in order.
func (e AuthEvent) ShardKey() string {
	if e.UserID != "" {
		return e.UserID
	}
	return e.Email
}
