package models

// Status is an order lifecycle status. The literal values double as the
// wire representation in callback tokens and as the display strings, so
// they are never translated or remapped.
type Status string

const (
	// StatusNewUser marks an order placed by the user through the dialog.
	StatusNewUser Status = "Новая (От пользователя)"
	// StatusNewAdmin marks an order entered manually by an administrator.
	StatusNewAdmin Status = "Новая (От Админа)"
	// StatusInProgress marks an order being worked on.
	StatusInProgress Status = "В работе"
	// StatusDone is the terminal status; completed_at is set iff this.
	StatusDone Status = "Исполнено"
)

// AllStatuses returns the closed status set in menu order.
func AllStatuses() []Status {
	return []Status{StatusNewUser, StatusNewAdmin, StatusInProgress, StatusDone}
}

// Valid reports whether s belongs to the closed status set.
func (s Status) Valid() bool {
	switch s {
	case StatusNewUser, StatusNewAdmin, StatusInProgress, StatusDone:
		return true
	}
	return false
}

// Done reports whether the status is terminal.
func (s Status) Done() bool {
	return s == StatusDone
}

// WithEmoji returns the display string prefixed with the status marker.
func (s Status) WithEmoji() string {
	switch s {
	case StatusNewUser:
		return "🟡 " + string(s)
	case StatusNewAdmin:
		return "🟠 " + string(s)
	case StatusInProgress:
		return "🟢 " + string(s)
	case StatusDone:
		return "🔵 " + string(s)
	}
	return string(s)
}
