// Package api implements the HTTP client for the remote task-management API.
package api

// User is the authenticated identity as returned by login.
type User struct {
	Email string
	Token string
}

// Profile is the identity according to /users/me. Token carries the
// password hash the server reports, which is how the upstream API
// identifies a live session.
type Profile struct {
	Email string
	Token string
}

// Task is the client-side mirror of a server-owned task.
// The server is authoritative; this copy is replaced wholesale on refresh.
type Task struct {
	ID          string `json:"id"`
	Num         int    `json:"num"`
	Title       string `json:"title"`
	Description string `json:"description"`
	CreatedAt   string `json:"created_at"`
	Status      bool   `json:"status"`
}

// TaskRecord is the full record sent on a write-through edit.
type TaskRecord struct {
	Num         int    `json:"num"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Status      bool   `json:"status"`
}

// Record returns the task's current state as a writable record.
func (t Task) Record() TaskRecord {
	return TaskRecord{
		Num:         t.Num,
		Title:       t.Title,
		Description: t.Description,
		Status:      t.Status,
	}
}
