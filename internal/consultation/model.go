package consultation

import "time"

// Consultation is a booked session between a client and a lawyer.
type Consultation struct {
	ID          string    `json:"id"`
	LawyerID    string    `json:"lawyer"`
	ClientID    string    `json:"user"`
	Topic       string    `json:"topic"`
	Details     string    `json:"details,omitempty"`
	ScheduledAt time.Time `json:"scheduled_at,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}
