package notification

import "time"

// Event is emitted when a petition's status changes. Recipients is the set
// the external mailer must address: the petitioner plus every distinct
// endorser at the moment of transition. Delivery is best-effort and happens
// outside this service.
type Event struct {
	ID         string    `json:"id"`
	PetitionID int64     `json:"petition_id"`
	OldStatus  string    `json:"old_status"`
	NewStatus  string    `json:"new_status"`
	Recipients []string  `json:"recipients"`
	OccurredAt time.Time `json:"occurred_at"`
}
