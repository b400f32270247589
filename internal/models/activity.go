package models

import "time"

type ActivityType string

const (
	ActivityFeeding ActivityType = "feeding"
	ActivityDiaper  ActivityType = "diaper"
	ActivitySleep   ActivityType = "sleep"
	ActivityPumping ActivityType = "pumping"
)

// Activity is one logged event. Amount is in ml (or oz when the user's
// units are imperial), Duration in minutes.
type Activity struct {
	ID        string       `json:"id"`
	BabyID    string       `json:"baby_id"`
	UserID    string       `json:"user_id"`
	Type      ActivityType `json:"type"`
	Amount    *float64     `json:"amount,omitempty"`
	Duration  *int         `json:"duration,omitempty"`
	Notes     string       `json:"notes,omitempty"`
	StartedAt *time.Time   `json:"started_at,omitempty"`
	EndedAt   *time.Time   `json:"ended_at,omitempty"`
	Timestamp time.Time    `json:"timestamp"`
	UpdatedAt time.Time    `json:"updated_at"`
}

type ActivityInput struct {
	ID        string       `json:"id,omitempty" validate:"omitempty,uuid"`
	BabyID    string       `json:"baby_id" validate:"required"`
	Type      ActivityType `json:"type" validate:"required,oneof=feeding diaper sleep pumping"`
	Amount    *float64     `json:"amount,omitempty" validate:"omitempty,gte=0"`
	Duration  *int         `json:"duration,omitempty" validate:"omitempty,gte=0"`
	Notes     string       `json:"notes,omitempty" validate:"max=1000"`
	StartedAt *time.Time   `json:"started_at,omitempty"`
	EndedAt   *time.Time   `json:"ended_at,omitempty"`
	Timestamp *time.Time   `json:"timestamp,omitempty"`
}

// NewActivity builds the stored entity; Timestamp defaults to now.
func (in ActivityInput) NewActivity(id, userID string, now time.Time) Activity {
	ts := now
	if in.Timestamp != nil {
		ts = in.Timestamp.UTC()
	}
	return Activity{
		ID:        id,
		BabyID:    in.BabyID,
		UserID:    userID,
		Type:      in.Type,
		Amount:    in.Amount,
		Duration:  in.Duration,
		Notes:     in.Notes,
		StartedAt: in.StartedAt,
		EndedAt:   in.EndedAt,
		Timestamp: ts,
		UpdatedAt: now,
	}
}

type ActivityUpdate struct {
	Type      *ActivityType `json:"type,omitempty" validate:"omitempty,oneof=feeding diaper sleep pumping"`
	Amount    *float64      `json:"amount,omitempty" validate:"omitempty,gte=0"`
	Duration  *int          `json:"duration,omitempty" validate:"omitempty,gte=0"`
	Notes     *string       `json:"notes,omitempty" validate:"omitempty,max=1000"`
	StartedAt *time.Time    `json:"started_at,omitempty"`
	EndedAt   *time.Time    `json:"ended_at,omitempty"`
	Timestamp *time.Time    `json:"timestamp,omitempty"`
}

func (p ActivityUpdate) Apply(a *Activity, now time.Time) {
	if p.Type != nil {
		a.Type = *p.Type
	}
	if p.Amount != nil {
		v := *p.Amount
		a.Amount = &v
	}
	if p.Duration != nil {
		v := *p.Duration
		a.Duration = &v
	}
	if p.Notes != nil {
		a.Notes = *p.Notes
	}
	if p.StartedAt != nil {
		v := *p.StartedAt
		a.StartedAt = &v
	}
	if p.EndedAt != nil {
		v := *p.EndedAt
		a.EndedAt = &v
	}
	if p.Timestamp != nil {
		a.Timestamp = p.Timestamp.UTC()
	}
	a.UpdatedAt = now
}

// ActivityFilter narrows a listing. Zero value means everything the owner
// can see.
type ActivityFilter struct {
	BabyID string
}
