package models

import "time"

type Gender string

const (
	GenderBoy   Gender = "boy"
	GenderGirl  Gender = "girl"
	GenderOther Gender = "other"
)

type Baby struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Name        string    `json:"name"`
	BirthDate   string    `json:"birth_date"`
	Gender      Gender    `json:"gender,omitempty"`
	BirthWeight *float64  `json:"birth_weight,omitempty"`
	BirthLength *float64  `json:"birth_length,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// BabyInput is the body of a create. ID may be supplied by an offline
// client so replays stay idempotent.
type BabyInput struct {
	ID          string   `json:"id,omitempty" validate:"omitempty,uuid"`
	Name        string   `json:"name" validate:"required,max=100"`
	BirthDate   string   `json:"birth_date" validate:"required,datetime=2006-01-02"`
	Gender      Gender   `json:"gender,omitempty" validate:"omitempty,oneof=boy girl other"`
	BirthWeight *float64 `json:"birth_weight,omitempty" validate:"omitempty,gt=0"`
	BirthLength *float64 `json:"birth_length,omitempty" validate:"omitempty,gt=0"`
}

// NewBaby builds the stored entity for in.
func (in BabyInput) NewBaby(id, userID string, now time.Time) Baby {
	return Baby{
		ID:          id,
		UserID:      userID,
		Name:        in.Name,
		BirthDate:   in.BirthDate,
		Gender:      in.Gender,
		BirthWeight: in.BirthWeight,
		BirthLength: in.BirthLength,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

type BabyUpdate struct {
	Name        *string  `json:"name,omitempty" validate:"omitempty,min=1,max=100"`
	BirthDate   *string  `json:"birth_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Gender      *Gender  `json:"gender,omitempty" validate:"omitempty,oneof=boy girl other"`
	BirthWeight *float64 `json:"birth_weight,omitempty" validate:"omitempty,gt=0"`
	BirthLength *float64 `json:"birth_length,omitempty" validate:"omitempty,gt=0"`
}

func (p BabyUpdate) Apply(b *Baby, now time.Time) {
	if p.Name != nil {
		b.Name = *p.Name
	}
	if p.BirthDate != nil {
		b.BirthDate = *p.BirthDate
	}
	if p.Gender != nil {
		b.Gender = *p.Gender
	}
	if p.BirthWeight != nil {
		v := *p.BirthWeight
		b.BirthWeight = &v
	}
	if p.BirthLength != nil {
		v := *p.BirthLength
		b.BirthLength = &v
	}
	b.UpdatedAt = now
}
