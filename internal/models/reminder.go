package models

import "time"

// DefaultReminderInterval applies when a reminder has no interval.
const DefaultReminderInterval = 24

type Reminder struct {
	ID            string    `json:"id"`
	BabyID        string    `json:"baby_id"`
	UserID        string    `json:"user_id"`
	Title         string    `json:"title"`
	ReminderType  string    `json:"reminder_type,omitempty"`
	IntervalHours int       `json:"interval_hours"`
	NextDue       time.Time `json:"next_due"`
	IsActive      bool      `json:"is_active"`
	CreatedAt     time.Time `json:"created_at"`
}

type ReminderInput struct {
	ID            string     `json:"id,omitempty" validate:"omitempty,uuid"`
	BabyID        string     `json:"baby_id" validate:"required"`
	Title         string     `json:"title" validate:"required,max=200"`
	ReminderType  string     `json:"reminder_type,omitempty" validate:"omitempty,oneof=feeding diaper sleep pumping medicine other"`
	IntervalHours int        `json:"interval_hours,omitempty" validate:"gte=0,lte=720"`
	NextDue       *time.Time `json:"next_due,omitempty"`
}

// NewReminder builds an active reminder. Without NextDue the first
// occurrence is one interval from now.
func (in ReminderInput) NewReminder(id, userID string, now time.Time) Reminder {
	r := Reminder{
		ID:            id,
		BabyID:        in.BabyID,
		UserID:        userID,
		Title:         in.Title,
		ReminderType:  in.ReminderType,
		IntervalHours: in.IntervalHours,
		IsActive:      true,
		CreatedAt:     now,
	}
	if r.IntervalHours == 0 {
		r.IntervalHours = DefaultReminderInterval
	}
	if in.NextDue != nil {
		r.NextDue = in.NextDue.UTC()
	} else {
		r.NextDue = now.Add(r.Interval())
	}
	return r
}

// Interval is IntervalHours as a duration, defaulting to a day.
func (r Reminder) Interval() time.Duration {
	h := r.IntervalHours
	if h <= 0 {
		h = DefaultReminderInterval
	}
	return time.Duration(h) * time.Hour
}

// Reschedule moves NextDue forward by one interval.
func (r *Reminder) Reschedule() {
	r.NextDue = r.NextDue.Add(r.Interval())
}

type ReminderUpdate struct {
	Title         *string    `json:"title,omitempty" validate:"omitempty,min=1,max=200"`
	ReminderType  *string    `json:"reminder_type,omitempty" validate:"omitempty,oneof=feeding diaper sleep pumping medicine other"`
	IntervalHours *int       `json:"interval_hours,omitempty" validate:"omitempty,gte=1,lte=720"`
	NextDue       *time.Time `json:"next_due,omitempty"`
	IsActive      *bool      `json:"is_active,omitempty"`
}

func (p ReminderUpdate) Apply(r *Reminder) {
	if p.Title != nil {
		r.Title = *p.Title
	}
	if p.ReminderType != nil {
		r.ReminderType = *p.ReminderType
	}
	if p.IntervalHours != nil {
		r.IntervalHours = *p.IntervalHours
	}
	if p.NextDue != nil {
		r.NextDue = p.NextDue.UTC()
	}
	if p.IsActive != nil {
		r.IsActive = *p.IsActive
	}
}
