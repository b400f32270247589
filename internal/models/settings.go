package models

type Settings struct {
	Theme         string `json:"theme"`
	Notifications bool   `json:"notifications"`
	Language      string `json:"language"`
	Units         string `json:"units"`
}

// DefaultSettings is what a user gets on first read.
func DefaultSettings() Settings {
	return Settings{
		Theme:         "light",
		Notifications: true,
		Language:      "en",
		Units:         "metric",
	}
}

type SettingsUpdate struct {
	Theme         *string `json:"theme,omitempty" validate:"omitempty,oneof=light dark system"`
	Notifications *bool   `json:"notifications,omitempty"`
	Language      *string `json:"language,omitempty" validate:"omitempty,bcp47_language_tag"`
	Units         *string `json:"units,omitempty" validate:"omitempty,oneof=metric imperial"`
}

func (p SettingsUpdate) Apply(s *Settings) {
	if p.Theme != nil {
		s.Theme = *p.Theme
	}
	if p.Notifications != nil {
		s.Notifications = *p.Notifications
	}
	if p.Language != nil {
		s.Language = *p.Language
	}
	if p.Units != nil {
		s.Units = *p.Units
	}
}
