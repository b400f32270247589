package models

import "time"

// Demo account seeded on fresh installs. The ids are fixed so a client
// seeded offline and a server seeded on start describe the same entities.
const (
	DemoUserID   = "0b9d4c2e-6f41-4a8e-9d3b-5c1e2f7a8b90"
	DemoBabyID   = "3f6a1d8c-2b4e-4c7f-8a15-9e0d7c6b5a41"
	DemoEmail    = "demo@babysteps.com"
	DemoPassword = "demo123"
	DemoName     = "Demo Parent"
)

var demoActivityIDs = [...]string{
	"7c2e5a90-1d3f-4b6e-8a2c-4f5d6e7a8b01",
	"7c2e5a90-1d3f-4b6e-8a2c-4f5d6e7a8b02",
	"7c2e5a90-1d3f-4b6e-8a2c-4f5d6e7a8b03",
}

// DemoUser returns the registration of the demo parent.
func DemoUser() RegisterInput {
	return RegisterInput{ID: DemoUserID, Email: DemoEmail, Password: DemoPassword, Name: DemoName}
}

// DemoBaby returns Emma.
func DemoBaby() BabyInput {
	return BabyInput{ID: DemoBabyID, Name: "Emma", BirthDate: "2024-01-15", Gender: GenderGirl}
}

// DemoActivities returns the three sample events logged for Emma.
func DemoActivities() []ActivityInput {
	at := func(s string) *time.Time {
		t, _ := time.Parse(time.RFC3339, s)
		return &t
	}
	return []ActivityInput{
		{ID: demoActivityIDs[0], BabyID: DemoBabyID, Type: ActivityFeeding, Notes: "Formula feeding - 4oz", Timestamp: at("2025-10-08T10:00:00Z")},
		{ID: demoActivityIDs[1], BabyID: DemoBabyID, Type: ActivitySleep, Notes: "Nap time", Timestamp: at("2025-10-08T12:00:00Z")},
		{ID: demoActivityIDs[2], BabyID: DemoBabyID, Type: ActivityDiaper, Notes: "Wet diaper changed", Timestamp: at("2025-10-08T14:30:00Z")},
	}
}
