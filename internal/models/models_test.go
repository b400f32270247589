package models

import (
	"errors"
	"testing"
	"time"

	"github.com/dmitrijs2005/babysteps/internal/common"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func TestValidate_RegisterInput(t *testing.T) {
	tests := []struct {
		name       string
		in         RegisterInput
		wantFields []string
	}{
		{name: "ok", in: RegisterInput{Email: "a@x.com", Password: "pw1234", Name: "A"}},
		{name: "all missing", in: RegisterInput{}, wantFields: []string{"email", "password", "name"}},
		{name: "bad email", in: RegisterInput{Email: "nope", Password: "pw1234", Name: "A"}, wantFields: []string{"email"}},
		{name: "short password is fine locally", in: RegisterInput{Email: "a@x.com", Password: "pw1", Name: "A"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.in)
			if len(tt.wantFields) == 0 {
				require.NoError(t, err)
				return
			}

			require.ErrorIs(t, err, common.ErrValidation)

			var verr *ValidationError
			require.True(t, errors.As(err, &verr))
			for _, f := range tt.wantFields {
				assert.Contains(t, verr.Fields, f)
			}
			assert.Len(t, verr.Fields, len(tt.wantFields))
		})
	}
}

func TestValidateSignUp_PasswordLength(t *testing.T) {
	require.NoError(t, ValidateSignUp(RegisterInput{Email: "a@x.com", Password: "pw1234", Name: "A"}))

	err := ValidateSignUp(RegisterInput{Email: "a@x.com", Password: "pw1", Name: "A"})
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, map[string]string{"password": "must be at least 6 characters"}, verr.Fields)

	err = ValidateSignUp(RegisterInput{Password: "pw1"})
	require.True(t, errors.As(err, &verr))
	assert.Len(t, verr.Fields, 3)
	assert.Equal(t, "must be at least 6 characters", verr.Fields["password"])

	err = ValidateSignUp(RegisterInput{Email: "a@x.com", Name: "A"})
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "is required", verr.Fields["password"])
}

func TestValidatePasswordChange(t *testing.T) {
	require.NoError(t, ValidatePasswordChange(UserUpdate{Name: ptr("B")}))
	require.NoError(t, ValidatePasswordChange(UserUpdate{Password: ptr("secret1")}))
	require.ErrorIs(t, ValidatePasswordChange(UserUpdate{Password: ptr("abc")}), common.ErrValidation)
}

func TestValidate_BabyInput(t *testing.T) {
	require.NoError(t, Validate(BabyInput{Name: "Emma", BirthDate: "2024-01-15"}))
	require.NoError(t, Validate(BabyInput{Name: "Emma", BirthDate: "2024-01-15", Gender: GenderGirl, BirthWeight: ptr(3.2)}))

	err := Validate(BabyInput{Name: "Emma", BirthDate: "15/01/2024"})
	require.ErrorIs(t, err, common.ErrValidation)
	assert.Contains(t, err.Error(), "birth_date")

	err = Validate(BabyInput{Name: "Emma", BirthDate: "2024-01-15", Gender: "unicorn"})
	require.ErrorIs(t, err, common.ErrValidation)

	err = Validate(BabyInput{ID: "not-a-uuid", Name: "Emma", BirthDate: "2024-01-15"})
	require.ErrorIs(t, err, common.ErrValidation)
}

func TestValidate_UpdatesSkipNilFields(t *testing.T) {
	require.NoError(t, Validate(BabyUpdate{}))
	require.NoError(t, Validate(ActivityUpdate{}))
	require.NoError(t, Validate(SettingsUpdate{}))

	require.ErrorIs(t, Validate(SettingsUpdate{Units: ptr("furlongs")}), common.ErrValidation)
	require.ErrorIs(t, Validate(ActivityUpdate{Type: ptr(ActivityType("bath"))}), common.ErrValidation)
	require.ErrorIs(t, Validate(BabyUpdate{Name: ptr("")}), common.ErrValidation)
}

func TestBabyUpdate_ApplyOnlyTouchesSetFields(t *testing.T) {
	created := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	now := created.Add(time.Hour)
	b := Baby{ID: "b1", UserID: "u1", Name: "Emma", BirthDate: "2024-01-15", Gender: GenderGirl, CreatedAt: created, UpdatedAt: created}

	BabyUpdate{Name: ptr("Emma Rose"), BirthWeight: ptr(3.4)}.Apply(&b, now)

	want := Baby{ID: "b1", UserID: "u1", Name: "Emma Rose", BirthDate: "2024-01-15", Gender: GenderGirl,
		BirthWeight: ptr(3.4), CreatedAt: created, UpdatedAt: now}
	assert.Empty(t, cmp.Diff(want, b))
}

func TestActivityInput_NewActivity_DefaultsTimestamp(t *testing.T) {
	now := time.Date(2025, 10, 8, 10, 0, 0, 0, time.UTC)

	a := ActivityInput{BabyID: "b1", Type: ActivityFeeding, Amount: ptr(120.0)}.NewActivity("a1", "u1", now)
	assert.Equal(t, now, a.Timestamp)
	assert.Equal(t, "u1", a.UserID)

	at := now.Add(-2 * time.Hour)
	a = ActivityInput{BabyID: "b1", Type: ActivitySleep, Timestamp: &at}.NewActivity("a2", "u1", now)
	assert.Equal(t, at, a.Timestamp)
}

func TestSettings_DefaultsAndApply(t *testing.T) {
	s := DefaultSettings()
	assert.Equal(t, Settings{Theme: "light", Notifications: true, Language: "en", Units: "metric"}, s)

	SettingsUpdate{Theme: ptr("dark"), Notifications: ptr(false)}.Apply(&s)
	assert.Equal(t, Settings{Theme: "dark", Notifications: false, Language: "en", Units: "metric"}, s)
}

func TestReminder_NewAndReschedule(t *testing.T) {
	now := time.Date(2025, 1, 1, 8, 0, 0, 0, time.UTC)

	r := ReminderInput{BabyID: "b1", Title: "Feed"}.NewReminder("r1", "u1", now)
	assert.True(t, r.IsActive)
	assert.Equal(t, DefaultReminderInterval, r.IntervalHours)
	assert.Equal(t, now.Add(24*time.Hour), r.NextDue)

	r.IntervalHours = 3
	r.Reschedule()
	assert.Equal(t, now.Add(27*time.Hour), r.NextDue)
}

func TestUser_PublicDropsPassword(t *testing.T) {
	u := User{ID: "u1", Email: "a@x.com", Password: "$2a$hash"}
	assert.Empty(t, u.Public().Password)
	assert.Equal(t, "$2a$hash", u.Password, "original must be untouched")
}
