package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/dmitrijs2005/babysteps/internal/models"
)

func (a *App) listReminders(ctx context.Context, args []string) error {
	rs, err := a.reminders.List(ctx, a.session.User.ID, arg(args, 0))
	if err != nil {
		return err
	}
	a.printReminders(rs, "No reminders.")
	return nil
}

func (a *App) dueReminders(ctx context.Context, _ []string) error {
	rs, err := a.reminders.Due(ctx, a.session.User.ID)
	if err != nil {
		return err
	}
	a.printReminders(rs, "Nothing is due.")
	return nil
}

func (a *App) printReminders(rs []models.Reminder, empty string) {
	if len(rs) == 0 {
		a.printf("%s\n", empty)
		return
	}
	for _, r := range rs {
		state := "every " + strconv.Itoa(r.IntervalHours) + "h"
		if !r.IsActive {
			state = "paused"
		}
		a.printf("%s  %s  next %s  (%s)\n", r.ID, r.Title, r.NextDue.Local().Format(timeLayout), state)
	}
}

func (a *App) addReminder(ctx context.Context, args []string) error {
	babyID, err := a.pickBaby(ctx, args, 0)
	if err != nil {
		return err
	}
	in := models.ReminderInput{BabyID: babyID}
	if in.Title, err = GetSimpleText(a.reader, "Title", a.out); err != nil {
		return err
	}
	if in.ReminderType, err = GetSimpleText(a.reader, "Kind: feeding, diaper, sleep, pumping, medicine or other (empty to skip)", a.out); err != nil {
		return err
	}
	hours, err := GetOptionalInt(a.reader, "Repeat every N hours", a.out)
	if err != nil {
		return err
	}
	if hours != nil {
		in.IntervalHours = *hours
	}
	if in.NextDue, err = GetOptionalTime(a.reader, "First due at", a.out); err != nil {
		return err
	}

	r, out, err := a.reminders.Create(ctx, a.session.User.ID, in)
	if r != nil {
		a.printOutcome(fmt.Sprintf("Reminder %q due %s", r.Title, r.NextDue.Local().Format(timeLayout)), out, err)
	}
	return rejected(out, err)
}

func (a *App) updateReminder(ctx context.Context, args []string) error {
	id, err := a.need(args, 0, "Reminder id")
	if err != nil {
		return err
	}
	lines, err := GetAssignments(a.reader, "Fields to change: title, reminder_type, interval_hours, next_due, is_active", a.out)
	if err != nil {
		return err
	}
	fields, err := parseAssignments(lines)
	if err != nil {
		return err
	}
	p, err := reminderUpdate(fields)
	if err != nil {
		return err
	}

	r, out, err := a.reminders.Update(ctx, a.session.User.ID, id, p)
	if r != nil {
		a.printOutcome("Reminder "+r.Title, out, err)
	}
	return rejected(out, err)
}

func (a *App) reminderDone(ctx context.Context, args []string) error {
	id, err := a.need(args, 0, "Reminder id")
	if err != nil {
		return err
	}
	r, out, err := a.reminders.MarkNotified(ctx, a.session.User.ID, id)
	if r != nil {
		a.printOutcome("Next occurrence "+r.NextDue.Local().Format(timeLayout), out, err)
	}
	return rejected(out, err)
}

func (a *App) deleteReminder(ctx context.Context, args []string) error {
	id, err := a.need(args, 0, "Reminder id")
	if err != nil {
		return err
	}
	out, err := a.reminders.Delete(ctx, a.session.User.ID, id)
	a.printOutcome("Deletion", out, err)
	return rejected(out, err)
}

func reminderUpdate(fields map[string]string) (models.ReminderUpdate, error) {
	var p models.ReminderUpdate
	for name, v := range fields {
		switch name {
		case "title":
			p.Title = &v
		case "reminder_type":
			p.ReminderType = &v
		case "interval_hours":
			n, err := strconv.Atoi(v)
			if err != nil {
				return p, fmt.Errorf("interval_hours: not a whole number: %q", v)
			}
			p.IntervalHours = &n
		case "next_due":
			ts, err := parseTime(v)
			if err != nil {
				return p, err
			}
			p.NextDue = ts
		case "is_active":
			b, err := strconv.ParseBool(v)
			if err != nil {
				return p, fmt.Errorf("is_active: expected true or false, got %q", v)
			}
			p.IsActive = &b
		default:
			return p, fmt.Errorf("unknown field %q", name)
		}
	}
	return p, nil
}
