package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/babysteps/internal/models"
)

func (a *App) logActivity(ctx context.Context, args []string) error {
	typ, err := a.need(args, 0, "Type: feeding, diaper, sleep or pumping")
	if err != nil {
		return err
	}
	babyID, err := a.pickBaby(ctx, args, 1)
	if err != nil {
		return err
	}

	in := models.ActivityInput{BabyID: babyID, Type: models.ActivityType(strings.ToLower(typ))}
	switch in.Type {
	case models.ActivityFeeding, models.ActivityPumping:
		if in.Amount, err = GetOptionalFloat(a.reader, "Amount", a.out); err != nil {
			return err
		}
		if in.Duration, err = GetOptionalInt(a.reader, "Duration in minutes", a.out); err != nil {
			return err
		}
	case models.ActivitySleep:
		if in.StartedAt, err = GetOptionalTime(a.reader, "Fell asleep at", a.out); err != nil {
			return err
		}
		if in.EndedAt, err = GetOptionalTime(a.reader, "Woke up at", a.out); err != nil {
			return err
		}
		if in.StartedAt != nil && in.EndedAt != nil {
			d := int(in.EndedAt.Sub(*in.StartedAt) / time.Minute)
			in.Duration = &d
		}
	}
	if in.Notes, err = GetSimpleText(a.reader, "Notes (empty to skip)", a.out); err != nil {
		return err
	}
	if in.Timestamp, err = GetOptionalTime(a.reader, "When", a.out); err != nil {
		return err
	}

	act, out, err := a.activities.Log(ctx, a.session.User.ID, in)
	if act != nil {
		a.printOutcome(fmt.Sprintf("%s at %s", act.Type, act.Timestamp.Local().Format(timeLayout)), out, err)
	}
	return rejected(out, err)
}

const timeLayout = "2006-01-02 15:04"

func (a *App) listActivities(ctx context.Context, args []string) error {
	acts, err := a.activities.List(ctx, a.session.User.ID, models.ActivityFilter{BabyID: arg(args, 0)})
	if err != nil {
		return err
	}
	if len(acts) == 0 {
		a.printf("Nothing logged yet.\n")
		return nil
	}
	for _, act := range acts {
		a.printf("%s  %s  %-8s %s\n", act.ID, act.Timestamp.Local().Format(timeLayout), act.Type, activityDetails(act))
	}
	return nil
}

func activityDetails(act models.Activity) string {
	var parts []string
	if act.Amount != nil {
		parts = append(parts, strconv.FormatFloat(*act.Amount, 'f', -1, 64))
	}
	if act.Duration != nil {
		parts = append(parts, fmt.Sprintf("%d min", *act.Duration))
	}
	if act.Notes != "" {
		parts = append(parts, act.Notes)
	}
	return strings.Join(parts, ", ")
}

func (a *App) updateActivity(ctx context.Context, args []string) error {
	id, err := a.need(args, 0, "Activity id")
	if err != nil {
		return err
	}
	lines, err := GetAssignments(a.reader, "Fields to change: type, amount, duration, notes, timestamp", a.out)
	if err != nil {
		return err
	}
	fields, err := parseAssignments(lines)
	if err != nil {
		return err
	}
	p, err := activityUpdate(fields)
	if err != nil {
		return err
	}

	act, out, err := a.activities.Update(ctx, a.session.User.ID, id, p)
	if act != nil {
		a.printOutcome("Activity", out, err)
	}
	return rejected(out, err)
}

func (a *App) deleteActivity(ctx context.Context, args []string) error {
	id, err := a.need(args, 0, "Activity id")
	if err != nil {
		return err
	}
	out, err := a.activities.Delete(ctx, a.session.User.ID, id)
	a.printOutcome("Deletion", out, err)
	return rejected(out, err)
}

func activityUpdate(fields map[string]string) (models.ActivityUpdate, error) {
	var p models.ActivityUpdate
	for name, v := range fields {
		switch name {
		case "type":
			t := models.ActivityType(strings.ToLower(v))
			p.Type = &t
		case "amount":
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return p, fmt.Errorf("amount: not a number: %q", v)
			}
			p.Amount = &f
		case "duration":
			n, err := strconv.Atoi(v)
			if err != nil {
				return p, fmt.Errorf("duration: not a whole number: %q", v)
			}
			p.Duration = &n
		case "notes":
			p.Notes = &v
		case "timestamp":
			ts, err := parseTime(v)
			if err != nil {
				return p, err
			}
			p.Timestamp = ts
		default:
			return p, fmt.Errorf("unknown field %q", name)
		}
	}
	return p, nil
}
