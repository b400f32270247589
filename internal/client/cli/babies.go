package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/dmitrijs2005/babysteps/internal/models"
)

func (a *App) listBabies(ctx context.Context, _ []string) error {
	bs, err := a.babies.List(ctx, a.session.User.ID)
	if err != nil {
		return err
	}
	if len(bs) == 0 {
		a.printf("No babies yet, add one with 'baby-add'.\n")
		return nil
	}
	for _, b := range bs {
		a.printf("%s  %s  born %s %s\n", b.ID, b.Name, b.BirthDate, b.Gender)
	}
	return nil
}

func (a *App) addBaby(ctx context.Context, _ []string) error {
	var in models.BabyInput
	var err error
	if in.Name, err = GetSimpleText(a.reader, "Name", a.out); err != nil {
		return err
	}
	if in.BirthDate, err = GetSimpleText(a.reader, "Birth date (YYYY-MM-DD)", a.out); err != nil {
		return err
	}
	gender, err := GetSimpleText(a.reader, "Gender: boy, girl or other (empty to skip)", a.out)
	if err != nil {
		return err
	}
	in.Gender = models.Gender(gender)
	if in.BirthWeight, err = GetOptionalFloat(a.reader, "Birth weight", a.out); err != nil {
		return err
	}
	if in.BirthLength, err = GetOptionalFloat(a.reader, "Birth length", a.out); err != nil {
		return err
	}

	b, out, err := a.babies.Create(ctx, a.session.User.ID, in)
	if b != nil {
		a.printOutcome(fmt.Sprintf("Baby %s (%s)", b.Name, b.ID), out, err)
	}
	return rejected(out, err)
}

func (a *App) updateBaby(ctx context.Context, args []string) error {
	id, err := a.need(args, 0, "Baby id")
	if err != nil {
		return err
	}
	lines, err := GetAssignments(a.reader, "Fields to change: name, birth_date, gender, birth_weight, birth_length", a.out)
	if err != nil {
		return err
	}
	fields, err := parseAssignments(lines)
	if err != nil {
		return err
	}
	p, err := babyUpdate(fields)
	if err != nil {
		return err
	}

	b, out, err := a.babies.Update(ctx, a.session.User.ID, id, p)
	if b != nil {
		a.printOutcome("Baby "+b.Name, out, err)
	}
	return rejected(out, err)
}

func (a *App) deleteBaby(ctx context.Context, args []string) error {
	id, err := a.need(args, 0, "Baby id")
	if err != nil {
		return err
	}
	out, err := a.babies.Delete(ctx, a.session.User.ID, id)
	a.printOutcome("Deletion", out, err)
	return rejected(out, err)
}

func babyUpdate(fields map[string]string) (models.BabyUpdate, error) {
	var p models.BabyUpdate
	for name, v := range fields {
		switch name {
		case "name":
			p.Name = &v
		case "birth_date":
			p.BirthDate = &v
		case "gender":
			g := models.Gender(v)
			p.Gender = &g
		case "birth_weight", "birth_length":
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return p, fmt.Errorf("%s: not a number: %q", name, v)
			}
			if name == "birth_weight" {
				p.BirthWeight = &f
			} else {
				p.BirthLength = &f
			}
		default:
			return p, fmt.Errorf("unknown field %q", name)
		}
	}
	return p, nil
}

// pickBaby returns args[i], the only baby when there is one, or asks.
func (a *App) pickBaby(ctx context.Context, args []string, i int) (string, error) {
	if id := arg(args, i); id != "" {
		return id, nil
	}
	bs, err := a.babies.List(ctx, a.session.User.ID)
	if err != nil {
		return "", err
	}
	switch len(bs) {
	case 0:
		return "", fmt.Errorf("no babies yet, add one with 'baby-add'")
	case 1:
		return bs[0].ID, nil
	}
	for _, b := range bs {
		a.printf("  %s  %s\n", b.ID, b.Name)
	}
	return a.need(nil, 0, "Baby id")
}
