package cli

import (
	"context"

	"github.com/dmitrijs2005/babysteps/internal/client/services"
	"github.com/dmitrijs2005/babysteps/internal/models"
)

func (a *App) register(ctx context.Context, args []string) error {
	email, err := a.need(args, 0, "Email")
	if err != nil {
		return err
	}
	name, err := GetSimpleText(a.reader, "Your name", a.out)
	if err != nil {
		return err
	}
	pw, err := GetPassword(a.reader, a.out)
	if err != nil {
		return err
	}
	defer wipe(pw)

	s, err := a.auth.Register(ctx, models.RegisterInput{Email: email, Name: name, Password: string(pw)})
	if err != nil {
		return err
	}
	a.session = s
	a.printf("Registered and signed in as %s.\n", s.User.Email)
	return nil
}

func (a *App) login(ctx context.Context, args []string) error {
	email, err := a.need(args, 0, "Email")
	if err != nil {
		return err
	}
	pw, err := GetPassword(a.reader, a.out)
	if err != nil {
		return err
	}
	defer wipe(pw)

	s, err := a.auth.Login(ctx, email, string(pw))
	if err != nil {
		return err
	}
	a.session = s
	a.printf("Signed in as %s.\n", s.User.Name)
	return nil
}

func (a *App) logout(ctx context.Context, _ []string) error {
	a.auth.Logout(ctx)
	a.session = nil
	a.printf("Signed out.\n")
	return nil
}

func (a *App) whoami(_ context.Context, _ []string) error {
	u := a.session.User
	a.printf("%s <%s>\nid: %s\n", u.Name, u.Email, u.ID)
	return nil
}

func (a *App) profile(ctx context.Context, args []string) error {
	var p models.UserUpdate
	if arg(args, 0) == "password" {
		pw, err := GetPassword(a.reader, a.out)
		if err != nil {
			return err
		}
		defer wipe(pw)
		s := string(pw)
		p.Password = &s
	} else {
		name, err := GetSimpleText(a.reader, "New name", a.out)
		if err != nil {
			return err
		}
		p.Name = &name
	}

	u, out, err := a.auth.UpdateProfile(ctx, a.session.User.ID, p)
	if u != nil {
		a.session.User = *u
	}
	a.printOutcome("Profile", out, err)
	return rejected(out, err)
}

func (a *App) demo(ctx context.Context, _ []string) error {
	created, err := services.SeedDemo(ctx, a.stores, a.logger)
	if err != nil {
		return err
	}
	if created {
		a.printf("Demo account created: %s / %s\n", models.DemoEmail, models.DemoPassword)
	} else {
		a.printf("Demo account already exists: %s\n", models.DemoEmail)
	}
	return nil
}

func wipe(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
