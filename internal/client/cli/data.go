package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/dmitrijs2005/babysteps/internal/client/services"
	"github.com/dmitrijs2005/babysteps/internal/models"
)

func (a *App) showSettings(ctx context.Context, _ []string) error {
	s, err := a.settings.Get(ctx, a.session.User.ID)
	if err != nil {
		return err
	}
	a.printf("theme=%s\nnotifications=%t\nlanguage=%s\nunits=%s\n", s.Theme, s.Notifications, s.Language, s.Units)
	return nil
}

func (a *App) setSettings(ctx context.Context, args []string) error {
	lines := args
	if len(lines) == 0 {
		var err error
		if lines, err = GetAssignments(a.reader, "Settings to change: theme, notifications, language, units", a.out); err != nil {
			return err
		}
	}
	fields, err := parseAssignments(lines)
	if err != nil {
		return err
	}
	p, err := settingsUpdate(fields)
	if err != nil {
		return err
	}

	_, out, err := a.settings.Update(ctx, a.session.User.ID, p)
	a.printOutcome("Settings", out, err)
	return rejected(out, err)
}

func settingsUpdate(fields map[string]string) (models.SettingsUpdate, error) {
	var p models.SettingsUpdate
	for name, v := range fields {
		switch name {
		case "theme":
			p.Theme = &v
		case "language":
			p.Language = &v
		case "units":
			p.Units = &v
		case "notifications":
			b, err := strconv.ParseBool(v)
			if err != nil {
				return p, fmt.Errorf("notifications: expected true or false, got %q", v)
			}
			p.Notifications = &b
		default:
			return p, fmt.Errorf("unknown setting %q", name)
		}
	}
	return p, nil
}

func (a *App) showStatus(ctx context.Context, _ []string) error {
	st := a.sync.Status(ctx)
	mode := "offline"
	if st.Online {
		mode = "online"
	}
	a.printf("mode: %s\npending changes: %d\nqueue entries: %d\n", mode, st.Pending, st.Logged)
	if st.Failed > 0 {
		a.printf("rejected changes: %d\n", st.Failed)
	}
	return nil
}

func (a *App) syncNow(ctx context.Context, _ []string) error {
	r := a.sync.Resume(ctx)
	if r.Replayed > 0 {
		a.printf("Sent %d queued change(s).\n", r.Replayed)
	}
	if r.Rejected > 0 {
		a.printf("The server refused %d change(s); they were undone locally.\n", r.Rejected)
	}
	if r.Err != nil {
		a.printf("%d change(s) still waiting.\n", r.Remaining)
		return r.Err
	}
	a.printf("Everything is in sync.\n")
	return nil
}

func (a *App) pull(ctx context.Context, _ []string) error {
	if err := a.sync.Pull(ctx, a.session.User.ID); err != nil {
		return err
	}
	a.printf("Local data refreshed from the server.\n")
	return nil
}

func (a *App) export(ctx context.Context, args []string) error {
	path, err := a.need(args, 0, "File")
	if err != nil {
		return err
	}
	snap, err := a.backup.Export(ctx)
	if err != nil {
		return err
	}
	raw, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, raw, 0o600); err != nil {
		return err
	}
	a.printf("Snapshot written to %s.\n", path)
	return nil
}

func (a *App) importSnapshot(ctx context.Context, args []string) error {
	path, err := a.need(args, 0, "File")
	if err != nil {
		return err
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var snap services.Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return fmt.Errorf("read snapshot: %w", err)
	}
	if err := a.backup.Import(ctx, &snap); err != nil {
		return err
	}
	a.session = nil
	a.printf("Snapshot restored, please sign in again.\n")
	return nil
}

func (a *App) backupUpload(ctx context.Context, _ []string) error {
	a.printf("Choose a passphrase for the backup.\n")
	pass, err := GetPassword(a.reader, a.out)
	if err != nil {
		return err
	}
	defer wipe(pass)

	key, err := a.backup.Upload(ctx, pass)
	if err != nil {
		return err
	}
	a.printf("Backup stored. Keep this key to restore it:\n%s\n", key)
	return nil
}

func (a *App) backupDownload(ctx context.Context, args []string) error {
	key, err := a.need(args, 0, "Backup key")
	if err != nil {
		return err
	}
	pass, err := GetPassword(a.reader, a.out)
	if err != nil {
		return err
	}
	defer wipe(pass)

	snap, err := a.backup.Download(ctx, key, pass)
	if err != nil {
		return err
	}
	a.session = nil
	a.printf("Backup from %s restored, please sign in again.\n", snap.CreatedAt.Local().Format(timeLayout))
	return nil
}
