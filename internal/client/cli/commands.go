package cli

import (
	"context"
	"fmt"
	"strings"
)

type command struct {
	name       string
	usage      string
	needsLogin bool
	run        func(a *App, ctx context.Context, args []string) error
}

var commands = []command{
	{"register", "register [email]  create an account", false, (*App).register},
	{"login", "login [email]  sign in", false, (*App).login},
	{"demo", "demo  create the demo account", false, (*App).demo},
	{"status", "status  connectivity and queue state", false, (*App).showStatus},
	{"sync", "sync  replay queued changes now", false, (*App).syncNow},

	{"whoami", "whoami  show the signed-in user", true, (*App).whoami},
	{"profile", "profile [password]  change name or password", true, (*App).profile},
	{"logout", "logout  end the session", true, (*App).logout},

	{"babies", "babies  list babies", true, (*App).listBabies},
	{"baby-add", "baby-add  add a baby", true, (*App).addBaby},
	{"baby-update", "baby-update <id>  change baby fields", true, (*App).updateBaby},
	{"baby-delete", "baby-delete <id>  delete a baby and its records", true, (*App).deleteBaby},

	{"log", "log [type] [baby-id]  log feeding, diaper, sleep or pumping", true, (*App).logActivity},
	{"activities", "activities [baby-id]  list activities", true, (*App).listActivities},
	{"activity-update", "activity-update <id>  change activity fields", true, (*App).updateActivity},
	{"activity-delete", "activity-delete <id>  delete an activity", true, (*App).deleteActivity},

	{"reminders", "reminders [baby-id]  list reminders", true, (*App).listReminders},
	{"due", "due  reminders that are due now", true, (*App).dueReminders},
	{"reminder-add", "reminder-add [baby-id]  add a reminder", true, (*App).addReminder},
	{"reminder-update", "reminder-update <id>  change reminder fields", true, (*App).updateReminder},
	{"reminder-done", "reminder-done <id>  mark notified and reschedule", true, (*App).reminderDone},
	{"reminder-delete", "reminder-delete <id>  delete a reminder", true, (*App).deleteReminder},

	{"settings", "settings  show settings", true, (*App).showSettings},
	{"settings-set", "settings-set [name=value ...]  change settings", true, (*App).setSettings},

	{"pull", "pull  refresh local data from the server", true, (*App).pull},
	{"export", "export <file>  write a local snapshot", false, (*App).export},
	{"import", "import <file>  replace local data with a snapshot", false, (*App).importSnapshot},
	{"backup-upload", "backup-upload  store an encrypted snapshot on the server", true, (*App).backupUpload},
	{"backup-download", "backup-download <key>  restore an encrypted snapshot", false, (*App).backupDownload},
}

func lookup(name string) (command, bool) {
	for _, c := range commands {
		if c.name == name {
			return c, true
		}
	}
	return command{}, false
}

// Exec runs a single command by name.
func (a *App) Exec(ctx context.Context, name string, args []string) error {
	c, ok := lookup(name)
	if !ok {
		return fmt.Errorf("unknown command %q, type 'help'", name)
	}
	if c.needsLogin && !a.isLoggedIn() {
		return ErrNotLoggedIn
	}
	return c.run(a, ctx, args)
}

func helpText(loggedIn bool) string {
	var b strings.Builder
	b.WriteString("Available commands:\n")
	for _, c := range commands {
		if c.needsLogin && !loggedIn {
			continue
		}
		b.WriteString("  " + c.usage + "\n")
	}
	b.WriteString("  help | exit")
	return b.String()
}

// arg returns args[i] or "".
func arg(args []string, i int) string {
	if i < len(args) {
		return args[i]
	}
	return ""
}

// need returns args[i] or asks for it.
func (a *App) need(args []string, i int, prompt string) (string, error) {
	if v := arg(args, i); v != "" {
		return v, nil
	}
	v, err := GetSimpleText(a.reader, prompt, a.out)
	if err != nil {
		return "", err
	}
	if v == "" {
		return "", fmt.Errorf("%s is required", strings.ToLower(prompt))
	}
	return v, nil
}
