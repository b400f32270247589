package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeExec struct {
	loggedIn bool
	failOn   string

	calls []string
}

func (f *fakeExec) isLoggedIn() bool { return f.loggedIn }

func (f *fakeExec) Exec(_ context.Context, cmd string, args []string) error {
	f.calls = append(f.calls, strings.TrimSpace(cmd+" "+strings.Join(args, " ")))
	switch cmd {
	case "login":
		f.loggedIn = true
	case "logout":
		f.loggedIn = false
	}
	if cmd == f.failOn {
		return errors.New("boom")
	}
	return nil
}

func captureOutput(t *testing.T) *[]string {
	t.Helper()
	var lines []string
	orig := printlnFn
	printlnFn = func(a ...any) (int, error) {
		lines = append(lines, strings.TrimSuffix(fmt.Sprintln(a...), "\n"))
		return 0, nil
	}
	t.Cleanup(func() { printlnFn = orig })
	return &lines
}

func TestRunREPL_DispatchesCommands(t *testing.T) {
	out := captureOutput(t)

	input := strings.Join([]string{
		"help",
		"login a@x.com",
		"",
		"babies",
		"log feeding  b1",
		"activities",
		"logout",
		"exit",
		"babies",
	}, "\n")

	exec := &fakeExec{}
	runREPL(context.Background(), exec, func() string { return "offline" }, bufio.NewReader(strings.NewReader(input)))

	assert.Equal(t, []string{"login a@x.com", "babies", "log feeding b1", "activities", "logout"}, exec.calls)
	assert.Contains(t, *out, "Bye!")
	assert.Contains(t, (*out)[0], "bs> offline > ")
}

func TestRunREPL_PrintsErrorsAndContinues(t *testing.T) {
	out := captureOutput(t)

	exec := &fakeExec{loggedIn: true, failOn: "sync"}
	runREPL(context.Background(), exec, func() string { return "" }, bufio.NewReader(strings.NewReader("sync\nstatus")))

	assert.Equal(t, []string{"sync", "status"}, exec.calls)
	assert.Contains(t, *out, "Error: boom")
}

func TestRunREPL_StopsOnCancelledContext(t *testing.T) {
	captureOutput(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	exec := &fakeExec{}
	runREPL(ctx, exec, func() string { return "" }, bufio.NewReader(strings.NewReader("babies\n")))
	assert.Empty(t, exec.calls)
}

func TestHelpText(t *testing.T) {
	anon := helpText(false)
	assert.Contains(t, anon, "register [email]")
	assert.NotContains(t, anon, "baby-add")

	full := helpText(true)
	assert.Contains(t, full, "baby-add")
	assert.Contains(t, full, "reminder-done <id>")
}

func TestCommandNamesUnique(t *testing.T) {
	seen := map[string]bool{}
	for _, c := range commands {
		require.False(t, seen[c.name], c.name)
		seen[c.name] = true
	}
}
