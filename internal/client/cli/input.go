package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"golang.org/x/term"
)

// readPassword and isTerminal are test seams for the terminal helpers.
var (
	readPassword = term.ReadPassword
	isTerminal   = term.IsTerminal
)

// GetSimpleText prints a prompt to w and reads a single line of input from reader.
// The trailing newline is trimmed. If EOF occurs after some input was read,
// the partial line is returned.
//
// Example prompt format:
//
//	Prompt text
//	> _
func GetSimpleText(reader *bufio.Reader, prompt string, w io.Writer) (string, error) {
	if _, err := fmt.Fprint(w, prompt+"\n> "); err != nil {
		return "", err
	}
	line, err := reader.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && len(line) > 0 {
			return strings.TrimSpace(line), nil
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// GetPassword prints a password prompt to w and reads a password without
// echo when stdin is a terminal. Piped input is read as a plain line from
// reader.
//
// The returned byte slice should be wiped by the caller when no longer needed.
func GetPassword(reader *bufio.Reader, w io.Writer) ([]byte, error) {
	fd := int(os.Stdin.Fd())
	if !isTerminal(fd) {
		s, err := GetSimpleText(reader, "Enter password", w)
		if err != nil {
			return nil, err
		}
		return []byte(s), nil
	}

	if _, err := fmt.Fprint(w, "Enter password: "); err != nil {
		return nil, err
	}
	pw, err := readPassword(fd)
	fmt.Fprintln(w)
	if err != nil {
		return nil, err
	}
	return pw, nil
}

// GetOptionalFloat reads a number; an empty answer yields nil.
func GetOptionalFloat(reader *bufio.Reader, prompt string, w io.Writer) (*float64, error) {
	s, err := GetSimpleText(reader, prompt+" (empty to skip)", w)
	if err != nil || s == "" {
		return nil, err
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, fmt.Errorf("not a number: %q", s)
	}
	return &v, nil
}

// GetOptionalInt reads an integer; an empty answer yields nil.
func GetOptionalInt(reader *bufio.Reader, prompt string, w io.Writer) (*int, error) {
	s, err := GetSimpleText(reader, prompt+" (empty to skip)", w)
	if err != nil || s == "" {
		return nil, err
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return nil, fmt.Errorf("not a whole number: %q", s)
	}
	return &v, nil
}

// GetOptionalTime reads an RFC 3339 timestamp or "YYYY-MM-DD HH:MM" in
// local time; an empty answer yields nil.
func GetOptionalTime(reader *bufio.Reader, prompt string, w io.Writer) (*time.Time, error) {
	s, err := GetSimpleText(reader, prompt+" (empty for now)", w)
	if err != nil || s == "" {
		return nil, err
	}
	return parseTime(s)
}

func parseTime(s string) (*time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return &t, nil
	}
	t, err := time.ParseInLocation("2006-01-02 15:04", s, time.Local)
	if err != nil {
		return nil, fmt.Errorf("unrecognised time %q", s)
	}
	return &t, nil
}

// GetAssignments prompts the user to enter lines in "name=value" form,
// one per line, ending on an empty line. The raw lines are returned unchanged.
// Validation and parsing are left to the caller.
func GetAssignments(reader *bufio.Reader, prompt string, w io.Writer) ([]string, error) {
	if _, err := fmt.Fprintln(w, prompt+" in the format name=value (empty line to finish)"); err != nil {
		return nil, err
	}

	lines := make([]string, 0)
	for {
		line, err := reader.ReadString('\n')
		line = strings.TrimRight(line, "\r\n")
		if line == "" {
			break
		}
		lines = append(lines, line)
		if err != nil {
			break
		}
	}
	return lines, nil
}

// parseAssignments turns "name=value" items into a map. Names are
// lower-cased and trimmed; values keep inner spaces.
func parseAssignments(items []string) (map[string]string, error) {
	m := make(map[string]string, len(items))
	for _, it := range items {
		name, value, ok := strings.Cut(it, "=")
		name = strings.ToLower(strings.TrimSpace(name))
		if !ok || name == "" {
			return nil, fmt.Errorf("expected name=value, got %q", it)
		}
		m[name] = strings.TrimSpace(value)
	}
	return m, nil
}
