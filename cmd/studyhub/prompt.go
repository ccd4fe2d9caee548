package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// readPassword is a test seam for term.ReadPassword.
var readPassword = term.ReadPassword

// promptLine asks for one line of input on stderr.
func (a *app) promptLine(label string) (string, error) {
	fmt.Fprintf(a.err, "%s: ", label)
	line, err := a.stdin.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", fmt.Errorf("read %s: %w", strings.ToLower(label), err)
	}
	return strings.TrimSpace(line), nil
}

// promptPassword reads a password without echo from a terminal, or as a
// plain line when stdin is redirected.
func (a *app) promptPassword() (string, error) {
	f, ok := a.in.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return a.promptLine("Password")
	}

	fmt.Fprint(a.err, "Password: ")
	pw, err := readPassword(int(f.Fd()))
	fmt.Fprintln(a.err)
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	return string(pw), nil
}

// credentials fills in whichever of email and password were not given as
// flags.
func (a *app) credentials(email, password string) (string, string, error) {
	var err error
	if email == "" {
		if email, err = a.promptLine("Email"); err != nil {
			return "", "", err
		}
	}
	if password == "" {
		if password, err = a.promptPassword(); err != nil {
			return "", "", err
		}
	}
	return email, password, nil
}
