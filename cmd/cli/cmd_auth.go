package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"golang.org/x/term"

	"github.com/reconsole/reconsole/pkg/ui"
)

func runLogin() {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	var cf commonFlags
	cf.register(fs)
	username := fs.String("username", "", "Account username")
	password := fs.String("password", "", "Account password (prompted when omitted)")
	parseFlags(fs)

	a := cf.mustBuild()
	ctx, cancel := signalContext()
	defer cancel()

	user := *username
	if user == "" {
		user = promptLine("Username: ")
	}
	pass := *password
	if pass == "" {
		pass = promptPassword("Password: ")
	}

	if !a.session.Login(ctx, user, pass) {
		ui.PrintError(a.session.LastError())
		os.Exit(1)
	}
	id := a.session.Identity()
	ui.PrintSuccess(fmt.Sprintf("Logged in as %s <%s>", id.Username, id.Email))
}

func runRegister() {
	fs := flag.NewFlagSet("register", flag.ExitOnError)
	var cf commonFlags
	cf.register(fs)
	username := fs.String("username", "", "Account username")
	email := fs.String("email", "", "Account email")
	password := fs.String("password", "", "Account password (prompted when omitted)")
	parseFlags(fs)

	a := cf.mustBuild()
	ctx, cancel := signalContext()
	defer cancel()

	user := *username
	if user == "" {
		user = promptLine("Username: ")
	}
	mail := *email
	if mail == "" {
		mail = promptLine("Email: ")
	}
	pass := *password
	if pass == "" {
		pass = promptPassword("Password: ")
	}

	if !a.session.Register(ctx, user, mail, pass) {
		ui.PrintError(a.session.LastError())
		os.Exit(1)
	}
	id := a.session.Identity()
	ui.PrintSuccess(fmt.Sprintf("Registered and logged in as %s", id.Username))
}

func runLogout() {
	fs := flag.NewFlagSet("logout", flag.ExitOnError)
	var cf commonFlags
	cf.register(fs)
	parseFlags(fs)

	a := cf.mustBuild()
	a.session.Logout()
	ui.PrintSuccess("Logged out")
}

func runWhoami() {
	fs := flag.NewFlagSet("whoami", flag.ExitOnError)
	var cf commonFlags
	cf.register(fs)
	parseFlags(fs)

	a := cf.mustBuild()
	ctx, cancel := signalContext()
	defer cancel()

	a.requireAuth(ctx)
	id := a.session.Identity()
	fmt.Printf("%s <%s>\n", id.Username, id.Email)
	if !id.CreatedAt.IsZero() {
		ui.PrintHelp("member since " + id.CreatedAt.Format("2006-01-02"))
	}
}

// signalContext cancels on SIGINT/SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func promptLine(prompt string) string {
	fmt.Fprint(os.Stderr, prompt)
	line, _ := bufio.NewReader(os.Stdin).ReadString('\n')
	return strings.TrimSpace(line)
}

// promptPassword reads without echo when stdin is a terminal.
func promptPassword(prompt string) string {
	fmt.Fprint(os.Stderr, prompt)
	if term.IsTerminal(int(os.Stdin.Fd())) {
		b, err := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Fprintln(os.Stderr)
		if err == nil {
			return string(b)
		}
	}
	line, _ := bufio.NewReader(os.Stdin).ReadString('\n')
	return strings.TrimSpace(line)
}
