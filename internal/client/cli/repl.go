package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aydevelopers/adminconsole/internal/client/models"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Touch()

	SignIn(ctx context.Context) error
	SignUp(ctx context.Context) error
	Logout(ctx context.Context) error

	Whoami(ctx context.Context) error
	Refresh(ctx context.Context) error
	EditProfile(ctx context.Context) error
	ChangePassword(ctx context.Context) error
	Session(ctx context.Context) error
	Users(ctx context.Context, role models.Role) error
	Products(ctx context.Context) error
	Tickets(ctx context.Context) error
	Sales(ctx context.Context) error
	Promotions(ctx context.Context) error
	Balance(ctx context.Context) error
}

const (
	helpSignedOut = "Available commands: signin, signup, help, exit"
	helpSignedIn  = "Available commands: whoami, refresh, edit, passwd, session, users [role], " +
		"ambassadors, managers, customers, products, tickets, sales, promotions, balance, logout, help, exit"
)

// runREPL starts the read-eval-print loop of the console.
//
// Every entered line counts as user activity for the session monitor. The
// first token is the command; protected views are dispatched regardless of
// the session state and refuse themselves through the route guard.
//
//	Signed out:
//	  - signin | login: authenticate
//	  - signup | register: create an account
//	  - help, exit | quit
//
//	Signed in:
//	  - whoami | profile: cached profile
//	  - refresh: re-read the profile from the backend
//	  - edit: update profile fields
//	  - passwd: change password
//	  - session: session and token details
//	  - users [role]: users, optionally filtered by role
//	  - ambassadors, managers, customers
//	  - products, tickets, sales, promotions, balance
//	  - logout
//
// Errors returned by command handlers are not fatal; handlers report them
// to the user themselves. The loop exits on EOF, on "exit"/"quit", or when
// ctx is done.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		if ctx.Err() != nil {
			return
		}
		printlnFn(fmt.Sprintf("console%s> ", prefixSpace(statusFn())))

		line, err := reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		a.Touch()

		cmd := strings.ToLower(parts[0])
		args := parts[1:]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn(helpSignedIn)
			} else {
				printlnFn(helpSignedOut)
			}

		case "signin", "login":
			_ = a.SignIn(ctx)

		case "signup", "register":
			_ = a.SignUp(ctx)

		case "logout", "signout":
			_ = a.Logout(ctx)

		case "whoami", "profile":
			_ = a.Whoami(ctx)

		case "refresh":
			_ = a.Refresh(ctx)

		case "edit":
			_ = a.EditProfile(ctx)

		case "passwd":
			_ = a.ChangePassword(ctx)

		case "session":
			_ = a.Session(ctx)

		case "users":
			var role models.Role
			if len(args) > 0 {
				r, ok := models.ParseRole(args[0])
				if !ok {
					printlnFn("Usage: users [manager|ambassador|user]")
					continue
				}
				role = r
			}
			_ = a.Users(ctx, role)

		case "ambassadors":
			_ = a.Users(ctx, models.RoleAmbassador)

		case "managers":
			_ = a.Users(ctx, models.RoleManager)

		case "customers":
			_ = a.Users(ctx, models.RoleUser)

		case "products":
			_ = a.Products(ctx)

		case "tickets":
			_ = a.Tickets(ctx)

		case "sales":
			_ = a.Sales(ctx)

		case "promotions":
			_ = a.Promotions(ctx)

		case "balance":
			_ = a.Balance(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}

func prefixSpace(s string) string {
	if s == "" {
		return ""
	}
	return " " + s
}
