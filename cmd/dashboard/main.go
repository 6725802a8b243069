// Command dashboard runs the backend in-process and drives the client core
// from the terminal: sign in (or sign up), report onboarding state, and list
// the notification feed.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"

	"golang.org/x/term"

	"github.com/wealthboard/wealthboard/internal/client"
	"github.com/wealthboard/wealthboard/internal/client/feed"
	"github.com/wealthboard/wealthboard/internal/flagx"
	"github.com/wealthboard/wealthboard/internal/logging"
	"github.com/wealthboard/wealthboard/internal/server"
	"github.com/wealthboard/wealthboard/internal/server/config"
)

func main() {
	args := flagx.FilterArgs(os.Args[1:], []string{"-email", "-password", "-name", "-signup"})
	fs := flag.NewFlagSet("dashboard", flag.ExitOnError)
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password (prompted when omitted)")
	name := fs.String("name", "", "display name (sign-up only)")
	signup := fs.Bool("signup", false, "create the account first")
	if err := fs.Parse(args); err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()
	cfg := config.LoadConfig()

	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stderr, nil)))

	backend, err := server.NewBackend(ctx, cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer backend.Close()

	core := client.New(backend.Auth(), backend.Tables(), backend.RPC(), backend.Objects(), logger)
	core.Init(ctx)
	defer core.Close()

	if *email != "" {
		if *password == "" {
			fmt.Println("Enter password")
			b, err := term.ReadPassword(int(os.Stdin.Fd()))
			if err != nil {
				log.Fatal(err)
			}
			*password = string(b)
		}

		var err error
		if *signup {
			err = core.Session.SignUp(ctx, *email, *password, *name)
		} else {
			err = core.Session.SignIn(ctx, *email, *password)
		}
		if err != nil {
			fmt.Println(err)
			return
		}
	}

	state := core.Session.State()
	if state.Session == nil {
		fmt.Println("not signed in (use -email and -password)")
		return
	}

	fmt.Printf("signed in as %s\n", state.Session.Email)
	fmt.Printf("onboarding: %s\n", state.Onboarding)

	items := core.Feed.List(ctx, state.Session.UserID, feed.ListOptions{Limit: 20, IncludeRead: true})
	if len(items) == 0 {
		fmt.Println("no notifications")
		return
	}
	for _, n := range items {
		status := " "
		if !n.Read {
			status = "*"
		}
		fmt.Printf("%s [%s] %s: %s\n", status, n.Kind, n.Title, n.Message)
	}
}
