package main

import (
	"bufio"
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net"
	"os"
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	"workplate/internal/google"
)

func authCommand() *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Connect a Google account so its calendars can be planned around.",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "manual", Usage: "Paste the authorization code instead of waiting for the redirect."},
			&cli.DurationFlag{Name: "timeout", Value: 5 * time.Minute, Usage: "How long to wait for the browser redirect."},
		},
		Action: func(c *cli.Context) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			a.logger.Info("Starting Google authentication flow.")

			auth, err := a.googleAuth()
			if err != nil {
				return fmt.Errorf("failed to get google oauth config: %w", err)
			}

			state, err := newState()
			if err != nil {
				return err
			}

			code, err := authorizationCode(c, a, auth, state)
			if err != nil {
				return err
			}

			if err := auth.Exchange(c.Context, code); err != nil {
				return fmt.Errorf("unable to retrieve token from web: %w", err)
			}
			a.logger.Info("Successfully authenticated and saved token.")

			return printCalendars(c.Context, a, auth)
		},
	}
}

// authorizationCode waits for the loopback redirect, falling back to
// reading the code from stdin when the listener cannot be opened.
func authorizationCode(c *cli.Context, a *app, auth *google.Auth, state string) (string, error) {
	authURL := auth.AuthCodeURL(state)

	if !c.Bool("manual") {
		ln, err := net.Listen("tcp", a.env.OAuthRedirectAddr)
		if err == nil {
			fmt.Printf("Open the following link in your browser to connect your Google account:\n%v\n", authURL)
			ctx, cancel := context.WithTimeout(c.Context, c.Duration("timeout"))
			defer cancel()
			return google.WaitForCode(ctx, ln, state)
		}
		a.logger.Warn("Could not listen for the OAuth redirect, falling back to manual entry", "addr", a.env.OAuthRedirectAddr, "error", err)
	}

	fmt.Printf("Go to the following link in your browser then type the "+
		"authorization code: \n%v\n", authURL)
	fmt.Print("Enter Authorization Code: ")
	reader := bufio.NewReader(os.Stdin)
	code, err := reader.ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("failed to read authorization code: %w", err)
	}
	code = strings.TrimSpace(code)
	if code == "" {
		return "", fmt.Errorf("no authorization code entered")
	}
	return code, nil
}

func newState() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate oauth state: %w", err)
	}
	return hex.EncodeToString(b), nil
}

func disconnectCommand() *cli.Command {
	return &cli.Command{
		Name:  "disconnect",
		Usage: "Forget the stored Google token.",
		Action: func(c *cli.Context) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			auth, err := a.googleAuth()
			if err != nil {
				return err
			}
			if err := auth.Disconnect(c.Context); err != nil {
				return err
			}
			a.logger.Info("Disconnected Google account.")
			return nil
		},
	}
}

func calendarsCommand() *cli.Command {
	return &cli.Command{
		Name:  "calendars",
		Usage: "List the calendars of the connected Google account.",
		Action: func(c *cli.Context) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			auth, err := a.googleAuth()
			if err != nil {
				return err
			}
			return printCalendars(c.Context, a, auth)
		},
	}
}

func printCalendars(ctx context.Context, a *app, auth *google.Auth) error {
	client, err := google.NewClient(ctx, a.logger, auth, a.loc)
	if err != nil {
		return err
	}
	calendars, err := client.ListCalendars(ctx)
	if err != nil {
		return err
	}
	fmt.Println("Calendars (use the ID in WORKPLATE_GOOGLE_CALENDAR_IDS):")
	for _, cal := range calendars {
		marker := " "
		if cal.Primary {
			marker = "*"
		}
		fmt.Printf(" %s %-40s %s\n", marker, cal.Id, cal.Summary)
	}
	return nil
}
