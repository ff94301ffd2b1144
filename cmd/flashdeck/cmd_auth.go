package main

import (
	"errors"
	"net/http"

	"github.com/dustin/go-humanize"
	"github.com/phrazzld/flashdeck/internal/remote"
	"github.com/spf13/cobra"
)

func (c *cli) newLoginCommand() *cobra.Command {
	return c.newCredentialsCommand("login", "Sign in to your account", false)
}

func (c *cli) newRegisterCommand() *cobra.Command {
	return c.newCredentialsCommand("register", "Create an account and sign in", true)
}

func (c *cli) newCredentialsCommand(use, short string, register bool) *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:     use,
		GroupID: "account",
		Short:   short,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			if email == "" {
				if email, err = c.prompt("Email: "); err != nil {
					return err
				}
			}
			if password == "" {
				if password, err = c.prompt("Password: "); err != nil {
					return err
				}
			}

			ctx := cmd.Context()
			var user *remote.SessionUser
			if register {
				user, err = c.client.auth.Register(ctx, email, password)
			} else {
				user, err = c.client.auth.Login(ctx, email, password)
			}
			if err != nil {
				return describeAuthError(err)
			}

			c.printf("Signed in as %s\n", user.Email)
			return nil
		},
	}
	cmd.Flags().StringVarP(&email, "email", "e", "", "Account email")
	cmd.Flags().StringVarP(&password, "password", "p", "", "Account password (prompted when omitted)")
	return cmd
}

func describeAuthError(err error) error {
	var fe *remote.FetchError
	if !errors.As(err, &fe) {
		return err
	}
	switch fe.StatusCode {
	case http.StatusUnauthorized:
		return errors.New("invalid email or password")
	case http.StatusConflict:
		return errors.New("an account with that email already exists")
	case 0:
		return errors.New("could not reach the server; check your connection")
	default:
		return err
	}
}

func (c *cli) newLogoutCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "logout",
		GroupID: "account",
		Short:   "Sign out and forget the stored session",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := c.client.auth.Logout(cmd.Context()); err != nil {
				return err
			}
			c.println("Signed out")
			return nil
		},
	}
}

func (c *cli) newWhoamiCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "whoami",
		GroupID: "account",
		Short:   "Show the signed-in user",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			user, err := c.client.auth.CurrentUser(cmd.Context())
			if err != nil {
				return err
			}
			if user == nil {
				c.println("Not signed in")
				return nil
			}
			c.printf("%s (%s)\n", user.Email, user.ID)
			if !user.ExpiresAt.IsZero() {
				c.printf("Session expires %s\n", humanize.Time(user.ExpiresAt))
			}
			return nil
		},
	}
}
