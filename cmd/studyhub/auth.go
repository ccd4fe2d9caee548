package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kbukum/studyhub/auth"
	"github.com/kbukum/studyhub/model"
)

var errNotLoggedIn = errors.New("not logged in")

func (a *app) loginCmd() *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and store the access token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			email, password, err := a.credentials(email, password)
			if err != nil {
				return err
			}
			res := a.client.Login(cmd.Context(), model.LoginRequest{Email: email, Password: password})
			if res.Err != nil {
				return res.Err
			}
			return a.print(res.Data.User)
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email (prompted when empty)")
	cmd.Flags().StringVar(&password, "password", "", "account password (prompted when empty)")
	return cmd
}

func (a *app) registerCmd() *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account and store the access token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			email, password, err := a.credentials(email, password)
			if err != nil {
				return err
			}
			res := a.client.Register(cmd.Context(), model.RegisterRequest{Email: email, Password: password})
			if res.Err != nil {
				return res.Err
			}
			return a.print(res.Data.User)
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email (prompted when empty)")
	cmd.Flags().StringVar(&password, "password", "", "account password, at least 8 characters (prompted when empty)")
	return cmd
}

func (a *app) logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored access token and session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a.client.Logout(cmd.Context())
			fmt.Fprintln(a.err, "Logged out")
			return nil
		},
	}
}

// session is what whoami and refresh report.
type session struct {
	User  *model.User  `json:"user,omitempty" yaml:"user,omitempty"`
	Token *auth.Claims `json:"token,omitempty" yaml:"token,omitempty"`
}

func (a *app) whoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the logged-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			res := a.client.Restore(cmd.Context())
			if res.Err != nil {
				return res.Err
			}
			if res.Data == nil {
				return errNotLoggedIn
			}
			return a.print(session{User: res.Data, Token: a.claims()})
		},
	}
}

func (a *app) refreshCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "refresh",
		Short: "Exchange the session for a new access token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			res := a.client.Refresh(cmd.Context())
			if res.Err != nil {
				return res.Err
			}
			return a.print(session{Token: a.claims()})
		},
	}
}

// claims decodes the held token, or nil when it is not a readable JWT.
func (a *app) claims() *auth.Claims {
	token, ok := a.client.Token()
	if !ok {
		return nil
	}
	c, err := auth.InspectToken(token)
	if err != nil {
		a.log.Debug("token is not a readable JWT")
		return nil
	}
	return &c
}
