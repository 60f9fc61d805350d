package main

import (
	"fmt"
	"os"

	"github.com/hyperjump/dishhub/internal/client"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"
)

// passwordEnv may hold the password so it stays out of the shell history.
const passwordEnv = "DISHHUB_PASSWORD"

type credentialFlags struct {
	username string
	email    string
	password string
}

func (f *credentialFlags) register(cmd *cobra.Command, withEmail bool) {
	cmd.Flags().StringVarP(&f.username, "username", "u", "", "user name")
	cmd.Flags().StringVarP(&f.password, "password", "p", "", "password (default $"+passwordEnv+", else prompt)")
	if withEmail {
		cmd.Flags().StringVar(&f.email, "email", "", "email address")
	}
	_ = cmd.MarkFlagRequired("username")
}

// credentials resolves the password from the flag, then the environment, then
// an echo-free prompt when stdin is a terminal.
func (f *credentialFlags) credentials(cmd *cobra.Command) (client.Credentials, error) {
	password := f.password
	if password == "" {
		password = os.Getenv(passwordEnv)
	}
	if password == "" {
		if in, ok := cmd.InOrStdin().(*os.File); ok && term.IsTerminal(int(in.Fd())) {
			fmt.Fprint(cmd.ErrOrStderr(), "Password: ")
			b, err := term.ReadPassword(int(in.Fd()))
			fmt.Fprintln(cmd.ErrOrStderr())
			if err != nil {
				return client.Credentials{}, fmt.Errorf("failed to read password: %w", err)
			}
			password = string(b)
		}
	}
	if password == "" {
		return client.Credentials{}, fmt.Errorf("a password is required (--password or $%s)", passwordEnv)
	}
	return client.Credentials{Username: f.username, Email: f.email, Password: password}, nil
}

func newRegisterCmd(a *app) *cobra.Command {
	var flags credentialFlags
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			creds, err := flags.credentials(cmd)
			if err != nil {
				return err
			}
			c, err := a.client()
			if err != nil {
				return err
			}
			user, err := c.Register(cmd.Context(), creds)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Registered %s. Run dishhub login to sign in.\n", user.Username)
			return nil
		},
	}
	flags.register(cmd, true)
	return cmd
}

func newLoginCmd(a *app) *cobra.Command {
	var flags credentialFlags
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and remember the session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			creds, err := flags.credentials(cmd)
			if err != nil {
				return err
			}
			c, err := a.client()
			if err != nil {
				return err
			}
			user, err := c.Login(cmd.Context(), creds)
			if err != nil {
				return err
			}
			if err := a.saveSession(c); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s\n", user.Username)
			return nil
		},
	}
	flags.register(cmd, false)
	return cmd
}

func newLogoutCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and forget the session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.client()
			if err != nil {
				return err
			}
			if err := c.Logout(cmd.Context()); err != nil {
				a.logger.Warn("Logout request failed", zap.Error(err))
			}
			if err := a.saveSession(c); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
			return nil
		},
	}
}

func newWhoamiCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.client()
			if err != nil {
				return err
			}
			user, err := c.CurrentUser(cmd.Context())
			if err != nil {
				return err
			}
			if err := a.saveSession(c); err != nil {
				return err
			}
			if user == nil {
				fmt.Fprintln(cmd.OutOrStdout(), "Not logged in")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s (%s)\n", user.Username, user.ID)
			return nil
		},
	}
}
