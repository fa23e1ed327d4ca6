package cli

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/dmitrijs2005/gophforum/internal/client/models"
	"github.com/dmitrijs2005/gophforum/internal/common"
	"github.com/spf13/cobra"
)

// getSimpleText, getPassword and getMultiline are indirections used to
// facilitate testing.
var (
	getSimpleText = GetSimpleText
	getPassword   = GetPassword
	getMultiline  = GetMultiline
)

// pingTimeout bounds the liveness probe independently of the request timeout.
const pingTimeout = 3 * time.Second

// promptIfEmpty returns value, or asks for it when it is empty.
func (a *App) promptIfEmpty(cmd *cobra.Command, value, prompt string) (string, error) {
	if value != "" {
		return value, nil
	}
	return getSimpleText(a.reader, prompt, cmd.OutOrStdout())
}

func (c *CLI) newSignupCmd() *cobra.Command {
	var email, name, username string

	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create an account and sign in",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := c.appFor(cmd)
			if err != nil {
				return err
			}

			if email, err = app.promptIfEmpty(cmd, email, "Enter email"); err != nil {
				return err
			}
			if name, err = app.promptIfEmpty(cmd, name, "Enter display name"); err != nil {
				return err
			}

			password, err := getPassword(cmd.OutOrStdout())
			if err != nil {
				return err
			}
			defer common.WipeByteArray(password)

			var handle *string
			if username != "" {
				handle = &username
			}

			u, err := app.authService.Signup(cmd.Context(), email, string(password), name, handle)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Signed up as %s\n", userLabel(u))
			return nil
		},
	}

	cmd.Flags().StringVarP(&email, "email", "e", "", "account email")
	cmd.Flags().StringVarP(&name, "name", "n", "", "display name")
	cmd.Flags().StringVarP(&username, "username", "u", "", "optional unique handle")
	return cmd
}

func (c *CLI) newLoginCmd() *cobra.Command {
	var email string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and remember the session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := c.appFor(cmd)
			if err != nil {
				return err
			}

			if email, err = app.promptIfEmpty(cmd, email, "Enter email"); err != nil {
				return err
			}

			password, err := getPassword(cmd.OutOrStdout())
			if err != nil {
				return err
			}
			defer common.WipeByteArray(password)

			u, err := app.authService.Login(cmd.Context(), email, string(password))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s\n", userLabel(u))
			return nil
		},
	}

	cmd.Flags().StringVarP(&email, "email", "e", "", "account email")
	return cmd
}

func (c *CLI) newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "End the current session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := c.appFor(cmd)
			if err != nil {
				return err
			}
			if err := app.authService.Logout(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out successfully")
			return nil
		},
	}
}

func (c *CLI) newMeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "me",
		Short: "Show the signed-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := c.appFor(cmd)
			if err != nil {
				return err
			}
			u, err := app.authService.Me(cmd.Context())
			if err != nil {
				return err
			}
			printUser(cmd.OutOrStdout(), u)
			return nil
		},
	}
}

func (c *CLI) newAvatarCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "avatar <image-file>",
		Short: "Upload a profile picture",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := c.appFor(cmd)
			if err != nil {
				return err
			}

			image, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}

			key, err := app.authService.UploadAvatar(cmd.Context(), http.DetectContentType(image), image)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Avatar uploaded: %s\n", key)
			return nil
		},
	}
}

func (c *CLI) newPingCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ping",
		Short: "Check that the server is up",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := c.appFor(cmd)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), pingTimeout)
			defer cancel()

			if err := app.authService.Ping(ctx); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Server is up")
			return nil
		},
	}
}

func userLabel(u *models.User) string {
	if u.Username != nil && *u.Username != "" {
		return fmt.Sprintf("%s (%s)", *u.Username, u.Email)
	}
	return u.Email
}
