package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/me/hive/internal/apiclient"
	"github.com/me/hive/internal/session"
	"github.com/me/hive/pkg/model"
)

func newLoginCmd() *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in to The Hive",
		Long:  "Sign in with email and password and store the access token for later commands.",
		RunE: guestOnly(func(ctx context.Context, out io.Writer, args []string) error {
			if password == "" {
				p, err := prompt(out, "Password: ")
				if err != nil {
					return err
				}
				password = p
			}
			if email == "" || password == "" {
				return fmt.Errorf("email and password are required")
			}

			user, err := rt.client.Login(ctx, email, password)
			if err != nil {
				return describe(err)
			}
			fmt.Fprintf(out, "Logged in as %s (%s)\n", user.Username, user.Email)
			return nil
		}),
	}

	cmd.Flags().StringVar(&email, "email", "", "Account email")
	cmd.Flags().StringVar(&password, "password", "", "Account password (prompted if omitted)")
	return cmd
}

func newRegisterCmd() *cobra.Command {
	var req model.RegisterRequest

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account and sign in",
		RunE: guestOnly(func(ctx context.Context, out io.Writer, args []string) error {
			if req.ConfirmPassword == "" {
				req.ConfirmPassword = req.Password
			}
			user, err := rt.client.Register(ctx, req)
			if err != nil {
				return describe(err)
			}
			fmt.Fprintf(out, "Welcome, %s! You are logged in.\n", user.Username)
			return nil
		}),
	}

	cmd.Flags().StringVar(&req.Username, "username", "", "Username")
	cmd.Flags().StringVar(&req.Email, "email", "", "Email")
	cmd.Flags().StringVar(&req.Password, "password", "", "Password")
	cmd.Flags().StringVar(&req.ConfirmPassword, "confirm-password", "", "Password confirmation (defaults to --password)")
	cmd.Flags().StringVar(&req.FullName, "full-name", "", "Full name")
	cmd.Flags().StringVar(&req.Bio, "bio", "", "Short bio")
	cmd.Flags().StringVar(&req.Location, "location", "", "Location")
	return cmd
}

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored access token",
		RunE: public(func(ctx context.Context, out io.Writer, args []string) error {
			if err := rt.client.Logout(ctx); err != nil {
				return err
			}
			fmt.Fprintln(out, "Logged out.")
			return nil
		}),
	}
}

func newOAuthCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "oauth",
		Short: "Sign in with Google or GitHub",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "url <google|github>",
		Short: "Print the provider sign-in URL",
		Args:  cobra.ExactArgs(1),
		RunE: guestOnly(func(ctx context.Context, out io.Writer, args []string) error {
			u, err := rt.client.OAuthURL(ctx, args[0])
			if err != nil {
				return describe(err)
			}
			fmt.Fprintln(out, u)
			return nil
		}),
	}, &cobra.Command{
		Use:   "complete <google|github> <code>",
		Short: "Finish sign-in with the authorization code",
		Args:  cobra.ExactArgs(2),
		RunE: guestOnly(func(ctx context.Context, out io.Writer, args []string) error {
			user, err := rt.client.OAuthCallback(ctx, args[0], args[1])
			if err != nil {
				return describe(err)
			}
			fmt.Fprintf(out, "Logged in as %s (%s)\n", user.Username, user.Email)
			return nil
		}),
	})
	return cmd
}

func newWhoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in identity",
		RunE: protected(session.RoleNone, func(ctx context.Context, out io.Writer, args []string) error {
			user, err := rt.client.Me(ctx)
			if err != nil {
				return describe(err)
			}
			fmt.Fprintf(out, "Username: %s\n", user.Username)
			fmt.Fprintf(out, "Email:    %s\n", user.Email)
			fmt.Fprintf(out, "Role:     %s\n", session.ParseRole(user.Role))
			return nil
		}),
	}
}

// describe turns client errors into messages fit for a terminal.
func describe(err error) error {
	var apiErr *apiclient.APIError
	var netErr *apiclient.NetworkError
	switch {
	case errors.As(err, &apiErr):
		if len(apiErr.Fields) > 0 {
			var parts []string
			for _, f := range apiErr.Fields {
				parts = append(parts, f.Field()+": "+f.Msg)
			}
			return errors.New(strings.Join(parts, "; "))
		}
		return errors.New(apiErr.Message())
	case errors.As(err, &netErr):
		return fmt.Errorf("cannot reach server: %w", netErr.Err)
	default:
		return err
	}
}

func prompt(out io.Writer, label string) (string, error) {
	fmt.Fprint(out, label)
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read input: %w", err)
	}
	return strings.TrimSpace(line), nil
}
