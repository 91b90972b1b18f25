package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hongminglow/vault-console/internal/models/dto"
)

// errCommandFailed is returned when the controller already reported the
// failure through a notification.
var errCommandFailed = errors.New("command failed")

func newSigninCmd(app func() *App) *cobra.Command {
	var req dto.SigninRequest

	cmd := &cobra.Command{
		Use:   "signin",
		Short: "Sign in and start a session",
		RunE: func(cmd *cobra.Command, args []string) error {
			if req.Password == "" {
				pwd, err := prompt(cmd.InOrStdin(), cmd.ErrOrStderr(), "Password: ")
				if err != nil {
					return err
				}
				req.Password = pwd
			}
			if err := req.Validate(); err != nil {
				return err
			}
			if !app().Session.Signin(cmd.Context(), req) {
				return errCommandFailed
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&req.Email, "email", "", "Account email")
	cmd.Flags().StringVar(&req.Password, "password", "", "Account password (prompted if omitted)")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func newSignupCmd(app func() *App) *cobra.Command {
	req := dto.SignupRequest{Gender: dto.DefaultGender, IsActive: true}

	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create an account",
		RunE: func(cmd *cobra.Command, args []string) error {
			if req.Password == "" {
				pwd, err := prompt(cmd.InOrStdin(), cmd.ErrOrStderr(), "Password: ")
				if err != nil {
					return err
				}
				req.Password = pwd
			}
			if err := req.Validate(); err != nil {
				return err
			}
			if !app().Session.Signup(cmd.Context(), req) {
				return errCommandFailed
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&req.Name, "name", "", "Display name")
	cmd.Flags().StringVar(&req.Email, "email", "", "Account email")
	cmd.Flags().StringVar(&req.Mobile, "mobile", "", "Mobile number")
	cmd.Flags().StringVar(&req.Password, "password", "", "Account password (prompted if omitted)")
	cmd.Flags().StringVar(&req.Gender, "gender", dto.DefaultGender, "Gender")
	cmd.Flags().BoolVar(&req.IsActive, "active", true, "Create the account as active")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("mobile")
	return cmd
}

func newLogoutCmd(app func() *App) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "End the session and forget the stored user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app().Session.Logout(cmd.Context())
			return nil
		},
	}
}

func newWhoamiCmd(app func() *App) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the current session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			snap := app().Session.Snapshot()
			out := cmd.OutOrStdout()
			if !snap.IsAuthenticated {
				fmt.Fprintf(out, "not signed in (role %s)\n", snap.Role)
				return nil
			}
			fmt.Fprintf(out, "user:   %d %s <%s>\n", snap.User.ID, snap.User.Name, snap.User.Email)
			fmt.Fprintf(out, "role:   %d (%s)\n", int(snap.Role), snap.Role)
			expiry := "-"
			if snap.ExpiryDate != nil {
				expiry = *snap.ExpiryDate
			}
			fmt.Fprintf(out, "expiry: %s\n", expiry)
			fmt.Fprintf(out, "valid:  %t\n", snap.IsAppValid)
			return nil
		},
	}
}

func newAccessCmd(app func() *App) *cobra.Command {
	return &cobra.Command{
		Use:   "access",
		Short: "Check whether gated features may be used",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if app().Session.CheckFeatureAccess() {
				fmt.Fprintln(cmd.OutOrStdout(), "granted")
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), "denied")
			}
			return nil
		},
	}
}

func prompt(in io.Reader, out io.Writer, label string) (string, error) {
	fmt.Fprint(out, label)
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read input: %w", err)
	}
	return strings.TrimSpace(line), nil
}
