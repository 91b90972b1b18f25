package cli

import (
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/hongminglow/vault-console/internal/models"
)

var errNotSignedIn = errors.New("not signed in; run `vault signin` first")

func requireSession(a *App) error {
	if !a.Session.Snapshot().IsAuthenticated {
		return errNotSignedIn
	}
	return nil
}

func newUsersCmd(app func() *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "Manage console users",
	}
	cmd.AddCommand(newUsersListCmd(app), newUsersUpdateCmd(app))
	return cmd
}

func newUsersListCmd(app func() *App) *cobra.Command {
	var roleID int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List users holding a role",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app()
			if err := requireSession(a); err != nil {
				return err
			}
			users, err := a.API.GetUsers(cmd.Context(), models.RoleID(roleID))
			if err != nil {
				return fmt.Errorf("list users: %w", err)
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tEMAIL\tROLE\tACTIVE")
			for _, u := range users {
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%t\n", u.ID, u.Name, u.Email, u.RoleID, u.IsActive)
			}
			return w.Flush()
		},
	}

	cmd.Flags().IntVar(&roleID, "role", int(models.RoleGuest), "Role id to list")
	return cmd
}

func newUsersUpdateCmd(app func() *App) *cobra.Command {
	var (
		id       int64
		name     string
		email    string
		mobile   string
		roleID   int
		isActive bool
	)

	cmd := &cobra.Command{
		Use:   "update",
		Short: "Update a user's profile",
		Long:  "Update a user's profile. Only the flags given are changed; other fields keep their current values.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app()
			if err := requireSession(a); err != nil {
				return err
			}
			ctx := cmd.Context()
			snap := a.Session.Snapshot()
			self := snap.User.ID == id

			user, err := findManagedUser(cmd, a, id)
			if err != nil {
				return err
			}
			if user == nil {
				if !self {
					return fmt.Errorf("update user: user %d not found", id)
				}
				user = &models.ManagedUser{
					ID:       snap.User.ID,
					Name:     snap.User.Name,
					Email:    snap.User.Email,
					Mobile:   snap.User.Mobile,
					RoleID:   snap.Role,
					IsActive: snap.User.IsActive,
				}
			}

			flags := cmd.Flags()
			if flags.Changed("name") {
				user.Name = name
			}
			if flags.Changed("email") {
				user.Email = email
			}
			if flags.Changed("mobile") {
				user.Mobile = mobile
			}
			if flags.Changed("role") {
				user.RoleID = models.RoleID(roleID)
			}
			if flags.Changed("active") {
				user.IsActive = isActive
			}

			resp, err := a.API.UpdateUser(ctx, *user)
			if err != nil {
				return fmt.Errorf("update user: %w", err)
			}
			if !resp.Success {
				return fmt.Errorf("update user: %s", orText(resp.Msg, "rejected by server"))
			}

			// editing yourself keeps the cached identity in step
			if self {
				cached := *snap.User
				if flags.Changed("name") {
					cached.Name = name
				}
				if flags.Changed("email") {
					cached.Email = email
				}
				if flags.Changed("mobile") {
					cached.Mobile = mobile
				}
				if flags.Changed("active") {
					cached.IsActive = isActive
				}
				if err := a.Session.UpdateUserData(ctx, cached); err != nil {
					return fmt.Errorf("update cached user: %w", err)
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "updated user %d\n", user.ID)
			return nil
		},
	}

	cmd.Flags().Int64Var(&id, "id", 0, "User id")
	cmd.Flags().StringVar(&name, "name", "", "Display name")
	cmd.Flags().StringVar(&email, "email", "", "Email")
	cmd.Flags().StringVar(&mobile, "mobile", "", "Mobile number")
	cmd.Flags().IntVar(&roleID, "role", int(models.RoleGuest), "Role id")
	cmd.Flags().BoolVar(&isActive, "active", true, "Active flag")
	_ = cmd.MarkFlagRequired("id")
	return cmd
}

// findManagedUser returns the current server record for id, or nil when no
// known role lists it.
func findManagedUser(cmd *cobra.Command, a *App, id int64) (*models.ManagedUser, error) {
	for _, role := range []models.RoleID{models.RoleAdmin, models.RoleGuest} {
		users, err := a.API.GetUsers(cmd.Context(), role)
		if err != nil {
			return nil, fmt.Errorf("look up user %d: %w", id, err)
		}
		for i := range users {
			if users[i].ID == id {
				return &users[i], nil
			}
		}
	}
	return nil, nil
}

func newForgotPasswordCmd(app func() *App) *cobra.Command {
	var email string

	cmd := &cobra.Command{
		Use:   "forgot-password",
		Short: "Request a password reset email",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := app().API.ForgotPassword(cmd.Context(), email)
			if err != nil {
				return fmt.Errorf("forgot password: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), orText(resp.Msg, "reset requested"))
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Account email")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func newPromptsCmd(app func() *App) *cobra.Command {
	return &cobra.Command{
		Use:   "prompts",
		Short: "Show AskVault chat history of the signed-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app()
			if err := requireSession(a); err != nil {
				return err
			}
			snap := a.Session.Snapshot()
			items, err := a.API.GetChatHistory(cmd.Context(), snap.User.ID)
			if err != nil {
				return fmt.Errorf("chat history: %w", err)
			}
			if len(items) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no prompts yet")
				return nil
			}
			for _, it := range items {
				fmt.Fprintf(cmd.OutOrStdout(), "> %s\n%s\n\n", it.Prompt, it.Response)
			}
			return nil
		},
	}
}

func orText(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
