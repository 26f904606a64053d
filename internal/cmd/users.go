package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gravitrone/shelf/cli/internal/api"
	"github.com/gravitrone/shelf/cli/internal/controller"
	"github.com/gravitrone/shelf/cli/internal/ui/components"
)

var userColumns = []components.GridColumn{
	{Header: "ID", Width: 5},
	{Header: "Name", Width: 24},
	{Header: "Email", Width: 30},
}

func userRows(users []api.User) [][]string {
	rows := make([][]string, len(users))
	for i, u := range users {
		rows[i] = []string{u.ID.String(), u.Name, u.Email}
	}
	return rows
}

// UsersCmd returns the `shelf users` command group for browsing other
// collectors.
func UsersCmd(env *Env) *cobra.Command {
	cmd := &cobra.Command{
		Use:          "users",
		Aliases:      []string{"u"},
		Short:        "Find other collectors",
		SilenceUsage: true,
	}
	cmd.AddCommand(usersListCmd(env))
	cmd.AddCommand(usersSearchCmd(env))
	cmd.AddCommand(usersShowCmd(env))
	return cmd
}

func runUserSearch(cmd *cobra.Command, env *Env, query string) error {
	if _, err := env.Gate.Require(cmd.Context()); err != nil {
		return explain(err)
	}
	users, err := controller.NewSocialUsers(env.Client, env.logger()).Search(cmd.Context(), query)
	if err != nil {
		return explain(err)
	}
	if len(users) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "no users found")
		return nil
	}
	printGrid(cmd.OutOrStdout(), userColumns, userRows(users))
	return nil
}

func usersListCmd(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List every user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runUserSearch(cmd, env, "")
		},
	}
}

func usersSearchCmd(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:   "search <name>",
		Short: "Find users whose name contains the text",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUserSearch(cmd, env, args[0])
		},
	}
}

func usersShowCmd(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:   "show <user-id>",
		Short: "Show a user's profile and public collections",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0], "user")
			if err != nil {
				return err
			}
			profile := controller.NewSocialProfile(env.Client, env.Gate, env.logger())
			route, err := profile.Mount(cmd.Context(), id)
			switch {
			case route == controller.RouteLogin:
				return explain(err)
			case route != controller.RouteNone:
				if err != nil && !api.IsKind(err, api.KindNotFound) {
					return explain(err)
				}
				return fmt.Errorf("user %s not found", id)
			}

			u := profile.Profile()
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, components.SanitizeOneLine(u.Name))
			fmt.Fprintln(out, components.InfoRow("Email", components.SanitizeOneLine(u.Email)))
			if u.Bio != "" {
				fmt.Fprintln(out, components.InfoRow("Bio", components.SanitizeOneLine(u.Bio)))
			}
			if u.CreatedAt != "" {
				fmt.Fprintln(out, components.InfoRow("Member since", components.SanitizeOneLine(u.CreatedAt)))
			}
			fmt.Fprintln(out)

			cols := profile.Collections()
			if len(cols) == 0 {
				fmt.Fprintln(out, "no collections to show")
				return nil
			}
			printGrid(out, collectionColumns, collectionRows(cols))
			return nil
		},
	}
}
