package commands

import (
	"fmt"

	"github.com/ahmetcoskunkizilkaya/ratemyemployer/internal/database"
	"github.com/ahmetcoskunkizilkaya/ratemyemployer/internal/models"
	"github.com/ahmetcoskunkizilkaya/ratemyemployer/internal/services"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var usersSearch *string

func init() {
	usersSearch = usersListCmd.Flags().String("search", "", "Filter by email or username.")
	usersCmd.AddCommand(usersListCmd)
	usersCmd.AddCommand(usersRoleCmd)
	rootCmd.AddCommand(usersCmd)
}

var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "Inspects and manages user profiles.",
}

var usersListCmd = &cobra.Command{
	Use:   "list [role] [--search <text>]",
	Short: "Lists users, optionally limited to one role.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		role := ""
		if len(args) == 1 {
			role = args[0]
		}
		db, err := openDB()
		if err != nil {
			return err
		}
		defer closeDB(db)

		users, total, err := services.NewUserService(db).List(*usersSearch, role, database.NewPage(1, database.MaxPageSize))
		if err != nil {
			return err
		}

		t := newTable(cmd)
		t.AppendHeader(table.Row{"ID", "Email", "Username", "Role", "Provider", "Joined"})
		for _, u := range users {
			t.AppendRow(table.Row{u.ID, u.Email, u.Username, u.Role, u.AuthProvider, u.CreatedAt.Format("2006-01-02")})
		}
		t.AppendFooter(table.Row{"", fmt.Sprintf("%d of %d", len(users), total)})
		t.Render()
		return nil
	},
}

var usersRoleCmd = &cobra.Command{
	Use:   "role <id|email> <user|moderator|admin>",
	Short: "Changes a user's role.",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if !models.ValidRole(args[1]) {
			return fmt.Errorf("unknown role %q", args[1])
		}
		db, err := openDB()
		if err != nil {
			return err
		}
		defer closeDB(db)

		user, err := services.NewUserService(db).SetRole(args[0], args[1])
		if err != nil {
			return err
		}
		cmd.Printf("%s is now %s\n", user.Email, user.Role)
		return nil
	},
}
