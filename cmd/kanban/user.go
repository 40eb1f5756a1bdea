package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"kanban/internal/api"
	"kanban/internal/config"
	"kanban/internal/service"
	"kanban/internal/store"
)

func newUserCmd(cfg *config.Config, out *output) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage board members",
	}
	cmd.AddCommand(newUserAddCmd(cfg, out))
	cmd.AddCommand(newUserListCmd(cfg, out))
	return cmd
}

// newUserAddCmd writes straight to the database so the first manager can be
// created before anyone is able to log in.
func newUserAddCmd(cfg *config.Config, out *output) *cobra.Command {
	var (
		in            service.CreateUserInput
		passwordStdin bool
	)

	cmd := &cobra.Command{
		Use:   "add <username>",
		Short: "Create one user in the local database",
		Args:  requireExactlyArgs(1, "username is required"),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !passwordStdin {
				return fmt.Errorf("--password-stdin is required")
			}
			if cfg.DBPath == "" {
				return fmt.Errorf("db path is required")
			}
			password, err := readPassword(cmd)
			if err != nil {
				return err
			}
			in.Username = args[0]
			in.Password = password
			if in.Name == "" {
				in.Name = args[0]
			}

			st, err := store.Open(cfg.DBPath)
			if err != nil {
				return err
			}
			defer st.Close()

			created, err := service.NewUserService(st, nil, slog.Default()).CreateUser(cmd.Context(), in)
			if err != nil {
				return err
			}
			user := api.NewUser(*created)
			if out.structured() {
				return out.write(user)
			}
			return out.plain("created %s %s (%s)\n", user.Role, user.Username, user.ID)
		},
	}

	cmd.Flags().BoolVar(&passwordStdin, "password-stdin", false, "read password from stdin")
	cmd.Flags().StringVar(&in.Name, "name", "", "display name (default: username)")
	cmd.Flags().StringVar(&in.Role, "role", "DEVELOPER", "MANAGER or DEVELOPER")
	cmd.Flags().StringVar(&in.ExperienceLevel, "level", "JUNIOR", "JUNIOR, MID or SENIOR")
	cmd.Flags().StringVar(&in.Department, "department", "", "department")
	cmd.Flags().StringVar(&in.ManagerID, "manager-id", "", "id of the reporting manager")
	cmd.Flags().StringVar(&in.AvatarURL, "avatar-url", "", "avatar image URL")
	return cmd
}

func newUserListCmd(cfg *config.Config, out *output) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List board members",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cfg, func(client *api.Client) error {
				users, err := client.ListUsers(cmd.Context())
				if err != nil {
					return err
				}
				if out.structured() {
					return out.write(users)
				}
				return out.userList(users)
			})
		},
	}
}
