package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"kanban/internal/api"
	"kanban/internal/auth"
	"kanban/internal/config"
)

func readPassword(cmd *cobra.Command) (string, error) {
	raw, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return "", err
	}
	password := strings.TrimRight(string(raw), "\r\n")
	if password == "" {
		return "", fmt.Errorf("password is required on stdin")
	}
	return password, nil
}

func newLoginCmd(cfg *config.Config, out *output) *cobra.Command {
	var passwordStdin bool

	cmd := &cobra.Command{
		Use:   "login <username>",
		Short: "Open a session and print its token",
		Args:  requireExactlyArgs(1, "username is required"),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !passwordStdin {
				return fmt.Errorf("--password-stdin is required")
			}
			username, err := auth.NormalizeUsername(args[0])
			if err != nil {
				return err
			}
			password, err := readPassword(cmd)
			if err != nil {
				return err
			}

			return withClient(cfg, func(client *api.Client) error {
				resp, err := client.Login(cmd.Context(), api.LoginRequest{Username: username, Password: password})
				if err != nil {
					return err
				}
				if out.structured() {
					return out.write(resp)
				}
				_ = out.plain("logged in as %s (%s)\n", resp.User.Username, resp.User.Role)
				_ = out.plain("session expires %s\n", formatTime(resp.ExpiresAt))
				return out.plain("export KANBAN_API_TOKEN=%s\n", resp.Token)
			})
		},
	}

	cmd.Flags().BoolVar(&passwordStdin, "password-stdin", false, "read password from stdin")
	return cmd
}

func newLogoutCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Revoke the session in KANBAN_API_TOKEN",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cfg, func(client *api.Client) error {
				return client.Logout(cmd.Context())
			})
		},
	}
}

func newWhoamiCmd(cfg *config.Config, out *output) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the user behind KANBAN_API_TOKEN",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cfg, func(client *api.Client) error {
				user, err := client.Me(cmd.Context())
				if err != nil {
					return err
				}
				if out.structured() {
					return out.write(user)
				}
				return out.plain("%s (%s, %s) %s\n", user.Username, user.Role, user.ExperienceLevel, user.ID)
			})
		},
	}
}
