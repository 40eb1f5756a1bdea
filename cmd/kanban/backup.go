package main

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"kanban/internal/backup"
	"kanban/internal/config"
	"kanban/internal/store"
)

func newBackupCmd(cfg *config.Config, out *output) *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Snapshot, list, prune and restore database backups",
	}
	cmd.PersistentFlags().StringVar(&dir, "dir", "", "backup directory (default: .kanban-backups next to the database)")

	openArchive := func() (*backup.LocalArchive, error) {
		root := dir
		if root == "" {
			if cfg.DBPath == "" {
				return nil, fmt.Errorf("db path is required")
			}
			root = filepath.Join(filepath.Dir(cfg.DBPath), ".kanban-backups")
		}
		return backup.NewLocalArchive(root)
	}

	cmd.AddCommand(
		newBackupCreateCmd(cfg, out, openArchive),
		newBackupListCmd(out, openArchive),
		newBackupPruneCmd(out, openArchive),
		newBackupRestoreCmd(out, openArchive),
	)
	return cmd
}

type archiveOpener func() (*backup.LocalArchive, error)

func newBackupCreateCmd(cfg *config.Config, out *output, openArchive archiveOpener) *cobra.Command {
	return &cobra.Command{
		Use:   "create",
		Short: "Archive a snapshot of the database",
		RunE: func(cmd *cobra.Command, args []string) error {
			archive, err := openArchive()
			if err != nil {
				return err
			}
			st, err := store.Open(cfg.DBPath)
			if err != nil {
				return err
			}
			defer st.Close()

			snap, err := backup.Create(cmd.Context(), st, archive, slog.Default())
			if err != nil {
				return err
			}
			if out.structured() {
				return out.write(snap)
			}
			return out.plain("archived %s (%d bytes)\n", snap.Key, snap.SizeBytes)
		},
	}
}

func newBackupListCmd(out *output, openArchive archiveOpener) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List archived snapshots, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			archive, err := openArchive()
			if err != nil {
				return err
			}
			snapshots, err := archive.List(cmd.Context())
			if err != nil {
				return err
			}
			if out.structured() {
				return out.write(snapshots)
			}
			if len(snapshots) == 0 {
				return out.plain("no snapshots in %s\n", archive.Root())
			}
			tw := tabwriter.NewWriter(out.writer(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "CREATED\tSIZE\tKEY")
			for _, snap := range snapshots {
				fmt.Fprintf(tw, "%s\t%d\t%s\n", formatTime(snap.CreatedAt), snap.SizeBytes, snap.Key)
			}
			return tw.Flush()
		},
	}
}

func newBackupPruneCmd(out *output, openArchive archiveOpener) *cobra.Command {
	var keep int

	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Delete all but the newest snapshots",
		RunE: func(cmd *cobra.Command, args []string) error {
			archive, err := openArchive()
			if err != nil {
				return err
			}
			removed, err := backup.Prune(cmd.Context(), archive, keep)
			if err != nil {
				return err
			}
			if out.structured() {
				return out.write(removed)
			}
			return out.plain("removed %d snapshots\n", len(removed))
		},
	}

	cmd.Flags().IntVar(&keep, "keep", 5, "number of snapshots to keep")
	return cmd
}

func newBackupRestoreCmd(out *output, openArchive archiveOpener) *cobra.Command {
	return &cobra.Command{
		Use:   "restore <key> <dest>",
		Short: "Copy a snapshot to a new database file",
		Args:  requireExactlyArgs(2, "key and destination are required"),
		RunE: func(cmd *cobra.Command, args []string) error {
			archive, err := openArchive()
			if err != nil {
				return err
			}
			if err := backup.Restore(cmd.Context(), archive, args[0], args[1]); err != nil {
				return err
			}
			return out.plain("restored %s to %s\n", args[0], args[1])
		},
	}
}
