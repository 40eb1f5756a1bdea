package backup

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Source writes a consistent copy of a live database to path.
type Source interface {
	SnapshotTo(ctx context.Context, path string) error
}

// Create snapshots src into archive.
func Create(ctx context.Context, src Source, archive Archive, logger *slog.Logger) (Snapshot, error) {
	if logger == nil {
		logger = slog.Default()
	}
	dir, err := os.MkdirTemp("", "kanban-snapshot-*")
	if err != nil {
		return Snapshot{}, err
	}
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, "snapshot.db")
	if err := src.SnapshotTo(ctx, path); err != nil {
		return Snapshot{}, fmt.Errorf("snapshot database: %w", err)
	}

	f, err := os.Open(path)
	if err != nil {
		return Snapshot{}, err
	}
	defer f.Close()

	snap, err := archive.Put(ctx, f)
	if err != nil {
		return Snapshot{}, fmt.Errorf("archive snapshot: %w", err)
	}
	logger.Info("database snapshot archived", "component", "backup", "key", snap.Key, "size_bytes", snap.SizeBytes)
	return snap, nil
}

// Restore copies one snapshot to dest, which must not exist yet, and checks
// the copied bytes against the snapshot digest.
func Restore(ctx context.Context, archive Archive, key, dest string) error {
	dest = strings.TrimSpace(dest)
	if dest == "" {
		return fmt.Errorf("destination path is required")
	}
	if _, err := os.Stat(dest); err == nil {
		return fmt.Errorf("destination %s already exists", dest)
	} else if !errors.Is(err, os.ErrNotExist) {
		return err
	}

	rc, err := archive.Open(ctx, key)
	if err != nil {
		return err
	}
	defer rc.Close()

	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return err
	}
	out, err := os.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return err
	}
	h := sha256.New()
	if _, err := io.Copy(io.MultiWriter(out, h), rc); err != nil {
		_ = out.Close()
		_ = os.Remove(dest)
		return err
	}
	if err := out.Close(); err != nil {
		_ = os.Remove(dest)
		return err
	}

	want := strings.TrimSuffix(filepath.Base(filepath.FromSlash(key)), snapshotSuffix)
	if got := hex.EncodeToString(h.Sum(nil)); got != want {
		_ = os.Remove(dest)
		return fmt.Errorf("snapshot %s is corrupt: digest %s", key, got)
	}
	return nil
}
