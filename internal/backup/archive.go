package backup

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

const (
	keyAlgorithmPrefix = "sha256"
	snapshotSuffix     = ".db"
)

// Snapshot describes one archived database image.
type Snapshot struct {
	Key       string    `json:"key" yaml:"key"`
	SHA256    string    `json:"sha256" yaml:"sha256"`
	SizeBytes int64     `json:"sizeBytes" yaml:"size_bytes"`
	CreatedAt time.Time `json:"createdAt" yaml:"created_at"`
}

// Archive stores database snapshots. Identical images share one key.
type Archive interface {
	Put(ctx context.Context, r io.Reader) (Snapshot, error)
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
	List(ctx context.Context) ([]Snapshot, error)
}

// LocalArchive keeps snapshots in a content-addressed directory tree.
type LocalArchive struct {
	root string
}

// NewLocalArchive creates an archive rooted at root.
func NewLocalArchive(root string) (*LocalArchive, error) {
	root = strings.TrimSpace(root)
	if root == "" {
		return nil, fmt.Errorf("backup directory is required")
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Join(abs, "tmp"), 0o755); err != nil {
		return nil, err
	}
	return &LocalArchive{root: abs}, nil
}

// Root returns the absolute archive directory.
func (a *LocalArchive) Root() string {
	return a.root
}

// Put streams r into the archive under the SHA-256 of its bytes.
func (a *LocalArchive) Put(ctx context.Context, r io.Reader) (Snapshot, error) {
	var zero Snapshot
	if r == nil {
		return zero, fmt.Errorf("reader is required")
	}
	if err := ctx.Err(); err != nil {
		return zero, err
	}

	tmp, err := os.CreateTemp(filepath.Join(a.root, "tmp"), "put-*")
	if err != nil {
		return zero, err
	}
	tmpPath := tmp.Name()
	cleanup := func() {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
	}

	h := sha256.New()
	n, err := io.Copy(io.MultiWriter(tmp, h), r)
	if err != nil {
		cleanup()
		return zero, err
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return zero, err
	}

	digest := hex.EncodeToString(h.Sum(nil))
	key := keyFromDigest(digest)
	dst := filepath.Join(a.root, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		cleanup()
		return zero, err
	}

	if _, err := os.Stat(dst); err == nil {
		_ = os.Remove(tmpPath)
		// Refresh the timestamp so retention treats the image as recent.
		now := time.Now()
		_ = os.Chtimes(dst, now, now)
		return Snapshot{Key: key, SHA256: digest, SizeBytes: n, CreatedAt: now.UTC()}, nil
	} else if !errors.Is(err, os.ErrNotExist) {
		cleanup()
		return zero, err
	}

	if err := os.Rename(tmpPath, dst); err != nil {
		cleanup()
		return zero, err
	}
	info, err := os.Stat(dst)
	if err != nil {
		return zero, err
	}
	return Snapshot{Key: key, SHA256: digest, SizeBytes: n, CreatedAt: info.ModTime().UTC()}, nil
}

// Open returns a reader for one snapshot.
func (a *LocalArchive) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path, err := a.pathFromKey(key)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("snapshot %s not found", key)
	}
	return f, err
}

// Delete removes a snapshot. Missing snapshots are ignored.
func (a *LocalArchive) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	path, err := a.pathFromKey(key)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// List returns all snapshots, newest first.
func (a *LocalArchive) List(ctx context.Context) ([]Snapshot, error) {
	base := filepath.Join(a.root, keyAlgorithmPrefix)
	var out []Snapshot
	err := filepath.WalkDir(base, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, os.ErrNotExist) && path == base {
				return fs.SkipDir
			}
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), snapshotSuffix) {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		digest := strings.TrimSuffix(d.Name(), snapshotSuffix)
		out = append(out, Snapshot{
			Key:       keyFromDigest(digest),
			SHA256:    digest,
			SizeBytes: info.Size(),
			CreatedAt: info.ModTime().UTC(),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].Key < out[j].Key
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// Prune deletes all but the newest keep snapshots and returns the removed ones.
func Prune(ctx context.Context, archive Archive, keep int) ([]Snapshot, error) {
	if keep < 0 {
		return nil, fmt.Errorf("keep must be >= 0")
	}
	snapshots, err := archive.List(ctx)
	if err != nil {
		return nil, err
	}
	if len(snapshots) <= keep {
		return nil, nil
	}
	removed := snapshots[keep:]
	for _, snap := range removed {
		if err := archive.Delete(ctx, snap.Key); err != nil {
			return nil, fmt.Errorf("delete %s: %w", snap.Key, err)
		}
	}
	return removed, nil
}

func keyFromDigest(digest string) string {
	if len(digest) < 4 {
		return keyAlgorithmPrefix + "/" + digest + snapshotSuffix
	}
	return fmt.Sprintf("%s/%s/%s/%s%s", keyAlgorithmPrefix, digest[0:2], digest[2:4], digest, snapshotSuffix)
}

func (a *LocalArchive) pathFromKey(key string) (string, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return "", fmt.Errorf("snapshot key is required")
	}
	if strings.HasPrefix(key, "/") {
		return "", fmt.Errorf("snapshot key must be relative")
	}
	clean := filepath.Clean(filepath.FromSlash(key))
	if clean == "." || strings.HasPrefix(clean, "..") || strings.Contains(clean, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("invalid snapshot key")
	}
	if !strings.HasPrefix(clean, keyAlgorithmPrefix+string(filepath.Separator)) {
		return "", fmt.Errorf("invalid snapshot key")
	}
	return filepath.Join(a.root, clean), nil
}
