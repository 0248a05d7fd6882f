package projects

import (
	"bytes"
	"context"
	"crypto/sha256"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"
)

// BackupTo snapshots the database file into dir before a destructive
// operation. The WAL is checkpointed first so the copy is self-contained.
// Returns the path of the written snapshot.
func (s *Store) BackupTo(ctx context.Context, dir string) (string, error) {
	if _, err := s.db.ExecContext(ctx, `PRAGMA wal_checkpoint(TRUNCATE)`); err != nil {
		return "", fmt.Errorf("checkpoint wal: %w", err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create backup directory: %w", err)
	}

	target := filepath.Join(dir, fmt.Sprintf("projects-%s.db", time.Now().UTC().Format("20060102T150405")))
	if err := copyFileVerified(s.path, target); err != nil {
		return "", fmt.Errorf("backup database: %w", err)
	}
	return target, nil
}

// copyFileVerified streams src to dst and re-reads both, comparing sizes and
// SHA-256 digests. dst is removed on mismatch.
func copyFileVerified(src, dst string) error {
	srcInfo, err := os.Stat(src)
	if err != nil {
		return err
	}

	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		_ = os.Remove(dst)
		return err
	}
	if err := out.Close(); err != nil {
		_ = os.Remove(dst)
		return err
	}

	dstInfo, err := os.Stat(dst)
	if err != nil {
		return err
	}
	if dstInfo.Size() != srcInfo.Size() {
		_ = os.Remove(dst)
		return fmt.Errorf("size mismatch after copy: %d != %d", dstInfo.Size(), srcInfo.Size())
	}

	srcSum, err := fileChecksum(src)
	if err != nil {
		return err
	}
	dstSum, err := fileChecksum(dst)
	if err != nil {
		return err
	}
	if !bytes.Equal(srcSum, dstSum) {
		_ = os.Remove(dst)
		return fmt.Errorf("checksum mismatch after copy")
	}
	return nil
}

func fileChecksum(path string) ([]byte, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	hash := sha256.New()
	if _, err := io.Copy(hash, file); err != nil {
		return nil, err
	}
	return hash.Sum(nil), nil
}
