// Package backup is the recovery store: it preserves the untouched original
// before any commit, names the cleaned and deleted-entries outputs, can merge
// them back together (undo), and lists what is recoverable for one export.
package backup

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/adigandhi/BitVault-Pass-cleaner/internal/vault"
)

const (
	cleanedSuffix = "_cleaned"
	deletedSuffix = "_deleted_entries"
	backupInfix   = "_backup_"
	stampLayout   = "20060102_150405"
)

// Store persists recovery artifacts next to the export they belong to.
type Store struct {
	Log zerolog.Logger
}

// CleanedPath is where the kept rows of path are written.
func CleanedPath(path string) string {
	base, ext := splitExt(path)
	return base + cleanedSuffix + ext
}

// DeletedPath is where the removed rows of path are written.
func DeletedPath(path string) string {
	base, ext := splitExt(path)
	return base + deletedSuffix + ext
}

// BackupOriginal copies the untouched export to a timestamped sibling file
// and returns its path. It runs before any decision is committed so a failed
// or regretted run can always be rolled back.
func (s *Store) BackupOriginal(path string) (string, error) {
	base, ext := splitExt(path)
	dst := fmt.Sprintf("%s%s%s%s", base, backupInfix, time.Now().Format(stampLayout), ext)

	if err := copyFile(path, dst); err != nil {
		return "", fmt.Errorf("backup %s: %w", path, err)
	}
	s.Log.Info().Str("backup", dst).Msg("original export backed up")
	return dst, nil
}

// Undo merges a kept table and a deleted-entries table back into one
// dataset: schema validation plus append. The deleted rows carry their
// original content, so the union holds every pre-cleaning entry.
func Undo(keptPath, deletedPath string) (*vault.Dataset, error) {
	kept, err := vault.Load(keptPath)
	if err != nil {
		return nil, err
	}
	deleted, err := vault.Load(deletedPath)
	if err != nil {
		return nil, err
	}
	if !kept.Schema.Equal(deleted.Schema) {
		return nil, fmt.Errorf("schema mismatch: %s and %s do not come from the same export", keptPath, deletedPath)
	}
	kept.Append(deleted)
	return kept, nil
}

// Entry describes one recoverable artifact.
type Entry struct {
	Path     string
	Kind     string // backup, cleaned, deleted
	Size     int64
	Modified time.Time
}

// List returns the recovery artifacts that exist next to an export, newest
// first.
func List(path string) ([]Entry, error) {
	base, ext := splitExt(path)
	dir := filepath.Dir(path)
	items, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("list backups of %s: %w", path, err)
	}

	prefix := filepath.Base(base)
	var entries []Entry
	for _, item := range items {
		if item.IsDir() {
			continue
		}
		name := item.Name()
		if !strings.HasPrefix(name, prefix) || !strings.HasSuffix(name, ext) {
			continue
		}
		stem := strings.TrimSuffix(strings.TrimPrefix(name, prefix), ext)
		var kind string
		switch {
		case strings.HasPrefix(stem, backupInfix):
			kind = "backup"
		case stem == cleanedSuffix:
			kind = "cleaned"
		case stem == deletedSuffix:
			kind = "deleted"
		default:
			continue
		}
		info, err := item.Info()
		if err != nil {
			continue
		}
		entries = append(entries, Entry{
			Path:     filepath.Join(dir, name),
			Kind:     kind,
			Size:     info.Size(),
			Modified: info.ModTime(),
		})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Modified.After(entries[j].Modified) })
	return entries, nil
}

func splitExt(path string) (base, ext string) {
	ext = filepath.Ext(path)
	if ext == "" {
		ext = ".csv"
		return path, ext
	}
	return strings.TrimSuffix(path, ext), ext
}

// copyFile writes dst atomically so a failed copy never leaves a truncated
// backup behind.
func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	tmp, err := os.CreateTemp(filepath.Dir(dst), "."+filepath.Base(dst)+".tmp-")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := io.Copy(tmp, in); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, dst); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}
