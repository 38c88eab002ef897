// Package migrations provides SQL schema migration loading and execution.
package migrations

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Migration represents a database migration file.
type Migration struct {
	Version   string
	Name      string
	Direction string // "up" or "down"
	FilePath  string
}

// String returns the migration identifier.
func (m Migration) String() string {
	return fmt.Sprintf("%s_%s.%s.sql", m.Version, m.Name, m.Direction)
}

// LoadFromDir loads migrations of one direction from a directory.
// Filenames follow the pattern 000001_users.up.sql.
func LoadFromDir(dir, direction string) ([]Migration, error) {
	var migrations []Migration

	suffix := fmt.Sprintf(".%s.sql", direction)

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, suffix) {
			return nil
		}

		baseName := strings.TrimSuffix(filepath.Base(path), suffix)
		parts := strings.SplitN(baseName, "_", 2)
		if len(parts) != 2 {
			return nil // skip files that don't match the naming scheme
		}

		migrations = append(migrations, Migration{
			Version:   parts[0],
			Name:      parts[1],
			Direction: direction,
			FilePath:  path,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(migrations, func(i, j int) bool {
		return migrations[i].Version < migrations[j].Version
	})
	return migrations, nil
}

// ReadContent reads the content of a migration file.
func ReadContent(m Migration) ([]byte, error) {
	return os.ReadFile(m.FilePath)
}

// Versions returns the versions of a migration list.
func Versions(migrations []Migration) []string {
	versions := make([]string, len(migrations))
	for i, m := range migrations {
		versions[i] = m.Version
	}
	return versions
}
