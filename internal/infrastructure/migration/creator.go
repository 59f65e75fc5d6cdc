package migration

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

var (
	invalidNameChars = regexp.MustCompile(`[^a-z0-9_]+`)
	underscoreRuns   = regexp.MustCompile(`_+`)
)

// MigrationFile is a created up/down migration pair
type MigrationFile struct {
	Version  string
	UpPath   string
	DownPath string
}

// CreateMigration writes an empty up/down migration pair named after the
// current timestamp so files sort in creation order
func CreateMigration(dir, name string) (*MigrationFile, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("migration name is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create migrations directory: %w", err)
	}

	version := time.Now().UTC().Format("20060102150405")
	base := fmt.Sprintf("%s_%s", version, sanitizeName(name))

	mf := &MigrationFile{
		Version:  version,
		UpPath:   filepath.Join(dir, base+".up.sql"),
		DownPath: filepath.Join(dir, base+".down.sql"),
	}

	header := fmt.Sprintf("-- %s\n\n", name)
	if err := writeNewFile(mf.UpPath, header); err != nil {
		return nil, err
	}
	if err := writeNewFile(mf.DownPath, header); err != nil {
		_ = os.Remove(mf.UpPath)
		return nil, err
	}
	return mf, nil
}

func sanitizeName(name string) string {
	cleaned := strings.ToLower(strings.TrimSpace(name))
	cleaned = invalidNameChars.ReplaceAllString(cleaned, "_")
	cleaned = underscoreRuns.ReplaceAllString(cleaned, "_")
	return strings.Trim(cleaned, "_")
}

func writeNewFile(path, content string) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()
	if _, err := f.WriteString(content); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
