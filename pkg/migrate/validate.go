package migrate

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"go.uber.org/multierr"

	"github.com/angelmondragon/retailflow-backend/pkg/db/models"
)

var (
	sqlFileRe     = regexp.MustCompile(`^(\d{14})_[a-z0-9_]+\.sql$`)
	createTableRe = regexp.MustCompile(`(?i)CREATE TABLE IF NOT EXISTS\s+(\w+)`)
	dropTableRe   = regexp.MustCompile(`(?i)DROP TABLE IF EXISTS\s+(\w+)`)
	uniqueNameRe  = regexp.MustCompile(`(?i)CONSTRAINT\s+(\w+)\s+UNIQUE`)
)

const (
	upMarker   = "-- +goose Up"
	downMarker = "-- +goose Down"
)

// migrationFile is one parsed goose SQL file split at its Down marker.
type migrationFile struct {
	name string
	up   string
	down string
}

// ValidateDir checks every SQL migration in dir against the schema
// conventions the error dumps rely on: unique constraints are named
// uq_<table>_<column> and every created table is dropped again on Down.
func ValidateDir(dir string) error {
	files, err := readMigrations(dir)
	if err != nil {
		return err
	}

	created := createdTables(files)

	var errs error
	for _, f := range files {
		errs = multierr.Append(errs, checkDropped(f))
		errs = multierr.Append(errs, checkUniqueNames(f, created))
	}
	return errs
}

// CheckModelCoverage reports model tables that no migration in dir creates.
func CheckModelCoverage(dir string) error {
	files, err := readMigrations(dir)
	if err != nil {
		return err
	}

	created := createdTables(files)

	var missing []string
	for _, m := range models.All() {
		named, ok := m.(interface{ TableName() string })
		if !ok {
			continue
		}
		if !created[named.TableName()] {
			missing = append(missing, named.TableName())
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return fmt.Errorf("no migration creates tables: %s", strings.Join(missing, ", "))
	}
	return nil
}

func createdTables(files []migrationFile) map[string]bool {
	created := map[string]bool{}
	for _, f := range files {
		for _, m := range createTableRe.FindAllStringSubmatch(f.up, -1) {
			created[strings.ToLower(m[1])] = true
		}
	}
	return created
}

func readMigrations(dir string) ([]migrationFile, error) {
	if dir == "" {
		return nil, fmt.Errorf("dir is required")
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read dir %q: %w", dir, err)
	}

	seen := map[string]string{}
	var files []migrationFile
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".sql") {
			continue
		}
		name := e.Name()

		m := sqlFileRe.FindStringSubmatch(name)
		if m == nil {
			return nil, fmt.Errorf("invalid migration filename %q (expected YYYYMMDDHHMMSS_name.sql)", name)
		}
		if prev, ok := seen[m[1]]; ok {
			return nil, fmt.Errorf("duplicate migration version %s in %q and %q", m[1], prev, name)
		}
		seen[m[1]] = name

		b, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("read file %q: %w", name, err)
		}
		txt := string(b)

		upAt := strings.Index(txt, upMarker)
		downAt := strings.Index(txt, downMarker)
		switch {
		case upAt < 0:
			return nil, fmt.Errorf("migration %q missing %q", name, upMarker)
		case downAt < 0:
			return nil, fmt.Errorf("migration %q missing %q", name, downMarker)
		case downAt < upAt:
			return nil, fmt.Errorf("migration %q has its Down section before Up", name)
		}

		files = append(files, migrationFile{
			name: name,
			up:   txt[upAt:downAt],
			down: txt[downAt:],
		})
	}
	return files, nil
}

func checkDropped(f migrationFile) error {
	dropped := map[string]bool{}
	for _, m := range dropTableRe.FindAllStringSubmatch(f.down, -1) {
		dropped[strings.ToLower(m[1])] = true
	}

	var errs error
	for _, m := range createTableRe.FindAllStringSubmatch(f.up, -1) {
		table := strings.ToLower(m[1])
		if !dropped[table] {
			errs = multierr.Append(errs, fmt.Errorf("migration %q creates %s but its Down section never drops it", f.name, table))
		}
	}
	return errs
}

func checkUniqueNames(f migrationFile, tables map[string]bool) error {
	var errs error
	for _, m := range uniqueNameRe.FindAllStringSubmatch(f.up, -1) {
		constraint := strings.ToLower(m[1])
		if !strings.HasPrefix(constraint, "uq_") || !prefixedByTable(strings.TrimPrefix(constraint, "uq_"), tables) {
			errs = multierr.Append(errs, fmt.Errorf("migration %q: unique constraint %s must be named uq_<table>_<column>", f.name, constraint))
		}
	}
	return errs
}

func prefixedByTable(name string, tables map[string]bool) bool {
	for t := range tables {
		if strings.HasPrefix(name, t+"_") {
			return true
		}
	}
	return false
}
