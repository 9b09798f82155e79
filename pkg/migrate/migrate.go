package migrate

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/pressly/goose/v3"

	"github.com/angelmondragon/retailflow-backend/pkg/logger"
)

const DefaultDir = "pkg/migrate/migrations"

// Commands accepted by Run.
const (
	CommandUp     = "up"
	CommandDown   = "down"
	CommandStatus = "status"
)

// newProvider builds a goose provider for the postgres schema in dir. SQLite
// dev databases are built by AutoMigrate instead.
func newProvider(db *sql.DB, dir string) (*goose.Provider, error) {
	if db == nil {
		return nil, fmt.Errorf("db is required")
	}
	if dir == "" {
		return nil, fmt.Errorf("dir is required")
	}
	p, err := goose.NewProvider(goose.DialectPostgres, db, os.DirFS(dir))
	if err != nil {
		return nil, fmt.Errorf("goose provider: %w", err)
	}
	return p, nil
}

// Run applies up, down or status against db and logs one line per migration.
func Run(ctx context.Context, db *sql.DB, dir string, command string, logg *logger.Logger) error {
	switch command {
	case CommandUp, CommandDown, CommandStatus:
	default:
		return fmt.Errorf("unsupported migrate command %q", command)
	}

	p, err := newProvider(db, dir)
	if err != nil {
		return err
	}

	switch command {
	case CommandUp:
		results, err := p.Up(ctx)
		if err != nil {
			return migrationError(ctx, logg, "up", err)
		}
		logResults(ctx, logg, results)
		if len(results) == 0 {
			logg.Info(ctx, "schema already up to date")
		}
		return nil

	case CommandDown:
		result, err := p.Down(ctx)
		if err != nil {
			return migrationError(ctx, logg, "down", err)
		}
		logResults(ctx, logg, []*goose.MigrationResult{result})
		return nil

	case CommandStatus:
		statuses, err := p.Status(ctx)
		if err != nil {
			return fmt.Errorf("goose status: %w", err)
		}
		for _, st := range statuses {
			fields := map[string]any{
				"version": st.Source.Version,
				"file":    st.Source.Path,
				"state":   string(st.State),
			}
			if st.State == goose.StateApplied {
				fields["applied_at"] = st.AppliedAt
			}
			logg.Info(logg.WithFields(ctx, fields), "migration status")
		}
	}
	return nil
}

// MigrateToVersion moves the schema up or down until targetVersion is the
// newest applied migration.
func MigrateToVersion(ctx context.Context, db *sql.DB, dir string, targetVersion string, logg *logger.Logger) error {
	if targetVersion == "" {
		return fmt.Errorf("targetVersion is required")
	}
	target, err := strconv.ParseInt(targetVersion, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid version %q (expected YYYYMMDDHHMMSS): %w", targetVersion, err)
	}

	p, err := newProvider(db, dir)
	if err != nil {
		return err
	}

	current, err := p.GetDBVersion(ctx)
	if err != nil {
		return fmt.Errorf("get db version: %w", err)
	}

	var results []*goose.MigrationResult
	switch {
	case current == target:
		logg.Info(logg.WithField(ctx, "version", current), "schema already at requested version")
		return nil
	case current < target:
		results, err = p.UpTo(ctx, target)
	default:
		results, err = p.DownTo(ctx, target)
	}
	if err != nil {
		return migrationError(ctx, logg, fmt.Sprintf("migrate to %d", target), err)
	}
	logResults(ctx, logg, results)
	return nil
}

// migrationError logs what a partially applied run managed before failing.
func migrationError(ctx context.Context, logg *logger.Logger, op string, err error) error {
	var partial *goose.PartialError
	if errors.As(err, &partial) {
		logResults(ctx, logg, append(partial.Applied, partial.Failed))
		if partial.Failed != nil && partial.Failed.Source != nil {
			return fmt.Errorf("goose %s: migration %d failed: %w", op, partial.Failed.Source.Version, partial.Err)
		}
	}
	return fmt.Errorf("goose %s: %w", op, err)
}

func logResults(ctx context.Context, logg *logger.Logger, results []*goose.MigrationResult) {
	for _, r := range results {
		if r == nil || r.Source == nil {
			continue
		}
		rctx := logg.WithFields(ctx, map[string]any{
			"version":     r.Source.Version,
			"file":        r.Source.Path,
			"direction":   r.Direction,
			"duration_ms": r.Duration.Milliseconds(),
		})
		if r.Error != nil {
			logg.Error(rctx, "migration failed", r.Error)
			continue
		}
		logg.Info(rctx, "migration applied")
	}
}
