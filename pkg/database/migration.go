package database

import (
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// MigrationConfig controls how schema migrations run at startup.
type MigrationConfig struct {
	MigrationFolderPath string
	Version             uint // 0 means latest
	Force               int  // non-zero forces the schema version before migrating
	AutoRollback        bool // revert a dirty database to its previous version on failure
}

// migrationLogger adapts zap to the migrate.Logger interface.
type migrationLogger struct {
	sugar *zap.SugaredLogger
}

func (l migrationLogger) Verbose() bool { return true }

func (l migrationLogger) Printf(format string, v ...any) {
	l.sugar.Infof(strings.TrimSpace(format), v...)
}

// MigrationService applies file-based migrations against a live database
// handle, with optional forced versions and dirty-state rollback.
type MigrationService struct {
	config *MigrationConfig
	logger *zap.Logger
}

// NewMigrationService creates the service.
func NewMigrationService(logger *zap.Logger, config *MigrationConfig) *MigrationService {
	return &MigrationService{config: config, logger: logger}
}

// resolveMigrationFolder tries the configured path as-is, then relative to
// the working directory.
func (ms *MigrationService) resolveMigrationFolder() string {
	folder := ms.config.MigrationFolderPath
	if _, err := os.Stat(folder); err == nil {
		return folder
	}
	wd, _ := os.Getwd()
	return filepath.Join(wd, folder)
}

// Migrate runs pending migrations against the given driver instance.
func (ms *MigrationService) Migrate(databaseName string, driver database.Driver) error {
	folder := ms.resolveMigrationFolder()
	if _, err := os.Stat(folder); err != nil {
		return errors.Wrapf(err, "migration folder %s does not exist", folder)
	}

	m, err := migrate.NewWithDatabaseInstance("file://"+folder, databaseName, driver)
	if err != nil {
		return errors.Wrap(err, "create migrate instance")
	}
	m.Log = migrationLogger{sugar: ms.logger.Sugar()}

	return ms.run(m, folder)
}

func (ms *MigrationService) run(m *migrate.Migrate, folder string) error {
	if ms.config.Force != 0 {
		if err := m.Force(ms.config.Force); err != nil {
			return errors.Wrapf(err, "force schema version %d", ms.config.Force)
		}
	}

	previous, _, err := m.Version()
	if err != nil && err != migrate.ErrNilVersion {
		ms.logger.Warn("could not read current schema version", zap.Error(err))
	}

	start := time.Now()
	if ms.config.Version != 0 {
		err = m.Migrate(ms.config.Version)
	} else {
		err = m.Up()
	}
	ms.logger.Info("migrations finished", zap.Duration("elapsed", time.Since(start)))

	return ms.handleResult(m, folder, err, previous)
}

func (ms *MigrationService) handleResult(m *migrate.Migrate, folder string, err error, previous uint) error {
	switch {
	case err == nil:
		ms.logger.Info("migrations applied")
		return nil
	case err == migrate.ErrNoChange:
		ms.logger.Info("schema already up to date")
		return nil
	}

	// "no migration found for version N" happens after a release rollback
	// removed migration files the database had already applied. Pin the
	// schema to the newest file we do have and carry on.
	if strings.Contains(err.Error(), "no migration found for version") {
		latest, latestErr := latestFileVersion(folder)
		if latestErr != nil {
			return errors.Wrap(err, "recover from missing migration")
		}
		ms.logger.Warn("schema version has no matching file, pinning to latest",
			zap.Uint("schema_version", previous), zap.Int("latest_file", latest))
		return m.Force(latest)
	}

	version, dirty, versionErr := m.Version()
	if versionErr != nil && versionErr != migrate.ErrNilVersion {
		ms.logger.Warn("could not read schema version after failure", zap.Error(versionErr))
		return err
	}

	if ms.config.AutoRollback && dirty {
		if previous == 0 && version > 0 {
			previous = version - 1
		}
		ms.logger.Warn("database dirty after failed migration, reverting",
			zap.Uint("dirty_version", version), zap.Uint("revert_to", previous), zap.Error(err))
		if forceErr := m.Force(int(previous)); forceErr != nil {
			return errors.Wrapf(forceErr, "revert to version %d", previous)
		}
		// The revert succeeded but startup must still fail: the migration
		// itself is broken.
		return err
	}

	ms.logger.Error("migrations failed",
		zap.Bool("dirty", dirty), zap.Uint("version", version), zap.Error(err))
	return err
}

var migrationFileRe = regexp.MustCompile(`^(\d+)_.*\.up\.sql$`)

// latestFileVersion finds the highest-numbered up migration in the folder.
func latestFileVersion(folder string) (int, error) {
	files, err := os.ReadDir(folder)
	if err != nil {
		return 0, err
	}

	var versions []int
	for _, file := range files {
		if file.IsDir() {
			continue
		}
		if matches := migrationFileRe.FindStringSubmatch(file.Name()); len(matches) > 1 {
			v, err := strconv.Atoi(matches[1])
			if err != nil {
				return 0, err
			}
			versions = append(versions, v)
		}
	}
	if len(versions) == 0 {
		return 0, errors.New("no migration files found")
	}
	sort.Ints(versions)
	return versions[len(versions)-1], nil
}
