package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/crm/backend/internal/infrastructure/config"
	"github.com/crm/backend/internal/infrastructure/persistence/models"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const connectTimeout = 10 * time.Second

// Database is the GORM handle of the CRM store together with its pool
type Database struct {
	DB     *gorm.DB
	Driver string
	pool   *sql.DB
}

// NewDatabase connects without statement logging
func NewDatabase(cfg *config.DatabaseConfig) (*Database, error) {
	return NewDatabaseWithLogger(cfg, logger.Default.LogMode(logger.Silent))
}

// NewDatabaseWithLogger connects, sizes the pool and waits for the first ping
func NewDatabaseWithLogger(cfg *config.DatabaseConfig, gormLogger logger.Interface) (*Database, error) {
	dialector, err := dialectorFor(cfg)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:                 gormLogger,
		SkipDefaultTransaction: true,
		PrepareStmt:            cfg.Driver != config.DriverSQLite,
		TranslateError:         true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	pool, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	configurePool(pool, cfg)

	d := &Database{DB: db, Driver: cfg.Driver, pool: pool}
	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()
	if err := d.Ping(ctx); err != nil {
		_ = pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return d, nil
}

func configurePool(pool *sql.DB, cfg *config.DatabaseConfig) {
	if cfg.Driver == config.DriverSQLite {
		// one writer; concurrent requests would otherwise hit SQLITE_BUSY
		pool.SetMaxOpenConns(1)
	} else {
		pool.SetMaxOpenConns(cfg.MaxOpenConns)
		pool.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	pool.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetime) * time.Minute)
	pool.SetConnMaxIdleTime(time.Duration(cfg.ConnMaxIdleTime) * time.Minute)
}

func dialectorFor(cfg *config.DatabaseConfig) (gorm.Dialector, error) {
	switch cfg.Driver {
	case config.DriverPostgres, "":
		return postgres.Open(cfg.DSN()), nil
	case config.DriverSQLite:
		return sqlite.Open(cfg.SQLitePath + "?_foreign_keys=on"), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

// SQL returns the connection pool, e.g. for migrations and pool metrics
func (d *Database) SQL() *sql.DB {
	return d.pool
}

// Ping checks the connection; it backs the readiness probe
func (d *Database) Ping(ctx context.Context) error {
	return d.pool.PingContext(ctx)
}

// Close closes the pool
func (d *Database) Close() error {
	return d.pool.Close()
}

// AutoMigrate creates the schema from the GORM models. It is used for the
// sqlite driver; postgres deployments run migrations/ through cmd/migrate.
func (d *Database) AutoMigrate() error {
	return d.DB.AutoMigrate(
		&models.PartnerModel{},
		&models.ContactModel{},
		&models.ApplicationTypeModel{},
		&models.QuoteRequestModel{},
		&models.OfferModel{},
		&models.AdminSettingsModel{},
	)
}
