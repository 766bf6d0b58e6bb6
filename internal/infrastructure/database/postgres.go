package database

import (
	"fmt"

	"github.com/sangkips/tillsync/internal/config"
	"github.com/sangkips/tillsync/internal/domain/entity"
	applog "github.com/sangkips/tillsync/pkg/logger"
	"github.com/sangkips/tillsync/pkg/utils"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewPostgresDB creates the gorm handle for the remote store. No connection is
// made here so the till starts while offline; the first query or ping dials.
func NewPostgresDB(cfg *config.DatabaseConfig, debug bool) (*gorm.DB, error) {
	logLevel := logger.Warn
	if debug {
		logLevel = logger.Info
	}

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  cfg.DSN(),
		PreferSimpleProtocol: true, // disables implicit prepared statement usage
	}), &gorm.Config{
		Logger:               logger.Default.LogMode(logLevel),
		DisableAutomaticPing: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	sqlDB.SetMaxIdleConns(2)
	sqlDB.SetMaxOpenConns(10)

	return db, nil
}

// invoiceNumberFunction numbers invoices per user as INV-00001, INV-00002, ...
const invoiceNumberFunction = `
CREATE OR REPLACE FUNCTION generate_invoice_number(p_user_id uuid)
RETURNS text AS $$
DECLARE
	next_no integer;
BEGIN
	SELECT COUNT(*) + 1 INTO next_no FROM invoices WHERE user_id = p_user_id;
	RETURN 'INV-' || LPAD(next_no::text, 5, '0');
END;
$$ LANGUAGE plpgsql;`

// AutoMigrate creates the remote tables and the invoice number function.
func AutoMigrate(db *gorm.DB, log applog.ZapLogger) error {
	log.Info("Running database migrations...")

	err := db.AutoMigrate(
		&entity.User{},
		&entity.Client{},
		&entity.Invoice{},
		&entity.InvoiceLineItem{},
		&entity.CompanySettings{},
	)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	if err := db.Exec(invoiceNumberFunction).Error; err != nil {
		return fmt.Errorf("failed to create generate_invoice_number: %w", err)
	}

	log.Info("Database migrations completed successfully", zap.String("database", db.Migrator().CurrentDatabase()))
	return nil
}

// SeedDefaultUser creates the till account from configuration when it does
// not exist yet. Empty email or password skips seeding.
func SeedDefaultUser(db *gorm.DB, cfg *config.SeedConfig, log applog.ZapLogger) error {
	if cfg.Email == "" || cfg.Password == "" {
		return nil
	}

	var existing entity.User
	if err := db.Where("email = ?", cfg.Email).First(&existing).Error; err == nil {
		log.Info("Till user already exists", zap.String("email", cfg.Email))
		return nil
	}

	hashedPassword, err := utils.HashPassword(cfg.Password)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	name := cfg.Name
	if name == "" {
		name = "Till Operator"
	}
	user := entity.User{
		Name:     name,
		Email:    cfg.Email,
		Password: hashedPassword,
	}
	if err := db.Create(&user).Error; err != nil {
		return fmt.Errorf("failed to create till user: %w", err)
	}

	log.Info("Till user created", zap.String("email", cfg.Email))
	return nil
}
