package database

import (
	"fmt"
	"os"

	"hotel-booking/logger"
	"hotel-booking/models/booking"
	"hotel-booking/models/invoice"
	"hotel-booking/models/log"
	"hotel-booking/models/payment"
	"hotel-booking/models/room"
	"hotel-booking/models/user"
	"hotel-booking/models/waitlist"

	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

// InitDB initializes the database connection with auto migration and indexing
func InitDB() (*gorm.DB, error) {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		logger.Error("Error loading .env file", err)
	}

	// Get database configuration from environment variables
	host := os.Getenv("DB_HOST")
	port := os.Getenv("DB_PORT")
	database := os.Getenv("DB_DATABASE")
	username := os.Getenv("DB_USERNAME")
	password := os.Getenv("DB_PASSWORD")
	sslmode := os.Getenv("DB_SSLMODE") // Optional: "disable", "require", etc.

	// Set default sslmode if not provided
	if sslmode == "" {
		sslmode = "disable"
	}

	// Build PostgreSQL DSN string
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		host, port, username, password, database, sslmode)

	var err error
	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		logger.Error("Failed to connect to the database", err)
		return nil, err
	}
	logger.Success("Successfully connected to the database")

	if err := autoMigrate(); err != nil {
		logger.Error("Failed to run migrations", err)
		return nil, err
	}
	logger.Success("All migrations completed successfully")

	// Handle foreign key constraints after migrations
	if err := createForeignKeyConstraints(); err != nil {
		logger.Error("Failed to create foreign key constraints", err)
		return nil, err
	}
	logger.Success("All foreign key constraints created successfully")

	// Create indexes for better performance
	if err := createIndexes(); err != nil {
		logger.Error("Failed to create indexes", err)
		return nil, err
	}
	logger.Success("All indexes created successfully")

	return DB, nil
}

// autoMigrate runs auto migration for all models
func autoMigrate() error {
	// Stage 1: Core foundation models with no inter-model dependencies
	stage1Models := []interface{}{
		&user.User{},
		&room.RoomType{},
	}

	for _, model := range stage1Models {
		if err := DB.AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to migrate %T: %w", model, err)
		}
	}

	// Stage 2: Models depending on Stage 1
	stage2Models := []interface{}{
		&room.RoomUnit{},
		&booking.Booking{},
		&waitlist.Entry{},
	}

	for _, model := range stage2Models {
		if err := DB.AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to migrate %T: %w", model, err)
		}
	}

	// Stage 3: Models depending on bookings
	stage3Models := []interface{}{
		&booking.AddOn{},
		&booking.BookingStatusEvent{},
		&invoice.Invoice{},
	}

	for _, model := range stage3Models {
		if err := DB.AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to migrate %T: %w", model, err)
		}
	}

	// Stage 4: Remaining models
	remainingModels := []interface{}{
		&invoice.LineItem{},
		&payment.Payment{},
		&log.Log{},
	}

	for _, model := range remainingModels {
		if err := DB.AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to migrate %T: %w", model, err)
		}
	}

	return nil
}

// createIndexes creates additional indexes for better performance
func createIndexes() error {
	// User indexes
	if err := DB.Exec("CREATE INDEX IF NOT EXISTS idx_users_uuid ON users(uuid)").Error; err != nil {
		return fmt.Errorf("failed to create user uuid index: %w", err)
	}
	if err := DB.Exec("CREATE INDEX IF NOT EXISTS idx_users_username ON users(username)").Error; err != nil {
		return fmt.Errorf("failed to create user username index: %w", err)
	}

	// Room unit indexes
	if err := DB.Exec("CREATE INDEX IF NOT EXISTS idx_room_units_room_type_id ON room_units(room_type_id)").Error; err != nil {
		return fmt.Errorf("failed to create room unit room_type_id index: %w", err)
	}
	if err := DB.Exec("CREATE INDEX IF NOT EXISTS idx_room_units_status ON room_units(status)").Error; err != nil {
		return fmt.Errorf("failed to create room unit status index: %w", err)
	}

	// Booking indexes. The overlap query filters on unit, stay window and
	// status together, so a composite index carries the availability scan.
	if err := DB.Exec("CREATE INDEX IF NOT EXISTS idx_bookings_code ON bookings(code)").Error; err != nil {
		return fmt.Errorf("failed to create booking code index: %w", err)
	}
	if err := DB.Exec("CREATE INDEX IF NOT EXISTS idx_bookings_status ON bookings(status)").Error; err != nil {
		return fmt.Errorf("failed to create booking status index: %w", err)
	}
	if err := DB.Exec("CREATE INDEX IF NOT EXISTS idx_bookings_unit_stay ON bookings(room_unit_id, check_in, check_out)").Error; err != nil {
		return fmt.Errorf("failed to create booking unit stay index: %w", err)
	}
	if err := DB.Exec("CREATE INDEX IF NOT EXISTS idx_bookings_created_at ON bookings(created_at)").Error; err != nil {
		return fmt.Errorf("failed to create booking created_at index: %w", err)
	}

	// Invoice indexes
	if err := DB.Exec("CREATE INDEX IF NOT EXISTS idx_invoices_booking_id ON invoices(booking_id)").Error; err != nil {
		return fmt.Errorf("failed to create invoice booking_id index: %w", err)
	}
	if err := DB.Exec("CREATE INDEX IF NOT EXISTS idx_invoices_status ON invoices(status)").Error; err != nil {
		return fmt.Errorf("failed to create invoice status index: %w", err)
	}

	// Payment indexes
	if err := DB.Exec("CREATE INDEX IF NOT EXISTS idx_payments_invoice_id ON payments(invoice_id)").Error; err != nil {
		return fmt.Errorf("failed to create payment invoice_id index: %w", err)
	}
	if err := DB.Exec("CREATE INDEX IF NOT EXISTS idx_payments_booking_id ON payments(booking_id)").Error; err != nil {
		return fmt.Errorf("failed to create payment booking_id index: %w", err)
	}

	// Waitlist indexes
	if err := DB.Exec("CREATE INDEX IF NOT EXISTS idx_waitlist_entries_room_type_id ON waitlist_entries(room_type_id)").Error; err != nil {
		return fmt.Errorf("failed to create waitlist room_type_id index: %w", err)
	}
	if err := DB.Exec("CREATE INDEX IF NOT EXISTS idx_waitlist_entries_status ON waitlist_entries(status)").Error; err != nil {
		return fmt.Errorf("failed to create waitlist status index: %w", err)
	}

	// Log indexes
	if err := DB.Exec("CREATE INDEX IF NOT EXISTS idx_logs_method ON logs(method)").Error; err != nil {
		return fmt.Errorf("failed to create log method index: %w", err)
	}
	if err := DB.Exec("CREATE INDEX IF NOT EXISTS idx_logs_status_code ON logs(status_code)").Error; err != nil {
		return fmt.Errorf("failed to create log status_code index: %w", err)
	}
	if err := DB.Exec("CREATE INDEX IF NOT EXISTS idx_logs_created_at ON logs(created_at)").Error; err != nil {
		return fmt.Errorf("failed to create log created_at index: %w", err)
	}

	return nil
}

// createForeignKeyConstraints creates foreign key constraints after auto migration
func createForeignKeyConstraints() error {
	// Define constraints with their names for checking existence
	constraints := []struct {
		name string
		sql  string
	}{
		{
			name: "fk_room_units_room_type",
			sql: `ALTER TABLE room_units ADD CONSTRAINT fk_room_units_room_type
				  FOREIGN KEY (room_type_id) REFERENCES room_types(id)
				  ON UPDATE CASCADE ON DELETE RESTRICT`,
		},
		{
			name: "fk_bookings_room_type",
			sql: `ALTER TABLE bookings ADD CONSTRAINT fk_bookings_room_type
				  FOREIGN KEY (room_type_id) REFERENCES room_types(id)
				  ON UPDATE CASCADE ON DELETE RESTRICT`,
		},
		{
			name: "fk_bookings_room_unit",
			sql: `ALTER TABLE bookings ADD CONSTRAINT fk_bookings_room_unit
				  FOREIGN KEY (room_unit_id) REFERENCES room_units(id)
				  ON UPDATE CASCADE ON DELETE RESTRICT`,
		},
		{
			name: "fk_add_ons_booking",
			sql: `ALTER TABLE add_ons ADD CONSTRAINT fk_add_ons_booking
				  FOREIGN KEY (booking_id) REFERENCES bookings(id)
				  ON UPDATE CASCADE ON DELETE CASCADE`,
		},
		{
			name: "fk_booking_status_events_booking",
			sql: `ALTER TABLE booking_status_events ADD CONSTRAINT fk_booking_status_events_booking
				  FOREIGN KEY (booking_id) REFERENCES bookings(id)
				  ON UPDATE CASCADE ON DELETE CASCADE`,
		},
		{
			name: "fk_invoices_booking",
			sql: `ALTER TABLE invoices ADD CONSTRAINT fk_invoices_booking
				  FOREIGN KEY (booking_id) REFERENCES bookings(id)
				  ON UPDATE CASCADE ON DELETE RESTRICT`,
		},
		{
			name: "fk_invoice_line_items_invoice",
			sql: `ALTER TABLE invoice_line_items ADD CONSTRAINT fk_invoice_line_items_invoice
				  FOREIGN KEY (invoice_id) REFERENCES invoices(id)
				  ON UPDATE CASCADE ON DELETE CASCADE`,
		},
		{
			name: "fk_payments_invoice",
			sql: `ALTER TABLE payments ADD CONSTRAINT fk_payments_invoice
				  FOREIGN KEY (invoice_id) REFERENCES invoices(id)
				  ON UPDATE CASCADE ON DELETE RESTRICT`,
		},
		{
			name: "fk_waitlist_entries_room_type",
			sql: `ALTER TABLE waitlist_entries ADD CONSTRAINT fk_waitlist_entries_room_type
				  FOREIGN KEY (room_type_id) REFERENCES room_types(id)
				  ON UPDATE CASCADE ON DELETE CASCADE`,
		},
	}

	for _, constraint := range constraints {
		// Check if constraint already exists
		var exists bool
		checkSQL := `
			SELECT EXISTS (
				SELECT 1 FROM information_schema.table_constraints
				WHERE constraint_name = $1
			)
		`

		err := DB.Raw(checkSQL, constraint.name).Scan(&exists).Error
		if err != nil {
			logger.Warning(fmt.Sprintf("Failed to check constraint existence: %s - Error: %v", constraint.name, err))
			continue
		}

		if !exists {
			if err := DB.Exec(constraint.sql).Error; err != nil {
				logger.Warning(fmt.Sprintf("Failed to create constraint: %s - Error: %v", constraint.name, err))
			} else {
				logger.Success(fmt.Sprintf("Successfully created constraint: %s", constraint.name))
			}
		} else {
			logger.Debug(fmt.Sprintf("Constraint already exists: %s", constraint.name))
		}
	}

	return nil
}

// GetDB returns the database instance
func GetDB() *gorm.DB {
	return DB
}
