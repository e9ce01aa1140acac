package config

import (
	"context"
	"database/sql"
	"fmt"
)

// Seat locks only exist while they occupy a seat: release paths delete the
// row, so a plain unique key over (trip_id, seat_number) is the occupancy
// guard.
var schemaDDL = []string{
	`CREATE TABLE IF NOT EXISTS buses (
	bus_id BIGINT AUTO_INCREMENT PRIMARY KEY,
	bus_number VARCHAR(32) NOT NULL,
	bus_name VARCHAR(128) NOT NULL DEFAULT '',
	ac_type VARCHAR(16) NOT NULL DEFAULT 'NON_AC',
	total_seats INT NOT NULL DEFAULT 45,
	driver_name VARCHAR(128) NULL,
	driver_phone VARCHAR(32) NULL,
	UNIQUE KEY uniq_bus_number (bus_number)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci`,

	`CREATE TABLE IF NOT EXISTS routes (
	route_id BIGINT AUTO_INCREMENT PRIMARY KEY,
	origin VARCHAR(128) NOT NULL,
	destination VARCHAR(128) NOT NULL,
	active TINYINT(1) NOT NULL DEFAULT 1
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci`,

	`CREATE TABLE IF NOT EXISTS route_stops (
	route_id BIGINT NOT NULL,
	stop_id BIGINT NOT NULL,
	seq_no INT NOT NULL,
	PRIMARY KEY (route_id, stop_id),
	KEY idx_route_seq (route_id, seq_no)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci`,

	`CREATE TABLE IF NOT EXISTS trips (
	trip_id BIGINT AUTO_INCREMENT PRIMARY KEY,
	route_id BIGINT NOT NULL,
	bus_id BIGINT NOT NULL,
	trip_date DATE NOT NULL,
	departure_time TIME NULL,
	price_per_seat BIGINT NOT NULL DEFAULT 0,
	seats_override INT NULL,
	UNIQUE KEY uniq_trip (route_id, bus_id, trip_date, departure_time),
	KEY idx_trip_date (trip_date)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci`,

	`CREATE TABLE IF NOT EXISTS bookings (
	id BIGINT AUTO_INCREMENT PRIMARY KEY,
	trip_id BIGINT NOT NULL,
	customer_name VARCHAR(255) NOT NULL,
	customer_phone VARCHAR(32) NOT NULL,
	from_stop_id BIGINT NOT NULL DEFAULT 0,
	to_stop_id BIGINT NOT NULL DEFAULT 0,
	status VARCHAR(16) NOT NULL,
	payment_status VARCHAR(16) NOT NULL DEFAULT 'PENDING',
	hold_expires_at DATETIME NULL,
	total_amount BIGINT NOT NULL DEFAULT 0,
	payment_ref VARCHAR(128) NULL,
	seat_numbers TEXT NOT NULL,
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL,
	KEY idx_bookings_trip (trip_id),
	KEY idx_bookings_hold (status, hold_expires_at)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci`,

	`CREATE TABLE IF NOT EXISTS booking_seats (
	id BIGINT AUTO_INCREMENT PRIMARY KEY,
	booking_id BIGINT NOT NULL,
	trip_id BIGINT NOT NULL,
	seat_number VARCHAR(16) NOT NULL,
	gender CHAR(1) NOT NULL DEFAULT 'M',
	status VARCHAR(16) NOT NULL,
	is_active TINYINT(1) NOT NULL DEFAULT 1,
	created_at DATETIME NOT NULL,
	UNIQUE KEY uniq_trip_seat (trip_id, seat_number),
	KEY idx_seats_booking (booking_id)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci`,

	`CREATE TABLE IF NOT EXISTS notification_outbox (
	id BIGINT AUTO_INCREMENT PRIMARY KEY,
	booking_id BIGINT NOT NULL,
	kind VARCHAR(32) NOT NULL,
	recipient VARCHAR(32) NOT NULL,
	message VARCHAR(640) NOT NULL,
	status VARCHAR(16) NOT NULL DEFAULT 'PENDING',
	attempts INT NOT NULL DEFAULT 0,
	last_error VARCHAR(512) NULL,
	next_attempt_at DATETIME NOT NULL,
	created_at DATETIME NOT NULL,
	sent_at DATETIME NULL,
	KEY idx_outbox_due (status, next_attempt_at)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci`,

	`CREATE TABLE IF NOT EXISTS admins (
	admin_id BIGINT AUTO_INCREMENT PRIMARY KEY,
	full_name VARCHAR(255) NOT NULL,
	username VARCHAR(64) NOT NULL,
	password_hash VARCHAR(255) NOT NULL,
	role VARCHAR(16) NOT NULL DEFAULT 'STAFF',
	active TINYINT(1) NOT NULL DEFAULT 1,
	UNIQUE KEY uniq_admin_username (username)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci`,
}

// EnsureSchema creates missing tables. Existing tables are left untouched.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	if db == nil {
		return fmt.Errorf("db not available")
	}
	for _, ddl := range schemaDDL {
		if _, err := db.ExecContext(ctx, ddl); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}
