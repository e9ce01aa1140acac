package config

import (
	"context"
	"database/sql"
	"fmt"
	"net"
	"strconv"
	"time"

	"seatbooking/internal/utils"

	"github.com/go-sql-driver/mysql"
)

// DSN builds the MySQL DSN. Times are stored and read in UTC; the session
// lock wait is bounded so contended ledger rows surface as errors.
func DSN(env Env) string {
	cfg := mysql.NewConfig()
	cfg.User = env.DBUser
	cfg.Passwd = env.DBPassword
	cfg.Net = "tcp"
	cfg.Addr = net.JoinHostPort(env.DBHost, env.DBPort)
	cfg.DBName = env.DBName
	cfg.ParseTime = true
	cfg.Loc = time.UTC
	cfg.Timeout = 5 * time.Second
	cfg.ReadTimeout = 30 * time.Second
	cfg.WriteTimeout = 30 * time.Second
	cfg.Params = map[string]string{
		"charset":                  "utf8mb4",
		"innodb_lock_wait_timeout": strconv.Itoa(int(env.LockWait() / time.Second)),
	}
	return cfg.FormatDSN()
}

// ConnectDB opens and pings the pool. The caller owns the returned handle.
func ConnectDB(ctx context.Context, env Env) (*sql.DB, error) {
	db, err := sql.Open("mysql", DSN(env))
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	db.SetMaxOpenConns(env.DBMaxOpenConns)
	db.SetMaxIdleConns(env.DBMaxOpenConns)
	db.SetConnMaxLifetime(10 * time.Minute)
	db.SetConnMaxIdleTime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}

	utils.LogEvent("", "db", "connect", "connected to mysql "+env.DBHost+"/"+env.DBName)
	return db, nil
}
