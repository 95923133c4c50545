package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"

	currency "github.com/malusev998/currency-converter"
)

const MySQLTimeFormat = "2006-01-02 15:04:05"

type mysqlStorage struct {
	db        *sql.DB
	tableName string
	ttl       time.Duration
}

func NewMySQLStorage(ctx context.Context, c MySQLConfig) (currency.Storage, error) {
	db, err := sql.Open("mysql", c.ConnectionString)
	if err != nil {
		return nil, err
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	tableName := c.TableName
	if tableName == "" {
		tableName = "currency_cache"
	}

	st := NewSQLStorage(db, tableName, c.TTL)

	if c.Migrate {
		if err := st.Migrate(ctx); err != nil {
			_ = db.Close()
			return nil, err
		}
	}

	return st, nil
}

func NewSQLStorage(db *sql.DB, tableName string, ttl time.Duration) currency.Storage {
	return mysqlStorage{
		db:        db,
		tableName: tableName,
		ttl:       ttl,
	}
}

// MySQLDSN builds a DSN for the go-sql-driver from separate parts.
func MySQLDSN(user, password, addr, db string) string {
	mysqlDriverConfig := mysql.NewConfig()
	mysqlDriverConfig.User = user
	mysqlDriverConfig.Passwd = password
	mysqlDriverConfig.Addr = addr
	mysqlDriverConfig.Net = "tcp"
	mysqlDriverConfig.DBName = db

	return mysqlDriverConfig.FormatDSN()
}

func (m mysqlStorage) Get(ctx context.Context, key string) (string, bool, error) {
	var row *sql.Row

	if m.ttl > 0 {
		row = m.db.QueryRowContext(
			ctx,
			fmt.Sprintf("SELECT cache_value FROM %s WHERE cache_key = ? AND updated_at >= ? LIMIT 1;", m.tableName),
			key,
			time.Now().UTC().Add(-m.ttl).Format(MySQLTimeFormat),
		)
	} else {
		row = m.db.QueryRowContext(
			ctx,
			fmt.Sprintf("SELECT cache_value FROM %s WHERE cache_key = ? LIMIT 1;", m.tableName),
			key,
		)
	}

	var value string

	if err := row.Scan(&value); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", false, nil
		}

		return "", false, err
	}

	return value, true, nil
}

func (m mysqlStorage) Set(ctx context.Context, key, value string) error {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	stmt, err := tx.PrepareContext(ctx, fmt.Sprintf(
		"INSERT INTO %s(cache_key, cache_value, updated_at) VALUES (?,?,?) ON DUPLICATE KEY UPDATE cache_value = VALUES(cache_value), updated_at = VALUES(updated_at);",
		m.tableName,
	))

	if err != nil {
		_ = tx.Rollback()
		return err
	}

	defer stmt.Close()

	if _, err := stmt.ExecContext(ctx, key, value, time.Now().UTC().Format(MySQLTimeFormat)); err != nil {
		_ = tx.Rollback()
		return err
	}

	return tx.Commit()
}

func (m mysqlStorage) Migrate(ctx context.Context) error {
	_, err := m.db.ExecContext(ctx, fmt.Sprintf(
		"CREATE TABLE IF NOT EXISTS %s(cache_key VARCHAR(64) NOT NULL PRIMARY KEY, cache_value TEXT NOT NULL, updated_at DATETIME NOT NULL);",
		m.tableName,
	))

	return err
}

func (m mysqlStorage) Drop(ctx context.Context) error {
	_, err := m.db.ExecContext(ctx, fmt.Sprintf("DROP TABLE IF EXISTS %s;", m.tableName))

	return err
}

func (m mysqlStorage) Close() error {
	return m.db.Close()
}

func (m mysqlStorage) GetStorageProviderName() string {
	return string(MySQL)
}
