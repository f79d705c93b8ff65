// Copyright (c) 2025 AgriData, Inc. All rights reserved.

package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
)

const (
	dbDriver   = "mysql"
	dbPoolSize = 2
	dbConnLife = 30 * time.Minute
	dbTimeout  = 5
)

var ErrBadDSN = fmt.Errorf("connection string is required")

// SQLClient is a scoped handle on the warehouse database. It is acquired
// once at the start of extraction and released when extraction completes;
// the erase/upload/publish phases never touch it.
type SQLClient struct {
	db      *sql.DB
	timeout time.Duration
}

func (sc *SQLClient) context() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), sc.timeout)
}

func (sc *SQLClient) Close() error {
	if sc.db != nil {
		err := sc.db.Close()
		sc.db = nil
		return err
	}
	return nil
}

func (sc *SQLClient) GetDB() *sql.DB {
	return sc.db
}

func (sc *SQLClient) Ping() error {
	ctx, cancel := sc.context()
	defer cancel()
	return sc.db.PingContext(ctx)
}

// NewSQLClient opens a warehouse connection and verifies it with a ping.
// The pool is kept small: the sync pipeline issues one query per run.
func NewSQLClient(dsn string, timeout int) (*SQLClient, error) {
	if dsn == "" {
		return nil, ErrBadDSN
	}

	db, err := sql.Open(dbDriver, dsn)
	if err != nil {
		return nil, err
	}

	db.SetConnMaxLifetime(dbConnLife)
	db.SetMaxOpenConns(dbPoolSize)
	db.SetMaxIdleConns(dbPoolSize)

	if timeout < 1 {
		timeout = dbTimeout
	}

	sc := &SQLClient{
		db:      db,
		timeout: time.Duration(timeout) * time.Second,
	}

	if err = sc.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}

	return sc, nil
}
