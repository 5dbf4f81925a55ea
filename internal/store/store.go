// Package store records successful API responses in a local SQLite database.
// The responses table is append only: rows are inserted and listed, never updated or deleted.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/apicommand/apicommand/internal/client"
	"github.com/apicommand/apicommand/internal/constants"
	"github.com/apicommand/apicommand/internal/request"
	"github.com/ubuntu/decorate"
	_ "modernc.org/sqlite" // SQLite driver
)

// ErrEmptyPath is returned when the store is given an empty database path.
var ErrEmptyPath = errors.New("database path cannot be an empty string")

var (
	createTableQuery = fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		id integer NOT NULL PRIMARY KEY,
		date_time timestamp NOT NULL,
		request_type text NOT NULL,
		url text NOT NULL,
		data text NOT NULL
	)`, constants.ResponsesTable)

	insertQuery = fmt.Sprintf(`INSERT INTO %s (
		date_time,
		request_type,
		url,
		data
	) VALUES (?, ?, ?, ?)`, constants.ResponsesTable)

	// date_time is cast so the driver hands back the stored text instead of a parsed time.
	listQuery = fmt.Sprintf(`SELECT id, CAST(date_time AS TEXT), request_type, url, data
		FROM %s ORDER BY id DESC LIMIT ?`, constants.ResponsesTable)
)

// Row is a stored response.
type Row struct {
	ID          int64  `yaml:"id"`
	DateTime    string `yaml:"date_time"`
	RequestType string `yaml:"request_type"`
	URL         string `yaml:"url"`
	Data        string `yaml:"data"`
}

// Store is a handle on the database file at a path.
// Each call opens its own connection, creating the file and table if needed, and closes it before returning.
type Store struct {
	path string
}

// New returns a Store for the database file at path. Nothing is opened until the store is used.
func New(path string) (Store, error) {
	if path == "" {
		return Store{}, ErrEmptyPath
	}
	return Store{path: path}, nil
}

// Persist appends r to the responses table and returns the id of the new row.
func (s Store) Persist(ctx context.Context, r client.Response) (id int64, err error) {
	defer decorate.OnError(&err, "could not persist response to %s", s.path)

	err = s.withConn(ctx, func(conn *sql.Conn) error {
		res, err := conn.ExecContext(ctx, insertQuery,
			r.FetchedAt.UTC().Format(constants.TimestampLayout), // date_time
			string(request.TagOf(r.Variant)),                    // request_type
			r.URL,                                               // url
			r.Body,                                              // data
		)
		if err != nil {
			return fmt.Errorf("failed to insert response: %v", err)
		}

		id, err = res.LastInsertId()
		if err != nil {
			return fmt.Errorf("failed to get inserted row id: %v", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	slog.Debug("Persisted response", "database", s.path, "id", id)
	return id, nil
}

// CreateTable creates the responses table if it does not exist yet.
func (s Store) CreateTable(ctx context.Context) (err error) {
	defer decorate.OnError(&err, "could not create responses table in %s", s.path)

	return s.withConn(ctx, func(*sql.Conn) error { return nil })
}

// List returns up to limit stored responses, newest first. A limit of 0 or less returns all of them.
func (s Store) List(ctx context.Context, limit int) (rows []Row, err error) {
	defer decorate.OnError(&err, "could not list responses from %s", s.path)

	if limit <= 0 {
		limit = -1
	}

	err = s.withConn(ctx, func(conn *sql.Conn) error {
		res, err := conn.QueryContext(ctx, listQuery, limit)
		if err != nil {
			return fmt.Errorf("failed to query responses: %v", err)
		}
		defer res.Close()

		for res.Next() {
			var r Row
			if err := res.Scan(&r.ID, &r.DateTime, &r.RequestType, &r.URL, &r.Data); err != nil {
				return fmt.Errorf("failed to read response row: %v", err)
			}
			rows = append(rows, r)
		}
		return res.Err()
	})
	return rows, err
}

// withConn opens the database, makes sure the responses table exists and runs f on the same connection.
func (s Store) withConn(ctx context.Context, f func(*sql.Conn) error) (err error) {
	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return fmt.Errorf("failed to open database: %v", err)
	}
	defer func() {
		err = errors.Join(err, db.Close())
	}()

	conn, err := db.Conn(ctx)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %v", err)
	}
	defer func() {
		err = errors.Join(err, conn.Close())
	}()

	if _, err := conn.ExecContext(ctx, createTableQuery); err != nil {
		return fmt.Errorf("failed to create table: %v", err)
	}

	return f(conn)
}
