package storage

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"sync"

	"go.uber.org/zap"

	"github.com/teranos/coredata/db"
	"github.com/teranos/coredata/errors"
	"github.com/teranos/coredata/logger"
)

// SQLiteExtensions are the extensions handled by the SQLite adapter.
var SQLiteExtensions = []string{"db", "sqlite", "sqlite3"}

// SQLiteAdapter stores a RawTable in a SQLite file. Each row is one
// raw_records entry holding the record as a JSON object; raw_tables keeps
// tables that have no rows.
type SQLiteAdapter struct {
	path   string
	logger *zap.SugaredLogger

	mu     sync.Mutex
	memory RawTable
}

// NewSQLiteAdapter returns an adapter for the SQLite file at path.
func NewSQLiteAdapter(path string) Adapter {
	return &SQLiteAdapter{
		path:   path,
		logger: logger.ComponentLogger("storage.sqlite"),
	}
}

func (a *SQLiteAdapter) Path() string { return a.path }

func (a *SQLiteAdapter) Extensions() []string {
	return append([]string(nil), SQLiteExtensions...)
}

func (a *SQLiteAdapter) Read() (RawTable, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.memory != nil {
		return a.memory, nil
	}

	conn, err := db.OpenWithMigrations(a.path, a.logger)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	table, err := readRecords(conn)
	if err != nil {
		return nil, errors.WithDetailf(err, "path: %s", a.path)
	}
	a.memory = table
	return a.memory, nil
}

func (a *SQLiteAdapter) Write(data RawTable) error {
	normalized := data.Normalize()

	a.mu.Lock()
	defer a.mu.Unlock()
	a.memory = nil

	conn, err := db.OpenWithMigrations(a.path, a.logger)
	if err != nil {
		return err
	}
	defer conn.Close()

	if err := writeRecords(conn, normalized); err != nil {
		return errors.WithDetailf(err, "path: %s", a.path)
	}
	a.memory = normalized
	return nil
}

func (a *SQLiteAdapter) Invalidate() {
	a.mu.Lock()
	a.memory = nil
	a.mu.Unlock()
}

func readRecords(conn *sql.DB) (RawTable, error) {
	table := RawTable{}

	names, err := conn.Query("SELECT table_name FROM raw_tables ORDER BY table_name")
	if err != nil {
		return nil, errors.Wrap(err, "failed to query raw tables")
	}
	defer names.Close()
	for names.Next() {
		var name string
		if err := names.Scan(&name); err != nil {
			return nil, errors.Wrap(err, "failed to scan raw table")
		}
		table[name] = Table{}
	}
	if err := names.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to iterate raw tables")
	}

	rows, err := conn.Query("SELECT table_name, row_index, data FROM raw_records ORDER BY table_name, row_index")
	if err != nil {
		return nil, errors.Wrap(err, "failed to query raw records")
	}
	defer rows.Close()

	for rows.Next() {
		var (
			name  string
			index int
			data  string
		)
		if err := rows.Scan(&name, &index, &data); err != nil {
			return nil, errors.Wrap(err, "failed to scan raw record")
		}

		decoder := json.NewDecoder(bytes.NewReader([]byte(data)))
		decoder.UseNumber()
		var record map[string]any
		if err := decoder.Decode(&record); err != nil {
			return nil, errors.Wrapf(errors.ErrMalformedRaw, "table %q row %d: %v", name, index, err)
		}

		if table[name] == nil {
			table[name] = Table{}
		}
		table[name][index] = Row(normalizeValue(record).(map[string]any))
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to iterate raw records")
	}

	// Stored indices may have gaps if the file was edited by hand
	return table.Normalize(), nil
}

// writeRecords replaces every stored row in one transaction. Tables and rows
// are written in order so the statement sequence is deterministic.
func writeRecords(conn *sql.DB, data RawTable) error {
	tx, err := conn.Begin()
	if err != nil {
		return errors.Wrap(err, "failed to begin transaction")
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM raw_records"); err != nil {
		return errors.Wrap(err, "failed to clear raw records")
	}
	if _, err := tx.Exec("DELETE FROM raw_tables"); err != nil {
		return errors.Wrap(err, "failed to clear raw tables")
	}

	for _, name := range data.TableNames() {
		if _, err := tx.Exec("INSERT INTO raw_tables (table_name) VALUES (?)", name); err != nil {
			return errors.Wrapf(err, "failed to insert table %q", name)
		}
		table := data[name]
		for _, index := range table.Indices() {
			encoded, err := json.Marshal(table[index])
			if err != nil {
				return errors.Wrapf(err, "failed to encode table %q row %d", name, index)
			}
			if _, err := tx.Exec(
				"INSERT INTO raw_records (table_name, row_index, data) VALUES (?, ?, ?)",
				name, index, string(encoded),
			); err != nil {
				return errors.Wrapf(err, "failed to insert table %q row %d", name, index)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, "failed to commit raw records")
	}
	return nil
}
