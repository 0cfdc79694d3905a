// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package output

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/vida-laboral/pkg/types"
)

const createRecords = `CREATE TABLE records (
	seq INTEGER PRIMARY KEY,
	page INTEGER,
	regimen TEXT NOT NULL,
	id_empresa TEXT NOT NULL,
	nombre_empresa TEXT NOT NULL,
	fecha_alta TEXT NOT NULL,
	fecha_efecto_alta TEXT NOT NULL,
	fecha_baja TEXT NOT NULL,
	ct TEXT NOT NULL,
	ctp TEXT NOT NULL,
	gc TEXT NOT NULL,
	dias TEXT NOT NULL
)`

const insertRecord = `INSERT INTO records (
	seq, page, regimen, id_empresa, nombre_empresa, fecha_alta,
	fecha_efecto_alta, fecha_baja, ct, ctp, gc, dias
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

// writeSQLite builds a fresh database holding one "records" table and
// moves it over path.
func writeSQLite(ctx context.Context, path string, records []types.Record) error {
	tmp, err := tempPath(path)
	if err != nil {
		return err
	}
	if err := fillSQLite(ctx, tmp, records); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return commit(tmp, path)
}

func fillSQLite(ctx context.Context, dbPath string, records []types.Record) error {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	if _, err := db.ExecContext(ctx, createRecords); err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, insertRecord)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for i, r := range records {
		args := []any{i + 1, r.Page}
		for _, v := range r.Values() {
			args = append(args, v)
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return fmt.Errorf("inserting record %d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing records: %w", err)
	}
	return db.Close()
}
