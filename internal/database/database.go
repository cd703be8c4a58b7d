package database

import (
	"database/sql"
	"log/slog"

	_ "github.com/mattn/go-sqlite3"
)

var DB *sql.DB

func Open(databaseFile string) error {
	db, err := sql.Open("sqlite3", databaseFile+"?_journal_mode=WAL")
	if err != nil {
		return err
	}

	DB = db
	return nil
}

func CreateTables() error {
	query := `
		CREATE TABLE IF NOT EXISTS users (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			username TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);
		CREATE TABLE IF NOT EXISTS notes (
			user_id INTEGER NOT NULL,
			note_id TEXT NOT NULL,
			note_type TEXT NOT NULL DEFAULT 'image',
			title TEXT,
			content TEXT,
			author_id TEXT,
			author_name TEXT,
			author_avatar TEXT,
			likes INTEGER DEFAULT 0,
			collects INTEGER DEFAULT 0,
			comments INTEGER DEFAULT 0,
			shares INTEGER DEFAULT 0,
			publish_time TEXT,
			location TEXT,
			tags TEXT,
			images TEXT,
			videos TEXT,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (user_id, note_id)
		);
	`
	_, err := DB.Exec(query)
	return err
}

func Close() {
	if DB != nil {
		if err := DB.Close(); err != nil {
			slog.Error("Error closing database",
				"error", err.Error())
		}
	}
}
