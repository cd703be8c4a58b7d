package auth

import (
	"database/sql"
	"errors"

	"github.com/jsun2020/xiaohongshuarticleextrator-sub000/internal/database"
)

var ErrUsernameTaken = errors.New("username already taken")

func createUser(username, passwordHash string) (int64, error) {
	result, err := database.DB.Exec(
		"INSERT OR IGNORE INTO users (username, password_hash) VALUES (?, ?);",
		username, passwordHash)
	if err != nil {
		return 0, err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, err
	}
	if affected == 0 {
		return 0, ErrUsernameTaken
	}

	return result.LastInsertId()
}

func getUser(username string) (id int64, passwordHash string, err error) {
	row := database.DB.QueryRow(
		"SELECT id, password_hash FROM users WHERE username = ?;", username)
	if err := row.Scan(&id, &passwordHash); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, "", ErrBadCredentials
		}
		return 0, "", err
	}
	return id, passwordHash, nil
}
