package notes

import (
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/jsun2020/xiaohongshuarticleextrator-sub000/internal/database"
	"github.com/jsun2020/xiaohongshuarticleextrator-sub000/internal/modules/notes/xiaohongshu"
)

var ErrNoteNotFound = errors.New("note not found")

// SaveNote inserts at most once per (user, note). A duplicate is
// reported as false, never overwritten.
func SaveNote(userID int64, note *xiaohongshu.Note) (bool, error) {
	tags, _ := json.Marshal(note.Tags)
	images, _ := json.Marshal(note.Images)
	videos, _ := json.Marshal(note.Videos)

	result, err := database.DB.Exec(`
		INSERT OR IGNORE INTO notes (
			user_id, note_id, note_type, title, content,
			author_id, author_name, author_avatar,
			likes, collects, comments, shares,
			publish_time, location, tags, images, videos
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);`,
		userID, note.NoteID, note.Type, note.Title, note.Content,
		note.Author.UserID, note.Author.Nickname, note.Author.Avatar,
		note.Stats.Likes, note.Stats.Collects, note.Stats.Comments, note.Stats.Shares,
		note.PublishTime, note.Location, string(tags), string(images), string(videos))
	if err != nil {
		return false, err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

func ListNotes(userID int64, page, pageSize int) ([]*xiaohongshu.Note, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	rows, err := database.DB.Query(`
		SELECT note_id, note_type, title, content,
			author_id, author_name, author_avatar,
			likes, collects, comments, shares,
			publish_time, location, tags, images, videos
		FROM notes WHERE user_id = ?
		ORDER BY created_at DESC
		LIMIT ? OFFSET ?;`,
		userID, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make([]*xiaohongshu.Note, 0, pageSize)
	for rows.Next() {
		note, err := scanNote(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, note)
	}
	return result, rows.Err()
}

func GetNote(userID int64, noteID string) (*xiaohongshu.Note, error) {
	row := database.DB.QueryRow(`
		SELECT note_id, note_type, title, content,
			author_id, author_name, author_avatar,
			likes, collects, comments, shares,
			publish_time, location, tags, images, videos
		FROM notes WHERE user_id = ? AND note_id = ?;`,
		userID, noteID)

	note, err := scanNote(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoteNotFound
	}
	return note, err
}

func DeleteNote(userID int64, noteID string) (bool, error) {
	result, err := database.DB.Exec(
		"DELETE FROM notes WHERE user_id = ? AND note_id = ?;", userID, noteID)
	if err != nil {
		return false, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

type scannable interface {
	Scan(dest ...any) error
}

func scanNote(row scannable) (*xiaohongshu.Note, error) {
	var (
		note                 xiaohongshu.Note
		tags, images, videos string
	)
	err := row.Scan(
		&note.NoteID, &note.Type, &note.Title, &note.Content,
		&note.Author.UserID, &note.Author.Nickname, &note.Author.Avatar,
		&note.Stats.Likes, &note.Stats.Collects, &note.Stats.Comments, &note.Stats.Shares,
		&note.PublishTime, &note.Location, &tags, &images, &videos)
	if err != nil {
		return nil, err
	}

	note.Tags = unmarshalStrings(tags)
	note.Images = unmarshalStrings(images)
	note.Videos = unmarshalStrings(videos)
	return &note, nil
}

func unmarshalStrings(raw string) []string {
	values := []string{}
	if raw != "" {
		_ = json.Unmarshal([]byte(raw), &values)
	}
	if values == nil {
		values = []string{}
	}
	return values
}
