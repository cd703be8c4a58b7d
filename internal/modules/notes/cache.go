package notes

import (
	"encoding/json"
	"log/slog"
	"time"

	"github.com/jsun2020/xiaohongshuarticleextrator-sub000/internal/database/cache"
	"github.com/jsun2020/xiaohongshuarticleextrator-sub000/internal/modules/notes/xiaohongshu"
)

const (
	noteCachePrefix = "note-cache:"
	noteCacheTTL    = 48 * time.Hour
)

func getNoteCache(noteID string) (*xiaohongshu.Note, bool) {
	if noteID == "" || !cache.Available() {
		return nil, false
	}

	cached, err := cache.Get(noteCachePrefix + noteID)
	if err != nil {
		return nil, false
	}

	var note xiaohongshu.Note
	if err := json.Unmarshal([]byte(cached), &note); err != nil {
		slog.Error("Could not unmarshal cached note",
			"Note ID", noteID,
			"Error", err.Error())
		return nil, false
	}
	return &note, true
}

func setNoteCache(note *xiaohongshu.Note) {
	if note == nil || note.NoteID == "" || !cache.Available() {
		return
	}

	encoded, err := json.Marshal(note)
	if err != nil {
		return
	}
	if err := cache.Set(noteCachePrefix+note.NoteID, encoded, noteCacheTTL); err != nil {
		slog.Error("Could not cache note",
			"Note ID", note.NoteID,
			"Error", err.Error())
	}
}

// deleteNoteCache purges a cached note. The cache is shared across
// users, so the purge only costs the next collect a refetch.
func deleteNoteCache(noteID string) {
	if noteID == "" || !cache.Available() {
		return
	}
	if err := cache.Delete(noteCachePrefix + noteID); err != nil {
		slog.Error("Could not purge cached note",
			"Note ID", noteID,
			"Error", err.Error())
	}
}
