package notes_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jsun2020/xiaohongshuarticleextrator-sub000/internal/database"
	"github.com/jsun2020/xiaohongshuarticleextrator-sub000/internal/modules/notes"
	"github.com/jsun2020/xiaohongshuarticleextrator-sub000/internal/modules/notes/xiaohongshu"
)

func openTestDatabase(t *testing.T) {
	t.Helper()
	if err := database.Open(":memory:"); err != nil {
		t.Fatal(err)
	}
	// Every pool connection to :memory: gets its own empty database,
	// so keep the pool at a single connection.
	database.DB.SetMaxOpenConns(1)
	t.Cleanup(func() {
		database.Close()
		database.DB = nil
	})
	if err := database.CreateTables(); err != nil {
		t.Fatal(err)
	}
}

func sampleNote(noteID string) *xiaohongshu.Note {
	return &xiaohongshu.Note{
		NoteID:  noteID,
		Type:    "image",
		Title:   "T",
		Content: "D",
		Author: xiaohongshu.Author{
			UserID:   "u1",
			Nickname: "tester",
		},
		Stats:       xiaohongshu.Stats{Likes: 3},
		PublishTime: "2023-11-14 22:13:20",
		Tags:        []string{"tag1", "tag2"},
		Images:      []string{"http://x/1.jpg"},
		Videos:      []string{},
	}
}

func TestSaveNoteRejectsDuplicate(t *testing.T) {
	openTestDatabase(t)

	saved, err := notes.SaveNote(1, sampleNote("abc123"))
	if err != nil {
		t.Fatal(err)
	}
	if !saved {
		t.Fatal("first insert - want: true, got: false")
	}

	saved, err = notes.SaveNote(1, sampleNote("abc123"))
	if err != nil {
		t.Fatal(err)
	}
	if saved {
		t.Fatal("duplicate insert - want: false, got: true")
	}

	// The same note for another user is not a duplicate.
	saved, err = notes.SaveNote(2, sampleNote("abc123"))
	if err != nil {
		t.Fatal(err)
	}
	if !saved {
		t.Fatal("other-user insert - want: true, got: false")
	}
}

func TestGetNoteRoundTrip(t *testing.T) {
	openTestDatabase(t)

	original := sampleNote("abc123")
	if _, err := notes.SaveNote(1, original); err != nil {
		t.Fatal(err)
	}

	loaded, err := notes.GetNote(1, "abc123")
	if err != nil {
		t.Fatal(err)
	}

	if loaded.Title != original.Title || loaded.Content != original.Content {
		t.Fatalf("title/content - want: %q/%q, got: %q/%q",
			original.Title, original.Content, loaded.Title, loaded.Content)
	}
	if loaded.Stats != original.Stats {
		t.Fatalf("stats - want: %+v, got: %+v", original.Stats, loaded.Stats)
	}
	if len(loaded.Tags) != 2 || loaded.Tags[0] != "tag1" {
		t.Fatalf("tags - want: %v, got: %v", original.Tags, loaded.Tags)
	}
	if len(loaded.Videos) != 0 || loaded.Videos == nil {
		t.Fatalf("videos - want empty non-nil, got: %v", loaded.Videos)
	}
}

func TestGetNoteMissing(t *testing.T) {
	openTestDatabase(t)

	_, err := notes.GetNote(1, "nope")
	if !errors.Is(err, notes.ErrNoteNotFound) {
		t.Fatalf("want ErrNoteNotFound, got: %v", err)
	}
}

func TestListNotesPaging(t *testing.T) {
	openTestDatabase(t)

	for i := 0; i < 5; i++ {
		if _, err := notes.SaveNote(1, sampleNote(fmt.Sprintf("note%d", i))); err != nil {
			t.Fatal(err)
		}
	}

	firstPage, err := notes.ListNotes(1, 1, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(firstPage) != 2 {
		t.Fatalf("first page - want 2 notes, got: %d", len(firstPage))
	}

	lastPage, err := notes.ListNotes(1, 3, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(lastPage) != 1 {
		t.Fatalf("last page - want 1 note, got: %d", len(lastPage))
	}

	other, err := notes.ListNotes(2, 1, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(other) != 0 {
		t.Fatalf("other user - want 0 notes, got: %d", len(other))
	}
}

func TestDeleteNote(t *testing.T) {
	openTestDatabase(t)

	if _, err := notes.SaveNote(1, sampleNote("abc123")); err != nil {
		t.Fatal(err)
	}

	deleted, err := notes.DeleteNote(1, "abc123")
	if err != nil {
		t.Fatal(err)
	}
	if !deleted {
		t.Fatal("delete - want: true, got: false")
	}

	deleted, err = notes.DeleteNote(1, "abc123")
	if err != nil {
		t.Fatal(err)
	}
	if deleted {
		t.Fatal("second delete - want: false, got: true")
	}
}
