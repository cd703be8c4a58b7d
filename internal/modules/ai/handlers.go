package ai

import (
	"errors"
	"log/slog"

	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"

	"github.com/jsun2020/xiaohongshuarticleextrator-sub000/internal/api"
	"github.com/jsun2020/xiaohongshuarticleextrator-sub000/internal/modules/notes"
	"github.com/jsun2020/xiaohongshuarticleextrator-sub000/internal/modules/notes/xiaohongshu"
)

func (c *Client) rewriteHandler(ctx *fasthttp.RequestCtx) {
	note, ok := loadNote(ctx)
	if !ok {
		return
	}

	result, err := c.Rewrite(ctx, note.Title, note.Content)
	if err != nil {
		slog.Error("Rewrite failed",
			"Note ID", note.NoteID,
			"Error", err.Error())
		api.Failure(ctx, fasthttp.StatusBadGateway, "rewrite failed")
		return
	}
	api.Success(ctx, result)
}

func (c *Client) storyHandler(ctx *fasthttp.RequestCtx) {
	note, ok := loadNote(ctx)
	if !ok {
		return
	}

	cards, err := c.VisualStory(ctx, note.Title, note.Content)
	if err != nil {
		slog.Error("Visual story generation failed",
			"Note ID", note.NoteID,
			"Error", err.Error())
		api.Failure(ctx, fasthttp.StatusBadGateway, "visual story generation failed")
		return
	}
	api.Success(ctx, map[string]any{"cards": cards})
}

func loadNote(ctx *fasthttp.RequestCtx) (*xiaohongshu.Note, bool) {
	noteID, _ := ctx.UserValue("note_id").(string)

	note, err := notes.GetNote(api.UserID(ctx), noteID)
	if err != nil {
		if errors.Is(err, notes.ErrNoteNotFound) {
			api.Failure(ctx, fasthttp.StatusNotFound, err.Error())
		} else {
			slog.Error("Failed to load note",
				"Note ID", noteID,
				"Error", err.Error())
			api.Failure(ctx, fasthttp.StatusInternalServerError, "could not load note")
		}
		return nil, false
	}
	return note, true
}

func Load(r *router.Router, verify api.VerifyFunc, c *Client) {
	r.POST("/api/notes/{note_id}/rewrite", api.RequireAuth(verify, c.rewriteHandler))
	r.POST("/api/notes/{note_id}/story", api.RequireAuth(verify, c.storyHandler))
}
