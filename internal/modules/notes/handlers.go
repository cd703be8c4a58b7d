package notes

import (
	"log/slog"

	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"

	"github.com/jsun2020/xiaohongshuarticleextrator-sub000/internal/api"
	"github.com/jsun2020/xiaohongshuarticleextrator-sub000/internal/modules/notes/xiaohongshu"
)

type Module struct {
	extractor *xiaohongshu.Extractor
}

func NewModule(extractor *xiaohongshu.Extractor) *Module {
	return &Module{extractor: extractor}
}

type collectRequest struct {
	ShareText string `json:"share_text"`
}

func (module *Module) collectHandler(ctx *fasthttp.RequestCtx) {
	userID := api.UserID(ctx)

	var req collectRequest
	if err := api.ReadJSON(ctx, &req); err != nil {
		api.Failure(ctx, fasthttp.StatusBadRequest, err.Error())
		return
	}
	if req.ShareText == "" {
		api.Failure(ctx, fasthttp.StatusBadRequest, "share_text is required")
		return
	}

	note := module.lookupNote(req.ShareText)
	if note == nil {
		extracted, err := module.extractor.GetPost(req.ShareText)
		if err != nil {
			slog.Error("Note extraction failed",
				"User ID", userID,
				"Error", err.Error())
			api.Failure(ctx, fasthttp.StatusBadGateway, err.Error())
			return
		}
		note = extracted
		setNoteCache(note)
	}

	saved, err := SaveNote(userID, note)
	if err != nil {
		slog.Error("Failed to save note",
			"User ID", userID,
			"Note ID", note.NoteID,
			"Error", err.Error())
		api.Failure(ctx, fasthttp.StatusInternalServerError, "could not save note")
		return
	}
	if !saved {
		api.Failure(ctx, fasthttp.StatusConflict, "note already collected")
		return
	}

	api.Success(ctx, note)
}

// lookupNote serves a collect request from the cache when the post id
// is recoverable without a network round trip. Short links stay cold
// until resolved.
func (module *Module) lookupNote(shareText string) *xiaohongshu.Note {
	_, postID, _ := xiaohongshu.Normalize(xiaohongshu.ExtractShareURL(shareText))
	if postID == "" {
		return nil
	}
	note, ok := getNoteCache(postID)
	if !ok {
		return nil
	}
	return note
}

func (module *Module) listHandler(ctx *fasthttp.RequestCtx) {
	userID := api.UserID(ctx)
	page := ctx.QueryArgs().GetUintOrZero("page")
	pageSize := ctx.QueryArgs().GetUintOrZero("page_size")

	result, err := ListNotes(userID, page, pageSize)
	if err != nil {
		slog.Error("Failed to list notes",
			"User ID", userID,
			"Error", err.Error())
		api.Failure(ctx, fasthttp.StatusInternalServerError, "could not list notes")
		return
	}
	api.Success(ctx, result)
}

func (module *Module) deleteHandler(ctx *fasthttp.RequestCtx) {
	userID := api.UserID(ctx)
	noteID, _ := ctx.UserValue("note_id").(string)

	deleted, err := DeleteNote(userID, noteID)
	if err != nil {
		slog.Error("Failed to delete note",
			"User ID", userID,
			"Note ID", noteID,
			"Error", err.Error())
		api.Failure(ctx, fasthttp.StatusInternalServerError, "could not delete note")
		return
	}
	if !deleted {
		api.Failure(ctx, fasthttp.StatusNotFound, ErrNoteNotFound.Error())
		return
	}

	deleteNoteCache(noteID)
	api.Success(ctx, map[string]string{"note_id": noteID})
}

func Load(r *router.Router, verify api.VerifyFunc, module *Module) {
	r.POST("/api/notes", api.RequireAuth(verify, module.collectHandler))
	r.GET("/api/notes", api.RequireAuth(verify, module.listHandler))
	r.DELETE("/api/notes/{note_id}", api.RequireAuth(verify, module.deleteHandler))
}
