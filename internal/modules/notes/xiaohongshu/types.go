package xiaohongshu

import "encoding/json"

// InitialState is the slice of window.__INITIAL_STATE__ this module
// cares about. The blob carries a lot of unrelated rendering state
// that is left unmodelled on purpose.
type InitialState struct {
	Note struct {
		NoteDetailMap map[string]NoteDetail `json:"noteDetailMap"`
	} `json:"note"`
}

type NoteDetail struct {
	Note NoteData `json:"note"`
}

// NoteData mirrors the upstream note record. Numeric-ish fields are
// kept raw because the site ships them as numbers or strings depending
// on the render path.
type NoteData struct {
	NoteID       string          `json:"noteId"`
	Type         string          `json:"type"`
	Title        string          `json:"title"`
	Desc         string          `json:"desc"`
	Time         json.RawMessage `json:"time"`
	IPLocation   string          `json:"ipLocation"`
	User         UserData        `json:"user"`
	InteractInfo InteractInfo    `json:"interactInfo"`
	TagList      []Tag           `json:"tagList"`
	ImageList    []ImageItem     `json:"imageList"`
	Video        VideoData       `json:"video"`
}

type UserData struct {
	UserID   string `json:"userId"`
	Nickname string `json:"nickname"`
	Avatar   string `json:"avatar"`
}

type InteractInfo struct {
	LikedCount     json.RawMessage `json:"likedCount"`
	CollectedCount json.RawMessage `json:"collectedCount"`
	CommentCount   json.RawMessage `json:"commentCount"`
	ShareCount     json.RawMessage `json:"shareCount"`
}

type Tag struct {
	Name string `json:"name"`
}

type ImageItem struct {
	URLDefault string `json:"urlDefault"`
}

type VideoData struct {
	Consumer VideoConsumer `json:"consumer"`
}

// VideoConsumer carries the CDN storage key. Both key spellings have
// been observed in the wild, depending on which render path produced
// the page.
type VideoConsumer struct {
	OriginVideoKey      string `json:"originVideoKey"`
	OriginVideoKeySnake string `json:"origin_video_key"`
}

// Note is the stable output record of the extraction pipeline.
type Note struct {
	NoteID      string   `json:"note_id"`
	Type        string   `json:"type"`
	Title       string   `json:"title"`
	Content     string   `json:"content"`
	Author      Author   `json:"author"`
	Stats       Stats    `json:"stats"`
	PublishTime string   `json:"publish_time"`
	Location    string   `json:"location"`
	Tags        []string `json:"tags"`
	Images      []string `json:"images"`
	Videos      []string `json:"videos"`
}

type Author struct {
	UserID   string `json:"user_id"`
	Nickname string `json:"nickname"`
	Avatar   string `json:"avatar"`
}

type Stats struct {
	Likes    int `json:"likes"`
	Collects int `json:"collects"`
	Comments int `json:"comments"`
	Shares   int `json:"shares"`
}
