package xiaohongshu

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/valyala/fasthttp"

	"github.com/jsun2020/xiaohongshuarticleextrator-sub000/internal/utils"
)

const (
	exploreURLTemplate = "https://www.xiaohongshu.com/explore/%s?xsec_token=%s&xsec_source=pc_share"
	videoCDNPrefix     = "http://sns-video-bd.xhscdn.com/"

	// Share text frequently glues Chinese sentence punctuation
	// straight onto the tail of a short link.
	trailingPunctuation = "，,。.!！?？"
)

var (
	longLinkRegex  = regexp.MustCompile(`https?://(?:www\.)?xiaohongshu\.com/[\w\-./?%&=]+`)
	shortLinkRegex = regexp.MustCompile(`https?://xhslink\.com/\S+`)
	postIDRegex    = regexp.MustCompile(`/(?:explore|item)/(\w+)`)
	tokenRegex     = regexp.MustCompile(`xsec_token=([^&#\s]*)`)
	scriptRegex    = regexp.MustCompile(`(?s)window\.__INITIAL_STATE__=(.+?)</script>`)

	// The captured literal is JavaScript, not JSON. The signed form
	// must be listed before the bare one or "-Infinity" decays into
	// "-null", which no longer parses.
	jsTokenReplacer = strings.NewReplacer(
		"-Infinity", "null",
		"Infinity", "null",
		"undefined", "null",
		"NaN", "null",
	)
)

var (
	ErrFetchFailed     = errors.New("request failed")
	ErrStateExtraction = errors.New("could not extract data from page")
	ErrRecordNotFound  = errors.New("detail not found")
)

func recordNotFound(postID string) error {
	return fmt.Errorf("note id %s %w", postID, ErrRecordNotFound)
}

// Extractor runs the note-extraction pipeline with an explicit
// credential set, so several sessions can coexist in one process.
type Extractor struct {
	headers map[string]string
	caller  *utils.FastHTTPCaller
	timeout time.Duration
}

func New(cookie, userAgent string, timeout time.Duration) *Extractor {
	return NewWithCaller(cookie, userAgent, timeout, utils.DefaultHTTPCaller)
}

// NewWithCaller is New with an explicit HTTP caller, so requests can
// be routed away from the real host.
func NewWithCaller(cookie, userAgent string, timeout time.Duration, caller *utils.FastHTTPCaller) *Extractor {
	return &Extractor{
		headers: map[string]string{
			"User-Agent":   userAgent,
			"Cookie":       cookie,
			"Origin":       "https://www.xiaohongshu.com",
			"Referer":      "https://www.xiaohongshu.com/",
			"Content-Type": "application/json",
		},
		caller:  caller,
		timeout: timeout,
	}
}

// Headers exposes the configured browser header set for collaborators
// that relay requests against the same host (image proxy).
func (e *Extractor) Headers() map[string]string {
	return e.headers
}

// GetPost runs the full pipeline: share text in, normalized note out.
// Each stage either feeds the next or returns a terminal error; there
// are no retries at this layer.
func (e *Extractor) GetPost(shareText string) (*Note, error) {
	postURL := ExtractShareURL(shareText)
	if strings.Contains(postURL, "xhslink") {
		postURL = e.resolveRedirect(postURL)
	}

	fetchURL, postID, _ := Normalize(postURL)

	body, err := e.fetchPage(fetchURL)
	if err != nil {
		return nil, err
	}

	state := ExtractInitialState(body)
	if state == nil {
		return nil, ErrStateExtraction
	}

	return ExtractRecord(state, postID)
}

// ExtractShareURL pulls the first recognizable post URL out of
// free-form share text. Long-form links win over short links; when
// neither matches the text is handed back untouched and the pipeline
// fails at a later stage with a clearer message.
func ExtractShareURL(text string) string {
	if match := longLinkRegex.FindString(text); match != "" {
		return match
	}
	if match := shortLinkRegex.FindString(text); match != "" {
		return strings.TrimRight(match, trailingPunctuation)
	}
	return text
}

// resolveRedirect follows the xhslink short-link chain to the
// canonical long URL. Resolution failure is not terminal: the caller
// keeps the unresolved URL and lets the fetch stage report it.
func (e *Extractor) resolveRedirect(link string) string {
	req, resp, err := e.caller.Call(link, utils.RequestParams{
		Method:    fasthttp.MethodHead,
		Headers:   e.headers,
		Redirects: 5,
	})
	if err != nil {
		slog.Warn("Short link resolution failed",
			"URL", link,
			"Error", err.Error())
		return link
	}
	defer utils.ReleaseRequestResources(req, resp)

	resolved := req.URI().String()
	if parsed, err := url.Parse(resolved); err == nil && parsed.Query().Has("redirectPath") {
		resolved = parsed.Query().Get("redirectPath")
	}
	return resolved
}

// Normalize decomposes a canonical post URL into its identifier and
// access token and rebuilds the detail-page URL. Without an
// identifier the input URL is returned as the fetch target so the
// fetch stage can surface the failure. Normalize is idempotent over
// its own output.
func Normalize(rawURL string) (fetchURL, postID, token string) {
	if matches := postIDRegex.FindStringSubmatch(rawURL); len(matches) > 1 {
		postID = matches[1]
	}
	if matches := tokenRegex.FindStringSubmatch(rawURL); len(matches) > 1 {
		token = matches[1]
	}

	if postID == "" {
		return rawURL, "", token
	}
	return fmt.Sprintf(exploreURLTemplate, postID, token), postID, token
}

func (e *Extractor) fetchPage(fetchURL string) ([]byte, error) {
	req, resp, err := e.caller.Call(fetchURL, utils.RequestParams{
		Method:  fasthttp.MethodGet,
		Headers: e.headers,
		Timeout: e.timeout,
	})
	if err != nil {
		slog.Error("Failed to fetch note page",
			"URL", fetchURL,
			"Error", err.Error())
		return nil, fmt.Errorf("%w, status %d", ErrFetchFailed, 0)
	}
	defer utils.ReleaseRequestResources(req, resp)

	if statusCode := resp.StatusCode(); statusCode != fasthttp.StatusOK {
		return nil, fmt.Errorf("%w, status %d", ErrFetchFailed, statusCode)
	}

	body := make([]byte, len(resp.Body()))
	copy(body, resp.Body())
	return body, nil
}

// ExtractInitialState locates the server-rendered state blob, strips
// the JavaScript-only tokens out of it and parses the rest as strict
// JSON. Any failure yields nil rather than an error so callers can
// produce one uniform extraction failure.
func ExtractInitialState(html []byte) *InitialState {
	matches := scriptRegex.FindSubmatch(html)
	if len(matches) < 2 {
		return nil
	}

	sanitized := jsTokenReplacer.Replace(string(matches[1]))

	var state InitialState
	if err := json.Unmarshal([]byte(sanitized), &state); err != nil {
		slog.Error("Error unmarshalling initial state",
			"Error", err.Error())
		return nil
	}
	return &state
}

// ExtractRecord locates the post record in the parsed state and
// normalizes it. Every field falls back to an explicit default when
// the source omits it; only a missing record is an error.
func ExtractRecord(state *InitialState, postID string) (*Note, error) {
	if state == nil {
		return nil, recordNotFound(postID)
	}
	detail, ok := state.Note.NoteDetailMap[postID]
	if !ok {
		return nil, recordNotFound(postID)
	}
	raw := detail.Note

	note := &Note{
		NoteID:  raw.NoteID,
		Type:    "image",
		Title:   raw.Title,
		Content: raw.Desc,
		Author: Author{
			UserID:   raw.User.UserID,
			Nickname: raw.User.Nickname,
			Avatar:   raw.User.Avatar,
		},
		Stats: Stats{
			Likes:    asCount(raw.InteractInfo.LikedCount),
			Collects: asCount(raw.InteractInfo.CollectedCount),
			Comments: asCount(raw.InteractInfo.CommentCount),
			Shares:   asCount(raw.InteractInfo.ShareCount),
		},
		PublishTime: formatTimestamp(raw.Time),
		Location:    raw.IPLocation,
		Tags:        []string{},
		Images:      []string{},
		Videos:      []string{},
	}

	if raw.Type == "video" {
		note.Type = "video"
	}

	for _, tag := range raw.TagList {
		if tag.Name != "" {
			note.Tags = append(note.Tags, tag.Name)
		}
	}

	for _, image := range raw.ImageList {
		if image.URLDefault != "" {
			note.Images = append(note.Images, image.URLDefault)
		}
	}

	if note.Type == "video" {
		key := raw.Video.Consumer.OriginVideoKey
		if key == "" {
			key = raw.Video.Consumer.OriginVideoKeySnake
		}
		if key != "" {
			note.Videos = append(note.Videos, videoCDNPrefix+key)
		}
	}

	return note, nil
}

// asCount coerces an engagement counter to a non-negative int.
// Absent, null, or non-numeric values count as zero.
func asCount(raw json.RawMessage) int {
	value := strings.Trim(string(raw), `"`)
	if value == "" || value == "null" {
		return 0
	}

	count, err := strconv.Atoi(value)
	if err != nil {
		parsed, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return 0
		}
		count = int(parsed)
	}
	if count < 0 {
		return 0
	}
	return count
}

// formatTimestamp renders an epoch timestamp as a calendar string.
// Values above ten billion are taken as milliseconds. A value that
// does not parse as a number is passed through verbatim.
func formatTimestamp(raw json.RawMessage) string {
	value := strings.Trim(string(raw), `"`)
	if value == "" || value == "null" {
		return ""
	}

	timestamp, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return value
	}
	if timestamp > 1e10 {
		timestamp /= 1000
	}
	return time.Unix(int64(timestamp), 0).Format("2006-01-02 15:04:05")
}
