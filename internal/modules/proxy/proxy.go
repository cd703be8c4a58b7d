// Package proxy relays note media through this service so CDN images
// render outside the source site, which checks the Referer header.
package proxy

import (
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"

	"github.com/jsun2020/xiaohongshuarticleextrator-sub000/internal/api"
	"github.com/jsun2020/xiaohongshuarticleextrator-sub000/internal/utils"
)

var allowedHostSuffixes = []string{
	".xhscdn.com",
	".xiaohongshu.com",
}

type Module struct {
	headers map[string]string
	caller  *utils.RetryCaller
}

// NewModule builds a relay module. CDN fetches go through a retrying
// caller since transient upstream failures are common there.
func NewModule(headers map[string]string) *Module {
	return &Module{
		headers: headers,
		caller: &utils.RetryCaller{
			Caller:       utils.DefaultHTTPCaller,
			MaxAttempts:  3,
			ExponentBase: 2,
			StartDelay:   1 * time.Second,
			MaxDelay:     5 * time.Second,
		},
	}
}

func (module *Module) imageHandler(ctx *fasthttp.RequestCtx) {
	target := string(ctx.QueryArgs().Peek("url"))
	if target == "" {
		api.Failure(ctx, fasthttp.StatusBadRequest, "url is required")
		return
	}
	if !allowedTarget(target) {
		api.Failure(ctx, fasthttp.StatusForbidden, "host not allowed")
		return
	}

	req, resp, err := module.caller.Request(target, utils.RequestParams{
		Method:  fasthttp.MethodGet,
		Headers: module.headers,
	})
	if err != nil {
		slog.Error("Image relay failed",
			"URL", target,
			"Error", err.Error())
		api.Failure(ctx, fasthttp.StatusBadGateway, "could not fetch image")
		return
	}
	defer utils.ReleaseRequestResources(req, resp)

	if resp.StatusCode() != fasthttp.StatusOK {
		api.Failure(ctx, fasthttp.StatusBadGateway, "could not fetch image")
		return
	}

	body := resp.Body()
	contentType := string(resp.Header.ContentType())

	if ctx.QueryArgs().GetBool("thumb") {
		thumbnail, err := makeThumbnail(body)
		if err != nil {
			slog.Error("Thumbnail generation failed",
				"URL", target,
				"Error", err.Error())
		} else {
			body = thumbnail
			contentType = "image/jpeg"
		}
	}

	ctx.SetStatusCode(fasthttp.StatusOK)
	ctx.SetContentType(contentType)
	ctx.Response.Header.Set("Cache-Control", "public, max-age=86400")
	ctx.SetBody(body)
}

func allowedTarget(target string) bool {
	parsed, err := url.Parse(target)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		return false
	}
	host := parsed.Hostname()
	for _, suffix := range allowedHostSuffixes {
		if strings.HasSuffix(host, suffix) {
			return true
		}
	}
	return false
}

func Load(r *router.Router, module *Module) {
	r.GET("/proxy/image", module.imageHandler)
}
