package modules

import (
	"github.com/fasthttp/router"

	"github.com/jsun2020/xiaohongshuarticleextrator-sub000/internal/modules/ai"
	"github.com/jsun2020/xiaohongshuarticleextrator-sub000/internal/modules/auth"
	"github.com/jsun2020/xiaohongshuarticleextrator-sub000/internal/modules/notes"
	"github.com/jsun2020/xiaohongshuarticleextrator-sub000/internal/modules/notes/xiaohongshu"
	"github.com/jsun2020/xiaohongshuarticleextrator-sub000/internal/modules/proxy"
)

// Load registers every module's routes. A nil AI client leaves the
// rewrite and story endpoints unregistered.
func Load(r *router.Router, manager *auth.Manager, extractor *xiaohongshu.Extractor, aiClient *ai.Client) {
	verify := manager.VerifyToken

	auth.Load(r, manager)
	notes.Load(r, verify, notes.NewModule(extractor))
	proxy.Load(r, proxy.NewModule(extractor.Headers()))

	if aiClient != nil {
		ai.Load(r, verify, aiClient)
	}
}
