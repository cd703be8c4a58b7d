package xiaohongshu_test

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"math/big"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/valyala/fasthttp"

	"github.com/jsun2020/xiaohongshuarticleextrator-sub000/internal/modules/notes/xiaohongshu"
	"github.com/jsun2020/xiaohongshuarticleextrator-sub000/internal/utils"
)

// startNoteServer serves note pages over TLS on the loopback interface
// and returns a caller that routes every outgoing request to it, so
// the canonical detail-page URLs resolve locally.
func startNoteServer(t *testing.T, handler fasthttp.RequestHandler) *utils.FastHTTPCaller {
	t.Helper()

	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		t.Fatal(err)
	}
	template := x509.Certificate{
		SerialNumber: big.NewInt(1),
		NotBefore:    time.Now().Add(-time.Hour),
		NotAfter:     time.Now().Add(time.Hour),
	}
	der, err := x509.CreateCertificate(rand.Reader, &template, &template, &key.PublicKey, key)
	if err != nil {
		t.Fatal(err)
	}

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { listener.Close() })

	tlsListener := tls.NewListener(listener, &tls.Config{
		Certificates: []tls.Certificate{{Certificate: [][]byte{der}, PrivateKey: key}},
	})
	server := &fasthttp.Server{Handler: handler}
	go server.Serve(tlsListener)

	return &utils.FastHTTPCaller{Client: &fasthttp.Client{
		Dial: func(addr string) (net.Conn, error) {
			return net.Dial("tcp", listener.Addr().String())
		},
		TLSConfig: &tls.Config{InsecureSkipVerify: true},
	}}
}

func TestGetPostEndToEnd(t *testing.T) {
	caller := startNoteServer(t, func(ctx *fasthttp.RequestCtx) {
		switch {
		case strings.HasPrefix(string(ctx.Path()), "/explore/abc123"):
			ctx.SetContentType("text/html")
			ctx.SetBody(statePage(`{"note":{"noteDetailMap":{"abc123":{"note":{"noteId":"abc123","type":"normal","title":"T","desc":"D","interactInfo":{"likedCount":"12"},"imageList":[{"urlDefault":"http://x/1.jpg"}]}}}}}`))
		case strings.HasPrefix(string(ctx.Path()), "/explore/bare1"):
			ctx.SetContentType("text/html")
			ctx.SetBodyString("<html><body>no state here</body></html>")
		default:
			ctx.SetStatusCode(fasthttp.StatusNotFound)
		}
	})
	extractor := xiaohongshu.NewWithCaller("web_session=s", "agent", 5*time.Second, caller)

	note, err := extractor.GetPost("看看这篇 https://www.xiaohongshu.com/explore/abc123?xsec_token=tok123 笔记")
	if err != nil {
		t.Fatal(err)
	}
	if note.NoteID != "abc123" {
		t.Fatalf("note_id - want: %q, got: %q", "abc123", note.NoteID)
	}
	if note.Title != "T" || note.Content != "D" {
		t.Fatalf("title/content - want: T/D, got: %q/%q", note.Title, note.Content)
	}
	if note.Stats.Likes != 12 {
		t.Fatalf("likes - want: 12, got: %d", note.Stats.Likes)
	}
	if len(note.Images) != 1 || note.Images[0] != "http://x/1.jpg" {
		t.Fatalf("images - want [http://x/1.jpg], got: %v", note.Images)
	}

	// A page without the state blob fails at the extraction stage.
	if _, err := extractor.GetPost("https://www.xiaohongshu.com/explore/bare1?xsec_token=t"); !errors.Is(err, xiaohongshu.ErrStateExtraction) {
		t.Fatalf("want ErrStateExtraction, got: %v", err)
	}
}

func TestGetPostFetchStatusError(t *testing.T) {
	caller := startNoteServer(t, func(ctx *fasthttp.RequestCtx) {
		ctx.SetStatusCode(fasthttp.StatusNotFound)
	})
	extractor := xiaohongshu.NewWithCaller("web_session=s", "agent", 5*time.Second, caller)

	_, err := extractor.GetPost("https://www.xiaohongshu.com/explore/missing1?xsec_token=t")
	if !errors.Is(err, xiaohongshu.ErrFetchFailed) {
		t.Fatalf("want ErrFetchFailed, got: %v", err)
	}
	if got := err.Error(); got != "request failed, status 404" {
		t.Fatalf("message - want: %q, got: %q", "request failed, status 404", got)
	}
}

func TestGetPostTransportError(t *testing.T) {
	caller := &utils.FastHTTPCaller{Client: &fasthttp.Client{
		MaxIdemponentCallAttempts: 1,
		Dial: func(addr string) (net.Conn, error) {
			return nil, errors.New("no route to host")
		},
	}}
	extractor := xiaohongshu.NewWithCaller("web_session=s", "agent", time.Second, caller)

	_, err := extractor.GetPost("https://www.xiaohongshu.com/explore/abc123?xsec_token=t")
	if !errors.Is(err, xiaohongshu.ErrFetchFailed) {
		t.Fatalf("want ErrFetchFailed, got: %v", err)
	}
	if got := err.Error(); got != "request failed, status 0" {
		t.Fatalf("message - want: %q, got: %q", "request failed, status 0", got)
	}
}
