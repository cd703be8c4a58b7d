package utils

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/valyala/fasthttp"
	"github.com/valyala/fasthttp/fasthttpproxy"
)

type FastHTTPCaller struct {
	Client *fasthttp.Client
}

var DefaultHTTPCaller = &FastHTTPCaller{
	Client: &fasthttp.Client{
		ReadBufferSize:  16 * 1024,
		MaxConnsPerHost: 1024,
		ReadTimeout:     30 * time.Second,
		WriteTimeout:    30 * time.Second,
	},
}

// SetSocksProxy routes the default caller through a SOCKS5 proxy.
// Must be called before the first request is issued.
func SetSocksProxy(addr string) {
	if addr != "" {
		DefaultHTTPCaller.Client.Dial = fasthttpproxy.FasthttpSocksDialer(addr)
	}
}

type RequestParams struct {
	Method     string            // "GET", "HEAD", "OPTIONS" or "POST"
	Redirects  int               // Number of redirects to follow
	Timeout    time.Duration     // Per-request deadline, zero means client default
	Headers    map[string]string // Common headers for all methods
	Query      map[string]string // Query parameters
	BodyString []string          // Body of the request for POST
}

func (a FastHTTPCaller) Call(url string, params RequestParams) (*fasthttp.Request, *fasthttp.Response, error) {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()

	req.Header.SetMethod(params.Method)
	for key, value := range params.Headers {
		req.Header.Set(key, value)
	}

	switch params.Method {
	case fasthttp.MethodGet, fasthttp.MethodHead, fasthttp.MethodOptions:
		req.SetRequestURI(url)
		for key, value := range params.Query {
			req.URI().QueryArgs().Add(key, value)
		}
	case fasthttp.MethodPost:
		req.SetBodyString(strings.Join(params.BodyString, "&"))
		req.SetRequestURI(url)
	default:
		return nil, nil, fmt.Errorf("unsupported method: %s", params.Method)
	}

	var err error
	switch {
	case params.Redirects > 0:
		// DoRedirects rewrites the request URI as it follows the
		// chain, so req.URI() ends up holding the final location.
		err = a.Client.DoRedirects(req, resp, params.Redirects)
	case params.Timeout > 0:
		err = a.Client.DoTimeout(req, resp, params.Timeout)
	default:
		err = a.Client.Do(req, resp)
	}

	if err != nil {
		if strings.Contains(err.Error(), "missing port in address") {
			return req, resp, nil
		}
		return nil, nil, fmt.Errorf("request error: %w", err)
	}

	return req, resp, nil
}

func Request(link string, params RequestParams) (*fasthttp.Request, *fasthttp.Response, error) {
	return DefaultHTTPCaller.Call(link, params)
}

type RetryCaller struct {
	Caller       *FastHTTPCaller
	MaxAttempts  int
	ExponentBase float64
	StartDelay   time.Duration
	MaxDelay     time.Duration
}

var ErrMaxRetryAttempts = errors.New("max retry attempts reached")

func (r *RetryCaller) Request(url string, params RequestParams) (*fasthttp.Request, *fasthttp.Response, error) {
	var req *fasthttp.Request
	var resp *fasthttp.Response
	var err error

	for i := 0; i < r.MaxAttempts; i++ {
		req, resp, err = r.Caller.Call(url, params)
		if err == nil {
			return req, resp, nil
		}

		if i == r.MaxAttempts-1 {
			break
		}

		delay := time.Duration(math.Pow(r.ExponentBase, float64(i))) * r.StartDelay
		if delay > r.MaxDelay {
			delay = r.MaxDelay
		}
		time.Sleep(delay)
	}

	return nil, nil, errors.Join(err, ErrMaxRetryAttempts)
}

func ReleaseRequestResources(request *fasthttp.Request, response *fasthttp.Response) {
	if request != nil {
		fasthttp.ReleaseRequest(request)
	}
	if response != nil {
		fasthttp.ReleaseResponse(response)
	}
}
