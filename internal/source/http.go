package source

import (
	"bytes"
	"fmt"
	"time"

	"github.com/oritwoen/shaha-go/internal/build"
	"github.com/oritwoen/shaha-go/internal/shahaerr"
	"github.com/valyala/fasthttp"
)

// HTTP fetches a word list from an HTTP(S) URL. The body is buffered
// once (fasthttp's client API is not streaming-friendly) and then
// iterated line by line.
type HTTP struct {
	url     string
	client  *fasthttp.Client
	timeout time.Duration
	cached  []byte
}

// NewHTTP returns a source that fetches url once, on the first Words
// or ContentHash call.
func NewHTTP(url string) *HTTP {
	return &HTTP{url: url, client: &fasthttp.Client{}, timeout: 30 * time.Second}
}

func (h *HTTP) Name() string { return h.url }

func (h *HTTP) fetch() ([]byte, error) {
	if h.cached != nil {
		return h.cached, nil
	}
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(h.url)
	req.Header.SetMethod(fasthttp.MethodGet)

	if err := h.client.DoTimeout(req, resp, h.timeout); err != nil {
		return nil, shahaerr.New(shahaerr.KindSourceUnavailable, h.url, err)
	}
	if resp.StatusCode() != fasthttp.StatusOK {
		return nil, shahaerr.New(shahaerr.KindSourceUnavailable,
			fmt.Sprintf("%s: status %d", h.url, resp.StatusCode()), nil)
	}
	body := make([]byte, len(resp.Body()))
	copy(body, resp.Body())
	h.cached = body
	return body, nil
}

func (h *HTTP) Words() (build.WordIterator, error) {
	body, err := h.fetch()
	if err != nil {
		return nil, err
	}
	return newLineIterator(bytes.NewReader(body), nil), nil
}

func (h *HTTP) ContentHash() string {
	body, err := h.fetch()
	if err != nil {
		return "none"
	}
	return fingerprint(body)
}
