// Package transport implements the HTTP engine shared by every forge
// adapter: request execution, auth header injection, response buffering,
// pagination-link chaining, list accumulation, and raw/multipart uploads.
//
// The engine never retries; retry policy is the caller's responsibility.
package transport

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/herrhotzenplotz/gcli"
)

// ErrorStringer extracts a human diagnostic from an error response body,
// the Go analogue of a backend's get_api_error_string.
type ErrorStringer func(body []byte) string

// Client is the persistent HTTP client owned by one gcli.Context.
type Client struct {
	BaseURL     string
	AuthHeader  string // full "Authorization" header value, "" to omit
	UserAgent   string
	ErrorString ErrorStringer

	HTTP *http.Client

	mu               sync.Mutex
	rateLimitRemain  string
}

// New builds a Client. If httpClient is nil, http.DefaultClient is used. If
// errFn is nil, the raw body is used verbatim as the diagnostic.
func New(baseURL, authHeader, userAgent string, httpClient *http.Client, errFn ErrorStringer) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if errFn == nil {
		errFn = func(body []byte) string { return strings.TrimSpace(string(body)) }
	}
	return &Client{
		BaseURL:     strings.TrimRight(baseURL, "/"),
		AuthHeader:  authHeader,
		UserAgent:   userAgent,
		ErrorString: errFn,
		HTTP:        httpClient,
	}
}

// LastRateLimitRemaining returns the most recently observed
// X-RateLimit-Remaining / RateLimit-Remaining response header value, or ""
// if none has been seen. This is pure observability — it never influences
// retry behavior, because the engine never retries.
func (c *Client) LastRateLimitRemaining() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.rateLimitRemain
}

func (c *Client) recordRateLimit(h http.Header) {
	v := h.Get("X-RateLimit-Remaining")
	if v == "" {
		v = h.Get("RateLimit-Remaining")
	}
	if v == "" {
		return
	}
	c.mu.Lock()
	c.rateLimitRemain = v
	c.mu.Unlock()
}

func (c *Client) newRequest(ctx context.Context, method, rawurl string, payload []byte) (*http.Request, error) {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, rawurl, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/vnd.github.v3+json")
	req.Header.Set("Content-Type", "application/json")
	if c.UserAgent != "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}
	if c.AuthHeader != "" {
		req.Header.Set("Authorization", c.AuthHeader)
	}
	return req, nil
}

// do executes req, buffering the full body and classifying any terminal
// status of 300 or above as an *gcli.HTTPError and transport failures as a
// *gcli.TransportError.
func (c *Client) do(ctx context.Context, req *http.Request) (body []byte, resp *http.Response, err error) {
	resp, err = c.HTTP.Do(req)
	if err != nil {
		return nil, nil, &gcli.TransportError{URL: req.URL.String(), Reason: err}
	}
	defer resp.Body.Close()

	c.recordRateLimit(resp.Header)

	body, readErr := io.ReadAll(resp.Body)
	if readErr != nil {
		return nil, resp, &gcli.TransportError{URL: req.URL.String(), Reason: readErr}
	}

	if resp.StatusCode >= 300 {
		return nil, resp, &gcli.HTTPError{
			URL:        req.URL.String(),
			StatusCode: resp.StatusCode,
			Message:    c.ErrorString(body),
		}
	}

	return body, resp, nil
}

// Fetch performs a GET with auth against rawurl, returning the response
// body and the next-page URL parsed from the Link header, if any.
func (c *Client) Fetch(ctx context.Context, rawurl string) (body []byte, next string, err error) {
	return c.FetchWithMethod(ctx, http.MethodGet, rawurl, nil)
}

// FetchWithMethod performs method against rawurl with an optional JSON
// payload, returning the response body and the next-page URL.
func (c *Client) FetchWithMethod(ctx context.Context, method, rawurl string, payload []byte) (body []byte, next string, err error) {
	req, err := c.newRequest(ctx, method, rawurl, payload)
	if err != nil {
		return nil, "", err
	}
	body, resp, err := c.do(ctx, req)
	if err != nil {
		return nil, "", err
	}
	next = ParseNextLink(resp.Header.Get("Link"))
	return body, next, nil
}

// TestSuccess performs a GET classifying purely by HTTP status: 1 if the
// resource exists (2xx), 0 if it is reported absent (404), and an error for
// any other outcome.
func (c *Client) TestSuccess(ctx context.Context, rawurl string) (int, error) {
	req, err := c.newRequest(ctx, http.MethodGet, rawurl, nil)
	if err != nil {
		return -1, err
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return -1, &gcli.TransportError{URL: rawurl, Reason: err}
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	c.recordRateLimit(resp.Header)

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return 1, nil
	case resp.StatusCode == http.StatusNotFound:
		return 0, nil
	default:
		return -1, &gcli.HTTPError{URL: rawurl, StatusCode: resp.StatusCode, Message: c.ErrorString(nil)}
	}
}

// Curl streams the body of a GET against rawurl directly to w, with no
// in-memory buffering beyond what net/http performs internally. contentType
// is sent as the Accept header when non-empty, overriding the default.
func (c *Client) Curl(ctx context.Context, w io.Writer, rawurl, contentType string) error {
	req, err := c.newRequest(ctx, http.MethodGet, rawurl, nil)
	if err != nil {
		return err
	}
	if contentType != "" {
		req.Header.Set("Accept", contentType)
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return &gcli.TransportError{URL: rawurl, Reason: err}
	}
	defer resp.Body.Close()
	c.recordRateLimit(resp.Header)

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return &gcli.HTTPError{URL: rawurl, StatusCode: resp.StatusCode, Message: c.ErrorString(body)}
	}
	if _, err := io.Copy(w, resp.Body); err != nil {
		return &gcli.TransportError{URL: rawurl, Reason: err}
	}
	return nil
}

// PostUpload issues a raw-body POST (no JSON headers) to rawurl, used for
// binary asset uploads such as GitHub release assets.
func (c *Client) PostUpload(ctx context.Context, rawurl, contentType string, payload []byte) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, rawurl, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", contentType)
	if c.UserAgent != "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}
	if c.AuthHeader != "" {
		req.Header.Set("Authorization", c.AuthHeader)
	}
	body, _, err := c.do(ctx, req)
	return body, err
}

// GiteaUploadAttachment performs a multipart/form-data POST uploading the
// file at path as form field "attachment", reading it lazily rather than
// buffering the whole file ahead of time.
func (c *Client) GiteaUploadAttachment(ctx context.Context, rawurl, path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &gcli.LocalIOError{Path: path, Reason: err}
	}
	defer f.Close()

	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)

	go func() {
		defer pw.Close()
		defer mw.Close()
		part, err := mw.CreateFormFile("attachment", filepath.Base(path))
		if err != nil {
			pw.CloseWithError(err)
			return
		}
		if _, err := io.Copy(part, f); err != nil {
			pw.CloseWithError(err)
			return
		}
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, rawurl, pr)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if c.UserAgent != "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}
	if c.AuthHeader != "" {
		req.Header.Set("Authorization", c.AuthHeader)
	}

	body, _, err := c.do(ctx, req)
	return body, err
}

// ParseNextLink extracts the rel="next" URL from a comma-separated RFC 8288
// Link header, or "" if none is present.
func ParseNextLink(header string) string {
	header = strings.TrimSpace(header)
	if header == "" {
		return ""
	}
	for _, part := range strings.Split(header, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		pieces := strings.SplitN(part, ";", 2)
		if len(pieces) < 2 {
			continue
		}
		urlPart := strings.TrimSpace(pieces[0])
		relPart := strings.TrimSpace(pieces[1])
		if !strings.Contains(relPart, `rel="next"`) {
			continue
		}
		urlPart = strings.TrimPrefix(urlPart, "<")
		urlPart = strings.TrimSuffix(urlPart, ">")
		return urlPart
	}
	return ""
}

// FetchList drives pagination: it repeatedly fetches rawurl, parses each
// body into items of type T, appends them to the accumulated list in
// server order, applies filter (if non-nil) to the whole accumulated list,
// then follows the next-page URL until max is reached, there is no next
// URL, or a fetch/parse fails. On failure the partial accumulation is
// discarded.
func FetchList[T any](ctx context.Context, c *Client, rawurl string, max int, parse func(body []byte) ([]T, error), filter func([]T) []T) ([]T, error) {
	var out []T
	for rawurl != "" {
		body, next, err := c.Fetch(ctx, rawurl)
		if err != nil {
			return nil, err
		}
		items, err := parse(body)
		if err != nil {
			return nil, err
		}
		out = append(out, items...)
		if filter != nil {
			out = filter(out)
		}
		rawurl = next
		if max >= 0 && len(out) >= max {
			break
		}
	}
	if max >= 0 && len(out) > max {
		out = out[:max]
	}
	return out, nil
}

// URLEncode percent-encodes s for safe inclusion in a URL path segment or
// query value.
func URLEncode(s string) string { return strings.ReplaceAll(url.QueryEscape(s), "+", "%20") }

// URLDecode reverses URLEncode. An error is wrapped as an *gcli.InputError.
func URLDecode(s string) (string, error) {
	out, err := url.QueryUnescape(s)
	if err != nil {
		return "", &gcli.InputError{Reason: fmt.Sprintf("invalid percent-encoding: %s", err)}
	}
	return out, nil
}

// AddOptions appends values (typically built via go-querystring's
// query.Values over a per-endpoint options struct) to rawurl.
func AddOptions(rawurl string, values url.Values) string {
	if len(values) == 0 {
		return rawurl
	}
	u, err := url.Parse(rawurl)
	if err != nil {
		return rawurl
	}
	q := u.Query()
	for k, vs := range values {
		for _, v := range vs {
			q.Add(k, v)
		}
	}
	u.RawQuery = q.Encode()
	return u.String()
}

// FormatInt is a tiny helper kept local so adapters don't need to import
// strconv solely for building numeric path segments.
func FormatInt(n int64) string { return strconv.FormatInt(n, 10) }
