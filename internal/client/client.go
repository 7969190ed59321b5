// Package client talks to the external tender REST backend. It attaches the
// session credential, unwraps the {success, message, data} envelope and maps
// failures onto the dashboard's error kinds.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/yizeng/gab/gin/gorm/tender-dashboard/internal/config"
	"github.com/yizeng/gab/gin/gorm/tender-dashboard/internal/domain"
)

// CredentialSource yields the signed-in session, if any.
type CredentialSource interface {
	Current() (domain.Session, bool)
}

type Client struct {
	http    *http.Client
	baseURL string
	creds   CredentialSource
}

// NewHTTPClient builds the transport shared by every Client.
func NewHTTPClient(conf *config.UpstreamConfig) *http.Client {
	return &http.Client{Timeout: conf.Timeout}
}

func New(httpClient *http.Client, baseURL string, creds CredentialSource) *Client {
	return &Client{
		http:    httpClient,
		baseURL: strings.TrimRight(baseURL, "/"),
		creds:   creds,
	}
}

type Request struct {
	Method string
	Path   string
	Query  url.Values
	Body   any
	Form   *Multipart
	// Public requests are sent without a credential.
	Public bool
	// Token overrides the session credential.
	Token string
}

// Do sends req and decodes the envelope's data into out when out is non-nil.
func (c *Client) Do(ctx context.Context, req Request, out any) error {
	data, err := c.do(ctx, req)
	if err != nil {
		return err
	}
	if out == nil || len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}
	if err = json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("json.Unmarshal %s %s -> %w", req.Method, req.Path, err)
	}

	return nil
}

func (c *Client) Get(ctx context.Context, path string, query url.Values, out any) error {
	return c.Do(ctx, Request{Method: http.MethodGet, Path: path, Query: query}, out)
}

func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, Request{Method: http.MethodPost, Path: path, Body: body}, out)
}

func (c *Client) Put(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, Request{Method: http.MethodPut, Path: path, Body: body}, out)
}

func (c *Client) Delete(ctx context.Context, path string) error {
	return c.Do(ctx, Request{Method: http.MethodDelete, Path: path}, nil)
}

// List fetches a list endpoint and normalises its shape.
func List[T any](ctx context.Context, c *Client, path string, filter domain.ListFilter) (domain.Page[T], error) {
	data, err := c.do(ctx, Request{Method: http.MethodGet, Path: path, Query: FilterQuery(filter)})
	if err != nil {
		return domain.Page[T]{}, err
	}

	result, err := DecodeList[T](data)
	if err != nil {
		return domain.Page[T]{}, fmt.Errorf("client.DecodeList %s -> %w", path, err)
	}

	return result.Page(filter), nil
}

// FilterQuery encodes the non-zero parts of a list filter.
func FilterQuery(f domain.ListFilter) url.Values {
	q := url.Values{}
	if f.Page > 0 {
		q.Set("page", strconv.Itoa(f.Page))
	}
	if f.Limit > 0 {
		q.Set("limit", strconv.Itoa(f.Limit))
	}
	if f.Search != "" {
		q.Set("search", f.Search)
	}
	if f.Status != "" {
		q.Set("status", f.Status)
	}
	if f.Role != "" {
		q.Set("role", f.Role)
	}

	return q
}

func (c *Client) do(ctx context.Context, req Request) (json.RawMessage, error) {
	token := req.Token
	if token == "" && !req.Public {
		session, ok := c.current()
		if !ok {
			return nil, Unauthenticated()
		}
		token = session.Credential
	}

	httpReq, err := c.newRequest(ctx, req)
	if err != nil {
		return nil, err
	}
	if token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+token)
	}
	httpReq.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(httpReq)
	if err != nil {
		zap.L().Warn("upstream call failed",
			zap.String("method", req.Method),
			zap.String("path", req.Path),
			zap.Error(err))
		return nil, &Error{Kind: ErrNetwork, Status: http.StatusBadGateway, Message: msgNetwork, cause: err}
	}
	defer resp.Body.Close()

	zap.L().Debug("upstream call",
		zap.String("method", req.Method),
		zap.String("path", req.Path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("latency", time.Since(start)))

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Error{Kind: ErrNetwork, Status: http.StatusBadGateway, Message: msgNetwork, cause: err}
	}

	return decodeResponse(resp.StatusCode, body)
}

func (c *Client) current() (domain.Session, bool) {
	if c.creds == nil {
		return domain.Session{}, false
	}

	return c.creds.Current()
}

func (c *Client) newRequest(ctx context.Context, req Request) (*http.Request, error) {
	target := c.baseURL + "/" + strings.TrimLeft(req.Path, "/")
	if len(req.Query) > 0 {
		target += "?" + req.Query.Encode()
	}

	var (
		body        io.Reader
		contentType string
	)
	switch {
	case req.Form != nil:
		encoded, ct, err := req.Form.Encode()
		if err != nil {
			return nil, fmt.Errorf("req.Form.Encode -> %w", err)
		}
		body, contentType = encoded, ct
	case req.Body != nil:
		b, err := json.Marshal(req.Body)
		if err != nil {
			return nil, fmt.Errorf("json.Marshal -> %w", err)
		}
		body, contentType = bytes.NewReader(b), "application/json"
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, target, body)
	if err != nil {
		return nil, fmt.Errorf("http.NewRequestWithContext -> %w", err)
	}
	if contentType != "" {
		httpReq.Header.Set("Content-Type", contentType)
	}

	return httpReq, nil
}

func decodeResponse(status int, body []byte) (json.RawMessage, error) {
	ok := status >= 200 && status < 300
	if ok && len(bytes.TrimSpace(body)) == 0 {
		return nil, nil
	}

	var env envelope
	decodeErr := json.Unmarshal(body, &env)

	if ok {
		if decodeErr != nil {
			return nil, &Error{Kind: ErrNetwork, Status: http.StatusBadGateway, Message: msgNetwork,
				cause: fmt.Errorf("decode envelope -> %w", decodeErr)}
		}
		if env.Success != nil && !*env.Success {
			return nil, &Error{Kind: ErrValidation, Status: http.StatusUnprocessableEntity,
				Message: env.Message, Fields: decodeFields(env.Errors)}
		}
		return env.Data, nil
	}

	kind := kindForStatus(status)
	e := &Error{Kind: kind, Status: status, Message: env.Message}
	if decodeErr == nil {
		e.Fields = decodeFields(env.Errors)
	}

	switch {
	case errors.Is(kind, ErrNetwork):
		e.Status = http.StatusBadGateway
		if e.Message == "" {
			e.Message = msgNetwork
		}
	case errors.Is(kind, ErrUnauthenticated) && e.Message == "":
		e.Message = msgUnauthenticated
	case errors.Is(kind, ErrValidation):
		e.Status = http.StatusUnprocessableEntity
	}

	return nil, e
}
