package client

import (
	"bytes"
	"context"
	"net/url"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/aydevelopers/adminconsole/internal/client/models"
	"github.com/aydevelopers/adminconsole/internal/common"
	"github.com/aydevelopers/adminconsole/internal/logging"
	"github.com/google/uuid"
	"github.com/valyala/fasthttp"
)

const DefaultRequestTimeout = 10 * time.Second

// TokenSource returns the bearer token to send, or "" for none.
type TokenSource func(ctx context.Context) string

type Option func(*HTTPClient)

func WithEndpoints(e Endpoints) Option {
	return func(c *HTTPClient) { c.endpoints = e }
}

func WithTimeout(d time.Duration) Option {
	return func(c *HTTPClient) {
		if d > 0 {
			c.timeout = d
		}
	}
}

func WithTokenSource(ts TokenSource) Option {
	return func(c *HTTPClient) { c.token = ts }
}

func WithLogger(l logging.Logger) Option {
	return func(c *HTTPClient) { c.logger = l }
}

// WithDoer replaces the underlying fasthttp client, e.g. with one dialing an
// in-memory listener.
func WithDoer(hc *fasthttp.Client) Option {
	return func(c *HTTPClient) { c.hc = hc }
}

type HTTPClient struct {
	baseURL   string
	endpoints Endpoints
	timeout   time.Duration
	token     TokenSource
	logger    logging.Logger
	hc        *fasthttp.Client
}

func NewHTTPClient(baseURL string, opts ...Option) *HTTPClient {
	c := &HTTPClient{
		baseURL:   strings.TrimRight(baseURL, "/"),
		endpoints: DefaultEndpoints(),
		timeout:   DefaultRequestTimeout,
		token:     func(context.Context) string { return "" },
		logger:    logging.Nop(),
		hc: &fasthttp.Client{
			Name:                "adminconsole",
			MaxIdleConnDuration: 30 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// withID appends a path-escaped id to an endpoint prefix.
func withID(prefix, id string) string {
	return prefix + url.PathEscape(id)
}

func (c *HTTPClient) SignIn(ctx context.Context, in models.SignInRequest) (models.SignInResponse, error) {
	var out models.SignInResponse
	err := c.do(ctx, fasthttp.MethodPost, c.endpoints.SignIn, in, &out)
	return out, err
}

func (c *HTTPClient) SignUp(ctx context.Context, in models.SignUpRequest) error {
	return c.do(ctx, fasthttp.MethodPost, c.endpoints.SignUp, in, nil)
}

type userEnvelope struct {
	User models.User `json:"user"`
}

func (c *HTTPClient) GetUser(ctx context.Context, id string) (models.User, error) {
	var out userEnvelope
	err := c.do(ctx, fasthttp.MethodGet, withID(c.endpoints.UserData, id), nil, &out)
	return out.User, err
}

type profileUpdateRequest struct {
	UserID string `json:"userId"`
	models.ProfileUpdate
}

func (c *HTTPClient) UpdateProfile(ctx context.Context, userID string, upd models.ProfileUpdate) (models.User, error) {
	var out userEnvelope
	err := c.do(ctx, fasthttp.MethodPatch, c.endpoints.UserUpdate, profileUpdateRequest{UserID: userID, ProfileUpdate: upd}, &out)
	return out.User, err
}

func (c *HTTPClient) SetPassword(ctx context.Context, userID string, change models.PasswordChange) error {
	return c.do(ctx, fasthttp.MethodPatch, withID(c.endpoints.SetPassword, userID), change, nil)
}

func (c *HTTPClient) ListUsers(ctx context.Context) ([]models.User, error) {
	return list[models.User](ctx, c, c.endpoints.GetUsers, "users")
}

func (c *HTTPClient) ListProducts(ctx context.Context) ([]models.Product, error) {
	return list[models.Product](ctx, c, c.endpoints.GetProducts, "products")
}

func (c *HTTPClient) ListTickets(ctx context.Context) ([]models.Ticket, error) {
	return list[models.Ticket](ctx, c, c.endpoints.GetTickets, "tickets")
}

func (c *HTTPClient) ListSales(ctx context.Context) ([]models.Sale, error) {
	return list[models.Sale](ctx, c, c.endpoints.GetSales, "data")
}

func (c *HTTPClient) ListPromotions(ctx context.Context, userID string) ([]models.Promotion, error) {
	return list[models.Promotion](ctx, c, withID(c.endpoints.GetPromotions, userID), "promotions")
}

// balanceEnvelope covers both shapes the backend uses: the balance at the top
// level and bank details nested under "data".
type balanceEnvelope struct {
	WalletBalance float64             `json:"walletBalance"`
	BankDetails   *models.BankDetails `json:"bankDetails"`
	Data          struct {
		WalletBalance *float64            `json:"walletBalance"`
		BankDetails   *models.BankDetails `json:"bankDetails"`
	} `json:"data"`
}

func (c *HTTPClient) AccountBalance(ctx context.Context, userID string) (models.AccountBalance, error) {
	var env balanceEnvelope
	if err := c.do(ctx, fasthttp.MethodGet, withID(c.endpoints.AccountBalance, userID), nil, &env); err != nil {
		return models.AccountBalance{}, err
	}
	out := models.AccountBalance{WalletBalance: env.WalletBalance, BankDetails: env.BankDetails}
	if env.Data.WalletBalance != nil {
		out.WalletBalance = *env.Data.WalletBalance
	}
	if env.Data.BankDetails != nil {
		out.BankDetails = env.Data.BankDetails
	}
	return out, nil
}

func (c *HTTPClient) Ping(ctx context.Context) error {
	return c.do(ctx, fasthttp.MethodGet, c.endpoints.Ping, nil, nil)
}

// list decodes either a bare JSON array or an object holding the array under
// field.
func list[T any](ctx context.Context, c *HTTPClient, path, field string) ([]T, error) {
	var raw json.RawMessage
	if err := c.do(ctx, fasthttp.MethodGet, path, nil, &raw); err != nil {
		return nil, err
	}
	return decodeList[T](raw, field)
}

func decodeList[T any](raw []byte, field string) ([]T, error) {
	raw = bytes.TrimSpace(raw)
	out := []T{}
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return out, nil
	}
	if raw[0] == '[' {
		if err := json.Unmarshal(raw, &out); err != nil {
			return nil, fmt.Errorf("decode list: %w", err)
		}
		return out, nil
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		return nil, fmt.Errorf("decode list: %w", err)
	}
	inner, ok := obj[field]
	if !ok {
		return out, nil
	}
	return decodeList[T](inner, field)
}

func (c *HTTPClient) do(ctx context.Context, method, path string, in, out any) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	release := func() {
		fasthttp.ReleaseRequest(req)
		fasthttp.ReleaseResponse(resp)
	}

	requestID := uuid.NewString()
	req.SetRequestURI(c.baseURL + path)
	// keep escaped ids such as %2F intact
	req.URI().DisablePathNormalizing = true
	req.Header.SetMethod(method)
	req.Header.Set(fasthttp.HeaderAccept, "application/json")
	req.Header.Set(common.RequestIDHeaderName, requestID)
	if token := c.token(ctx); token != "" {
		req.Header.Set(common.AuthorizationHeaderName, "Bearer "+token)
	}
	if in != nil {
		body, err := json.Marshal(in)
		if err != nil {
			release()
			return fmt.Errorf("encode request: %w", err)
		}
		req.Header.SetContentType("application/json")
		req.SetBodyRaw(body)
	}

	deadline := time.Now().Add(c.timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}

	errc := make(chan error, 1)
	go func() { errc <- c.hc.DoDeadline(req, resp, deadline) }()

	var err error
	select {
	case <-ctx.Done():
		// the request still owns req/resp until DoDeadline returns
		go func() {
			<-errc
			release()
		}()
		return ctx.Err()
	case err = <-errc:
	}
	defer release()

	log := c.logger.With("request_id", requestID, "method", method, "path", path)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		log.Debug(ctx, "request failed", "error", err)
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	status := resp.StatusCode()
	log.Debug(ctx, "request done", "status", status)

	if status >= fasthttp.StatusBadRequest {
		return statusError(status, resp.Body())
	}

	if out == nil || len(bytes.TrimSpace(resp.Body())) == 0 {
		return nil
	}
	if err := json.Unmarshal(resp.Body(), out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func statusError(status int, body []byte) error {
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	_ = json.Unmarshal(body, &payload)
	msg := payload.Message
	if msg == "" {
		msg = payload.Error
	}

	apiErr := &APIError{Status: status, Message: msg}
	switch status {
	case fasthttp.StatusUnauthorized, fasthttp.StatusForbidden:
		apiErr.kind = ErrUnauthorized
	case fasthttp.StatusNotFound:
		apiErr.kind = common.ErrorNotFound
	case fasthttp.StatusBadGateway, fasthttp.StatusServiceUnavailable, fasthttp.StatusGatewayTimeout:
		apiErr.kind = ErrUnavailable
	}
	return apiErr
}

var _ Client = (*HTTPClient)(nil)
