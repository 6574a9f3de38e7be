package wechat

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"time"

	apperrors "github.com/xdf2508/e-family/pkg/errors"
)

// DefaultBaseURL is the WeChat Mini Program API host.
const DefaultBaseURL = "https://api.weixin.qq.com"

const providerName = "wechat"

// codeLength is the expected length of a jscode2session login code.
const codeLength = 6

// Session is the provider credential pair returned for a valid login code.
// The session key is handed back to the caller and never stored.
type Session struct {
	OpenID     string
	SessionKey string
}

// httpGetter is the transport surface the client needs. The production
// wiring passes a circuit-breaker wrapped HTTP client with retries disabled;
// the code exchange is not idempotent so a request must never be replayed.
type httpGetter interface {
	Get(ctx context.Context, url string) (*http.Response, error)
}

// Config holds the WeChat API credentials and call policy.
type Config struct {
	AppID     string
	AppSecret string
	BaseURL   string
	Timeout   time.Duration
}

// Client exchanges Mini Program login codes for provider sessions.
type Client struct {
	cfg    Config
	http   httpGetter
	logger *slog.Logger
}

// NewClient creates a WeChat API client. BaseURL defaults to the production
// host and Timeout to 5 seconds.
func NewClient(cfg Config, httpClient httpGetter, logger *slog.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Second
	}
	return &Client{cfg: cfg, http: httpClient, logger: logger}
}

// jscode2sessionResponse mirrors the provider's response body. On failure the
// provider returns HTTP 200 with a non-zero errcode.
type jscode2sessionResponse struct {
	OpenID     string `json:"openid"`
	SessionKey string `json:"session_key"`
	UnionID    string `json:"unionid"`
	ErrCode    int    `json:"errcode"`
	ErrMsg     string `json:"errmsg"`
}

// ExchangeCode trades a login code for the user's openid and session key via
// the jscode2session endpoint. The call carries an explicit deadline and is
// never retried.
func (c *Client) ExchangeCode(ctx context.Context, code string) (*Session, error) {
	if len(code) != codeLength {
		return nil, apperrors.InvalidInput("valid code is required")
	}

	params := url.Values{}
	params.Set("appid", c.cfg.AppID)
	params.Set("secret", c.cfg.AppSecret)
	params.Set("js_code", code)
	params.Set("grant_type", "authorization_code")

	endpoint := c.cfg.BaseURL + "/sns/jscode2session?" + params.Encode()

	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	resp, err := c.http.Get(ctx, endpoint)
	if err != nil {
		if isTimeout(err) {
			c.logger.WarnContext(ctx, "wechat code exchange timed out",
				slog.Duration("timeout", c.cfg.Timeout),
			)
			return nil, apperrors.UpstreamTimeout(providerName)
		}
		c.logger.ErrorContext(ctx, "wechat code exchange failed",
			slog.String("error", err.Error()),
		)
		return nil, apperrors.Upstream(providerName, 0, "request failed")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, apperrors.Upstream(providerName, 0, fmt.Sprintf("unexpected status %d", resp.StatusCode))
	}

	var body jscode2sessionResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, apperrors.Upstream(providerName, 0, "malformed response")
	}

	if body.ErrCode != 0 {
		c.logger.WarnContext(ctx, "wechat rejected login code",
			slog.Int("errcode", body.ErrCode),
			slog.String("errmsg", body.ErrMsg),
		)
		return nil, apperrors.Upstream(providerName, body.ErrCode, body.ErrMsg)
	}

	if body.OpenID == "" {
		return nil, apperrors.Upstream(providerName, 0, "response missing openid")
	}

	return &Session{OpenID: body.OpenID, SessionKey: body.SessionKey}, nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
