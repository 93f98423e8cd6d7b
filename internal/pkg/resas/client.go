package resas

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/cenkalti/backoff/v4"
	"github.com/ougirez/popchart/internal/domain/dto"
	"github.com/ougirez/popchart/internal/pkg/constants"
	"github.com/ougirez/popchart/internal/pkg/logger"
	"github.com/ougirez/popchart/internal/pkg/utils"
	"golang.org/x/time/rate"
)

const (
	PrefecturesPath = "prefectures"
	CompositionPath = "population/composition/perYear"

	DefaultBaseURL = "https://opendata.resas-portal.go.jp/api/v1/"
)

type Config struct {
	BaseURL    string
	APIKey     string
	Timeout    time.Duration
	Retries    uint64
	RatePerSec float64
}

// Client talks to the population statistics API.
type Client struct {
	baseURL    *url.URL
	apiKey     string
	httpClient *http.Client
	limiter    *rate.Limiter
	retries    uint64
}

func NewClient(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if !strings.HasSuffix(cfg.BaseURL, "/") {
		cfg.BaseURL += "/"
	}
	base, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}

	limiter := rate.NewLimiter(rate.Inf, 0)
	if cfg.RatePerSec > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RatePerSec), 1)
	}

	return &Client{
		baseURL:    base,
		apiKey:     cfg.APIKey,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		limiter:    limiter,
		retries:    cfg.Retries,
	}, nil
}

// FetchPrefectures loads the full prefecture list.
func (c *Client) FetchPrefectures(ctx context.Context) (*dto.PrefecturesResponse, error) {
	var resp dto.PrefecturesResponse
	if err := c.get(ctx, PrefecturesPath, nil, &resp); err != nil {
		return nil, err
	}
	if resp.Result == nil && resp.Message != nil {
		return nil, fmt.Errorf("%w: %s", constants.ErrUpstream, *resp.Message)
	}
	if err := utils.ValidateStruct(&resp); err != nil {
		return nil, fmt.Errorf("%w: prefectures: %w", constants.ErrMalformedResponse, err)
	}

	return &resp, nil
}

// FetchComposition loads the per-year population composition of a prefecture.
func (c *Client) FetchComposition(ctx context.Context, prefCode int) (*dto.CompositionResponse, error) {
	query := url.Values{}
	query.Set("prefCode", strconv.Itoa(prefCode))
	query.Set("cityCode", "-")

	var resp dto.CompositionResponse
	if err := c.get(ctx, CompositionPath, query, &resp); err != nil {
		return nil, err
	}
	if resp.Result == nil && resp.Message != nil {
		return nil, fmt.Errorf("%w: %s", constants.ErrUpstream, *resp.Message)
	}
	if err := utils.ValidateStruct(&resp); err != nil {
		return nil, fmt.Errorf("%w: composition, pref_code-%d: %w", constants.ErrMalformedResponse, prefCode, err)
	}

	return &resp, nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out interface{}) error {
	endpoint := c.baseURL.ResolveReference(&url.URL{Path: path, RawQuery: query.Encode()})

	var body []byte
	attempt := 0
	operation := func() error {
		attempt++
		if err := c.limiter.Wait(ctx); err != nil {
			return backoff.Permanent(err)
		}

		start := time.Now()
		logger.Debugw(ctx, "population api request", "method", http.MethodGet, "url", endpoint.Redacted(), "attempt", attempt)

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("create request: %w", err))
		}
		if c.apiKey != "" {
			req.Header.Set(constants.HeaderAPIKey, c.apiKey)
		}
		req.Header.Set("Accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			logger.Warnf(ctx, "population api %s attempt %d: %s", path, attempt, err.Error())
			return fmt.Errorf("http.Do: %w", err)
		}
		defer resp.Body.Close()

		logger.Debugw(ctx, "population api response", "path", path, "status", resp.StatusCode, "duration_ms", time.Since(start).Milliseconds())

		if resp.StatusCode != http.StatusOK {
			statusErr := fmt.Errorf("status code error: %d %s", resp.StatusCode, resp.Status)
			if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= http.StatusInternalServerError {
				return statusErr
			}
			return backoff.Permanent(statusErr)
		}

		body, err = io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("read body: %w", err)
		}
		return nil
	}

	err := backoff.Retry(operation, backoff.WithContext(
		backoff.WithMaxRetries(newBackOff(), c.retries),
		ctx,
	))
	if err != nil {
		logger.Errorf(ctx, "population api %s: %s", path, err.Error())
		if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(err, ctxErr) {
			return fmt.Errorf("%s: %w", path, err)
		}
		return fmt.Errorf("%w: %s: %w", constants.ErrUpstream, path, err)
	}

	if err := sonic.Unmarshal(body, out); err != nil {
		logger.Errorf(ctx, "population api %s: decode: %s", path, err.Error())
		return fmt.Errorf("%w: decode %s: %w", constants.ErrMalformedResponse, path, err)
	}

	return nil
}

func newBackOff() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 100 * time.Millisecond
	b.MaxInterval = 2 * time.Second
	return b
}
