package indexer

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-resty/resty/v2"

	"github.com/DA0-DA0/cw-dao-dapp-sub000/chain/network"
	"github.com/DA0-DA0/cw-dao-dapp-sub000/internal/retry"
	"github.com/DA0-DA0/cw-dao-dapp-sub000/pkg/logger"
)

var _ Client = (*HTTPClient)(nil)

// HTTPClient queries one indexer deployment over HTTP.
type HTTPClient struct {
	rest  *resty.Client
	retry retry.Config
	lggr  logger.Logger
}

// Option configures an HTTPClient.
type Option func(*HTTPClient)

// WithRetry sets the retry policy for indexer reads.
func WithRetry(cfg retry.Config) Option {
	return func(c *HTTPClient) {
		c.retry = cfg
	}
}

// WithLogger sets the client logger.
func WithLogger(lggr logger.Logger) Option {
	return func(c *HTTPClient) {
		c.lggr = lggr
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *HTTPClient) {
		c.rest = resty.NewWithClient(hc).SetBaseURL(c.rest.BaseURL)
	}
}

// NewHTTPClient returns a client for the indexer at baseURL.
func NewHTTPClient(baseURL string, opts ...Option) *HTTPClient {
	c := &HTTPClient{
		rest:  resty.New().SetBaseURL(strings.TrimRight(baseURL, "/")),
		retry: retry.DefaultConfig,
		lggr:  logger.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}

	return c
}

// QueryContract implements Client. The formula path is relative, e.g. "daoProposalSingle/vote".
func (c *HTTPClient) QueryContract(
	ctx context.Context, chainID, address, formula string, args map[string]string, out any,
) error {
	path := fmt.Sprintf("/%s/contract/%s/%s",
		url.PathEscape(chainID), url.PathEscape(address), strings.Trim(formula, "/"))

	body, err := retry.Do(ctx, c.retry, func(ctx context.Context) ([]byte, error) {
		resp, err := c.rest.R().SetContext(ctx).SetQueryParams(args).Get(path)
		if err != nil {
			return nil, err
		}

		switch {
		case resp.StatusCode() == http.StatusNotFound, resp.StatusCode() == http.StatusNoContent:
			return nil, retry.Unrecoverable(ErrNotFound)
		case resp.StatusCode() >= http.StatusInternalServerError:
			return nil, fmt.Errorf("indexer status %d: %s", resp.StatusCode(), resp.String())
		case resp.IsError():
			return nil, retry.Unrecoverable(fmt.Errorf("indexer status %d: %s", resp.StatusCode(), resp.String()))
		}

		return resp.Body(), nil
	})
	if err != nil {
		return fmt.Errorf("indexer %s on %s/%s: %w", formula, chainID, address, err)
	}

	trimmed := strings.TrimSpace(string(body))
	if trimmed == "" || trimmed == "null" {
		return fmt.Errorf("indexer %s on %s/%s: %w", formula, chainID, address, ErrNotFound)
	}

	c.lggr.Debugw("Indexer query", "chain_id", chainID, "address", address, "formula", formula)

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to decode indexer response for %s: %w", formula, err)
	}

	return nil
}

// Router sends each query to the indexer configured for its chain.
type Router struct {
	clients map[string]Client
}

var _ Client = (*Router)(nil)

// NewRouter builds one HTTPClient per network in cfg that has an indexer URL. Chains without
// one answer ErrDisabled.
func NewRouter(cfg *network.Config, opts ...Option) *Router {
	clients := make(map[string]Client)
	for _, n := range cfg.Networks() {
		if n.Indexer == "" {
			continue
		}
		clients[n.ChainID] = NewHTTPClient(n.Indexer, opts...)
	}

	return &Router{clients: clients}
}

// QueryContract implements Client.
func (r *Router) QueryContract(
	ctx context.Context, chainID, address, formula string, args map[string]string, out any,
) error {
	c, ok := r.clients[chainID]
	if !ok {
		return ErrDisabled
	}

	return c.QueryContract(ctx, chainID, address, formula, args, out)
}
