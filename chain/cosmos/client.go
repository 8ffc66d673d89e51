package cosmos

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-resty/resty/v2"

	"github.com/DA0-DA0/cw-dao-dapp-sub000/chain"
	"github.com/DA0-DA0/cw-dao-dapp-sub000/internal/retry"
	"github.com/DA0-DA0/cw-dao-dapp-sub000/pkg/logger"
)

var (
	// ErrNoTxEncoder is returned by Simulate when the client has no TxEncoder.
	ErrNoTxEncoder = errors.New("no tx encoder configured")
	// ErrSimulationFailed is returned when the chain rejects a simulated transaction.
	ErrSimulationFailed = errors.New("simulation failed")
	// ErrQueryFailed is returned when the chain rejects a smart query.
	ErrQueryFailed = errors.New("query failed")
)

var (
	_ chain.Client         = (*Client)(nil)
	_ chain.CodeHashClient = (*Client)(nil)
)

// TxEncoder builds unsigned transaction bytes suitable for simulation. The protobuf codecs for
// the chain's messages live outside this module, so callers provide the encoder.
type TxEncoder interface {
	EncodeSimulateTx(ctx context.Context, chainID, sender string, msgs []chain.CosmosMsg) ([]byte, error)
}

// Client talks to a chain's REST (LCD) API. Reads are retried; simulations are not.
type Client struct {
	chainID string
	rest    *resty.Client
	retry   retry.Config
	encoder TxEncoder
	lggr    logger.Logger
}

// ClientOpt configures a Client.
type ClientOpt func(*Client)

// WithRetry sets the number of attempts and base delay for read calls.
func WithRetry(cfg retry.Config) ClientOpt {
	return func(c *Client) {
		c.retry = cfg
	}
}

// WithTxEncoder sets the encoder used to build simulation transactions.
func WithTxEncoder(enc TxEncoder) ClientOpt {
	return func(c *Client) {
		c.encoder = enc
	}
}

// WithLogger sets the client logger.
func WithLogger(lggr logger.Logger) ClientOpt {
	return func(c *Client) {
		c.lggr = lggr
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) ClientOpt {
	return func(c *Client) {
		c.rest = resty.NewWithClient(hc).
			SetBaseURL(c.rest.BaseURL).
			SetHeader("Accept", "application/json")
	}
}

// NewClient returns a client for chainID served at baseURL.
func NewClient(chainID, baseURL string, opts ...ClientOpt) *Client {
	c := &Client{
		chainID: chainID,
		rest: resty.New().
			SetBaseURL(strings.TrimRight(baseURL, "/")).
			SetHeader("Accept", "application/json"),
		retry: retry.DefaultConfig,
		lggr:  logger.Nop(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// ChainID returns the chain this client is bound to.
func (c *Client) ChainID() string {
	return c.chainID
}

type smartQueryResponse struct {
	Data json.RawMessage `json:"data"`
}

type errorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// QuerySmart implements chain.Client.
func (c *Client) QuerySmart(ctx context.Context, address string, msg any, out any) error {
	raw, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to encode query for %s: %w", address, err)
	}
	path := fmt.Sprintf("/cosmwasm/wasm/v1/contract/%s/smart/%s",
		url.PathEscape(address), url.PathEscape(base64.StdEncoding.EncodeToString(raw)))

	res, err := retry.Do(ctx, c.retry, func(ctx context.Context) (smartQueryResponse, error) {
		var body smartQueryResponse
		resp, err := c.rest.R().SetContext(ctx).SetResult(&body).Get(path)
		if err != nil {
			return body, err
		}
		if resp.IsError() {
			return body, c.responseError(resp, ErrQueryFailed)
		}

		return body, nil
	})
	if err != nil {
		return fmt.Errorf("smart query to %s on %s: %w", address, c.chainID, err)
	}

	c.lggr.Debugw("Smart query", "chain_id", c.chainID, "address", address, "query", string(raw))

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(res.Data, out); err != nil {
		return fmt.Errorf("failed to decode query response from %s: %w", address, err)
	}

	return nil
}

type codeHashResponse struct {
	CodeHash string `json:"code_hash"`
}

// ContractCodeHash implements chain.CodeHashClient for Secret Network's compute module.
func (c *Client) ContractCodeHash(ctx context.Context, address string) (string, error) {
	path := "/compute/v1beta1/code_hash/by_contract_address/" + url.PathEscape(address)

	res, err := retry.Do(ctx, c.retry, func(ctx context.Context) (codeHashResponse, error) {
		var body codeHashResponse
		resp, err := c.rest.R().SetContext(ctx).SetResult(&body).Get(path)
		if err != nil {
			return body, err
		}
		if resp.IsError() {
			return body, c.responseError(resp, ErrQueryFailed)
		}

		return body, nil
	})
	if err != nil {
		return "", fmt.Errorf("code hash of %s on %s: %w", address, c.chainID, err)
	}

	return res.CodeHash, nil
}

type simulateRequest struct {
	TxBytes string `json:"tx_bytes"`
}

type simulateResponse struct {
	GasInfo struct {
		GasWanted string `json:"gas_wanted"`
		GasUsed   string `json:"gas_used"`
	} `json:"gas_info"`
}

// Simulate implements chain.Simulator. It is never retried: a rejected simulation is the
// answer, not a transient failure.
func (c *Client) Simulate(ctx context.Context, sender string, msgs []chain.CosmosMsg) error {
	if c.encoder == nil {
		return ErrNoTxEncoder
	}

	txBytes, err := c.encoder.EncodeSimulateTx(ctx, c.chainID, sender, msgs)
	if err != nil {
		return fmt.Errorf("failed to encode simulation tx: %w", err)
	}

	var body simulateResponse
	resp, err := c.rest.R().
		SetContext(ctx).
		SetBody(simulateRequest{TxBytes: base64.StdEncoding.EncodeToString(txBytes)}).
		SetResult(&body).
		Post("/cosmos/tx/v1beta1/simulate")
	if err != nil {
		return fmt.Errorf("simulate on %s: %w", c.chainID, err)
	}
	if resp.IsError() {
		return fmt.Errorf("simulate on %s: %w", c.chainID, c.responseError(resp, ErrSimulationFailed))
	}

	c.lggr.Debugw("Simulated messages",
		"chain_id", c.chainID, "sender", sender, "msgs", len(msgs), "gas_used", body.GasInfo.GasUsed)

	return nil
}

// responseError turns an error response into an error wrapping sentinel. Client errors and
// contract errors are not retried.
func (c *Client) responseError(resp *resty.Response, sentinel error) error {
	var body errorResponse
	msg := resp.String()
	if err := json.Unmarshal(resp.Body(), &body); err == nil && body.Message != "" {
		msg = body.Message
	}

	err := fmt.Errorf("%w: status %d: %s", sentinel, resp.StatusCode(), msg)
	if resp.StatusCode() < http.StatusInternalServerError || body.Code != 0 {
		return retry.Unrecoverable(err)
	}

	return err
}
