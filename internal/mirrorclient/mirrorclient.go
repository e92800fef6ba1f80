// Package mirrorclient implements ports.MirrorPort against a live Mirror
// Node REST indexer over plain net/http, the same direct-http-client
// shape the pack's other JSON-RPC relay providers use rather than a
// third-party REST client library (no such library appears anywhere in
// the retrieved examples, so the standard library is the grounded
// choice here).
package mirrorclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/pkg/errors"

	"github.com/relaymesh/eth-relay/internal/ports"
)

// Client is a thin, stateless REST client: one method per MirrorPort
// operation, each a GET against the configured base URL followed by a
// JSON decode into the wire shape and a translation into the ports
// response type.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New builds a Client against baseURL (e.g. "https://mainnet.mirrornode.example/api/v1").
func New(baseURL string) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out interface{}) (int, error) {
	u := c.baseURL + path
	if query != nil {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return 0, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return resp.StatusCode, ports.ErrNotFound
	}
	if resp.StatusCode >= 400 {
		return resp.StatusCode, errors.Errorf("mirrorclient: %s returned status %d", path, resp.StatusCode)
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return resp.StatusCode, errors.Wrapf(err, "mirrorclient: decoding %s", path)
		}
	}
	return resp.StatusCode, nil
}

type blockWire struct {
	Number       int64  `json:"number"`
	Hash         string `json:"hash"`
	PreviousHash string `json:"previous_hash"`
	Timestamp    struct {
		From string `json:"from"`
		To   string `json:"to"`
	} `json:"timestamp"`
	Size    int64 `json:"size"`
	Count   int   `json:"count"`
	GasUsed int64 `json:"gas_used"`
}

func (b blockWire) toPort() *ports.BlockResponse {
	return &ports.BlockResponse{
		Number:       b.Number,
		Hash:         b.Hash,
		PreviousHash: b.PreviousHash,
		Timestamp:    ports.TimestampRange{From: b.Timestamp.From, To: b.Timestamp.To},
		Size:         b.Size,
		Count:        b.Count,
		GasUsed:      b.GasUsed,
	}
}

func (c *Client) GetLatestBlock(ctx context.Context, requestID string) (*ports.BlockResponse, error) {
	var wire struct {
		Blocks []blockWire `json:"blocks"`
	}
	q := url.Values{"limit": {"1"}, "order": {"desc"}}
	if _, err := c.get(ctx, "/blocks", q, &wire); err != nil {
		return nil, err
	}
	if len(wire.Blocks) == 0 {
		return nil, ports.ErrNotFound
	}
	return wire.Blocks[0].toPort(), nil
}

func (c *Client) GetBlock(ctx context.Context, hashOrNumber string, requestID string) (*ports.BlockResponse, error) {
	var wire blockWire
	if _, err := c.get(ctx, "/blocks/"+url.PathEscape(hashOrNumber), nil, &wire); err != nil {
		return nil, err
	}
	return wire.toPort(), nil
}

func (c *Client) GetBlocks(ctx context.Context, filter ports.BlocksFilter, requestID string) ([]ports.BlockResponse, error) {
	q := url.Values{}
	if filter.HasGTE {
		q.Add("block.number", "gte:"+strconv.FormatInt(filter.GTEBlock, 10))
	}
	if filter.HasLTE {
		q.Add("block.number", "lte:"+strconv.FormatInt(filter.LTEBlock, 10))
	}
	if filter.Order != "" {
		q.Set("order", filter.Order)
	}
	var wire struct {
		Blocks []blockWire `json:"blocks"`
	}
	if _, err := c.get(ctx, "/blocks", q, &wire); err != nil {
		return nil, err
	}
	out := make([]ports.BlockResponse, len(wire.Blocks))
	for i, b := range wire.Blocks {
		out[i] = *b.toPort()
	}
	return out, nil
}

type contractResultWire struct {
	Hash                 string         `json:"hash"`
	BlockHash            string         `json:"block_hash"`
	BlockNumber          int64          `json:"block_number"`
	BlockGasUsed         int64          `json:"block_gas_used"`
	From                 string         `json:"from"`
	To                   string         `json:"to"`
	GasUsed              int64          `json:"gas_used"`
	GasLimit             int64          `json:"gas_limit"`
	GasPrice             string         `json:"gas_price"`
	MaxFeePerGas         string         `json:"max_fee_per_gas"`
	MaxPriorityFeePerGas string         `json:"max_priority_fee_per_gas"`
	ChainID              string         `json:"chain_id"`
	Nonce                int64          `json:"nonce"`
	R                    string         `json:"r"`
	S                    string         `json:"s"`
	V                    int64          `json:"v"`
	Type                 *int           `json:"type"`
	Amount               int64          `json:"amount"`
	FunctionParameters   string         `json:"function_parameters"`
	Bloom                string         `json:"bloom"`
	Logs                 []logEntryWire `json:"logs"`
	CreatedContractIDs   []string       `json:"created_contract_ids"`
	Root                 string         `json:"root"`
	Status               string         `json:"status"`
	TransactionIndex     int            `json:"transaction_index"`
	Timestamp            string         `json:"timestamp"`
	ErrorMessage         *string        `json:"error_message"`
}

func (r contractResultWire) toPort() ports.ContractResultResponse {
	logs := make([]ports.LogEntry, len(r.Logs))
	for i, l := range r.Logs {
		logs[i] = l.toPort()
	}
	return ports.ContractResultResponse{
		Hash: r.Hash, BlockHash: r.BlockHash, BlockNumber: r.BlockNumber, BlockGasUsed: r.BlockGasUsed,
		From: r.From, To: r.To, GasUsed: r.GasUsed, GasLimit: r.GasLimit, GasPrice: r.GasPrice,
		MaxFeePerGas: r.MaxFeePerGas, MaxPriorityFeePerGas: r.MaxPriorityFeePerGas, ChainID: r.ChainID,
		Nonce: r.Nonce, R: r.R, S: r.S, V: r.V, Type: r.Type, Amount: r.Amount,
		FunctionParameters: r.FunctionParameters, Bloom: r.Bloom, Logs: logs,
		CreatedContractIDs: r.CreatedContractIDs, Root: r.Root, Status: r.Status,
		TransactionIndex: r.TransactionIndex, Timestamp: r.Timestamp, ErrorMessage: r.ErrorMessage,
	}
}

type logEntryWire struct {
	Address    string   `json:"address"`
	Data       string   `json:"data"`
	Index      int      `json:"index"`
	Topics     []string `json:"topics"`
	Timestamp  string   `json:"timestamp"`
	ContractID string   `json:"contract_id"`
}

func (l logEntryWire) toPort() ports.LogEntry {
	return ports.LogEntry{Address: l.Address, Data: l.Data, Index: l.Index, Topics: l.Topics, Timestamp: l.Timestamp, ContractID: l.ContractID}
}

func (c *Client) GetContractResults(ctx context.Context, filter ports.ContractResultsFilter, requestID string) ([]ports.ContractResultResponse, error) {
	q := url.Values{}
	if filter.BlockHash != "" {
		q.Set("block.hash", filter.BlockHash)
	}
	if filter.BlockNumber != 0 {
		q.Set("block.number", strconv.FormatInt(filter.BlockNumber, 10))
	}
	if filter.TransactionIndex != nil {
		q.Set("transaction.index", strconv.Itoa(*filter.TransactionIndex))
	}
	if filter.Timestamp.From != "" {
		q.Add("timestamp", "gte:"+filter.Timestamp.From)
	}
	if filter.Timestamp.To != "" {
		q.Add("timestamp", "lte:"+filter.Timestamp.To)
	}
	var wire struct {
		Results []contractResultWire `json:"results"`
	}
	if _, err := c.get(ctx, "/contracts/results", q, &wire); err != nil {
		return nil, err
	}
	out := make([]ports.ContractResultResponse, len(wire.Results))
	for i, r := range wire.Results {
		out[i] = r.toPort()
	}
	return out, nil
}

func (c *Client) GetContractResult(ctx context.Context, hash string, requestID string) (*ports.ContractResultResponse, error) {
	var wire contractResultWire
	if _, err := c.get(ctx, "/contracts/results/"+url.PathEscape(hash), nil, &wire); err != nil {
		return nil, err
	}
	result := wire.toPort()
	return &result, nil
}

func (c *Client) GetContractResultsByAddressAndTimestamp(ctx context.Context, to string, timestamp string, requestID string) (*ports.ContractResultResponse, error) {
	q := url.Values{"timestamp": {timestamp}}
	var wire struct {
		Results []contractResultWire `json:"results"`
	}
	if _, err := c.get(ctx, "/contracts/"+url.PathEscape(to)+"/results", q, &wire); err != nil {
		return nil, err
	}
	if len(wire.Results) == 0 {
		return nil, ports.ErrNotFound
	}
	result := wire.Results[0].toPort()
	return &result, nil
}

func logsQuery(params ports.LogsQueryParams) url.Values {
	q := url.Values{}
	if params.TimestampGTE != "" {
		q.Add("timestamp", "gte:"+params.TimestampGTE)
	}
	if params.TimestampLTE != "" {
		q.Add("timestamp", "lte:"+params.TimestampLTE)
	}
	for _, t := range []string{params.Topic0, params.Topic1, params.Topic2, params.Topic3} {
		if t != "" {
			q.Add("topic", t)
		}
	}
	return q
}

func (c *Client) GetContractResultsLogs(ctx context.Context, params ports.LogsQueryParams, requestID string) ([]ports.LogEntry, error) {
	var wire struct {
		Logs []logEntryWire `json:"logs"`
	}
	if _, err := c.get(ctx, "/contracts/results/logs", logsQuery(params), &wire); err != nil {
		return nil, err
	}
	out := make([]ports.LogEntry, len(wire.Logs))
	for i, l := range wire.Logs {
		out[i] = l.toPort()
	}
	return out, nil
}

func (c *Client) GetContractResultsLogsByAddress(ctx context.Context, address string, params ports.LogsQueryParams, requestID string) ([]ports.LogEntry, error) {
	var wire struct {
		Logs []logEntryWire `json:"logs"`
	}
	if _, err := c.get(ctx, "/contracts/"+url.PathEscape(address)+"/results/logs", logsQuery(params), &wire); err != nil {
		return nil, err
	}
	out := make([]ports.LogEntry, len(wire.Logs))
	for i, l := range wire.Logs {
		out[i] = l.toPort()
	}
	return out, nil
}

func (c *Client) GetContractResultsDetails(ctx context.Context, contractID string, timestamp string, requestID string) (*ports.ContractResultResponse, error) {
	var wire contractResultWire
	if _, err := c.get(ctx, "/contracts/"+url.PathEscape(contractID)+"/results/"+url.PathEscape(timestamp), nil, &wire); err != nil {
		return nil, err
	}
	result := wire.toPort()
	return &result, nil
}

func (c *Client) GetNetworkFees(ctx context.Context, timestamp string, requestID string) ([]ports.NetworkFee, error) {
	q := url.Values{}
	if timestamp != "" {
		q.Set("timestamp", timestamp)
	}
	var wire struct {
		Fees []struct {
			Gas             int64  `json:"gas"`
			TransactionType string `json:"transaction_type"`
		} `json:"fees"`
	}
	if _, err := c.get(ctx, "/network/fees", q, &wire); err != nil {
		return nil, err
	}
	out := make([]ports.NetworkFee, len(wire.Fees))
	for i, f := range wire.Fees {
		out[i] = ports.NetworkFee{Gas: f.Gas, TransactionType: f.TransactionType}
	}
	return out, nil
}

func (c *Client) GetContract(ctx context.Context, address string, requestID string) (*ports.ContractResponse, error) {
	var wire struct {
		ContractID      string `json:"contract_id"`
		RuntimeBytecode string `json:"runtime_bytecode"`
	}
	if _, err := c.get(ctx, "/contracts/"+url.PathEscape(address), nil, &wire); err != nil {
		return nil, err
	}
	return &ports.ContractResponse{ContractID: wire.ContractID, RuntimeBytecode: wire.RuntimeBytecode}, nil
}

func (c *Client) ResolveEntityType(ctx context.Context, idOrAddress string, requestID string) (*ports.EntityTypeResponse, error) {
	var wire struct {
		Type       string `json:"type"`
		AccountID  string `json:"account_id"`
		ContractID string `json:"contract_id"`
	}
	if _, err := c.get(ctx, "/accounts/"+url.PathEscape(idOrAddress), nil, &wire); err != nil {
		return nil, err
	}
	entityType := ports.EntityAccount
	if wire.Type == "contract" {
		entityType = ports.EntityContract
	}
	return &ports.EntityTypeResponse{Type: entityType, AccountID: wire.AccountID, ContractID: wire.ContractID}, nil
}

var _ ports.MirrorPort = (*Client)(nil)
