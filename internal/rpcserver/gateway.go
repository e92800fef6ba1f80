/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package rpcserver

import (
	"encoding/json"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/relaymesh/eth-relay/internal/domain"
	"github.com/relaymesh/eth-relay/internal/eth"
	"github.com/relaymesh/eth-relay/internal/hexcodec"
)

// Gateway adapts internal/eth.Service's Go method surface to the fixed
// (r *http.Request, args *Params, reply *Reply) error shape gorilla/rpc's
// reflection-based dispatch requires of every registered method. One
// Gateway method per supported eth_* call; each decodes its own
// positional arguments out of Params and appends a request ID derived
// from the HTTP request for log attribution, per the relay's handler
// contract.
type Gateway struct {
	Service *eth.Service
	Logger  *zap.Logger
}

func NewGateway(service *eth.Service, logger *zap.Logger) *Gateway {
	return &Gateway{Service: service, Logger: logger}
}

func requestID(r *http.Request) string {
	if id := r.Header.Get("X-Request-Id"); id != "" {
		return id
	}
	return r.RemoteAddr
}

// positional decodes a JSON-RPC params array into its raw elements. A
// missing or null params value decodes as zero arguments.
func positional(p Params) ([]json.RawMessage, error) {
	if len(p) == 0 || string(p) == "null" {
		return nil, nil
	}
	var out []json.RawMessage
	if err := json.Unmarshal(p, &out); err != nil {
		return nil, fmt.Errorf("rpcserver: params is not a JSON array: %w", err)
	}
	return out, nil
}

func arg(items []json.RawMessage, i int, out interface{}) error {
	if i >= len(items) {
		return nil
	}
	return json.Unmarshal(items[i], out)
}

func argString(items []json.RawMessage, i int, def string) string {
	var s string
	if err := arg(items, i, &s); err != nil || s == "" {
		return def
	}
	return s
}

func argBool(items []json.RawMessage, i int) bool {
	var b bool
	_ = arg(items, i, &b)
	return b
}

func argInt(items []json.RawMessage, i int) int {
	var s string
	if arg(items, i, &s) != nil {
		return 0
	}
	n, _ := hexcodec.DecOrHexToInt(s)
	return int(n)
}

func reply(reply *Reply, value interface{}, rpcErr *domain.RPCError) error {
	if rpcErr != nil {
		return asError(rpcErr)
	}
	reply.Value = value
	return nil
}

func (g *Gateway) ChainId(r *http.Request, _ *Params, out *Reply) error {
	v, err := g.Service.ChainId(r.Context(), requestID(r))
	return reply(out, v, err)
}

func (g *Gateway) BlockNumber(r *http.Request, _ *Params, out *Reply) error {
	v, err := g.Service.BlockNumber(r.Context(), requestID(r))
	return reply(out, v, err)
}

func (g *Gateway) GasPrice(r *http.Request, _ *Params, out *Reply) error {
	v, err := g.Service.GasPrice(r.Context(), requestID(r))
	return reply(out, v, err)
}

func (g *Gateway) FeeHistory(r *http.Request, p *Params, out *Reply) error {
	items, perr := positional(*p)
	if perr != nil {
		return perr
	}
	blockCount := argString(items, 0, "0x1")
	newest := argString(items, 1, "latest")
	var percentiles []string
	_ = arg(items, 2, &percentiles)
	v, err := g.Service.FeeHistory(r.Context(), blockCount, newest, percentiles, requestID(r))
	return reply(out, v, err)
}

func (g *Gateway) GetBlockByHash(r *http.Request, p *Params, out *Reply) error {
	items, perr := positional(*p)
	if perr != nil {
		return perr
	}
	hash := argString(items, 0, "")
	details := argBool(items, 1)
	v, err := g.Service.GetBlockByHash(r.Context(), hash, details, requestID(r))
	return reply(out, v, err)
}

func (g *Gateway) GetBlockByNumber(r *http.Request, p *Params, out *Reply) error {
	items, perr := positional(*p)
	if perr != nil {
		return perr
	}
	tag := argString(items, 0, "latest")
	details := argBool(items, 1)
	v, err := g.Service.GetBlockByNumber(r.Context(), tag, details, requestID(r))
	return reply(out, v, err)
}

func (g *Gateway) GetBlockTransactionCountByHash(r *http.Request, p *Params, out *Reply) error {
	items, perr := positional(*p)
	if perr != nil {
		return perr
	}
	v, err := g.Service.GetBlockTransactionCountByHash(r.Context(), argString(items, 0, ""), requestID(r))
	return reply(out, v, err)
}

func (g *Gateway) GetBlockTransactionCountByNumber(r *http.Request, p *Params, out *Reply) error {
	items, perr := positional(*p)
	if perr != nil {
		return perr
	}
	v, err := g.Service.GetBlockTransactionCountByNumber(r.Context(), argString(items, 0, "latest"), requestID(r))
	return reply(out, v, err)
}

func (g *Gateway) GetTransactionByHash(r *http.Request, p *Params, out *Reply) error {
	items, perr := positional(*p)
	if perr != nil {
		return perr
	}
	v, err := g.Service.GetTransactionByHash(r.Context(), argString(items, 0, ""), requestID(r))
	return reply(out, v, err)
}

func (g *Gateway) GetTransactionByBlockHashAndIndex(r *http.Request, p *Params, out *Reply) error {
	items, perr := positional(*p)
	if perr != nil {
		return perr
	}
	hash := argString(items, 0, "")
	index := argInt(items, 1)
	v, err := g.Service.GetTransactionByBlockHashAndIndex(r.Context(), hash, index, requestID(r))
	return reply(out, v, err)
}

func (g *Gateway) GetTransactionByBlockNumberAndIndex(r *http.Request, p *Params, out *Reply) error {
	items, perr := positional(*p)
	if perr != nil {
		return perr
	}
	tag := argString(items, 0, "latest")
	index := argInt(items, 1)
	v, err := g.Service.GetTransactionByBlockNumberAndIndex(r.Context(), tag, index, requestID(r))
	return reply(out, v, err)
}

func (g *Gateway) GetTransactionReceipt(r *http.Request, p *Params, out *Reply) error {
	items, perr := positional(*p)
	if perr != nil {
		return perr
	}
	v, err := g.Service.GetTransactionReceipt(r.Context(), argString(items, 0, ""), requestID(r))
	return reply(out, v, err)
}

// logsFilter is the eth_getLogs filter object's wire shape. Address may
// arrive as a single string or an array; both are folded into Address.
type logsFilter struct {
	BlockHash string          `json:"blockHash"`
	FromBlock string          `json:"fromBlock"`
	ToBlock   string          `json:"toBlock"`
	Address   json.RawMessage `json:"address"`
	Topics    []interface{}   `json:"topics"`
}

func decodeAddresses(raw json.RawMessage) []string {
	if len(raw) == 0 {
		return nil
	}
	var single string
	if json.Unmarshal(raw, &single) == nil {
		if single == "" {
			return nil
		}
		return []string{single}
	}
	var many []string
	_ = json.Unmarshal(raw, &many)
	return many
}

// decodeTopics maps the filter's mixed scalar-or-array topic slots onto
// the four fixed OR-group slots eth_getLogs's planner expects.
func decodeTopics(topics []interface{}) [4][]string {
	var out [4][]string
	for i, t := range topics {
		if i >= 4 || t == nil {
			continue
		}
		switch v := t.(type) {
		case string:
			out[i] = []string{v}
		case []interface{}:
			for _, e := range v {
				if s, ok := e.(string); ok {
					out[i] = append(out[i], s)
				}
			}
		}
	}
	return out
}

func (g *Gateway) GetLogs(r *http.Request, p *Params, out *Reply) error {
	items, perr := positional(*p)
	if perr != nil {
		return perr
	}
	var filter logsFilter
	_ = arg(items, 0, &filter)
	params := domain.LogParams{
		BlockHash: filter.BlockHash,
		FromBlock: filter.FromBlock,
		ToBlock:   filter.ToBlock,
		Address:   decodeAddresses(filter.Address),
		Topics:    decodeTopics(filter.Topics),
	}
	v, err := g.Service.GetLogs(r.Context(), params, requestID(r))
	return reply(out, v, err)
}

func (g *Gateway) SendRawTransaction(r *http.Request, p *Params, out *Reply) error {
	items, perr := positional(*p)
	if perr != nil {
		return perr
	}
	v, err := g.Service.SendRawTransaction(r.Context(), argString(items, 0, ""), requestID(r))
	return reply(out, v, err)
}

func (g *Gateway) GetBalance(r *http.Request, p *Params, out *Reply) error {
	items, perr := positional(*p)
	if perr != nil {
		return perr
	}
	account := argString(items, 0, "")
	tag := argString(items, 1, "latest")
	v, err := g.Service.GetBalance(r.Context(), account, tag, requestID(r))
	return reply(out, v, err)
}

func (g *Gateway) GetCode(r *http.Request, p *Params, out *Reply) error {
	items, perr := positional(*p)
	if perr != nil {
		return perr
	}
	address := argString(items, 0, "")
	tag := argString(items, 1, "latest")
	v, err := g.Service.GetCode(r.Context(), address, tag, requestID(r))
	return reply(out, v, err)
}

func (g *Gateway) GetTransactionCount(r *http.Request, p *Params, out *Reply) error {
	items, perr := positional(*p)
	if perr != nil {
		return perr
	}
	address := argString(items, 0, "")
	tag := argString(items, 1, "latest")
	v, err := g.Service.GetTransactionCount(r.Context(), address, tag, requestID(r))
	return reply(out, v, err)
}

// callObject is the eth_call / eth_estimateGas transaction-call
// argument's wire shape.
type callObject struct {
	From     *string `json:"from"`
	To       *string `json:"to"`
	Gas      *string `json:"gas"`
	GasPrice *string `json:"gasPrice"`
	Value    *string `json:"value"`
	Data     *string `json:"data"`
}

func (c callObject) toDomain() domain.CallObject {
	return domain.CallObject{From: c.From, To: c.To, Gas: c.Gas, GasPrice: c.GasPrice, Value: c.Value, Data: c.Data}
}

func (g *Gateway) Call(r *http.Request, p *Params, out *Reply) error {
	items, perr := positional(*p)
	if perr != nil {
		return perr
	}
	var call callObject
	_ = arg(items, 0, &call)
	blockParam := argString(items, 1, "latest")
	v, err := g.Service.Call(r.Context(), call.toDomain(), blockParam, requestID(r))
	return reply(out, v, err)
}

func (g *Gateway) EstimateGas(r *http.Request, p *Params, out *Reply) error {
	items, perr := positional(*p)
	if perr != nil {
		return perr
	}
	var call callObject
	_ = arg(items, 0, &call)
	v, err := g.Service.EstimateGas(r.Context(), call.toDomain(), requestID(r))
	return reply(out, v, err)
}

// Unsupported methods (spec §4.1): always respond with UNSUPPORTED_METHOD.
func (g *Gateway) GetStorageAt(r *http.Request, _ *Params, out *Reply) error {
	v, err := g.Service.GetStorageAt(r.Context(), requestID(r))
	return reply(out, v, err)
}

func (g *Gateway) Sign(r *http.Request, _ *Params, out *Reply) error {
	v, err := g.Service.Sign(r.Context(), requestID(r))
	return reply(out, v, err)
}

func (g *Gateway) SignTransaction(r *http.Request, _ *Params, out *Reply) error {
	v, err := g.Service.SignTransaction(r.Context(), requestID(r))
	return reply(out, v, err)
}

func (g *Gateway) SendTransaction(r *http.Request, _ *Params, out *Reply) error {
	v, err := g.Service.SendTransaction(r.Context(), requestID(r))
	return reply(out, v, err)
}

func (g *Gateway) SubmitHashrate(r *http.Request, _ *Params, out *Reply) error {
	v, err := g.Service.SubmitHashrate(r.Context(), requestID(r))
	return reply(out, v, err)
}

func (g *Gateway) GetWork(r *http.Request, _ *Params, out *Reply) error {
	v, err := g.Service.GetWork(r.Context(), requestID(r))
	return reply(out, v, err)
}

func (g *Gateway) ProtocolVersion(r *http.Request, _ *Params, out *Reply) error {
	v, err := g.Service.ProtocolVersion(r.Context(), requestID(r))
	return reply(out, v, err)
}

func (g *Gateway) Coinbase(r *http.Request, _ *Params, out *Reply) error {
	v, err := g.Service.Coinbase(r.Context(), requestID(r))
	return reply(out, v, err)
}

// Constant-response methods (spec §4.9).
func (g *Gateway) Accounts(r *http.Request, _ *Params, out *Reply) error {
	v, err := g.Service.Accounts(r.Context(), requestID(r))
	return reply(out, v, err)
}

func (g *Gateway) Mining(r *http.Request, _ *Params, out *Reply) error {
	v, err := g.Service.Mining(r.Context(), requestID(r))
	return reply(out, v, err)
}

func (g *Gateway) Syncing(r *http.Request, _ *Params, out *Reply) error {
	v, err := g.Service.Syncing(r.Context(), requestID(r))
	return reply(out, v, err)
}

func (g *Gateway) SubmitWork(r *http.Request, _ *Params, out *Reply) error {
	v, err := g.Service.SubmitWork(r.Context(), requestID(r))
	return reply(out, v, err)
}

func (g *Gateway) Hashrate(r *http.Request, _ *Params, out *Reply) error {
	v, err := g.Service.Hashrate(r.Context(), requestID(r))
	return reply(out, v, err)
}

func (g *Gateway) GetUncleByBlockHashAndIndex(r *http.Request, _ *Params, out *Reply) error {
	v, err := g.Service.GetUncleByBlockHashAndIndex(r.Context(), requestID(r))
	return reply(out, v, err)
}

func (g *Gateway) GetUncleByBlockNumberAndIndex(r *http.Request, _ *Params, out *Reply) error {
	v, err := g.Service.GetUncleByBlockNumberAndIndex(r.Context(), requestID(r))
	return reply(out, v, err)
}

func (g *Gateway) GetUncleCountByBlockHash(r *http.Request, _ *Params, out *Reply) error {
	v, err := g.Service.GetUncleCountByBlockHash(r.Context(), requestID(r))
	return reply(out, v, err)
}

func (g *Gateway) GetUncleCountByBlockNumber(r *http.Request, _ *Params, out *Reply) error {
	v, err := g.Service.GetUncleCountByBlockNumber(r.Context(), requestID(r))
	return reply(out, v, err)
}
