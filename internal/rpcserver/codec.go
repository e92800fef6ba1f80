/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package rpcserver exposes an internal/eth.Service as JSON-RPC 2.0 over
// HTTP, the same gorilla/rpc + gorilla/mux transport shape the chaincode
// relay used, generalized from a single fixed-arity Fabric service to
// the full eth_* method surface.
package rpcserver

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gorilla/rpc/v2"

	"github.com/relaymesh/eth-relay/internal/domain"
)

// Params carries a request's "params" array verbatim; each Gateway
// method decodes its own positional arguments out of it rather than
// relying on gorilla/rpc's single-struct argument convention, since
// eth_* params are a JSON array, not an object.
type Params json.RawMessage

// Reply carries a Gateway method's result value for the codec to
// marshal back into the "result" field of the JSON-RPC envelope.
type Reply struct {
	Value interface{}
}

type wireRequest struct {
	JSONRPC string          `json:"jsonrpc"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params"`
	ID      json.RawMessage `json:"id"`
}

type wireResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	Result  interface{}     `json:"result,omitempty"`
	Error   *wireError      `json:"error,omitempty"`
	ID      json.RawMessage `json:"id"`
}

type wireError struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// Codec implements gorilla/rpc's Codec interface over the Ethereum
// JSON-RPC 2.0 wire format, remapping "eth_methodName" onto the
// "Gateway.MethodName" service/method pair gorilla/rpc's reflection-based
// dispatch expects.
type Codec struct{}

func NewCodec() *Codec { return &Codec{} }

func (c *Codec) NewRequest(r *http.Request) rpc.CodecRequest {
	req := &codecRequest{}
	body, err := io.ReadAll(r.Body)
	if err != nil {
		req.err = err
		return req
	}
	defer r.Body.Close()
	if err := json.Unmarshal(body, &req.wire); err != nil {
		req.err = err
	}
	return req
}

type codecRequest struct {
	wire wireRequest
	err  error
}

// Method splits the incoming "eth_getBlockByHash" style method name on
// its first underscore and title-cases the remainder, e.g.
// "eth_getBlockByHash" -> "Gateway.GetBlockByHash". Methods outside the
// eth_* namespace are rejected; this relay only speaks that namespace.
func (r *codecRequest) Method() (string, error) {
	if r.err != nil {
		return "", r.err
	}
	parts := strings.SplitN(r.wire.Method, "_", 2)
	if len(parts) != 2 || parts[0] != "eth" {
		return "", fmt.Errorf("unsupported method namespace: %s", r.wire.Method)
	}
	return "Gateway." + strings.ToUpper(parts[1][:1]) + parts[1][1:], nil
}

func (r *codecRequest) ReadRequest(args interface{}) error {
	if r.err != nil {
		return r.err
	}
	p, ok := args.(*Params)
	if !ok {
		return fmt.Errorf("rpcserver: unexpected args type %T", args)
	}
	*p = Params(r.wire.Params)
	return nil
}

func (r *codecRequest) WriteResponse(w http.ResponseWriter, reply interface{}) {
	resp := wireResponse{JSONRPC: "2.0", ID: r.wire.ID}
	if rp, ok := reply.(*Reply); ok {
		resp.Result = rp.Value
	} else {
		resp.Result = reply
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

func (r *codecRequest) WriteError(w http.ResponseWriter, status int, err error) {
	resp := wireResponse{JSONRPC: "2.0", ID: r.wire.ID}
	if rpcErr, ok := err.(*gatewayError); ok {
		resp.Error = &wireError{Code: rpcErr.rpcErr.Code, Message: rpcErr.rpcErr.Message, Data: rpcErr.rpcErr.Data}
	} else {
		resp.Error = &wireError{Code: -32603, Message: err.Error()}
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// gatewayError adapts a domain.RPCError to the error interface gorilla/rpc
// requires a service method to return.
type gatewayError struct {
	rpcErr *domain.RPCError
}

func (e *gatewayError) Error() string { return e.rpcErr.Error() }

func asError(rpcErr *domain.RPCError) error {
	if rpcErr == nil {
		return nil
	}
	return &gatewayError{rpcErr: rpcErr}
}
