// Package relayerrors is the error taxonomy for the translation core. It
// maps the internal failure kinds described in spec §7 onto tagged
// domain.RPCError values, keeping the distinction between a value a
// handler RETURNS (serialized as result.error) and a Go error it THROWS
// (propagated to the caller as a call failure).
package relayerrors

import (
	"fmt"

	"github.com/relaymesh/eth-relay/internal/domain"
)

// JSON-RPC-ish error codes. Negative range mirrors the convention used by
// Ethereum clients for server-defined errors.
const (
	CodeUnsupportedMethod = -32601
	CodeInvalidParams     = -32602
	CodeInternalError     = -32603
	CodeRequestBeyondHead = -32000
	CodeInvalidAccountID  = -32001
	CodeInvalidContractID = -32002
	CodePrecheckRejection = -32003
)

// Unsupported builds the fixed error value returned synchronously by
// methods the relay deliberately does not implement.
func Unsupported(method string) *domain.RPCError {
	return domain.NewRPCError(CodeUnsupportedMethod, fmt.Sprintf("Unsupported JSON-RPC method: %s", method))
}

// Internal wraps an unexpected condition into the INTERNAL_ERROR value.
func Internal(message string) *domain.RPCError {
	return domain.NewRPCError(CodeInternalError, message)
}

// RequestBeyondHeadBlock signals that feeHistory's requested newest block
// is ahead of the chain's actual head.
func RequestBeyondHeadBlock(requested, head int64) *domain.RPCError {
	return domain.NewRPCErrorWithData(
		CodeRequestBeyondHead,
		"Request beyond head block",
		map[string]int64{"requested": requested, "head": head},
	)
}

// InvalidParams signals a client-supplied parameter that fails validation
// (e.g. a malformed address length); transport maps this to the
// JSON-RPC invalid-params code.
func InvalidParams(message string) error {
	return domain.NewRPCError(CodeInvalidParams, message)
}

// PrecheckRejection wraps a known pre-check failure (nonce, chain id, gas
// price, intrinsic gas, value) so it passes through to the caller
// unchanged rather than being collapsed into INTERNAL_ERROR.
func PrecheckRejection(message string) *domain.RPCError {
	return domain.NewRPCError(CodePrecheckRejection, message)
}
