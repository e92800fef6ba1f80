/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package ports declares the two external collaborators the translation
// core consumes (spec §6): MirrorPort, a read-optimized REST indexer, and
// ConsensusPort, the write-capable native-protocol client. Both are
// treated as thread-safe clients with their own connection pooling; every
// operation takes a context (for cancellation/deadlines) and a requestId
// (for log correlation only).
package ports

import (
	"context"
	"math/big"

	"github.com/pkg/errors"

	"github.com/relaymesh/eth-relay/internal/domain"
)

// Sentinel errors a port implementation returns so callers can
// distinguish "not found" / "bad id" from genuine backend failure without
// string-matching messages.
var (
	ErrNotFound          = errors.New("not found")
	ErrInvalidAccountID  = errors.New("invalid account id")
	ErrInvalidContractID = errors.New("invalid contract id")
)

// BlockResponse is the mirror's block record.
type BlockResponse struct {
	Number       int64
	Hash         string
	PreviousHash string
	Timestamp    TimestampRange
	Size         int64
	Count        int
	GasUsed      int64
}

// TimestampRange is a consensus-timestamp window, `[from, to]`, each
// formatted "seconds.nanoseconds".
type TimestampRange struct {
	From string
	To   string
}

// LogEntry is one raw log record as returned by the mirror's contract
// results / logs endpoints, before the planner joins it against its
// owning block and transaction.
type LogEntry struct {
	Address    string
	Data       string
	Index      int
	Topics     []string
	Timestamp  string
	ContractID string
}

// ContractResultResponse is the mirror's record of a single EVM-style
// execution (spec §6).
type ContractResultResponse struct {
	Hash                 string
	BlockHash            string
	BlockNumber          int64
	BlockGasUsed         int64
	From                 string
	To                   string
	GasUsed              int64
	GasLimit             int64
	GasPrice             string
	MaxFeePerGas         string
	MaxPriorityFeePerGas string
	ChainID              string
	Nonce                int64
	R                    string
	S                    string
	V                    int64
	Type                 *int
	Amount               int64
	FunctionParameters   string
	Bloom                string
	Logs                 []LogEntry
	CreatedContractIDs   []string
	Root                 string
	Status               string
	TransactionIndex     int
	Timestamp            string
	ErrorMessage         *string
}

// NetworkFee is one entry of the mirror's network-fees schedule.
type NetworkFee struct {
	Gas             int64
	TransactionType string
}

// ContractResponse is the mirror's contract metadata record.
type ContractResponse struct {
	ContractID      string
	RuntimeBytecode string
}

// EntityType distinguishes a mirror-resolved id/address's kind.
type EntityType string

const (
	EntityAccount  EntityType = "account"
	EntityContract EntityType = "contract"
)

// EntityTypeResponse is the mirror's answer to "what is this id/address".
type EntityTypeResponse struct {
	Type       EntityType
	AccountID  string
	ContractID string
}

// AccountInfoResponse is the consensus node's account snapshot.
type AccountInfoResponse struct {
	AccountID     string
	EthereumNonce int64
}

// TransactionHandle identifies a transaction submitted to the consensus
// node, opaque to the core, used only to fetch its execution record.
type TransactionHandle struct {
	ID string
}

// TransactionRecord is the outcome of a submitted transaction.
type TransactionRecord struct {
	EthereumHash string
}

// ContractResultsFilter selects a page of contract-results by block or
// timestamp, optionally narrowed to one transaction index.
type ContractResultsFilter struct {
	BlockHash        string
	BlockNumber      int64
	Timestamp        TimestampRange
	TransactionIndex *int
}

// BlocksFilter selects a page of blocks for the log query planner's
// block-window resolution.
type BlocksFilter struct {
	LTEBlock int64
	GTEBlock int64
	HasLTE   bool
	HasGTE   bool
	Order    string // "asc" or "desc"
}

// LogsQueryParams carries the timestamp window and positional topic
// filters used by eth_getLogs (spec §4.4).
type LogsQueryParams struct {
	TimestampGTE string
	TimestampLTE string
	Topic0       string
	Topic1       string
	Topic2       string
	Topic3       string
}

// MirrorPort is the read-optimized indexer (spec §6).
//
//go:generate counterfeiter -o fakes/fake_mirror_port.go . MirrorPort
type MirrorPort interface {
	GetLatestBlock(ctx context.Context, requestID string) (*BlockResponse, error)
	GetBlock(ctx context.Context, hashOrNumber string, requestID string) (*BlockResponse, error)
	GetBlocks(ctx context.Context, filter BlocksFilter, requestID string) ([]BlockResponse, error)
	GetContractResults(ctx context.Context, filter ContractResultsFilter, requestID string) ([]ContractResultResponse, error)
	GetContractResult(ctx context.Context, hash string, requestID string) (*ContractResultResponse, error)
	GetContractResultsByAddressAndTimestamp(ctx context.Context, to string, timestamp string, requestID string) (*ContractResultResponse, error)
	GetContractResultsLogs(ctx context.Context, params LogsQueryParams, requestID string) ([]LogEntry, error)
	GetContractResultsLogsByAddress(ctx context.Context, address string, params LogsQueryParams, requestID string) ([]LogEntry, error)
	GetContractResultsDetails(ctx context.Context, contractID string, timestamp string, requestID string) (*ContractResultResponse, error)
	GetNetworkFees(ctx context.Context, timestamp string, requestID string) ([]NetworkFee, error)
	GetContract(ctx context.Context, address string, requestID string) (*ContractResponse, error)
	ResolveEntityType(ctx context.Context, idOrAddress string, requestID string) (*EntityTypeResponse, error)
}

// ConsensusPort is the write-capable native-protocol client (spec §6).
//
//go:generate counterfeiter -o fakes/fake_consensus_port.go . ConsensusPort
type ConsensusPort interface {
	GetTinyBarGasFee(ctx context.Context, callerName string, requestID string) (int64, error)
	GetAccountBalanceInWeiBar(ctx context.Context, accountID string, callerName string, requestID string) (*big.Int, error)
	GetContractBalanceInWeiBar(ctx context.Context, contractID string, callerName string, requestID string) (*big.Int, error)
	GetContractByteCode(ctx context.Context, shard, realm int64, address string, callerName string, requestID string) ([]byte, error)
	GetAccountInfo(ctx context.Context, accountID string, callerName string, requestID string) (*AccountInfoResponse, error)
	SubmitEthereumTransaction(ctx context.Context, data []byte, callerName string, requestID string) (TransactionHandle, error)
	ExecuteGetTransactionRecord(ctx context.Context, handle TransactionHandle, txName string, callerName string, requestID string) (*TransactionRecord, error)
	SubmitContractCallQuery(ctx context.Context, to string, data string, gas int64, from string, callerName string, requestID string) ([]byte, error)
}

// Precheck validates a raw transaction before submission (spec §6).
// A nil result means the transaction passed; a non-nil *domain.RPCError
// is either a rich, client-addressable rejection (nonce, chain id, gas
// price, intrinsic gas, value) or an INTERNAL_ERROR value for an
// unexpected pre-check failure. There is no separate error return.
//
//go:generate counterfeiter -o fakes/fake_precheck.go . Precheck
type Precheck interface {
	SendRawTransactionCheck(ctx context.Context, rawTxHex string, gasPrice *big.Int, requestID string) *domain.RPCError
}
