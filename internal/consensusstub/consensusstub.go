// Package consensusstub is the ConsensusPort/Precheck implementation
// cmd/relay falls back to when no real consensus-SDK client has been
// wired in: every operation fails loudly rather than silently
// fabricating data, so misconfiguration surfaces immediately instead of
// masquerading as a healthy backend.
package consensusstub

import (
	"context"
	"math/big"

	"github.com/pkg/errors"

	"github.com/relaymesh/eth-relay/internal/domain"
	"github.com/relaymesh/eth-relay/internal/ports"
	"github.com/relaymesh/eth-relay/internal/relayerrors"
)

var errNotWired = errors.New("consensusstub: no ConsensusPort implementation configured")

type Stub struct{}

func New() *Stub { return &Stub{} }

func (Stub) GetTinyBarGasFee(ctx context.Context, callerName string, requestID string) (int64, error) {
	return 0, errNotWired
}

func (Stub) GetAccountBalanceInWeiBar(ctx context.Context, accountID string, callerName string, requestID string) (*big.Int, error) {
	return nil, errNotWired
}

func (Stub) GetContractBalanceInWeiBar(ctx context.Context, contractID string, callerName string, requestID string) (*big.Int, error) {
	return nil, errNotWired
}

func (Stub) GetContractByteCode(ctx context.Context, shard, realm int64, address string, callerName string, requestID string) ([]byte, error) {
	return nil, errNotWired
}

func (Stub) GetAccountInfo(ctx context.Context, accountID string, callerName string, requestID string) (*ports.AccountInfoResponse, error) {
	return nil, errNotWired
}

func (Stub) SubmitEthereumTransaction(ctx context.Context, data []byte, callerName string, requestID string) (ports.TransactionHandle, error) {
	return ports.TransactionHandle{}, errNotWired
}

func (Stub) ExecuteGetTransactionRecord(ctx context.Context, handle ports.TransactionHandle, txName string, callerName string, requestID string) (*ports.TransactionRecord, error) {
	return nil, errNotWired
}

func (Stub) SubmitContractCallQuery(ctx context.Context, to string, data string, gas int64, from string, callerName string, requestID string) ([]byte, error) {
	return nil, errNotWired
}

func (Stub) SendRawTransactionCheck(ctx context.Context, rawTxHex string, gasPrice *big.Int, requestID string) *domain.RPCError {
	return relayerrors.Internal(errNotWired.Error())
}

var (
	_ ports.ConsensusPort = (*Stub)(nil)
	_ ports.Precheck      = (*Stub)(nil)
)
