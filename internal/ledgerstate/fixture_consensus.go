package ledgerstate

import (
	"context"
	"math/big"
	"sync"

	"github.com/relaymesh/eth-relay/internal/domain"
	"github.com/relaymesh/eth-relay/internal/ports"
)

// FixtureConsensus implements ports.ConsensusPort and ports.Precheck over
// in-memory state, standing in for a live consensus node under --dev:
// balances and bytecode are seeded fixtures, submitted transactions are
// accepted unconditionally and recorded for later retrieval by handle.
type FixtureConsensus struct {
	mu sync.Mutex

	gasFeeTinybar int64
	balances      map[string]*big.Int
	bytecode      map[string][]byte
	accountInfo   map[string]ports.AccountInfoResponse
	submitted     map[string]ports.TransactionRecord
	nextHandle    int
}

func NewFixtureConsensus() *FixtureConsensus {
	return &FixtureConsensus{
		gasFeeTinybar: 1,
		balances:      make(map[string]*big.Int),
		bytecode:      make(map[string][]byte),
		accountInfo:   make(map[string]ports.AccountInfoResponse),
		submitted:     make(map[string]ports.TransactionRecord),
	}
}

func (f *FixtureConsensus) SetGasFeeTinybar(fee int64) { f.gasFeeTinybar = fee }

func (f *FixtureConsensus) LoadBalance(id string, weibars *big.Int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.balances[id] = weibars
}

func (f *FixtureConsensus) LoadBytecode(contractID string, code []byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.bytecode[contractID] = code
}

func (f *FixtureConsensus) LoadAccountInfo(accountID string, info ports.AccountInfoResponse) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.accountInfo[accountID] = info
}

func (f *FixtureConsensus) GetTinyBarGasFee(ctx context.Context, callerName string, requestID string) (int64, error) {
	return f.gasFeeTinybar, nil
}

func (f *FixtureConsensus) GetAccountBalanceInWeiBar(ctx context.Context, accountID string, callerName string, requestID string) (*big.Int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	bal, ok := f.balances[accountID]
	if !ok {
		return nil, ports.ErrInvalidAccountID
	}
	return bal, nil
}

func (f *FixtureConsensus) GetContractBalanceInWeiBar(ctx context.Context, contractID string, callerName string, requestID string) (*big.Int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	bal, ok := f.balances[contractID]
	if !ok {
		return nil, ports.ErrInvalidContractID
	}
	return bal, nil
}

func (f *FixtureConsensus) GetContractByteCode(ctx context.Context, shard, realm int64, address string, callerName string, requestID string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	code, ok := f.bytecode[address]
	if !ok {
		return nil, ports.ErrInvalidContractID
	}
	return code, nil
}

func (f *FixtureConsensus) GetAccountInfo(ctx context.Context, accountID string, callerName string, requestID string) (*ports.AccountInfoResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	info, ok := f.accountInfo[accountID]
	if !ok {
		return nil, ports.ErrInvalidAccountID
	}
	return &info, nil
}

func (f *FixtureConsensus) SubmitEthereumTransaction(ctx context.Context, data []byte, callerName string, requestID string) (ports.TransactionHandle, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextHandle++
	handle := ports.TransactionHandle{ID: handleID(f.nextHandle)}
	f.submitted[handle.ID] = ports.TransactionRecord{}
	return handle, nil
}

func (f *FixtureConsensus) ExecuteGetTransactionRecord(ctx context.Context, handle ports.TransactionHandle, txName string, callerName string, requestID string) (*ports.TransactionRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	record, ok := f.submitted[handle.ID]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return &record, nil
}

func (f *FixtureConsensus) SubmitContractCallQuery(ctx context.Context, to string, data string, gas int64, from string, callerName string, requestID string) ([]byte, error) {
	return []byte{}, nil
}

// SendRawTransactionCheck always accepts: the fixture exists for demoing
// the read/translation path, not for exercising pre-check rejection logic.
func (f *FixtureConsensus) SendRawTransactionCheck(ctx context.Context, rawTxHex string, gasPrice *big.Int, requestID string) *domain.RPCError {
	return nil
}

func handleID(n int) string {
	digits := "0123456789"
	if n == 0 {
		return "0"
	}
	var buf []byte
	for n > 0 {
		buf = append([]byte{digits[n%10]}, buf...)
		n /= 10
	}
	return "tx-" + string(buf)
}

var (
	_ ports.ConsensusPort = (*FixtureConsensus)(nil)
	_ ports.Precheck      = (*FixtureConsensus)(nil)
)
