// Code generated manually in the style of counterfeiter.

package fakes

import (
	"context"
	"math/big"
	"sync"

	"github.com/relaymesh/eth-relay/internal/ports"
)

// FakeConsensusPort is a test double for ports.ConsensusPort.
type FakeConsensusPort struct {
	mu sync.Mutex

	GetTinyBarGasFeeStub            func(ctx context.Context, callerName string, requestID string) (int64, error)
	GetAccountBalanceInWeiBarStub   func(ctx context.Context, accountID string, callerName string, requestID string) (*big.Int, error)
	GetContractBalanceInWeiBarStub  func(ctx context.Context, contractID string, callerName string, requestID string) (*big.Int, error)
	GetContractByteCodeStub         func(ctx context.Context, shard, realm int64, address string, callerName string, requestID string) ([]byte, error)
	GetAccountInfoStub              func(ctx context.Context, accountID string, callerName string, requestID string) (*ports.AccountInfoResponse, error)
	SubmitEthereumTransactionStub   func(ctx context.Context, data []byte, callerName string, requestID string) (ports.TransactionHandle, error)
	ExecuteGetTransactionRecordStub func(ctx context.Context, handle ports.TransactionHandle, txName string, callerName string, requestID string) (*ports.TransactionRecord, error)
	SubmitContractCallQueryStub     func(ctx context.Context, to string, data string, gas int64, from string, callerName string, requestID string) ([]byte, error)

	callCounts map[string]int
}

func NewFakeConsensusPort() *FakeConsensusPort {
	return &FakeConsensusPort{callCounts: make(map[string]int)}
}

func (f *FakeConsensusPort) record(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.callCounts == nil {
		f.callCounts = make(map[string]int)
	}
	f.callCounts[name]++
}

func (f *FakeConsensusPort) CallCount(method string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.callCounts[method]
}

func (f *FakeConsensusPort) GetTinyBarGasFee(ctx context.Context, callerName string, requestID string) (int64, error) {
	f.record("GetTinyBarGasFee")
	if f.GetTinyBarGasFeeStub != nil {
		return f.GetTinyBarGasFeeStub(ctx, callerName, requestID)
	}
	return 0, nil
}

func (f *FakeConsensusPort) GetAccountBalanceInWeiBar(ctx context.Context, accountID string, callerName string, requestID string) (*big.Int, error) {
	f.record("GetAccountBalanceInWeiBar")
	if f.GetAccountBalanceInWeiBarStub != nil {
		return f.GetAccountBalanceInWeiBarStub(ctx, accountID, callerName, requestID)
	}
	return big.NewInt(0), nil
}

func (f *FakeConsensusPort) GetContractBalanceInWeiBar(ctx context.Context, contractID string, callerName string, requestID string) (*big.Int, error) {
	f.record("GetContractBalanceInWeiBar")
	if f.GetContractBalanceInWeiBarStub != nil {
		return f.GetContractBalanceInWeiBarStub(ctx, contractID, callerName, requestID)
	}
	return big.NewInt(0), nil
}

func (f *FakeConsensusPort) GetContractByteCode(ctx context.Context, shard, realm int64, address string, callerName string, requestID string) ([]byte, error) {
	f.record("GetContractByteCode")
	if f.GetContractByteCodeStub != nil {
		return f.GetContractByteCodeStub(ctx, shard, realm, address, callerName, requestID)
	}
	return nil, nil
}

func (f *FakeConsensusPort) GetAccountInfo(ctx context.Context, accountID string, callerName string, requestID string) (*ports.AccountInfoResponse, error) {
	f.record("GetAccountInfo")
	if f.GetAccountInfoStub != nil {
		return f.GetAccountInfoStub(ctx, accountID, callerName, requestID)
	}
	return nil, nil
}

func (f *FakeConsensusPort) SubmitEthereumTransaction(ctx context.Context, data []byte, callerName string, requestID string) (ports.TransactionHandle, error) {
	f.record("SubmitEthereumTransaction")
	if f.SubmitEthereumTransactionStub != nil {
		return f.SubmitEthereumTransactionStub(ctx, data, callerName, requestID)
	}
	return ports.TransactionHandle{}, nil
}

func (f *FakeConsensusPort) ExecuteGetTransactionRecord(ctx context.Context, handle ports.TransactionHandle, txName string, callerName string, requestID string) (*ports.TransactionRecord, error) {
	f.record("ExecuteGetTransactionRecord")
	if f.ExecuteGetTransactionRecordStub != nil {
		return f.ExecuteGetTransactionRecordStub(ctx, handle, txName, callerName, requestID)
	}
	return nil, nil
}

func (f *FakeConsensusPort) SubmitContractCallQuery(ctx context.Context, to string, data string, gas int64, from string, callerName string, requestID string) ([]byte, error) {
	f.record("SubmitContractCallQuery")
	if f.SubmitContractCallQueryStub != nil {
		return f.SubmitContractCallQueryStub(ctx, to, data, gas, from, callerName, requestID)
	}
	return nil, nil
}

var _ ports.ConsensusPort = (*FakeConsensusPort)(nil)
