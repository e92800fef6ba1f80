// Code generated manually in the style of counterfeiter.

package fakes

import (
	"context"
	"math/big"
	"sync"

	"github.com/relaymesh/eth-relay/internal/domain"
	"github.com/relaymesh/eth-relay/internal/ports"
)

// FakePrecheck is a test double for ports.Precheck.
type FakePrecheck struct {
	mu sync.Mutex

	SendRawTransactionCheckStub func(ctx context.Context, rawTxHex string, gasPrice *big.Int, requestID string) *domain.RPCError

	callCount int
}

func NewFakePrecheck() *FakePrecheck {
	return &FakePrecheck{}
}

func (f *FakePrecheck) CallCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.callCount
}

func (f *FakePrecheck) SendRawTransactionCheck(ctx context.Context, rawTxHex string, gasPrice *big.Int, requestID string) *domain.RPCError {
	f.mu.Lock()
	f.callCount++
	f.mu.Unlock()
	if f.SendRawTransactionCheckStub != nil {
		return f.SendRawTransactionCheckStub(ctx, rawTxHex, gasPrice, requestID)
	}
	return nil
}

var _ ports.Precheck = (*FakePrecheck)(nil)
