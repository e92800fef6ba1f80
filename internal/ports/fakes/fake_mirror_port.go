// Code generated manually in the style of counterfeiter. DO NOT regenerate
// with counterfeiter without reviewing the Stub fields below -- this fake
// favors direct stub functions over the full call-recording API.

package fakes

import (
	"context"
	"sync"

	"github.com/relaymesh/eth-relay/internal/ports"
)

// FakeMirrorPort is a test double for ports.MirrorPort. Each method
// delegates to its *Stub field when set, and otherwise returns the zero
// value; call counts are tracked for assertions.
type FakeMirrorPort struct {
	mu sync.Mutex

	GetLatestBlockStub func(ctx context.Context, requestID string) (*ports.BlockResponse, error)
	GetBlockStub       func(ctx context.Context, hashOrNumber string, requestID string) (*ports.BlockResponse, error)
	GetBlocksStub      func(ctx context.Context, filter ports.BlocksFilter, requestID string) ([]ports.BlockResponse, error)

	GetContractResultsStub                      func(ctx context.Context, filter ports.ContractResultsFilter, requestID string) ([]ports.ContractResultResponse, error)
	GetContractResultStub                       func(ctx context.Context, hash string, requestID string) (*ports.ContractResultResponse, error)
	GetContractResultsByAddressAndTimestampStub func(ctx context.Context, to string, timestamp string, requestID string) (*ports.ContractResultResponse, error)
	GetContractResultsLogsStub                  func(ctx context.Context, params ports.LogsQueryParams, requestID string) ([]ports.LogEntry, error)
	GetContractResultsLogsByAddressStub         func(ctx context.Context, address string, params ports.LogsQueryParams, requestID string) ([]ports.LogEntry, error)
	GetContractResultsDetailsStub               func(ctx context.Context, contractID string, timestamp string, requestID string) (*ports.ContractResultResponse, error)

	GetNetworkFeesStub    func(ctx context.Context, timestamp string, requestID string) ([]ports.NetworkFee, error)
	GetContractStub       func(ctx context.Context, address string, requestID string) (*ports.ContractResponse, error)
	ResolveEntityTypeStub func(ctx context.Context, idOrAddress string, requestID string) (*ports.EntityTypeResponse, error)

	callCounts map[string]int
}

func NewFakeMirrorPort() *FakeMirrorPort {
	return &FakeMirrorPort{callCounts: make(map[string]int)}
}

func (f *FakeMirrorPort) record(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.callCounts == nil {
		f.callCounts = make(map[string]int)
	}
	f.callCounts[name]++
}

// CallCount returns how many times the named method was invoked.
func (f *FakeMirrorPort) CallCount(method string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.callCounts[method]
}

func (f *FakeMirrorPort) GetLatestBlock(ctx context.Context, requestID string) (*ports.BlockResponse, error) {
	f.record("GetLatestBlock")
	if f.GetLatestBlockStub != nil {
		return f.GetLatestBlockStub(ctx, requestID)
	}
	return nil, nil
}

func (f *FakeMirrorPort) GetBlock(ctx context.Context, hashOrNumber string, requestID string) (*ports.BlockResponse, error) {
	f.record("GetBlock")
	if f.GetBlockStub != nil {
		return f.GetBlockStub(ctx, hashOrNumber, requestID)
	}
	return nil, nil
}

func (f *FakeMirrorPort) GetBlocks(ctx context.Context, filter ports.BlocksFilter, requestID string) ([]ports.BlockResponse, error) {
	f.record("GetBlocks")
	if f.GetBlocksStub != nil {
		return f.GetBlocksStub(ctx, filter, requestID)
	}
	return nil, nil
}

func (f *FakeMirrorPort) GetContractResults(ctx context.Context, filter ports.ContractResultsFilter, requestID string) ([]ports.ContractResultResponse, error) {
	f.record("GetContractResults")
	if f.GetContractResultsStub != nil {
		return f.GetContractResultsStub(ctx, filter, requestID)
	}
	return nil, nil
}

func (f *FakeMirrorPort) GetContractResult(ctx context.Context, hash string, requestID string) (*ports.ContractResultResponse, error) {
	f.record("GetContractResult")
	if f.GetContractResultStub != nil {
		return f.GetContractResultStub(ctx, hash, requestID)
	}
	return nil, nil
}

func (f *FakeMirrorPort) GetContractResultsByAddressAndTimestamp(ctx context.Context, to string, timestamp string, requestID string) (*ports.ContractResultResponse, error) {
	f.record("GetContractResultsByAddressAndTimestamp")
	if f.GetContractResultsByAddressAndTimestampStub != nil {
		return f.GetContractResultsByAddressAndTimestampStub(ctx, to, timestamp, requestID)
	}
	return nil, nil
}

func (f *FakeMirrorPort) GetContractResultsLogs(ctx context.Context, params ports.LogsQueryParams, requestID string) ([]ports.LogEntry, error) {
	f.record("GetContractResultsLogs")
	if f.GetContractResultsLogsStub != nil {
		return f.GetContractResultsLogsStub(ctx, params, requestID)
	}
	return nil, nil
}

func (f *FakeMirrorPort) GetContractResultsLogsByAddress(ctx context.Context, address string, params ports.LogsQueryParams, requestID string) ([]ports.LogEntry, error) {
	f.record("GetContractResultsLogsByAddress")
	if f.GetContractResultsLogsByAddressStub != nil {
		return f.GetContractResultsLogsByAddressStub(ctx, address, params, requestID)
	}
	return nil, nil
}

func (f *FakeMirrorPort) GetContractResultsDetails(ctx context.Context, contractID string, timestamp string, requestID string) (*ports.ContractResultResponse, error) {
	f.record("GetContractResultsDetails")
	if f.GetContractResultsDetailsStub != nil {
		return f.GetContractResultsDetailsStub(ctx, contractID, timestamp, requestID)
	}
	return nil, nil
}

func (f *FakeMirrorPort) GetNetworkFees(ctx context.Context, timestamp string, requestID string) ([]ports.NetworkFee, error) {
	f.record("GetNetworkFees")
	if f.GetNetworkFeesStub != nil {
		return f.GetNetworkFeesStub(ctx, timestamp, requestID)
	}
	return nil, nil
}

func (f *FakeMirrorPort) GetContract(ctx context.Context, address string, requestID string) (*ports.ContractResponse, error) {
	f.record("GetContract")
	if f.GetContractStub != nil {
		return f.GetContractStub(ctx, address, requestID)
	}
	return nil, nil
}

func (f *FakeMirrorPort) ResolveEntityType(ctx context.Context, idOrAddress string, requestID string) (*ports.EntityTypeResponse, error) {
	f.record("ResolveEntityType")
	if f.ResolveEntityTypeStub != nil {
		return f.ResolveEntityTypeStub(ctx, idOrAddress, requestID)
	}
	return nil, nil
}

var _ ports.MirrorPort = (*FakeMirrorPort)(nil)
