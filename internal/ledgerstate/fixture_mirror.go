package ledgerstate

import (
	"context"
	"encoding/json"
	"sort"
	"strconv"

	"github.com/relaymesh/eth-relay/internal/ports"
)

// FixtureMirror implements ports.MirrorPort over an in-memory Store,
// loaded from fixture records instead of a live REST indexer. It exists
// for local development and integration tests that want a real MirrorPort
// implementation without standing up a mirror node.
type FixtureMirror struct {
	blocks          *Store
	contractResults *Store
	logs            []ports.LogEntry
	networkFees     []ports.NetworkFee
	contracts       *Store
	entityTypes     *Store
}

func NewFixtureMirror() *FixtureMirror {
	return &FixtureMirror{
		blocks:          NewStore(),
		contractResults: NewStore(),
		contracts:       NewStore(),
		entityTypes:     NewStore(),
	}
}

// LoadBlock seeds a block fixture, keyed by both its decimal number and
// its hash so GetBlock can resolve either selector.
func (m *FixtureMirror) LoadBlock(b ports.BlockResponse) {
	raw, _ := json.Marshal(b)
	m.blocks.Put(strconv.FormatInt(b.Number, 10), raw)
	if b.Hash != "" {
		m.blocks.Put(b.Hash, raw)
	}
}

// LoadContractResult seeds a contract-result fixture, keyed by hash.
func (m *FixtureMirror) LoadContractResult(r ports.ContractResultResponse) {
	raw, _ := json.Marshal(r)
	m.contractResults.Put(r.Hash, raw)
}

// LoadLogs replaces the fixture log set consulted by GetContractResultsLogs(ByAddress).
func (m *FixtureMirror) LoadLogs(logs []ports.LogEntry) {
	m.logs = logs
}

// LoadNetworkFees replaces the fixture fee schedule.
func (m *FixtureMirror) LoadNetworkFees(fees []ports.NetworkFee) {
	m.networkFees = fees
}

// LoadContract seeds a contract metadata fixture, keyed by address.
func (m *FixtureMirror) LoadContract(address string, c ports.ContractResponse) {
	raw, _ := json.Marshal(c)
	m.contracts.Put(address, raw)
}

func (m *FixtureMirror) GetLatestBlock(ctx context.Context, requestID string) (*ports.BlockResponse, error) {
	var latest *ports.BlockResponse
	for _, key := range m.blocks.Keys() {
		raw, ok := m.blocks.Get(key)
		if !ok {
			continue
		}
		var b ports.BlockResponse
		if json.Unmarshal(raw, &b) != nil {
			continue
		}
		if latest == nil || b.Number > latest.Number {
			bCopy := b
			latest = &bCopy
		}
	}
	if latest == nil {
		return nil, ports.ErrNotFound
	}
	return latest, nil
}

func (m *FixtureMirror) GetBlock(ctx context.Context, hashOrNumber string, requestID string) (*ports.BlockResponse, error) {
	raw, ok := m.blocks.Get(hashOrNumber)
	if !ok {
		return nil, ports.ErrNotFound
	}
	var b ports.BlockResponse
	if err := json.Unmarshal(raw, &b); err != nil {
		return nil, err
	}
	return &b, nil
}

func (m *FixtureMirror) GetBlocks(ctx context.Context, filter ports.BlocksFilter, requestID string) ([]ports.BlockResponse, error) {
	var all []ports.BlockResponse
	seen := make(map[int64]bool)
	for _, key := range m.blocks.Keys() {
		raw, ok := m.blocks.Get(key)
		if !ok {
			continue
		}
		var b ports.BlockResponse
		if json.Unmarshal(raw, &b) != nil || seen[b.Number] {
			continue
		}
		seen[b.Number] = true
		if filter.HasGTE && b.Number < filter.GTEBlock {
			continue
		}
		if filter.HasLTE && b.Number > filter.LTEBlock {
			continue
		}
		all = append(all, b)
	}
	sort.Slice(all, func(i, j int) bool {
		if filter.Order == "desc" {
			return all[i].Number > all[j].Number
		}
		return all[i].Number < all[j].Number
	})
	return all, nil
}

func (m *FixtureMirror) GetContractResults(ctx context.Context, filter ports.ContractResultsFilter, requestID string) ([]ports.ContractResultResponse, error) {
	var all []ports.ContractResultResponse
	for _, key := range m.contractResults.Keys() {
		raw, ok := m.contractResults.Get(key)
		if !ok {
			continue
		}
		var r ports.ContractResultResponse
		if json.Unmarshal(raw, &r) != nil {
			continue
		}
		if filter.BlockHash != "" && r.BlockHash != filter.BlockHash {
			continue
		}
		if filter.BlockNumber != 0 && r.BlockNumber != filter.BlockNumber {
			continue
		}
		if filter.TransactionIndex != nil && r.TransactionIndex != *filter.TransactionIndex {
			continue
		}
		if filter.Timestamp.From != "" && r.Timestamp < filter.Timestamp.From {
			continue
		}
		if filter.Timestamp.To != "" && r.Timestamp > filter.Timestamp.To {
			continue
		}
		all = append(all, r)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].TransactionIndex < all[j].TransactionIndex })
	return all, nil
}

func (m *FixtureMirror) GetContractResult(ctx context.Context, hash string, requestID string) (*ports.ContractResultResponse, error) {
	raw, ok := m.contractResults.Get(hash)
	if !ok {
		return nil, ports.ErrNotFound
	}
	var r ports.ContractResultResponse
	if err := json.Unmarshal(raw, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

func (m *FixtureMirror) GetContractResultsByAddressAndTimestamp(ctx context.Context, to string, timestamp string, requestID string) (*ports.ContractResultResponse, error) {
	for _, key := range m.contractResults.Keys() {
		raw, ok := m.contractResults.Get(key)
		if !ok {
			continue
		}
		var r ports.ContractResultResponse
		if json.Unmarshal(raw, &r) != nil {
			continue
		}
		if r.To == to && r.Timestamp == timestamp {
			return &r, nil
		}
	}
	return nil, ports.ErrNotFound
}

func (m *FixtureMirror) GetContractResultsLogs(ctx context.Context, params ports.LogsQueryParams, requestID string) ([]ports.LogEntry, error) {
	return m.filterLogs(params), nil
}

func (m *FixtureMirror) GetContractResultsLogsByAddress(ctx context.Context, address string, params ports.LogsQueryParams, requestID string) ([]ports.LogEntry, error) {
	var out []ports.LogEntry
	for _, l := range m.filterLogs(params) {
		if l.Address == address {
			out = append(out, l)
		}
	}
	return out, nil
}

func (m *FixtureMirror) filterLogs(params ports.LogsQueryParams) []ports.LogEntry {
	var out []ports.LogEntry
	for _, l := range m.logs {
		if params.TimestampGTE != "" && l.Timestamp < params.TimestampGTE {
			continue
		}
		if params.TimestampLTE != "" && l.Timestamp > params.TimestampLTE {
			continue
		}
		if params.Topic0 != "" && (len(l.Topics) < 1 || l.Topics[0] != params.Topic0) {
			continue
		}
		out = append(out, l)
	}
	return out
}

func (m *FixtureMirror) GetContractResultsDetails(ctx context.Context, contractID string, timestamp string, requestID string) (*ports.ContractResultResponse, error) {
	for _, key := range m.contractResults.Keys() {
		raw, ok := m.contractResults.Get(key)
		if !ok {
			continue
		}
		var r ports.ContractResultResponse
		if json.Unmarshal(raw, &r) != nil {
			continue
		}
		if r.Timestamp == timestamp {
			return &r, nil
		}
	}
	return nil, ports.ErrNotFound
}

func (m *FixtureMirror) GetNetworkFees(ctx context.Context, timestamp string, requestID string) ([]ports.NetworkFee, error) {
	return m.networkFees, nil
}

func (m *FixtureMirror) GetContract(ctx context.Context, address string, requestID string) (*ports.ContractResponse, error) {
	raw, ok := m.contracts.Get(address)
	if !ok {
		return nil, ports.ErrNotFound
	}
	var c ports.ContractResponse
	if err := json.Unmarshal(raw, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

func (m *FixtureMirror) ResolveEntityType(ctx context.Context, idOrAddress string, requestID string) (*ports.EntityTypeResponse, error) {
	raw, ok := m.entityTypes.Get(idOrAddress)
	if !ok {
		return nil, ports.ErrNotFound
	}
	var r ports.EntityTypeResponse
	if err := json.Unmarshal(raw, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

// LoadEntityType seeds the account/contract resolution fixture for an id
// or address.
func (m *FixtureMirror) LoadEntityType(idOrAddress string, r ports.EntityTypeResponse) {
	raw, _ := json.Marshal(r)
	m.entityTypes.Put(idOrAddress, raw)
}

var _ ports.MirrorPort = (*FixtureMirror)(nil)
