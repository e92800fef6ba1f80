// Package logquery implements eth_getLogs' query planner (spec §4.4): it
// translates a block-hash or block-range selector into a mirror
// timestamp window, fans out concurrent detail fetches for the distinct
// (contract, timestamp) pairs a raw log list references, and joins the
// results back into canonical Ethereum log records.
package logquery

import (
	"context"
	"errors"
	"strconv"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/relaymesh/eth-relay/internal/domain"
	"github.com/relaymesh/eth-relay/internal/hexcodec"
	"github.com/relaymesh/eth-relay/internal/ports"
	"github.com/relaymesh/eth-relay/internal/relayerrors"
)

// errNotFoundSentinel short-circuits the errgroup to signal "not found"
// (spec §4.4 step 6) without treating it as an unrecoverable failure.
var errNotFoundSentinel = errors.New("log detail not found")

// Planner executes the log query algorithm against a MirrorPort.
type Planner struct {
	Mirror ports.MirrorPort
}

func New(mirror ports.MirrorPort) *Planner {
	return &Planner{Mirror: mirror}
}

type detailKey struct {
	contractID string
	timestamp  string
}

// GetLogs runs the full planner algorithm described in spec §4.4 and
// returns the joined, Ethereum-shaped log list.
func (p *Planner) GetLogs(ctx context.Context, params domain.LogParams, requestID string) ([]domain.Log, *domain.RPCError) {
	window, rpcErr := p.resolveWindow(ctx, params, requestID)
	if rpcErr != nil {
		return nil, rpcErr
	}
	if window == nil {
		return []domain.Log{}, nil
	}

	query := ports.LogsQueryParams{
		TimestampGTE: window.From,
		TimestampLTE: window.To,
	}
	if len(params.Topics[0]) > 0 {
		query.Topic0 = params.Topics[0][0]
	}
	if len(params.Topics[1]) > 0 {
		query.Topic1 = params.Topics[1][0]
	}
	if len(params.Topics[2]) > 0 {
		query.Topic2 = params.Topics[2][0]
	}
	if len(params.Topics[3]) > 0 {
		query.Topic3 = params.Topics[3][0]
	}

	var raw []ports.LogEntry
	var err error
	if len(params.Address) > 0 {
		raw, err = p.Mirror.GetContractResultsLogsByAddress(ctx, params.Address[0], query, requestID)
	} else {
		raw, err = p.Mirror.GetContractResultsLogs(ctx, query, requestID)
	}
	if err != nil {
		if err == ports.ErrNotFound {
			return []domain.Log{}, nil
		}
		return nil, relayerrors.Internal("failed to query logs: " + err.Error())
	}

	details, rpcErr := p.fetchDetails(ctx, raw, requestID)
	if rpcErr != nil {
		return nil, rpcErr
	}
	if details == nil {
		return []domain.Log{}, nil
	}

	logs := make([]domain.Log, 0, len(raw))
	for i, entry := range raw {
		detail := details[detailKey{entry.ContractID, entry.Timestamp}]
		if detail == nil {
			return []domain.Log{}, nil
		}

		logs = append(logs, domain.Log{
			Address:          entry.Address,
			BlockHash:        hexcodec.ToHash32(detail.BlockHash),
			BlockNumber:      hexcodec.ToHex(detail.BlockNumber),
			Data:             entry.Data,
			LogIndex:         hexcodec.ToHex(i),
			Removed:          false,
			Topics:           entry.Topics,
			TransactionHash:  hexcodec.ToHash32(detail.Hash),
			TransactionIndex: hexcodec.ToHex(detail.TransactionIndex),
		})
	}
	return logs, nil
}

// resolveWindow translates the block-hash/range selector into a
// consensus-timestamp window. A nil return with no error means "no
// matching window" (e.g. an unknown block hash), which callers collapse
// to the empty log list.
func (p *Planner) resolveWindow(ctx context.Context, params domain.LogParams, requestID string) (*ports.TimestampRange, *domain.RPCError) {
	if params.BlockHash != "" {
		block, err := p.Mirror.GetBlock(ctx, params.BlockHash, requestID)
		if err != nil || block == nil {
			return nil, nil
		}
		return &block.Timestamp, nil
	}

	if params.FromBlock == "" && params.ToBlock == "" {
		return &ports.TimestampRange{}, nil
	}

	filter := ports.BlocksFilter{Order: "asc"}
	if params.ToBlock != "" {
		filter.Order = "desc"
		if n, err := strconv.ParseInt(hexcodec.Prune0x(params.ToBlock), 16, 64); err == nil {
			filter.LTEBlock = n
			filter.HasLTE = true
		}
	}
	if params.FromBlock != "" {
		if n, err := strconv.ParseInt(hexcodec.Prune0x(params.FromBlock), 16, 64); err == nil {
			filter.GTEBlock = n
			filter.HasGTE = true
		}
	}

	blocks, err := p.Mirror.GetBlocks(ctx, filter, requestID)
	if err != nil {
		return nil, relayerrors.Internal("failed to resolve log block window: " + err.Error())
	}
	if len(blocks) == 0 {
		return nil, nil
	}

	first, last := blocks[0], blocks[len(blocks)-1]
	if filter.Order == "desc" {
		first, last = last, first
	}
	return &ports.TimestampRange{From: first.Timestamp.From, To: last.Timestamp.To}, nil
}

// fetchDetails deduplicates the raw log list by (contract, timestamp) and
// fans out one concurrent detail fetch per distinct pair, since the same
// timestamp may recur across multiple log entries from the same
// contract-result. A nil, nil return signals a "not found" in any branch,
// per spec §4.4 step 6.
func (p *Planner) fetchDetails(ctx context.Context, raw []ports.LogEntry, requestID string) (map[detailKey]*ports.ContractResultResponse, *domain.RPCError) {
	keys := make(map[detailKey]struct{})
	for _, entry := range raw {
		keys[detailKey{entry.ContractID, entry.Timestamp}] = struct{}{}
	}

	results := make(map[detailKey]*ports.ContractResultResponse, len(keys))
	var mu sync.Mutex
	group, gctx := errgroup.WithContext(ctx)

	for key := range keys {
		key := key
		group.Go(func() error {
			detail, err := p.Mirror.GetContractResultsDetails(gctx, key.contractID, key.timestamp, requestID)
			if err != nil {
				if err == ports.ErrNotFound {
					mu.Lock()
					results[key] = nil
					mu.Unlock()
					return errNotFoundSentinel
				}
				return err
			}
			mu.Lock()
			results[key] = detail
			mu.Unlock()
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		if err == errNotFoundSentinel {
			return nil, nil
		}
		return nil, relayerrors.Internal("failed to fetch log detail: " + err.Error())
	}

	for _, detail := range results {
		if detail == nil {
			return nil, nil
		}
	}
	return results, nil
}
