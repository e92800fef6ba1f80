// Package feeengine synthesizes Ethereum-shaped fee data the underlying
// ledger does not natively expose: eth_gasPrice and eth_feeHistory (spec
// §4.5).
package feeengine

import (
	"context"
	"math/big"
	"strconv"

	"go.uber.org/zap"

	"github.com/relaymesh/eth-relay/internal/blocktag"
	"github.com/relaymesh/eth-relay/internal/cache"
	"github.com/relaymesh/eth-relay/internal/domain"
	"github.com/relaymesh/eth-relay/internal/hexcodec"
	"github.com/relaymesh/eth-relay/internal/ports"
	"github.com/relaymesh/eth-relay/internal/relayerrors"
)

const (
	cacheKeyGasPrice   = "gasPrice"
	cacheKeyFeeHistory = "feeHistory"

	ethereumTransactionType = "EthereumTransaction"

	gasUsedRatioConstant = 0.5
)

// Engine computes gas price and fee history. It is the only component
// that talks to the network-fees endpoint, so both eth_gasPrice and
// eth_feeHistory share its fallback-to-consensus-node logic.
type Engine struct {
	Mirror        ports.MirrorPort
	Consensus     ports.ConsensusPort
	Cache         *cache.Cache
	BlockTag      *blocktag.Resolver
	Logger        *zap.Logger
	MaxBlockCount int64
}

func New(mirror ports.MirrorPort, consensus ports.ConsensusPort, c *cache.Cache, resolver *blocktag.Resolver, maxBlockCount int64, logger *zap.Logger) *Engine {
	return &Engine{Mirror: mirror, Consensus: consensus, Cache: c, BlockTag: resolver, MaxBlockCount: maxBlockCount, Logger: logger}
}

// GasPrice returns the cached gas price if present, else computes it via
// GetFeeWeibars(eth_gasPrice) and caches it for one hour.
func (e *Engine) GasPrice(ctx context.Context, requestID string) (string, *domain.RPCError) {
	if v, ok := e.Cache.Get(cacheKeyGasPrice); ok {
		return v.(string), nil
	}

	weibars, rpcErr := e.GetFeeWeibars(ctx, "eth_gasPrice", "", requestID)
	if rpcErr != nil {
		e.Logger.Error("failed to fetch gas price", zap.String("requestId", requestID))
		return "", rpcErr
	}

	hex := hexcodec.ToHex(weibars)
	e.Cache.Set(cacheKeyGasPrice, hex, cache.DefaultExpiration)
	return hex, nil
}

// GetFeeWeibars is the critical fee primitive (spec §4.5). It queries the
// mirror's network-fees endpoint, optionally at a point-in-time
// timestamp, falls back to the consensus node's synthetic fee on empty or
// erroring responses, and converts the EthereumTransaction entry from
// tinybar to weibar.
func (e *Engine) GetFeeWeibars(ctx context.Context, callerName string, timestamp string, requestID string) (*big.Int, *domain.RPCError) {
	fees, err := e.Mirror.GetNetworkFees(ctx, timestamp, requestID)
	if err != nil || len(fees) == 0 {
		tinybar, cerr := e.Consensus.GetTinyBarGasFee(ctx, callerName, requestID)
		if cerr != nil {
			return nil, relayerrors.Internal("failed to fetch fee from either backend")
		}
		fees = []ports.NetworkFee{{Gas: tinybar, TransactionType: ethereumTransactionType}}
	}

	for _, fee := range fees {
		if fee.TransactionType == ethereumTransactionType {
			weibar := new(big.Int).Mul(big.NewInt(fee.Gas), big.NewInt(domain.TinybarToWeibarFactor))
			return weibar, nil
		}
	}
	return nil, relayerrors.Internal("no EthereumTransaction fee entry found")
}

// emptyFeeHistory is the unrecoverable-error fallback constant (spec
// §4.5): returned instead of throwing, since feeHistory is a read method.
func emptyFeeHistory() domain.FeeHistoryResult {
	return domain.FeeHistoryResult{
		BaseFeePerGas: []string{},
		GasUsedRatio:  []*float64{},
		Reward:        [][]string{},
		OldestBlock:   domain.ZeroHex,
	}
}

// FeeHistory computes eth_feeHistory. blockCountHex and newestBlock are
// the raw hex/tag JSON-RPC arguments.
func (e *Engine) FeeHistory(ctx context.Context, blockCountHex string, newestBlock string, rewardPercentiles []string, requestID string) (domain.FeeHistoryResult, *domain.RPCError) {
	latest, rpcErr := e.BlockTag.Resolve(ctx, nil, requestID)
	if rpcErr != nil {
		return emptyFeeHistory(), nil
	}

	newestSelector := newestBlock
	newest, rpcErr := e.BlockTag.Resolve(ctx, &newestSelector, requestID)
	if rpcErr != nil {
		return emptyFeeHistory(), nil
	}

	if newest > latest {
		return domain.FeeHistoryResult{}, relayerrors.RequestBeyondHeadBlock(newest, latest)
	}

	blockCount, err := hexcodec.HexToDec(blockCountHex)
	if err != nil {
		return emptyFeeHistory(), nil
	}
	if blockCount > e.MaxBlockCount {
		blockCount = e.MaxBlockCount
	}
	if blockCount <= 0 {
		return domain.FeeHistoryResult{GasUsedRatio: nil, OldestBlock: domain.ZeroHex}, nil
	}

	if cached, ok := e.Cache.Get(cacheKeyFeeHistory); ok {
		return cached.(domain.FeeHistoryResult), nil
	}

	oldest := newest - blockCount + 1
	if oldest < 0 {
		oldest = 0
	}

	baseFees := make([]string, 0, newest-oldest+2)
	ratios := make([]*float64, 0, newest-oldest+1)

	for b := oldest; b <= newest; b++ {
		fee := domain.ZeroHex
		block, blockErr := e.Mirror.GetBlock(ctx, strconv.FormatInt(b, 10), requestID)
		if blockErr == nil && block != nil {
			if weibars, feeErr := e.GetFeeWeibars(ctx, "eth_feeHistory", block.Timestamp.To, requestID); feeErr == nil {
				fee = hexcodec.ToHex(weibars)
			}
		}
		baseFees = append(baseFees, fee)
		ratio := gasUsedRatioConstant
		ratios = append(ratios, &ratio)
	}

	if latest > newest {
		fee := domain.ZeroHex
		nextBlock, blockErr := e.Mirror.GetBlock(ctx, strconv.FormatInt(newest+1, 10), requestID)
		if blockErr == nil && nextBlock != nil {
			if weibars, feeErr := e.GetFeeWeibars(ctx, "eth_feeHistory", nextBlock.Timestamp.To, requestID); feeErr == nil {
				fee = hexcodec.ToHex(weibars)
			}
		}
		baseFees = append(baseFees, fee)
	} else {
		baseFees = append(baseFees, baseFees[len(baseFees)-1])
	}

	result := domain.FeeHistoryResult{
		OldestBlock:   hexcodec.ToHex(oldest),
		BaseFeePerGas: baseFees,
		GasUsedRatio:  ratios,
	}

	if len(rewardPercentiles) > 0 {
		zeroRow := make([]string, len(rewardPercentiles))
		for i := range zeroRow {
			zeroRow[i] = domain.ZeroHex
		}
		reward := make([][]string, blockCount)
		for i := range reward {
			reward[i] = zeroRow
		}
		result.Reward = reward
	}

	// Open question (spec §9): this key ignores (blockCount, newestBlock,
	// rewardPercentiles), so distinct parameter tuples share one cache
	// entry. Preserved intentionally; a future redesign should key on the
	// full parameter tuple.
	e.Cache.Set(cacheKeyFeeHistory, result, cache.DefaultExpiration)

	return result, nil
}
