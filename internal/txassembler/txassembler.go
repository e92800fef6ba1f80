// Package txassembler projects the mirror's raw contract-result and
// block records into Ethereum-shaped Transaction, Receipt, and Block
// values (spec §4.3).
package txassembler

import (
	"context"
	"math/big"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/relaymesh/eth-relay/internal/blocktag"
	"github.com/relaymesh/eth-relay/internal/domain"
	"github.com/relaymesh/eth-relay/internal/feeengine"
	"github.com/relaymesh/eth-relay/internal/hexcodec"
	"github.com/relaymesh/eth-relay/internal/ports"
	"github.com/relaymesh/eth-relay/internal/relayerrors"
)

// Assembler builds Transaction/Receipt/Block values from MirrorPort data.
type Assembler struct {
	Mirror   ports.MirrorPort
	Resolver *blocktag.Resolver
	Fees     *feeengine.Engine
}

func New(mirror ports.MirrorPort, resolver *blocktag.Resolver, fees *feeengine.Engine) *Assembler {
	return &Assembler{Mirror: mirror, Resolver: resolver, Fees: fees}
}

// GetTransactionByHash looks up a single transaction by its 32-byte hash.
// A mirror miss or a record lacking a hash field both resolve to "not
// found", represented as (nil, nil) rather than an error.
func (a *Assembler) GetTransactionByHash(ctx context.Context, hash string, requestID string) (*domain.Transaction, *domain.RPCError) {
	cr, err := a.Mirror.GetContractResult(ctx, hash, requestID)
	if err != nil || cr == nil || cr.Hash == "" {
		return nil, nil
	}
	return a.projectTransaction(cr), nil
}

// GetTransactionByBlockHashAndIndex resolves the transaction at a given
// index within the named block.
func (a *Assembler) GetTransactionByBlockHashAndIndex(ctx context.Context, blockHash string, index int, requestID string) (*domain.Transaction, *domain.RPCError) {
	return a.getTransactionByBlockAndIndex(ctx, ports.ContractResultsFilter{BlockHash: blockHash, TransactionIndex: &index}, requestID)
}

// GetTransactionByBlockNumberAndIndex is the number-indexed counterpart
// of GetTransactionByBlockHashAndIndex.
func (a *Assembler) GetTransactionByBlockNumberAndIndex(ctx context.Context, blockNumber int64, index int, requestID string) (*domain.Transaction, *domain.RPCError) {
	return a.getTransactionByBlockAndIndex(ctx, ports.ContractResultsFilter{BlockNumber: blockNumber, TransactionIndex: &index}, requestID)
}

func (a *Assembler) getTransactionByBlockAndIndex(ctx context.Context, filter ports.ContractResultsFilter, requestID string) (*domain.Transaction, *domain.RPCError) {
	results, err := a.Mirror.GetContractResults(ctx, filter, requestID)
	if err != nil {
		return nil, relayerrors.Internal("failed to query contract results: " + err.Error())
	}
	if len(results) == 0 {
		return nil, nil
	}

	first := results[0]
	detail, err := a.Mirror.GetContractResultsByAddressAndTimestamp(ctx, first.To, first.Timestamp, requestID)
	if err != nil || detail == nil {
		return nil, nil
	}
	return a.projectTransaction(detail), nil
}

// projectTransaction is the shared Transaction (spec §3) projection used
// by every transaction-returning handler.
func (a *Assembler) projectTransaction(cr *ports.ContractResultResponse) *domain.Transaction {
	var to *string
	if cr.To != "" {
		t := cr.To
		to = &t
	}

	txType := 0
	if cr.Type != nil {
		txType = *cr.Type
	}

	return &domain.Transaction{
		Hash:                 hexcodec.ToHash32(cr.Hash),
		BlockHash:            hexcodec.ToHash32(cr.BlockHash),
		BlockNumber:          hexcodec.ToHex(cr.BlockNumber),
		From:                 cr.From,
		To:                   to,
		Nonce:                hexcodec.ToHex(cr.Nonce),
		Value:                hexcodec.ToHex(cr.Amount),
		Gas:                  hexcodec.ToHex(cr.GasLimit),
		GasPrice:             cr.GasPrice,
		Input:                cr.FunctionParameters,
		TransactionIndex:     hexcodec.ToHex(cr.TransactionIndex),
		Type:                 hexcodec.ToHex(txType),
		ChainId:              cr.ChainID,
		V:                    hexcodec.ToHex(cr.V),
		R:                    truncate66(cr.R),
		S:                    truncate66(cr.S),
		MaxFeePerGas:         hexcodec.ToNullIfEmpty(cr.MaxFeePerGas),
		MaxPriorityFeePerGas: hexcodec.ToNullIfEmpty(cr.MaxPriorityFeePerGas),
	}
}

func truncate66(s string) string {
	if len(s) > domain.HashHexLength {
		return s[:domain.HashHexLength]
	}
	return s
}

// GetTransactionReceipt assembles Receipt (spec §3) from the mirror's
// contract-result record.
func (a *Assembler) GetTransactionReceipt(ctx context.Context, hash string, requestID string) (*domain.TransactionReceipt, *domain.RPCError) {
	cr, err := a.Mirror.GetContractResult(ctx, hash, requestID)
	if err != nil || cr == nil || cr.Hash == "" {
		return nil, nil
	}

	effectiveGasPriceTinybarHex := cr.GasPrice
	if cr.MaxFeePerGas != "" && cr.MaxFeePerGas != domain.EmptyHex {
		effectiveGasPriceTinybarHex = cr.MaxFeePerGas
	}
	effectiveGasPrice, convErr := tinybarHexToWeibarHex(effectiveGasPriceTinybarHex)
	if convErr != nil {
		effectiveGasPrice = domain.ZeroHex
	}

	var contractAddress *string
	if len(cr.CreatedContractIDs) > 0 {
		addr := entityIDToAddress(cr.CreatedContractIDs[0])
		contractAddress = &addr
	}

	var to *string
	if cr.To != "" {
		t := cr.To
		to = &t
	}

	blockHash := hexcodec.ToHash32(cr.BlockHash)
	blockNumber := hexcodec.ToHex(cr.BlockNumber)
	txHash := hexcodec.ToHash32(cr.Hash)
	txIndex := hexcodec.ToHex(cr.TransactionIndex)

	logs := make([]domain.Log, 0, len(cr.Logs))
	for _, l := range cr.Logs {
		logs = append(logs, domain.Log{
			Address:          l.Address,
			BlockHash:        blockHash,
			BlockNumber:      blockNumber,
			Data:             l.Data,
			LogIndex:         hexcodec.ToHex(l.Index),
			Removed:          false,
			Topics:           l.Topics,
			TransactionHash:  txHash,
			TransactionIndex: txIndex,
		})
	}

	return &domain.TransactionReceipt{
		BlockHash:         blockHash,
		BlockNumber:       blockNumber,
		From:              cr.From,
		To:                to,
		CumulativeGasUsed: hexcodec.ToHex(cr.BlockGasUsed),
		GasUsed:           hexcodec.ToHex(cr.GasUsed),
		ContractAddress:   contractAddress,
		Logs:              logs,
		LogsBloom:         cr.Bloom,
		TransactionHash:   txHash,
		TransactionIndex:  txIndex,
		EffectiveGasPrice: effectiveGasPrice,
		Root:              cr.Root,
		Status:            cr.Status,
	}, nil
}

// tinybarHexToWeibarHex converts a hex-encoded tinybar amount to its
// weibar-scaled hex representation.
func tinybarHexToWeibarHex(hex string) (string, error) {
	tinybar, err := hexcodec.HexToDec(hex)
	if err != nil {
		return "", err
	}
	weibar := new(big.Int).Mul(big.NewInt(tinybar), big.NewInt(domain.TinybarToWeibarFactor))
	return hexcodec.ToHex(weibar), nil
}

// entityIDToAddress packs a "shard.realm.num" entity id into a 20-byte
// EVM address: 4 bytes shard, 8 bytes realm, 8 bytes num, big-endian.
func entityIDToAddress(id string) string {
	parts := strings.Split(id, ".")
	if len(parts) != 3 {
		return domain.ZeroAddressHex
	}
	shard, _ := strconv.ParseUint(parts[0], 10, 32)
	realm, _ := strconv.ParseUint(parts[1], 10, 64)
	num, _ := strconv.ParseUint(parts[2], 10, 64)

	buf := make([]byte, 20)
	buf[0] = byte(shard >> 24)
	buf[1] = byte(shard >> 16)
	buf[2] = byte(shard >> 8)
	buf[3] = byte(shard)
	for i := 0; i < 8; i++ {
		buf[4+i] = byte(realm >> (56 - 8*i))
	}
	for i := 0; i < 8; i++ {
		buf[12+i] = byte(num >> (56 - 8*i))
	}

	return "0x" + hexEncode(buf)
}

const hexDigits = "0123456789abcdef"

func hexEncode(b []byte) string {
	out := make([]byte, len(b)*2)
	for i, v := range b {
		out[i*2] = hexDigits[v>>4]
		out[i*2+1] = hexDigits[v&0x0f]
	}
	return string(out)
}

// GetBlock is the shared getBlockByHash/getBlockByNumber implementation
// (spec §4.3). selector may be a 32-byte hash, a tag, or a decimal/hex
// block number.
func (a *Assembler) GetBlock(ctx context.Context, selector string, showDetails bool, requestID string) (*domain.Block, *domain.RPCError) {
	block, rpcErr := a.resolveBlock(ctx, selector, requestID)
	if rpcErr != nil {
		return nil, rpcErr
	}
	if block == nil {
		return nil, nil
	}

	results, err := a.Mirror.GetContractResults(ctx, ports.ContractResultsFilter{
		BlockHash: block.Hash,
		Timestamp: block.Timestamp,
	}, requestID)
	if err != nil {
		return nil, relayerrors.Internal("failed to query contract results for block: " + err.Error())
	}

	var gasUsed, gasLimit int64
	timestamp := block.Timestamp.From
	for i, r := range results {
		gasUsed += r.GasUsed
		if r.GasLimit > gasLimit {
			gasLimit = r.GasLimit
		}
		if i == 0 {
			timestamp = r.Timestamp
		}
	}
	secs := truncateTimestampSeconds(timestamp)

	txs, rpcErr := a.materializeTransactions(ctx, results, showDetails, requestID)
	if rpcErr != nil {
		return nil, rpcErr
	}

	transactionsRoot := domain.EmptyTrieRoot
	if len(txs) > 0 {
		transactionsRoot = hexcodec.ToHash32(block.Hash)
	}

	baseFee, rpcErr := a.Fees.GasPrice(ctx, requestID)
	if rpcErr != nil {
		baseFee = domain.ZeroHex
	}

	return &domain.Block{
		Number:           hexcodec.ToHex(block.Number),
		Hash:             hexcodec.ToHash32(block.Hash),
		ParentHash:       hexcodec.ToHash32(block.PreviousHash),
		Timestamp:        hexcodec.ToHex(secs),
		GasLimit:         hexcodec.ToHex(gasLimit),
		GasUsed:          hexcodec.ToHex(gasUsed),
		BaseFeePerGas:    baseFee,
		Transactions:     txs,
		TransactionsRoot: transactionsRoot,

		Difficulty:      domain.ZeroHex,
		MixHash:         domain.Zero32ByteHex,
		Nonce:           domain.Zero8ByteHex,
		Sha3Uncles:      domain.EmptyArrayKeccak,
		ReceiptsRoot:    domain.Zero32ByteHex,
		StateRoot:       domain.Zero32ByteHex,
		Uncles:          []string{},
		ExtraData:       domain.EmptyHex,
		LogsBloom:       domain.EmptyBloomHex,
		Size:            hexcodec.ToHex(block.Size),
		TotalDifficulty: domain.ZeroHex,
	}, nil
}

func (a *Assembler) resolveBlock(ctx context.Context, selector string, requestID string) (*ports.BlockResponse, *domain.RPCError) {
	if blocktag.IsHash(selector) {
		block, err := a.Mirror.GetBlock(ctx, selector, requestID)
		if err != nil {
			return nil, nil
		}
		return block, nil
	}

	switch selector {
	case blocktag.TagLatest, blocktag.TagPending, "":
		n, rpcErr := a.Resolver.Resolve(ctx, nil, requestID)
		if rpcErr != nil {
			return nil, rpcErr
		}
		return a.fetchBlockByNumber(ctx, n, requestID)
	case blocktag.TagEarliest:
		return a.fetchBlockByNumber(ctx, 0, requestID)
	default:
		n, err := hexcodec.DecOrHexToInt(selector)
		if err != nil {
			return nil, relayerrors.Internal("invalid block selector: " + err.Error())
		}
		return a.fetchBlockByNumber(ctx, n, requestID)
	}
}

func (a *Assembler) fetchBlockByNumber(ctx context.Context, number int64, requestID string) (*ports.BlockResponse, *domain.RPCError) {
	block, err := a.Mirror.GetBlock(ctx, strconv.FormatInt(number, 10), requestID)
	if err != nil {
		return nil, nil
	}
	return block, nil
}

// materializeTransactions collects either full Transaction records or
// bare hashes, per showDetails, skipping results with no `to` (spec §4.3
// "Ordering & tie-breaks").
func (a *Assembler) materializeTransactions(ctx context.Context, results []ports.ContractResultResponse, showDetails bool, requestID string) ([]interface{}, *domain.RPCError) {
	if !showDetails {
		txs := make([]interface{}, 0, len(results))
		for _, r := range results {
			if r.To == "" {
				continue
			}
			txs = append(txs, hexcodec.ToHash32(r.Hash))
		}
		return txs, nil
	}

	materialized := make([]*domain.Transaction, len(results))
	group, gctx := errgroup.WithContext(ctx)
	for i, r := range results {
		if r.To == "" {
			continue
		}
		i, r := i, r
		group.Go(func() error {
			detail, err := a.Mirror.GetContractResultsByAddressAndTimestamp(gctx, r.To, r.Timestamp, requestID)
			if err != nil || detail == nil {
				return nil
			}
			materialized[i] = a.projectTransaction(detail)
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, relayerrors.Internal("failed to materialize block transactions: " + err.Error())
	}

	txs := make([]interface{}, 0, len(results))
	for _, m := range materialized {
		if m != nil {
			txs = append(txs, *m)
		}
	}
	return txs, nil
}

func truncateTimestampSeconds(timestamp string) int64 {
	if timestamp == "" {
		return 0
	}
	parts := strings.SplitN(timestamp, ".", 2)
	secs, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return 0
	}
	return secs
}
