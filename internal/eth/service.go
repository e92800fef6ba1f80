// Package eth is the translation core: one dispatcher method per
// supported eth_* JSON-RPC method (spec §4.1, §4.7-§4.9), composing the
// block-tag resolver, fee engine, log planner, transaction assembler,
// and raw-transaction submitter into the public surface gorilla/rpc
// exposes over HTTP.
package eth

import (
	"context"
	"math/big"

	"go.uber.org/zap"

	"github.com/relaymesh/eth-relay/internal/blocktag"
	"github.com/relaymesh/eth-relay/internal/cache"
	"github.com/relaymesh/eth-relay/internal/domain"
	"github.com/relaymesh/eth-relay/internal/feeengine"
	"github.com/relaymesh/eth-relay/internal/hexcodec"
	"github.com/relaymesh/eth-relay/internal/logquery"
	"github.com/relaymesh/eth-relay/internal/ports"
	"github.com/relaymesh/eth-relay/internal/relayerrors"
	"github.com/relaymesh/eth-relay/internal/sendraw"
	"github.com/relaymesh/eth-relay/internal/txassembler"
)

// Default gas figures used by estimateGas/call when the caller omits
// explicit values (spec §4.7).
const (
	DefaultCallGas = 400_000
	TxBaseCost     = 21_000
	TxDefaultGas   = 400_000
)

// Service is the Ethereum-shaped JSON-RPC surface. One instance is
// shared across requests; all mutable state lives in Cache, which is
// safe for concurrent use.
type Service struct {
	Mirror    ports.MirrorPort
	Consensus ports.ConsensusPort
	Cache     *cache.Cache
	Resolver  *blocktag.Resolver
	Fees      *feeengine.Engine
	Logs      *logquery.Planner
	Tx        *txassembler.Assembler
	Raw       *sendraw.Submitter
	ChainID   string
	Logger    *zap.Logger
}

// New wires a Service from its external collaborators. chainID is the
// configured chain hex (e.g. "0x12a") returned verbatim by ChainId.
func New(mirror ports.MirrorPort, consensus ports.ConsensusPort, precheck ports.Precheck, chainID string, maxFeeHistoryBlockCount int64, logger *zap.Logger) *Service {
	c := cache.New()
	resolver := blocktag.New(mirror)
	fees := feeengine.New(mirror, consensus, c, resolver, maxFeeHistoryBlockCount, logger)
	return &Service{
		Mirror:    mirror,
		Consensus: consensus,
		Cache:     c,
		Resolver:  resolver,
		Fees:      fees,
		Logs:      logquery.New(mirror),
		Tx:        txassembler.New(mirror, resolver, fees),
		Raw:       sendraw.New(consensus, precheck, fees),
		ChainID:   chainID,
		Logger:    logger,
	}
}

// ChainId returns the configured chain hex with no I/O (spec S1).
func (s *Service) ChainId(ctx context.Context, requestID string) (string, *domain.RPCError) {
	return s.ChainID, nil
}

// BlockNumber returns the mirror's current head as hex.
func (s *Service) BlockNumber(ctx context.Context, requestID string) (string, *domain.RPCError) {
	n, rpcErr := s.Resolver.Resolve(ctx, nil, requestID)
	if rpcErr != nil {
		return "", rpcErr
	}
	return hexcodec.ToHex(n), nil
}

// GasPrice delegates to the fee engine.
func (s *Service) GasPrice(ctx context.Context, requestID string) (string, *domain.RPCError) {
	return s.Fees.GasPrice(ctx, requestID)
}

// FeeHistory delegates to the fee engine.
func (s *Service) FeeHistory(ctx context.Context, blockCount string, newestBlock string, rewardPercentiles []string, requestID string) (domain.FeeHistoryResult, *domain.RPCError) {
	return s.Fees.FeeHistory(ctx, blockCount, newestBlock, rewardPercentiles, requestID)
}

// GetBlockByHash and GetBlockByNumber share the transaction assembler's
// two-stage retrieval (spec §4.3).
func (s *Service) GetBlockByHash(ctx context.Context, hash string, showDetails bool, requestID string) (*domain.Block, *domain.RPCError) {
	return s.Tx.GetBlock(ctx, hash, showDetails, requestID)
}

func (s *Service) GetBlockByNumber(ctx context.Context, numberOrTag string, showDetails bool, requestID string) (*domain.Block, *domain.RPCError) {
	return s.Tx.GetBlock(ctx, numberOrTag, showDetails, requestID)
}

func (s *Service) GetBlockTransactionCountByHash(ctx context.Context, hash string, requestID string) (string, *domain.RPCError) {
	block, rpcErr := s.Tx.GetBlock(ctx, hash, false, requestID)
	if rpcErr != nil {
		return "", rpcErr
	}
	if block == nil {
		return domain.ZeroHex, nil
	}
	return hexcodec.ToHex(len(block.Transactions)), nil
}

func (s *Service) GetBlockTransactionCountByNumber(ctx context.Context, numberOrTag string, requestID string) (string, *domain.RPCError) {
	block, rpcErr := s.Tx.GetBlock(ctx, numberOrTag, false, requestID)
	if rpcErr != nil {
		return "", rpcErr
	}
	if block == nil {
		return domain.ZeroHex, nil
	}
	return hexcodec.ToHex(len(block.Transactions)), nil
}

// GetTransactionByHash delegates to the transaction assembler.
func (s *Service) GetTransactionByHash(ctx context.Context, hash string, requestID string) (*domain.Transaction, *domain.RPCError) {
	return s.Tx.GetTransactionByHash(ctx, hash, requestID)
}

func (s *Service) GetTransactionByBlockHashAndIndex(ctx context.Context, blockHash string, index int, requestID string) (*domain.Transaction, *domain.RPCError) {
	return s.Tx.GetTransactionByBlockHashAndIndex(ctx, blockHash, index, requestID)
}

func (s *Service) GetTransactionByBlockNumberAndIndex(ctx context.Context, numberOrTag string, index int, requestID string) (*domain.Transaction, *domain.RPCError) {
	n, rpcErr := s.Resolver.Resolve(ctx, &numberOrTag, requestID)
	if rpcErr != nil {
		return nil, rpcErr
	}
	return s.Tx.GetTransactionByBlockNumberAndIndex(ctx, n, index, requestID)
}

// GetTransactionReceipt delegates to the transaction assembler.
func (s *Service) GetTransactionReceipt(ctx context.Context, hash string, requestID string) (*domain.TransactionReceipt, *domain.RPCError) {
	return s.Tx.GetTransactionReceipt(ctx, hash, requestID)
}

// GetLogs delegates to the log query planner.
func (s *Service) GetLogs(ctx context.Context, params domain.LogParams, requestID string) ([]domain.Log, *domain.RPCError) {
	return s.Logs.GetLogs(ctx, params, requestID)
}

// SendRawTransaction delegates to the raw-transaction submitter.
func (s *Service) SendRawTransaction(ctx context.Context, data string, requestID string) (string, *domain.RPCError) {
	return s.Raw.Send(ctx, data, requestID)
}

const (
	cacheKeyGetBalance = "getBalance"
	cacheKeyGetCode    = "getCode"
)

// GetBalance resolves account vs. contract via the mirror's entity-type
// lookup, then queries the matching consensus-node balance (spec §4.7).
// A backend "invalid id" error caches and returns 0x0.
func (s *Service) GetBalance(ctx context.Context, account string, tag string, requestID string) (string, *domain.RPCError) {
	key := cacheKeyGetBalance + "." + account + "." + tag
	if v, ok := s.Cache.Get(key); ok {
		return v.(string), nil
	}

	if _, rpcErr := s.Resolver.Resolve(ctx, &tag, requestID); rpcErr != nil {
		return "", rpcErr
	}

	entity, err := s.Mirror.ResolveEntityType(ctx, account, requestID)
	if err != nil || entity == nil {
		s.Cache.Set(key, domain.ZeroHex, cache.DefaultExpiration)
		return domain.ZeroHex, nil
	}

	var weibars *big.Int
	var balErr error
	if entity.Type == ports.EntityContract {
		weibars, balErr = s.Consensus.GetContractBalanceInWeiBar(ctx, entity.ContractID, "eth_getBalance", requestID)
	} else {
		weibars, balErr = s.Consensus.GetAccountBalanceInWeiBar(ctx, entity.AccountID, "eth_getBalance", requestID)
	}
	if balErr == ports.ErrInvalidAccountID || balErr == ports.ErrInvalidContractID {
		s.Cache.Set(key, domain.ZeroHex, cache.DefaultExpiration)
		return domain.ZeroHex, nil
	}
	if balErr != nil {
		return "", relayerrors.Internal("failed to fetch balance: " + balErr.Error())
	}

	result := hexcodec.ToHex(weibars)
	s.Cache.Set(key, result, cache.DefaultExpiration)
	return result, nil
}

// GetCode fetches runtime bytecode, preferring the mirror's cached copy
// over a consensus-node round trip (spec §4.7).
func (s *Service) GetCode(ctx context.Context, address string, tag string, requestID string) (string, *domain.RPCError) {
	key := cacheKeyGetCode + "." + address + "." + tag
	if v, ok := s.Cache.Get(key); ok {
		return v.(string), nil
	}

	if _, rpcErr := s.Resolver.Resolve(ctx, &tag, requestID); rpcErr != nil {
		return "", rpcErr
	}

	contract, err := s.Mirror.GetContract(ctx, address, requestID)
	if err == nil && contract != nil && contract.RuntimeBytecode != "" && contract.RuntimeBytecode != domain.EmptyHex {
		s.Cache.Set(key, contract.RuntimeBytecode, cache.DefaultExpiration)
		return contract.RuntimeBytecode, nil
	}

	entity, err := s.Mirror.ResolveEntityType(ctx, address, requestID)
	if err != nil || entity == nil || entity.Type != ports.EntityContract {
		s.Cache.Set(key, domain.EmptyHex, cache.DefaultExpiration)
		return domain.EmptyHex, nil
	}

	code, err := s.Consensus.GetContractByteCode(ctx, 0, 0, entity.ContractID, "eth_getCode", requestID)
	if err == ports.ErrInvalidContractID {
		s.Cache.Set(key, domain.EmptyHex, cache.DefaultExpiration)
		return domain.EmptyHex, nil
	}
	if err != nil {
		return "", relayerrors.Internal("failed to fetch contract bytecode: " + err.Error())
	}
	if len(code) == 0 {
		s.Cache.Set(key, domain.EmptyHex, cache.DefaultExpiration)
		return domain.EmptyHex, nil
	}

	result := hexcodec.Prepend0x(bytesToHex(code))
	s.Cache.Set(key, result, cache.DefaultExpiration)
	return result, nil
}

// GetTransactionCount implements spec §4.7's per-entity-kind nonce rule.
func (s *Service) GetTransactionCount(ctx context.Context, address string, tag string, requestID string) (string, *domain.RPCError) {
	block, rpcErr := s.Resolver.Resolve(ctx, &tag, requestID)
	if rpcErr != nil {
		return "", rpcErr
	}
	if block == 0 {
		return domain.ZeroHex, nil
	}

	entity, err := s.Mirror.ResolveEntityType(ctx, address, requestID)
	if err != nil {
		return "", relayerrors.Internal("failed to resolve entity type: " + err.Error())
	}
	if entity == nil {
		return domain.ZeroHex, nil
	}
	if entity.Type == ports.EntityContract {
		// Open question (spec §9): preserved literally -- ambiguous whether
		// this means "contracts have made at least one transaction" or is
		// simply a placeholder.
		return "0x1", nil
	}

	info, err := s.Consensus.GetAccountInfo(ctx, entity.AccountID, "eth_getTransactionCount", requestID)
	if err != nil || info == nil {
		return "", relayerrors.Internal("failed to fetch account info")
	}
	return hexcodec.ToHex(info.EthereumNonce), nil
}

// Call executes a read-only view call against the consensus node (spec
// §4.7). The `to` address must be exactly 42 characters.
func (s *Service) Call(ctx context.Context, call domain.CallObject, blockParam string, requestID string) (string, *domain.RPCError) {
	if call.To == nil || len(*call.To) != domain.AddressHexLength {
		return "", domain.NewRPCError(relayerrors.CodeInvalidParams, "invalid contract address")
	}

	gas := int64(DefaultCallGas)
	if call.Gas != nil {
		n, err := hexcodec.DecOrHexToInt(*call.Gas)
		if err == nil {
			gas = n
		}
	}

	var from, data string
	if call.From != nil {
		from = *call.From
	}
	if call.Data != nil {
		data = *call.Data
	}

	result, err := s.Consensus.SubmitContractCallQuery(ctx, *call.To, data, gas, from, "eth_call", requestID)
	if err != nil {
		return "", relayerrors.Internal("contract call failed: " + err.Error())
	}
	return hexcodec.Prepend0x(bytesToHex(result)), nil
}

// EstimateGas returns a fixed cost depending only on whether call data is
// present (spec §4.7); the underlying ledger does not support dry-run gas
// metering.
func (s *Service) EstimateGas(ctx context.Context, call domain.CallObject, requestID string) (string, *domain.RPCError) {
	if call.Data == nil || *call.Data == domain.EmptyHex {
		return hexcodec.ToHex(TxBaseCost), nil
	}
	return hexcodec.ToHex(TxDefaultGas), nil
}

// Unsupported methods (spec §4.1) return the fixed error value.
func (s *Service) GetStorageAt(ctx context.Context, requestID string) (interface{}, *domain.RPCError) {
	return nil, relayerrors.Unsupported("eth_getStorageAt")
}

func (s *Service) Sign(ctx context.Context, requestID string) (interface{}, *domain.RPCError) {
	return nil, relayerrors.Unsupported("eth_sign")
}

func (s *Service) SignTransaction(ctx context.Context, requestID string) (interface{}, *domain.RPCError) {
	return nil, relayerrors.Unsupported("eth_signTransaction")
}

func (s *Service) SendTransaction(ctx context.Context, requestID string) (interface{}, *domain.RPCError) {
	return nil, relayerrors.Unsupported("eth_sendTransaction")
}

func (s *Service) SubmitHashrate(ctx context.Context, requestID string) (interface{}, *domain.RPCError) {
	return nil, relayerrors.Unsupported("eth_submitHashrate")
}

func (s *Service) GetWork(ctx context.Context, requestID string) (interface{}, *domain.RPCError) {
	return nil, relayerrors.Unsupported("eth_getWork")
}

func (s *Service) ProtocolVersion(ctx context.Context, requestID string) (interface{}, *domain.RPCError) {
	return nil, relayerrors.Unsupported("eth_protocolVersion")
}

func (s *Service) Coinbase(ctx context.Context, requestID string) (interface{}, *domain.RPCError) {
	return nil, relayerrors.Unsupported("eth_coinbase")
}

// Constant-response methods (spec §4.9).
func (s *Service) Accounts(ctx context.Context, requestID string) ([]string, *domain.RPCError) {
	return []string{}, nil
}

func (s *Service) Mining(ctx context.Context, requestID string) (bool, *domain.RPCError) {
	return false, nil
}

func (s *Service) Syncing(ctx context.Context, requestID string) (bool, *domain.RPCError) {
	return false, nil
}

func (s *Service) SubmitWork(ctx context.Context, requestID string) (bool, *domain.RPCError) {
	return false, nil
}

func (s *Service) Hashrate(ctx context.Context, requestID string) (string, *domain.RPCError) {
	return domain.ZeroHex, nil
}

func (s *Service) GetUncleByBlockHashAndIndex(ctx context.Context, requestID string) (interface{}, *domain.RPCError) {
	return nil, nil
}

func (s *Service) GetUncleByBlockNumberAndIndex(ctx context.Context, requestID string) (interface{}, *domain.RPCError) {
	return nil, nil
}

func (s *Service) GetUncleCountByBlockHash(ctx context.Context, requestID string) (string, *domain.RPCError) {
	return domain.ZeroHex, nil
}

func (s *Service) GetUncleCountByBlockNumber(ctx context.Context, requestID string) (string, *domain.RPCError) {
	return domain.ZeroHex, nil
}

const hexDigits = "0123456789abcdef"

func bytesToHex(b []byte) string {
	out := make([]byte, len(b)*2)
	for i, v := range b {
		out[i*2] = hexDigits[v>>4]
		out[i*2+1] = hexDigits[v&0x0f]
	}
	return string(out)
}
