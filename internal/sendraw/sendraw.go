// Package sendraw implements the eth_sendRawTransaction pipeline (spec
// §4.6): pre-check, hex decode, submission, and best-effort hash
// resolution.
package sendraw

import (
	"context"
	"math/big"

	"golang.org/x/crypto/sha3"

	"github.com/relaymesh/eth-relay/internal/domain"
	"github.com/relaymesh/eth-relay/internal/feeengine"
	"github.com/relaymesh/eth-relay/internal/hexcodec"
	"github.com/relaymesh/eth-relay/internal/ports"
	"github.com/relaymesh/eth-relay/internal/relayerrors"
)

// Submitter drives the raw-transaction submission pipeline.
type Submitter struct {
	Consensus ports.ConsensusPort
	Precheck  ports.Precheck
	Fees      *feeengine.Engine
}

func New(consensus ports.ConsensusPort, precheck ports.Precheck, fees *feeengine.Engine) *Submitter {
	return &Submitter{Consensus: consensus, Precheck: precheck, Fees: fees}
}

const callerName = "eth_sendRawTransaction"

// Send runs the pipeline described in spec §4.6 and returns the
// transaction hash, a client-addressable rejection value, or
// INTERNAL_ERROR.
func (s *Submitter) Send(ctx context.Context, rawTxHex string, requestID string) (string, *domain.RPCError) {
	gasPriceHex, rpcErr := s.Fees.GasPrice(ctx, requestID)
	if rpcErr != nil {
		return "", rpcErr
	}
	gasPrice, err := hexcodec.HexToDec(gasPriceHex)
	if err != nil {
		return "", relayerrors.Internal("failed to parse computed gas price")
	}

	if rpcErr := s.Precheck.SendRawTransactionCheck(ctx, rawTxHex, big.NewInt(gasPrice), requestID); rpcErr != nil {
		return "", rpcErr
	}

	raw, decodeErr := decodeHex(rawTxHex)
	if decodeErr != nil {
		return "", relayerrors.Internal("failed to decode raw transaction: " + decodeErr.Error())
	}

	handle, submitErr := s.Consensus.SubmitEthereumTransaction(ctx, raw, callerName, requestID)
	if submitErr != nil {
		return "", relayerrors.Internal("failed to submit transaction: " + submitErr.Error())
	}

	record, recordErr := s.Consensus.ExecuteGetTransactionRecord(ctx, handle, callerName, callerName, requestID)
	if recordErr != nil || record == nil || record.EthereumHash == "" {
		return hexcodec.Prepend0x(keccak256Hex(raw)), nil
	}
	return hexcodec.Prepend0x(hexcodec.Prune0x(record.EthereumHash)), nil
}

func keccak256Hex(data []byte) string {
	d := sha3.NewLegacyKeccak256()
	d.Write(data)
	sum := d.Sum(nil)
	out := make([]byte, len(sum)*2)
	const hexDigits = "0123456789abcdef"
	for i, b := range sum {
		out[i*2] = hexDigits[b>>4]
		out[i*2+1] = hexDigits[b&0x0f]
	}
	return string(out)
}

func decodeHex(s string) ([]byte, error) {
	s = hexcodec.Prune0x(s)
	if len(s)%2 != 0 {
		s = "0" + s
	}
	out := make([]byte, len(s)/2)
	for i := 0; i < len(out); i++ {
		hi, err := hexNibble(s[i*2])
		if err != nil {
			return nil, err
		}
		lo, err := hexNibble(s[i*2+1])
		if err != nil {
			return nil, err
		}
		out[i] = hi<<4 | lo
	}
	return out, nil
}

func hexNibble(c byte) (byte, error) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', nil
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, nil
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, nil
	default:
		return 0, relayerrors.InvalidParams("invalid hex digit in raw transaction")
	}
}
