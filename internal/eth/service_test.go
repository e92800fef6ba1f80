package eth_test

import (
	"context"
	"math/big"
	"testing"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"

	"github.com/relaymesh/eth-relay/internal/domain"
	"github.com/relaymesh/eth-relay/internal/eth"
	"github.com/relaymesh/eth-relay/internal/ports"
	"github.com/relaymesh/eth-relay/internal/ports/fakes"
)

func TestEth(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Eth Suite")
}

func strPtr(s string) *string { return &s }

var _ = Describe("Service", func() {
	var (
		mirror    *fakes.FakeMirrorPort
		consensus *fakes.FakeConsensusPort
		precheck  *fakes.FakePrecheck
		service   *eth.Service
	)

	BeforeEach(func() {
		mirror = fakes.NewFakeMirrorPort()
		consensus = fakes.NewFakeConsensusPort()
		precheck = fakes.NewFakePrecheck()
		mirror.GetLatestBlockStub = func(ctx context.Context, requestID string) (*ports.BlockResponse, error) {
			return &ports.BlockResponse{Number: 10}, nil
		}
		service = eth.New(mirror, consensus, precheck, "0x12a", 100, zap.NewNop())
	})

	It("S1: chainId returns the configured chain hex with no I/O", func() {
		chainID, rpcErr := service.ChainId(context.Background(), "req")
		Expect(rpcErr).To(BeNil())
		Expect(chainID).To(Equal("0x12a"))
		Expect(mirror.CallCount("GetLatestBlock")).To(Equal(0))
	})

	It("S2: feeHistory(0, latest, null) returns the zero-count response", func() {
		result, rpcErr := service.FeeHistory(context.Background(), "0x0", "latest", nil, "req")
		Expect(rpcErr).To(BeNil())
		Expect(result.GasUsedRatio).To(BeNil())
		Expect(result.OldestBlock).To(Equal("0x0"))
	})

	It("S3: feeHistory(1, 0xff, null) beyond head returns REQUEST_BEYOND_HEAD_BLOCK(255, 10)", func() {
		_, rpcErr := service.FeeHistory(context.Background(), "0x1", "0xff", nil, "req")
		Expect(rpcErr).NotTo(BeNil())
		Expect(rpcErr.Code).To(Equal(-32000))
	})

	It("S4: getBalance not-found caches 0x0 and avoids a second backend call", func() {
		mirror.ResolveEntityTypeStub = func(ctx context.Context, idOrAddress string, requestID string) (*ports.EntityTypeResponse, error) {
			return &ports.EntityTypeResponse{Type: ports.EntityAccount, AccountID: "0.0.1"}, nil
		}
		consensus.GetAccountBalanceInWeiBarStub = func(ctx context.Context, accountID string, callerName string, requestID string) (*big.Int, error) {
			return nil, ports.ErrInvalidAccountID
		}
		result, rpcErr := service.GetBalance(context.Background(), "0xabc", "latest", "req")
		Expect(rpcErr).To(BeNil())
		Expect(result).To(Equal("0x0"))
		Expect(consensus.CallCount("GetAccountBalanceInWeiBar")).To(Equal(1))

		result2, rpcErr := service.GetBalance(context.Background(), "0xabc", "latest", "req")
		Expect(rpcErr).To(BeNil())
		Expect(result2).To(Equal("0x0"))
		Expect(consensus.CallCount("GetAccountBalanceInWeiBar")).To(Equal(1))
	})

	It("S5: call with a short `to` address is rejected as invalid params", func() {
		to := "0xabc"
		data := "0x00"
		_, rpcErr := service.Call(context.Background(), domain.CallObject{To: &to, Data: &data}, "", "req")
		Expect(rpcErr).NotTo(BeNil())
		Expect(rpcErr.Code).To(Equal(-32602))
	})

	It("S6: sendRawTransaction returns the consensus record's ethereumHash", func() {
		mirror.GetNetworkFeesStub = func(ctx context.Context, timestamp string, requestID string) ([]ports.NetworkFee, error) {
			return []ports.NetworkFee{{Gas: 1, TransactionType: "EthereumTransaction"}}, nil
		}
		consensus.SubmitEthereumTransactionStub = func(ctx context.Context, data []byte, callerName string, requestID string) (ports.TransactionHandle, error) {
			return ports.TransactionHandle{ID: "handle"}, nil
		}
		consensus.ExecuteGetTransactionRecordStub = func(ctx context.Context, handle ports.TransactionHandle, txName string, callerName string, requestID string) (*ports.TransactionRecord, error) {
			return &ports.TransactionRecord{EthereumHash: "0xdeadbeef"}, nil
		}
		hash, rpcErr := service.SendRawTransaction(context.Background(), "0xaabbcc", "req")
		Expect(rpcErr).To(BeNil())
		Expect(hash).To(Equal("0xdeadbeef"))
	})

	It("S7: getLogs by an unknown block hash returns an empty list, not an error", func() {
		mirror.GetBlockStub = func(ctx context.Context, hashOrNumber string, requestID string) (*ports.BlockResponse, error) {
			return nil, ports.ErrNotFound
		}
		logs, rpcErr := service.GetLogs(context.Background(), domain.LogParams{BlockHash: "0xmissing"}, "req")
		Expect(rpcErr).To(BeNil())
		Expect(logs).To(BeEmpty())
	})

	It("returns the UNSUPPORTED_METHOD error value for deliberately unimplemented methods", func() {
		_, rpcErr := service.GetStorageAt(context.Background(), "req")
		Expect(rpcErr).NotTo(BeNil())
		Expect(rpcErr.Code).To(Equal(-32601))
	})

	It("returns the fixed constant-response table values", func() {
		accounts, rpcErr := service.Accounts(context.Background(), "req")
		Expect(rpcErr).To(BeNil())
		Expect(accounts).To(Equal([]string{}))

		mining, rpcErr := service.Mining(context.Background(), "req")
		Expect(rpcErr).To(BeNil())
		Expect(mining).To(BeFalse())

		hashrate, rpcErr := service.Hashrate(context.Background(), "req")
		Expect(rpcErr).To(BeNil())
		Expect(hashrate).To(Equal("0x0"))
	})

	It("estimateGas returns the base cost for empty call data and the default gas otherwise", func() {
		empty := "0x"
		cost, rpcErr := service.EstimateGas(context.Background(), domain.CallObject{Data: &empty}, "req")
		Expect(rpcErr).To(BeNil())
		Expect(cost).To(Equal(hexOf(eth.TxBaseCost)))

		nonEmpty := "0xaa"
		cost2, rpcErr := service.EstimateGas(context.Background(), domain.CallObject{Data: &nonEmpty}, "req")
		Expect(rpcErr).To(BeNil())
		Expect(cost2).To(Equal(hexOf(eth.TxDefaultGas)))
	})

	It("getTransactionCount returns 0x1 for a contract unconditionally", func() {
		mirror.ResolveEntityTypeStub = func(ctx context.Context, idOrAddress string, requestID string) (*ports.EntityTypeResponse, error) {
			return &ports.EntityTypeResponse{Type: ports.EntityContract, ContractID: "0.0.5"}, nil
		}
		count, rpcErr := service.GetTransactionCount(context.Background(), "0xcontract", "latest", "req")
		Expect(rpcErr).To(BeNil())
		Expect(count).To(Equal("0x1"))
	})
})

func hexOf(n int64) string {
	if n == 0 {
		return "0x0"
	}
	digits := "0123456789abcdef"
	var buf []byte
	for n > 0 {
		buf = append([]byte{digits[n%16]}, buf...)
		n /= 16
	}
	return "0x" + string(buf)
}
