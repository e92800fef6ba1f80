package txassembler_test

import (
	"context"
	"testing"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"

	"github.com/relaymesh/eth-relay/internal/blocktag"
	"github.com/relaymesh/eth-relay/internal/cache"
	"github.com/relaymesh/eth-relay/internal/feeengine"
	"github.com/relaymesh/eth-relay/internal/ports"
	"github.com/relaymesh/eth-relay/internal/ports/fakes"
	"github.com/relaymesh/eth-relay/internal/txassembler"
)

func TestTxAssembler(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "TxAssembler Suite")
}

var _ = Describe("Assembler", func() {
	var (
		mirror    *fakes.FakeMirrorPort
		consensus *fakes.FakeConsensusPort
		assembler *txassembler.Assembler
	)

	BeforeEach(func() {
		mirror = fakes.NewFakeMirrorPort()
		consensus = fakes.NewFakeConsensusPort()
		mirror.GetNetworkFeesStub = func(ctx context.Context, timestamp string, requestID string) ([]ports.NetworkFee, error) {
			return []ports.NetworkFee{{Gas: 1, TransactionType: "EthereumTransaction"}}, nil
		}
		resolver := blocktag.New(mirror)
		fees := feeengine.New(mirror, consensus, cache.New(), resolver, 100, zap.NewNop())
		assembler = txassembler.New(mirror, resolver, fees)
	})

	Describe("GetTransactionByHash", func() {
		It("returns nil for a record with no hash", func() {
			mirror.GetContractResultStub = func(ctx context.Context, hash string, requestID string) (*ports.ContractResultResponse, error) {
				return &ports.ContractResultResponse{}, nil
			}
			tx, rpcErr := assembler.GetTransactionByHash(context.Background(), "0xmissing", "req")
			Expect(rpcErr).To(BeNil())
			Expect(tx).To(BeNil())
		})

		It("projects a full contract-result into a Transaction", func() {
			mirror.GetContractResultStub = func(ctx context.Context, hash string, requestID string) (*ports.ContractResultResponse, error) {
				return &ports.ContractResultResponse{
					Hash:         "0x" + repeat("a", 64),
					To:           "0xbb",
					MaxFeePerGas: "0x",
				}, nil
			}
			tx, rpcErr := assembler.GetTransactionByHash(context.Background(), "0xhash", "req")
			Expect(rpcErr).To(BeNil())
			Expect(tx.Hash).To(Equal("0x" + repeat("a", 64)))
			Expect(*tx.To).To(Equal("0xbb"))
			Expect(tx.MaxFeePerGas).To(BeNil())
		})
	})

	Describe("GetTransactionReceipt", func() {
		It("derives effective gas price and contract address from the contract result", func() {
			mirror.GetContractResultStub = func(ctx context.Context, hash string, requestID string) (*ports.ContractResultResponse, error) {
				return &ports.ContractResultResponse{
					Hash:               "0x" + repeat("a", 64),
					GasPrice:           "0x1",
					CreatedContractIDs: []string{"0.0.100"},
				}, nil
			}
			receipt, rpcErr := assembler.GetTransactionReceipt(context.Background(), "0xhash", "req")
			Expect(rpcErr).To(BeNil())
			Expect(receipt.EffectiveGasPrice).To(Equal("0x2540be400"))
			Expect(*receipt.ContractAddress).To(HaveLen(42))
		})
	})

	Describe("GetBlock", func() {
		It("computes transactionsRoot as the empty-trie constant when there are no transactions", func() {
			mirror.GetBlockStub = func(ctx context.Context, hashOrNumber string, requestID string) (*ports.BlockResponse, error) {
				return &ports.BlockResponse{Number: 1, Hash: "0x" + repeat("a", 64), Timestamp: ports.TimestampRange{From: "1.0", To: "2.0"}}, nil
			}
			mirror.GetContractResultsStub = func(ctx context.Context, filter ports.ContractResultsFilter, requestID string) ([]ports.ContractResultResponse, error) {
				return nil, nil
			}
			block, rpcErr := assembler.GetBlock(context.Background(), "1", false, "req")
			Expect(rpcErr).To(BeNil())
			Expect(block.TransactionsRoot).To(Equal("0x56e81f171bcc55a6ff8345e692c0f86e5b48e01b996cadc001622fb5e363b421"))
			Expect(block.Transactions).To(BeEmpty())
		})

		It("skips results with no `to` and returns bare hashes by default", func() {
			mirror.GetBlockStub = func(ctx context.Context, hashOrNumber string, requestID string) (*ports.BlockResponse, error) {
				return &ports.BlockResponse{Number: 1, Hash: "0x" + repeat("a", 64), Timestamp: ports.TimestampRange{From: "1.0", To: "2.0"}}, nil
			}
			mirror.GetContractResultsStub = func(ctx context.Context, filter ports.ContractResultsFilter, requestID string) ([]ports.ContractResultResponse, error) {
				return []ports.ContractResultResponse{
					{Hash: "0x" + repeat("b", 64), To: "", Timestamp: "1.5"},
					{Hash: "0x" + repeat("c", 64), To: "0xaa", Timestamp: "1.6"},
				}, nil
			}
			block, rpcErr := assembler.GetBlock(context.Background(), "1", false, "req")
			Expect(rpcErr).To(BeNil())
			Expect(block.Transactions).To(HaveLen(1))
			Expect(block.Transactions[0]).To(Equal("0x" + repeat("c", 64)))
		})
	})
})

func repeat(s string, n int) string {
	out := make([]byte, 0, n*len(s))
	for i := 0; i < n; i++ {
		out = append(out, s...)
	}
	return string(out)
}
