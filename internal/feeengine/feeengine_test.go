package feeengine_test

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
)

func TestFeeEngine(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "FeeEngine Suite")
}

var _ = Describe("Engine", func() {
	var (
		mirror    *fakes.FakeMirrorPort
		consensus *fakes.FakeConsensusPort
		engine    *feeengine.Engine
	)

	BeforeEach(func() {
		mirror = fakes.NewFakeMirrorPort()
		consensus = fakes.NewFakeConsensusPort()
		mirror.GetLatestBlockStub = func(ctx context.Context, requestID string) (*ports.BlockResponse, error) {
			return &ports.BlockResponse{Number: 10}, nil
		}
		mirror.GetBlockStub = func(ctx context.Context, hashOrNumber string, requestID string) (*ports.BlockResponse, error) {
			return &ports.BlockResponse{Number: 0, Timestamp: ports.TimestampRange{To: "1700000000.000000000"}}, nil
		}
		mirror.GetNetworkFeesStub = func(ctx context.Context, timestamp string, requestID string) ([]ports.NetworkFee, error) {
			return []ports.NetworkFee{{Gas: 1, TransactionType: "EthereumTransaction"}}, nil
		}
		engine = feeengine.New(mirror, consensus, cache.New(), blocktag.New(mirror), 100, zap.NewNop())
	})

	Describe("GetFeeWeibars", func() {
		It("converts the mirror's EthereumTransaction tinybar fee to weibar", func() {
			weibars, rpcErr := engine.GetFeeWeibars(context.Background(), "eth_gasPrice", "", "req")
			Expect(rpcErr).To(BeNil())
			Expect(weibars.Int64()).To(Equal(int64(10_000_000_000)))
		})

		It("falls back to the consensus node when the mirror has no fees", func() {
			mirror.GetNetworkFeesStub = func(ctx context.Context, timestamp string, requestID string) ([]ports.NetworkFee, error) {
				return nil, nil
			}
			consensus.GetTinyBarGasFeeStub = func(ctx context.Context, callerName string, requestID string) (int64, error) {
				return 2, nil
			}
			weibars, rpcErr := engine.GetFeeWeibars(context.Background(), "eth_gasPrice", "", "req")
			Expect(rpcErr).To(BeNil())
			Expect(weibars.Int64()).To(Equal(int64(20_000_000_000)))
			Expect(consensus.CallCount("GetTinyBarGasFee")).To(Equal(1))
		})
	})

	Describe("GasPrice", func() {
		It("computes and caches the gas price", func() {
			price, rpcErr := engine.GasPrice(context.Background(), "req")
			Expect(rpcErr).To(BeNil())
			Expect(price).To(Equal("0x2540be400"))

			mirror.GetNetworkFeesStub = func(ctx context.Context, timestamp string, requestID string) ([]ports.NetworkFee, error) {
				Fail("should not re-query the mirror once cached")
				return nil, nil
			}
			cached, rpcErr := engine.GasPrice(context.Background(), "req")
			Expect(rpcErr).To(BeNil())
			Expect(cached).To(Equal("0x2540be400"))
		})
	})

	Describe("FeeHistory", func() {
		It("rejects a newestBlock beyond the mirror's head", func() {
			_, rpcErr := engine.FeeHistory(context.Background(), "0x1", "0xff", nil, "req")
			Expect(rpcErr).NotTo(BeNil())
			Expect(rpcErr.Code).To(Equal(-32000))
		})

		It("short-circuits a zero blockCount", func() {
			result, rpcErr := engine.FeeHistory(context.Background(), "0x0", "latest", nil, "req")
			Expect(rpcErr).To(BeNil())
			Expect(result.GasUsedRatio).To(BeNil())
			Expect(result.OldestBlock).To(Equal("0x0"))
		})

		It("returns blockCount+1 base fees for an in-range window", func() {
			result, rpcErr := engine.FeeHistory(context.Background(), "0x3", "0x5", nil, "req")
			Expect(rpcErr).To(BeNil())
			Expect(result.BaseFeePerGas).To(HaveLen(4))
			Expect(result.GasUsedRatio).To(HaveLen(3))
			Expect(result.OldestBlock).To(Equal("0x3"))
		})

		It("fills one zero reward row per block, one entry per requested percentile", func() {
			result, rpcErr := engine.FeeHistory(context.Background(), "0x2", "0x5", []string{"25", "75"}, "req")
			Expect(rpcErr).To(BeNil())
			Expect(result.Reward).To(HaveLen(2))
			Expect(result.Reward[0]).To(Equal([]string{"0x0", "0x0"}))
		})
	})
})
