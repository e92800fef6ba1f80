package blocktag_test

import (
	"context"
	"testing"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"github.com/relaymesh/eth-relay/internal/blocktag"
	"github.com/relaymesh/eth-relay/internal/ports"
	"github.com/relaymesh/eth-relay/internal/ports/fakes"
)

func TestBlocktag(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Blocktag Suite")
}

func strPtr(s string) *string { return &s }

var _ = Describe("Resolver", func() {
	var (
		mirror   *fakes.FakeMirrorPort
		resolver *blocktag.Resolver
	)

	BeforeEach(func() {
		mirror = fakes.NewFakeMirrorPort()
		mirror.GetLatestBlockStub = func(ctx context.Context, requestID string) (*ports.BlockResponse, error) {
			return &ports.BlockResponse{Number: 10}, nil
		}
		resolver = blocktag.New(mirror)
	})

	It("resolves nil to the mirror's latest block", func() {
		n, rpcErr := resolver.Resolve(context.Background(), nil, "req")
		Expect(rpcErr).To(BeNil())
		Expect(n).To(Equal(int64(10)))
	})

	It("aliases pending to latest", func() {
		n, rpcErr := resolver.Resolve(context.Background(), strPtr("pending"), "req")
		Expect(rpcErr).To(BeNil())
		Expect(n).To(Equal(int64(10)))
	})

	It("resolves earliest to 0 without calling the mirror", func() {
		n, rpcErr := resolver.Resolve(context.Background(), strPtr("earliest"), "req")
		Expect(rpcErr).To(BeNil())
		Expect(n).To(Equal(int64(0)))
		Expect(mirror.CallCount("GetLatestBlock")).To(Equal(0))
	})

	It("parses a decimal block number", func() {
		n, rpcErr := resolver.Resolve(context.Background(), strPtr("42"), "req")
		Expect(rpcErr).To(BeNil())
		Expect(n).To(Equal(int64(42)))
	})

	It("parses a hex block number, stripping the 0x prefix", func() {
		n, rpcErr := resolver.Resolve(context.Background(), strPtr("0x2a"), "req")
		Expect(rpcErr).To(BeNil())
		Expect(n).To(Equal(int64(42)))
	})

	Describe("IsHash", func() {
		It("recognizes a 32-byte hash", func() {
			hash := "0x" + fixedHex(64)
			Expect(blocktag.IsHash(hash)).To(BeTrue())
		})

		It("rejects a plain block number", func() {
			Expect(blocktag.IsHash("0x2a")).To(BeFalse())
		})
	})
})

func fixedHex(n int) string {
	out := make([]byte, n)
	for i := range out {
		out[i] = 'a'
	}
	return string(out)
}
