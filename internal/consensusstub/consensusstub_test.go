package consensusstub_test

import (
	"context"
	"testing"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"github.com/relaymesh/eth-relay/internal/consensusstub"
)

func TestConsensusStub(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "ConsensusStub Suite")
}

var _ = Describe("Stub", func() {
	It("fails every ConsensusPort operation rather than fabricating data", func() {
		stub := consensusstub.New()
		_, err := stub.GetAccountBalanceInWeiBar(context.Background(), "0.0.1", "eth_getBalance", "req")
		Expect(err).NotTo(BeNil())
	})

	It("fails SendRawTransactionCheck as an internal error, not a precheck rejection", func() {
		stub := consensusstub.New()
		rpcErr := stub.SendRawTransactionCheck(context.Background(), "0xaa", nil, "req")
		Expect(rpcErr).NotTo(BeNil())
		Expect(rpcErr.Code).To(Equal(-32603))
	})
})
