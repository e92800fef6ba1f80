package mirrorclient_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"github.com/relaymesh/eth-relay/internal/mirrorclient"
	"github.com/relaymesh/eth-relay/internal/ports"
)

func TestMirrorClient(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "MirrorClient Suite")
}

var _ = Describe("Client", func() {
	It("decodes the latest block from a /blocks?limit=1&order=desc response", func() {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			Expect(r.URL.Path).To(Equal("/blocks"))
			Expect(r.URL.Query().Get("order")).To(Equal("desc"))
			w.Write([]byte(`{"blocks":[{"number":42,"hash":"0xabc","gas_used":21000}]}`))
		}))
		defer srv.Close()

		client := mirrorclient.New(srv.URL)
		block, err := client.GetLatestBlock(context.Background(), "req")
		Expect(err).To(BeNil())
		Expect(block.Number).To(Equal(int64(42)))
		Expect(block.Hash).To(Equal("0xabc"))
	})

	It("translates a 404 into ports.ErrNotFound", func() {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer srv.Close()

		client := mirrorclient.New(srv.URL)
		_, err := client.GetBlock(context.Background(), "99", "req")
		Expect(err).To(Equal(ports.ErrNotFound))
	})
})
