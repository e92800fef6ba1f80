package rpcserver_test

import (
	"bytes"
	"context"
	"encoding/json"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"

	"github.com/relaymesh/eth-relay/internal/eth"
	"github.com/relaymesh/eth-relay/internal/ports"
	"github.com/relaymesh/eth-relay/internal/ports/fakes"
	"github.com/relaymesh/eth-relay/internal/rpcserver"
)

func TestRPCServer(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "RPCServer Suite")
}

type rpcEnvelope struct {
	JSONRPC string          `json:"jsonrpc"`
	Result  json.RawMessage `json:"result"`
	Error   *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
	ID json.RawMessage `json:"id"`
}

func post(handler http.Handler, method string, params string) rpcEnvelope {
	body := []byte(`{"jsonrpc":"2.0","id":1,"method":"` + method + `","params":` + params + `}`)
	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	var env rpcEnvelope
	Expect(json.Unmarshal(rec.Body.Bytes(), &env)).To(Succeed())
	return env
}

var _ = Describe("Gateway over JSON-RPC", func() {
	var (
		mirror    *fakes.FakeMirrorPort
		consensus *fakes.FakeConsensusPort
		precheck  *fakes.FakePrecheck
		service   *eth.Service
		srv       *rpcserver.Server
	)

	BeforeEach(func() {
		mirror = fakes.NewFakeMirrorPort()
		consensus = fakes.NewFakeConsensusPort()
		precheck = fakes.NewFakePrecheck()
		mirror.GetLatestBlockStub = func(ctx context.Context, requestID string) (*ports.BlockResponse, error) {
			return &ports.BlockResponse{Number: 10}, nil
		}
		service = eth.New(mirror, consensus, precheck, "0x12a", 100, zap.NewNop())
		var err error
		srv, err = rpcserver.New(":0", rpcserver.NewGateway(service, zap.NewNop()), zap.NewNop())
		Expect(err).To(BeNil())
	})

	It("dispatches eth_chainId to the Gateway and returns the chain hex", func() {
		env := post(srv, "eth_chainId", "[]")
		Expect(env.Error).To(BeNil())
		var result string
		Expect(json.Unmarshal(env.Result, &result)).To(Succeed())
		Expect(result).To(Equal("0x12a"))
	})

	It("surfaces the UNSUPPORTED_METHOD error value for eth_getStorageAt", func() {
		env := post(srv, "eth_getStorageAt", "[]")
		Expect(env.Error).NotTo(BeNil())
		Expect(env.Error.Code).To(Equal(-32601))
	})

	It("rejects a method outside the eth_ namespace", func() {
		env := post(srv, "shh_version", "[]")
		Expect(env.Error).NotTo(BeNil())
	})

	It("decodes positional params for eth_getBalance", func() {
		mirror.ResolveEntityTypeStub = func(ctx context.Context, idOrAddress string, requestID string) (*ports.EntityTypeResponse, error) {
			return &ports.EntityTypeResponse{Type: ports.EntityAccount, AccountID: "0.0.1"}, nil
		}
		consensus.GetAccountBalanceInWeiBarStub = func(ctx context.Context, accountID string, callerName string, requestID string) (*big.Int, error) {
			return big.NewInt(100), nil
		}
		env := post(srv, "eth_getBalance", `["0xabc","latest"]`)
		Expect(env.Error).To(BeNil())
		var result string
		Expect(json.Unmarshal(env.Result, &result)).To(Succeed())
		Expect(result).To(Equal("0x64"))
	})
})
