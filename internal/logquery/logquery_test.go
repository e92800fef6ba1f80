package logquery_test

import (
	"context"
	"testing"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"github.com/relaymesh/eth-relay/internal/domain"
	"github.com/relaymesh/eth-relay/internal/logquery"
	"github.com/relaymesh/eth-relay/internal/ports"
	"github.com/relaymesh/eth-relay/internal/ports/fakes"
)

func TestLogQuery(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "LogQuery Suite")
}

var _ = Describe("Planner", func() {
	var (
		mirror  *fakes.FakeMirrorPort
		planner *logquery.Planner
	)

	BeforeEach(func() {
		mirror = fakes.NewFakeMirrorPort()
		planner = logquery.New(mirror)
	})

	It("returns an empty list when the block hash is not found", func() {
		mirror.GetBlockStub = func(ctx context.Context, hashOrNumber string, requestID string) (*ports.BlockResponse, error) {
			return nil, ports.ErrNotFound
		}
		logs, rpcErr := planner.GetLogs(context.Background(), domain.LogParams{BlockHash: "0xdeadbeef"}, "req")
		Expect(rpcErr).To(BeNil())
		Expect(logs).To(BeEmpty())
	})

	It("joins raw logs against deduplicated detail fetches", func() {
		mirror.GetContractResultsLogsStub = func(ctx context.Context, params ports.LogsQueryParams, requestID string) ([]ports.LogEntry, error) {
			return []ports.LogEntry{
				{Address: "0xaa", ContractID: "0.0.100", Timestamp: "1.0", Topics: []string{"0xt1"}},
				{Address: "0xaa", ContractID: "0.0.100", Timestamp: "1.0", Topics: []string{"0xt2"}},
			}, nil
		}
		calls := 0
		mirror.GetContractResultsDetailsStub = func(ctx context.Context, contractID string, timestamp string, requestID string) (*ports.ContractResultResponse, error) {
			calls++
			return &ports.ContractResultResponse{
				BlockHash:        "0x" + repeat("a", 64),
				BlockNumber:      5,
				Hash:             "0x" + repeat("b", 64),
				TransactionIndex: 2,
			}, nil
		}

		logs, rpcErr := planner.GetLogs(context.Background(), domain.LogParams{}, "req")
		Expect(rpcErr).To(BeNil())
		Expect(logs).To(HaveLen(2))
		Expect(calls).To(Equal(1))
		Expect(logs[0].LogIndex).To(Equal("0x0"))
		Expect(logs[1].LogIndex).To(Equal("0x1"))
		Expect(logs[0].BlockNumber).To(Equal("0x5"))
	})

	It("returns an empty list when any detail fetch is not found", func() {
		mirror.GetContractResultsLogsStub = func(ctx context.Context, params ports.LogsQueryParams, requestID string) ([]ports.LogEntry, error) {
			return []ports.LogEntry{{Address: "0xaa", ContractID: "0.0.100", Timestamp: "1.0"}}, nil
		}
		mirror.GetContractResultsDetailsStub = func(ctx context.Context, contractID string, timestamp string, requestID string) (*ports.ContractResultResponse, error) {
			return nil, ports.ErrNotFound
		}

		logs, rpcErr := planner.GetLogs(context.Background(), domain.LogParams{}, "req")
		Expect(rpcErr).To(BeNil())
		Expect(logs).To(BeEmpty())
	})
})

func repeat(s string, n int) string {
	out := make([]byte, 0, n*len(s))
	for i := 0; i < n; i++ {
		out = append(out, s...)
	}
	return string(out)
}
