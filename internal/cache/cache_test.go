package cache_test

import (
	"testing"
	"time"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"github.com/relaymesh/eth-relay/internal/cache"
)

func TestCache(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Cache Suite")
}

var _ = Describe("Cache", func() {
	var c *cache.Cache

	BeforeEach(func() {
		c = cache.New()
	})

	It("returns a stored value within its TTL", func() {
		c.Set("gasPrice", "0x1234", cache.DefaultExpiration)
		v, ok := c.Get("gasPrice")
		Expect(ok).To(BeTrue())
		Expect(v).To(Equal("0x1234"))
	})

	It("reports absence for a key that was never set", func() {
		_, ok := c.Get("missing")
		Expect(ok).To(BeFalse())
	})

	It("expires a value after its TTL elapses", func() {
		c.Set("getBalance.0xabc.latest", "0x0", 10*time.Millisecond)
		time.Sleep(20 * time.Millisecond)
		_, ok := c.Get("getBalance.0xabc.latest")
		Expect(ok).To(BeFalse())
	})

	It("keeps independent keys on independent schedules", func() {
		c.Set("gasPrice", "0x1", time.Hour)
		c.Set("feeHistory", "0x2", 5*time.Millisecond)
		time.Sleep(15 * time.Millisecond)

		_, feeOk := c.Get("feeHistory")
		Expect(feeOk).To(BeFalse())

		gasVal, gasOk := c.Get("gasPrice")
		Expect(gasOk).To(BeTrue())
		Expect(gasVal).To(Equal("0x1"))
	})

	It("deletes a key unconditionally", func() {
		c.Set("k", "v", time.Hour)
		c.Delete("k")
		_, ok := c.Get("k")
		Expect(ok).To(BeFalse())
	})
})
