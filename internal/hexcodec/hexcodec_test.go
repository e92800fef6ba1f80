package hexcodec_test

import (
	"math/big"
	"testing"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"github.com/relaymesh/eth-relay/internal/hexcodec"
)

func TestHexcodec(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Hexcodec Suite")
}

var _ = Describe("hexcodec", func() {
	Describe("Prepend0x / Prune0x", func() {
		It("is idempotent", func() {
			Expect(hexcodec.Prepend0x(hexcodec.Prepend0x("abc"))).To(Equal(hexcodec.Prepend0x("abc")))
			Expect(hexcodec.Prune0x(hexcodec.Prune0x("0xabc"))).To(Equal(hexcodec.Prune0x("0xabc")))
		})

		It("adds and strips exactly one prefix", func() {
			Expect(hexcodec.Prepend0x("abc")).To(Equal("0xabc"))
			Expect(hexcodec.Prepend0x("0xabc")).To(Equal("0xabc"))
			Expect(hexcodec.Prune0x("0xabc")).To(Equal("abc"))
			Expect(hexcodec.Prune0x("abc")).To(Equal("abc"))
		})
	})

	Describe("ToHex", func() {
		It("renders zero as 0x0, never 0x or 0x00", func() {
			Expect(hexcodec.ToHex(0)).To(Equal("0x0"))
			Expect(hexcodec.ToHex(uint64(0))).To(Equal("0x0"))
			Expect(hexcodec.ToHex(big.NewInt(0))).To(Equal("0x0"))
		})

		It("renders positive values with no leading zeros", func() {
			Expect(hexcodec.ToHex(255)).To(Equal("0xff"))
			Expect(hexcodec.ToHex(big.NewInt(4096))).To(Equal("0x1000"))
		})

		It("falls back to 0x0 for nil", func() {
			Expect(hexcodec.ToHex(nil)).To(Equal("0x0"))
		})
	})

	Describe("ToHexOrNull", func() {
		It("passes nil through instead of rendering 0x0", func() {
			Expect(hexcodec.ToHexOrNull(nil)).To(BeNil())
			Expect(hexcodec.ToHexOrNull(5)).To(Equal("0x5"))
		})
	})

	Describe("ToHash32", func() {
		It("truncates to 66 characters", func() {
			long := "0x" + repeat("ab", 40)
			Expect(hexcodec.ToHash32(long)).To(HaveLen(66))
		})

		It("leaves already-short hashes untouched", func() {
			short := "0x1234"
			Expect(hexcodec.ToHash32(short)).To(Equal(short))
		})
	})

	Describe("ToNullIfEmpty", func() {
		It("maps the literal 0x to nil", func() {
			Expect(hexcodec.ToNullIfEmpty("0x")).To(BeNil())
		})

		It("passes through any other value", func() {
			v := hexcodec.ToNullIfEmpty("0x1")
			Expect(v).NotTo(BeNil())
			Expect(*v).To(Equal("0x1"))
		})
	})

	Describe("HexToDec / DecOrHexToInt", func() {
		It("parses hex with a 0x prefix stripped first", func() {
			n, err := hexcodec.HexToDec("0xff")
			Expect(err).NotTo(HaveOccurred())
			Expect(n).To(Equal(int64(255)))
		})

		It("accepts decimal or hex in DecOrHexToInt", func() {
			n, err := hexcodec.DecOrHexToInt("100")
			Expect(err).NotTo(HaveOccurred())
			Expect(n).To(Equal(int64(100)))

			n, err = hexcodec.DecOrHexToInt("0x64")
			Expect(err).NotTo(HaveOccurred())
			Expect(n).To(Equal(int64(100)))
		})
	})

	Describe("NormalizeHexString", func() {
		It("strips leading zeros", func() {
			Expect(hexcodec.NormalizeHexString("0x00ff")).To(Equal("0xff"))
		})

		It("collapses all-zero values to 0x0", func() {
			Expect(hexcodec.NormalizeHexString("0x0000")).To(Equal("0x0"))
		})
	})
})

func repeat(s string, n int) string {
	out := ""
	for i := 0; i < n; i++ {
		out += s
	}
	return out
}
