package config_test

import (
	"os"
	"testing"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"github.com/relaymesh/eth-relay/internal/config"
)

func TestConfig(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Config Suite")
}

var _ = Describe("Load", func() {
	It("falls back to defaults when no config file is given", func() {
		cfg, err := config.Load("")
		Expect(err).To(BeNil())
		Expect(cfg.ServerPort).To(Equal(7546))
		Expect(cfg.ChainID).To(Equal("0x12a"))
		Expect(cfg.Environment).To(Equal("development"))
	})

	It("honors RELAY_-prefixed environment overrides", func() {
		os.Setenv("RELAY_CHAIN_ID", "0x128")
		defer os.Unsetenv("RELAY_CHAIN_ID")
		cfg, err := config.Load("")
		Expect(err).To(BeNil())
		Expect(cfg.ChainID).To(Equal("0x128"))
	})
})
