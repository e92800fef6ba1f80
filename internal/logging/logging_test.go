package logging_test

import (
	"testing"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"github.com/relaymesh/eth-relay/internal/config"
	"github.com/relaymesh/eth-relay/internal/logging"
)

func TestLogging(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Logging Suite")
}

var _ = Describe("New", func() {
	It("builds a usable logger for the development config", func() {
		cfg := &config.Config{Environment: "development", LogLevel: "info"}
		logger, err := logging.New(cfg)
		Expect(err).To(BeNil())
		Expect(logger).NotTo(BeNil())
	})

	It("builds a usable logger for the production config without a file sink", func() {
		cfg := &config.Config{Environment: "production", LogLevel: "debug"}
		logger, err := logging.New(cfg)
		Expect(err).To(BeNil())
		Expect(logger).NotTo(BeNil())
	})
})
