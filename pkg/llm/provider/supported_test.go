package provider_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/termchat/pkg/llm"
	"github.com/papercomputeco/termchat/pkg/llm/provider"
	"github.com/papercomputeco/termchat/pkg/logger"
)

var _ = Describe("New", func() {
	endpoint := llm.Endpoint{
		URL:    "https://openrouter.ai/api/v1/chat/completions",
		APIKey: "sk-test",
	}

	It("lists the supported providers", func() {
		Expect(provider.SupportedProviders()).To(ConsistOf("openai", "openai-sdk"))
	})

	DescribeTable("creates each supported provider",
		func(name string) {
			p, err := provider.New(name, endpoint, logger.Nop())
			Expect(err).NotTo(HaveOccurred())
			Expect(p.Name()).To(Equal(name))
		},
		Entry("plain HTTP", provider.OpenAI),
		Entry("openai-go", provider.OpenAISDK),
	)

	It("rejects unknown providers", func() {
		_, err := provider.New("anthropic", endpoint, logger.Nop())
		Expect(err).To(MatchError(ContainSubstring("unknown provider type")))
	})

	It("surfaces SDK endpoint errors", func() {
		_, err := provider.New(provider.OpenAISDK, llm.Endpoint{URL: "https://example.com"}, logger.Nop())
		Expect(err).To(HaveOccurred())
	})
})
