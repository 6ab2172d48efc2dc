package openai_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/termchat/pkg/llm"
	"github.com/papercomputeco/termchat/pkg/llm/provider"
	"github.com/papercomputeco/termchat/pkg/llm/provider/openai"
)

var _ = Describe("OpenAI Provider", func() {
	var (
		server   *httptest.Server
		handler  http.HandlerFunc
		endpoint llm.Endpoint
		p        provider.Provider
		req      *llm.ChatRequest
	)

	BeforeEach(func() {
		handler = func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusOK)
			_, _ = io.WriteString(w, `{"choices":[{"message":{"content":"Hi there"}}]}`)
		}
		server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			handler(w, r)
		}))

		endpoint = llm.Endpoint{
			URL:     server.URL + "/api/v1/chat/completions",
			APIKey:  "sk-or-test-key",
			Referer: "https://localhost",
			Title:   "Terminal Chat",
		}
		p = openai.New(endpoint)

		conv := llm.NewConversation()
		conv.Append(llm.NewUserMessage("Hello"))
		req = llm.NewChatRequest(conv, llm.RequestOptions{
			Model:       "deepseek/deepseek-chat-v3-0324:free",
			Temperature: 0.7,
		})
	})

	AfterEach(func() {
		server.Close()
	})

	Describe("Name", func() {
		It("returns 'openai'", func() {
			Expect(p.Name()).To(Equal("openai"))
		})
	})

	Describe("Complete", func() {
		It("posts the conversation with the fixed headers", func() {
			var (
				gotMethod string
				gotPath   string
				gotHeader http.Header
				gotBody   map[string]any
			)
			handler = func(w http.ResponseWriter, r *http.Request) {
				gotMethod = r.Method
				gotPath = r.URL.Path
				gotHeader = r.Header.Clone()
				Expect(json.NewDecoder(r.Body).Decode(&gotBody)).To(Succeed())
				_, _ = io.WriteString(w, `{"choices":[{"message":{"content":"Hi there"}}]}`)
			}

			_, err := p.Complete(context.Background(), req)
			Expect(err).NotTo(HaveOccurred())

			Expect(gotMethod).To(Equal(http.MethodPost))
			Expect(gotPath).To(Equal("/api/v1/chat/completions"))
			Expect(gotHeader.Get("Authorization")).To(Equal("Bearer sk-or-test-key"))
			Expect(gotHeader.Get("HTTP-Referer")).To(Equal("https://localhost"))
			Expect(gotHeader.Get("X-Title")).To(Equal("Terminal Chat"))
			Expect(gotHeader.Get("Content-Type")).To(Equal("application/json"))

			Expect(gotBody["model"]).To(Equal("deepseek/deepseek-chat-v3-0324:free"))
			Expect(gotBody["temperature"]).To(BeNumerically("==", 0.7))
			Expect(gotBody).NotTo(HaveKey("max_tokens"))
			messages := gotBody["messages"].([]any)
			Expect(messages).To(HaveLen(1))
			msg := messages[0].(map[string]any)
			Expect(msg["role"]).To(Equal("user"))
			Expect(msg["content"]).To(Equal("Hello"))
		})

		It("returns the first choice's content", func() {
			resp, err := p.Complete(context.Background(), req)
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.Message).To(Equal(llm.NewAssistantMessage("Hi there")))
		})

		It("returns a StatusError with the raw body for non-200 responses", func() {
			handler = func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = io.WriteString(w, "unauthorized")
			}

			resp, err := p.Complete(context.Background(), req)
			Expect(resp).To(BeNil())

			var statusErr *llm.StatusError
			Expect(errors.As(err, &statusErr)).To(BeTrue())
			Expect(statusErr.StatusCode).To(Equal(http.StatusUnauthorized))
			Expect(statusErr.Body).To(Equal("unauthorized"))
			Expect(llm.IsRecoverable(err)).To(BeTrue())
		})

		It("treats other 2xx statuses as failures", func() {
			handler = func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusAccepted)
				_, _ = io.WriteString(w, `{"choices":[{"message":{"content":"late"}}]}`)
			}

			_, err := p.Complete(context.Background(), req)
			var statusErr *llm.StatusError
			Expect(errors.As(err, &statusErr)).To(BeTrue())
			Expect(statusErr.StatusCode).To(Equal(http.StatusAccepted))
		})

		It("returns a MalformedResponseError for undecodable bodies", func() {
			handler = func(w http.ResponseWriter, _ *http.Request) {
				_, _ = io.WriteString(w, "<html>not json</html>")
			}

			_, err := p.Complete(context.Background(), req)
			var malformed *llm.MalformedResponseError
			Expect(errors.As(err, &malformed)).To(BeTrue())
			Expect(llm.IsRecoverable(err)).To(BeFalse())
		})

		It("returns a MalformedResponseError when content is missing", func() {
			handler = func(w http.ResponseWriter, _ *http.Request) {
				_, _ = io.WriteString(w, `{"choices":[{"message":{}}]}`)
			}

			_, err := p.Complete(context.Background(), req)
			var malformed *llm.MalformedResponseError
			Expect(errors.As(err, &malformed)).To(BeTrue())
		})

		It("returns a TransportError when the endpoint is unreachable", func() {
			server.Close()

			_, err := p.Complete(context.Background(), req)
			var transportErr *llm.TransportError
			Expect(errors.As(err, &transportErr)).To(BeTrue())
			Expect(llm.IsRecoverable(err)).To(BeFalse())
		})
	})

	Describe("ParseResponse", func() {
		It("parses usage and finish reason", func() {
			payload := []byte(`{
				"id": "gen-123",
				"model": "deepseek/deepseek-chat-v3-0324:free",
				"choices": [{"index": 0, "message": {"role": "assistant", "content": "Hi"}, "finish_reason": "stop"}],
				"usage": {"prompt_tokens": 5, "completion_tokens": 1, "total_tokens": 6}
			}`)

			resp, err := openai.ParseResponse(payload)
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.Model).To(Equal("deepseek/deepseek-chat-v3-0324:free"))
			Expect(resp.StopReason).To(Equal("stop"))
			Expect(resp.Usage).NotTo(BeNil())
			Expect(resp.Usage.TotalTokens).To(Equal(6))
		})

		It("joins array-form text content", func() {
			payload := []byte(`{"choices": [{"message": {"content": [
				{"type": "text", "text": "Hello"},
				{"type": "text", "text": " world"}
			]}}]}`)

			resp, err := openai.ParseResponse(payload)
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.Message.Content).To(Equal("Hello world"))
		})

		It("rejects responses without choices", func() {
			_, err := openai.ParseResponse([]byte(`{"choices": []}`))
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("EncodeRequest", func() {
		It("includes max_tokens only when set", func() {
			req.MaxTokens = 128
			data, err := openai.EncodeRequest(req)
			Expect(err).NotTo(HaveOccurred())
			Expect(data).To(MatchJSON(`{
				"model": "deepseek/deepseek-chat-v3-0324:free",
				"messages": [{"role": "user", "content": "Hello"}],
				"temperature": 0.7,
				"max_tokens": 128
			}`))
		})
	})
})
