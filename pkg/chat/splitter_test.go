package chat_test

import (
	"github.com/killallgit/mull/pkg/chat"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("StreamSplitter", func() {
	var splitter *chat.StreamSplitter

	BeforeEach(func() {
		splitter = chat.NewStreamSplitter()
	})

	feedAll := func(deltas ...string) (thinking, response string) {
		for _, d := range deltas {
			update := splitter.Feed(d)
			thinking += update.ThinkingDelta
			response += update.ResponseDelta
		}
		return
	}

	Describe("streams without thinking tags", func() {
		It("routes everything to the response side", func() {
			thinking, response := feedAll("Hello", " there")
			result := splitter.Finish()

			Expect(thinking).To(BeEmpty())
			Expect(response).To(Equal("Hello there"))
			Expect(result.Response).To(Equal("Hello there"))
			Expect(result.ElapsedKnown).To(BeFalse())
		})

		It("does not mistake inline angle brackets for tags", func() {
			_, response := feedAll("a < b and b > c")
			result := splitter.Finish()

			Expect(response).To(Equal("a < b and b > c"))
			Expect(result.Thinking).To(BeEmpty())
		})
	})

	Describe("streams opening with a thinking block", func() {
		It("routes the block to the thinking side until it closes", func() {
			thinking, response := feedAll("<think>step one</think>answer")
			result := splitter.Finish()

			Expect(thinking).To(Equal("step one"))
			Expect(response).To(Equal("answer"))
			Expect(result.Thinking).To(Equal("step one"))
			Expect(result.Response).To(Equal("answer"))
			Expect(result.ElapsedKnown).To(BeTrue())
		})

		It("accepts the long tag variant", func() {
			thinking, response := feedAll("<thinking>deep</thinking>out")

			Expect(thinking).To(Equal("deep"))
			Expect(response).To(Equal("out"))
		})

		It("ignores leading whitespace before the opening tag", func() {
			thinking, _ := feedAll("  \n<think>padded</think>")

			Expect(thinking).To(Equal("padded"))
		})

		It("reports the thinking phase while inside the block", func() {
			splitter.Feed("<think>still going")
			Expect(splitter.InThinking()).To(BeTrue())

			splitter.Feed("</think>")
			Expect(splitter.InThinking()).To(BeFalse())
		})
	})

	Describe("tags fragmented across chunks", func() {
		It("reassembles an opening tag split mid-chunk", func() {
			thinking, response := feedAll("<thi", "nk>split", " open</think>done")

			Expect(thinking).To(Equal("split open"))
			Expect(response).To(Equal("done"))
		})

		It("holds back a partial closing tag until it resolves", func() {
			update := splitter.Feed("<think>almost</thi")
			Expect(update.ThinkingDelta).To(Equal("almost"))

			update = splitter.Feed("nk>after")
			Expect(update.ThinkingDelta).To(BeEmpty())
			Expect(update.ResponseDelta).To(Equal("after"))
		})

		It("releases held-back text that turns out not to be a tag", func() {
			thinking, _ := feedAll("<think>a </t", "rap, not a tag</think>")

			Expect(thinking).To(Equal("a </trap, not a tag"))
		})
	})

	Describe("close tag selection", func() {
		It("closes on the earliest tag when both variants share a chunk", func() {
			thinking, response := feedAll("<think>a</think>b</thinking>c")
			result := splitter.Finish()

			Expect(thinking).To(Equal("a"))
			Expect(response).To(Equal("b</thinking>c"))
			Expect(result.Thinking).To(Equal("a"))
			Expect(result.Response).To(Equal("b</thinking>c"))
		})

		It("splits the same way regardless of chunk boundaries", func() {
			thinking, response := feedAll("<think>a</think>b", "</thinking>c")

			Expect(thinking).To(Equal("a"))
			Expect(response).To(Equal("b</thinking>c"))
		})

		It("agrees with the completed-message parser", func() {
			content := "<think>a</think>b</thinking>c"
			split := chat.SplitThinking(content)
			thinking, response := feedAll(content)

			Expect(thinking).To(Equal(split.Thinking))
			Expect(response).To(Equal(split.Response))
		})
	})

	Describe("abandoned and unterminated streams", func() {
		It("keeps an unterminated thinking block as the trace", func() {
			feedAll("<think>never closed")
			result := splitter.Finish()

			Expect(result.Thinking).To(Equal("never closed"))
			Expect(result.Response).To(BeEmpty())
			Expect(result.ElapsedKnown).To(BeTrue())
		})

		It("flushes an undecided head as response", func() {
			splitter.Feed("<th")
			result := splitter.Finish()

			Expect(result.Response).To(Equal("<th"))
			Expect(result.ResponseTail).To(Equal("<th"))
		})

		It("reports held-back close tag bytes as the thinking tail", func() {
			thinking, _ := feedAll("<think>half</thi")
			result := splitter.Finish()

			Expect(thinking).To(Equal("half"))
			Expect(result.Thinking).To(Equal("half</thi"))
			Expect(result.ThinkingTail).To(Equal("</thi"))
		})

		It("reports no tails for a cleanly closed stream", func() {
			feedAll("<think>done</think>answer")
			result := splitter.Finish()

			Expect(result.ThinkingTail).To(BeEmpty())
			Expect(result.ResponseTail).To(BeEmpty())
		})
	})
})
