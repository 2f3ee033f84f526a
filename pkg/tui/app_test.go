package tui_test

import (
	"context"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/killallgit/mull/pkg/chat"
	"github.com/killallgit/mull/pkg/config"
	"github.com/killallgit/mull/pkg/tui"
)

// scriptedClient replays a fixed chunk sequence for every request.
type scriptedClient struct {
	chunks []chat.MessageChunk
}

func (c *scriptedClient) StreamMessage(ctx context.Context, req chat.ChatRequest) (<-chan chat.MessageChunk, error) {
	out := make(chan chat.MessageChunk, len(c.chunks))
	for _, chunk := range c.chunks {
		out <- chunk
	}
	close(out)
	return out, nil
}

func screenText(sim tcell.SimulationScreen) func() string {
	return func() string {
		cells, width, height := sim.GetContents()
		var sb strings.Builder
		for row := 0; row < height; row++ {
			for col := 0; col < width; col++ {
				cell := cells[row*width+col]
				if len(cell.Runes) > 0 {
					sb.WriteRune(cell.Runes[0])
				} else {
					sb.WriteRune(' ')
				}
			}
			sb.WriteRune('\n')
		}
		return sb.String()
	}
}

func typeString(sim tcell.SimulationScreen, text string) {
	for _, r := range text {
		sim.InjectKey(tcell.KeyRune, r, tcell.ModNone)
	}
}

var _ = Describe("App", func() {
	var (
		sim     tcell.SimulationScreen
		appDone chan error
		cancel  context.CancelFunc
	)

	startApp := func(client tui.StreamSender, cfg *config.Config) {
		sim = tcell.NewSimulationScreen("UTF-8")
		Expect(sim.Init()).To(Succeed())
		sim.SetSize(80, 24)

		var ctx context.Context
		ctx, cancel = context.WithCancel(context.Background())

		app := tui.NewApp(sim, client, nil, cfg)
		appDone = make(chan error, 1)
		go func() {
			appDone <- app.Run(ctx)
		}()
	}

	AfterEach(func() {
		sim.InjectKey(tcell.KeyCtrlC, rune(tcell.KeyCtrlC), tcell.ModCtrl)
		Eventually(appDone, time.Second).Should(Receive())
		cancel()
		sim.Fini()
	})

	It("echoes typed input on the prompt line", func() {
		startApp(&scriptedClient{}, &config.Config{
			Provider: config.ProviderConfig{Model: "llama3"},
		})

		typeString(sim, "hello")

		Eventually(screenText(sim), time.Second).Should(ContainSubstring("> hello"))
	})

	It("streams a response and collapses the thinking box", func() {
		client := &scriptedClient{chunks: []chat.MessageChunk{
			{Content: "<think>weighing the options</think>"},
			{Content: "Four."},
			{Done: true},
		}}
		startApp(client, &config.Config{
			Provider:     config.ProviderConfig{Model: "llama3"},
			ShowThinking: true,
		})

		typeString(sim, "what is 2+2?")
		sim.InjectKey(tcell.KeyEnter, '\r', tcell.ModNone)

		Eventually(screenText(sim), time.Second).Should(ContainSubstring("Four."))
		Eventually(screenText(sim), time.Second).Should(ContainSubstring("Thought for"))
		// Collapsed after completion, so the trace itself is hidden.
		Consistently(screenText(sim), 200*time.Millisecond).ShouldNot(ContainSubstring("weighing the options"))
	})

	It("expands the collapsed box on Ctrl+T", func() {
		client := &scriptedClient{chunks: []chat.MessageChunk{
			{Content: "<think>weighing the options</think>Four."},
			{Done: true},
		}}
		startApp(client, &config.Config{
			Provider:     config.ProviderConfig{Model: "llama3"},
			ShowThinking: true,
		})

		typeString(sim, "what is 2+2?")
		sim.InjectKey(tcell.KeyEnter, '\r', tcell.ModNone)
		Eventually(screenText(sim), time.Second).Should(ContainSubstring("Thought for"))

		sim.InjectKey(tcell.KeyCtrlT, rune(tcell.KeyCtrlT), tcell.ModCtrl)

		Eventually(screenText(sim), time.Second).Should(ContainSubstring("weighing the options"))
	})

	It("suppresses the box entirely when the thinking display is off", func() {
		client := &scriptedClient{chunks: []chat.MessageChunk{
			{Content: "<think>weighing the options</think>"},
			{Content: "Four."},
			{Done: true},
		}}
		startApp(client, &config.Config{
			Provider:     config.ProviderConfig{Model: "llama3"},
			ShowThinking: false,
		})

		typeString(sim, "what is 2+2?")
		sim.InjectKey(tcell.KeyEnter, '\r', tcell.ModNone)

		Eventually(screenText(sim), time.Second).Should(ContainSubstring("Four."))
		Consistently(screenText(sim), 200*time.Millisecond).ShouldNot(ContainSubstring("Thinking"))
		Consistently(screenText(sim), 200*time.Millisecond).ShouldNot(ContainSubstring("Waiting for thoughts"))

		// Ctrl+T has nothing to reveal for these turns.
		sim.InjectKey(tcell.KeyCtrlT, rune(tcell.KeyCtrlT), tcell.ModCtrl)
		Consistently(screenText(sim), 200*time.Millisecond).ShouldNot(ContainSubstring("weighing the options"))
	})

	It("never shows a box for a turn without a trace", func() {
		client := &scriptedClient{chunks: []chat.MessageChunk{
			{Content: "Just a plain reply."},
			{Done: true},
		}}
		startApp(client, &config.Config{
			Provider:     config.ProviderConfig{Model: "llama3"},
			ShowThinking: true,
		})

		typeString(sim, "hi")
		sim.InjectKey(tcell.KeyEnter, '\r', tcell.ModNone)

		Eventually(screenText(sim), time.Second).Should(ContainSubstring("Just a plain reply."))
		Consistently(screenText(sim), 200*time.Millisecond).ShouldNot(ContainSubstring("Thought for"))
	})
})
