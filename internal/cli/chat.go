package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/graphbot/pkg/dialogue"
)

// chatCommand creates the chat command: the dialogue bot in the terminal.
func (c *CLI) chatCommand() *cobra.Command {
	var (
		session string
		outDir  string
	)

	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Talk to the graph bot in the terminal",
		Long: `Start an interactive dialogue with the graph bot.

Type a graph (one node or edge per line), send it with ctrl+s, then answer
y or n. Rendered images are written to the output directory.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			if err := os.MkdirAll(outDir, 0755); err != nil {
				return fmt.Errorf("create output dir: %w", err)
			}

			b, err := newBot(ctx, c.cfg, logger)
			if err != nil {
				return err
			}
			defer b.Close()

			m := newChatModel(ctx, b.Bot, session, outDir)
			final, err := tea.NewProgram(m, tea.WithContext(ctx)).Run()
			if err != nil {
				return err
			}
			if fm, ok := final.(chatModel); ok && fm.images > 0 {
				printSuccess("Wrote %d image(s) to %s", fm.images, outDir)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&session, "session", "s", "local", "session ID; reuse it with a persistent store to resume")
	cmd.Flags().StringVarP(&outDir, "out-dir", "o", ".", "directory for rendered images")
	return cmd
}

// =============================================================================
// chatModel - bubbletea model for the dialogue
// =============================================================================

type chatLine struct {
	user bool
	text string
}

// replyMsg carries the bot's answer back into the update loop.
type replyMsg struct {
	reply dialogue.Reply
	path  string // written image, if any
	err   error
}

type chatModel struct {
	ctx     context.Context
	bot     *dialogue.Bot
	session string
	outDir  string

	input      textarea.Model
	transcript []chatLine
	busy       bool
	images     int
	height     int
}

func newChatModel(ctx context.Context, bot *dialogue.Bot, session, outDir string) chatModel {
	ta := textarea.New()
	ta.Placeholder = "A B\nB C label"
	ta.ShowLineNumbers = false
	ta.SetHeight(5)
	ta.SetWidth(60)
	ta.Focus()

	return chatModel{
		ctx:     ctx,
		bot:     bot,
		session: session,
		outDir:  outDir,
		input:   ta,
		height:  24,
		transcript: []chatLine{
			{text: dialogue.ReplyWelcome},
		},
	}
}

func (m chatModel) Init() tea.Cmd {
	return textarea.Blink
}

func (m chatModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit
		case "ctrl+s":
			text := strings.TrimRight(m.input.Value(), "\n")
			if m.busy || strings.TrimSpace(text) == "" {
				return m, nil
			}
			m.transcript = append(m.transcript, chatLine{user: true, text: text})
			m.input.Reset()
			m.busy = true
			return m, m.send(text, m.images+1)
		}
	case replyMsg:
		m.busy = false
		switch {
		case msg.err != nil:
			m.transcript = append(m.transcript, chatLine{text: "error: " + msg.err.Error()})
		case msg.path != "":
			m.images++
			m.transcript = append(m.transcript, chatLine{text: "Rendered " + msg.path})
		default:
			m.transcript = append(m.transcript, chatLine{text: msg.reply.Text})
		}
		return m, nil
	case tea.WindowSizeMsg:
		m.height = msg.Height
		m.input.SetWidth(max(msg.Width-2, 20))
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// send asks the bot and writes an image reply to outDir as graph-<n>.<format>.
func (m chatModel) send(text string, n int) tea.Cmd {
	return func() tea.Msg {
		reply, err := m.bot.Handle(m.ctx, m.session, text)
		if err != nil {
			return replyMsg{err: err}
		}
		if !reply.HasImage() {
			return replyMsg{reply: reply}
		}
		path := filepath.Join(m.outDir, fmt.Sprintf("graph-%d.%s", n, reply.Format))
		if err := os.WriteFile(path, reply.Image, 0644); err != nil {
			return replyMsg{err: err}
		}
		return replyMsg{reply: reply, path: path}
	}
}

func (m chatModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("graphbot chat"))
	b.WriteString("  ")
	b.WriteString(StyleDim.Render("session " + m.session))
	b.WriteString("\n\n")

	for _, line := range m.visibleTranscript() {
		who := styleBot.Render("bot ")
		if line.user {
			who = styleUser.Render("you ")
		}
		for i, l := range strings.Split(line.text, "\n") {
			if i > 0 {
				who = "    "
			}
			b.WriteString(who + l + "\n")
		}
	}
	b.WriteString("\n")
	b.WriteString(m.input.View())
	b.WriteString("\n")

	status := "ctrl+s send · esc quit"
	if m.busy {
		status = "thinking..."
	}
	b.WriteString(StyleDim.Render(status))
	b.WriteString("\n")
	return b.String()
}

// visibleTranscript returns the most recent lines that fit above the input.
func (m chatModel) visibleTranscript() []chatLine {
	room := m.height - m.input.Height() - 6
	if room < 1 {
		room = 1
	}
	used := 0
	start := len(m.transcript)
	for start > 0 {
		n := strings.Count(m.transcript[start-1].text, "\n") + 1
		if used+n > room {
			break
		}
		used += n
		start--
	}
	return m.transcript[start:]
}
