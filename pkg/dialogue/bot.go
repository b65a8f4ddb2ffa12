package dialogue

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/graphbot/pkg/errors"
	"github.com/matzehuels/graphbot/pkg/graph"
	"github.com/matzehuels/graphbot/pkg/help"
	"github.com/matzehuels/graphbot/pkg/observability"
	"github.com/matzehuels/graphbot/pkg/render"
)

// Bot replies.
const (
	PromptDirection  = "Is your graph directed? (Y/n)"
	PromptInvalid    = "Invalid choice! Try again. (Y/n)"
	ReplyCancelled   = "Cancelled. Send a new graph whenever you like."
	ReplyWelcome     = "Send me a graph, one edge or node per line. Use /how for details."
	ReplyUnknownCmd  = "Unknown command. Use /help to see what is supported."
	replyLinesFormat = "The number of lines in your message should not exceed %d!\nTry again."
	replyLabelFormat = "The number of letters in nodes and labels names should not exceed %d!\nTry again."
)

// DefaultNodeSettings is the node attribute list used when none is
// configured.
const DefaultNodeSettings = `width=0.5 height=0.5 fontname="Arial"`

// Options configures a [Bot]. Zero fields fall back to defaults.
type Options struct {
	// Format is the image format of replies. Defaults to PNG.
	Format render.Format

	// CompactLayout is used for inputs of at most CompactMaxLines lines,
	// LargeLayout for longer ones.
	CompactLayout   string
	LargeLayout     string
	CompactMaxLines int

	// NodeSettings and LayoutSettings are copied verbatim into the document.
	NodeSettings   string
	LayoutSettings string

	// Contact is the answer to /contact.
	Contact string
}

func (o *Options) setDefaults() {
	if o.Format == "" {
		o.Format = render.FormatPNG
	}
	if o.CompactLayout == "" {
		o.CompactLayout = graph.CompactLayout
	}
	if o.LargeLayout == "" {
		o.LargeLayout = graph.LargeLayout
	}
	if o.CompactMaxLines <= 0 {
		o.CompactMaxLines = graph.CompactMaxLines
	}
	if o.NodeSettings == "" {
		o.NodeSettings = DefaultNodeSettings
	}
}

// Reply is the bot's answer to one message. Image is set when the message
// completed a graph; DOT then holds the rendered document.
type Reply struct {
	Text   string
	Image  []byte
	Format render.Format
	DOT    string
}

// HasImage reports whether the reply carries a rendered graph.
func (r Reply) HasImage() bool { return len(r.Image) > 0 }

// Bot drives the dialogue. It holds no per-session state of its own and is
// safe for concurrent use by many sessions.
type Bot struct {
	store    Store
	renderer render.Renderer
	opts     Options
	logger   *log.Logger
}

// NewBot creates a bot. A nil logger uses log.Default().
func NewBot(store Store, renderer render.Renderer, opts Options, logger *log.Logger) *Bot {
	opts.setDefaults()
	if logger == nil {
		logger = log.Default()
	}
	return &Bot{
		store:    store,
		renderer: renderer,
		opts:     opts,
		logger:   logger,
	}
}

// Store returns the bot's session store.
func (b *Bot) Store() Store { return b.store }

// Renderer returns the bot's renderer.
func (b *Bot) Renderer() render.Renderer { return b.renderer }

// Options returns the bot's options with defaults applied.
func (b *Bot) Options() Options { return b.opts }

// Handle processes one message of the session and returns the reply.
//
// Graph notation errors are not returned as errors: they are answered with
// the limit message and the session is reset. Errors are returned for
// store and render failures only.
func (b *Bot) Handle(ctx context.Context, sessionID, text string) (Reply, error) {
	if err := errors.ValidateSessionID(sessionID); err != nil {
		return Reply{}, err
	}

	if cmd, ok := parseCommand(text); ok {
		return b.command(ctx, sessionID, cmd)
	}

	st, err := b.store.Get(ctx, sessionID)
	if err != nil {
		return Reply{}, fmt.Errorf("load session: %w", err)
	}

	switch st.Step {
	case StepAwaitDirection:
		return b.direction(ctx, sessionID, st, text)
	default:
		return b.start(ctx, sessionID, text)
	}
}

func (b *Bot) start(ctx context.Context, sessionID, text string) (Reply, error) {
	b.logger.Debug("received graph", "session", sessionID, "lines", graph.CountLines(text))
	err := b.store.Set(ctx, sessionID, State{
		Step:      StepAwaitDirection,
		Text:      text,
		UpdatedAt: time.Now(),
	})
	if err != nil {
		return Reply{}, fmt.Errorf("save session: %w", err)
	}
	return Reply{Text: PromptDirection}, nil
}

func (b *Bot) direction(ctx context.Context, sessionID string, st State, answer string) (Reply, error) {
	directed, ok := ParseDirection(answer)
	if !ok {
		return Reply{Text: PromptInvalid}, nil
	}

	dot, err := b.BuildDOT(ctx, st.Text, directed, "")
	if err != nil {
		if !errors.IsSyntax(err) {
			return Reply{}, err
		}
		b.logger.Debug("rejected graph", "session", sessionID, "error", err)
		if err := b.reset(ctx, sessionID); err != nil {
			return Reply{}, err
		}
		return Reply{Text: LimitMessage(err)}, nil
	}

	img, err := b.renderer.Render(ctx, dot, b.opts.Format)
	if err != nil {
		return Reply{}, err
	}
	if err := b.reset(ctx, sessionID); err != nil {
		return Reply{}, err
	}

	b.logger.Info("rendered graph", "session", sessionID, "format", b.opts.Format, "bytes", len(img))
	return Reply{Image: img, Format: b.opts.Format, DOT: dot}, nil
}

// BuildDOT parses text and returns the DOT document. An empty layout is
// chosen by line count: the compact layout for short inputs, the large one
// otherwise.
func (b *Bot) BuildDOT(ctx context.Context, text string, directed bool, layout string) (string, error) {
	if layout == "" {
		layout = graph.LayoutForLines(graph.CountLines(text), b.opts.CompactMaxLines, b.opts.CompactLayout, b.opts.LargeLayout)
	}
	g := graph.New(graph.Config{
		Directed:       directed,
		Layout:         layout,
		LayoutSettings: b.opts.LayoutSettings,
		NodeSettings:   b.opts.NodeSettings,
	})

	start := time.Now()
	err := g.TryParse(text)
	observability.Pipeline().OnParseComplete(ctx, g.NodeCount(), g.EdgeCount(), time.Since(start), err)
	if err != nil {
		return "", err
	}
	return g.ToDOT(), nil
}

func (b *Bot) reset(ctx context.Context, sessionID string) error {
	if err := b.store.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("reset session: %w", err)
	}
	return nil
}

func (b *Bot) command(ctx context.Context, sessionID, cmd string) (Reply, error) {
	switch cmd {
	case "help":
		return Reply{Text: help.CommandList()}, nil
	case "how":
		return Reply{Text: help.How(graph.MaxLines, graph.MaxLabelLength)}, nil
	case "contact":
		return Reply{Text: help.Contact(b.opts.Contact)}, nil
	case "start":
		if err := b.reset(ctx, sessionID); err != nil {
			return Reply{}, err
		}
		return Reply{Text: ReplyWelcome}, nil
	case "cancel":
		if err := b.reset(ctx, sessionID); err != nil {
			return Reply{}, err
		}
		return Reply{Text: ReplyCancelled}, nil
	default:
		return Reply{Text: ReplyUnknownCmd}, nil
	}
}

// parseCommand recognizes "/name" and "/name@botname" messages.
func parseCommand(text string) (string, bool) {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "/") || strings.ContainsAny(text, " \t\n") {
		return "", false
	}
	name := strings.ToLower(text[1:])
	if i := strings.IndexByte(name, '@'); i >= 0 {
		name = name[:i]
	}
	if name == "" {
		return "", false
	}
	return name, true
}

// ParseDirection interprets the answer to [PromptDirection]. It accepts "y"
// and "n" in any case, surrounded by whitespace.
func ParseDirection(answer string) (directed, ok bool) {
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y":
		return true, true
	case "n":
		return false, true
	}
	return false, false
}

// LimitMessage returns the user-facing message for a graph notation error.
func LimitMessage(err error) string {
	switch errors.GetCode(err) {
	case errors.ErrCodeTooManyLines:
		return fmt.Sprintf(replyLinesFormat, graph.MaxLines)
	case errors.ErrCodeLabelTooLong:
		return fmt.Sprintf(replyLabelFormat, graph.MaxLabelLength)
	}
	return errors.UserMessage(err)
}
