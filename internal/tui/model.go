package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog/log"

	"github.com/rmarques/wildchat/internal/config"
	apierrors "github.com/rmarques/wildchat/internal/errors"
	"github.com/rmarques/wildchat/internal/models"
	"github.com/rmarques/wildchat/internal/render"
)

// Animation tick message
type animationTickMsg time.Time

// Flush tick message, drives streaming repaints
type flushTickMsg time.Time

// Message types for the TUI
type (
	// streamStartedMsg is sent once the request is accepted and the event
	// channel is live
	streamStartedMsg struct {
		ch     <-chan models.StreamEvent
		cancel context.CancelFunc
	}
	streamChunkMsg struct {
		text string
	}
	streamDoneMsg struct{}
	errMsg        struct {
		err error
	}
)

// ChatSessionInterface defines the session operations needed by the TUI
type ChatSessionInterface interface {
	StreamTranscript(ctx context.Context, transcript []models.Message) (<-chan models.StreamEvent, error)
	Personality() *config.Personality
	SetPersonality(p *config.Personality)
	Model() models.Model
	SetModel(model models.Model)
}

// Model represents the TUI state
type Model struct {
	session ChatSessionInterface
	cfg     *config.Config

	// UI components
	viewport viewport.Model
	textarea textarea.Model
	spinner  spinner.Model

	// Conversation state. The UI loop is the sole writer; the worker only
	// ever sees snapshots taken at submit time.
	conversation *models.Conversation

	// Request state
	loading        bool   // request in flight, input disabled
	pending        string // partial assistant text accumulated so far
	cancel         context.CancelFunc
	streamCh       <-chan models.StreamEvent
	buf            *streamingBuffer
	err            error
	note           string // transient status note (e.g. canceled)
	ready          bool
	animationFrame int

	// Personality selection state
	selectingPersonality bool
	personalities        []config.Personality
	personalityCursor    int
	personalityFilter    string
	activePersonality    string

	// Dimensions
	width  int
	height int
}

// NewChatModel creates a new chat TUI model
func NewChatModel(session ChatSessionInterface, personalities []config.Personality, cfg *config.Config) Model {
	// Create textarea for input
	ta := textarea.New()
	ta.Placeholder = "Type your message here..."
	ta.CharLimit = 4000
	ta.ShowLineNumbers = false
	ta.SetHeight(2)
	ta.Focus()

	// Style the textarea
	ta.FocusedStyle.CursorLine = lipgloss.NewStyle()
	ta.FocusedStyle.Base = lipgloss.NewStyle().Foreground(colorText)
	ta.FocusedStyle.Placeholder = lipgloss.NewStyle().Foreground(colorTextDim)
	ta.BlurredStyle = ta.FocusedStyle

	// Create spinner
	s := spinner.New()
	s.Spinner = spinner.Points
	s.Style = loadingStyle

	active := ""
	if p := session.Personality(); p != nil {
		active = p.Name
	}

	return Model{
		session:           session,
		cfg:               cfg,
		textarea:          ta,
		spinner:           s,
		conversation:      models.NewConversation(),
		buf:               newStreamingBuffer(),
		personalities:     personalities,
		activePersonality: active,
	}
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		textarea.Blink,
		m.spinner.Tick,
	)
}

// animationTick returns a command that sends animation tick messages
func animationTick() tea.Cmd {
	return tea.Tick(time.Millisecond*80, func(t time.Time) tea.Msg {
		return animationTickMsg(t)
	})
}

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	// Handle personality selection mode
	if m.selectingPersonality {
		return m.updatePersonalitySelection(msg)
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		// Calculate component heights
		headerHeight := 4 // Header panel with border
		inputHeight := 6  // Input panel with border
		statusHeight := 1 // Status bar
		padding := 2      // Extra spacing

		vpHeight := m.height - headerHeight - inputHeight - statusHeight - padding
		if vpHeight < 5 {
			vpHeight = 5
		}

		contentWidth := m.width - 4

		// Initialize viewport on first size message
		if !m.ready {
			m.viewport = viewport.New(contentWidth, vpHeight)
			m.textarea.SetWidth(contentWidth - 4)
			m.ready = true
		} else {
			m.viewport.Width = contentWidth
			m.viewport.Height = vpHeight
			m.textarea.SetWidth(contentWidth - 4)
		}
		m.updateViewport()

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.cancelStream()
			return m, tea.Quit

		case "esc":
			if m.loading {
				// Cancel the in-flight request; the worker answers with a
				// canceled error event which finalizes the partial text
				m.cancelStream()
			} else {
				return m, tea.Quit
			}

		case "ctrl+y":
			if reply, ok := m.lastAssistantReply(); ok {
				if err := clipboard.WriteAll(reply); err == nil {
					m.note = "copied last reply to clipboard"
				}
			}

		case "enter":
			if !m.loading && strings.TrimSpace(m.textarea.Value()) != "" {
				input := strings.TrimSpace(m.textarea.Value())
				if model, cmd, handled := m.handleCommand(input); handled {
					return model, cmd
				}
				return m.submit(input)
			}
		}

	case streamStartedMsg:
		m.cancel = msg.cancel
		m.streamCh = msg.ch
		return m, tea.Batch(listenStream(msg.ch), flushTick())

	case streamChunkMsg:
		if !m.loading || m.streamCh == nil {
			break
		}
		m.buf.Write(msg.text)
		// Re-arm the relay; flush ticks repaint the view
		return m, listenStream(m.streamCh)

	case flushTickMsg:
		if m.loading {
			if chunk, ok := m.buf.Flush(); ok {
				m.pending += chunk
				m.updateViewport()
				m.viewport.GotoBottom()
			}
			cmds = append(cmds, flushTick())
		}

	case streamDoneMsg:
		m.finalizeResponse()

	case errMsg:
		if errors.Is(msg.err, context.Canceled) {
			m.finalizeCanceled()
		} else {
			m.failResponse(msg.err)
		}

	case spinner.TickMsg:
		if m.loading {
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}

	case animationTickMsg:
		if m.loading {
			m.animationFrame++
			cmds = append(cmds, animationTick())
		}
	}

	// Update child components - only pass KeyMsg to textarea to prevent escape sequence leaks
	if !m.loading {
		if _, ok := msg.(tea.KeyMsg); ok {
			m.textarea, cmd = m.textarea.Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// handleCommand intercepts slash commands and the exit keywords. Returns
// handled=false when the input is a regular chat message.
func (m Model) handleCommand(input string) (tea.Model, tea.Cmd, bool) {
	switch {
	case input == "exit" || input == "quit" || input == "/exit" || input == "/quit":
		return m, tea.Quit, true

	case input == "/clear":
		m.textarea.Reset()
		m.conversation.Clear()
		m.pending = ""
		m.err = nil
		m.note = "conversation cleared"
		m.updateViewport()
		return m, nil, true

	case input == "/personality" || input == "/p":
		m.textarea.Reset()
		m.selectingPersonality = true
		m.personalityCursor = 0
		m.personalityFilter = ""
		return m, nil, true

	case strings.HasPrefix(input, "/model"):
		m.textarea.Reset()
		name := strings.TrimSpace(strings.TrimPrefix(input, "/model"))
		if name == "" {
			m.note = "current model: " + m.session.Model().Name
		} else {
			m.session.SetModel(models.ModelFromName(name))
			m.note = "switched model to " + name
		}
		return m, nil, true

	case strings.HasPrefix(input, "/"):
		m.textarea.Reset()
		m.err = fmt.Errorf("unknown command: %s", input)
		return m, nil, true
	}

	return m, nil, false
}

// submit appends the user message and kicks off one streaming request. The
// loading flag guarantees a single outstanding request.
func (m Model) submit(input string) (tea.Model, tea.Cmd) {
	m.conversation.Append(models.RoleUser, input)
	m.updateViewport()
	m.viewport.GotoBottom()

	m.loading = true
	m.err = nil
	m.note = ""
	m.pending = ""
	m.buf.Reset()
	m.animationFrame = 0
	m.textarea.Reset()

	log.Debug().Int("transcript_len", m.conversation.Len()).Msg("submitting prompt")

	return m, tea.Batch(
		m.startStream(m.conversation.Snapshot()),
		m.spinner.Tick,
		animationTick(),
	)
}

// startStream creates a command that opens the streaming request
func (m Model) startStream(transcript []models.Message) tea.Cmd {
	session := m.session
	return func() tea.Msg {
		ctx, cancel := context.WithCancel(context.Background())
		ch, err := session.StreamTranscript(ctx, transcript)
		if err != nil {
			cancel()
			return errMsg{err: err}
		}
		return streamStartedMsg{ch: ch, cancel: cancel}
	}
}

// listenStream relays the next stream event into the Bubble Tea loop. The
// chunk handler re-arms it until done or error arrives.
func listenStream(ch <-chan models.StreamEvent) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-ch
		if !ok {
			return streamDoneMsg{}
		}
		switch ev.Kind {
		case models.StreamChunk:
			return streamChunkMsg{text: ev.Text}
		case models.StreamError:
			return errMsg{err: ev.Err}
		default:
			return streamDoneMsg{}
		}
	}
}

// cancelStream aborts the in-flight request, if any.
func (m *Model) cancelStream() {
	if m.cancel != nil {
		m.cancel()
	}
}

// finalizeResponse commits the streamed text as an assistant message and
// re-enables input.
func (m *Model) finalizeResponse() {
	if chunk, ok := m.buf.ForceFlush(); ok {
		m.pending += chunk
	}
	if m.pending != "" {
		m.conversation.Append(models.RoleAssistant, m.pending)
		if m.cfg != nil && m.cfg.CopyToClipboard {
			_ = clipboard.WriteAll(m.pending)
		}
	}
	m.endRequest()
	m.updateViewport()
	m.viewport.GotoBottom()
}

// finalizeCanceled keeps whatever partial text arrived before the cancel.
func (m *Model) finalizeCanceled() {
	if chunk, ok := m.buf.ForceFlush(); ok {
		m.pending += chunk
	}
	if m.pending != "" {
		m.conversation.Append(models.RoleAssistant, m.pending)
	}
	m.note = "response canceled"
	m.endRequest()
	m.updateViewport()
	m.viewport.GotoBottom()
}

// failResponse surfaces the error and re-enables input. The partial bubble
// is discarded; only a cancel keeps partial text.
func (m *Model) failResponse(err error) {
	log.Warn().Err(err).Msg("stream failed")
	m.err = err
	m.endRequest()
	m.updateViewport()
}

// endRequest clears per-request state.
func (m *Model) endRequest() {
	m.loading = false
	m.pending = ""
	m.cancel = nil
	m.streamCh = nil
	m.buf.Reset()
}

// lastAssistantReply returns the most recent assistant message.
func (m Model) lastAssistantReply() (string, bool) {
	snap := m.conversation.Snapshot()
	for i := len(snap) - 1; i >= 0; i-- {
		if snap[i].Role == models.RoleAssistant {
			return snap[i].Content, true
		}
	}
	return "", false
}

// View renders the TUI
func (m Model) View() string {
	if !m.ready {
		return loadingStyle.Render("  Initializing...")
	}

	// If selecting a personality, show the selector overlay
	if m.selectingPersonality {
		return m.renderPersonalitySelector()
	}

	var sections []string
	contentWidth := m.width - 4

	// Header
	headerParts := []string{
		titleStyle.Render("✦ wildchat"),
		hintStyle.Render("  •  "),
		subtitleStyle.Render(m.session.Model().Name),
	}
	if m.activePersonality != "" {
		headerParts = append(headerParts,
			hintStyle.Render("  •  "),
			selectorValueStyle.Render("◈ "+m.activePersonality),
		)
	}
	headerContent := lipgloss.JoinHorizontal(lipgloss.Center, headerParts...)
	header := headerStyle.Width(contentWidth).Render(headerContent)
	sections = append(sections, header)

	// Messages area
	var messagesContent string
	if m.conversation.Len() == 0 && m.pending == "" {
		messagesContent = m.renderWelcome()
	} else {
		messagesContent = m.viewport.View()
	}

	messagesPanel := messagesAreaStyle.
		Width(contentWidth).
		Height(m.viewport.Height).
		Render(messagesContent)
	sections = append(sections, messagesPanel)

	// Input area
	var inputContent string
	if m.loading && m.pending == "" {
		inputContent = m.renderLoadingAnimation()
	} else if m.loading {
		inputContent = loadingStyle.Render(m.spinner.View() + " streaming...")
	} else {
		inputContent = lipgloss.JoinVertical(
			lipgloss.Left,
			inputLabelStyle.Render("You"),
			m.textarea.View(),
		)
	}

	inputPanel := inputPanelStyle.Width(contentWidth).Render(inputContent)
	sections = append(sections, inputPanel)

	// Status bar
	statusBar := m.renderStatusBar(contentWidth)
	sections = append(sections, statusBar)

	// Transient note
	if m.note != "" {
		sections = append(sections, canceledNoteStyle.Render("  "+m.note))
	}

	// Error display
	if m.err != nil {
		errorDisplay := m.formatError(m.err)
		sections = append(sections, errorDisplay)
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// renderWelcome renders the welcome screen when no messages exist
func (m Model) renderWelcome() string {
	width := m.viewport.Width - 4
	height := m.viewport.Height

	icon := welcomeIconStyle.Width(width).Render("✦")
	title := welcomeTitleStyle.Width(width).Render("Welcome to wildchat")
	subtitle := welcomeStyle.Width(width).Render("Start a conversation by typing a message below\n/personality picks a persona, /clear starts over")

	content := lipgloss.JoinVertical(
		lipgloss.Center,
		"",
		icon,
		"",
		title,
		"",
		subtitle,
		"",
	)

	// Center vertically
	contentHeight := lipgloss.Height(content)
	topPadding := (height - contentHeight) / 2
	if topPadding < 0 {
		topPadding = 0
	}

	return strings.Repeat("\n", topPadding) + content
}

// renderLoadingAnimation renders a colorful animated loading indicator
func (m Model) renderLoadingAnimation() string {
	// Animation characters
	chars := []string{"⣾", "⣽", "⣻", "⢿", "⡿", "⣟", "⣯", "⣷"}
	barChars := []string{"█", "█", "█", "█", "█", "█", "█", "█", "▓", "▒", "░"}

	frame := m.animationFrame

	// Render spinning character with color
	spinIdx := frame % len(chars)
	spinColor := gradientColors[frame%len(gradientColors)]
	spin := lipgloss.NewStyle().Foreground(spinColor).Bold(true).Render(chars[spinIdx])

	// Render animated bar with gradient
	barWidth := 20
	var bar strings.Builder
	for i := 0; i < barWidth; i++ {
		colorIdx := (i + frame) % len(gradientColors)
		charIdx := (i + frame/2) % len(barChars)

		style := lipgloss.NewStyle().Foreground(gradientColors[colorIdx])
		bar.WriteString(style.Render(barChars[charIdx]))
	}

	// Animated dots
	dots := ""
	numDots := (frame / 3) % 4
	for i := 0; i < numDots; i++ {
		dotColor := gradientColors[(frame+i)%len(gradientColors)]
		dots += lipgloss.NewStyle().Foreground(dotColor).Render("●")
	}
	for i := numDots; i < 3; i++ {
		dots += lipgloss.NewStyle().Foreground(colorTextMute).Render("○")
	}

	text := lipgloss.NewStyle().Foreground(colorText).Render(" Waiting for the model ")

	return fmt.Sprintf("%s %s %s %s", spin, bar.String(), text, dots)
}

// renderStatusBar renders the bottom status bar with shortcuts
func (m Model) renderStatusBar(width int) string {
	escDesc := "Quit"
	if m.loading {
		escDesc = "Cancel"
	}

	shortcuts := []struct {
		key  string
		desc string
	}{
		{"Enter", "Send"},
		{"Esc", escDesc},
		{"Ctrl+Y", "Copy reply"},
		{"/p", "Personality"},
		{"↑↓", "Scroll"},
	}

	var items []string
	for _, s := range shortcuts {
		item := lipgloss.JoinHorizontal(
			lipgloss.Center,
			statusKeyStyle.Render(s.key),
			statusDescStyle.Render(" "+s.desc),
		)
		items = append(items, item)
	}

	bar := lipgloss.JoinHorizontal(lipgloss.Center, strings.Join(items, "  │  "))
	return statusBarStyle.Width(width).Align(lipgloss.Center).Render(bar)
}

// updateViewport refreshes the viewport content with styled messages
func (m *Model) updateViewport() {
	var content strings.Builder
	bubbleWidth := m.viewport.Width - 6

	for i, msg := range m.conversation.Snapshot() {
		if i > 0 {
			content.WriteString("\n")
		}

		if msg.Role == models.RoleUser {
			label := userLabelStyle.Render("⬤ You")
			bubble := userBubbleStyle.Width(bubbleWidth).Render(msg.Content)
			content.WriteString(label + "\n" + bubble)
		} else {
			label := assistantLabelStyle.Render("✦ Assistant")

			// Render markdown content
			rendered, err := render.MarkdownWithWidth(msg.Content, bubbleWidth-4)
			if err != nil {
				rendered = msg.Content
			}
			// Trim trailing newlines from glamour
			rendered = strings.TrimRight(rendered, "\n")

			bubble := assistantBubbleStyle.Width(bubbleWidth).Render(rendered)
			content.WriteString(label + "\n" + bubble)
		}
		content.WriteString("\n")
	}

	// In-progress response: rendered as plain text, markdown waits for the
	// complete message so half-open fences don't flicker
	if m.pending != "" {
		if m.conversation.Len() > 0 {
			content.WriteString("\n")
		}
		label := assistantLabelStyle.Render("✦ Assistant")
		bubble := assistantBubbleStyle.Width(bubbleWidth).Render(m.pending)
		content.WriteString(label + "\n" + bubble + "\n")
	}

	m.viewport.SetContent(content.String())
}

// formatError formats an error with structured error details for display
func (m Model) formatError(err error) string {
	if err == nil {
		return ""
	}

	var sb strings.Builder

	// Main error message
	sb.WriteString(errorStyle.Render(fmt.Sprintf("⚠ Error: %v", err)))

	// Add structured error details
	detailStyle := lipgloss.NewStyle().Foreground(colorTextDim).PaddingLeft(2)

	if status := apierrors.GetHTTPStatus(err); status > 0 {
		sb.WriteString("\n")
		sb.WriteString(detailStyle.Render(fmt.Sprintf("HTTP Status: %d", status)))
	}

	if code := apierrors.GetErrorCode(err); code != apierrors.ErrCodeUnknown {
		sb.WriteString("\n")
		sb.WriteString(detailStyle.Render(fmt.Sprintf("Error Code: %d (%s)", code, code.String())))
	}

	// Add helpful hints
	hints := lipgloss.NewStyle().Foreground(colorPrimary).PaddingLeft(2)
	switch {
	case apierrors.IsAuthError(err):
		sb.WriteString("\n")
		sb.WriteString(hints.Render("💡 Your token was rejected. Check HF_TOKEN or run 'wildchat auth login'"))
	case apierrors.IsRateLimitError(err):
		sb.WriteString("\n")
		sb.WriteString(hints.Render("💡 Usage limit reached. Try again later or use a different model"))
	case apierrors.IsNetworkError(err):
		sb.WriteString("\n")
		sb.WriteString(hints.Render("💡 Check your internet connection"))
	case apierrors.IsTimeoutError(err):
		sb.WriteString("\n")
		sb.WriteString(hints.Render("💡 Request timed out. Try again"))
	}

	return sb.String()
}

// RunChat starts the chat TUI
func RunChat(session ChatSessionInterface, personalities []config.Personality, cfg *config.Config) error {
	m := NewChatModel(session, personalities, cfg)

	p := tea.NewProgram(
		m,
		tea.WithAltScreen(),
	)

	_, err := p.Run()
	return err
}
