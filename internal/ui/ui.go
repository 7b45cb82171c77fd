package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/droplet/internal/formatter"
	"github.com/desertthunder/droplet/internal/models"
	"github.com/desertthunder/droplet/internal/shared"
	"github.com/desertthunder/droplet/internal/transfer"
)

// RefreshInterval is how often the file list is re-read from the server.
const RefreshInterval = 2 * time.Second

// ViewState represents the current view in the TUI.
type ViewState int

const (
	DashboardView ViewState = iota
	InputView
	QRView
)

type inputMode int

const (
	textInput inputMode = iota
	pathInput
)

// Server is the part of [transfer.Server] the dashboard drives.
type Server interface {
	Start(ctx context.Context) (string, error)
	Stop()
	IsRunning() bool
	CompleteAddress() string
	UploadText(text string) int
	UploadPath(path string) (int, error)
	Files() []models.UploadedFile
	Stats() transfer.Stats
}

var _ Server = (*transfer.Server)(nil)

var (
	copyToClipboard = clipboard.WriteAll
	openBrowser     = shared.OpenBrowser
)

// Model represents the TUI application state.
type Model struct {
	ctx      context.Context
	view     ViewState
	server   Server
	width    int
	height   int
	files    list.Model
	input    textinput.Model
	mode     inputMode
	address  string
	starting bool
	status   string
	err      error
	help     help.Model
	keys     keyMap
}

// NewModel creates a new TUI model driving server.
func NewModel(ctx context.Context, server Server) *Model {
	files := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	files.Title = "Files"
	files.SetShowHelp(false)
	files.SetFilteringEnabled(false)
	files.SetStatusBarItemName("file", "files")

	input := textinput.New()
	input.CharLimit = 4096

	return &Model{
		ctx:    ctx,
		view:   DashboardView,
		server: server,
		files:  files,
		input:  input,
		help:   help.New(),
		keys:   newKeyMap(),
	}
}

// Init starts the server unless it is already running, and schedules the first refresh.
func (m *Model) Init() tea.Cmd {
	if m.server.IsRunning() {
		m.address = m.server.CompleteAddress()
		m.refresh()
		return tick()
	}
	m.starting = true
	return tea.Batch(m.startServer(), tick())
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.files.SetSize(msg.Width-4, max(msg.Height-12, 4))
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case InputView:
			return m.handleInputKeys(msg)
		case QRView:
			return m.handleQRKeys(msg)
		default:
			return m.handleDashboardKeys(msg)
		}

	case Msg:
		return m.handleMsg(msg)
	}

	var cmd tea.Cmd
	if m.view == InputView {
		m.input, cmd = m.input.Update(msg)
	} else {
		m.files, cmd = m.files.Update(msg)
	}
	return m, cmd
}

func (m *Model) handleMsg(msg Msg) (tea.Model, tea.Cmd) {
	switch msg.kind {
	case MsgServerStarted:
		res := msg.data.(startResult)
		m.starting = false
		m.err = res.err
		if res.err == nil {
			m.address = res.address
			m.status = "Server started"
		}
		m.refresh()

	case MsgServerStopped:
		m.address = ""
		m.err = nil
		m.status = "Server stopped, files cleared"
		m.refresh()

	case MsgUploaded:
		res := msg.data.(uploadResult)
		m.err = res.err
		if res.err == nil {
			m.status = fmt.Sprintf("Uploaded %s as #%d", res.name, res.index)
		}
		m.refresh()

	case MsgCopied:
		if err, _ := msg.data.(error); err != nil {
			m.err = fmt.Errorf("failed to copy address: %w", err)
		} else {
			m.status = "Address copied to clipboard"
		}

	case MsgOpened:
		if err, _ := msg.data.(error); err != nil {
			m.err = fmt.Errorf("failed to open browser: %w", err)
		}

	case MsgTick:
		m.refresh()
		return m, tick()
	}
	return m, nil
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	switch m.view {
	case InputView:
		return m.renderInput()
	case QRView:
		return m.renderQR()
	default:
		return m.renderDashboard()
	}
}

func (m *Model) handleDashboardKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.toggle):
		if m.starting {
			return m, nil
		}
		if m.server.IsRunning() {
			return m, m.stopServer()
		}
		m.starting = true
		m.status = "Starting..."
		return m, m.startServer()
	case key.Matches(msg, m.keys.text):
		return m, m.prompt(textInput)
	case key.Matches(msg, m.keys.file):
		return m, m.prompt(pathInput)
	case key.Matches(msg, m.keys.copy):
		if m.err = m.addressErr(); m.err != nil {
			return m, nil
		}
		return m, copyAddress(m.address)
	case key.Matches(msg, m.keys.open):
		if m.err = m.addressErr(); m.err != nil {
			return m, nil
		}
		return m, openAddress(m.address)
	case key.Matches(msg, m.keys.qr):
		if m.err = m.addressErr(); m.err != nil {
			return m, nil
		}
		m.view = QRView
		return m, nil
	case key.Matches(msg, m.keys.help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	}

	var cmd tea.Cmd
	m.files, cmd = m.files.Update(msg)
	return m, cmd
}

func (m *Model) handleInputKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.String() == "ctrl+c":
		return m, tea.Quit
	case key.Matches(msg, m.keys.back):
		m.input.Blur()
		m.view = DashboardView
		return m, nil
	case key.Matches(msg, m.keys.submit):
		value := m.input.Value()
		m.input.Blur()
		m.view = DashboardView
		if strings.TrimSpace(value) == "" {
			return m, nil
		}
		if m.mode == pathInput {
			return m, m.uploadPath(strings.TrimSpace(value))
		}
		return m, m.uploadText(value)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) handleQRKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.String() == "ctrl+c":
		return m, tea.Quit
	case key.Matches(msg, m.keys.back, m.keys.qr, m.keys.quit):
		m.view = DashboardView
	}
	return m, nil
}

// addressErr reports why the share address cannot be used yet.
func (m *Model) addressErr() error {
	switch {
	case !m.server.IsRunning():
		return shared.ErrNotRunning
	case m.address == "":
		return shared.ErrAddressUnavailable
	}
	return nil
}

// prompt switches to the input view for mode.
func (m *Model) prompt(mode inputMode) tea.Cmd {
	m.mode = mode
	m.err = nil
	m.input.Reset()
	if mode == pathInput {
		m.input.Placeholder = "/path/to/file"
	} else {
		m.input.Placeholder = "Text to share"
	}
	m.view = InputView
	return m.input.Focus()
}

// refresh reloads the file list from the server so relative times stay current.
func (m *Model) refresh() {
	m.files.SetItems(fileItems(m.server.Files()))
}

func (m *Model) startServer() tea.Cmd {
	return func() tea.Msg {
		address, err := m.server.Start(m.ctx)
		return serverStartedMsg(address, err)
	}
}

func (m *Model) stopServer() tea.Cmd {
	return func() tea.Msg {
		m.server.Stop()
		return serverStoppedMsg()
	}
}

func (m *Model) uploadText(text string) tea.Cmd {
	return func() tea.Msg {
		index := m.server.UploadText(text)
		return uploadedMsg(index, "text", nil)
	}
}

func (m *Model) uploadPath(path string) tea.Cmd {
	return func() tea.Msg {
		index, err := m.server.UploadPath(path)
		return uploadedMsg(index, path, err)
	}
}

func copyAddress(address string) tea.Cmd {
	return func() tea.Msg {
		return copiedMsg(copyToClipboard(address))
	}
}

func openAddress(address string) tea.Cmd {
	return func() tea.Msg {
		return openedMsg(openBrowser(address))
	}
}

func tick() tea.Cmd {
	return tea.Tick(RefreshInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m *Model) renderStatus() string {
	var b strings.Builder

	switch {
	case m.starting:
		b.WriteString(styles.warn.Render("● starting"))
	case m.server.IsRunning():
		b.WriteString(styles.ok.Render("● running"))
		if m.address != "" {
			b.WriteString("  " + styles.address.Render(m.address))
		} else {
			b.WriteString("  " + styles.warn.Render("no wi-fi address"))
		}
	default:
		b.WriteString(styles.err.Render("● stopped"))
	}

	stats := m.server.Stats()
	b.WriteString(styles.help.Render(fmt.Sprintf(
		"\n%d files • %s • %d downloads • %d previews",
		stats.Files, formatter.FormatSize(stats.TotalBytes), stats.Downloads, stats.Previews,
	)))
	return b.String()
}

func (m *Model) renderFooter() string {
	var line string
	switch {
	case m.err != nil:
		line = styles.err.Render(fmt.Sprintf("Error: %v", m.err))
	case m.status != "":
		line = styles.ok.Render(m.status)
	}
	return line
}

func (m *Model) renderDashboard() string {
	title := styles.title.Render("droplet")
	body := m.files.View()
	if len(m.files.Items()) == 0 {
		body = styles.help.Render("No files yet. Press t to share text or u to upload a file.")
	}

	return fmt.Sprintf("%s\n%s\n\n%s\n\n%s\n%s", title, m.renderStatus(), body, m.renderFooter(), m.help.View(m.keys))
}

func (m *Model) renderInput() string {
	label := "Share text"
	if m.mode == pathInput {
		label = "Upload a file"
	}

	title := styles.title.Render(label)
	helpView := m.help.ShortHelpView([]key.Binding{m.keys.submit, m.keys.back})
	return fmt.Sprintf("%s\n%s\n\n%s", title, styles.box.Render(m.input.View()), helpView)
}

func (m *Model) renderQR() string {
	code, err := shared.QRTerminal(m.address)
	if err != nil {
		return styles.err.Render(fmt.Sprintf("Error: %v", err))
	}

	title := styles.title.Render("Scan to open")
	helpView := m.help.ShortHelpView([]key.Binding{m.keys.back})
	return fmt.Sprintf("%s\n%s\n%s\n\n%s", title, code, styles.address.Render(m.address), helpView)
}
