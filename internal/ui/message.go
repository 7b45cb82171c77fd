package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// MsgKind enumerates all message types in the application.
type MsgKind int

// Msg represents all possible messages in the TUI (Elm-style message union).
type Msg struct {
	kind MsgKind
	data any
}

var (
	_ tea.Msg = Msg{}
)

const (
	MsgServerStarted MsgKind = iota
	MsgServerStopped
	MsgUploaded
	MsgCopied
	MsgOpened
	MsgTick
)

type startResult struct {
	address string
	err     error
}

type uploadResult struct {
	index int
	name  string
	err   error
}

// serverStartedMsg is the constructor for [MsgServerStarted]
func serverStartedMsg(address string, err error) Msg {
	return Msg{kind: MsgServerStarted, data: startResult{address, err}}
}

// serverStoppedMsg is the constructor for [MsgServerStopped]
func serverStoppedMsg() Msg {
	return Msg{kind: MsgServerStopped}
}

// uploadedMsg is the constructor for [MsgUploaded]
func uploadedMsg(index int, name string, err error) Msg {
	return Msg{kind: MsgUploaded, data: uploadResult{index, name, err}}
}

// copiedMsg is the constructor for [MsgCopied]
func copiedMsg(err error) Msg {
	return Msg{kind: MsgCopied, data: err}
}

// openedMsg is the constructor for [MsgOpened]
func openedMsg(err error) Msg {
	return Msg{kind: MsgOpened, data: err}
}

// tickMsg is the constructor for [MsgTick]
func tickMsg(t time.Time) Msg {
	return Msg{kind: MsgTick, data: t}
}
