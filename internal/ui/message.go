package ui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// MsgKind enumerates all message types handled by the progress model.
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
	MsgBarAdded MsgKind = iota
	MsgBarProgress
	MsgBarFinished
	MsgLogLine
	MsgStop
)

type barData struct {
	id    int
	label string
	pos   int
}

// barAddedMsg is the constructor for [MsgBarAdded]
func barAddedMsg(id int, label string) Msg {
	return Msg{kind: MsgBarAdded, data: barData{id: id, label: label}}
}

// barProgressMsg is the constructor for [MsgBarProgress]
func barProgressMsg(id, pos int) Msg {
	return Msg{kind: MsgBarProgress, data: barData{id: id, pos: pos}}
}

// barFinishedMsg is the constructor for [MsgBarFinished]; label carries the finish message.
func barFinishedMsg(id int, msg string) Msg {
	return Msg{kind: MsgBarFinished, data: barData{id: id, label: msg}}
}

// logLineMsg is the constructor for [MsgLogLine]
func logLineMsg(line string) Msg {
	return Msg{kind: MsgLogLine, data: line}
}

// stopMsg is the constructor for [MsgStop]
func stopMsg() Msg {
	return Msg{kind: MsgStop}
}
