// Package tui is a terminal chat client for the lecture agent.
package tui

import (
	"context"
	"fmt"

	tea "charm.land/bubbletea/v2"

	"github.com/cuckoo-ai/cuckoo/internal/agent"
	"github.com/cuckoo-ai/cuckoo/internal/conversation"
	"github.com/cuckoo-ai/cuckoo/internal/learning"
	"github.com/cuckoo-ai/cuckoo/internal/ui/components"
	"github.com/cuckoo-ai/cuckoo/internal/ui/layout"
)

// Handler is the message pipeline the chat talks to.
type Handler interface {
	Handle(ctx context.Context, msg conversation.Message) (agent.Reply, error)
}

type speaker int

const (
	speakerLearner speaker = iota
	speakerTutor
	speakerSystem
)

type entry struct {
	from speaker
	text string
}

// Session identifies who is chatting about what.
type Session struct {
	UserID      string
	RoomID      string
	CourseID    string
	CourseTitle string
}

// Model is the root Bubble Tea model of the chat.
type Model struct {
	ctx     context.Context
	agent   Handler
	records learning.Store
	session Session

	transcript []entry
	input      components.TextInput
	pending    bool
	progress   int
	completed  bool

	width  int
	height int
}

// New returns a chat model. records may be nil, in which case the status
// line shows no progress.
func New(ctx context.Context, h Handler, records learning.Store, s Session) Model {
	return Model{
		ctx:     ctx,
		agent:   h,
		records: records,
		session: s,
		input:   components.NewTextInput("输入消息,回车发送", 500),
		transcript: []entry{{
			from: speakerSystem,
			text: fmt.Sprintf("课程 %s。发送任意消息开始学习。", s.label()),
		}},
	}
}

func (s Session) label() string {
	if s.CourseTitle != "" {
		return s.CourseTitle
	}
	return s.CourseID
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.input.Init(), m.loadProgress())
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit
		case "enter":
			return m.submit()
		}

	case replyMsg:
		return m.handleReply(msg)

	case progressMsg:
		if msg.Err == nil && msg.Record != nil {
			m.progress = msg.Record.Progress
			m.completed = msg.Record.Status == learning.StatusCompleted
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// submit sends the prompt text to the agent. Submissions are ignored while
// a reply is outstanding.
func (m Model) submit() (tea.Model, tea.Cmd) {
	text := m.input.Value()
	if text == "" || m.pending {
		return m, nil
	}
	m.input.Clear()
	m.pending = true
	m.transcript = append(m.transcript, entry{from: speakerLearner, text: text})

	msg := conversation.Message{
		UserID: m.session.UserID,
		RoomID: m.session.RoomID,
		Content: conversation.Content{
			Text:     text,
			CourseID: m.session.CourseID,
		},
	}
	ctx, h := m.ctx, m.agent
	return m, func() tea.Msg {
		reply, err := h.Handle(ctx, msg)
		return replyMsg{Reply: reply, Err: err}
	}
}

func (m Model) handleReply(msg replyMsg) (tea.Model, tea.Cmd) {
	m.pending = false
	switch {
	case msg.Err != nil:
		m.transcript = append(m.transcript, entry{from: speakerSystem, text: "出错了: " + msg.Err.Error()})
		return m, nil
	case msg.Reply.Status == agent.StatusNotFound:
		m.transcript = append(m.transcript, entry{from: speakerSystem, text: fmt.Sprintf("找不到课程 %s。", m.session.CourseID)})
		return m, nil
	case msg.Reply.Status == agent.StatusIneligible:
		m.transcript = append(m.transcript, entry{from: speakerSystem, text: "这门课程已经完成了。"})
		return m, nil
	}
	m.transcript = append(m.transcript, entry{from: speakerTutor, text: msg.Reply.Response.Text})
	return m, m.loadProgress()
}

func (m Model) loadProgress() tea.Cmd {
	if m.records == nil {
		return nil
	}
	ctx, records, s := m.ctx, m.records, m.session
	return func() tea.Msg {
		rec, err := learning.Find(ctx, records, s.UserID, s.CourseID)
		return progressMsg{Record: rec, Err: err}
	}
}

func (m Model) keyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "发送"},
		{Key: "Esc", Description: "退出"},
	}
}

// Run starts the chat program and blocks until the user quits.
func Run(ctx context.Context, h Handler, records learning.Store, s Session) error {
	p := tea.NewProgram(New(ctx, h, records, s))
	_, err := p.Run()
	return err
}
