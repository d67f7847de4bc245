package tui

import (
	"github.com/cuckoo-ai/cuckoo/internal/agent"
	"github.com/cuckoo-ai/cuckoo/internal/learning"
)

// replyMsg carries the agent's answer to one submission.
type replyMsg struct {
	Reply agent.Reply
	Err   error
}

// progressMsg carries the learner's record after a turn. Record is nil
// before the first lecture.
type progressMsg struct {
	Record *learning.Record
	Err    error
}
