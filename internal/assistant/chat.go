package assistant

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"aidesk/internal/ai"
	"aidesk/internal/speech"
	"aidesk/internal/task"
)

const slotChat = "chat"

const chatSystemPrompt = "You are a helpful assistant. Answer clearly and concisely in the language the user writes in."

// EntryKind tags a transcript line.
type EntryKind int

const (
	EntryUser EntryKind = iota
	EntryAssistant
	EntrySystem
)

// Entry is one line of the chat transcript.
type Entry struct {
	Kind EntryKind
	Text string
}

// Chat keeps the conversation and sends new messages with the most
// recent turns as context.
type Chat struct {
	runner  *task.Runner
	gateway *ai.Gateway
	speaker *Speaker
	shell   Shell

	Input Field

	history    []ai.Turn
	transcript []Entry
	busy       bool
}

func NewChat(r *task.Runner, gw *ai.Gateway, sp *Speaker, sh Shell) *Chat {
	return &Chat{runner: r, gateway: gw, speaker: sp, shell: sh}
}

func (c *Chat) Busy() bool { return c.busy }

// Transcript returns the lines shown to the user, including system lines.
func (c *Chat) Transcript() []Entry { return append([]Entry(nil), c.transcript...) }

// History returns the stored conversation turns.
func (c *Chat) History() []ai.Turn { return append([]ai.Turn(nil), c.history...) }

type chatReply struct {
	text  string
	usage ai.TokenUsage
}

// Send submits the input as a new user turn. The request carries the
// last ai.HistoryWindow stored turns followed by the new one; history only
// grows once a reply arrives.
func (c *Chat) Send() error {
	msg := strings.TrimSpace(c.Input.Value())
	if msg == "" {
		return invalid(c.shell, "Enter a message")
	}
	if c.busy {
		return task.ErrBusy
	}

	snap := c.gateway.Snapshot()
	turns := append(ai.Window(c.history, ai.HistoryWindow), ai.Turn{Role: ai.RoleUser, Content: msg})
	work := func(ctx context.Context, _ *task.Progress) (chatReply, error) {
		text, usage, err := snap.Generate(ctx, chatSystemPrompt, turns)
		return chatReply{text: text, usage: usage}, err
	}
	_, err := task.Submit(c.runner, slotChat, work, func(o task.Outcome[chatReply]) {
		c.finish(msg, o)
	})
	if err != nil {
		return err
	}
	c.busy = true
	c.transcript = append(c.transcript, Entry{Kind: EntryUser, Text: msg})
	c.shell.SetStatus("Waiting for a reply...", LevelBusy)
	return nil
}

func (c *Chat) finish(msg string, o task.Outcome[chatReply]) {
	c.busy = false
	switch o.State {
	case task.Completed:
		c.history = append(c.history,
			ai.Turn{Role: ai.RoleUser, Content: msg},
			ai.Turn{Role: ai.RoleAssistant, Content: o.Value.text})
		c.transcript = append(c.transcript, Entry{Kind: EntryAssistant, Text: o.Value.text})
		c.Input.Set("")
		slog.Info("chat reply", "model", c.gateway.Model(), "turns", len(c.history), "usage", o.Value.usage)
		c.shell.SetStatus("Reply received", LevelSuccess)
	case task.Cancelled:
		c.transcript = append(c.transcript, Entry{Kind: EntrySystem, Text: "Request cancelled"})
		c.shell.SetStatus("Cancelled", LevelWarning)
	default:
		c.transcript = append(c.transcript, Entry{Kind: EntrySystem, Text: "Error: " + o.Err.Error()})
		c.shell.Notify(LevelError, "Error", fmt.Sprintf("Could not send message: %v", o.Err))
		c.shell.SetStatus("Chat failed", LevelError)
	}
}

// Cancel asks the pending request to stop. The reply, if it still
// arrives, is discarded.
func (c *Chat) Cancel() {
	c.runner.Active(slotChat).Cancel()
}

// ReadLast speaks the most recent assistant reply.
func (c *Chat) ReadLast() error {
	for i := len(c.history) - 1; i >= 0; i-- {
		if c.history[i].Role == ai.RoleAssistant {
			return c.speaker.SpeakText(speech.Speakable(c.history[i].Content))
		}
	}
	return invalid(c.shell, "There is no reply to read yet")
}

// Clear forgets the conversation.
func (c *Chat) Clear() {
	c.history = nil
	c.transcript = nil
	c.shell.SetStatus("Chat cleared", LevelInfo)
}
