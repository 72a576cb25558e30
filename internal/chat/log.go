// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import "time"

// Sender identifies who wrote a message.
type Sender int

const (
	User Sender = iota
	Assistant
)

// String returns "user" or "assistant".
func (s Sender) String() string {
	if s == Assistant {
		return "assistant"
	}
	return "user"
}

// Message is one entry in the visible log. Messages are never edited.
type Message struct {
	ID     int
	Sender Sender
	// Text is the raw, untrusted content.
	Text string
	// Markup is Text escaped for markup surfaces.
	Markup string
	// Failure marks an assistant message that reports an error.
	Failure bool
	At      time.Time
}

// Log is the append-only visible message list plus the typing indicator.
type Log struct {
	messages []Message
	typing   bool
	nextID   int
	onAppend []func(Message)
}

// NewLog creates an empty log.
func NewLog() *Log { return &Log{} }

// Append adds a message and returns it.
func (l *Log) Append(sender Sender, text string, at time.Time) Message {
	return l.append(Message{Sender: sender, Text: text, At: at})
}

func (l *Log) append(m Message) Message {
	l.nextID++
	m.ID = l.nextID
	m.Markup = EscapeHTML(m.Text)
	l.messages = append(l.messages, m)
	for _, fn := range l.onAppend {
		fn(m)
	}
	return m
}

// OnAppend registers fn to run after every append.
func (l *Log) OnAppend(fn func(Message)) {
	if fn != nil {
		l.onAppend = append(l.onAppend, fn)
	}
}

// Messages returns a copy of the log.
func (l *Log) Messages() []Message {
	out := make([]Message, len(l.messages))
	copy(out, l.messages)
	return out
}

// Len returns the number of messages.
func (l *Log) Len() int { return len(l.messages) }

// Last returns the newest message.
func (l *Log) Last() (Message, bool) {
	if len(l.messages) == 0 {
		return Message{}, false
	}
	return l.messages[len(l.messages)-1], true
}

// ShowTyping shows the indicator. It reports false if it was already shown.
func (l *Log) ShowTyping() bool {
	if l.typing {
		return false
	}
	l.typing = true
	return true
}

// RemoveTyping hides the indicator. Safe when it is not shown.
func (l *Log) RemoveTyping() { l.typing = false }

// Typing reports whether the indicator is shown.
func (l *Log) Typing() bool { return l.typing }

// TypingNodes returns how many typing indicators are shown: 0 or 1.
func (l *Log) TypingNodes() int {
	if l.typing {
		return 1
	}
	return 0
}
