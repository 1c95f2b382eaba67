// Package notify delivers transient visitor messages ("toasts") and pushes
// storefront updates to websocket clients.
package notify

import (
	"time"

	"go.uber.org/zap"
)

// Level is the tone of a message.
type Level string

const (
	Info    Level = "info"
	Success Level = "success"
	Warning Level = "warning"
)

// Message is one toast.
type Message struct {
	Level Level     `json:"level"`
	Text  string    `json:"text"`
	At    time.Time `json:"at"`
}

// Notifier delivers messages. Delivery is fire-and-forget: implementations
// never report failure to the caller.
type Notifier interface {
	Notify(level Level, text string)
}

// LogNotifier writes messages to a zap logger.
type LogNotifier struct {
	Logger *zap.Logger
}

func (n LogNotifier) Notify(level Level, text string) {
	if n.Logger == nil {
		return
	}
	fields := []zap.Field{zap.String("level", string(level)), zap.String("text", text)}
	if level == Warning {
		n.Logger.Warn("notification", fields...)
		return
	}
	n.Logger.Info("notification", fields...)
}

// Multi fans a message out to several notifiers.
type Multi []Notifier

func (m Multi) Notify(level Level, text string) {
	for _, n := range m {
		if n != nil {
			n.Notify(level, text)
		}
	}
}

// Recorder keeps every message in memory.
type Recorder struct {
	Messages []Message
}

func (r *Recorder) Notify(level Level, text string) {
	r.Messages = append(r.Messages, Message{Level: level, Text: text, At: time.Now()})
}

// Last returns the most recent message, if any.
func (r *Recorder) Last() (Message, bool) {
	if len(r.Messages) == 0 {
		return Message{}, false
	}
	return r.Messages[len(r.Messages)-1], true
}
