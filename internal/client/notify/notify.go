// Package notify delivers short user-facing notifications without blocking
// the caller. Notifications are queued and written by a single goroutine.
package notify

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
)

type Kind int

const (
	KindInfo Kind = iota
	KindSuccess
	KindWarning
	KindError
)

func (k Kind) String() string {
	switch k {
	case KindSuccess:
		return "success"
	case KindWarning:
		return "warning"
	case KindError:
		return "error"
	default:
		return "info"
	}
}

type Notification struct {
	Kind        Kind
	Title       string
	Description string
	At          time.Time
}

// Notifier is what components use to tell the user something. Calls never
// block.
type Notifier interface {
	Info(title, description string)
	Success(title, description string)
	Warning(title, description string)
	Error(title, description string)
}

const DefaultQueueSize = 16

// Queue is a Notifier backed by a bounded queue. When the queue is full the
// oldest pending notification is dropped.
type Queue struct {
	mu     sync.Mutex
	ch     chan Notification
	out    io.Writer
	now    func() time.Time
	render func(Notification) string
}

func NewQueue(out io.Writer, size int) *Queue {
	if size <= 0 {
		size = DefaultQueueSize
	}
	return &Queue{
		ch:     make(chan Notification, size),
		out:    out,
		now:    time.Now,
		render: Render,
	}
}

func (q *Queue) Info(title, description string)    { q.push(KindInfo, title, description) }
func (q *Queue) Success(title, description string) { q.push(KindSuccess, title, description) }
func (q *Queue) Warning(title, description string) { q.push(KindWarning, title, description) }
func (q *Queue) Error(title, description string)   { q.push(KindError, title, description) }

func (q *Queue) push(kind Kind, title, description string) {
	n := Notification{Kind: kind, Title: title, Description: description, At: q.now()}

	q.mu.Lock()
	defer q.mu.Unlock()
	for {
		select {
		case q.ch <- n:
			return
		default:
		}
		select {
		case <-q.ch:
		default:
		}
	}
}

// Run writes queued notifications until ctx is done, then drains what is
// left.
func (q *Queue) Run(ctx context.Context) {
	for {
		select {
		case n := <-q.ch:
			q.write(n)
		case <-ctx.Done():
			q.Drain()
			return
		}
	}
}

// Drain writes every pending notification and returns.
func (q *Queue) Drain() {
	for {
		select {
		case n := <-q.ch:
			q.write(n)
		default:
			return
		}
	}
}

func (q *Queue) write(n Notification) {
	_, _ = fmt.Fprintln(q.out, q.render(n))
}

var (
	titleStyle = lipgloss.NewStyle().Bold(true)
	descStyle  = lipgloss.NewStyle().Faint(true)

	kindColors = map[Kind]lipgloss.Color{
		KindInfo:    lipgloss.Color("39"),
		KindSuccess: lipgloss.Color("42"),
		KindWarning: lipgloss.Color("214"),
		KindError:   lipgloss.Color("203"),
	}
	kindIcons = map[Kind]string{
		KindInfo:    "i",
		KindSuccess: "+",
		KindWarning: "!",
		KindError:   "x",
	}
)

// Render formats a notification as a single bordered block.
func Render(n Notification) string {
	color := kindColors[n.Kind]
	head := lipgloss.NewStyle().Foreground(color).Render("["+kindIcons[n.Kind]+"]") + " " + titleStyle.Render(n.Title)

	body := head
	if n.Description != "" {
		body = lipgloss.JoinVertical(lipgloss.Left, head, descStyle.Render(n.Description))
	}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(color).
		Padding(0, 1).
		Render(body)
}

// Discard is a Notifier that drops everything.
type Discard struct{}

func (Discard) Info(string, string)    {}
func (Discard) Success(string, string) {}
func (Discard) Warning(string, string) {}
func (Discard) Error(string, string)   {}
