package notify

import "sync"

// Recorder is a Notifier that keeps every notification in memory.
type Recorder struct {
	mu    sync.Mutex
	items []Notification
}

func (r *Recorder) Info(title, description string)    { r.add(KindInfo, title, description) }
func (r *Recorder) Success(title, description string) { r.add(KindSuccess, title, description) }
func (r *Recorder) Warning(title, description string) { r.add(KindWarning, title, description) }
func (r *Recorder) Error(title, description string)   { r.add(KindError, title, description) }

func (r *Recorder) add(kind Kind, title, description string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append(r.items, Notification{Kind: kind, Title: title, Description: description})
}

// Items returns a copy of the recorded notifications.
func (r *Recorder) Items() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Notification(nil), r.items...)
}

// Titles returns the recorded titles in order.
func (r *Recorder) Titles() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.items))
	for i, n := range r.items {
		out[i] = n.Title
	}
	return out
}
