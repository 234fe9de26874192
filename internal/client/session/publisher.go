package session

import "sync"

const subscriberBuffer = 8

// publisher fans state changes out to subscribers. A subscriber that falls
// behind loses its oldest undelivered events, never the newest.
type publisher struct {
	mu   sync.Mutex
	next int
	subs map[int]chan Event
}

func (p *publisher) subscribe(initial Event) (<-chan Event, func()) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.subs == nil {
		p.subs = make(map[int]chan Event)
	}
	id := p.next
	p.next++
	ch := make(chan Event, subscriberBuffer)
	ch <- initial
	p.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			p.mu.Lock()
			defer p.mu.Unlock()
			delete(p.subs, id)
			close(ch)
		})
	}
}

func (p *publisher) publish(ev Event) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for _, ch := range p.subs {
		select {
		case ch <- ev:
			continue
		default:
		}
		select {
		case <-ch:
		default:
		}
		// Only publish sends, and it holds p.mu, so there is room now.
		ch <- ev
	}
}
