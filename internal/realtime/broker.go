// Package realtime carries row-change notifications from the store to
// whoever renders views. Events only name the table and the kind of change;
// subscribers re-read everything they display.
package realtime

import (
	"log"
	"sync"
)

const (
	TableBins     = "bins"
	TablePickups  = "pickups"
	TableProfiles = "profiles"
)

// Event announces that a row in Table changed. Op is INSERT, UPDATE or DELETE.
type Event struct {
	Table string `json:"table"`
	Op    string `json:"op"`
}

// subscriptionBuffer bounds the events queued for one subscriber. A full
// buffer already guarantees a pending refresh, so further events are dropped.
const subscriptionBuffer = 16

// Broker fans events out to subscriptions keyed by table.
type Broker struct {
	mu   sync.RWMutex
	subs map[*Subscription]struct{}
}

// Subscription receives events for the tables it watches on C until Close.
type Subscription struct {
	C <-chan Event

	c      chan Event
	tables map[string]bool
	broker *Broker
	once   sync.Once
}

func NewBroker() *Broker {
	return &Broker{subs: make(map[*Subscription]struct{})}
}

// Subscribe registers interest in the given tables.
func (b *Broker) Subscribe(tables ...string) *Subscription {
	c := make(chan Event, subscriptionBuffer)
	s := &Subscription{
		C:      c,
		c:      c,
		tables: make(map[string]bool, len(tables)),
		broker: b,
	}
	for _, t := range tables {
		s.tables[t] = true
	}

	b.mu.Lock()
	b.subs[s] = struct{}{}
	b.mu.Unlock()
	return s
}

// Publish delivers ev to every subscription watching ev.Table. It never blocks.
func (b *Broker) Publish(ev Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for s := range b.subs {
		if !s.tables[ev.Table] {
			continue
		}
		select {
		case s.c <- ev:
		default:
			log.Printf("⚠️  Subscriber buffer full, dropping %s %s event", ev.Table, ev.Op)
		}
	}
}

// SubscriberCount returns the number of open subscriptions.
func (b *Broker) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}

// Close removes the subscription and closes C. Safe to call more than once.
func (s *Subscription) Close() {
	s.once.Do(func() {
		s.broker.mu.Lock()
		delete(s.broker.subs, s)
		close(s.c)
		s.broker.mu.Unlock()
	})
}
