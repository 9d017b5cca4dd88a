package realtime

import (
	"context"
	"fmt"
	"log"
	"time"

	json "github.com/goccy/go-json"
	"github.com/lib/pq"
)

// NotifyChannel is the Postgres channel the table triggers publish on.
const NotifyChannel = "table_changes"

// PGListener forwards Postgres NOTIFY payloads from the change triggers to a
// Broker, so changes made by any process reach every open page.
type PGListener struct {
	dbURL  string
	broker *Broker
}

func NewPGListener(dbURL string, broker *Broker) *PGListener {
	return &PGListener{dbURL: dbURL, broker: broker}
}

// Run listens until ctx is cancelled.
func (l *PGListener) Run(ctx context.Context) error {
	listener := pq.NewListener(l.dbURL, 10*time.Second, time.Minute, func(ev pq.ListenerEventType, err error) {
		if err != nil {
			log.Printf("⚠️  Change listener event %d: %v", ev, err)
		}
	})
	defer listener.Close()

	if err := listener.Listen(NotifyChannel); err != nil {
		return fmt.Errorf("failed to listen on %s: %w", NotifyChannel, err)
	}
	log.Printf("✅ Listening for row changes on channel %q", NotifyChannel)

	for {
		select {
		case <-ctx.Done():
			return nil

		case n := <-listener.Notify:
			if n == nil {
				// Connection was re-established; anything may have changed meanwhile.
				log.Println("🔄 Change listener reconnected, refreshing all views")
				for _, table := range []string{TableBins, TablePickups, TableProfiles} {
					l.broker.Publish(Event{Table: table, Op: "RESYNC"})
				}
				continue
			}
			ev, err := ParsePayload(n.Extra)
			if err != nil {
				log.Printf("❌ Ignoring malformed change payload %q: %v", n.Extra, err)
				continue
			}
			l.broker.Publish(ev)

		case <-time.After(90 * time.Second):
			go listener.Ping()
		}
	}
}

// ParsePayload decodes the JSON payload written by the notify trigger.
func ParsePayload(payload string) (Event, error) {
	var ev Event
	if err := json.Unmarshal([]byte(payload), &ev); err != nil {
		return Event{}, err
	}
	if ev.Table == "" {
		return Event{}, fmt.Errorf("payload has no table")
	}
	return ev, nil
}
