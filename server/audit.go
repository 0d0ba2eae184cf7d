package server

import (
	"strconv"
	"sync"
	"time"

	"github.com/ts2/transitcore/simulation"
)

// AuditEntry represents a single audit log item sent to FE
type AuditEntry struct {
	ID        string                 `json:"id"`
	Timestamp string                 `json:"timestamp"`
	Event     string                 `json:"event"`
	Category  string                 `json:"category"`
	Severity  string                 `json:"severity"`
	Object    map[string]interface{} `json:"object"`
	Details   map[string]interface{} `json:"details"`
}

type auditState struct {
	mu          sync.RWMutex
	entries     []AuditEntry
	capacity    int
	nextID      int64
	subscribers map[chan AuditEntry]bool
}

var audits = &auditState{}

func init() {
	// default capacity for audit ring buffer
	audits.capacity = 1000
	audits.entries = make([]AuditEntry, 0, audits.capacity)
	audits.subscribers = make(map[chan AuditEntry]bool)
}

func (a *auditState) append(entry AuditEntry) {
	a.mu.Lock()
	defer a.mu.Unlock()
	// assign ID and timestamp if missing
	a.nextID++
	entry.ID = strconv.FormatInt(a.nextID, 10)
	if entry.Timestamp == "" {
		entry.Timestamp = time.Now().UTC().Format(time.RFC3339)
	}
	if len(a.entries) == a.capacity {
		// drop the oldest (ring buffer behavior)
		copy(a.entries[0:], a.entries[1:])
		a.entries[len(a.entries)-1] = entry
	} else {
		a.entries = append(a.entries, entry)
	}
	// broadcast non-blocking to subscribers
	for ch := range a.subscribers {
		select {
		case ch <- entry:
		default:
			// drop if subscriber is slow
		}
	}
}

func (a *auditState) subscribe() chan AuditEntry {
	ch := make(chan AuditEntry, 256)
	a.mu.Lock()
	a.subscribers[ch] = true
	a.mu.Unlock()
	return ch
}

func (a *auditState) unsubscribe(ch chan AuditEntry) {
	a.mu.Lock()
	delete(a.subscribers, ch)
	a.mu.Unlock()
	close(ch)
}

// getSince returns up to limit entries with ID strictly greater than sinceID
func (a *auditState) getSince(sinceID int64, limit int) []AuditEntry {
	a.mu.RLock()
	defer a.mu.RUnlock()
	out := make([]AuditEntry, 0, limit)
	for i := 0; i < len(a.entries); i++ {
		id, _ := strconv.ParseInt(a.entries[i].ID, 10, 64)
		if id > sinceID {
			out = append(out, a.entries[i])
			if len(out) >= limit {
				break
			}
		}
	}
	return out
}

// recordPassengerExit appends an audit entry for a passenger who just
// reached their destination.
func recordPassengerExit(exit simulation.PassengerExit) {
	audits.append(AuditEntry{
		Event:    "PASSENGER_EXITED",
		Category: "passenger",
		Severity: "INFO",
		Object:   map[string]interface{}{"passenger": exit.Passenger},
		Details:  map[string]interface{}{"timeOfExit": int(exit.TimeOfExit)},
	})
}

// recordStrandedPassenger appends an audit entry for a passenger the
// router found no journey for.
func recordStrandedPassenger(name string) {
	audits.append(AuditEntry{
		Event:    "PASSENGER_STRANDED",
		Category: "passenger",
		Severity: "WARN",
		Object:   map[string]interface{}{"passenger": name},
		Details:  map[string]interface{}{},
	})
}

// recordSimulationControl appends an audit entry for a hub-dispatched
// start/pause/restart action.
func recordSimulationControl(action string) {
	audits.append(AuditEntry{
		Event:    "SIMULATION_" + action,
		Category: "simulation",
		Severity: "INFO",
		Object:   map[string]interface{}{},
		Details:  map[string]interface{}{},
	})
}


