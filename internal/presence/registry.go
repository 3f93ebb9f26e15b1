package presence

import (
	"sync"

	"servimarket/internal/metrics"
)

// Registry tracks which users currently hold live connections. It owns no
// persisted state; buckets live for the process lifetime only.
type Registry struct {
	mu      sync.RWMutex
	buckets map[int]map[*Client]struct{}
	total   int
}

func NewRegistry() *Registry {
	return &Registry{
		buckets: make(map[int]map[*Client]struct{}),
	}
}

// Register creates and tracks a new connection handle for userID.
func (r *Registry) Register(userID int) *Client {
	client := newClient(userID)

	r.mu.Lock()
	bucket, ok := r.buckets[userID]
	if !ok {
		bucket = make(map[*Client]struct{})
		r.buckets[userID] = bucket
	}
	bucket[client] = struct{}{}
	r.total++
	metrics.PresenceConnections.Set(float64(r.total))
	r.mu.Unlock()

	return client
}

// Unregister removes the handle and deletes the bucket when it empties.
func (r *Registry) Unregister(client *Client) {
	r.mu.Lock()
	if bucket, ok := r.buckets[client.UserID]; ok {
		if _, tracked := bucket[client]; tracked {
			delete(bucket, client)
			r.total--
			if len(bucket) == 0 {
				delete(r.buckets, client.UserID)
			}
		}
	}
	metrics.PresenceConnections.Set(float64(r.total))
	r.mu.Unlock()

	client.close()
}

// Snapshot returns a copy of the user's live handles. Emission iterates the
// copy outside the lock so network I/O never happens while it is held.
func (r *Registry) Snapshot(userID int) []*Client {
	r.mu.RLock()
	defer r.mu.RUnlock()

	bucket, ok := r.buckets[userID]
	if !ok {
		return nil
	}

	clients := make([]*Client, 0, len(bucket))
	for client := range bucket {
		clients = append(clients, client)
	}
	return clients
}

// IsOnline reports whether the user has at least one live connection.
func (r *Registry) IsOnline(userID int) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.buckets[userID]) > 0
}

// Emit pushes an event to every live handle of userID, fire-and-forget.
// Returns the number of handles that accepted the event.
func (r *Registry) Emit(userID int, event string, data any) int {
	delivered := 0
	for _, client := range r.Snapshot(userID) {
		if client.Offer(Event{Name: event, Data: data}) {
			delivered++
		}
	}
	return delivered
}
