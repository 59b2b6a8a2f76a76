package devserver

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/contactdesk/contactdesk/internal/textutil"
)

// Record is a stored contact submission in the service's wire format.
type Record struct {
	ID        string    `json:"_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
}

// MemoryStore keeps submissions in memory, newest first.
type MemoryStore struct {
	mu      sync.RWMutex
	records []Record
	now     func() time.Time
}

// NewMemoryStore creates a store holding records in the given order.
func NewMemoryStore(records ...Record) *MemoryStore {
	return &MemoryStore{
		records: append([]Record(nil), records...),
		now:     time.Now,
	}
}

// List returns a copy of all records.
func (s *MemoryStore) List() []Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Record(nil), s.records...)
}

// Len returns the number of stored records.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// Delete removes the record with id. It reports whether one was removed.
func (s *MemoryStore) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, r := range s.records {
		if r.ID == id {
			s.records = append(s.records[:i:i], s.records[i+1:]...)
			return true
		}
	}
	return false
}

// Add stores a new submission at the front of the list and returns it with
// its assigned id and timestamp.
func (s *MemoryStore) Add(name, email, message string) (Record, error) {
	id, err := newObjectID()
	if err != nil {
		return Record{}, err
	}
	r := Record{
		ID:        id,
		Name:      name,
		Email:     email,
		Message:   message,
		CreatedAt: s.now().UTC(),
	}

	s.mu.Lock()
	s.records = append([]Record{r}, s.records...)
	s.mu.Unlock()
	return r, nil
}

// newObjectID returns a 24 hex character id, the shape the production
// service uses.
func newObjectID() (string, error) {
	var b [12]byte
	if _, err := rand.Read(b[:]); err != nil {
		return "", fmt.Errorf("generate id: %w", err)
	}
	return hex.EncodeToString(b[:]), nil
}

// LoadSeed reads records from a JSON file containing either an array of
// records or a list response envelope ({"messages": [...]}). Files exported
// in a legacy encoding are converted to UTF-8 first.
func LoadSeed(path string) ([]Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed: %w", err)
	}
	data = textutil.EnsureUTF8(data)

	var records []Record
	if err := json.Unmarshal(data, &records); err == nil {
		return records, validateSeed(records)
	}

	var envelope struct {
		Messages []Record `json:"messages"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, fmt.Errorf("decode seed %s: %w", path, err)
	}
	return envelope.Messages, validateSeed(envelope.Messages)
}

func validateSeed(records []Record) error {
	seen := make(map[string]bool, len(records))
	for i, r := range records {
		if r.ID == "" {
			return fmt.Errorf("seed record %d has no _id", i)
		}
		if seen[r.ID] {
			return fmt.Errorf("seed record %d: duplicate _id %q", i, r.ID)
		}
		seen[r.ID] = true
	}
	return nil
}

// DemoRecords returns a small fixed set of submissions for local use.
func DemoRecords(now time.Time) []Record {
	return []Record{
		{
			ID:        "6650a1f0c3b2a1d4e5f60001",
			Name:      "Priya Raman",
			Email:     "priya@example.com",
			Message:   "Hi! Loved the portfolio.\n\nAre you available for a short contract in June?",
			CreatedAt: now.Add(-2 * time.Hour).UTC(),
		},
		{
			ID:        "6650a1f0c3b2a1d4e5f60002",
			Name:      "Marcus Lee",
			Email:     "marcus.lee@example.org",
			Message:   "The contact form on mobile cuts off the submit button.",
			CreatedAt: now.Add(-26 * time.Hour).UTC(),
		},
		{
			ID:        "6650a1f0c3b2a1d4e5f60003",
			Name:      "Ana Souza",
			Email:     "ana@example.net",
			Message:   "Quick question about the open source project:\n  - license?\n  - roadmap?",
			CreatedAt: now.Add(-72 * time.Hour).UTC(),
		},
	}
}
