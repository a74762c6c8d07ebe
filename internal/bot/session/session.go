package session

import (
	"context"
	"sync"
	"time"
)

type State string

const (
	StateBrowsingCategories    State = "browsing_categories"
	StateBrowsingItems         State = "browsing_items"
	StateReviewingSelection    State = "reviewing_selection"
	StateAwaitingContact       State = "awaiting_contact"
	StateConfirmed             State = "confirmed"
	StateAwaitingCustomRequest State = "awaiting_custom_request"
)

// Session per-user scratch state of the request workflow.
type Session struct {
	TelegramID int64 `json:"telegram_id"`
	State      State `json:"state"`
	CategoryID uint  `json:"category_id,omitempty"`
	// ItemIndex is 1-based, zero when nothing is selected.
	ItemIndex    int       `json:"item_index,omitempty"`
	TrackingCode string    `json:"tracking_code,omitempty"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func New(telegramID int64) *Session {
	return &Session{TelegramID: telegramID, State: StateBrowsingCategories}
}

// Reset returns the session to the category list, dropping any selection.
func (s *Session) Reset() {
	s.State = StateBrowsingCategories
	s.CategoryID = 0
	s.ItemIndex = 0
}

// Expects reports whether free text is an answer to a prompt.
func (s *Session) Expects() bool {
	return s.State == StateAwaitingContact || s.State == StateAwaitingCustomRequest
}

type Store interface {
	// Load never returns nil: missing sessions start fresh.
	Load(ctx context.Context, telegramID int64) (*Session, error)
	Save(ctx context.Context, s *Session) error
	Delete(ctx context.Context, telegramID int64) error
}

// MemoryStore keeps sessions in process; used when Redis is not configured.
type MemoryStore struct {
	mu       sync.Mutex
	ttl      time.Duration
	sessions map[int64]Session
	now      func() time.Time
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{ttl: ttl, sessions: make(map[int64]Session), now: time.Now}
}

func (m *MemoryStore) Load(_ context.Context, telegramID int64) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[telegramID]
	if !ok {
		return New(telegramID), nil
	}
	if m.ttl > 0 && m.now().Sub(s.UpdatedAt) > m.ttl {
		delete(m.sessions, telegramID)
		return New(telegramID), nil
	}
	return &s, nil
}

func (m *MemoryStore) Save(_ context.Context, s *Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	s.UpdatedAt = m.now()
	m.sessions[s.TelegramID] = *s
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, telegramID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, telegramID)
	return nil
}
