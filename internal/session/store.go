package session

import (
	"sync"
	"time"
)

const defaultTTL = 10 * time.Minute

type entry[T any] struct {
	value   T
	expires time.Time
}

// Store keeps the short-lived cross-step state of admin flows: the target
// chat an admin chat selected before its next command, and pending one-shot
// private messages keyed by recipient handle. Entries are consumed on read
// and evicted after the TTL.
type Store struct {
	mu       sync.Mutex
	ttl      time.Duration
	now      func() time.Time
	chats    map[int64]entry[int64]
	privates map[string]entry[string]
}

func NewStore(ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &Store{
		ttl:      ttl,
		now:      time.Now,
		chats:    make(map[int64]entry[int64]),
		privates: make(map[string]entry[string]),
	}
}

// SelectChat remembers the target chat for the admin chat's next command,
// replacing any previous selection.
func (s *Store) SelectChat(adminChatID, chatID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.chats[adminChatID] = entry[int64]{value: chatID, expires: s.now().Add(s.ttl)}
}

// ConsumeChat returns and removes the selected target chat. Expired
// selections count as absent.
func (s *Store) ConsumeChat(adminChatID int64) (int64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.chats[adminChatID]
	if !ok {
		return 0, false
	}
	delete(s.chats, adminChatID)
	if s.now().After(e.expires) {
		return 0, false
	}
	return e.value, true
}

// PutPrivate stores a pending one-shot private message for a handle.
func (s *Store) PutPrivate(username, text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.privates[username] = entry[string]{value: text, expires: s.now().Add(s.ttl)}
}

// ConsumePrivate delivers the pending message at most once.
func (s *Store) ConsumePrivate(username string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.privates[username]
	if !ok {
		return "", false
	}
	delete(s.privates, username)
	if s.now().After(e.expires) {
		return "", false
	}
	return e.value, true
}
