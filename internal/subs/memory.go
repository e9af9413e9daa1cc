package subs

import (
	"slices"
	"sync"
)

// MemoryStore keeps subscriptions in process memory. It is the default
// store: state is rebuilt empty on every restart.
type MemoryStore struct {
	mu sync.Mutex

	// scope -> channel -> author -> subscribers. Levels are created on
	// first write and never removed; Clear leaves an empty set behind.
	scopes map[string]map[string]map[string][]string
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		scopes: make(map[string]map[string]map[string][]string),
	}
}

// Subscribe implements Store.
func (s *MemoryStore) Subscribe(scope, channel, author, user string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	channels, ok := s.scopes[scope]
	if !ok {
		channels = make(map[string]map[string][]string)
		s.scopes[scope] = channels
	}
	authors, ok := channels[channel]
	if !ok {
		authors = make(map[string][]string)
		channels[channel] = authors
	}

	if slices.Contains(authors[author], user) {
		return false, nil
	}
	authors[author] = append(authors[author], user)
	return true, nil
}

// Entries implements Store.
func (s *MemoryStore) Entries() ([]Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var entries []Entry
	for scope, channels := range s.scopes {
		for channel, authors := range channels {
			for author, users := range authors {
				if len(users) == 0 {
					continue
				}
				entries = append(entries, Entry{
					Scope:       scope,
					Channel:     channel,
					Author:      author,
					Subscribers: slices.Clone(users),
				})
			}
		}
	}
	return entries, nil
}

// Subscribers implements Store.
func (s *MemoryStore) Subscribers(scope, channel, author string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return slices.Clone(s.scopes[scope][channel][author]), nil
}

// Remove implements Store.
func (s *MemoryStore) Remove(scope, channel, author string, users []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	authors := s.scopes[scope][channel]
	if authors == nil {
		return nil
	}
	authors[author] = slices.DeleteFunc(authors[author], func(u string) bool {
		return slices.Contains(users, u)
	})
	return nil
}

// Clear implements Store.
func (s *MemoryStore) Clear(scope, channel, author string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if authors := s.scopes[scope][channel]; authors != nil {
		authors[author] = nil
	}
	return nil
}
