// Package subs tracks which users want alerts about an author's new papers.
//
// Subscriptions are keyed by conversation scope (a guild, or the DMScope
// sentinel for private conversations), then channel, then author name.
package subs

// DMScope is the scope key for private conversations that have no guild.
const DMScope = "dm"

// Entry is one author with its subscribers as captured at snapshot time.
type Entry struct {
	Scope       string
	Channel     string
	Author      string
	Subscribers []string
}

// Store is the single access point for subscription state.
//
// The notifier iterates a snapshot from Entries while message handlers may
// call Subscribe concurrently; implementations must keep both safe. Clear
// replaces an author's subscriber set with empty atomically.
type Store interface {
	// Subscribe adds user to the author's subscriber set, creating missing
	// levels lazily. It returns true if the user was newly added and false
	// if they were already subscribed.
	Subscribe(scope, channel, author, user string) (bool, error)

	// Entries returns a snapshot of every author that currently has at
	// least one subscriber. Returned slices are copies.
	Entries() ([]Entry, error)

	// Subscribers returns the author's current subscriber set.
	Subscribers(scope, channel, author string) ([]string, error)

	// Remove deletes the given users from the author's subscriber set,
	// leaving any other subscribers in place. The notifier uses this to
	// clear exactly the users it mentioned in an alert.
	Remove(scope, channel, author string, users []string) error

	// Clear empties the author's subscriber set.
	Clear(scope, channel, author string) error
}
