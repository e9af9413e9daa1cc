// Package bot wires the scanner, resolver, citation formatter and
// subscription store into the message pipeline and background loops.
package bot

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/arxiver/arxiver/internal/arxiv"
	"github.com/arxiver/arxiver/internal/cite"
	"github.com/arxiver/arxiver/internal/scan"
	"github.com/arxiver/arxiver/internal/subs"
)

const (
	// abstractLimit is how much of an abstract a summary reply shows.
	abstractLimit = 150

	// helpTrigger invokes the static usage text.
	helpTrigger = "!00arxiver"
)

const helpText = "**arxiver help**\n\n" +
	"Reference arXiv papers in square brackets and I will reply with a summary:\n" +
	"`[2301.01234]` or `[hep-th/9901001]`\n" +
	"`[bib:2301.01234]` replies with a BibTeX citation instead.\n" +
	"`[au:Author Name]` subscribes you to a daily alert for that author's new papers."

// Service is the core bot. It handles incoming messages and runs the
// subscription notifier and liveness pulse.
type Service struct {
	chat   Chat
	papers PaperSource
	store  subs.Store
	logger *slog.Logger
}

// NewService creates the bot service.
func NewService(chat Chat, papers PaperSource, store subs.Store, logger *slog.Logger) *Service {
	return &Service{
		chat:   chat,
		papers: papers,
		store:  store,
		logger: logger,
	}
}

// HandleMessage processes one incoming message: help trigger, paper
// summaries, citations, then subscription requests. Items are handled
// sequentially so replies land in a readable order, and a failure on one
// item never stops the rest.
func (s *Service) HandleMessage(ctx context.Context, msg *IncomingMessage) {
	if msg.AuthorIsBot {
		return
	}

	if strings.TrimSpace(msg.Content) == helpTrigger {
		s.send(ctx, msg.ChannelID, helpText)
		return
	}

	found := scan.Scan(msg.Content)
	if found.Empty() {
		return
	}

	for _, id := range found.IDs {
		s.postSummary(ctx, msg.ChannelID, id)
	}
	for _, id := range found.CitationIDs {
		s.postCitation(ctx, msg.ChannelID, id)
	}
	for _, author := range found.Authors {
		s.handleSubscription(ctx, msg, author)
	}
}

// IncomingMessage is the slice of a chat message the pipeline needs.
type IncomingMessage struct {
	ChannelID   string
	GuildID     string // empty for private conversations
	Content     string
	AuthorID    string
	AuthorIsBot bool
}

// ScopeKey is the subscription scope for this message: the guild, or the
// private-conversation sentinel.
func (m *IncomingMessage) ScopeKey() string {
	if m.GuildID == "" {
		return subs.DMScope
	}
	return m.GuildID
}

// postSummary resolves one identifier and posts a summary. Unresolved
// identifiers are skipped silently; the failure only shows up in the log.
func (s *Service) postSummary(ctx context.Context, channelID, id string) {
	if err := s.chat.TriggerTyping(ctx, channelID); err != nil {
		s.logger.Debug("typing indicator failed", "channel", channelID, "error", err)
	}

	paper, err := s.papers.FetchPaper(ctx, id)
	if err != nil {
		s.logger.Error("failed to resolve identifier", "id", id, "error", err)
		return
	}

	var b strings.Builder
	fmt.Fprintf(&b, "**%s** | Authors: %s\n", paper.Title, paper.AuthorsJoined())
	fmt.Fprintf(&b, "Link: %s | PDF: %s\n", arxiv.AbsURL(id), arxiv.PDFURL(id))
	fmt.Fprintf(&b, "Abs: %s", truncate(paper.Abstract, abstractLimit))

	s.send(ctx, channelID, b.String())
}

// postCitation resolves one identifier and posts a BibTeX block, or an
// explicit failure message naming the identifier. Resolution is not shared
// with postSummary: the same id in both roles is fetched twice.
func (s *Service) postCitation(ctx context.Context, channelID, id string) {
	paper, err := s.papers.FetchPaper(ctx, id)
	if err != nil {
		s.logger.Error("failed to resolve citation", "id", id, "error", err)
		s.send(ctx, channelID, cite.Unavailable(id))
		return
	}
	s.send(ctx, channelID, cite.Format(id, paper))
}

// handleSubscription records an author subscription for the message author.
// A confirmation is posted only when the subscription is new.
func (s *Service) handleSubscription(ctx context.Context, msg *IncomingMessage, author string) {
	added, err := s.store.Subscribe(msg.ScopeKey(), msg.ChannelID, author, msg.AuthorID)
	if err != nil {
		s.logger.Error("failed to record subscription", "author", author, "error", err)
		return
	}
	if !added {
		return
	}

	confirmation := fmt.Sprintf("<@%s> subscribed to new arXiv papers by %s.", msg.AuthorID, author)
	s.send(ctx, msg.ChannelID, confirmation)
}

func (s *Service) send(ctx context.Context, channelID, content string) {
	if err := s.chat.SendMessage(ctx, channelID, content); err != nil {
		s.logger.Error("failed to send message", "channel", channelID, "error", err)
	}
}

// truncate returns the first n characters of s, appending "..." if
// truncated. Counts runes, not bytes, so a multibyte character is never
// split at the boundary.
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n]) + "..."
}
