package bot

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/arxiver/arxiver/internal/arxiv"
	"github.com/arxiver/arxiver/internal/subs"
)

// StartNotifier runs the subscription alert loop. It waits until the gateway
// signals ready, then sleeps for interval before each scan. It returns when
// the context is cancelled or the gateway reports closed.
func (s *Service) StartNotifier(ctx context.Context, ready, closed <-chan struct{}, interval time.Duration) {
	select {
	case <-ctx.Done():
		return
	case <-closed:
		return
	case <-ready:
	}
	s.logger.Info("notifier started", "interval", interval)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-closed:
			s.logger.Info("gateway closed, stopping notifier")
			return
		case <-ticker.C:
			s.runScan(ctx)
		}
	}
}

// runScan visits every subscribed author once. The triple set is snapshotted
// up front so subscriptions arriving mid-scan don't disturb the traversal.
func (s *Service) runScan(ctx context.Context) {
	entries, err := s.store.Entries()
	if err != nil {
		s.logger.Error("failed to snapshot subscriptions", "error", err)
		return
	}
	s.logger.Info("subscription scan started", "authors", len(entries))

	for _, entry := range entries {
		s.notifyAuthor(ctx, entry)
	}
}

// notifyAuthor searches one author and, on new papers, alerts the current
// subscribers and removes exactly those users. Errors are logged and confined
// to this author; the scan moves on.
func (s *Service) notifyAuthor(ctx context.Context, entry subs.Entry) {
	results, err := s.papers.SearchAuthor(ctx, entry.Author)
	if err != nil {
		s.logger.Error("author search failed", "author", entry.Author, "error", err)
		return
	}
	if len(results) == 0 {
		return
	}

	// Re-read the set: the snapshot may be stale, and mentioning should
	// reflect whoever is subscribed right now.
	current, err := s.store.Subscribers(entry.Scope, entry.Channel, entry.Author)
	if err != nil {
		s.logger.Error("failed to read subscribers", "author", entry.Author, "error", err)
		return
	}
	if len(current) == 0 {
		return
	}

	if err := s.chat.SendMessage(ctx, entry.Channel, notification(entry.Author, current, results)); err != nil {
		s.logger.Error("failed to send notification", "author", entry.Author, "error", err)
		return
	}

	// Remove only the users the alert mentioned. A subscriber who arrived
	// while the send was in flight stays for the next scan.
	if err := s.store.Remove(entry.Scope, entry.Channel, entry.Author, current); err != nil {
		s.logger.Error("failed to remove notified subscribers", "author", entry.Author, "error", err)
	}
}

// notification composes one alert: mentions for every subscriber, then each
// result's identifier, title and date with an abstract link.
func notification(author string, subscribers []string, results []arxiv.AuthorResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "New arXiv papers by %s:", author)
	for _, user := range subscribers {
		fmt.Fprintf(&b, " <@%s>", user)
	}
	for _, r := range results {
		b.WriteString("\n- ")
		fmt.Fprintf(&b, "[%s] %s", r.ID, r.Title)
		if r.Published != "" {
			fmt.Fprintf(&b, " (%s)", r.Published)
		}
		fmt.Fprintf(&b, " %s", arxiv.AbsURL(r.ID))
	}
	return b.String()
}

// StartPulse logs a periodic liveness heartbeat so a wedged process is
// visible in the logs. It returns when the context is cancelled or the
// gateway reports closed.
func (s *Service) StartPulse(ctx context.Context, closed <-chan struct{}, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-closed:
			return
		case <-ticker.C:
			s.logger.Debug("liveness pulse")
		}
	}
}
