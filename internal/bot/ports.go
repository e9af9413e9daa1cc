package bot

import (
	"context"

	"github.com/arxiver/arxiver/internal/arxiv"
)

// Chat is the outbound surface of the chat transport.
type Chat interface {
	// SendMessage posts a text message to a channel.
	SendMessage(ctx context.Context, channelID, content string) error

	// TriggerTyping shows the typing indicator while a reply is prepared.
	TriggerTyping(ctx context.Context, channelID string) error
}

// PaperSource resolves identifiers and searches recent publications.
type PaperSource interface {
	// FetchPaper resolves one identifier. Failures are returned, not
	// raised; the service logs them and moves on.
	FetchPaper(ctx context.Context, id string) (*arxiv.Paper, error)

	// SearchAuthor returns an author's publications from the trailing
	// window, newest first.
	SearchAuthor(ctx context.Context, author string) ([]arxiv.AuthorResult, error)
}
