// Package notion fetches documents from a Notion database. Every page in
// the database becomes one document; its block children are flattened to
// plain text.
package notion

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jomei/notionapi"

	"github.com/custodia-labs/ansera-cli/internal/core/domain"
	"github.com/custodia-labs/ansera-cli/internal/core/ports/driven"
	"github.com/custodia-labs/ansera-cli/internal/logger"
)

// Ensure Source implements the interface.
var _ driven.DocumentSource = (*Source)(nil)

// pageDelay spaces out page fetches to stay under Notion's rate limit
// of roughly three requests per second.
const pageDelay = 350 * time.Millisecond

// pageSize is the Notion API maximum page size.
const pageSize = 100

// Config holds configuration for the Notion source.
type Config struct {
	// APIKey is the Notion integration token (required).
	APIKey string

	// DatabaseID is the database whose pages are fetched (required).
	DatabaseID string
}

// Source fetches pages from a Notion database.
type Source struct {
	client     *notionapi.Client
	databaseID notionapi.DatabaseID
}

// NewSource creates a Notion document source.
func NewSource(cfg Config) (*Source, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("notion: API key is required")
	}
	if cfg.DatabaseID == "" {
		return nil, fmt.Errorf("notion: database ID is required")
	}
	return &Source{
		client:     notionapi.NewClient(notionapi.Token(cfg.APIKey)),
		databaseID: notionapi.DatabaseID(cfg.DatabaseID),
	}, nil
}

// FetchDocuments queries the database and returns one document per page.
func (s *Source) FetchDocuments(ctx context.Context) ([]domain.Document, error) {
	pages, err := s.listPages(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing pages: %w", err)
	}
	logger.Info("notion: found %d pages", len(pages))

	docs := make([]domain.Document, 0, len(pages))
	for i, page := range pages {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if i > 0 {
			select {
			case <-time.After(pageDelay):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		content, err := s.pageText(ctx, page.ID)
		if err != nil {
			return nil, fmt.Errorf("reading page %s: %w", page.ID, err)
		}

		docs = append(docs, domain.Document{
			ID:       string(page.ID),
			Title:    pageTitle(page),
			Content:  content,
			Revision: page.LastEditedTime.UTC().Format(time.RFC3339),
		})
	}
	return docs, nil
}

// listPages walks the database query pagination.
func (s *Source) listPages(ctx context.Context) ([]notionapi.Page, error) {
	var pages []notionapi.Page
	var cursor notionapi.Cursor

	for {
		resp, err := s.client.Database.Query(ctx, s.databaseID, &notionapi.DatabaseQueryRequest{
			StartCursor: cursor,
			PageSize:    pageSize,
		})
		if err != nil {
			return nil, err
		}
		pages = append(pages, resp.Results...)

		if !resp.HasMore {
			return pages, nil
		}
		cursor = resp.NextCursor
	}
}

// pageText flattens a page's block children to plain text, one block per
// line. Nested blocks are not descended into.
func (s *Source) pageText(ctx context.Context, pageID notionapi.ObjectID) (string, error) {
	var lines []string
	var cursor notionapi.Cursor

	for {
		resp, err := s.client.Block.GetChildren(ctx, notionapi.BlockID(pageID), &notionapi.Pagination{
			StartCursor: cursor,
			PageSize:    pageSize,
		})
		if err != nil {
			return "", err
		}

		for _, block := range resp.Results {
			if text := blockText(block); text != "" {
				lines = append(lines, text)
			}
		}

		if !resp.HasMore {
			return strings.Join(lines, "\n"), nil
		}
		cursor = notionapi.Cursor(resp.NextCursor)
	}
}

// pageTitle extracts the title property, falling back to the page ID.
func pageTitle(page notionapi.Page) string {
	for _, prop := range page.Properties {
		if title, ok := prop.(*notionapi.TitleProperty); ok {
			if text := richText(title.Title); text != "" {
				return text
			}
		}
	}
	return string(page.ID)
}

// blockText returns the plain text of the block types that carry prose.
func blockText(block notionapi.Block) string {
	switch b := block.(type) {
	case *notionapi.ParagraphBlock:
		return richText(b.Paragraph.RichText)
	case *notionapi.Heading1Block:
		return richText(b.Heading1.RichText)
	case *notionapi.Heading2Block:
		return richText(b.Heading2.RichText)
	case *notionapi.Heading3Block:
		return richText(b.Heading3.RichText)
	case *notionapi.BulletedListItemBlock:
		return richText(b.BulletedListItem.RichText)
	case *notionapi.NumberedListItemBlock:
		return richText(b.NumberedListItem.RichText)
	case *notionapi.ToDoBlock:
		return richText(b.ToDo.RichText)
	case *notionapi.QuoteBlock:
		return richText(b.Quote.RichText)
	case *notionapi.CalloutBlock:
		return richText(b.Callout.RichText)
	case *notionapi.ToggleBlock:
		return richText(b.Toggle.RichText)
	case *notionapi.CodeBlock:
		return richText(b.Code.RichText)
	default:
		return ""
	}
}

func richText(parts []notionapi.RichText) string {
	var sb strings.Builder
	for _, part := range parts {
		sb.WriteString(part.PlainText)
	}
	return strings.TrimSpace(sb.String())
}
