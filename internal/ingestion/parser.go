package ingestion

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/povarna/generative-ai-agents/pub-search/internal/corpus"
)

var (
	ErrScrapeFailed = errors.New("publication was not scraped")
	ErrEmptyText    = errors.New("publication has no text")
)

type Document struct {
	ID       string
	Title    string
	Link     string
	Content  string
	Metadata map[string]string
}

type Parser struct{}

func NewParser() *Parser {
	return &Parser{}
}

// ParseDocument flattens a publication into the text that gets chunked and embedded.
func (p *Parser) ParseDocument(doc corpus.Document) (*Document, error) {
	if doc.Error != "" {
		return nil, ErrScrapeFailed
	}

	content := doc.Text()
	if strings.TrimSpace(content) == "" {
		return nil, ErrEmptyText
	}

	metadata := doc.Metadata()
	metadata["sections"] = strings.Join(doc.SectionNames, ", ")

	return &Document{
		ID:       uuid.New().String(),
		Title:    doc.Name,
		Link:     doc.Link,
		Content:  content,
		Metadata: metadata,
	}, nil
}
