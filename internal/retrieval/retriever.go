package retrieval

import (
	"context"
)

//go:generate mockgen -source=retriever.go -destination=mocks/mock_retriever.go -package=mocks

// Passage is a piece of publication text handed to the model as context.
type Passage struct {
	Title   string
	Link    string
	Content string
	Score   float64
}

type Retriever interface {
	Retrieve(ctx context.Context, query string, topK int) ([]Passage, error)
}
