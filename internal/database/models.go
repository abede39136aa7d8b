package database

import "fmt"

type Document struct {
	Id       string
	Title    string
	Link     string
	Content  string
	Metadata map[string]string
}

func (d *Document) Print() string {
	return fmt.Sprintf("Document_id: %s - Title: %s - Link: %s", d.Id, d.Title, d.Link)
}

// NewChunk is a chunk about to be stored together with its embedding.
type NewChunk struct {
	Index     int
	Content   string
	Embedding []float32
	Metadata  map[string]any
}

// Chunk is a stored chunk returned by a similarity query.
type Chunk struct {
	Id         string
	DocumentID string
	Title      string
	Link       string
	Content    string
	Distance   float64
}
