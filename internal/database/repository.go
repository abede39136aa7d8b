package database

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/pgvector/pgvector-go"
	"github.com/rs/zerolog/log"
)

// InsertDocumentWithChunks stores a document and its chunks in one transaction.
func (db *DB) InsertDocumentWithChunks(ctx context.Context, doc Document, chunks []NewChunk) error {
	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	metadataJSON, err := json.Marshal(doc.Metadata)
	if err != nil {
		return fmt.Errorf("failed to marshal document metadata: %w", err)
	}

	docQuery := `
        INSERT INTO documents (id, title, link, content, metadata, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
    `
	if _, err := tx.Exec(ctx, docQuery, doc.Id, doc.Title, doc.Link, doc.Content, metadataJSON); err != nil {
		return fmt.Errorf("failed to insert document: %w", err)
	}

	chunkQuery := `
        INSERT INTO document_chunks (document_id, chunk_index, content, embedding, metadata, created_at)
        VALUES ($1, $2, $3, $4, $5, NOW())
    `
	for _, chunk := range chunks {
		chunkMetadata, err := json.Marshal(chunk.Metadata)
		if err != nil {
			return fmt.Errorf("failed to marshal chunk metadata: %w", err)
		}

		_, err = tx.Exec(ctx, chunkQuery,
			doc.Id,
			chunk.Index,
			chunk.Content,
			pgvector.NewVector(chunk.Embedding),
			chunkMetadata,
		)
		if err != nil {
			return fmt.Errorf("failed to insert chunk %d: %w", chunk.Index, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.Info().Str("doc_id", doc.Id).Int("chunks", len(chunks)).Msg("Document stored")
	return nil
}

func (db *DB) DeleteDocument(ctx context.Context, docId string) error {
	query := `DELETE FROM documents WHERE id = $1`

	result, err := db.Pool.Exec(ctx, query, docId)
	if err != nil {
		return fmt.Errorf("Failed to delete document id: %s, error: %w", docId, err)
	}

	if result.RowsAffected() == 0 {
		log.Warn().Str("doc_id", docId).Msg("Document not found")
	} else {
		log.Info().Str("doc_id", docId).Msg("Document deleted")
	}

	return nil
}

// Reset removes every document and chunk.
func (db *DB) Reset(ctx context.Context) error {
	if _, err := db.Pool.Exec(ctx, `TRUNCATE documents CASCADE`); err != nil {
		return fmt.Errorf("failed to reset documents: %w", err)
	}
	return nil
}

// TODO: Add pagination
func (db *DB) GetAllDocs(ctx context.Context) ([]Document, error) {
	query := `SELECT id, title, link FROM documents ORDER BY title`

	rows, err := db.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("Unable to fetch documents from DB: %w", err)
	}
	defer rows.Close()

	var documents []Document
	for rows.Next() {
		var document Document
		if err := rows.Scan(&document.Id, &document.Title, &document.Link); err != nil {
			return nil, fmt.Errorf("Failed to scan document: %w", err)
		}
		documents = append(documents, document)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return documents, nil
}

// SemanticSearch returns the chunks closest to queryEmbeddings by cosine distance.
func (db *DB) SemanticSearch(ctx context.Context, queryEmbeddings []float32, limit int) ([]Chunk, error) {
	query := `
	SELECT
	  c.id,
	  c.document_id,
	  d.title,
	  d.link,
	  c.content,
	  c.embedding <=> $1 AS distance
	FROM document_chunks c
	JOIN documents d ON d.id = c.document_id
	ORDER BY distance ASC
	LIMIT $2`

	rows, err := db.Pool.Query(ctx, query, pgvector.NewVector(queryEmbeddings), limit)
	if err != nil {
		return nil, fmt.Errorf("Unable to query the database: %w", err)
	}
	defer rows.Close()

	var chunks []Chunk
	for rows.Next() {
		var chunk Chunk
		if err := rows.Scan(&chunk.Id, &chunk.DocumentID, &chunk.Title, &chunk.Link, &chunk.Content, &chunk.Distance); err != nil {
			return nil, fmt.Errorf("Failed to scan chunk: %w", err)
		}
		chunks = append(chunks, chunk)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return chunks, nil
}
