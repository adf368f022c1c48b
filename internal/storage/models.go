package storage

import "time"

// BookRecord represents a course book in the catalog.
type BookRecord struct {
	ID        string // UUID
	Title     string
	Author    string
	CreatedAt time.Time
}

// ChapterRecord represents one chapter of a book and its ingestion state.
type ChapterRecord struct {
	ID            string // UUID
	BookID        string // Foreign key to books.id
	ChapterNumber int
	Title         string
	Hash          string // SHA256 hex of the last ingested source text
	ChunkCount    int    // Chunks written by the last ingestion
	IngestedAt    *time.Time
}
