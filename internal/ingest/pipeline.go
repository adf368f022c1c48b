// Package ingest turns chapter markdown into embedded, searchable chunks.
package ingest

import (
	"context"
	"crypto/sha256"
	"fmt"

	"github.com/google/uuid"

	"github.com/mhmd-249/socratic-tutor/internal/chunker"
	"github.com/mhmd-249/socratic-tutor/internal/contextutil"
	"github.com/mhmd-249/socratic-tutor/internal/embedding"
	"github.com/mhmd-249/socratic-tutor/internal/index"
	"github.com/mhmd-249/socratic-tutor/internal/storage"
)

// ChapterSource is one chapter's raw material for ingestion.
type ChapterSource struct {
	BookTitle     string
	BookAuthor    string
	ChapterNumber int
	ChapterTitle  string
	Markdown      string
}

// Result summarizes one chapter ingestion.
type Result struct {
	BookID    string
	ChapterID string
	Chunks    int
	Skipped   bool
}

// Pipeline orchestrates chapter ingestion: catalog bookkeeping, markdown
// extraction, chunking, embedding, and index replacement.
type Pipeline struct {
	chunker   *chunker.Chunker
	embedder  embedding.Embedder
	idx       index.Index
	books     storage.BookStore
	chapters  storage.ChapterStore
	extractor *MarkdownExtractor
}

// NewPipeline creates a new ingestion pipeline.
func NewPipeline(
	ch *chunker.Chunker,
	embedder embedding.Embedder,
	idx index.Index,
	books storage.BookStore,
	chapters storage.ChapterStore,
) *Pipeline {
	return &Pipeline{
		chunker:   ch,
		embedder:  embedder,
		idx:       idx,
		books:     books,
		chapters:  chapters,
		extractor: NewMarkdownExtractor(),
	}
}

// IngestChapter registers the chapter in the catalog, chunks and embeds its
// text, and replaces the chapter's chunks in the index. Unchanged chapters
// (by content hash) are skipped. All embeddings are generated before any
// index write, so a provider failure leaves the previous chunks intact.
func (p *Pipeline) IngestChapter(ctx context.Context, src ChapterSource) (*Result, error) {
	logger := contextutil.LoggerFromContext(ctx)

	book, err := p.books.GetOrCreate(ctx, src.BookTitle, src.BookAuthor)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve book: %w", err)
	}
	chapter, err := p.chapters.GetOrCreate(ctx, book.ID, src.ChapterNumber, src.ChapterTitle)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve chapter: %w", err)
	}

	text := p.extractor.ExtractText([]byte(src.Markdown))
	hash := contentHash(text)

	if chapter.IngestedAt != nil && chapter.Hash == hash {
		logger.InfoContext(ctx, "skipping unchanged chapter",
			"chapter_id", chapter.ID,
			"hash", hash,
		)
		return &Result{BookID: book.ID, ChapterID: chapter.ID, Chunks: chapter.ChunkCount, Skipped: true}, nil
	}

	chunks := p.chunker.ChunkText(text, src.ChapterTitle)
	if len(chunks) == 0 {
		logger.WarnContext(ctx, "no chunks generated", "chapter_id", chapter.ID)
		if err := p.idx.DeleteByChapter(ctx, chapter.ID); err != nil {
			return nil, fmt.Errorf("failed to clear chapter chunks: %w", err)
		}
		if err := p.chapters.MarkIngested(ctx, chapter.ID, hash, 0); err != nil {
			return nil, fmt.Errorf("failed to record ingestion: %w", err)
		}
		return &Result{BookID: book.ID, ChapterID: chapter.ID}, nil
	}

	texts := make([]string, len(chunks))
	for i, chunk := range chunks {
		texts[i] = chunk.Content
	}

	vectors, err := p.embedder.Embed(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("failed to embed chunks: %w", err)
	}
	if len(vectors) != len(chunks) {
		return nil, fmt.Errorf("embedding count mismatch: expected %d, got %d", len(chunks), len(vectors))
	}

	records := make([]index.ChunkRecord, len(chunks))
	for i, chunk := range chunks {
		records[i] = index.ChunkRecord{
			ID:            uuid.New().String(),
			ChapterID:     chapter.ID,
			Content:       chunk.Content,
			Embedding:     vectors[i],
			ChunkIndex:    chunk.ChunkIndex,
			SectionTitle:  chunk.SectionTitle,
			TokenCount:    chunk.TokenCount,
			ChapterTitle:  chapter.Title,
			ChapterNumber: chapter.ChapterNumber,
			BookTitle:     book.Title,
			BookAuthor:    book.Author,
			Metadata:      chunk.Metadata,
		}
	}

	// Replace, don't append: stale chunks from the previous version of the
	// chapter must not survive.
	if err := p.idx.DeleteByChapter(ctx, chapter.ID); err != nil {
		return nil, fmt.Errorf("failed to delete previous chunks: %w", err)
	}
	if err := p.idx.Upsert(ctx, records); err != nil {
		return nil, fmt.Errorf("failed to index chunks: %w", err)
	}

	if err := p.chapters.MarkIngested(ctx, chapter.ID, hash, len(records)); err != nil {
		return nil, fmt.Errorf("failed to record ingestion: %w", err)
	}

	logger.InfoContext(ctx, "chapter ingested",
		"chapter_id", chapter.ID,
		"book_id", book.ID,
		"chunks", len(records),
	)
	return &Result{BookID: book.ID, ChapterID: chapter.ID, Chunks: len(records)}, nil
}

// contentHash fingerprints the extracted chapter text for change detection.
func contentHash(text string) string {
	return fmt.Sprintf("%x", sha256.Sum256([]byte(text)))
}
