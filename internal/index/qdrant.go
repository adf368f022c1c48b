package index

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/qdrant/go-client/qdrant"

	"github.com/mhmd-249/socratic-tutor/internal/contextutil"
)

// QdrantIndex implements Index over a Qdrant collection. Qdrant provides
// ANN cosine scores only, so every row reports KeywordScore 0 — by the read
// contract, rows absent from a lexical result set score zero. Attribution
// travels in the point payload so search needs no second lookup.
type QdrantIndex struct {
	client     *qdrant.Client
	collection string
}

// NewQdrantIndex creates a Qdrant-backed index. urlStr is the HTTP endpoint
// ("http://host:port"); the gRPC port is derived as HTTP port + 1.
func NewQdrantIndex(urlStr, collection string) (*QdrantIndex, error) {
	parsedURL, err := url.Parse(urlStr)
	if err != nil {
		return nil, fmt.Errorf("invalid Qdrant URL: %w", err)
	}

	host := parsedURL.Hostname()
	if host == "" {
		host = "localhost"
	}

	port := 6334
	if parsedURL.Port() != "" {
		httpPort, err := strconv.Atoi(parsedURL.Port())
		if err == nil {
			port = httpPort + 1
		}
	}

	client, err := qdrant.NewClient(&qdrant.Config{
		Host: host,
		Port: port,
	})
	if err != nil {
		return nil, fmt.Errorf("create Qdrant client: %w", err)
	}

	return &QdrantIndex{client: client, collection: collection}, nil
}

// EnsureCollection creates the collection if missing and validates the
// vector size when it exists.
func (x *QdrantIndex) EnsureCollection(ctx context.Context, dim int) error {
	logger := contextutil.LoggerFromContext(ctx)

	exists, err := x.client.CollectionExists(ctx, x.collection)
	if err != nil {
		return fmt.Errorf("check collection existence: %w", err)
	}

	if !exists {
		err := x.client.CreateCollection(ctx, &qdrant.CreateCollection{
			CollectionName: x.collection,
			VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
				Size:     uint64(dim),
				Distance: qdrant.Distance_Cosine,
			}),
		})
		if err != nil {
			return fmt.Errorf("create collection: %w", err)
		}
		logger.InfoContext(ctx, "collection created", "collection", x.collection, "vector_size", dim)
		return nil
	}

	info, err := x.client.GetCollectionInfo(ctx, x.collection)
	if err != nil {
		return fmt.Errorf("get collection info: %w", err)
	}
	config := info.GetConfig()
	if config == nil || config.GetParams() == nil {
		return fmt.Errorf("collection config is invalid")
	}
	vectorsConfig := config.GetParams().GetVectorsConfig()
	if vectorsConfig == nil || vectorsConfig.GetParams() == nil {
		return fmt.Errorf("collection vectors config is invalid")
	}
	if actual := vectorsConfig.GetParams().GetSize(); int(actual) != dim {
		return fmt.Errorf("collection vector size mismatch: expected %d, got %d", dim, actual)
	}

	return nil
}

// Upsert writes chunk records as points with full payload.
func (x *QdrantIndex) Upsert(ctx context.Context, chunks []ChunkRecord) error {
	logger := contextutil.LoggerFromContext(ctx)

	if len(chunks) == 0 {
		return nil
	}

	points := make([]*qdrant.PointStruct, 0, len(chunks))
	for _, chunk := range chunks {
		points = append(points, &qdrant.PointStruct{
			Id:      qdrant.NewID(chunk.ID),
			Vectors: qdrant.NewVectors(chunk.Embedding...),
			Payload: qdrant.NewValueMap(map[string]any{
				"chapter_id":     chunk.ChapterID,
				"content":        chunk.Content,
				"section_title":  chunk.SectionTitle,
				"chunk_index":    chunk.ChunkIndex,
				"token_count":    chunk.TokenCount,
				"chapter_title":  chunk.ChapterTitle,
				"chapter_number": chunk.ChapterNumber,
				"book_title":     chunk.BookTitle,
				"book_author":    chunk.BookAuthor,
			}),
		})
	}

	_, err := x.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: x.collection,
		Points:         points,
	})
	if err != nil {
		return fmt.Errorf("upsert points: %w", err)
	}

	logger.InfoContext(ctx, "upserted chunks", "collection", x.collection, "count", len(chunks))
	return nil
}

// DeleteByChapter removes all points whose payload matches the chapter.
func (x *QdrantIndex) DeleteByChapter(ctx context.Context, chapterID string) error {
	filter := &qdrant.Filter{
		Must: []*qdrant.Condition{qdrant.NewMatch("chapter_id", chapterID)},
	}
	_, err := x.client.Delete(ctx, &qdrant.DeletePoints{
		CollectionName: x.collection,
		Points: &qdrant.PointsSelector{
			PointsSelectorOneOf: &qdrant.PointsSelector_Filter{Filter: filter},
		},
	})
	if err != nil {
		return fmt.Errorf("delete points by chapter: %w", err)
	}
	return nil
}

// Search runs an ANN query. The lexical query is accepted but unused: this
// backend has no server-side text ranking, so keyword scores are zero.
func (x *QdrantIndex) Search(ctx context.Context, req SearchRequest) ([]Row, error) {
	logger := contextutil.LoggerFromContext(ctx)

	if req.Limit <= 0 {
		return nil, fmt.Errorf("search limit must be positive, got %d", req.Limit)
	}

	limit := uint64(req.Limit)
	queryReq := &qdrant.QueryPoints{
		CollectionName: x.collection,
		Query:          qdrant.NewQuery(req.Vector...),
		Limit:          &limit,
		WithPayload:    qdrant.NewWithPayload(true),
	}
	if req.ChapterID != "" {
		queryReq.Filter = &qdrant.Filter{
			Must: []*qdrant.Condition{qdrant.NewMatch("chapter_id", req.ChapterID)},
		}
	}

	scored, err := x.client.Query(ctx, queryReq)
	if err != nil {
		return nil, fmt.Errorf("query points: %w", err)
	}

	results := make([]Row, 0, len(scored))
	for _, point := range scored {
		row := Row{
			SemanticScore: float64(point.GetScore()),
			KeywordScore:  0,
		}
		if id := point.GetId(); id != nil {
			row.ChunkID = id.GetUuid()
		}
		payload := point.GetPayload()
		row.ChapterID = payloadString(payload, "chapter_id")
		row.Content = payloadString(payload, "content")
		row.SectionTitle = payloadString(payload, "section_title")
		row.ChunkIndex = int(payloadInt(payload, "chunk_index"))
		row.ChapterTitle = payloadString(payload, "chapter_title")
		row.ChapterNumber = int(payloadInt(payload, "chapter_number"))
		row.BookTitle = payloadString(payload, "book_title")
		row.BookAuthor = payloadString(payload, "book_author")
		results = append(results, row)
	}

	logger.DebugContext(ctx, "vector search completed", "collection", x.collection, "rows", len(results))
	return results, nil
}

// Ping reports store reachability via the health check endpoint.
func (x *QdrantIndex) Ping(ctx context.Context) error {
	if _, err := x.client.HealthCheck(ctx); err != nil {
		return fmt.Errorf("qdrant health check: %w", err)
	}
	return nil
}

func payloadString(payload map[string]*qdrant.Value, key string) string {
	if v, ok := payload[key]; ok && v != nil {
		return v.GetStringValue()
	}
	return ""
}

func payloadInt(payload map[string]*qdrant.Value, key string) int64 {
	if v, ok := payload[key]; ok && v != nil {
		return v.GetIntegerValue()
	}
	return 0
}
