package database

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/codelore/codelore/core/pipeline"
	"github.com/codelore/codelore/helper"
	"github.com/codelore/codelore/model"
	loadSql "github.com/codelore/codelore/sql"
	"github.com/pgvector/pgvector-go"
)

// VectorsDBHandler is the pgvector-backed vector search service. It
// holds a separately maintained index of document/code chunks and
// answers similarity queries for the fusion layer; chunking itself
// happens upstream.
type VectorsDBHandler struct {
	db    *helper.Database
	embed pipeline.EmbedFunc
}

// NewVectorsDBHandler creates a new vectors database handler.
// It loads the vector SQL functions and creates the table if needed.
// If force is true, it reloads the SQL functions even if they already exist.
func NewVectorsDBHandler(db *helper.Database, embed pipeline.EmbedFunc, embeddingDim int, force bool) (*VectorsDBHandler, error) {
	if db == nil {
		return nil, helper.NewError("database connection validation", fmt.Errorf("database connection is nil"))
	}
	if embed == nil {
		return nil, helper.NewError("embedder validation", fmt.Errorf("embedder is nil"))
	}

	handler := &VectorsDBHandler{
		db:    db,
		embed: embed,
	}

	err := loadSql.LoadVectorsSql(db.Instance, force)
	if err != nil {
		return nil, helper.NewError("load vectors sql", err)
	}

	err = handler.CreateTable(embeddingDim)
	if err != nil {
		return nil, helper.NewError("create table", err)
	}

	db.Logger.Info("Initialized VectorsDBHandler")

	return handler, nil
}

// CreateTable creates the 'vectors' table in the database.
// If the table already exists, it does not create it again.
func (h *VectorsDBHandler) CreateTable(embeddingDim int) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := h.db.Instance.ExecContext(ctx, `SELECT init_vectors($1);`, embeddingDim)
	if err != nil {
		log.Panicf("error initializing vectors table: %#v", err)
	}

	h.db.Logger.Info("Checked/created table vectors")

	return nil
}

// InsertChunk embeds a chunk of content and stores it in the index.
// Metadata should carry provenance keys (commit_hash, file_path) so the
// fusion layer can deduplicate against graph results.
func (h *VectorsDBHandler) InsertChunk(ctx context.Context, content string, metadata model.Metadata) (int, error) {
	embedding, err := h.embed(content)
	if err != nil {
		return 0, helper.NewError("embed chunk", err)
	}

	var id int
	err = h.db.Instance.QueryRowContext(
		ctx,
		`SELECT * FROM insert_vector($1, $2, $3)`,
		content,
		pgvector.NewVector(embedding),
		metadata,
	).Scan(&id)
	if err != nil {
		return 0, helper.NewError("insert vector", err)
	}

	return id, nil
}

// Query implements retrieval.VectorSearcher: it embeds the query text
// and returns the closest chunks with distance-derived similarities.
func (h *VectorsDBHandler) Query(ctx context.Context, text string, maxResults int) ([]*model.VectorResult, error) {
	embedding, err := h.embed(text)
	if err != nil {
		return nil, helper.NewError("embed query", err)
	}

	rows, err := h.db.Instance.QueryContext(
		ctx,
		`SELECT * FROM select_vectors_by_similarity($1, $2)`,
		pgvector.NewVector(embedding),
		maxResults,
	)
	if err != nil {
		return nil, helper.NewError("query", err)
	}
	defer rows.Close()

	var results []*model.VectorResult
	for rows.Next() {
		var id int
		result := &model.VectorResult{}
		err := rows.Scan(&id, &result.Content, &result.Similarity, &result.Metadata)
		if err != nil {
			return nil, helper.NewError("scan", err)
		}
		results = append(results, result)
	}
	if err := rows.Err(); err != nil {
		return nil, helper.NewError("iterate rows", err)
	}

	return results, nil
}

// Count returns the number of indexed chunks
func (h *VectorsDBHandler) Count(ctx context.Context) (int64, error) {
	var count int64
	err := h.db.Instance.QueryRowContext(ctx, `SELECT count_vectors()`).Scan(&count)
	if err != nil {
		return 0, helper.NewError("count vectors", err)
	}
	return count, nil
}

// Delete removes a chunk from the index
func (h *VectorsDBHandler) Delete(ctx context.Context, id int) (bool, error) {
	var deleted bool
	err := h.db.Instance.QueryRowContext(ctx, `SELECT delete_vector($1)`, id).Scan(&deleted)
	if err != nil {
		return false, helper.NewError("delete vector", err)
	}
	return deleted, nil
}
