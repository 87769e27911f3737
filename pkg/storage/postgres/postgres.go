// Package postgres provides a PostgreSQL implementation of
// transport.CompletionStore. It uses pgx/v5 for connection pooling and
// JSONB for the function-call fragment list.
package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ocotillo-ai/ocotillo/pkg/api"
	"github.com/ocotillo-ai/ocotillo/pkg/storage"
	"github.com/ocotillo-ai/ocotillo/pkg/transport"
)

// Store is a PostgreSQL-backed CompletionStore.
type Store struct {
	pool *pgxpool.Pool
}

// Ensure Store implements transport.CompletionStore at compile time.
var _ transport.CompletionStore = (*Store)(nil)

// New creates a new PostgreSQL store with the given configuration.
// If MigrateOnStart is true, schema migrations are applied automatically.
func New(ctx context.Context, cfg Config) (*Store, error) {
	cfg.defaults()

	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("parsing DSN: %w", err)
	}

	poolCfg.MaxConns = cfg.MaxConns
	poolCfg.MinConns = cfg.MinConns
	poolCfg.MaxConnLifetime = cfg.MaxConnLifetime

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	s := &Store{pool: pool}

	if cfg.MigrateOnStart {
		if err := s.migrate(ctx); err != nil {
			pool.Close()
			return nil, fmt.Errorf("running migrations: %w", err)
		}
	}

	return s, nil
}

// SaveCompletion persists a finished completion.
func (s *Store) SaveCompletion(ctx context.Context, c *api.Completion) error {
	tenantID := storage.GetTenant(ctx)

	var callsJSON []byte
	if len(c.FunctionCalls) > 0 {
		var err error
		callsJSON, err = json.Marshal(c.FunctionCalls)
		if err != nil {
			return fmt.Errorf("marshaling function calls: %w", err)
		}
	}

	_, err := s.pool.Exec(ctx, `
		INSERT INTO completions (
			id, tenant_id, model, response_text, function_calls,
			time_to_first_token_ms, total_time_ms, tokens_per_second,
			prefill_tokens, decode_tokens, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`,
		c.ID, tenantID, c.Model, c.ResponseText, nullJSON(callsJSON),
		c.Metrics.TimeToFirstTokenMS, c.Metrics.TotalTimeMS, c.Metrics.TokensPerSecond,
		c.Metrics.PrefillTokens, c.Metrics.DecodeTokens, c.CreatedAt,
	)

	if err != nil {
		if isDuplicateKey(err) {
			return storage.ErrConflict
		}
		return fmt.Errorf("inserting completion: %w", err)
	}

	return nil
}

// GetCompletion retrieves a completion by ID, excluding soft-deleted
// completions.
func (s *Store) GetCompletion(ctx context.Context, id string) (*api.Completion, error) {
	tenantID := storage.GetTenant(ctx)

	query := `
		SELECT id, model, response_text, function_calls,
		       time_to_first_token_ms, total_time_ms, tokens_per_second,
		       prefill_tokens, decode_tokens, created_at
		FROM completions
		WHERE id = $1 AND deleted_at IS NULL
	`
	args := []any{id}

	if tenantID != "" {
		query += " AND tenant_id = $2"
		args = append(args, tenantID)
	}

	var c api.Completion
	var callsJSON *[]byte

	err := s.pool.QueryRow(ctx, query, args...).Scan(
		&c.ID, &c.Model, &c.ResponseText, &callsJSON,
		&c.Metrics.TimeToFirstTokenMS, &c.Metrics.TotalTimeMS, &c.Metrics.TokensPerSecond,
		&c.Metrics.PrefillTokens, &c.Metrics.DecodeTokens, &c.CreatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying completion: %w", err)
	}

	c.Object = "completion"
	if callsJSON != nil {
		if err := json.Unmarshal(*callsJSON, &c.FunctionCalls); err != nil {
			return nil, fmt.Errorf("unmarshaling function calls: %w", err)
		}
	}

	return &c, nil
}

// DeleteCompletion soft-deletes a completion by setting deleted_at.
func (s *Store) DeleteCompletion(ctx context.Context, id string) error {
	tenantID := storage.GetTenant(ctx)

	query := "UPDATE completions SET deleted_at = $1 WHERE id = $2 AND deleted_at IS NULL"
	args := []any{time.Now(), id}

	if tenantID != "" {
		query += " AND tenant_id = $3"
		args = append(args, tenantID)
	}

	result, err := s.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("deleting completion: %w", err)
	}

	if result.RowsAffected() == 0 {
		return storage.ErrNotFound
	}

	return nil
}

// ListCompletions returns a paginated list of stored completions,
// filtered by tenant and optionally by model. Cursor pagination keys on
// (created_at, id) of the cursor row.
func (s *Store) ListCompletions(ctx context.Context, opts transport.ListOptions) (*transport.CompletionList, error) {
	tenantID := storage.GetTenant(ctx)

	var conds []string
	var args []any
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	conds = append(conds, "deleted_at IS NULL")
	if tenantID != "" {
		conds = append(conds, "tenant_id = "+arg(tenantID))
	}
	if opts.Model != "" {
		conds = append(conds, "model = "+arg(opts.Model))
	}

	asc := opts.Order == "asc"

	if opts.After != "" || opts.Before != "" {
		cursorID := opts.After
		if cursorID == "" {
			cursorID = opts.Before
		}
		var cursorCreated int64
		err := s.pool.QueryRow(ctx,
			"SELECT created_at FROM completions WHERE id = $1", cursorID,
		).Scan(&cursorCreated)
		if errors.Is(err, pgx.ErrNoRows) {
			return &transport.CompletionList{Object: "list", Data: []*api.Completion{}}, nil
		}
		if err != nil {
			return nil, fmt.Errorf("resolving cursor: %w", err)
		}

		// "after" moves forward in the sort order, "before" backward.
		forward := opts.After != ""
		op := "<"
		if asc == forward {
			op = ">"
		}
		conds = append(conds, fmt.Sprintf("(created_at, id) %s (%s, %s)",
			op, arg(cursorCreated), arg(cursorID)))
	}

	limit := opts.Limit
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}

	dir := "DESC"
	if asc {
		dir = "ASC"
	}

	query := fmt.Sprintf(`
		SELECT id, model, response_text, function_calls,
		       time_to_first_token_ms, total_time_ms, tokens_per_second,
		       prefill_tokens, decode_tokens, created_at
		FROM completions
		WHERE %s
		ORDER BY created_at %s, id %s
		LIMIT %s
	`, strings.Join(conds, " AND "), dir, dir, arg(limit+1))

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing completions: %w", err)
	}
	defer rows.Close()

	var matches []*api.Completion
	for rows.Next() {
		var c api.Completion
		var callsJSON *[]byte
		if err := rows.Scan(
			&c.ID, &c.Model, &c.ResponseText, &callsJSON,
			&c.Metrics.TimeToFirstTokenMS, &c.Metrics.TotalTimeMS, &c.Metrics.TokensPerSecond,
			&c.Metrics.PrefillTokens, &c.Metrics.DecodeTokens, &c.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning completion: %w", err)
		}
		c.Object = "completion"
		if callsJSON != nil {
			if err := json.Unmarshal(*callsJSON, &c.FunctionCalls); err != nil {
				return nil, fmt.Errorf("unmarshaling function calls: %w", err)
			}
		}
		matches = append(matches, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading completions: %w", err)
	}

	hasMore := len(matches) > limit
	if hasMore {
		matches = matches[:limit]
	}

	result := &transport.CompletionList{
		Object:  "list",
		Data:    matches,
		HasMore: hasMore,
	}
	if len(matches) > 0 {
		result.FirstID = matches[0].ID
		result.LastID = matches[len(matches)-1].ID
	}
	if result.Data == nil {
		result.Data = []*api.Completion{}
	}

	return result, nil
}

// HealthCheck verifies the database connection.
func (s *Store) HealthCheck(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Close releases the connection pool.
func (s *Store) Close() error {
	s.pool.Close()
	return nil
}

// nullJSON converts nil/empty byte slices to nil for nullable JSONB columns.
func nullJSON(b []byte) *[]byte {
	if len(b) == 0 {
		return nil
	}
	return &b
}

// isDuplicateKey checks if the error is a PostgreSQL unique violation (23505).
func isDuplicateKey(err error) bool {
	return err != nil && strings.Contains(err.Error(), "23505")
}
