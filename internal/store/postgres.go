package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DBTX is satisfied by *pgxpool.Pool, *pgx.Conn and pgx.Tx.
type DBTX interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

const schema = `
CREATE TABLE IF NOT EXISTS documents (
	seq        BIGSERIAL PRIMARY KEY,
	id         UUID NOT NULL UNIQUE,
	collection TEXT NOT NULL,
	body       JSONB NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS documents_body_idx ON documents USING GIN (body jsonb_path_ops);
CREATE INDEX IF NOT EXISTS documents_collection_idx ON documents (collection, seq);
`

// Postgres stores documents as JSONB rows; filters use containment (body @> filter).
type Postgres struct {
	db    DBTX
	close func()
}

// OpenPostgres connects a pool to dsn, verifies it and creates the schema.
func OpenPostgres(ctx context.Context, dsn string, maxConns int) (*Postgres, error) {
	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parsing database URL: %w", err)
	}
	if maxConns > 0 {
		poolConfig.MaxConns = int32(maxConns)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	pg, err := NewPostgres(ctx, pool)
	if err != nil {
		pool.Close()
		return nil, err
	}
	pg.close = pool.Close
	return pg, nil
}

// NewPostgres wraps an existing connection and creates the schema if needed.
func NewPostgres(ctx context.Context, db DBTX) (*Postgres, error) {
	if _, err := db.Exec(ctx, schema); err != nil {
		return nil, fmt.Errorf("creating documents schema: %w", err)
	}
	return &Postgres{db: db}, nil
}

func (p *Postgres) FindOne(ctx context.Context, collection string, filter Filter) (Document, error) {
	want, err := filterJSON(filter)
	if err != nil {
		return nil, err
	}

	var body []byte
	err = p.db.QueryRow(ctx,
		`SELECT body FROM documents WHERE collection = $1 AND body @> $2::jsonb ORDER BY seq LIMIT 1`,
		collection, want).Scan(&body)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("finding %s document: %w", collection, err)
	}
	return decodeBody(body)
}

func (p *Postgres) Find(ctx context.Context, collection string, filter Filter) ([]Document, error) {
	want, err := filterJSON(filter)
	if err != nil {
		return nil, err
	}

	rows, err := p.db.Query(ctx,
		`SELECT body FROM documents WHERE collection = $1 AND body @> $2::jsonb ORDER BY seq`,
		collection, want)
	if err != nil {
		return nil, fmt.Errorf("querying %s documents: %w", collection, err)
	}
	defer rows.Close()

	var out []Document
	for rows.Next() {
		var body []byte
		if err := rows.Scan(&body); err != nil {
			return nil, fmt.Errorf("scanning %s document: %w", collection, err)
		}
		doc, err := decodeBody(body)
		if err != nil {
			return nil, err
		}
		out = append(out, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating %s documents: %w", collection, err)
	}
	return out, nil
}

func (p *Postgres) InsertOne(ctx context.Context, collection string, doc Document) (string, error) {
	stored, err := clone(doc)
	if err != nil {
		return "", err
	}
	id, _ := stored[IDField].(string)
	parsed, err := uuid.Parse(id)
	if err != nil {
		parsed = uuid.New()
	}
	stored[IDField] = parsed.String()

	body, err := json.Marshal(stored)
	if err != nil {
		return "", fmt.Errorf("encoding %s document: %w", collection, err)
	}
	if _, err := p.db.Exec(ctx,
		`INSERT INTO documents (id, collection, body) VALUES ($1, $2, $3::jsonb)`,
		parsed, collection, body); err != nil {
		return "", fmt.Errorf("inserting %s document: %w", collection, err)
	}
	return parsed.String(), nil
}

func (p *Postgres) Count(ctx context.Context, collection string, filter Filter) (int64, error) {
	want, err := filterJSON(filter)
	if err != nil {
		return 0, err
	}
	var n int64
	if err := p.db.QueryRow(ctx,
		`SELECT count(*) FROM documents WHERE collection = $1 AND body @> $2::jsonb`,
		collection, want).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting %s documents: %w", collection, err)
	}
	return n, nil
}

func (p *Postgres) Close() error {
	if p.close != nil {
		p.close()
	}
	return nil
}

func filterJSON(filter Filter) (string, error) {
	if filter == nil {
		return "{}", nil
	}
	data, err := json.Marshal(filter)
	if err != nil {
		return "", fmt.Errorf("encoding filter: %w", err)
	}
	return string(data), nil
}

func decodeBody(body []byte) (Document, error) {
	var doc Document
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("decoding document body: %w", err)
	}
	return doc, nil
}
