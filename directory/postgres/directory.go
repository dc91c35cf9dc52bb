package postgres

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hexlayer/tokenvault"
)

// ErrConflict is returned by Create when the email is already taken at
// the database level.
var ErrConflict = errors.New("email already registered")

// Config locates the database and bounds the driver-side pool.
type Config struct {
	URL          string
	MaxConns     int32
	MinConns     int32
	QueryTimeout time.Duration
}

// Directory is a pgx-backed tokenvault.UserDirectory.
type Directory struct {
	pool         *pgxpool.Pool
	queryTimeout time.Duration
}

var _ tokenvault.UserDirectory = (*Directory)(nil)

const (
	qByID = `
SELECT id, email, full_name, password_hash
FROM users
WHERE id = $1;`

	qByEmail = `
SELECT id, email, full_name, password_hash
FROM users
WHERE email = $1;`

	qExists = `
SELECT EXISTS (SELECT 1 FROM users WHERE email = $1);`

	qInsert = `
INSERT INTO users (email, full_name, password_hash)
VALUES ($1, $2, $3)
RETURNING id;`
)

// updatableColumns whitelists the fields Update may touch. Anything else
// in the fields map is rejected before the query is built.
var updatableColumns = map[string]string{
	"email":        "email",
	"fullName":     "full_name",
	"passwordHash": "password_hash",
}

// New connects to the database and verifies it with a ping.
func New(ctx context.Context, cfg Config) (*Directory, error) {
	pcfg, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse pool config: %w", err)
	}
	if cfg.MaxConns > 0 {
		pcfg.MaxConns = cfg.MaxConns
	}
	if cfg.MinConns > 0 {
		pcfg.MinConns = cfg.MinConns
	}

	p, err := pgxpool.NewWithConfig(ctx, pcfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	hctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := p.Ping(hctx); err != nil {
		p.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}

	return &Directory{pool: p, queryTimeout: cfg.QueryTimeout}, nil
}

// NewFromPool wraps an existing pool. The caller keeps ownership.
func NewFromPool(p *pgxpool.Pool, queryTimeout time.Duration) *Directory {
	return &Directory{pool: p, queryTimeout: queryTimeout}
}

// Close releases the underlying pool.
func (d *Directory) Close() {
	d.pool.Close()
}

func (d *Directory) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if d.queryTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, d.queryTimeout)
}

func (d *Directory) findOne(ctx context.Context, query, arg string) (*tokenvault.User, error) {
	ctx, cancel := d.withTimeout(ctx)
	defer cancel()

	var u tokenvault.User
	err := d.pool.QueryRow(ctx, query, arg).
		Scan(&u.ID, &u.Email, &u.FullName, &u.PasswordHash)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("user select: %w", err)
	}
	return &u, nil
}

func (d *Directory) FindByID(ctx context.Context, id string) (*tokenvault.User, error) {
	return d.findOne(ctx, qByID, id)
}

func (d *Directory) FindByEmail(ctx context.Context, email string) (*tokenvault.User, error) {
	return d.findOne(ctx, qByEmail, email)
}

func (d *Directory) Exists(ctx context.Context, email string) (bool, error) {
	ctx, cancel := d.withTimeout(ctx)
	defer cancel()

	var exists bool
	if err := d.pool.QueryRow(ctx, qExists, email).Scan(&exists); err != nil {
		return false, fmt.Errorf("user exists: %w", err)
	}
	return exists, nil
}

func (d *Directory) Create(ctx context.Context, user tokenvault.User) (string, error) {
	ctx, cancel := d.withTimeout(ctx)
	defer cancel()

	var id string
	err := d.pool.QueryRow(ctx, qInsert, user.Email, user.FullName, user.PasswordHash).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return "", ErrConflict
		}
		return "", fmt.Errorf("user insert: %w", err)
	}
	return id, nil
}

// Update patches the whitelisted fields and reports the number of rows
// touched. Field names are iterated in sorted order so the generated
// statement is deterministic.
func (d *Directory) Update(ctx context.Context, id string, fields map[string]any) (int64, error) {
	if len(fields) == 0 {
		return 0, nil
	}

	query, args, err := buildUpdate(id, fields)
	if err != nil {
		return 0, err
	}

	ctx, cancel := d.withTimeout(ctx)
	defer cancel()

	tag, err := d.pool.Exec(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("user update: %w", err)
	}
	return tag.RowsAffected(), nil
}

func buildUpdate(id string, fields map[string]any) (string, []any, error) {
	names := make([]string, 0, len(fields))
	for name := range fields {
		if _, ok := updatableColumns[name]; !ok {
			return "", nil, fmt.Errorf("field %q is not updatable", name)
		}
		names = append(names, name)
	}
	sort.Strings(names)

	sets := make([]string, 0, len(names))
	args := make([]any, 0, len(names)+1)
	args = append(args, id)
	for i, name := range names {
		sets = append(sets, fmt.Sprintf("%s = $%d", updatableColumns[name], i+2))
		args = append(args, fields[name])
	}
	return fmt.Sprintf("UPDATE users SET %s WHERE id = $1;", strings.Join(sets, ", ")), args, nil
}
