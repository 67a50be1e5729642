// Package postgresql wires bun to PostgreSQL and carries the helpers shared
// by every repository.
package postgresql

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/pkg/errors"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/extra/bundebug"

	"roster/backend/foundation/web"
	"roster/backend/internal/auth"
	"roster/backend/internal/repository/postgres"
)

// SQLState codes inspected by the repositories.
const (
	UniqueViolation     = "23505"
	ForeignKeyViolation = "23503"
)

type Config struct {
	User       string
	Password   string
	Host       string
	Name       string
	DisableTLS bool
	Debug      bool
}

type Database struct {
	*bun.DB
}

// New opens a bun database on top of the pgdriver connector.
func New(cfg Config) (*Database, error) {
	opts := []pgdriver.Option{
		pgdriver.WithAddr(cfg.Host),
		pgdriver.WithUser(cfg.User),
		pgdriver.WithPassword(cfg.Password),
		pgdriver.WithDatabase(cfg.Name),
		pgdriver.WithTimeout(5 * time.Second),
	}
	if cfg.DisableTLS {
		opts = append(opts, pgdriver.WithInsecure(true))
	}

	sqldb := sql.OpenDB(pgdriver.NewConnector(opts...))

	db := bun.NewDB(sqldb, pgdialect.New())
	if cfg.Debug {
		db.AddQueryHook(bundebug.NewQueryHook(bundebug.WithVerbose(true)))
	}

	return &Database{DB: db}, nil
}

// NewFromDB wraps an existing *sql.DB, used by tests with sqlmock.
func NewFromDB(sqldb *sql.DB) *Database {
	return &Database{DB: bun.NewDB(sqldb, pgdialect.New())}
}

// StatusCheck returns nil if it can successfully talk to the database.
func (d Database) StatusCheck(ctx context.Context) error {
	var tmp bool
	return d.QueryRowContext(ctx, `SELECT true`).Scan(&tmp)
}

// CheckClaims returns the claims attached to the request context and makes
// sure the caller holds one of the given roles.
func (d Database) CheckClaims(ctx context.Context, roles ...string) (auth.Claims, error) {
	claims, ok := ctx.Value(auth.Key).(auth.Claims)
	if !ok {
		return auth.Claims{}, web.NewRequestError(errors.New("claims missing from context"), http.StatusUnauthorized)
	}

	if len(roles) > 0 && !claims.Authorized(roles...) {
		return auth.Claims{}, web.NewRequestError(errors.New("attempted action is not allowed"), http.StatusForbidden)
	}

	return claims, nil
}

// Exists reports whether a row with column = value exists in table, ignoring
// the row whose id is ignoreID when it is non-zero.
func (d Database) Exists(ctx context.Context, table, column, value string, ignoreID int) (bool, error) {
	q := d.NewSelect().
		TableExpr("?", bun.Ident(table)).
		Where("? = ?", bun.Ident(column), value)
	if ignoreID != 0 {
		q.Where("id != ?", ignoreID)
	}

	exists, err := q.Exists(ctx)
	if err != nil {
		return false, errors.Wrapf(err, "checking %s.%s", table, column)
	}

	return exists, nil
}

// DeleteRow removes the row with the given id and reports ErrNotFound when
// nothing was deleted.
func (d Database) DeleteRow(ctx context.Context, table string, id int) error {
	res, err := d.NewDelete().
		TableExpr("?", bun.Ident(table)).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return web.NewRequestError(errors.Wrapf(err, "deleting %s", table), http.StatusInternalServerError)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return errors.Wrapf(err, "deleting %s", table)
	}
	if n == 0 {
		return web.NewRequestError(postgres.ErrNotFound, http.StatusNotFound)
	}

	return nil
}

// SQLState returns the PostgreSQL error code carried by err, if any.
func SQLState(err error) string {
	var pgErr pgdriver.Error
	if errors.As(err, &pgErr) {
		return pgErr.Field('C')
	}
	return ""
}

// ConstraintName returns the violated constraint carried by err, if any.
func ConstraintName(err error) string {
	var pgErr pgdriver.Error
	if errors.As(err, &pgErr) {
		return pgErr.Field('n')
	}
	return ""
}
