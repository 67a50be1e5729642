package commands

import (
	"context"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"roster/backend/internal/pkg/repository/postgresql"
)

type Scheme struct {
	Index       int
	Description string
	Query       string
}

var scheme = []Scheme{
	{
		Index:       1,
		Description: "Create table: users.",
		Query: `
        CREATE TABLE IF NOT EXISTS users (
            id serial primary key,
            login text not null unique,
            password text not null,
            role text not null check (role in ('ADMIN', 'OPERATOR')),
            full_name text,
            created_at timestamp not null default now(),
            created_by int references users(id),
            updated_at timestamp,
            updated_by int references users(id)
        );`,
	},
	{
		Index:       2,
		Description: "Create user with login: admin, password: 1",
		Query: `
        INSERT INTO users(login, role, password, full_name)
        SELECT 'admin', 'ADMIN', '$2a$10$NKtnMwDPFSQLG6uOi4Zqheru5Ygbj9TWFHjpl478rRSaO5cJ9QuH2', 'Administrator'
        WHERE NOT EXISTS (SELECT login FROM users WHERE login = 'admin');`,
	},
	{
		Index:       3,
		Description: "Create table: employees.",
		Query: `
        CREATE TABLE IF NOT EXISTS employees (
            id serial primary key,
            name varchar(64) not null,
            national_id varchar(64) not null,
            address varchar(128) not null,
            phone varchar(64) not null,
            age smallint not null check (age between 0 and 255),
            notes varchar(64),
            job_location varchar(32) not null,
            section varchar(64) not null,
            hired_on date not null,
            status varchar(1),
            "3ohda" varchar(16),
            kashf_amny varchar(16),
            no3_el_mo5alfa varchar(64),
            pants varchar(32),
            summer_t_shirt varchar(32),
            winter_t_shirt varchar(32),
            jacket varchar(32),
            shoes varchar(32),
            vest varchar(32),
            eish varchar(32),
            donk varchar(32),
            notes_2 varchar(32),
            created_at timestamp not null default now(),
            created_by int references users(id),
            updated_at timestamp,
            updated_by int references users(id),
            CONSTRAINT uq_employees_national_id UNIQUE (national_id)
        );`,
	},
	{
		Index:       4,
		Description: "Create table: attendances.",
		Query: `
        CREATE TABLE IF NOT EXISTS attendances (
            id serial primary key,
            employee_id int not null references employees(id),
            submitted_by int not null references users(id),
            latitude double precision,
            longitude double precision,
            note varchar(255),
            created_at timestamp not null default now()
        );`,
	},
	{
		Index:       5,
		Description: "Index attendances by employee.",
		Query: `
        CREATE INDEX IF NOT EXISTS idx_attendances_employee_created
        ON attendances (employee_id, created_at DESC);`,
	},
}

// Migrate runs every scheme query without version bookkeeping.
func Migrate(ctx context.Context, db *postgresql.Database) error {
	for _, s := range scheme {
		if _, err := db.ExecContext(ctx, s.Query); err != nil {
			return errors.Wrapf(err, "migrate %d: %s", s.Index, s.Description)
		}
	}
	return nil
}

// MigrateUP applies the scheme entries newer than the recorded version. A
// dirty version, left by a failed run, is retried first.
func MigrateUP(ctx context.Context, db *postgresql.Database, log *zap.SugaredLogger) error {
	if _, err := db.ExecContext(ctx,
		`CREATE TABLE IF NOT EXISTS schema_migrations (version int not null, dirty bool not null, error text)`); err != nil {
		return errors.Wrap(err, "creating schema_migrations")
	}
	if _, err := db.ExecContext(ctx,
		`INSERT INTO schema_migrations (version, dirty) SELECT 0, false WHERE NOT EXISTS (SELECT 1 FROM schema_migrations)`); err != nil {
		return errors.Wrap(err, "initialising schema_migrations")
	}

	var (
		version int
		dirty   bool
	)
	if err := db.QueryRowContext(ctx, `SELECT version, dirty FROM schema_migrations`).Scan(&version, &dirty); err != nil {
		return errors.Wrap(err, "reading schema_migrations")
	}

	for _, s := range scheme {
		if s.Index < version || (s.Index == version && !dirty) {
			continue
		}

		if _, err := db.ExecContext(ctx, s.Query); err != nil {
			if _, uerr := db.ExecContext(ctx,
				`UPDATE schema_migrations SET error = ?, version = ?, dirty = true`, err.Error(), s.Index); uerr != nil {
				return errors.Wrap(uerr, "recording migrate error")
			}
			return errors.Wrapf(err, "migrate version %d", s.Index)
		}

		if _, err := db.ExecContext(ctx,
			`UPDATE schema_migrations SET version = ?, dirty = false, error = null`, s.Index); err != nil {
			return errors.Wrap(err, "recording migrate version")
		}

		log.Infow("migrated", "version", s.Index, "description", s.Description)
	}

	return nil
}
