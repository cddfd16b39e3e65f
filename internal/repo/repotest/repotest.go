// Package repotest opens throwaway sqlite databases carrying the jobify schema.
package repotest

import (
	"database/sql"
	"path/filepath"
	"testing"

	"jobify-api/internal/repo"
	"jobify-api/pkg/postgres"

	"github.com/Masterminds/squirrel"
	_ "modernc.org/sqlite"
)

// Schema mirrors migrations/000001_init.up.sql in sqlite types.
var Schema = []string{
	`CREATE TABLE client (id TEXT PRIMARY KEY, email TEXT NOT NULL UNIQUE, password TEXT NOT NULL, type TEXT NOT NULL,
		first_name TEXT NOT NULL DEFAULT '', last_name TEXT NOT NULL DEFAULT '', company_name TEXT NOT NULL DEFAULT '',
		address TEXT NOT NULL DEFAULT '', city TEXT NOT NULL DEFAULT '', country TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL DEFAULT 'active', created_at TIMESTAMP NOT NULL)`,
	`CREATE TABLE service_provider (id TEXT PRIMARY KEY, email TEXT NOT NULL UNIQUE, password TEXT NOT NULL,
		first_name TEXT NOT NULL, last_name TEXT NOT NULL, address TEXT NOT NULL DEFAULT '', city TEXT NOT NULL DEFAULT '',
		country TEXT NOT NULL DEFAULT '', iban TEXT NOT NULL DEFAULT '', bank_name TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL DEFAULT 'active', created_at TIMESTAMP NOT NULL)`,
	`CREATE TABLE job_ad (id TEXT PRIMARY KEY, client_id TEXT NOT NULL REFERENCES client(id), title TEXT NOT NULL,
		description TEXT NOT NULL, hourly_rate NUMERIC NOT NULL, payment_currency TEXT NOT NULL, working_hours INTEGER NOT NULL,
		duration TEXT NOT NULL, work_deadline TIMESTAMP NOT NULL, application_deadline TIMESTAMP NOT NULL,
		status TEXT NOT NULL DEFAULT 'active', customer_id TEXT, created_at TIMESTAMP NOT NULL)`,
	`CREATE TABLE job_vacancy (id TEXT PRIMARY KEY, job_ad_id TEXT NOT NULL, service_provider_id TEXT NOT NULL,
		job_status TEXT NOT NULL DEFAULT 'neutral', application_status TEXT NOT NULL DEFAULT 'applied',
		service_provider_stripe_account_id TEXT, applied_at TIMESTAMP NOT NULL, UNIQUE (job_ad_id, service_provider_id))`,
	`CREATE UNIQUE INDEX job_vacancy_one_selected ON job_vacancy (job_ad_id) WHERE application_status = 'selected'`,
	`CREATE TABLE job_contract (id TEXT PRIMARY KEY, job_ad_id TEXT NOT NULL UNIQUE, status TEXT NOT NULL DEFAULT 'pending',
		contract BLOB, client_signature BLOB, service_provider_signature BLOB, price_id TEXT, product_id TEXT,
		drafted_at TIMESTAMP NOT NULL, created_at TIMESTAMP NOT NULL, updated_at TIMESTAMP NOT NULL)`,
	`CREATE TABLE contract_payment (id TEXT PRIMARY KEY, job_contract_id TEXT NOT NULL UNIQUE, invoice_id TEXT,
		session_id TEXT, amount NUMERIC NOT NULL, status TEXT NOT NULL DEFAULT 'pending', invoice_pdf BLOB,
		created_at TIMESTAMP NOT NULL)`,
}

// Open creates a file backed database in the test's temp dir. It is closed
// when the test ends.
func Open(t testing.TB) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "jobify.db"))
	if err != nil {
		t.Fatalf("failed to open db: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	for _, s := range Schema {
		if _, err := db.Exec(s); err != nil {
			t.Fatalf("failed to exec schema: %v", err)
		}
	}

	return db
}

func Repositories(t testing.TB) *repo.Repositories {
	t.Helper()

	return repo.NewRepositories(postgres.Wrap(Open(t), squirrel.Question))
}
