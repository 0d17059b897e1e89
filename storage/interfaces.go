package storage

import "bigfuture-scraper/models"

// RowSink receives fully merged dataset rows. Secondary stores (such
// as the Postgres mirror) implement it so the scrape loop stays
// decoupled from any particular backend.
type RowSink interface {
	UpsertRow(row models.Row) error
	Close() error
}
