package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"house_crush/identity"
	"house_crush/models"
)

// PostgresStore is the optional long-term listings archive. The demo
// runs fine without it; when DATABASE_URL is set, every collected or
// searched listing is upserted here keyed by its fingerprint.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(ctx context.Context, connString string) (*PostgresStore, error) {
	config, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	config.MaxConns = 10
	config.MinConns = 2
	config.MaxConnLifetime = 30 * time.Minute
	config.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}

	store := &PostgresStore{pool: pool}
	if err := store.migrate(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return store, nil
}

func (s *PostgresStore) Close() {
	s.pool.Close()
}

func (s *PostgresStore) migrate(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS listings (
		id UUID PRIMARY KEY,
		fingerprint TEXT UNIQUE NOT NULL,
		title TEXT NOT NULL,
		price INTEGER,
		location TEXT,
		bedrooms INTEGER,
		bathrooms INTEGER,
		amenities TEXT[],
		description TEXT,
		match_score INTEGER,
		contact_name TEXT,
		contact_phone TEXT,
		contact_email TEXT,
		source_website TEXT,
		listing_url TEXT,
		availability_date TEXT,
		first_seen_at TIMESTAMPTZ NOT NULL,
		last_seen_at TIMESTAMPTZ NOT NULL,
		times_seen INTEGER DEFAULT 1
	);
	CREATE INDEX IF NOT EXISTS idx_listings_location ON listings(location);
	CREATE INDEX IF NOT EXISTS idx_listings_last_seen ON listings(last_seen_at);
	`
	_, err := s.pool.Exec(ctx, schema)
	if err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

// SaveListings upserts a batch, bumping last_seen_at and times_seen
// for listings already archived.
func (s *PostgresStore) SaveListings(ctx context.Context, listings []models.Listing) error {
	batch := &pgx.Batch{}
	now := time.Now()

	for i := range listings {
		l := &listings[i]
		batch.Queue(`
			INSERT INTO listings (
				id, fingerprint, title, price, location, bedrooms, bathrooms,
				amenities, description, match_score, contact_name, contact_phone,
				contact_email, source_website, listing_url, availability_date,
				first_seen_at, last_seen_at, times_seen
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $17, 1)
			ON CONFLICT (fingerprint) DO UPDATE SET
				price = COALESCE(EXCLUDED.price, listings.price),
				match_score = EXCLUDED.match_score,
				listing_url = COALESCE(NULLIF(EXCLUDED.listing_url, ''), listings.listing_url),
				last_seen_at = EXCLUDED.last_seen_at,
				times_seen = listings.times_seen + 1`,
			uuid.New(), identity.Fingerprint(l), l.Title, l.Price, l.Location,
			l.Bedrooms, l.Bathrooms, l.Amenities, l.Description, l.MatchScore,
			l.Contact.Name, l.Contact.Phone, l.Contact.Email, l.SourceWebsite,
			l.ListingURL, l.AvailabilityDate, now)
	}

	results := s.pool.SendBatch(ctx, batch)
	defer results.Close()

	for range listings {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("upsert listing: %w", err)
		}
	}
	return nil
}

// RecentListings returns archived listings for a location, newest
// first. location matches as a case-insensitive substring.
func (s *PostgresStore) RecentListings(ctx context.Context, location string, limit int) ([]models.Listing, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := s.pool.Query(ctx, `
		SELECT title, price, location, bedrooms, bathrooms, amenities, description,
			match_score, contact_name, contact_phone, contact_email,
			source_website, listing_url, availability_date, last_seen_at
		FROM listings
		WHERE $1 = '' OR location ILIKE '%' || $1 || '%'
		ORDER BY last_seen_at DESC
		LIMIT $2`, location, limit)
	if err != nil {
		return nil, fmt.Errorf("query listings: %w", err)
	}
	defer rows.Close()

	var listings []models.Listing
	for rows.Next() {
		l := models.NewListing()
		if err := rows.Scan(&l.Title, &l.Price, &l.Location, &l.Bedrooms, &l.Bathrooms,
			&l.Amenities, &l.Description, &l.MatchScore, &l.Contact.Name,
			&l.Contact.Phone, &l.Contact.Email, &l.SourceWebsite, &l.ListingURL,
			&l.AvailabilityDate, &l.CollectedAt); err != nil {
			return nil, fmt.Errorf("scan listing: %w", err)
		}
		l.Rank = len(listings) + 1
		listings = append(listings, l)
	}
	return listings, rows.Err()
}
