package ldproxy

import (
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/carbocation/pfx"
	"github.com/jmoiron/sqlx"
)

// CacheKey identifies one LDproxy response. A response only answers the same
// question when all of these match.
type CacheKey struct {
	RSID        string `db:"rsid"`
	Population  string `db:"population"`
	GenomeBuild string `db:"genome_build"`
	Window      int    `db:"window_bp"`
}

type cachedResponse struct {
	CacheKey
	Body      string    `db:"body"`
	FetchedAt time.Time `db:"fetched_at"`
}

const cacheSchema = `CREATE TABLE IF NOT EXISTS ldproxy_response (
	rsid TEXT NOT NULL,
	population TEXT NOT NULL,
	genome_build TEXT NOT NULL,
	window_bp INTEGER NOT NULL,
	body TEXT NOT NULL,
	fetched_at TIMESTAMP NOT NULL,
	PRIMARY KEY (rsid, population, genome_build, window_bp)
)`

// Cache stores raw LDproxy responses in a SQLite file so that re-runs do not
// spend the service's rate limit on questions already answered.
type Cache struct {
	DB *sqlx.DB
}

func OpenCache(path string) (*Cache, error) {
	// URI filenames have to begin with 'file:'; see
	// https://www.sqlite.org/c3ref/open.html
	if !strings.HasPrefix(path, "file:") {
		path = "file:" + path
	}

	db, err := sqlx.Connect(whichSQLiteDriver, path)
	if err != nil {
		return nil, pfx.Err(err)
	}

	if _, err := db.Exec(cacheSchema); err != nil {
		db.Close()
		return nil, pfx.Err(err)
	}

	return &Cache{DB: db}, nil
}

func (c *Cache) Close() error {
	return c.DB.Close()
}

// Get returns the cached body for key, and whether one was found.
func (c *Cache) Get(key CacheKey) (string, bool, error) {
	var body string
	err := c.DB.Get(&body, `SELECT body FROM ldproxy_response
WHERE rsid=? AND population=? AND genome_build=? AND window_bp=?`,
		key.RSID, key.Population, key.GenomeBuild, key.Window)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	} else if err != nil {
		return "", false, pfx.Err(err)
	}

	return body, true, nil
}

func (c *Cache) Put(key CacheKey, body string) error {
	_, err := c.DB.NamedExec(`INSERT OR REPLACE INTO ldproxy_response
(rsid, population, genome_build, window_bp, body, fetched_at)
VALUES (:rsid, :population, :genome_build, :window_bp, :body, :fetched_at)`,
		cachedResponse{CacheKey: key, Body: body, FetchedAt: time.Now().UTC()})
	if err != nil {
		return pfx.Err(err)
	}

	return nil
}
