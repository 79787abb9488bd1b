package constants

import "time"

const (
	ExternalAPITimeout = 30 * time.Second
	DatabaseTimeout    = 5 * time.Second
	SyncTimeout        = 5 * time.Minute
)

// BGG answers 202 while it builds a collection export; poll until ready.
const (
	BGGQueueRetryDelay = 2 * time.Second
	BGGQueueMaxRetries = 10
	BGGPlaysPageSize   = 100
)

const (
	DBMaxOpenConns    = 100
	DBMaxIdleConns    = 10
	DBConnMaxLifetime = 1 * time.Hour
	DBMaxIdleTime     = 10 * time.Minute
	DBBatchSize       = 100
)

const (
	ShutdownTimeout = 5 * time.Second
)
