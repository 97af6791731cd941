package store

import "time"

// Config holds table names, index names, and the retry budget.
type Config struct {
	// OrdersTable holds one record per order with embedded items and
	// packing summary. Default: "dev-promodeagro-admin-OrdersTable"
	OrdersTable string

	// PackersTable holds packer profiles keyed by packer_id.
	// Default: "dev-promodeagro-admin-PackersTable"
	PackersTable string

	// UsersTable holds login credentials keyed by id.
	// Default: "dev-promodeagro-admin-promodeagroUsers"
	UsersTable string

	// NotificationsTable holds notification records keyed by id.
	// Default: "dev-promodeagro-admin-notificationsTable"
	NotificationsTable string

	// StatusIndex is the orders GSI partitioned by status with a
	// created-at range key. Default: "statusCreatedAtIndex"
	StatusIndex string

	// EmailIndex is the users GSI partitioned by email.
	// Default: "emailIndex"
	EmailIndex string

	// UserIndex is the notifications GSI partitioned by user_id.
	// Default: "user_id-index"
	UserIndex string

	// MaxAttempts is the total number of tries for a store call that
	// keeps failing transiently. Default: 3, max: 10.
	MaxAttempts int

	// RetryBase is the first backoff delay; each further attempt doubles
	// it. Default: 100ms.
	RetryBase time.Duration
}

// DefaultConfig returns the dev environment defaults.
func DefaultConfig() Config {
	return Config{
		OrdersTable:        "dev-promodeagro-admin-OrdersTable",
		PackersTable:       "dev-promodeagro-admin-PackersTable",
		UsersTable:         "dev-promodeagro-admin-promodeagroUsers",
		NotificationsTable: "dev-promodeagro-admin-notificationsTable",
		StatusIndex:        "statusCreatedAtIndex",
		EmailIndex:         "emailIndex",
		UserIndex:          "user_id-index",
		MaxAttempts:        3,
		RetryBase:          100 * time.Millisecond,
	}
}

// validate ensures config values are within acceptable bounds.
func (c *Config) validate() {
	def := DefaultConfig()
	if c.OrdersTable == "" {
		c.OrdersTable = def.OrdersTable
	}
	if c.PackersTable == "" {
		c.PackersTable = def.PackersTable
	}
	if c.UsersTable == "" {
		c.UsersTable = def.UsersTable
	}
	if c.NotificationsTable == "" {
		c.NotificationsTable = def.NotificationsTable
	}
	if c.StatusIndex == "" {
		c.StatusIndex = def.StatusIndex
	}
	if c.EmailIndex == "" {
		c.EmailIndex = def.EmailIndex
	}
	if c.UserIndex == "" {
		c.UserIndex = def.UserIndex
	}
	if c.MaxAttempts < 1 {
		c.MaxAttempts = def.MaxAttempts
	}
	if c.MaxAttempts > 10 {
		c.MaxAttempts = 10
	}
	if c.RetryBase <= 0 {
		c.RetryBase = def.RetryBase
	}
}
