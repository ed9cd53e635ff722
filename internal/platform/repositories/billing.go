package repositories

import (
	"database/sql"
)

// Billing covers the recurring-contribution, contribution and membership
// tables. Method sets are split by aggregate: recurring.go, contributions.go,
// memberships.go.
type Billing struct {
	db *sql.DB
}

func NewBilling(db *sql.DB) *Billing {
	return &Billing{db: db}
}
