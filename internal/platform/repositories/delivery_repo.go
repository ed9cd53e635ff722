package repositories

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
	"ddsync/internal/platform/models"
)

type DeliveryRepository struct {
	db *sql.DB
}

func NewDeliveryRepository(db *sql.DB) *DeliveryRepository {
	return &DeliveryRepository{db: db}
}

func (r *DeliveryRepository) Create(d *models.WebhookDelivery) error {
	d.ID = "whd_" + uuid.New().String()
	d.CreatedAt = time.Now().Unix()

	query := `
		INSERT INTO webhook_deliveries (id, event_id, resource_type, action, outcome, reason, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	_, err := r.db.Exec(query, d.ID, d.EventID, d.ResourceType, d.Action, d.Outcome, d.Reason, d.CreatedAt)
	return err
}

func (r *DeliveryRepository) ListRecent(limit int) ([]*models.WebhookDelivery, error) {
	query := `
		SELECT id, event_id, resource_type, action, outcome, reason, created_at
		FROM webhook_deliveries
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`
	rows, err := r.db.Query(query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var deliveries []*models.WebhookDelivery
	for rows.Next() {
		var d models.WebhookDelivery
		var reason sql.NullString
		if err := rows.Scan(&d.ID, &d.EventID, &d.ResourceType, &d.Action, &d.Outcome, &reason, &d.CreatedAt); err != nil {
			return nil, err
		}
		d.Reason = reason.String
		deliveries = append(deliveries, &d)
	}
	return deliveries, rows.Err()
}
