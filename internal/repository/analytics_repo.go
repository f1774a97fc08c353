package repository

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"styledeco/internal/domain"
)

// AnalyticsRepository runs read-only aggregates over bookings and payments.
// Queries are written with ? placeholders and rebound for the driver.
type AnalyticsRepository struct {
	db *sqlx.DB
}

func NewAnalyticsRepository(db *sqlx.DB) *AnalyticsRepository {
	return &AnalyticsRepository{db: db}
}

type ServiceRevenue struct {
	ServiceName string          `db:"service_name" json:"serviceName"`
	Revenue     decimal.Decimal `db:"revenue" json:"revenue"`
	Payments    int64           `db:"payments" json:"payments"`
}

type KeyCount struct {
	Key   string `db:"label" json:"key"`
	Count int64  `db:"total" json:"count"`
}

const revenueByServiceQuery = `
	SELECT p.service_name AS service_name,
	       COALESCE(SUM(p.amount), 0) AS revenue,
	       COUNT(*) AS payments
	FROM payments p`

func (r *AnalyticsRepository) RevenueByService(ctx context.Context, decoratorEmail string) ([]ServiceRevenue, error) {
	query := revenueByServiceQuery
	args := []any{}
	if decoratorEmail != "" {
		query += ` JOIN bookings b ON b.id = p.booking_id WHERE p.status = ? AND b.decorator_email = ?`
		args = append(args, string(domain.PaymentPaid), decoratorEmail)
	} else {
		query += ` WHERE p.status = ?`
		args = append(args, string(domain.PaymentPaid))
	}
	query += ` GROUP BY p.service_name ORDER BY service_name ASC`

	rows := []ServiceRevenue{}
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(query), args...); err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *AnalyticsRepository) BookingCountByUser(ctx context.Context) ([]KeyCount, error) {
	return r.bookingCountBy(ctx, "user_email")
}

func (r *AnalyticsRepository) BookingCountByService(ctx context.Context) ([]KeyCount, error) {
	return r.bookingCountBy(ctx, "service_name")
}

// column is always one of the fixed names above, never caller input.
func (r *AnalyticsRepository) bookingCountBy(ctx context.Context, column string) ([]KeyCount, error) {
	query := `SELECT ` + column + ` AS label, COUNT(*) AS total
		FROM bookings
		GROUP BY ` + column + `
		ORDER BY total DESC, label ASC`

	rows := []KeyCount{}
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *AnalyticsRepository) CountPaidBookings(ctx context.Context, assigned bool) (int64, error) {
	query := r.db.Rebind(`SELECT COUNT(*) FROM bookings WHERE status = ? AND decorator_assigned = ?`)

	var n int64
	err := r.db.GetContext(ctx, &n, query, string(domain.BookingPaid), assigned)
	return n, err
}

func (r *AnalyticsRepository) PaymentCountByStatus(ctx context.Context) ([]KeyCount, error) {
	rows := []KeyCount{}
	err := r.db.SelectContext(ctx, &rows, `
		SELECT status AS label, COUNT(*) AS total
		FROM payments
		GROUP BY status
		ORDER BY label ASC`)
	if err != nil {
		return nil, err
	}
	return rows, nil
}
