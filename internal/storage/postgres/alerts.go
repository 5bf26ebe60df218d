package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wobin1/citizen-safety-backend/internal/domain"
	"github.com/wobin1/citizen-safety-backend/pkg/e"
)

type AlertRepo struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

func NewAlertRepo(pool *pgxpool.Pool, logger *slog.Logger) *AlertRepo {
	return &AlertRepo{pool: pool, logger: logger}
}

const alertColumns = `id, trigger_source, type, message, location_lat, location_lon,
	   radius_km, broadcast_type, status, created_at, cooldown_until, triggered_by`

func scanAlert(row pgx.Row) (*domain.Alert, error) {
	var a domain.Alert
	err := row.Scan(
		&a.ID,
		&a.TriggerSource,
		&a.Type,
		&a.Message,
		&a.LocationLat,
		&a.LocationLon,
		&a.RadiusKM,
		&a.BroadcastType,
		&a.Status,
		&a.CreatedAt,
		&a.CooldownUntil,
		&a.TriggeredBy,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (p *AlertRepo) Create(ctx context.Context, alert *domain.Alert) error {
	const op = "postgres.Alert.Create"

	const query = `
		INSERT INTO alerts
		(id, trigger_source, type, message, location_lat, location_lon,
		 radius_km, broadcast_type, status, created_at, triggered_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	if alert.ID == uuid.Nil {
		alert.ID = uuid.New()
	}
	if alert.CreatedAt.IsZero() {
		alert.CreatedAt = time.Now().UTC()
	}
	if alert.Status == "" {
		alert.Status = domain.AlertActive
	}

	_, err := p.pool.Exec(ctx, query,
		alert.ID,
		alert.TriggerSource,
		alert.Type,
		alert.Message,
		alert.LocationLat,
		alert.LocationLon,
		alert.RadiusKM,
		alert.BroadcastType,
		alert.Status,
		alert.CreatedAt,
		alert.TriggeredBy,
	)
	if err != nil {
		p.logger.Error("db exec failed",
			slog.String("op", op),
			slog.Any("error", err),
		)
		return e.WrapError(ctx, op, err)
	}

	return nil
}

func (p *AlertRepo) Get(ctx context.Context, id uuid.UUID) (*domain.Alert, error) {
	const op = "postgres.Alert.Get"

	query := fmt.Sprintf(`SELECT %s FROM alerts WHERE id = $1`, alertColumns)

	a, err := scanAlert(p.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, e.ErrNotFound)
		}
		p.logger.Error("db queryrow scan failed", slog.String("op", op), slog.Any("error", err), slog.String("id", id.String()))
		return nil, e.WrapError(ctx, op, err)
	}

	return a, nil
}

func (p *AlertRepo) Resolve(ctx context.Context, id uuid.UUID, cooldownUntil time.Time) error {
	const op = "postgres.Alert.Resolve"

	const query = `
		UPDATE alerts
		SET status = 'RESOLVED',
			cooldown_until = $2
		WHERE id = $1
	`

	cmd, err := p.pool.Exec(ctx, query, id, cooldownUntil)
	if err != nil {
		p.logger.Error("db exec failed", slog.String("op", op), slog.Any("error", err), slog.String("id", id.String()))
		return e.WrapError(ctx, op, err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("%s: %w", op, e.ErrNotFound)
	}

	return nil
}

func (p *AlertRepo) ListActive(ctx context.Context) ([]*domain.Alert, error) {
	const op = "postgres.Alert.ListActive"

	query := fmt.Sprintf(`
		SELECT %s
		FROM alerts
		WHERE status = 'ACTIVE'
		ORDER BY created_at DESC
	`, alertColumns)

	rows, err := p.pool.Query(ctx, query)
	if err != nil {
		p.logger.Error("db query failed", slog.String("op", op), slog.Any("error", err))
		return nil, e.WrapError(ctx, op, err)
	}
	defer rows.Close()

	var alerts []*domain.Alert
	for rows.Next() {
		a, err := scanAlert(rows)
		if err != nil {
			p.logger.Error("row scan failed", slog.String("op", op), slog.Any("error", err))
			return nil, e.WrapError(ctx, op, err)
		}
		alerts = append(alerts, a)
	}
	if err := rows.Err(); err != nil {
		p.logger.Error("rows err", slog.String("op", op), slog.Any("error", err))
		return nil, e.WrapError(ctx, op, err)
	}

	return alerts, nil
}

func (p *AlertRepo) List(ctx context.Context, req domain.ListAlertsRequest) ([]*domain.Alert, int64, error) {
	const op = "postgres.Alert.List"

	page := req.Page
	if page < 1 {
		page = 1
	}
	pageSize := req.PageSize
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 10
	}
	offset := (page - 1) * pageSize

	var conditions []string
	var params []any

	if req.Status != "" {
		params = append(params, req.Status)
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(params)))
	}
	if req.Search != "" {
		params = append(params, "%"+req.Search+"%")
		conditions = append(conditions, fmt.Sprintf("(type ILIKE $%d OR message ILIKE $%d)", len(params), len(params)))
	}

	where := ""
	if len(conditions) > 0 {
		where = " WHERE " + strings.Join(conditions, " AND ")
	}

	countQuery := "SELECT COUNT(*) FROM alerts" + where

	var total int64
	if err := p.pool.QueryRow(ctx, countQuery, params...).Scan(&total); err != nil {
		p.logger.Error("db count failed", slog.String("op", op), slog.Any("error", err))
		return nil, 0, e.WrapError(ctx, op, err)
	}

	listQuery := fmt.Sprintf(`
		SELECT %s
		FROM alerts%s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d
	`, alertColumns, where, len(params)+1, len(params)+2)
	params = append(params, pageSize, offset)

	rows, err := p.pool.Query(ctx, listQuery, params...)
	if err != nil {
		p.logger.Error("db query failed", slog.String("op", op), slog.Any("error", err))
		return nil, 0, e.WrapError(ctx, op, err)
	}
	defer rows.Close()

	var alerts []*domain.Alert
	for rows.Next() {
		a, err := scanAlert(rows)
		if err != nil {
			p.logger.Error("row scan failed", slog.String("op", op), slog.Any("error", err))
			return nil, 0, e.WrapError(ctx, op, err)
		}
		alerts = append(alerts, a)
	}
	if err := rows.Err(); err != nil {
		p.logger.Error("rows err", slog.String("op", op), slog.Any("error", err))
		return nil, 0, e.WrapError(ctx, op, err)
	}

	return alerts, total, nil
}
