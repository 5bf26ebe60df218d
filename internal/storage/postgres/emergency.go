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

type EmergencyRepo struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

func NewEmergencyRepo(pool *pgxpool.Pool, logger *slog.Logger) *EmergencyRepo {
	return &EmergencyRepo{pool: pool, logger: logger}
}

const emergencyColumns = `id, user_id, type, description, location_lat, location_lon,
	   severity, status, rejection_reason, responder_id, created_at, updated_at`

func scanEmergency(row pgx.Row) (*domain.Emergency, error) {
	var em domain.Emergency
	err := row.Scan(
		&em.ID,
		&em.UserID,
		&em.Type,
		&em.Description,
		&em.LocationLat,
		&em.LocationLon,
		&em.Severity,
		&em.Status,
		&em.RejectionReason,
		&em.ResponderID,
		&em.CreatedAt,
		&em.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &em, nil
}

func (p *EmergencyRepo) Create(ctx context.Context, em *domain.Emergency) error {
	const op = "postgres.Emergency.Create"

	const query = `
		INSERT INTO emergency
		(id, user_id, type, description, location_lat, location_lon, severity, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	if em.ID == uuid.Nil {
		em.ID = uuid.New()
	}
	if em.CreatedAt.IsZero() {
		em.CreatedAt = time.Now().UTC()
	}
	if em.Status == "" {
		em.Status = domain.EmergencyReported
	}

	_, err := p.pool.Exec(ctx, query,
		em.ID,
		em.UserID,
		em.Type,
		em.Description,
		em.LocationLat,
		em.LocationLon,
		em.Severity,
		em.Status,
		em.CreatedAt,
	)
	if err != nil {
		p.logger.Error("db exec failed", slog.String("op", op), slog.Any("error", err))
		return e.WrapError(ctx, op, err)
	}

	return nil
}

func (p *EmergencyRepo) Get(ctx context.Context, id uuid.UUID) (*domain.Emergency, error) {
	const op = "postgres.Emergency.Get"

	query := fmt.Sprintf(`SELECT %s FROM emergency WHERE id = $1`, emergencyColumns)

	em, err := scanEmergency(p.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, e.ErrNotFound)
		}
		p.logger.Error("db queryrow scan failed", slog.String("op", op), slog.Any("error", err), slog.String("id", id.String()))
		return nil, e.WrapError(ctx, op, err)
	}

	return em, nil
}

func (p *EmergencyRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.EmergencyStatus, rejectionReason *string, responderID uuid.UUID) error {
	const op = "postgres.Emergency.UpdateStatus"

	const query = `
		UPDATE emergency
		SET status = $2,
			rejection_reason = $3,
			responder_id = $4,
			updated_at = NOW()
		WHERE id = $1
	`

	cmd, err := p.pool.Exec(ctx, query, id, status, rejectionReason, responderID)
	if err != nil {
		p.logger.Error("db exec failed", slog.String("op", op), slog.Any("error", err), slog.String("id", id.String()))
		return e.WrapError(ctx, op, err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("%s: %w", op, e.ErrNotFound)
	}

	return nil
}

func (p *EmergencyRepo) List(ctx context.Context, req domain.ListEmergenciesRequest) ([]*domain.Emergency, int64, error) {
	const op = "postgres.Emergency.List"

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

	where := ""
	if len(conditions) > 0 {
		where = " WHERE " + strings.Join(conditions, " AND ")
	}

	var total int64
	if err := p.pool.QueryRow(ctx, "SELECT COUNT(*) FROM emergency"+where, params...).Scan(&total); err != nil {
		p.logger.Error("db count failed", slog.String("op", op), slog.Any("error", err))
		return nil, 0, e.WrapError(ctx, op, err)
	}

	listQuery := fmt.Sprintf(`
		SELECT %s
		FROM emergency%s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d
	`, emergencyColumns, where, len(params)+1, len(params)+2)
	params = append(params, pageSize, offset)

	rows, err := p.pool.Query(ctx, listQuery, params...)
	if err != nil {
		p.logger.Error("db query failed", slog.String("op", op), slog.Any("error", err))
		return nil, 0, e.WrapError(ctx, op, err)
	}
	defer rows.Close()

	var items []*domain.Emergency
	for rows.Next() {
		em, err := scanEmergency(rows)
		if err != nil {
			p.logger.Error("row scan failed", slog.String("op", op), slog.Any("error", err))
			return nil, 0, e.WrapError(ctx, op, err)
		}
		items = append(items, em)
	}
	if err := rows.Err(); err != nil {
		p.logger.Error("rows err", slog.String("op", op), slog.Any("error", err))
		return nil, 0, e.WrapError(ctx, op, err)
	}

	return items, total, nil
}
