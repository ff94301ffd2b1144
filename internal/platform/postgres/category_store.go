package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/flashdeck/internal/domain"
	"github.com/phrazzld/flashdeck/internal/platform/logger"
	"github.com/phrazzld/flashdeck/internal/store"
)

// PostgresCategoryStore implements store.CategoryStore on PostgreSQL.
type PostgresCategoryStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresCategoryStore creates a category store on db.
func NewPostgresCategoryStore(db store.DBTX, logger *slog.Logger) *PostgresCategoryStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresCategoryStore{
		db:     db,
		logger: logger.With(slog.String("component", "category_store")),
	}
}

var _ store.CategoryStore = (*PostgresCategoryStore)(nil)

// Create inserts category. A parent owned by another user is rejected the
// same way as a missing one.
func (s *PostgresCategoryStore) Create(ctx context.Context, category *domain.Category) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := category.Validate(); err != nil {
		log.Warn("category validation failed during create",
			slog.String("error", err.Error()),
			slog.String("category_id", category.ID.String()))
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	var parentID uuid.NullUUID
	if category.ParentID != nil {
		parentID = uuid.NullUUID{UUID: *category.ParentID, Valid: true}
	}

	query := `
		INSERT INTO categories (id, user_id, name, parent_id, created_at, updated_at)
		SELECT $1::uuid, $2::uuid, $3::text, $4::uuid, $5::timestamptz, $6::timestamptz
		WHERE $4::uuid IS NULL
		   OR EXISTS (SELECT 1 FROM categories WHERE id = $4 AND user_id = $2)
	`
	result, err := s.db.ExecContext(ctx, query,
		category.ID,
		category.UserID,
		category.Name,
		parentID,
		category.CreatedAt,
		category.UpdatedAt,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			log.Warn("duplicate category name",
				slog.String("user_id", category.UserID.String()),
				slog.String("name", category.Name))
			return fmt.Errorf("%w: category %q", store.ErrDuplicate, category.Name)
		}
		log.Error("failed to create category",
			slog.String("error", err.Error()),
			slog.String("category_id", category.ID.String()))
		return MapError(err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return store.NewStoreError("category", "create", "failed to read rows affected", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: parent category %s not found", store.ErrInvalidEntity, category.ParentID)
	}

	log.Info("category created",
		slog.String("category_id", category.ID.String()),
		slog.String("user_id", category.UserID.String()))
	return nil
}

// ListByUser returns the user's categories ordered by name.
func (s *PostgresCategoryStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Category, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, name, parent_id, created_at, updated_at
		FROM categories
		WHERE user_id = $1
		ORDER BY name ASC, id`, userID)
	if err != nil {
		log.Error("failed to list categories",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, store.NewStoreError("category", "list", "query failed", MapError(err))
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			log.Warn("failed to close category rows", slog.String("error", cerr.Error()))
		}
	}()

	categories := []domain.Category{}
	for rows.Next() {
		var (
			c        domain.Category
			parentID uuid.NullUUID
		)
		if err := rows.Scan(&c.ID, &c.UserID, &c.Name, &parentID, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, store.NewStoreError("category", "list", "scan failed", err)
		}
		if parentID.Valid {
			id := parentID.UUID
			c.ParentID = &id
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, store.NewStoreError("category", "list", "row iteration failed", err)
	}
	return categories, nil
}

// CountByUser returns how many categories the user owns.
func (s *PostgresCategoryStore) CountByUser(ctx context.Context, userID uuid.UUID) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM categories WHERE user_id = $1`, userID).Scan(&n)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to count categories",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return 0, store.NewStoreError("category", "count", "query failed", MapError(err))
	}
	return n, nil
}
