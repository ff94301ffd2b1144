package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/flashdeck/internal/domain"
	"github.com/phrazzld/flashdeck/internal/platform/logger"
	"github.com/phrazzld/flashdeck/internal/store"
)

// PostgresCardStore implements store.CardStore on PostgreSQL. Multiple-choice
// options are kept in a JSONB column.
type PostgresCardStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresCardStore creates a card store on db, which may be a pool or a
// transaction. A nil logger falls back to slog.Default.
func NewPostgresCardStore(db store.DBTX, logger *slog.Logger) *PostgresCardStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresCardStore{
		db:     db,
		logger: logger.With(slog.String("component", "card_store")),
	}
}

var _ store.CardStore = (*PostgresCardStore)(nil)

const cardColumns = `id, user_id, category_id, front, back, back_image_url,
	correct_count, incorrect_count, card_type, options, correct_option,
	created_at, updated_at`

// Create inserts card. The category, when set, must belong to the same user;
// the insert selects it under that constraint so a foreign category is
// reported as an invalid entity rather than silently attached.
func (s *PostgresCardStore) Create(ctx context.Context, card *domain.Card) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := card.Validate(); err != nil {
		log.Warn("card validation failed during create",
			slog.String("error", err.Error()),
			slog.String("card_id", card.ID.String()))
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	var options []byte
	if len(card.Options) > 0 {
		var err error
		if options, err = json.Marshal(card.Options); err != nil {
			return store.NewStoreError("card", "create", "failed to encode options", err)
		}
	}

	var categoryID uuid.NullUUID
	if card.CategoryID != nil {
		categoryID = uuid.NullUUID{UUID: *card.CategoryID, Valid: true}
	}

	var correctOption sql.NullInt64
	if card.CorrectOption != nil {
		correctOption = sql.NullInt64{Int64: int64(*card.CorrectOption), Valid: true}
	}

	query := `
		INSERT INTO cards (` + cardColumns + `)
		SELECT $1::uuid, $2::uuid, $3::uuid, $4::text, $5::text, $6::text,
			$7::int, $8::int, $9::text, $10::jsonb, $11::int,
			$12::timestamptz, $13::timestamptz
		WHERE $3::uuid IS NULL
		   OR EXISTS (SELECT 1 FROM categories WHERE id = $3 AND user_id = $2)
	`
	result, err := s.db.ExecContext(ctx, query,
		card.ID,
		card.UserID,
		categoryID,
		card.Front,
		card.Back,
		card.BackImageURL,
		card.CorrectCount,
		card.IncorrectCount,
		string(card.Type()),
		options,
		correctOption,
		card.CreatedAt,
		card.UpdatedAt,
	)
	if err != nil {
		log.Error("failed to create card",
			slog.String("error", err.Error()),
			slog.String("card_id", card.ID.String()),
			slog.String("user_id", card.UserID.String()))
		return MapError(err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return store.NewStoreError("card", "create", "failed to read rows affected", err)
	}
	if rows == 0 {
		log.Warn("card category not owned by user",
			slog.String("card_id", card.ID.String()),
			slog.String("user_id", card.UserID.String()))
		return fmt.Errorf("%w: category %s not found", store.ErrInvalidEntity, card.CategoryID)
	}

	log.Info("card created",
		slog.String("card_id", card.ID.String()),
		slog.String("user_id", card.UserID.String()))
	return nil
}

// ListByUser returns the user's cards, newest first.
func (s *PostgresCardStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Card, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT ` + cardColumns + `
		FROM cards
		WHERE user_id = $1
		ORDER BY created_at DESC, id`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		log.Error("failed to list cards",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, store.NewStoreError("card", "list", "query failed", MapError(err))
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			log.Warn("failed to close card rows", slog.String("error", cerr.Error()))
		}
	}()

	cards := []domain.Card{}
	for rows.Next() {
		card, err := scanCard(rows)
		if err != nil {
			return nil, store.NewStoreError("card", "list", "scan failed", err)
		}
		cards = append(cards, card)
	}
	if err := rows.Err(); err != nil {
		return nil, store.NewStoreError("card", "list", "row iteration failed", err)
	}

	log.Debug("listed cards",
		slog.String("user_id", userID.String()),
		slog.Int("count", len(cards)))
	return cards, nil
}

// CountByUser returns how many cards the user owns.
func (s *PostgresCardStore) CountByUser(ctx context.Context, userID uuid.UUID) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM cards WHERE user_id = $1`, userID).Scan(&n)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to count cards",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return 0, store.NewStoreError("card", "count", "query failed", MapError(err))
	}
	return n, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCard(row rowScanner) (domain.Card, error) {
	var (
		card          domain.Card
		categoryID    uuid.NullUUID
		cardType      string
		options       []byte
		correctOption sql.NullInt64
	)
	err := row.Scan(
		&card.ID,
		&card.UserID,
		&categoryID,
		&card.Front,
		&card.Back,
		&card.BackImageURL,
		&card.CorrectCount,
		&card.IncorrectCount,
		&cardType,
		&options,
		&correctOption,
		&card.CreatedAt,
		&card.UpdatedAt,
	)
	if err != nil {
		return domain.Card{}, err
	}

	card.CardType = domain.CardType(cardType)
	if categoryID.Valid {
		id := categoryID.UUID
		card.CategoryID = &id
	}
	if len(options) > 0 {
		if err := json.Unmarshal(options, &card.Options); err != nil {
			return domain.Card{}, fmt.Errorf("decode options of card %s: %w", card.ID, err)
		}
	}
	if correctOption.Valid {
		idx := int(correctOption.Int64)
		card.CorrectOption = &idx
	}
	return card, nil
}
