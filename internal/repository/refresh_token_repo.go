package repository

import (
	"context"
	"fmt"
	"time"

	"bookclub/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RefreshTokenRepository provides DB access for refresh tokens.
type RefreshTokenRepository struct {
	db *gorm.DB
}

func NewRefreshTokenRepository(db *gorm.DB) *RefreshTokenRepository {
	return &RefreshTokenRepository{db: db}
}

func (r *RefreshTokenRepository) Create(ctx context.Context, t *domain.RefreshToken) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	t.Expiry = t.Expiry.UTC()
	if err := r.db.WithContext(ctx).Create(t).Error; err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("create refresh token: %w", err)
	}
	return nil
}

// Update overwrites token and expiry of an existing row.
func (r *RefreshTokenRepository) Update(ctx context.Context, t *domain.RefreshToken) error {
	res := r.db.WithContext(ctx).Model(&domain.RefreshToken{}).
		Where("id = ?", t.ID).
		Updates(map[string]any{
			"token":      t.Token,
			"expiry":     t.Expiry.UTC(),
			"updated_at": time.Now().UTC(),
		})
	if res.Error != nil {
		return fmt.Errorf("update refresh token: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Upsert stores token as the only refresh token of userID. A single
// INSERT ... ON CONFLICT (user_id) statement keeps concurrent logins from
// creating a second row; the last writer wins.
func (r *RefreshTokenRepository) Upsert(ctx context.Context, userID uuid.UUID, token string, expiry time.Time) error {
	now := time.Now().UTC()
	row := domain.RefreshToken{
		ID:        uuid.New(),
		UserID:    userID,
		Token:     token,
		Expiry:    expiry.UTC(),
		CreatedAt: now,
		UpdatedAt: now,
	}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"token", "expiry", "updated_at"}),
	}).Create(&row).Error
	if err != nil {
		return fmt.Errorf("upsert refresh token: %w", err)
	}
	return nil
}

func (r *RefreshTokenRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*domain.RefreshToken, error) {
	var t domain.RefreshToken
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&t).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *RefreshTokenRepository) FindByToken(ctx context.Context, token string) (*domain.RefreshToken, error) {
	var t domain.RefreshToken
	if err := r.db.WithContext(ctx).Where("token = ?", token).First(&t).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *RefreshTokenRepository) CountByUserID(ctx context.Context, userID uuid.UUID) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.RefreshToken{}).Where("user_id = ?", userID).Count(&n).Error
	return n, err
}

// DeleteExpired removes rows whose expiry is before now and reports how many went.
func (r *RefreshTokenRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("expiry < ?", now.UTC()).
		Delete(&domain.RefreshToken{})
	return res.RowsAffected, res.Error
}
