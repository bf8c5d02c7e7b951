package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/d60-Lab/social-feed/internal/model"
)

// ProfileRepository users/<uid> 文档读写
type ProfileRepository interface {
	// Get 不存在时返回 ErrNotFound
	Get(ctx context.Context, userID string) (*model.ProfileDocument, error)
	// Upsert 整体写入除主键外的字段
	Upsert(ctx context.Context, doc *model.ProfileDocument) error
}

type profileRepository struct{ db *gorm.DB }

func NewProfileRepository(db *gorm.DB) ProfileRepository { return &profileRepository{db: db} }

func (r *profileRepository) Get(ctx context.Context, userID string) (*model.ProfileDocument, error) {
	var doc model.ProfileDocument
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&doc).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

func (r *profileRepository) Upsert(ctx context.Context, doc *model.ProfileDocument) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"bio", "location", "occupation", "website", "join_date", "updated_at"}),
	}).Create(doc).Error
}
