package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/d60-Lab/social-feed/internal/model"
)

// BlobRepository 单 key 字符串存储，整体读写，没有增量与版本
type BlobRepository interface {
	// Get 返回值与是否存在
	Get(ctx context.Context, key string) (string, bool, error)
	// Put 覆盖写入
	Put(ctx context.Context, key, value string) error
	// Delete 删除 key，不存在时不报错
	Delete(ctx context.Context, key string) error
}

type sqlBlobRepository struct{ db *gorm.DB }

func NewSQLBlobRepository(db *gorm.DB) BlobRepository { return &sqlBlobRepository{db: db} }

func (r *sqlBlobRepository) Get(ctx context.Context, key string) (string, bool, error) {
	var b model.Blob
	err := r.db.WithContext(ctx).Where("blob_key = ?", key).First(&b).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return b.Value, true, nil
}

func (r *sqlBlobRepository) Put(ctx context.Context, key, value string) error {
	b := &model.Blob{Key: key, Value: value, UpdatedAt: time.Now()}
	// last writer wins
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "blob_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(b).Error
}

func (r *sqlBlobRepository) Delete(ctx context.Context, key string) error {
	return r.db.WithContext(ctx).Where("blob_key = ?", key).Delete(&model.Blob{}).Error
}
