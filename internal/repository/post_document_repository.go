package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/d60-Lab/social-feed/internal/model"
)

// PostDocumentRepository 文档库 posts 集合，按作者查询
type PostDocumentRepository interface {
	Create(ctx context.Context, userID, content string) (*model.PostDocument, error)
	ListByUser(ctx context.Context, userID string, offset, limit int) ([]*model.PostDocument, error)
}

type postDocumentRepository struct{ db *gorm.DB }

func NewPostDocumentRepository(db *gorm.DB) PostDocumentRepository {
	return &postDocumentRepository{db: db}
}

func (r *postDocumentRepository) Create(ctx context.Context, userID, content string) (*model.PostDocument, error) {
	p := &model.PostDocument{ID: uuid.New().String(), UserID: userID, Content: content}
	if err := r.db.WithContext(ctx).Create(p).Error; err != nil {
		return nil, err
	}
	return p, nil
}

func (r *postDocumentRepository) ListByUser(ctx context.Context, userID string, offset, limit int) ([]*model.PostDocument, error) {
	var res []*model.PostDocument
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&res).Error
	return res, err
}
