package service

import (
	"context"

	"github.com/d60-Lab/social-feed/internal/repository"
)

// Persister 帖子列表的整体持久化：每次变更整体覆盖写，没有增量
type Persister interface {
	Load(ctx context.Context) ([]byte, bool, error)
	Save(ctx context.Context, data []byte) error
	Remove(ctx context.Context) error
}

// BlobPersister stores the serialized list under a single blob key.
type BlobPersister struct {
	repo repository.BlobRepository
	key  string
}

func NewBlobPersister(repo repository.BlobRepository, key string) *BlobPersister {
	return &BlobPersister{repo: repo, key: key}
}

func (p *BlobPersister) Load(ctx context.Context) ([]byte, bool, error) {
	v, ok, err := p.repo.Get(ctx, p.key)
	if err != nil || !ok {
		return nil, ok, err
	}
	return []byte(v), true, nil
}

func (p *BlobPersister) Save(ctx context.Context, data []byte) error {
	return p.repo.Put(ctx, p.key, string(data))
}

func (p *BlobPersister) Remove(ctx context.Context) error {
	return p.repo.Delete(ctx, p.key)
}
