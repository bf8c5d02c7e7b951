package model

import "time"

// Blob 单 key 的本地持久化值
type Blob struct {
	Key       string `gorm:"column:blob_key;primaryKey;type:varchar(128)"`
	Value     string `gorm:"type:text"`
	UpdatedAt time.Time
}

func (Blob) TableName() string { return "blobs" }
