package repository

import "errors"

// ErrNotFound 文档或记录不存在
var ErrNotFound = errors.New("record not found")
