package media

import (
	"bytes"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"

	"github.com/gabriel-vasile/mimetype"
)

// File is a local file offered for upload. ContentType is the declared type; Open is called
// once per upload attempt.
type File struct {
	Name        string
	ContentType string
	Size        int64
	Open        func() (io.ReadCloser, error)
}

// FileFromPath 从磁盘读取文件信息，类型只看内容嗅探，不看扩展名
func FileFromPath(path string) (File, error) {
	st, err := os.Stat(path)
	if err != nil {
		return File{}, err
	}
	mt, err := mimetype.DetectFile(path)
	if err != nil {
		return File{}, err
	}
	return File{
		Name:        filepath.Base(path),
		ContentType: mt.String(),
		Size:        st.Size(),
		Open:        func() (io.ReadCloser, error) { return os.Open(path) },
	}, nil
}

// FileFromBytes wraps an in-memory payload. An empty contentType is sniffed from data.
func FileFromBytes(name, contentType string, data []byte) File {
	if contentType == "" {
		contentType = mimetype.Detect(data).String()
	}
	return File{
		Name:        name,
		ContentType: contentType,
		Size:        int64(len(data)),
		Open:        func() (io.ReadCloser, error) { return io.NopCloser(bytes.NewReader(data)), nil },
	}
}

// FileFromMultipart 使用表单里声明的类型，缺失时才嗅探
func FileFromMultipart(fh *multipart.FileHeader) (File, error) {
	ct := fh.Header.Get("Content-Type")
	if ct == "" || ct == "application/octet-stream" {
		f, err := fh.Open()
		if err != nil {
			return File{}, err
		}
		mt, err := mimetype.DetectReader(f)
		f.Close()
		if err != nil {
			return File{}, err
		}
		ct = mt.String()
	}
	return File{
		Name:        fh.Filename,
		ContentType: ct,
		Size:        fh.Size,
		Open: func() (io.ReadCloser, error) {
			return fh.Open()
		},
	}, nil
}
