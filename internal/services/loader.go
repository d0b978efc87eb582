package services

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"alfredoptarigan/resume-matcher/internal/models"
)

var allowedExtensions = map[string]bool{
	".pdf": true,
	".txt": true,
}

// DocumentLoader reads uploads and local files into in-memory documents.
// Nothing is written to disk.
type DocumentLoader interface {
	LoadUpload(file *multipart.FileHeader) (*models.Document, error)
	LoadFile(path string) (*models.Document, error)
}

type documentLoader struct {
	maxFileSize int64
}

func NewDocumentLoader(maxFileSize int64) DocumentLoader {
	return &documentLoader{
		maxFileSize: maxFileSize,
	}
}

func (l *documentLoader) LoadUpload(file *multipart.FileHeader) (*models.Document, error) {
	if err := l.validate(file.Filename, file.Size); err != nil {
		return nil, err
	}

	src, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	data, err := l.read(src)
	if err != nil {
		return nil, fmt.Errorf("failed to read uploaded file %s: %w", file.Filename, err)
	}

	return &models.Document{
		Name:        file.Filename,
		ContentType: models.DetectContentType(file.Filename, file.Header.Get("Content-Type")),
		Data:        data,
	}, nil
}

func (l *documentLoader) LoadFile(path string) (*models.Document, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory", path)
	}

	name := filepath.Base(path)
	if err := l.validate(name, info.Size()); err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	data, err := l.read(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", path, err)
	}

	return &models.Document{
		Name:        name,
		ContentType: models.DetectContentType(name, ""),
		Data:        data,
	}, nil
}

func (l *documentLoader) validate(filename string, size int64) error {
	ext := strings.ToLower(filepath.Ext(filename))
	if !allowedExtensions[ext] {
		return fmt.Errorf("%w: %q", ErrUnsupportedFileType, ext)
	}
	if l.maxFileSize > 0 && size > l.maxFileSize {
		return fmt.Errorf("%w: %s is %d bytes, max %d", ErrFileTooLarge, filename, size, l.maxFileSize)
	}
	return nil
}

func (l *documentLoader) read(r io.Reader) ([]byte, error) {
	if l.maxFileSize <= 0 {
		return io.ReadAll(r)
	}
	data, err := io.ReadAll(io.LimitReader(r, l.maxFileSize+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > l.maxFileSize {
		return nil, fmt.Errorf("%w: max %d bytes", ErrFileTooLarge, l.maxFileSize)
	}
	return data, nil
}
