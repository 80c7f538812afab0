package printing

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/swissbill/backend/internal/domain/document"
)

// Archive stores rendered PDFs
type Archive interface {
	// Store saves a PDF file and returns its location
	Store(ctx context.Context, req *StoreRequest) (*StoreResult, error)
}

// StoreRequest contains the parameters for storing a PDF
type StoreRequest struct {
	// Account isolates the documents of one issuer
	Account string
	DocType document.DocType
	Number  string
	PDFData []byte
}

// StoreResult contains the result of storing a PDF
type StoreResult struct {
	// Path is the storage key (relative to the archive root)
	Path string
	// URL is the accessible URL for the PDF
	URL string
	// Size is the file size in bytes
	Size int64
}

// Validate checks a store request
func (r *StoreRequest) Validate() error {
	if r == nil {
		return NewRenderError(ErrCodeStorageFailed, "store request is nil", nil)
	}
	if strings.TrimSpace(r.Number) == "" {
		return NewRenderError(ErrCodeStorageFailed, "document number is required", nil)
	}
	if len(r.PDFData) == 0 {
		return NewRenderError(ErrCodeStorageFailed, "PDF data is empty", nil)
	}
	return nil
}

// ArchiveKey builds the storage key {account}/{year}/{month}/{number}-{id}.pdf.
// The random id keeps re-renders of the same number apart.
func ArchiveKey(req *StoreRequest, now time.Time) string {
	account := SafeName(req.Account)
	if account == "" {
		account = "default"
	}
	return path.Join(
		account,
		fmt.Sprintf("%d", now.Year()),
		fmt.Sprintf("%02d", now.Month()),
		SafeName(req.Number)+"-"+uuid.NewString()[:8]+".pdf",
	)
}

// SafeName reduces s to characters safe in file names and HTTP headers
func SafeName(s string) string {
	s = strings.TrimSpace(s)
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return strings.Trim(b.String(), "_")
}

// FileSystemArchiveConfig contains configuration for file system storage
type FileSystemArchiveConfig struct {
	// BasePath is the root directory for PDF storage
	// Default: /data/documents
	BasePath string
	// BaseURL is the URL prefix for accessing PDFs
	BaseURL string
	// Logger for operations
	Logger *zap.Logger
}

// FileSystemArchive stores PDFs on the local file system
type FileSystemArchive struct {
	config *FileSystemArchiveConfig
	logger *zap.Logger
	now    func() time.Time
}

// NewFileSystemArchive creates a new file system based PDF archive
func NewFileSystemArchive(config *FileSystemArchiveConfig) (*FileSystemArchive, error) {
	if config == nil {
		config = &FileSystemArchiveConfig{}
	}
	if config.BasePath == "" {
		config.BasePath = "/data/documents"
	}
	if config.BaseURL == "" {
		config.BaseURL = "/documents"
	}

	if err := os.MkdirAll(config.BasePath, 0755); err != nil {
		return nil, NewRenderError(ErrCodeStorageFailed,
			fmt.Sprintf("failed to create storage directory: %s", config.BasePath), err)
	}

	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &FileSystemArchive{
		config: config,
		logger: logger,
		now:    time.Now,
	}, nil
}

// Store saves a PDF file to the file system
func (s *FileSystemArchive) Store(ctx context.Context, req *StoreRequest) (*StoreResult, error) {
	select {
	case <-ctx.Done():
		return nil, NewRenderError(ErrCodeStorageFailed, "operation cancelled", ctx.Err())
	default:
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	key := ArchiveKey(req, s.now())
	filePath := filepath.Join(s.config.BasePath, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return nil, NewRenderError(ErrCodeStorageFailed, "failed to create directory", err)
	}
	if err := os.WriteFile(filePath, req.PDFData, 0644); err != nil {
		return nil, NewRenderError(ErrCodeStorageFailed, "failed to write PDF file", err)
	}

	url := fmt.Sprintf("%s/%s", strings.TrimRight(s.config.BaseURL, "/"), key)
	s.logger.Info("PDF archived",
		zap.String("path", filePath),
		zap.Int("size", len(req.PDFData)))

	return &StoreResult{
		Path: key,
		URL:  url,
		Size: int64(len(req.PDFData)),
	}, nil
}

// NopArchive discards documents; used when archiving is disabled
type NopArchive struct{}

// Store implements Archive
func (NopArchive) Store(context.Context, *StoreRequest) (*StoreResult, error) {
	return nil, nil
}

var (
	_ Archive = (*FileSystemArchive)(nil)
	_ Archive = NopArchive{}
)
