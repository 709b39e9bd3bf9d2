package services

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// UploadArchiveService keeps a copy of every bulk-upload CSV on disk so a
// bad import can be inspected after the fact.
type UploadArchiveService struct {
	archiveDir string
}

func NewUploadArchiveService() *UploadArchiveService {
	archiveDir := os.Getenv("UPLOAD_ARCHIVE_DIR")
	if archiveDir == "" {
		archiveDir = "./data/uploads"
	}

	// Ensure the archive directory exists
	if err := os.MkdirAll(archiveDir, 0755); err != nil {
		// Log error but don't fail - will fail on actual writes
		fmt.Printf("Warning: could not create upload archive directory: %v\n", err)
	}

	return &UploadArchiveService{
		archiveDir: archiveDir,
	}
}

// Save writes the uploaded CSV bytes under a unique filename and returns it.
func (s *UploadArchiveService) Save(data []byte) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("empty upload")
	}

	filename := uuid.New().String() + ".csv"
	filePath := filepath.Join(s.archiveDir, filename)

	if err := os.WriteFile(filePath, data, 0644); err != nil {
		return "", fmt.Errorf("failed to archive upload: %w", err)
	}

	return filename, nil
}

// GetArchiveDir returns the archive directory path.
func (s *UploadArchiveService) GetArchiveDir() string {
	return s.archiveDir
}
