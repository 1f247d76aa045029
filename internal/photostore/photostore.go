package photostore

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/snapmeal/snapmeal-backend/internal/logger"
	"github.com/snapmeal/snapmeal-backend/internal/utils"
)

// Store persists uploaded meal photos on local disk. Files are written once and
// never rewritten; retention is left to an external lifecycle policy.
type Store struct {
	log *logger.Logger
	dir string
}

func New(baseLog *logger.Logger) (*Store, error) {
	storeLog := baseLog.With("service", "PhotoStore")
	dir := utils.GetEnv("PHOTO_DIR", "image", baseLog)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create photo dir %q: %w", dir, err)
	}
	return &Store{log: storeLog, dir: dir}, nil
}

// Save writes the photo under a name derived from the user id and capture
// time. The uuid suffix keeps rapid repeated uploads within the same second
// from overwriting each other.
func (s *Store) Save(telegramID int64, data []byte) (string, error) {
	timestamp := time.Now().Format("20060102_150405")
	suffix := strings.Split(uuid.NewString(), "-")[0]
	name := fmt.Sprintf("%d-%s-%s.jpg", telegramID, timestamp, suffix)
	path := filepath.Join(s.dir, name)

	if err := os.WriteFile(path, data, 0o644); err != nil {
		s.log.Error("Failed to write photo", "path", path, "error", err)
		return "", fmt.Errorf("write photo: %w", err)
	}
	s.log.Debug("Photo stored", "path", path, "bytes", len(data))
	return path, nil
}
