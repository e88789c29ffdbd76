package source

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"go.uber.org/zap"

	"github.com/username/holiday-calendar/internal/holiday"
	"github.com/username/holiday-calendar/pkg/dateutil"
)

// FileSource implements Source using local JSON files named <year>.json in
// the ArgentinaDatos record shape
type FileSource struct {
	dir    string
	logger *zap.Logger
}

// NewFileSource creates a new FileSource instance
func NewFileSource(dir string, logger *zap.Logger) *FileSource {
	return &FileSource{
		dir:    dir,
		logger: logger,
	}
}

// Name identifies the source in logs
func (fs *FileSource) Name() string {
	return "file"
}

// Fetch loads the holidays of a year from disk
func (fs *FileSource) Fetch(_ context.Context, year int) ([]holiday.SourceHoliday, error) {
	path := filepath.Join(fs.dir, strconv.Itoa(year)+".json")

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open holiday file: %v", holiday.ErrSourceUnavailable, err)
	}
	defer file.Close()

	var data []apiHoliday
	if err := json.NewDecoder(file).Decode(&data); err != nil {
		return nil, fmt.Errorf("%w: failed to parse holiday file %s: %v", holiday.ErrSourceUnavailable, path, err)
	}

	records := make([]holiday.SourceHoliday, 0, len(data))
	for _, item := range data {
		if _, err := dateutil.ParseDateString(item.Fecha); err != nil {
			fs.logger.Warn("Invalid date in holiday file",
				zap.String("file", path),
				zap.String("date", item.Fecha),
				zap.Error(err))
			continue
		}
		records = append(records, item.toRecord())
	}

	fs.logger.Info("Holiday file loaded",
		zap.String("file", path),
		zap.Int("count", len(records)))

	return records, nil
}
