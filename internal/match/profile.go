package match

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/resumatch/jobfeed/internal/model"
)

// LoadProfile reads a resume profile JSON file. A missing file is not an
// error — scoring then runs in the no-profile weighting mode — but a file
// that exists and fails to parse is.
func LoadProfile(path string, logger *slog.Logger) (*model.ResumeProfile, error) {
	if path == "" {
		return nil, nil
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		logger.Warn("resume profile not found, scoring without skills", "path", path)
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading profile: %w", err)
	}

	var profile model.ResumeProfile
	if err := json.Unmarshal(data, &profile); err != nil {
		return nil, fmt.Errorf("parsing profile %s: %w", path, err)
	}
	return &profile, nil
}
