package align

import (
	"encoding/json"
	"fmt"
	"os"
)

// manualMatchFile is the on-disk shape of a manual-match list:
//
//	{"manual_matches": [{"old_number": 5, "new_number": 9}, ...]}
type manualMatchFile struct {
	ManualMatches []ManualMatch `json:"manual_matches"`
}

// LoadManualMatches reads a manual-match list from a JSON file. The list
// order is preserved; pairs are applied in file order during alignment.
func LoadManualMatches(path string) ([]ManualMatch, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading manual matches: %w", err)
	}

	var file manualMatchFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing manual matches %s: %w", path, err)
	}
	return file.ManualMatches, nil
}
