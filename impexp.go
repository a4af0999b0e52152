package fundbook

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// A parsed statement can be dumped to JSON and fed back into the pipeline
// later, skipping the parse step. The dump holds exactly what was parsed:
// re-parsing the same statement and reloading a dump of it yield identical
// collections.

const dumpTimeFormat = "20060102-150405"

// DumpRecord writes the parsed record to a timestamped JSON file in dir and
// returns the file's path.
func DumpRecord(dir string, rec *InvestmentRecord) (string, error) {
	name := fmt.Sprintf("fundbook-%s.json", time.Now().Format(dumpTimeFormat))
	path := filepath.Join(dir, name)
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return "", fmt.Errorf("cannot marshal record: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return "", fmt.Errorf("cannot write dump %q: %w", path, err)
	}
	return path, nil
}

// LoadRecord reads a previously dumped record.
func LoadRecord(path string) (*InvestmentRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read dump %q: %w", path, err)
	}
	rec := NewInvestmentRecord("")
	if err := json.Unmarshal(data, rec); err != nil {
		return nil, fmt.Errorf("cannot parse dump %q: %w", path, err)
	}
	return rec, nil
}
