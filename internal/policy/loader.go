package policy

import (
	"encoding/json"
	"fmt"
	"os"
)

// LoadDataset reads the policy dataset from disk. The dataset is static: it
// is loaded once at startup and never mutated.
func LoadDataset(path string) ([]Document, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read policy dataset %s: %w", path, err)
	}
	var docs []Document
	if err := json.Unmarshal(raw, &docs); err != nil {
		return nil, fmt.Errorf("parse policy dataset %s: %w", path, err)
	}
	if len(docs) == 0 {
		return nil, fmt.Errorf("policy dataset %s is empty", path)
	}
	return docs, nil
}
