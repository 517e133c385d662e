package manifest

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
)

// LoadFrozen reads a frozen test-set CSV and returns its pair hashes.
func LoadFrozen(path string) (map[string]struct{}, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open frozen set: %w", err)
	}
	defer file.Close()

	column, err := readColumn(file, "pair_sha256")
	if err != nil {
		return nil, fmt.Errorf("read frozen set %s: %w", path, err)
	}

	hashes := make(map[string]struct{}, len(column))
	for _, hash := range column {
		if hash != "" {
			hashes[hash] = struct{}{}
		}
	}
	return hashes, nil
}

// VerifyFrozen checks a manifest against a frozen test-set file and returns
// one violation per frozen pair hash that is missing from the manifest or no
// longer assigned to the test split.
func VerifyFrozen(manifestPath, frozenPath string) ([]string, error) {
	frozen, err := LoadFrozen(frozenPath)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(manifestPath)
	if err != nil {
		return nil, fmt.Errorf("open manifest: %w", err)
	}
	defer file.Close()

	splits, err := readPairSplits(file)
	if err != nil {
		return nil, fmt.Errorf("read manifest %s: %w", manifestPath, err)
	}

	var violations []string
	for hash := range frozen {
		split, ok := splits[hash]
		switch {
		case !ok:
			violations = append(violations, fmt.Sprintf("frozen pair %s is missing from the manifest", hash))
		case split != "test":
			violations = append(violations, fmt.Sprintf("frozen pair %s moved from test to %s", hash, split))
		}
	}
	sort.Strings(violations)
	return violations, nil
}

func readColumn(r io.Reader, name string) ([]string, error) {
	reader := csv.NewReader(r)
	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	col := -1
	for i, field := range header {
		if strings.TrimSpace(field) == name {
			col = i
			break
		}
	}
	if col < 0 {
		return nil, fmt.Errorf("missing %s column", name)
	}

	var values []string
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if col < len(row) {
			values = append(values, row[col])
		}
	}
	return values, nil
}

func readPairSplits(r io.Reader) (map[string]string, error) {
	reader := csv.NewReader(r)
	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	pairCol, splitCol := -1, -1
	for i, field := range header {
		switch strings.TrimSpace(field) {
		case "pair_sha256":
			pairCol = i
		case "split":
			splitCol = i
		}
	}
	if pairCol < 0 || splitCol < 0 {
		return nil, fmt.Errorf("missing pair_sha256 or split column")
	}

	splits := make(map[string]string)
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if pairCol < len(row) && splitCol < len(row) {
			splits[row[pairCol]] = row[splitCol]
		}
	}
	return splits, nil
}
