/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: digest.go
Description: Schema digests. A digest is the SHA-256 of a schema's canonical JSON; digest
files map dataset names to digests so runs on different builds can be compared.
*/

package digest

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/kleascm/genschema/pkg/interfaces"
)

// FileName is the digest file written for every matrix run
const FileName = "schema-digests.json"

// Compute returns the hex SHA-256 of the schema's canonical JSON.
// encoding/json sorts map keys, so equal schemas hash equally.
func Compute(node interfaces.Node) (string, error) {
	data, err := json.Marshal(node)
	if err != nil {
		return "", fmt.Errorf("failed to encode schema: %w", err)
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}

// WriteFile stores dataset digests as indented JSON, creating parent directories
func WriteFile(path string, digests map[string]string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create digest directory: %w", err)
	}
	data, err := json.MarshalIndent(digests, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode digests: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("failed to write digests: %w", err)
	}
	return nil
}

// ReadFile loads dataset digests
func ReadFile(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var digests map[string]string
	if err := json.Unmarshal(data, &digests); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return digests, nil
}

// Report is the outcome of a matrix comparison
type Report struct {
	Artifacts  []string `json:"artifacts"`
	Baseline   string   `json:"baseline"`
	Missing    []string `json:"missing,omitempty"`
	Mismatches []string `json:"mismatches,omitempty"`
}

// OK reports whether every artifact produced identical digests
func (r *Report) OK() bool {
	return len(r.Missing) == 0 && len(r.Mismatches) == 0
}

// CompareMatrix compares <root>/<artifact>/matrix-results/schema-digests.json across every
// artifact directory whose name starts with prefix. The first artifact by name is the baseline.
func CompareMatrix(root, prefix string) (*Report, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("no artifacts found under %s: %w", root, err)
	}

	report := &Report{}
	for _, e := range entries {
		if e.IsDir() && strings.HasPrefix(e.Name(), prefix) {
			report.Artifacts = append(report.Artifacts, e.Name())
		}
	}
	sort.Strings(report.Artifacts)
	if len(report.Artifacts) == 0 {
		return nil, fmt.Errorf("no artifacts found under %s", root)
	}

	byArtifact := make(map[string]map[string]string)
	var present []string
	for _, name := range report.Artifacts {
		digests, err := ReadFile(filepath.Join(root, name, "matrix-results", FileName))
		if err != nil {
			if os.IsNotExist(err) {
				report.Missing = append(report.Missing, name+" ("+FileName+" not found)")
				continue
			}
			return nil, err
		}
		byArtifact[name] = digests
		present = append(present, name)
	}
	if len(report.Missing) > 0 {
		return report, nil
	}
	if len(present) < 2 {
		return nil, fmt.Errorf("need at least two artifacts to compare, found %d", len(present))
	}

	report.Baseline = present[0]
	baseline := byArtifact[report.Baseline]
	for _, name := range present[1:] {
		missing, extra := keyDiff(baseline, byArtifact[name])
		if len(missing) > 0 {
			report.Mismatches = append(report.Mismatches, fmt.Sprintf("%s missing datasets: %s", name, strings.Join(missing, ", ")))
		}
		if len(extra) > 0 {
			report.Mismatches = append(report.Mismatches, fmt.Sprintf("%s has extra datasets: %s", name, strings.Join(extra, ", ")))
		}
	}
	for _, dataset := range sortedKeys(baseline) {
		for _, name := range present[1:] {
			if got := byArtifact[name][dataset]; got != baseline[dataset] {
				report.Mismatches = append(report.Mismatches,
					fmt.Sprintf("%s: %s=%s, %s=%s", dataset, report.Baseline, baseline[dataset], name, got))
			}
		}
	}
	return report, nil
}

func keyDiff(base, other map[string]string) (missing, extra []string) {
	for k := range base {
		if _, ok := other[k]; !ok {
			missing = append(missing, k)
		}
	}
	for k := range other {
		if _, ok := base[k]; !ok {
			extra = append(extra, k)
		}
	}
	sort.Strings(missing)
	sort.Strings(extra)
	return missing, extra
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
