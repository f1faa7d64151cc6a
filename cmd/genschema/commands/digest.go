/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: digest.go
Description: Digest commands. digest infers one schema per dataset and records its hash;
compare-digests checks that every build in a matrix produced identical hashes.
*/

package commands

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/kleascm/genschema/pkg/digest"
	"github.com/spf13/cobra"
)

// RunDigest writes the schema digest of every dataset
func RunDigest(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("at least one dataset is required")
	}
	cfg, err := LoadConfig(cmd)
	if err != nil {
		return err
	}
	logger, err := SetupLogging(cfg)
	if err != nil {
		return err
	}
	defer logger.Close()

	outPath, _ := cmd.Flags().GetString("output")

	digests := make(map[string]string, len(args))
	for _, input := range args {
		name := datasetName(input)
		if _, dup := digests[name]; dup {
			return fmt.Errorf("duplicate dataset name %q", name)
		}
		docs, err := loadDocuments(cmd.Context(), cfg, logger, []string{input}, nil)
		if err != nil {
			return err
		}
		engine, err := buildEngine(cfg, logger, nil, docs)
		if err != nil {
			return err
		}
		node, err := engine.RunContext(cmd.Context())
		if err != nil {
			return fmt.Errorf("%s: %w", input, err)
		}
		if digests[name], err = digest.Compute(node); err != nil {
			return err
		}
	}

	if err := digest.WriteFile(outPath, digests); err != nil {
		return err
	}

	names := make([]string, 0, len(digests))
	for n := range digests {
		names = append(names, n)
	}
	sort.Strings(names)
	for _, n := range names {
		fmt.Printf("%s  %s\n", digests[n], n)
	}
	status("💾 %d digests written to %s", len(digests), outPath)
	return nil
}

// RunCompareDigests compares digests across build artifacts
func RunCompareDigests(cmd *cobra.Command, args []string) error {
	root, _ := cmd.Flags().GetString("artifacts-dir")
	prefix, _ := cmd.Flags().GetString("artifact-prefix")

	report, err := digest.CompareMatrix(root, prefix)
	if err != nil {
		return err
	}

	fmt.Printf("🔍 Compared %d artifacts\n", len(report.Artifacts))
	for _, m := range report.Missing {
		fmt.Printf("  ❌ missing: %s\n", m)
	}
	for _, m := range report.Mismatches {
		fmt.Printf("  ❌ %s\n", m)
	}
	if !report.OK() {
		return fmt.Errorf("schema digests differ across artifacts")
	}
	fmt.Printf("✅ All artifacts match %s\n", report.Baseline)
	return nil
}

// datasetName names a dataset after its input file without extension
func datasetName(input string) string {
	base := filepath.Base(input)
	if i := strings.IndexByte(base, '.'); i > 0 {
		base = base[:i]
	}
	return base
}
