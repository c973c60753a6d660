package util

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/exp/constraints"
)

// ScoreExtensions are the input formats the CLI can read.
var ScoreExtensions = []string{".mid", ".midi", ".json"}

// GatherScorePaths walks path and returns readable score files in lexical
// order. maxNum of zero means no limit.
func GatherScorePaths(path string, maxNum int) ([]string, error) {
	var res []string
	walk := func(s string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("walk %s: %w", s, err)
		}
		if d.IsDir() || !HasScoreExtension(s) {
			return nil
		}
		if maxNum == 0 || len(res) < maxNum {
			res = append(res, s)
		}
		return nil
	}
	if err := filepath.WalkDir(path, walk); err != nil {
		return nil, err
	}
	sort.Strings(res)
	return res, nil
}

func HasScoreExtension(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range ScoreExtensions {
		if e == ext {
			return true
		}
	}
	return false
}

func SortedKeys[A constraints.Ordered, B any](m map[A]B) []A {
	keys := make([]A, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		return keys[i] < keys[j]
	})
	return keys
}

func Sum[A constraints.Integer](nums []A) uint64 {
	var total uint64
	for _, v := range nums {
		total += uint64(v)
	}
	return total
}
