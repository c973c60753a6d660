// Package file maps batch inputs to their braille outputs and guards the
// output directory against concurrent runs.
package file

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofrs/flock"

	"github.com/jsphweid/musicbraille/constants"
)

var ErrLocked = errors.New("output directory is in use by another run")

// Job is one input file and where its transcription goes.
type Job struct {
	Num    int
	Input  string
	Output string
}

// Plan numbers paths in order and maps each under root to the same relative
// location under outDir, with the braille extension.
func Plan(paths []string, root, outDir string) ([]Job, error) {
	res := make([]Job, 0, len(paths))
	seen := make(map[string]string)
	for i, p := range paths {
		out, err := OutputPath(p, root, outDir)
		if err != nil {
			return nil, err
		}
		if prev, ok := seen[out]; ok {
			return nil, fmt.Errorf("%s and %s both write %s", prev, p, out)
		}
		seen[out] = p
		res = append(res, Job{Num: i + 1, Input: p, Output: out})
	}
	return res, nil
}

func OutputPath(input, root, outDir string) (string, error) {
	rel, err := filepath.Rel(root, input)
	if err != nil {
		return "", fmt.Errorf("output path for %s: %w", input, err)
	}
	if rel == "." {
		rel = filepath.Base(input)
	}
	if strings.HasPrefix(rel, "..") {
		return "", fmt.Errorf("output path for %s: not under %s", input, root)
	}
	rel = strings.TrimSuffix(rel, filepath.Ext(rel)) + constants.BrailleExtension
	return filepath.Join(outDir, rel), nil
}

// Write stores contents at path, creating parent directories, and returns
// the number of bytes written.
func Write(path, contents string) (int64, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return 0, fmt.Errorf("create output dir: %w", err)
	}
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		return 0, fmt.Errorf("write %s: %w", path, err)
	}
	return int64(len(contents)), nil
}

// Lock takes the output directory's lock without waiting. The caller
// releases it with Unlock.
func Lock(outDir string) (*flock.Flock, error) {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}
	lock := flock.New(filepath.Join(outDir, constants.LockName))
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("lock %s: %w", outDir, err)
	}
	if !ok {
		return nil, fmt.Errorf("%s: %w", outDir, ErrLocked)
	}
	return lock, nil
}
