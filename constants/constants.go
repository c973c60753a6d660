package constants

import (
	"errors"
	"os"
)

// BrailleExtension is appended to the outputs of batch transcription.
const BrailleExtension = ".brl"

// LockName is the lock file guarding an output directory during a batch run.
const LockName = ".musicbraille.lock"

func GetOutputDir() string {
	path := os.Getenv("MUSICBRAILLE_OUT")
	if path != "" {
		return path
	}
	return "./out"
}

func GetMediaDir() (string, error) {
	path := os.Getenv("MUSICBRAILLE_MEDIA")
	if path != "" {
		return path, nil
	}
	return "", errors.New("MUSICBRAILLE_MEDIA environment variable is not set")
}
