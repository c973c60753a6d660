package logging_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/jsphweid/musicbraille/config"
	"github.com/jsphweid/musicbraille/logging"
)

func TestJSONLoggerTagsTranscription(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Level: "info", Format: "json", Writer: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	tagged, id := logging.WithTranscription(logger)
	tagged.Info("transcribed", logging.Error(errors.New("boom")))

	var line map[string]any
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("decode log line %q: %v", buf.String(), err)
	}

	assert := assert.New(t)
	assert.Equal(id, line[logging.FieldTranscriptionID])
	assert.Equal("boom", line["error"])
	assert.Contains(line, "ts")
	_, err = uuid.Parse(id)
	assert.NoError(err)
}

func TestConsoleLoggerHonoursLevel(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Level: "warn", Format: "console", Writer: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	logger.Info("hidden")
	logger.Warn("shown")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.True(t, strings.Contains(out, "shown"))
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	_, err := logging.New(logging.Options{Format: "xml"})
	assert.Error(t, err)
}

func TestNewFromConfigAndNop(t *testing.T) {
	cfg := config.Default()
	logger, err := logging.NewFromConfig(&cfg)
	assert.NoError(t, err)
	assert.NotNil(t, logger)

	nop := logging.OrNop(nil)
	nop.Error("never written")
	assert.False(t, nop.Enabled(context.Background(), slog.LevelError))
}
