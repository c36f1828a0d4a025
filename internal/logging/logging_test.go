package logging

import (
	"bytes"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestLevel(t *testing.T) {
	tests := []struct {
		verbosity int
		want      logrus.Level
	}{
		{-1, logrus.ErrorLevel},
		{0, logrus.ErrorLevel},
		{1, logrus.WarnLevel},
		{2, logrus.InfoLevel},
		{3, logrus.DebugLevel},
		{7, logrus.DebugLevel},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Level(tt.verbosity), "Level(%d)", tt.verbosity)
	}
}

func TestNew(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, 1)

	log.Info("hidden")
	log.Warn("shown")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "shown")
	assert.NotContains(t, out, "\x1b[", "non-terminal output should not be coloured")
}
