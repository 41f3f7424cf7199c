package logging

import (
	"bytes"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"

	"otrbridge/internal/config"
)

func TestFollow_TracksDebugFlag(t *testing.T) {
	var buf bytes.Buffer
	cfg := config.DefaultConfig()
	l := New(cfg, &buf)
	state := config.NewState(false)
	Follow(l, state)

	l.Debug("hidden")
	assert.NotContains(t, buf.String(), "hidden")

	state.ToggleDebug()
	assert.Equal(t, logrus.DebugLevel, l.GetLevel())
	l.Debug("shown")
	assert.Contains(t, buf.String(), "shown")

	state.ToggleDebug()
	assert.Equal(t, logrus.InfoLevel, l.GetLevel())
}

func TestNew_JSONFormat(t *testing.T) {
	var buf bytes.Buffer
	cfg := config.DefaultConfig()
	cfg.LogFormat = "json"
	New(cfg, &buf).Info("hello")
	assert.Contains(t, buf.String(), `"msg":"hello"`)
}
