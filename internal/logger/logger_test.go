package logger

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestInit_FallsBackToInfo(t *testing.T) {
	Init("nonsense")
	assert.Equal(t, logrus.InfoLevel, Log.GetLevel())

	Init("debug")
	assert.Equal(t, logrus.DebugLevel, Log.GetLevel())
}

func TestComponent_SetsField(t *testing.T) {
	Log = nil
	entry := Component("favorite_service")
	assert.Equal(t, "favorite_service", entry.Data["component"])

	Init("info")
	entry = Component("auth")
	assert.Equal(t, "auth", entry.Data["component"])
	assert.Same(t, Log, entry.Logger)
}
