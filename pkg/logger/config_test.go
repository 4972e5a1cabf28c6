package logger

import (
	"bytes"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	require.Empty(t, DefaultConfig().Validate())
	require.Len(t, Config{Level: "loud"}.Validate(), 1)
}

func TestSetLogrus(t *testing.T) {
	defer logrus.SetOutput(logrus.StandardLogger().Out)
	defer logrus.SetLevel(logrus.GetLevel())
	defer logrus.SetFormatter(logrus.StandardLogger().Formatter)

	var buf bytes.Buffer
	SetLogrus(Config{Level: "warn", Structured: true}, &buf)
	require.Equal(t, logrus.WarnLevel, logrus.GetLevel())

	logrus.Info("dropped")
	logrus.WithField("path", "searchs_1_False/m1").Warn("kept")
	require.NotContains(t, buf.String(), "dropped")
	require.Contains(t, buf.String(), `"msg":"kept"`)
	require.Contains(t, buf.String(), `"path":"searchs_1_False/m1"`)

	require.Panics(t, func() { SetLogrus(Config{Level: "loud"}, nil) })
}
