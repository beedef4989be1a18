package logger_test

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"github.com/wordbookapp/wordbook/pkg/logger"
)

func TestLog(t *testing.T) {
	buff := bytes.NewBuffer([]byte{})
	templogger, err := logger.New().FromBuffer(buff).Make()
	require.NoError(t, err)
	require.NotNil(t, templogger)
	require.NotNil(t, templogger.Logger)
	// Get Stats Before
	require.Equal(t, buff.Len(), 0)
	templogger.Logger.Info().Msg("Test")
	// Get Stats After
	require.Contains(t, buff.String(), "Test")
}

func TestLogLevel(t *testing.T) {
	buff := bytes.NewBuffer([]byte{})
	templogger, err := logger.New().FromBuffer(buff).Level(zerolog.WarnLevel).Make()
	require.NoError(t, err)
	templogger.Logger.Info().Msg("below threshold")
	require.Equal(t, buff.Len(), 0)
	templogger.Logger.Warn().Msg("at threshold")
	require.Contains(t, buff.String(), "at threshold")
}

func TestLogFile(t *testing.T) {
	path := t.TempDir() + "/wordbook.log"
	templogger, err := logger.New().FromPath(path).Make()
	require.NoError(t, err)
	require.NotNil(t, templogger.LogFile)
	templogger.Logger.Info().Msg("to file")
	require.NoError(t, templogger.LogFile.Close())
}
