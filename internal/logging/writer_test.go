package logging

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriterDecodesRecords(t *testing.T) {
	data := &LogData{Broker: defaultLogData.Broker}
	w := &writer{data: data}
	logger := slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))

	logger.Info("model selected", "model", "claude-3.7-sonnet", persistKeyArg, true, PersistTimeArg, 3*time.Second)
	logger.Debug("plain")

	msgs := data.List()
	require.Len(t, msgs, 2)

	assert.Equal(t, "INFO", msgs[0].Level)
	assert.Equal(t, "model selected", msgs[0].Message)
	assert.True(t, msgs[0].Persist)
	assert.Equal(t, 3*time.Second, msgs[0].PersistTime)
	assert.Equal(t, []Attr{{Key: "model", Value: "claude-3.7-sonnet"}}, msgs[0].Attributes)

	assert.Equal(t, "DEBUG", msgs[1].Level)
	assert.False(t, msgs[1].Persist)
}

func TestWriterPublishes(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sub := Subscribe(ctx)

	require.NoError(t, Init("debug", ""))
	WarnPersist("rate limited")

	select {
	case ev := <-sub:
		assert.Equal(t, "rate limited", ev.Payload.Message)
		assert.True(t, ev.Payload.Persist)
	case <-time.After(time.Second):
		t.Fatal("no log event published")
	}
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warn"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("verbose"))
}
