package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/zeromicro/go-zero/core/logx"

	"consensus-market/internal/config"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, uint32(logx.DebugLevel), parseLevel(" DEBUG "))
	assert.Equal(t, uint32(logx.ErrorLevel), parseLevel("error"))
	assert.Equal(t, uint32(logx.SevereLevel), parseLevel("fatal"))
	assert.Equal(t, uint32(logx.InfoLevel), parseLevel("whatever"), "unknown levels fall back to info")
}

func TestConfigSummaryLines(t *testing.T) {
	assert.Equal(t, []string{"Configuration: <nil>"}, ConfigSummaryLines(nil))

	cfg := &config.Config{
		BuildingsFile: "bldgdef.json",
		RemoteFiles:   []string{"a.msgpack", "b.msgpack"},
		Market:        config.MarketConfig{MonotonicPolicy: "reject"},
		Sweep:         config.DefaultSweep(),
		Log:           config.LogConfig{Level: "info"},
	}
	lines := ConfigSummaryLines(cfg)
	assert.Contains(t, lines, "Buildings file: bldgdef.json")
	assert.Contains(t, lines, "Remote snapshots: 2")
	assert.Contains(t, lines, "Sweep: 0..1900 step 100")
}
