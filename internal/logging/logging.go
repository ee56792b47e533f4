// Package logging configures go-zero's logx for the market binaries.
package logging

import (
	"fmt"
	"strings"

	"github.com/zeromicro/go-zero/core/logx"

	"consensus-market/internal/config"
)

// Setup sets the logx level and turns off the periodic stat logger, which
// only adds noise to short-lived CLI runs.
func Setup(level string) {
	logx.DisableStat()
	logx.SetLevel(parseLevel(level))
}

func parseLevel(level string) uint32 {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return logx.DebugLevel
	case "info":
		return logx.InfoLevel
	case "error":
		return logx.ErrorLevel
	case "severe", "fatal":
		return logx.SevereLevel
	default:
		return logx.InfoLevel
	}
}

// ConfigSummaryLines returns human readable lines describing the loaded config.
func ConfigSummaryLines(cfg *config.Config) []string {
	if cfg == nil {
		return []string{"Configuration: <nil>"}
	}
	return []string{
		fmt.Sprintf("Buildings file: %s", cfg.BuildingsFile),
		fmt.Sprintf("Remote snapshots: %d", len(cfg.RemoteFiles)),
		fmt.Sprintf("Monotonic policy: %s", cfg.Market.MonotonicPolicy),
		fmt.Sprintf("Sweep: %s", cfg.Range()),
		fmt.Sprintf("Log level: %s", cfg.Log.Level),
	}
}

// LogConfigSummary emits the configuration summary using logx.
func LogConfigSummary(cfg *config.Config) {
	logx.Info("configuration summary")
	for _, line := range ConfigSummaryLines(cfg) {
		logx.Infof("config • %s", line)
	}
}
