package store

import (
	"strings"
	"time"

	"github.com/JonMunkholm/reconcile/internal/config"
	"github.com/JonMunkholm/reconcile/internal/core"
)

func testReconcileConfig() config.ReconcileConfig {
	return config.ReconcileConfig{
		OptionThreshold: 0.5,
		MergeThreshold:  0.7,
		MaxFileSize:     1 << 20,
		MaxConcurrent:   1,
		MaxWaitTime:     time.Second,
		Timeout:         time.Minute,
		ResultCache:     4,
	}
}

func csvInput(name, data string) core.FileInput {
	return core.FileInput{Name: name, Data: strings.NewReader(data)}
}
