// cmd/tools/model-trainer/main.go

// model-trainer fits the linear scoring estimator offline and writes the JSON
// artifact consumed by the credit engine. It never touches the serving path;
// deploy the artifact and let the scheduled reload (or a restart) pick it up.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"credit-engine/internal/common/logger"
	"credit-engine/internal/trainer"
)

func main() {
	samples := flag.Int("samples", 5000, "number of synthetic training samples")
	seed := flag.Int64("seed", 42, "rng seed; same seed, same training set")
	version := flag.String("version", "", "model version tag (default: linear-<date>)")
	out := flag.String("out", "models/credit_scoring_model.json", "artifact output path")
	flag.Parse()

	zapLog := logger.New("info", "console")
	defer zapLog.Sync()

	now := time.Now().UTC()
	v := *version
	if v == "" {
		v = fmt.Sprintf("linear-%s", now.Format("2006-01-02"))
	}

	zapLog.Info("generating training set",
		zap.Int("samples", *samples),
		zap.Int64("seed", *seed),
	)
	set := trainer.GenerateSamples(*samples, *seed)

	model, err := trainer.Fit(set, v, now)
	if err != nil {
		zapLog.Fatal("fit failed", zap.Error(err))
	}

	zapLog.Info("model fitted",
		zap.String("version", model.ModelVersion),
		zap.Float64("rSquared", model.RSquared),
	)

	data, err := json.MarshalIndent(model, "", "  ")
	if err != nil {
		zapLog.Fatal("marshal artifact", zap.Error(err))
	}

	if dir := filepath.Dir(*out); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			zapLog.Fatal("create artifact directory", zap.Error(err))
		}
	}
	if err := os.WriteFile(*out, data, 0o644); err != nil {
		zapLog.Fatal("write artifact", zap.Error(err))
	}

	zapLog.Info("artifact written", zap.String("path", *out))
}
