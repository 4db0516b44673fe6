// Command picking loads a scene description, casts its rays and reports the overlapping
// and penetrating shapes.
package main

import (
	"flag"
	"fmt"

	"github.com/akmonengine/prism"
	"github.com/akmonengine/prism/internal/config"
	"github.com/akmonengine/prism/internal/logger"
	"go.uber.org/zap"
)

var (
	flagConfig = flag.String("config", "scene.yaml", "Path to the scene file")
	flagDebug  = flag.Bool("debug", false, "Enable debug logging")
)

func main() {
	flag.Parse()

	cfg, err := config.Load(*flagConfig)
	if err != nil {
		panic(err)
	}
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		panic(err)
	}
	defer logger.Sync()

	scene, err := cfg.BuildScene(logger.Log)
	if err != nil {
		logger.Fatal("building scene", zap.Error(err))
	}
	rays, err := cfg.Rays()
	if err != nil {
		logger.Fatal("reading rays", zap.Error(err))
	}

	for i, ray := range rays {
		hit, ok := scene.Pick(ray)
		if !ok {
			logger.Info("miss", zap.Int("ray", i))
			continue
		}
		logger.Info("pick",
			zap.Int("ray", i),
			zap.Uint64("id", hit.ID),
			zap.Stringer("kind", hit.Shape.Kind()),
			zap.String("point", fmt.Sprintf("%.3f", hit.Point)),
			zap.Float64("distance", hit.Distance),
		)
	}

	scene.Events.Subscribe(prism.OVERLAP_ENTER, func(event prism.Event) {
		e := event.(prism.OverlapEnterEvent)
		logger.Sugar.Infof("overlap %d-%d", e.IdA, e.IdB)
	})
	scene.Update()

	for _, c := range scene.Contacts() {
		logger.Info("contact",
			zap.Uint64("a", c.A.ID),
			zap.Uint64("b", c.B.ID),
			zap.Float64("depth", c.Depth),
			zap.String("normal", fmt.Sprintf("%.3f", c.Normal)),
		)
	}
}
