// Command tt-ga runs the distributed island-model genetic algorithm
// against a dataset and settings file, exporting the best timetable
// found to JSON.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/k0kubun/colorstring"
	"github.com/k0kubun/pp"
	"github.com/sirupsen/logrus"

	"github.com/sstanovnik-port/timetable-ga/internal/cluster"
	"github.com/sstanovnik-port/timetable-ga/internal/config"
	"github.com/sstanovnik-port/timetable-ga/internal/domain"
	"github.com/sstanovnik-port/timetable-ga/internal/export"
)

func main() {
	configPath := flag.String("config", "./tt-ga.toml", "path to a TOML settings file")
	worldSize := flag.Int("ranks", 4, "number of simulated MPI-style ranks (goroutines)")
	debug := flag.Bool("debug", false, "pretty-print the winning timetable's entries before exporting")
	flag.Parse()

	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if *debug {
		logger.SetLevel(logrus.DebugLevel)
	}

	if err := run(*configPath, *worldSize, *debug, logger); err != nil {
		logger.WithError(err).Fatal("run failed")
	}
}

func run(configPath string, worldSize int, debug bool, logger *logrus.Logger) error {
	settings, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if err := settings.Validate(); err != nil {
		return err
	}

	professors, classrooms, students, subjects, err := domain.LoadDataset(settings.InputPath)
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	engine := cluster.NewEngine(professors, classrooms, students, subjects,
		cluster.WithRounds(settings.Rounds),
		cluster.WithSurvivorRatio(settings.SurvivorRatio),
		cluster.WithRebalanceWindow(settings.RebalanceWindow),
		cluster.WithCrossoverProbability(settings.CrossoverProbability),
		cluster.WithStatsRoundDivisor(settings.StatsRoundDivisor),
		cluster.WithLogger(logger),
	)

	colorstring.Println("[blue]starting distributed run[reset]")
	logger.WithFields(logrus.Fields{
		"ranks":       worldSize,
		"population":  settings.PopulationSize,
		"rounds":      settings.Rounds,
		"input_path":  settings.InputPath,
		"output_path": settings.OutputPath,
	}).Info("bootstrapping engine")

	result, err := engine.Run(ctx, worldSize, settings.PopulationSize)
	if err != nil {
		return err
	}

	colorstring.Printf("[green]best score: %v[reset]\n", result.Score)
	logger.WithField("score", result.Score).Info("run complete")

	if debug {
		pp.Println(result.Best.Entries)
	}

	return export.WriteFile(settings.OutputPath, result.Best, result.Score)
}
