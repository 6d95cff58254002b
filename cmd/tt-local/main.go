// Command tt-local is a single-process smoke-test driver for the
// genetic operators, built on eaopt's own GA loop rather than the
// distributed cluster.Engine. It exists to sanity-check a dataset and
// operator wiring quickly, without spinning up the full multi-rank
// round loop.
package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"

	"github.com/MaxHalford/eaopt"

	"github.com/sstanovnik-port/timetable-ga/internal/domain"
	"github.com/sstanovnik-port/timetable-ga/internal/export"
	"github.com/sstanovnik-port/timetable-ga/internal/genetic"
)

func main() {
	inputPath := flag.String("input", "./input.json", "path to a dataset JSON file")
	outputPath := flag.String("output", "./result.json", "path to write the best timetable")
	generations := flag.Uint("generations", 50, "number of eaopt generations to run")
	flag.Parse()

	if err := run(*inputPath, *outputPath, uint(*generations)); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(inputPath, outputPath string, generations uint) error {
	professors, classrooms, students, subjects, err := domain.LoadDataset(inputPath)
	if err != nil {
		return err
	}

	ops := &genetic.Operators{
		Fitness:       genetic.NewFitnessCore(professors, classrooms, students, subjects),
		Mutation:      genetic.NewMutationCore(classrooms, subjects),
		Crossover:     genetic.NewCrossoverCore(),
		CrossoverKind: genetic.CrossoverStudentsFromOther,
	}

	generator := domain.NewTimetableGenerator(professors, classrooms, students, subjects, rand.New(rand.NewSource(1)))

	factory := func(rng *rand.Rand) eaopt.Genome {
		return genetic.NewTimetableGenome(generator.Generate(), ops)
	}

	gaConfig := eaopt.NewDefaultGAConfig()
	gaConfig.NGenerations = generations

	ga, err := gaConfig.NewGA()
	if err != nil {
		return fmt.Errorf("tt-local: build GA: %w", err)
	}

	if err := ga.Minimize(factory); err != nil {
		return fmt.Errorf("tt-local: run GA: %w", err)
	}

	best := ga.HallOfFame[0].Genome.(*genetic.TimetableGenome)
	score := ops.Fitness.Calculate(best.Timetable).Score

	fmt.Printf("best score after %d generations: %v\n", generations, score)
	return export.WriteFile(outputPath, best.Timetable, score)
}
