package main

import (
	"context"
	"encoding/csv"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/limaJavier/timetabling/pkg/ga"
	"github.com/limaJavier/timetabling/pkg/model"
	"github.com/samber/lo"
)

const resultsFile = "benchmark_results.csv"

type TestMetadata struct {
	Name     string
	Courses  int
	Faculty  int
	Rooms    int
	Slots    int
	Sessions int
}

type BenchmarkParameters struct {
	PopulationSize int
	MutationRate   float64
	Seed           uint64
}

type BenchmarkResult struct {
	Test        TestMetadata
	Parameters  BenchmarkParameters
	Duration    int64 // Milliseconds
	Penalty     int
	Generations int
	StopReason  ga.StopReason
	Status      ga.Status
}

func main() {
	filesPtr := flag.String("file", "", "Comma-separated paths to the input files")
	populationsPtr := flag.String("populations", "40,80,160", "Comma-separated population sizes")
	mutationsPtr := flag.String("mutations", "0.02,0.08,0.15", "Comma-separated per-gene mutation rates")
	seedsPtr := flag.String("seeds", "1,2,3", "Comma-separated seeds, every combination runs once per seed")
	flag.Parse()

	if *filesPtr == "" {
		log.Fatal("at least one input file must be specified")
	}
	files := parseList(*filesPtr)
	populations := parseInts(*populationsPtr)
	mutations := parseFloats(*mutationsPtr)
	seeds := parseSeeds(*seedsPtr)

	parameters := make([]BenchmarkParameters, 0, len(populations)*len(mutations)*len(seeds))
	for _, population := range populations {
		for _, mutation := range mutations {
			for _, seed := range seeds {
				parameters = append(parameters, BenchmarkParameters{PopulationSize: population, MutationRate: mutation, Seed: seed})
			}
		}
	}

	results := make([]BenchmarkResult, 0, len(files)*len(parameters))
	for _, file := range files {
		input, err := model.InputFromJson(file)
		if err != nil {
			log.Fatalf("cannot parse input file: %v", err)
		}
		test := TestMetadata{
			Name:     file,
			Courses:  len(input.Courses),
			Faculty:  len(input.Faculty),
			Rooms:    len(input.Rooms),
			Slots:    len(input.Slots),
			Sessions: lo.SumBy(input.Courses, func(course model.Course) int { return course.TotalSessions() }),
		}

		for _, parameter := range parameters {
			fmt.Printf("Benchmarking test \"%v\" with population \"%v\", mutation rate \"%v\" and seed \"%v\"\n", test.Name, parameter.PopulationSize, parameter.MutationRate, parameter.Seed)
			results = append(results, measure(test, input, parameter))
		}
	}

	toCsv(results)
}

func measure(test TestMetadata, input model.ModelInput, parameters BenchmarkParameters) BenchmarkResult {
	config := ga.DefaultConfig()
	config.PopulationSize = parameters.PopulationSize
	config.MutationRate = parameters.MutationRate
	config.Seed = &parameters.Seed

	timetabler, err := ga.NewGeneticTimetabler(config, nil)
	if err != nil {
		log.Fatalf("invalid parameters %+v: %v", parameters, err)
	}

	start := time.Now()
	result, err := timetabler.Build(context.Background(), input)
	if err != nil && !errors.Is(err, ga.ErrInfeasible) {
		log.Fatalf("an error occurred during the execution at test \"%v\" with parameters %+v: %v", test.Name, parameters, err)
	}

	return BenchmarkResult{
		Test:        test,
		Parameters:  parameters,
		Duration:    time.Since(start).Milliseconds(),
		Penalty:     result.Penalty,
		Generations: result.Generations,
		StopReason:  result.StopReason,
		Status:      result.Status,
	}
}

func toCsv(results []BenchmarkResult) {
	file, err := os.Create(resultsFile)
	if err != nil {
		log.Panicf("cannot create CSV file: %v", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	header := []string{"Test", "Courses", "Faculty", "Rooms", "Slots", "Sessions", "Population", "Mutation Rate", "Seed", "Duration(ms)", "Penalty", "Generations", "Stop Reason", "Status"}
	if err := writer.Write(header); err != nil {
		log.Panicf("cannot write CSV header: %v", err)
	}

	for _, result := range results {
		record := []string{
			result.Test.Name,
			fmt.Sprintf("%d", result.Test.Courses),
			fmt.Sprintf("%d", result.Test.Faculty),
			fmt.Sprintf("%d", result.Test.Rooms),
			fmt.Sprintf("%d", result.Test.Slots),
			fmt.Sprintf("%d", result.Test.Sessions),
			fmt.Sprintf("%d", result.Parameters.PopulationSize),
			fmt.Sprintf("%g", result.Parameters.MutationRate),
			fmt.Sprintf("%d", result.Parameters.Seed),
			fmt.Sprintf("%d", result.Duration),
			fmt.Sprintf("%d", result.Penalty),
			fmt.Sprintf("%d", result.Generations),
			string(result.StopReason),
			string(result.Status),
		}
		if err := writer.Write(record); err != nil {
			log.Panicf("cannot write CSV record: %v", err)
		}
	}
}

func parseList(list string) []string {
	return lo.Compact(lo.Map(strings.Split(list, ","), func(item string, _ int) string { return strings.TrimSpace(item) }))
}

func parseInts(list string) []int {
	return lo.Map(parseList(list), func(item string, _ int) int { return lo.Must(strconv.Atoi(item)) })
}

func parseFloats(list string) []float64 {
	return lo.Map(parseList(list), func(item string, _ int) float64 { return lo.Must(strconv.ParseFloat(item, 64)) })
}

func parseSeeds(list string) []uint64 {
	return lo.Map(parseList(list), func(item string, _ int) uint64 { return lo.Must(strconv.ParseUint(item, 10, 64)) })
}
