package main

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"slices"
	"strconv"
	"strings"

	"github.com/limaJavier/timetabling/pkg/config"
	"github.com/limaJavier/timetabling/pkg/ga"
	"github.com/limaJavier/timetabling/pkg/logger"
	"github.com/limaJavier/timetabling/pkg/model"
	"go.uber.org/zap"
)

const (
	exitOptimal            = 10
	exitBestEffort         = 11
	exitVerificationFailed = 15
	exitInfeasible         = 20
)

type output struct {
	ga.Result
	Assignments []model.Assignment `json:"assignments"` // Weekly order
}

func main() {
	// Define arguments
	filePathPtr := flag.String("file", "", "Path to the input file")
	configPathPtr := flag.String("config", "", "Path to a JSON engine configuration; TIMETABLE_* environment variables override it")
	outFilePathPtr := flag.String("out", "", "Path to the file where the output will be written; if empty, it'll be written into the Standard Output")
	historyPathPtr := flag.String("history", "", "Path to a CSV file where the best penalty of every generation will be written")
	seedPtr := flag.Uint64("seed", 0, "Seed of the random source; if not given the configured seed is used, or a random one")
	timeoutPtr := flag.Duration("timeout", 0, "Maximum search time (e.g. \"30s\"), after which the best timetable found so far is returned; 0 disables it")
	trialsPtr := flag.Int("trials", 0, "Number of independent searches, the best one is kept; 0 keeps the configured value")
	flag.Parse()
	filePath := *filePathPtr
	outFile := *outFilePathPtr
	historyFile := *historyPathPtr

	// Validate arguments
	if filePath == "" {
		log.Fatal("an input file must be specified")
	} else if *timeoutPtr < 0 {
		log.Fatalf("timeout must be non-negative: %v", *timeoutPtr)
	} else if *trialsPtr < 0 {
		log.Fatalf("trials must be non-negative: %v", *trialsPtr)
	}

	// Load configuration
	cfg, err := config.Load(*configPathPtr)
	if err != nil {
		log.Fatalf("cannot load configuration: %v", err)
	}
	if flagSet("seed") {
		seed := *seedPtr
		cfg.Engine.Seed = &seed
	}
	if *trialsPtr > 0 {
		cfg.Engine.Trials = *trialsPtr
	}

	zapLogger, err := logger.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		log.Fatalf("cannot build logger: %v", err)
	}
	exit := func(code int) {
		zapLogger.Sync()
		os.Exit(code)
	}

	// Extract input
	input, err := model.InputFromJson(filePath)
	var validationErr *model.ValidationError
	if errors.As(err, &validationErr) {
		for _, issue := range validationErr.Issues {
			zapLogger.Error("invalid input", zap.String("record", issue.Record), zap.String("field", issue.Field), zap.String("message", issue.Message))
		}
		zapLogger.Fatal("input file is not valid", zap.Int("issues", len(validationErr.Issues)))
	} else if err != nil {
		zapLogger.Fatal("cannot parse input file", zap.Error(err))
	}

	// Initialize engine
	timetabler, err := ga.NewGeneticTimetabler(cfg.Engine, zapLogger)
	if err != nil {
		zapLogger.Fatal("cannot initialize timetabler", zap.Error(err))
	}

	// Interrupting or timing out stops the search, the best timetable found so far is still written
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if *timeoutPtr > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, *timeoutPtr)
		defer cancel()
	}

	// Build timetable
	result, err := timetabler.Build(ctx, input)
	if err != nil && !errors.Is(err, ga.ErrInfeasible) {
		zapLogger.Fatal("an error occurred during timetable construction", zap.Error(err))
	}

	// Write results
	writeOutput(zapLogger, outFile, result, input)
	if historyFile != "" {
		writeHistory(zapLogger, historyFile, result.History)
	}

	switch result.Status {
	case ga.StatusInfeasible:
		exit(exitInfeasible)
	case ga.StatusBestEffort:
		exit(exitBestEffort)
	}

	// Verify timetable correctness
	if !timetabler.Verify(result.Assignments, input) {
		zapLogger.Error("timetable does not satisfy every hard constraint")
		exit(exitVerificationFailed)
	}
	exit(exitOptimal)
}

func flagSet(name string) bool {
	set := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == name {
			set = true
		}
	})
	return set
}

// weeklyOrder sorts assignments by day (in input order), slot index, group and course
func weeklyOrder(assignments []model.Assignment, input model.ModelInput) []model.Assignment {
	assignments = slices.Clone(assignments)
	slices.SortStableFunc(assignments, func(a, b model.Assignment) int {
		if comparison := slices.Index(input.Days, a.Day) - slices.Index(input.Days, b.Day); comparison != 0 {
			return comparison
		}
		if comparison := input.Slots[input.SlotIndex[a.Slot]].Index - input.Slots[input.SlotIndex[b.Slot]].Index; comparison != 0 {
			return comparison
		}
		if comparison := strings.Compare(a.Group, b.Group); comparison != 0 {
			return comparison
		}
		return strings.Compare(a.Course, b.Course)
	})
	return assignments
}

func writeOutput(zapLogger *zap.Logger, outFile string, result ga.Result, input model.ModelInput) {
	// Marshal output into json
	outputJson, err := json.MarshalIndent(output{
		Result:      result,
		Assignments: weeklyOrder(result.Assignments, input),
	}, "", "  ")
	if err != nil {
		zapLogger.Fatal("an error occurred while building output json", zap.Error(err))
	}

	// Verify outfile is empty, if so then write the results to the Standard Output
	if outFile == "" {
		fmt.Println(string(outputJson))
	} else if err := os.WriteFile(outFile, outputJson, 0666); err != nil {
		zapLogger.Fatal("an error occurred while writing to the output file", zap.Error(err))
	}
}

func writeHistory(zapLogger *zap.Logger, historyFile string, history []int) {
	file, err := os.Create(historyFile)
	if err != nil {
		zapLogger.Fatal("cannot create history file", zap.Error(err))
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	records := [][]string{{"generation", "best_penalty"}}
	for generation, penalty := range history {
		records = append(records, []string{strconv.Itoa(generation), strconv.Itoa(penalty)})
	}
	if err := writer.WriteAll(records); err != nil {
		zapLogger.Fatal("cannot write history file", zap.Error(err))
	}
}
