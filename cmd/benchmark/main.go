package main

import (
	"context"
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"os"
	"path"
	"slices"
	"strings"
	"time"

	"github.com/limaJavier/courseplan/pkg/loader"
	"github.com/limaJavier/courseplan/pkg/model"
	"github.com/limaJavier/courseplan/pkg/report"
	"github.com/limaJavier/courseplan/pkg/scheduler"
	"github.com/samber/lo"
	"github.com/viant/afs"
)

const defaultTestDirectory = "../../test/bundles/"

type TestMetadata struct {
	Name     string
	Teachers int
	Courses  int
	Chained  int
	Fixed    int
}

type BenchmarkResult struct {
	Test       TestMetadata
	Duration   time.Duration
	Assigned   int
	Soft       int
	Unassigned int
	Bound      int
}

func main() {
	directoryPtr := flag.String("dir", defaultTestDirectory, "Directory holding the JSON or YAML bundles to benchmark")
	layersPtr := flag.Int("layers", scheduler.DefaultMaxLayers, "Highest layer the chain pass may use")
	outPtr := flag.String("out", "benchmark_results.csv", "Path to the CSV file where results will be written")
	flag.Parse()

	ctx := context.Background()
	fs := afs.New()

	tests := getTests(*directoryPtr)
	results := make([]BenchmarkResult, 0, len(tests))
	for _, test := range tests {
		fmt.Printf("Benchmarking test \"%v\" with %v layers\n", test, *layersPtr)

		result, err := measure(ctx, fs, test, *layersPtr)
		if err != nil {
			log.Fatalf("an error occurred while benchmarking \"%v\": %v", test, err)
		}
		results = append(results, result)
	}

	toCsv(*outPtr, results)
}

func getTests(directory string) []string {
	testFiles, err := os.ReadDir(directory)
	if err != nil {
		log.Fatalf("cannot read directory: %v", err)
	}

	tests := lo.FilterMap(testFiles, func(file os.DirEntry, _ int) (string, bool) {
		extension := strings.ToLower(path.Ext(file.Name()))
		return path.Join(directory, file.Name()), !file.IsDir() && slices.Contains([]string{".json", ".yaml", ".yml"}, extension)
	})
	slices.Sort(tests)
	return tests
}

func measure(ctx context.Context, fs afs.Service, test string, maxLayers int) (BenchmarkResult, error) {
	rawInput, err := loader.LoadBundle(ctx, fs, test)
	if err != nil {
		return BenchmarkResult{}, err
	}

	start := time.Now()
	input, err := model.Build(rawInput, model.DefaultModuleCapacity)
	if err != nil {
		return BenchmarkResult{}, err
	}
	engine, err := scheduler.New(input, scheduler.WithMaxLayers(maxLayers))
	if err != nil {
		return BenchmarkResult{}, err
	}
	if _, err := engine.Run(input.Fixed); err != nil {
		return BenchmarkResult{}, err
	}
	duration := time.Since(start)

	if err := engine.Verify(); err != nil {
		return BenchmarkResult{}, err
	}
	bound, err := engine.CoverageBound()
	if err != nil {
		return BenchmarkResult{}, err
	}
	result := report.Build(engine.Teachers(), engine.Courses(), engine.Modules())

	return BenchmarkResult{
		Test: TestMetadata{
			Name:     test,
			Teachers: len(input.Teachers),
			Courses:  len(input.Courses),
			Chained:  lo.CountBy(lo.Values(input.Courses), func(course *model.Course) bool { return course.Chained }),
			Fixed:    len(input.Fixed),
		},
		Duration:   duration,
		Assigned:   result.Summary.Assigned,
		Soft:       result.Summary.Soft,
		Unassigned: len(result.Summary.Unassigned),
		Bound:      bound,
	}, nil
}

func toCsv(filename string, results []BenchmarkResult) {
	file, err := os.Create(filename)
	if err != nil {
		log.Panicf("cannot create CSV file: %v", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	header := []string{"Test", "Teachers", "Courses", "Chained", "Fixed", "Duration(ms)", "Assigned", "Soft", "Unassigned", "Bound"}
	if err := writer.Write(header); err != nil {
		log.Panicf("cannot write CSV header: %v", err)
	}

	for _, result := range results {
		if err := writer.Write(toRecord(result)); err != nil {
			log.Panicf("cannot write CSV record: %v", err)
		}
	}
}

func toRecord(result BenchmarkResult) []string {
	return []string{
		result.Test.Name,
		fmt.Sprintf("%d", result.Test.Teachers),
		fmt.Sprintf("%d", result.Test.Courses),
		fmt.Sprintf("%d", result.Test.Chained),
		fmt.Sprintf("%d", result.Test.Fixed),
		fmt.Sprintf("%.3f", float64(result.Duration.Microseconds())/1000),
		fmt.Sprintf("%d", result.Assigned),
		fmt.Sprintf("%d", result.Soft),
		fmt.Sprintf("%d", result.Unassigned),
		fmt.Sprintf("%d", result.Bound),
	}
}
