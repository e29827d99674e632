package scanner

import (
	"log/slog"
	"sort"
	"sync"

	"github.com/gnana997/sveltedoc/pkg/util"
)

// SourceReader loads component source bytes.
type SourceReader interface {
	Read(path string) ([]byte, error)
}

// AnalyzeAll analyzes files on a pool of workers and returns the docs sorted
// by path together with the number of files that could not be read.
// workers <= 0 selects util.GetOptimalPoolSize.
func AnalyzeAll(files []string, an Analyzer, src SourceReader, workers int, logger *slog.Logger) ([]AnalyzedFile, int) {
	if len(files) == 0 {
		return nil, 0
	}
	if logger == nil {
		logger = slog.Default()
	}

	paths := append([]string(nil), files...)
	sort.Strings(paths)

	workers = min(util.GetOptimalPoolSizeWithOverride(workers), len(paths))

	// Each worker writes only the slots of the indexes it receives.
	docs := make([]AnalyzedFile, len(paths))
	ok := make([]bool, len(paths))
	next := make(chan int)

	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range next {
				source, err := src.Read(paths[i])
				if err != nil {
					logger.Warn("analysis failed", "file", paths[i], "error", err)
					continue
				}
				docs[i] = AnalyzedFile{Path: paths[i], Doc: an.Analyze(source, paths[i])}
				ok[i] = true
			}
		}()
	}
	for i := range paths {
		next <- i
	}
	close(next)
	wg.Wait()

	analyzed := make([]AnalyzedFile, 0, len(paths))
	for i, done := range ok {
		if done {
			analyzed = append(analyzed, docs[i])
		}
	}
	return analyzed, len(paths) - len(analyzed)
}
