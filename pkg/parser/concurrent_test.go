package parser

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestConcurrentParsing checks that many goroutines can parse both
// languages at once without deadlocking on the pools.
func TestConcurrentParsing(t *testing.T) {
	manager := newTestManager(t)

	const numGoroutines = 64
	var wg sync.WaitGroup
	wg.Add(numGoroutines)

	errChan := make(chan error, numGoroutines)

	for i := 0; i < numGoroutines; i++ {
		go func(id int) {
			defer wg.Done()

			lang, source := LanguageJavaScript, []byte("export let x = 1;")
			if id%2 == 0 {
				lang, source = LanguageTypeScript, []byte("export let x: number = 1;")
			}

			tree, err := manager.Parse(source, lang)
			if err != nil {
				errChan <- err
				return
			}
			if tree.RootNode().HasError() {
				errChan <- assert.AnError
			}
			tree.Close()
		}(i)
	}

	wg.Wait()
	close(errChan)

	var errs []error
	for err := range errChan {
		errs = append(errs, err)
	}
	assert.Empty(t, errs)

	stats := manager.GetStats()
	assert.Equal(t, numGoroutines, stats.ParsesCalled)
	assert.LessOrEqual(t, stats.ParsersCreated, 2*poolLimit())
	assert.Equal(t, stats.ParsersCreated, stats.IdleParsers, "every parser is back in its pool")
}
