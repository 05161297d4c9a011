package resolve

import (
	"sync"
)

const defaultParallelism = 4

// Preload reads every path into the cache, at most parallel files at a
// time. One file failing never cancels its siblings; each failure comes
// back as a warning. With parallel <= 1 the scan is fully synchronous.
func (c *SourceCache) Preload(paths []string, parallel int) []Warning {
	if parallel <= 0 {
		parallel = defaultParallelism
	}

	if parallel == 1 || len(paths) < 2 {
		var warnings []Warning
		for _, path := range paths {
			if _, err := c.Load(path); err != nil {
				warnings = append(warnings, loadWarning(path, err))
			}
		}

		return warnings
	}

	semaphore := make(chan struct{}, parallel)
	results := make(chan Warning, len(paths))

	var wg sync.WaitGroup

	for _, path := range paths {
		semaphore <- struct{}{}

		wg.Add(1)

		go func(path string) {
			defer wg.Done()
			defer func() { <-semaphore }()

			if _, err := c.Load(path); err != nil {
				results <- loadWarning(path, err)
			}
		}(path)
	}

	wg.Wait()
	close(results)

	var warnings []Warning
	for w := range results {
		warnings = append(warnings, w)
	}

	return warnings
}
