package sweep

import (
	"sync"
	"time"
)

// rows [start, end) of a grid
type task struct {
	start int
	end   int
}

// executor spreads row tasks over a fixed number of workers.
// Every task writes only its own rows, so results need no locking.
type executor struct {
	workers int
}

func newExecutor(workers int) *executor {
	if workers < 1 {
		workers = 1
	}
	return &executor{workers: workers}
}

// splitTasks cuts [0, total) into at most workers contiguous tasks;
// the first total%workers tasks get one extra row.
func splitTasks(total, workers int) []task {
	if total <= 0 {
		return nil
	}
	if workers > total {
		workers = total
	}
	taskLen, remainder := total/workers, total%workers
	tasks := make([]task, 0, workers)
	start := 0
	for i := 0; i < workers; i++ {
		n := taskLen
		if i < remainder {
			n++
		}
		tasks = append(tasks, task{start: start, end: start + n})
		start += n
	}
	return tasks
}

// dispatch runs f over [0, total) and returns when every task is done.
func (e *executor) dispatch(total int, f func(t task)) time.Duration {
	start := time.Now()
	tasks := splitTasks(total, e.workers)
	if len(tasks) <= 1 {
		for _, t := range tasks {
			f(t)
		}
		return time.Since(start)
	}

	dispatchChan := make(chan task, len(tasks))
	for _, t := range tasks {
		dispatchChan <- t
	}
	close(dispatchChan)

	var wg sync.WaitGroup
	for i := 0; i < len(tasks); i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for t := range dispatchChan {
				f(t)
			}
		}()
	}
	wg.Wait()
	return time.Since(start)
}
