package executor

import (
	"context"
	"sync"

	"github.com/spf13/afero"

	"github.com/opsfleet/emp/fleetssh"
	"github.com/opsfleet/emp/logx"
	"github.com/opsfleet/emp/modsync"
	"github.com/opsfleet/emp/semaphore"
)

// RunSequential runs mod on each connection one after another, stopping
// neither early on a per-host error nor skipping later hosts (spec.md §4.5,
// §4.6).
func RunSequential(fs afero.Fs, conns []*fleetssh.Connection, mod modsync.Module, log *logx.Logger, opts Options) []Result {
	results := make([]Result, 0, len(conns))
	for _, conn := range conns {
		results = append(results, RunModule(fs, conn, mod, log, opts))
	}
	return results
}

// RunParallel runs mod on every connection concurrently, bounded by
// maxParallel (0 or negative means unbounded), joining all workers before
// returning — the same shape as the teacher's Remotes.Run fan-out in
// remote/remote.go, but with an explicit concurrency cap via the adapted
// counting semaphore instead of one goroutine per host unconditionally.
func RunParallel(ctx context.Context, fs afero.Fs, conns []*fleetssh.Connection, mod modsync.Module, log *logx.Logger, opts Options, maxParallel int) []Result {
	sem := semaphore.New(maxParallel)
	defer sem.Close()

	results := make([]Result, len(conns))
	var wg sync.WaitGroup
	for i, conn := range conns {
		i, conn := i, conn
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := sem.P(ctx); err != nil {
				results[i] = Result{Host: conn.Callsign, Err: err}
				return
			}
			defer sem.V()
			results[i] = RunModule(fs, conn, mod, log, opts)
		}()
	}
	wg.Wait()
	return results
}
