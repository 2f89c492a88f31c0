package renderer

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// TileResult contains the result from rendering a tile
type TileResult struct {
	Tile  *Tile
	Stats RenderStats
}

// WorkerPool renders tiles in parallel with a bounded number of goroutines
type WorkerPool struct {
	numWorkers int
}

// NewWorkerPool creates a worker pool; numWorkers <= 0 uses the CPU count
func NewWorkerPool(numWorkers int) *WorkerPool {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}
	return &WorkerPool{numWorkers: numWorkers}
}

// GetNumWorkers returns the number of workers in the pool
func (wp *WorkerPool) GetNumWorkers() int {
	return wp.numWorkers
}

// Run renders every tile and calls done for each finished tile on the calling
// goroutine, one at a time. The first render error or a cancelled context
// stops the remaining tiles and is returned once all workers have exited.
// A context cancelled before Run returns is reported even if every tile finished.
func (wp *WorkerPool) Run(ctx context.Context, tiles []*Tile,
	render func(ctx context.Context, tile *Tile) (RenderStats, error),
	done func(TileResult)) error {

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(wp.numWorkers)

	// Buffered for every tile so workers never block on a slow consumer
	resultQueue := make(chan TileResult, len(tiles))
	errChan := make(chan error, 1)

	go func() {
		for _, tile := range tiles {
			if gctx.Err() != nil {
				break
			}
			tile := tile
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				stats, err := render(gctx, tile)
				if err != nil {
					return err
				}
				resultQueue <- TileResult{Tile: tile, Stats: stats}
				return nil
			})
		}
		errChan <- g.Wait()
		close(resultQueue)
	}()

	for result := range resultQueue {
		if done != nil {
			done(result)
		}
	}

	if err := <-errChan; err != nil {
		return err
	}
	// errgroup cancels gctx only on error, so a cancel that lands after the
	// last tile is seen here
	return ctx.Err()
}
