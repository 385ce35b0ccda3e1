package renderer

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/df07/go-sphere-tracer/pkg/core"
)

// Render traces every pixel with a fixed pool of workers and blocks until the
// image is complete. Workers claim whole rows from a shared counter and write
// only into the rows they claimed. Any worker failure fails the render and no
// partial image is returned.
func (rt *Raytracer) Render(ctx context.Context) (*Image, RenderStats, error) {
	width, height := rt.options.Width, rt.options.Height
	numWorkers := rt.options.Workers()

	img := NewImage(width, height)
	collector := newStatsCollector(numWorkers, height)

	rt.logger.Printf("rendering %q at %dx%d, %d spp, depth %d, %d workers, seed %d (%s)\n",
		rt.scene.Name, width, height, rt.options.SamplesPerPixel, rt.options.MaxDepth,
		numWorkers, rt.options.Seed, rt.options.SeedMode)

	var nextRow atomic.Int64
	start := time.Now()

	g, gctx := errgroup.WithContext(ctx)
	for id := 0; id < numWorkers; id++ {
		worker := &rowWorker{
			id:        id,
			raytracer: rt,
			image:     img,
			nextRow:   &nextRow,
			stats:     &collector.workers[id],
			rowTimes:  collector.rowTimes,
		}
		g.Go(func() error {
			return worker.run(gctx)
		})
	}

	if err := g.Wait(); err != nil {
		return nil, RenderStats{}, err
	}

	stats := collector.finish(img, time.Since(start), rt.options.SamplesPerPixel)
	rt.logger.Printf("rendered %d pixels (%d samples) in %v\n", stats.TotalPixels, stats.TotalSamples, stats.RenderTime)

	return img, stats, nil
}

// rowWorker renders rows until the shared counter runs past the last row
type rowWorker struct {
	id        int
	raytracer *Raytracer
	image     *Image
	nextRow   *atomic.Int64
	stats     *WorkerStats
	rowTimes  []time.Duration
}

// run is the main worker loop. A panic while rendering a row is converted
// into a RowPanicError.
func (w *rowWorker) run(ctx context.Context) (err error) {
	rt := w.raytracer
	row := -1

	defer func() {
		if r := recover(); r != nil {
			err = &RowPanicError{Row: row, Value: r}
		}
	}()

	pcg := rand.NewPCG(rt.options.Seed, uint64(w.id))
	sampler := core.NewRandomSampler(rand.New(pcg))
	perPixel := rt.options.SeedMode == SeedPerPixel
	width := rt.options.Width

	for {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return fmt.Errorf("%w: %w", ErrInterrupted, ctxErr)
		}

		row = int(w.nextRow.Add(1) - 1)
		if row >= rt.options.Height {
			break
		}

		rowStart := time.Now()
		pixels := w.image.Row(row)
		for i := range pixels {
			if perPixel {
				pcg.Seed(rt.options.Seed, mix64(uint64(row*width+i)))
			}
			pixels[i] = rt.renderPixel(i, row, sampler)
		}

		elapsed := time.Since(rowStart)
		w.rowTimes[row] = elapsed
		w.stats.Rows++
		w.stats.Samples += width * rt.options.SamplesPerPixel
		w.stats.RenderTime += elapsed
	}

	rt.logger.Debugf("worker %d finished after %d rows\n", w.id, w.stats.Rows)
	return nil
}

// mix64 is the splitmix64 finalizer. Neighbouring pixel indices map to
// unrelated generator streams.
func mix64(x uint64) uint64 {
	x += 0x9e3779b97f4a7c15
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb
	return x ^ (x >> 31)
}
