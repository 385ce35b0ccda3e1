package renderer

import (
	"fmt"
	"io"
	"time"

	"github.com/olekukonko/tablewriter"
	"gonum.org/v1/gonum/stat"
)

// WorkerStats records the work done by one render goroutine
type WorkerStats struct {
	ID         int           // Worker index
	Rows       int           // Number of rows rendered
	Samples    int           // Number of camera rays traced
	RenderTime time.Duration // Time spent rendering rows
}

// RenderStats contains statistics about the rendering process
type RenderStats struct {
	Width        int
	Height       int
	TotalPixels  int // Total number of pixels rendered
	TotalSamples int // Total number of camera rays traced
	Workers      []WorkerStats

	// Wall clock time for the whole frame.
	RenderTime time.Duration

	// Distribution of per-row render times.
	RowTimeMean   time.Duration
	RowTimeStdDev time.Duration

	// Distribution of final pixel luminance.
	MeanLuminance   float64
	LuminanceStdDev float64
}

type statsCollector struct {
	workers  []WorkerStats
	rowTimes []time.Duration
}

func newStatsCollector(numWorkers, height int) *statsCollector {
	c := &statsCollector{
		workers:  make([]WorkerStats, numWorkers),
		rowTimes: make([]time.Duration, height),
	}
	for i := range c.workers {
		c.workers[i].ID = i
	}
	return c
}

func (c *statsCollector) finish(img *Image, elapsed time.Duration, samplesPerPixel int) RenderStats {
	rowTimes := make([]float64, len(c.rowTimes))
	for i, d := range c.rowTimes {
		rowTimes[i] = float64(d)
	}
	rowMean, rowStd := meanStdDev(rowTimes)

	luminance := make([]float64, len(img.Pixels))
	for i, p := range img.Pixels {
		luminance[i] = p.Luminance()
	}
	lumMean, lumStd := meanStdDev(luminance)

	return RenderStats{
		Width:           img.Width,
		Height:          img.Height,
		TotalPixels:     len(img.Pixels),
		TotalSamples:    len(img.Pixels) * samplesPerPixel,
		Workers:         c.workers,
		RenderTime:      elapsed,
		RowTimeMean:     time.Duration(rowMean),
		RowTimeStdDev:   time.Duration(rowStd),
		MeanLuminance:   lumMean,
		LuminanceStdDev: lumStd,
	}
}

// meanStdDev returns the sample mean and standard deviation, with a zero
// deviation for fewer than two values
func meanStdDev(x []float64) (float64, float64) {
	switch len(x) {
	case 0:
		return 0, 0
	case 1:
		return x[0], 0
	}
	return stat.MeanStdDev(x, nil)
}

// WriteTable writes a per-worker summary table
func (s RenderStats) WriteTable(w io.Writer) {
	table := tablewriter.NewWriter(w)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Worker", "Rows", "% of frame", "Samples", "Render time"})
	for _, worker := range s.Workers {
		percent := 0.0
		if s.Height > 0 {
			percent = 100 * float64(worker.Rows) / float64(s.Height)
		}
		table.Append([]string{
			fmt.Sprintf("%d", worker.ID),
			fmt.Sprintf("%d", worker.Rows),
			fmt.Sprintf("%02.1f %%", percent),
			fmt.Sprintf("%d", worker.Samples),
			worker.RenderTime.String(),
		})
	}
	table.SetFooter([]string{
		"",
		fmt.Sprintf("%d", s.Height),
		fmt.Sprintf("row %v ± %v", s.RowTimeMean, s.RowTimeStdDev),
		fmt.Sprintf("%d", s.TotalSamples),
		s.RenderTime.String(),
	})
	table.Render()
}
