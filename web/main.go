package main

import (
	"os"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/df07/go-sphere-tracer/pkg/log"
	"github.com/df07/go-sphere-tracer/web/server"
)

var logger = log.New("web")

func main() {
	var (
		port          int
		maxConcurrent int64
		scenesDir     string
		verbose       bool
	)

	cmd := &cobra.Command{
		Use:          "raytracer-web",
		Short:        "Serve the sphere tracer over HTTP",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if verbose {
				log.SetLevel(log.Debug)
			}

			webServer := server.NewServer(port, maxConcurrent, scenesDir)
			logger.Noticef("Visit http://localhost:%d/api/scenes to list scenes", port)
			return webServer.Start()
		},
	}

	cmd.Flags().IntVar(&port, "port", 8080, "port to serve on")
	cmd.Flags().Int64Var(&maxConcurrent, "max-renders", int64(runtime.NumCPU()), "maximum number of concurrent renders")
	cmd.Flags().StringVar(&scenesDir, "scenes", "scenes", "directory of YAML scene files")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "log render progress")

	if err := cmd.Execute(); err != nil {
		logger.Errorf("Error starting server: %v", err)
		os.Exit(1)
	}
}
