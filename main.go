package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/df07/go-sphere-tracer/pkg/config"
	"github.com/df07/go-sphere-tracer/pkg/log"
	"github.com/df07/go-sphere-tracer/pkg/output"
	"github.com/df07/go-sphere-tracer/pkg/renderer"
	"github.com/df07/go-sphere-tracer/pkg/scene"
)

var logger = log.New("raytracer")

var (
	cfgFile      string
	scenesDir    string
	verbose      bool
	extraVerbose bool
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		logger.Errorf("%v", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "raytracer",
		Short:         "Sphere path tracer",
		Long:          "Renders scenes of spheres with diffuse, metal and glass materials using stochastic path tracing.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			setupLogging()
		},
	}

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "YAML file with render settings")
	rootCmd.PersistentFlags().StringVar(&scenesDir, "scenes-dir", "scenes", "directory of YAML scene files addressed as file:<name>")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	rootCmd.PersistentFlags().BoolVar(&extraVerbose, "vv", false, "enable even more verbose logging")

	rootCmd.AddCommand(
		renderCmd(),
		scenesCmd(),
	)

	return rootCmd
}

func setupLogging() {
	if verbose {
		log.SetLevel(log.Info)
	}

	if extraVerbose {
		log.SetLevel(log.Debug)
	}
}

func renderCmd() *cobra.Command {
	v := config.New()
	defaults := config.DefaultSettings()

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render a still frame",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.BindFlags(v, cmd.Flags()); err != nil {
				return err
			}
			settings, err := config.Load(v, cfgFile)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
			defer stop()

			return renderFrame(ctx, settings)
		},
	}

	cmd.Flags().String("scene", defaults.Scene, fmt.Sprintf("built-in scene %v or file:<name> from --scenes-dir", scene.Names()))
	cmd.Flags().String("scene-file", "", "YAML scene file (overrides --scene)")
	cmd.Flags().StringP("output", "o", "", "output image (.png or .ppm); default output/<scene>/render_<timestamp>.png")
	cmd.Flags().Int("width", defaults.Width, "frame width")
	cmd.Flags().Int("height", defaults.Height, "frame height")
	cmd.Flags().Int("samples", defaults.Samples, "samples per pixel")
	cmd.Flags().Int("max-depth", defaults.MaxDepth, "max ray bounces")
	cmd.Flags().Int("workers", defaults.Workers, "render goroutines (0 = one per CPU)")
	cmd.Flags().Uint64("seed", defaults.Seed, "random seed")
	cmd.Flags().String("seed-mode", defaults.SeedMode, "seeding strategy: per-pixel or per-worker")
	cmd.Flags().Bool("jitter", defaults.Jitter, "jitter samples inside each pixel")
	cmd.Flags().String("integrator", defaults.Integrator, "light transport: path or normals")

	return cmd
}

func renderFrame(ctx context.Context, settings *config.RenderSettings) error {
	selectedScene, err := createScene(scenesDir, settings.Scene, settings.SceneFile)
	if err != nil {
		return err
	}

	filename, err := outputPath(settings.Output, selectedScene.Name, time.Now())
	if err != nil {
		return err
	}

	raytracer, err := renderer.NewRaytracer(selectedScene, settings.RenderOptions(), log.NewPrinter(logger, log.Notice))
	if err != nil {
		return err
	}

	img, stats, err := raytracer.Render(ctx)
	if err != nil {
		return err
	}
	displayRenderStats(stats)

	if err := output.Save(filename, img); err != nil {
		return err
	}

	logger.Noticef("render saved as %s", filename)
	return nil
}

func displayRenderStats(stats renderer.RenderStats) {
	var buf bytes.Buffer
	stats.WriteTable(&buf)
	logger.Noticef("render statistics (mean luminance %.3f ± %.3f)\n%s", stats.MeanLuminance, stats.LuminanceStdDev, buf.String())
}

// createScene loads a scene file when one is given, otherwise a built-in
// scene or a file:<name> scene from dir
func createScene(dir, sceneType, sceneFile string) (*scene.Scene, error) {
	if sceneFile != "" {
		return scene.LoadFile(sceneFile)
	}
	return scene.Find(dir, sceneType)
}

// outputPath returns the file to write and makes sure its directory exists.
// Without an explicit path renders go to output/<scene>/render_<timestamp>.png.
func outputPath(explicit, sceneName string, now time.Time) (string, error) {
	filename := explicit
	if filename == "" {
		timestamp := now.Format("20060102_150405")
		filename = filepath.Join("output", sceneName, fmt.Sprintf("render_%s.png", timestamp))
	}

	if err := createOutputDir(filepath.Dir(filename)); err != nil {
		return "", err
	}
	return filename, nil
}

func createOutputDir(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("error creating output directory: %w", err)
	}
	return nil
}

func scenesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scenes",
		Short: "List available scenes or dump one as YAML",
		RunE: func(cmd *cobra.Command, args []string) error {
			dump, _ := cmd.Flags().GetString("dump")
			if dump == "" {
				return listScenes(cmd.OutOrStdout(), scenesDir)
			}

			s, err := scene.Find(scenesDir, dump)
			if err != nil {
				return err
			}
			data, err := scene.Marshal(s)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}

	cmd.Flags().String("dump", "", "print the named scene as a YAML scene file")

	return cmd
}

func listScenes(w io.Writer, dir string) error {
	response, err := scene.ListAllScenes(dir)
	if err != nil {
		return err
	}

	table := tablewriter.NewWriter(w)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"ID", "Name", "Group", "Description"})
	for _, group := range response.Groups {
		for _, info := range group.Scenes {
			table.Append([]string{info.ID, info.DisplayName, group.Name, info.Description})
		}
	}
	table.Render()
	return nil
}
