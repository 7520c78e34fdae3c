package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"exlog/internal/bootstrap"
	"exlog/internal/platform/config"
	"exlog/internal/platform/observability"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type rootFlags struct {
	dataDir    string
	configFile string
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	root := &cobra.Command{
		Use:           "exlog",
		Short:         "Log running and swimming workouts on a map",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&flags.dataDir, "data-dir", ".", "directory holding exlog data")
	root.PersistentFlags().StringVar(&flags.configFile, "config", "", "config file (default <data-dir>/exlog.yaml)")

	root.AddCommand(newAddCmd(flags))
	root.AddCommand(newListCmd(flags))
	root.AddCommand(newShowCmd(flags))
	root.AddCommand(newSelectCmd(flags))
	root.AddCommand(newResetCmd(flags))
	root.AddCommand(newExportCmd(flags))
	root.AddCommand(newTUICmd(flags))
	return root
}

// loadApp builds the app and restores saved exercises. Restored records are
// only printed when list is set.
func loadApp(cmd *cobra.Command, flags *rootFlags, list bool) (*bootstrap.App, error) {
	cfg, err := config.Load(flags.dataDir, flags.configFile)
	if err != nil {
		return nil, err
	}
	app, err := bootstrap.New(cfg, bootstrap.Options{Out: cmd.OutOrStdout(), Err: cmd.ErrOrStderr()})
	if err != nil {
		return nil, err
	}
	app.Presenter.SetMuted(!list)
	out, err := app.ExerciseCLI.Restore(cmd.Context())
	app.Presenter.SetMuted(false)
	if err != nil {
		_ = app.Close()
		return nil, err
	}
	if out.Corrupt {
		_, _ = fmt.Fprintln(cmd.ErrOrStderr(), "warning: stored exercises could not be read; starting empty")
	}
	if list && out.Count == 0 {
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no exercises")
	}
	return app, nil
}

func newAddCmd(flags *rootFlags) *cobra.Command {
	var lat, lng float64
	var distance, duration, cadence, restTime string

	add := &cobra.Command{
		Use:       "add running|swimming",
		Short:     "Log an exercise at a location",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"running", "swimming"},
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := loadApp(cmd, flags, false)
			if err != nil {
				return err
			}
			defer app.Close()
			ctx := cmd.Context()

			if !cmd.Flags().Changed("lat") || !cmd.Flags().Changed("lng") {
				loc, err := app.ExerciseCLI.Locate(ctx)
				if err != nil {
					return fmt.Errorf("pass --lat and --lng or enable location in config: %w", err)
				}
				lat, lng = loc.Lat, loc.Lng
			}
			if err := app.ExerciseCLI.PickLocation(ctx, lat, lng); err != nil {
				return err
			}

			extra := cadence
			if strings.EqualFold(args[0], "swimming") {
				extra = restTime
			}
			out, err := app.ExerciseCLI.Submit(ctx, args[0], distance, duration, extra)
			if err != nil {
				return err
			}
			if !out.Committed {
				return fmt.Errorf("exercise rejected: invalid %s", out.Field)
			}
			return nil
		},
	}
	add.Flags().Float64Var(&lat, "lat", 0, "latitude of the exercise")
	add.Flags().Float64Var(&lng, "lng", 0, "longitude of the exercise")
	add.Flags().StringVar(&distance, "distance", "", "distance in km")
	add.Flags().StringVar(&duration, "duration", "", "duration in minutes")
	add.Flags().StringVar(&cadence, "cadence", "", "running cadence in steps per minute")
	add.Flags().StringVar(&restTime, "rest-time", "", "swimming rest time in minutes")
	return add
}

func newListCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List logged exercises",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(cmd, flags, true)
			if err != nil {
				return err
			}
			return app.Close()
		},
	}
}

func newShowCmd(flags *rootFlags) *cobra.Command {
	var exerciseID string
	show := &cobra.Command{
		Use:   "show --id <id>",
		Short: "Show exercise details",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if strings.TrimSpace(exerciseID) == "" {
				return fmt.Errorf("--id is required")
			}
			app, err := loadApp(cmd, flags, false)
			if err != nil {
				return err
			}
			defer app.Close()
			r, err := app.ExerciseCLI.Get(cmd.Context(), exerciseID)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(w, "id: %s\ntype: %s\nlabel: %s\ndate: %s\ncoords: %.5f,%.5f\n", r.ID, r.Kind, r.Label, r.CreatedAt.Format(time.RFC3339), r.Lat, r.Lng)
			_, _ = fmt.Fprintf(w, "distance_km: %g\nduration_min: %g\nspeed_kmh: %.1f\n", r.DistanceKm, r.DurationMin, r.SpeedKmH)
			if r.Kind == "swimming" {
				_, _ = fmt.Fprintf(w, "rest_time_min: %g\n", r.RestTimeMin)
			} else {
				_, _ = fmt.Fprintf(w, "cadence_spm: %g\n", r.CadenceSpm)
			}
			_, _ = fmt.Fprintf(w, "selections: %d\n", r.SelectCount)
			return nil
		},
	}
	show.Flags().StringVar(&exerciseID, "id", "", "exercise id")
	return show
}

func newSelectCmd(flags *rootFlags) *cobra.Command {
	var exerciseID string
	sel := &cobra.Command{
		Use:   "select --id <id>",
		Short: "Focus the map on an exercise",
		Long: "Focus the map on an exercise and count the selection.\n\n" +
			"The selection count is not saved by this command. It is written with the\n" +
			"next exercise added, so a later run still shows the stored count.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(cmd, flags, false)
			if err != nil {
				return err
			}
			defer app.Close()
			out, err := app.ExerciseCLI.Select(cmd.Context(), exerciseID)
			if err != nil {
				return err
			}
			if !out.Found {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no record")
			}
			return nil
		},
	}
	sel.Flags().StringVar(&exerciseID, "id", "", "exercise id")
	return sel
}

func newResetCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Delete every logged exercise",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(cmd, flags, false)
			if err != nil {
				return err
			}
			defer app.Close()
			return app.ExerciseCLI.Reset(cmd.Context())
		},
	}
}

func newExportCmd(flags *rootFlags) *cobra.Command {
	var dir string
	export := &cobra.Command{
		Use:   "export --dir <path>",
		Short: "Write one Markdown note per exercise",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if strings.TrimSpace(dir) == "" {
				return fmt.Errorf("--dir is required")
			}
			app, err := loadApp(cmd, flags, false)
			if err != nil {
				return err
			}
			defer app.Close()
			out, err := app.ExerciseCLI.Export(cmd.Context(), dir)
			if err != nil {
				return err
			}
			for _, p := range out.Paths {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), p)
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%d notes exported\n", len(out.Paths))
			return nil
		},
	}
	export.Flags().StringVar(&dir, "dir", "", "journal directory")
	return export
}

func newTUICmd(flags *rootFlags) *cobra.Command {
	var metricsAddr string
	tui := &cobra.Command{
		Use:   "tui",
		Short: "Run the exlog terminal UI",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(flags.dataDir, flags.configFile)
			if err != nil {
				return err
			}
			app, err := bootstrap.New(cfg, bootstrap.Options{Interactive: true})
			if err != nil {
				return err
			}
			defer app.Close()

			if metricsAddr != "" {
				mux := http.NewServeMux()
				mux.Handle("/metrics", observability.Handler())
				srv := &http.Server{Addr: metricsAddr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
				go func() {
					if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
						app.Logger.Error("metrics server stopped", "addr", metricsAddr, "err", err)
					}
				}()
				defer func() {
					ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
					defer cancel()
					_ = srv.Shutdown(ctx)
				}()
			}
			return bootstrap.RunTUI(app)
		},
	}
	tui.Flags().StringVar(&metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address, e.g. :9090")
	return tui
}
