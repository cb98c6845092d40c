package main

import (
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	"path/filepath"
	"runtime/debug"
	"time"

	"github.com/spf13/cobra"

	"voxhud/config"
	"voxhud/doctor"
	"voxhud/log"
)

var version = "dev"

// Persistent flags, shared by every command.
var (
	configPath string
	logPath    string
	logLevel   string
	profile    string
	crash      bool
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "voxhud",
		Short: "Recording indicator overlay for a voice dictation backend",
		Long: "voxhud shows a small animated waveform while a recording is active and\n" +
			"fades it out shortly after the recording stops.",
		SilenceUsage:      true,
		PersistentPreRunE: setup,
	}
	root.Version = version
	root.SetVersionTemplate("voxhud {{.Version}}\n")

	pf := root.PersistentFlags()
	pf.StringVar(&configPath, "config", "", "config file (.yaml, .yml or .toml)")
	pf.StringVar(&logPath, "logpath", "", "log directory path (default: OS-specific location, use ./ for current dir)")
	pf.StringVar(&logLevel, "level", "info", "diagnostics log level (debug, info, warn, error)")
	pf.StringVar(&profile, "profile", "", "enable pprof profiling server (e.g., :6060 or localhost:6060)")
	pf.BoolVar(&crash, "crash", false, "trigger a synthetic panic to test crash logging")
	pf.MarkHidden("crash")

	run := newRunCmd()
	root.RunE = run.RunE
	root.Flags().AddFlagSet(run.Flags())

	root.AddCommand(run, newGUICmd(), newRenderCmd(), newConfigCmd(), newDoctorCmd(), newVersionCmd())
	return root
}

// setup resolves the log directory and installs the crash log and the
// profiling server. The diagnostics log itself is opened by each host.
func setup(cmd *cobra.Command, args []string) error {
	dir, err := log.ResolveDir(logPath)
	if err != nil {
		return fmt.Errorf("failed to resolve log directory: %w", err)
	}
	log.SetDir(dir)
	if err := log.SetLevel(logLevel); err != nil {
		return err
	}
	if err := log.EnsureDir(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not create log directory: %v\n", err)
	}

	initCrashLog()

	if profile != "" {
		go func() {
			fmt.Fprintf(os.Stderr, "pprof server listening on http://%s/debug/pprof/\n", profile)
			if err := http.ListenAndServe(profile, nil); err != nil {
				fmt.Fprintf(os.Stderr, "pprof server error: %v\n", err)
			}
		}()
	}

	if crash {
		panic("TEST CRASH: synthetic panic to verify crash logging")
	}
	return nil
}

func initCrashLog() {
	crashPath := filepath.Join(log.Dir(), "crash_log.txt")
	crashFile, err := os.OpenFile(crashPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return
	}
	fmt.Fprintf(crashFile, "\n=== Session %s [pid=%d] ===\n", time.Now().Format("2006-01-02 15:04:05"), os.Getpid())
	debug.SetCrashOutput(crashFile, debug.CrashOptions{})
}

// loadConfig returns the defaults when no --config was given.
func loadConfig() (*config.Config, error) {
	if configPath == "" {
		return config.Default(), nil
	}
	return config.Load(configPath)
}

func newConfigCmd() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			out, err := cfg.Encode(format)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}
	cmd.Flags().StringVar(&format, "format", "yaml", "output format: yaml or toml")
	return cmd
}

func newDoctorCmd() *cobra.Command {
	var withHotkey bool
	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Run system diagnostics and exit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			os.Exit(doctor.Run(cfg, log.Dir(), withHotkey))
			return nil
		},
	}
	cmd.Flags().BoolVar(&withHotkey, "hotkey", true, "wait for a hotkey press")
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version and exit",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "voxhud %s\n", version)
		},
	}
}

func execute() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
