package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Dolcruz/stt-desktop/internal/app"
	"github.com/Dolcruz/stt-desktop/internal/config"
	"github.com/Dolcruz/stt-desktop/internal/logging"
	"github.com/Dolcruz/stt-desktop/internal/notify"
	"github.com/Dolcruz/stt-desktop/internal/update"
)

// Version is set at build time via -ldflags "-X main.Version=...".
var Version = "dev"

func main() {
	var (
		flagConfig  = flag.String("config", "", "path to config.json (default: app data dir)")
		flagFile    = flag.String("file", "", "transcribe an existing audio file and exit")
		flagOut     = flag.String("o", "", "transcript output path for -file mode")
		flagDialog  = flag.Bool("dialog", false, "run two-speaker voice translation mode")
		flagDebug   = flag.Bool("debug", false, "enable debug logging")
		flagVersion = flag.Bool("version", false, "print version and exit")
	)
	flag.Parse()

	if *flagVersion {
		fmt.Println("stt-desktop", Version)
		return
	}

	cfgPath := *flagConfig
	if cfgPath == "" {
		var err error
		cfgPath, err = config.ConfigPath()
		if err != nil {
			fmt.Fprintf(os.Stderr, "resolve config path: %v\n", err)
			os.Exit(1)
		}
	}
	cfg := config.Load(cfgPath)
	if *flagDebug {
		cfg.Debug = true
	}
	if err := config.Validate(&cfg); err != nil {
		fmt.Fprintf(os.Stderr, "invalid config: %v\n", err)
		os.Exit(1)
	}

	appDir, err := config.AppDir()
	if err != nil {
		fmt.Fprintf(os.Stderr, "resolve app dir: %v\n", err)
		os.Exit(1)
	}
	logCloser, err := logging.Setup(appDir, cfg.Debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "set up logging: %v\n", err)
		os.Exit(1)
	}
	defer logCloser.Close()
	slog.Info("starting", "version", Version, "config", cfgPath)

	a, err := app.New(cfg)
	if err != nil {
		slog.Error("startup failed", "err", err)
		os.Exit(1)
	}
	defer a.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go checkForUpdate(ctx, cfg)

	switch {
	case *flagFile != "":
		err = a.RunFileMode(ctx, *flagFile, *flagOut)
	case *flagDialog:
		err = a.RunDialogMode(ctx)
	default:
		err = a.RunRecordMode(ctx)
	}
	if err != nil && ctx.Err() == nil {
		slog.Error("run failed", "err", err)
		os.Exit(1)
	}
}

// checkForUpdate queries GitHub once in the background and notifies when a
// newer release exists. Never blocks or fails startup.
func checkForUpdate(ctx context.Context, cfg config.Settings) {
	checker := update.NewChecker(&http.Client{Timeout: 10 * time.Second}, Version)
	rel, err := checker.Check(ctx)
	if err != nil {
		slog.Debug("update check failed", "err", err)
		return
	}
	if rel == nil {
		return
	}
	slog.Info("update available", "version", rel.Version, "url", rel.DownloadURL)
	if cfg.Notification {
		notify.Notify("STT Desktop", "Version "+rel.Version+" is available")
	}
}
