package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"runtime"
	"strings"
	"syscall"

	"github.com/ayusman/handcursor/internal/app"
	"github.com/ayusman/handcursor/internal/config"
	"github.com/ayusman/handcursor/internal/gesture"
	"github.com/ayusman/handcursor/internal/render"
	"github.com/ayusman/handcursor/internal/server"
	"github.com/ayusman/handcursor/internal/store"
	"github.com/ayusman/handcursor/internal/tray"
)

func main() {
	fmt.Println("HandCursor - Hand Gesture Cursor Control")

	defaultPath, err := config.DefaultPath()
	if err != nil {
		log.Fatalf("Failed to resolve config path: %v", err)
	}

	configPath := flag.String("config", defaultPath, "path to config.yaml")
	addr := flag.String("addr", "", "HTTP listen address (overrides config)")
	cameraID := flag.Int("camera", 0, "camera device ID, -1 to only accept landmarks over HTTP (overrides config)")
	webDir := flag.String("web", "", "static web directory (overrides config)")
	withTray := flag.Bool("tray", false, "show the system tray menu (overrides config)")
	autostart := flag.Bool("start", false, "start gesture control immediately")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "addr":
			cfg.Addr = *addr
		case "camera":
			cfg.Camera.ID = *cameraID
		case "web":
			cfg.WebDir = *webDir
		case "tray":
			cfg.Tray = *withTray
		}
	})

	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0755); err != nil {
		log.Fatalf("Failed to create data directory: %v", err)
	}
	st, err := store.New(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to initialize store: %v", err)
	}
	defer st.Close()

	surface := gesture.Size{Width: cfg.Surface.Width, Height: cfg.Surface.Height}
	var saved gesture.Size
	if err := st.Settings().GetJSON(store.SettingSurface, &saved); err == nil && saved.Width > 0 && saved.Height > 0 {
		surface = saved
	} else if err != nil && !errors.Is(err, store.ErrNotFound) {
		log.Printf("Ignoring saved surface: %v", err)
	}

	hub := server.NewCursorHub()
	sinks := render.Fanout{hub}

	var tr *tray.Tray
	if cfg.Tray {
		tr = tray.New()
		sinks = append(sinks, tr)
	}

	a := app.New(app.Config{
		Store:           st,
		CameraID:        cfg.Camera.ID,
		FPS:             cfg.Camera.FPS,
		DetectorConfig:  cfg.Detector,
		MotionThreshold: cfg.Camera.MotionThreshold,
		Surface:         surface,
		Sink:            sinks,
		PluginDir:       cfg.PluginDir,
		PluginTimeout:   cfg.PluginTimeout,
		Bindings:        cfg.Binding,
	})
	a.Session().Effects().OnClear(hub.Clear)

	if err := a.DiscoverPlugins(); err != nil {
		log.Printf("Plugin discovery failed: %v", err)
	}

	webRoot := cfg.WebDir
	if webRoot == "" {
		webRoot = findWebDir(cfg.DataDir)
	}
	if webRoot != "" {
		fmt.Printf("Serving static files from: %s\n", webRoot)
	}

	srvCfg := server.Config{
		StaticDir: webRoot,
		Store:     st,
		Session:   a.Session(),
		Control:   a,
		Cursor:    hub,
		Plugins:   a.PluginManager(),
	}
	if a.Camera() != nil {
		srvCfg.Preview = a
	}
	srv, err := server.New(srvCfg)
	if err != nil {
		log.Fatalf("Failed to create server: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *autostart {
		if err := a.Start(); err != nil {
			log.Printf("Failed to start gesture control: %v", err)
		}
	}

	serverErr := make(chan error, 1)
	go func() {
		fmt.Printf("Starting server on %s\n", cfg.Addr)
		serverErr <- srv.Run(ctx, cfg.Addr)
	}()

	if tr != nil {
		tr.SetActive(a.IsRunning())
		tr.OnToggle(a.Toggle)
		tr.OnReset(a.Session().Reset)
		tr.OnOpenUI(func() { openBrowser(uiURL(cfg.Addr)) })
		tr.OnQuit(stop)
		go func() {
			<-ctx.Done()
			tr.Quit()
		}()
		tr.Run()
	} else {
		<-ctx.Done()
	}
	stop()

	if err := a.Close(); err != nil {
		log.Printf("Error during shutdown: %v", err)
	}
	if err := <-serverErr; err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

// findWebDir searches "web", "../web", "../../web" and <dataDir>/web, returning
// the first existing directory or "".
func findWebDir(dataDir string) string {
	for _, p := range []string{"web", "../web", "../../web", filepath.Join(dataDir, "web")} {
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			if abs, err := filepath.Abs(p); err == nil {
				return abs
			}
			return p
		}
	}
	return ""
}

func uiURL(addr string) string {
	if strings.HasPrefix(addr, ":") {
		addr = "localhost" + addr
	}
	return "http://" + addr + "/"
}

func openBrowser(url string) {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	if err := cmd.Start(); err != nil {
		log.Printf("Failed to open browser: %v", err)
	}
}
