package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	_ "net/http/pprof"
	"os"
	"path/filepath"
	"runtime/debug"
	"strings"
	"time"

	"golang.org/x/term"

	"uitranscriber/beep"
	"uitranscriber/config"
	"uitranscriber/doctor"
	"uitranscriber/hotkey"
	"uitranscriber/input"
	"uitranscriber/log"
	"uitranscriber/script"
	"uitranscriber/shutdown"
)

var version = "dev"

const pumpDrainTimeout = 2 * time.Second

// flagKeys maps command-line flags onto config keys. Only flags the user
// actually set override the config file and environment.
var flagKeys = map[string]string{
	"output":        "output",
	"interpreter":   "interpreter",
	"script-name":   "script_name",
	"pause":         "pause",
	"logpath":       "log_path",
	"tui":           "tui",
	"beep":          "beep",
	"hybrid":        "hybrid",
	"longpress":     "long_press",
	"flush-on-stop": "flush_on_stop",
	"repeat-all":    "repeat_all_special",
	"escape":        "escape_text",
	"record":        "record_on_start",
	"debug":         "debug",
}

func flagOverrides(fs *flag.FlagSet) map[string]any {
	out := make(map[string]any)
	fs.Visit(func(f *flag.Flag) {
		key, ok := flagKeys[f.Name]
		if !ok {
			return
		}
		if g, ok := f.Value.(flag.Getter); ok {
			out[key] = g.Get()
		} else {
			out[key] = f.Value.String()
		}
	})
	return out
}

// wantTUI decides between the terminal UI and headless output.
func wantTUI(mode string, stdinTTY, stdoutTTY bool) bool {
	switch mode {
	case config.TUIOn:
		return true
	case config.TUIOff:
		return false
	default:
		return stdinTTY && stdoutTTY
	}
}

// logPathArg finds -logpath before flags are parsed, for the crash log.
func logPathArg(args []string) string {
	for i, arg := range args {
		name := strings.TrimLeft(arg, "-")
		if name == arg {
			continue
		}
		if v, ok := strings.CutPrefix(name, "logpath="); ok {
			return v
		}
		if name == "logpath" && i+1 < len(args) {
			return args[i+1]
		}
	}
	return ""
}

// initCrashLog routes fatal runtime errors to crash_log.txt in the log dir.
func initCrashLog() {
	dir, err := log.ResolveDir(logPathArg(os.Args[1:]))
	if err != nil {
		return
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return
	}
	crashFile, err := os.OpenFile(filepath.Join(dir, "crash_log.txt"), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return
	}
	fmt.Fprintf(crashFile, "\n=== Session %s [pid=%d] ===\n", time.Now().Format("2006-01-02 15:04:05"), os.Getpid())
	debug.SetCrashOutput(crashFile, debug.CrashOptions{})
}

func run() {
	configFlag := flag.String("config", "", "config file (default: ./uitranscriber.yml, then the user config dir)")
	flag.String("output", script.DefaultScriptName, "path the script is saved to")
	flag.String("interpreter", script.DefaultInterpreter, "interpreter named in the shebang line")
	flag.String("script-name", script.DefaultScriptName, "script name shown in the usage docstring")
	flag.Float64("pause", script.DefaultPause, "pyautogui.PAUSE value")
	flag.String("logpath", "", "log directory path (default: OS-specific location, use ./ for current dir)")
	flag.String("tui", config.TUIAuto, "terminal UI: auto, on or off")
	headlessFlag := flag.Bool("headless", false, "no TUI: print script lines to stdout and save on exit")
	flag.Bool("beep", true, "audible cues on record, stop and save")
	flag.Bool("hybrid", true, "hotkey tap toggles recording, hold records while held")
	flag.Duration("longpress", 350*time.Millisecond, "hold threshold for the hybrid hotkey (e.g., 350ms)")
	flag.Bool("flush-on-stop", false, "write pending text and key runs when recording stops")
	flag.Bool("repeat-all", false, "coalesce repeats of every named special key, not only backspace")
	flag.Bool("escape", false, "escape backslashes and quotes inside write()")
	flag.Bool("record", false, "start recording immediately")
	flag.Bool("debug", false, "debug-level diagnostics")
	versionFlag := flag.Bool("version", false, "Print version and exit")
	doctorFlag := flag.Bool("doctor", false, "Run system diagnostics and exit")
	testFlag := flag.Bool("test", false, "Test mode (headless, stdin-driven)")
	crashFlag := flag.Bool("crash", false, "Trigger synthetic panic for testing crash logging")
	profileFlag := flag.String("profile", "", "Enable pprof profiling server (e.g., :6060 or localhost:6060)")
	flag.Parse()

	if *versionFlag {
		fmt.Printf("uitranscriber %s\n", version)
		os.Exit(0)
	}

	overrides := flagOverrides(flag.CommandLine)
	if *headlessFlag {
		overrides["tui"] = config.TUIOff
	}
	cfg, err := config.Load(config.Options{File: *configFlag, Overrides: overrides})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	logPath, err := log.ResolveDir(cfg.LogPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to resolve log directory: %v\n", err)
		os.Exit(1)
	}
	log.SetDir(logPath)
	log.SetDebug(cfg.Debug)
	if err := log.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not init logging: %v\n", err)
	}
	if cfg.File != "" {
		log.Info("config_file: " + cfg.File)
	}

	if *crashFlag {
		panic("TEST CRASH: synthetic panic to verify crash logging")
	}

	if *profileFlag != "" {
		go func() {
			fmt.Fprintf(os.Stderr, "pprof server listening on http://%s/debug/pprof/\n", *profileFlag)
			if err := http.ListenAndServe(*profileFlag, nil); err != nil {
				fmt.Fprintf(os.Stderr, "pprof server error: %v\n", err)
			}
		}()
	}

	if !cfg.Beep {
		beep.Disable()
	} else {
		go beep.Init()
	}

	if *doctorFlag {
		code := doctor.Run()
		log.Close()
		os.Exit(code)
	}

	if *testFlag {
		code := runTestMode(cfg, os.Stdin, os.Stdout, os.Stderr)
		log.Close()
		os.Exit(code)
	}

	useTUI := wantTUI(cfg.TUI, term.IsTerminal(int(os.Stdin.Fd())), term.IsTerminal(int(os.Stdout.Fd())))
	code := runInteractive(cfg, useTUI)
	log.Close()
	os.Exit(code)
}

func runInteractive(cfg config.Config, useTUI bool) int {
	ctx, stop := shutdown.Context(context.Background())
	defer stop()

	var echo io.Writer
	if !useTUI {
		echo = os.Stdout
	}
	a := newApp(cfg, consoleFrontend{w: os.Stderr}, echo)

	var prog *tuiProgram
	if useTUI {
		prog = newTUIProgram(a)
		a.ui = prog
	}

	runErr := make(chan error, 1)
	go func() { runErr <- a.sess.Run(ctx, input.NewHook()) }()

	hk := hotkey.New()
	if err := hk.Register(); err != nil {
		log.Errorf("hotkey register error: %v", err)
		a.ui.Error(fmt.Errorf("hotkey %s unavailable: %w", hotkey.Chord, err))
	} else {
		defer hk.Unregister()
		go a.watchHotkey(ctx, hk)
	}
	go a.forward(ctx)

	if cfg.RecordOnStart {
		a.setRecording(true)
	}

	code := 0
	if useTUI {
		go func() {
			select {
			case err := <-runErr:
				if err != nil && !errors.Is(err, context.Canceled) {
					log.Errorf("input error: %v", err)
					a.ui.Error(err)
				}
				runErr <- err
			case <-ctx.Done():
			}
		}()
		go func() {
			<-ctx.Done()
			prog.Quit()
		}()
		if err := prog.Run(); err != nil {
			log.Errorf("TUI error: %v", err)
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			code = 1
		}
	} else {
		a.ui.Status(fmt.Sprintf("listening; %s or -record to start, Ctrl+C to quit and save to %s", hotkey.Chord, cfg.Output))
		select {
		case <-ctx.Done():
		case err := <-runErr:
			if err != nil {
				log.Errorf("input error: %v", err)
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				code = 1
			}
			runErr <- err
		}
	}

	stop()
	select {
	case <-runErr:
	case <-time.After(pumpDrainTimeout):
		log.Warn("input pump did not stop in time")
	}

	path, err := a.finish()
	switch {
	case err != nil:
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		code = 1
	case path != "":
		fmt.Fprintf(os.Stderr, "Script saved to %s\n", path)
	}
	return code
}
