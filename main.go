package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"tether/config"
	"tether/document"
	"tether/engine"
	"tether/log"
	"tether/render"
	"tether/tui"
)

func main() {
	var (
		interactive = flag.Bool("i", false, "Interactive TUI mode")
		configPath  = flag.String("config", "", "Config file (YAML)")
		format      = flag.String("format", "svg", "Export format: svg, png, json")
		outputFile  = flag.String("o", "", "Output file (default: stdout, or <input>.<format> for png)")
		help        = flag.Bool("help", false, "Show help")
	)

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [options] [document.tether]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Routes orthogonal connectors between shapes and exports the result.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s                          # Interactive demo scene\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -i doc.tether            # Edit a document interactively\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s doc.tether               # Route and print SVG to stdout\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -format png -o out.png doc.tether\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -format json doc.tether  # Re-routed document JSON\n", os.Args[0])
	}

	flag.Parse()
	if *help {
		flag.Usage()
		os.Exit(0)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	log.Init(cfg.LogOptions())

	var filename string
	if args := flag.Args(); len(args) > 0 {
		filename = args[0]
	}

	if *interactive || filename == "" {
		if err := runInteractive(filename, cfg); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := runExport(filename, *format, *outputFile, cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// runInteractive starts the TUI, either on a loaded document or on the
// built-in demo scene.
func runInteractive(filename string, cfg config.Config) error {
	if filename == "" {
		return tui.NewDemo().Run()
	}

	doc, err := document.Load(filename)
	if err != nil {
		return err
	}
	store := engine.NewMemStore()
	m := engine.NewManager(store, cfg.Tuning())
	m.SetNotifier(store)
	doc.Populate(store, m)

	return tui.NewApp(store, m).Run()
}

// runExport loads a document, routes every connector and writes the
// requested format.
func runExport(filename, format, outputFile string, cfg config.Config) error {
	doc, err := document.Load(filename)
	if err != nil {
		return err
	}

	store := engine.NewMemStore()
	m := engine.NewManager(store, cfg.Tuning())
	m.SetNotifier(store)
	loaded := doc.Populate(store, m)
	if loaded < len(doc.Connectors) {
		log.L().Warn("some connectors could not be resolved",
			"loaded", loaded, "total", len(doc.Connectors))
	}

	opts := render.Options{
		Width:      cfg.Render.Width,
		Height:     cfg.Render.Height,
		Padding:    cfg.Render.Padding,
		Background: cfg.Render.Background,
	}

	switch strings.ToLower(format) {
	case "svg":
		if outputFile == "" {
			return render.WriteSVG(os.Stdout, store.Shapes(), m.Connectors(), opts)
		}
		return render.SaveSVG(outputFile, store.Shapes(), m.Connectors(), opts)

	case "png":
		if outputFile == "" {
			ext := filepath.Ext(filename)
			outputFile = strings.TrimSuffix(filename, ext) + ".png"
		}
		return render.SavePNG(outputFile, store.Shapes(), m.Connectors(), opts)

	case "json":
		data, err := json.MarshalIndent(doc.Snapshot(store, m), "", "  ")
		if err != nil {
			return fmt.Errorf("encoding document: %w", err)
		}
		if outputFile == "" {
			fmt.Println(string(data))
			return nil
		}
		return os.WriteFile(outputFile, data, 0o644)

	default:
		return fmt.Errorf("unknown format %q (available: svg, png, json)", format)
	}
}
