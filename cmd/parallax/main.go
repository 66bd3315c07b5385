// Package main is the entry point for the Parallax editor core.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/4inzler/Parallax-engine/internal/app"
	"github.com/4inzler/Parallax-engine/internal/plugin"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

type cliOptions struct {
	app.Options
	frames      uint64
	list        bool
	invoke      string
	showVersion bool
}

func main() {
	os.Exit(run())
}

func run() int {
	opts := parseFlags()
	if opts.showVersion {
		fmt.Printf("Parallax %s\n", version)
		fmt.Printf("Commit: %s\n", commit)
		fmt.Printf("Built: %s\n", date)
		return 0
	}

	application, err := app.New(opts.Options)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	defer application.Shutdown()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if opts.list || opts.invoke != "" {
		application.LoadPlugins(ctx)
		if opts.invoke != "" {
			if err := application.Plugins().InvokeMenuItem(opts.invoke); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				return 1
			}
		}
		if opts.list {
			if err := printPlugins(os.Stdout, application.Plugins()); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				return 1
			}
		}
		return 0
	}

	if err := application.Run(ctx, opts.frames); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func parseFlags() cliOptions {
	var opts cliOptions

	flag.StringVar(&opts.ConfigPath, "config", "", "Path to configuration file (.toml, .yaml)")
	flag.StringVar(&opts.ConfigPath, "c", "", "Path to configuration file (shorthand)")
	flag.StringVar(&opts.PluginDir, "plugins", "", "Plugin directory (overrides config)")
	flag.StringVar(&opts.LogLevel, "log-level", "", "Log level (debug, info, warn, error)")
	flag.Uint64Var(&opts.frames, "frames", 0, "Stop after this many frames (0 runs until interrupted)")
	flag.BoolVar(&opts.list, "list", false, "Load plugins, print them with the menu tree and exit")
	flag.StringVar(&opts.invoke, "invoke", "", "Load plugins, run the menu item at this path and exit")
	flag.BoolVar(&opts.showVersion, "version", false, "Show version information")
	flag.BoolVar(&opts.showVersion, "v", false, "Show version information (shorthand)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Parallax - editor core with native and script plugins\n\n")
		fmt.Fprintf(os.Stderr, "Usage: parallax [options]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  parallax -plugins ./plugins -list\n")
		fmt.Fprintf(os.Stderr, "  parallax -invoke \"Tools/Example Plugin/Say Hello\"\n")
		fmt.Fprintf(os.Stderr, "  parallax -config parallax.toml -frames 600\n")
	}

	flag.Parse()

	switch opts.LogLevel {
	case "", "debug", "info", "warn", "error":
	default:
		fmt.Fprintf(os.Stderr, "Error: invalid log level %q (must be debug, info, warn, or error)\n", opts.LogLevel)
		os.Exit(2)
	}
	return opts
}

func printPlugins(w io.Writer, m *plugin.Manager) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tVERSION\tAUTHOR\tPATH")
	for _, name := range m.LoadedPlugins() {
		rec, ok := m.Plugin(name)
		if !ok {
			continue
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", rec.Info.Name, rec.Info.Version, rec.Info.Author, rec.Path)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	root := plugin.BuildMenu(m.MenuItems())
	if len(root.Children) == 0 {
		return nil
	}
	fmt.Fprintln(w)
	return root.Write(w)
}
