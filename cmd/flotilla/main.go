package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/five82/flotilla/internal/app"
	"github.com/five82/flotilla/internal/fleet"
)

var version = "dev"

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	flags := pflag.NewFlagSet("flotilla", pflag.ContinueOnError)
	configPath := flags.String("config", "", "config file path (default ~/.config/flotilla/config.toml)")
	prefsPath := flags.String("prefs", "", "preferences file path (default ~/.config/flotilla/prefs.toml)")
	apiURL := flags.String("api", "", "orchestration API URL, overrides api_url")
	poll := flags.Duration("poll", 0, "poll interval, overrides poll_interval (e.g. 5s)")
	logLevel := flags.String("log-level", "", "log level: debug, info, warn, error")
	once := flags.Bool("once", false, "print the fleet once and exit")
	search := flags.StringP("search", "s", "", "initial search text")
	status := flags.String("status", "", "initial status filter (running, exited, ...)")
	template := flags.StringP("template", "t", "", "initial template filter (template id)")
	showVersion := flags.Bool("version", false, "print version and exit")

	if err := flags.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return 0
		}
		fmt.Fprintf(os.Stderr, "flotilla: %v\n", err)
		return 2
	}
	if *showVersion {
		fmt.Println("flotilla " + version)
		return 0
	}
	if rest := flags.Args(); len(rest) > 0 {
		fmt.Fprintf(os.Stderr, "flotilla: unexpected argument %q\n", rest[0])
		return 2
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	opts := app.Options{
		ConfigPath:   *configPath,
		PrefsPath:    *prefsPath,
		APIURL:       *apiURL,
		PollInterval: *poll,
		LogLevel:     *logLevel,
		Once:         *once,
		Filter:       fleet.Filter{Search: *search, Status: *status, Template: *template},
	}
	if err := app.Run(ctx, opts); err != nil {
		fmt.Fprintf(os.Stderr, "flotilla: %v\n", err)
		return 1
	}
	return 0
}
