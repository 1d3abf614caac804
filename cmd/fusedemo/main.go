// Command fusedemo runs timer stories on a single host and prints every
// render. With -control, an extra timer is driven by the contents of a file:
// write a number to take control, empty the file or delete it to let the
// timer count on its own.
//
//	fusedemo -story synced -duration 3s
//	fusedemo -control /tmp/value.yaml -events
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/zoobzio/capitan"
	"github.com/zoobzio/fuse"
	"github.com/zoobzio/fuse/timer"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "fusedemo: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	cfg, err := parseConfig(args)
	if err != nil {
		return err
	}

	if cfg.Events {
		hookEvents()
	}
	defer capitan.Shutdown()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, cfg.Duration)
	defer cancel()

	var app *demo
	host := fuse.NewHost(func() { app.render() })
	app, err = newDemo(host, cfg)
	if err != nil {
		return err
	}

	hostDone := make(chan error, 1)
	go func() { hostDone <- host.Run(ctx) }()

	if err := app.start(ctx); err != nil {
		return err
	}
	defer app.stop()

	<-ctx.Done()
	<-hostDone
	fmt.Printf("--- %d renders ---\n", host.Renders())
	return nil
}

// parseConfig loads the optional config file and applies flags on top.
func parseConfig(args []string) (Config, error) {
	fs := flag.NewFlagSet("fusedemo", flag.ContinueOnError)
	path := fs.String("config", "fuse.yaml", "optional config file")
	story := fs.String("story", "", "story to run: all, no-props, default-prop, observed, controlled, synced")
	duration := fs.Duration("duration", 0, "how long to run")
	interval := fs.Duration("interval", 0, "timer tick interval")
	control := fs.String("control", "", "file controlling an extra timer")
	format := fs.String("format", "", "control file format: yaml or json")
	events := fs.Bool("events", false, "print fuse events")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	cfg, err := LoadOptional(*path)
	if err != nil {
		return cfg, err
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "story":
			cfg.Story = *story
		case "duration":
			cfg.Duration = *duration
		case "interval":
			cfg.Interval = *interval
		case "control":
			cfg.Control = *control
		case "format":
			cfg.Format = *format
		case "events":
			cfg.Events = *events
		}
	})

	return cfg, cfg.Validate()
}

// demo owns the stories and the optional file-controlled timer. Everything
// except start and stop runs on the host goroutine.
type demo struct {
	host    *fuse.Host
	stories []*timer.Story

	file    *timer.Timer
	binding *fuse.Binding[int]
}

func newDemo(host *fuse.Host, cfg Config) (*demo, error) {
	d := &demo{host: host}

	for _, s := range timer.All(host) {
		if cfg.Story == "all" || cfg.Story == s.Name() {
			s.Timer().Interval(cfg.Interval)
			d.stories = append(d.stories, s)
		}
	}
	if len(d.stories) == 0 && cfg.Control == "" {
		return nil, fmt.Errorf("unknown story %q", cfg.Story)
	}

	if cfg.Control != "" {
		d.file = timer.New(host, timer.Props{}).Interval(cfg.Interval)
		var codec fuse.Codec = fuse.YAMLCodec{}
		if cfg.Format == "json" {
			codec = fuse.JSONCodec{}
		}
		d.binding = fuse.Bind(fuse.NewFileWatcher(cfg.Control), d.file.State(), host).
			Name("file-controlled").
			Codec(codec).
			ErrorHistorySize(5)
	}
	return d, nil
}

func (d *demo) start(ctx context.Context) error {
	if d.binding != nil {
		if err := d.binding.Start(ctx); err != nil {
			fmt.Fprintf(os.Stderr, "control file rejected: %v\n", err)
		}
		d.file.Attach(ctx)
	}
	for _, s := range d.stories {
		s.Attach(ctx)
	}
	// First render
	return d.host.Dispatch(d.host.Invalidate)
}

func (d *demo) stop() {
	for _, s := range d.stories {
		s.Detach()
	}
	if d.file != nil {
		d.file.Detach()
	}
}

func (d *demo) render() {
	lines := make([]string, 0, len(d.stories)+1)
	for _, s := range d.stories {
		lines = append(lines, fmt.Sprintf("%-13s %s", s.Name(), s.Render()))
	}
	if d.file != nil {
		d.file.Rerender(timer.Props{Value: d.binding.External()})
		lines = append(lines, fmt.Sprintf("%-13s %s (%s)", "file", d.file.Render(), d.file.State().Mode()))
	}
	fmt.Println(strings.Join(lines, "\n"))
	fmt.Println()
}

// hookEvents prints the events worth seeing while the demo runs.
func hookEvents() {
	capitan.Hook(fuse.StateModeChanged, func(_ context.Context, e *capitan.Event) {
		name, _ := fuse.KeyName.From(e)
		from, _ := fuse.KeyOldMode.From(e)
		to, _ := fuse.KeyNewMode.From(e)
		fmt.Printf("[MODE] %s: %s → %s\n", name, from, to)
	})

	capitan.Hook(fuse.StateExternalSynced, func(_ context.Context, e *capitan.Event) {
		name, _ := fuse.KeyName.From(e)
		value, _ := fuse.KeyValue.From(e)
		fmt.Printf("[SYNC] %s ← %s\n", name, value)
	})

	capitan.Hook(fuse.BindingApplied, func(_ context.Context, e *capitan.Event) {
		value, _ := fuse.KeyValue.From(e)
		fmt.Printf("[APPLIED] control file value %s\n", value)
	})

	rejected := func(_ context.Context, e *capitan.Event) {
		errMsg, _ := fuse.KeyError.From(e)
		fmt.Printf("[REJECTED] %s\n", errMsg)
	}
	capitan.Hook(fuse.BindingDecodeFailed, rejected)
	capitan.Hook(fuse.BindingValidationFailed, rejected)
	capitan.Hook(fuse.BindingPipelineFailed, rejected)
	capitan.Hook(fuse.BindingDispatchFailed, rejected)

	capitan.Hook(timer.TimerAttached, func(_ context.Context, e *capitan.Event) {
		interval, _ := fuse.KeyInterval.From(e)
		fmt.Printf("[ATTACHED] ticking every %v\n", interval)
	})
}
