package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"voxhud/config"
	"voxhud/frame"
	"voxhud/hotkey"
	"voxhud/hud"
	"voxhud/log"
	"voxhud/visibility"
)

type op int

const (
	opNone op = iota
	opKeyDown
	opKeyUp
	opStart
	opStop
	opToggle
	opLevel
	opSleep
	opQuit
)

var bareOps = map[string]op{
	"KEYDOWN": opKeyDown,
	"KEYUP":   opKeyUp,
	"START":   opStart,
	"STOP":    opStop,
	"TOGGLE":  opToggle,
	"QUIT":    opQuit,
}

type command struct {
	op    op
	level float64
	wait  time.Duration
}

// parseCommand reads one script line. Blank lines and lines starting with
// '#' parse to opNone.
func parseCommand(line string) (command, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
		return command{}, nil
	}
	name := strings.ToUpper(fields[0])
	args := fields[1:]

	if o, ok := bareOps[name]; ok {
		if len(args) != 0 {
			return command{}, fmt.Errorf("%s takes no arguments", name)
		}
		return command{op: o}, nil
	}

	if len(args) != 1 {
		return command{}, fmt.Errorf("%s needs one argument", name)
	}
	switch name {
	case "LEVEL":
		v, err := strconv.ParseFloat(args[0], 64)
		if err != nil {
			return command{}, fmt.Errorf("LEVEL: %w", err)
		}
		return command{op: opLevel, level: v}, nil
	case "SLEEP":
		ms, err := strconv.Atoi(args[0])
		if err != nil {
			return command{}, fmt.Errorf("SLEEP: %w", err)
		}
		if ms < 0 {
			return command{}, fmt.Errorf("SLEEP: negative duration %d", ms)
		}
		return command{op: opSleep, wait: time.Duration(ms) * time.Millisecond}, nil
	}
	return command{}, fmt.Errorf("unknown command %q", fields[0])
}

// loopSink re-enters the headless event loop through dispatch.
type loopSink struct {
	dispatch func(func())
	ind      *hud.Indicator
}

func (s loopSink) RecordingStart() { s.dispatch(s.ind.RecordingStart) }
func (s loopSink) RecordingStop()  { s.dispatch(s.ind.RecordingStop) }
func (s loopSink) RecordingTick(d time.Duration) {
	s.dispatch(func() { s.ind.RecordingTick(d) })
}
func (s loopSink) AudioLevel(level float64) {
	s.dispatch(func() { s.ind.AudioLevel(level) })
}

// runHeadless drives the indicator from script commands with real time and
// no display. Every visibility change is printed as "<ms>\t<state>", with
// the time relative to startup.
func runHeadless(ctx context.Context, cfg *config.Config, o runOptions, in io.Reader, out io.Writer) error {
	if err := log.Init(); err != nil {
		fmt.Fprintf(out, "Warning: could not init logging: %v\n", err)
	}
	defer log.Close()
	log.SessionStart("headless", cfg.Bars.Count, cfg.Motion.FPS)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	calls := make(chan func(), 64)
	dispatch := func(f func()) {
		select {
		case calls <- f:
		case <-ctx.Done():
		}
	}

	ticker := frame.NewTicker(cfg.Motion.FPS, dispatch)
	began := time.Now()
	ind := hud.New(cfg, hud.Deps{
		Frames: ticker,
		Clock:  visibility.NewDispatchClock(dispatch),
		Source: newSource(cfg, o),
		Scale:  o.scale,
		Trace:  o.trace,
		OnState: func(s visibility.State) {
			fmt.Fprintf(out, "%d\t%s\n", time.Since(began).Milliseconds(), s)
		},
	})

	sink := loopSink{dispatch: dispatch, ind: ind}
	rec := newRecorder(sink, recordingTickInterval)
	keys := hotkey.NewFake()
	hy := hotkey.NewHybrid(keys, o.longPress)
	hotkeyDone := make(chan struct{})
	go func() {
		defer close(hotkeyDone)
		listenHotkey(ctx, hy, rec)
	}()

	go func() {
		defer cancel()
		if err := drive(ctx, in, keys, rec, sink); err != nil {
			log.Errorf("script: %v", err)
			fmt.Fprintf(out, "script: %v\n", err)
		}
	}()

loop:
	for {
		select {
		case f := <-calls:
			f()
		case <-ctx.Done():
			break loop
		}
	}

	rec.Close()
	<-hotkeyDone
	hy.Close()
	ticker.Close()
	ind.Close()
	log.SessionEnd(ind.Recordings())
	return nil
}

// drive executes script commands until QUIT, end of input or ctx is done.
func drive(ctx context.Context, in io.Reader, keys *hotkey.Fake, rec *recorder, sink EventSink) error {
	scanner := bufio.NewScanner(in)
	for n := 1; scanner.Scan(); n++ {
		cmd, err := parseCommand(scanner.Text())
		if err != nil {
			return fmt.Errorf("line %d: %w", n, err)
		}
		switch cmd.op {
		case opKeyDown:
			keys.Down()
		case opKeyUp:
			keys.Up()
		case opStart:
			rec.Start()
		case opStop:
			rec.Stop()
		case opToggle:
			rec.Toggle()
		case opLevel:
			sink.AudioLevel(cmd.level)
		case opSleep:
			select {
			case <-time.After(cmd.wait):
			case <-ctx.Done():
				return nil
			}
		case opQuit:
			return nil
		}
		if ctx.Err() != nil {
			return nil
		}
	}
	return scanner.Err()
}
