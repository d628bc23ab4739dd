// Command schoolbell drives a bell relay on a daily schedule, with
// manual and emergency panel buttons, an HTTP schedule editor, and
// MQTT event publishing.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tmcnab/schoolbell/internal/clock"
	"github.com/tmcnab/schoolbell/internal/control"
	"github.com/tmcnab/schoolbell/internal/gpio"
	"github.com/tmcnab/schoolbell/internal/mqtt"
	"github.com/tmcnab/schoolbell/internal/persist"
	"github.com/tmcnab/schoolbell/internal/schedule"
	"github.com/tmcnab/schoolbell/internal/status"
	"github.com/tmcnab/schoolbell/internal/web"
)

func main() {
	poll := flag.Duration("poll", 100*time.Millisecond, "Control loop tick interval")
	debounce := flag.Duration("debounce", 50*time.Millisecond, "Input debounce window")
	broker := flag.String("broker", "tcp://192.168.1.200:1883", "MQTT broker address")
	heartbeat := flag.Duration("heartbeat", 15*time.Minute, "Heartbeat interval (0 to disable)")
	stateFile := flag.String("state", "/var/lib/schoolbell/schedule.json", "Schedule state file")
	httpAddr := flag.String("http", ":80", "HTTP address (empty to disable)")
	pinRelay := flag.Int("pin-relay", gpio.DefaultPinRelay, "BCM pin number for the bell relay")
	pinManual := flag.Int("pin-manual", gpio.DefaultPinManual, "BCM pin number for the manual ring button")
	pinEmergency := flag.Int("pin-emergency", gpio.DefaultPinEmergency, "BCM pin number for the emergency button")
	pinDisplay := flag.Int("pin-display", gpio.DefaultPinDisplay, "BCM pin number for the display mode switch")
	testRing := flag.Duration("test-ring", 0, "Ring the bell for the given duration and exit")
	printSchedule := flag.Bool("print-schedule", false, "Print the persisted schedule and exit")

	flag.Parse()

	if err := run(config{
		poll:          *poll,
		debounce:      *debounce,
		broker:        *broker,
		heartbeat:     *heartbeat,
		stateFile:     *stateFile,
		httpAddr:      *httpAddr,
		pinRelay:      *pinRelay,
		pinManual:     *pinManual,
		pinEmergency:  *pinEmergency,
		pinDisplay:    *pinDisplay,
		testRing:      *testRing,
		printSchedule: *printSchedule,
	}); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}

type config struct {
	poll          time.Duration
	debounce      time.Duration
	broker        string
	heartbeat     time.Duration
	stateFile     string
	httpAddr      string
	pinRelay      int
	pinManual     int
	pinEmergency  int
	pinDisplay    int
	testRing      time.Duration
	printSchedule bool
}

func run(cfg config) error {
	// Print mode needs no hardware.
	if cfg.printSchedule {
		gateway := persist.NewFileGateway(cfg.stateFile)
		doc, ok := gateway.Load()
		if !ok {
			fmt.Println("no schedule stored")
			return nil
		}
		printDocument(os.Stdout, doc)
		return nil
	}

	relay, err := gpio.NewRealRelay(cfg.pinRelay)
	if err != nil {
		return fmt.Errorf("init relay: %w", err)
	}
	defer relay.Close()

	// One-shot ring mode: the blocking pulse is fine here, nothing
	// else is running.
	if cfg.testRing > 0 {
		log.Printf("test ring: %v", cfg.testRing)
		return relay.Pulse(cfg.testRing)
	}

	inputs, err := gpio.NewRealInputs(cfg.pinManual, cfg.pinEmergency, cfg.pinDisplay)
	if err != nil {
		return fmt.Errorf("init inputs: %w", err)
	}
	defer inputs.Close()

	// Load the persisted schedule; absent or corrupt starts empty.
	store := schedule.NewStore()
	gateway := persist.NewFileGateway(cfg.stateFile)
	if doc, ok := gateway.Load(); ok {
		if snap, ok := persist.ToSnapshot(doc); ok {
			store.Restore(snap)
			log.Printf("loaded schedule: %d presets from %s", len(snap.Presets), cfg.stateFile)
		} else {
			log.Printf("schedule in %s out of bounds, starting empty", cfg.stateFile)
		}
	} else {
		log.Printf("no schedule in %s, starting empty", cfg.stateFile)
	}

	publisher := mqtt.NewRealPublisher(cfg.broker)
	defer publisher.Close()

	tracker := status.NewTracker(time.Now(), status.Config{
		PollMs:      cfg.poll.Milliseconds(),
		DebounceMs:  cfg.debounce.Milliseconds(),
		HeartbeatMs: cfg.heartbeat.Milliseconds(),
		Broker:      cfg.broker,
		HTTPAddr:    cfg.httpAddr,
		StateFile:   cfg.stateFile,
	})

	loop := control.New(control.Deps{
		Store:    store,
		Clock:    clock.System{},
		Relay:    relay,
		Inputs:   inputs,
		Gateway:  gateway,
		Pub:      publisher,
		Conn:     publisher,
		Tracker:  tracker,
		Debounce: cfg.debounce,
	}, time.Now())

	// Publish startup event with full status snapshot
	snap := tracker.Snapshot()
	startupEvent := mqtt.SystemEvent{
		Timestamp:  snap.Now,
		Event:      "STARTUP",
		Retained:   true,
		RawPayload: status.FormatStatusEvent(snap, "STARTUP", ""),
	}
	if err := publisher.PublishSystem(startupEvent); err != nil {
		log.Printf("failed to publish startup event: %v", err)
	} else {
		log.Printf("published startup event")
	}

	if cfg.httpAddr != "" {
		srv := web.New(cfg.httpAddr, tracker, loop)
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Printf("http server error: %v", err)
			}
		}()
		defer srv.Shutdown(context.Background())
		log.Printf("http server listening on %s", cfg.httpAddr)
	}

	log.Printf("started: poll=%v debounce=%v broker=%s heartbeat=%v state=%s",
		cfg.poll, cfg.debounce, cfg.broker, cfg.heartbeat, cfg.stateFile)

	ticker := time.NewTicker(cfg.poll)
	defer ticker.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	return runLoop(loop, publisher, tracker, cfg.heartbeat, time.Now, ticker.C, sigCh)
}

func runLoop(loop *control.Loop, publisher mqtt.Publisher, tracker *status.Tracker, heartbeat time.Duration, now func() time.Time, tick <-chan time.Time, sig <-chan os.Signal) error {
	for {
		select {
		case s := <-sig:
			log.Printf("received %v, shutting down", s)
			event := mqtt.SystemEvent{
				Timestamp: now(),
				Event:     "SHUTDOWN",
				Reason:    signalName(s),
				Retained:  true,
			}
			if tracker != nil {
				snap := tracker.Snapshot()
				event.RawPayload = status.FormatStatusEvent(snap, "SHUTDOWN", signalName(s))
			}
			if err := publisher.PublishSystem(event); err != nil {
				log.Printf("failed to publish shutdown event: %v", err)
			} else {
				log.Printf("published shutdown event")
			}
			return nil

		case <-tick:
			t := now()
			loop.Tick(t)

			if loop.CheckHeartbeat(t, heartbeat) {
				counts := loop.Counts()
				log.Printf("heartbeat: scheduled=%d manual=%d emergency=%d",
					counts.Scheduled, counts.Manual, counts.Emergency)
				hbEvent := mqtt.SystemEvent{
					Timestamp: t,
					Event:     "HEARTBEAT",
				}
				if tracker != nil {
					snap := tracker.Snapshot()
					hbEvent.RawPayload = status.FormatStatusEvent(snap, "HEARTBEAT", "")
				}
				if err := publisher.PublishSystem(hbEvent); err != nil {
					log.Printf("heartbeat publish error: %v", err)
				}
			}
		}
	}
}

func signalName(s os.Signal) string {
	switch s {
	case syscall.SIGINT:
		return "SIGINT"
	case syscall.SIGTERM:
		return "SIGTERM"
	}
	return "UNKNOWN"
}

func printDocument(w *os.File, doc persist.Document) {
	fmt.Fprintf(w, "bell duration: %d ms\n", doc.BellDuration)
	for i, p := range doc.Presets {
		marker := " "
		if i == doc.ActivePreset {
			marker = "*"
		}
		fmt.Fprintf(w, "%s %s (%d bells)\n", marker, p.Name, len(p.Bells))
		for _, b := range p.Bells {
			fired := ""
			if b.Triggered {
				fired = " (rung today)"
			}
			fmt.Fprintf(w, "    %02d:%02d%s\n", b.Hour, b.Minute, fired)
		}
	}
}
