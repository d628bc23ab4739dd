// Package control runs the cooperative tick loop that ties the
// schedule, the emergency alarm, the panel inputs, and the relay
// together. It also exposes the mutation API the HTTP layer drives;
// every mutation flushes the store synchronously.
package control

import (
	"log"
	"time"

	"github.com/tmcnab/schoolbell/internal/alarm"
	"github.com/tmcnab/schoolbell/internal/clock"
	"github.com/tmcnab/schoolbell/internal/debounce"
	"github.com/tmcnab/schoolbell/internal/gpio"
	"github.com/tmcnab/schoolbell/internal/mqtt"
	"github.com/tmcnab/schoolbell/internal/persist"
	"github.com/tmcnab/schoolbell/internal/schedule"
	"github.com/tmcnab/schoolbell/internal/status"
)

// Loop owns the relay and evaluates one tick at a time. All hardware
// effects happen on the loop goroutine; HTTP handlers only mutate the
// store (which locks internally) and queue manual rings.
type Loop struct {
	store   *schedule.Store
	sched   *schedule.Scheduler
	alarm   alarm.Controller
	clock   clock.Source
	relay   gpio.Relay
	inputs  gpio.Inputs
	gateway persist.Gateway
	pub     mqtt.Publisher
	conn    mqtt.ConnectionStatus
	tracker *status.Tracker

	manual    *debounce.Channel
	emergency *debounce.Channel
	display   *debounce.Channel

	displayMode   bool
	relayOn       bool
	pulseOffAt    time.Time // zero when no ring is in progress
	lastRefresh   time.Time
	lastHeartbeat time.Time

	counts status.RingCounts

	ringRequests chan struct{} // manual rings queued by the HTTP layer
}

// Deps collects the collaborators a Loop drives. Publisher, Conn and
// Tracker may be nil.
type Deps struct {
	Store    *schedule.Store
	Clock    clock.Source
	Relay    gpio.Relay
	Inputs   gpio.Inputs
	Gateway  persist.Gateway
	Pub      mqtt.Publisher
	Conn     mqtt.ConnectionStatus
	Tracker  *status.Tracker
	Debounce time.Duration
}

// New creates a control loop. startTime seeds the heartbeat timer.
func New(d Deps, startTime time.Time) *Loop {
	return &Loop{
		store:         d.Store,
		sched:         schedule.NewScheduler(d.Clock, d.Store),
		clock:         d.Clock,
		relay:         d.Relay,
		inputs:        d.Inputs,
		gateway:       d.Gateway,
		pub:           d.Pub,
		conn:          d.Conn,
		tracker:       d.Tracker,
		manual:        debounce.New(debounce.EdgeConfirm, d.Debounce),
		emergency:     debounce.New(debounce.EdgeConfirm, d.Debounce),
		display:       debounce.New(debounce.SettleWindow, d.Debounce),
		lastHeartbeat: startTime,
		ringRequests:  make(chan struct{}, 1),
	}
}

// Tick runs one control-loop iteration. Order matters: inputs first,
// then the emergency step or the scheduler step (never both), then
// the deferred ring deadline, then the throttled status refresh.
func (l *Loop) Tick(now time.Time) {
	raw, err := l.inputs.Read()
	if err != nil {
		log.Printf("input read error: %v", err)
	} else {
		if _, fell := l.manual.Sample(raw.Manual, now); fell {
			l.manualRing(now)
		}
		if _, fell := l.emergency.Sample(raw.Emergency, now); fell {
			l.activateEmergency(now)
		}
		mode, _ := l.display.Sample(raw.Display, now)
		l.displayMode = mode
	}

	select {
	case <-l.ringRequests:
		l.manualRing(now)
	default:
	}

	if l.alarm.Active() {
		on, done := l.alarm.Step(now)
		l.setRelay(on)
		if done {
			log.Printf("emergency alarm complete")
			l.publish(mqtt.BellEvent{Timestamp: now, Type: mqtt.EventEmergencyEnd})
		}
	} else {
		l.scheduleTick(now)
	}

	l.checkPulse(now)
	l.refreshStatus(now)
}

// RingNow queues a manual ring for the next tick. Safe to call from
// any goroutine; a ring already queued absorbs further requests.
func (l *Loop) RingNow() {
	select {
	case l.ringRequests <- struct{}{}:
	default:
	}
}

// EmergencyActive reports whether the alarm session is running.
func (l *Loop) EmergencyActive() bool {
	return l.alarm.Active()
}

// CheckHeartbeat reports whether the heartbeat interval has elapsed
// since the last heartbeat (or startup), and arms the next one if so.
// interval <= 0 disables heartbeats.
func (l *Loop) CheckHeartbeat(now time.Time, interval time.Duration) bool {
	if interval <= 0 {
		return false
	}
	if now.Sub(l.lastHeartbeat) < interval {
		return false
	}
	l.lastHeartbeat = now
	return true
}

// Counts returns the ring counts since startup.
func (l *Loop) Counts() status.RingCounts {
	return l.counts
}

func (l *Loop) scheduleTick(now time.Time) {
	res := l.sched.Tick()
	if res.Skipped {
		return
	}
	if res.Rolled {
		log.Printf("day rollover: day=%d, fired flags cleared", res.Now.Day)
	}
	for _, f := range res.Fired {
		d := l.ringDuration(0)
		log.Printf("bell: %02d:%02d preset=%q duration=%v", f.Hour, f.Minute, f.Preset, d)
		l.startRing(now, 0)
		l.counts.Scheduled++
		l.publish(mqtt.BellEvent{
			Timestamp:  now,
			Type:       mqtt.EventScheduled,
			Preset:     f.Preset,
			Hour:       f.Hour,
			Minute:     f.Minute,
			DurationMs: int(d.Milliseconds()),
		})
	}
	if res.Rolled || len(res.Fired) > 0 {
		l.save()
	}
}

func (l *Loop) manualRing(now time.Time) {
	if l.alarm.Active() {
		// The alarm owns the relay for its whole session.
		return
	}
	d := l.ringDuration(0)
	log.Printf("manual ring: duration=%v", d)
	l.startRing(now, 0)
	l.counts.Manual++
	l.publish(mqtt.BellEvent{Timestamp: now, Type: mqtt.EventManual, DurationMs: int(d.Milliseconds())})
}

func (l *Loop) activateEmergency(now time.Time) {
	if !l.alarm.Activate(now) {
		return
	}
	// Any ring in progress is superseded; the alarm drives the relay
	// from here until its terminal phase.
	l.pulseOffAt = time.Time{}
	l.counts.Emergency++
	log.Printf("emergency alarm activated")
	l.publish(mqtt.BellEvent{Timestamp: now, Type: mqtt.EventEmergencyStart})
}

// ringDuration applies the duration policy: zero means the configured
// bell duration, anything longer is capped by it.
func (l *Loop) ringDuration(explicit time.Duration) time.Duration {
	configured := l.store.BellDuration()
	if explicit <= 0 || explicit > configured {
		return configured
	}
	return explicit
}

// startRing turns the relay on and schedules the off edge for a later
// tick. The loop never sleeps through a ring.
func (l *Loop) startRing(now time.Time, explicit time.Duration) {
	l.setRelay(true)
	l.pulseOffAt = now.Add(l.ringDuration(explicit))
}

func (l *Loop) checkPulse(now time.Time) {
	if l.pulseOffAt.IsZero() {
		return
	}
	if now.Before(l.pulseOffAt) {
		l.setRelay(true) // idempotent hold
		return
	}
	l.pulseOffAt = time.Time{}
	l.setRelay(false)
}

func (l *Loop) setRelay(on bool) {
	if err := l.relay.Set(on); err != nil {
		log.Printf("relay error: %v", err)
		return
	}
	l.relayOn = on
}

func (l *Loop) publish(event mqtt.BellEvent) {
	if l.pub == nil {
		return
	}
	if err := l.pub.Publish(event); err != nil {
		log.Printf("publish error: %v", err)
	}
}

// save flushes the store synchronously. A failed write is logged and
// the in-memory state stays authoritative; the next mutation retries.
func (l *Loop) save() {
	if l.gateway == nil {
		return
	}
	doc := persist.FromSnapshot(l.store.Snapshot())
	if err := l.gateway.Save(doc); err != nil {
		log.Printf("persist: save failed: %v", err)
	}
}

// refreshStatus updates the tracker at most once per second.
func (l *Loop) refreshStatus(now time.Time) {
	if l.tracker == nil {
		return
	}
	if !l.lastRefresh.IsZero() && now.Sub(l.lastRefresh) < time.Second {
		return
	}
	l.lastRefresh = now

	snap, clockOK := l.clock.Now()
	name, bells, _ := l.store.ActiveInfo()
	var next status.NextBell
	if clockOK {
		if h, m, ok := l.store.NextBell(snap.MinuteOfDay()); ok {
			next = status.NextBell{Hour: h, Minute: m, OK: true}
		}
	}

	l.tracker.Update(status.TickState{
		Clock:           snap,
		ClockOK:         clockOK,
		EmergencyActive: l.alarm.Active(),
		EmergencyPhase:  l.alarm.Phase(),
		DisplayMode:     l.displayMode,
		RelayOn:         l.relayOn,
		ActivePreset:    name,
		BellCount:       bells,
		PresetCount:     l.store.PresetCount(),
		Next:            next,
		BellDurationMs:  int(l.store.BellDuration().Milliseconds()),
		Counts:          l.counts,
	})
	if l.conn != nil {
		l.tracker.SetMQTTConnected(l.conn.IsConnected())
	}
}
