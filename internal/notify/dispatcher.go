package notify

import "github.com/rs/zerolog"

type Event struct {
	AppointmentID uint
	Kinds         []string
}

// Dispatcher decouples booking writes from notification bookkeeping: events
// are queued and persisted by a background worker so a slow insert never
// holds up an API response.
type Dispatcher struct {
	recorder *Recorder
	queue    chan Event
	log      zerolog.Logger
}

func NewDispatcher(recorder *Recorder, log zerolog.Logger) *Dispatcher {
	d := &Dispatcher{
		recorder: recorder,
		queue:    make(chan Event, 100),
		log:      log,
	}

	go d.worker()
	return d
}

func (d *Dispatcher) worker() {
	for ev := range d.queue {
		for _, kind := range ev.Kinds {
			if err := d.recorder.Record(ev.AppointmentID, kind); err != nil {
				d.log.Error().
					Err(err).
					Uint("appointment_id", ev.AppointmentID).
					Str("kind", kind).
					Msg("failed to record notification")
			}
		}
	}
}

func (d *Dispatcher) Dispatch(ev Event) {
	select {
	case d.queue <- ev:
	default:
		// queue full: drop rather than block the API
		d.log.Warn().Uint("appointment_id", ev.AppointmentID).Msg("notification queue full, dropping event")
	}
}
