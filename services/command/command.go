// services/command/command.go
package command

import (
	"context"

	"tempreader-go/bus"
	"tempreader-go/extrema"
	"tempreader-go/protocol"
	"tempreader-go/types"
	"tempreader-go/x/timex"
)

var (
	topicBanner    = bus.T("sys", "banner")
	topicResetDone = bus.T("sys", "reset", "done")
	topicState     = bus.T("command", "state")
)

// Service resolves single-byte opcodes from the two-wire port against the
// tracker and store. The port callbacks only stage bytes; all storage work
// happens on the Run loop.
type Service struct {
	conn    *bus.Connection
	tracker *extrema.Tracker

	mbox protocol.Mailbox
	resp protocol.Response
	kick chan struct{}
}

func New(conn *bus.Connection, tracker *extrema.Tracker) *Service {
	return &Service{
		conn:    conn,
		tracker: tracker,
		kick:    make(chan struct{}, 1),
	}
}

// Bind installs the service's callbacks on the port.
func (s *Service) Bind(port types.TwoWirePort) error {
	return port.SetHandlers(s.OnReceive, s.OnRequest)
}

// OnReceive runs in the port's event context; it must stay O(1). Opcode 0 is
// a no-op and never staged. A second opcode before the first is served
// overwrites it (last-write-wins).
func (s *Service) OnReceive(b byte) {
	if b == protocol.OpNone {
		return
	}
	s.mbox.Put(b)
	select {
	case s.kick <- struct{}{}:
	default:
	}
}

// OnRequest runs in the port's event context. It only hands over the
// pre-staged response bytes; once consumed, nothing is resent until the next
// opcode is answered.
func (s *Service) OnRequest() ([2]byte, bool) {
	return s.resp.Take()
}

// Run drains the request mailbox until ctx is cancelled.
func (s *Service) Run(ctx context.Context) {
	s.publishState("ready", "listening")

	for {
		select {
		case <-ctx.Done():
			s.publishState("stopped", "context_cancelled")
			return
		case <-s.kick:
			for {
				op, ok := s.mbox.Take()
				if !ok {
					break
				}
				s.serve(op)
			}
		}
	}
}

func (s *Service) serve(op byte) {
	resp, respond := protocol.Handle(op, s)
	if !respond {
		return
	}
	if !protocol.Known(op) {
		println("Warn: command: unrecognised opcode", op)
	}
	s.resp.Stage(resp)
}

// ---- protocol.Source ----

func (s *Service) CurrentF() types.Temp    { return s.tracker.Current() }
func (s *Service) SessionHigh() types.Temp { return s.tracker.SessionHigh() }
func (s *Service) SessionLow() types.Temp  { return s.tracker.SessionLow() }
func (s *Service) AllTimeHigh() types.Temp { return s.tracker.AllTimeHigh() }
func (s *Service) AllTimeLow() types.Temp  { return s.tracker.AllTimeLow() }

func (s *Service) Limits() (low, high types.Temp) { return s.tracker.Limits() }

// Reset runs the factory reset and announces completion for the indicator
// glue.
func (s *Service) Reset() error {
	if err := s.tracker.Reset(); err != nil {
		println("Error: command: reset failed:", err.Error())
		return err
	}
	s.conn.Publish(s.conn.NewMessage(topicResetDone,
		types.ResetDone{TsMs: timex.NowMs()}, false))
	return nil
}

// RequestBanner asks whoever renders diagnostics (console service, button
// glue) to print the banner.
func (s *Service) RequestBanner() {
	s.conn.Publish(s.conn.NewMessage(topicBanner,
		types.BannerRequest{TsMs: timex.NowMs()}, false))
}

func (s *Service) publishState(level, status string) {
	s.conn.Publish(s.conn.NewMessage(topicState,
		types.SvcState{Level: level, Status: status, TsMs: timex.NowMs()}, true))
}
