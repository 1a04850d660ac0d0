// services/console/console.go
package console

import (
	"bufio"
	"context"
	"io"

	"github.com/google/shlex"

	"tempreader-go/bus"
	"tempreader-go/types"
)

// Firmware identification printed in the diagnostic banner.
const (
	Name    = "tempreader"
	Version = "1.2.0"
)

var topicBanner = bus.T("sys", "banner")

// Status is the read-only state the console can interrogate, plus the reset
// entry point button glue and operators share with the command bus.
type Status interface {
	Current() types.Temp
	SessionHigh() types.Temp
	SessionLow() types.Temp
	AllTimeHigh() types.Temp
	AllTimeLow() types.Temp
	Limits() (low, high types.Temp)
	Reset() error
}

// Run serves a line-oriented diagnostic console on rw (a UART on hardware).
// It also prints the banner whenever one is requested on the bus (opcode 79
// or button glue).
func Run(ctx context.Context, conn *bus.Connection, rw io.ReadWriter, st Status) {
	bannerSub := conn.Subscribe(topicBanner)
	defer conn.Unsubscribe(bannerSub)

	lines := make(chan string, 4)
	go func() {
		sc := bufio.NewScanner(rw)
		for sc.Scan() {
			select {
			case lines <- sc.Text():
			case <-ctx.Done():
				return
			}
		}
		close(lines)
	}()

	printBanner(rw, st)

	for {
		select {
		case <-ctx.Done():
			return

		case <-bannerSub.Channel():
			printBanner(rw, st)

		case line, ok := <-lines:
			if !ok {
				// Input closed; keep serving banner requests.
				lines = nil
				continue
			}
			handleLine(rw, st, line)
		}
	}
}

func handleLine(w io.Writer, st Status, line string) {
	fields, err := shlex.Split(line)
	if err != nil || len(fields) == 0 {
		return
	}
	switch fields[0] {
	case "banner":
		printBanner(w, st)
	case "cur":
		writeLine(w, "cur "+st.Current().String()+" F")
	case "hi":
		writeLine(w, "session hi "+st.SessionHigh().String()+" F")
		writeLine(w, "alltime hi "+st.AllTimeHigh().String()+" F")
	case "lo":
		writeLine(w, "session lo "+st.SessionLow().String()+" F")
		writeLine(w, "alltime lo "+st.AllTimeLow().String()+" F")
	case "limits":
		low, high := st.Limits()
		writeLine(w, "limits "+low.String()+" .. "+high.String()+" F")
	case "reset":
		if err := st.Reset(); err != nil {
			writeLine(w, "reset failed: "+err.Error())
			return
		}
		writeLine(w, "reset ok")
	default:
		writeLine(w, "unknown command: "+fields[0])
	}
}

func printBanner(w io.Writer, st Status) {
	low, high := st.Limits()
	writeLine(w, "== "+Name+" "+Version+" ==")
	writeLine(w, "cur "+st.Current().String()+" F, limits "+low.String()+" .. "+high.String()+" F")
	writeLine(w, "session "+st.SessionLow().String()+" .. "+st.SessionHigh().String()+" F")
	writeLine(w, "alltime "+st.AllTimeLow().String()+" .. "+st.AllTimeHigh().String()+" F")
}

func writeLine(w io.Writer, s string) {
	_, _ = w.Write([]byte(s + "\r\n"))
}
