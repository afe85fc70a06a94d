package shell

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/base-14/examples/go/parking-allocator/internal/parking"
)

// statusWriter renders the status table. The header is written only once a
// row arrives; an empty lot prints a single line instead.
type statusWriter struct {
	out  io.Writer
	tw   *tabwriter.Writer
	rows int
}

func newStatusWriter(out io.Writer) *statusWriter {
	return &statusWriter{
		out: out,
		tw:  tabwriter.NewWriter(out, 0, 0, 4, ' ', 0),
	}
}

func (w *statusWriter) row(slot parking.OccupiedSlot) {
	if w.rows == 0 {
		fmt.Fprintln(w.tw, "Slot No.\tRegistration No\tColour")
	}
	w.rows++
	fmt.Fprintf(w.tw, "%d\t%s\t%s\n", slot.SlotNumber, slot.RegistrationNumber, slot.Color)
}

func (w *statusWriter) flush() {
	if w.rows == 0 {
		fmt.Fprintln(w.out, "Parking lot is empty")
		return
	}
	w.tw.Flush()
}
