package tui

import (
	"fmt"
	"io"
)

// Plain writes one line per vertex status change until src ends.
// It suits output that is not a terminal.
func Plain(w io.Writer, src TapeSource) error {
	t := newTracker()
	st := newStyles()
	for {
		update, err := src.Read()
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}
		for _, v := range t.apply(update) {
			if _, err := fmt.Fprintf(w, "%s %s %s\n", st.icon(v.Status, "•"), v.Name, v.Status); err != nil {
				return err
			}
		}
	}
}
