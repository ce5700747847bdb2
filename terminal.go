package linux_installer

import (
	"io"
	"os"

	"github.com/gookit/color"
	"github.com/mattn/go-isatty"
)

// paint colors text if w is a terminal. Pipes, files and buffers get plain text no
// matter where the process' own output goes.
func paint(w io.Writer, c color.Color, text string) string {
	if !isTerminal(w) {
		return text
	}
	return c.Sprint(text)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
