package maincmd

import (
	"bufio"
	"fmt"

	"github.com/mna/mainer"
)

// stdioHandler bridges a running script's on_print/on_input/on_command
// callbacks (spec §6) to the mainer.Stdio streams the CLI was invoked
// with.
type stdioHandler struct {
	stdio   mainer.Stdio
	scanner *bufio.Scanner
}

func (h *stdioHandler) OnPrint(text string) {
	fmt.Fprintln(h.stdio.Stdout, text)
}

func (h *stdioHandler) OnInput(prompt string) (string, error) {
	if prompt != "" {
		fmt.Fprint(h.stdio.Stdout, prompt)
	}
	if h.scanner == nil {
		h.scanner = bufio.NewScanner(h.stdio.Stdin)
	}
	if !h.scanner.Scan() {
		if err := h.scanner.Err(); err != nil {
			return "", err
		}
		return "", nil
	}
	return h.scanner.Text(), nil
}

// OnCommand is the exec statement's host hook. The CLI has no registered
// commands of its own, so this handler reports every command as
// unhandled, which makes an exec statement fail with an InternalError;
// the os.exec module function is separate and does not come through
// here.
func (h *stdioHandler) OnCommand(name string, args []string) (bool, error) {
	return false, nil
}
