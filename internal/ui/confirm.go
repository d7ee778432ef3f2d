package ui

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/jborjas31/my-scheduler/internal/planner"
	"github.com/jborjas31/my-scheduler/internal/task"
)

// promptConfirmer asks the planner's questions on the terminal.
type promptConfirmer struct {
	in  *bufio.Reader
	out io.Writer
}

var _ planner.Confirmer = promptConfirmer{}

func newPromptConfirmer(in io.Reader, out io.Writer) promptConfirmer {
	return promptConfirmer{in: bufio.NewReader(in), out: out}
}

// confirmer returns a prompt, or one that always agrees when yes is set.
func confirmer(yes bool, in io.Reader, out io.Writer) planner.Confirmer {
	if yes {
		return planner.Always(true)
	}
	return newPromptConfirmer(in, out)
}

func (c promptConfirmer) ConfirmMidnight(p *planner.Proposal) bool {
	return c.ask(p.MidnightPrompt())
}

func (c promptConfirmer) ConfirmOverlap(p *planner.Proposal) bool {
	return c.ask(p.OverlapPrompt())
}

func (c promptConfirmer) ConfirmDelete(t *task.Task) bool {
	return c.ask(fmt.Sprintf("Delete %q (%s)?", t.Name, t.TimeRange()))
}

func (c promptConfirmer) ask(question string) bool {
	return promptYesNo(c.in, c.out, question)
}

// promptYesNo reads a y/N answer. Anything but yes, including EOF, is no.
func promptYesNo(in *bufio.Reader, out io.Writer, question string) bool {
	fmt.Fprintf(out, "%s [y/N]: ", question)
	input, _ := in.ReadString('\n')
	input = strings.TrimSpace(strings.ToLower(input))
	return input == "y" || input == "yes"
}
