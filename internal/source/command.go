package source

import (
	"bytes"
	"os/exec"
	"strings"

	"github.com/oritwoen/shaha-go/internal/build"
	"github.com/oritwoen/shaha-go/internal/shahaerr"
)

// Command runs an external word-dumping tool and treats its standard
// output as a line-oriented word stream (spec.md §1's "external
// dictionary dumper", generalized from a literal `aspell` dependency
// per SPEC_FULL.md).
type Command struct {
	name string
	args []string
}

// NewCommand returns a source that runs name with args on each
// invocation.
func NewCommand(name string, args ...string) *Command {
	return &Command{name: name, args: args}
}

func (c *Command) Name() string { return strings.Join(append([]string{c.name}, c.args...), " ") }

func (c *Command) run() ([]byte, error) {
	cmd := exec.Command(c.name, c.args...)
	out, err := cmd.Output()
	if err != nil {
		return nil, shahaerr.New(shahaerr.KindSourceUnavailable, c.Name(), err)
	}
	return out, nil
}

func (c *Command) Words() (build.WordIterator, error) {
	out, err := c.run()
	if err != nil {
		return nil, err
	}
	return newLineIterator(bytes.NewReader(out), nil), nil
}

func (c *Command) ContentHash() string {
	out, err := c.run()
	if err != nil {
		return "none"
	}
	return fingerprint(out)
}
