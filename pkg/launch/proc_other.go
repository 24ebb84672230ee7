//go:build !unix

package launch

import (
	"os"
	"os/exec"
)

func isolate(*exec.Cmd) {}

func kill(p *os.Process) error {
	return p.Kill()
}
