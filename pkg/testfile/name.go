// Package testfile parses test file names into the pass and register
// configuration they exercise, and orders collections of them.
package testfile

import (
	"errors"
	"path/filepath"
	"regexp"

	"github.com/Manu343726/passcheck/pkg/passes"
	"github.com/Manu343726/passcheck/pkg/utils"
)

var ErrInvalidFilename = errors.New("invalid input filename")

var namePattern = regexp.MustCompile(`^(\w+)\.(\w+)(,.*)?$`)

// Name identifies a test file of the form `root.pass[,registers]`
type Name struct {
	// Path as given by the user
	Path string

	// Directory component of Path
	Dir string

	// Test family identifier, usually with an embedded test number
	Root string

	// Pass short name. It is not required to be a known pass.
	Pass string

	// Comma separated register names the allocator is restricted to. Empty
	// means all registers.
	Registers string
}

// Parse extracts the test identity from a file path
func Parse(path string) (Name, error) {
	base := filepath.Base(path)

	match := namePattern.FindStringSubmatch(base)
	if match == nil {
		return Name{}, utils.MakeError(ErrInvalidFilename, "%v", path)
	}

	regs := match[3]
	if regs != "" {
		regs = regs[1:]
	}

	return Name{
		Path:      path,
		Dir:       filepath.Dir(path),
		Root:      match[1],
		Pass:      match[2],
		Registers: regs,
	}, nil
}

// Base renders the file name `root.pass[,registers]`
func (n Name) Base() string {
	if n.Registers == "" {
		return n.Root + "." + n.Pass
	}

	return n.Root + "." + n.Pass + "," + n.Registers
}

// WithPass returns the name of the sibling file holding the output of another
// pass for the same test and register restriction
func (n Name) WithPass(p passes.Pass) Name {
	sibling := n
	sibling.Pass = p.String()
	sibling.Path = ""
	return sibling
}

// In returns the same name located under dir
func (n Name) In(dir string) Name {
	moved := n
	moved.Dir = dir
	moved.Path = filepath.Join(dir, n.Base())
	return moved
}

// ResolvePass returns the pass of the file within seq
func (n Name) ResolvePass(seq passes.Sequence) (passes.Pass, error) {
	p, err := passes.Parse(n.Pass)
	if err != nil {
		return 0, err
	}

	if !seq.Contains(p) {
		return 0, utils.MakeError(passes.ErrPassNotInSequence, "'%v' is not a %v pass", n.Pass, seq.Name())
	}

	return p, nil
}

func (n Name) String() string {
	if n.Path != "" {
		return n.Path
	}

	return n.Base()
}
