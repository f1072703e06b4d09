// Package passes defines the compiler passes exercised by the harness and the
// fixed orders in which the compiler runs them.
package passes

import (
	"errors"

	"github.com/Manu343726/passcheck/pkg/utils"
)

var (
	ErrUnknownPass       = errors.New("unknown pass")
	ErrPassNotInSequence = errors.New("pass not in sequence")
	ErrTerminalPass      = errors.New("terminal pass has no successor")
)

// Pass identifies one named stage of the compiler's lowering pipeline
type Pass int

const (
	LowerWhile Pass = iota
	LowerFunctions
	TypeCheck1
	Shrink
	Uniquify
	RemoveFunRefs
	LimitFunctions
	TypeCheck1b
	ExposeAllocation
	Uncover
	RemoveComplex
	ExplicateControl
	TypeCheck2
	RemoveUnused
	SelectInstructions
	UncoverLiveness
	BuildInterference
	AllocateRegisters
	RemoveJumps
	PatchInstructions
	PreludeConclusion
	PrintAsm

	totalPasses
)

var names = [totalPasses]string{
	LowerWhile:         "lwhile",
	LowerFunctions:     "lfun",
	TypeCheck1:         "tc1",
	Shrink:             "sh",
	Uniquify:           "un",
	RemoveFunRefs:      "rf",
	LimitFunctions:     "lf",
	TypeCheck1b:        "tc1b",
	ExposeAllocation:   "ea",
	Uncover:            "ug",
	RemoveComplex:      "rc",
	ExplicateControl:   "ec",
	TypeCheck2:         "tc2",
	RemoveUnused:       "ru",
	SelectInstructions: "si",
	UncoverLiveness:    "ul",
	BuildInterference:  "bi",
	AllocateRegisters:  "ar",
	RemoveJumps:        "rj",
	PatchInstructions:  "pi",
	PreludeConclusion:  "pc",
	PrintAsm:           "pa",
}

var byName = utils.InvertedArray(names[:])

// String returns the short name the compiler uses for the pass in `-pass`
func (p Pass) String() string {
	if p < 0 || p >= totalPasses {
		return "?"
	}

	return names[p]
}

// Parse returns the pass with the given short name
func Parse(name string) (Pass, error) {
	if index, ok := byName[name]; ok {
		return Pass(index), nil
	}

	return 0, utils.MakeError(ErrUnknownPass, "'%v'", name)
}

// All returns every pass known to the harness
func All() []Pass {
	return utils.Iota(int(totalPasses), func(i int) Pass { return Pass(i) })
}
