package passes

import (
	"github.com/Manu343726/passcheck/pkg/utils"
)

// Rank assigned to pass names that are not part of a sequence, so they sort
// after every known pass
const UnknownRank = 1000

// Sequence is an ordered list of passes. The position of a pass within the
// sequence is its rank, and the output of a pass is checked by running the
// pass that follows it.
type Sequence struct {
	name   string
	passes []Pass
	index  map[Pass]int
}

// Textual is the pipeline whose passes print a textual program representation
var Textual = NewSequence("textual",
	LowerWhile, Shrink, Uniquify, Uncover, RemoveComplex, ExplicateControl,
	TypeCheck2, RemoveUnused, SelectInstructions, UncoverLiveness,
	BuildInterference, AllocateRegisters, RemoveJumps, PatchInstructions,
	PreludeConclusion, PrintAsm,
)

// Evaluation is the pipeline whose passes can be evaluated directly by the
// compiler with `-eval`
var Evaluation = NewSequence("evaluation",
	LowerFunctions, TypeCheck1, Shrink, Uniquify, RemoveFunRefs,
	LimitFunctions, TypeCheck1b, ExposeAllocation, Uncover, RemoveComplex,
	ExplicateControl, TypeCheck2, RemoveUnused,
)

// NewSequence builds a sequence from passes listed in execution order
func NewSequence(name string, passes ...Pass) Sequence {
	index := make(map[Pass]int, len(passes))

	for i, p := range passes {
		if _, duplicated := index[p]; duplicated {
			panic(utils.MakeError(ErrPassNotInSequence, "pass '%v' listed twice in sequence '%v'", p, name))
		}

		index[p] = i
	}

	return Sequence{
		name:   name,
		passes: append([]Pass(nil), passes...),
		index:  index,
	}
}

func (s Sequence) Name() string {
	return s.name
}

func (s Sequence) Len() int {
	return len(s.passes)
}

// Passes returns a copy of the passes in execution order
func (s Sequence) Passes() []Pass {
	return append([]Pass(nil), s.passes...)
}

// Index returns the position of a pass within the sequence
func (s Sequence) Index(p Pass) (int, bool) {
	i, ok := s.index[p]
	return i, ok
}

func (s Sequence) Contains(p Pass) bool {
	_, ok := s.index[p]
	return ok
}

// Rank returns the position of the named pass, or UnknownRank if the name is
// not a pass of this sequence
func (s Sequence) Rank(name string) int {
	p, err := Parse(name)
	if err != nil {
		return UnknownRank
	}

	if i, ok := s.index[p]; ok {
		return i
	}

	return UnknownRank
}

// Terminal returns the last pass of the sequence
func (s Sequence) Terminal() Pass {
	return s.passes[len(s.passes)-1]
}

// Next returns the pass that runs after p
func (s Sequence) Next(p Pass) (Pass, error) {
	i, ok := s.index[p]
	if !ok {
		return 0, utils.MakeError(ErrPassNotInSequence, "'%v' is not a %v pass", p, s.name)
	}

	if i == len(s.passes)-1 {
		return 0, utils.MakeError(ErrTerminalPass, "'%v' is the last %v pass", p, s.name)
	}

	return s.passes[i+1], nil
}

// Names returns the short names of the passes in execution order
func (s Sequence) Names() []string {
	return utils.Map(s.passes, Pass.String)
}
