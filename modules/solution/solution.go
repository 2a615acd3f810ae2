// Package solution holds the wire model handed to the verifier: an ordered
// bundle of predicate data entries. An entry's position in the bundle is its
// path index; entries reference each other by that index only.
package solution

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"trade-builder/lib/words"

	"github.com/go-playground/validator/v10"
	pkgerrors "github.com/pkg/errors"
)

var ErrInvalidSolution = errors.New("invalid solution")

// ContentAddress is a 32 byte content hash. It renders as upper case hex.
type ContentAddress [32]byte

func (c ContentAddress) String() string {
	return strings.ToUpper(hex.EncodeToString(c[:]))
}

func (c ContentAddress) B256() words.B256 {
	return words.B256FromBytes(c)
}

func (c ContentAddress) IsZero() bool {
	return c == ContentAddress{}
}

func ParseContentAddress(s string) (ContentAddress, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return ContentAddress{}, pkgerrors.Wrap(err, "content address")
	}
	if len(b) != 32 {
		return ContentAddress{}, fmt.Errorf("content address: expected 32 bytes, got %d", len(b))
	}
	var c ContentAddress
	copy(c[:], b)
	return c, nil
}

func (c ContentAddress) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c *ContentAddress) UnmarshalText(text []byte) error {
	parsed, err := ParseContentAddress(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// PredicateAddress identifies one predicate of one deployed contract.
type PredicateAddress struct {
	Contract  ContentAddress `json:"contract"`
	Predicate ContentAddress `json:"predicate"`
}

// Words is contract (4 words) then predicate (4 words).
func (p PredicateAddress) Words() []words.Word {
	c := p.Contract.B256()
	pr := p.Predicate.B256()
	return words.Concat(c[:], pr[:])
}

func (p PredicateAddress) String() string {
	return p.Contract.String() + ":" + p.Predicate.String()
}

// Instance is a predicate address together with the path it is solved at.
type Instance struct {
	Address PredicateAddress
	Path    words.Word
}

func (i Instance) Words() []words.Word {
	return words.Concat(i.Address.Words(), []words.Word{i.Path})
}

type Mutation struct {
	Key   []words.Word `json:"key"`
	Value []words.Word `json:"value"`
}

// IndexMutation is a transient data slot addressed by a single index.
func IndexMutation(index words.Word, value []words.Word) Mutation {
	return Mutation{Key: []words.Word{index}, Value: value}
}

type SolutionData struct {
	PredicateToSolve  PredicateAddress `json:"predicate_to_solve"`
	DecisionVariables [][]words.Word   `json:"decision_variables"`
	TransientData     []Mutation       `json:"transient_data"`
	StateMutations    []Mutation       `json:"state_mutations"`
}

type Solution struct {
	Data []SolutionData `json:"data" validate:"required,min=1,dive"`
}

// Blank returns n placeholder entries with a null address and empty
// fields, ready to be overwritten by position.
func Blank(n int) Solution {
	data := make([]SolutionData, n)
	for i := range data {
		data[i] = SolutionData{
			DecisionVariables: [][]words.Word{},
			TransientData:     []Mutation{},
			StateMutations:    []Mutation{},
		}
	}
	return Solution{Data: data}
}

var validate = validator.New()

// Validate checks the bundle is non-empty, every entry names a predicate and
// no transient or state key is empty.
func (s Solution) Validate() error {
	if err := validate.Struct(s); err != nil {
		return pkgerrors.Wrap(ErrInvalidSolution, err.Error())
	}
	for i, d := range s.Data {
		if d.PredicateToSolve.Contract.IsZero() && d.PredicateToSolve.Predicate.IsZero() {
			return pkgerrors.Wrapf(ErrInvalidSolution, "entry %d has no predicate to solve", i)
		}
		for _, m := range d.TransientData {
			if len(m.Key) == 0 {
				return pkgerrors.Wrapf(ErrInvalidSolution, "entry %d has an empty transient key", i)
			}
		}
		for _, m := range d.StateMutations {
			if len(m.Key) == 0 {
				return pkgerrors.Wrapf(ErrInvalidSolution, "entry %d has an empty state key", i)
			}
		}
	}
	return nil
}

// Words is the canonical word serialization used for content addressing.
// Every list is length prefixed so distinct bundles never collide.
func (s Solution) Words() []words.Word {
	out := []words.Word{words.Word(len(s.Data))}
	for _, d := range s.Data {
		out = append(out, d.PredicateToSolve.Words()...)
		out = append(out, words.Word(len(d.DecisionVariables)))
		for _, v := range d.DecisionVariables {
			out = appendList(out, v)
		}
		out = appendMutations(out, d.TransientData)
		out = appendMutations(out, d.StateMutations)
	}
	return out
}

func appendList(out []words.Word, l []words.Word) []words.Word {
	out = append(out, words.Word(len(l)))
	return append(out, l...)
}

func appendMutations(out []words.Word, ms []Mutation) []words.Word {
	out = append(out, words.Word(len(ms)))
	for _, m := range ms {
		out = appendList(out, m.Key)
		out = appendList(out, m.Value)
	}
	return out
}

// Address is the content address of the bundle.
func (s Solution) Address() ContentAddress {
	return ContentAddress(words.HashWords(s.Words()))
}
