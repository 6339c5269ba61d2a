// Package mockdata synthesizes sample instances of model shapes.
//
// Synthesis walks a structure's members in declaration order. Scalars get
// seeded pseudo-random values, nested structures are synthesized in turn and
// lists get a fixed number of elements. A structure that is already being
// synthesized further up the current path is never entered again: the member
// (or list) referring to it is left out, so self-referential and mutually
// recursive shapes always produce finite values.
//
// Values depend only on the seed and the root shape id, so repeated runs over
// the same model produce identical output regardless of the order in which
// shapes are synthesized.
package mockdata

import (
	"hash/fnv"
	"math/rand/v2"
	"strconv"

	"github.com/erraggy/smithygen/parser"
	"github.com/erraggy/smithygen/typemap"
)

const (
	// DefaultSeed is the seed used when none is configured.
	DefaultSeed uint64 = 1
	// DefaultListSize is the number of elements synthesized for lists.
	DefaultListSize = 5
)

// Generator synthesizes values for shapes of one model.
// A Generator is safe for concurrent use.
type Generator struct {
	model    *parser.Model
	seed     uint64
	listSize int
}

// Option configures a Generator.
type Option func(*Generator)

// WithSeed sets the seed mixed into every synthesis.
func WithSeed(seed uint64) Option {
	return func(g *Generator) { g.seed = seed }
}

// WithListSize sets the number of list elements. Values below zero are ignored.
func WithListSize(n int) Option {
	return func(g *Generator) {
		if n >= 0 {
			g.listSize = n
		}
	}
}

// New returns a Generator over model.
func New(model *parser.Model, opts ...Option) *Generator {
	g := &Generator{model: model, seed: DefaultSeed, listSize: DefaultListSize}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// synthesis holds the state of one top-level call.
type synthesis struct {
	rng    *rand.Rand
	mapper *typemap.Mapper
	// active holds the structures on the current synthesis path.
	active map[parser.ShapeID]bool
}

func (g *Generator) begin(root parser.ShapeID) *synthesis {
	h := fnv.New64a()
	_, _ = h.Write([]byte(root))
	return &synthesis{
		rng:    rand.New(rand.NewPCG(g.seed, h.Sum64())),
		mapper: typemap.New(g.model, root.Namespace(), nil),
		active: make(map[parser.ShapeID]bool),
	}
}

// Structure synthesizes an instance of the structure id.
func (g *Generator) Structure(id parser.ShapeID) (*Value, error) {
	s, err := parser.ResolveAs[*parser.Structure](g.model, id)
	if err != nil {
		return nil, err
	}
	return g.structure(g.begin(id), s)
}

// Synthesize produces a value for any data shape, including prelude primitives.
func (g *Generator) Synthesize(id parser.ShapeID) (*Value, error) {
	st := g.begin(id)
	ref, err := st.mapper.Classify(id)
	if err != nil {
		return nil, err
	}
	v, _, err := g.value(st, ref, id.Name())
	return v, err
}

func (g *Generator) structure(st *synthesis, s *parser.Structure) (*Value, error) {
	st.active[s.ID()] = true
	defer delete(st.active, s.ID())

	v := &Value{Kind: KindStruct, Shape: s.ID()}
	for _, mem := range s.Members {
		ref, err := st.mapper.ClassifyMember(mem)
		if err != nil {
			return nil, err
		}
		fv, ok, err := g.value(st, ref, mem.Name)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		v.Fields = append(v.Fields, Field{Member: mem, Value: fv})
	}
	return v, nil
}

// value synthesizes a value for ref. The boolean is false when the cycle
// guard left the value out.
func (g *Generator) value(st *synthesis, ref typemap.Ref, name string) (*Value, bool, error) {
	switch ref.Category {
	case typemap.Primitive, typemap.Simple:
		return g.scalar(st, ref, name), true, nil

	case typemap.Enum:
		e := ref.Shape.(*parser.Enum)
		if len(e.Members) == 0 {
			return nil, false, nil
		}
		m := e.Members[st.rng.IntN(len(e.Members))]
		v := &Value{Kind: KindEnum, Shape: e.ID(), EnumMember: m.Name}
		if e.IntEnum {
			v.Int = m.IntValue
		} else {
			v.Str = m.Value
		}
		return v, true, nil

	case typemap.Structure:
		if st.active[ref.Target] {
			return nil, false, nil
		}
		v, err := g.structure(st, ref.Structure())
		return v, err == nil, err

	case typemap.List:
		list := ref.List()
		elem, err := st.mapper.ClassifyMember(list.Member)
		if err != nil {
			return nil, false, err
		}
		if elem.Category == typemap.Structure && st.active[elem.Target] {
			return nil, false, nil
		}
		v := &Value{Kind: KindList, Shape: list.ID()}
		for i := 0; i < g.listSize; i++ {
			item, ok, err := g.value(st, elem, name)
			if err != nil {
				return nil, false, err
			}
			if ok {
				v.Items = append(v.Items, item)
			}
		}
		return v, true, nil

	case typemap.Map:
		m := ref.Shape.(*parser.Map)
		keyRef, err := st.mapper.ClassifyMember(m.Key)
		if err != nil {
			return nil, false, err
		}
		valRef, err := st.mapper.ClassifyMember(m.Value)
		if err != nil {
			return nil, false, err
		}
		val, ok, err := g.value(st, valRef, name)
		if err != nil || !ok {
			return nil, false, err
		}
		key, ok, err := g.value(st, keyRef, name+"Key")
		if err != nil || !ok {
			return nil, false, err
		}
		return &Value{Kind: KindMap, Shape: m.ID(), Entries: []Entry{{Key: key, Value: val}}}, true, nil
	}
	return nil, false, nil
}

func (g *Generator) scalar(st *synthesis, ref typemap.Ref, name string) *Value {
	v := &Value{Shape: ref.Target, Primitive: ref.Primitive}
	switch ref.Primitive {
	case parser.SimpleInteger, parser.SimpleLong, parser.SimpleShort, parser.SimpleByte:
		v.Kind = KindInt
		v.Int = int64(st.rng.IntN(100) + 1)
	case parser.SimpleFloat, parser.SimpleDouble:
		v.Kind = KindFloat
		v.Float = float64(st.rng.IntN(10000)) / 100
	case parser.SimpleBoolean:
		v.Kind = KindBool
		v.Bool = st.rng.IntN(2) == 1
	case parser.SimpleTimestamp:
		v.Kind = KindTimestamp
	case parser.SimpleBlob:
		v.Kind = KindBlob
		v.Str = name
	default:
		v.Kind = KindString
		v.Str = name + "-" + strconv.Itoa(st.rng.IntN(10000))
	}
	return v
}
