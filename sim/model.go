package sim

import (
	"sort"
	"strings"

	"github.com/pkg/errors"
)

// A Model owns the blocks and the connections of one block diagram. It
// derives, lazily and once, the global execution order: a single flat block
// sequence that is safe for both output evaluation and state advancement.
//
// The block set and the connection set must not change once the order is
// computed.
type Model struct {
	blocks     []Block
	blockIndex map[string]int
	conns      []Connection

	order []Block
}

// NewModel creates an empty Model.
func NewModel() *Model {
	m := new(Model)
	m.blockIndex = make(map[string]int)
	return m
}

// AddBlock adds a block to the model. Block names must be unique within one
// model. Insertion order is the sole tie-break for the execution order.
func (m *Model) AddBlock(b Block) error {
	name := b.Name()
	if _, ok := m.blockIndex[name]; ok {
		return errors.Errorf("block %s already added", name)
	}

	m.blocks = append(m.blocks, b)
	m.blockIndex[name] = len(m.blocks) - 1

	return nil
}

// Connect wires the named output port of the source block to the named input
// port of the destination block.
func (m *Model) Connect(srcBlock, srcPort, dstBlock, dstPort string) error {
	src, ok := m.BlockByName(srcBlock)
	if !ok {
		return errors.Errorf("unknown source block %s", srcBlock)
	}

	dst, ok := m.BlockByName(dstBlock)
	if !ok {
		return errors.Errorf("unknown destination block %s", dstBlock)
	}

	if !src.Outputs().Has(srcPort) {
		return errors.Errorf(
			"block %s has no output port %q", srcBlock, srcPort)
	}

	if !dst.Inputs().Has(dstPort) {
		return errors.Errorf(
			"block %s has no input port %q", dstBlock, dstPort)
	}

	m.conns = append(m.conns, Connection{
		Src: PortRef{Block: srcBlock, Port: srcPort},
		Dst: PortRef{Block: dstBlock, Port: dstPort},
	})

	return nil
}

// Blocks returns the blocks of the model in insertion order.
func (m *Model) Blocks() []Block {
	return m.blocks
}

// Connections returns the connections of the model.
func (m *Model) Connections() []Connection {
	return m.conns
}

// BlockByName returns the block with the given name.
func (m *Model) BlockByName(name string) (Block, bool) {
	i, ok := m.blockIndex[name]
	if !ok {
		return nil, false
	}

	return m.blocks[i], true
}

// ExecutionOrder returns the global execution order of the model. The order
// places every stateless block after every stateless producer of its inputs,
// and every stateful block after every producer of its inputs, stateless or
// stateful. The order is computed on the first call and cached. Recomputing
// it is idempotent.
//
// ExecutionOrder fails on a pure-combinational feedback loop (an algebraic
// loop) and on an unresolvable cycle among stateful blocks.
func (m *Model) ExecutionOrder() ([]Block, error) {
	if m.order != nil {
		return m.order, nil
	}

	order, err := m.computeOrder()
	if err != nil {
		return nil, err
	}

	m.order = order

	return m.order, nil
}

func (m *Model) computeOrder() ([]Block, error) {
	stateless := m.statelessBlocks()

	order, err := m.sortCombinational(stateless)
	if err != nil {
		return nil, err
	}

	order, err = m.placeStateful(order)
	if err != nil {
		return nil, err
	}

	return order, nil
}

func (m *Model) statelessBlocks() []Block {
	var stateless []Block
	for _, b := range m.blocks {
		if _, ok := b.(Stateful); !ok {
			stateless = append(stateless, b)
		}
	}

	return stateless
}

func (m *Model) isStateless(name string) bool {
	b, ok := m.BlockByName(name)
	if !ok {
		return false
	}

	_, stateful := b.(Stateful)

	return !stateful
}

// sortCombinational runs a stable Kahn topological sort over the
// combinational subgraph, the subgraph induced by the connections whose two
// endpoints are both stateless. Ties are broken by block insertion order. If
// the subgraph has a cycle, no state-holding block can break the feedback
// loop, and sortCombinational reports the loop as a modeling error.
func (m *Model) sortCombinational(stateless []Block) ([]Block, error) {
	inDegree := make(map[string]int)
	successors := make(map[string][]string)
	for _, b := range stateless {
		inDegree[b.Name()] = 0
	}

	for _, c := range m.conns {
		if !m.isStateless(c.Src.Block) || !m.isStateless(c.Dst.Block) {
			continue
		}

		successors[c.Src.Block] = append(successors[c.Src.Block], c.Dst.Block)
		inDegree[c.Dst.Block]++
	}

	var ready []string
	for _, b := range stateless {
		if inDegree[b.Name()] == 0 {
			ready = append(ready, b.Name())
		}
	}

	var order []Block
	for len(ready) > 0 {
		sort.Slice(ready, func(i, j int) bool {
			return m.blockIndex[ready[i]] < m.blockIndex[ready[j]]
		})

		name := ready[0]
		ready = ready[1:]

		b, _ := m.BlockByName(name)
		order = append(order, b)

		for _, succ := range successors[name] {
			inDegree[succ]--
			if inDegree[succ] == 0 {
				ready = append(ready, succ)
			}
		}
	}

	if len(order) < len(stateless) {
		return nil, errors.Errorf(
			"algebraic loop: blocks %s form a feedback loop with no "+
				"state-holding block in it",
			strings.Join(m.unplacedNames(stateless, order), ", "))
	}

	return order, nil
}

// placeStateful inserts the stateful blocks into the stateless order. A
// stateful block becomes placeable once every producer of its inputs already
// appears in the order. It is inserted immediately after its latest-placed
// predecessor, at the front if it has none. A full scan that places no block
// means the remaining stateful blocks form an unresolvable cycle.
func (m *Model) placeStateful(order []Block) ([]Block, error) {
	preds := m.predecessors()

	var unplaced []Block
	for _, b := range m.blocks {
		if _, ok := b.(Stateful); ok {
			unplaced = append(unplaced, b)
		}
	}

	for len(unplaced) > 0 {
		placedAny := false

		for i := 0; i < len(unplaced); i++ {
			b := unplaced[i]

			pos, placeable := m.placementIndex(order, preds[b.Name()])
			if !placeable {
				continue
			}

			order = append(order, nil)
			copy(order[pos+1:], order[pos:])
			order[pos] = b

			unplaced = append(unplaced[:i], unplaced[i+1:]...)
			i--
			placedAny = true
		}

		if !placedAny {
			return nil, errors.Errorf(
				"cannot order blocks %s: their mutual dependencies are "+
					"unresolvable",
				strings.Join(m.unplacedNames(unplaced, nil), ", "))
		}
	}

	return order, nil
}

// predecessors derives, from all the connections regardless of statefulness,
// the set of producer names feeding each block. A stateful block reading its
// own output is legal, so self edges are excluded.
func (m *Model) predecessors() map[string]map[string]bool {
	preds := make(map[string]map[string]bool)

	for _, c := range m.conns {
		if c.Src.Block == c.Dst.Block {
			continue
		}

		if preds[c.Dst.Block] == nil {
			preds[c.Dst.Block] = make(map[string]bool)
		}
		preds[c.Dst.Block][c.Src.Block] = true
	}

	return preds
}

// placementIndex returns the index at which a block with the given
// predecessor set can be inserted, one past its latest-placed predecessor.
// The second return value is false while some predecessor is not placed yet.
func (m *Model) placementIndex(
	order []Block,
	preds map[string]bool,
) (int, bool) {
	placed := 0
	latest := -1

	for i, b := range order {
		if preds[b.Name()] {
			placed++
			latest = i
		}
	}

	if placed < len(preds) {
		return 0, false
	}

	return latest + 1, true
}

func (m *Model) unplacedNames(all []Block, placed []Block) []string {
	placedSet := make(map[string]bool)
	for _, b := range placed {
		placedSet[b.Name()] = true
	}

	var names []string
	for _, b := range all {
		if !placedSet[b.Name()] {
			names = append(names, b.Name())
		}
	}

	return names
}
