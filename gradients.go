package mathops

import (
	"maps"
	"slices"

	"github.com/gomlx/mathops/gradient"
	"github.com/gomlx/mathops/internal/utils"
	"github.com/gomlx/mathops/schema"
	"github.com/gomlx/mathops/types/opdef"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

// AddGradientOperators appends to the net the operators that compute the gradients of the forward
// operators, and returns the map of forward tensor identifiers to the identifiers of their gradients.
//
// The seeds map forward tensors (usually the net outputs) to the identifiers of their upstream
// gradients, which must be fed to the workspace before running the net. The gradient operators may
// overwrite the seeds in-place.
//
// The forward operators are visited in reverse order, and the gradient maker registered for each one
// emits its gradient operators, given the gradients of its outputs. Operators whose outputs have no
// gradient are skipped.
//
// It returns an error (and leaves the net unchanged) if:
//
//   - an operator whose outputs have gradients has no registered gradient maker;
//   - a forward tensor would receive more than one gradient (fan-out): gradients are not accumulated,
//     and emitted operators may overwrite upstream gradients in-place, so each one must have a single consumer;
//   - an emitted gradient operator reads a forward tensor that is overwritten, by an in-place operator,
//     before the backward pass runs;
//   - a gradient identifier collides with a forward tensor, or a seed is named as the gradient of a
//     forward tensor (see gradient.GradientName) or is shared by two tensors: the emitted operators
//     would overwrite it before reading it.
//
// It can only be called once per net.
func (b *Builder) AddGradientOperators(seeds map[string]string) (map[string]string, error) {
	if b.gradientsAdded {
		return nil, errors.Errorf("gradient operators already added to net %q", b.name)
	}
	if len(seeds) == 0 {
		return nil, errors.Errorf("no gradient seeds given for net %q", b.name)
	}
	forward := b.ops[:b.numForward]

	// grads maps forward tensors to their gradient identifier; gradIDs holds all identifiers written
	// or read as gradients.
	grads := make(map[string]string, len(seeds))
	gradIDs := utils.MakeSet[string]()
	gradNames := make(map[string]string, len(b.defined))
	for id := range b.defined {
		gradNames[gradient.GradientName(id)] = id
	}
	for _, id := range slices.Sorted(maps.Keys(seeds)) {
		g := seeds[id]
		if !b.defined.Has(id) {
			return nil, errors.Errorf("gradient seed for %q, but it is not defined in net %q", id, b.name)
		}
		if b.defined.Has(g) {
			return nil, errors.Errorf("gradient seed %q for %q collides with a forward tensor of net %q", g, id, b.name)
		}
		if x, found := gradNames[g]; found {
			return nil, errors.Errorf("gradient seed %q for %q collides with the gradient of %q in net %q",
				g, id, x, b.name)
		}
		if gradIDs.Has(g) {
			return nil, errors.Errorf("gradient seed %q given to more than one tensor of net %q", g, b.name)
		}
		grads[id] = g
		gradIDs.Insert(g)
	}

	// writers[id] lists the indices of the forward operators writing id.
	writers := make(map[string][]int)
	for ii, def := range forward {
		for _, output := range def.Outputs {
			writers[output] = append(writers[output], ii)
		}
	}

	var gradOps []*opdef.OperatorDef
	for ii := len(forward) - 1; ii >= 0; ii-- {
		def := forward[ii]
		gOutputs := make([]string, len(def.Outputs))
		hasGradient := false
		for k, output := range def.Outputs {
			gOutputs[k] = grads[output]
			hasGradient = hasGradient || gOutputs[k] != ""
		}
		if !hasGradient {
			klog.V(2).Infof("net %q: no gradient flows into operator #%d %s", b.name, ii, def)
			continue
		}
		if !gradient.Has(def.Type) {
			return nil, errors.Errorf("net %q: no gradient registered for operator #%d %s", b.name, ii, def)
		}
		meta, err := gradient.Get(def, gOutputs)
		if err != nil {
			return nil, errors.WithMessagef(err, "net %q, operator #%d", b.name, ii)
		}

		for k, gi := range meta.GradientInputs {
			if gi == "" {
				continue
			}
			x := def.Inputs[k]
			if previous, found := grads[x]; found {
				return nil, errors.Errorf("net %q: tensor %q receives gradients from more than one consumer "+
					"(%q and %q from operator #%d %s): gradient fan-out is not supported",
					b.name, x, previous, gi, ii, def)
			}
		}

		for _, op := range meta.Ops {
			if err := b.checkGradientOp(ii, def, op, writers, gradIDs); err != nil {
				return nil, err
			}
			for _, output := range op.Outputs {
				gradIDs.Insert(output)
			}
		}

		for k, gi := range meta.GradientInputs {
			if gi != "" {
				grads[def.Inputs[k]] = gi
			}
		}
		gradOps = append(gradOps, meta.Ops...)
	}

	b.ops = append(b.ops, gradOps...)
	b.gradientsAdded = true
	klog.V(1).Infof("net %q: added %d gradient operators for %d forward operators", b.name, len(gradOps), len(forward))
	return grads, nil
}

// checkGradientOp validates the gradient operator op, emitted for the forward operator #opIdx def.
//
// Every input must be either a gradient (gradIDs) or a forward tensor holding, when the backward pass
// runs, the same value it had for def: an input of def must not be written by def (in-place) or any later
// operator, and other forward tensors must not be written after def. Outputs must not overwrite forward
// tensors.
func (b *Builder) checkGradientOp(opIdx int, def, op *opdef.OperatorDef, writers map[string][]int, gradIDs utils.Set[string]) error {
	s, found := schema.Get(op.Type)
	if !found {
		return errors.Errorf("net %q: gradient of operator #%d %s emitted unknown operator type %q",
			b.name, opIdx, def, op.Type)
	}
	if err := s.Verify(op); err != nil {
		return errors.WithMessagef(err, "net %q: gradient of operator #%d %s", b.name, opIdx, def)
	}
	for _, input := range op.Inputs {
		if gradIDs.Has(input) {
			continue
		}
		if !b.defined.Has(input) {
			return errors.Errorf("net %q: gradient operator %s (of operator #%d %s) reads undefined tensor %q",
				b.name, op, opIdx, def, input)
		}
		firstWriter := opIdx + 1
		if slices.Contains(def.Inputs, input) {
			// It needs the value before def runs.
			firstWriter = opIdx
		}
		for _, writer := range writers[input] {
			if writer >= firstWriter {
				return errors.Errorf("net %q: gradient operator %s (of operator #%d %s) reads %q, "+
					"but it is overwritten by forward operator #%d %s", b.name, op, opIdx, def, input,
					writer, b.ops[writer])
			}
		}
	}
	for _, output := range op.Outputs {
		if b.defined.Has(output) {
			return errors.Errorf("net %q: gradient operator %s (of operator #%d %s) overwrites forward tensor %q",
				b.name, op, opIdx, def, output)
		}
	}
	return nil
}
