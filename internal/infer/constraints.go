package infer

import (
	"fmt"

	"github.com/dlogc/dlogc/internal/ast"
	"github.com/dlogc/dlogc/internal/constraint"
	"github.com/dlogc/dlogc/internal/typesystem"
)

// overloadConstraint resolves which concrete Overload an intrinsic functor
// call uses (§4.5, §4.6): it narrows its candidate list every time a
// parameter or return variable's TypeSet becomes incompatible with a
// candidate's declared kind, and once exactly one candidate survives it
// pins every parameter and return variable to that candidate's kind root.
// Pinning is a deliberate one-time non-monotone "raise": a variable that had
// narrowed below the kind root (e.g. to a user subset type) is widened back
// up to the root, and the constraint stops updating afterward.
type overloadConstraint struct {
	symbol     string
	table      []Overload
	returnVar  constraint.Variable
	paramVars  []constraint.Variable
	alive      []int
	resolved   *Overload
	rootOfKind func(typesystem.Kind) (typesystem.TypeSet, bool)
}

func (c *overloadConstraint) String() string {
	return fmt.Sprintf("overload:%s", c.symbol)
}

func (c *overloadConstraint) Update(asg *constraint.Assignment[typesystem.TypeSet]) bool {
	if c.resolved != nil {
		return false
	}
	changed := false

	next := c.alive[:0]
	for _, idx := range c.alive {
		cand := c.table[idx]
		if c.compatible(asg, cand) {
			next = append(next, idx)
		}
	}
	if len(next) != len(c.alive) {
		changed = true
	}
	c.alive = next

	if len(c.alive) != 1 {
		return changed
	}
	cand := c.table[c.alive[0]]
	for i, k := range cand.ParamKinds {
		if root, ok := c.rootOfKind(k); ok {
			if asg.Tighten(c.paramVars[i], root) {
				changed = true
			}
		}
	}
	if root, ok := c.rootOfKind(cand.ReturnKind); ok {
		if asg.Tighten(c.returnVar, root) {
			changed = true
		}
	}
	resolved := cand
	c.resolved = &resolved
	return true
}

func (c *overloadConstraint) compatible(asg *constraint.Assignment[typesystem.TypeSet], cand Overload) bool {
	if len(cand.ParamKinds) != len(c.paramVars) {
		return false
	}
	for i, k := range cand.ParamKinds {
		if !kindCompatible(asg.Get(c.paramVars[i]), k) {
			return false
		}
	}
	return kindCompatible(asg.Get(c.returnVar), cand.ReturnKind)
}

func kindCompatible(ts typesystem.TypeSet, k typesystem.Kind) bool {
	if ts.IsUniverse() {
		return true
	}
	for _, t := range ts.Items() {
		if actual, ok := typesystem.KindOf(t); ok && actual == k {
			return true
		}
	}
	return false
}

// recordFieldConstraint waits until its container's TypeSet narrows to
// exactly one record type, then tightens each field variable to that
// type's declared field type (§4.5).
type recordFieldConstraint struct {
	container constraint.Variable
	fieldVars []constraint.Variable
	settled   bool
}

func (c *recordFieldConstraint) String() string { return "record-fields:" + c.container.String() }

func (c *recordFieldConstraint) Update(asg *constraint.Assignment[typesystem.TypeSet]) bool {
	if c.settled {
		return false
	}
	cv := asg.Get(c.container)
	if cv.IsUniverse() || cv.Len() != 1 {
		return false
	}
	c.settled = true
	t := cv.Items()[0]
	if t.TypeKind != typesystem.TKRecord || len(t.Fields) != len(c.fieldVars) {
		return true
	}
	changed := false
	for i, f := range t.Fields {
		if asg.Tighten(c.fieldVars[i], typesystem.Singleton(f.Type)) {
			changed = true
		}
	}
	return changed
}

// branchFieldConstraint is recordFieldConstraint's ADT counterpart: it
// waits for the container to settle on one ADT type, then matches the
// initializer's named constructor against that type's branches.
type branchFieldConstraint struct {
	container   constraint.Variable
	constructor string
	fieldVars   []constraint.Variable
	settled     bool
}

func (c *branchFieldConstraint) String() string {
	return "branch-fields:" + c.container.String() + ":" + c.constructor
}

func (c *branchFieldConstraint) Update(asg *constraint.Assignment[typesystem.TypeSet]) bool {
	if c.settled {
		return false
	}
	cv := asg.Get(c.container)
	if cv.IsUniverse() || cv.Len() != 1 {
		return false
	}
	c.settled = true
	t := cv.Items()[0]
	if t.TypeKind != typesystem.TKADT {
		return true
	}
	var branch *typesystem.Branch
	for i := range t.Branches {
		if t.Branches[i].Constructor == c.constructor {
			branch = &t.Branches[i]
			break
		}
	}
	if branch == nil || len(branch.Fields) != len(c.fieldVars) {
		return true
	}
	changed := false
	for i, f := range branch.Fields {
		if asg.Tighten(c.fieldVars[i], typesystem.Singleton(f.Type)) {
			changed = true
		}
	}
	return changed
}

// emitAggregatorRule applies §4.5's aggregate operator rule: count is
// signed, mean is float, and min/max/sum narrow to the three numeric kind
// roots and then mutually unify with their target expression's type
// ("share the same type").
func (b *builder) emitAggregatorRule(agg *ast.Aggregator) {
	v := b.getVar(agg)
	switch agg.Op {
	case "count":
		if target, ok := b.rootOf(typesystem.KindSigned); ok {
			b.tightenConst(v, target)
		}
	case "mean":
		if target, ok := b.rootOf(typesystem.KindFloat); ok {
			b.tightenConst(v, target)
		}
	case "sum", "min", "max":
		if agg.Target == nil {
			return
		}
		roots := b.numericRoots()
		if len(roots) > 0 {
			b.tightenConst(v, typesystem.FromSlice(roots))
		}
		targetVar := b.getVar(agg.Target)
		b.problem.AddConstraint(constraint.Func[typesystem.TypeSet]{
			Label: "aggregate-unify:" + v.String() + "," + targetVar.String(),
			Apply: func(asg *constraint.Assignment[typesystem.TypeSet]) bool {
				merged := typesystem.GCSSets(asg.Get(v), asg.Get(targetVar))
				changed := false
				if asg.Tighten(v, merged) {
					changed = true
				}
				if asg.Tighten(targetVar, merged) {
					changed = true
				}
				return changed
			},
		})
	}
}
