package ram

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Printer renders a Program in the canonical RAM text format (§6), the
// format golden snapshot tests compare against. It follows the same
// buffer/indent bookkeeping as internal/prettyprinter.CodePrinter one
// level down the pipeline.
type Printer struct {
	buf    strings.Builder
	indent int
}

// NewPrinter builds an empty printer.
func NewPrinter() *Printer { return &Printer{} }

func (p *Printer) write(s string) { p.buf.WriteString(s) }
func (p *Printer) writeIndent() {
	for i := 0; i < p.indent; i++ {
		p.buf.WriteString("    ")
	}
}
func (p *Printer) writeln(s string) {
	p.writeIndent()
	p.buf.WriteString(s)
	p.buf.WriteString("\n")
}

// String returns the rendered text.
func (p *Printer) String() string { return p.buf.String() }

// PrintProgram renders prog's relation signatures, main statement and
// subroutines, in that order, subroutines sorted by name for determinism.
func PrintProgram(prog *Program) string {
	p := NewPrinter()
	for _, r := range prog.Relations {
		p.writeln(r.Signature())
	}
	p.writeln("")
	p.writeln("main:")
	p.indent++
	if prog.Main != nil {
		p.printStatement(prog.Main)
	}
	p.indent--

	names := make([]string, 0, len(prog.Subroutines))
	for name := range prog.Subroutines {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		p.writeln("")
		p.writeln(name + ":")
		p.indent++
		p.printStatement(prog.Subroutines[name])
		p.indent--
	}
	return p.String()
}

func (p *Printer) printStatement(s Statement) {
	if s == nil {
		p.writeln("<nil>")
		return
	}
	switch n := s.(type) {
	case *Sequence:
		for _, sub := range n.Stmts {
			p.printStatement(sub)
		}
	case *Parallel:
		p.writeln("PARALLEL")
		p.indent++
		for _, sub := range n.Stmts {
			p.printStatement(sub)
		}
		p.indent--
		p.writeln("END PARALLEL")
	case *Loop:
		p.writeln("LOOP")
		p.indent++
		p.printStatement(n.Body)
		p.indent--
		p.writeln("END LOOP")
	case *Exit:
		p.writeln("EXIT " + p.condString(n.Cond))
	case *Swap:
		p.writeln(fmt.Sprintf("SWAP (%s, %s)", n.A, n.B))
	case *Extend:
		p.writeln(fmt.Sprintf("EXTEND %s WITH %s", n.A, n.B))
	case *Clear:
		p.writeln("CLEAR " + n.Relation)
	case *IO:
		p.writeln(fmt.Sprintf("IO %s %s", n.Relation, formatDirectives(n.Operation, n.Directives)))
	case *LogTimer:
		p.writeln(fmt.Sprintf("TIMER %q", n.Message))
		p.indent++
		p.printStatement(n.Wrapped)
		p.indent--
		p.writeln("END TIMER")
	case *LogRelationTimer:
		p.writeln(fmt.Sprintf("TIMER %q ON %s", n.Message, n.Relation))
		p.indent++
		p.printStatement(n.Wrapped)
		p.indent--
		p.writeln("END TIMER")
	case *LogSize:
		p.writeln(fmt.Sprintf("LOGSIZE %q %s", n.Message, n.Relation))
	case *DebugInfo:
		p.writeln(fmt.Sprintf("DEBUG %q", n.Message))
		p.indent++
		p.printStatement(n.Wrapped)
		p.indent--
		p.writeln("END DEBUG")
	case *Call:
		p.writeln("CALL " + n.Name)
	case *Query:
		p.writeln("QUERY")
		p.indent++
		p.printOperation(n.Op)
		p.indent--
	default:
		p.writeln(fmt.Sprintf("<unknown statement %T>", s))
	}
}

func (p *Printer) printOperation(o Operation) {
	if o == nil {
		p.writeln("<nil>")
		return
	}
	switch n := o.(type) {
	case *Scan:
		p.writeln(fmt.Sprintf("FOR t%d IN %s", n.Level, n.Relation))
		p.indent++
		p.printOperation(n.Body)
		p.indent--
	case *ParallelScan:
		p.writeln(fmt.Sprintf("PARALLEL FOR t%d IN %s", n.Level, n.Relation))
		p.indent++
		p.printOperation(n.Body)
		p.indent--
	case *IndexScan:
		p.writeln(fmt.Sprintf("FOR t%d IN %s WHERE %s", n.Level, n.Relation, p.boundString(n.Bound)))
		p.indent++
		p.printOperation(n.Body)
		p.indent--
	case *IfExists:
		p.writeln(fmt.Sprintf("IF EXISTS t%d IN %s WHERE %s", n.Level, n.Relation, p.condString(n.Cond)))
		p.indent++
		p.printOperation(n.Body)
		p.indent--
	case *IndexIfExists:
		p.writeln(fmt.Sprintf("IF EXISTS t%d IN %s WHERE %s AND %s", n.Level, n.Relation, p.boundString(n.Bound), p.condString(n.Cond)))
		p.indent++
		p.printOperation(n.Body)
		p.indent--
	case *Aggregate:
		p.writeln(fmt.Sprintf("t%d = %s %s IN %s WHERE %s", n.Level, n.Op, p.exprString(n.TargetExpr), n.Relation, p.condString(n.Cond)))
		p.indent++
		p.printOperation(n.Body)
		p.indent--
	case *IndexAggregate:
		p.writeln(fmt.Sprintf("t%d = %s %s IN %s WHERE %s AND %s", n.Level, n.Op, p.exprString(n.TargetExpr), n.Relation, p.boundString(n.Bound), p.condString(n.Cond)))
		p.indent++
		p.printOperation(n.Body)
		p.indent--
	case *UnpackRecord:
		p.writeln(fmt.Sprintf("UNPACK t%d[%d] AS t%d (arity=%d)", n.SourceLevel, n.SourceCol, n.Level, n.Arity))
		p.indent++
		p.printOperation(n.Body)
		p.indent--
	case *Filter:
		p.writeln("IF " + p.condString(n.Cond))
		p.indent++
		p.printOperation(n.Body)
		p.indent--
	case *Break:
		p.writeln("IF !" + p.condString(n.Cond) + " BREAK")
		p.indent++
		p.printOperation(n.Body)
		p.indent--
	case *Insert:
		p.writeln(fmt.Sprintf("INSERT (%s) INTO %s", p.exprList(n.Args), n.Relation))
	case *GuardedInsert:
		p.writeln(fmt.Sprintf("GUARDED INSERT (%s) INTO %s KEY %v", p.exprList(n.Args), n.Relation, n.KeyColumns))
	case *NestedIntrinsicOperator:
		p.writeln(fmt.Sprintf("FOR t%d IN %s(%s)", n.TupleID, n.Symbol, p.exprList(n.Args)))
		p.indent++
		p.printOperation(n.Body)
		p.indent--
	case *SubroutineReturn:
		p.writeln(fmt.Sprintf("RETURN (%s)", p.exprList(n.Args)))
	default:
		p.writeln(fmt.Sprintf("<unknown operation %T>", o))
	}
}

func (p *Printer) exprList(args []Expression) string {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = p.exprString(a)
	}
	return strings.Join(parts, ", ")
}

func (p *Printer) boundString(bound []Expression) string {
	parts := make([]string, 0, len(bound))
	for i, b := range bound {
		if b == nil {
			continue
		}
		parts = append(parts, fmt.Sprintf("col%d=%s", i, p.exprString(b)))
	}
	return strings.Join(parts, ", ")
}

func (p *Printer) exprString(e Expression) string {
	if e == nil {
		return "_"
	}
	switch n := e.(type) {
	case *TupleElement:
		return fmt.Sprintf("t%d[%d]", n.Level, n.Column)
	case *SignedConstant:
		return strconv.FormatInt(n.Value, 10)
	case *UnsignedConstant:
		return strconv.FormatUint(n.Value, 10) + "u"
	case *FloatConstant:
		return strconv.FormatFloat(n.Value, 'g', -1, 64) + "f"
	case *StringConstant:
		return strconv.Quote(n.Value)
	case *IntrinsicOperator:
		return fmt.Sprintf("%s(%s)", n.Symbol, p.exprList(n.Args))
	case *UserDefinedOperator:
		return fmt.Sprintf("@%s(%s)", n.Name, p.exprList(n.Args))
	case *AutoIncrement:
		return "autoinc()"
	case *PackRecord:
		return fmt.Sprintf("[%s]", p.exprList(n.Args))
	case *SubroutineArgument:
		return fmt.Sprintf("arg%d", n.Index)
	case *UndefValue:
		return "⊥"
	default:
		return fmt.Sprintf("<unknown expr %T>", e)
	}
}

func (p *Printer) condString(c Condition) string {
	if c == nil {
		return "true"
	}
	switch n := c.(type) {
	case *True:
		return "true"
	case *False:
		return "false"
	case *Conjunction:
		parts := make([]string, len(n.Terms))
		for i, t := range n.Terms {
			parts[i] = p.condString(t)
		}
		return strings.Join(parts, " AND ")
	case *Negation:
		return "NOT (" + p.condString(n.Cond) + ")"
	case *EmptinessCheck:
		return n.Relation + " = ∅"
	case *ExistenceCheck:
		return fmt.Sprintf("(%s) ∈ %s", p.exprList(n.Args), n.Relation)
	case *ProvenanceExistenceCheck:
		return fmt.Sprintf("(%s) ∈ %s [provenance]", p.exprList(n.Args), n.Relation)
	case *Constraint:
		return fmt.Sprintf("%s %s %s", p.exprString(n.Lhs), n.Op, p.exprString(n.Rhs))
	case *RelationSize:
		return fmt.Sprintf("|%s| %s %d", n.Relation, n.Op, n.N)
	default:
		return fmt.Sprintf("<unknown cond %T>", c)
	}
}

func formatDirectives(operation string, dirs map[string]string) string {
	keys := make([]string, 0, len(dirs))
	for k := range dirs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s=%q", k, dirs[k])
	}
	return fmt.Sprintf("(operation=%q, %s)", operation, strings.Join(parts, ", "))
}
