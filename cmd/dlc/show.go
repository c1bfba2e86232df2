package main

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"gopkg.in/yaml.v3"

	"github.com/dlogc/dlogc/internal/pipeline"
	"github.com/dlogc/dlogc/internal/typesystem"
)

func typeKindString(k typesystem.TypeKind) string {
	switch k {
	case typesystem.TKConstant:
		return "constant"
	case typesystem.TKPrimitive:
		return "primitive"
	case typesystem.TKSubset:
		return "subset"
	case typesystem.TKUnion:
		return "union"
	case typesystem.TKRecord:
		return "record"
	case typesystem.TKADT:
		return "adt"
	default:
		return "unknown"
	}
}

// typeAnalysisDump is the yaml.v3-rendered shape for --show=type-analysis:
// every registered type name alongside its kind, in registration order.
type typeAnalysisDump struct {
	Types []typeEntry `yaml:"types"`
}

type typeEntry struct {
	Name string `yaml:"name"`
	Kind string `yaml:"kind"`
}

// precedenceGraphDump is the yaml.v3-rendered shape for
// --show=precedence-graph: one entry per stratum, in evaluation order.
type precedenceGraphDump struct {
	Strata []strataEntry `yaml:"strata"`
}

type strataEntry struct {
	Index     int      `yaml:"index"`
	Relations []string `yaml:"relations"`
	Recursive bool      `yaml:"recursive"`
}

func showSections(w io.Writer, tu *pipeline.TranslationUnit, sections []string) {
	color := false
	if f, ok := w.(*os.File); ok {
		color = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	for _, s := range sections {
		switch s {
		case "type-analysis":
			showTypeAnalysis(w, tu, color)
		case "precedence-graph":
			showPrecedenceGraph(w, tu, color)
		}
	}
}

func heading(w io.Writer, color bool, text string) {
	if color {
		fmt.Fprintf(w, "\x1b[1m== %s ==\x1b[0m\n", text)
		return
	}
	fmt.Fprintf(w, "== %s ==\n", text)
}

func showTypeAnalysis(w io.Writer, tu *pipeline.TranslationUnit, color bool) {
	heading(w, color, "type-analysis")
	if tu.Env == nil {
		fmt.Fprintln(w, "(type environment unavailable)")
		return
	}
	var dump typeAnalysisDump
	for _, name := range tu.Env.Names() {
		ty, ok := tu.Env.Lookup(name)
		if !ok {
			continue
		}
		dump.Types = append(dump.Types, typeEntry{Name: name, Kind: typeKindString(ty.TypeKind)})
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	_ = enc.Encode(dump)
	_ = enc.Close()
}

func showPrecedenceGraph(w io.Writer, tu *pipeline.TranslationUnit, color bool) {
	heading(w, color, "precedence-graph")
	if tu.Strat == nil {
		fmt.Fprintln(w, "(stratification unavailable)")
		return
	}
	var dump precedenceGraphDump
	for _, s := range tu.Strat.Strata {
		dump.Strata = append(dump.Strata, strataEntry{Index: s.Index, Relations: s.Relations, Recursive: s.Recursive})
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	_ = enc.Encode(dump)
	_ = enc.Close()
}
