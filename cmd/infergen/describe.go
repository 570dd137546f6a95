package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/template"

	"github.com/nihei9/infergen/grammar"
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:     "describe",
		Short:   "Print a grammar file in readable form",
		Example: `  infergen describe int_pairs.fan`,
		Args:    cobra.ExactArgs(1),
		RunE:    runDescribe,
	}
	rootCmd.AddCommand(cmd)
}

func runDescribe(cmd *cobra.Command, args []string) error {
	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("cannot open grammar file %s: %w", args[0], err)
	}
	defer f.Close()

	src, err := io.ReadAll(f)
	if err != nil {
		return err
	}

	g, err := grammar.Parse(string(src), grammar.DefaultGenerators())
	if err != nil {
		return err
	}

	return writeGrammarDescription(os.Stdout, g)
}

const describeTemplate = `# Start

{{ .Start }}

# Rules

{{ range .Rules -}}
{{ printRule . }}
{{ end }}`

func writeGrammarDescription(w io.Writer, g *grammar.Grammar) error {
	fns := template.FuncMap{
		"printRule": func(r *grammar.Rule) string {
			var b strings.Builder
			fmt.Fprintf(&b, "%-20s", r.Name)
			switch {
			case r.IsSemanticLeaf():
				fmt.Fprintf(&b, " := %s(%s)", r.Generator.Name, strings.Join(r.Generator.Args, ", "))
			default:
				fmt.Fprintf(&b, " %d alternation(s)", len(r.Alts))
			}
			if n := len(r.Wheres); n > 0 {
				fmt.Fprintf(&b, ", %d where-clause(s)", n)
			}
			return b.String()
		},
	}

	tmpl, err := template.New("").Funcs(fns).Parse(describeTemplate)
	if err != nil {
		return err
	}
	return tmpl.Execute(w, g)
}
