package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/template"

	"github.com/nihei9/arvo/syntax"
	spec "github.com/nihei9/arvo/spec/grammar"
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:     "describe",
		Short:   "Print the parsing table of the Arvo grammar in readable format",
		Example: `  arvo describe | less`,
		Args:    cobra.NoArgs,
		RunE:    runDescribe,
	}
	rootCmd.AddCommand(cmd)
}

func runDescribe(cmd *cobra.Command, args []string) error {
	report, err := syntax.Report()
	if err != nil {
		return err
	}
	return writeReport(os.Stdout, report)
}

const reportTemplate = `# Conflicts

{{ printConflictSummary . }}

# Terminals

{{ range .Terminals -}}
{{ if . }}{{ printTerminal . }}
{{ end }}{{ end }}
# Productions

{{ range .Productions -}}
{{ if . }}{{ printProduction . }}
{{ end }}{{ end }}
# States
{{ range .States }}
## State {{ .Number }}{{ if .ErrorTrapper }} (error trapper){{ end }}

{{ range .Kernel -}}
{{ printItem . }}
{{ end }}
{{ range .Shift -}}
{{ printShift . }}
{{ end -}}
{{ range .Reduce -}}
{{ printReduce . }}
{{ end -}}
{{ if .DefaultReduction }}{{ printDefaultReduction .DefaultReduction }}
{{ end -}}
{{ range .GoTo -}}
{{ printGoTo . }}
{{ end }}
{{ range .SRConflict -}}
{{ printSRConflict . }}
{{ end -}}
{{ range .RRConflict -}}
{{ printRRConflict . }}
{{ end -}}
{{ end }}`

func writeReport(w io.Writer, report *spec.Report) error {
	termName := func(sym int) string {
		if sym < 0 || sym >= len(report.Terminals) || report.Terminals[sym] == nil {
			return fmt.Sprintf("<terminal %v>", sym)
		}
		if report.Terminals[sym].Alias != "" {
			return report.Terminals[sym].Alias
		}
		return report.Terminals[sym].Name
	}

	nonTermName := func(sym int) string {
		if sym < 0 || sym >= len(report.NonTerminals) || report.NonTerminals[sym] == nil {
			return fmt.Sprintf("<non-terminal %v>", sym)
		}
		return report.NonTerminals[sym].Name
	}

	// Production.RHS holds a non-terminal `n` as `-(n+1)`.
	symName := func(e int) string {
		if e >= 0 {
			return termName(e)
		}
		return nonTermName(-e - 1)
	}

	precAndAssoc := func(prec int, assoc string) string {
		p := " -"
		if prec != 0 {
			p = fmt.Sprintf("%2v", prec)
		}
		if assoc == "" {
			assoc = "-"
		}
		return p + " " + assoc
	}

	fns := template.FuncMap{
		"printConflictSummary": func(report *spec.Report) string {
			count := 0
			for _, s := range report.States {
				count += len(s.SRConflict)
				count += len(s.RRConflict)
			}

			if count == 1 {
				return "1 conflict was detected."
			} else if count > 1 {
				return fmt.Sprintf("%v conflicts were detected.", count)
			}
			return "No conflict was detected."
		},
		"printTerminal": func(term *spec.Terminal) string {
			if term.Alias != "" {
				return fmt.Sprintf("%4v %v %v (%v)", term.Number, precAndAssoc(term.Precedence, term.Associativity), term.Name, term.Alias)
			}
			return fmt.Sprintf("%4v %v %v", term.Number, precAndAssoc(term.Precedence, term.Associativity), term.Name)
		},
		"printProduction": func(prod *spec.Production) string {
			var b strings.Builder
			fmt.Fprintf(&b, "%v →", nonTermName(prod.LHS))
			if len(prod.RHS) > 0 {
				for _, e := range prod.RHS {
					fmt.Fprintf(&b, " %v", symName(e))
				}
			} else {
				fmt.Fprintf(&b, " ε")
			}

			return fmt.Sprintf("%4v %v %v", prod.Number, precAndAssoc(prod.Precedence, prod.Associativity), b.String())
		},
		"printItem": func(item *spec.Item) string {
			if item.Production < 0 || item.Production >= len(report.Productions) || report.Productions[item.Production] == nil {
				return fmt.Sprintf("%4v <unknown production>", item.Production)
			}
			prod := report.Productions[item.Production]

			var b strings.Builder
			fmt.Fprintf(&b, "%v →", nonTermName(prod.LHS))
			for i, e := range prod.RHS {
				if i == item.Dot {
					fmt.Fprintf(&b, " ・")
				}
				fmt.Fprintf(&b, " %v", symName(e))
			}
			if item.Dot >= len(prod.RHS) {
				fmt.Fprintf(&b, " ・")
			}

			return fmt.Sprintf("%4v %v", prod.Number, b.String())
		},
		"printShift": func(tran *spec.Transition) string {
			return fmt.Sprintf("shift  %4v on %v", tran.State, termName(tran.Symbol))
		},
		"printReduce": func(reduce *spec.Reduce) string {
			names := make([]string, len(reduce.LookAhead))
			for i, a := range reduce.LookAhead {
				names[i] = termName(a)
			}
			return fmt.Sprintf("reduce %4v on %v", reduce.Production, strings.Join(names, ", "))
		},
		"printDefaultReduction": func(prod int) string {
			return fmt.Sprintf("reduce %4v by default", prod)
		},
		"printGoTo": func(tran *spec.Transition) string {
			return fmt.Sprintf("goto   %4v on %v", tran.State, nonTermName(tran.Symbol))
		},
		"printSRConflict": func(sr *spec.SRConflict) string {
			var adopted string
			switch {
			case sr.AdoptedState != nil:
				adopted = fmt.Sprintf("shift %v", *sr.AdoptedState)
			case sr.AdoptedProduction != nil:
				adopted = fmt.Sprintf("reduce %v", *sr.AdoptedProduction)
			}
			return fmt.Sprintf("shift/reduce conflict (shift %v, reduce %v) on %v: %v adopted", sr.State, sr.Production, termName(sr.Symbol), adopted)
		},
		"printRRConflict": func(rr *spec.RRConflict) string {
			return fmt.Sprintf("reduce/reduce conflict (%v, %v) on %v: reduce %v adopted", rr.Production1, rr.Production2, termName(rr.Symbol), rr.AdoptedProduction)
		},
	}

	tmpl, err := template.New("").Funcs(fns).Parse(reportTemplate)
	if err != nil {
		return err
	}

	return tmpl.Execute(w, report)
}
