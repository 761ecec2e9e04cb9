// Command parsegen compiles a grammar described in TOML into an SLR(1),
// canonical LR(1), or LALR(1) ACTION/GOTO table, and optionally drives it
// against one or more input sentences, printing a shift/reduce trace for
// each.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/chzyer/readline"
	"github.com/dekarrin/parsegen/internal/grammar"
	"github.com/dekarrin/parsegen/internal/parse"
	"github.com/dekarrin/rezi"
	flag "github.com/spf13/pflag"
)

var (
	flagGrammar     = flag.StringP("grammar", "g", "", "path to a TOML grammar file")
	flagType        = flag.StringP("type", "t", "lalr1", "table kind to build: slr, clr1, or lalr1")
	flagAllowAmbig  = flag.BoolP("allow-ambiguous", "a", false, "for -t slr, resolve shift/reduce conflicts in favor of the shift")
	flagSave        = flag.StringP("save", "s", "", "write the compiled grammar bundle to this path and exit")
	flagLoad        = flag.StringP("load", "l", "", "load a previously-saved grammar bundle instead of -g")
	flagInteractive = flag.BoolP("interactive", "i", false, "start an interactive parse REPL instead of parsing positional arguments")
)

func main() {
	flag.Parse()

	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "parsegen:", err)
		os.Exit(1)
	}
}

func run() error {
	g, err := loadGrammar()
	if err != nil {
		return err
	}

	if *flagSave != "" {
		return saveGrammar(*g, *flagSave)
	}

	table, err := buildTable(*g)
	if err != nil {
		return err
	}

	if *flagInteractive {
		return runREPL(table)
	}

	inputs := flag.Args()
	if len(inputs) == 0 {
		fmt.Println(table.String())
		return nil
	}

	for _, input := range inputs {
		if err := parseAndReport(table, strings.Fields(input)); err != nil {
			fmt.Fprintf(os.Stderr, "%q: %v\n", input, err)
		}
	}
	return nil
}

func loadGrammar() (*grammar.Grammar, error) {
	if *flagLoad != "" {
		data, err := os.ReadFile(*flagLoad)
		if err != nil {
			return nil, fmt.Errorf("read grammar bundle: %w", err)
		}
		var bundle grammarBundle
		if _, err := rezi.DecBinary(data, &bundle); err != nil {
			return nil, fmt.Errorf("decode grammar bundle: %w", err)
		}
		return bundle.toGrammar(), nil
	}

	if *flagGrammar == "" {
		return nil, fmt.Errorf("one of -g/--grammar or -l/--load is required")
	}

	var gf grammarFile
	if _, err := toml.DecodeFile(*flagGrammar, &gf); err != nil {
		return nil, fmt.Errorf("read grammar file: %w", err)
	}
	return gf.toGrammar(), nil
}

func saveGrammar(g grammar.Grammar, path string) error {
	bundle := bundleFromGrammar(g)
	data := rezi.EncBinary(&bundle)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write grammar bundle: %w", err)
	}
	return nil
}

func buildTable(g grammar.Grammar) (parse.LRParseTable, error) {
	switch strings.ToLower(*flagType) {
	case "slr", "slr1", "slr(1)":
		return parse.NewSLR1Table(g, *flagAllowAmbig)
	case "clr", "clr1", "lr1", "lr(1)":
		return parse.NewCLR1Table(g)
	case "lalr", "lalr1", "lalr(1)":
		return parse.NewLALR1Table(g)
	default:
		return nil, fmt.Errorf("unknown table type %q: want slr, clr, or lalr", *flagType)
	}
}

func parseAndReport(table parse.LRParseTable, symbols []string) error {
	tokens := make([]parse.Token, len(symbols))
	for i, s := range symbols {
		tokens[i] = parse.NewToken(s, s)
	}

	p := parse.NewParser(table)
	tree, err := p.Parse(parse.NewTokenStream(tokens), func(e parse.TraceEvent) {
		fmt.Println(e.String())
	})
	if err != nil {
		return err
	}
	fmt.Println(tree.String())
	return nil
}

func runREPL(table parse.LRParseTable) error {
	rl, err := readline.New("parsegen> ")
	if err != nil {
		return fmt.Errorf("start readline: %w", err)
	}
	defer rl.Close()

	for {
		line, err := rl.Readline()
		if err != nil {
			return nil
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if line == "table" {
			fmt.Println(table.String())
			continue
		}
		if err := parseAndReport(table, strings.Fields(line)); err != nil {
			fmt.Fprintln(os.Stderr, err)
		}
	}
}
