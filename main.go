package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/tidwall/gjson"

	"github.com/mcncl/jsonfuzz/grammar"
	"github.com/mcncl/jsonfuzz/internal/config"
	"github.com/mcncl/jsonfuzz/internal/errors"
	"github.com/mcncl/jsonfuzz/models"
	"github.com/mcncl/jsonfuzz/parser"
	"github.com/mcncl/jsonfuzz/tree"
)

// CLI defines the command-line interface. Without --input it emits fresh
// documents from the JSON grammar; with --input it parses the file and
// mutates it through the tree path.
var CLI struct {
	Input   string `help:"Path to a JSON file to mutate. If not specified, fresh documents are generated instead." short:"i" type:"path"`
	Output  string `help:"Path to output file. If not specified, writes to stdout." short:"o" type:"path"`
	Count   int    `help:"Number of documents to emit." short:"n" default:"0"`
	Budget  int    `help:"Size budget for grammar generation." short:"b" default:"-1"`
	Seed    int64  `help:"Random seed." short:"s" default:"0"`
	Rounds  int    `help:"Mutation rounds per emitted document in mutate mode." short:"r" default:"0"`
	MaxCost uint64 `help:"Complexity bound for tree mutation." default:"0"`
	Evolve  bool   `help:"Emit a chain of mutations of one derivation instead of independent documents." short:"e"`
	Check   bool   `help:"Validate every emitted document with an independent JSON parser." short:"c"`
	Config  string `help:"Path to a YAML config file. Defaults to the nearest .jsonfuzz.yml." type:"path"`
	Version bool   `help:"Show version information." short:"v"`
}

// Context holds the runtime context
type Context struct {
	Config *config.Config
}

// Version information
const (
	Version = "0.1.0"
)

func main() {
	kongParser := kong.Must(&CLI,
		kong.Name("jsonfuzz"),
		kong.Description("Generate and mutate structured JSON test inputs for fuzzing"),
		kong.UsageOnError(),
	)

	if _, err := kongParser.Parse(os.Args[1:]); err != nil {
		os.Exit(1)
	}

	if CLI.Version {
		fmt.Printf("jsonfuzz version %s\n", Version)
		return
	}

	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", errors.UserFriendlyError(err))
		os.Exit(1)
	}

	if err := run(&Context{Config: cfg}); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", errors.UserFriendlyError(err))
		fmt.Fprintf(os.Stderr, "\nFor help, run: jsonfuzz --help\n")
		os.Exit(1)
	}
}

// loadConfig resolves the effective configuration: file defaults first,
// explicit flags on top.
func loadConfig() (*config.Config, error) {
	path := CLI.Config
	if path == "" {
		path = config.FindConfigFile()
	}

	cfg := config.NewConfig()
	if path != "" {
		loaded, err := config.LoadConfig(path)
		if err != nil {
			return nil, errors.NewConfigError(fmt.Sprintf("could not load '%s'", path), err)
		}
		cfg = loaded
	}

	if CLI.Count > 0 {
		cfg.Count = CLI.Count
	}
	if CLI.Budget >= 0 {
		cfg.Grammar.Budget = CLI.Budget
	}
	if CLI.Seed != 0 {
		cfg.Seed = CLI.Seed
	}
	if CLI.Rounds > 0 {
		cfg.Tree.Rounds = CLI.Rounds
	}
	if CLI.MaxCost > 0 {
		cfg.Tree.MaxCost = CLI.MaxCost
	}
	if CLI.Evolve {
		cfg.Grammar.Evolve = true
	}
	if CLI.Check {
		cfg.Output.Check = true
	}
	return cfg, nil
}

// run executes the main program logic
func run(ctx *Context) error {
	var docs []string
	var err error
	if CLI.Input != "" {
		docs, err = mutateInput(ctx.Config)
	} else {
		docs, err = generateDocuments(ctx.Config)
	}
	if err != nil {
		return err
	}

	if ctx.Config.Output.Check {
		for _, doc := range docs {
			if !gjson.Valid(doc) {
				return errors.NewOutputError(fmt.Sprintf("produced invalid JSON: %s", doc), nil)
			}
		}
	}

	return writeOutput(strings.Join(docs, "\n"))
}

// generateDocuments emits documents from the JSON grammar: independent
// derivations, or one derivation evolved through chained local mutations.
func generateDocuments(cfg *config.Config) ([]string, error) {
	g := grammar.JSONGrammar()
	src := grammar.NewRandSource(cfg.Seed)

	docs := make([]string, 0, cfg.Count)
	if cfg.Grammar.Evolve {
		ast := g.Generate(src, cfg.Grammar.Budget)
		docs = append(docs, ast.Render())
		for i := 1; i < cfg.Count; i++ {
			g.Mutate(ast, src)
			docs = append(docs, ast.Render())
		}
		return docs, nil
	}
	for i := 0; i < cfg.Count; i++ {
		docs = append(docs, g.Generate(src, cfg.Grammar.Budget).Render())
	}
	return docs, nil
}

// mutateInput parses the input document and mutates it through the tree
// path, emitting one document per round.
func mutateInput(cfg *config.Config) ([]string, error) {
	native, err := parser.ParseFile(CLI.Input)
	if err != nil {
		return nil, err
	}

	value, ok := tree.FromNative(native)
	if !ok {
		return nil, errors.NewMutationError(
			fmt.Sprintf("'%s' is outside the mutable domain", CLI.Input),
			errors.ErrUnrepresentable,
		)
	}

	mutator := tree.NewMutator(cfg.Seed, cfg.Tree.MaxCost)
	docs := make([]string, 0, cfg.Count)
	for i := 0; i < cfg.Count; i++ {
		candidate := value.Clone()
		for r := 0; r < cfg.Tree.Rounds; r++ {
			mutator.Mutate(&candidate)
		}
		doc, err := models.Serialize(tree.ToNative(candidate))
		if err != nil {
			return nil, errors.NewOutputError("failed to serialize mutated value", err)
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

// writeOutput writes documents to file or stdout
func writeOutput(out string) error {
	if CLI.Output != "" {
		err := os.WriteFile(CLI.Output, []byte(out+"\n"), 0644)
		if err != nil {
			return errors.NewOutputError(fmt.Sprintf("failed to write to file '%s'", CLI.Output), err)
		}
		fmt.Fprintf(os.Stderr, "Documents written to %s\n", CLI.Output)
		return nil
	}

	_, err := fmt.Println(out)
	if err != nil {
		return errors.NewOutputError("failed to write to stdout", err)
	}
	return nil
}
