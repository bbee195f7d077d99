package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"sort"

	"github.com/chgroeling/decoder-forge/assoc"
	"github.com/chgroeling/decoder-forge/config"
	"github.com/chgroeling/decoder-forge/forge"
	"github.com/chgroeling/decoder-forge/pattern"
	"github.com/chgroeling/decoder-forge/transpile"
	"github.com/chgroeling/decoder-forge/treegui"
	"github.com/chgroeling/decoder-forge/treeview"
	"github.com/chgroeling/decoder-forge/yamlspec"
)

// Version information - can be overridden at build time with:
// go build -ldflags "-X main.Version=v1.2.3"
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

func main() {
	var (
		showVersion  = flag.Bool("version", false, "Show version information")
		showHelp     = flag.Bool("help", false, "Show help information")
		verboseMode  = flag.Bool("verbose", false, "Verbose output, including a context dump before generation")
		configPath   = flag.String("config", "", "Config file path (default: platform config directory)")
		decoderWidth = flag.Int("width", 0, "Decoder width in bits (default: from config)")
		outFormat    = flag.String("format", "", "Output format: go, python (default: from config)")
		outPath      = flag.String("out", "", "Output file for 'generate' (default: stdout)")
		interactive  = flag.Bool("interactive", false, "With 'tree': browse the tree in a terminal UI")
		gui          = flag.Bool("gui", false, "With 'tree': browse the tree in a desktop window")
		sizeTree     = flag.Bool("size", false, "With 'tree': show the size tree instead of the decode tree")
	)

	flag.Parse()

	if *showVersion {
		fmt.Printf("decoder-forge %s\n", Version)
		if Commit != "unknown" {
			fmt.Printf("Commit: %s\n", Commit)
		}
		if Date != "unknown" {
			fmt.Printf("Built: %s\n", Date)
		}
		os.Exit(0)
	}

	if *showHelp || flag.NArg() < 2 {
		printHelp()
		os.Exit(0)
	}

	logger := log.New(os.Stderr, "", 0)

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	if *decoderWidth > 0 {
		cfg.Generation.DecoderWidth = *decoderWidth
	}
	if *outFormat != "" {
		cfg.Generation.OutputFormat = *outFormat
	}

	command := flag.Arg(0)
	specPath := flag.Arg(1)

	if *verboseMode {
		logger.Printf("loading spec: %s", specPath)
	}

	ctx, err := buildContext(specPath, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	for _, w := range ctx.Warnings {
		logger.Printf("warning: %s", w)
	}

	if *verboseMode {
		logger.Println(forge.DumpContext(ctx))
	}

	switch command {
	case "generate":
		if err := runGenerate(ctx, *outPath); err != nil {
			fmt.Fprintf(os.Stderr, "Error generating decoder: %v\n", err)
			os.Exit(1)
		}
	case "tree":
		if err := runTree(ctx, cfg, *interactive, *gui, *sizeTree); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printHelp()
		os.Exit(1)
	}
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Load()
	}
	return config.LoadFrom(path)
}

func buildContext(specPath string, cfg *config.Config) (*forge.Context, error) {
	f, err := os.Open(specPath) // #nosec G304 -- user-supplied spec path, CLI tool
	if err != nil {
		return nil, fmt.Errorf("opening spec file: %w", err)
	}
	defer f.Close()

	doc, err := yamlspec.Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parsing spec: %w", err)
	}

	input, err := doc.ToInput()
	if err != nil {
		return nil, fmt.Errorf("converting spec: %w", err)
	}

	visitor := visitorFor(cfg.Generation.OutputFormat)
	driver := forge.NewDriver(visitor)

	return driver.Build(input, cfg.Generation.DecoderWidth)
}

func visitorFor(format string) transpile.Visitor {
	if format == "python" {
		return transpile.PythonVisitor{}
	}
	return transpile.GoVisitor{}
}

// stdoutPrinter adapts an *os.File to pattern.Printer/forge.Printer.
type stdoutPrinter struct{ f *os.File }

func (p stdoutPrinter) Print(line string) { fmt.Fprintln(p.f, line) }

func runGenerate(ctx *forge.Context, outPath string) error {
	out := os.Stdout
	if outPath != "" {
		f, err := os.Create(outPath) // #nosec G304 -- user-supplied output path, CLI tool
		if err != nil {
			return fmt.Errorf("creating output file: %w", err)
		}
		defer f.Close()
		out = f
	}
	p := stdoutPrinter{f: out}

	uids := make([]pattern.UID, 0, len(ctx.UIDToPattern))
	for uid := range ctx.UIDToPattern {
		uids = append(uids, uid)
	}
	sort.Slice(uids, func(i, j int) bool { return uids[i] < uids[j] })

	for _, uid := range uids {
		pat := ctx.UIDToPattern[uid]
		p.Print(fmt.Sprintf("// %s (%s)", ctx.Label(uid), pat))

		for _, op := range ctx.OpsRepo.PatToOps[pat] {
			args := make([]any, len(op.Args))
			for i, a := range op.Args {
				args[i] = a
			}
			node := &transpile.Node{
				Op:     "assign",
				Target: op.Dest,
				Expr:   &transpile.Node{Op: op.Op, Args: args},
			}
			rendered, err := ctx.Transpiler.Transpile(node, nil)
			if err != nil {
				return fmt.Errorf("transpiling pattern %s uid %d: %w", pat, uid, err)
			}
			p.Print(rendered)
		}

		p.Print("")
	}

	return nil
}

func runTree(ctx *forge.Context, cfg *config.Config, interactive, gui, useSizeTree bool) error {
	root := ctx.DecodeTree
	records := ctx.FlatDecodeTree
	if useSizeTree {
		if !ctx.HasSizeTree {
			return fmt.Errorf("no size tree: every pattern is the same width")
		}
		root = ctx.SizeTree
		records = ctx.FlatSizeTree
	}

	var opsByUID map[pattern.UID][]assoc.OpsDef
	if ctx.OpsRepo != nil {
		opsByUID = make(map[pattern.UID][]assoc.OpsDef, len(ctx.UIDToPattern))
		for uid, pat := range ctx.UIDToPattern {
			opsByUID[uid] = ctx.OpsRepo.PatToOps[pat]
		}
	}

	switch {
	case gui:
		v := treegui.NewViewer(records, ctx.Label, ctx.StructRepo, opsByUID)
		v.Run()
		return nil
	case interactive:
		b := treeview.NewBrowser(records, ctx.Label, ctx.StructRepo, opsByUID)
		return b.Run()
	default:
		p := stdoutPrinter{f: os.Stdout}
		pattern.PrintTree(p, root, ctx.Label)
		return nil
	}
}

func printHelp() {
	fmt.Printf(`decoder-forge %s

Usage: decoder-forge [options] generate <spec.yaml>
       decoder-forge [options] tree <spec.yaml>

Commands:
  generate <spec.yaml>   Transpile each pattern's operations and print them
  tree <spec.yaml>       Print (or browse) the decode tree

Options:
  -help              Show this help message
  -version           Show version information
  -verbose           Verbose output, including a context dump before generation
  -config FILE       Config file path (default: platform config directory)
  -width N           Decoder width in bits (default: from config)
  -format FMT        Output format: go, python (default: from config)
  -out FILE          Output file for 'generate' (default: stdout)

Tree options:
  -interactive       Browse the tree in a terminal UI
  -gui               Browse the tree in a desktop window
  -size              Show the size tree instead of the decode tree
`, Version)
}
