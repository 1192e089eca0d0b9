package main

import (
	"fmt"
	"io"
	"os"

	"github.com/docopt/docopt-go"
	"github.com/mattn/go-isatty"
	"github.com/sirupsen/logrus"

	"yamlscript/interpreter-go/pkg/driver"
	"yamlscript/interpreter-go/pkg/interpreter"
	"yamlscript/interpreter-go/pkg/parser"
)

const cliToolVersion = "yamlscript 0.1.0"

const usage = `yamlscript

Usage:
  yamlscript [-v] [-o FORMAT] [--config PATH] [-e SCRIPT] [FILE...]
  yamlscript -h
  yamlscript --version

Arguments:
  FILE  Program to run: a local path or git+<url>#<path>[@<rev>].

Options:
  -e SCRIPT, --eval=SCRIPT      Evaluate the given YAML text.
  -o FORMAT, --output=FORMAT    Result format: text, yaml or json.
  --config=PATH                 Use this configuration file.
  -v, --verbose                 Trace evaluation on stderr.
  -h, --help                    Display this help.
  --version                     Print the yamlscript version.

Each FILE runs in a fresh top-level scope. Without FILE or -e, programs are
read from stdin, interactively when stdin is a terminal.
`

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

type options struct {
	files   []string
	script  string
	hasEval bool
	output  string
	config  string
	verbose bool
	help    bool
	version bool
}

func parseOptions(args []string) (*options, error) {
	if args == nil {
		// docopt reads os.Args when given nil.
		args = []string{}
	}
	p := &docopt.Parser{HelpHandler: docopt.NoHelpHandler, SkipHelpFlags: true}
	opts, err := p.ParseArgs(usage, args, "")
	if err != nil {
		return nil, err
	}
	o := &options{}
	o.help, _ = opts.Bool("--help")
	o.version, _ = opts.Bool("--version")
	if script, err := opts.String("--eval"); err == nil {
		o.script, o.hasEval = script, true
	}
	o.output, _ = opts.String("--output")
	o.config, _ = opts.String("--config")
	o.verbose, _ = opts.Bool("--verbose")
	o.files, _ = opts["FILE"].([]string)
	return o, nil
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	opts, err := parseOptions(args)
	switch {
	case err != nil:
		fmt.Fprint(stderr, usage)
		return 1
	case opts.help:
		fmt.Fprint(stdout, usage)
		return 0
	case opts.version:
		fmt.Fprintln(stdout, cliToolVersion)
		return 0
	}

	cfg, err := loadConfig(opts.config)
	if err != nil {
		fmt.Fprintf(stderr, "failed to load config: %v\n", err)
		return 1
	}
	if opts.verbose {
		cfg.Verbose = true
	}
	if opts.output != "" {
		cfg.Output = opts.output
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(stderr, "%v\n", err)
		return 1
	}

	r := &runner{
		interp: newInterpreter(cfg, stdout, stderr),
		loader: driver.NewLoader(cfg.CacheDir),
		format: cfg.Output,
		stdout: stdout,
		stderr: stderr,
	}

	if !opts.hasEval && len(opts.files) == 0 {
		if isTerminal(stdin) {
			return runREPL(r, cfg.HistoryFile)
		}
		src, err := io.ReadAll(stdin)
		if err != nil {
			fmt.Fprintf(stderr, "read stdin: %v\n", err)
			return 1
		}
		return exitCode(r.execute("<stdin>", src))
	}

	ok := true
	if opts.hasEval {
		ok = r.execute("<eval>", []byte(opts.script)) && ok
	}
	for _, ref := range opts.files {
		ok = r.executeSource(ref) && ok
	}
	return exitCode(ok)
}

func exitCode(ok bool) int {
	if ok {
		return 0
	}
	return 1
}

func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	return ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()))
}

// loadConfig honours an explicit path, else searches upward from the
// working directory.
func loadConfig(path string) (*driver.Config, error) {
	if path == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, err
		}
		if path, err = driver.FindConfig(wd); err != nil {
			return nil, err
		}
	}
	return driver.LoadConfig(path)
}

func newInterpreter(cfg *driver.Config, stdout, stderr io.Writer) *interpreter.Interpreter {
	logger := logrus.New()
	logger.SetOutput(stderr)
	logger.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	logger.SetLevel(logrus.WarnLevel)
	if cfg.Verbose {
		logger.SetLevel(logrus.DebugLevel)
	}

	host := interpreter.StandardHost(stdout)
	for _, name := range cfg.Host.Disabled {
		host.Remove(name)
	}
	return interpreter.New(interpreter.Options{
		Host:     host,
		Logger:   logger,
		MaxDepth: cfg.MaxDepth,
	})
}

type runner struct {
	interp *interpreter.Interpreter
	loader *driver.Loader
	format string
	stdout io.Writer
	stderr io.Writer
}

// executeSource loads and runs one FILE argument, reporting failures on
// stderr.
func (r *runner) executeSource(ref string) bool {
	src, err := driver.ParseSource(ref)
	if err != nil {
		fmt.Fprintf(r.stderr, "%v\n", err)
		return false
	}
	data, err := r.loader.Load(src)
	if err != nil {
		fmt.Fprintf(r.stderr, "%v\n", err)
		return false
	}
	return r.execute(src.String(), data)
}

// execute parses and evaluates src in a fresh top-level scope and prints
// the result.
func (r *runner) execute(name string, src []byte) bool {
	program, err := parser.Parse(src)
	if err != nil {
		fmt.Fprintf(r.stderr, "%s: %v\n", name, err)
		return false
	}
	result, err := r.interp.Run(program)
	if err != nil {
		fmt.Fprintf(r.stderr, "%s: %v\n", name, err)
		return false
	}
	out, err := driver.Encode(result, r.format)
	if err != nil {
		fmt.Fprintf(r.stderr, "%s: %v\n", name, err)
		return false
	}
	fmt.Fprintln(r.stdout, out)
	return true
}
