// txtacheck is a command-line driver for the checker: it type-checks one or
// more source files and prints diagnostics to stderr, colorized when stderr
// is a terminal, and can drop into a REPL prompt afterwards. The REPL reads
// lines and keeps them in its history but does not parse, check or evaluate
// them.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/kr/pretty"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"github.com/peterh/liner"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
	"gopkg.in/yaml.v3"

	txtacheck "github.com/txta-lang/txtacheck"
	"github.com/txta-lang/txtacheck/ast"
	"github.com/txta-lang/txtacheck/source"
)

type config struct {
	Markup  bool   `yaml:"markup"`
	LogFile string `yaml:"logFile"`
	Quiet   bool   `yaml:"quiet"`
}

func loadConfig(path string) config {
	cfg := config{}
	if path == "" {
		return cfg
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		fmt.Fprintf(os.Stderr, "txtacheck: ignoring malformed config %s: %v\n", path, err)
	}
	return cfg
}

func newLogger(cfg config) *zap.Logger {
	if cfg.LogFile == "" {
		l, _ := zap.NewDevelopment()
		return l
	}
	w := zapcore.AddSync(&lumberjack.Logger{
		Filename:   cfg.LogFile,
		MaxSize:    10,
		MaxBackups: 3,
		MaxAge:     28,
	})
	enc := zap.NewProductionEncoderConfig()
	core := zapcore.NewCore(zapcore.NewJSONEncoder(enc), w, zap.InfoLevel)
	return zap.New(core)
}

func main() {
	var configPath string
	var markup bool
	var repl bool
	var dumpAST bool
	flag.StringVar(&configPath, "config", "", "path to a YAML config file")
	flag.BoolVar(&markup, "markup", false, "parse input as the XML markup dialect")
	flag.BoolVar(&repl, "repl", false, "start a property-query REPL after checking")
	flag.BoolVar(&dumpAST, "dump-ast", false, "print the built system to stderr before checking diagnostics")
	flag.Parse()

	cfg := loadConfig(configPath)
	if markup {
		cfg.Markup = true
	}
	logger := newLogger(cfg)
	defer logger.Sync()

	files := flag.Args()
	if len(files) == 0 {
		fmt.Fprintln(os.Stderr, "usage: txtacheck [-config file] [-markup] [-repl] file...")
		os.Exit(2)
	}

	list, err := source.Concat(files, nil)
	if err != nil {
		logger.Fatal("reading input", zap.Error(err))
	}

	var sys *ast.System
	var ok bool
	if cfg.Markup {
		sys, ok = txtacheck.CheckMarkupFile(files, list)
	} else {
		sys, ok = txtacheck.CheckFile(files, list)
	}

	out := colorable.NewColorableStderr()
	isTTY := isatty.IsTerminal(os.Stderr.Fd())
	if dumpAST && sys != nil {
		fmt.Fprintf(out, "%# v\n", pretty.Formatter(sys))
	}
	printDiagnostics(out, list.Diagnostics(), isTTY)

	logger.Info("check complete", zap.Bool("ok", ok), zap.Int("files", len(files)))

	if repl {
		runREPL(sys)
	}

	if !ok {
		os.Exit(1)
	}
}

func printDiagnostics(out io.Writer, diags source.Diagnostics, color bool) {
	for _, d := range diags {
		prefix := "error"
		code := "\x1b[31m"
		if d.Warning {
			prefix = "warning"
			code = "\x1b[33m"
		}
		if color {
			fmt.Fprintf(out, "%s%s:\x1b[0m %s\n", code, prefix, d.String())
		} else {
			fmt.Fprintf(out, "%s: %s\n", prefix, d.String())
		}
	}
}

// runREPL is a minimal interactive loop: it prompts for property queries,
// records each line in the history and echoes it back. Queries are not
// parsed, checked or evaluated against the checked system.
func runREPL(sys *ast.System) {
	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)

	fmt.Println("txtacheck REPL — enter a property query, or Ctrl-D to quit")
	for {
		text, err := line.Prompt("txta> ")
		if err != nil {
			break
		}
		line.AppendHistory(text)
		if sys == nil {
			fmt.Println("no checked system available")
			continue
		}
		fmt.Printf("(query evaluation against the checked system is not wired up in this build: %q)\n", text)
	}
}
