package main

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"io/ioutil"
	"os"
	"path/filepath"

	"github.com/mattn/go-isatty"

	"neochain/compiler"
	"neochain/compiler/abi"
	"neochain/compiler/diag"
	"neochain/env"
	"neochain/errors"
	"neochain/log"
)

var (
	flagMeta = flag.String("meta", "", "contract metadata `file` (YAML)")
	flagOut  = flag.String("o", ".", "output `directory`")
	flagList = flag.Bool("list", false, "print a disassembly listing")

	logFile = env.String("CONTRACTC_LOG", "")
	noColor = env.Bool("CONTRACTC_NO_COLOR", false)
)

func main() {
	flag.Usage = func() {
		fmt.Fprintln(os.Stderr, "usage: contractc [-meta file.yaml] [-o outdir] [-list] file.ts")
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}
	if err := env.Parse(); err != nil {
		fmt.Fprintln(os.Stderr, "contractc:", err)
		os.Exit(2)
	}
	if *logFile != "" {
		f, err := os.OpenFile(*logFile, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0644)
		if err != nil {
			fmt.Fprintln(os.Stderr, "contractc:", err)
			os.Exit(2)
		}
		defer f.Close()
		log.SetOutput(f)
	}
	log.SetPrefix("app", "contractc")
	ctx := log.WithRunID(context.Background(), log.NewRunID())
	code := run(ctx, flag.Arg(0), os.Stdout, os.Stderr)
	if code != 0 {
		os.Exit(code)
	}
}

func run(ctx context.Context, file string, stdout, stderr io.Writer) int {
	src, err := ioutil.ReadFile(file)
	if err != nil {
		log.Error(ctx, err, "reading source")
		return 1
	}
	var opts compiler.Options
	if *flagMeta != "" {
		data, err := ioutil.ReadFile(*flagMeta)
		if err != nil {
			log.Error(ctx, err, "reading metadata")
			return 1
		}
		opts.Metadata, err = abi.ParseMetadata(data)
		if err != nil {
			log.Error(ctx, err)
			return 1
		}
	}

	res, err := compiler.Compile(ctx, file, src, opts)
	printDiagnostics(stderr, res.Diagnostics)
	if errors.Root(err) == compiler.ErrCompile {
		return 1
	} else if err != nil {
		log.Error(ctx, err)
		return 1
	}

	if err := write(res, file, *flagOut); err != nil {
		log.Error(ctx, err)
		return 1
	}
	if *flagList {
		listing, err := res.Listing()
		if err != nil {
			log.Error(ctx, err)
			return 1
		}
		io.WriteString(stdout, listing)
	}
	return 0
}

func write(res *compiler.Result, file, dir string) error {
	base := filepath.Join(dir, res.Name)
	err := ioutil.WriteFile(base+".avm", []byte(hex.EncodeToString(res.Script)), 0644)
	if err != nil {
		return errors.Wrap(err, "writing script")
	}
	if err := writeJSON(base+".manifest.json", res.Manifest); err != nil {
		return errors.Wrap(err, "writing manifest")
	}
	if err := writeJSON(base+".map.json", res.SourceMapFor(file)); err != nil {
		return errors.Wrap(err, "writing source map")
	}
	return nil
}

func writeJSON(name string, v interface{}) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return ioutil.WriteFile(name, append(b, '\n'), 0644)
}

const (
	colorRed    = "\x1b[31m"
	colorYellow = "\x1b[33m"
	colorReset  = "\x1b[0m"
)

func printDiagnostics(w io.Writer, diags []diag.Diagnostic) {
	color := false
	if f, ok := w.(*os.File); ok && !*noColor {
		color = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	for _, d := range diags {
		if !color {
			fmt.Fprintln(w, d)
			continue
		}
		c := colorRed
		if d.Severity == diag.Warning {
			c = colorYellow
		}
		fmt.Fprintf(w, "%s:%d:%d: %s%s%s %s: %s\n", d.File, d.Pos.Line, d.Pos.Col, c, d.Severity, colorReset, d.Code, d.Message)
	}
}
