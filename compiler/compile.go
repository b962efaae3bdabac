// Package compiler turns a contract source file into a deployable
// script, its manifest and a source map.
//
// Compile runs the pipeline parse, check, plan and generate. Every
// stage reports problems to one diagnostic sink; generation runs
// whenever a contract class was found, so one run reports everything.
package compiler

import (
	"context"
	"time"

	"neochain/compiler/abi"
	"neochain/compiler/codegen"
	"neochain/compiler/diag"
	"neochain/compiler/frontend"
	"neochain/compiler/parser"
	"neochain/compiler/sb"
	"neochain/compiler/transpile"
	"neochain/errors"
	"neochain/log"
)

// ErrCompile is returned when the source has errors. The diagnostics
// are in the Result.
var ErrCompile = errors.New("compilation failed")

// Options configure one compilation.
type Options struct {
	// Metadata describes the contract in its manifest and may switch
	// contract properties on.
	Metadata *abi.Metadata
}

// Result is the output of a compilation. Script, Manifest and
// SourceMap are set only when there were no errors.
type Result struct {
	Name        string
	Script      []byte
	Manifest    *abi.Manifest
	SourceMap   []sb.Mapping
	Diagnostics []diag.Diagnostic
}

// Compile compiles the contract in src, read from the file called
// file.
func Compile(ctx context.Context, file string, src []byte, opts Options) (*Result, error) {
	if log.RunID(ctx) == log.RunID(context.Background()) {
		ctx = log.WithRunID(ctx, log.NewRunID())
	}
	start := time.Now()

	sink := diag.NewSink(file)
	res := &Result{}
	defer func() { res.Diagnostics = sink.Diagnostics() }()

	f, err := parser.Parse(file, src)
	if err != nil {
		var perr *parser.Error
		if !errors.As(err, &perr) {
			return res, errors.Wrapf(err, "parsing %s", file)
		}
		sink.ReportAt(perr.Pos, diag.Error, diag.SyntaxError, perr.Msg)
		return res, failed(ctx, file, sink)
	}

	info := frontend.Check(f, sink)
	plan := transpile.Build(info, f, sink)
	if opts.Metadata != nil {
		plan.Override(opts.Metadata.Properties)
	}
	if plan.Contract == nil {
		return res, failed(ctx, file, sink)
	}

	// Generation runs even after errors so that its diagnostics are
	// reported too; its output is kept only for a clean source.
	prog, err := codegen.Compile(info, f, plan, sink)
	if sink.HasErrors() {
		return res, failed(ctx, file, sink)
	}
	if err != nil {
		return res, errors.Wrapf(err, "generating %s", file)
	}

	res.Name = plan.Contract.Name
	res.Script = prog.Script
	res.SourceMap = prog.SourceMap
	res.Manifest = abi.NewManifest(res.Name, prog.Script, opts.Metadata, plan.Functions(), plan.ABIEvents(), plan.Properties)
	log.Write(ctx,
		"file", file,
		"contract", res.Manifest.Name,
		"hash", res.Manifest.Hash,
		"bytes", len(prog.Script),
		"functions", len(res.Manifest.ABI.Functions),
		"duration", time.Since(start),
	)
	return res, nil
}

func failed(ctx context.Context, file string, sink *diag.Sink) error {
	n := sink.ErrorCount()
	log.Write(ctx, "file", file, "errors", n)
	return errors.WithDetailf(ErrCompile, "%d error(s) in %s", n, file)
}
