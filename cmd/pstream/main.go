// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	_ "embed"
	"flag"
	"log"
	"os"

	"github.com/ezrec/pstream/channel"
	"github.com/ezrec/pstream/registry"
	"github.com/ezrec/pstream/script"
	"github.com/ezrec/pstream/stream"
)

//go:embed demo.star
var demo string

// options are the command line settings for one run.
type options struct {
	source  string
	workers int
	input   string
	output  string
	verbose bool
}

func main() {
	var opts options

	flag.StringVar(&opts.source, "s", "", ".star script to run (default: built-in demo)")
	flag.IntVar(&opts.workers, "n", 5, "Number of worker goroutines")
	flag.StringVar(&opts.input, "i", "-", "Input for stdin and stdio")
	flag.StringVar(&opts.output, "o", "-", "Output for stdout and stdio")
	flag.BoolVar(&opts.verbose, "v", false, "Verbose mode")

	flag.Parse()

	if flag.NArg() != 0 {
		log.Fatalf("%v: Unknown arguments: %v", os.Args[0], flag.Args())
	}

	if err := run(opts); err != nil {
		log.Fatal(err)
	}
}

// run executes one script. Files and streams opened here are closed
// before it returns, whatever the outcome.
func run(opts options) (err error) {
	registry.Default.Verbose = opts.verbose

	it := script.NewInterpreter()
	it.Workers = opts.workers
	it.Verbose = opts.verbose

	if opts.input != "-" || opts.output != "-" {
		in := channel.Stdin
		out := channel.Stdout

		if opts.input != "-" {
			var inf *os.File
			inf, err = os.Open(opts.input)
			if err != nil {
				return
			}
			defer inf.Close()
			in = channel.NewTape(inf, nil)
		}

		if opts.output != "-" {
			var ouf *os.File
			ouf, err = os.Create(opts.output)
			if err != nil {
				return
			}
			defer func() {
				if cerr := ouf.Close(); err == nil {
					err = cerr
				}
			}()
			out = channel.NewTape(nil, ouf)
		}

		r := stream.NewReader(in)
		defer r.Close()
		w := stream.NewWriter(out)
		defer w.Close()
		rw := stream.NewReadWriter(in, out)
		defer rw.Close()

		it.Streams["stdin"] = script.NewReaderStream("stdin", r)
		it.Streams["stdout"] = script.NewWriterStream("stdout", w)
		it.Streams["stdio"] = script.NewReadWriterStream("stdio", rw)
	}

	if len(opts.source) == 0 {
		err = it.Run("demo.star", demo)
	} else {
		err = it.Run(opts.source, nil)
	}

	return
}
