// Command qeeg decodes an EDF recording, runs the full analysis pipeline and
// writes the numerical results as CSV to stdout.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/Q-the-Q/EEG-Viewer/edf"
	"github.com/Q-the-Q/EEG-Viewer/logging"
	"github.com/Q-the-Q/EEG-Viewer/qeeg"
)

func main() {
	verbose := flag.Bool("v", false, "debug logging")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: qeeg [-v] <recording.edf>")
		os.Exit(2)
	}

	logger := logging.GetGlobalLogger()
	if *verbose {
		logger.SetLevel(logging.DebugLevel)
	}

	buf, err := os.ReadFile(flag.Arg(0))
	if err != nil {
		logger.Fatal(err, "reading recording")
	}

	recording, err := edf.Decode(buf)
	if err != nil {
		logger.Fatal(err, "decoding recording")
	}

	pipeline := qeeg.NewPipeline(nil)
	result, err := pipeline.Run(context.Background(), recording, func(fraction float64, stage string) {
		fmt.Fprintf(os.Stderr, "[%3.0f%%] %s\n", fraction*100, stage)
	})
	if err != nil {
		logger.Fatal(err, "running analysis")
	}

	if err := qeeg.WriteCSV(os.Stdout, result); err != nil {
		logger.Fatal(err, "writing results")
	}
}
