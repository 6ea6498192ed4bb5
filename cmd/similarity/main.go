// Command similarity compares two 2D points files with identical schemas and
// reports per-marker mean positional differences. Useful as a quick QA pass
// over a trial pair, or to quantify how far autocorrection moved a track.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/xromm-lab/go-xma/analysis"
	"github.com/xromm-lab/go-xma/points"
)

func main() {
	flag.Parse()
	if flag.NArg() != 2 {
		fmt.Fprintln(os.Stderr, "usage: similarity <points-a.csv> <points-b.csv>")
		os.Exit(2)
	}

	if err := run(flag.Arg(0), flag.Arg(1)); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(pathA, pathB string) error {
	a, err := points.ReadFile(pathA)
	if err != nil {
		return err
	}
	b, err := points.ReadFile(pathB)
	if err != nil {
		return err
	}

	report, err := analysis.Compare(a, b)
	if err != nil {
		return err
	}

	for _, delta := range report.PerMarker {
		fmt.Printf("%s %s: mean dX %.4f, mean dY %.4f\n",
			delta.Marker, delta.Camera, delta.MeanDX, delta.MeanDY)
	}
	fmt.Printf("overall: mean %.4f, stddev %.4f\n", report.Mean, report.StdDev)
	return nil
}
