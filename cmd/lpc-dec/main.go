// lpc-dec decodes LPC bus cycles from a logic-analyzer capture and prints
// one line per reconstructed cycle.
package main

import (
	"flag"
	"fmt"
	"os"

	"lpcdec/capture"
	"lpcdec/common"
	"lpcdec/lpc"
	"lpcdec/printer"
)

func main() {
	input := flag.String("input", "", "Path to the capture file")
	verbose := flag.Bool("verbose", false, "Print the phase transitions encountered for each cycle")

	def := lpc.DefaultPinMap()
	clkBit := flag.Uint("clk-bit", uint(def.CLK), "Sample bit carrying LCLK")
	frameBit := flag.Uint("frame-bit", uint(def.Frame), "Sample bit carrying LFRAME#")
	lad0Bit := flag.Uint("lad0-bit", uint(def.LAD0), "Sample bit carrying LAD[0]")
	lad1Bit := flag.Uint("lad1-bit", uint(def.LAD1), "Sample bit carrying LAD[1]")
	lad2Bit := flag.Uint("lad2-bit", uint(def.LAD2), "Sample bit carrying LAD[2]")
	lad3Bit := flag.Uint("lad3-bit", uint(def.LAD3), "Sample bit carrying LAD[3]")

	flag.Parse()

	if *input == "" {
		fmt.Fprintln(os.Stderr, "lpc-dec: a capture file is required (-input)")
		flag.Usage()
		os.Exit(1)
	}

	pins := lpc.PinMap{
		CLK:   uint8(*clkBit),
		Frame: uint8(*frameBit),
		LAD0:  uint8(*lad0Bit),
		LAD1:  uint8(*lad1Bit),
		LAD2:  uint8(*lad2Bit),
		LAD3:  uint8(*lad3Bit),
	}

	if err := run(*input, pins, *verbose); err != nil {
		fmt.Fprintf(os.Stderr, "lpc-dec: %v\n", err)
		os.Exit(1)
	}
}

func run(path string, pins lpc.PinMap, verbose bool) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	log := common.NewStdLogger(common.SeverityWarning)

	opts := []lpc.DecoderOption{lpc.WithLogger(log)}
	if verbose {
		opts = append(opts, lpc.WithHistory())
	}
	decoder, err := lpc.NewDecoder(pins, opts...)
	if err != nil {
		return err
	}

	proc := lpc.NewProcessorWithLogger(decoder, log)
	return proc.Run(capture.NewReader(f), func(cyc *lpc.DecodedCycle) {
		fmt.Println(printer.FormatCycleLine(cyc))
	})
}
