// Command congc-demo embeds the collector over a real mmap-backed
// arena and runs one of a handful of reachability scenarios end to
// end, printing the same stats shape as the C reference's main.c.
package main

import (
	"fmt"
	"os"
	"unsafe"

	"github.com/spf13/pflag"

	"github.com/leanheap/congc"
	"github.com/leanheap/congc/arena"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr *os.File) int {
	flags := pflag.NewFlagSet("congc-demo", pflag.ContinueOnError)
	flags.SetOutput(stderr)

	scenario := flags.StringP("scenario", "s", "hello",
		"scenario to run: hello, unreachable, leaf, root, resize")
	configPath := flags.StringP("config", "c", "", "path to a HuJSON tuning file")

	if err := flags.Parse(args); err != nil {
		return 2
	}

	tuning, err := loadTuning(*configPath)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}

	a, err := arena.New(uintptr(tuning.HeapBytes))
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	defer a.Close()

	c := congc.New(a, tuning.collectorConfig())
	var stackBottom int
	c.Init(unsafe.Pointer(&stackBottom))
	defer c.End()

	if err := runScenario(stdout, *scenario, c); err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	return 0
}
