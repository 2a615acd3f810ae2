package main

import (
	"flag"
	"fmt"
	"os"
)

type args struct {
	dataDir string
	nodeUrl string
	verbose bool
	dryRun  bool
	command string
	rest    []string
}

func ParseArgs() (args, error) {
	flag.Usage = func() {
		fmt.Printf("Build, sign and submit token transfers and swaps.\n\n")
		fmt.Printf("Usage: %s [options] <command> [arguments]\n\n", os.Args[0])
		fmt.Printf("Commands:\n")
		for _, c := range commands {
			fmt.Printf("  %-10s %s\n", c.name, c.usage)
		}
		fmt.Printf("\nOptions:\n")
		flag.PrintDefaults()
	}
	dataDir := flag.String("data-dir", "data", "Directory holding config and wallet")
	nodeUrl := flag.String("node", "", "Node API URL, overrides the configured one")
	verbose := flag.Bool("v", false, "Log debug output")
	dryRun := flag.Bool("dry-run", false, "Check solutions with the node instead of submitting them")
	flag.Parse()

	if flag.NArg() == 0 {
		return args{}, fmt.Errorf("no command given, see -help")
	}

	return args{
		*dataDir,
		*nodeUrl,
		*verbose,
		*dryRun,
		flag.Arg(0),
		flag.Args()[1:],
	}, nil
}
