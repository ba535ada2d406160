// usbtree shows the attached USB devices as a tree.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/Nicoretti/usb-info/cmd/usbtree/commands"
	"github.com/Nicoretti/usb-info/pkg/enumerate"
	"github.com/Nicoretti/usb-info/pkg/version"
)

const (
	exitSuccess      = 0
	exitCommandError = 1
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	// Without a subcommand, or with flags only, behave like "show".
	if len(args) == 0 || strings.HasPrefix(args[0], "-") && !isHelpOrVersion(args[0]) {
		return commands.RunShow(args, os.Stdout, os.Stderr)
	}

	cmd := args[0]
	args = args[1:]

	switch cmd {
	case "show":
		return commands.RunShow(args, os.Stdout, os.Stderr)
	case "ids":
		return commands.RunIDs(args, os.Stdout, os.Stderr)
	case "snapshot":
		return commands.RunSnapshot(args, os.Stdout, os.Stderr)
	case "explore":
		return commands.RunExplore(args, os.Stdout, os.Stderr)
	case "help", "-h", "--help":
		printUsage()
		return exitSuccess
	case "version", "-v", "--version":
		libusb := "disabled"
		if enumerate.LibusbSupported {
			libusb = "enabled"
		}
		fmt.Printf("usbtree version %s, libusb %s\n", version.Get(), libusb)
		return exitSuccess
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
		printUsage()
		return exitCommandError
	}
}

func isHelpOrVersion(arg string) bool {
	switch arg {
	case "-h", "--help", "-v", "--version":
		return true
	}
	return false
}

func printUsage() {
	fmt.Println(`usbtree - show attached USB devices as a tree

Usage:
  usbtree [command] [options]

Commands:
  show       Print the device tree (default)
  ids        List devices as "path  vid:pid  name"
  snapshot   Capture the current devices to a file
  explore    Browse the device tree interactively

Options:
  -h, --help     Show this help message
  -v, --version  Show version information

Exit codes:
  0  success (the tree may be empty after filtering)
  1  invalid arguments, device path, device ID or configuration
  2  the -subtree device was not found
  3  devices could not be enumerated

Examples:
  usbtree
  usbtree -subtree 1-3 -verbose
  usbtree ids -device 046d:c52b
  usbtree snapshot -o lab.usbsnap
  usbtree explore -snapshot lab.usbsnap

For command-specific help, run:
  usbtree <command> -h`)
}
