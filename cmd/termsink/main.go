// Command termsink drives terminal sinks through the frame loop.
package main

import (
	"fmt"
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/lixenwraith/termsink/terminal"
)

func main() {
	// Panic recovery: ensure terminal is reset even if a command crashes
	defer func() {
		if r := recover(); r != nil {
			terminal.EmergencyReset(os.Stdout)

			// Use \r\n in case raw mode survived the reset
			fmt.Fprintf(os.Stderr, "\r\n\x1b[31mTERMSINK CRASHED: %v\x1b[0m\r\n", r)
			fmt.Fprintf(os.Stderr, "Stack Trace:\r\n%s\r\n", debug.Stack())
			os.Exit(1)
		}
	}()

	opts := &options{}
	if err := execute(newRootCmd(opts), opts); err != nil {
		os.Exit(1)
	}
}

// execute runs root and closes the debug log on every path
// cobra skips post-run hooks when RunE fails
func execute(root *cobra.Command, opts *options) error {
	err := root.Execute()
	if opts.logFile != nil {
		opts.logFile.Close()
	}
	return err
}

// options holds persistent flags shared by every subcommand
type options struct {
	configPath string
	debug      bool
	logFile    *os.File
}

func newRootCmd(opts *options) *cobra.Command {
	root := &cobra.Command{
		Use:           "termsink",
		Short:         "Pluggable terminal rendering backends",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			opts.logFile = setupLogging(opts.debug)
		},
	}

	root.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "config file (default "+defaultConfigHint()+")")
	root.PersistentFlags().BoolVar(&opts.debug, "debug", false, "write logs to "+logDir+"/"+logFileName)

	root.AddCommand(
		newDemoCmd(opts),
		newHostCmd(opts),
		newClientCmd(opts),
		newWasmCmd(opts),
		newConfigCmd(opts),
	)
	return root
}
