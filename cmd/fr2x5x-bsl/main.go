// Command fr2x5x-bsl programs MSP430FR2x5x parts through the UART bootstrap
// loader.
//
//	fr2x5x-bsl --profile board.yaml flash firmware.hex
//	fr2x5x-bsl --port /dev/ttyUSB0 read 0x8000 64
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"fr2x5x-go/bsl"
	"fr2x5x-go/errcode"
	"fr2x5x-go/x/logx"

	"github.com/spf13/cobra"
	"golang.org/x/exp/slog"
)

var (
	rootOpts = struct {
		profile  string
		port     string
		baud     int
		entryCmd string
		password string
		verbose  bool
	}{}

	rootCmd = &cobra.Command{
		Use:           "fr2x5x-bsl",
		Short:         "Talk to the MSP430FR2x5x bootstrap loader",
		Long:          "Flash, read and check MSP430FR2x5x memory over the UART bootstrap loader.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelInfo
			if rootOpts.verbose {
				level = slog.LevelDebug
			}
			logx.Set(logx.New(os.Stderr, level))
		},
	}
)

func init() {
	f := rootCmd.PersistentFlags()
	f.StringVarP(&rootOpts.profile, "profile", "c", "", "board profile (YAML)")
	f.StringVarP(&rootOpts.port, "port", "p", "", "serial device")
	f.IntVarP(&rootOpts.baud, "baud", "b", 9600, "initial baud rate")
	f.StringVar(&rootOpts.entryCmd, "entry-cmd", "", "command that puts the target into the loader")
	f.StringVar(&rootOpts.password, "password", "", "loader password, 64 hex digits")
	f.BoolVarP(&rootOpts.verbose, "verbose", "v", false, "log every frame")

	rootCmd.AddCommand(flashCmd, versionCmd, eraseCmd, readCmd, crcCmd)
}

// profile reads --profile, if any, and lets explicit flags override it.
func profile(cmd *cobra.Command) (bsl.Profile, error) {
	p := bsl.DefaultProfile()
	if rootOpts.profile != "" {
		f, err := os.Open(rootOpts.profile)
		if err != nil {
			return p, err
		}
		defer f.Close()
		if p, err = bsl.LoadProfile(f); err != nil {
			return p, err
		}
	}
	flags := cmd.Flags()
	if flags.Changed("port") {
		p.Port = rootOpts.port
	}
	if flags.Changed("baud") {
		p.Baud = rootOpts.baud
	}
	if flags.Changed("entry-cmd") {
		p.EntryCmd = rootOpts.entryCmd
	}
	if flags.Changed("password") {
		p.Password = rootOpts.password
	}
	return p, p.Validate()
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "fr2x5x-bsl: %v (%s)\n", err, errcode.Of(err))
		stop()
		os.Exit(1)
	}
}
