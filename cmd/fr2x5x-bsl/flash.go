package main

import (
	"fmt"
	"os"

	"fr2x5x-go/bsl"
	"fr2x5x-go/errcode"
	"fr2x5x-go/x/logx"

	"github.com/spf13/cobra"
)

var (
	flashOpts = struct {
		noErase  bool
		fast     bool
		noVerify bool
		run      bool
	}{}

	flashCmd = &cobra.Command{
		Use:   "flash <image.hex>",
		Short: "Write an Intel HEX image",
		Args:  cobra.ExactArgs(1),
		RunE:  runFlash,
	}
)

func init() {
	f := flashCmd.Flags()
	f.BoolVar(&flashOpts.noErase, "no-erase", false, "skip the mass erase")
	f.BoolVar(&flashOpts.fast, "fast", false, "write blocks without waiting for status")
	f.BoolVar(&flashOpts.noVerify, "no-verify", false, "skip the CRC check of each segment")
	f.BoolVar(&flashOpts.run, "run", false, "start the image once written")
}

func runFlash(cmd *cobra.Command, args []string) error {
	p, err := profile(cmd)
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	if flags.Changed("no-erase") {
		p.MassErase = !flashOpts.noErase
	}
	if flags.Changed("fast") {
		p.Fast = flashOpts.fast
	}
	if flags.Changed("no-verify") {
		p.Verify = !flashOpts.noVerify
	}
	if flags.Changed("run") {
		p.Run = flashOpts.run
	}

	f, err := os.Open(args[0])
	if err != nil {
		return err
	}
	img, err := bsl.LoadHex(f)
	f.Close()
	if err != nil {
		return err
	}
	logx.L().Info("bsl: image loaded", "file", args[0], "segments", len(img.Segments), "bytes", img.Size())

	ctx := cmd.Context()
	s, err := open(ctx, p)
	if err != nil {
		return err
	}
	defer s.Close()

	if p.MassErase {
		// The erase itself needs no password; the erased part then has
		// the all-0xFF one.
		if err := s.client.MassErase(); err != nil {
			return err
		}
		if err := s.client.Password(bsl.ErasedPassword()); err != nil {
			return err
		}
	} else if err := s.unlock(img.Password()); err != nil {
		return err
	}
	if err := s.speedUp(); err != nil {
		return err
	}

	opts := bsl.ProgramOptions{
		Fast:   p.Fast,
		Verify: p.Verify,
	}
	opts.Progress = func(done, total int) {
		fmt.Fprintf(os.Stderr, "\rwritten %d/%d bytes", done, total)
		if done == total {
			fmt.Fprintln(os.Stderr)
		}
	}
	if err := s.client.Program(ctx, img, opts); err != nil {
		return err
	}

	if p.Run {
		pc, ok := img.ResetVector()
		if !ok {
			return errcode.New(errcode.InvalidParams, "flash", "image has no reset vector")
		}
		logx.L().Info("bsl: starting image", "pc", pc)
		return s.client.LoadPC(pc)
	}
	return nil
}
