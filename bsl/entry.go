package bsl

import (
	"context"
	"io"
	"os/exec"

	"fr2x5x-go/errcode"
	"fr2x5x-go/x/logx"

	"github.com/google/shlex"
)

// EntryArgs splits an entry command line with shell quoting rules.
func EntryArgs(cmdline string) ([]string, error) {
	args, err := shlex.Split(cmdline)
	if err != nil {
		return nil, errcode.Wrap(errcode.InvalidParams, "bsl.EntryArgs", err)
	}
	if len(args) == 0 {
		return nil, errcode.New(errcode.InvalidParams, "bsl.EntryArgs", "empty entry command")
	}
	return args, nil
}

// RunEntry runs the external command that drives the TEST and RST lines
// into the loader entry sequence, for example a debugger or GPIO utility.
// Its output goes to out.
func RunEntry(ctx context.Context, cmdline string, out io.Writer) error {
	args, err := EntryArgs(cmdline)
	if err != nil {
		return err
	}
	logx.L().Info("bsl: entry command", "argv", args)
	cmd := exec.CommandContext(ctx, args[0], args[1:]...)
	cmd.Stdout, cmd.Stderr = out, out
	if err := cmd.Run(); err != nil {
		return errcode.Wrap(errcode.Error, "bsl.RunEntry", err)
	}
	return nil
}
