package main

import (
	"encoding/hex"
	"fmt"
	"os"
	"strconv"

	"fr2x5x-go/bsl"
	"fr2x5x-go/errcode"

	"github.com/spf13/cobra"
)

var (
	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the loader version",
		Args:  cobra.NoArgs,
		RunE: withSession(func(s *session, args []string) error {
			v, err := s.client.Version()
			if err != nil {
				return err
			}
			fmt.Println(v)
			return nil
		}),
	}

	eraseCmd = &cobra.Command{
		Use:   "erase",
		Short: "Mass erase main memory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := profile(cmd)
			if err != nil {
				return err
			}
			s, err := open(cmd.Context(), p)
			if err != nil {
				return err
			}
			defer s.Close()
			return s.client.MassErase()
		},
	}

	readCmd = &cobra.Command{
		Use:   "read <addr> <len>",
		Short: "Dump memory",
		Args:  cobra.ExactArgs(2),
		RunE: withSession(func(s *session, args []string) error {
			addr, n, err := span(args)
			if err != nil {
				return err
			}
			d := hex.Dumper(os.Stdout)
			defer d.Close()
			for off := 0; off < n; off += bsl.MaxBlock {
				chunk := min(bsl.MaxBlock, n-off)
				b, err := s.client.ReadBlock(addr+uint32(off), chunk)
				if err != nil {
					return err
				}
				if _, err := d.Write(b); err != nil {
					return err
				}
			}
			return nil
		}),
	}

	crcCmd = &cobra.Command{
		Use:   "crc <addr> <len>",
		Short: "Print the loader's CRC of a memory range",
		Args:  cobra.ExactArgs(2),
		RunE: withSession(func(s *session, args []string) error {
			addr, n, err := span(args)
			if err != nil {
				return err
			}
			if n > 0xFFFF {
				return errcode.New(errcode.InvalidParams, "crc", "length above 0xFFFF")
			}
			crc, err := s.client.CRC(addr, uint16(n))
			if err != nil {
				return err
			}
			fmt.Printf("0x%04X\n", crc)
			return nil
		}),
	}
)

// withSession opens and unlocks the loader around f.
func withSession(f func(s *session, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		p, err := profile(cmd)
		if err != nil {
			return err
		}
		s, err := open(cmd.Context(), p)
		if err != nil {
			return err
		}
		defer s.Close()
		if err := s.unlock(nil); err != nil {
			return err
		}
		if err := s.speedUp(); err != nil {
			return err
		}
		return f(s, args)
	}
}

// span parses an address and length; both accept 0x prefixes.
func span(args []string) (uint32, int, error) {
	addr, err := strconv.ParseUint(args[0], 0, 20)
	if err != nil {
		return 0, 0, errcode.Wrap(errcode.InvalidParams, "address", err)
	}
	n, err := strconv.ParseUint(args[1], 0, 20)
	if err != nil || n == 0 {
		return 0, 0, errcode.New(errcode.InvalidParams, "length", "want 1 to 0xFFFFF")
	}
	if addr+n-1 > 0xFFFFF {
		return 0, 0, errcode.New(errcode.InvalidParams, "span", "range runs past 20-bit address space")
	}
	return uint32(addr), int(n), nil
}
