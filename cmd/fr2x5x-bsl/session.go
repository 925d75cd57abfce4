package main

import (
	"context"
	"os"

	"fr2x5x-go/bsl"
	"fr2x5x-go/x/logx"
)

// session is an open loader connection.
type session struct {
	prof   bsl.Profile
	port   bsl.Port
	client *bsl.Client
}

// open runs the entry command and opens the port at the profile's rate.
func open(ctx context.Context, p bsl.Profile) (*session, error) {
	if p.EntryCmd != "" {
		if err := bsl.RunEntry(ctx, p.EntryCmd, os.Stderr); err != nil {
			return nil, err
		}
	}
	port, err := bsl.OpenSerial(p.Serial())
	if err != nil {
		return nil, err
	}
	if err := port.Flush(); err != nil {
		port.Close()
		return nil, err
	}
	return &session{prof: p, port: port, client: bsl.NewClient(port)}, nil
}

func (s *session) Close() error { return s.port.Close() }

// unlock sends pw, or the profile password, or the erased password.
func (s *session) unlock(pw []byte) error {
	prof, err := s.prof.PasswordBytes()
	if err != nil {
		return err
	}
	switch {
	case prof != nil:
		pw = prof
	case pw == nil:
		pw = bsl.ErasedPassword()
	}
	return s.client.Password(pw)
}

// speedUp moves the link to the profile's fast rate, if it has one.
func (s *session) speedUp() error {
	fast := s.prof.FastBaud
	if fast == 0 || fast == s.prof.Baud {
		return nil
	}
	if err := s.client.ChangeBaud(fast); err != nil {
		return err
	}
	s.port.Close()
	cfg := s.prof.Serial()
	cfg.Baud = fast
	port, err := bsl.OpenSerial(cfg)
	if err != nil {
		return err
	}
	s.port, s.client = port, bsl.NewClient(port)
	logx.L().Info("bsl: link speed changed", "baud", fast)
	return nil
}
