package executor

import (
	"testing"
	"time"
)

func TestApplyTransportOptions(t *testing.T) {
	t.Run("empty string", func(t *testing.T) {
		opts := Options{}
		if err := ApplyTransportOptions(&opts, ""); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if opts.StrictHostKey || opts.KnownHostsPath != "" {
			t.Error("empty options should not change anything")
		}
	})

	t.Run("openssh style with -o prefixes", func(t *testing.T) {
		opts := Options{}
		extra := "-o StrictHostKeyChecking=yes -o UserKnownHostsFile=/tmp/kh -o ConnectTimeout=5"
		if err := ApplyTransportOptions(&opts, extra); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !opts.StrictHostKey {
			t.Error("expected strict host key checking")
		}
		if opts.KnownHostsPath != "/tmp/kh" {
			t.Errorf("unexpected known_hosts path: %s", opts.KnownHostsPath)
		}
		if opts.ConnectTimeout != 5*time.Second {
			t.Errorf("unexpected timeout: %v", opts.ConnectTimeout)
		}
	})

	t.Run("bare key=value tokens", func(t *testing.T) {
		opts := Options{}
		if err := ApplyTransportOptions(&opts, "Ciphers=aes128-ctr,aes256-ctr HostKeyAlgorithms=ssh-ed25519"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(opts.Ciphers) != 2 || opts.Ciphers[1] != "aes256-ctr" {
			t.Errorf("unexpected ciphers: %v", opts.Ciphers)
		}
		if len(opts.HostKeyAlgorithms) != 1 || opts.HostKeyAlgorithms[0] != "ssh-ed25519" {
			t.Errorf("unexpected algorithms: %v", opts.HostKeyAlgorithms)
		}
	})

	t.Run("strict disabled explicitly", func(t *testing.T) {
		opts := Options{StrictHostKey: true}
		if err := ApplyTransportOptions(&opts, "StrictHostKeyChecking=no"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if opts.StrictHostKey {
			t.Error("expected strict host key checking disabled")
		}
	})

	t.Run("unknown option ignored", func(t *testing.T) {
		opts := Options{}
		if err := ApplyTransportOptions(&opts, "ServerAliveInterval=30"); err != nil {
			t.Fatalf("unknown options should be ignored, got: %v", err)
		}
	})

	t.Run("malformed token", func(t *testing.T) {
		opts := Options{}
		if err := ApplyTransportOptions(&opts, "NotAnAssignment"); err == nil {
			t.Error("expected error for malformed token")
		}
	})

	t.Run("invalid timeout", func(t *testing.T) {
		opts := Options{}
		if err := ApplyTransportOptions(&opts, "ConnectTimeout=soon"); err == nil {
			t.Error("expected error for non-numeric timeout")
		}
	})
}

func TestMockExecutorTracking(t *testing.T) {
	mock := &MockExecutor{}

	out, err := mock.Run(t.Context(), "/system resource print")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(out) != "" {
		t.Errorf("default mock output should be empty, got %q", out)
	}
	if err := mock.Upload(t.Context(), "/tmp/a.pem", "a.pem"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mock.Close(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(mock.RunCalls) != 1 || mock.RunCalls[0] != "/system resource print" {
		t.Errorf("unexpected run calls: %v", mock.RunCalls)
	}
	if len(mock.UploadCalls) != 1 || mock.UploadCalls[0].RemoteName != "a.pem" {
		t.Errorf("unexpected upload calls: %v", mock.UploadCalls)
	}
	if mock.CloseCalls != 1 {
		t.Errorf("expected 1 close call, got %d", mock.CloseCalls)
	}
}
