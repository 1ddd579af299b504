package executor

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/ksyq12/certpush/internal/logger"
)

// ApplyTransportOptions parses an OpenSSH-style extra options string
// ("-o Key=Value ...", the "-o" prefixes are optional) and applies the
// recognized options to opts. Unrecognized options are logged and ignored
// so that settings files written for the ssh binary keep working.
//
// Recognized options: StrictHostKeyChecking, UserKnownHostsFile,
// ConnectTimeout, HostKeyAlgorithms, Ciphers.
func ApplyTransportOptions(opts *Options, extra string) error {
	for _, tok := range strings.Fields(extra) {
		if tok == "-o" {
			continue
		}
		key, value, found := strings.Cut(tok, "=")
		if !found {
			return fmt.Errorf("malformed transport option %q (expected Key=Value)", tok)
		}

		switch strings.ToLower(key) {
		case "stricthostkeychecking":
			opts.StrictHostKey = strings.EqualFold(value, "yes")
		case "userknownhostsfile":
			opts.KnownHostsPath = value
		case "connecttimeout":
			secs, err := strconv.Atoi(value)
			if err != nil || secs <= 0 {
				return fmt.Errorf("invalid ConnectTimeout %q", value)
			}
			opts.ConnectTimeout = time.Duration(secs) * time.Second
		case "hostkeyalgorithms":
			opts.HostKeyAlgorithms = strings.Split(value, ",")
		case "ciphers":
			opts.Ciphers = strings.Split(value, ",")
		default:
			logger.Debug("Ignoring unsupported transport option %s", key)
		}
	}
	return nil
}
