package cmd

import (
	"errors"
	"net"
	"syscall"

	"github.com/iksnae/pephub-client/internal"
)

const connectionFailedMessage = "Failed to connect to server. Try later."

// ReportError prints err as one user-facing line. Existing local files are a
// warning; unreachable servers get a fixed message; everything else is an error.
func ReportError(p *internal.Printer, err error) {
	if err == nil {
		return
	}
	switch {
	case internal.IsKind(err, internal.KindPEPAlreadyExists):
		p.Warning(err.Error())
	case isConnectionError(err):
		internal.LogDebug("connection error: %v", err)
		p.Error(connectionFailedMessage)
	default:
		p.Error(err.Error())
	}
}

func isConnectionError(err error) bool {
	if internal.IsTimeout(err) {
		return false
	}
	if errors.Is(err, syscall.ECONNREFUSED) || errors.Is(err, syscall.ECONNRESET) {
		return true
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return true
	}
	var opErr *net.OpError
	return errors.As(err, &opErr) && opErr.Op == "dial"
}
