// Copyright 2021 The httpoll Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package transient

import (
	"crypto/tls"
	"crypto/x509"
	"errors"
	"io"
	"net"
	"net/url"
	"strings"

	"github.com/gogama/httpoll/transport"
)

// Code maps an error returned while performing an HTTP exchange to a
// transport error code and message. A nil error maps to transport.OK
// and an empty message.
func Code(err error) (int, string) {
	if err == nil {
		return transport.OK, ""
	}

	switch Categorize(err) {
	case Timeout:
		return transport.ErrOperationTimedOut, message(transport.ErrOperationTimedOut, err)
	case ConnRefused:
		return transport.ErrCouldntConnect, message(transport.ErrCouldntConnect, err)
	case ConnReset:
		return transport.ErrRecvError, message(transport.ErrRecvError, err)
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return transport.ErrCouldntResolveHost, "Could not resolve host: " + dnsErr.Name
	}

	if isTLS(err) {
		return transport.ErrSSLConnect, message(transport.ErrSSLConnect, err)
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) && opErr.Op == "dial" {
		return transport.ErrCouldntConnect, message(transport.ErrCouldntConnect, err)
	}

	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return transport.ErrGotNothing, message(transport.ErrGotNothing, err)
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Op == "parse" {
		return transport.ErrURLMalformat, message(transport.ErrURLMalformat, err)
	}

	s := err.Error()
	switch {
	case strings.Contains(s, "unsupported protocol scheme"):
		return transport.ErrUnsupportedProtocol, message(transport.ErrUnsupportedProtocol, err)
	case strings.Contains(s, "stopped after") && strings.Contains(s, "redirects"):
		return transport.ErrTooManyRedirects, message(transport.ErrTooManyRedirects, err)
	}

	return transport.ErrRecvError, message(transport.ErrRecvError, err)
}

func message(code int, err error) string {
	return transport.CodeText(code) + ": " + innermost(err).Error()
}

func innermost(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Err != nil {
		return urlErr.Err
	}
	return err
}

func isTLS(err error) bool {
	var recordErr tls.RecordHeaderError
	var verifyErr *tls.CertificateVerificationError
	var authorityErr x509.UnknownAuthorityError
	var hostnameErr x509.HostnameError
	var invalidErr x509.CertificateInvalidError
	return errors.As(err, &recordErr) ||
		errors.As(err, &verifyErr) ||
		errors.As(err, &authorityErr) ||
		errors.As(err, &hostnameErr) ||
		errors.As(err, &invalidErr)
}
