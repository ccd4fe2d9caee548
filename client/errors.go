package client

import "github.com/kbukum/studyhub/httpclient"

// Error is the canonical failure type carried by Result.
type Error = httpclient.Error

// Kind classifies an Error.
type Kind = httpclient.Kind

// Error kinds.
const (
	KindNetwork      = httpclient.KindNetwork
	KindTimeout      = httpclient.KindTimeout
	KindServer       = httpclient.KindServer
	KindParse        = httpclient.KindParse
	KindUnauthorized = httpclient.KindUnauthorized
	KindInvalid      = httpclient.KindInvalid
)

// IsTimeout checks if an error is a timeout error.
func IsTimeout(err error) bool { return httpclient.IsTimeout(err) }

// IsNetwork checks if an error is a network error.
func IsNetwork(err error) bool { return httpclient.IsNetwork(err) }

// IsServer checks if an error is a structured server error.
func IsServer(err error) bool { return httpclient.IsServer(err) }

// IsParse checks if an error is a parse error.
func IsParse(err error) bool { return httpclient.IsParse(err) }

// IsUnauthorized checks if an error is a 401 that survived refresh.
func IsUnauthorized(err error) bool { return httpclient.IsUnauthorized(err) }

// IsInvalid checks if an error was raised before any request was sent.
func IsInvalid(err error) bool { return httpclient.IsInvalid(err) }
