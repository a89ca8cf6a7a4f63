// Package security holds the TLS settings for outgoing connections, used by
// the crawler to reach sites signed by a private CA or requiring client
// certificates.
//
//	cfg := security.TLSConfig{CAFile: "/etc/contao/ca.pem"}
//	transport, err := cfg.Transport()
package security
