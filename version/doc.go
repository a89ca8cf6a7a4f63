// Package version carries the build identity of the corebundle binary.
//
// Values are injected at link time:
//
//	go build -ldflags "-X github.com/kbukum/corebundle/version.Version=1.2.0 \
//	  -X github.com/kbukum/corebundle/version.GitCommit=$(git rev-parse --short HEAD)"
//
// Missing values fall back to the VCS stamp of the Go build info.
package version
