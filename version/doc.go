// Package version reports the build version of the deckurl binary.
//
//	go build -ldflags "-X github.com/kbukum/deckurl/version.Version=1.0.0" ./cmd/deckurl
package version
