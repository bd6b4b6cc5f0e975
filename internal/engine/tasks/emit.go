// Package tasks turns a build configuration into the two native build tasks and their graph.
package tasks

import (
	"path"

	"go.trai.ch/rtcdeps/internal/core/domain"
)

var tlsLibraries = []string{"libssl.a", "libcrypto.a"}

var transportLibraries = []string{
	"libdatachannel-static.a",
	"deps/libjuice/libjuice-static.a",
	"deps/libsrtp/libsrtp2.a",
	"deps/usrsctp/usrsctplib/libusrsctp.a",
}

// EmitTLS declares the TLS archives: ssl first, then crypto.
func EmitTLS(target domain.BuildTarget) []string {
	return below(target.BuildDir(), tlsLibraries)
}

// EmitTransport declares the transport archive and the three vendored archives it links with.
func EmitTransport(target domain.BuildTarget) []string {
	return below(target.BuildDir(), transportLibraries)
}

func below(dir string, names []string) []string {
	out := make([]string, len(names))
	for i, name := range names {
		out[i] = path.Join(dir, name)
	}
	return out
}
