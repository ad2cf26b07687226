//go:build !(linux || darwin || dragonfly || freebsd || netbsd || openbsd)

package relay

import "runtime"

func platform() string {
	return runtime.GOOS + "-" + runtime.GOARCH
}
