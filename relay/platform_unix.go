//go:build linux || darwin || dragonfly || freebsd || netbsd || openbsd

package relay

import (
	"runtime"
	"strings"

	"golang.org/x/sys/unix"
)

// platform describes the host as Sysname-Release-Machine, e.g. Linux-6.1.0-x86_64.
func platform() string {
	var u unix.Utsname
	if err := unix.Uname(&u); err != nil {
		return runtime.GOOS + "-" + runtime.GOARCH
	}
	return strings.Join([]string{
		unix.ByteSliceToString(u.Sysname[:]),
		unix.ByteSliceToString(u.Release[:]),
		unix.ByteSliceToString(u.Machine[:]),
	}, "-")
}
