//go:build unix

package abi

import "golang.org/x/sys/unix"

func goString(p *byte) string {
	return unix.BytePtrToString(p)
}
