package abi

import "golang.org/x/sys/windows"

func goString(p *byte) string {
	return windows.BytePtrToString(p)
}
