//go:build !cgo || !(linux || darwin || freebsd)

package plugin

import (
	"fmt"

	"github.com/4inzler/Parallax-engine/internal/plugin/abi"
)

// lookupGoFactory reports no factory: Go plugins need cgo on a unix host.
func lookupGoFactory(*abi.Library) (Factory, error) {
	return nil, fmt.Errorf("%s: %w", FactorySymbol, abi.ErrSymbolNotFound)
}
