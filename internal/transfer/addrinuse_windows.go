package transfer

import (
	"errors"
	"syscall"
)

// WSAEADDRINUSE
const errnoAddrInUse = syscall.Errno(10048)

func isAddrInUse(err error) bool {
	return errors.Is(err, errnoAddrInUse) || errors.Is(err, syscall.EADDRINUSE)
}
