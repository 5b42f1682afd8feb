//go:build !linux

package console

import "errors"

func EnableRawMode(fd uintptr) (restore func() error, err error) {
	return nil, errors.New("raw terminal mode is only supported on linux")
}
