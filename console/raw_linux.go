//go:build linux

package console

import "golang.org/x/sys/unix"

// EnableRawMode switches the terminal on fd to unbuffered, unechoed input and
// returns a function that restores the previous settings.
func EnableRawMode(fd uintptr) (restore func() error, err error) {
	terminalSettings, err := unix.IoctlGetTermios(int(fd), unix.TCGETS)
	if err != nil {
		return nil, err
	}
	saved := *terminalSettings
	terminalSettings.Iflag &^= unix.BRKINT | unix.ICRNL | unix.INPCK | unix.ISTRIP | unix.IXON
	terminalSettings.Lflag &^= unix.ECHO | unix.ICANON | unix.IEXTEN | unix.ISIG
	terminalSettings.Cflag &^= unix.CSIZE | unix.PARENB
	terminalSettings.Cflag |= unix.CS8
	terminalSettings.Cc[unix.VMIN] = 1
	terminalSettings.Cc[unix.VTIME] = 0

	if err := unix.IoctlSetTermios(int(fd), unix.TCSETS, terminalSettings); err != nil {
		return nil, err
	}
	return func() error {
		return unix.IoctlSetTermios(int(fd), unix.TCSETS, &saved)
	}, nil
}
