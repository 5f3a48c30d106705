//go:build !linux

package sensors

import "errors"

func loadAverage() (float64, error) {
	return 0, errors.New("load average is only available on linux")
}
