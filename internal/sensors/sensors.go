// Package sensors reads the node's health indicators shown in the top row of
// the display. Every reader fails soft to Placeholder.
package sensors

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
)

// Placeholder is shown when a value cannot be read.
const Placeholder = "?"

const (
	DefaultThermalPath = "/sys/class/thermal/thermal_zone0/temp"
	DefaultW1Glob      = "/sys/bus/w1/devices/28*/w1_slave"
)

var w1Temp = regexp.MustCompile(`t=(-?\d+)`)

// Reader groups the sensor sources. The zero value is not usable; call New.
type Reader struct {
	ThermalPath string
	W1Glob      string

	loadAvg func() (float64, error)
	numCPU  int
}

// New returns a Reader using the standard sysfs locations.
func New() *Reader {
	return &Reader{
		ThermalPath: DefaultThermalPath,
		W1Glob:      DefaultW1Glob,
		loadAvg:     loadAverage,
		numCPU:      runtime.NumCPU(),
	}
}

// CPULoad returns the one-minute load average relative to the CPU count,
// formatted as a right-aligned percentage.
func (r *Reader) CPULoad() string {
	load, err := r.loadAvg()
	if err != nil || r.numCPU <= 0 {
		log.Debug().Err(err).Msg("load average unavailable")
		return Placeholder
	}
	return fmt.Sprintf("%2d%%", int(load/float64(r.numCPU)*100))
}

// SoCTemp returns the thermal zone temperature in whole degrees Celsius.
func (r *Reader) SoCTemp() string {
	data, err := os.ReadFile(r.ThermalPath)
	if err != nil {
		return Placeholder
	}
	milli, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return Placeholder
	}
	return strconv.Itoa(milli / 1000)
}

// ExternalTemp returns the temperature of the first DS18B20 1-Wire probe.
func (r *Reader) ExternalTemp() string {
	matches, err := filepath.Glob(r.W1Glob)
	if err != nil || len(matches) == 0 {
		return Placeholder
	}
	data, err := os.ReadFile(matches[0])
	if err != nil {
		log.Debug().Err(err).Str("path", matches[0]).Msg("1-wire read failed")
		return Placeholder
	}
	m := w1Temp.FindSubmatch(data)
	if m == nil {
		return Placeholder
	}
	milli, err := strconv.Atoi(string(m[1]))
	if err != nil {
		return Placeholder
	}
	return strconv.Itoa(int(float64(milli) / 1000))
}
