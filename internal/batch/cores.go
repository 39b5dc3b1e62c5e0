package batch

import (
	"runtime"
	"sync"

	"github.com/shirou/gopsutil/v3/cpu"
)

var (
	coresOnce sync.Once
	cores     int
)

// PhysicalCores возвращает число физических ядер; если платформа его не сообщает,
// используется число логических CPU
func PhysicalCores() int {
	coresOnce.Do(func() {
		n, err := cpu.Counts(false)
		if err != nil || n < 1 {
			n = runtime.NumCPU()
		}
		cores = n
	})
	return cores
}
