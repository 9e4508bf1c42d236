//go:build linux

package scanner

import (
	"os"
	"syscall"
	"time"
)

func fileStat(info os.FileInfo) (accessed *time.Time, dev, ino uint64) {
	st, ok := info.Sys().(*syscall.Stat_t)
	if !ok || st == nil {
		return nil, 0, 0
	}
	t := time.Unix(int64(st.Atim.Sec), int64(st.Atim.Nsec))
	return &t, uint64(st.Dev), uint64(st.Ino)
}
