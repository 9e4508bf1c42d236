// Package types contains the records and result structures shared by the
// scanner, the analyzers and the burn score engine.
package types

import "time"

// BytesPerGB is the binary gigabyte used for every size normalization.
const BytesPerGB = 1 << 30

// BytesToGB converts a byte count to gigabytes. Negative counts are treated as zero.
func BytesToGB(b int64) float64 {
	if b <= 0 {
		return 0
	}
	return float64(b) / BytesPerGB
}

// KBToGB converts a kilobyte count (as reported by code hosting APIs) to gigabytes.
func KBToGB(kb int64) float64 {
	if kb <= 0 {
		return 0
	}
	return BytesToGB(kb * 1024)
}

// FileRecord describes one regular file seen during a traversal.
type FileRecord struct {
	Path         string     `json:"path"`
	Name         string     `json:"name"`
	Extension    string     `json:"extension"`
	Size         int64      `json:"size"`
	ModifiedTime time.Time  `json:"modified_time"`
	AccessedTime *time.Time `json:"accessed_time,omitempty"`
	IsHidden     bool       `json:"is_hidden"`
	Hash         string     `json:"hash,omitempty"`
	Bucket       string     `json:"bucket,omitempty"`
	Device       uint64     `json:"-"`
	Inode        uint64     `json:"-"` // 0 when the filesystem does not expose inodes
}

// SameFile reports whether f and o are hard links to one inode.
func (f FileRecord) SameFile(o FileRecord) bool {
	return f.Inode != 0 && f.Inode == o.Inode && f.Device == o.Device
}

// LastUsed returns the most recent of the access and modification times.
func (f FileRecord) LastUsed() time.Time {
	if f.AccessedTime != nil && f.AccessedTime.After(f.ModifiedTime) {
		return *f.AccessedTime
	}
	return f.ModifiedTime
}

// DuplicateGroup is a set of files sharing one content digest.
// Files[0] is the keeper; TotalSize is the wasted space of the remaining members.
type DuplicateGroup struct {
	Hash      string       `json:"hash"`
	TotalSize int64        `json:"total_size"`
	Files     []FileRecord `json:"files"`
}

// Keeper returns the member that is kept when the group is cleaned up.
func (g DuplicateGroup) Keeper() FileRecord {
	if len(g.Files) == 0 {
		return FileRecord{}
	}
	return g.Files[0]
}

// Reclaimable returns the members whose removal frees space: every member
// after the keeper that is not a hard link to an earlier member.
func (g DuplicateGroup) Reclaimable() []FileRecord {
	var out []FileRecord
	for i := 1; i < len(g.Files); i++ {
		if !g.linkedBefore(i) {
			out = append(out, g.Files[i])
		}
	}
	return out
}

// HardLinks returns the members after the keeper that share an inode with an
// earlier member. Removing them frees nothing.
func (g DuplicateGroup) HardLinks() []FileRecord {
	var out []FileRecord
	for i := 1; i < len(g.Files); i++ {
		if g.linkedBefore(i) {
			out = append(out, g.Files[i])
		}
	}
	return out
}

func (g DuplicateGroup) linkedBefore(i int) bool {
	for _, prev := range g.Files[:i] {
		if g.Files[i].SameFile(prev) {
			return true
		}
	}
	return false
}

// WastedSize computes member size × (member count − 1). Callers pass the
// keeper plus the reclaimable members, so hard links are not counted.
func WastedSize(memberSize int64, members int) int64 {
	if members < 2 || memberSize <= 0 {
		return 0
	}
	return memberSize * int64(members-1)
}
