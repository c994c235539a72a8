package node

import (
	"bytes"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/nexwallet/launchpad/pkg/types"
)

// expandHome replaces a leading ~ with the user's home directory.
func expandHome(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}

// sortedOwners returns the alloc keys in byte order.
func sortedOwners(alloc map[types.Address]uint64) []types.Address {
	owners := make([]types.Address, 0, len(alloc))
	for a := range alloc {
		owners = append(owners, a)
	}
	sort.Slice(owners, func(i, j int) bool {
		return bytes.Compare(owners[i][:], owners[j][:]) < 0
	})
	return owners
}
