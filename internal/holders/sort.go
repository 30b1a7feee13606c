// internal/holders/sort.go
package holders

import (
	"sort"

	"github.com/rovshanmuradov/tokenstats/internal/types"
)

type byBalance []types.HolderSummary

func (b byBalance) Len() int           { return len(b) }
func (b byBalance) Less(i, j int) bool { return b[i].Balance.GreaterThan(b[j].Balance) }
func (b byBalance) Swap(i, j int)      { b[i], b[j] = b[j], b[i] }

func sortByBalance(holders []types.HolderSummary) {
	sort.Stable(byBalance(holders))
}
