package domain

// OwnershipChange describes how one item's owner differs between two
// snapshots. From is empty for items that appear only in the newer
// snapshot, To is empty for items that disappear from it.
type OwnershipChange struct {
	Item string `json:"item"`
	From string `json:"from"`
	To   string `json:"to"`
}

// DiffOwners lists items whose owner differs between before and after.
// Changes follow the owner order of after, then items missing from after
// in the owner order of before.
func DiffOwners(before, after *OwnerIndex) []OwnershipChange {
	var changes []OwnershipChange

	for _, owner := range after.order {
		for _, item := range after.stats[owner].Items {
			prev, ok := before.OwnerOf(item)
			if ok && prev == owner {
				continue
			}
			changes = append(changes, OwnershipChange{Item: item, From: prev, To: owner})
		}
	}

	for _, owner := range before.order {
		for _, item := range before.stats[owner].Items {
			if _, ok := after.OwnerOf(item); !ok {
				changes = append(changes, OwnershipChange{Item: item, From: owner})
			}
		}
	}

	return changes
}
