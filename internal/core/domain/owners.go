package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// NFTOwnerStat aggregates the items held by one owner.
// Count always equals len(Items).
type NFTOwnerStat struct {
	Count int      `json:"count"`
	Items []string `json:"items"`
}

// OwnerIndex maps owner addresses to their stats, preserving the order in
// which owners were first seen. The zero value is ready to use.
//
// OwnerIndex is not safe for concurrent use.
type OwnerIndex struct {
	order []string
	stats map[string]*NFTOwnerStat
	items map[string]string // item -> owner
}

// NewOwnerIndex creates an empty owner index.
func NewOwnerIndex() OwnerIndex {
	return OwnerIndex{
		stats: make(map[string]*NFTOwnerStat),
		items: make(map[string]string),
	}
}

// Add records item as held by owner. It returns false if the item is
// already recorded, in which case the index is left unchanged.
func (o *OwnerIndex) Add(owner, item string) bool {
	if o.stats == nil {
		o.stats = make(map[string]*NFTOwnerStat)
		o.items = make(map[string]string)
	}
	if _, dup := o.items[item]; dup {
		return false
	}

	stat, ok := o.stats[owner]
	if !ok {
		stat = &NFTOwnerStat{Items: []string{}}
		o.stats[owner] = stat
		o.order = append(o.order, owner)
	}
	stat.Items = append(stat.Items, item)
	stat.Count = len(stat.Items)
	o.items[item] = owner
	return true
}

// Get returns a copy of the stats for owner.
func (o *OwnerIndex) Get(owner string) (NFTOwnerStat, bool) {
	stat, ok := o.stats[owner]
	if !ok {
		return NFTOwnerStat{}, false
	}
	items := make([]string, len(stat.Items))
	copy(items, stat.Items)
	return NFTOwnerStat{Count: stat.Count, Items: items}, true
}

// OwnerOf returns the owner recorded for item.
func (o *OwnerIndex) OwnerOf(item string) (string, bool) {
	owner, ok := o.items[item]
	return owner, ok
}

// Owners returns owner addresses in first-seen order.
func (o *OwnerIndex) Owners() []string {
	out := make([]string, len(o.order))
	copy(out, o.order)
	return out
}

// Len returns the number of distinct owners.
func (o *OwnerIndex) Len() int {
	return len(o.order)
}

// ItemCount returns the total number of recorded items.
func (o *OwnerIndex) ItemCount() int {
	return len(o.items)
}

// Clone returns a deep copy of the index.
func (o *OwnerIndex) Clone() OwnerIndex {
	c := NewOwnerIndex()
	for _, owner := range o.order {
		for _, item := range o.stats[owner].Items {
			c.Add(owner, item)
		}
	}
	return c
}

// MarshalJSON encodes the index as a JSON object in first-seen owner order.
func (o OwnerIndex) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)

	buf.WriteByte('{')
	for i, owner := range o.order {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := enc.Encode(owner); err != nil {
			return nil, err
		}
		buf.WriteByte(':')
		if err := enc.Encode(o.stats[owner]); err != nil {
			return nil, err
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object, keeping the key order of the input.
func (o *OwnerIndex) UnmarshalJSON(data []byte) error {
	*o = NewOwnerIndex()
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("owners: expected object, got %v", tok)
	}

	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		owner, ok := tok.(string)
		if !ok {
			return fmt.Errorf("owners: expected string key, got %v", tok)
		}
		var stat NFTOwnerStat
		if err := dec.Decode(&stat); err != nil {
			return fmt.Errorf("owners: decode %s: %w", owner, err)
		}
		for _, item := range stat.Items {
			if !o.Add(owner, item) {
				return fmt.Errorf("owners: item %s listed twice", item)
			}
		}
	}

	_, err = dec.Token()
	return err
}
