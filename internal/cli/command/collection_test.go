package command

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/yndnr/nftsnap/internal/core/domain"
)

func TestCollectionInfo(t *testing.T) {
	h := newHarness(t)

	stdout, _, err := h.run("--collection", h.collectionAddr(), "-o", "json", "collection", "info")
	if err != nil {
		t.Fatalf("collection info error = %v", err)
	}

	var info domain.NFTCollectionInfo
	if err := json.Unmarshal([]byte(stdout), &info); err != nil {
		t.Fatalf("decode: %v\n%s", err, stdout)
	}
	want := domain.NFTCollectionInfo{
		Address:   h.collectionAddr(),
		ItemCount: 3,
		Content:   "https://example.com/collection.json",
		Owner:     mustFormat(admin),
		Royalty:   domain.Royalty{Numerator: 5, Denominator: 100, Destination: mustFormat(admin)},
	}
	if info != want {
		t.Errorf("info = %+v\nwant %+v", info, want)
	}
}

func TestCollectionInfo_Table(t *testing.T) {
	h := newHarness(t)

	stdout, _, err := h.run("--collection", h.collectionAddr(), "collection", "info")
	if err != nil {
		t.Fatalf("collection info error = %v", err)
	}
	for _, want := range []string{"itemCount", "royalty.numerator", "https://example.com/collection.json"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("table output missing %q:\n%s", want, stdout)
		}
	}
}

func TestCollectionRoyalty_ReadFails(t *testing.T) {
	h := newHarness(t)
	h.net.Fail(h.collection.Address, "royalty_params", errors.New("exit code 11"))

	_, _, err := h.run("--collection", h.collectionAddr(), "collection", "royalty")
	if !errors.Is(err, domain.ErrCollectionRead) {
		t.Fatalf("error = %v, want ErrCollectionRead", err)
	}
}

func TestCollectionAddress(t *testing.T) {
	h := newHarness(t)

	stdout, _, err := h.run("--collection", h.collectionAddr(), "-o", "json", "collection", "address", "--index", "2")
	if err != nil {
		t.Fatalf("collection address error = %v", err)
	}
	var got itemAddress
	if err := json.Unmarshal([]byte(stdout), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Index != 2 || got.Address != mustFormat(h.collection.Items[2].Address) {
		t.Errorf("address = %+v", got)
	}

	_, _, err = h.run("--collection", h.collectionAddr(), "collection", "address", "--index", "9")
	if !errors.Is(err, domain.ErrItemAddress) {
		t.Errorf("out of range index: error = %v, want ErrItemAddress", err)
	}
}

func TestItemData(t *testing.T) {
	h := newHarness(t)
	item := mustFormat(h.collection.Items[0].Address)

	stdout, _, err := h.run("-o", "json", "item", "data", item)
	if err != nil {
		t.Fatalf("item data error = %v", err)
	}
	var got itemView
	if err := json.Unmarshal([]byte(stdout), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := itemView{
		Address:    item,
		Init:       true,
		Index:      "0",
		Collection: h.collectionAddr(),
		Owner:      mustFormat(ownerA),
		Content:    "0.json",
	}
	if got != want {
		t.Errorf("item = %+v\nwant %+v", got, want)
	}
}

func TestItemData_Errors(t *testing.T) {
	h := newHarness(t)

	if _, _, err := h.run("item", "data"); !errors.Is(err, domain.ErrInvalidArgument) {
		t.Errorf("no address: error = %v", err)
	}
	if _, _, err := h.run("item", "data", "garbage"); !errors.Is(err, domain.ErrInvalidAddress) {
		t.Errorf("bad address: error = %v", err)
	}

	undeployed := mustFormat(h.collection.Items[1].Address)
	if _, _, err := h.run("item", "data", undeployed); !errors.Is(err, domain.ErrGetMethod) {
		t.Errorf("undeployed item: error = %v, want ErrGetMethod", err)
	}
}
