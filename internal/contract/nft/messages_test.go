package nft

import (
	"math/big"
	"testing"

	"github.com/xssnick/tonutils-go/address"
	"github.com/xssnick/tonutils-go/tlb"
	"github.com/xssnick/tonutils-go/tvm/cell"

	"github.com/yndnr/nftsnap/internal/chain"
	"github.com/yndnr/nftsnap/internal/chain/chaintest"
)

func sameAddr(t *testing.T, field string, got, want *address.Address) {
	t.Helper()
	if chain.RawAddress(got) != chain.RawAddress(want) {
		t.Errorf("%s = %s, want %s", field, chain.RawAddress(got), chain.RawAddress(want))
	}
}

func TestMintBody(t *testing.T) {
	owner := chaintest.Addr(0xA1)
	body := MintBody(7, MintItem{
		Index:   42,
		Owner:   owner,
		Content: "42.json",
		Amount:  tlb.MustFromTON("0.02"),
	})

	s := body.BeginParse()
	if op := s.MustLoadUInt(32); op != 1 {
		t.Errorf("op = %d, want 1", op)
	}
	if q := s.MustLoadUInt(64); q != 7 {
		t.Errorf("query id = %d, want 7", q)
	}
	if idx := s.MustLoadUInt(64); idx != 42 {
		t.Errorf("item index = %d, want 42", idx)
	}
	if amt := s.MustLoadBigCoins(); amt.Cmp(big.NewInt(20_000_000)) != 0 {
		t.Errorf("amount = %s, want 20000000", amt)
	}
	if s.BitsLeft() != 0 || s.RefsNum() != 1 {
		t.Fatalf("trailing data: bits=%d refs=%d", s.BitsLeft(), s.RefsNum())
	}

	nftContent := s.MustLoadRef()
	sameAddr(t, "owner", nftContent.MustLoadAddr(), owner)
	content, err := nftContent.MustLoadRef().LoadStringSnake()
	if err != nil || content != "42.json" {
		t.Errorf("content = %q, %v; want 42.json", content, err)
	}
}

func TestBatchMintBody(t *testing.T) {
	items := []MintItem{
		{Index: 5, Owner: chaintest.Addr(0x05), Content: "5.json", Amount: tlb.MustFromTON("0.01")},
		{Index: 3, Owner: chaintest.Addr(0x03), Content: "3.json", Amount: tlb.MustFromTON("0.01")},
	}

	body, err := BatchMintBody(1, items)
	if err != nil {
		t.Fatalf("BatchMintBody() error: %v", err)
	}

	s := body.BeginParse()
	if op := s.MustLoadUInt(32); op != 2 {
		t.Errorf("op = %d, want 2", op)
	}
	if q := s.MustLoadUInt(64); q != 1 {
		t.Errorf("query id = %d, want 1", q)
	}

	dict, err := s.LoadDict(64)
	if err != nil {
		t.Fatalf("LoadDict() error: %v", err)
	}
	for _, it := range items {
		v, err := dict.LoadValue(cell.BeginCell().MustStoreUInt(it.Index, 64).EndCell())
		if err != nil {
			t.Fatalf("dict entry %d: %v", it.Index, err)
		}
		if amt := v.MustLoadBigCoins(); amt.Cmp(big.NewInt(10_000_000)) != 0 {
			t.Errorf("entry %d amount = %s", it.Index, amt)
		}
		sameAddr(t, "owner", v.MustLoadRef().MustLoadAddr(), it.Owner)
	}
}

func TestBatchMintBody_Invalid(t *testing.T) {
	if _, err := BatchMintBody(0, nil); err == nil {
		t.Error("empty batch should fail")
	}

	dup := []MintItem{
		{Index: 1, Owner: chaintest.Addr(1)},
		{Index: 1, Owner: chaintest.Addr(2)},
	}
	if _, err := BatchMintBody(0, dup); err == nil {
		t.Error("duplicate index should fail")
	}
}

func TestChangeOwnerBody(t *testing.T) {
	newOwner := chaintest.Addr(0x0B)
	s := ChangeOwnerBody(9, newOwner).BeginParse()

	if op := s.MustLoadUInt(32); op != 3 {
		t.Errorf("op = %d, want 3", op)
	}
	if q := s.MustLoadUInt(64); q != 9 {
		t.Errorf("query id = %d, want 9", q)
	}
	sameAddr(t, "new owner", s.MustLoadAddr(), newOwner)
	if s.BitsLeft() != 0 {
		t.Errorf("trailing bits = %d", s.BitsLeft())
	}
}

func TestChangeContentBody(t *testing.T) {
	dest := chaintest.Addr(0x0D)
	content := OffChainContent("https://example.com/c.json")
	s := ChangeContentBody(0, content, RoyaltyParams{Numerator: 3, Denominator: 50, Destination: dest}).BeginParse()

	if op := s.MustLoadUInt(32); op != 4 {
		t.Errorf("op = %d, want 4", op)
	}
	s.MustLoadUInt(64)

	if got := DecodeContent(s.MustLoadRef().MustToCell()); got != "https://example.com/c.json" {
		t.Errorf("content = %q", got)
	}

	royalty := s.MustLoadRef()
	if n := royalty.MustLoadUInt(16); n != 3 {
		t.Errorf("numerator = %d, want 3", n)
	}
	if d := royalty.MustLoadUInt(16); d != 50 {
		t.Errorf("denominator = %d, want 50", d)
	}
	sameAddr(t, "destination", royalty.MustLoadAddr(), dest)
}

func TestChangePriceBody(t *testing.T) {
	s := ChangePriceBody(tlb.MustFromTON("1.5"), 3).BeginParse()

	if op := s.MustLoadUInt(32); op != 4 {
		t.Errorf("op = %d, want 4", op)
	}
	if q := s.MustLoadUInt(64); q != 0 {
		t.Errorf("query id = %d, want 0", q)
	}
	if price := s.MustLoadBigCoins(); price.Cmp(big.NewInt(1_500_000_000)) != 0 {
		t.Errorf("price = %s, want 1500000000", price)
	}
	if n := s.MustLoadUInt(32); n != 3 {
		t.Errorf("count = %d, want 3", n)
	}
}

func TestTransferBody(t *testing.T) {
	to := chaintest.Addr(0x70)
	resp := chaintest.Addr(0x71)
	fwd := cell.BeginCell().MustStoreUInt(0xCAFE, 16).EndCell()

	tests := []struct {
		name       string
		responseTo *address.Address
		fwdBody    *cell.Cell
	}{
		{"full", resp, fwd},
		{"no response, no body", nil, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := TransferBody(to, tt.responseTo, tlb.MustFromTON("0.01"), tt.fwdBody).BeginParse()

			if op := s.MustLoadUInt(32); op != 0x5fcc3d14 {
				t.Errorf("op = %#x, want 0x5fcc3d14", op)
			}
			if q := s.MustLoadUInt(64); q != 0 {
				t.Errorf("query id = %d, want 0", q)
			}
			sameAddr(t, "to", s.MustLoadAddr(), to)

			respAddr := s.MustLoadAddr()
			if tt.responseTo == nil {
				if respAddr.Type() != address.NoneAddress {
					t.Errorf("response_destination type = %v, want addr_none", respAddr.Type())
				}
			} else {
				sameAddr(t, "response", respAddr, tt.responseTo)
			}

			if s.MustLoadBoolBit() {
				t.Error("custom payload bit set")
			}
			if amt := s.MustLoadBigCoins(); amt.Cmp(big.NewInt(10_000_000)) != 0 {
				t.Errorf("forward amount = %s", amt)
			}

			body := s.MustLoadMaybeRef()
			if tt.fwdBody == nil {
				if body != nil {
					t.Error("forward body should be absent")
				}
				return
			}
			if body == nil || body.MustLoadUInt(16) != 0xCAFE {
				t.Error("forward body mismatch")
			}
		})
	}
}
