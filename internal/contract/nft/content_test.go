package nft

import (
	"strings"
	"testing"

	"github.com/xssnick/tonutils-go/tvm/cell"
)

func TestDecodeContent(t *testing.T) {
	longURI := "https://example.com/" + strings.Repeat("a", 300) + ".json"

	tests := []struct {
		name string
		cell *cell.Cell
		want string
	}{
		{
			name: "off-chain",
			cell: cell.BeginCell().MustStoreUInt(0x01, 8).MustStoreSlice([]byte("https://example.com"), 19*8).EndCell(),
			want: "https://example.com",
		},
		{
			name: "off-chain snake",
			cell: OffChainContent(longURI),
			want: longURI,
		},
		{
			name: "on-chain",
			cell: cell.BeginCell().MustStoreUInt(0x00, 8).EndCell(),
			want: OnChainContentPlaceholder,
		},
		{
			name: "on-chain with dict",
			cell: cell.BeginCell().MustStoreUInt(0x00, 8).MustStoreDict(cell.NewDict(256)).EndCell(),
			want: OnChainContentPlaceholder,
		},
		{
			name: "semi-chain",
			cell: cell.BeginCell().MustStoreUInt(0x02, 8).EndCell(),
			want: "<unknown content layout 0x02>",
		},
		{
			name: "high tag",
			cell: cell.BeginCell().MustStoreUInt(0xAB, 8).EndCell(),
			want: "<unknown content layout 0xab>",
		},
		{
			name: "empty",
			cell: cell.BeginCell().EndCell(),
			want: EmptyContentPlaceholder,
		},
		{
			name: "short",
			cell: cell.BeginCell().MustStoreUInt(1, 4).EndCell(),
			want: EmptyContentPlaceholder,
		},
		{
			name: "nil",
			cell: nil,
			want: EmptyContentPlaceholder,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DecodeContent(tt.cell); got != tt.want {
				t.Errorf("DecodeContent() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestOffChainContent_Layout(t *testing.T) {
	c := OffChainContent("ipfs://x")
	s := c.BeginParse()

	if tag := s.MustLoadUInt(8); tag != ContentOffChain {
		t.Fatalf("tag = %#x, want %#x", tag, ContentOffChain)
	}
	uri, err := s.LoadStringSnake()
	if err != nil {
		t.Fatalf("LoadStringSnake() error: %v", err)
	}
	if uri != "ipfs://x" {
		t.Errorf("uri = %q, want %q", uri, "ipfs://x")
	}
}
