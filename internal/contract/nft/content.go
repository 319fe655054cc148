package nft

import (
	"fmt"

	"github.com/xssnick/tonutils-go/tvm/cell"
)

// Placeholders returned when content cannot be decoded to a URI.
const (
	OnChainContentPlaceholder   = "<on-chain content>"
	EmptyContentPlaceholder     = "<empty content>"
	MalformedContentPlaceholder = "<malformed off-chain content>"
)

// DecodeContent returns the URI of an off-chain content cell. Other
// layouts yield a placeholder string. It never fails.
func DecodeContent(c *cell.Cell) string {
	if c == nil {
		return EmptyContentPlaceholder
	}

	s := c.BeginParse()
	if s.BitsLeft() < 8 {
		return EmptyContentPlaceholder
	}

	tag := s.MustLoadUInt(8)
	switch tag {
	case ContentOffChain:
		uri, err := s.LoadStringSnake()
		if err != nil {
			return MalformedContentPlaceholder
		}
		return uri
	case ContentOnChain:
		return OnChainContentPlaceholder
	default:
		return unknownLayout(tag)
	}
}

func unknownLayout(tag uint64) string {
	return fmt.Sprintf("<unknown content layout 0x%02x>", tag)
}

// OffChainContent builds a content cell holding uri with the off-chain tag.
func OffChainContent(uri string) *cell.Cell {
	return cell.BeginCell().
		MustStoreUInt(ContentOffChain, 8).
		MustStoreStringSnake(uri).
		EndCell()
}

// snakeString builds an untagged snake string cell, as used for item
// content and the item content base.
func snakeString(s string) *cell.Cell {
	return cell.BeginCell().MustStoreStringSnake(s).EndCell()
}
