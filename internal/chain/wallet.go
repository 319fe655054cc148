package chain

import (
	"context"
	"fmt"

	"github.com/xssnick/tonutils-go/address"
	"github.com/xssnick/tonutils-go/tlb"
	"github.com/xssnick/tonutils-go/tvm/cell"
	"github.com/xssnick/tonutils-go/ton/wallet"
)

// Send mode flag: pay transfer fees separately from the message value.
const sendModePayGasSeparately uint8 = 1

// WalletSender is a Sender backed by a tonutils-go wallet.
type WalletSender struct {
	wallet *wallet.Wallet
	wait   bool
}

// Address returns the wallet address.
func (s *WalletSender) Address() *address.Address {
	return s.wallet.WalletAddress()
}

// Send signs msg with the wallet key and submits it. When confirmation is
// enabled it blocks until the wallet transaction is observed on chain.
func (s *WalletSender) Send(ctx context.Context, msg *Message) error {
	if msg == nil || msg.To == nil {
		return fmt.Errorf("wallet: message destination is required")
	}
	if err := s.wallet.Send(ctx, toWalletMessage(msg), s.wait); err != nil {
		return fmt.Errorf("wallet: send to %s: %w", msg.To.String(), err)
	}
	return nil
}

// SetWaitConfirmation toggles waiting for on-chain confirmation.
func (s *WalletSender) SetWaitConfirmation(wait bool) {
	s.wait = wait
}

func toWalletMessage(msg *Message) *wallet.Message {
	body := msg.Body
	if body == nil {
		body = cell.BeginCell().EndCell()
	}
	return &wallet.Message{
		Mode: sendModePayGasSeparately,
		InternalMessage: &tlb.InternalMessage{
			IHRDisabled: true,
			Bounce:      msg.Bounce,
			DstAddr:     msg.To,
			Amount:      msg.Amount,
			Body:        body,
			StateInit:   msg.StateInit,
		},
	}
}
