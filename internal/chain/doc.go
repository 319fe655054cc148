// Package chain provides access to the TON network.
//
// It defines the narrow surface the rest of nftsnap depends on:
//
//   - Client: resolve the last masterchain block and run get-methods
//   - Sender: deliver internal messages signed by a wallet
//   - Stack: typed access to get-method results
//
// Two Client implementations are provided. LiteClient talks the liteserver
// protocol through tonutils-go and can create wallet senders. Toncenter is a
// read-only client for the toncenter v2 JSON-RPC gateway.
package chain
