// Package nft wraps the TEP-62 NFT collection and item contracts.
//
// Handles decode get-method results into typed values and build message
// bodies for the fixed opcode table. All network access goes through
// chain.Client and chain.Sender.
package nft
