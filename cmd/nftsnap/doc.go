// Package main provides the entry point for nftsnap.
//
// nftsnap records which address owns every item of a TON NFT collection
// and sends the collection and item messages of the standard contracts.
package main
