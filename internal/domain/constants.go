/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package domain holds the Ethereum-shaped wire types the relay core
// assembles from the mirror/consensus backends, plus the bit-exact
// constants the two worlds disagree on.
package domain

// Bit-exact constants referenced throughout block/transaction/receipt
// assembly. Values are taken from the Ethereum wire format the relay
// emulates, not from the underlying ledger, which does not define them.
const (
	EmptyHex = "0x"
	ZeroHex  = "0x0"

	Zero8ByteHex  = "0x0000000000000000"
	Zero32ByteHex = "0x0000000000000000000000000000000000000000000000000000000000000000"

	// EmptyArrayKeccak is keccak256(rlp([])), the sha3Uncles value for a
	// block with no uncles.
	EmptyArrayKeccak = "0x1dcc4de8dec75d7aab85b567b6ccd41ad312451b948a7413f0a142fd40d49347"
	// EmptyTrieRoot is the root hash of the empty Merkle-Patricia trie,
	// used as transactionsRoot when a block has no transactions.
	EmptyTrieRoot = "0x56e81f171bcc55a6ff8345e692c0f86e5b48e01b996cadc001622fb5e363b421"

	ZeroAddressHex = "0x0000000000000000000000000000000000000000"

	EmptyBloomHex = "0x" +
		"00000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000" +
		"00000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000" +
		"00000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000" +
		"00000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000"

	// TinybarToWeibarFactor converts the ledger's native unit (tinybar) to
	// the EVM-scaled unit (weibar): 1 tinybar == 10^10 weibar.
	TinybarToWeibarFactor = 10_000_000_000

	HashHexLength    = 66
	AddressHexLength = 42
)
