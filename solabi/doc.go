// Package solabi implements the Solidity/EVM contract ABI: a type-aware
// binary codec plus EIP-712 structured hashing.
//
// The package covers:
//   - Type-string parsing ("uint8[2][]", "(uint8,(uint8[],bool))[39]")
//   - A resolved type model with a registry for structs, enums, and
//     user-defined value types
//   - The canonical head/tail encoding and its hardened decoder
//   - The packed (abi.encodePacked) encoding
//   - EIP-712 type hashes, struct hashes, domain separators, and signing
//     digests
//   - Function selectors and call-data helpers
//
// # Types and Values
//
// A type string resolves through the registry into a Type, and data is
// carried in Value, a tagged variant mirroring Type one-to-one:
//
//	t, err := solabi.ParseType("(address,uint256[])", nil)
//	v := solabi.TupleOf(owner, amounts)
//	data, err := solabi.EncodeValue(v, t)
//	back, err := solabi.DecodeValue(data, t)
//
// # Encoding Layout
//
// Head/tail encoding gives every member one 32-byte head slot. Static
// values are inlined; dynamic values put a byte offset in the slot and
// their content in the tail, with offsets always measured from the start of
// the enclosing content region. Packed encoding drops all padding, length
// prefixes, and offsets; it is not reversible and exists for hashing.
//
// # Decoding Hardening
//
// The decoder bounds every offset and declared length against the actual
// buffer before use, caps nesting depth, and checks the minimum encoded
// size of a declared element count before allocating. Strict mode
// additionally rejects non-canonical words (boolean values beyond 0/1,
// integer words with excess high bits, dirty padding).
//
// # EIP-712
//
//	reg := solabi.NewRegistry()
//	reg.DefineStruct("Person", []string{"name", "wallet"}, []string{"string", "address"})
//	mail, err := solabi.ParseType("Mail", reg)
//	digest, err := solabi.SigningHash(domain, value, mail)
//
// All operations are pure and safe for concurrent use on independent
// inputs; a Registry must not be mutated while resolutions are running.
package solabi
