package solabi

import (
	"encoding/hex"
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mailRegistry(t *testing.T) *Registry {
	t.Helper()
	reg := NewRegistry()
	require.NoError(t, reg.DefineStruct("Person",
		[]string{"name", "wallet"},
		[]string{"string", "address"}))
	require.NoError(t, reg.DefineStruct("Mail",
		[]string{"from", "to", "contents"},
		[]string{"Person", "Person", "string"}))
	return reg
}

func addrLit(t *testing.T, s string) [20]byte {
	t.Helper()
	b, err := hex.DecodeString(s)
	require.NoError(t, err)
	require.Len(t, b, 20)
	var a [20]byte
	copy(a[:], b)
	return a
}

func person(t *testing.T, name string, wallet [20]byte) Value {
	t.Helper()
	v, err := StructOf("Person", []string{"name", "wallet"}, []Value{Str(name), Addr(wallet)})
	require.NoError(t, err)
	return v
}

// The Ether Mail example from the EIP-712 specification, checked against its
// published digests.
func TestEIP712_EtherMail(t *testing.T) {
	reg := mailRegistry(t)
	mailType, err := ParseType("Mail", reg)
	require.NoError(t, err)

	cow := person(t, "Cow", addrLit(t, "cd2a3d9f938e13cd947ec05abc7fe734df8dd826"))
	bob := person(t, "Bob", addrLit(t, "bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb"))
	mail, err := StructOf("Mail",
		[]string{"from", "to", "contents"},
		[]Value{cow, bob, Str("Hello, Bob!")})
	require.NoError(t, err)

	t.Run("encodeType lists dependencies sorted after primary", func(t *testing.T) {
		enc, err := EncodeType(mailType)
		require.NoError(t, err)
		assert.Equal(t,
			"Mail(Person from,Person to,string contents)Person(string name,address wallet)",
			enc)
	})

	t.Run("type hash", func(t *testing.T) {
		th, err := TypeHash(mailType)
		require.NoError(t, err)
		assert.Equal(t,
			"a0cedeb2dc280ba39b857546d74f5549c3a1d7bdc2dd96bf881f76108e23dab4",
			hex.EncodeToString(th[:]))
	})

	t.Run("struct hash", func(t *testing.T) {
		sh, err := StructHash(mail, mailType)
		require.NoError(t, err)
		assert.Equal(t,
			"c52c0ee5d84264471806290a3f2c4cecfc5490626bf912d01f240d7a274b371e",
			hex.EncodeToString(sh[:]))
	})

	verifying := addrLit(t, "cccccccccccccccccccccccccccccccccccccccc")
	domain := Domain{
		Name:              "Ether Mail",
		Version:           "1",
		ChainID:           uint256.NewInt(1),
		VerifyingContract: &verifying,
	}

	t.Run("domain separator", func(t *testing.T) {
		sep := domain.Separator()
		assert.Equal(t,
			"f2cee375fa42b42143804025fc449deafd50cc031ca257e0b194a650a912090f",
			hex.EncodeToString(sep[:]))
	})

	t.Run("signing hash", func(t *testing.T) {
		digest, err := SigningHash(domain, mail, mailType)
		require.NoError(t, err)
		assert.Equal(t,
			"be609aee343fb3c4b28e1df9e632fca64fcfaede20f02e86244efddf30957bd2",
			hex.EncodeToString(digest[:]))
	})
}

func TestEIP712_AbsentDomainFieldsOmitted(t *testing.T) {
	a := Domain{Name: "App"}
	b := Domain{Name: "App", Version: ""}
	assert.Equal(t, a.Separator(), b.Separator())

	c := Domain{Name: "App", Version: "1"}
	assert.NotEqual(t, a.Separator(), c.Separator())
}

func TestEIP712_ArrayAndBytesFields(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.DefineStruct("Batch",
		[]string{"ids", "payload"},
		[]string{"uint256[]", "bytes"}))
	ty, err := ParseType("Batch", reg)
	require.NoError(t, err)

	ids := ArrayOf(mustUint(t, 1, 256), mustUint(t, 2, 256))
	batch, err := StructOf("Batch", []string{"ids", "payload"}, []Value{ids, Bytes([]byte{0xde, 0xad})})
	require.NoError(t, err)

	sh, err := StructHash(batch, ty)
	require.NoError(t, err)

	// recompute by hand: keccak(typeHash || keccak(id words) || keccak(payload))
	th, err := TypeHash(ty)
	require.NoError(t, err)
	idWords := unhex(t,
		"0000000000000000000000000000000000000000000000000000000000000001",
		"0000000000000000000000000000000000000000000000000000000000000002",
	)
	idsHash := Keccak256(idWords)
	payloadHash := Keccak256([]byte{0xde, 0xad})
	want := Keccak256(th[:], idsHash[:], payloadHash[:])
	assert.Equal(t, want, sh)
}

func TestEIP712_NonStructRejected(t *testing.T) {
	_, err := TypeHash(mustType(t, "uint256"))
	require.Error(t, err)

	_, err = StructHash(Bool(true), mustType(t, "bool"))
	require.Error(t, err)
}

func TestSelector_KnownValues(t *testing.T) {
	tests := []struct {
		sig string
		sel string
	}{
		{"transfer(address,uint256)", "a9059cbb"},
		{"balanceOf(address)", "70a08231"},
		{"baz(uint32,bool)", "cdcd77c0"},
	}
	for _, tt := range tests {
		t.Run(tt.sig, func(t *testing.T) {
			sel := SelectorOf(tt.sig)
			assert.Equal(t, tt.sel, hex.EncodeToString(sel[:]))
		})
	}
}

func TestSignature_Rendering(t *testing.T) {
	types := []*Type{mustType(t, "address"), mustType(t, "uint256")}
	assert.Equal(t, "transfer(address,uint256)", Signature("transfer", types))
	assert.Equal(t, SelectorOf("transfer(address,uint256)"), Selector("transfer", types))

	// single-member tuples render without the display-form trailing comma
	one := []*Type{mustType(t, "(bool)")}
	assert.Equal(t, "f((bool))", Signature("f", one))

	reg := NewRegistry()
	require.NoError(t, reg.DefineStruct("P", []string{"x"}, []string{"uint8"}))
	st, err := ParseType("P", reg)
	require.NoError(t, err)
	assert.Equal(t, "g((uint8))", Signature("g", []*Type{st}))
}
