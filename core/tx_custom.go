package core

import (
	"crypto/ecdsa"
	"fmt"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/holiman/uint256"
)

// Mint is the operator's attestation that a deposit on a foreign chain has
// occurred, crediting Address with Amount of Token.
type Mint struct {
	TxHash     []byte // the foreign deposit's tx hash; validated to be 32 bytes at apply time
	UserTxHash string
	Token      Token
	Amount     *uint256.Int
	Address    Address
}

// Burn is a user's request to withdraw on a foreign chain. BurnID must be
// globally unique; Calldata carries the destination address once the
// deposit/withdraw façade has filled it in.
type Burn struct {
	BurnID   Hash
	Network  string // "eth" or "bsc"
	Token    Token
	Amount   *uint256.Int
	Calldata *Address // nil until the façade recovers the signer
}

// EncodeRLP renders Mint exactly as the wire format of spec §6: a 6-element
// list for the native token, a 9-element list for ERC-20 (tag, sub-tag,
// tx_hash, user_tx_hash, amount-LE, address[, token_addr, decimals-LE,
// symbol]).
func (m Mint) EncodeRLP() ([]byte, error) {
	amount := m.Amount
	if amount == nil {
		amount = uint256.NewInt(0)
	}
	list := [][]byte{
		[]byte("mint"),
		[]byte(tokenTag(m.Token)),
		m.TxHash,
		[]byte(m.UserTxHash),
		leBytes(amount),
		m.Address[:],
	}
	if m.Token.IsErc20 {
		list = append(list, m.Token.Address[:], leBytes(m.Token.rlpDecimals()), []byte(m.Token.Symbol))
	}
	return rlp.EncodeToBytes(list)
}

// DecodeMintRLP parses the wire format produced by Mint.EncodeRLP.
func DecodeMintRLP(data []byte) (Mint, error) {
	var list [][]byte
	if err := rlp.DecodeBytes(data, &list); err != nil {
		return Mint{}, err
	}
	if len(list) < 6 || string(list[0]) != "mint" {
		return Mint{}, fmt.Errorf("malformed mint rlp")
	}
	m := Mint{
		TxHash:     append([]byte(nil), list[2]...),
		UserTxHash: string(list[3]),
		Amount:     uint256.NewInt(0).SetBytes(reverseBytes(list[4])),
		Address:    addrFromSlice(list[5]),
	}
	switch string(list[1]) {
	case "native":
		m.Token = NativeToken
	case "erc20":
		if len(list) < 9 {
			return Mint{}, fmt.Errorf("malformed mint rlp: missing erc20 fields")
		}
		decimals := uint256.NewInt(0).SetBytes(reverseBytes(list[7]))
		m.Token = Erc20Token(addrFromSlice(list[6]), decimals, string(list[8]))
	default:
		return Mint{}, fmt.Errorf("malformed mint rlp: unknown token tag")
	}
	return m, nil
}

// EncodeRLP renders Burn per spec §6: the native/erc20 base fields, the
// network tag, then the destination address only when Calldata is set.
func (b Burn) EncodeRLP() ([]byte, error) {
	amount := b.Amount
	if amount == nil {
		amount = uint256.NewInt(0)
	}
	list := [][]byte{
		[]byte("burn"),
		b.BurnID.Bytes(),
		[]byte(tokenTag(b.Token)),
		leBytes(amount),
	}
	if b.Token.IsErc20 {
		list = append(list, b.Token.Address[:], leBytes(b.Token.rlpDecimals()), []byte(b.Token.Symbol))
	}
	list = append(list, []byte(b.Network))
	if b.Calldata != nil {
		list = append(list, b.Calldata[:])
	}
	return rlp.EncodeToBytes(list)
}

// DecodeBurnRLP parses the wire format produced by Burn.EncodeRLP. The
// trailing calldata address is optional.
func DecodeBurnRLP(data []byte) (Burn, error) {
	var list [][]byte
	if err := rlp.DecodeBytes(data, &list); err != nil {
		return Burn{}, err
	}
	if len(list) < 4 || string(list[0]) != "burn" {
		return Burn{}, fmt.Errorf("malformed burn rlp")
	}
	b := Burn{
		BurnID: BytesToHash(list[1]),
		Amount: uint256.NewInt(0).SetBytes(reverseBytes(list[3])),
	}
	var networkIdx, calldataIdx int
	switch string(list[2]) {
	case "native":
		b.Token = NativeToken
		networkIdx, calldataIdx = 4, 5
	case "erc20":
		if len(list) < 7 {
			return Burn{}, fmt.Errorf("malformed burn rlp: missing erc20 fields")
		}
		decimals := uint256.NewInt(0).SetBytes(reverseBytes(list[5]))
		b.Token = Erc20Token(addrFromSlice(list[4]), decimals, string(list[6]))
		networkIdx, calldataIdx = 7, 8
	default:
		return Burn{}, fmt.Errorf("malformed burn rlp: unknown token tag")
	}
	if networkIdx >= len(list) {
		return Burn{}, fmt.Errorf("malformed burn rlp: missing network tag")
	}
	b.Network = string(list[networkIdx])
	if calldataIdx < len(list) {
		addr := addrFromSlice(list[calldataIdx])
		b.Calldata = &addr
	}
	return b, nil
}

func tokenTag(t Token) string {
	if t.IsErc20 {
		return "erc20"
	}
	return "native"
}

func leBytes(v *uint256.Int) []byte {
	b := v.Bytes() // big-endian
	out := make([]byte, len(b))
	for i, c := range b {
		out[len(b)-1-i] = c
	}
	return out
}

func reverseBytes(b []byte) []byte {
	out := make([]byte, len(b))
	for i, c := range b {
		out[len(b)-1-i] = c
	}
	return out
}

func addrFromSlice(b []byte) Address {
	var a Address
	copy(a[20-len(b):], b)
	return a
}

// CustomTx is the signed envelope for the Mint/Burn family: an opaque RLP
// blob (Msg, decoding to a Mint or a Burn) plus a personal-message signature
// over that blob.
type CustomTx struct {
	ChainID uint64
	Msg     []byte
	Sig     []byte // 65 bytes: r(32) || s(32) || v(1)
}

// personalMessageHash implements the EIP-191 "Ethereum Signed Message"
// prefix, the same scheme core/transactions.go's signer helpers assume when
// recovering addresses from raw signatures.
func personalMessageHash(msg []byte) []byte {
	prefixed := append([]byte(fmt.Sprintf("\x19Ethereum Signed Message:\n%d", len(msg))), msg...)
	return crypto.Keccak256(prefixed)
}

// CreateCustomTx signs msg with priv as a personal message and binds
// chainID as a plain field (checked by apply_tx against the chain config,
// not folded into the signing hash).
func CreateCustomTx(priv *ecdsa.PrivateKey, chainID uint64, msg []byte) (CustomTx, error) {
	sig, err := crypto.Sign(personalMessageHash(msg), priv)
	if err != nil {
		return CustomTx{}, err
	}
	return CustomTx{ChainID: chainID, Msg: msg, Sig: sig}, nil
}

// Signer recovers the address that produced Sig over Msg.
func (c CustomTx) Signer() (Address, error) {
	if len(c.Sig) != 65 {
		return Address{}, fmt.Errorf("invalid custom tx signature length")
	}
	pub, err := crypto.SigToPub(personalMessageHash(c.Msg), c.Sig)
	if err != nil {
		return Address{}, err
	}
	return FromCommon(crypto.PubkeyToAddress(*pub)), nil
}

// RecoverPersonalSigner recovers the address that produced sig as a
// personal-message signature over msg — the same recovery CustomTx.Signer
// performs, exposed standalone for the withdraw façade, which verifies a
// signature over a not-yet-constructed CustomTx's Burn payload.
func RecoverPersonalSigner(msg, sig []byte) (Address, error) {
	return CustomTx{Msg: msg, Sig: sig}.Signer()
}

// IsMint reports whether Msg decodes as a Mint (by its leading RLP tag).
func (c CustomTx) IsMint() bool {
	var list [][]byte
	if err := rlp.DecodeBytes(c.Msg, &list); err != nil || len(list) == 0 {
		return false
	}
	return string(list[0]) == "mint"
}
