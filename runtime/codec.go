package runtime

import (
	"errors"
	"fmt"

	jsoniter "github.com/json-iterator/go"

	"palletchain/pallets/balances"
	"palletchain/pallets/poe"
	"palletchain/primitives"
	"palletchain/support"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var ErrUnknownPallet = errors.New("unknown pallet")

// wireCall is the JSON form of a RuntimeCall:
//
//	{"pallet": "balances", "call": "transfer", "args": {"to": "bob", "amount": "30"}}
type wireCall struct {
	Pallet string              `json:"pallet"`
	Call   string              `json:"call"`
	Args   jsoniter.RawMessage `json:"args"`
}

type transferArgs struct {
	To     primitives.AccountID `json:"to"`
	Amount string               `json:"amount"`
}

type claimArgs struct {
	Claim primitives.Content `json:"claim"`
}

type wireExtrinsic struct {
	Caller primitives.AccountID `json:"caller"`
	Call   wireCall             `json:"call"`
}

type wireBlock struct {
	Header     Header          `json:"header"`
	Extrinsics []wireExtrinsic `json:"extrinsics"`
}

func encodeCall(call RuntimeCall) (wireCall, error) {
	var args any
	switch c := call.(type) {
	case BalancesCall:
		switch inner := c.Call.(type) {
		case balances.Transfer[primitives.AccountID]:
			args = transferArgs{To: inner.To, Amount: primitives.FormatBalance(inner.Amount)}
		default:
			return wireCall{}, fmt.Errorf("%w: %s %T", support.ErrUnknownCall, balances.PalletName, c.Call)
		}
	case PoECall:
		switch inner := c.Call.(type) {
		case poe.CreateClaim[primitives.Content]:
			args = claimArgs{Claim: inner.Claim}
		case poe.RevokeClaim[primitives.Content]:
			args = claimArgs{Claim: inner.Claim}
		default:
			return wireCall{}, fmt.Errorf("%w: %s %T", support.ErrUnknownCall, poe.PalletName, c.Call)
		}
	default:
		return wireCall{}, fmt.Errorf("%w: %T", support.ErrUnknownCall, call)
	}

	raw, err := json.Marshal(args)
	if err != nil {
		return wireCall{}, err
	}
	return wireCall{Pallet: call.Pallet(), Call: call.CallName(), Args: raw}, nil
}

func decodeCall(w wireCall) (RuntimeCall, error) {
	switch w.Pallet {
	case balances.PalletName:
		switch w.Call {
		case "transfer":
			var args transferArgs
			if err := json.Unmarshal(w.Args, &args); err != nil {
				return nil, fmt.Errorf("decode %s.%s args: %w", w.Pallet, w.Call, err)
			}
			amount, err := primitives.ParseBalance(args.Amount)
			if err != nil {
				return nil, fmt.Errorf("decode %s.%s args: %w", w.Pallet, w.Call, err)
			}
			return Transfer(args.To, amount), nil
		}
	case poe.PalletName:
		var args claimArgs
		switch w.Call {
		case "create_claim", "revoke_claim":
			if err := json.Unmarshal(w.Args, &args); err != nil {
				return nil, fmt.Errorf("decode %s.%s args: %w", w.Pallet, w.Call, err)
			}
		}
		switch w.Call {
		case "create_claim":
			return CreateClaim(args.Claim), nil
		case "revoke_claim":
			return RevokeClaim(args.Claim), nil
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownPallet, w.Pallet)
	}
	return nil, fmt.Errorf("%w: %s.%s", support.ErrUnknownCall, w.Pallet, w.Call)
}

func MarshalCall(call RuntimeCall) ([]byte, error) {
	w, err := encodeCall(call)
	if err != nil {
		return nil, err
	}
	return json.Marshal(w)
}

func UnmarshalCall(data []byte) (RuntimeCall, error) {
	var w wireCall
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, err
	}
	return decodeCall(w)
}

func toWireBlock(block Block) (wireBlock, error) {
	out := wireBlock{
		Header:     block.Header,
		Extrinsics: make([]wireExtrinsic, 0, len(block.Extrinsics)),
	}
	for i, ext := range block.Extrinsics {
		call, err := encodeCall(ext.Call)
		if err != nil {
			return wireBlock{}, fmt.Errorf("extrinsic %d: %w", i, err)
		}
		out.Extrinsics = append(out.Extrinsics, wireExtrinsic{Caller: ext.Caller, Call: call})
	}
	return out, nil
}

func fromWireBlock(w wireBlock) (Block, error) {
	block := Block{
		Header:     w.Header,
		Extrinsics: make([]Extrinsic, 0, len(w.Extrinsics)),
	}
	for i, ext := range w.Extrinsics {
		call, err := decodeCall(ext.Call)
		if err != nil {
			return Block{}, fmt.Errorf("block %d extrinsic %d: %w", w.Header.BlockNumber, i, err)
		}
		block.Extrinsics = append(block.Extrinsics, Extrinsic{Caller: ext.Caller, Call: call})
	}
	return block, nil
}

// EncodeBlock renders block as JSON, extrinsics in execution order.
func EncodeBlock(block Block) ([]byte, error) {
	w, err := toWireBlock(block)
	if err != nil {
		return nil, err
	}
	return json.Marshal(w)
}

func DecodeBlock(data []byte) (Block, error) {
	var w wireBlock
	if err := json.Unmarshal(data, &w); err != nil {
		return Block{}, err
	}
	return fromWireBlock(w)
}

// EncodeBlocks renders a JSON array of blocks.
func EncodeBlocks(blocks []Block) ([]byte, error) {
	out := make([]wireBlock, 0, len(blocks))
	for _, block := range blocks {
		w, err := toWireBlock(block)
		if err != nil {
			return nil, fmt.Errorf("block %d: %w", block.Header.BlockNumber, err)
		}
		out = append(out, w)
	}
	return json.MarshalIndent(out, "", "  ")
}

// DecodeBlocks parses a JSON array of blocks.
func DecodeBlocks(data []byte) ([]Block, error) {
	var ws []wireBlock
	if err := json.Unmarshal(data, &ws); err != nil {
		return nil, err
	}
	blocks := make([]Block, 0, len(ws))
	for _, w := range ws {
		block, err := fromWireBlock(w)
		if err != nil {
			return nil, err
		}
		blocks = append(blocks, block)
	}
	return blocks, nil
}

// MarshalJSON renders the outcome with its error as a string.
func (o ExtrinsicOutcome) MarshalJSON() ([]byte, error) {
	type outcome struct {
		BlockNumber primitives.BlockNumber `json:"block_number"`
		Index       int                    `json:"index"`
		Caller      primitives.AccountID   `json:"caller"`
		Pallet      string                 `json:"pallet"`
		Call        string                 `json:"call"`
		Success     bool                   `json:"success"`
		Error       string                 `json:"error,omitempty"`
	}
	out := outcome{
		BlockNumber: o.BlockNumber,
		Index:       o.Index,
		Caller:      o.Caller,
		Pallet:      o.Pallet,
		Call:        o.Call,
		Success:     o.Succeeded(),
	}
	if o.Err != nil {
		out.Error = o.Err.Error()
	}
	return json.Marshal(out)
}
