package support

// Header carries the block metadata checked before any extrinsic runs.
type Header[B Counter] struct {
	BlockNumber B `json:"block_number"`
}

// Extrinsic is a call submitted on behalf of Caller. The caller is never part
// of the call itself.
type Extrinsic[Caller any, Call any] struct {
	Caller Caller `json:"caller"`
	Call   Call   `json:"call"`
}

// Block is a header plus extrinsics. Extrinsics execute in slice order.
type Block[B Counter, Caller any, Call any] struct {
	Header     Header[B]                 `json:"header"`
	Extrinsics []Extrinsic[Caller, Call] `json:"extrinsics"`
}
