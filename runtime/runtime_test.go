package runtime

import (
	"testing"

	log "github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"palletchain/pallets/balances"
	"palletchain/pallets/poe"
	"palletchain/primitives"
	"palletchain/support"
)

const (
	alice   primitives.AccountID = "alice"
	bob     primitives.AccountID = "bob"
	charlie primitives.AccountID = "charlie"
)

func bal(v uint64) primitives.Balance {
	return primitives.NewBalance(v)
}

// newTestRuntime returns a runtime whose outcomes are captured in the
// returned slice pointer.
func newTestRuntime(t *testing.T) (*Runtime, *[]ExtrinsicOutcome) {
	t.Helper()
	var outcomes []ExtrinsicOutcome
	logger, _ := test.NewNullLogger()
	rt := New(Config{
		Balances: balances.DefaultConfig(),
		Reporter: ReporterFunc(func(o ExtrinsicOutcome) { outcomes = append(outcomes, o) }),
		Logger:   logger,
	})
	return rt, &outcomes
}

func requireBalance(t *testing.T, rt *Runtime, who primitives.AccountID, want uint64) {
	t.Helper()
	got := rt.Balance(who)
	expected := bal(want)
	require.Truef(t, got.Eq(&expected), "balance of %s = %s, want %d", who, got.Dec(), want)
}

func block(number primitives.BlockNumber, extrinsics ...Extrinsic) Block {
	return Block{Header: Header{BlockNumber: number}, Extrinsics: extrinsics}
}

func TestFreshRuntime(t *testing.T) {
	rt, _ := newTestRuntime(t)

	assert.Equal(t, primitives.BlockNumber(0), rt.BlockNumber())
	for _, who := range []primitives.AccountID{alice, bob, "nobody"} {
		requireBalance(t, rt, who, 0)
		assert.Equal(t, primitives.Nonce(0), rt.Nonce(who))
	}
}

func TestDispatchRoutesToPallets(t *testing.T) {
	rt, _ := newTestRuntime(t)
	require.NoError(t, rt.ApplyGenesis(Genesis{Balances: map[primitives.AccountID]primitives.Balance{alice: bal(100)}}))

	require.NoError(t, rt.Dispatch(alice, Transfer(bob, bal(10))))
	requireBalance(t, rt, bob, 10)

	require.NoError(t, rt.Dispatch(bob, CreateClaim("doc")))
	owner, ok := rt.Claim("doc")
	require.True(t, ok)
	assert.Equal(t, bob, owner)

	require.NoError(t, rt.Dispatch(bob, RevokeClaim("doc")))
	_, ok = rt.Claim("doc")
	assert.False(t, ok)
}

func TestDispatchWrapsPalletErrors(t *testing.T) {
	rt, _ := newTestRuntime(t)

	tests := []struct {
		name       string
		call       RuntimeCall
		wantErr    error
		wantPallet string
		wantCall   string
	}{
		{name: "insufficient balance", call: Transfer(bob, bal(1)), wantErr: balances.ErrInsufficientBalance, wantPallet: "balances", wantCall: "transfer"},
		{name: "claim not found", call: RevokeClaim("missing"), wantErr: poe.ErrClaimNotFound, wantPallet: "poe", wantCall: "revoke_claim"},
		{name: "empty balances call", call: BalancesCall{}, wantErr: support.ErrUnknownCall, wantPallet: "balances", wantCall: "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := rt.Dispatch(alice, tt.call)
			require.ErrorIs(t, err, tt.wantErr)

			var de *support.DispatchError
			require.ErrorAs(t, err, &de)
			assert.Equal(t, tt.wantPallet, de.Pallet)
			assert.Equal(t, tt.wantCall, de.Call)
		})
	}

	assert.ErrorIs(t, rt.Dispatch(alice, nil), support.ErrUnknownCall)
}

func TestBlockNumberMismatch(t *testing.T) {
	tests := []struct {
		name   string
		number primitives.BlockNumber
	}{
		{name: "replayed zero", number: 0},
		{name: "skips ahead", number: 2},
		{name: "far ahead", number: 1000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rt, outcomes := newTestRuntime(t)
			require.NoError(t, rt.ApplyGenesis(Genesis{Balances: map[primitives.AccountID]primitives.Balance{alice: bal(100)}}))

			err := rt.ExecuteBlock(block(tt.number,
				Extrinsic{Caller: alice, Call: Transfer(bob, bal(30))},
				Extrinsic{Caller: bob, Call: CreateClaim("doc")},
			))

			require.ErrorIs(t, err, ErrBlockNumberMismatch)
			var mismatch *BlockNumberMismatchError
			require.ErrorAs(t, err, &mismatch)
			assert.Equal(t, primitives.BlockNumber(1), mismatch.Expected)
			assert.Equal(t, tt.number, mismatch.Got)

			assert.Empty(t, *outcomes, "no extrinsic may be dispatched")
			assert.Equal(t, primitives.Nonce(0), rt.Nonce(alice))
			assert.Equal(t, primitives.Nonce(0), rt.Nonce(bob))
			assert.Equal(t, primitives.BlockNumber(1), rt.BlockNumber(), "block number stays advanced")
			requireBalance(t, rt, alice, 100)
			_, claimed := rt.Claim("doc")
			assert.False(t, claimed)
		})
	}
}

func TestMismatchStillAdvancesBlockNumber(t *testing.T) {
	rt, outcomes := newTestRuntime(t)

	err := rt.ExecuteBlock(block(5, Extrinsic{Caller: alice, Call: CreateClaim("doc")}))
	require.ErrorIs(t, err, ErrBlockNumberMismatch)
	assert.Equal(t, primitives.BlockNumber(1), rt.BlockNumber())
	assert.Empty(t, *outcomes)

	// Block 1 was consumed by the failed attempt, so 2 is next.
	var mismatch *BlockNumberMismatchError
	require.ErrorAs(t, rt.ExecuteBlock(block(1)), &mismatch)
	assert.Equal(t, primitives.BlockNumber(2), mismatch.Expected)

	require.NoError(t, rt.ExecuteBlock(block(3)))
	assert.Equal(t, primitives.BlockNumber(3), rt.BlockNumber())
}

func TestEmptyBlockAdvancesBlockNumber(t *testing.T) {
	rt, outcomes := newTestRuntime(t)

	require.NoError(t, rt.ExecuteBlock(block(1)))
	assert.Equal(t, primitives.BlockNumber(1), rt.BlockNumber())
	assert.Empty(t, *outcomes)
}

func TestFailingExtrinsicDoesNotAbortBlock(t *testing.T) {
	rt, outcomes := newTestRuntime(t)
	require.NoError(t, rt.ApplyGenesis(Genesis{Balances: map[primitives.AccountID]primitives.Balance{alice: bal(100)}}))

	err := rt.ExecuteBlock(block(1,
		Extrinsic{Caller: bob, Call: Transfer(charlie, bal(5))},
		Extrinsic{Caller: alice, Call: Transfer(charlie, bal(5))},
	))
	require.NoError(t, err)

	assert.Equal(t, primitives.BlockNumber(1), rt.BlockNumber())
	assert.Equal(t, primitives.Nonce(1), rt.Nonce(bob))
	assert.Equal(t, primitives.Nonce(1), rt.Nonce(alice))
	requireBalance(t, rt, bob, 0)
	requireBalance(t, rt, alice, 95)
	requireBalance(t, rt, charlie, 5)

	require.Len(t, *outcomes, 2)
	first, second := (*outcomes)[0], (*outcomes)[1]
	assert.Equal(t, 0, first.Index)
	assert.Equal(t, bob, first.Caller)
	assert.Equal(t, primitives.BlockNumber(1), first.BlockNumber)
	assert.Equal(t, "balances", first.Pallet)
	assert.Equal(t, "transfer", first.Call)
	assert.ErrorIs(t, first.Err, balances.ErrInsufficientBalance)
	assert.Equal(t, 1, second.Index)
	assert.True(t, second.Succeeded())
}

func TestFailuresKeepEarlierChanges(t *testing.T) {
	rt, _ := newTestRuntime(t)
	require.NoError(t, rt.ApplyGenesis(Genesis{Balances: map[primitives.AccountID]primitives.Balance{alice: bal(50)}}))

	require.NoError(t, rt.ExecuteBlock(block(1,
		Extrinsic{Caller: alice, Call: Transfer(bob, bal(50))},
		Extrinsic{Caller: alice, Call: Transfer(bob, bal(1))},
		Extrinsic{Caller: bob, Call: Transfer(charlie, bal(20))},
	)))

	requireBalance(t, rt, alice, 0)
	requireBalance(t, rt, bob, 30)
	requireBalance(t, rt, charlie, 20)
	assert.Equal(t, primitives.Nonce(2), rt.Nonce(alice))
}

func TestExtrinsicOrderIsExecutionOrder(t *testing.T) {
	run := func(first, second Extrinsic) *Runtime {
		rt, _ := newTestRuntime(t)
		require.NoError(t, rt.ApplyGenesis(Genesis{Balances: map[primitives.AccountID]primitives.Balance{alice: bal(10)}}))
		require.NoError(t, rt.ExecuteBlock(block(1, first, second)))
		return rt
	}
	aliceToBob := Extrinsic{Caller: alice, Call: Transfer(bob, bal(10))}
	bobToCharlie := Extrinsic{Caller: bob, Call: Transfer(charlie, bal(10))}

	forward := run(aliceToBob, bobToCharlie)
	requireBalance(t, forward, charlie, 10)
	requireBalance(t, forward, bob, 0)

	backward := run(bobToCharlie, aliceToBob)
	requireBalance(t, backward, charlie, 0)
	requireBalance(t, backward, bob, 10)
}

func TestNilCallIsReportedNotFatal(t *testing.T) {
	rt, outcomes := newTestRuntime(t)

	require.NoError(t, rt.ExecuteBlock(block(1, Extrinsic{Caller: alice})))
	require.Len(t, *outcomes, 1)
	assert.ErrorIs(t, (*outcomes)[0].Err, support.ErrUnknownCall)
	assert.Equal(t, "unknown", (*outcomes)[0].Pallet)
	assert.Equal(t, primitives.Nonce(1), rt.Nonce(alice))
}

func TestTransferScenario(t *testing.T) {
	rt, outcomes := newTestRuntime(t)
	require.NoError(t, rt.ApplyGenesis(Genesis{Balances: map[primitives.AccountID]primitives.Balance{
		alice:   bal(100),
		bob:     bal(0),
		charlie: bal(0),
	}}))

	require.NoError(t, rt.ExecuteBlock(block(1,
		Extrinsic{Caller: alice, Call: Transfer(bob, bal(30))},
		Extrinsic{Caller: alice, Call: Transfer(charlie, bal(20))},
	)))

	requireBalance(t, rt, alice, 50)
	requireBalance(t, rt, bob, 30)
	requireBalance(t, rt, charlie, 20)
	assert.Equal(t, primitives.Nonce(2), rt.Nonce(alice))
	for _, o := range *outcomes {
		assert.NoError(t, o.Err)
	}
}

func TestClaimScenario(t *testing.T) {
	rt, outcomes := newTestRuntime(t)
	require.NoError(t, rt.ApplyGenesis(Genesis{Balances: map[primitives.AccountID]primitives.Balance{alice: bal(100)}}))
	require.NoError(t, rt.ExecuteBlock(block(1,
		Extrinsic{Caller: alice, Call: Transfer(bob, bal(30))},
		Extrinsic{Caller: alice, Call: Transfer(charlie, bal(20))},
	)))
	*outcomes = nil

	err := rt.ExecuteBlock(block(2,
		Extrinsic{Caller: alice, Call: CreateClaim("doc")},
		Extrinsic{Caller: bob, Call: CreateClaim("doc")},
	))
	require.NoError(t, err)

	owner, ok := rt.Claim("doc")
	require.True(t, ok)
	assert.Equal(t, alice, owner)

	require.Len(t, *outcomes, 2)
	assert.True(t, (*outcomes)[0].Succeeded())
	assert.ErrorIs(t, (*outcomes)[1].Err, poe.ErrAlreadyClaimed)
	assert.Equal(t, primitives.BlockNumber(2), (*outcomes)[1].BlockNumber)
	assert.Equal(t, 1, (*outcomes)[1].Index)
	assert.Equal(t, primitives.Nonce(3), rt.Nonce(alice))
	assert.Equal(t, primitives.Nonce(1), rt.Nonce(bob))
}

func TestExecuteBlockWithReceipt(t *testing.T) {
	rt, outcomes := newTestRuntime(t)
	require.NoError(t, rt.ApplyGenesis(Genesis{Balances: map[primitives.AccountID]primitives.Balance{alice: bal(100)}}))

	receipt, err := rt.ExecuteBlockWithReceipt(block(1,
		Extrinsic{Caller: alice, Call: CreateClaim("doc")},
		Extrinsic{Caller: bob, Call: RevokeClaim("doc")},
		Extrinsic{Caller: bob, Call: Transfer(alice, bal(1))},
	))
	require.NoError(t, err)
	require.NotNil(t, receipt)

	assert.Equal(t, primitives.BlockNumber(1), receipt.BlockNumber)
	assert.Len(t, receipt.Outcomes, 3)
	assert.Len(t, *outcomes, 3, "configured reporter still sees every outcome")

	failed := receipt.Failed()
	require.Len(t, failed, 2)
	assert.ErrorIs(t, failed[0].Err, poe.ErrNotOwner)
	assert.ErrorIs(t, failed[1].Err, balances.ErrInsufficientBalance)

	combined := receipt.Err()
	assert.ErrorIs(t, combined, poe.ErrNotOwner)
	assert.ErrorIs(t, combined, balances.ErrInsufficientBalance)

	_, err = rt.ExecuteBlockWithReceipt(block(5))
	assert.ErrorIs(t, err, ErrBlockNumberMismatch)
}

func TestReceiptErrNilWhenAllSucceed(t *testing.T) {
	receipt := &Receipt{BlockNumber: 1}
	receipt.ReportExtrinsic(ExtrinsicOutcome{BlockNumber: 1})
	assert.NoError(t, receipt.Err())
	assert.Empty(t, receipt.Failed())
}

func TestLogReporter(t *testing.T) {
	logger, hook := test.NewNullLogger()
	logger.SetLevel(log.DebugLevel)
	reporter := NewLogReporter(logger)

	reporter.ReportExtrinsic(ExtrinsicOutcome{BlockNumber: 3, Index: 1, Caller: bob, Pallet: "poe", Call: "create_claim", Err: poe.ErrAlreadyClaimed})
	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, log.WarnLevel, entry.Level)
	assert.Equal(t, "Extrinsic failed", entry.Message)
	assert.Equal(t, primitives.BlockNumber(3), entry.Data["block"])
	assert.Equal(t, 1, entry.Data["extrinsic"])
	assert.Equal(t, poe.ErrAlreadyClaimed, entry.Data[log.ErrorKey])

	reporter.ReportExtrinsic(ExtrinsicOutcome{BlockNumber: 3, Index: 2, Caller: bob, Pallet: "poe", Call: "create_claim"})
	assert.Equal(t, log.DebugLevel, hook.LastEntry().Level)
}

func TestGenesis(t *testing.T) {
	rt, _ := newTestRuntime(t)

	over := primitives.MaxBalance()
	over.AddUint64(&over, 1)
	err := rt.ApplyGenesis(Genesis{Balances: map[primitives.AccountID]primitives.Balance{alice: over}})
	assert.ErrorIs(t, err, balances.ErrOverflow)

	require.NoError(t, rt.ExecuteBlock(block(1)))
	err = rt.ApplyGenesis(Genesis{Balances: map[primitives.AccountID]primitives.Balance{alice: bal(1)}})
	assert.ErrorIs(t, err, ErrGenesisApplied)
}

func TestState(t *testing.T) {
	rt, _ := newTestRuntime(t)
	require.NoError(t, rt.ApplyGenesis(Genesis{Balances: map[primitives.AccountID]primitives.Balance{charlie: bal(5), alice: bal(100)}}))
	require.NoError(t, rt.ExecuteBlock(block(1,
		Extrinsic{Caller: alice, Call: Transfer(bob, bal(30))},
		Extrinsic{Caller: "dave", Call: CreateClaim("zeta")},
		Extrinsic{Caller: alice, Call: CreateClaim("alpha")},
	)))

	state := rt.State()
	assert.Equal(t, primitives.BlockNumber(1), state.BlockNumber)
	assert.Equal(t, "105", state.TotalIssuance)
	assert.Equal(t, []AccountState{
		{Account: alice, Balance: "70", Nonce: 2},
		{Account: bob, Balance: "30", Nonce: 0},
		{Account: charlie, Balance: "5", Nonce: 0},
		{Account: "dave", Balance: "0", Nonce: 1},
	}, state.Accounts)
	assert.Equal(t, []ClaimState{
		{Content: "alpha", Owner: alice},
		{Content: "zeta", Owner: "dave"},
	}, state.Claims)

	assert.Equal(t, AccountState{Account: "nobody", Balance: "0"}, rt.Account("nobody"))
}
