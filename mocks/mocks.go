// Package mocks builds sample genesis states and blocks for tests, the demo
// command and the curl script generator.
package mocks

import (
	"fmt"
	"math/rand"

	"palletchain/primitives"
	"palletchain/runtime"
)

const (
	Alice   primitives.AccountID = "alice"
	Bob     primitives.AccountID = "bob"
	Charlie primitives.AccountID = "charlie"
)

// DemoGenesis gives alice 100 and nobody else anything.
func DemoGenesis() runtime.Genesis {
	return runtime.Genesis{
		Balances: map[primitives.AccountID]primitives.Balance{
			Alice: primitives.NewBalance(100),
		},
	}
}

// DemoBlocks returns the sample chain on top of DemoGenesis. Three of its
// extrinsics fail on purpose.
func DemoBlocks() []runtime.Block {
	return []runtime.Block{
		{
			Header: runtime.Header{BlockNumber: 1},
			Extrinsics: []runtime.Extrinsic{
				Transfer(Alice, Bob, 30),
				Transfer(Alice, Charlie, 20),
			},
		},
		{
			Header: runtime.Header{BlockNumber: 2},
			Extrinsics: []runtime.Extrinsic{
				{Caller: Alice, Call: runtime.CreateClaim("Hello, world!")},
				{Caller: Bob, Call: runtime.CreateClaim("Hello, trust issues!")},
				{Caller: Bob, Call: runtime.CreateClaim("Hello, world!")},
			},
		},
		{
			Header: runtime.Header{BlockNumber: 3},
			Extrinsics: []runtime.Extrinsic{
				{Caller: Alice, Call: runtime.RevokeClaim("Hello, world!")},
				{Caller: Bob, Call: runtime.CreateClaim("Hello, world!")},
				{Caller: Bob, Call: runtime.RevokeClaim("Hello, nothing!")},
				Transfer(Charlie, Alice, 50),
			},
		},
	}
}

// Transfer builds a transfer extrinsic of a small amount.
func Transfer(from, to primitives.AccountID, amount uint64) runtime.Extrinsic {
	return runtime.Extrinsic{Caller: from, Call: runtime.Transfer(to, primitives.NewBalance(amount))}
}

// GenerateAccounts returns count distinct account ids.
func GenerateAccounts(count int) []primitives.AccountID {
	accounts := make([]primitives.AccountID, count)
	for i := range accounts {
		accounts[i] = primitives.AccountID(fmt.Sprintf("account-%03d", i))
	}
	return accounts
}

// GenerateRandomBlocks creates count blocks numbered from first, each with
// perBlock random transfers and claims between accounts. Amounts are small
// but not checked against balances, so some extrinsics may fail.
func GenerateRandomBlocks(r *rand.Rand, accounts []primitives.AccountID, first primitives.BlockNumber, count, perBlock int) []runtime.Block {
	if len(accounts) < 2 {
		panic("Need at least 2 accounts to generate blocks")
	}

	blocks := make([]runtime.Block, 0, count)
	for i := 0; i < count; i++ {
		extrinsics := make([]runtime.Extrinsic, 0, perBlock)
		for j := 0; j < perBlock; j++ {
			fromIdx := r.Intn(len(accounts))
			toIdx := r.Intn(len(accounts))
			for toIdx == fromIdx {
				toIdx = r.Intn(len(accounts))
			}

			from := accounts[fromIdx]
			switch r.Intn(4) {
			case 0:
				extrinsics = append(extrinsics, runtime.Extrinsic{
					Caller: from,
					Call:   runtime.CreateClaim(primitives.Content(fmt.Sprintf("doc-%d", r.Intn(16)))),
				})
			case 1:
				extrinsics = append(extrinsics, runtime.Extrinsic{
					Caller: from,
					Call:   runtime.RevokeClaim(primitives.Content(fmt.Sprintf("doc-%d", r.Intn(16)))),
				})
			default:
				extrinsics = append(extrinsics, Transfer(from, accounts[toIdx], uint64(r.Intn(100)+1)))
			}
		}
		blocks = append(blocks, runtime.Block{
			Header:     runtime.Header{BlockNumber: first + primitives.BlockNumber(i)},
			Extrinsics: extrinsics,
		})
	}
	return blocks
}
