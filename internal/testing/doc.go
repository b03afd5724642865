// Package testing provides test infrastructure for market transaction testing.
//
// It provides a deterministic environment in the style of a ledger test
// harness: named accounts with reproducible keypairs, a manual clock, and a
// TestEnv that signs, submits and inspects transactions against a real Store
// and Engine.
//
// # Overview
//
// The testing package provides:
//   - TestEnv: an engine over an in-memory (or pebble) ledger store
//   - Account: deterministic test accounts with keypairs
//   - ManualClock: a controllable clock for history timestamps
//   - Assertions: helpers for results, balances and market totals
//
// # Basic Usage
//
//	func TestBuy(t *testing.T) {
//	    env := jtx.NewTestEnv(t)
//	    alice := jtx.NewAccount("alice")
//
//	    env.Initialize()
//	    env.CreateMarket("m1", "Yes", "No")
//	    env.Fund(entry.NativeAsset, 1_000, alice)
//
//	    result := env.Submit(alice, market.NewBuyShare(alice.ID, "m1", "Yes", 100))
//	    jtx.RequireTxSuccess(t, result)
//	    jtx.RequireEscrow(t, env, "m1", 100)
//	}
package testing
