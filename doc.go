// Package stockfolio tracks ownership of tradable instruments inside named
// portfolios as an append-mostly, date-ordered transaction ledger, and
// answers point-in-time queries against it: composition, valuation, cost
// basis and performance over a date range.
//
// Two derived write operations expand into ledger transactions: scheduled
// recurring dollar-cost investing, and single-date rebalancing to target
// weights. All monetary and volume arithmetic uses exact decimals.
//
// The engine is synchronous: every query or mutation is a short scan over an
// in-memory ordered sequence plus zero or more PriceSource calls. Errors are
// returned, never logged, and the current date is always threaded in as an
// explicit argument so the engine stays deterministic under test.
package stockfolio
