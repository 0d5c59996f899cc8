// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package ledger decides whether a vote may be cast and records it: at most
// one accepted vote per (voter, election), with no stored link between a
// voter and the candidate they chose.
package ledger
