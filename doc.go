// Package fundbook converts semi-structured mutual fund investment statements
// into balanced double-entry ledger transactions. It is designed to be
// local-first and auditable, every run being reproducible from the statement
// text alone.
//
// The core functionalities include:
//   - Record Model: Fixed-schema trade and price records grouped per plan
//     (OPEN, TFSA, RRSP) with integer minor-unit amounts throughout.
//   - Account Resolution: Mapping a plan, owner, company and fund onto
//     hierarchical ledger accounts, with per-company overrides and a trust
//     fund special case.
//   - Switch Correlation: Pairing the two halves of an intra-plan fund switch
//     into a single two-sided transaction.
//   - Ledger Construction: Building zero-sum transactions against a ledger
//     session, validated in test mode and committed in prod mode.
//   - Data Persistence: A JSONL ledger store and JSON dumps of parsed
//     statements.
//
// This package serves as the foundational logic for the `fbk` command-line
// tool; the statement grammar itself lives in the report subpackage.
package fundbook
