// Package ledgerdash computes the dashboard of a plain text ledger and
// reconciles its transactions in place.
//
// The core functionalities include:
//   - Ledger decoding: reading the transactions of a ledger file, with their
//     position in the text, into a TransactionCache. Accounts are classified
//     once, when decoded, into income, expense, asset and liability buckets.
//   - Reports: a stateless Dashboard computing, for any date range, the income
//     and expense KPIs, the flow of money from income to expense categories,
//     the daily income and expense trend, and the asset and liability balance
//     trees at any date.
//   - Reconciliation: selecting the transactions not yet reconciled and
//     rewriting their lines as reconciled, leaving every other line of the
//     ledger untouched.
//   - Ledger files: a Book serializes the read-modify-write of a ledger file
//     and replaces it atomically.
//
// This package serves as the foundational logic for the `ldash` command-line
// tool and its HTTP server.
package ledgerdash
