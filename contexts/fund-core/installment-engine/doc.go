// Package installmentengine hosts the recurring-investment module: systematic
// investment plans whose scheduled payments are converted into ledger credits
// net of a basis-point platform fee.
package installmentengine
