// Package qrbill builds Swiss QR-bill payment slips: it validates creditor
// and debtor data, assembles the fixed 31-field QR payload (reference type
// NON, unstructured message) and draws the 210×105 mm slip onto a canvas.
//
// Validation failures never fail a document. Encode reports them as a
// SlipSkipped result carrying the reason, so callers can render the
// document without the slip and still tell why it is missing.
package qrbill
