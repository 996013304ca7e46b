// Package billing contains the domain model for payment requests and
// payees.
//
// A PaymentRequest is the aggregate root: it tracks what is owed, to
// whom, and how far along the request is (draft, submitted, paid). Its
// amount is either given directly or derived from hours or miles at
// creation time. A Payee is the party being paid and caches the
// accounting contact it resolves to.
//
// Repository interfaces live here; their GORM implementations are in
// the infrastructure layer.
package billing
