package stockfolio

import "fmt"

// Transaction is one buy or sell event: a date, a signed volume (positive
// for buys, negative for sells), the unit price and the commission fee paid.
// A Transaction is immutable once recorded.
type Transaction struct {
	on     Date
	volume Quantity // signed
	price  Money    // unit price, non-negative
	fee    Money    // commission, non-negative
}

// NewTransaction creates a transaction. It does not validate; validation
// happens on insertion into a ledger.
func NewTransaction(on Date, volume Quantity, price, fee Money) Transaction {
	return Transaction{on: on, volume: volume, price: price, fee: fee}
}

// When returns the date on which the transaction occurred.
func (t Transaction) When() Date { return t.on }

// Volume returns the signed volume: positive for a buy, negative for a sell.
func (t Transaction) Volume() Quantity { return t.volume }

// Price returns the unit price.
func (t Transaction) Price() Money { return t.price }

// Fee returns the commission fee.
func (t Transaction) Fee() Money { return t.fee }

// IsBuy reports whether the transaction is a buy.
func (t Transaction) IsBuy() bool { return t.volume.IsPositive() }

// IsSell reports whether the transaction is a sell.
func (t Transaction) IsSell() bool { return t.volume.IsNegative() }

func (t Transaction) Equal(o Transaction) bool {
	return t.on == o.on && t.volume.Equal(o.volume) && t.price.Equal(o.price) && t.fee.Equal(o.fee)
}

func (t Transaction) String() string {
	kind := "buy"
	if t.IsSell() {
		kind = "sell"
	}
	return fmt.Sprintf("%s %s %s @ %s (fee %s)", t.on, kind, t.volume.Abs(), t.price, t.fee)
}
