package domain

// Account is a ledger account holding a non-negative balance in the smallest currency unit.
type Account struct {
	ID        string
	CreatedAt int64 // logical timestamp in milliseconds
	Balance   int64
}

// NewAccount returns a zero-balance account created at the given logical time.
func NewAccount(id string, createdAt int64) *Account {
	return &Account{
		ID:        id,
		CreatedAt: createdAt,
	}
}

// ValidateDebit checks if account can be debited by amount.
func (a *Account) ValidateDebit(amount int64) error {
	if a.Balance < amount {
		return ErrInsufficientFunds
	}
	return nil
}

// ApplyDebit returns new balance after debit.
func (a *Account) ApplyDebit(amount int64) int64 {
	return a.Balance - amount
}

// ApplyCredit returns new balance after credit.
func (a *Account) ApplyCredit(amount int64) int64 {
	return a.Balance + amount
}
