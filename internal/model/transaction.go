package model

// Transaction is an expense or earning joined with the labels of the category
// and car it references. A label is nil when the referenced row does not exist.
type Transaction struct {
	CategoryLabel *string
	CarLabel      *string
	Kind          Kind
	Entry
}

// CategoryName returns the category label, or "" when it is missing.
func (t Transaction) CategoryName() string {
	if t.CategoryLabel == nil {
		return ""
	}
	return *t.CategoryLabel
}

// CarName returns the car label, or "" when it is missing.
func (t Transaction) CarName() string {
	if t.CarLabel == nil {
		return ""
	}
	return *t.CarLabel
}

// IsExpense reports whether the row came from the expense table.
func (t Transaction) IsExpense() bool {
	return t.Kind == KindExpense
}

// Snapshot is a consistent read of every table, taken inside one transaction.
type Snapshot struct {
	Expenses   []Entry
	Earnings   []Entry
	Cars       []Car
	Categories []Category
}

// Seed holds the default rows inserted into an empty database.
type Seed struct {
	Car      Car
	Category Category
}
