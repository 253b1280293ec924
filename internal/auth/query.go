package auth

import "fmt"

// queryBuilder renders the users-table lookup an operation would issue if
// the store were a SQL database. Nothing executes these strings; they are
// logged so the two modes can be compared.
type queryBuilder interface {
	selectBy(column, value string) (query string, args []any)
}

// parameterized keeps input out of the query text.
type parameterized struct{}

func (parameterized) selectBy(column, value string) (string, []any) {
	return fmt.Sprintf("SELECT * FROM users WHERE %s = ?", column), []any{value}
}

// interpolated pastes raw input into the query text.
type interpolated struct{}

func (interpolated) selectBy(column, value string) (string, []any) {
	return fmt.Sprintf("SELECT * FROM users WHERE %s = '%s'", column, value), nil
}
