package storage

import (
	"database/sql/driver"
	"fmt"

	"golang.org/x/text/cases"
	"modernc.org/sqlite"
)

// casefoldFunc is the SQLite scalar that Unicode case-folds text. SQLite's
// LIKE only folds ASCII letters.
const casefoldFunc = "casefold"

func init() {
	if err := sqlite.RegisterDeterministicScalarFunction(casefoldFunc, 1, casefold); err != nil {
		panic(fmt.Sprintf("register sqlite %s: %v", casefoldFunc, err))
	}
}

func casefold(_ *sqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
	switch v := args[0].(type) {
	case string:
		return cases.Fold().String(v), nil
	case []byte:
		return cases.Fold().String(string(v)), nil
	default:
		return v, nil
	}
}
