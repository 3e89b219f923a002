package ledger

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// Account is a ledger entry owned by a single holder.
type Account struct {
	ID         int64
	HolderName *string
	Balance    *float64
}

// clone returns a deep copy so callers never share pointers with stored state.
func (a Account) clone() Account {
	out := Account{ID: a.ID}
	if a.HolderName != nil {
		name := *a.HolderName
		out.HolderName = &name
	}
	if a.Balance != nil {
		balance := *a.Balance
		out.Balance = &balance
	}
	return out
}

// Amount is a balance value on the wire. JSON numbers cannot carry NaN or the
// infinities, so those travel as the strings "NaN", "Infinity" and "-Infinity".
type Amount float64

// MarshalJSON implements json.Marshaler.
func (a Amount) MarshalJSON() ([]byte, error) {
	f := float64(a)
	switch {
	case math.IsNaN(f):
		return []byte(`"NaN"`), nil
	case math.IsInf(f, 1):
		return []byte(`"Infinity"`), nil
	case math.IsInf(f, -1):
		return []byte(`"-Infinity"`), nil
	}
	return []byte(strconv.FormatFloat(f, 'f', -1, 64)), nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (a *Amount) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		switch s {
		case "NaN":
			*a = Amount(math.NaN())
		case "Infinity":
			*a = Amount(math.Inf(1))
		case "-Infinity":
			*a = Amount(math.Inf(-1))
		default:
			return fmt.Errorf("invalid amount %q", s)
		}
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	*a = Amount(f)
	return nil
}
