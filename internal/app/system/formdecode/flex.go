package formdecode

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// FlexInt is an int that also unmarshals from a numeric JSON string, so
// sub-objects sent as bracketed form fields decode like native JSON.
type FlexInt int

func (n *FlexInt) UnmarshalJSON(b []byte) error {
	b = bytes.Trim(b, `"`)
	if len(b) == 0 || string(b) == "null" {
		*n = 0
		return nil
	}
	v, err := strconv.Atoi(string(b))
	if err != nil {
		return err
	}
	*n = FlexInt(v)
	return nil
}

// FlexFloat is the float64 counterpart of FlexInt.
type FlexFloat float64

func (f *FlexFloat) UnmarshalJSON(b []byte) error {
	b = bytes.Trim(b, `"`)
	if len(b) == 0 || string(b) == "null" {
		*f = 0
		return nil
	}
	v, err := strconv.ParseFloat(string(b), 64)
	if err != nil {
		return err
	}
	*f = FlexFloat(v)
	return nil
}

var _ json.Unmarshaler = (*FlexInt)(nil)
