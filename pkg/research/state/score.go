package state

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
)

// Score is a 0-100 rating. Models asked for an integer still answer with fractions, decimals
// or quoted numbers, so decoding accepts all of them. A value in (0,1) is read as a fraction
// of 100.
type Score int

func (s *Score) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*s = 0
		return nil
	}

	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		var str string
		if json.Unmarshal(data, &str) != nil {
			return err
		}
		parsed, perr := strconv.ParseFloat(str, 64)
		if perr != nil {
			return err
		}
		v = parsed
	}

	if v > 0 && v < 1 {
		v *= 100
	}
	*s = Score(math.Round(math.Max(0, math.Min(100, v))))
	return nil
}
