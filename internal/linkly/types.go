package linkly

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// linkExport is one element of the links/export response.
type linkExport struct {
	ID          flexID `json:"id"`
	Name        string `json:"name"`
	URL         string `json:"url"`
	ClicksCount *int64 `json:"clicks_count"`
}

// clicksResponse is the body of the clicks endpoint. Elements are decoded
// one at a time so a single mistyped point cannot fail the whole body.
type clicksResponse struct {
	Traffic []json.RawMessage `json:"traffic"`
}

// trafficPoint is a raw {t, y} pair. y is kept as a number literal so
// fractional or out-of-range values can be rejected point by point.
type trafficPoint struct {
	T string      `json:"t"`
	Y json.Number `json:"y"`
}

// flexID accepts link IDs encoded as either JSON numbers or strings.
type flexID string

func (f *flexID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*f = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = flexID(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("link id: %w", err)
	}
	*f = flexID(n.String())
	return nil
}
