package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// Query is the subset of the REST query syntax the app uses.
type Query struct {
	Select string
	Order  []string // e.g. "at.desc"; applied in order
	Limit  int
	Offset int
	Eq     map[string]string
}

func (q Query) values() url.Values {
	v := url.Values{}
	if q.Select != "" {
		v.Set("select", q.Select)
	}
	for _, o := range q.Order {
		v.Add("order", o)
	}
	if q.Limit > 0 {
		v.Set("limit", strconv.Itoa(q.Limit))
	}
	if q.Offset > 0 {
		v.Set("offset", strconv.Itoa(q.Offset))
	}
	for col, val := range q.Eq {
		v.Set(col, "eq."+val)
	}
	return v
}

// Select reads rows from table into out (a pointer to a slice).
func (c *Client) Select(ctx context.Context, table string, q Query, out any) error {
	err := c.do(ctx, request{
		method: http.MethodGet,
		path:   "/rest/v1/" + table,
		query:  q.values(),
		auth:   authOptional,
	}, out)
	if err != nil {
		return fmt.Errorf("selecting %s: %w", table, err)
	}
	return nil
}

// Insert writes rows and returns how many the backend echoed back. An
// empty slice is a no-op.
func Insert[T any](ctx context.Context, c *Client, table string, rows []T) (int, error) {
	if len(rows) == 0 {
		return 0, nil
	}
	var echoed []json.RawMessage
	err := c.do(ctx, request{
		method: http.MethodPost,
		path:   "/rest/v1/" + table,
		body:   rows,
		prefer: "return=representation",
		auth:   authRequired,
	}, &echoed)
	if err != nil {
		return 0, fmt.Errorf("inserting into %s: %w", table, err)
	}
	return len(echoed), nil
}

// Delete removes rows matching every eq filter.
func (c *Client) Delete(ctx context.Context, table string, eq map[string]string) error {
	if len(eq) == 0 {
		return fmt.Errorf("deleting from %s: refusing unfiltered delete", table)
	}
	err := c.do(ctx, request{
		method: http.MethodDelete,
		path:   "/rest/v1/" + table,
		query:  Query{Eq: eq}.values(),
		prefer: "return=minimal",
		auth:   authRequired,
	}, nil)
	if err != nil {
		return fmt.Errorf("deleting from %s: %w", table, err)
	}
	return nil
}

// FlexID accepts ids serialized either as JSON strings or numbers.
type FlexID string

func (f *FlexID) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "null" {
		*f = ""
		return nil
	}
	if strings.HasPrefix(s, `"`) {
		var str string
		if err := json.Unmarshal(b, &str); err != nil {
			return err
		}
		*f = FlexID(str)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("id is neither string nor number: %s", s)
	}
	*f = FlexID(n.String())
	return nil
}
