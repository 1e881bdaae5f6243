// Package validation runs the per-endpoint field checks that guard every
// write.  A Chain is an ordered list of named rules; every rule runs, the
// ones that touch the store run concurrently, and the failures come back
// in rule order.
package validation

import (
	"context"
	"strings"

	"golang.org/x/sync/errgroup"
)

// Location of a failing field, as reported to clients.
const (
	Body   = "body"
	Query  = "query"
	Params = "params"
)

// Failure is one rejected field.
type Failure struct {
	Msg      string `json:"msg"`
	Param    string `json:"param"`
	Location string `json:"location"`
}

// Errors is the full list of failures of one request.
type Errors []Failure

func (e Errors) Error() string {
	msgs := make([]string, len(e))
	for i, f := range e {
		msgs[i] = f.Param + ": " + f.Msg
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// Check inspects one value.  It returns a non-empty message to reject the
// field, or an error when the check itself could not run (for instance a
// failed store lookup).
type Check func(ctx context.Context) (msg string, err error)

// Rule binds a check to the field it reports on.
type Rule struct {
	Param    string
	Location string
	Check    Check
}

// Chain is the ordered rule list of one endpoint.
type Chain []Rule

// Run executes every rule and returns the failures in rule order, or nil
// when all rules pass.  A non-nil error means a check could not complete;
// in that case the failures are not meaningful.
func (ch Chain) Run(ctx context.Context) (Errors, error) {
	msgs := make([]string, len(ch))
	g, gctx := errgroup.WithContext(ctx)
	for i, r := range ch {
		g.Go(func() error {
			msg, err := r.Check(gctx)
			if err != nil {
				return err
			}
			msgs[i] = msg
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var out Errors
	for i, r := range ch {
		if msgs[i] == "" {
			continue
		}
		loc := r.Location
		if loc == "" {
			loc = Body
		}
		out = append(out, Failure{Msg: msgs[i], Param: r.Param, Location: loc})
	}
	return out, nil
}
