package router

import (
	"context"
	"errors"
	"net/http"
)

// ruleContextKey is an unexported type for the single context key.
type ruleContextKey struct{}

// ctxKey is the single context key used to store both rule and vars.
var ctxKey = ruleContextKey{}

// ruleContext holds the matched rule and extracted variables.
type ruleContext struct {
	rule *Rule
	vars map[string]string
}

// Vars returns the placeholder values for the current request, if any.
func Vars(r *http.Request) map[string]string {
	if rc, ok := r.Context().Value(ctxKey).(*ruleContext); ok {
		return rc.vars
	}
	return nil
}

// VarGet returns the value of a single placeholder by name and a boolean
// indicating whether it exists.
func VarGet(r *http.Request, name string) (string, bool) {
	if rc, ok := r.Context().Value(ctxKey).(*ruleContext); ok && rc.vars != nil {
		val, exists := rc.vars[name]
		return val, exists
	}
	return "", false
}

// CurrentRule returns the matched rule for the current request, if any.
func CurrentRule(r *http.Request) *Rule {
	if rc, ok := r.Context().Value(ctxKey).(*ruleContext); ok {
		return rc.rule
	}
	return nil
}

// SetURLVars sets the placeholder values for the given request, returning
// the modified request. This is intended for testing handlers.
func SetURLVars(r *http.Request, val map[string]string) *http.Request {
	var rule *Rule
	if rc, ok := r.Context().Value(ctxKey).(*ruleContext); ok {
		rule = rc.rule
	}
	return setRuleContext(r, rule, val)
}

func setRuleContext(r *http.Request, rule *Rule, vars map[string]string) *http.Request {
	ctx := context.WithValue(r.Context(), ctxKey, &ruleContext{rule: rule, vars: vars})
	return r.WithContext(ctx)
}

// Match stores information about a matched rule.
type Match struct {
	// Rule is the matched rule, if any.
	Rule *Rule

	// Handler is the handler to use for the matched rule.
	Handler http.Handler

	// Vars contains the placeholder values of the matched rule.
	Vars map[string]string

	// MatchErr is set to ErrMethodMismatch when the request method does not
	// match but the path does, and to ErrNotFound when nothing matched.
	MatchErr error
}

// ErrMethodMismatch is returned when the method in the request does not match
// the methods of the rule.
var ErrMethodMismatch = errors.New("method is not allowed")

// ErrNotFound is returned when no rule matches.
var ErrNotFound = errors.New("no matching rule was found")
