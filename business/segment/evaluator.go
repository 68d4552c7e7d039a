package segment

import (
	"encoding/json"
	"fmt"
	"marketingCRM/domain"
	"reflect"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/cases"
)

const (
	OpEq       = "eq"
	OpNeq      = "neq"
	OpGt       = "gt"
	OpGte      = "gte"
	OpLt       = "lt"
	OpLte      = "lte"
	OpContains = "contains"
	OpIn       = "in"
)

// Matches reports whether customer satisfies criteria. An empty rule list
// matches everyone; "all" (or no match mode) ANDs the rules and any other
// mode ORs them.
func Matches(customer domain.Customer, criteria domain.SegmentCriteria) bool {
	if len(criteria.Rules) == 0 {
		return true
	}

	matchAll := criteria.Match == "" || criteria.Match == domain.MatchAll

	for _, rule := range criteria.Rules {
		actual, ok := resolveField(customer, rule.Field)
		result := ok && evaluateRule(actual, rule.Operator, rule.Value)

		if matchAll && !result {
			return false
		}
		if !matchAll && result {
			return true
		}
	}

	return matchAll
}

// resolveField reads a dotted path off a customer. Only the first key below
// demographics or behavioral_data is used; purchase_history is always returned whole.
func resolveField(c domain.Customer, path string) (any, bool) {
	parts := strings.Split(path, ".")

	switch parts[0] {
	case "demographics":
		return bagValue(c.Demographics, parts)
	case "behavioral_data":
		return bagValue(c.BehavioralData, parts)
	case "purchase_history":
		return purchaseList(c.PurchaseHistory), true
	}

	return customerAttribute(c, parts[0])
}

func bagValue(bag map[string]any, parts []string) (any, bool) {
	if bag == nil {
		bag = map[string]any{}
	}
	if len(parts) == 1 {
		return bag, true
	}
	v, ok := bag[parts[1]]
	if !ok || v == nil {
		return nil, false
	}
	return v, true
}

func purchaseList(history []domain.Purchase) []any {
	list := make([]any, 0, len(history))
	for _, p := range history {
		list = append(list, map[string]any{
			"product": p.Product,
			"amount":  p.Amount,
			"date":    p.Date,
		})
	}
	return list
}

func customerAttribute(c domain.Customer, name string) (any, bool) {
	switch name {
	case "id":
		return c.ID, true
	case "name":
		return c.Name, true
	case "email":
		return c.Email, true
	case "phone":
		if c.Phone == nil {
			return nil, false
		}
		return *c.Phone, true
	case "status":
		return c.Status, true
	case "lead_source":
		if c.LeadSource == nil {
			return nil, false
		}
		return *c.LeadSource, true
	case "total_spent":
		return c.TotalSpent, true
	case "lifetime_value":
		return c.LifetimeValue, true
	case "engagement_score":
		return c.EngagementScore, true
	case "created_at":
		return c.CreatedAt.Format(time.RFC3339), true
	case "updated_at":
		return c.UpdatedAt.Format(time.RFC3339), true
	}

	return nil, false
}

func evaluateRule(actual any, operator string, expected any) bool {
	if actual == nil {
		return false
	}

	switch operator {
	case OpEq:
		return equal(actual, expected)
	case OpNeq:
		return !equal(actual, expected)
	case OpGt, OpGte, OpLt, OpLte:
		a, ok := toFloat(actual)
		if !ok {
			return false
		}
		e, ok := toFloat(expected)
		if !ok {
			return false
		}
		switch operator {
		case OpGt:
			return a > e
		case OpGte:
			return a >= e
		case OpLt:
			return a < e
		default:
			return a <= e
		}
	case OpContains:
		fold := cases.Fold()
		return strings.Contains(fold.String(stringify(actual)), fold.String(stringify(expected)))
	case OpIn:
		return contains(expected, actual)
	}

	return false
}

// equal compares numbers by value regardless of their Go type and everything
// else structurally.
func equal(a, b any) bool {
	if af, ok := number(a); ok {
		if bf, ok := number(b); ok {
			return af == bf
		}
		return false
	}
	if _, ok := number(b); ok {
		return false
	}
	return reflect.DeepEqual(a, b)
}

// number accepts only numeric kinds, not numeric strings.
func number(v any) (float64, bool) {
	if n, ok := v.(json.Number); ok {
		f, err := n.Float64()
		return f, err == nil
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(rv.Uint()), true
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	}
	return 0, false
}

// toFloat is the lenient coercion used by ordering operators: numbers,
// booleans and numeric strings convert, anything else fails.
func toFloat(v any) (float64, bool) {
	if f, ok := number(v); ok {
		return f, true
	}

	switch t := v.(type) {
	case bool:
		if t {
			return 1, true
		}
		return 0, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		return f, err == nil
	}
	return 0, false
}

func stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return "None"
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		if t {
			return "True"
		}
		return "False"
	}
	return fmt.Sprint(v)
}

// contains reports whether needle is in haystack: list membership, substring
// for strings, key membership for objects.
func contains(haystack, needle any) bool {
	switch h := haystack.(type) {
	case []any:
		for _, item := range h {
			if equal(needle, item) {
				return true
			}
		}
		return false
	case string:
		s, ok := needle.(string)
		return ok && strings.Contains(h, s)
	case map[string]any:
		key, ok := needle.(string)
		if !ok {
			return false
		}
		_, found := h[key]
		return found
	}

	rv := reflect.ValueOf(haystack)
	if rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array {
		for i := 0; i < rv.Len(); i++ {
			if equal(needle, rv.Index(i).Interface()) {
				return true
			}
		}
	}
	return false
}
