package postgrest

import (
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/join-admiral/ADVP-Economic-Dashboard/internal/persistence"
)

var quoteEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

// query starts a filter set scoped to a tenant.
func query(columns []string, tenantID int64) url.Values {
	params := url.Values{}
	params.Set("select", strings.Join(columns, ","))
	params.Set("tenant_id", "eq."+strconv.FormatInt(tenantID, 10))
	return params
}

// containsValue is the ilike operand matching q as a literal substring.
func containsValue(q string) string {
	return "*" + persistence.EscapeLike(q) + "*"
}

// quoted wraps a value for use inside a logic tree such as or=(...).
func quoted(v string) string {
	return `"` + quoteEscaper.Replace(v) + `"`
}

// anyILike builds the or=(...) operand matching q against every column.
func anyILike(columns []string, q string) string {
	operand := quoted(containsValue(q))
	parts := make([]string, 0, len(columns))
	for _, col := range columns {
		parts = append(parts, col+".ilike."+operand)
	}
	return "(" + strings.Join(parts, ",") + ")"
}

// touchesWindow builds the or=(...) operand keeping rows whose check-in or
// check-out lies in [start, end).
func touchesWindow(start, end time.Time) string {
	from := quoted(start.UTC().Format(time.RFC3339Nano))
	to := quoted(end.UTC().Format(time.RFC3339Nano))
	return "(and(check_in.gte." + from + ",check_in.lt." + to + ")," +
		"and(check_out.gte." + from + ",check_out.lt." + to + "))"
}
