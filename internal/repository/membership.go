package repository

import (
	"fmt"
	"strings"
)

// membershipPredicate builds the SQL predicate testing whether the
// JSON-encoded professional id set in col contains the id bound at
// placeholder $n. The column is TEXT holding a JSON array, so the
// deconstruction differs per dialect: sqlite reads it directly with
// json_each, postgres needs a jsonb cast and jsonb_array_elements_text.
func membershipPredicate(driver, col string, n int) string {
	if strings.HasPrefix(driver, "pgx") || strings.HasPrefix(driver, "postgres") {
		return fmt.Sprintf(
			`EXISTS (SELECT 1 FROM jsonb_array_elements_text(%s::jsonb) AS member WHERE member = $%d)`,
			col, n,
		)
	}
	return fmt.Sprintf(
		`EXISTS (SELECT 1 FROM json_each(%s) WHERE json_each.value = $%d)`,
		col, n,
	)
}
