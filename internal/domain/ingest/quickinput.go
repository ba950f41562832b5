package ingest

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/hausbuch/hausbuch/internal/domain/catalog"
)

var accountToken = regexp.MustCompile(`\$(\w+)`)

// Expand rewrites quick-input shorthand before parsing. It is line-oriented,
// single-pass and non-recursive; every substitution is first-match-wins and
// case-insensitive, and an unmatched hint passes through untouched.
//
//	$hint   -> first account whose lowercase form starts with hint
//	## #hint -> category header naming the first category containing hint
//	?hint   -> "<product name> >> <standard price>" for the first product
//	           whose name contains hint
func Expand(text string, products []catalog.Product, categories, accounts []string) string {
	lines := strings.Split(text, "\n")
	expanded := make([]string, 0, len(lines))

	for _, line := range lines {
		line = accountToken.ReplaceAllStringFunc(line, func(token string) string {
			hint := strings.ToLower(token[1:])
			for _, account := range accounts {
				if strings.HasPrefix(strings.ToLower(account), hint) {
					return account
				}
			}
			return token
		})

		if strings.HasPrefix(line, "## #") {
			hint := strings.ToLower(strings.TrimSpace(line[4:]))
			for _, category := range categories {
				if strings.Contains(strings.ToLower(category), hint) {
					line = "## " + category
					break
				}
			}
		}

		if trimmed := strings.TrimSpace(line); strings.HasPrefix(trimmed, "?") {
			hint := strings.ToLower(strings.TrimSpace(trimmed[1:]))
			for _, product := range products {
				if strings.Contains(strings.ToLower(product.Name), hint) {
					price := strconv.FormatFloat(product.StandardPrice, 'f', -1, 64)
					line = fmt.Sprintf("%s >> %s", product.Name, price)
					break
				}
			}
		}

		expanded = append(expanded, line)
	}

	return strings.Join(expanded, "\n")
}
