package ingest

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hausbuch/hausbuch/internal/domain/catalog"
)

var (
	testProducts = []catalog.Product{
		{Name: "Milch 3.5%", StandardPrice: 1.29},
		{Name: "Milchreis", StandardPrice: 0.99},
		{Name: "Vollkornbrot", StandardPrice: 2.5},
	}
	testCategories = []string{"水果", "谷物", "饮料", "日用品"}
	testAccounts   = []string{"EC-Karte", "PayPal", "Bargeld"}
)

func expand(text string) string {
	return Expand(text, testProducts, testCategories, testAccounts)
}

func TestExpand_AccountPrefix(t *testing.T) {
	assert.Equal(t, "出金：PayPal", expand("出金：$pay"))
	assert.Equal(t, "出金：EC-Karte", expand("出金：$ec"))
	// Case-insensitive
	assert.Equal(t, "出金：Bargeld", expand("出金：$BAR"))
}

func TestExpand_AccountHintUnmatchedPassesThrough(t *testing.T) {
	assert.Equal(t, "出金：$visa", expand("出金：$visa"))
}

func TestExpand_CategoryContains(t *testing.T) {
	assert.Equal(t, "## 日用品", expand("## #用品"))
	assert.Equal(t, "## #肉类", expand("## #肉类"), "unmatched hint stays put")
}

func TestExpand_ProductLine(t *testing.T) {
	// First product containing the hint wins
	assert.Equal(t, "Milch 3.5% >> 1.29", expand("?milch"))
	assert.Equal(t, "Vollkornbrot >> 2.5", expand("?brot"))
	assert.Equal(t, "?steak", expand("?steak"))
}

func TestExpand_MultipleLines(t *testing.T) {
	in := "---\n出金：$pay\n---\n## #饮\n?milch"
	want := "---\n出金：PayPal\n---\n## 饮料\nMilch 3.5% >> 1.29"
	assert.Equal(t, want, expand(in))
}

func TestExpand_NoTokensIsIdentity(t *testing.T) {
	in := "---\n日期：2025-09-20\n---\n## 饮料\nMilch >> 1.29"
	assert.Equal(t, in, expand(in))
}

func TestExpand_SinglePassIsNotRecursive(t *testing.T) {
	// The expanded product line is not re-scanned for further hints
	products := []catalog.Product{{Name: "?seltsam", StandardPrice: 1}}
	out := Expand("?seltsam", products, nil, nil)
	assert.Equal(t, "?seltsam >> 1", out)
}
