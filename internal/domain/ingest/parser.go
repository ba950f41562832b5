package ingest

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	commonErrors "github.com/hausbuch/hausbuch/internal/domain/errors"
	"github.com/hausbuch/hausbuch/internal/domain/deposit"
	"github.com/hausbuch/hausbuch/internal/domain/item"
	"github.com/hausbuch/hausbuch/internal/domain/rates"
)

var returnCount = regexp.MustCompile(`\((\d+)\)`)

// Parser turns a purchase block into structured records. Parsing never
// writes anything: the service persists the block only after the whole text
// parsed cleanly (all-or-nothing per submission).
type Parser struct {
	engine         *rates.Engine
	depositKeyword string
	now            time.Time
}

// NewParser creates a parser resolving exchange rates against the given
// engine
func NewParser(engine *rates.Engine, depositKeyword string, now time.Time) *Parser {
	return &Parser{
		engine:         engine,
		depositKeyword: depositKeyword,
		now:            now,
	}
}

// Block is the parsed form of one submitted purchase text
type Block struct {
	Metadata Metadata
	Items    []item.Item
	Returns  []deposit.Return

	// DepositNames lists, one entry per unit, the deposit-bearing item
	// names whose ledger counts increment
	DepositNames []string
}

// blockState carries the line-to-line parsing context
type blockState struct {
	inMetadata bool
	md         Metadata
	category   string
	block      Block
}

// lineRule is one classifier of the mini-language: a predicate plus an
// extractor, evaluated in fixed priority order until one matches. Lines no
// rule claims are skipped silently.
type lineRule struct {
	matches func(p *Parser, st *blockState, line string) bool
	apply   func(p *Parser, st *blockState, line string) error
}

var purchaseRules = []lineRule{
	{ // metadata section toggle
		matches: func(p *Parser, st *blockState, line string) bool {
			return isSeparator(line)
		},
		apply: func(p *Parser, st *blockState, line string) error {
			st.inMetadata = !st.inMetadata
			return nil
		},
	},
	{ // key：value inside the metadata section
		matches: func(p *Parser, st *blockState, line string) bool {
			return st.inMetadata
		},
		apply: func(p *Parser, st *blockState, line string) error {
			parseMetadataLine(line, &st.md)
			return nil
		},
	},
	{ // category header, sets context for following item lines
		matches: func(p *Parser, st *blockState, line string) bool {
			return strings.HasPrefix(line, "## ")
		},
		apply: func(p *Parser, st *blockState, line string) error {
			st.category = strings.TrimSpace(line[3:])
			return nil
		},
	},
	{ // deposit return: "<keyword> (N) << amount"
		matches: func(p *Parser, st *blockState, line string) bool {
			return strings.HasPrefix(line, p.depositKeyword) && strings.Contains(line, "<<")
		},
		apply: (*Parser).applyDepositReturn,
	},
	{ // item line: "[invoice ::] name >> standard [:: actual]"
		matches: func(p *Parser, st *blockState, line string) bool {
			return strings.Contains(line, ">>")
		},
		apply: (*Parser).applyItemLine,
	},
}

// ParsePurchases parses one purchase block. Unclassifiable lines are
// skipped; malformed numbers, negative discounts and missing exchange rates
// reject the whole block.
func (p *Parser) ParsePurchases(text string) (Block, error) {
	st := &blockState{}

	for _, raw := range strings.Split(strings.TrimSpace(text), "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		for _, rule := range purchaseRules {
			if !rule.matches(p, st, line) {
				continue
			}
			if err := rule.apply(p, st, line); err != nil {
				return Block{}, err
			}
			break
		}
	}

	st.block.Metadata = st.md.withDefaults(p.today(), p.engine.BaseCurrency())
	return st.block, nil
}

func (p *Parser) applyDepositReturn(st *blockState, line string) error {
	left, right, _ := strings.Cut(line, "<<")

	count := returnCount.FindStringSubmatch(left)
	if count == nil {
		// No unit count on the left side; treated like any other
		// unclassifiable line
		return nil
	}
	n, err := strconv.Atoi(count[1])
	if err != nil {
		return &MalformedNumberError{Value: count[1], Line: line}
	}

	amount, err := parseAmount(right, line)
	if err != nil {
		return err
	}

	md := st.md.withDefaults(p.today(), p.engine.BaseCurrency())
	st.block.Returns = append(st.block.Returns, deposit.Return{
		Count:  n,
		Amount: amount,
		Date:   md.Date,
	})
	return nil
}

func (p *Parser) applyItemLine(st *blockState, line string) error {
	left, right, _ := strings.Cut(line, ">>")
	md := st.md.withDefaults(p.today(), p.engine.BaseCurrency())

	invoiceName := ""
	productName := strings.TrimSpace(left)
	if before, after, found := strings.Cut(left, "::"); found {
		invoiceName = strings.TrimSpace(before)
		productName = strings.TrimSpace(after)
		if md.Source != "" {
			invoiceName = md.Source + "_" + invoiceName
		}
	}

	var standardPrice, actualPrice float64
	if before, after, found := strings.Cut(right, "::"); found {
		var err error
		if standardPrice, err = parseAmount(before, line); err != nil {
			return err
		}
		if actualPrice, err = parseAmount(after, line); err != nil {
			return err
		}
	} else {
		price, err := parseAmount(right, line)
		if err != nil {
			return err
		}
		standardPrice = price
		actualPrice = price
	}

	if standardPrice < 0 || actualPrice < 0 {
		return commonErrors.NewValidationError("prices must not be negative").WithDetail("line", line)
	}
	if actualPrice > standardPrice {
		return &NegativeDiscountError{Name: productName, Standard: standardPrice, Actual: actualPrice}
	}

	rate, err := p.engine.Rate(md.Currency, md.Date)
	if err != nil {
		return err
	}

	parsed := item.Item{
		ID:            item.NewID(productName, p.now),
		Name:          productName,
		Category:      st.category,
		ActualPrice:   actualPrice,
		StandardPrice: standardPrice,
		Currency:      md.Currency,
		PurchaseDate:  md.Date,
		Source:        md.Source,
		Account:       md.Account,
		InvoiceName:   invoiceName,
		Discount:      standardPrice - actualPrice,
		PurchaseRate:  rate,
	}
	st.block.Items = append(st.block.Items, parsed)

	if item.IsDepositBearing(parsed, p.depositKeyword) {
		st.block.DepositNames = append(st.block.DepositNames, productName)
	}
	return nil
}

func (p *Parser) today() string {
	return p.now.Format(item.DateLayout)
}

// parseAmount parses a price field, rejecting the block on non-numeric input
func parseAmount(field, line string) (float64, error) {
	value := strings.TrimSpace(field)
	amount, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, &MalformedNumberError{Value: value, Line: line}
	}
	return amount, nil
}
