package ingest

import (
	"strings"

	"github.com/hausbuch/hausbuch/internal/domain/item"
	"github.com/hausbuch/hausbuch/internal/domain/subscription"
)

// ParseSubscriptions parses a subscription block. Body lines look like
//
//	订阅:M:25 Crunchyroll >> 6.99
//	订阅:Y:0101 Adobe CC >> 599
//
// with the same metadata-section convention as purchase blocks. The first
// due date is the soonest anchor occurrence strictly after today.
func (p *Parser) ParseSubscriptions(text string) ([]subscription.Subscription, error) {
	var md Metadata
	inMetadata := false
	subs := make([]subscription.Subscription, 0)

	for _, raw := range strings.Split(strings.TrimSpace(text), "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}

		switch {
		case isSeparator(line):
			inMetadata = !inMetadata
		case inMetadata:
			parseMetadataLine(line, &md)
		case strings.HasPrefix(line, subscription.Keyword+":"):
			sub, ok, err := p.parseSubscriptionLine(line, md)
			if err != nil {
				return nil, err
			}
			if ok {
				subs = append(subs, sub)
			}
		}
	}

	return subs, nil
}

func (p *Parser) parseSubscriptionLine(line string, md Metadata) (subscription.Subscription, bool, error) {
	head, rest, found := strings.Cut(line, " ")
	if !found {
		return subscription.Subscription{}, false, nil
	}

	config := strings.Split(head, ":")
	if len(config) < 3 || !strings.Contains(rest, ">>") {
		return subscription.Subscription{}, false, nil
	}
	period := subscription.Period(config[1])
	anchor := config[2]

	namePart, pricePart, _ := strings.Cut(rest, ">>")
	name := strings.TrimSpace(namePart)
	price, err := parseAmount(pricePart, line)
	if err != nil {
		return subscription.Subscription{}, false, err
	}

	next, err := subscription.NextAfter(period, anchor, p.now)
	if err != nil {
		return subscription.Subscription{}, false, err
	}

	md = md.withDefaults(p.today(), p.engine.BaseCurrency())
	category := md.Category
	if category == "" {
		category = subscription.DefaultCategory
	}

	return subscription.Subscription{
		Name:     name,
		Price:    price,
		Period:   period,
		Anchor:   anchor,
		NextDate: next.Format(item.DateLayout),
		Currency: md.Currency,
		Source:   md.Source,
		Account:  md.Account,
		Category: category,
	}, true, nil
}
