package handlers

import (
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/opsdesk/ticket-admin/internal/i18n"
	"github.com/opsdesk/ticket-admin/internal/query"
)

func requestLocale(c *fiber.Ctx, tr *i18n.Translator) string {
	return tr.Negotiate(c.Query("locale"), c.Get(fiber.HeaderAcceptLanguage))
}

func parseInt(val string, def int) int {
	if val == "" {
		return def
	}
	parsed, err := strconv.Atoi(val)
	if err != nil || parsed <= 0 {
		return def
	}
	return parsed
}

// parseList splits a comma separated query value, dropping blanks.
func parseList(val string) []string {
	if val == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(val, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func parseDate(val string) *time.Time {
	if val == "" {
		return nil
	}
	t, err := query.ParseDate(val)
	if err != nil {
		return nil
	}
	return &t
}

// parseCriteria reads the text query, one set per named field and an
// optional date range.
func parseCriteria(c *fiber.Ctx, fromKey, toKey string, setFields map[string]string) query.Criteria {
	crit := query.Criteria{Text: c.Query("q")}
	for param, field := range setFields {
		if vals := parseList(c.Query(param)); len(vals) > 0 {
			if crit.Sets == nil {
				crit.Sets = map[string][]string{}
			}
			crit.Sets[field] = vals
		}
	}
	if fromKey != "" {
		crit.From = parseDate(c.Query(fromKey))
	}
	if toKey != "" {
		crit.To = parseDate(c.Query(toKey))
	}
	return crit
}

// previousPager rebuilds the pager the client got from its last request.
// Without a filter_key there was none.
func previousPager(c *fiber.Ctx) query.Pager {
	key := c.Query("filter_key")
	if key == "" {
		return query.Pager{}
	}
	return query.Pager{
		FilterKey: key,
		State: query.PageState{
			CurrentPage:  parseInt(c.Query("page"), 1),
			ItemsPerPage: parseInt(c.Query("prev_page_size"), parseInt(c.Query("page_size"), query.DefaultPageSize)),
		},
	}
}
