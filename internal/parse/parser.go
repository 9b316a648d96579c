// Package parse turns extracted document text into food item lists.
package parse

import (
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"unicode"

	"github.com/joseph-ayodele/menu-builder/internal/entity"
	"github.com/joseph-ayodele/menu-builder/internal/items"
)

var reHasLetter = regexp.MustCompile(`[A-Za-z]`)

// Parser extracts FoodItems from menu and production-schedule text.
type Parser struct {
	rules      Rules
	exclude    []string
	admin      []string
	reHeader   *regexp.Regexp
	reCode     *regexp.Regexp
	reProdLine *regexp.Regexp
	logger     *slog.Logger
}

func NewParser(rules Rules, logger *slog.Logger) (*Parser, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if rules.RecipeCodeLetters == "" {
		rules.RecipeCodeLetters = "A-Z"
	}

	code := `[` + rules.RecipeCodeLetters + `]\d{4,5}`
	reCode, err := regexp.Compile(`\b` + code + `\b`)
	if err != nil {
		return nil, fmt.Errorf("recipe code pattern: %w", err)
	}
	reProd, err := regexp.Compile(`^\s*([A-Z][A-Za-z0-9 /\-\(\),&']{3,}?)(?:\s+(` + code + `))?\s*$`)
	if err != nil {
		return nil, fmt.Errorf("production line pattern: %w", err)
	}

	p := &Parser{
		rules:      rules,
		exclude:    upperAll(rules.ExcludeKeywords),
		admin:      upperAll(rules.AdminWords),
		reCode:     reCode,
		reProdLine: reProd,
		logger:     logger,
	}
	if len(rules.SectionHeaders) > 0 {
		quoted := make([]string, 0, len(rules.SectionHeaders))
		for _, h := range rules.SectionHeaders {
			quoted = append(quoted, regexp.QuoteMeta(h))
		}
		p.reHeader = regexp.MustCompile(`(?i)^(?:` + strings.Join(quoted, "|") + `)\b`)
	}
	return p, nil
}

// NewDefaultParser builds a Parser with DefaultRules.
func NewDefaultParser(logger *slog.Logger) *Parser {
	p, err := NewParser(DefaultRules(), logger)
	if err != nil {
		panic(err)
	}
	return p
}

// ParseMenu extracts items from outside-menu text, one candidate per line.
func (p *Parser) ParseMenu(text string) []entity.FoodItem {
	var out []entity.FoodItem
	var lines, dropped int

	for _, raw := range strings.Split(text, "\n") {
		ln := strings.TrimSpace(raw)
		if ln == "" {
			continue
		}
		lines++
		if p.excluded(ln) || p.isSectionHeader(ln) || !reHasLetter.MatchString(ln) {
			dropped++
			continue
		}
		name, rid := p.ExtractNameAndCode(ln)
		// one-word generic headers like "Poultry"
		if name == "" || (len(strings.Fields(name)) < 2 && rid == "") {
			dropped++
			continue
		}
		out = append(out, entity.FoodItem{Name: name, RecipeID: rid})
	}

	out = items.Dedupe(out)
	p.logger.Debug("parse.menu.done", "lines", lines, "dropped", dropped, "items", len(out))
	return out
}

// ParseProduction extracts "Recipe Name [CODE]" lines from production-schedule text.
func (p *Parser) ParseProduction(text string) []entity.FoodItem {
	var out []entity.FoodItem
	var lines, dropped int

	for _, raw := range strings.Split(text, "\n") {
		if strings.TrimSpace(raw) == "" {
			continue
		}
		lines++
		m := p.reProdLine.FindStringSubmatch(strings.TrimRight(raw, "\r"))
		if m == nil {
			dropped++
			continue
		}
		name := strings.TrimSpace(m[1])
		rid := strings.TrimSpace(m[2])
		if p.excluded(name) || p.isSectionHeader(name) || p.isAdmin(name) {
			dropped++
			continue
		}
		if len(name) <= 2 || isDigits(name) {
			dropped++
			continue
		}
		out = append(out, entity.FoodItem{Name: items.Normalize(name), RecipeID: rid})
	}

	out = items.Dedupe(out)
	p.logger.Debug("parse.production.done", "lines", lines, "dropped", dropped, "items", len(out))
	return out
}

// ExtractNameAndCode splits "Roasted Garbanzo Beans R20330" into name and recipe code.
func (p *Parser) ExtractNameAndCode(fragment string) (string, string) {
	frag := strings.TrimSpace(fragment)
	rid := p.reCode.FindString(frag)
	name := frag
	if rid != "" {
		stripped := p.reCode.ReplaceAllStringFunc(frag, func(m string) string {
			if m == rid {
				return ""
			}
			return m
		})
		name = strings.Trim(stripped, " -–—\t")
	}
	return items.Normalize(name), rid
}

func (p *Parser) excluded(line string) bool {
	u := strings.ToUpper(line)
	for _, k := range p.exclude {
		if strings.Contains(u, k) {
			return true
		}
	}
	return false
}

func (p *Parser) isSectionHeader(line string) bool {
	return p.reHeader != nil && p.reHeader.MatchString(line)
}

func (p *Parser) isAdmin(name string) bool {
	u := strings.ToUpper(name)
	for _, w := range p.admin {
		if strings.Contains(u, w) {
			return true
		}
	}
	return false
}

func isDigits(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return s != ""
}

func upperAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, strings.ToUpper(s))
		}
	}
	return out
}
