package dom

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/rubiojr/letterpress/pkg/filter"
)

// Value returns the current value of the control with the given id.
func (p *Page) Value(id string) (string, bool) {
	s := p.byID(id)
	if s.Length() == 0 {
		return "", false
	}
	switch goquery.NodeName(s) {
	case "textarea":
		return s.Text(), true
	case "select":
		return p.selectedOption(s)
	default:
		return s.AttrOr("value", ""), true
	}
}

// Checked returns the values of the checked inputs inside group, in document
// order. Inputs without a value attribute report "on", like a browser.
func (p *Page) Checked(group string) []string {
	var values []string
	p.byID(group).Find("input").Each(func(_ int, s *goquery.Selection) {
		if _, ok := s.Attr("checked"); ok {
			values = append(values, s.AttrOr("value", "on"))
		}
	})
	return values
}

// Selected returns the selected option of a select. With no explicit
// selection the first option counts as selected.
func (p *Page) Selected(id string) (string, bool) {
	s := p.byID(id)
	if s.Length() == 0 {
		return "", false
	}
	return p.selectedOption(s)
}

func (p *Page) selectedOption(sel *goquery.Selection) (string, bool) {
	opt := sel.Find("option[selected]").First()
	if opt.Length() == 0 {
		opt = sel.Find("option").First()
	}
	if opt.Length() == 0 {
		return "", false
	}
	return optionValue(opt), true
}

func optionValue(opt *goquery.Selection) string {
	if v, ok := opt.Attr("value"); ok {
		return v
	}
	return collapse(opt.Text())
}

// SetValue changes the value of a text input, textarea or select.
func (p *Page) SetValue(id, value string) error {
	s := p.byID(id)
	if s.Length() == 0 {
		return fmt.Errorf("%w: #%s", ErrNoControl, id)
	}
	switch goquery.NodeName(s) {
	case "textarea":
		s.SetText(value)
	case "select":
		return p.Select(id, value)
	default:
		s.SetAttr("value", value)
	}
	return nil
}

// Check ticks the checkbox of group whose value or label matches want.
func (p *Page) Check(group, want string) error {
	g := p.byID(group)
	if g.Length() == 0 {
		return fmt.Errorf("%w: #%s", ErrNoControl, group)
	}
	found := false
	g.Find("input").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if s.AttrOr("value", "on") == want || strings.EqualFold(p.labelFor(s), want) {
			s.SetAttr("checked", "checked")
			found = true
			return false
		}
		return true
	})
	if !found {
		return fmt.Errorf("%w: %q in #%s", ErrNoCheckbox, want, group)
	}
	return nil
}

func (p *Page) labelFor(input *goquery.Selection) string {
	if id, ok := input.Attr("id"); ok && id != "" {
		if l := p.doc.Find(`label[for="` + id + `"]`).First(); l.Length() > 0 {
			return collapse(l.Text())
		}
	}
	return collapse(input.Closest("label").Text())
}

// ClearGroup unticks every checkbox of group.
func (p *Page) ClearGroup(group string) {
	p.byID(group).Find("input").RemoveAttr("checked")
}

// Select marks the option whose value or text matches want as the only
// selected option.
func (p *Page) Select(id, want string) error {
	s := p.byID(id)
	if s.Length() == 0 {
		return fmt.Errorf("%w: #%s", ErrNoControl, id)
	}
	var match *goquery.Selection
	s.Find("option").EachWithBreak(func(_ int, opt *goquery.Selection) bool {
		if optionValue(opt) == want || strings.EqualFold(collapse(opt.Text()), want) {
			match = opt
			return false
		}
		return true
	})
	if match == nil {
		return fmt.Errorf("%w: %q in #%s", ErrNoOption, want, id)
	}
	s.Find("option").RemoveAttr("selected")
	match.SetAttr("selected", "selected")
	return nil
}

// Fill writes c into the page's filter form. Controls the page does not
// have are skipped when the matching criterion is empty, and reported
// otherwise.
func (p *Page) Fill(c filter.Criteria) error {
	scalars := []struct {
		id, value string
	}{
		{filter.SearchTextID, c.SearchText},
		{filter.StartDateID, c.StartDate},
		{filter.EndDateID, c.EndDate},
		{filter.Word1ID, wordAt(c.ExtraWords, 0)},
		{filter.Word2ID, wordAt(c.ExtraWords, 1)},
	}
	for _, sc := range scalars {
		if err := p.SetValue(sc.id, sc.value); err != nil {
			if sc.value == "" {
				continue
			}
			return err
		}
	}

	groups := []struct {
		id     string
		values []string
	}{
		{filter.SourcesID, c.Sources},
		{filter.WritersID, c.Writers},
		{filter.SentimentsID, c.Sentiments},
	}
	for _, g := range groups {
		if p.byID(g.id).Length() == 0 {
			if len(g.values) == 0 {
				continue
			}
			return fmt.Errorf("%w: #%s", ErrNoControl, g.id)
		}
		p.ClearGroup(g.id)
		for _, v := range g.values {
			if err := p.Check(g.id, v); err != nil {
				return err
			}
		}
	}

	if c.SortBy == "" {
		// Back to the default: the first option.
		p.byID(filter.SortByID).Find("option").RemoveAttr("selected")
		return nil
	}
	return p.Select(filter.SortByID, c.SortBy)
}

func wordAt(words []string, i int) string {
	if i < len(words) {
		return words[i]
	}
	return ""
}
