package filter

// Form is an in-memory set of controls. It backs commands that take their
// filters from flags, and tests.
type Form struct {
	values   map[string]string
	groups   map[string][]checkbox
	selected map[string]string
}

type checkbox struct {
	value   string
	checked bool
}

func NewForm() *Form {
	return &Form{
		values:   make(map[string]string),
		groups:   make(map[string][]checkbox),
		selected: make(map[string]string),
	}
}

// FormFromCriteria returns a form whose controls read back as c.
func FormFromCriteria(c Criteria) *Form {
	f := NewForm()
	f.SetValue(SearchTextID, c.SearchText)
	f.SetValue(StartDateID, c.StartDate)
	f.SetValue(EndDateID, c.EndDate)
	for _, s := range c.Sources {
		f.AddCheckbox(SourcesID, s, true)
	}
	for _, w := range c.Writers {
		f.AddCheckbox(WritersID, w, true)
	}
	for _, s := range c.Sentiments {
		f.AddCheckbox(SentimentsID, s, true)
	}
	words := []string{Word1ID, Word2ID}
	for i, w := range c.ExtraWords {
		if i >= len(words) {
			break
		}
		f.SetValue(words[i], w)
	}
	if c.SortBy != "" {
		f.Select(SortByID, c.SortBy)
	}
	return f
}

func (f *Form) SetValue(id, v string) {
	f.values[id] = v
}

// AddCheckbox appends a checkbox to a group, keeping insertion order as the
// document order.
func (f *Form) AddCheckbox(group, value string, checked bool) {
	f.groups[group] = append(f.groups[group], checkbox{value: value, checked: checked})
}

func (f *Form) Select(id, value string) {
	f.selected[id] = value
}

func (f *Form) Value(id string) (string, bool) {
	v, ok := f.values[id]
	return v, ok
}

func (f *Form) Checked(group string) []string {
	var out []string
	for _, cb := range f.groups[group] {
		if cb.checked {
			out = append(out, cb.value)
		}
	}
	return out
}

func (f *Form) Selected(id string) (string, bool) {
	v, ok := f.selected[id]
	return v, ok
}
