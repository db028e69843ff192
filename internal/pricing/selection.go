package pricing

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"

	"github.com/andreasstove999/ecommerce-system/checkout-service-go/internal/menu"
)

// Value is the user's chosen value for one option. The concrete type is fixed
// by the option kind: ChoiceValue, ChoicesValue, QuantityValue or TextValue.
type Value interface {
	Kind() menu.OptionKind
}

type ChoiceValue struct {
	ChoiceID string
}

func (ChoiceValue) Kind() menu.OptionKind { return menu.KindSingleChoice }

type ChoicesValue struct {
	ChoiceIDs []string
}

func (ChoicesValue) Kind() menu.OptionKind { return menu.KindMultiChoice }

type QuantityValue struct {
	Count int
}

func (QuantityValue) Kind() menu.OptionKind { return menu.KindQuantity }

type TextValue struct {
	Text string
}

func (TextValue) Kind() menu.OptionKind { return menu.KindFreeText }

// Selections maps option ids to values. It is immutable: With returns a new
// set in which exactly one entry is replaced.
type Selections struct {
	values map[string]Value
}

func NewSelections() Selections {
	return Selections{}
}

func (s Selections) With(optionID string, v Value) Selections {
	next := make(map[string]Value, len(s.values)+1)
	for k, old := range s.values {
		next[k] = old
	}
	if cv, ok := v.(ChoicesValue); ok {
		v = ChoicesValue{ChoiceIDs: append([]string(nil), cv.ChoiceIDs...)}
	}
	next[optionID] = v
	return Selections{values: next}
}

func (s Selections) Get(optionID string) (Value, bool) {
	v, ok := s.values[optionID]
	return v, ok
}

func (s Selections) Len() int { return len(s.values) }

// OptionIDs returns the selected option ids in sorted order.
func (s Selections) OptionIDs() []string {
	ids := make([]string, 0, len(s.values))
	for id := range s.values {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Defaults builds the selection set a customization form starts from.
func Defaults(item menu.MenuItem) Selections {
	sel := NewSelections()
	for _, opt := range item.Options {
		switch opt.Kind {
		case menu.KindQuantity:
			n := 1
			if opt.Default != "" {
				if parsed, err := strconv.Atoi(opt.Default); err == nil && parsed >= 1 {
					n = parsed
				}
			}
			sel = sel.With(opt.ID, QuantityValue{Count: n})
		case menu.KindFreeText:
			sel = sel.With(opt.ID, TextValue{Text: opt.Default})
		case menu.KindSingleChoice:
			if opt.Default != "" {
				sel = sel.With(opt.ID, ChoiceValue{ChoiceID: opt.Default})
			}
		case menu.KindMultiChoice:
			sel = sel.With(opt.ID, ChoicesValue{ChoiceIDs: opt.DefaultChoices})
		}
	}
	return sel
}

// Bind decodes wire selections for item on top of its defaults. Each raw value
// must have the JSON shape of its option kind: a string for single choice and
// free text, a string array for multi choice and an integer for quantity.
// A JSON null resets the option to its default.
func Bind(item menu.MenuItem, raw map[string]json.RawMessage) (Selections, error) {
	sel := Defaults(item)

	ids := make([]string, 0, len(raw))
	for id := range raw {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		opt, ok := item.Option(id)
		if !ok {
			return Selections{}, &InvalidSelectionError{OptionID: id, Reason: "unknown option"}
		}
		data := bytes.TrimSpace(raw[id])
		if len(data) == 0 || bytes.Equal(data, []byte("null")) {
			continue
		}

		v, err := decodeValue(opt, data)
		if err != nil {
			return Selections{}, err
		}
		if err := checkChoices(opt, v); err != nil {
			return Selections{}, err
		}
		sel = sel.With(id, v)
	}
	return sel, nil
}

func decodeValue(opt menu.CustomizationOption, data []byte) (Value, error) {
	switch opt.Kind {
	case menu.KindSingleChoice:
		var id string
		if err := json.Unmarshal(data, &id); err != nil {
			return nil, &InvalidSelectionError{OptionID: opt.ID, Reason: "expected a choice id"}
		}
		return ChoiceValue{ChoiceID: id}, nil
	case menu.KindMultiChoice:
		var ids []string
		if err := json.Unmarshal(data, &ids); err != nil {
			return nil, &InvalidSelectionError{OptionID: opt.ID, Reason: "expected a list of choice ids"}
		}
		return ChoicesValue{ChoiceIDs: ids}, nil
	case menu.KindQuantity:
		var n int
		if err := json.Unmarshal(data, &n); err != nil {
			return nil, &InvalidSelectionError{OptionID: opt.ID, Reason: "expected an integer"}
		}
		return QuantityValue{Count: n}, nil
	case menu.KindFreeText:
		var text string
		if err := json.Unmarshal(data, &text); err != nil {
			return nil, &InvalidSelectionError{OptionID: opt.ID, Reason: "expected text"}
		}
		return TextValue{Text: text}, nil
	}
	return nil, &InvalidSelectionError{OptionID: opt.ID, Reason: fmt.Sprintf("unsupported kind %q", opt.Kind)}
}

// checkChoices verifies that a value fits its option: matching kind, known
// choice ids, no duplicates and positive quantities.
func checkChoices(opt menu.CustomizationOption, v Value) error {
	if v.Kind() != opt.Kind {
		return &InvalidSelectionError{OptionID: opt.ID, Reason: fmt.Sprintf("%s value for %s option", v.Kind(), opt.Kind)}
	}

	switch val := v.(type) {
	case ChoiceValue:
		if val.ChoiceID == "" {
			return nil
		}
		if _, ok := opt.Choice(val.ChoiceID); !ok {
			return &InvalidSelectionError{OptionID: opt.ID, Reason: fmt.Sprintf("unknown choice %q", val.ChoiceID)}
		}
	case ChoicesValue:
		seen := make(map[string]struct{}, len(val.ChoiceIDs))
		for _, id := range val.ChoiceIDs {
			if _, ok := opt.Choice(id); !ok {
				return &InvalidSelectionError{OptionID: opt.ID, Reason: fmt.Sprintf("unknown choice %q", id)}
			}
			if _, dup := seen[id]; dup {
				return &InvalidSelectionError{OptionID: opt.ID, Reason: fmt.Sprintf("choice %q selected twice", id)}
			}
			seen[id] = struct{}{}
		}
	case QuantityValue:
		if val.Count < 1 {
			return &InvalidSelectionError{OptionID: opt.ID, Reason: "quantity must be at least 1"}
		}
	}
	return nil
}
