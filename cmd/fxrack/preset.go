package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/cwbudde/algo-fxrack/dsp/effectchain"
	"github.com/cwbudde/algo-fxrack/plugin"
	"github.com/cwbudde/algo-fxrack/plugin/param"
)

var errPresetSyntax = errors.New("preset: syntax error")

// preset is a text file of "name = value" lines. The key "order" holds a
// processing order such as "chorus,phase,ladder"; every other key names a
// parameter and holds a number or, for choice parameters, a choice name.
// Lines starting with '#' are comments.
type preset struct {
	order    effectchain.Order
	hasOrder bool
	values   map[string]float64
	choices  map[string]string
}

func loadPreset(path string) (preset, error) {
	f, err := os.Open(path)
	if err != nil {
		return preset{}, err
	}
	defer f.Close()

	pr, err := parsePreset(f)
	if err != nil {
		return preset{}, fmt.Errorf("%s: %w", path, err)
	}

	return pr, nil
}

func parsePreset(r io.Reader) (preset, error) {
	pr := preset{
		values:  make(map[string]float64),
		choices: make(map[string]string),
	}

	sc := bufio.NewScanner(r)
	line := 0

	for sc.Scan() {
		line++

		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}

		key, value, ok := strings.Cut(text, "=")
		if !ok {
			return preset{}, fmt.Errorf("%w: line %d: missing '='", errPresetSyntax, line)
		}

		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)

		if strings.EqualFold(key, "order") {
			o, err := effectchain.ParseOrder(value)
			if err != nil {
				return preset{}, fmt.Errorf("line %d: %w", line, err)
			}

			pr.order = o
			pr.hasOrder = !o.IsEmpty()

			continue
		}

		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			pr.choices[key] = value
			continue
		}

		pr.values[key] = v
	}

	if err := sc.Err(); err != nil {
		return preset{}, err
	}

	return pr, nil
}

// apply writes the values into p and queues the order. It returns the
// keys that matched no parameter or choice.
func (pr preset) apply(p *plugin.Processor) (unknown []string, pushed bool) {
	store := p.Parameters()
	unknown = store.SetValues(pr.values)

	for name, choice := range pr.choices {
		prm, ok := store.Lookup(name)
		if !ok {
			unknown = append(unknown, name)
			continue
		}

		c, ok := prm.(*param.Choice)
		if !ok || !c.Select(choice) {
			unknown = append(unknown, name)
		}
	}

	if pr.hasOrder {
		pushed = p.PushOrder(pr.order)
	}

	return unknown, pushed
}
