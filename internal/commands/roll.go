package commands

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"regexp"
	"strconv"
	"strings"

	"github.com/keshon/botinvoker/internal/locale"
	"github.com/keshon/botinvoker/pkg/cmd"
)

var (
	tokenRegex = regexp.MustCompile(`(?i)(\d*d\d+|\d+|[+\-*/])`)
	diceRegex  = regexp.MustCompile(`(?i)^(\d*)d(\d+)$`)
	validOps   = map[string]bool{"+": true, "-": true, "*": true, "/": true}
)

// term is one operand of a formula with the operator that precedes it.
type term struct {
	op    string
	count int // dice count; zero for a constant
	sides int
	value int
}

// Dice is a parsed formula such as "2d20+1d6-2" or "d6*3".
type Dice struct {
	Formula string
	terms   []term
}

// UnmarshalText parses a formula. Limits: 100 dice and 1000 sides per term.
func (d *Dice) UnmarshalText(text []byte) error {
	formula := strings.ReplaceAll(string(text), " ", "")
	tokens := tokenRegex.FindAllString(formula, -1)
	if len(tokens) == 0 || strings.Join(tokens, "") != formula {
		return fmt.Errorf("can't parse formula %q", formula)
	}

	var terms []term
	op := "+"
	expectOperand := true
	for _, token := range tokens {
		if validOps[token] {
			if expectOperand {
				return errors.New("operator without operand")
			}
			op = token
			expectOperand = true
			continue
		}
		if !expectOperand {
			return errors.New("operand without operator")
		}

		t, err := parseTerm(token)
		if err != nil {
			return err
		}
		if op == "/" && t.count == 0 && t.value == 0 {
			return errors.New("division by zero")
		}
		t.op = op
		terms = append(terms, t)
		expectOperand = false
	}
	if expectOperand {
		return errors.New("formula ends with an operator")
	}

	d.Formula = formula
	d.terms = terms
	return nil
}

func parseTerm(token string) (term, error) {
	if m := diceRegex.FindStringSubmatch(token); m != nil {
		count := 1
		if m[1] != "" {
			n, err := strconv.Atoi(m[1])
			if err != nil || n < 1 {
				return term{}, errors.New("invalid dice count")
			}
			count = n
		}
		sides, err := strconv.Atoi(m[2])
		if err != nil || sides < 2 {
			return term{}, errors.New("invalid dice sides")
		}
		if count > 100 || sides > 1000 {
			return term{}, errors.New("too big. max 100 dice, 1000 sides")
		}
		return term{count: count, sides: sides}, nil
	}

	n, err := strconv.Atoi(token)
	if err != nil {
		return term{}, errors.New("not a number or dice")
	}
	return term{value: n}, nil
}

// Roll evaluates the formula with roll(n) returning 1..n. Multiplication and
// division bind tighter than addition and subtraction.
func (d Dice) Roll(roll func(sides int) int) (int, string) {
	type part struct {
		op    string
		value int
		desc  string
	}

	var merged []part
	for _, t := range d.terms {
		value, desc := t.value, strconv.Itoa(t.value)
		if t.count > 0 {
			value = 0
			rolls := make([]string, t.count)
			for i := range rolls {
				r := roll(t.sides)
				value += r
				rolls[i] = strconv.Itoa(r)
			}
			desc = fmt.Sprintf("%dd%d[%s]", t.count, t.sides, strings.Join(rolls, ","))
		}

		if (t.op == "*" || t.op == "/") && len(merged) > 0 {
			prev := &merged[len(merged)-1]
			if t.op == "*" {
				prev.value *= value
			} else if value != 0 {
				prev.value /= value
			}
			prev.desc += t.op + desc
			continue
		}
		merged = append(merged, part{op: t.op, value: value, desc: desc})
	}

	total := 0
	var details strings.Builder
	for i, p := range merged {
		if i > 0 {
			details.WriteString(" " + p.op + " ")
		}
		details.WriteString(p.desc)
		if p.op == "-" {
			total -= p.value
		} else {
			total += p.value
		}
	}
	return total, details.String()
}

type Roll struct {
	format *locale.Formatter
}

func (r *Roll) CommandName() string { return "roll" }

func (r *Roll) CommandVariants() []cmd.Variant {
	return []cmd.Variant{{
		Method: "Formula",
		Access: cmd.AccessFamilySharing,
		Args:   []cmd.Arg{{Name: "formula"}},
	}}
}

func (r *Roll) Formula(t cmd.Target, dice Dice) string {
	total, details := dice.Roll(func(n int) int { return rand.IntN(n) + 1 })
	return r.format.FormatForTarget(t, locale.MsgRolled, details, total)
}
