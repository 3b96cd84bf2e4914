package circuit

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"qtermsim/quantum"
)

var (
	ErrSyntax          = errors.New("syntax error")
	ErrUnsupportedGate = errors.New("unsupported gate")
	ErrRegister        = errors.New("register error")
)

// ParseError locates a QASM problem.
type ParseError struct {
	Line int
	Text string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: %v: %q", e.Line, e.Err, e.Text)
}

func (e *ParseError) Unwrap() error { return e.Err }

var (
	regRegex     = regexp.MustCompile(`^(qreg|creg)\s+(\w+)\s*\[\s*(\d+)\s*\]$`)
	measureRegex = regexp.MustCompile(`^measure\s+(\w+)\s*\[\s*(\d+)\s*\]\s*->\s*(\w+)\s*\[\s*(\d+)\s*\]$`)
	gateRegex    = regexp.MustCompile(`^([A-Za-z][A-Za-z0-9]*)\s*(?:\(([^)]*)\))?\s+(.+)$`)
	operandRegex = regexp.MustCompile(`^(\w+)\s*\[\s*(\d+)\s*\]$`)
)

// aliases maps QASM spellings onto the names quantum.State.Apply knows.
var aliases = map[string]string{
	"u1":      "p",
	"cnot":    "cx",
	"toffoli": "ccx",
	"id":      "",
}

// Parse reads an OpenQASM 2.0 program restricted to a single qreg and at
// most one creg, the gates quantum.State.Apply supports, measure, reset and
// barrier. Comments and the include line are ignored.
func Parse(src string) (*Circuit, error) {
	p := parser{c: &Circuit{}}
	for i, raw := range strings.Split(src, "\n") {
		line := raw
		if idx := strings.Index(line, "//"); idx >= 0 {
			line = line[:idx]
		}
		for _, stmt := range strings.Split(line, ";") {
			stmt = strings.TrimSpace(stmt)
			if stmt == "" {
				continue
			}
			if err := p.statement(stmt, i+1); err != nil {
				return nil, &ParseError{Line: i + 1, Text: stmt, Err: err}
			}
		}
	}
	if p.qreg == "" {
		return nil, fmt.Errorf("%w: no qreg declared", ErrRegister)
	}
	return p.c, nil
}

type parser struct {
	c    *Circuit
	qreg string
	creg string
}

func (p *parser) statement(stmt string, line int) error {
	lower := strings.ToLower(stmt)
	switch {
	case strings.HasPrefix(lower, "openqasm"), strings.HasPrefix(lower, "include"):
		return nil
	case strings.HasPrefix(lower, "qreg"), strings.HasPrefix(lower, "creg"):
		return p.register(stmt)
	case strings.HasPrefix(lower, "barrier"):
		if p.qreg == "" {
			return ErrRegister
		}
		p.c.Gates = append(p.c.Gates, Gate{Type: TypeBarrier, Target: -1, Cbit: -1, Line: line})
		return nil
	case strings.HasPrefix(lower, "measure"):
		return p.measure(stmt, line)
	}

	m := gateRegex.FindStringSubmatch(stmt)
	if m == nil {
		return ErrSyntax
	}
	name := strings.ToLower(m[1])
	operands, err := p.operands(m[3])
	if err != nil {
		return err
	}

	if name == TypeReset {
		if len(operands) != 1 {
			return fmt.Errorf("%w: reset takes one qubit", ErrSyntax)
		}
		p.c.Gates = append(p.c.Gates, Gate{Type: TypeReset, Target: operands[0], Cbit: -1, Line: line})
		return nil
	}

	if alias, ok := aliases[name]; ok {
		if alias == "" {
			return nil
		}
		name = alias
	}
	n := quantum.Arity(name)
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrUnsupportedGate, name)
	}
	if len(operands) != n {
		return fmt.Errorf("%w: %s takes %d qubits, got %d", ErrSyntax, name, n, len(operands))
	}

	g := Gate{
		Type:     name,
		Target:   operands[n-1],
		Controls: operands[:n-1],
		Cbit:     -1,
		Line:     line,
	}
	if len(g.Controls) == 0 {
		g.Controls = nil
	}
	if quantum.Parameterized(name) {
		params := ParseAngles(m[2])
		if len(params) != 1 {
			return fmt.Errorf("%w: %s needs one angle, got %q", ErrSyntax, name, m[2])
		}
		g.Params = params
	} else if strings.TrimSpace(m[2]) != "" {
		return fmt.Errorf("%w: %s takes no parameters", ErrSyntax, name)
	}
	p.c.Gates = append(p.c.Gates, g)
	return nil
}

func (p *parser) register(stmt string) error {
	m := regRegex.FindStringSubmatch(stmt)
	if m == nil {
		return ErrSyntax
	}
	size, err := strconv.Atoi(m[3])
	if err != nil || size < 1 {
		return fmt.Errorf("%w: bad size %q", ErrRegister, m[3])
	}
	if m[1] == "qreg" {
		if p.qreg != "" {
			return fmt.Errorf("%w: only one qreg is supported", ErrRegister)
		}
		p.qreg = m[2]
		p.c.NumQubits = size
		return nil
	}
	if p.creg != "" {
		return fmt.Errorf("%w: only one creg is supported", ErrRegister)
	}
	p.creg = m[2]
	p.c.NumCbits = size
	return nil
}

func (p *parser) measure(stmt string, line int) error {
	m := measureRegex.FindStringSubmatch(stmt)
	if m == nil {
		return ErrSyntax
	}
	if m[1] != p.qreg || p.qreg == "" {
		return fmt.Errorf("%w: unknown qreg %q", ErrRegister, m[1])
	}
	if m[3] != p.creg || p.creg == "" {
		return fmt.Errorf("%w: unknown creg %q", ErrRegister, m[3])
	}
	q, _ := strconv.Atoi(m[2])
	cbit, _ := strconv.Atoi(m[4])
	if q >= p.c.NumQubits {
		return fmt.Errorf("%w: q[%d] outside qreg of %d", ErrRegister, q, p.c.NumQubits)
	}
	if cbit >= p.c.NumCbits {
		return fmt.Errorf("%w: c[%d] outside creg of %d", ErrRegister, cbit, p.c.NumCbits)
	}
	p.c.Gates = append(p.c.Gates, Gate{Type: TypeMeasure, Target: q, Cbit: cbit, Line: line})
	return nil
}

// operands parses "q[0], q[1]" into qubit indices of the declared qreg.
func (p *parser) operands(s string) ([]int, error) {
	if p.qreg == "" {
		return nil, fmt.Errorf("%w: gate before qreg", ErrRegister)
	}
	var qubits []int
	for _, part := range strings.Split(s, ",") {
		m := operandRegex.FindStringSubmatch(strings.TrimSpace(part))
		if m == nil {
			return nil, fmt.Errorf("%w: bad operand %q", ErrSyntax, part)
		}
		if m[1] != p.qreg {
			return nil, fmt.Errorf("%w: unknown qreg %q", ErrRegister, m[1])
		}
		q, _ := strconv.Atoi(m[2])
		if q >= p.c.NumQubits {
			return nil, fmt.Errorf("%w: %s[%d] outside qreg of %d", ErrRegister, m[1], q, p.c.NumQubits)
		}
		qubits = append(qubits, q)
	}
	return qubits, nil
}

// QASM writes the circuit as OpenQASM 2.0 with registers named q and c.
func (c *Circuit) QASM() string {
	var sb strings.Builder
	sb.WriteString("OPENQASM 2.0;\n")
	sb.WriteString("include \"qelib1.inc\";\n\n")
	fmt.Fprintf(&sb, "qreg q[%d];\n", max(c.NumQubits, 1))
	if c.NumCbits > 0 {
		fmt.Fprintf(&sb, "creg c[%d];\n", c.NumCbits)
	}
	sb.WriteString("\n")

	for _, g := range c.Gates {
		switch g.Type {
		case TypeBarrier:
			qubits := make([]string, max(c.NumQubits, 1))
			for q := range qubits {
				qubits[q] = fmt.Sprintf("q[%d]", q)
			}
			fmt.Fprintf(&sb, "barrier %s;\n", strings.Join(qubits, ", "))
		case TypeMeasure:
			fmt.Fprintf(&sb, "measure q[%d] -> c[%d];\n", g.Target, g.Cbit)
		case TypeReset:
			fmt.Fprintf(&sb, "reset q[%d];\n", g.Target)
		default:
			sb.WriteString(g.Type)
			if len(g.Params) > 0 {
				params := make([]string, len(g.Params))
				for i, v := range g.Params {
					params[i] = FormatAngle(v)
				}
				fmt.Fprintf(&sb, "(%s)", strings.Join(params, ", "))
			}
			for i, q := range g.Qubits() {
				if i == 0 {
					sb.WriteString(" ")
				} else {
					sb.WriteString(", ")
				}
				fmt.Fprintf(&sb, "q[%d]", q)
			}
			sb.WriteString(";\n")
		}
	}
	return sb.String()
}
