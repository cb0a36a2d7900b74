package calculator

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// State is the keypad's position in the input cycle.
type State int

const (
	Empty State = iota
	TypingFirstOperand
	// OperatorPending: left operand committed and operator chosen, nothing
	// typed for the right-hand side yet.
	OperatorPending
	TypingSecondOperand
	Evaluated
	ErrorDisplayed
)

func (s State) String() string {
	switch s {
	case Empty:
		return "empty"
	case TypingFirstOperand:
		return "typing_first_operand"
	case OperatorPending:
		return "operator_pending"
	case TypingSecondOperand:
		return "typing_second_operand"
	case Evaluated:
		return "evaluated"
	case ErrorDisplayed:
		return "error_displayed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *State) UnmarshalText(text []byte) error {
	for candidate := Empty; candidate <= ErrorDisplayed; candidate++ {
		if string(text) == candidate.String() {
			*s = candidate
			return nil
		}
	}
	return fmt.Errorf("unknown state %q", text)
}

// term is a committed operand as it was typed, followed by its operator.
type term struct {
	text string
	op   Operator
}

// Session is one calculator's input state. It is a synchronous reducer over
// key events and is not safe for concurrent use.
type Session struct {
	state State

	typed   string
	acc     float64
	hasAcc  bool
	pending Operator

	// terms is the committed part of the expression transcript. Its last
	// operator is always the pending one.
	terms   []term
	message string

	display string
}

// NewSession returns a session in the cleared state.
func NewSession() *Session {
	return &Session{}
}

// Snapshot is a read-only copy of a session's state.
type Snapshot struct {
	State              State    `json:"state"`
	Display            string   `json:"display"`
	TypedOperand       string   `json:"typed_operand"`
	AccumulatedOperand *float64 `json:"accumulated_operand"`
	PendingOperator    Operator `json:"pending_operator"`
	JustEvaluated      bool     `json:"just_evaluated"`
}

func (s *Session) Snapshot() Snapshot {
	snap := Snapshot{
		State:           s.state,
		Display:         s.display,
		TypedOperand:    s.typed,
		PendingOperator: s.pending,
		JustEvaluated:   s.state == Evaluated,
	}
	if s.hasAcc {
		acc := s.acc
		snap.AccumulatedOperand = &acc
	}
	return snap
}

// Display is the text to show after the last key.
func (s *Session) Display() string {
	return s.display
}

func (s *Session) State() State {
	return s.state
}

// Press applies one logical key. The returned error reports an arithmetic
// failure that has already been shown on the display, or an invalid key.
func (s *Session) Press(k Key) error {
	switch k.Kind {
	case KindDigit:
		if k.Digit < 0 || k.Digit > 9 {
			return fmt.Errorf("%w: digit %d", ErrInvalidKey, k.Digit)
		}
		s.Digit(k.Digit)
	case KindDecimal:
		s.Decimal()
	case KindClear:
		s.Clear()
	case KindToggleSign:
		s.ToggleSign()
	case KindPercent:
		s.Percent()
	case KindOperator:
		return s.SetOperator(k.Operator)
	case KindEquals:
		return s.Equals()
	default:
		return fmt.Errorf("%w: %s", ErrInvalidKey, k.Kind)
	}
	return nil
}

// Digit types d (0-9) into the current operand. Other values are ignored.
func (s *Session) Digit(d int) {
	if d < 0 || d > 9 {
		return
	}
	s.leaveResult()

	digit := strconv.Itoa(d)
	switch s.typed {
	case "0":
		s.typed = digit
	case "-0":
		s.typed = "-" + digit
	default:
		s.typed += digit
	}
	s.syncTyping()
}

// Decimal inserts the decimal point, at most once per operand.
func (s *Session) Decimal() {
	s.leaveResult()

	switch {
	case s.typed == "":
		s.typed = "0."
	case s.typed == "-":
		s.typed = "-0."
	case strings.Contains(s.typed, "."):
	default:
		s.typed += "."
	}
	s.syncTyping()
}

// Clear resets the session to its initial state.
func (s *Session) Clear() {
	s.reset()
	s.render()
}

// ToggleSign flips the sign of the typed operand. After a result it starts
// a new expression from that result.
func (s *Session) ToggleSign() {
	s.adoptResult()

	switch {
	case s.typed == "":
		s.typed = "-"
	case s.typed == "-":
		s.typed = ""
	case strings.HasPrefix(s.typed, "-"):
		s.typed = s.typed[1:]
	default:
		s.typed = "-" + s.typed
	}
	s.syncTyping()
}

// Percent divides the typed operand by 100, or the accumulated operand when
// nothing is typed. It neither commits nor evaluates.
func (s *Session) Percent() {
	s.adoptResult()

	if s.typed != "" && s.typed != "-" {
		x, err := strconv.ParseFloat(s.typed, 64)
		if err != nil || !isFinite(x) {
			return
		}
		s.typed = formatOperand(x / 100)
		s.syncTyping()
		return
	}

	if !s.hasAcc {
		s.render()
		return
	}

	// The transcript can no longer spell out how the accumulated value was
	// reached, so it collapses to the scaled value.
	s.acc /= 100
	s.terms = []term{{text: FormatNumber(s.acc), op: s.pending}}
	s.render()
}

// SetOperator chooses op as the pending operator. A pending operation with
// a typed right-hand side is resolved first, so chains reduce left to right.
func (s *Session) SetOperator(op Operator) error {
	if !op.Valid() {
		return &Error{Kind: UnknownOperator, Detail: op.String()}
	}

	if s.state == ErrorDisplayed {
		s.reset()
	}

	if s.state == Evaluated {
		result := s.acc
		s.reset()
		s.acc, s.hasAcc = result, true
		s.terms = []term{{text: FormatNumber(result), op: op}}
		s.pending = op
		s.state = OperatorPending
		s.render()
		return nil
	}

	typed := s.typed != "" && s.typed != "-"

	switch {
	case !typed && !s.hasAcc:
		// Nothing to attach the operator to yet.

	case !s.hasAcc:
		a, err := parseOperand(s.typed)
		if err != nil {
			return s.fail(err)
		}
		s.acc, s.hasAcc = a, true
		s.terms = []term{{text: s.typed, op: op}}
		s.typed = ""
		s.pending = op
		s.state = OperatorPending

	case typed:
		if err := s.commit(); err != nil {
			return s.fail(err)
		}
		s.terms = append(s.terms, term{text: s.typed, op: op})
		s.typed = ""
		s.pending = op
		s.state = OperatorPending

	default:
		s.terms[len(s.terms)-1].op = op
		s.pending = op
	}

	s.render()
	return nil
}

// commit folds the typed operand into the accumulated one using the
// pending operator.
func (s *Session) commit() error {
	b, err := parseOperand(s.typed)
	if err != nil {
		return err
	}
	result, err := Apply(s.acc, s.pending, b)
	if err != nil {
		return err
	}
	s.acc = result
	return nil
}

// Equals evaluates the display expression. On failure the display shows
// the failure's message and the returned error describes it.
func (s *Session) Equals() error {
	if s.state == ErrorDisplayed {
		s.reset()
		s.render()
		return nil
	}

	result, err := Evaluate(s.display)
	if errors.Is(err, ErrEmptyExpression) {
		return nil
	}
	if err != nil {
		return s.fail(err)
	}

	s.reset()
	s.acc, s.hasAcc = result, true
	s.state = Evaluated
	s.render()
	return nil
}

func (s *Session) fail(err error) error {
	s.reset()
	s.state = ErrorDisplayed
	s.message = DisplayMessage(err)
	s.render()
	return err
}

func (s *Session) reset() {
	*s = Session{}
}

// leaveResult starts a fresh expression when the last key produced a
// result or an error.
func (s *Session) leaveResult() {
	if s.state == Evaluated || s.state == ErrorDisplayed {
		s.reset()
	}
}

// adoptResult is leaveResult, but a shown result becomes the typed operand.
func (s *Session) adoptResult() {
	switch s.state {
	case Evaluated:
		result := formatOperand(s.acc)
		s.reset()
		s.typed = result
		s.state = TypingFirstOperand
	case ErrorDisplayed:
		s.reset()
	}
}

// syncTyping derives the state from the transcript after the typed operand
// changed, then re-renders.
func (s *Session) syncTyping() {
	switch {
	case len(s.terms) == 0 && s.typed == "":
		s.state = Empty
	case len(s.terms) == 0:
		s.state = TypingFirstOperand
	case s.typed == "":
		s.state = OperatorPending
	default:
		s.state = TypingSecondOperand
	}
	s.render()
}

// render rebuilds the display from the structured state.
func (s *Session) render() {
	switch s.state {
	case ErrorDisplayed:
		s.display = s.message
	case Evaluated:
		s.display = FormatNumber(s.acc)
	default:
		var b strings.Builder
		for _, t := range s.terms {
			b.WriteString(t.text)
			b.WriteString(" ")
			b.WriteString(t.op.Glyph())
			b.WriteString(" ")
		}
		b.WriteString(s.typed)
		s.display = b.String()
	}
}
