package input

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/op/go-logging"
)

var log = logging.MustGetLogger("log")

// Kind tells the caller what a timed read produced.
type Kind int

const (
	// Choice carries the trimmed text the operator confirmed with Enter.
	Choice Kind = iota
	// Continue means the wait timed out and the operator chose to keep going.
	Continue
	// Exit means the operator declined to continue or the input was closed.
	Exit
)

func (k Kind) String() string {
	switch k {
	case Choice:
		return "choice"
	case Continue:
		return "continue"
	case Exit:
		return "exit"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Result of a timed read. Value is only set for Choice and is not validated.
type Result struct {
	Kind  Kind
	Value string
}

// Controller reads one menu choice while enforcing a maximum wait.
type Controller interface {
	ReadWithTimeout(timeout time.Duration) (Result, error)
}

// LineReader is a blocking, line oriented reader without timeout.
type LineReader interface {
	ReadLine() (string, error)
}

var (
	yesAnswers = map[string]bool{"si": true, "sí": true, "s": true, "yes": true, "y": true}
	noAnswers  = map[string]bool{"no": true, "n": true}
)

func promptChoice(out io.Writer, timeout time.Duration) {
	fmt.Fprintf(out, "Select an option (you have %s): ", describe(timeout))
}

// askContinue is shown once per timeout and repeats only on answers it cannot
// interpret.
func askContinue(lines LineReader, out io.Writer) (Result, error) {
	fmt.Fprintln(out, "\nThe waiting time is over.")
	log.Infof("Menu wait timed out")
	for {
		fmt.Fprint(out, "Do you want to stay in the system? (yes/no): ")
		answer, err := lines.ReadLine()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return Result{Kind: Exit}, nil
			}
			return Result{}, err
		}
		answer = strings.ToLower(strings.TrimSpace(answer))
		switch {
		case yesAnswers[answer]:
			return Result{Kind: Continue}, nil
		case noAnswers[answer]:
			return Result{Kind: Exit}, nil
		default:
			fmt.Fprintln(out, "Invalid answer.")
		}
	}
}

func describe(d time.Duration) string {
	if d >= time.Minute && d%time.Minute == 0 {
		m := int(d / time.Minute)
		if m == 1 {
			return "1 minute"
		}
		return fmt.Sprintf("%d minutes", m)
	}
	if d%time.Second == 0 {
		s := int(d / time.Second)
		if s == 1 {
			return "1 second"
		}
		return fmt.Sprintf("%d seconds", s)
	}
	return d.String()
}
