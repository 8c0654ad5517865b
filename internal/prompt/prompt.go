package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/verte-zerg/soilwb/internal/balance"
)

// LinePrompt is printed when reading the soil type from a plain stream.
const LinePrompt = "Please enter the soil type ('deep' or 'shallow'): "

// ErrCancelled is returned when the user leaves the prompt without choosing.
var ErrCancelled = errors.New("soil selection cancelled")

// SelectSoil asks for a soil type: a picker on a terminal, a line prompt
// otherwise.
func SelectSoil(in *os.File, out io.Writer, params *balance.Params) (balance.Soil, error) {
	if term.IsTerminal(int(in.Fd())) {
		return runPicker(in, out, params)
	}
	return ReadSoil(in, out)
}

func runPicker(in io.Reader, out io.Writer, params *balance.Params) (balance.Soil, error) {
	m := NewModel(params)
	final, err := tea.NewProgram(m, tea.WithInput(in), tea.WithOutput(out)).Run()
	if err != nil {
		return "", fmt.Errorf("failed to run soil picker: %w", err)
	}
	picked, ok := final.(*Model)
	if !ok {
		return "", ErrCancelled
	}
	soil, ok := picked.Result()
	if !ok {
		return "", ErrCancelled
	}
	return soil, nil
}

// ReadSoil prints LinePrompt and parses one line from r.
func ReadSoil(r io.Reader, w io.Writer) (balance.Soil, error) {
	if _, err := io.WriteString(w, LinePrompt); err != nil {
		return "", err
	}
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("failed to read soil type: %w", err)
	}
	if errors.Is(err, io.EOF) && strings.TrimSpace(line) == "" {
		return "", ErrCancelled
	}
	return balance.ParseSoil(line)
}
