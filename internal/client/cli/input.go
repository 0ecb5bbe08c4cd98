package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dmitrijs2005/jobkeeper/internal/client/models"
	"github.com/dmitrijs2005/jobkeeper/internal/common"
	"github.com/shopspring/decimal"
	"golang.org/x/term"
)

// readPassword is replaced in tests so they never touch the terminal.
var readPassword = term.ReadPassword

// Ask shows prompt followed by a "> " marker and returns the answer without
// surrounding blanks. An unterminated last line of input is still an answer.
func Ask(r *bufio.Reader, prompt string, w io.Writer) (string, error) {
	if _, err := fmt.Fprintf(w, "%s\n> ", prompt); err != nil {
		return "", err
	}
	line, err := r.ReadString('\n')
	if err != nil && (!errors.Is(err, io.EOF) || line == "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// AskPassword reads the account password from the terminal with echo off.
// Callers wipe the result with common.WipeByteArray.
func AskPassword(w io.Writer) ([]byte, error) {
	if _, err := fmt.Fprint(w, "Password: "); err != nil {
		return nil, err
	}
	pw, err := readPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(w)
	if err != nil {
		return nil, err
	}
	return pw, nil
}

// AskNoteText collects a site note line by line. A blank line or the end of
// input closes it.
func AskNoteText(r *bufio.Reader, prompt string, w io.Writer) (string, error) {
	if _, err := fmt.Fprintf(w, "%s (blank line to finish)\n", prompt); err != nil {
		return "", err
	}

	var b strings.Builder
	for {
		line, err := r.ReadString('\n')
		line = strings.TrimRight(line, "\r\n")
		if line != "" {
			if b.Len() > 0 {
				b.WriteByte('\n')
			}
			b.WriteString(line)
		}
		if line == "" || err != nil {
			break
		}
	}
	return strings.TrimSpace(b.String()), nil
}

// AskField edits one text field of a job. The current value is offered in
// brackets and a blank answer keeps it.
func AskField(r *bufio.Reader, prompt, current string, w io.Writer) (string, error) {
	if current != "" {
		prompt = fmt.Sprintf("%s [%s]", prompt, current)
	}
	v, err := Ask(r, prompt, w)
	if err != nil {
		return "", err
	}
	return common.FirstNonEmpty(v, current), nil
}

// AskBudget edits a job budget. A blank answer keeps current; a zero current
// budget is not offered.
func AskBudget(r *bufio.Reader, current decimal.Decimal, w io.Writer) (decimal.Decimal, error) {
	def := ""
	if !current.IsZero() {
		def = current.String()
	}
	v, err := AskField(r, "Budget", def, w)
	if err != nil {
		return decimal.Zero, err
	}
	if v == "" {
		return decimal.Zero, nil
	}
	budget, err := decimal.NewFromString(strings.ReplaceAll(v, ",", "."))
	if err != nil {
		return decimal.Zero, fmt.Errorf("budget %q is not a number", v)
	}
	return budget, nil
}

// AskJobStatus edits the business status, offering pending for a new job.
func AskJobStatus(r *bufio.Reader, current models.JobStatus, w io.Writer) (models.JobStatus, error) {
	if current == "" {
		current = models.JobStatusPending
	}
	v, err := AskField(r, "Status (active, pending, completed)", string(current), w)
	if err != nil {
		return "", err
	}
	status, ok := models.ParseJobStatus(v)
	if !ok {
		return "", fmt.Errorf("unknown status %q", v)
	}
	return status, nil
}

// Confirm asks a yes/no question that defaults to no.
func Confirm(r *bufio.Reader, question string, w io.Writer) (bool, error) {
	v, err := Ask(r, question+" (y/N)", w)
	if err != nil {
		return false, err
	}
	switch strings.ToLower(v) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}
