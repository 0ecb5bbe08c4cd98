package cli

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/dmitrijs2005/jobkeeper/internal/client/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rdr(s string) *bufio.Reader {
	return bufio.NewReader(strings.NewReader(s))
}

func TestAsk(t *testing.T) {
	var out bytes.Buffer
	got, err := Ask(rdr("  Riga \n"), "City", &out)
	require.NoError(t, err)
	assert.Equal(t, "Riga", got)
	assert.Equal(t, "City\n> ", out.String())

	got, err = Ask(rdr("Tallinn"), "City", &out)
	require.NoError(t, err)
	assert.Equal(t, "Tallinn", got)

	_, err = Ask(rdr(""), "City", &out)
	require.ErrorIs(t, err, io.EOF)
}

func TestAskNoteText(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "blank line ends", input: "roof leaks\nnear chimney\n\nignored\n", want: "roof leaks\nnear chimney"},
		{name: "end of input ends", input: "tiles ordered", want: "tiles ordered"},
		{name: "crlf", input: "a\r\nb\r\n\r\n", want: "a\nb"},
		{name: "empty", input: "\n", want: ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var out bytes.Buffer
			got, err := AskNoteText(rdr(tc.input), "Note text", &out)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestAskPassword_Error(t *testing.T) {
	old := readPassword
	defer func() { readPassword = old }()
	readPassword = func(int) ([]byte, error) {
		return nil, errors.New("no tty")
	}
	var out bytes.Buffer
	_, err := AskPassword(&out)
	require.Error(t, err)
	assert.Equal(t, "Password: \n", out.String())
}

func TestAskField(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		current string
		want    string
	}{
		{name: "blank keeps current", input: "\n", current: "Kitchen", want: "Kitchen"},
		{name: "spaces keep current", input: "   \n", current: "Kitchen", want: "Kitchen"},
		{name: "new value wins", input: "Bathroom\n", current: "Kitchen", want: "Bathroom"},
		{name: "no current", input: "\n", current: "", want: ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var out bytes.Buffer
			got, err := AskField(rdr(tc.input), "Title", tc.current, &out)
			require.NoError(t, err)
			require.Equal(t, tc.want, got)
			if tc.current != "" {
				require.Contains(t, out.String(), "["+tc.current+"]")
			}
		})
	}
}

func TestAskBudget(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		current decimal.Decimal
		want    string
		wantErr string
	}{
		{name: "plain", input: "120.50\n", want: "120.5"},
		{name: "decimal comma", input: "99,90\n", want: "99.9"},
		{name: "blank keeps current", input: "\n", current: decimal.NewFromInt(500), want: "500"},
		{name: "blank without current", input: "\n", want: "0"},
		{name: "not a number", input: "lots\n", wantErr: "not a number"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var out bytes.Buffer
			got, err := AskBudget(rdr(tc.input), tc.current, &out)
			if tc.wantErr != "" {
				require.ErrorContains(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.True(t, decimal.RequireFromString(tc.want).Equal(got), "got %s", got)
		})
	}
}

func TestAskJobStatus(t *testing.T) {
	var out bytes.Buffer
	got, err := AskJobStatus(rdr("\n"), "", &out)
	require.NoError(t, err)
	assert.Equal(t, models.JobStatusPending, got)
	assert.Contains(t, out.String(), "[pending]")

	got, err = AskJobStatus(rdr("Completed\n"), models.JobStatusActive, &out)
	require.NoError(t, err)
	assert.Equal(t, models.JobStatusCompleted, got)

	_, err = AskJobStatus(rdr("someday\n"), models.JobStatusActive, &out)
	require.ErrorContains(t, err, "unknown status")
}

func TestConfirm(t *testing.T) {
	for input, want := range map[string]bool{"y\n": true, "YES\n": true, "n\n": false, "\n": false, "maybe\n": false} {
		var out bytes.Buffer
		got, err := Confirm(rdr(input), "Wipe local data?", &out)
		require.NoError(t, err)
		assert.Equal(t, want, got, "input %q", input)
		assert.Contains(t, out.String(), "(y/N)")
	}
}
